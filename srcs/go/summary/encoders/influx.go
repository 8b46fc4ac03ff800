package encoders

import (
	"time"

	"github.com/influxdata/line-protocol/v2/lineprotocol"
)

// InfluxStrategy implements InfluxDB line protocol encoding
type InfluxStrategy struct {
	enc *lineprotocol.Encoder
}

func NewInfluxStrategy() *InfluxStrategy {
	enc := lineprotocol.Encoder{}
	enc.SetPrecision(lineprotocol.Millisecond)
	enc.SetLax(true)
	return &InfluxStrategy{enc: &enc}
}

func (s *InfluxStrategy) StartLine(measurement string) {
	s.enc.StartLine(measurement)
}

func (s *InfluxStrategy) AddTag(key, value string) {
	s.enc.AddTag(key, value)
}

func (s *InfluxStrategy) AddField(key string, value any) {
	s.enc.AddField(key, lineprotocol.MustNewValue(value))
}

func (s *InfluxStrategy) EndLine(timestamp time.Time) {
	s.enc.EndLine(timestamp)
}

// Bytes returns the lines encoded since the last call.
func (s *InfluxStrategy) Bytes() []byte {
	bs := append([]byte(nil), s.enc.Bytes()...)
	s.enc.Reset()
	return bs
}

func (s *InfluxStrategy) Err() error {
	return s.enc.Err()
}
