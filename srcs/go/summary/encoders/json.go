package encoders

import (
	"bytes"
	"encoding/json"
	"time"
)

type keyValue struct {
	key   string
	value any
}

// orderedObject marshals to a JSON object whose keys keep insertion order.
type orderedObject []keyValue

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(kv.key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(kv.value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type jsonRecord struct {
	Measurement string        `json:"measurement"`
	TimeMs      int64         `json:"time_ms"`
	Tags        orderedObject `json:"tags"`
	Fields      orderedObject `json:"fields"`
}

// JsonStrategy writes one JSON object per line. Tags and fields appear in
// the order they were added, so report lines diff cleanly.
type JsonStrategy struct {
	rec     jsonRecord
	buf     bytes.Buffer
	lastErr error
}

func NewJsonStrategy() *JsonStrategy {
	return &JsonStrategy{}
}

func (s *JsonStrategy) StartLine(measurement string) {
	s.rec = jsonRecord{Measurement: measurement}
}

func (s *JsonStrategy) AddTag(key, value string) {
	s.rec.Tags = append(s.rec.Tags, keyValue{key, value})
}

func (s *JsonStrategy) AddField(key string, value any) {
	s.rec.Fields = append(s.rec.Fields, keyValue{key, value})
}

func (s *JsonStrategy) EndLine(timestamp time.Time) {
	s.rec.TimeMs = timestamp.UnixMilli()
	bs, err := json.Marshal(s.rec)
	if err != nil {
		s.lastErr = err
		return
	}
	s.buf.Write(bs)
	s.buf.WriteByte('\n')
}

// Bytes returns the lines encoded so far and empties the buffer.
func (s *JsonStrategy) Bytes() []byte {
	bs := bytes.Clone(s.buf.Bytes())
	s.buf.Reset()
	return bs
}

func (s *JsonStrategy) Err() error {
	return s.lastErr
}
