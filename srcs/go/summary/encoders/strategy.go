package encoders

import "time"

const (
	FormatInflux = `influx`
	FormatJson   = `json`
)

// Strategy defines the interface for different encoding strategies
type Strategy interface {
	StartLine(measurement string)
	AddTag(key, value string)
	AddField(key string, value any)
	EndLine(timestamp time.Time)
	Bytes() []byte
	Err() error
}

// NewEncoder returns the strategy for format, json for anything unknown.
func NewEncoder(format string) Strategy {
	switch format {
	case FormatInflux:
		return NewInfluxStrategy()
	default:
		return NewJsonStrategy()
	}
}
