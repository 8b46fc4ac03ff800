package encoders

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonKeepsInsertionOrder(t *testing.T) {
	enc := NewJsonStrategy()
	enc.StartLine("m")
	enc.AddTag("workload", "unet3d")
	enc.AddTag("accelerator_type", "h100")
	enc.AddField("z", 1)
	enc.AddField("a", "x")
	enc.EndLine(time.UnixMilli(0))
	require.NoError(t, enc.Err())
	assert.Equal(t, `{"measurement":"m","time_ms":0,"tags":{"workload":"unet3d","accelerator_type":"h100"},"fields":{"z":1,"a":"x"}}`+"\n", string(enc.Bytes()))

	enc.StartLine("m")
	enc.EndLine(time.UnixMilli(0))
	assert.Equal(t, `{"measurement":"m","time_ms":0,"tags":{},"fields":{}}`+"\n", string(enc.Bytes()))
}

func TestEncoders(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	tests := []struct {
		name   string
		format string
		check  func(t *testing.T, out string)
	}{
		{
			name:   "influx encoder",
			format: FormatInflux,
			check: func(t *testing.T, out string) {
				assert.Equal(t, "mlperf_scale_run,sweep=abc hosts=4i,util=96.5 1700000000123\n", out)
			},
		},
		{
			name:   "json encoder",
			format: FormatJson,
			check: func(t *testing.T, out string) {
				assert.Equal(t, `{"measurement":"mlperf_scale_run","time_ms":1700000000123,"tags":{"sweep":"abc"},"fields":{"hosts":4,"util":96.5}}`+"\n", out)
			},
		},
		{
			name:   "unknown format defaults to json",
			format: "csv",
			check: func(t *testing.T, out string) {
				assert.True(t, strings.HasPrefix(out, `{"measurement":"mlperf_scale_run"`))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := NewEncoder(tt.format)
			enc.StartLine("mlperf_scale_run")
			enc.AddTag("sweep", "abc")
			enc.AddField("hosts", int64(4))
			enc.AddField("util", 96.5)
			enc.EndLine(ts)
			require.NoError(t, enc.Err())
			tt.check(t, string(enc.Bytes()))
			assert.Empty(t, enc.Bytes(), "Bytes drains the buffer")
		})
	}
}
