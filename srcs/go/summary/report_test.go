package summary

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volumez/mlperf-scale/srcs/go/summary/encoders"
)

func TestReporter(t *testing.T) {
	rec := Record{
		SweepID:         "sweep1",
		Workload:        "unet3d",
		AcceleratorType: "h100",
		Hosts:           4,
		Accelerators:    12,
		NumFiles:        4096,
		Summary:         Summary{GPUUtilMean: 97.2, GPUUtilStd: 0.5},
		Time:            time.UnixMilli(1700000000000),
	}

	buf := &bytes.Buffer{}
	r := NewReporter(buf, encoders.FormatInflux)
	require.NoError(t, r.Write(rec))
	rec.Hosts = 8
	require.NoError(t, r.Write(rec))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "mlperf_scale_run,accelerator_type=h100,sweep_id=sweep1,workload=unet3d hosts=4i,accelerators=12i,num_files=4096i,"))
	assert.Contains(t, lines[0], "train_au_mean_percentage=97.2")
	assert.Contains(t, lines[1], "hosts=8i")
	assert.True(t, strings.HasSuffix(lines[1], " 1700000000000"))
}
