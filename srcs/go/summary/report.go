package summary

import (
	"io"
	"sort"
	"time"

	"github.com/volumez/mlperf-scale/srcs/go/summary/encoders"
)

const Measurement = `mlperf_scale_run`

// Record is one finished run as written to the report.
type Record struct {
	SweepID         string
	Workload        string
	AcceleratorType string
	Hosts           int
	Accelerators    int
	NumFiles        int
	Summary         Summary
	Time            time.Time
}

// Reporter appends records to w in the chosen encoding, one line per run.
type Reporter struct {
	w   io.Writer
	enc encoders.Strategy
}

func NewReporter(w io.Writer, format string) *Reporter {
	return &Reporter{w: w, enc: encoders.NewEncoder(format)}
}

func (r *Reporter) Write(rec Record) error {
	r.enc.StartLine(Measurement)
	r.enc.AddTag(`accelerator_type`, rec.AcceleratorType)
	r.enc.AddTag(`sweep_id`, rec.SweepID)
	r.enc.AddTag(`workload`, rec.Workload)
	r.enc.AddField(`hosts`, int64(rec.Hosts))
	r.enc.AddField(`accelerators`, int64(rec.Accelerators))
	r.enc.AddField(`num_files`, int64(rec.NumFiles))
	fields := rec.Summary.Fields()
	var keys []string
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.enc.AddField(k, fields[k])
	}
	r.enc.EndLine(rec.Time)
	if err := r.enc.Err(); err != nil {
		return err
	}
	_, err := r.w.Write(r.enc.Bytes())
	return err
}
