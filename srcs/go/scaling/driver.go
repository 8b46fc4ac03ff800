// Package scaling runs the benchmark once per planned cluster size and
// collects the summary of every run.
package scaling

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/volumez/mlperf-scale/srcs/go/benchmark"
	"github.com/volumez/mlperf-scale/srcs/go/log"
	"github.com/volumez/mlperf-scale/srcs/go/plan"
	"github.com/volumez/mlperf-scale/srcs/go/summary"
	"github.com/volumez/mlperf-scale/srcs/go/utils"
)

// Driver runs a sweep strictly sequentially: one benchmark invocation at a
// time, in ascending cluster size order.
type Driver struct {
	Hosts       plan.HostList
	Tool        benchmark.Tool
	AccPerHost  int
	Readers     int
	OutDir      string
	DryRun      bool
	Epochs      *int
	NumFiles    int // skips the datasize query when positive
	ExtraParams []string

	Preflight Checker
	Reporter  *summary.Reporter
	SweepID   string
	Stdout    io.Writer
}

// Result is the outcome of one finished run.
type Result struct {
	Size     int
	NumFiles int
	Took     time.Duration
	Summary  summary.Summary
}

func (d *Driver) stdout() io.Writer {
	if d.Stdout != nil {
		return d.Stdout
	}
	return os.Stdout
}

// Run benchmarks every size in sizes. The first error aborts the remaining
// sizes; results of the sizes finished before it are returned with it.
func (d *Driver) Run(ctx context.Context, sizes plan.Sizes) ([]Result, error) {
	var results []Result
	for _, i := range sizes {
		r, err := d.runOne(ctx, i)
		if err != nil {
			return results, errors.Wrapf(err, "cluster size %d", i)
		}
		if r != nil {
			results = append(results, *r)
		}
	}
	return results, nil
}

func (d *Driver) numFiles(ctx context.Context, nodes int) (int, error) {
	if d.NumFiles > 0 {
		return d.NumFiles, nil
	}
	return d.Tool.NumFiles(ctx, d.AccPerHost, nodes)
}

func (d *Driver) runOne(ctx context.Context, i int) (*Result, error) {
	hosts := d.Hosts.Prefix(i)
	if len(hosts) < i {
		log.Warnf("only %s available for cluster size %d", utils.Pluralize(len(hosts), "host", "hosts"), i)
	}
	gpus := d.AccPerHost * i
	files, err := d.numFiles(ctx, i)
	if err != nil {
		return nil, err
	}
	resultsDir := filepath.Join(d.OutDir, strconv.Itoa(i))
	p := benchmark.RunProc(d.Tool.Template, benchmark.RunParams{
		Size:        i,
		Hosts:       hosts,
		AccPerHost:  d.AccPerHost,
		Readers:     d.Readers,
		ResultsDir:  resultsDir,
		NumFiles:    files,
		Epochs:      d.Epochs,
		ExtraParams: d.ExtraParams,
	})
	fmt.Fprintf(d.stdout(), "\nCommand to run mlperf with %d instances and %d gpus (%d files):\n%s\n", i, gpus, files, p.CmdLine())
	if d.DryRun {
		return nil, nil
	}

	if d.Preflight != nil {
		if err := d.Preflight.Check(ctx, hosts); err != nil {
			return nil, err
		}
	}
	log.Infof("Running mlperf with %d instances and %d gpus. Number of files: %d", i, gpus, files)
	took, err := utils.Measure(func() error { return d.Tool.Run(ctx, p) })
	if err != nil {
		return nil, err
	}
	log.Infof("mlperf with %d instances and %d gpus is done, took %s", i, gpus, took)

	s, err := summary.ReadFile(summary.Path(d.OutDir, i))
	if err != nil {
		return nil, err
	}
	s.Report(d.stdout())
	if d.Reporter != nil {
		rec := summary.Record{
			SweepID:         d.SweepID,
			Workload:        d.Tool.Template.Workload,
			AcceleratorType: d.Tool.Template.AcceleratorType,
			Hosts:           i,
			Accelerators:    gpus,
			NumFiles:        files,
			Summary:         *s,
			Time:            time.Now(),
		}
		if err := d.Reporter.Write(rec); err != nil {
			log.Errorf("failed to write report record for %d hosts: %v", i, err)
		}
	}
	return &Result{Size: i, NumFiles: files, Took: took, Summary: *s}, nil
}
