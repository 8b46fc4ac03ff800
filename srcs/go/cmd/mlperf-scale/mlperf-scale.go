package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/volumez/mlperf-scale/srcs/go/benchmark"
	"github.com/volumez/mlperf-scale/srcs/go/config"
	"github.com/volumez/mlperf-scale/srcs/go/log"
	"github.com/volumez/mlperf-scale/srcs/go/plan"
	"github.com/volumez/mlperf-scale/srcs/go/scaling"
	"github.com/volumez/mlperf-scale/srcs/go/summary"
	"github.com/volumez/mlperf-scale/srcs/go/utils"
	"github.com/volumez/mlperf-scale/srcs/go/utils/runner/local"
)

func main() {
	hosts, err := plan.HostListFromEnv()
	if errors.Is(err, plan.ErrNoHosts) {
		fmt.Println(err)
		return
	}
	if err != nil {
		utils.ExitErr(err)
	}

	var f scaling.FlagSet
	if err := f.Parse(os.Args, len(hosts)); err != nil {
		utils.ExitErr(err)
	}
	os.Exit(run(hosts, f))
}

// run returns the exit status so that the deferred closes of the report
// and log files happen before the process exits.
func run(hosts plan.HostList, f scaling.FlagSet) int {
	log.SetFlags(log.ShowWallClock)
	if len(f.Logfile) > 0 {
		defer log.TeeToFile(f.Logfile).Close()
	}
	if f.Quiet {
		log.SetLevel(log.Warn)
	} else {
		utils.LogArgs()
		utils.LogScaleEnv()
	}

	t0 := time.Now()
	defer func(prog string) { log.Infof("%s finished, took %s", prog, time.Since(t0)) }(utils.ProgName())

	sizes, tpl, err := prepare(f)
	if err != nil {
		log.Errorf("%v", err)
		return 1
	}
	log.Debugf("%d hosts, planned cluster sizes: %s", len(hosts), sizes)

	d := &scaling.Driver{
		Hosts: hosts,
		Tool: benchmark.Tool{
			Template: *tpl,
			Executor: local.Runner{LogDir: f.LogDir},
		},
		AccPerHost:  f.Acc,
		Readers:     f.Readers,
		OutDir:      f.OutDir,
		DryRun:      f.DryRun,
		Epochs:      f.Epochs,
		NumFiles:    f.NumFiles,
		ExtraParams: f.Params,
		SweepID:     shortuuid.New(),
	}
	if f.Preflight {
		d.Preflight = scaling.SSHChecker{User: f.User, KeyFile: f.KeyFile}
	}
	if len(f.Report) > 0 && !f.DryRun {
		rf, err := os.OpenFile(f.Report, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			log.Errorf("%v", err)
			return 1
		}
		defer rf.Close()
		d.Reporter = summary.NewReporter(rf, f.ReportFormat)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	utils.Trap(func(sig os.Signal) {
		log.Warnf("cancelled by %s", sig)
		cancel()
	})

	results, err := d.Run(ctx, sizes)
	if err != nil {
		log.Errorf("sweep %s aborted after %s: %v", d.SweepID, utils.Pluralize(len(results), "run", "runs"), err)
		return 1
	}
	if !f.DryRun {
		log.Infof("sweep %s finished %s", d.SweepID, utils.Pluralize(len(results), "run", "runs"))
	}
	return 0
}

func prepare(f scaling.FlagSet) (plan.Sizes, *config.Template, error) {
	sizes, err := f.Plan()
	if err != nil {
		return nil, nil, err
	}
	tpl, err := config.LoadTemplate(f.ConfigFile)
	if err != nil {
		return nil, nil, err
	}
	if err := config.ApplyOverrides(tpl, f.Sets); err != nil {
		return nil, nil, err
	}
	if err := tpl.Validate(); err != nil {
		return nil, nil, err
	}
	return sizes, tpl, nil
}
