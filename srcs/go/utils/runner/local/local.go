package local

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"

	"github.com/volumez/mlperf-scale/srcs/go/log"
	"github.com/volumez/mlperf-scale/srcs/go/proc"
	"github.com/volumez/mlperf-scale/srcs/go/utils/iostream"
)

// Runner runs processes on the local machine, one at a time. Stdout goes to
// the console and stderr is dropped; when LogDir is set both streams are also
// saved under LogDir.
type Runner struct {
	LogDir  string
	Console *iostream.StdWriters
}

func (r Runner) console() *iostream.StdWriters {
	if r.Console != nil {
		return r.Console
	}
	return &iostream.StdoutOnly
}

// Run a process with context and wait for it to exit.
func (r Runner) Run(ctx context.Context, p proc.Proc) error {
	redirectors := []*iostream.StdWriters{r.console()}
	if len(r.LogDir) > 0 && len(p.Name) > 0 {
		fr := iostream.NewFileRedirector(filepath.Join(r.LogDir, p.Name))
		defer fr.Close()
		redirectors = append(redirectors, fr)
	}
	log.Debugf("running %s", p.CmdLine())
	return runWith(redirectors, p.Cmd(ctx))
}

// Output runs a process and returns its stdout; stderr is discarded.
func (r Runner) Output(ctx context.Context, p proc.Proc) ([]byte, error) {
	stdout := &bytes.Buffer{}
	redirectors := []*iostream.StdWriters{{Stdout: stdout, Stderr: &iostream.Null{}}}
	log.Debugf("running %s", p.CmdLine())
	err := runWith(redirectors, p.Cmd(ctx))
	return stdout.Bytes(), err
}

func runWith(redirectors []*iostream.StdWriters, cmd *exec.Cmd) error {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	defer stdout.Close()
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	defer stderr.Close()
	results := iostream.StdReaders{Stdout: stdout, Stderr: stderr}
	if err := cmd.Start(); err != nil {
		return err
	}
	ioDone := results.Stream(redirectors...)
	ioDone.Wait() // call this before cmd.Wait!
	return cmd.Wait()
}
