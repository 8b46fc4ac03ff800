// Package benchmark describes the command line contract of the external
// benchmark program: the datasize sub-command that sizes the training
// dataset for a cluster, and the run sub-command that trains and writes
// summary.json into its results directory.
package benchmark

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/volumez/mlperf-scale/srcs/go/config"
	"github.com/volumez/mlperf-scale/srcs/go/log"
	"github.com/volumez/mlperf-scale/srcs/go/plan"
	"github.com/volumez/mlperf-scale/srcs/go/proc"
)

var (
	ErrNumFilesNotFound = errors.New("Number of files not found in the output")

	numFilesPattern = regexp.MustCompile(`dataset\.num_files_train=(\d+)`)
)

// Executor runs benchmark processes synchronously.
type Executor interface {
	// Output returns the stdout of p; stderr is suppressed.
	Output(ctx context.Context, p proc.Proc) ([]byte, error)
	// Run streams the stdout of p to the console; stderr is suppressed.
	Run(ctx context.Context, p proc.Proc) error
}

// RunParams are the per cluster size inputs of a run invocation.
type RunParams struct {
	Size        int
	Hosts       plan.HostList
	AccPerHost  int
	Readers     int
	ResultsDir  string
	NumFiles    int
	Epochs      *int
	ExtraParams []string
}

func (p RunParams) NumAccelerators() int {
	return p.AccPerHost * p.Size
}

func DatasizeProc(tpl config.Template, acc, nodes int) proc.Proc {
	return proc.Proc{
		Name: fmt.Sprintf("datasize-%d", nodes),
		Prog: tpl.Program,
		Args: []string{`datasize`,
			`--workload`, tpl.Workload,
			`--accelerator-type`, tpl.AcceleratorType,
			`--num-accelerators`, strconv.Itoa(acc * nodes),
			`--num-client-hosts`, strconv.Itoa(nodes),
			`--client-host-memory-in-gb`, strconv.Itoa(tpl.ClientHostMemoryGB),
		},
	}
}

func RunProc(tpl config.Template, p RunParams) proc.Proc {
	param := func(k string, v interface{}) []string {
		return []string{`--param`, fmt.Sprintf("%s=%v", k, v)}
	}
	args := []string{`run`,
		`--hosts`, p.Hosts.String(),
		`--workload`, tpl.Workload,
		`--accelerator-type`, tpl.AcceleratorType,
		`--num-accelerators`, strconv.Itoa(p.NumAccelerators()),
		`--results-dir`, p.ResultsDir,
	}
	args = append(args, param(`dataset.data_folder`, tpl.DataFolder)...)
	args = append(args, param(`dataset.num_files_train`, p.NumFiles)...)
	args = append(args, param(`reader.read_threads`, p.Readers)...)
	args = append(args, param(`dataset.num_subfolders_train`, tpl.NumSubfoldersTrain)...)
	args = append(args, param(`checkpoint.checkpoint_folder`, tpl.CheckpointFolder)...)
	if p.Epochs != nil && *p.Epochs > 0 {
		args = append(args, param(`train.epochs`, *p.Epochs)...)
	}
	for _, kv := range p.ExtraParams {
		args = append(args, `--param`, kv)
	}
	return proc.Proc{
		Name: strconv.Itoa(p.Size),
		Prog: tpl.Program,
		Args: args,
	}
}

// ParseNumFiles extracts the value of dataset.num_files_train from the
// output of the datasize sub-command.
func ParseNumFiles(output string) (int, error) {
	m := numFilesPattern.FindStringSubmatch(output)
	if m == nil {
		return 0, ErrNumFilesNotFound
	}
	return strconv.Atoi(m[1])
}

// ValidateParam checks an extra --param value has the key=value form.
func ValidateParam(kv string) error {
	if k, _, ok := strings.Cut(kv, "="); !ok || len(k) == 0 {
		return fmt.Errorf("invalid param %q, expect key=value", kv)
	}
	return nil
}

// Tool drives the benchmark program through an Executor.
type Tool struct {
	Template config.Template
	Executor Executor
}

// NumFiles asks the datasize sub-command how many training files a cluster
// of the given shape needs. The exit status is ignored; only the output
// decides.
func (t Tool) NumFiles(ctx context.Context, acc, nodes int) (int, error) {
	p := DatasizeProc(t.Template, acc, nodes)
	out, err := t.Executor.Output(ctx, p)
	if err != nil && !isExitError(err) {
		return 0, err
	}
	if err != nil {
		log.Debugf("%s exited with %v", p.Name, err)
	}
	n, perr := ParseNumFiles(string(out))
	if perr != nil {
		return 0, fmt.Errorf("%s for %d nodes: %w", p.Name, nodes, perr)
	}
	return n, nil
}

// Run invokes the run sub-command and blocks until it exits. A non-zero exit
// status is only logged: the caller finds out from the missing summary.
func (t Tool) Run(ctx context.Context, p proc.Proc) error {
	err := t.Executor.Run(ctx, p)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil && isExitError(err) {
		log.Warnf("benchmark with %s hosts exited with %v", p.Name, err)
		return nil
	}
	return err
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
