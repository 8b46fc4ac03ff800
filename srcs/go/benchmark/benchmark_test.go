package benchmark

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volumez/mlperf-scale/srcs/go/config"
	"github.com/volumez/mlperf-scale/srcs/go/plan"
	"github.com/volumez/mlperf-scale/srcs/go/proc"
)

type fakeExecutor struct {
	output  string
	outErr  error
	runErr  error
	outputs []proc.Proc
	runs    []proc.Proc
}

func (f *fakeExecutor) Output(ctx context.Context, p proc.Proc) ([]byte, error) {
	f.outputs = append(f.outputs, p)
	return []byte(f.output), f.outErr
}

func (f *fakeExecutor) Run(ctx context.Context, p proc.Proc) error {
	f.runs = append(f.runs, p)
	return f.runErr
}

func exitError(t *testing.T) error {
	err := exec.Command(`/bin/sh`, `-c`, `exit 2`).Run()
	require.Error(t, err)
	return err
}

func TestParseNumFiles(t *testing.T) {
	n, err := ParseNumFiles("RESULT: Minimum file count dictated by dataset size to memory size ratio.\n[RESULT] dataset.num_files_train=4096\n")
	require.NoError(t, err)
	assert.Equal(t, 4096, n)

	_, err = ParseNumFiles("dataset.num_subfolders_train=100")
	assert.ErrorIs(t, err, ErrNumFilesNotFound)

	_, err = ParseNumFiles("")
	assert.ErrorIs(t, err, ErrNumFilesNotFound)
}

func TestDatasizeProc(t *testing.T) {
	p := DatasizeProc(config.DefaultTemplate(), 3, 4)
	want := "./benchmark.sh datasize --workload unet3d --accelerator-type h100 --num-accelerators 12 --num-client-hosts 4 --client-host-memory-in-gb 9"
	assert.Equal(t, want, p.CmdLine())
}

func TestRunProc(t *testing.T) {
	tpl := config.DefaultTemplate()
	params := RunParams{
		Size:       2,
		Hosts:      plan.HostList{"10.0.0.1", "10.0.0.2"},
		AccPerHost: 3,
		Readers:    4,
		ResultsDir: "results/2",
		NumFiles:   4096,
	}
	p := RunProc(tpl, params)
	want := []string{"./benchmark.sh", "run",
		"--hosts", "10.0.0.1,10.0.0.2",
		"--workload", "unet3d",
		"--accelerator-type", "h100",
		"--num-accelerators", "6",
		"--results-dir", "results/2",
		"--param", "dataset.data_folder=/mnt/volumez/mlperf/unet3d_data",
		"--param", "dataset.num_files_train=4096",
		"--param", "reader.read_threads=4",
		"--param", "dataset.num_subfolders_train=100",
		"--param", "checkpoint.checkpoint_folder=/mnt/volumez/checkpoint",
	}
	assert.Equal(t, strings.Join(want, " "), p.CmdLine())
	assert.Equal(t, "2", p.Name)

	epochs := 5
	params.Epochs = &epochs
	params.ExtraParams = []string{"train.computation_time=0.1"}
	p = RunProc(tpl, params)
	assert.Equal(t, []string{"--param", "train.epochs=5", "--param", "train.computation_time=0.1"}, p.Args[len(p.Args)-4:])

	epochs = 0
	p = RunProc(tpl, params)
	assert.NotContains(t, p.Args, "train.epochs=0")
	assert.Equal(t, []string{"--param", "train.computation_time=0.1"}, p.Args[len(p.Args)-2:])
}

func TestValidateParam(t *testing.T) {
	assert.NoError(t, ValidateParam("train.epochs=3"))
	assert.Error(t, ValidateParam("train.epochs"))
	assert.Error(t, ValidateParam("=3"))
}

func TestToolNumFiles(t *testing.T) {
	t.Run("parses stdout", func(t *testing.T) {
		ex := &fakeExecutor{output: "dataset.num_files_train=1200\n"}
		tool := Tool{Template: config.DefaultTemplate(), Executor: ex}
		n, err := tool.NumFiles(context.TODO(), 3, 2)
		require.NoError(t, err)
		assert.Equal(t, 1200, n)
		require.Len(t, ex.outputs, 1)
		assert.Contains(t, ex.outputs[0].Args, "6")
	})

	t.Run("ignores exit status", func(t *testing.T) {
		ex := &fakeExecutor{output: "dataset.num_files_train=7", outErr: exitError(t)}
		n, err := Tool{Template: config.DefaultTemplate(), Executor: ex}.NumFiles(context.TODO(), 1, 1)
		require.NoError(t, err)
		assert.Equal(t, 7, n)
	})

	t.Run("missing pattern", func(t *testing.T) {
		ex := &fakeExecutor{output: "usage: benchmark.sh"}
		_, err := Tool{Template: config.DefaultTemplate(), Executor: ex}.NumFiles(context.TODO(), 1, 1)
		assert.ErrorIs(t, err, ErrNumFilesNotFound)
	})

	t.Run("start failure", func(t *testing.T) {
		errStart := errors.New("no such file")
		ex := &fakeExecutor{outErr: errStart}
		_, err := Tool{Template: config.DefaultTemplate(), Executor: ex}.NumFiles(context.TODO(), 1, 1)
		assert.ErrorIs(t, err, errStart)
	})
}

func TestToolRun(t *testing.T) {
	ex := &fakeExecutor{runErr: exitError(t)}
	tool := Tool{Template: config.DefaultTemplate(), Executor: ex}
	assert.NoError(t, tool.Run(context.TODO(), proc.Proc{Name: "1"}))

	errStart := errors.New("permission denied")
	ex.runErr = errStart
	assert.ErrorIs(t, tool.Run(context.TODO(), proc.Proc{Name: "1"}), errStart)
	assert.Len(t, ex.runs, 2)
}

func TestToolRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.TODO())
	cancel()
	ex := &fakeExecutor{runErr: exitError(t)}
	err := Tool{Template: config.DefaultTemplate(), Executor: ex}.Run(ctx, proc.Proc{Name: "2"})
	assert.ErrorIs(t, err, context.Canceled)
}
