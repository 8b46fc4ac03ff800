package local

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volumez/mlperf-scale/srcs/go/proc"
	"github.com/volumez/mlperf-scale/srcs/go/utils/iostream"
)

func shProc(name, script string) proc.Proc {
	return proc.Proc{
		Name: name,
		Prog: `/bin/sh`,
		Args: []string{`-c`, script},
	}
}

func TestOutput(t *testing.T) {
	var r Runner
	bs, err := r.Output(context.TODO(), shProc(`datasize`, `echo out; echo noise >&2`))
	require.NoError(t, err)
	assert.Equal(t, "out\n", string(bs))
}

func TestOutputExitStatus(t *testing.T) {
	var r Runner
	bs, err := r.Output(context.TODO(), shProc(`datasize`, `echo partial; exit 3`))
	assert.Equal(t, "partial\n", string(bs))
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.ExitCode())
}

func TestRun(t *testing.T) {
	out := &bytes.Buffer{}
	logDir := t.TempDir()
	r := Runner{
		LogDir:  logDir,
		Console: &iostream.StdWriters{Stdout: out, Stderr: &iostream.Null{}},
	}
	err := r.Run(context.TODO(), shProc(`4`, `echo training; echo oops >&2`))
	require.NoError(t, err)
	assert.Equal(t, "training\n", out.String())

	bs, err := os.ReadFile(filepath.Join(logDir, "4.stderr.log"))
	require.NoError(t, err)
	assert.Equal(t, "oops\n", string(bs))
}

func TestRunMissingProgram(t *testing.T) {
	var r Runner
	err := r.Run(context.TODO(), proc.Proc{Prog: filepath.Join(t.TempDir(), "missing.sh")})
	assert.Error(t, err)
	var exitErr *exec.ExitError
	assert.False(t, errors.As(err, &exitErr))
}
