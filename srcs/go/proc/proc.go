package proc

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
)

type Envs map[string]string

func Merge(e, f Envs) Envs {
	g := make(Envs)
	for k, v := range e {
		g[k] = v
	}
	for k, v := range f {
		g[k] = v
	}
	return g
}

// Proc represents a general purpose process
type Proc struct {
	Name  string
	Prog  string
	Args  []string
	Envs  Envs
	ChDir *string
}

func (p Proc) Cmd(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, p.Prog, p.Args...)
	cmd.Env = updatedEnvFrom(p.Envs, os.Environ())
	if p.ChDir != nil {
		cmd.Dir = *p.ChDir
	}
	return cmd
}

// CmdLine returns the program and its arguments joined by spaces.
func (p Proc) CmdLine() string {
	return strings.Join(append([]string{p.Prog}, p.Args...), " ")
}

func (p Proc) Script() string {
	buf := &bytes.Buffer{}
	var chdir string
	if p.ChDir != nil {
		chdir = fmt.Sprintf("-C %s", *p.ChDir)
	}
	fmt.Fprintf(buf, "env %s\\\n", chdir)
	for _, k := range p.Envs.keys() {
		fmt.Fprintf(buf, "\t%s=%q \\\n", k, p.Envs[k])
	}
	fmt.Fprintf(buf, "\t%s \\\n", p.Prog)
	for _, a := range p.Args {
		fmt.Fprintf(buf, "\t%s \\\n", a)
	}
	fmt.Fprintf(buf, "\n")
	return buf.String()
}

func (e Envs) keys() []string {
	var ks []string
	for k := range e {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

func parseEnv(kvs []string) Envs {
	envMap := make(Envs)
	for _, kv := range kvs {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			envMap[k] = v
		}
	}
	return envMap
}

func updatedEnvFrom(newValues Envs, oldEnvs []string) []string {
	envMap := Merge(parseEnv(oldEnvs), newValues)
	var envs []string
	for _, k := range envMap.keys() {
		envs = append(envs, fmt.Sprintf("%s=%s", k, envMap[k]))
	}
	return envs
}
