package scaling

import (
	"context"

	"github.com/samber/lo"
	"github.com/volumez/mlperf-scale/srcs/go/log"
	"github.com/volumez/mlperf-scale/srcs/go/plan"
	"github.com/volumez/mlperf-scale/srcs/go/proc"
	"github.com/volumez/mlperf-scale/srcs/go/utils"
	"github.com/volumez/mlperf-scale/srcs/go/utils/ssh"
)

// Checker verifies the selected hosts are usable before a run starts.
type Checker interface {
	Check(ctx context.Context, hosts plan.HostList) error
}

// SSHChecker logs in to every host and runs a no-op command.
type SSHChecker struct {
	User    string
	KeyFile string
}

var noop = proc.Proc{Prog: `true`}

func (c SSHChecker) Check(ctx context.Context, hosts plan.HostList) error {
	errs := lo.Map(hosts, func(h string, _ int) error {
		return c.checkHost(ctx, h)
	})
	return utils.MergeErrors(errs, "preflight")
}

func (c SSHChecker) checkHost(ctx context.Context, host string) error {
	client, err := ssh.New(ssh.Config{User: c.User, Host: host, KeyFile: c.KeyFile})
	if err != nil {
		return err
	}
	defer client.Close()
	if _, err := client.Run(ctx, noop.Script()); err != nil {
		return err
	}
	log.Debugf("preflight %s ok", client)
	return nil
}
