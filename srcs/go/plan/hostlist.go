package plan

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/volumez/mlperf-scale/srcs/go/config"
)

var (
	ErrNoHosts        = errors.New("No hosts were defined")
	errEmptyHostEntry = errors.New("empty host entry")
)

// HostList is an ordered pool of machine addresses.
type HostList []string

func (hl HostList) String() string {
	return strings.Join(hl, ",")
}

func ParseHostList(val string) (HostList, error) {
	var hl HostList
	for i, h := range strings.Split(val, ",") {
		h = strings.TrimSpace(h)
		if len(h) == 0 {
			return nil, fmt.Errorf("%w at position %d in %q", errEmptyHostEntry, i, val)
		}
		hl = append(hl, h)
	}
	return hl, nil
}

func HostListFromEnv() (HostList, error) {
	val, ok := os.LookupEnv(config.HostsEnvKey)
	if !ok || len(strings.TrimSpace(val)) == 0 {
		return nil, ErrNoHosts
	}
	return ParseHostList(val)
}

// Prefix returns the first n hosts, or all of them if there are fewer than n.
func (hl HostList) Prefix(n int) HostList {
	if n > len(hl) {
		n = len(hl)
	}
	if n < 0 {
		n = 0
	}
	return hl[:n:n]
}
