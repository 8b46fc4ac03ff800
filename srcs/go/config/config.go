package config

import (
	"os"
	"strings"
)

const (
	HostsEnvKey     = `HOSTS`
	LogLevelEnvKey  = `MLPERF_SCALE_LOG_LEVEL`
	BenchmarkEnvKey = `MLPERF_SCALE_BENCHMARK`
)

var ConfigEnvKeys = []string{
	HostsEnvKey,
	LogLevelEnvKey,
	BenchmarkEnvKey,
}

var (
	LogLevel  = `INFO`
	Benchmark = `./benchmark.sh`
)

func init() {
	if val := os.Getenv(LogLevelEnvKey); len(val) > 0 {
		LogLevel = strings.ToUpper(val)
	}
	if val := os.Getenv(BenchmarkEnvKey); len(val) > 0 {
		Benchmark = val
	}
}
