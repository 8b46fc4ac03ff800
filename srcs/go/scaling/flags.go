package scaling

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/volumez/mlperf-scale/srcs/go/benchmark"
	"github.com/volumez/mlperf-scale/srcs/go/plan"
	"github.com/volumez/mlperf-scale/srcs/go/summary/encoders"
)

// FlagSet is the command line of mlperf-scale.
type FlagSet struct {
	Start   int
	End     int
	Jump    int
	Power2  bool
	Sizes   plan.Sizes
	Acc     int
	Readers int
	OutDir  string
	DryRun  bool
	Epochs  *int

	NumFiles   int
	ConfigFile string
	Sets       stringList
	Params     stringList

	Report       string
	ReportFormat string
	Logfile      string
	LogDir       string
	Quiet        bool

	Preflight bool
	User      string
	KeyFile   string
}

func (f *FlagSet) Register(flag *flag.FlagSet) {
	flag.IntVar(&f.End, "end", 0, "Ending number of instances (default: number of hosts)")
	flag.IntVar(&f.Jump, "jump", 1, "The jump in nodes count")
	flag.BoolVar(&f.Power2, "power2", false, "jumps in power of 2")
	flag.Var(&f.Sizes, "sizes", "comma separated cluster sizes, overrides start, -end and -jump")
	flag.IntVar(&f.Acc, "acc", 3, "Number of accelerators per instance")
	flag.IntVar(&f.Readers, "readers", 4, "Number of readers per gpu")
	flag.StringVar(&f.OutDir, "outdir", "results", "Output directory for the results")
	flag.BoolVar(&f.DryRun, "dryrun", false, "print the run commands without running them; datasize is still queried unless -num-files is set")
	flag.Var(optionalInt{&f.Epochs}, "epochs", "amount of epochs to run for each instance")

	flag.IntVar(&f.NumFiles, "num-files", 0, "use this dataset file count instead of asking datasize")
	flag.StringVar(&f.ConfigFile, "config", "", "path to a YAML run template")
	flag.Var(&f.Sets, "set", "override a run template field, key=value (repeatable)")
	flag.Var(&f.Params, "param", "extra benchmark --param key=value (repeatable)")

	flag.StringVar(&f.Report, "report", "", "append one record per finished run to this file")
	flag.StringVar(&f.ReportFormat, "report-format", encoders.FormatJson, fmt.Sprintf("report format, options are: %s | %s", encoders.FormatJson, encoders.FormatInflux))
	flag.StringVar(&f.Logfile, "logfile", "", "path to log file")
	flag.StringVar(&f.LogDir, "logdir", "", "save benchmark stdout and stderr per cluster size under this dir")
	flag.BoolVar(&f.Quiet, "q", false, "don't log debug info")

	flag.BoolVar(&f.Preflight, "preflight", false, "ssh to the selected hosts before every run")
	flag.StringVar(&f.User, "u", "", "user name for ssh")
	flag.StringVar(&f.KeyFile, "i", "", "ssh private key (default: ~/.ssh/id_rsa)")
}

var (
	errMissingStart = errors.New("missing positional argument: start")
	errExtraArgs    = errors.New("unexpected arguments")
)

// Parse parses args[1:]. The positional start may appear anywhere among the
// flags. hostCount is the default of -end.
func (f *FlagSet) Parse(args []string, hostCount int) error {
	commandLine := flag.NewFlagSet(args[0], flag.ContinueOnError)
	f.Register(commandLine)
	if err := commandLine.Parse(args[1:]); err != nil {
		return err
	}
	rest := commandLine.Args()
	if len(rest) < 1 {
		if len(f.Sizes) == 0 {
			return errMissingStart
		}
	} else {
		start, err := strconv.Atoi(rest[0])
		if err != nil {
			return fmt.Errorf("invalid start %q: %v", rest[0], err)
		}
		f.Start = start
		if err := commandLine.Parse(rest[1:]); err != nil {
			return err
		}
		if extra := commandLine.Args(); len(extra) > 0 {
			return fmt.Errorf("%w: %s", errExtraArgs, strings.Join(extra, " "))
		}
	}
	endSet := false
	commandLine.Visit(func(fl *flag.Flag) {
		if fl.Name == "end" {
			endSet = true
		}
	})
	if !endSet {
		f.End = hostCount
	}
	for _, kv := range f.Params {
		if err := benchmark.ValidateParam(kv); err != nil {
			return err
		}
	}
	return nil
}

// Plan returns the cluster sizes selected by the flags.
func (f *FlagSet) Plan() (plan.Sizes, error) {
	if len(f.Sizes) > 0 {
		return f.Sizes, nil
	}
	return plan.New(f.Start, f.End, f.Jump, f.Power2)
}

type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(val string) error {
	*l = append(*l, val)
	return nil
}

// optionalInt is an int flag that stays nil unless given.
type optionalInt struct {
	p **int
}

func (o optionalInt) String() string {
	if o.p == nil || *o.p == nil {
		return ""
	}
	return strconv.Itoa(**o.p)
}

func (o optionalInt) Set(val string) error {
	n, err := strconv.Atoi(val)
	if err != nil {
		return err
	}
	*o.p = &n
	return nil
}
