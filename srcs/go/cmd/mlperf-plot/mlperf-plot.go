package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/volumez/mlperf-scale/srcs/go/log"
	"github.com/volumez/mlperf-scale/srcs/go/plot"
	"github.com/volumez/mlperf-scale/srcs/go/utils"
)

var flg = struct {
	output    *string
	title     *string
	threshold *float64
}{
	output:    flag.String("o", "gpu_util.png", "output image, format chosen by extension"),
	title:     flag.String("title", plot.DefaultTitle, "chart title"),
	threshold: flag.Float64("threshold", plot.DefaultThreshold, "reference utilization%"),
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Plots mlperf results over growing number of instances\nusage: %s [flags] <results_dir>\n", utils.ProgName())
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		utils.ExitErr(errors.New("missing results_dir"))
	}
	s, err := plot.Scan(flag.Arg(0))
	if err != nil {
		utils.ExitErr(err)
	}
	fmt.Printf("Max std is: %.3f\n", s.MaxStd())
	if err := plot.Render(*flg.output, *flg.title, []plot.Series{*s}, *flg.threshold); err != nil {
		utils.ExitErr(err)
	}
	log.Infof("saved %s", *flg.output)
}
