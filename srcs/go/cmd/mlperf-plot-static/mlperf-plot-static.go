package main

import (
	"flag"

	"github.com/volumez/mlperf-scale/srcs/go/log"
	"github.com/volumez/mlperf-scale/srcs/go/plot"
	"github.com/volumez/mlperf-scale/srcs/go/utils"
)

var flg = struct {
	output    *string
	title     *string
	threshold *float64
}{
	output:    flag.String("o", "gpu_util_history.png", "output image, format chosen by extension"),
	title:     flag.String("title", plot.DefaultTitle, "chart title"),
	threshold: flag.Float64("threshold", plot.DefaultThreshold, "reference utilization%"),
}

func main() {
	flag.Parse()
	ss, err := plot.Historical()
	if err != nil {
		utils.ExitErr(err)
	}
	if err := plot.Render(*flg.output, *flg.title, ss, *flg.threshold); err != nil {
		utils.ExitErr(err)
	}
	log.Infof("saved %s", *flg.output)
}
