package plot

import (
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/samber/lo"
	"github.com/volumez/mlperf-scale/srcs/go/summary"
	"sigs.k8s.io/yaml"
)

// Point is the GPU utilization measured at one cluster size.
type Point struct {
	Hosts int     `json:"hosts"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std,omitempty"`
}

type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

var errNoResults = errors.New("no summary files found")

// Scan collects dir/<size>/summary.json into a series sorted by size. Every
// matching directory name must be an integer.
func Scan(dir string) (*Series, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*", summary.FileName))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", errNoResults, dir)
	}
	s := &Series{Name: `Actual`}
	for _, f := range files {
		name := filepath.Base(filepath.Dir(f))
		n, err := strconv.Atoi(name)
		if err != nil {
			return nil, fmt.Errorf("results dir %q is not a cluster size: %v", name, err)
		}
		m, err := summary.ReadUtilization(f)
		if err != nil {
			return nil, err
		}
		s.Points = append(s.Points, Point{Hosts: n, Mean: m.GPUUtilMean, Std: m.GPUUtilStd})
	}
	s.sort()
	return s, nil
}

func (s *Series) sort() {
	sort.SliceStable(s.Points, func(i, j int) bool { return s.Points[i].Hosts < s.Points[j].Hosts })
}

func (s Series) Hosts() []int {
	return lo.Map(s.Points, func(p Point, _ int) int { return p.Hosts })
}

// MaxStd returns the largest utilization standard deviation of the series.
func (s Series) MaxStd() float64 {
	return lo.Max(lo.Map(s.Points, func(p Point, _ int) float64 { return p.Std }))
}

// Threshold is a constant series at value over the given cluster sizes.
func Threshold(value float64, hosts []int) Series {
	return Series{
		Name: `Threshold`,
		Points: lo.Map(hosts, func(h int, _ int) Point {
			return Point{Hosts: h, Mean: value}
		}),
	}
}

//go:embed historical.yaml
var historicalYAML []byte

// Historical returns the embedded no_sleep and with_sleep measurements.
func Historical() ([]Series, error) {
	var ss []Series
	if err := yaml.UnmarshalStrict(historicalYAML, &ss); err != nil {
		return nil, err
	}
	return ss, nil
}
