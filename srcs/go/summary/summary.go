package summary

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mitchellh/mapstructure"
	perrors "github.com/pkg/errors"
)

const FileName = `summary.json`

// Keys under "metric" in summary.json.
const (
	AUMean         = `train_au_mean_percentage`
	AUStdev        = `train_au_stdev_percentage`
	ThroughputMean = `train_throughput_mean_samples_per_second`
	ThroughputStd  = `train_throughput_stdev_samples_per_second`
	IOMean         = `train_io_mean_MB_per_second`
	IOStdev        = `train_io_stdev_MB_per_second`
)

var (
	AllFields         = []string{AUMean, AUStdev, ThroughputMean, ThroughputStd, IOMean, IOStdev}
	UtilizationFields = []string{AUMean, AUStdev}
)

var (
	ErrMissingMetric = errors.New(`summary has no "metric" object`)
	ErrMissingField  = errors.New("summary metric missing")
)

// Summary holds the aggregate metrics of one benchmark run.
type Summary struct {
	GPUUtilMean    float64 `mapstructure:"train_au_mean_percentage"`
	GPUUtilStd     float64 `mapstructure:"train_au_stdev_percentage"`
	SamplesMean    float64 `mapstructure:"train_throughput_mean_samples_per_second"`
	SamplesStd     float64 `mapstructure:"train_throughput_stdev_samples_per_second"`
	BandwidthMean  float64 `mapstructure:"train_io_mean_MB_per_second"`
	BandwidthStdev float64 `mapstructure:"train_io_stdev_MB_per_second"`
}

// Path returns {outdir}/{size}/summary.json.
func Path(outdir string, size int) string {
	return filepath.Join(outdir, strconv.Itoa(size), FileName)
}

// Parse decodes a summary, failing if any of the required metric fields is
// absent or not a number. Fields not required are left zero.
func Parse(bs []byte, required ...string) (*Summary, error) {
	var doc struct {
		Metric map[string]interface{} `json:"metric"`
	}
	if err := json.Unmarshal(bs, &doc); err != nil {
		return nil, err
	}
	if doc.Metric == nil {
		return nil, ErrMissingMetric
	}
	picked := make(map[string]interface{}, len(required))
	for _, k := range required {
		v, ok := doc.Metric[k]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, k)
		}
		if _, ok := v.(float64); !ok {
			return nil, fmt.Errorf("metric %s is %T, not a number", k, v)
		}
		picked[k] = v
	}
	var s Summary
	if err := mapstructure.Decode(picked, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func readFile(filename string, required []string) (*Summary, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	s, err := Parse(bs, required...)
	if err != nil {
		return nil, perrors.Wrap(err, filename)
	}
	return s, nil
}

// ReadFile reads a summary with all six metrics.
func ReadFile(filename string) (*Summary, error) {
	return readFile(filename, AllFields)
}

// ReadUtilization reads only the GPU utilization mean and stdev.
func ReadUtilization(filename string) (*Summary, error) {
	return readFile(filename, UtilizationFields)
}

func (s Summary) Report(w io.Writer) {
	fmt.Fprintf(w, "GPU Util: %v [%v]\n", s.GPUUtilMean, s.GPUUtilStd)
	fmt.Fprintf(w, "Samples/s: %v [%v]\n", s.SamplesMean, s.SamplesStd)
	fmt.Fprintf(w, "MB/s: %v [%v]\n", s.BandwidthMean, s.BandwidthStdev)
}

// Fields returns the metrics keyed by their summary.json names.
func (s Summary) Fields() map[string]float64 {
	return map[string]float64{
		AUMean:         s.GPUUtilMean,
		AUStdev:        s.GPUUtilStd,
		ThroughputMean: s.SamplesMean,
		ThroughputStd:  s.SamplesStd,
		IOMean:         s.BandwidthMean,
		IOStdev:        s.BandwidthStdev,
	}
}
