package config

import (
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Template holds the parts of a benchmark invocation that do not vary with
// the cluster size.
type Template struct {
	Program            string `json:"program"`
	Workload           string `json:"workload"`
	AcceleratorType    string `json:"acceleratorType"`
	DataFolder         string `json:"dataFolder"`
	NumSubfoldersTrain int    `json:"numSubfoldersTrain"`
	CheckpointFolder   string `json:"checkpointFolder"`
	ClientHostMemoryGB int    `json:"clientHostMemoryGB"`
}

func DefaultTemplate() Template {
	return Template{
		Program:            Benchmark,
		Workload:           `unet3d`,
		AcceleratorType:    `h100`,
		DataFolder:         `/mnt/volumez/mlperf/unet3d_data`,
		NumSubfoldersTrain: 100,
		CheckpointFolder:   `/mnt/volumez/checkpoint`,
		ClientHostMemoryGB: 9,
	}
}

var errEmptyField = errors.New("empty template field")

func (t Template) Validate() error {
	for name, v := range map[string]string{
		"program":          t.Program,
		"workload":         t.Workload,
		"acceleratorType":  t.AcceleratorType,
		"dataFolder":       t.DataFolder,
		"checkpointFolder": t.CheckpointFolder,
	} {
		if len(v) == 0 {
			return errors.Wrap(errEmptyField, name)
		}
	}
	if t.NumSubfoldersTrain <= 0 || t.ClientHostMemoryGB <= 0 {
		return errors.Errorf("numSubfoldersTrain and clientHostMemoryGB must be positive, got %d and %d", t.NumSubfoldersTrain, t.ClientHostMemoryGB)
	}
	return nil
}

// LoadTemplate reads a YAML template on top of the defaults, so a file only
// needs to mention the fields it changes.
func LoadTemplate(filename string) (*Template, error) {
	t := DefaultTemplate()
	if len(filename) == 0 {
		return &t, nil
	}
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	if err := yaml.UnmarshalStrict(bs, &t); err != nil {
		return nil, errors.Wrapf(err, "parse template %s", filename)
	}
	return &t, nil
}

// ApplyOverrides sets template fields from key=value pairs, e.g.
// workload=resnet50 or clientHostMemoryGB=16.
func ApplyOverrides(t *Template, kvs []string) error {
	if len(kvs) == 0 {
		return nil
	}
	input := make(map[string]any, len(kvs))
	for _, kv := range kvs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || len(k) == 0 {
			return errors.Errorf("invalid override %q, expect key=value", kv)
		}
		input[k] = v
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           t,
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(input); err != nil {
		return errors.Wrap(err, "apply overrides")
	}
	return nil
}
