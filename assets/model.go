package assets

import (
	"errors"
	"fmt"

	"github.com/milk9111/handcar/prefabs"
	"gopkg.in/yaml.v3"
)

var ErrInvalidModel = errors.New("assets: invalid model")

// Model is a mesh bundle made of coloured boxes in model space. Units
// match world units before the prefab's scale is applied.
type Model struct {
	Name  string `yaml:"name"`
	Parts []Part `yaml:"parts"`
}

type Part struct {
	Name   string             `yaml:"name"`
	Center [3]float64         `yaml:"center"`
	Size   [3]float64         `yaml:"size"`
	Color  *prefabs.YAMLColor `yaml:"color"`
}

// Result is the outcome of an asynchronous model load.
type Result struct {
	Path  string
	Model *Model
	Err   error
}

func LoadModel(path string) (*Model, error) {
	data, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assets: load %s: %w", path, err)
	}
	return ParseModel(path, data)
}

func ParseModel(path string, data []byte) (*Model, error) {
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("assets: unmarshal %s: %w", path, err)
	}
	if len(m.Parts) == 0 {
		return nil, fmt.Errorf("%w: %s has no parts", ErrInvalidModel, path)
	}
	for i, p := range m.Parts {
		for axis, v := range p.Size {
			if v <= 0 {
				return nil, fmt.Errorf("%w: %s part %d (%q) size[%d] = %v", ErrInvalidModel, path, i, p.Name, axis, v)
			}
		}
	}
	return &m, nil
}

// LoadModelAsync loads path on a separate goroutine. The returned channel
// yields exactly one Result and is then closed.
func LoadModelAsync(path string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		m, err := LoadModel(path)
		out <- Result{Path: path, Model: m, Err: err}
	}()
	return out
}
