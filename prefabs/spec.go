package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type GroundSpec struct {
	Name        string        `yaml:"name"`
	Color       *YAMLColor    `yaml:"color"`
	DoubleSided bool          `yaml:"double_sided"`
	Unlit       bool          `yaml:"unlit"`
	Transform   TransformSpec `yaml:"transform"`
}

func LoadGroundSpec() (*GroundSpec, error) {
	spec, err := LoadSpec[GroundSpec]("ground.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// VehicleSpec places a model from the assets package in the scene.
type VehicleSpec struct {
	Name      string        `yaml:"name"`
	Model     string        `yaml:"model"`
	Transform TransformSpec `yaml:"transform"`
}

func LoadVehicleSpec() (*VehicleSpec, error) {
	spec, err := LoadSpec[VehicleSpec]("vehicle.yaml")
	if err != nil {
		return nil, err
	}
	if spec.Model == "" {
		return nil, fmt.Errorf("prefabs: vehicle.yaml: model is required")
	}
	return &spec, nil
}

type TransformSpec struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Z     float64 `yaml:"z"`
	Pitch float64 `yaml:"pitch"`
	Yaw   float64 `yaml:"yaw"`
	Scale float64 `yaml:"scale"`
}

type YAMLColor struct {
	color.Color
}

// NRGBA returns the colour as non-premultiplied RGBA, or fallback when
// unset.
func (c *YAMLColor) NRGBA(fallback color.NRGBA) color.NRGBA {
	if c == nil || c.Color == nil {
		return fallback
	}
	return color.NRGBAModel.Convert(c.Color).(color.NRGBA)
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
