package scene

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Description is an authored scene: the entities to create at startup and
// how they hang together.
type Description struct {
	Name     string       `yaml:"name"`
	Entities []EntityDesc `yaml:"entities"`
}

// EntityDesc describes one entity. Only the sections present in the file are
// attached as components.
type EntityDesc struct {
	Name      string         `yaml:"name"`
	Parent    string         `yaml:"parent"`
	Transform *TransformDesc `yaml:"transform"`
	Velocity  *VelocityDesc  `yaml:"velocity"`
	Tween     *TweenDesc     `yaml:"tween"`
	Lifetime  int            `yaml:"lifetime"` // ticks, 0 = forever
}

type TransformDesc struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
	ScaleX   float64 `yaml:"scale_x"` // 0 means 1
	ScaleY   float64 `yaml:"scale_y"` // 0 means 1
}

type VelocityDesc struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Spin float64 `yaml:"spin"`
}

// TweenDesc slides the entity from its transform position to (X, Y).
type TweenDesc struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Seconds float64 `yaml:"seconds"`
	Ease    string  `yaml:"ease"`
}

// LoadDescription reads a scene file.
func LoadDescription(path string) (*Description, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read scene %s", path)
	}
	desc, err := ParseDescription(raw)
	if err != nil {
		return nil, eris.Wrapf(err, "scene %s", path)
	}
	return desc, nil
}

// ParseDescription decodes a scene from YAML.
func ParseDescription(raw []byte) (*Description, error) {
	var desc Description
	if err := yaml.Unmarshal(raw, &desc); err != nil {
		return nil, eris.Wrap(err, "parse scene")
	}
	for i, e := range desc.Entities {
		if e.Name == "" {
			return nil, eris.Errorf("parse scene: entity #%d has no name", i)
		}
		if e.Lifetime < 0 {
			return nil, eris.Errorf("parse scene: entity %q has negative lifetime", e.Name)
		}
		if e.Tween != nil && e.Tween.Seconds <= 0 {
			return nil, eris.Errorf("parse scene: entity %q tween needs positive seconds", e.Name)
		}
	}
	return &desc, nil
}
