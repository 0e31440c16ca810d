package shapes

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"flowcraft/diagram"
)

// catalogFile is the on-disk format of custom shape definitions:
//
//	shapes:
//	  - type: custom:gateway
//	    label: Gateway
//	    category: Custom
//	    width: 120
//	    height: 80
//	    ports:
//	      - {id: in, side: left, offset: 0.5}
//
// An absent ports key inherits the standard four; "ports: []" makes the type port-less.
type catalogFile struct {
	Shapes []shapeSpec `yaml:"shapes"`
}

type shapeSpec struct {
	Type      string      `yaml:"type"`
	Label     string      `yaml:"label"`
	Category  string      `yaml:"category"`
	Width     float64     `yaml:"width"`
	Height    float64     `yaml:"height"`
	Container bool        `yaml:"container"`
	Lanes     bool        `yaml:"lanes"`
	Ports     *[]portSpec `yaml:"ports"`
}

type portSpec struct {
	ID     string  `yaml:"id"`
	Side   string  `yaml:"side"`
	Offset float64 `yaml:"offset"`
}

// LoadRegistryYAML reads custom shape definitions from a YAML file into r.
func LoadRegistryYAML(r *Registry, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open shape catalog: %w", err)
	}
	defer file.Close()

	return LoadRegistryYAMLFromReader(r, file)
}

// LoadRegistryYAMLFromReader reads custom shape definitions from rd into r.
// Definitions replace built-in types with the same tag.
func LoadRegistryYAMLFromReader(r *Registry, rd io.Reader) error {
	data, err := io.ReadAll(rd)
	if err != nil {
		return fmt.Errorf("read shape catalog: %w", err)
	}

	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("parse shape catalog: %w", err)
	}

	for i, spec := range cf.Shapes {
		entry, err := spec.entry()
		if err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		r.Register(entry)
	}
	return nil
}

func (s shapeSpec) entry() (Entry, error) {
	if s.Type == "" {
		return Entry{}, fmt.Errorf("missing type")
	}
	def := diagram.Definition{
		Type:          s.Type,
		DefaultWidth:  s.Width,
		DefaultHeight: s.Height,
		Container:     s.Container,
	}
	if s.Lanes {
		def.Lanes = EqualLanes{}
	}
	if s.Ports != nil {
		def.Ports = make([]diagram.Port, 0, len(*s.Ports))
		for _, p := range *s.Ports {
			side := diagram.Side(p.Side)
			switch side {
			case diagram.SideTop, diagram.SideRight, diagram.SideBottom, diagram.SideLeft:
			default:
				return Entry{}, fmt.Errorf("port %q: unknown side %q", p.ID, p.Side)
			}
			if p.Offset < 0 || p.Offset > 1 {
				return Entry{}, fmt.Errorf("port %q: offset %v outside [0,1]", p.ID, p.Offset)
			}
			def.Ports = append(def.Ports, diagram.Port{ID: p.ID, Side: side, Offset: p.Offset})
		}
	}
	label := s.Label
	if label == "" {
		label = s.Type
	}
	category := s.Category
	if category == "" {
		category = "Custom"
	}
	return Entry{Definition: def, Category: category, Label: label}, nil
}
