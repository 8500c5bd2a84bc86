package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// State is a named initial value.
type State struct {
	Name    string  `yaml:"name"`
	Initial float64 `yaml:"initial"`
}

// States keeps the declaration order of the states section, which is also the
// column order of the output. It accepts a mapping (S: 990) or a sequence of
// {name, initial} entries.
type States []State

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *States) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		out := make(States, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var st State
			if err := node.Content[i].Decode(&st.Name); err != nil {
				return err
			}
			if err := node.Content[i+1].Decode(&st.Initial); err != nil {
				return fmt.Errorf("state %q: %w", st.Name, err)
			}
			out = append(out, st)
		}
		*s = out
		return nil
	case yaml.SequenceNode:
		var list []State
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	}
	return fmt.Errorf("line %d: states must be a mapping or a sequence", node.Line)
}

// MarshalYAML writes the states as an ordered mapping.
func (s States) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, st := range s {
		var key, val yaml.Node
		if err := key.Encode(st.Name); err != nil {
			return nil, err
		}
		if err := val.Encode(st.Initial); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &key, &val)
	}
	return node, nil
}

// Names returns the state names in order.
func (s States) Names() []string {
	names := make([]string, len(s))
	for i, st := range s {
		names[i] = st.Name
	}
	return names
}
