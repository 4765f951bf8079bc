// Package manifest reads the declaration surface: YAML files naming each
// tasklike type and its builder, consumed once when the compilation
// context's registry is built.
package manifest

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/tasklike/internal/tasklike"
)

// File is the top-level manifest document.
type File struct {
	Tasklikes []Decl `yaml:"tasklikes"`
}

// Decl declares one tasklike type and names exactly one builder for it.
type Decl struct {
	Name    string      `yaml:"name"`
	Arity   int         `yaml:"arity"`
	Builder BuilderDecl `yaml:"builder"`
}

// BuilderDecl names the builder type and lists the capabilities it exposes.
// The builder's generic arity always equals the tasklike's.
type BuilderDecl struct {
	Name         string   `yaml:"name"`
	Capabilities []string `yaml:"capabilities"`
}

// Load parses a manifest and builds a frozen registry from it. Any invalid
// declaration aborts the load; the partial registry never escapes.
func Load(r io.Reader) (*tasklike.Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("malformed manifest: %w", err)
	}

	reg := tasklike.NewRegistry()
	for _, decl := range file.Tasklikes {
		desc := tasklike.Descriptor{
			Name:  decl.Name,
			Arity: decl.Arity,
			Builder: tasklike.BuilderDescriptor{
				Name:         decl.Builder.Name,
				Arity:        decl.Arity,
				Capabilities: decl.Builder.Capabilities,
			},
		}
		if err := reg.Register(desc); err != nil {
			return nil, fmt.Errorf("tasklike %s: %w", decl.Name, err)
		}
	}
	return reg.Freeze(), nil
}
