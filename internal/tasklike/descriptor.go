// Package tasklike binds tasklike type constructors to their builder types.
// The binding table is built once per compilation context and shared
// read-only by every inference and resolution episode.
package tasklike

import (
	"fmt"

	"github.com/funvibe/tasklike/internal/config"
	"github.com/funvibe/tasklike/internal/diag"
)

// BuilderDescriptor describes the companion type that drives construction
// and completion of a tasklike instance. The capability set is a structural
// contract, not a named interface: any type exposing all required
// capabilities may serve.
type BuilderDescriptor struct {
	Name         string
	Arity        int
	Capabilities []string
}

// Validate checks the builder's capability set and arity. A builder missing
// any required capability is invalid and unregisterable.
func (b BuilderDescriptor) Validate() error {
	if b.Name == "" {
		return &diag.IncompatibleBuilderError{Builder: "<unnamed>", Reason: "builder has no name"}
	}
	if b.Arity != 0 && b.Arity != 1 {
		return &diag.IncompatibleBuilderError{
			Builder: b.Name,
			Reason:  fmt.Sprintf("arity %d is out of range (want 0 or 1)", b.Arity),
		}
	}
	have := make(map[string]bool, len(b.Capabilities))
	for _, c := range b.Capabilities {
		have[c] = true
	}
	for _, required := range config.RequiredCapabilities {
		if !have[required] {
			return &diag.IncompatibleBuilderError{Builder: b.Name, Missing: required}
		}
	}
	return nil
}

// Descriptor binds one tasklike type identity to its builder.
type Descriptor struct {
	Name    string
	Arity   int
	Builder BuilderDescriptor
}

// Validate checks the descriptor invariants: arity in {0, 1}, a valid
// builder, and exact arity correspondence between tasklike and builder.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("tasklike descriptor has no name")
	}
	if d.Arity != 0 && d.Arity != 1 {
		return fmt.Errorf("tasklike %s: arity %d is out of range (want 0 or 1)", d.Name, d.Arity)
	}
	if err := d.Builder.Validate(); err != nil {
		return err
	}
	if d.Builder.Arity != d.Arity {
		return &diag.ArityMismatchError{
			Tasklike:      d.Name,
			TasklikeArity: d.Arity,
			BuilderArity:  d.Builder.Arity,
		}
	}
	return nil
}

// key is the registry key: one binding per tasklike identity per arity
// (the 0-arity and 1-arity forms of a name are distinct types).
func (d Descriptor) key() string {
	return descriptorKey(d.Name, d.Arity)
}

func descriptorKey(name string, arity int) string {
	return fmt.Sprintf("%s/%d", name, arity)
}
