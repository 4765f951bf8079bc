package tasklike

import (
	"fmt"

	"github.com/funvibe/tasklike/internal/config"
	"github.com/funvibe/tasklike/internal/diag"
)

// Registry is the per-compilation-context binding table from tasklike
// identities to builder descriptors. It is mutable only during
// construction; Freeze makes it permanently read-only before any episode
// sees it. There is deliberately no lookup in the builder-to-tasklike
// direction: deducing a tasklike identity from a builder's shape is
// circular and permanently prohibited.
type Registry struct {
	bindings map[string]Descriptor
	frozen   bool
}

// NewRegistry creates a registry pre-seeded with the builtin
// deferred-computation bindings (Task and Task<T>). User tasklikes are
// registered next to the builtin, never above it.
func NewRegistry() *Registry {
	r := &Registry{bindings: make(map[string]Descriptor)}
	for arity := 0; arity <= 1; arity++ {
		d := Descriptor{
			Name:  config.TaskTypeName,
			Arity: arity,
			Builder: BuilderDescriptor{
				Name:         config.TaskBuilderTypeName,
				Arity:        arity,
				Capabilities: config.RequiredCapabilities,
			},
		}
		r.bindings[d.key()] = d
	}
	return r
}

// Register inserts a tasklike binding. Registration is all-or-nothing: a
// failed registration leaves the registry unchanged. Re-registering the
// exact same binding is a no-op.
func (r *Registry) Register(d Descriptor) error {
	if r.frozen {
		return fmt.Errorf("registry is frozen")
	}
	if err := d.Validate(); err != nil {
		return err
	}
	if existing, ok := r.bindings[d.key()]; ok {
		if existing.Builder.Name == d.Builder.Name {
			return nil // idempotent re-registration
		}
		return &diag.DuplicateBindingError{
			Tasklike: d.Name,
			Existing: existing.Builder.Name,
			Proposed: d.Builder.Name,
		}
	}
	r.bindings[d.key()] = d
	return nil
}

// Freeze makes the registry read-only. Every episode receives a frozen
// registry; nothing mutates it afterwards.
func (r *Registry) Freeze() *Registry {
	r.frozen = true
	return r
}

// LookupBuilder returns the builder bound to the tasklike identity at the
// given arity.
func (r *Registry) LookupBuilder(name string, arity int) (BuilderDescriptor, error) {
	d, ok := r.bindings[descriptorKey(name, arity)]
	if !ok {
		return BuilderDescriptor{}, &diag.UnregisteredTasklikeError{Tasklike: name}
	}
	return d.Builder, nil
}

// IsTasklike reports whether name is a registered tasklike at the given
// arity.
func (r *Registry) IsTasklike(name string, arity int) bool {
	_, ok := r.bindings[descriptorKey(name, arity)]
	return ok
}
