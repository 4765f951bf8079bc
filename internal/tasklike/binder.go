package tasklike

import (
	"fmt"

	"github.com/funvibe/tasklike/internal/diag"
	"github.com/funvibe/tasklike/internal/typesystem"
)

// BindBuilder resolves the builder instantiation for a fixed tasklike
// instantiation. Arity correspondence is exact: a 0-arity tasklike binds a
// 0-arity builder, a 1-arity tasklike binds a 1-arity builder instantiated
// at the same single argument, position for position. Cross-arity and
// partially-fixed bindings are rejected; the decidable rule is worth more
// than the generality.
func BindBuilder(reg *Registry, inst typesystem.Type) (typesystem.Type, error) {
	switch t := inst.(type) {
	case typesystem.TCon:
		builder, err := reg.LookupBuilder(t.Name, 0)
		if err != nil {
			return nil, arityOrUnregistered(reg, t.Name, 0, err)
		}
		return typesystem.TCon{Name: builder.Name}, nil

	case typesystem.TApp:
		if typesystem.IsOpen(t) {
			return nil, fmt.Errorf("cannot bind a builder for open instantiation %s", t)
		}
		builder, err := reg.LookupBuilder(t.Constructor.Name, len(t.Args))
		if err != nil {
			return nil, arityOrUnregistered(reg, t.Constructor.Name, len(t.Args), err)
		}
		return typesystem.TApp{
			Constructor: typesystem.TCon{Name: builder.Name},
			Args:        append([]typesystem.Type(nil), t.Args...),
		}, nil
	}

	return nil, fmt.Errorf("type %s is not a tasklike instantiation", inst)
}

// arityOrUnregistered upgrades a failed lookup to an arity mismatch when
// the name is registered as a tasklike at some other arity.
func arityOrUnregistered(reg *Registry, name string, wantArity int, lookupErr error) error {
	for arity := 0; arity <= 1; arity++ {
		if arity != wantArity && reg.IsTasklike(name, arity) {
			return &diag.ArityMismatchError{
				Tasklike:      name,
				TasklikeArity: arity,
				BuilderArity:  wantArity,
			}
		}
	}
	return lookupErr
}
