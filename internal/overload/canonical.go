package overload

import (
	"github.com/funvibe/tasklike/internal/tasklike"
	"github.com/funvibe/tasklike/internal/typesystem"
)

// Canonical placeholder constructors, one per tasklike arity. The $-prefix
// keeps them out of the nameable surface; they exist only inside sequence
// comparisons and never enter the type universe of an episode.
const (
	placeholderArity0 = "$tasklike0"
	placeholderArity1 = "$tasklike1"
)

// canonicalize rewrites every registered tasklike constructor in t to the
// canonical placeholder of its arity. Two fixed parameter sequences are
// "identical up to tasklike substitution" exactly when their canonical
// forms are structurally equal.
func canonicalize(reg *tasklike.Registry, t typesystem.Type) typesystem.Type {
	switch typ := t.(type) {
	case typesystem.TCon:
		if reg.IsTasklike(typ.Name, 0) {
			return typesystem.TCon{Name: placeholderArity0}
		}
		return typ

	case typesystem.TApp:
		args := make([]typesystem.Type, len(typ.Args))
		for i, a := range typ.Args {
			args[i] = canonicalize(reg, a)
		}
		con := typ.Constructor
		if len(typ.Args) == 1 && reg.IsTasklike(con.Name, 1) {
			con = typesystem.TCon{Name: placeholderArity1}
		}
		return typesystem.TApp{Constructor: con, Args: args}

	case typesystem.TFunc:
		params := make([]typesystem.Type, len(typ.Params))
		for i, p := range typ.Params {
			params[i] = canonicalize(reg, p)
		}
		return typesystem.TFunc{Params: params, Return: canonicalize(reg, typ.Return)}
	}
	return t
}

func canonicalizeSeq(reg *tasklike.Registry, ts []typesystem.Type) []typesystem.Type {
	out := make([]typesystem.Type, len(ts))
	for i, t := range ts {
		out[i] = canonicalize(reg, t)
	}
	return out
}
