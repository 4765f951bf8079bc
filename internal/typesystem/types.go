package typesystem

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/funvibe/tasklike/internal/config"
)

// Type is the interface for all types in the engine's universe.
// The universe is deliberately closed: named constructors, constructor
// applications, function shapes and open generic parameters. No other
// term kind is ever introduced during inference.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVars() []TVar
}

// TVar represents an open generic parameter (e.g. 'T', 'X').
type TVar struct {
	Name string
}

func (t TVar) String() string { return t.Name }

func (t TVar) Apply(s Subst) Type {
	return applyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TVar) FreeTypeVars() []TVar {
	return []TVar{t}
}

// TCon represents a concrete named type constructor (e.g. Int, Task, MyTask).
// A TCon on its own is a 0-arity instantiation; applied via TApp it is the
// head of a 1-or-more-arity instantiation.
type TCon struct {
	Name   string
	Module string // optional module qualifier for imported types
}

func (t TCon) String() string {
	if t.Module != "" {
		return t.Module + "." + t.Name
	}
	return t.Name
}

func (t TCon) Apply(s Subst) Type {
	return applyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TCon) FreeTypeVars() []TVar {
	return nil
}

// TApp represents a constructor application (e.g. Task<Int>, MyTask<T>).
type TApp struct {
	Constructor TCon
	Args        []Type
}

func (t TApp) String() string {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Constructor.String(), strings.Join(args, ", "))
}

func (t TApp) Apply(s Subst) Type {
	return applyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TApp) FreeTypeVars() []TVar {
	var vars []TVar
	for _, a := range t.Args {
		vars = append(vars, a.FreeTypeVars()...)
	}
	return uniqueTVars(vars)
}

// TFunc represents a function shape. In the surface notation it prints as
// Func<P1, ..., Pn, R>: the last argument is always the return type,
// matching the delegate notation of the host language.
type TFunc struct {
	Params []Type
	Return Type
}

func (t TFunc) String() string {
	parts := make([]string, 0, len(t.Params)+1)
	for _, p := range t.Params {
		parts = append(parts, p.String())
	}
	parts = append(parts, t.Return.String())
	return fmt.Sprintf("%s<%s>", config.FuncTypeName, strings.Join(parts, ", "))
}

func (t TFunc) Apply(s Subst) Type {
	return applyWithCycleCheck(t, s, make(map[string]bool))
}

func (t TFunc) FreeTypeVars() []TVar {
	var vars []TVar
	for _, p := range t.Params {
		vars = append(vars, p.FreeTypeVars()...)
	}
	vars = append(vars, t.Return.FreeTypeVars()...)
	return uniqueTVars(vars)
}

// Unit marks the absence of a result (a bare return).
var Unit = TCon{Name: config.UnitTypeName}

// Any is the top type: every type converts to it.
var Any = TCon{Name: config.AnyTypeName}

// Subst is a mapping from type variable names to types.
type Subst map[string]Type

// Compose combines two substitutions; s1 takes precedence and is refreshed
// through s2.
func (s1 Subst) Compose(s2 Subst) Subst {
	out := Subst{}
	for k, v := range s2 {
		out[k] = v
	}
	for k, v := range s1 {
		out[k] = v.Apply(s2)
	}
	return out
}

// applyWithCycleCheck applies a substitution with cycle detection, so a
// malformed substitution (T -> MyTask<T>) cannot loop the engine.
func applyWithCycleCheck(t Type, s Subst, visited map[string]bool) Type {
	if t == nil {
		return nil
	}

	switch typ := t.(type) {
	case TVar:
		if visited[typ.Name] {
			return typ
		}
		replacement, ok := s[typ.Name]
		if !ok {
			return typ
		}
		if tv, ok := replacement.(TVar); ok && tv.Name == typ.Name {
			return typ
		}
		next := copyVisited(visited)
		next[typ.Name] = true
		return applyWithCycleCheck(replacement, s, next)

	case TCon:
		return typ

	case TApp:
		args := make([]Type, len(typ.Args))
		for i, a := range typ.Args {
			args[i] = applyWithCycleCheck(a, s, visited)
		}
		return TApp{Constructor: typ.Constructor, Args: args}

	case TFunc:
		params := make([]Type, len(typ.Params))
		for i, p := range typ.Params {
			params[i] = applyWithCycleCheck(p, s, visited)
		}
		return TFunc{
			Params: params,
			Return: applyWithCycleCheck(typ.Return, s, visited),
		}

	default:
		return t.Apply(s)
	}
}

func copyVisited(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func uniqueTVars(vars []TVar) []TVar {
	var unique []TVar
	seen := map[string]bool{}
	for _, v := range vars {
		if !seen[v.Name] {
			seen[v.Name] = true
			unique = append(unique, v)
		}
	}
	return unique
}

// Equal reports strict structural equality of two types.
func Equal(a, b Type) bool {
	return reflect.DeepEqual(a, b)
}

// EqualSeq reports positional structural equality of two type sequences.
func EqualSeq(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// IsOpen reports whether t still contains free type variables.
func IsOpen(t Type) bool {
	return len(t.FreeTypeVars()) > 0
}
