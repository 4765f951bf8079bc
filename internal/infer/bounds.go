package infer

import (
	"github.com/funvibe/tasklike/internal/tasklike"
	"github.com/funvibe/tasklike/internal/typesystem"
)

// BoundKind distinguishes the three bound sets collected per generic
// parameter.
type BoundKind int

const (
	Lower BoundKind = iota
	Upper
	Exact
)

func (k BoundKind) String() string {
	switch k {
	case Lower:
		return "lower"
	case Upper:
		return "upper"
	case Exact:
		return "exact"
	}
	return "?"
}

// Param is one generic parameter's inference state. It is scoped to one
// candidate's inference episode and never shared across candidates.
type Param struct {
	Name  string
	Lower []typesystem.Type
	Upper []typesystem.Type
	Exact []typesystem.Type
	Fixed typesystem.Type
}

func (p *Param) add(kind BoundKind, t typesystem.Type) {
	set := &p.Lower
	switch kind {
	case Upper:
		set = &p.Upper
	case Exact:
		set = &p.Exact
	}
	for _, existing := range *set {
		if typesystem.Equal(existing, t) {
			return
		}
	}
	*set = append(*set, t)
}

// ParamSet holds the generic parameters of one candidate during one
// inference episode, in declaration order.
type ParamSet struct {
	order  []string
	params map[string]*Param
}

func NewParamSet(names ...string) *ParamSet {
	ps := &ParamSet{params: make(map[string]*Param, len(names))}
	for _, n := range names {
		ps.order = append(ps.order, n)
		ps.params[n] = &Param{Name: n}
	}
	return ps
}

func (ps *ParamSet) Get(name string) (*Param, bool) {
	p, ok := ps.params[name]
	return p, ok
}

// AddBound records a bound for a parameter; unknown names are ignored so
// callers can feed whole formal types without pre-filtering.
func (ps *ParamSet) AddBound(name string, kind BoundKind, t typesystem.Type) {
	if p, ok := ps.params[name]; ok {
		p.add(kind, t)
	}
}

// Engine folds argument types into a candidate's bound sets. It extends the
// classical lower/upper/exact collection with exactly one new rule: the
// unwrap rule for registered tasklikes. No placeholder type is ever
// introduced into the universe; default-wrapped lambda results feed this
// same walk as ordinary argument types.
type Engine struct {
	reg    *tasklike.Registry
	oracle *typesystem.Oracle
}

func NewEngine(reg *tasklike.Registry, oracle *typesystem.Oracle) *Engine {
	return &Engine{reg: reg, oracle: oracle}
}

// InferBounds walks arg against formal and records bounds for every open
// generic parameter position in formal. Shape mismatches record nothing;
// the applicability conversion check reports them after fixing.
func (e *Engine) InferBounds(ps *ParamSet, arg, formal typesystem.Type, kind BoundKind) {
	switch f := formal.(type) {
	case typesystem.TVar:
		ps.AddBound(f.Name, kind, arg)

	case typesystem.TApp:
		a, ok := arg.(typesystem.TApp)
		if !ok || a.Constructor != f.Constructor || len(a.Args) != len(f.Args) {
			return
		}
		// Unwrap rule: for any registered 1-arity tasklike K, inferring
		// K<T> against K<X> contributes a lower bound T -> X. The builtin
		// deferred-computation type gets no special casing here; it is
		// just one registered tasklike among the others.
		if len(f.Args) == 1 && e.reg.IsTasklike(f.Constructor.Name, 1) {
			e.InferBounds(ps, a.Args[0], f.Args[0], Lower)
			return
		}
		// Ordinary constructor arguments are invariant.
		for i := range f.Args {
			e.InferBounds(ps, a.Args[i], f.Args[i], Exact)
		}

	case typesystem.TFunc:
		a, ok := arg.(typesystem.TFunc)
		if !ok || len(a.Params) != len(f.Params) {
			return
		}
		for i := range f.Params {
			e.InferBounds(ps, a.Params[i], f.Params[i], Exact)
		}
		// Return position is covariant; the bound direction carries through.
		e.InferBounds(ps, a.Return, f.Return, kind)
	}
}

// InferLambdaBounds folds an async lambda argument into the bound sets for
// a formal parameter of function shape. The formal's return position serves
// as the contextual target when it is a tasklike instantiation; otherwise
// the default-wrapped result participates in ordinary bound inference
// directly.
func (e *Engine) InferLambdaBounds(ps *ParamSet, sig LambdaSig, formal typesystem.Type) error {
	f, ok := formal.(typesystem.TFunc)
	if !ok {
		return nil
	}

	var target typesystem.Type
	if _, isTasklike := asTasklikeTarget(e.reg, f.Return); isTasklike {
		target = f.Return
	}

	res, err := InferLambdaResult(e.reg, e.oracle, sig, target)
	if err != nil {
		return err
	}

	for i := range f.Params {
		if i < len(sig.Params) {
			e.InferBounds(ps, sig.Params[i], f.Params[i], Exact)
		}
	}
	e.InferBounds(ps, res.Result, f.Return, Lower)
	return nil
}
