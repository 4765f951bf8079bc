package infer

import (
	"fmt"

	"github.com/funvibe/tasklike/internal/diag"
	"github.com/funvibe/tasklike/internal/typesystem"
)

// Fix resolves every parameter's bound sets to one concrete type and
// returns the resulting substitution. A parameter with exactly one exact
// bound fixes to it when it is consistent with the other sets; otherwise
// the unique type all lower bounds convert to that converts to all upper
// bounds wins. Absence or non-uniqueness fails the episode.
func (e *Engine) Fix(ps *ParamSet) (typesystem.Subst, error) {
	subst := typesystem.Subst{}

	for _, name := range ps.order {
		p := ps.params[name]

		fixed, err := e.fixParam(p)
		if err != nil {
			return nil, err
		}
		p.Fixed = fixed
		subst[name] = fixed
	}
	return subst, nil
}

func (e *Engine) fixParam(p *Param) (typesystem.Type, error) {
	if len(p.Exact) > 1 {
		return nil, &diag.FixingAmbiguousError{
			Param:  p.Name,
			Detail: fmt.Sprintf("conflicting exact bounds %v", typeNames(p.Exact)),
		}
	}

	if len(p.Exact) == 1 {
		exact := p.Exact[0]
		if !e.consistent(exact, p) {
			return nil, &diag.FixingAmbiguousError{
				Param:  p.Name,
				Detail: fmt.Sprintf("exact bound %s conflicts with other bounds", exact),
			}
		}
		return exact, nil
	}

	candidates := p.Lower
	if len(candidates) == 0 {
		candidates = p.Upper
	}
	if len(candidates) == 0 {
		return nil, &diag.FixingAmbiguousError{Param: p.Name, Detail: "no bounds"}
	}

	var fixed typesystem.Type
	for _, c := range candidates {
		if !e.consistent(c, p) {
			continue
		}
		if fixed != nil && !typesystem.Equal(fixed, c) {
			return nil, &diag.FixingAmbiguousError{
				Param:  p.Name,
				Detail: fmt.Sprintf("both %s and %s satisfy the bounds", fixed, c),
			}
		}
		if fixed == nil {
			fixed = c
		}
	}
	if fixed == nil {
		return nil, &diag.FixingAmbiguousError{
			Param:  p.Name,
			Detail: fmt.Sprintf("no type satisfies lower bounds %v and upper bounds %v", typeNames(p.Lower), typeNames(p.Upper)),
		}
	}
	return fixed, nil
}

// consistent reports whether candidate is convertible-from all lower bounds
// and convertible-to all upper bounds.
func (e *Engine) consistent(candidate typesystem.Type, p *Param) bool {
	for _, lo := range p.Lower {
		if !e.oracle.Convertible(lo, candidate) {
			return false
		}
	}
	for _, up := range p.Upper {
		if !e.oracle.Convertible(candidate, up) {
			return false
		}
	}
	return true
}

func typeNames(ts []typesystem.Type) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.String()
	}
	return out
}
