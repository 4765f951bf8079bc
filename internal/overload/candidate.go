// Package overload ranks applicable candidates for one invocation and adds
// the conservative tasklike-equivalence fallback on top of the host's
// standard better-function-member rules.
package overload

import (
	"github.com/funvibe/tasklike/internal/infer"
	"github.com/funvibe/tasklike/internal/typesystem"
)

// Candidate is one overload of the invoked name. Params may contain open
// generic parameters named in TypeParams.
type Candidate struct {
	Name       string
	TypeParams []string
	Params     []typesystem.Type
}

// Argument is one call-site argument: either a plain typed expression or an
// async lambda awaiting result inference.
type Argument struct {
	Type   typesystem.Type
	Lambda *infer.LambdaSig
}

// Call is one resolution request: the candidate set for the invoked name
// and the argument list, plus the host-supplied call site for diagnostics.
type Call struct {
	Name       string
	Site       string
	Candidates []Candidate
	Args       []Argument
}

// Result is a successful resolution: the winning candidate, its fixed type
// arguments, and the substituted parameter sequence.
type Result struct {
	Winner   Candidate
	TypeArgs typesystem.Subst
	Fixed    []typesystem.Type
	Episode  string
}

// applicable carries a candidate through ranking after it passed the
// applicability filter.
type applicable struct {
	cand  Candidate
	subst typesystem.Subst
	fixed []typesystem.Type
}
