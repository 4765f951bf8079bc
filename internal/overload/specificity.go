package overload

import (
	"github.com/funvibe/tasklike/internal/typesystem"
)

// betterFunctionMember compares two applicable candidates: +1 when a is
// strictly better, -1 when b is, 0 when neither. Conversion-target
// comparison runs first; the identical-parameter-sequence tie-break applies
// only when the fixed sequences are structurally equal.
func (r *Resolver) betterFunctionMember(a, b *applicable, args []Argument) int {
	pos, neg := false, false
	for i := range args {
		switch c := r.betterConversionTarget(args[i], a.fixed[i], b.fixed[i]); {
		case c > 0:
			pos = true
		case c < 0:
			neg = true
		}
	}
	if pos && !neg {
		return 1
	}
	if neg && !pos {
		return -1
	}

	if typesystem.EqualSeq(a.fixed, b.fixed) {
		return moreSpecificCandidate(a.cand, b.cand)
	}
	return 0
}

// betterConversionTarget ranks the conversion of one argument to two fixed
// formal types: identity beats widening beats everything else, then the
// strictly more specific target wins.
func (r *Resolver) betterConversionTarget(arg Argument, p, q typesystem.Type) int {
	if typesystem.Equal(p, q) {
		return 0
	}
	if arg.Type != nil {
		pIdent := typesystem.Equal(arg.Type, p)
		qIdent := typesystem.Equal(arg.Type, q)
		if pIdent != qIdent {
			if pIdent {
				return 1
			}
			return -1
		}
	}
	if r.oracle.MoreSpecific(p, q) {
		return 1
	}
	if r.oracle.MoreSpecific(q, p) {
		return -1
	}
	return 0
}

// moreSpecificCandidate applies the classical tie-break over the declared
// (un-substituted) parameter sequences: a constructed type is more specific
// than a bare type parameter, recursively through matching shapes.
func moreSpecificCandidate(a, b Candidate) int {
	if len(a.Params) != len(b.Params) {
		return 0
	}
	pos, neg := false, false
	for i := range a.Params {
		switch c := moreSpecificType(a.Params[i], b.Params[i]); {
		case c > 0:
			pos = true
		case c < 0:
			neg = true
		}
	}
	if pos && !neg {
		return 1
	}
	if neg && !pos {
		return -1
	}
	return 0
}

func moreSpecificType(p, q typesystem.Type) int {
	_, pVar := p.(typesystem.TVar)
	_, qVar := q.(typesystem.TVar)
	switch {
	case pVar && qVar:
		return 0
	case pVar:
		return -1
	case qVar:
		return 1
	}

	switch pt := p.(type) {
	case typesystem.TApp:
		qt, ok := q.(typesystem.TApp)
		if !ok || pt.Constructor != qt.Constructor || len(pt.Args) != len(qt.Args) {
			return 0
		}
		pos, neg := false, false
		for i := range pt.Args {
			switch c := moreSpecificType(pt.Args[i], qt.Args[i]); {
			case c > 0:
				pos = true
			case c < 0:
				neg = true
			}
		}
		return aggregate(pos, neg)

	case typesystem.TFunc:
		qt, ok := q.(typesystem.TFunc)
		if !ok || len(pt.Params) != len(qt.Params) {
			return 0
		}
		pos, neg := false, false
		for i := range pt.Params {
			switch c := moreSpecificType(pt.Params[i], qt.Params[i]); {
			case c > 0:
				pos = true
			case c < 0:
				neg = true
			}
		}
		switch c := moreSpecificType(pt.Return, qt.Return); {
		case c > 0:
			pos = true
		case c < 0:
			neg = true
		}
		return aggregate(pos, neg)
	}
	return 0
}

func aggregate(pos, neg bool) int {
	if pos && !neg {
		return 1
	}
	if neg && !pos {
		return -1
	}
	return 0
}
