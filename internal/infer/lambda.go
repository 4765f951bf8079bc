// Package infer computes async-lambda result types and generic-parameter
// bounds for one resolution episode. All state here is owned by the episode
// that allocates it and discarded at episode end.
package infer

import (
	"fmt"

	"github.com/funvibe/tasklike/internal/config"
	"github.com/funvibe/tasklike/internal/diag"
	"github.com/funvibe/tasklike/internal/tasklike"
	"github.com/funvibe/tasklike/internal/typesystem"
)

// LambdaSig describes one call-site occurrence of an async lambda: its
// parameter types, the static types of its return operands (a nil entry is
// a bare return), and an optional explicit tasklike annotation that
// overrides inference. It lives for exactly one inference episode.
type LambdaSig struct {
	Params     []typesystem.Type
	Returns    []typesystem.Type
	Annotation typesystem.Type
	Site       string
}

// LambdaResult is the inferred result of an async body.
type LambdaResult struct {
	// Result is the full tasklike instantiation the body produces
	// (e.g. Task<Int>, MyTask<Int>, or bare MyTask for arity 0).
	Result typesystem.Type
	// Operand is the best common type R of the return operands
	// (Unit when every return is bare).
	Operand typesystem.Type
	// DefaultWrapped is set when no tasklike-specific context existed and
	// R was wrapped in the builtin deferred-computation type.
	DefaultWrapped bool
}

// InferLambdaResult computes the result type produced by an async body.
//
// The contextual target, when present and of tasklike shape, determines the
// tasklike identity directly: R is bound against the target's argument
// position. The engine never works backward from a builder's method shapes
// to find the identity; that direction presupposes knowing the builder,
// which presupposes knowing the tasklike, and is permanently prohibited.
func InferLambdaResult(reg *tasklike.Registry, oracle *typesystem.Oracle, sig LambdaSig, target typesystem.Type) (LambdaResult, error) {
	collected := make([]typesystem.Type, 0, len(sig.Returns))
	allBare := true
	for _, ret := range sig.Returns {
		if ret == nil {
			collected = append(collected, typesystem.Unit)
			continue
		}
		allBare = false
		collected = append(collected, ret)
	}

	var operand typesystem.Type = typesystem.Unit
	if len(collected) > 0 {
		r, ok := oracle.BestCommonType(collected)
		if !ok {
			names := make([]string, len(collected))
			for i, c := range collected {
				names[i] = c.String()
			}
			return LambdaResult{}, &diag.MixedReturnTypesError{Types: names}
		}
		operand = r
	}

	// An explicit annotation takes the place of the contextual target.
	if sig.Annotation != nil {
		target = sig.Annotation
	}

	if target != nil {
		if inst, ok := asTasklikeTarget(reg, target); ok {
			return bindAgainstTarget(inst, operand, allBare || len(collected) == 0)
		}
	}

	// No tasklike-specific expectation: report the result default-wrapped
	// in the builtin deferred-computation type.
	var result typesystem.Type
	if allBare || len(collected) == 0 {
		result = typesystem.TCon{Name: config.TaskTypeName}
	} else {
		result = typesystem.TApp{
			Constructor: typesystem.TCon{Name: config.TaskTypeName},
			Args:        []typesystem.Type{operand},
		}
	}
	return LambdaResult{Result: result, Operand: operand, DefaultWrapped: true}, nil
}

// IsTasklikeInstantiation reports whether t is a tasklike instantiation
// under reg: a registered 0-arity constructor or a registered 1-arity
// constructor applied to one argument (open or fixed).
func IsTasklikeInstantiation(reg *tasklike.Registry, t typesystem.Type) bool {
	_, ok := asTasklikeTarget(reg, t)
	return ok
}

// tasklikeTarget is a contextual target of tasklike shape.
type tasklikeTarget struct {
	con   typesystem.TCon
	arity int
}

func asTasklikeTarget(reg *tasklike.Registry, target typesystem.Type) (tasklikeTarget, bool) {
	switch t := target.(type) {
	case typesystem.TCon:
		if reg.IsTasklike(t.Name, 0) {
			return tasklikeTarget{con: t, arity: 0}, true
		}
	case typesystem.TApp:
		if len(t.Args) == 1 && reg.IsTasklike(t.Constructor.Name, 1) {
			return tasklikeTarget{con: t.Constructor, arity: 1}, true
		}
	}
	return tasklikeTarget{}, false
}

func bindAgainstTarget(inst tasklikeTarget, operand typesystem.Type, bare bool) (LambdaResult, error) {
	if inst.arity == 0 {
		if !bare {
			return LambdaResult{}, fmt.Errorf(
				"async body returns %s but target tasklike %s carries no result", operand, inst.con)
		}
		return LambdaResult{Result: inst.con, Operand: typesystem.Unit}, nil
	}
	return LambdaResult{
		Result:  typesystem.TApp{Constructor: inst.con, Args: []typesystem.Type{operand}},
		Operand: operand,
	}, nil
}
