// Package diag defines the engine's diagnostic surface. Every failure is
// purely static: detected during analysis, reported once, never recovered
// from within the same episode.
package diag

import (
	"errors"
	"fmt"
)

// Code identifies a diagnostic kind for tooling that filters by code.
type Code string

const (
	CodeDuplicateBinding     Code = "TL0001"
	CodeIncompatibleBuilder  Code = "TL0002"
	CodeArityMismatch        Code = "TL0003"
	CodeUnregisteredTasklike Code = "TL0004"
	CodeMixedReturnTypes     Code = "TL0005"
	CodeFixingAmbiguous      Code = "TL0006"
	CodeAmbiguousOverload    Code = "TL0007"
	CodeNoApplicableOverload Code = "TL0008"
)

// Diagnostic attaches a located, episode-tagged report to one of the error
// kinds below. Site is the host-supplied call or declaration location;
// Episode is the id of the resolution episode that produced the report.
type Diagnostic struct {
	Code    Code
	Site    string
	Episode string
	Err     error
}

func (d *Diagnostic) Error() string {
	if d.Site != "" {
		return fmt.Sprintf("%s: [%s] %v", d.Site, d.Code, d.Err)
	}
	return fmt.Sprintf("[%s] %v", d.Code, d.Err)
}

func (d *Diagnostic) Unwrap() error { return d.Err }

// New wraps err into a Diagnostic, deriving the code from the error kind.
func New(site, episode string, err error) *Diagnostic {
	return &Diagnostic{Code: CodeOf(err), Site: site, Episode: episode, Err: err}
}

// CodeOf maps an error kind to its diagnostic code.
func CodeOf(err error) Code {
	switch {
	case errorsAs[*DuplicateBindingError](err):
		return CodeDuplicateBinding
	case errorsAs[*IncompatibleBuilderError](err):
		return CodeIncompatibleBuilder
	case errorsAs[*ArityMismatchError](err):
		return CodeArityMismatch
	case errorsAs[*UnregisteredTasklikeError](err):
		return CodeUnregisteredTasklike
	case errorsAs[*MixedReturnTypesError](err):
		return CodeMixedReturnTypes
	case errorsAs[*FixingAmbiguousError](err):
		return CodeFixingAmbiguous
	case errorsAs[*AmbiguousOverloadError](err):
		return CodeAmbiguousOverload
	case errorsAs[*NoApplicableOverloadError](err):
		return CodeNoApplicableOverload
	}
	return ""
}

func errorsAs[E error](err error) bool {
	var target E
	return errors.As(err, &target)
}

// DuplicateBindingError indicates a tasklike identity already bound to a
// different builder.
type DuplicateBindingError struct {
	Tasklike string
	Existing string
	Proposed string
}

func (e *DuplicateBindingError) Error() string {
	return fmt.Sprintf("tasklike %s is already bound to builder %s (cannot rebind to %s)",
		e.Tasklike, e.Existing, e.Proposed)
}

// IncompatibleBuilderError indicates a builder missing a required capability
// or declared at the wrong generic arity.
type IncompatibleBuilderError struct {
	Builder string
	Missing string // missing capability, empty when the arity is the problem
	Reason  string
}

func (e *IncompatibleBuilderError) Error() string {
	if e.Missing != "" {
		return fmt.Sprintf("builder %s lacks required capability %q", e.Builder, e.Missing)
	}
	return fmt.Sprintf("builder %s is incompatible: %s", e.Builder, e.Reason)
}

// ArityMismatchError indicates a cross-arity tasklike/builder binding attempt.
type ArityMismatchError struct {
	Tasklike      string
	TasklikeArity int
	BuilderArity  int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("tasklike %s has arity %d but its builder has arity %d",
		e.Tasklike, e.TasklikeArity, e.BuilderArity)
}

// UnregisteredTasklikeError indicates a lookup for an unknown tasklike.
type UnregisteredTasklikeError struct {
	Tasklike string
}

func (e *UnregisteredTasklikeError) Error() string {
	return fmt.Sprintf("no builder registered for tasklike %s", e.Tasklike)
}

// MixedReturnTypesError indicates an async body whose return operands have
// no best common type.
type MixedReturnTypesError struct {
	Types []string
}

func (e *MixedReturnTypesError) Error() string {
	return fmt.Sprintf("async body returns have no best common type: %v", e.Types)
}

// FixingAmbiguousError indicates a generic parameter whose bound sets do not
// determine a unique type.
type FixingAmbiguousError struct {
	Param  string
	Detail string
}

func (e *FixingAmbiguousError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("cannot fix type parameter %s: %s", e.Param, e.Detail)
	}
	return fmt.Sprintf("cannot fix type parameter %s", e.Param)
}

// AmbiguousOverloadError indicates two or more maximally applicable
// candidates that survived the tasklike-equivalence fallback.
type AmbiguousOverloadError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousOverloadError) Error() string {
	return fmt.Sprintf("call to %s is ambiguous between %v", e.Name, e.Candidates)
}

// NoApplicableOverloadError indicates that no candidate passed applicability.
type NoApplicableOverloadError struct {
	Name    string
	Reasons []string
}

func (e *NoApplicableOverloadError) Error() string {
	if len(e.Reasons) == 0 {
		return fmt.Sprintf("no applicable overload for %s", e.Name)
	}
	return fmt.Sprintf("no applicable overload for %s: %v", e.Name, e.Reasons)
}
