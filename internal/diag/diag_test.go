package diag

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		err  error
		want Code
	}{
		{&DuplicateBindingError{Tasklike: "MyTask"}, CodeDuplicateBinding},
		{&IncompatibleBuilderError{Builder: "B", Missing: "set-exception"}, CodeIncompatibleBuilder},
		{&ArityMismatchError{Tasklike: "MyTask"}, CodeArityMismatch},
		{&UnregisteredTasklikeError{Tasklike: "NoSuchTask"}, CodeUnregisteredTasklike},
		{&MixedReturnTypesError{Types: []string{"Int", "String"}}, CodeMixedReturnTypes},
		{&FixingAmbiguousError{Param: "T"}, CodeFixingAmbiguous},
		{&AmbiguousOverloadError{Name: "f"}, CodeAmbiguousOverload},
		{&NoApplicableOverloadError{Name: "f"}, CodeNoApplicableOverload},
		{errors.New("unrelated"), Code("")},
	}
	for _, tt := range tests {
		if got := CodeOf(tt.err); got != tt.want {
			t.Errorf("CodeOf(%T) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestCodeOfWrapped(t *testing.T) {
	inner := &FixingAmbiguousError{Param: "T", Detail: "no bounds"}
	wrapped := fmt.Errorf("candidate f: %w", inner)
	if got := CodeOf(wrapped); got != CodeFixingAmbiguous {
		t.Errorf("CodeOf(wrapped) = %q, want %q", got, CodeFixingAmbiguous)
	}
}

func TestDiagnosticFormatting(t *testing.T) {
	d := New("main.fx:12:3", "ep-1", &UnregisteredTasklikeError{Tasklike: "NoSuchTask"})

	if d.Code != CodeUnregisteredTasklike {
		t.Errorf("Code = %s, want %s", d.Code, CodeUnregisteredTasklike)
	}
	msg := d.Error()
	if !strings.HasPrefix(msg, "main.fx:12:3: ") {
		t.Errorf("message %q should lead with the site", msg)
	}
	if !strings.Contains(msg, string(CodeUnregisteredTasklike)) {
		t.Errorf("message %q should carry the code", msg)
	}
}

func TestDiagnosticUnwrap(t *testing.T) {
	inner := &AmbiguousOverloadError{Name: "f", Candidates: []string{"a", "b"}}
	d := New("", "ep-2", inner)

	var ambiguous *AmbiguousOverloadError
	if !errors.As(d, &ambiguous) {
		t.Fatal("Diagnostic should unwrap to its inner error kind")
	}
	if ambiguous.Name != "f" {
		t.Errorf("unwrapped name = %s, want f", ambiguous.Name)
	}
}
