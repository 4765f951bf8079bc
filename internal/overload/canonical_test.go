package overload

import (
	"testing"

	"github.com/funvibe/tasklike/internal/typesystem"
)

func TestCanonicalize(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "Builtin", src: "Task<Int>", want: "$tasklike1<Int>"},
		{name: "Builtin Bare", src: "Task", want: "$tasklike0"},
		{name: "User Tasklike", src: "MyTask<Int>", want: "$tasklike1<Int>"},
		{name: "Nested", src: "Func<Int, MyTask<Task<Int>>>", want: "Func<Int, $tasklike1<$tasklike1<Int>>>"},
		{name: "Unregistered Untouched", src: "SomeBox<Int>", want: "SomeBox<Int>"},
		{name: "Plain Type Untouched", src: "Int", want: "Int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := canonicalize(reg, typesystem.MustParse(tt.src))
			if got.String() != tt.want {
				t.Errorf("canonicalize(%s) = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestCanonicalFormsCoincide(t *testing.T) {
	// Distinct registered tasklikes become indistinguishable, which is
	// exactly the equivalence the fallback compares under.
	reg := testRegistry(t)

	a := canonicalize(reg, typesystem.MustParse("Func<MyTask<Int>>"))
	b := canonicalize(reg, typesystem.MustParse("Func<OtherTask<Int>>"))
	c := canonicalize(reg, typesystem.MustParse("Func<Task<Int>>"))

	if !typesystem.Equal(a, b) || !typesystem.Equal(b, c) {
		t.Errorf("canonical forms differ: %s, %s, %s", a, b, c)
	}
}

func TestCanonicalizeSeq(t *testing.T) {
	reg := testRegistry(t)

	in := []typesystem.Type{
		typesystem.MustParse("MyTask<Int>"),
		typesystem.MustParse("String"),
	}
	got := canonicalizeSeq(reg, in)

	if got[0].String() != "$tasklike1<Int>" || got[1].String() != "String" {
		t.Errorf("canonicalizeSeq = [%s %s]", got[0], got[1])
	}
	// Input sequence stays untouched.
	if in[0].String() != "MyTask<Int>" {
		t.Errorf("input mutated to %s", in[0])
	}
}
