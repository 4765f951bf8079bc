package overload

import (
	"context"
	"errors"
	"testing"

	"github.com/funvibe/tasklike/internal/config"
	"github.com/funvibe/tasklike/internal/diag"
	"github.com/funvibe/tasklike/internal/infer"
	"github.com/funvibe/tasklike/internal/tasklike"
	"github.com/funvibe/tasklike/internal/typesystem"
)

func testRegistry(t *testing.T) *tasklike.Registry {
	t.Helper()
	reg := tasklike.NewRegistry()
	for _, name := range []string{"MyTask", "OtherTask"} {
		err := reg.Register(tasklike.Descriptor{
			Name:  name,
			Arity: 1,
			Builder: tasklike.BuilderDescriptor{
				Name:         name + "Builder",
				Arity:        1,
				Capabilities: config.RequiredCapabilities,
			},
		})
		if err != nil {
			t.Fatalf("Register(%s) error = %v", name, err)
		}
	}
	return reg.Freeze()
}

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	return NewResolver(testRegistry(t), typesystem.NewOracle(), nil)
}

func candidate(name string, typeParams []string, params ...string) Candidate {
	c := Candidate{Name: name, TypeParams: typeParams}
	for _, p := range params {
		c.Params = append(c.Params, typesystem.MustParse(p, typeParams...))
	}
	return c
}

func asyncLambda(returns ...string) Argument {
	sig := &infer.LambdaSig{}
	for _, r := range returns {
		if r == "bare" {
			sig.Returns = append(sig.Returns, nil)
			continue
		}
		sig.Returns = append(sig.Returns, typesystem.MustParse(r))
	}
	return Argument{Lambda: sig}
}

func typedArg(src string) Argument {
	return Argument{Type: typesystem.MustParse(src)}
}

func TestResolveTasklikeContext(t *testing.T) {
	// f<T>(Func<Task<T>>) applied to an async lambda returning an Int:
	// the contextual target unwraps and T fixes to Int.
	r := testResolver(t)
	call := Call{
		Name:       "f",
		Site:       "demo:1",
		Candidates: []Candidate{candidate("f", []string{"T"}, "Func<Task<T>>")},
		Args:       []Argument{asyncLambda("Int")},
	}

	res, err := r.Resolve(context.Background(), call)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := res.TypeArgs["T"].String(); got != "Int" {
		t.Errorf("T = %s, want Int", got)
	}
	if got := res.Fixed[0].String(); got != "Func<Task<Int>>" {
		t.Errorf("fixed param = %s, want Func<Task<Int>>", got)
	}
}

func TestResolveDefaultWrap(t *testing.T) {
	// f<T>(Func<T>) applied to the same lambda: without a tasklike target
	// the result default-wraps and T fixes to the wrapped type.
	r := testResolver(t)
	call := Call{
		Name:       "f",
		Site:       "demo:2",
		Candidates: []Candidate{candidate("f", []string{"T"}, "Func<T>")},
		Args:       []Argument{asyncLambda("Int")},
	}

	res, err := r.Resolve(context.Background(), call)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := res.TypeArgs["T"].String(); got != "Task<Int>" {
		t.Errorf("T = %s, want Task<Int>", got)
	}
}

func TestResolveDeclarationSpecificityTieBreak(t *testing.T) {
	// Both overloads fix to the identical parameter sequence
	// Func<Task<Int>>; the declared Func<Task<T>> is more specific than the
	// declared Func<T> and wins without the fallback.
	r := testResolver(t)
	call := Call{
		Name: "f",
		Site: "demo:3",
		Candidates: []Candidate{
			candidate("fWrapped", []string{"T"}, "Func<Task<T>>"),
			candidate("fPlain", []string{"T"}, "Func<T>"),
		},
		Args: []Argument{asyncLambda("Int")},
	}

	res, err := r.Resolve(context.Background(), call)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Winner.Name != "fWrapped" {
		t.Errorf("winner = %s, want fWrapped", res.Winner.Name)
	}
}

func TestResolveTasklikeEquivalenceFallback(t *testing.T) {
	// With a user tasklike the fixed sequences differ (Func<MyTask<Int>> vs
	// Func<Task<Int>>), so ranking finds no strict winner. Both canonicalize
	// to Func<$tasklike1<Int>>, and declaration specificity then picks the
	// tasklike-typed overload.
	r := testResolver(t)
	call := Call{
		Name: "f",
		Site: "demo:4",
		Candidates: []Candidate{
			candidate("fMyTask", []string{"T"}, "Func<MyTask<T>>"),
			candidate("fPlain", []string{"T"}, "Func<T>"),
		},
		Args: []Argument{asyncLambda("Int")},
	}

	res, err := r.Resolve(context.Background(), call)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Winner.Name != "fMyTask" {
		t.Errorf("winner = %s, want fMyTask", res.Winner.Name)
	}
	if got := res.TypeArgs["T"].String(); got != "Int" {
		t.Errorf("T = %s, want Int", got)
	}
}

func TestResolveAmbiguityPersists(t *testing.T) {
	// Two distinct user tasklikes canonicalize identically but neither
	// declaration is more specific, so the ambiguity stands.
	r := testResolver(t)
	call := Call{
		Name: "f",
		Site: "demo:5",
		Candidates: []Candidate{
			candidate("fMyTask", []string{"T"}, "Func<MyTask<T>>"),
			candidate("fOtherTask", []string{"T"}, "Func<OtherTask<T>>"),
		},
		Args: []Argument{asyncLambda("Int")},
	}

	_, err := r.Resolve(context.Background(), call)
	var ambiguous *diag.AmbiguousOverloadError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("Resolve() error = %v, want AmbiguousOverloadError", err)
	}
	if len(ambiguous.Candidates) != 2 {
		t.Errorf("ambiguity names %v, want both candidates", ambiguous.Candidates)
	}
}

func TestResolveFallbackNeverOverturnsStrictWinner(t *testing.T) {
	// An identity conversion beats a widening one, so the Int overload wins
	// strictly; the fallback phase must leave that result untouched even
	// though the other overload exists.
	r := testResolver(t)
	call := Call{
		Name: "g",
		Site: "demo:6",
		Candidates: []Candidate{
			candidate("gInt", nil, "Int"),
			candidate("gLong", nil, "Long"),
		},
		Args: []Argument{typedArg("Int")},
	}

	res, err := r.Resolve(context.Background(), call)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Winner.Name != "gInt" {
		t.Errorf("winner = %s, want gInt", res.Winner.Name)
	}
}

func TestResolveNoApplicableOverload(t *testing.T) {
	r := testResolver(t)
	call := Call{
		Name: "h",
		Site: "demo:7",
		Candidates: []Candidate{
			candidate("hString", nil, "String"),
			candidate("hTwoArgs", nil, "Int", "Int"),
		},
		Args: []Argument{typedArg("Int")},
	}

	_, err := r.Resolve(context.Background(), call)
	var none *diag.NoApplicableOverloadError
	if !errors.As(err, &none) {
		t.Fatalf("Resolve() error = %v, want NoApplicableOverloadError", err)
	}
	if len(none.Reasons) != 1 {
		t.Errorf("reasons = %v, want one rejection for hString", none.Reasons)
	}
}

func TestBuilderShapeNeverImpliesTasklike(t *testing.T) {
	// UnknownBox is unregistered, so the lambda default-wraps and its result
	// never matches Func<UnknownBox<T>>. Structural builder shape must not
	// conjure a tasklike that was never registered.
	r := testResolver(t)
	call := Call{
		Name:       "f",
		Site:       "demo:8",
		Candidates: []Candidate{candidate("f", []string{"T"}, "Func<UnknownBox<T>>")},
		Args:       []Argument{asyncLambda("Int")},
	}

	_, err := r.Resolve(context.Background(), call)
	var none *diag.NoApplicableOverloadError
	if !errors.As(err, &none) {
		t.Fatalf("Resolve() error = %v, want NoApplicableOverloadError", err)
	}
}

func TestResolveCancellation(t *testing.T) {
	r := testResolver(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	call := Call{
		Name:       "f",
		Site:       "demo:9",
		Candidates: []Candidate{candidate("f", []string{"T"}, "Func<Task<T>>")},
		Args:       []Argument{asyncLambda("Int")},
	}

	res, err := r.Resolve(ctx, call)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Resolve() error = %v, want context.Canceled", err)
	}
	if res != nil {
		t.Error("an aborted episode must not yield a partial result")
	}
}

func TestResolveDiagnosticCarriesEpisode(t *testing.T) {
	r := testResolver(t)
	call := Call{
		Name:       "h",
		Site:       "demo:10",
		Candidates: []Candidate{candidate("hString", nil, "String")},
		Args:       []Argument{typedArg("Int")},
	}

	_, err := r.Resolve(context.Background(), call)
	var d *diag.Diagnostic
	if !errors.As(err, &d) {
		t.Fatalf("Resolve() error = %v, want *diag.Diagnostic", err)
	}
	if d.Site != "demo:10" || d.Episode == "" {
		t.Errorf("diagnostic site=%q episode=%q, want site demo:10 and a non-empty episode", d.Site, d.Episode)
	}
	if diag.CodeOf(err) != diag.CodeNoApplicableOverload {
		t.Errorf("code = %s, want %s", diag.CodeOf(err), diag.CodeNoApplicableOverload)
	}
}

func TestResolveLambdaWithParams(t *testing.T) {
	// f<T>(Func<Int, MyTask<T>>) with an async lambda (Int) => "s".
	r := testResolver(t)
	sig := &infer.LambdaSig{
		Params:  []typesystem.Type{typesystem.MustParse("Int")},
		Returns: []typesystem.Type{typesystem.MustParse("String")},
	}
	call := Call{
		Name:       "f",
		Site:       "demo:11",
		Candidates: []Candidate{candidate("f", []string{"T"}, "Func<Int, MyTask<T>>")},
		Args:       []Argument{{Lambda: sig}},
	}

	res, err := r.Resolve(context.Background(), call)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := res.TypeArgs["T"].String(); got != "String" {
		t.Errorf("T = %s, want String", got)
	}
}
