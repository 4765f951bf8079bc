package overload

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/funvibe/tasklike/internal/diag"
	"github.com/funvibe/tasklike/internal/infer"
	"github.com/funvibe/tasklike/internal/pipeline"
	"github.com/funvibe/tasklike/internal/tasklike"
	"github.com/funvibe/tasklike/internal/typesystem"
)

// Resolver runs the overload-resolution phases for tasklike-involving
// calls. It holds only compilation-context state (registry, conversion
// oracle, logger); everything per call lives in the episode and is
// discarded when Resolve returns.
type Resolver struct {
	reg    *tasklike.Registry
	oracle *typesystem.Oracle
	log    *logrus.Logger
}

// NewResolver creates a resolver. A nil logger gets a default one at Warn
// level, so phase tracing stays silent unless the caller opts in.
func NewResolver(reg *tasklike.Registry, oracle *typesystem.Oracle, log *logrus.Logger) *Resolver {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}
	return &Resolver{reg: reg, oracle: oracle, log: log}
}

// episode is the per-call resolution state. Episodes are discarded
// wholesale on failure or cancellation, never partially committed.
type episode struct {
	ctx     context.Context
	call    Call
	id      string
	cands   []Candidate
	appl    []*applicable
	reasons []string
	winner  *applicable
	err     error
}

// Resolve runs candidate collection, applicability filtering, specificity
// ranking and the tasklike-equivalence fallback for one call. Cancellation
// is honored at the checkpoints between candidates; an aborted episode
// yields only ctx.Err(), never a partial result.
func (r *Resolver) Resolve(ctx context.Context, call Call) (*Result, error) {
	ep := &episode{ctx: ctx, call: call, id: uuid.NewString()}

	p := pipeline.New(
		pipeline.Func[*episode](r.collect),
		pipeline.Func[*episode](r.filterApplicable),
		pipeline.Func[*episode](r.rank),
		pipeline.Func[*episode](r.fallback),
	)
	ep = p.Run(ep)

	if ep.err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, diag.New(call.Site, ep.id, ep.err)
	}
	return &Result{
		Winner:   ep.winner.cand,
		TypeArgs: ep.winner.subst,
		Fixed:    ep.winner.fixed,
		Episode:  ep.id,
	}, nil
}

// collect keeps the overloads with a compatible parameter count.
func (r *Resolver) collect(ep *episode) *episode {
	for _, cand := range ep.call.Candidates {
		if len(cand.Params) == len(ep.call.Args) {
			ep.cands = append(ep.cands, cand)
		}
	}
	r.trace(ep, "collect").WithField("candidates", len(ep.cands)).Debug("candidates collected")
	return ep
}

// filterApplicable runs type inference per candidate and keeps the ones
// whose arguments all convert to the fixed parameter types.
func (r *Resolver) filterApplicable(ep *episode) *episode {
	if ep.err != nil {
		return ep
	}
	for _, cand := range ep.cands {
		if err := ep.ctx.Err(); err != nil {
			ep.err = err
			return ep
		}
		app, err := r.applyCandidate(cand, ep.call.Args)
		if err != nil {
			ep.reasons = append(ep.reasons, fmt.Sprintf("%s: %v", cand.Name, err))
			r.trace(ep, "applicability").WithField("candidate", cand.Name).WithError(err).Debug("candidate rejected")
			continue
		}
		ep.appl = append(ep.appl, app)
		r.trace(ep, "applicability").WithField("candidate", cand.Name).Debug("candidate applicable")
	}
	return ep
}

func (r *Resolver) applyCandidate(cand Candidate, args []Argument) (*applicable, error) {
	ps := infer.NewParamSet(cand.TypeParams...)
	eng := infer.NewEngine(r.reg, r.oracle)

	for i, formal := range cand.Params {
		arg := args[i]
		if arg.Lambda != nil {
			if err := eng.InferLambdaBounds(ps, *arg.Lambda, formal); err != nil {
				return nil, err
			}
			continue
		}
		eng.InferBounds(ps, arg.Type, formal, infer.Lower)
	}

	subst := typesystem.Subst{}
	if len(cand.TypeParams) > 0 {
		s, err := eng.Fix(ps)
		if err != nil {
			return nil, err
		}
		subst = s
	}

	fixed := make([]typesystem.Type, len(cand.Params))
	for i, formal := range cand.Params {
		fixed[i] = formal.Apply(subst)
	}

	for i, arg := range args {
		if arg.Lambda != nil {
			if err := r.lambdaConverts(*arg.Lambda, fixed[i]); err != nil {
				return nil, err
			}
			continue
		}
		if !r.oracle.Convertible(arg.Type, fixed[i]) {
			return nil, fmt.Errorf("argument %d: %s does not convert to %s", i+1, arg.Type, fixed[i])
		}
	}

	return &applicable{cand: cand, subst: subst, fixed: fixed}, nil
}

// lambdaConverts checks that an async lambda converts to a fixed formal
// parameter type: the formal must be a function shape, the parameter lists
// must agree, and the inferred body result must convert to the return
// position.
func (r *Resolver) lambdaConverts(sig infer.LambdaSig, fixed typesystem.Type) error {
	f, ok := fixed.(typesystem.TFunc)
	if !ok {
		return fmt.Errorf("async lambda does not convert to %s", fixed)
	}
	if len(sig.Params) != len(f.Params) {
		return fmt.Errorf("async lambda has %d parameters, %s wants %d", len(sig.Params), fixed, len(f.Params))
	}
	if !typesystem.EqualSeq(sig.Params, f.Params) {
		return fmt.Errorf("async lambda parameters do not match %s", fixed)
	}

	var target typesystem.Type
	if infer.IsTasklikeInstantiation(r.reg, f.Return) {
		target = f.Return
	}
	res, err := infer.InferLambdaResult(r.reg, r.oracle, sig, target)
	if err != nil {
		return err
	}
	if !r.oracle.Convertible(res.Result, f.Return) {
		return fmt.Errorf("async lambda result %s does not convert to %s", res.Result, f.Return)
	}
	return nil
}

// rank applies the standard better-function-member comparison and declares
// a winner only when one candidate is strictly better than every other.
func (r *Resolver) rank(ep *episode) *episode {
	if ep.err != nil {
		return ep
	}
	if len(ep.appl) == 0 {
		ep.err = &diag.NoApplicableOverloadError{Name: ep.call.Name, Reasons: ep.reasons}
		return ep
	}
	if len(ep.appl) == 1 {
		ep.winner = ep.appl[0]
		return ep
	}

	for _, a := range ep.appl {
		wins := true
		for _, b := range ep.appl {
			if a == b {
				continue
			}
			if r.betterFunctionMember(a, b, ep.call.Args) <= 0 {
				wins = false
				break
			}
		}
		if wins {
			ep.winner = a
			r.trace(ep, "rank").WithField("candidate", a.cand.Name).Debug("strict winner")
			return ep
		}
	}
	return ep
}

// fallback is the tasklike-equivalence tie-break. It runs only when
// ranking ended without a winner, so it can turn an ambiguity into a
// disambiguation but can never change a strict result.
func (r *Resolver) fallback(ep *episode) *episode {
	if ep.err != nil || ep.winner != nil {
		return ep
	}

	maximal := r.maximalSet(ep)
	names := make([]string, len(maximal))
	for i, a := range maximal {
		names[i] = a.cand.Name
	}

	if !r.equivalentUpToTasklikes(maximal) {
		ep.err = &diag.AmbiguousOverloadError{Name: ep.call.Name, Candidates: names}
		return ep
	}

	// The canonicalized sequences agree; re-apply the ordinary
	// more-specific tie-break to the now-equivalent candidates.
	for _, a := range maximal {
		wins := true
		for _, b := range maximal {
			if a == b {
				continue
			}
			if moreSpecificCandidate(a.cand, b.cand) <= 0 {
				wins = false
				break
			}
		}
		if wins {
			ep.winner = a
			r.trace(ep, "fallback").WithField("candidate", a.cand.Name).Debug("disambiguated via tasklike equivalence")
			return ep
		}
	}

	ep.err = &diag.AmbiguousOverloadError{Name: ep.call.Name, Candidates: names}
	return ep
}

// maximalSet returns the applicable candidates not strictly beaten by any
// other.
func (r *Resolver) maximalSet(ep *episode) []*applicable {
	var out []*applicable
	for _, a := range ep.appl {
		beaten := false
		for _, b := range ep.appl {
			if a == b {
				continue
			}
			if r.betterFunctionMember(b, a, ep.call.Args) > 0 {
				beaten = true
				break
			}
		}
		if !beaten {
			out = append(out, a)
		}
	}
	return out
}

// equivalentUpToTasklikes reports whether all candidates' fixed parameter
// sequences canonicalize to the same placeholder sequence.
func (r *Resolver) equivalentUpToTasklikes(apps []*applicable) bool {
	if len(apps) < 2 {
		return len(apps) == 1
	}
	first := canonicalizeSeq(r.reg, apps[0].fixed)
	for _, a := range apps[1:] {
		if !typesystem.EqualSeq(first, canonicalizeSeq(r.reg, a.fixed)) {
			return false
		}
	}
	return true
}

func (r *Resolver) trace(ep *episode, phase string) *logrus.Entry {
	return r.log.WithFields(logrus.Fields{
		"episode": ep.id,
		"call":    ep.call.Name,
		"phase":   phase,
	})
}
