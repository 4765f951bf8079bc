package manifest

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/tasklike/internal/infer"
	"github.com/funvibe/tasklike/internal/overload"
	"github.com/funvibe/tasklike/internal/typesystem"
)

// Scenario describes one invocation for the checker CLI: the candidate
// signatures in surface type notation and the argument list.
type Scenario struct {
	Call CallDecl `yaml:"call"`
}

type CallDecl struct {
	Name       string          `yaml:"name"`
	Site       string          `yaml:"site"`
	Candidates []CandidateDecl `yaml:"candidates"`
	Arguments  []ArgumentDecl  `yaml:"arguments"`
}

type CandidateDecl struct {
	Name       string   `yaml:"name"`
	TypeParams []string `yaml:"typeParams"`
	Params     []string `yaml:"params"`
}

// ArgumentDecl is either a plain typed expression or an async lambda.
type ArgumentDecl struct {
	Type        string      `yaml:"type"`
	AsyncLambda *LambdaDecl `yaml:"asyncLambda"`
}

// LambdaDecl lists the lambda's parameter types and the static types of its
// return operands; the literal "bare" marks a return with no operand.
type LambdaDecl struct {
	Params     []string `yaml:"params"`
	Returns    []string `yaml:"returns"`
	Annotation string   `yaml:"annotation"`
}

// LoadScenario parses a scenario file into a resolution call.
func LoadScenario(r io.Reader) (*overload.Call, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("malformed scenario: %w", err)
	}
	if sc.Call.Name == "" {
		return nil, fmt.Errorf("scenario has no call name")
	}

	call := &overload.Call{Name: sc.Call.Name, Site: sc.Call.Site}

	for _, cd := range sc.Call.Candidates {
		cand := overload.Candidate{Name: cd.Name, TypeParams: cd.TypeParams}
		for _, p := range cd.Params {
			t, err := typesystem.Parse(p, cd.TypeParams...)
			if err != nil {
				return nil, fmt.Errorf("candidate %s: %w", cd.Name, err)
			}
			cand.Params = append(cand.Params, t)
		}
		call.Candidates = append(call.Candidates, cand)
	}

	for i, ad := range sc.Call.Arguments {
		arg, err := parseArgument(ad, sc.Call.Site)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		call.Args = append(call.Args, arg)
	}
	return call, nil
}

func parseArgument(ad ArgumentDecl, site string) (overload.Argument, error) {
	if ad.AsyncLambda != nil {
		sig := infer.LambdaSig{Site: site}
		for _, p := range ad.AsyncLambda.Params {
			t, err := typesystem.Parse(p)
			if err != nil {
				return overload.Argument{}, err
			}
			sig.Params = append(sig.Params, t)
		}
		for _, ret := range ad.AsyncLambda.Returns {
			if ret == "bare" {
				sig.Returns = append(sig.Returns, nil)
				continue
			}
			t, err := typesystem.Parse(ret)
			if err != nil {
				return overload.Argument{}, err
			}
			sig.Returns = append(sig.Returns, t)
		}
		if ad.AsyncLambda.Annotation != "" {
			t, err := typesystem.Parse(ad.AsyncLambda.Annotation)
			if err != nil {
				return overload.Argument{}, err
			}
			sig.Annotation = t
		}
		return overload.Argument{Lambda: &sig}, nil
	}

	if ad.Type == "" {
		return overload.Argument{}, fmt.Errorf("argument needs either a type or an asyncLambda")
	}
	t, err := typesystem.Parse(ad.Type)
	if err != nil {
		return overload.Argument{}, err
	}
	return overload.Argument{Type: t}, nil
}
