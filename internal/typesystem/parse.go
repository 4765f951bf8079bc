package typesystem

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/funvibe/tasklike/internal/config"
)

// Parse reads the surface type notation used by manifests, scenarios and
// tests: Name, Name<Args...>, Func<Params..., Return>. Names listed in
// typeParams parse as open generic parameters; everything else is a
// concrete constructor. A trailing module qualifier is split on the last
// dot (e.g. "collections.ImmutableArray").
func Parse(src string, typeParams ...string) (Type, error) {
	p := &typeParser{src: src, params: make(map[string]bool, len(typeParams))}
	for _, tp := range typeParams {
		p.params[tp] = true
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("unexpected %q at offset %d in %q", p.src[p.pos], p.pos, p.src)
	}
	return t, nil
}

// MustParse is Parse for fixtures; it panics on malformed notation.
func MustParse(src string, typeParams ...string) Type {
	t, err := Parse(src, typeParams...)
	if err != nil {
		panic(err)
	}
	return t
}

type typeParser struct {
	src    string
	pos    int
	params map[string]bool
}

func (p *typeParser) parseType() (Type, error) {
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}

	var args []Type
	p.skipSpaces()
	if p.pos < len(p.src) && p.src[p.pos] == '<' {
		p.pos++ // '<'
		for {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			p.skipSpaces()
			if p.pos >= len(p.src) {
				return nil, fmt.Errorf("unterminated argument list in %q", p.src)
			}
			if p.src[p.pos] == ',' {
				p.pos++
				continue
			}
			if p.src[p.pos] == '>' {
				p.pos++
				break
			}
			return nil, fmt.Errorf("unexpected %q at offset %d in %q", p.src[p.pos], p.pos, p.src)
		}
	}

	if name == config.FuncTypeName {
		if len(args) == 0 {
			return nil, fmt.Errorf("%s needs at least a return type in %q", config.FuncTypeName, p.src)
		}
		return TFunc{Params: args[:len(args)-1], Return: args[len(args)-1]}, nil
	}

	if len(args) == 0 {
		if p.params[name] {
			return TVar{Name: name}, nil
		}
		return splitCon(name), nil
	}
	if p.params[name] {
		return nil, fmt.Errorf("type parameter %s cannot take arguments in %q", name, p.src)
	}
	return TApp{Constructor: splitCon(name), Args: args}, nil
}

func (p *typeParser) parseName() (string, error) {
	p.skipSpaces()
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return "", fmt.Errorf("expected type name at offset %d in %q", p.pos, p.src)
	}
	return p.src[start:p.pos], nil
}

func (p *typeParser) skipSpaces() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func splitCon(name string) TCon {
	if idx := strings.LastIndex(name, "."); idx > 0 {
		return TCon{Module: name[:idx], Name: name[idx+1:]}
	}
	return TCon{Name: name}
}
