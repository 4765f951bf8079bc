package typesystem

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// wideningTable lists the primitive widening conversions, already closed
// under transitivity so a single lookup answers the query.
var wideningTable = map[string][]string{
	"Int":   {"Long", "Double"},
	"Long":  {"Double"},
	"Float": {"Double"},
	"Char":  {"Int", "Long", "Double"},
}

// Oracle answers conversion queries over the closed type universe.
// One oracle lives per compilation context; the memo cache is shared by
// every resolution episode in that context, which is safe because the
// conversion relation never changes after construction.
type Oracle struct {
	memo *lru.Cache[string, bool]
}

const oracleCacheSize = 4096

// NewOracle creates a conversion oracle with a bounded memo cache.
func NewOracle() *Oracle {
	cache, err := lru.New[string, bool](oracleCacheSize)
	if err != nil {
		// Only reachable with a non-positive size constant.
		panic(err)
	}
	return &Oracle{memo: cache}
}

// Convertible reports whether a value of type from converts to type to.
// The relation is reflexive and covers: widening between primitives,
// conversion to Any, invariant constructor arguments, and function shapes
// with invariant parameters and covariant return.
func (o *Oracle) Convertible(from, to Type) bool {
	if from == nil || to == nil {
		return false
	}
	if Equal(from, to) {
		return true
	}

	key := from.String() + "\x00" + to.String()
	if v, ok := o.memo.Get(key); ok {
		return v
	}
	v := o.convertible(from, to)
	o.memo.Add(key, v)
	return v
}

func (o *Oracle) convertible(from, to Type) bool {
	if Equal(to, Any) {
		return true
	}

	switch f := from.(type) {
	case TCon:
		t, ok := to.(TCon)
		if !ok {
			return false
		}
		for _, w := range wideningTable[f.Name] {
			if w == t.Name && f.Module == t.Module {
				return true
			}
		}
		return false

	case TApp:
		t, ok := to.(TApp)
		if !ok {
			return false
		}
		// Constructor arguments are invariant.
		return f.Constructor == t.Constructor && EqualSeq(f.Args, t.Args)

	case TFunc:
		t, ok := to.(TFunc)
		if !ok {
			return false
		}
		// Parameters invariant, return covariant.
		return EqualSeq(f.Params, t.Params) && o.Convertible(f.Return, t.Return)
	}

	return false
}

// MoreSpecific reports whether p is a strictly more specific conversion
// target than q: p converts to q but not conversely.
func (o *Oracle) MoreSpecific(p, q Type) bool {
	return o.Convertible(p, q) && !o.Convertible(q, p)
}
