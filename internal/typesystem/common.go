package typesystem

// BestCommonType computes the most specific type that every candidate
// converts to. The result must itself be one of the candidates; the engine
// never synthesizes a union or widens beyond what was written.
func (o *Oracle) BestCommonType(candidates []Type) (Type, bool) {
	// Dedupe, preserving first-seen order for deterministic failure output.
	seen := map[string]bool{}
	var unique []Type
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if s := c.String(); !seen[s] {
			seen[s] = true
			unique = append(unique, c)
		}
	}

	if len(unique) == 0 {
		return nil, false
	}
	if len(unique) == 1 {
		return unique[0], true
	}

	// Sinks: candidates every candidate converts to.
	var sinks []Type
	for _, m := range unique {
		all := true
		for _, c := range unique {
			if !o.Convertible(c, m) {
				all = false
				break
			}
		}
		if all {
			sinks = append(sinks, m)
		}
	}
	if len(sinks) == 0 {
		return nil, false
	}

	// Most specific sink: converts to every other sink. Non-unique or
	// incomparable sinks mean the set has no best common type.
	var best Type
	for _, m := range sinks {
		least := true
		for _, other := range sinks {
			if !o.Convertible(m, other) {
				least = false
				break
			}
		}
		if least {
			if best != nil && !Equal(best, m) {
				return nil, false
			}
			if best == nil {
				best = m
			}
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}
