package engine

import "github.com/parisxmas/formforge/internal/schema"

// maxPasses bounds the derivation loop. Mutually dependent formulas that
// never settle stop here instead of looping forever.
const maxPasses = 10

// Recompute evaluates every enabled derived field against the value set
// and returns a new set; the input map is never mutated. Passes repeat
// until a pass changes nothing or the pass budget runs out; either way
// the latest values come back, so an oscillating formula pair degrades to
// a stale value rather than an error.
//
// Within a pass, fields are evaluated in schema order against the working
// set, so a later derived field sees values an earlier one just produced.
// The order is observable and intentional; no dependency graph is
// enforced and DerivedConfig.Parents is advisory only.
//
// A formula that fails to parse or evaluate leaves its field's value
// unchanged for that pass. Non-derived values are never touched.
func Recompute(fields []schema.FormField, values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}

	for pass := 0; pass < maxPasses; pass++ {
		changed := false
		for _, f := range fields {
			if !f.IsDerived() || f.Derived.Formula == "" {
				continue
			}
			v, err := Evaluate(f.Derived.Formula, out)
			if err != nil || v == nil {
				continue
			}
			if !sameScalar(v, out[f.Name]) {
				out[f.Name] = v
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return out
}

// sameScalar is the change-detection equality: strict, except that numeric
// types compare by value so float64(4) matches int(4).
func sameScalar(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		return ok && as == bs
	}
	if ab, ok := a.(bool); ok {
		bb, ok := b.(bool)
		return ok && ab == bb
	}
	af, aok := numericValue(a)
	bf, bok := numericValue(b)
	return aok && bok && af == bf
}

func numericValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}
