package enumerate

import "github.com/kvschema/advisor/schema"

// nonEmptySubsets returns every non-empty subset of items, as index
// sets materialized into field slices. Items are few in practice (a
// statement's own equality-condition count), so the 2^n enumeration
// spec.md §4.4 calls "exponential in a single statement's field count
// but finite" is never a concern in practice.
func nonEmptySubsets(items []schema.KeyedField) [][]schema.KeyedField {
	n := len(items)
	if n == 0 {
		return nil
	}
	var out [][]schema.KeyedField
	for mask := 1; mask < (1 << n); mask++ {
		var subset []schema.KeyedField
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				subset = append(subset, items[i])
			}
		}
		out = append(out, subset)
	}
	return out
}

// permutations returns every ordering of items, including the empty
// ordering when items is empty.
func permutations(items []schema.KeyedField) [][]schema.KeyedField {
	if len(items) == 0 {
		return [][]schema.KeyedField{{}}
	}
	var out [][]schema.KeyedField
	for i := range items {
		rest := make([]schema.KeyedField, 0, len(items)-1)
		rest = append(rest, items[:i]...)
		rest = append(rest, items[i+1:]...)
		for _, p := range permutations(rest) {
			perm := append([]schema.KeyedField{items[i]}, p...)
			out = append(out, perm)
		}
	}
	return out
}

func contains(set []schema.KeyedField, kf schema.KeyedField) bool {
	for _, x := range set {
		if x == kf {
			return true
		}
	}
	return false
}

func subtract(from, minus []schema.KeyedField) []schema.KeyedField {
	var out []schema.KeyedField
	for _, kf := range from {
		if !contains(minus, kf) {
			out = append(out, kf)
		}
	}
	return out
}

func restrictToPath(fields []schema.KeyedField, path *schema.KeyPath) []schema.KeyedField {
	var out []schema.KeyedField
	for _, kf := range fields {
		if _, ok := path.FindFieldParent(kf.Field); ok {
			out = append(out, kf)
		}
	}
	return out
}
