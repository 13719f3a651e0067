package result

import (
	"fmt"
	"strings"
)

// Render produces a human-readable text summary, for CLI output or
// logs. It is presentation only — Result's exported fields, not this
// text, are the stable contract callers should parse.
func (r *Result) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "objective: %s\n", r.Objective)
	fmt.Fprintf(&b, "chosen indexes: %d (total size %.0f bytes)\n", len(r.ChosenIndexes), r.TotalSize)
	for _, ix := range r.ChosenIndexes {
		fmt.Fprintf(&b, "  - %s  hash=%s order=%s extra=%s size=%.0f\n",
			ix.Key, renderFields(ix.Hash), renderFields(ix.Order), renderFields(ix.Extra), ix.SizeBytes)
	}
	fmt.Fprintf(&b, "statements: %d, total cost %.2f, %d candidates enumerated\n",
		len(r.Plans), r.TotalCost, r.EnumerationSize)
	for id, p := range r.Plans {
		fmt.Fprintf(&b, "  %s: cost=%.2f\n", id, p.Cost)
		renderPlanSteps(&b, "    ", p)
	}
	return b.String()
}

func renderPlanSteps(b *strings.Builder, indent string, p PlanSummary) {
	if p.Support != nil {
		fmt.Fprintf(b, "%ssupport:\n", indent)
		renderPlanSteps(b, indent+"  ", *p.Support)
	}
	for _, st := range p.Steps {
		fmt.Fprintf(b, "%s%s", indent, st.Kind)
		if st.IndexKey != "" {
			fmt.Fprintf(b, "(%s)", st.IndexKey)
		}
		if len(st.Fields) > 0 {
			fmt.Fprintf(b, " %s", renderFields(st.Fields))
		}
		if st.Kind == "limit" {
			fmt.Fprintf(b, " n=%d", st.Limit)
		}
		fmt.Fprintf(b, "  cost=%.2f\n", st.Cost)
	}
}

func renderFields(fields []FieldRef) string {
	if len(fields) == 0 {
		return "[]"
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Entity + "." + f.Field
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
