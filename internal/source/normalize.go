package source

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ginjaninja78/promo-missing-report/internal/config"
)

// =============================================================================
// NORMALIZER
// =============================================================================

// Normalizer rewrites export cells before rows are matched, e.g. to strip a
// vendor prefix from part numbers or to map customer aliases.
type Normalizer struct {
	steps map[int][]step
}

type step func(string) string

// NewNormalizer compiles the normalization rules against the column layout.
// Unknown fields, unknown actions and bad patterns are reported here so
// that a run fails before reading any row.
func NewNormalizer(rules []config.TransformationRule, columns config.Columns) (*Normalizer, error) {
	byName := columns.ByName()
	n := &Normalizer{steps: map[int][]step{}}

	for _, rule := range rules {
		col, ok := byName[rule.Field]
		if !ok {
			return nil, fmt.Errorf("normalization field %q is not a known column", rule.Field)
		}
		for _, action := range rule.Actions {
			s, err := compileAction(action)
			if err != nil {
				return nil, fmt.Errorf("normalization of %s: action '%s': %w", rule.Field, action.Type, err)
			}
			n.steps[col] = append(n.steps[col], s)
		}
	}
	return n, nil
}

// Apply returns a copy of cells with every rule applied to its column.
func (n *Normalizer) Apply(cells []string) []string {
	out := append([]string(nil), cells...)
	for col, steps := range n.steps {
		if col >= len(out) {
			continue
		}
		for _, s := range steps {
			out[col] = s(out[col])
		}
	}
	return out
}

// compileAction turns one configured action into a step.
//
// SUPPORTED TRANSFORMATIONS:
//
//	prepend_string, append_string, trim, uppercase, lowercase,
//	replace, regex_replace, pad_zeros_to_length, lookup
func compileAction(action config.TransformationAction) (step, error) {
	switch action.Type {
	case "prepend_string":
		return func(v string) string { return action.Value + v }, nil

	case "append_string":
		return func(v string) string { return v + action.Value }, nil

	case "trim":
		return strings.TrimSpace, nil

	case "uppercase":
		return strings.ToUpper, nil

	case "lowercase":
		return strings.ToLower, nil

	case "replace":
		if action.Find == "" {
			return nil, fmt.Errorf("replace needs a find value")
		}
		return func(v string) string { return strings.ReplaceAll(v, action.Find, action.Value) }, nil

	case "regex_replace":
		re, err := regexp.Compile(action.Find)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern: %w", err)
		}
		return func(v string) string { return re.ReplaceAllString(v, action.Value) }, nil

	case "pad_zeros_to_length":
		// EXAMPLE: "123" with value "8" -> "00000123"
		length, err := strconv.Atoi(action.Value)
		if err != nil || length <= 0 {
			return nil, fmt.Errorf("invalid length %q", action.Value)
		}
		return func(v string) string {
			if len(v) >= length {
				return v
			}
			return strings.Repeat("0", length-len(v)) + v
		}, nil

	case "lookup":
		table := action.LookupTable
		return func(v string) string {
			if mapped, ok := table[v]; ok {
				return mapped
			}
			return v
		}, nil
	}

	return nil, fmt.Errorf("unknown transformation type")
}
