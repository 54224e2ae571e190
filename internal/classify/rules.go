// Package classify assigns region labels to points from ordered
// longitude-range rules.
package classify

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/terralith/sitepoint-cli/internal/model"
)

// Op is a comparison over a point's longitude.
type Op string

// Supported comparison operators.
const (
	OpLT Op = "<"
	OpLE Op = "<="
	OpGT Op = ">"
	OpGE Op = ">="
)

// Rule is one (predicate, label) pair. Predicates compare the point's
// longitude against Threshold.
type Rule struct {
	Op        Op      `json:"op"`
	Threshold float64 `json:"threshold"`
	Label     string  `json:"label"`
}

// Match reports whether the rule's predicate holds for lon.
func (r Rule) Match(lon float64) bool {
	switch r.Op {
	case OpLT:
		return lon < r.Threshold
	case OpLE:
		return lon <= r.Threshold
	case OpGT:
		return lon > r.Threshold
	case OpGE:
		return lon >= r.Threshold
	}
	return false
}

// RuleSet is an ordered rule list; the first matching rule wins. A point
// matching no rule is labeled Unclassified.
type RuleSet []Rule

// Label returns the region for lon under first-match-wins semantics.
func (rs RuleSet) Label(lon float64) string {
	for _, r := range rs {
		if r.Match(lon) {
			return r.Label
		}
	}
	return model.RegionUnclassified
}

// Validate checks the rule set is usable before any stage runs.
func (rs RuleSet) Validate() error {
	if len(rs) == 0 {
		return eris.Wrap(model.ErrConfiguration, "classify: empty rule set")
	}
	for i, r := range rs {
		switch r.Op {
		case OpLT, OpLE, OpGT, OpGE:
		default:
			return eris.Wrapf(model.ErrConfiguration, "classify: rule %d has unknown operator %q", i, r.Op)
		}
		if r.Label == "" {
			return eris.Wrapf(model.ErrConfiguration, "classify: rule %d has empty label", i)
		}
	}
	return nil
}

// ThreeWay is the default regional split:
// lon < -100 Western, -100 <= lon <= -85 Central, lon > -85 Eastern.
func ThreeWay() RuleSet {
	return RuleSet{
		{Op: OpLT, Threshold: -100, Label: model.RegionWestern},
		{Op: OpLE, Threshold: -85, Label: model.RegionCentral},
		{Op: OpGT, Threshold: -85, Label: model.RegionEastern},
	}
}

// TwoWay is the coarse split: lon > -95 Eastern, otherwise Western.
func TwoWay() RuleSet {
	return RuleSet{
		{Op: OpGT, Threshold: -95, Label: model.RegionEastern},
		{Op: OpLE, Threshold: -95, Label: model.RegionWestern},
	}
}

// Parse builds a rule set from config strings of the form
// "lon<-100=Western" or "lon >= -85 = Eastern". The named presets
// "three-way" and "two-way" expand to the built-in rule sets.
func Parse(specs []string) (RuleSet, error) {
	if len(specs) == 1 {
		switch strings.ToLower(strings.TrimSpace(specs[0])) {
		case "three-way":
			return ThreeWay(), nil
		case "two-way":
			return TwoWay(), nil
		}
	}

	var rs RuleSet
	for _, spec := range specs {
		rule, err := parseRule(spec)
		if err != nil {
			return nil, err
		}
		rs = append(rs, rule)
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return rs, nil
}

func parseRule(spec string) (Rule, error) {
	s := strings.ReplaceAll(spec, " ", "")
	rest, ok := strings.CutPrefix(s, "lon")
	if !ok {
		return Rule{}, eris.Wrapf(model.ErrConfiguration, "classify: rule %q must start with \"lon\"", spec)
	}

	var op Op
	switch {
	case strings.HasPrefix(rest, string(OpLE)):
		op, rest = OpLE, rest[2:]
	case strings.HasPrefix(rest, string(OpGE)):
		op, rest = OpGE, rest[2:]
	case strings.HasPrefix(rest, string(OpLT)):
		op, rest = OpLT, rest[1:]
	case strings.HasPrefix(rest, string(OpGT)):
		op, rest = OpGT, rest[1:]
	default:
		return Rule{}, eris.Wrapf(model.ErrConfiguration, "classify: rule %q has no comparison operator", spec)
	}

	thresholdStr, label, ok := strings.Cut(rest, "=")
	if !ok || label == "" {
		return Rule{}, eris.Wrapf(model.ErrConfiguration, "classify: rule %q missing \"=label\"", spec)
	}
	threshold, err := strconv.ParseFloat(thresholdStr, 64)
	if err != nil {
		return Rule{}, eris.Wrapf(model.ErrConfiguration, "classify: rule %q has non-numeric threshold %q", spec, thresholdStr)
	}

	return Rule{Op: op, Threshold: threshold, Label: label}, nil
}
