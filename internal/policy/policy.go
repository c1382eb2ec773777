package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ppiankov/codeinsight/internal/models"
	"gopkg.in/yaml.v3"
)

// FileNames are the policy file names searched for, in order.
var FileNames = []string{".codeinsight-policy.yaml", ".codeinsight-policy.yml"}

// Policy defines thresholds a summary must meet.
type Policy struct {
	Version string `yaml:"version"`
	Rules   Rules  `yaml:"rules"`
}

// Rules contains all configurable policy rules.
type Rules struct {
	MaxCodeLines    *int               `yaml:"max_code_lines,omitempty"`
	MinCommentRatio *float64           `yaml:"min_comment_ratio,omitempty"`
	MinDensity      map[string]float64 `yaml:"min_density,omitempty"`
	MaxTotal        map[string]int     `yaml:"max_total,omitempty"`
	RequireInsights []string           `yaml:"require_insights,omitempty"`
}

// Violation is a single policy failure.
type Violation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Result holds the outcome of a policy check.
type Result struct {
	Pass       bool        `json:"pass"`
	Violations []Violation `json:"violations"`
}

// LoadFromFile reads a policy file. A missing file yields a nil policy.
func LoadFromFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read policy: %w", err)
	}

	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}

	return &p, nil
}

// FindPolicyFile searches for a policy file in the current directory
// and parent directories up to the filesystem root.
func FindPolicyFile() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findFrom(dir)
}

func findFrom(dir string) string {
	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// Evaluate checks a summary against the policy rules.
func (p *Policy) Evaluate(summary *models.Summary) *Result {
	if p == nil {
		return &Result{Pass: true}
	}

	var violations []Violation

	// max_code_lines
	if p.Rules.MaxCodeLines != nil {
		if summary.Totals.Code > *p.Rules.MaxCodeLines {
			violations = append(violations, Violation{
				Rule:    "max_code_lines",
				Message: fmt.Sprintf("code lines %d exceed limit %d", summary.Totals.Code, *p.Rules.MaxCodeLines),
			})
		}
	}

	// min_comment_ratio
	if p.Rules.MinCommentRatio != nil {
		if summary.CommentRatio < *p.Rules.MinCommentRatio {
			violations = append(violations, Violation{
				Rule: "min_comment_ratio",
				Message: fmt.Sprintf("comment ratio %.3f below minimum %.3f",
					summary.CommentRatio, *p.Rules.MinCommentRatio),
			})
		}
	}

	// min_density
	for _, name := range sortedKeys(p.Rules.MinDensity) {
		limit := p.Rules.MinDensity[name]
		is, ok := summary.Insight(name)
		if !ok {
			continue // reported by require_insights when required
		}
		if is.Density < limit {
			violations = append(violations, Violation{
				Rule:    "min_density",
				Message: fmt.Sprintf("%s density %.2f per 1k code lines below minimum %.2f", name, is.Density, limit),
			})
		}
	}

	// max_total
	for _, name := range sortedKeys(p.Rules.MaxTotal) {
		limit := p.Rules.MaxTotal[name]
		is, ok := summary.Insight(name)
		if !ok {
			continue
		}
		if is.Total > limit {
			violations = append(violations, Violation{
				Rule:    "max_total",
				Message: fmt.Sprintf("%s total %d exceeds limit %d", name, is.Total, limit),
			})
		}
	}

	// require_insights
	for _, name := range p.Rules.RequireInsights {
		if _, found := summary.Insight(name); !found {
			violations = append(violations, Violation{
				Rule:    "require_insights",
				Message: fmt.Sprintf("required insight %q not found in report", name),
			})
		}
	}

	return &Result{
		Pass:       len(violations) == 0,
		Violations: violations,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
