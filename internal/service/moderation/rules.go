package moderation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sandevgo/slackwatch/internal/core"
)

var ErrInvalidRule = errors.New("invalid moderation rule")

// RuleSet is the on-disk format of the rules file.
type RuleSet struct {
	Rules []Rule `json:"rules"`
}

// Rule acts on messages whose text contains any of the keywords.
type Rule struct {
	Name          string                `json:"name"`
	Contains      []string              `json:"contains"`
	Action        core.ModerationAction `json:"action"`
	Replacement   string                `json:"replacement,omitempty"`
	CaseSensitive bool                  `json:"case_sensitive,omitempty"`
}

func (r Rule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRule)
	}
	if len(r.Contains) == 0 {
		return fmt.Errorf("%w: %s has no keywords", ErrInvalidRule, r.Name)
	}
	for _, kw := range r.Contains {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("%w: %s has an empty keyword", ErrInvalidRule, r.Name)
		}
	}

	switch r.Action {
	case core.ActionTombstone:
	case core.ActionDelete:
		if r.Replacement != "" {
			return fmt.Errorf("%w: %s sets a replacement on delete", ErrInvalidRule, r.Name)
		}
	default:
		return fmt.Errorf("%w: %s has action %q", ErrInvalidRule, r.Name, r.Action)
	}
	return nil
}

// Matches returns the first keyword found in text.
func (r Rule) Matches(text string) (string, bool) {
	haystack := text
	if !r.CaseSensitive {
		haystack = strings.ToLower(text)
	}
	for _, kw := range r.Contains {
		needle := kw
		if !r.CaseSensitive {
			needle = strings.ToLower(kw)
		}
		if strings.Contains(haystack, needle) {
			return kw, true
		}
	}
	return "", false
}

// LoadRules reads and validates a rules file. A missing file is an error;
// an empty path yields no rules.
func LoadRules(path string) ([]Rule, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}

	var set RuleSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}

	for _, r := range set.Rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	return set.Rules, nil
}
