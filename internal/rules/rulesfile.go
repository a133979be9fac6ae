package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/heraerp/coa/internal/model"
)

// RulesFile mirrors assignment-rules.json: rule arrays grouped by category.
// Categories exist for readability only and are flattened at load time.
type RulesFile struct {
	RuleDefinitions map[string][]model.ValidationRule `json:"rule_definitions"`
}

// LoadRules reads assignment-rules.json and returns the flattened rule list
// sorted by priority ascending.
func LoadRules(path string) ([]model.ValidationRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	var file RulesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing rules file: %w", err)
	}
	rules := Flatten(file)
	if err := validateRules(rules); err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return rules, nil
}

// SaveRulesFile writes a rules file as indented JSON, creating parent
// directories as needed.
func SaveRulesFile(path string, file RulesFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating rules dir: %w", err)
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing rules file: %w", err)
	}
	return nil
}

// Flatten collapses category groupings into one priority-sorted list.
// Categories are visited in sorted key order so priority ties resolve
// deterministically.
func Flatten(file RulesFile) []model.ValidationRule {
	categories := make([]string, 0, len(file.RuleDefinitions))
	for c := range file.RuleDefinitions {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var rules []model.ValidationRule
	for _, c := range categories {
		rules = append(rules, file.RuleDefinitions[c]...)
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority < rules[j].Priority
	})
	return rules
}

// validateRules rejects malformed rules at load time rather than during
// evaluation.
func validateRules(rules []model.ValidationRule) error {
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if r.ID == "" {
			return fmt.Errorf("rule %q has no rule_id", r.Name)
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate rule_id %q", r.ID)
		}
		seen[r.ID] = true

		switch r.Type {
		case model.RuleTypeSystem, model.RuleTypeValidation, model.RuleTypeGovernance, model.RuleTypeRecommendation:
		default:
			return fmt.Errorf("rule %s: unknown rule_type %q", r.ID, r.Type)
		}

		if err := validateCondition(r.Condition); err != nil {
			return fmt.Errorf("rule %s: %w", r.ID, err)
		}

		switch r.Action.Check {
		case "", model.CheckTemplateCompatibility, model.CheckRegulatoryCompliance, model.CheckFiscalYearAlignment:
		default:
			return fmt.Errorf("rule %s: unknown check %q", r.ID, r.Action.Check)
		}
	}
	return nil
}

func validateCondition(cond model.Condition) error {
	switch cond.Kind {
	case model.CondAlways, model.CondStatusEquals, model.CondHasRegulatoryTag:
		return nil
	case model.CondFieldMissing, model.CondFieldPresent, model.CondBoolEquals:
		if cond.Field == "" {
			return fmt.Errorf("condition %s requires a field", cond.Kind)
		}
		return nil
	case model.CondAll:
		for _, c := range cond.All {
			if err := validateCondition(c); err != nil {
				return err
			}
		}
		return nil
	case model.CondAny:
		for _, c := range cond.Any {
			if err := validateCondition(c); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown condition kind %q", cond.Kind)
	}
}
