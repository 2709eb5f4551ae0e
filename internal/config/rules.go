package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MimeLyc/sonarr-nudger/internal/rule"
	"github.com/MimeLyc/sonarr-nudger/pkg/log"
)

// RulesFile is the on-disk layout of the rules file:
//
//	rules:
//	  - pattern: "S01E01"
//	    languages: ["French"]
//	  - pattern: "(2160p|UHD)"
type RulesFile struct {
	Rules []RuleConfig `yaml:"rules"`
}

// RuleConfig is one uncompiled rule.
type RuleConfig struct {
	Pattern   string   `yaml:"pattern"`
	Languages []string `yaml:"languages"`
}

// LoadRulesFile reads and compiles the rules at path. Errors from reading
// the file are returned unwrapped so callers can test os.IsNotExist.
func LoadRulesFile(path string) (rule.Rules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRules(raw)
}

// ParseRules compiles rules from YAML, keeping file order.
func ParseRules(raw []byte) (rule.Rules, error) {
	var file RulesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("invalid rules file: %w", err)
	}

	rules := make(rule.Rules, 0, len(file.Rules))
	for i, rc := range file.Rules {
		r, err := rule.Compile(rc.Pattern, rc.Languages)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		if r.Literal() {
			log.Warn("Rule %d pattern %q is not a valid regular expression, matching it as plain text", i+1, rc.Pattern)
		}
		rules = append(rules, r)
	}
	return rules, nil
}
