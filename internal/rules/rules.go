// Package rules loads rulesets and resolves ruleset references.
//
// A reference is one of:
//
//	java-basic                     every rule of a built-in ruleset
//	java-design/UseCollectionIsEmpty  a single rule of a built-in ruleset
//	path/to/custom.yaml            every rule of a ruleset file
//	path/to/custom.yaml/SomeRule   a single rule of a ruleset file
//
// References are combined with commas.
package rules

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bebsworthy/codescan/internal/debug"
	"github.com/bebsworthy/codescan/internal/language"
	"github.com/bebsworthy/codescan/pkg/config"
)

//go:embed rulesets/*.yaml
var builtinFS embed.FS

// DefaultPriority applies to rules that do not set one.
const DefaultPriority = 3

// Rule is a single line-oriented check.
type Rule struct {
	Name                   string              `yaml:"name"`
	Message                string              `yaml:"message"`
	Description            string              `yaml:"description,omitempty"`
	Priority               int                 `yaml:"priority,omitempty"`
	Language               string              `yaml:"language,omitempty"`
	MinimumLanguageVersion string              `yaml:"minimumLanguageVersion,omitempty"`
	Pattern                config.RegexPattern `yaml:"pattern"`

	// RuleSet is the name of the ruleset the rule was loaded from
	RuleSet string `yaml:"-"`
}

// RuleSet is a named collection of rules.
type RuleSet struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	Language    string  `yaml:"language"`
	Rules       []*Rule `yaml:"rules"`
}

// Validate checks the ruleset and fills in per-rule defaults.
func (rs *RuleSet) Validate() error {
	if rs.Name == "" {
		return fmt.Errorf("ruleset name is required")
	}
	if _, ok := language.Find(rs.Language); !ok {
		return fmt.Errorf("ruleset %s: unknown language %q", rs.Name, rs.Language)
	}

	seen := make(map[string]bool, len(rs.Rules))
	for i, rule := range rs.Rules {
		if rule == nil || rule.Name == "" {
			return fmt.Errorf("ruleset %s: rule %d has no name", rs.Name, i)
		}
		if seen[rule.Name] {
			return fmt.Errorf("ruleset %s: duplicate rule %s", rs.Name, rule.Name)
		}
		seen[rule.Name] = true

		if rule.Language == "" {
			rule.Language = rs.Language
		}
		if rule.Priority == 0 {
			rule.Priority = DefaultPriority
		}
		if rule.Priority < 1 || rule.Priority > 5 {
			return fmt.Errorf("rule %s/%s: priority must be between 1 and 5", rs.Name, rule.Name)
		}
		if rule.Message == "" {
			return fmt.Errorf("rule %s/%s: message is required", rs.Name, rule.Name)
		}
		if err := rule.Pattern.Validate(); err != nil {
			return fmt.Errorf("rule %s/%s: %w", rs.Name, rule.Name, err)
		}
		rule.RuleSet = rs.Name
	}
	return nil
}

// Find returns the rule with the given name.
func (rs *RuleSet) Find(name string) (*Rule, bool) {
	for _, rule := range rs.Rules {
		if rule.Name == name {
			return rule, true
		}
	}
	return nil, false
}

// Parse decodes and validates a YAML ruleset.
func Parse(data []byte, source string) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse ruleset %s: %w", source, err)
	}
	if err := rs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ruleset %s: %w", source, err)
	}
	return &rs, nil
}

// Builtins lists the names of the embedded rulesets.
func Builtins() []string {
	entries, err := fs.ReadDir(builtinFS, "rulesets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// LoadBuiltin loads an embedded ruleset by name.
func LoadBuiltin(name string) (*RuleSet, bool, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, false, nil
	}
	data, err := builtinFS.ReadFile(path.Join("rulesets", name+".yaml"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	rs, err := Parse(data, name)
	if err != nil {
		return nil, true, err
	}
	return rs, true, nil
}

// LoadFile loads a ruleset from a YAML file.
func LoadFile(filename string) (*RuleSet, error) {
	// #nosec G304 - ruleset files are named by the user
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(data, filename)
}

// Resolve expands a comma-separated list of references into rules. Rules
// named more than once are returned once, in first-seen order.
func Resolve(refs string) ([]*Rule, error) {
	debug.LogSection("Ruleset Resolution")

	var (
		resolved []*Rule
		seen     = make(map[string]bool)
	)
	for _, ref := range SplitRefs(refs) {
		found, err := resolveRef(ref)
		if err != nil {
			debug.LogError(err, "resolving "+ref)
			return nil, err
		}
		debug.Log("Reference %s: %d rules", ref, len(found))
		for _, rule := range found {
			key := rule.RuleSet + "/" + rule.Name
			if seen[key] {
				continue
			}
			seen[key] = true
			resolved = append(resolved, rule)
		}
	}
	return resolved, nil
}

// SplitRefs splits a comma-separated reference list, dropping blanks.
func SplitRefs(refs string) []string {
	var out []string
	for _, ref := range strings.Split(refs, ",") {
		if ref = strings.TrimSpace(ref); ref != "" {
			out = append(out, ref)
		}
	}
	return out
}

func resolveRef(ref string) ([]*Rule, error) {
	if rs, ok, err := loadSet(ref); ok || err != nil {
		if err != nil {
			return nil, err
		}
		return rs.Rules, nil
	}

	i := strings.LastIndex(ref, "/")
	if i > 0 && i < len(ref)-1 {
		setRef, ruleName := ref[:i], ref[i+1:]
		rs, ok, err := loadSet(setRef)
		if err != nil {
			return nil, err
		}
		if ok {
			rule, found := rs.Find(ruleName)
			if !found {
				return nil, &NoRulesFoundError{Ref: ref}
			}
			return []*Rule{rule}, nil
		}
	}

	notFound := &ResourceNotFoundError{Ref: ref}
	if isRulesetFile(ref) {
		notFound.Resource = ref
	}
	return nil, notFound
}

// loadSet loads a built-in or file ruleset. ok is false when ref names neither.
func loadSet(ref string) (*RuleSet, bool, error) {
	if rs, ok, err := LoadBuiltin(ref); ok || err != nil {
		return rs, ok, err
	}
	if !isRulesetFile(ref) {
		return nil, false, nil
	}
	info, err := os.Stat(ref)
	if err != nil || info.IsDir() {
		return nil, false, nil
	}
	rs, err := LoadFile(ref)
	if err != nil {
		return nil, true, err
	}
	return rs, true, nil
}

func isRulesetFile(ref string) bool {
	ext := strings.ToLower(filepath.Ext(ref))
	return ext == ".yaml" || ext == ".yml"
}
