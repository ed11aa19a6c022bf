// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package filter

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/hashicorp/go-unarchive"
	"gopkg.in/yaml.v3"
)

// Rules is a set of veto rules, usually loaded from a YAML document:
//
//	rules:
//	  - name: windows executables
//	    pattern: '(?i)\.(exe|dll)$'
//	    magic: ["4d5a"]
//	  - name: private keys
//	    contains: "PRIVATE KEY"
//
// An entry is vetoed if it matches one rule. A rule matches if all of its
// conditions match.
type Rules struct {
	Rules []Rule `yaml:"rules"`
}

// Rule describes the entries to veto.
type Rule struct {
	// Name describes the rule in logs and errors
	Name string `yaml:"name"`

	// Pattern is a regular expression for the entry name
	Pattern string `yaml:"pattern"`

	// Magic lists hex encoded content prefixes
	Magic []string `yaml:"magic"`

	// Contains is a string that must be part of the sniffed content
	Contains string `yaml:"contains"`
}

// LoadRules reads rules from the YAML file path.
func LoadRules(path string) (*Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open rules: %w", err)
	}
	defer f.Close()
	return ParseRules(f)
}

// ParseRules reads rules from a YAML document.
func ParseRules(r io.Reader) (*Rules, error) {
	var rules Rules
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil && err != io.EOF {
		return nil, fmt.Errorf("cannot parse rules: %w", err)
	}
	return &rules, nil
}

// Filter compiles the rules into a content filter.
func (rs *Rules) Filter() (unarchive.ContentFilter, error) {
	compiled := make([]compiledRule, 0, len(rs.Rules))
	for i, rule := range rs.Rules {
		c, err := rule.compile()
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, rule.Name, err)
		}
		compiled = append(compiled, c)
	}

	return unarchive.ContentFilterFunc(func(r io.Reader, name string) (bool, error) {
		if len(compiled) == 0 {
			return true, nil
		}
		head, err := io.ReadAll(r)
		if err != nil {
			return false, err
		}
		for _, c := range compiled {
			if c.matches(head, name) {
				return false, nil
			}
		}
		return true, nil
	}), nil
}

// compiledRule is a rule ready for matching.
type compiledRule struct {
	pattern  *regexp.Regexp
	magic    [][]byte
	contains []byte
}

// compile checks and prepares a rule. A rule without conditions is rejected.
func (r Rule) compile() (compiledRule, error) {
	var c compiledRule
	if len(r.Pattern) == 0 && len(r.Magic) == 0 && len(r.Contains) == 0 {
		return c, fmt.Errorf("rule without conditions")
	}

	if len(r.Pattern) > 0 {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return c, fmt.Errorf("invalid pattern: %w", err)
		}
		c.pattern = re
	}

	for _, m := range r.Magic {
		b, err := hex.DecodeString(strings.ReplaceAll(m, " ", ""))
		if err != nil {
			return c, fmt.Errorf("invalid magic %q: %w", m, err)
		}
		c.magic = append(c.magic, b)
	}

	if len(r.Contains) > 0 {
		c.contains = []byte(r.Contains)
	}
	return c, nil
}

// matches returns true if all conditions of the rule match.
func (c compiledRule) matches(head []byte, name string) bool {
	if c.pattern != nil && !c.pattern.MatchString(name) {
		return false
	}
	if len(c.magic) > 0 && !hasPrefix(head, c.magic) {
		return false
	}
	if c.contains != nil && !bytes.Contains(head, c.contains) {
		return false
	}
	return true
}
