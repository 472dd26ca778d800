// Package sortkeys implements the sort-keys rule: object literal keys must
// appear in a configured order. Keys are compared within runs delimited by
// spread elements, and a fix reorders each run when no comment would have
// to move.
package sortkeys

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"jsstyle/internal/jsast"
	"jsstyle/internal/lint"
)

// RuleName is the rule's registry name.
const RuleName = "sort-keys"

func init() {
	lint.DefaultRegistry.MustRegister(Rule{})
}

// Rule is the sort-keys rule.
type Rule struct{}

func (Rule) Name() string { return RuleName }

func (Rule) Description() string { return "require object keys to be sorted" }

func (Rule) Fixable() bool { return true }

func (Rule) DefaultSeverity() lint.Severity { return lint.SeverityError }

// Configure validates the options and returns a factory that builds a fresh
// checker, with its own scope stack, for every file.
func (Rule) Configure(options map[string]any) (lint.Factory, error) {
	opts, err := ParseOptions(options)
	if err != nil {
		return nil, err
	}
	return func(ctx *lint.Context) jsast.Handlers {
		return newChecker(ctx, opts).handlers()
	}, nil
}

// ParseOptions reads the order, caseSensitive and natural options. Key
// matching ignores case because config loaders lowercase map keys. Unknown
// keys are rejected.
func ParseOptions(options map[string]any) (Options, error) {
	opts := DefaultOptions()

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := options[k]
		var err error
		switch strings.ToLower(k) {
		case "order":
			s, ok := v.(string)
			if !ok {
				return opts, fmt.Errorf("order: expected a string, got %T", v)
			}
			opts.Order, err = ParseOrder(s)
		case "casesensitive":
			opts.CaseSensitive, err = boolOption(k, v)
		case "natural":
			opts.Natural, err = boolOption(k, v)
		default:
			err = fmt.Errorf("unknown option %q (want order, caseSensitive, natural)", k)
		}
		if err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// boolOption accepts booleans and, for values from the environment, their
// string forms.
func boolOption(key string, v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return false, fmt.Errorf("%s: %q is not a boolean", key, b)
		}
		return parsed, nil
	default:
		return false, fmt.Errorf("%s: expected a boolean, got %T", key, v)
	}
}
