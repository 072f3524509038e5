// Package category holds the per-marketplace adapters. The lifecycle engine
// is the same for every category; a Category only supplies field rules and
// notification text.
package category

import (
	"fmt"
	"sort"
	"strings"

	"ymate/internal/core/post"
)

// Pair is a required attribute that may be given either free-form or as a
// code. At least one side must be present.
type Pair struct {
	Value string
	Code  string
}

type Category interface {
	Name() post.Domain
	Label() string
	RequiredPairs() []Pair
	Optional() []string
	Applied(applicant, postTitle string) (title, body string)
	Accepted(owner, postTitle string) (title, body string)
	Rejected(owner, postTitle string) (title, body string)
}

// MissingPair returns the first required pair with neither side set.
func MissingPair(c Category, attrs post.Attributes) (Pair, bool) {
	for _, p := range c.RequiredPairs() {
		if strings.TrimSpace(attrs[p.Value]) == "" && strings.TrimSpace(attrs[p.Code]) == "" {
			return p, true
		}
	}
	return Pair{}, false
}

// Normalize keeps only the attributes c knows about, trimmed, and drops
// empty values.
func Normalize(c Category, attrs post.Attributes) post.Attributes {
	known := make(map[string]struct{})
	for _, p := range c.RequiredPairs() {
		known[p.Value] = struct{}{}
		known[p.Code] = struct{}{}
	}
	for _, k := range c.Optional() {
		known[k] = struct{}{}
	}
	out := make(post.Attributes)
	for k, v := range attrs {
		if _, ok := known[k]; !ok {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			out[k] = v
		}
	}
	return out
}

var registry = map[post.Domain]Category{}

func register(c Category) { registry[c.Name()] = c }

func init() {
	register(Delivery{})
	register(Taxi{})
}

func Lookup(name string) (Category, error) {
	c, ok := registry[post.Domain(name)]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", name)
	}
	return c, nil
}

// All returns the registered categories sorted by name.
func All() []Category {
	out := make([]Category, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
