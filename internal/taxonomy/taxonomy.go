// Package taxonomy resolves canonical topic codes to human-readable
// descriptions and parent categories.
package taxonomy

import (
	"sort"
	"strings"
)

// Category is one leaf topic in the hierarchy.
type Category struct {
	Code        string
	Description string
}

// ParentCategory groups leaf topics under a coarser label.
type ParentCategory struct {
	Code       string
	Name       string
	Categories []Category
}

// Taxonomy is the resolved code hierarchy for one campaign.
type Taxonomy struct {
	parents       []ParentCategory
	toDescription map[string]string
	toParent      map[string]string
}

// New builds a Taxonomy from parent categories.
func New(parents []ParentCategory) *Taxonomy {
	t := &Taxonomy{
		parents:       parents,
		toDescription: make(map[string]string),
		toParent:      make(map[string]string),
	}
	for _, p := range parents {
		if p.Code != "" {
			t.toDescription[p.Code] = p.Name
		}
		for _, c := range p.Categories {
			t.toDescription[c.Code] = c.Description
			t.toParent[c.Code] = p.Code
		}
	}
	return t
}

// Parents returns the parent categories in declaration order.
func (t *Taxonomy) Parents() []ParentCategory {
	return t.parents
}

// Description resolves a single code. The second return is false for
// unknown codes so callers can drop unresolvable entries.
func (t *Taxonomy) Description(code string) (string, bool) {
	d, ok := t.toDescription[code]
	return d, ok
}

// Parent returns the parent-category code for a leaf code.
func (t *Taxonomy) Parent(code string) string {
	return t.toParent[code]
}

// CompositeDescription resolves a possibly slash-delimited composite code.
// Known sub-codes resolve to their description, unknown ones pass through,
// and the unique descriptions are joined sorted for a stable rendering.
func (t *Taxonomy) CompositeDescription(code string) string {
	if d, ok := t.toDescription[code]; ok {
		return d
	}
	seen := make(map[string]bool)
	var parts []string
	for _, sub := range strings.Split(code, "/") {
		d, ok := t.toDescription[sub]
		if !ok {
			d = sub
		}
		if !seen[d] {
			seen[d] = true
			parts = append(parts, d)
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, " / ")
}
