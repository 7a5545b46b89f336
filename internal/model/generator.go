package model

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type GeneratorType string

const (
	GeneratorProduct   GeneratorType = "product"
	GeneratorLifestyle GeneratorType = "lifestyle"
	GeneratorGraphic   GeneratorType = "graphic"
)

// GeneratorTypes lists the generator types in display order
var GeneratorTypes = []GeneratorType{GeneratorProduct, GeneratorLifestyle, GeneratorGraphic}

func (g GeneratorType) Valid() bool {
	switch g {
	case GeneratorProduct, GeneratorLifestyle, GeneratorGraphic:
		return true
	default:
		return false
	}
}

// Label returns the display name, e.g. "Lifestyle"
func (g GeneratorType) Label() string {
	return cases.Title(language.English).String(string(g))
}

// Selections maps a category key (e.g. "lighting") to the chosen option label.
// An empty value means the category has no selection.
type Selections map[string]string

// Count returns the number of categories with a non-empty selection
func (s Selections) Count() int {
	n := 0
	for _, v := range s {
		if v != "" {
			n++
		}
	}
	return n
}

// Clone returns an independent copy
func (s Selections) Clone() Selections {
	out := make(Selections, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
