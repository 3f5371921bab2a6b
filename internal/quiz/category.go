package quiz

import (
	"fmt"
	"strings"
)

// Category names a group of step fields that can be hidden in quiz mode.
type Category string

const (
	Reactant   Category = "reactant"
	Name       Category = "name"
	Conditions Category = "conditions"
	Product    Category = "product"
	Notes      Category = "notes"
)

// Categories lists every category in presentation order.
var Categories = []Category{Reactant, Name, Conditions, Product, Notes}

var categoryLabels = map[Category]string{
	Reactant:   "Reactant",
	Name:       "Reaction Name",
	Conditions: "Conditions",
	Product:    "Product",
	Notes:      "Notes",
}

// Label returns the human-readable name of the category.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// ParseCategory converts user input into a Category.
func ParseCategory(value string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(value)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown quiz category %q (want one of reactant, name, conditions, product, notes)", value)
	}
	return c, nil
}
