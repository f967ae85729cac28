// Package filter provides the category filter shared by the chat and
// search views.
package filter

import (
	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

// Category cycles through "every category" followed by each taxonomy key.
type Category struct {
	options []string
	index   int
}

// NewCategory creates a filter positioned on "every category".
func NewCategory() *Category {
	options := []string{domain.AllCategories}
	for _, c := range domain.Categories() {
		options = append(options, c.String())
	}
	return &Category{options: options}
}

// Next advances to the following option, wrapping around.
func (f *Category) Next() {
	f.index = (f.index + 1) % len(f.options)
}

// Value returns the filter as understood by the retrieval service.
func (f *Category) Value() string {
	return f.options[f.index]
}

// Label returns the human-readable name of the current option.
func (f *Category) Label() string {
	if f.index == 0 {
		return "Todos los temas"
	}
	return domain.Category(f.Value()).Display()
}

// Set positions the filter on the given value. Unknown values are ignored
// and reported with false.
func (f *Category) Set(value string) bool {
	if value == "" {
		value = domain.AllCategories
	}
	for i, o := range f.options {
		if o == value {
			f.index = i
			return true
		}
	}
	return false
}

// Reset returns to "every category".
func (f *Category) Reset() {
	f.index = 0
}
