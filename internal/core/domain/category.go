package domain

import "fmt"

// Category is a subject area of the corpus. The set is closed: every
// document belongs to exactly one of the keys below, and the key doubles
// as the name of the folder holding its files.
type Category string

// Taxonomy keys, in corpus walk order.
const (
	CategoryCampoElectrico     Category = "campo_electrico"
	CategoryCampoMagnetico     Category = "campo_magnetico"
	CategoryCorrienteDirecta   Category = "corriente_directa"
	CategoryCorrienteAlterna   Category = "corriente_alterna"
	CategoryMaquinasElectricas Category = "maquinas_electricas"
)

// AllCategories is the filter sentinel meaning "search every category".
const AllCategories = "todos"

var categoryDisplay = map[Category]string{
	CategoryCampoElectrico:     "Campo Electrico",
	CategoryCampoMagnetico:     "Campo Magnetico",
	CategoryCorrienteDirecta:   "Circuitos en Corriente Directa",
	CategoryCorrienteAlterna:   "Circuitos en Corriente Alterna",
	CategoryMaquinasElectricas: "Maquinas Electricas",
}

// Categories returns every taxonomy key in walk order.
func Categories() []Category {
	return []Category{
		CategoryCampoElectrico,
		CategoryCampoMagnetico,
		CategoryCorrienteDirecta,
		CategoryCorrienteAlterna,
		CategoryMaquinasElectricas,
	}
}

// IsValid returns true if the category belongs to the taxonomy.
func (c Category) IsValid() bool {
	_, ok := categoryDisplay[c]
	return ok
}

// Display returns the human-readable name of the category.
// Keys outside the taxonomy fall back to the raw key.
func (c Category) Display() string {
	if name, ok := categoryDisplay[c]; ok {
		return name
	}
	return string(c)
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// ParseCategory validates a category key.
func ParseCategory(key string) (Category, error) {
	c := Category(key)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, key)
	}
	return c, nil
}

// ParseCategoryFilter interprets a retrieval filter. The empty string and
// AllCategories mean no filter and yield ok=false with a nil error.
func ParseCategoryFilter(filter string) (c Category, ok bool, err error) {
	if filter == "" || filter == AllCategories {
		return "", false, nil
	}
	c, err = ParseCategory(filter)
	if err != nil {
		return "", false, err
	}
	return c, true, nil
}
