package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories_Order(t *testing.T) {
	cats := Categories()

	require.Len(t, cats, 5)
	assert.Equal(t, CategoryCampoElectrico, cats[0])
	assert.Equal(t, CategoryCampoMagnetico, cats[1])
	assert.Equal(t, CategoryCorrienteDirecta, cats[2])
	assert.Equal(t, CategoryCorrienteAlterna, cats[3])
	assert.Equal(t, CategoryMaquinasElectricas, cats[4])
}

func TestCategory_Display(t *testing.T) {
	tests := []struct {
		category Category
		expected string
	}{
		{CategoryCampoElectrico, "Campo Electrico"},
		{CategoryCampoMagnetico, "Campo Magnetico"},
		{CategoryCorrienteDirecta, "Circuitos en Corriente Directa"},
		{CategoryCorrienteAlterna, "Circuitos en Corriente Alterna"},
		{CategoryMaquinasElectricas, "Maquinas Electricas"},
		{Category("optica"), "optica"},
		{Category(""), ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.category.Display())
		})
	}
}

func TestCategory_IsValid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.IsValid(), c)
	}
	assert.False(t, Category("optica").IsValid())
	assert.False(t, Category(AllCategories).IsValid())
	assert.False(t, Category("").IsValid())
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("campo_magnetico")
	require.NoError(t, err)
	assert.Equal(t, CategoryCampoMagnetico, c)

	_, err = ParseCategory("termodinamica")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCategory))
	assert.Contains(t, err.Error(), "termodinamica")
}

func TestParseCategoryFilter(t *testing.T) {
	tests := []struct {
		name    string
		filter  string
		wantCat Category
		wantOK  bool
		wantErr bool
	}{
		{"empty means all", "", "", false, false},
		{"todos means all", "todos", "", false, false},
		{"known key", "corriente_alterna", CategoryCorrienteAlterna, true, false},
		{"unknown key", "optica", "", false, true},
		{"display name is not a key", "Campo Electrico", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok, err := ParseCategoryFilter(tt.filter)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCategory)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCat, c)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
