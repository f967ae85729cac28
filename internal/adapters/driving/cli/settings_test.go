package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseYesNo(t *testing.T) {
	tests := []struct {
		input      string
		defaultVal bool
		expected   bool
	}{
		{"", true, true},
		{"", false, false},
		{"y", false, true},
		{"Si", false, true},
		{"NO", true, false},
		{"maybe", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseYesNo(tt.input, tt.defaultVal))
		})
	}
}

func TestSettingsCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range settingsCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"show", "corpus", "ocr", "embedding", "llm"} {
		assert.True(t, names[want], want)
	}
}

func TestSettingsShow_Defaults(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	t.Setenv("ANTHROPIC_API_KEY", "")

	out, err := execute(t, "", "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[Corpus]")
	assert.Contains(t, out, "Root: ./corpus")
	assert.Contains(t, out, "Chunk size: 2000")
	assert.Contains(t, out, "Backend: sqlite")
	assert.Contains(t, out, "Language: spa")
	assert.Contains(t, out, "Local (built-in, no service)")
	assert.Contains(t, out, "Anthropic (cloud)")
	assert.Contains(t, out, "API Key: (not set)")
	assert.Contains(t, out, "Top K: 3")
	assert.Contains(t, out, "Warning:")
}

func TestSettingsShow_MasksKey(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-1234567890abcdef")

	out, err := execute(t, "", "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "API Key: sk-a...cdef")
	assert.NotContains(t, out, "1234567890")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsCorpus(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "", "settings", "corpus", "/srv/apuntes")

	require.NoError(t, err)
	assert.Contains(t, out, "Corpus root set to: /srv/apuntes")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, "/srv/apuntes", settings.Corpus.Root)
}

func TestSettingsOCR(t *testing.T) {
	t.Run("disable", func(t *testing.T) {
		_, cleanup := setupTestServices(t)
		defer cleanup()

		out, err := execute(t, "n\n", "settings", "ocr")

		require.NoError(t, err)
		assert.Contains(t, out, "OCR fallback disabled")
		settings, err := settingsService.Get()
		require.NoError(t, err)
		assert.False(t, settings.OCR.Enabled)
	})

	t.Run("enable with language", func(t *testing.T) {
		_, cleanup := setupTestServices(t)
		defer cleanup()

		out, err := execute(t, "s\nspa+eng\n/opt/poppler/bin\n", "settings", "ocr")

		require.NoError(t, err)
		assert.Contains(t, out, "OCR fallback enabled (spa+eng)")
		settings, err := settingsService.Get()
		require.NoError(t, err)
		assert.Equal(t, domain.OCRSettings{
			Enabled:        true,
			Language:       "spa+eng",
			RasterizerPath: "/opt/poppler/bin",
		}, settings.OCR)
	})
}

func TestSettingsLLM_Ollama(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	// Choice 3 is Ollama; empty model keeps the default.
	out, err := execute(t, "3\n\n", "settings", "llm")

	require.NoError(t, err)
	assert.Contains(t, out, "LLM provider configured: Ollama (local) (llama3.2)")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.LLM.Provider)
	assert.Equal(t, "llama3.2", settings.LLM.Model)
}

func TestSettingsLLM_MissingKey(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := execute(t, "1\n\n\n", "settings", "llm")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestSettingsEmbedding_OpenAI(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := execute(t, "3\ntext-embedding-3-large\nsk-test-abcdefghijkl\n", "settings", "embedding")

	require.NoError(t, err)
	assert.Contains(t, out, "Embedding provider configured: OpenAI (cloud) (text-embedding-3-large)")
	assert.Contains(t, out, "electro reindex")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "sk-test-abcdefghijkl", settings.Embedding.APIKey)
}

func TestSettings_NoService(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	settingsService = nil

	for _, args := range [][]string{
		{"settings", "show"},
		{"settings", "corpus", "x"},
		{"settings", "ocr"},
		{"settings", "llm"},
		{"settings", "embedding"},
	} {
		_, err := execute(t, "", args...)
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "settings service not configured")
	}
}
