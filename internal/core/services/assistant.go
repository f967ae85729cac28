package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/electro-agent/internal/core/domain"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driven"
	"github.com/custodia-labs/electro-agent/internal/core/ports/driving"
	"github.com/custodia-labs/electro-agent/internal/logger"
)

// Ensure Assistant implements the interface.
var _ driving.AssistantService = (*Assistant)(nil)

// Context headings sent to the LLM.
const (
	contextHeading  = "## Material de referencia relevante:"
	questionHeading = "## Pregunta del estudiante:"
	excerptDivider  = "---"
)

// AssistantConfig tunes context assembly.
type AssistantConfig struct {
	// TopK is the number of excerpts retrieved per question.
	TopK int

	// ExcerptChars caps each excerpt, counted in characters.
	ExcerptChars int

	// HistoryTurns caps the prior turns sent with a question.
	HistoryTurns int

	// MaxTokens caps the answer length.
	MaxTokens int
}

// Assistant answers student questions from retrieved course material.
type Assistant struct {
	retriever driving.RetrievalService
	llm       driven.LLMService
	prompts   driven.PromptStore
	cfg       AssistantConfig
}

// NewAssistant creates an assistant. llm may be nil, in which case Ask
// returns ErrLLMUnavailable. prompts may be nil to use the built-in
// system instruction.
func NewAssistant(
	retriever driving.RetrievalService,
	llm driven.LLMService,
	prompts driven.PromptStore,
	cfg AssistantConfig,
) *Assistant {
	if cfg.TopK <= 0 {
		cfg.TopK = domain.DefaultTopK
	}
	if cfg.ExcerptChars <= 0 {
		cfg.ExcerptChars = domain.DefaultExcerptChars
	}
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = domain.DefaultHistoryTurns
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = domain.DefaultMaxTokens
	}
	return &Assistant{
		retriever: retriever,
		llm:       llm,
		prompts:   prompts,
		cfg:       cfg,
	}
}

// Available returns true if an LLM is configured.
func (a *Assistant) Available() bool {
	return a.llm != nil
}

// Ask retrieves excerpts relevant to question and asks the LLM to answer,
// given the prior conversation.
func (a *Assistant) Ask(
	ctx context.Context, question string, history []domain.Turn, categoryFilter string,
) (*domain.Answer, error) {
	if a.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	sources, err := a.retriever.Retrieve(ctx, question, a.cfg.TopK, categoryFilter)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	logger.Debug("Assistant: %d excerpts for context", len(sources))

	messages := make([]driven.ChatMessage, 0, a.cfg.HistoryTurns+2)
	messages = append(messages, driven.ChatMessage{Role: driven.RoleSystem, Content: a.systemPrompt()})
	for _, turn := range recentTurns(history, a.cfg.HistoryTurns) {
		messages = append(messages, driven.ChatMessage{Role: string(turn.Role), Content: turn.Content})
	}
	messages = append(messages, driven.ChatMessage{
		Role:    driven.RoleUser,
		Content: UserMessage(BuildContext(sources, a.cfg.ExcerptChars), question),
	})

	text, err := a.llm.Chat(ctx, messages, driven.ChatOptions{MaxTokens: a.cfg.MaxTokens})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &domain.Answer{Text: text, Sources: sources}, nil
}

func (a *Assistant) systemPrompt() string {
	if a.prompts == nil {
		return domain.AssistantSystemPrompt
	}
	prompt, err := a.prompts.Load(driven.PromptAssistantSystem)
	if err != nil || strings.TrimSpace(prompt) == "" {
		logger.Debug("Using built-in system prompt: %v", err)
		return domain.AssistantSystemPrompt
	}
	return prompt
}

// BuildContext renders retrieved excerpts in rank order, each truncated to
// limit characters.
func BuildContext(results []domain.RetrievalResult, limit int) string {
	var b strings.Builder
	b.WriteString(contextHeading)
	b.WriteString("\n\n")
	for i, r := range results {
		fmt.Fprintf(&b, "### Documento %d - Tema: %s\n", i+1, orNA(r.Metadata.CategoryDisplay))
		fmt.Fprintf(&b, "Fuente: %s\n\n", orNA(r.Metadata.Source))
		b.WriteString(truncateRunes(r.Content, limit))
		b.WriteString("\n\n" + excerptDivider + "\n\n")
	}
	return b.String()
}

// UserMessage joins the rendered context and the student's question.
func UserMessage(excerpts, question string) string {
	return excerpts + "\n\n" + questionHeading + "\n" + question
}

// recentTurns keeps the last n user or assistant turns. The kept window
// always opens with a user turn.
func recentTurns(history []domain.Turn, n int) []domain.Turn {
	kept := make([]domain.Turn, 0, len(history))
	for _, t := range history {
		if (t.Role == domain.RoleUser || t.Role == domain.RoleAssistant) && strings.TrimSpace(t.Content) != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	for len(kept) > 0 && kept[0].Role != domain.RoleUser {
		kept = kept[1:]
	}
	return kept
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
