package driven

// Prompt names understood by a PromptStore.
const (
	// PromptAssistantSystem is the system instruction sent with every question.
	PromptAssistantSystem = "assistant_system"
)

// PromptStore loads LLM prompts, allowing users to customise them.
type PromptStore interface {
	// Load returns the prompt text for the given name.
	// Falls back to the built-in default when no custom prompt exists.
	Load(name string) (string, error)
}
