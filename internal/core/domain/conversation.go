package domain

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of a conversation.
type Turn struct {
	Role    Role
	Content string
}

// Answer is the assistant's reply together with the excerpts it was grounded on.
type Answer struct {
	Text    string
	Sources []RetrievalResult
}

// AssistantSystemPrompt is the built-in system instruction for answering
// student questions. Users may override it through the prompt store.
const AssistantSystemPrompt = `Eres un asistente experto en electromagnetismo para estudiantes de ingenieria.

Tu rol es:
1. Proporcionar respuestas cientificamente rigurosas basadas en las ecuaciones de Maxwell
2. Explicar conceptos de forma clara y pedagogica
3. Usar el material de referencia proporcionado para fundamentar tus respuestas
4. Mostrar paso a paso las soluciones cuando sea necesario
5. Usar notacion matematica clara (LaTeX cuando sea apropiado)

IMPORTANTE:
- Si la pregunta se relaciona con el material de referencia, usalo como base
- Explica los conceptos fisicos detras de las ecuaciones
- Manten un tono educativo y de apoyo`
