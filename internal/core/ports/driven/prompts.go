package driven

// Prompt names.
const (
	// PromptAnswerSystem is the system instruction sent with every question.
	PromptAnswerSystem = "answer_system"
)

// PromptStore loads user-editable LLM prompts.
type PromptStore interface {
	// Load returns the prompt with the given name, falling back to its default.
	Load(name string) (string, error)

	// Dir returns the directory prompts are read from.
	Dir() string
}
