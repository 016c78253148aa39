package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names return an error wrapping domain.ErrNotFound.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptAnswer is the preamble placed before the retrieved legal texts.
	// This prompt has no format placeholders.
	PromptAnswer = "answer"
)

// DefaultAnswerPrompt is the built-in text of PromptAnswer.
const DefaultAnswerPrompt = "You are a legal assistant. Use the following legal texts to answer the user's question."
