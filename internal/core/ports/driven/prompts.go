package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name. When the
	// prompt is missing, implementations should fall back to a sensible
	// default or return an error, depending on whether it is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next
	// access. Useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptAnswerSystem is the instruction preamble for grounded
	// question answering. No format placeholders; the engine appends
	// context, history and the question.
	PromptAnswerSystem = "answer_system"

	// PromptSuggest asks for question suggestions. The template expects
	// four placeholders in order: document reference (%s), question
	// count (%d), context (%s), question count again (%d).
	PromptSuggest = "suggest"
)
