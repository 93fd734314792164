package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptBatchSystem is the system instruction attached to every batch request.
	// This prompt has no format placeholders.
	PromptBatchSystem = "batch_system"

	// PromptSummarySystem is the system instruction for interactive per-question summaries.
	// This prompt has no format placeholders.
	PromptSummarySystem = "summary_system"

	// PromptMetadataSystem is the system instruction for first-page metadata extraction.
	// This prompt has no format placeholders.
	PromptMetadataSystem = "metadata_system"

	// PromptMetadata asks for title, authors and year.
	// The template expects a %s placeholder for the first-page text.
	PromptMetadata = "metadata"

	// PromptReviewSystem is the system instruction for literature Q&A.
	// This prompt has no format placeholders.
	PromptReviewSystem = "review_system"
)

// DefaultPrompts contains the built-in prompt for every well-known name.
// Stores use them when no user file exists; services use them when no store is set.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var DefaultPrompts = map[string]string{
	PromptBatchSystem: "You are an experienced research assistant with PhD in Economics at Harvard University. Your role is to conduct a literature review on given papers. For each paper, you will summarize the papers. More specifically, the purpose is to get at the all the measures that papers use to quantify innovation.",

	PromptSummarySystem: "You are an expert assistant. Please provide concise and informative responses. Each response should be no longer than 2-3 sentences.",

	PromptMetadataSystem: "You are an expert in academic paper analysis.",

	PromptMetadata: `You are an expert in academic papers. Given the following text from the first page of a PDF, identify the title of the paper, the authors, and the publication year:

%s

Please respond with the title followed by 'Title:', the authors followed by 'Authors:', and the year formatted as 'Year: YYYY'.`,

	PromptReviewSystem: "You are an expert assistant, skilled in comparing research topics.",
}
