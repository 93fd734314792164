package domain

import "fmt"

// Question is a named prompt asked of every chunk.
type Question struct {
	// Name identifies the question and labels its report column.
	Name string

	// Prompt is the fixed instruction sent ahead of the chunk text.
	Prompt string
}

// QuestionSet is an ordered set of questions with unique names.
// Order determines request order and report column order.
type QuestionSet []Question

// Names returns the question names in order.
func (qs QuestionSet) Names() []string {
	names := make([]string, len(qs))
	for i, q := range qs {
		names[i] = q.Name
	}
	return names
}

// Lookup returns the question with the given name.
func (qs QuestionSet) Lookup(name string) (Question, bool) {
	for _, q := range qs {
		if q.Name == name {
			return q, true
		}
	}
	return Question{}, false
}

// Contains reports whether name is a member of the set.
func (qs QuestionSet) Contains(name string) bool {
	_, ok := qs.Lookup(name)
	return ok
}

// Validate checks the set is non-empty and names are unique and non-blank.
func (qs QuestionSet) Validate() error {
	if len(qs) == 0 {
		return fmt.Errorf("%w: question set is empty", ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(qs))
	for _, q := range qs {
		if q.Name == "" {
			return fmt.Errorf("%w: question with empty name", ErrInvalidInput)
		}
		if _, dup := seen[q.Name]; dup {
			return fmt.Errorf("%w: duplicate question %q", ErrInvalidInput, q.Name)
		}
		seen[q.Name] = struct{}{}
	}
	return nil
}

// BatchQuestions are asked of every chunk in batch mode.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var BatchQuestions = QuestionSet{
	{
		Name:   "Research Question",
		Prompt: "Summarize the primary research question of the paper. Provide exactly three questions in clear question format. Stop after the third question and do not include any additional text or commentary.",
	},
	{
		Name:   "Key Findings",
		Prompt: "Summarize the key findings of the paper in three exact sentences. Ensure all three sentences are concise, focused, and do not exceed 50 words when combined.",
	},
	{
		Name:   "Data Sources",
		Prompt: "List up to 5 of the most relevant data sources used in the paper, in bullet-point format. Each point should briefly describe the data source and its relevance.",
	},
	{
		Name:   "Innovation Measures",
		Prompt: "List the top 5 most relevant measures used to quantify innovation in the paper. Each measure should be a bullet point, starting with **, followed by a brief description in one sentence.",
	},
}

// SummaryQuestions are asked of every paper in interactive mode.
var SummaryQuestions = QuestionSet{
	{Name: "RQ", Prompt: "What is the research question of the paper?"},
	{Name: "Main Findings", Prompt: "What are the main findings of the paper?"},
	{Name: "Contributions", Prompt: "What are the main contributions of the paper?"},
	{Name: "Data", Prompt: "What data does the paper use?"},
	{Name: "Methods", Prompt: "What method does it use and is there any issue with endogeneity?"},
	{Name: "Key Variables", Prompt: "What are the key variables of the paper?"},
	{
		Name:   "Limitation and Future Directions",
		Prompt: "What are the limitations of the paper and what could future research look like?",
	},
}
