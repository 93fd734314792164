package domain

import "strings"

// FolderReview is the literature-review scaffold built for one labelled folder.
type FolderReview struct {
	Label string
	Text  string
}

// Topic returns the broad topic phrase used for a folder label.
func Topic(label string) string {
	return label + " research"
}

// BuildReview renders the comprehensive literature-review scaffold for a topic,
// embedding every paper's answers in question order.
func BuildReview(topic string, papers []PaperSummary, questions QuestionSet) string {
	var b strings.Builder

	b.WriteString("Objective: Create a comprehensive literature review focusing on " + topic +
		", considering various perspectives and key determinants.\n\n")
	b.WriteString("Sections:\n\n")
	b.WriteString("Introduction: The importance of studying " + topic +
		" is significant, as it provides insights into key determinants and varying perspectives. " +
		"Key contributors include...\n\n")
	b.WriteString("Major Thematic Section 1: \n")
	b.WriteString("Discuss aspect 1, breaking it down into relevant sub-categories.\n\n")
	b.WriteString("Major Thematic Section 2: \n")
	b.WriteString("Explore aspect 2, breaking it down into relevant sub-categories.\n\n")
	b.WriteString("Major Thematic Section 3: \n")
	b.WriteString("Analyze aspect 3, breaking it down into relevant sub-categories.\n\n")
	b.WriteString("Additional Thematic Sections: Add more sections as needed to cover all relevant aspects of the topic.\n\n")

	for _, p := range papers {
		b.WriteString("\nPaper: " + p.Metadata.Title + "\n")
		for _, q := range questions {
			b.WriteString(q.Name + ": " + p.Answers[q.Name] + "\n")
		}
	}

	b.WriteString("\nIntegration:\n")
	b.WriteString("Synthesize findings, highlighting common themes and differences. " +
		"Use visual aids (diagrams/frameworks/tables) to summarize the literature\n")
	b.WriteString("\nCritical Analysis:\n")
	b.WriteString("Assess strengths, weaknesses, and gaps in the literature. Suggest future research directions.\n")
	b.WriteString("\nMethodology:\n")
	b.WriteString("Discuss methodological approaches and their limitations.\n")
	b.WriteString("\nConclusion:\n")
	b.WriteString("Summarize key findings and their implications.\n")

	return b.String()
}

// CombineReviews joins folder reviews into the context block sent with a question.
func CombineReviews(reviews []FolderReview) string {
	parts := make([]string, len(reviews))
	for i, r := range reviews {
		parts[i] = "\nComprehensive Review for " + r.Label + ":\n" + r.Text + "\n"
	}
	return strings.Join(parts, "\n")
}
