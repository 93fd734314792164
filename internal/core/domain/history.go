package domain

import "strings"

// History is the persisted interactive Q&A log. Questions and Answers are
// parallel slices.
type History struct {
	Questions []string `json:"questions"`
	Answers   []string `json:"answers"`
}

// Append records one exchange.
func (h *History) Append(question, answer string) {
	h.Questions = append(h.Questions, question)
	h.Answers = append(h.Answers, answer)
}

// Len returns the number of complete exchanges.
func (h History) Len() int {
	return min(len(h.Questions), len(h.Answers))
}

// Context renders prior exchanges as "Q: ...\nA: ..." blocks joined by newlines.
func (h History) Context() string {
	n := h.Len()
	parts := make([]string, 0, n)
	for i := range n {
		parts = append(parts, "Q: "+h.Questions[i]+"\nA: "+h.Answers[i])
	}
	return strings.Join(parts, "\n")
}
