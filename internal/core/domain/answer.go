package domain

// Answer is one line of a batch output or error file.
// Exactly one of Text or Err is meaningful.
type Answer struct {
	// Key is the correlation key as returned by the service.
	Key string

	// Text is the message content of a successful response.
	Text string

	// Err describes a per-request failure reported by the service.
	Err string
}

// Failed reports whether the service returned an error for this request.
func (a Answer) Failed() bool {
	return a.Err != ""
}

// SummaryRecord is the demultiplexed result for one document.
type SummaryRecord struct {
	DocumentID string

	// Answers maps question name to final text. Missing questions read as "".
	Answers map[string]string
}

// Row flattens the record into document ID followed by one cell per question.
func (r SummaryRecord) Row(questions QuestionSet) []string {
	row := make([]string, 0, len(questions)+1)
	row = append(row, r.DocumentID)
	for _, q := range questions {
		row = append(row, r.Answers[q.Name])
	}
	return row
}

// DemuxStats counts how answers were routed.
type DemuxStats struct {
	Used            int
	Malformed       int
	UnknownQuestion int
	Errored         int
	Duplicate       int
}

// Skipped returns the number of answers that did not reach a record.
func (s DemuxStats) Skipped() int {
	return s.Malformed + s.UnknownQuestion + s.Errored + s.Duplicate
}
