package services

import (
	"maps"
	"slices"
	"strings"

	"github.com/xxiswajung/LitSummarizer/internal/core/domain"
	"github.com/xxiswajung/LitSummarizer/internal/logger"
)

// accumulator collects chunk answers per question for one document.
type accumulator map[string]map[int]string

// finalize joins each question's chunk answers in chunk order.
func (a accumulator) finalize(questions domain.QuestionSet) map[string]string {
	out := make(map[string]string, len(questions))
	for _, q := range questions {
		chunks := a[q.Name]
		parts := make([]string, 0, len(chunks))
		for _, idx := range slices.Sorted(maps.Keys(chunks)) {
			parts = append(parts, chunks[idx])
		}
		out[q.Name] = strings.TrimSpace(strings.Join(parts, " "))
	}
	return out
}

// Demultiplex routes answers back to their documents and questions.
//
// Malformed keys, unknown questions, per-request errors and duplicates are
// skipped with a warning. Records follow order for the documents it lists,
// then any other documents in the order their first answer appeared.
// Every document with at least one parseable key gets a record, and every
// question of every record is present, "" when no answer arrived.
func Demultiplex(answers []domain.Answer, questions domain.QuestionSet, order []string) ([]domain.SummaryRecord, domain.DemuxStats) {
	var stats domain.DemuxStats
	accs := make(map[string]accumulator)
	var firstSeen []string

	for _, ans := range answers {
		key, err := domain.ParseCorrelationKey(ans.Key)
		if err != nil {
			logger.Warn("skipping answer: %v", err)
			stats.Malformed++
			continue
		}

		// Any parseable key gives its document a record, even when every
		// answer for it is later skipped.
		acc, ok := accs[key.DocumentID]
		if !ok {
			acc = make(accumulator)
			accs[key.DocumentID] = acc
			firstSeen = append(firstSeen, key.DocumentID)
		}

		if !questions.Contains(key.Question) {
			logger.Warn("skipping answer %q: %v %q", ans.Key, domain.ErrUnknownQuestion, key.Question)
			stats.UnknownQuestion++
			continue
		}

		if ans.Failed() {
			logger.Warn("request %q failed: %s", ans.Key, ans.Err)
			stats.Errored++
			continue
		}

		chunks, ok := acc[key.Question]
		if !ok {
			chunks = make(map[int]string)
			acc[key.Question] = chunks
		}
		if _, dup := chunks[key.ChunkIndex]; dup {
			logger.Warn("skipping duplicate answer %q", ans.Key)
			stats.Duplicate++
			continue
		}
		chunks[key.ChunkIndex] = ans.Text
		stats.Used++
	}

	records := make([]domain.SummaryRecord, 0, len(accs))
	emitted := make(map[string]struct{}, len(accs))
	emit := func(id string) {
		acc, ok := accs[id]
		if !ok {
			return
		}
		if _, done := emitted[id]; done {
			return
		}
		emitted[id] = struct{}{}
		records = append(records, domain.SummaryRecord{DocumentID: id, Answers: acc.finalize(questions)})
	}

	for _, id := range order {
		emit(id)
	}
	for _, id := range firstSeen {
		emit(id)
	}

	return records, stats
}

