package domain

import (
	"fmt"
	"strings"
	"time"
)

// SentinelAnswer is stored in place of a real answer when a question has
// been recorded but not yet answered by the site owner. The shorter
// SentinelMarker substring is what both the search and listing paths
// filter on, so an owner editing the text by hand only has to keep the
// marker intact.
const (
	SentinelAnswer = "ANSWER NEEDED - Please update this entry in the database"
	SentinelMarker = "ANSWER NEEDED"
)

// QAEntry is one question/answer row in the knowledge store. Questions are
// not unique: inserting appends a new row even for a repeated question, and
// the newest row wins on lookup and update.
type QAEntry struct {
	ID        int64
	Question  string
	Answer    string
	CreatedAt time.Time
}

// NeedsAnswer reports whether the entry holds the sentinel placeholder
// rather than a real answer.
func (e *QAEntry) NeedsAnswer() bool {
	return strings.Contains(e.Answer, SentinelMarker)
}

// NewUnansweredEntry builds an entry carrying the sentinel answer.
func NewUnansweredEntry(question string) *QAEntry {
	return &QAEntry{
		Question: question,
		Answer:   SentinelAnswer,
	}
}

// ValidateQAEntry validates a QAEntry before insertion.
func ValidateQAEntry(e *QAEntry) error {
	if e == nil {
		return fmt.Errorf("qa entry cannot be nil")
	}
	if strings.TrimSpace(e.Question) == "" {
		return ErrEmptyQuestion
	}
	if strings.TrimSpace(e.Answer) == "" {
		return ErrEmptyAnswer
	}
	return nil
}

// AnsweredOnly filters entries down to those carrying a real answer,
// preserving order.
func AnsweredOnly(entries []*QAEntry) []*QAEntry {
	answered := make([]*QAEntry, 0, len(entries))
	for _, e := range entries {
		if !e.NeedsAnswer() {
			answered = append(answered, e)
		}
	}
	return answered
}
