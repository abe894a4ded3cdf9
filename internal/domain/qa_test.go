package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQAEntry_NeedsAnswer(t *testing.T) {
	t.Run("sentinel answer needs an answer", func(t *testing.T) {
		e := NewUnansweredEntry("What is your salary expectation?")
		assert.True(t, e.NeedsAnswer())
	})

	t.Run("real answer does not", func(t *testing.T) {
		e := &QAEntry{Question: "Where are you based?", Answer: "New York"}
		assert.False(t, e.NeedsAnswer())
	})

	t.Run("hand-edited sentinel still matches on the marker", func(t *testing.T) {
		e := &QAEntry{Question: "q", Answer: "ANSWER NEEDED - will fill in this weekend"}
		assert.True(t, e.NeedsAnswer())
	})
}

func TestValidateQAEntry(t *testing.T) {
	t.Run("valid entry passes", func(t *testing.T) {
		assert.NoError(t, ValidateQAEntry(&QAEntry{Question: "q", Answer: "a"}))
	})

	t.Run("nil entry rejected", func(t *testing.T) {
		assert.Error(t, ValidateQAEntry(nil))
	})

	t.Run("blank question rejected", func(t *testing.T) {
		err := ValidateQAEntry(&QAEntry{Question: "   ", Answer: "a"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptyQuestion)
	})

	t.Run("blank answer rejected", func(t *testing.T) {
		err := ValidateQAEntry(&QAEntry{Question: "q", Answer: "\t"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptyAnswer)
	})

	t.Run("sentinel answer is a valid answer", func(t *testing.T) {
		assert.NoError(t, ValidateQAEntry(NewUnansweredEntry("q")))
	})
}

func TestAnsweredOnly(t *testing.T) {
	entries := []*QAEntry{
		{Question: "a", Answer: "answered"},
		NewUnansweredEntry("b"),
		{Question: "c", Answer: "also answered"},
	}

	answered := AnsweredOnly(entries)
	require.Len(t, answered, 2)
	assert.Equal(t, "a", answered[0].Question)
	assert.Equal(t, "c", answered[1].Question)
}

func TestFilterVerdict_Blocking(t *testing.T) {
	tests := []struct {
		name     string
		verdict  FilterVerdict
		blocking bool
	}{
		{"triggered inappropriate blocks", FilterVerdict{Kind: FilterInappropriate, Triggered: true}, true},
		{"triggered injection blocks", FilterVerdict{Kind: FilterInjection, Triggered: true}, true},
		{"triggered off-topic is advisory", FilterVerdict{Kind: FilterOffTopic, Triggered: true}, false},
		{"triggered competitor is advisory", FilterVerdict{Kind: FilterCompetitor, Triggered: true}, false},
		{"untriggered inappropriate does not block", FilterVerdict{Kind: FilterInappropriate, Triggered: false}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.blocking, tt.verdict.Blocking())
		})
	}
}

func TestValidTurnRole(t *testing.T) {
	assert.True(t, ValidTurnRole(RoleUser))
	assert.True(t, ValidTurnRole(RoleAssistant))
	assert.False(t, ValidTurnRole(RoleSystem))
	assert.False(t, ValidTurnRole(RoleTool))
	assert.False(t, ValidTurnRole(Role("moderator")))
}
