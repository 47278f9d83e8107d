package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildUniqueKey(t *testing.T) {
	tests := []struct {
		name           string
		userID         int32
		topic          string
		suggestionType SuggestionType
		want           string
	}{
		{
			name:           "lowercases and hyphenates",
			userID:         1,
			topic:          "Ôn Tập Giải Tích",
			suggestionType: SuggestionTypeStudySession,
			want:           "1-ôn-tập-giải-tích-study-session",
		},
		{
			name:           "collapses whitespace runs",
			userID:         2,
			topic:          "Cấu trúc \t  dữ liệu",
			suggestionType: SuggestionTypeExamPrep,
			want:           "2-cấu-trúc-dữ-liệu-exam-prep",
		},
		{
			name:           "empty topic",
			userID:         3,
			topic:          "",
			suggestionType: SuggestionTypeAssignment,
			want:           "3--assignment",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildUniqueKey(tt.userID, tt.topic, tt.suggestionType)
			require.Equal(t, tt.want, got)
			// Pure function: same inputs, same key.
			require.Equal(t, got, BuildUniqueKey(tt.userID, tt.topic, tt.suggestionType))
		})
	}
}

func TestSuggestionIsActive(t *testing.T) {
	now := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)

	fresh := &Suggestion{SuggestedTs: now.Add(-time.Hour).Unix()}
	require.True(t, fresh.IsActive(now))

	stale := &Suggestion{SuggestedTs: now.Add(-25 * time.Hour).Unix()}
	require.False(t, stale.IsActive(now))

	boundary := &Suggestion{SuggestedTs: now.Add(-ActiveWindow).Unix()}
	require.False(t, boundary.IsActive(now))

	dismissed := &Suggestion{SuggestedTs: now.Unix(), Dismissed: true}
	require.False(t, dismissed.IsActive(now))

	promoted := &Suggestion{SuggestedTs: now.Unix(), AddedToCalendar: true}
	require.False(t, promoted.IsActive(now))
}

func TestSuggestionTypeIsValid(t *testing.T) {
	for _, valid := range []SuggestionType{
		SuggestionTypeStudySession, SuggestionTypeAssignment, SuggestionTypeExamPrep,
		SuggestionTypeGroupStudy, SuggestionTypeStudyBreak,
	} {
		require.True(t, valid.IsValid(), string(valid))
	}
	require.False(t, SuggestionType("").IsValid())
	require.False(t, SuggestionType("lecture").IsValid())
}
