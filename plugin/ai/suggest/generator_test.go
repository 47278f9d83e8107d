package suggest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/studysense/studysense/plugin/ai"
	"github.com/studysense/studysense/plugin/ai/major"
	"github.com/studysense/studysense/store"
)

type fakeLLM struct {
	response string
	err      error

	calls   int
	prompts []string
}

func (f *fakeLLM) Chat(_ context.Context, messages []ai.Message) (string, error) {
	f.calls++
	for _, m := range messages {
		f.prompts = append(f.prompts, m.Content)
	}
	return f.response, f.err
}

type fakeAnalyzer struct {
	profile *major.Profile
	panics  bool
}

func (f *fakeAnalyzer) Analyze(context.Context, int32) *major.Profile {
	if f.panics {
		panic("analyzer exploded")
	}
	if f.profile != nil {
		return f.profile
	}
	return major.Undetected()
}

func newTestGenerator(llm ai.LLMService, analyzer MajorAnalyzer, now time.Time) *Generator {
	g := NewGenerator(llm, analyzer, time.UTC)
	g.now = func() time.Time { return now }
	return g
}

// Wednesday morning, all five slots available.
var testNow = time.Date(2026, 1, 7, 10, 30, 0, 0, time.UTC)

func emptyContext() *Context {
	return &Context{DismissedTopics: []string{}, DismissedKeys: []string{}}
}

func TestGenerateFromModelOutput(t *testing.T) {
	llm := &fakeLLM{response: `Dưới đây là các gợi ý:
[
  {"title": "Ôn giải tích", "topic": "Giải tích", "type": "exam-prep", "text": "Sắp thi rồi.", "priority": 5},
  {"title": "Làm bài tập", "topic": "Đại số", "type": "assignment", "text": "Hạn nộp gần kề.", "priority": 4}
]`}
	g := newTestGenerator(llm, &fakeAnalyzer{}, testNow)

	got := g.Generate(context.Background(), 7, emptyContext(), 5)
	require.Len(t, got, 2)
	require.Equal(t, 1, llm.calls)

	slots := PlanSlots(testNow)
	first := got[0]
	require.Equal(t, "Ôn giải tích", first.Title)
	require.Equal(t, store.SuggestionTypeExamPrep, first.Type)
	require.EqualValues(t, 5, first.Priority)
	require.EqualValues(t, 7, first.UserID)
	require.Equal(t, slots[0].Start.Unix(), first.StartTs)
	require.Equal(t, slots[0].End.Unix(), first.EndTs)
	require.Equal(t, "7-giải-tích-exam-prep", first.UniqueKey)
	require.Equal(t, testNow.Unix(), first.SuggestedTs)
	require.NotEmpty(t, first.UID)

	require.Equal(t, slots[1].Start.Unix(), got[1].StartTs)
}

func TestGenerateNormalizesCandidates(t *testing.T) {
	llm := &fakeLLM{response: `[
  {"title": "A", "topic": "X", "type": "nonsense", "text": "t", "priority": 9},
  {"title": "B", "topic": "Y", "type": "group-study", "text": "t", "priority": 0}
]`}
	g := newTestGenerator(llm, &fakeAnalyzer{}, testNow)

	got := g.Generate(context.Background(), 1, emptyContext(), 5)
	require.Len(t, got, 2)
	require.Equal(t, store.SuggestionTypeStudySession, got[0].Type)
	require.EqualValues(t, 3, got[0].Priority)
	require.Equal(t, store.SuggestionTypeGroupStudy, got[1].Type)
	require.EqualValues(t, 3, got[1].Priority)
}

func TestGenerateSkipsDismissedKeys(t *testing.T) {
	llm := &fakeLLM{response: `[
  {"title": "A", "topic": "Giải tích", "type": "study-session", "text": "t", "priority": 3},
  {"title": "B", "topic": "Đại số", "type": "study-session", "text": "t", "priority": 3}
]`}
	g := newTestGenerator(llm, &fakeAnalyzer{}, testNow)

	genCtx := emptyContext()
	genCtx.DismissedKeys = []string{store.BuildUniqueKey(1, "Giải tích", store.SuggestionTypeStudySession)}

	got := g.Generate(context.Background(), 1, genCtx, 5)
	// Dropped, not replaced.
	require.Len(t, got, 1)
	require.Equal(t, "B", got[0].Title)
}

func TestGenerateCapsAtAvailableSlots(t *testing.T) {
	items := make([]string, 8)
	for i := range items {
		items[i] = fmt.Sprintf(`{"title": "S%d", "topic": "T%d", "type": "study-session", "text": "t", "priority": 3}`, i, i)
	}
	llm := &fakeLLM{response: "[" + strings.Join(items, ",") + "]"}

	// Late evening leaves only three slots.
	night := time.Date(2026, 1, 7, 21, 0, 0, 0, time.UTC)
	g := newTestGenerator(llm, &fakeAnalyzer{}, night)

	got := g.Generate(context.Background(), 1, emptyContext(), 5)
	require.Len(t, got, 3)
}

func TestGenerateDegradesOnModelFailure(t *testing.T) {
	llm := &fakeLLM{err: errors.New("upstream 503")}
	analyzer := &fakeAnalyzer{profile: &major.Profile{
		Detected: true,
		Major:    "Khoa học máy tính",
		Subjects: []string{"Cấu trúc dữ liệu"},
		Keywords: []string{"thuật toán"},
	}}
	g := newTestGenerator(llm, analyzer, testNow)

	got := g.Generate(context.Background(), 1, emptyContext(), 5)
	require.Len(t, got, 5)
	for _, s := range got {
		require.Equal(t, "Buổi học Khoa học máy tính", s.Title)
		require.Equal(t, "Ôn tập kiến thức Khoa học máy tính", s.Topic)
		require.Equal(t, store.SuggestionTypeStudySession, s.Type)
		require.EqualValues(t, 3, s.Priority)
	}
}

func TestGenerateDegradesOnMalformedOutput(t *testing.T) {
	llm := &fakeLLM{response: "Xin lỗi, tôi không thể trả lời bằng JSON."}
	g := newTestGenerator(llm, &fakeAnalyzer{}, testNow)

	got := g.Generate(context.Background(), 1, emptyContext(), 5)
	require.Len(t, got, 5)
	for _, s := range got {
		require.Equal(t, "Buổi học tập trung", s.Title)
		require.Equal(t, "Ôn tập kiến thức", s.Topic)
	}
}

func TestGenerateRecoversToLastResort(t *testing.T) {
	g := newTestGenerator(&fakeLLM{}, &fakeAnalyzer{panics: true}, testNow)

	got := g.Generate(context.Background(), 9, emptyContext(), 5)
	require.Len(t, got, 1)

	s := got[0]
	require.Equal(t, "Buổi ôn tập kiến thức", s.Title)
	require.EqualValues(t, 9, s.UserID)
	require.Equal(t, PlanSlots(testNow)[0].Start.Unix(), s.StartTs)
	require.Equal(t, fmt.Sprintf("9-on-tap-tong-hop-%d", testNow.UnixMilli()), s.UniqueKey)
}

func TestLastResort(t *testing.T) {
	g := newTestGenerator(&fakeLLM{}, &fakeAnalyzer{}, testNow)

	s := g.LastResort(4)
	require.EqualValues(t, 4, s.UserID)
	require.Equal(t, store.SuggestionTypeStudySession, s.Type)
	require.EqualValues(t, 3, s.Priority)
	require.Equal(t, PlanSlots(testNow)[0].Start.Unix(), s.StartTs)
	require.Equal(t, testNow.Unix(), s.SuggestedTs)
	// The key is salted with the timestamp so it never collides with a
	// dismissed dedup key.
	require.Equal(t, fmt.Sprintf("4-on-tap-tong-hop-%d", testNow.UnixMilli()), s.UniqueKey)
}

func TestBuildPromptIncludesContext(t *testing.T) {
	endTs := testNow.Add(3 * time.Hour).Unix()
	genCtx := &Context{
		UpcomingEvents: []*store.CalendarEvent{
			{Title: "Thi giữa kỳ", StartTs: testNow.Add(2 * time.Hour).Unix(), EndTs: &endTs},
		},
		CareerContext:   "Muốn làm kỹ sư dữ liệu.",
		DismissedTopics: []string{"Triết học"},
	}
	profile := &major.Profile{Detected: true, Major: "Khoa học dữ liệu"}

	prompt := buildPrompt(testNow, genCtx, profile, 5)
	require.Contains(t, prompt, "Thi giữa kỳ")
	require.Contains(t, prompt, "Thứ tư")
	require.Contains(t, prompt, "Muốn làm kỹ sư dữ liệu.")
	require.Contains(t, prompt, "KHOA HỌC DỮ LIỆU")
	require.Contains(t, prompt, "Triết học")
}

func TestBuildPromptWithoutEvents(t *testing.T) {
	prompt := buildPrompt(testNow, emptyContext(), major.Undetected(), 5)
	require.Contains(t, prompt, "Không có sự kiện sắp tới")
	require.NotContains(t, prompt, "THÔNG TIN QUAN TRỌNG")
	require.NotContains(t, prompt, "KHÔNG ĐƯỢC gợi ý")
}

func TestBuildPromptTruncatesCareerContext(t *testing.T) {
	genCtx := emptyContext()
	genCtx.CareerContext = strings.Repeat("a", maxCareerContextChars+500)

	prompt := buildPrompt(testNow, genCtx, major.Undetected(), 5)
	require.Contains(t, prompt, strings.Repeat("a", maxCareerContextChars))
	require.NotContains(t, prompt, strings.Repeat("a", maxCareerContextChars+1))
}

func TestBuildPromptCareerTruncationKeepsValidUTF8(t *testing.T) {
	genCtx := emptyContext()
	genCtx.CareerContext = "a" + strings.Repeat("ữ", maxCareerContextChars)

	prompt := buildPrompt(testNow, genCtx, major.Undetected(), 5)
	require.True(t, utf8.ValidString(prompt))
}
