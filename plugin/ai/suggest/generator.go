package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/studysense/studysense/internal/observability"
	"github.com/studysense/studysense/internal/util"
	"github.com/studysense/studysense/plugin/ai"
	"github.com/studysense/studysense/plugin/ai/major"
	"github.com/studysense/studysense/store"
)

// maxCareerContextChars caps the career block embedded in the prompt.
const maxCareerContextChars = 2000

// vietnameseWeekdays maps time.Weekday to the local calendar names used in
// prompts, Sunday first.
var vietnameseWeekdays = [...]string{
	"Chủ nhật", "Thứ hai", "Thứ ba", "Thứ tư", "Thứ năm", "Thứ sáu", "Thứ bảy",
}

// candidate is the JSON shape the model is asked to produce.
type candidate struct {
	Title    string `json:"title"`
	Topic    string `json:"topic"`
	Type     string `json:"type"`
	Text     string `json:"text"`
	Priority int32  `json:"priority"`
}

// MajorAnalyzer infers the user's study profile; it degrades internally
// and never fails.
type MajorAnalyzer interface {
	Analyze(ctx context.Context, userID int32) *major.Profile
}

// Generator turns aggregated context into new suggestion records via one
// model call. It is read-only with respect to storage; persisting the
// result is the caller's job.
type Generator struct {
	llm      ai.LLMService
	analyzer MajorAnalyzer
	location *time.Location

	now func() time.Time
}

// NewGenerator creates a new suggestion generator.
func NewGenerator(llm ai.LLMService, analyzer MajorAnalyzer, location *time.Location) *Generator {
	if location == nil {
		location = time.Local
	}
	return &Generator{
		llm:      llm,
		analyzer: analyzer,
		location: location,
		now:      time.Now,
	}
}

// Generate produces up to count new suggestions for the user. Model and
// parse failures degrade to canned candidates; a panic anywhere in the
// pipeline degrades to a single last-resort suggestion on the first slot.
// Candidates whose dedup key was previously dismissed are dropped, not
// replaced, so the result may be shorter than count.
func (g *Generator) Generate(ctx context.Context, userID int32, genCtx *Context, count int) (result []*store.Suggestion) {
	now := g.now().In(g.location)
	slots := PlanSlots(now)

	defer func() {
		if r := recover(); r != nil {
			warn(ctx, "suggestion generation failed entirely, emitting last resort", fmt.Errorf("panic: %v", r))
			result = []*store.Suggestion{g.lastResort(userID, now, slots)}
		}
	}()

	profile := g.analyzer.Analyze(ctx, userID)
	prompt := buildPrompt(now, genCtx, profile, count)

	var candidates []candidate
	response, err := g.llm.Chat(ctx, []ai.Message{ai.UserMessage(prompt)})
	if err != nil {
		warn(ctx, "suggestion generation degraded: model call failed", err)
		candidates = cannedCandidates(profile, count)
	} else if ai.UnmarshalFirstArray(response, &candidates) != ai.Parsed {
		warn(ctx, "suggestion generation degraded: malformed model output", nil)
		candidates = cannedCandidates(profile, count)
	}

	result = make([]*store.Suggestion, 0, count)
	for i := 0; i < min(len(candidates), len(slots)); i++ {
		c := candidates[i]
		slot := slots[i]

		suggestionType := store.SuggestionType(c.Type)
		if !suggestionType.IsValid() {
			suggestionType = store.SuggestionTypeStudySession
		}
		priority := c.Priority
		if priority < 1 || priority > 5 {
			priority = 3
		}

		uniqueKey := store.BuildUniqueKey(userID, c.Topic, suggestionType)
		if contains(genCtx.DismissedKeys, uniqueKey) {
			continue
		}

		result = append(result, &store.Suggestion{
			UID:         util.GenUUID(),
			UserID:      userID,
			Title:       c.Title,
			Topic:       c.Topic,
			Text:        c.Text,
			StartTs:     slot.Start.Unix(),
			EndTs:       slot.End.Unix(),
			Type:        suggestionType,
			Priority:    priority,
			UniqueKey:   uniqueKey,
			SuggestedTs: now.Unix(),
		})
	}
	return result
}

// LastResort produces the single fallback suggestion used when context
// aggregation itself fails. Its key is salted with the current timestamp
// so it never collides with a dismissed dedup key.
func (g *Generator) LastResort(userID int32) *store.Suggestion {
	now := g.now().In(g.location)
	return g.lastResort(userID, now, PlanSlots(now))
}

func (g *Generator) lastResort(userID int32, now time.Time, slots []TimeSlot) *store.Suggestion {
	slot := slots[0]
	return &store.Suggestion{
		UID:         util.GenUUID(),
		UserID:      userID,
		Title:       "Buổi ôn tập kiến thức",
		Topic:       "Ôn tập tổng hợp",
		Text:        "Hãy dành thời gian ôn tập lại những kiến thức gần đây và chuẩn bị cho những bài học sắp tới.",
		StartTs:     slot.Start.Unix(),
		EndTs:       slot.End.Unix(),
		Type:        store.SuggestionTypeStudySession,
		Priority:    3,
		UniqueKey:   fmt.Sprintf("%d-on-tap-tong-hop-%d", userID, now.UnixMilli()),
		SuggestedTs: now.Unix(),
	}
}

// cannedCandidates returns count identical fallback candidates, using the
// detected major when available.
func cannedCandidates(profile *major.Profile, count int) []candidate {
	c := candidate{
		Title:    "Buổi học tập trung",
		Topic:    "Ôn tập kiến thức",
		Type:     string(store.SuggestionTypeStudySession),
		Text:     "Hãy dành thời gian ôn tập lại kiến thức gần đây để củng cố hiểu biết của bạn.",
		Priority: 3,
	}
	if profile.Detected && profile.Major != "" {
		c.Title = fmt.Sprintf("Buổi học %s", profile.Major)
		c.Topic = fmt.Sprintf("Ôn tập kiến thức %s", profile.Major)
		c.Text = fmt.Sprintf("Hãy dành thời gian ôn tập lại kiến thức gần đây về %s để củng cố hiểu biết của bạn.", profile.Major)
	}

	list := make([]candidate, count)
	for i := range list {
		list[i] = c
	}
	return list
}

// buildPrompt composes the single generation prompt from the current time,
// the aggregated context and the inferred profile.
func buildPrompt(now time.Time, genCtx *Context, profile *major.Profile, count int) string {
	eventContext := "Không có sự kiện sắp tới"
	if len(genCtx.UpcomingEvents) > 0 {
		lines := make([]string, 0, len(genCtx.UpcomingEvents))
		for _, event := range genCtx.UpcomingEvents {
			start := event.ParseStartTime().In(now.Location())
			lines = append(lines, fmt.Sprintf("- %s (%s, %s)",
				event.Title, vietnameseWeekdays[start.Weekday()], start.Format("15:04")))
		}
		eventContext = strings.Join(lines, "\n")
	}

	var careerPrompt string
	if career := strings.TrimSpace(genCtx.CareerContext); career != "" {
		career = util.TruncateString(career, maxCareerContextChars)
		careerPrompt = fmt.Sprintf(`
Thông tin về định hướng nghề nghiệp và lộ trình học tập của người dùng:
%s`, career)
	}

	var majorPrompt string
	if profile.Detected && profile.Major != "" {
		majorPrompt = fmt.Sprintf(`
THÔNG TIN QUAN TRỌNG VỀ NGƯỜI DÙNG:
- Chuyên ngành: %s
- Các môn học hiện tại: %s
- Từ khóa liên quan đến lĩnh vực học tập: %s

CÁC GỢI Ý PHẢI PHÙ HỢP VỚI CHUYÊN NGÀNH %s - KHÔNG GỢI Ý CÁC CHỦ ĐỀ NGOÀI CHUYÊN NGÀNH NÀY!`,
			profile.Major,
			strings.Join(profile.Subjects, ", "),
			strings.Join(profile.Keywords, ", "),
			strings.ToUpper(profile.Major))
	}

	var dismissedPrompt string
	if len(genCtx.DismissedTopics) > 0 {
		dismissedPrompt = fmt.Sprintf(`
QUAN TRỌNG: Người dùng đã bỏ qua các chủ đề sau, KHÔNG ĐƯỢC gợi ý các chủ đề này nữa:
%s`, strings.Join(genCtx.DismissedTopics, ", "))
	}

	return fmt.Sprintf(`Là trợ lý học tập AI, hãy tạo ra %d gợi ý học tập cụ thể và khác nhau dựa trên dữ liệu sau:
- Hôm nay là %s
- Thời gian hiện tại là %s
- Sự kiện sắp tới trong lịch:
%s
%s
%s
%s

Tạo %d gợi ý học tập khác nhau với các yếu tố sau:
1. Chủ đề học tập CỤ THỂ và PHÙ HỢP với chuyên ngành của người dùng
2. Mô tả ngắn gọn nhưng thuyết phục tại sao nên học chủ đề này vào thời điểm được gợi ý
3. Mức độ ưu tiên từ 1-5 (với 5 là cao nhất) dựa trên tầm quan trọng của chủ đề với định hướng nghề nghiệp

Trả lời với CHÍNH XÁC một mảng JSON gồm %d đối tượng có cấu trúc như sau:
[
  {
    "title": "tiêu đề buổi học",
    "topic": "chủ đề cụ thể",
    "type": "study-session",
    "text": "lời gợi ý thuyết phục",
    "priority": 3
  }
]`,
		count,
		vietnameseWeekdays[now.Weekday()],
		now.Format("15:04:05"),
		eventContext,
		careerPrompt,
		majorPrompt,
		dismissedPrompt,
		count,
		count)
}

func contains(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}

func warn(ctx context.Context, msg string, err error) {
	reqCtx, ok := observability.FromContext(ctx)
	if !ok {
		return
	}
	attrs := []slog.Attr{slog.Bool(observability.LogFieldFallback, true)}
	if err != nil {
		reqCtx.Error(msg, err, attrs...)
		return
	}
	reqCtx.Warn(msg, attrs...)
}
