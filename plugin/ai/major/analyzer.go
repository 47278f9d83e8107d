// Package major infers a user's field of study from their chat history.
package major

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/studysense/studysense/internal/observability"
	"github.com/studysense/studysense/internal/util"
	"github.com/studysense/studysense/plugin/ai"
	"github.com/studysense/studysense/store"
)

const (
	// maxSessions caps how many recent chat sessions feed the analysis.
	maxSessions = 10
	// maxInputChars caps the concatenated chat content sent to the model.
	maxInputChars = 3000
)

// Profile is the inferred study profile of a user. It is recomputed on
// every generation round and never cached or persisted.
type Profile struct {
	Detected bool     `json:"detected"`
	Major    string   `json:"major"`
	Subjects []string `json:"subjects"`
	Keywords []string `json:"keywords"`
}

// Undetected returns the sentinel profile used when no major can be inferred.
func Undetected() *Profile {
	return &Profile{
		Detected: false,
		Subjects: []string{},
		Keywords: []string{},
	}
}

// ChatSessionReader is the read-only chat history surface the analyzer needs.
type ChatSessionReader interface {
	ListChatSessions(ctx context.Context, find *store.FindChatSession) ([]*store.ChatSession, error)
}

// Analyzer infers a user's major from recent chat content via one model call.
type Analyzer struct {
	llm      ai.LLMService
	sessions ChatSessionReader
}

// NewAnalyzer creates a new major analyzer.
func NewAnalyzer(llm ai.LLMService, sessions ChatSessionReader) *Analyzer {
	return &Analyzer{
		llm:      llm,
		sessions: sessions,
	}
}

// Analyze returns the user's inferred profile. Any failure along the way
// (storage, model call, malformed output) degrades silently to the
// undetected sentinel; this method never returns an error.
func (a *Analyzer) Analyze(ctx context.Context, userID int32) *Profile {
	limit := maxSessions
	sessions, err := a.sessions.ListChatSessions(ctx, &store.FindChatSession{
		UserID: &userID,
		Limit:  &limit,
	})
	if err != nil {
		warn(ctx, "major analysis skipped: chat history unavailable", err)
		return Undetected()
	}

	content := collectUserContent(sessions)
	if content == "" {
		return Undetected()
	}

	prompt := fmt.Sprintf(`Phân tích nội dung chat sau đây và xác định:
1. Chuyên ngành/ngành học chính của người dùng
2. Các môn học/khóa học cụ thể mà họ đang học
3. Các từ khóa liên quan đến lĩnh vực học tập của họ

Nội dung chat:
%s

Trả lời CHÍNH XÁC theo định dạng JSON như sau:
{
    "detected": true/false,
    "major": "tên chuyên ngành",
    "subjects": ["môn học 1", "môn học 2"],
    "keywords": ["từ khóa 1", "từ khóa 2"]
}`, content)

	response, err := a.llm.Chat(ctx, []ai.Message{ai.UserMessage(prompt)})
	if err != nil {
		warn(ctx, "major analysis degraded: model call failed", err)
		return Undetected()
	}

	profile := Undetected()
	if ai.UnmarshalFirstObject(response, profile) != ai.Parsed {
		warn(ctx, "major analysis degraded: malformed model output", nil)
		return Undetected()
	}
	if profile.Subjects == nil {
		profile.Subjects = []string{}
	}
	if profile.Keywords == nil {
		profile.Keywords = []string{}
	}
	return profile
}

// collectUserContent concatenates user-authored message bodies across
// sessions, truncating the tail at maxInputChars.
func collectUserContent(sessions []*store.ChatSession) string {
	var sb strings.Builder
	for _, session := range sessions {
		for _, msg := range session.Messages {
			if msg.Role != store.ChatMessageRoleUser {
				continue
			}
			sb.WriteString(msg.Content)
			sb.WriteString(" ")
			if sb.Len() >= maxInputChars {
				break
			}
		}
		if sb.Len() >= maxInputChars {
			break
		}
	}
	return util.TruncateString(strings.TrimSpace(sb.String()), maxInputChars)
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
