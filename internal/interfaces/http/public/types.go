package public

import (
	"time"

	"github.com/amint/interview-hub/api/internal/interview"
)

type configResponse struct {
	InterviewID string                    `json:"interviewId"`
	Config      interview.InterviewConfig `json:"config"`
	Meta        *interview.InterviewMeta  `json:"meta,omitempty"`
	UpdatedAt   time.Time                 `json:"updatedAt"`
}

type saveSummaryRequest struct {
	InterviewID     string `json:"interviewId"`
	Summary         string `json:"summary"`
	RawConversation string `json:"rawConversation,omitempty"`
}

type summaryResponse struct {
	InterviewID string    `json:"interviewId"`
	Summary     string    `json:"summary"`
	CreatedAt   time.Time `json:"createdAt"`
}

type groupSummaryResponse struct {
	GroupID   string    `json:"groupId"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
}

type sessionStartRequest struct {
	Token string `json:"token"`
}

type sessionStartResponse struct {
	SessionID     string `json:"sessionId"`
	Opening       string `json:"opening"`
	QuestionCount int    `json:"questionCount"`
	AvatarID      string `json:"avatarId,omitempty"`
	VoiceID       string `json:"voiceId,omitempty"`
}

type sessionAnswerRequest struct {
	Answer string `json:"answer"`
}

type sessionAnswerResponse struct {
	Reply         string `json:"reply,omitempty"`
	Finished      bool   `json:"finished"`
	QuestionIndex int    `json:"questionIndex"`
	SummaryState  string `json:"summaryState"`
	SummaryError  string `json:"summaryError,omitempty"`
}

type chatProxyRequest struct {
	Messages []chatProxyMessage `json:"messages"`
}

type chatProxyMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatProxyResponse struct {
	Text string `json:"text"`
}

type transcriptionProxyResponse struct {
	Text string `json:"text"`
}
