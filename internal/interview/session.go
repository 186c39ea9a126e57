package interview

import (
	"strings"
	"time"
)

// State はセッションの状態機械の状態。Idle → Active → Finished の一方向にのみ遷移する。
type State string

const (
	StateIdle     State = "idle"
	StateActive   State = "active"
	StateFinished State = "finished"
)

// SummaryState は要約保存の進行状態。遷移は Summarizer だけが行う。
type SummaryState string

const (
	SummaryNotStarted SummaryState = "not_started"
	SummaryInFlight   SummaryState = "in_flight"
	SummarySaved      SummaryState = "saved"
	SummaryFailed     SummaryState = "failed"
)

// Session は1人の応募者が台本を一巡するあいだの一時状態。
// 永続化されるのは終了時に Summarizer へ渡される会話記録のみで、
// セッション自体は TTL 切れやタブ閉じで破棄される。
type Session struct {
	ID            string          `json:"id"`
	Token         string          `json:"token"`
	Config        InterviewConfig `json:"config"`
	State         State           `json:"state"`
	QuestionIndex int             `json:"questionIndex"`
	Transcript    Transcript      `json:"transcript"`
	SummaryState  SummaryState    `json:"summaryState"`
	SummaryError  string          `json:"summaryError,omitempty"`
	StartedAt     time.Time       `json:"startedAt"`
}

// TurnPromptInput は1ターン分の LLM プロンプトを組み立てるための材料。
// Conversation には応募者の今回の回答を含む「遷移後」の会話記録が入る。
type TurnPromptInput struct {
	Objective       string
	Tone            string
	CurrentQuestion string
	NextQuestion    string
	HasNext         bool
	Conversation    string
}

// NewSession は検証済み設定からセッションを Idle 状態で生成する。
func NewSession(id, token string, cfg InterviewConfig) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		ID:           id,
		Token:        token,
		Config:       cfg,
		State:        StateIdle,
		SummaryState: SummaryNotStarted,
		StartedAt:    time.Now().UTC(),
	}, nil
}

// Start は Idle → Active の遷移。最初の質問を含む冒頭の発話を会話記録へ積む。
func (s *Session) Start(opening string) error {
	if s.State != StateIdle {
		return ErrSessionAlreadyStarted
	}
	opening = strings.TrimSpace(opening)
	if opening == "" {
		return ErrEmptyReply
	}
	s.State = StateActive
	s.QuestionIndex = 0
	s.Transcript = s.Transcript.append(SpeakerInterviewer, opening)
	return nil
}

// BeginTurn は回答を検証し、次の面接官発話を得るためのプロンプト材料を返す。
// セッション自体は変更しない。LLM 呼び出しが失敗しても状態は進まない。
func (s *Session) BeginTurn(answer string) (TurnPromptInput, error) {
	if err := s.checkTurnPreconditions(answer); err != nil {
		return TurnPromptInput{}, err
	}

	current := s.Config.Questions[s.QuestionIndex]
	next := ""
	hasNext := s.QuestionIndex+1 < len(s.Config.Questions)
	if hasNext {
		next = s.Config.Questions[s.QuestionIndex+1]
	}

	prospective := s.Transcript.append(SpeakerCandidate, strings.TrimSpace(answer))
	return TurnPromptInput{
		Objective:       s.Config.Objective,
		Tone:            s.Config.Tone,
		CurrentQuestion: current,
		NextQuestion:    next,
		HasNext:         hasNext,
		Conversation:    prospective.Render(),
	}, nil
}

// CommitTurn は LLM 応答の取得に成功したターンを確定させる。
// 回答と面接官発話を会話記録へ積み、次の質問があれば進め、なければ Finished へ遷移する。
func (s *Session) CommitTurn(answer, reply string) error {
	if err := s.checkTurnPreconditions(answer); err != nil {
		return err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return ErrEmptyReply
	}

	s.Transcript = s.Transcript.append(SpeakerCandidate, strings.TrimSpace(answer))
	s.Transcript = s.Transcript.append(SpeakerInterviewer, reply)

	if s.QuestionIndex+1 < len(s.Config.Questions) {
		s.QuestionIndex++
	} else {
		s.State = StateFinished
	}
	return nil
}

// Finished は終端状態に達したかを返す。
func (s *Session) Finished() bool {
	return s.State == StateFinished
}

func (s *Session) checkTurnPreconditions(answer string) error {
	switch s.State {
	case StateIdle:
		return ErrSessionNotActive
	case StateFinished:
		return ErrSessionFinished
	}
	if strings.TrimSpace(answer) == "" {
		return ErrEmptyAnswer
	}
	return nil
}
