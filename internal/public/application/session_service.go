package application

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/amint/interview-hub/api/internal/interview"
	"github.com/amint/interview-hub/api/internal/prompts"
	"github.com/amint/interview-hub/api/internal/session"
)

// StartSessionResult はセッション開始の応答。
type StartSessionResult struct {
	SessionID     string
	Opening       string
	QuestionCount int
	AvatarID      string
	VoiceID       string
}

// AnswerResult は1ターンの応答。
type AnswerResult struct {
	Reply         string
	Finished      bool
	QuestionIndex int
	SummaryState  interview.SummaryState
	SummaryError  string
}

// SessionService は面接セッションのターン進行を司るユースケース。
// 状態遷移そのものは interview.Session に委ね、ここでは
// 設定の読み込み・LLM 呼び出し・セッションストアへの反映を編成する。
type SessionService interface {
	Start(ctx context.Context, token string) (*StartSessionResult, error)
	Answer(ctx context.Context, sessionID, answer string) (*AnswerResult, error)
	Summarize(ctx context.Context, sessionID string) (*AnswerResult, error)
}

// SessionServiceConfig は SessionService の依存。
type SessionServiceConfig struct {
	Configs    ConfigRepository
	Sessions   session.Store
	Generator  interview.Generator
	Templates  prompts.Templates
	Summarizer *interview.Summarizer
	Logger     *log.Logger
}

// NewSessionService は SessionService を生成する。
func NewSessionService(cfg SessionServiceConfig) SessionService {
	return &sessionService{
		configs:    cfg.Configs,
		sessions:   cfg.Sessions,
		generator:  cfg.Generator,
		templates:  cfg.Templates,
		summarizer: cfg.Summarizer,
		logger:     cfg.Logger,
		locks:      make(map[string]*sync.Mutex),
	}
}

type sessionService struct {
	configs    ConfigRepository
	sessions   session.Store
	generator  interview.Generator
	templates  prompts.Templates
	summarizer *interview.Summarizer
	logger     *log.Logger

	// 同一セッションへのターンを直列化する。別セッション間に順序関係はない。
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (s *sessionService) Start(ctx context.Context, token string) (*StartSessionResult, error) {
	stored, err := s.configs.FindByID(ctx, token)
	if err != nil {
		return nil, err
	}

	sess, err := interview.NewSession(uuid.NewString(), stored.InterviewID, stored.Config)
	if err != nil {
		return nil, err
	}

	opening := s.templates.BuildOpening(stored.Config.Questions[0])
	if err := sess.Start(opening); err != nil {
		return nil, err
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("セッションの保存に失敗: %w", err)
	}

	return &StartSessionResult{
		SessionID:     sess.ID,
		Opening:       opening,
		QuestionCount: len(stored.Config.Questions),
		AvatarID:      stored.Config.AvatarID,
		VoiceID:       stored.Config.VoiceID,
	}, nil
}

func (s *sessionService) Answer(ctx context.Context, sessionID, answer string) (*AnswerResult, error) {
	lock := s.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	promptInput, err := sess.BeginTurn(answer)
	if err != nil {
		return nil, err
	}

	reply, err := s.generator.Generate(ctx, s.templates.InterviewerSystem, s.templates.BuildTurnPrompt(promptInput))
	if err != nil {
		return nil, fmt.Errorf("面接官応答の生成に失敗: %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		return nil, interview.ErrEmptyReply
	}

	if err := sess.CommitTurn(answer, reply); err != nil {
		return nil, err
	}

	if sess.Finished() {
		if _, err := s.summarizer.Run(ctx, sess); err != nil && s.logger != nil {
			s.logger.Printf("セッション %s の要約に失敗: %v", sess.ID, err)
		}
		if sess.SummaryState == interview.SummarySaved {
			s.release(sessionID)
		}
	}

	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("セッションの更新に失敗: %w", err)
	}

	return &AnswerResult{
		Reply:         strings.TrimSpace(reply),
		Finished:      sess.Finished(),
		QuestionIndex: sess.QuestionIndex,
		SummaryState:  sess.SummaryState,
		SummaryError:  sess.SummaryError,
	}, nil
}

// Summarize は要約が未保存のまま終了したセッションに対する手動の再試行。
// 保存済みの場合は状態をそのまま返すだけで二重保存にはならない。
func (s *sessionService) Summarize(ctx context.Context, sessionID string) (*AnswerResult, error) {
	lock := s.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.SummaryState != interview.SummarySaved {
		if _, err := s.summarizer.Run(ctx, sess); err != nil && s.logger != nil {
			s.logger.Printf("セッション %s の要約再試行に失敗: %v", sess.ID, err)
		}
		if err := s.sessions.Update(ctx, sess); err != nil {
			return nil, fmt.Errorf("セッションの更新に失敗: %w", err)
		}
	}

	if sess.SummaryState == interview.SummarySaved {
		s.release(sessionID)
	}

	return &AnswerResult{
		Finished:      sess.Finished(),
		QuestionIndex: sess.QuestionIndex,
		SummaryState:  sess.SummaryState,
		SummaryError:  sess.SummaryError,
	}, nil
}

func (s *sessionService) lockFor(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}

// release は終了したセッションのロックを破棄する。セッション自体は TTL に任せる。
func (s *sessionService) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, sessionID)
}
