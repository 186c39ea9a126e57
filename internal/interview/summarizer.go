package interview

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// Generator は LLM テキスト生成のポート。
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// SummaryWriter は生成済みレポートの upsert 保存のポート。
type SummaryWriter interface {
	Upsert(ctx context.Context, summary Summary) error
}

// SummaryPrompter は会話記録からレポート生成用プロンプトを組み立てるポート。
type SummaryPrompter interface {
	SummaryPrompts(conversation string) (systemPrompt, userPrompt string)
}

// Summarizer は Finished に達したセッションにつき、レポートを一度だけ生成して保存する。
// 進行状態はセッション側の SummaryState で管理し、Saved への遷移は保存成功の確認後のみ。
type Summarizer struct {
	generator  Generator
	writer     SummaryWriter
	prompter   SummaryPrompter
	minRunes   int
	retryDelay time.Duration
	logger     *log.Logger
}

// SummarizerConfig は Summarizer の依存と閾値。
type SummarizerConfig struct {
	Generator  Generator
	Writer     SummaryWriter
	Prompter   SummaryPrompter
	MinRunes   int
	RetryDelay time.Duration
	Logger     *log.Logger
}

// NewSummarizer は閾値に既定値を補って Summarizer を生成する。
func NewSummarizer(cfg SummarizerConfig) *Summarizer {
	minRunes := cfg.MinRunes
	if minRunes <= 0 {
		minRunes = 80
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 800 * time.Millisecond
	}
	return &Summarizer{
		generator:  cfg.Generator,
		writer:     cfg.Writer,
		prompter:   cfg.Prompter,
		minRunes:   minRunes,
		retryDelay: retryDelay,
		logger:     cfg.Logger,
	}
}

// Run は要約の生成と保存を実行する。
// 保存の失敗時は短い待機の後に書き込みのみを1回だけ再試行する。
// 生成テキストの再生成はしない(LLM への二重課金を避ける)。
func (s *Summarizer) Run(ctx context.Context, sess *Session) (Summary, error) {
	if !sess.Finished() {
		return Summary{}, ErrSessionNotFinished
	}
	switch sess.SummaryState {
	case SummaryInFlight:
		return Summary{}, ErrSummaryInFlight
	case SummarySaved:
		return Summary{}, ErrSummaryAlreadySaved
	}

	conversation := sess.Transcript.Render()
	if sess.Transcript.RuneCount() < s.minRunes {
		sess.SummaryState = SummaryFailed
		sess.SummaryError = ErrTranscriptTooShort.Error()
		return Summary{}, ErrTranscriptTooShort
	}

	sess.SummaryState = SummaryInFlight
	sess.SummaryError = ""

	systemPrompt, userPrompt := s.prompter.SummaryPrompts(conversation)
	text, err := s.generator.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return Summary{}, s.fail(sess, fmt.Errorf("レポートの生成に失敗: %w", err))
	}
	if strings.TrimSpace(text) == "" {
		return Summary{}, s.fail(sess, fmt.Errorf("レポートの生成に失敗: %w", ErrEmptyReply))
	}

	summary := Summary{
		InterviewID:     sess.Token,
		Summary:         strings.TrimSpace(text),
		RawConversation: conversation,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.writer.Upsert(ctx, summary); err != nil {
		if s.logger != nil {
			s.logger.Printf("要約の保存に失敗。再試行します: %v", err)
		}
		time.Sleep(s.retryDelay)
		if err := s.writer.Upsert(ctx, summary); err != nil {
			return Summary{}, s.fail(sess, fmt.Errorf("要約の保存に失敗: %w", err))
		}
	}

	sess.SummaryState = SummarySaved
	return summary, nil
}

func (s *Summarizer) fail(sess *Session, err error) error {
	sess.SummaryState = SummaryFailed
	sess.SummaryError = err.Error()
	return err
}
