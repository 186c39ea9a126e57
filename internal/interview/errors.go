package interview

import "errors"

var (
	// ErrNotFound は設定・要約・グループの読み取りで対象が存在しないことを表す。
	// 未知のトークンや未完了の面接では正常系として返る。
	ErrNotFound = errors.New("対象が見つかりません")

	// ErrSessionNotActive は開始前のセッションに対する操作を表す。
	ErrSessionNotActive = errors.New("セッションが開始されていません")
	// ErrSessionFinished は終了済みセッションへの回答送信を表す。
	ErrSessionFinished = errors.New("面接はすでに終了しています")
	// ErrEmptyAnswer は空の回答テキストを表す。
	ErrEmptyAnswer = errors.New("回答が空です")
	// ErrEmptyReply は LLM が空の応答を返したケース。状態は進めずに再試行可能。
	ErrEmptyReply = errors.New("面接官の応答が空でした")
	// ErrSessionAlreadyStarted は Active なセッションの二重開始を表す。
	ErrSessionAlreadyStarted = errors.New("セッションはすでに開始されています")

	// ErrTranscriptTooShort は要約に値しない短い会話記録を表す。
	ErrTranscriptTooShort = errors.New("会話記録が短すぎるため要約をスキップしました")
	// ErrSummaryInFlight は保存処理の二重起動を表す。
	ErrSummaryInFlight = errors.New("要約の保存処理がすでに進行中です")
	// ErrSummaryAlreadySaved は保存済みセッションに対する再保存要求を表す。
	ErrSummaryAlreadySaved = errors.New("このセッションの要約はすでに保存されています")
	// ErrSessionNotFinished は未完了セッションに対する要約要求を表す。
	ErrSessionNotFinished = errors.New("面接が終了していないため要約できません")
)
