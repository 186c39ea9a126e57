package interview

import (
	"errors"
	"testing"
)

func testConfig(questions ...string) InterviewConfig {
	if len(questions) == 0 {
		questions = []string{"最初の質問", "2番目の質問"}
	}
	return InterviewConfig{
		Objective: "勤務体験の把握",
		Tone:      "親しみやすい",
		Questions: questions,
		AvatarID:  "avatar-1",
		VoiceID:   "voice-1",
	}
}

func TestNewSession_ValidatesConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Objective = ""

	if _, err := NewSession("s1", "token-1", cfg); err == nil {
		t.Fatal("不正な設定でセッションが生成された")
	}
}

func TestNewSession_StartsIdle(t *testing.T) {
	sess, err := NewSession("s1", "token-1", testConfig())
	if err != nil {
		t.Fatalf("セッション生成に失敗: %v", err)
	}
	if sess.State != StateIdle {
		t.Fatalf("初期状態が %s (想定: %s)", sess.State, StateIdle)
	}
	if sess.SummaryState != SummaryNotStarted {
		t.Fatalf("要約状態が %s (想定: %s)", sess.SummaryState, SummaryNotStarted)
	}
}

func TestSession_StartTransitions(t *testing.T) {
	sess, _ := NewSession("s1", "token-1", testConfig())

	if err := sess.Start("こんにちは。最初の質問"); err != nil {
		t.Fatalf("開始に失敗: %v", err)
	}
	if sess.State != StateActive {
		t.Fatalf("状態が %s (想定: %s)", sess.State, StateActive)
	}
	if sess.QuestionIndex != 0 {
		t.Fatalf("質問位置が %d (想定: 0)", sess.QuestionIndex)
	}
	if len(sess.Transcript) != 1 || sess.Transcript[0].Speaker != SpeakerInterviewer {
		t.Fatalf("冒頭の発話が会話記録に積まれていない: %+v", sess.Transcript)
	}

	if err := sess.Start("再度開始"); !errors.Is(err, ErrSessionAlreadyStarted) {
		t.Fatalf("二重開始が %v (想定: %v)", err, ErrSessionAlreadyStarted)
	}
}

func TestSession_TurnBeforeStart(t *testing.T) {
	sess, _ := NewSession("s1", "token-1", testConfig())

	if _, err := sess.BeginTurn("回答"); !errors.Is(err, ErrSessionNotActive) {
		t.Fatalf("開始前の回答が %v (想定: %v)", err, ErrSessionNotActive)
	}
	if err := sess.CommitTurn("回答", "応答"); !errors.Is(err, ErrSessionNotActive) {
		t.Fatalf("開始前の確定が %v (想定: %v)", err, ErrSessionNotActive)
	}
}

func TestSession_EmptyAnswerRejected(t *testing.T) {
	sess, _ := NewSession("s1", "token-1", testConfig())
	if err := sess.Start("冒頭"); err != nil {
		t.Fatalf("開始に失敗: %v", err)
	}

	if _, err := sess.BeginTurn("   "); !errors.Is(err, ErrEmptyAnswer) {
		t.Fatalf("空回答が %v (想定: %v)", err, ErrEmptyAnswer)
	}
	if sess.QuestionIndex != 0 || len(sess.Transcript) != 1 {
		t.Fatal("空回答でセッションが変化した")
	}
}

func TestSession_BeginTurnDoesNotMutate(t *testing.T) {
	sess, _ := NewSession("s1", "token-1", testConfig())
	if err := sess.Start("冒頭"); err != nil {
		t.Fatalf("開始に失敗: %v", err)
	}

	input, err := sess.BeginTurn("1問目の回答")
	if err != nil {
		t.Fatalf("ターン開始に失敗: %v", err)
	}
	if input.CurrentQuestion != "最初の質問" {
		t.Fatalf("現在の質問が %q", input.CurrentQuestion)
	}
	if !input.HasNext || input.NextQuestion != "2番目の質問" {
		t.Fatalf("次の質問が %q (hasNext=%v)", input.NextQuestion, input.HasNext)
	}

	// プロンプト材料には今回の回答を含むが、セッション自体は変化しない。
	if len(sess.Transcript) != 1 {
		t.Fatalf("BeginTurn が会話記録を変更した: %d 件", len(sess.Transcript))
	}
	if sess.QuestionIndex != 0 || sess.State != StateActive {
		t.Fatal("BeginTurn が状態を変更した")
	}
}

func TestSession_CommitTurnAdvancesAndFinishes(t *testing.T) {
	sess, _ := NewSession("s1", "token-1", testConfig())
	if err := sess.Start("冒頭"); err != nil {
		t.Fatalf("開始に失敗: %v", err)
	}

	if err := sess.CommitTurn("1問目の回答", "なるほど。次の質問です"); err != nil {
		t.Fatalf("1ターン目の確定に失敗: %v", err)
	}
	if sess.QuestionIndex != 1 {
		t.Fatalf("質問位置が %d (想定: 1)", sess.QuestionIndex)
	}
	if sess.State != StateActive {
		t.Fatalf("状態が %s (想定: %s)", sess.State, StateActive)
	}

	if err := sess.CommitTurn("2問目の回答", "ありがとうございました"); err != nil {
		t.Fatalf("最終ターンの確定に失敗: %v", err)
	}
	if sess.State != StateFinished {
		t.Fatalf("状態が %s (想定: %s)", sess.State, StateFinished)
	}
	if !sess.Finished() {
		t.Fatal("Finished() が false")
	}
	// 冒頭1 + (回答+応答)×2 = 5発話。
	if len(sess.Transcript) != 5 {
		t.Fatalf("会話記録が %d 件 (想定: 5)", len(sess.Transcript))
	}
}

func TestSession_AnswerAfterFinish(t *testing.T) {
	sess, _ := NewSession("s1", "token-1", testConfig("唯一の質問"))
	if err := sess.Start("冒頭"); err != nil {
		t.Fatalf("開始に失敗: %v", err)
	}
	if err := sess.CommitTurn("回答", "締めの挨拶"); err != nil {
		t.Fatalf("確定に失敗: %v", err)
	}

	if _, err := sess.BeginTurn("追加の回答"); !errors.Is(err, ErrSessionFinished) {
		t.Fatalf("終了後の回答が %v (想定: %v)", err, ErrSessionFinished)
	}
	if len(sess.Transcript) != 3 {
		t.Fatal("終了後の回答で会話記録が変化した")
	}
}

func TestSession_CommitTurnRejectsEmptyReply(t *testing.T) {
	sess, _ := NewSession("s1", "token-1", testConfig())
	if err := sess.Start("冒頭"); err != nil {
		t.Fatalf("開始に失敗: %v", err)
	}

	if err := sess.CommitTurn("回答", "  "); !errors.Is(err, ErrEmptyReply) {
		t.Fatalf("空応答が %v (想定: %v)", err, ErrEmptyReply)
	}
	if sess.QuestionIndex != 0 || len(sess.Transcript) != 1 {
		t.Fatal("空応答でセッションが変化した")
	}
}

func TestTranscript_Render(t *testing.T) {
	var tr Transcript
	tr = tr.append(SpeakerInterviewer, "こんにちは")
	tr = tr.append(SpeakerCandidate, "よろしくお願いします")

	want := "面接官: こんにちは\n応募者: よろしくお願いします"
	if got := tr.Render(); got != want {
		t.Fatalf("Render() = %q (想定: %q)", got, want)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*InterviewConfig)
		wantErr bool
	}{
		{name: "正常", mutate: func(*InterviewConfig) {}, wantErr: false},
		{name: "objective欠落", mutate: func(c *InterviewConfig) { c.Objective = " " }, wantErr: true},
		{name: "tone欠落", mutate: func(c *InterviewConfig) { c.Tone = "" }, wantErr: true},
		{name: "質問なし", mutate: func(c *InterviewConfig) { c.Questions = nil }, wantErr: true},
		{name: "空の質問", mutate: func(c *InterviewConfig) { c.Questions = []string{"Q1", "  "} }, wantErr: true},
		{name: "avatarId欠落", mutate: func(c *InterviewConfig) { c.AvatarID = "" }, wantErr: true},
		{name: "voiceId欠落", mutate: func(c *InterviewConfig) { c.VoiceID = "" }, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("エラーが返らなかった")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("想定外のエラー: %v", err)
			}
		})
	}
}
