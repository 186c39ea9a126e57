package interview

import "strings"

// Speaker は発話者の区分。
type Speaker string

const (
	SpeakerInterviewer Speaker = "interviewer"
	SpeakerCandidate   Speaker = "candidate"
)

// Turn は1回分の発話。
type Turn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// Transcript は発話の時系列リスト。面接終了後は凍結される。
type Transcript []Turn

func (t Transcript) append(speaker Speaker, text string) Transcript {
	return append(t, Turn{Speaker: speaker, Text: text})
}

// Render は LLM への入力や永続化に使うフラットなテキスト表現を返す。
func (t Transcript) Render() string {
	lines := make([]string, 0, len(t))
	for _, turn := range t {
		label := "面接官"
		if turn.Speaker == SpeakerCandidate {
			label = "応募者"
		}
		lines = append(lines, label+": "+turn.Text)
	}
	return strings.Join(lines, "\n")
}

// RuneCount は要約対象として十分な長さかを判定するための文字数を返す。
func (t Transcript) RuneCount() int {
	count := 0
	for _, turn := range t {
		count += len([]rune(turn.Text))
	}
	return count
}
