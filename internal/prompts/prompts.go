package prompts

import (
	"fmt"
	"strings"

	"github.com/amint/interview-hub/api/internal/interview"
)

// Templates は LLM へ渡すシステムプロンプト一式。
// YAML ファイルで差し替え可能だが、未指定時は組み込みの既定値を使う。
type Templates struct {
	InterviewerSystem string `yaml:"interviewer_system"`
	Opening           string `yaml:"opening"`
	SummarySystem     string `yaml:"summary_system"`
	GroupSystem       string `yaml:"group_system"`
}

const defaultInterviewerSystem = `あなたはプロの AI 面接官です。

決められた順序の質問リストに沿って面接を進行します。

ルール:
- 1回の発話につき1つの介入だけを行うこと。
- 台本の質問順を必ず守ること。
- 次へ進む前に、相手の発言を短く要約または承認すること。
- 親しみやすく、好奇心を持った、プロフェッショナルな口調を保つこと。
- 長い応答はしないこと(最大3文)。
- 台本に質問が残っていない場合は感謝を伝えて面接を締めくくり、新しい話題を開かないこと。`

const defaultOpening = "こんにちは。お時間をいただきありがとうございます。それでは面接を始めます。"

const defaultSummarySystem = `あなたは定性調査の専門コンサルタントです。
これから1件の顧客インタビューの会話記録を渡します。
記録に含まれる内容だけを根拠に、以下の構成で日本語のレポートを作成してください。

1) 要約(3〜5行)
2) 重要な発見(箇条書き)
3) 不満・摩擦ポイント(箇条書き。言及があった場合のみ)
4) 印象的な発言の引用(2〜4件)

憶測や記録にない情報を加えないこと。`

const defaultGroupSystem = `あなたは CX・定性調査を専門とするシニアコンサルタントです。
同一の店舗(またはグループ)で実施された複数のインタビューの個別レポートを渡します。
それらを横断的に分析し、経営層向けの単一のグローバルレポートを日本語で作成してください。

原則:
- 個別レポートに存在しない情報を創作しないこと。
- 結論は必ず複数レポートに見られるパターン・反復・対比に基づくこと。
- 繰り返し現れる発見と、単発だが重要な発見を区別すること。

構成:
1) エグゼクティブサマリー(6〜8行)
2) 体験の主要パターン(箇条書き)
3) 優先すべき不満・摩擦ポイント(箇条書き)
4) 改善機会と提言(箇条書き)
5) 代表的な定性シグナル(引用)`

// Default は組み込みのテンプレート一式を返す。
func Default() Templates {
	return Templates{
		InterviewerSystem: defaultInterviewerSystem,
		Opening:           defaultOpening,
		SummarySystem:     defaultSummarySystem,
		GroupSystem:       defaultGroupSystem,
	}
}

// BuildOpening は冒頭の発話に最初の質問を連結する。
func (t Templates) BuildOpening(firstQuestion string) string {
	return strings.TrimSpace(t.Opening) + " " + strings.TrimSpace(firstQuestion)
}

// BuildTurnPrompt は台本の現在位置と会話記録から次ターン用のユーザープロンプトを組み立てる。
func (t Templates) BuildTurnPrompt(in interview.TurnPromptInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "面接の目的: %s\n", in.Objective)
	fmt.Fprintf(&b, "望ましいトーン: %s\n\n", in.Tone)
	fmt.Fprintf(&b, "台本上の現在の質問:\n%q\n\n", in.CurrentQuestion)
	if in.HasNext {
		fmt.Fprintf(&b, "台本上の次の質問: %q\n\n", in.NextQuestion)
	} else {
		b.WriteString("台本に残っている質問はありません。\n\n")
	}
	fmt.Fprintf(&b, "これまでの会話 (面接官 = AI, 応募者 = 人間):\n%s\n\n", in.Conversation)
	b.WriteString(`次の応答への指示:
- 応募者が直前に話した内容を短く要約または承認すること。
- 現在の質問をまだ聞いていなければ、いま質問すること。
- 十分に回答済みであれば、台本の「次の質問」へ自然につなげること(存在する場合)。
- 質問が残っていない場合は、感謝を伝えて2〜3文で面接を締めくくり、新しい話題を開かないこと。
- 全体で3文以内。
- 親しみやすく、人間らしいプロフェッショナルな口調を保つこと。`)
	return b.String()
}

// BuildSummaryPrompt は個別レポート生成用のユーザープロンプトを返す。
func (t Templates) BuildSummaryPrompt(conversation string) string {
	return "会話記録:\n" + conversation
}

// SummaryPrompts は interview.SummaryPrompter を満たす。
func (t Templates) SummaryPrompts(conversation string) (string, string) {
	return t.SummarySystem, t.BuildSummaryPrompt(conversation)
}

// SummaryBlock はグループレポートの材料となる個別レポート1件。
type SummaryBlock struct {
	InterviewID string
	Summary     string
}

// GroupPromptInput はグループレポート生成用プロンプトの材料。
type GroupPromptInput struct {
	GroupID        string
	RestaurantName string
	TotalIDs       int
	Blocks         []SummaryBlock
}

// BuildGroupPrompt は個別レポート群を連結したグループレポート用プロンプトを組み立てる。
func (t Templates) BuildGroupPrompt(in GroupPromptInput) string {
	label := "グループ: " + in.GroupID
	if strings.TrimSpace(in.RestaurantName) != "" {
		label = "店舗: " + in.RestaurantName
	}

	var b strings.Builder
	b.WriteString(label + "\n")
	fmt.Fprintf(&b, "グループID: %s\n", in.GroupID)
	fmt.Fprintf(&b, "グループ内の面接数: %d\n", in.TotalIDs)
	fmt.Fprintf(&b, "レポートが存在する面接数: %d\n\n", len(in.Blocks))
	b.WriteString("個別レポート:\n")
	for i, block := range in.Blocks {
		fmt.Fprintf(&b, "--- 面接 %d (%s) ---\n%s\n\n", i+1, block.InterviewID, block.Summary)
	}
	return strings.TrimSpace(b.String())
}
