package interview

import "time"

// Summary は1件の面接に対する定性レポート。トークンごとに最大1件で上書き保存される。
type Summary struct {
	InterviewID     string    `json:"interviewId"`
	Summary         string    `json:"summary"`
	RawConversation string    `json:"rawConversation,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Group は店舗単位で面接トークンを束ねる集約。
// InterviewIDs は書き込みのたびに和集合でマージされ、縮むことはない。
type Group struct {
	GroupID        string    `json:"groupId"`
	RestaurantName string    `json:"restaurantName,omitempty"`
	InterviewIDs   []string  `json:"interviewIds"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// GroupSummary はグループ横断レポートのキャッシュ。明示的な refresh か
// 構成要素の Summary 削除で無効化される。
type GroupSummary struct {
	GroupID   string    `json:"groupId"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
}

// MergeInterviewIDs は既存のトークン列へ新規分を順序を保ったまま和集合で足し込む。
// 保存処理から切り離した純関数にしておくことで単体で検証できる。
func MergeInterviewIDs(existing, incoming []string) []string {
	merged := make([]string, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, id := range existing {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	for _, id := range incoming {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	return merged
}
