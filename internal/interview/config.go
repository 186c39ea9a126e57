package interview

import (
	"errors"
	"strings"
	"time"
)

// InterviewConfig は1つの面接トークンに紐づく台本設定。
// 管理画面で保存された後はセッション中に変更されない読み取り専用の集約。
type InterviewConfig struct {
	Objective string   `json:"objective"`
	Tone      string   `json:"tone"`
	Questions []string `json:"questions"`
	AvatarID  string   `json:"avatarId"`
	VoiceID   string   `json:"voiceId"`
}

// InterviewMeta はリンク生成時に付与される付帯情報。
type InterviewMeta struct {
	InterviewID    string    `json:"interviewId"`
	GroupID        string    `json:"groupId"`
	RestaurantName string    `json:"restaurantName,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Validate は必須項目と質問リストの整合性を検証する。
// 空の質問が1つでも含まれる場合は設定全体を不正とみなす。
func (c InterviewConfig) Validate() error {
	if strings.TrimSpace(c.Objective) == "" {
		return errors.New("objective は必須です")
	}
	if strings.TrimSpace(c.Tone) == "" {
		return errors.New("tone は必須です")
	}
	if len(c.Questions) == 0 {
		return errors.New("questions には少なくとも1問必要です")
	}
	for _, q := range c.Questions {
		if strings.TrimSpace(q) == "" {
			return errors.New("questions に空の質問が含まれています")
		}
	}
	if strings.TrimSpace(c.AvatarID) == "" {
		return errors.New("avatarId は必須です")
	}
	if strings.TrimSpace(c.VoiceID) == "" {
		return errors.New("voiceId は必須です")
	}
	return nil
}
