package mongo

import (
	"time"

	"github.com/amint/interview-hub/api/internal/interview"
)

// ConfigPayloadDocument は設定本体の Mongo 埋め込み表現。
type ConfigPayloadDocument struct {
	Objective string   `bson:"objective"`
	Tone      string   `bson:"tone"`
	Questions []string `bson:"questions"`
	AvatarID  string   `bson:"avatarId"`
	VoiceID   string   `bson:"voiceId"`
}

// MetaDocument はリンク生成時の付帯情報の Mongo 表現。
type MetaDocument struct {
	InterviewID    string    `bson:"interviewId"`
	GroupID        string    `bson:"groupId"`
	RestaurantName string    `bson:"restaurantName,omitempty"`
	CreatedAt      time.Time `bson:"createdAt"`
}

// ConfigDocument は interview_configs コレクションのスキーマ。
// 面接トークンをそのまま主キーに使う。
type ConfigDocument struct {
	InterviewID string                `bson:"_id"`
	Config      ConfigPayloadDocument `bson:"config"`
	Meta        *MetaDocument         `bson:"meta,omitempty"`
	CreatedAt   time.Time             `bson:"createdAt"`
	UpdatedAt   time.Time             `bson:"updatedAt"`
}

// SummaryDocument は summaries コレクションのスキーマ。トークンごとに1件。
type SummaryDocument struct {
	InterviewID     string    `bson:"_id"`
	Summary         string    `bson:"summary"`
	RawConversation string    `bson:"rawConversation,omitempty"`
	CreatedAt       time.Time `bson:"createdAt"`
}

// GroupDocument は groups コレクションのスキーマ。
type GroupDocument struct {
	GroupID        string    `bson:"_id"`
	RestaurantName string    `bson:"restaurantName,omitempty"`
	InterviewIDs   []string  `bson:"interviewIds"`
	CreatedAt      time.Time `bson:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt"`
}

// GroupSummaryDocument は group_summaries コレクションのスキーマ。
type GroupSummaryDocument struct {
	GroupID   string    `bson:"_id"`
	Summary   string    `bson:"summary"`
	CreatedAt time.Time `bson:"createdAt"`
}

func toConfigPayload(cfg interview.InterviewConfig) ConfigPayloadDocument {
	return ConfigPayloadDocument{
		Objective: cfg.Objective,
		Tone:      cfg.Tone,
		Questions: append([]string{}, cfg.Questions...),
		AvatarID:  cfg.AvatarID,
		VoiceID:   cfg.VoiceID,
	}
}

func fromConfigPayload(doc ConfigPayloadDocument) interview.InterviewConfig {
	return interview.InterviewConfig{
		Objective: doc.Objective,
		Tone:      doc.Tone,
		Questions: append([]string{}, doc.Questions...),
		AvatarID:  doc.AvatarID,
		VoiceID:   doc.VoiceID,
	}
}

func toMetaDocument(meta *interview.InterviewMeta) *MetaDocument {
	if meta == nil {
		return nil
	}
	return &MetaDocument{
		InterviewID:    meta.InterviewID,
		GroupID:        meta.GroupID,
		RestaurantName: meta.RestaurantName,
		CreatedAt:      meta.CreatedAt,
	}
}

func fromMetaDocument(doc *MetaDocument) *interview.InterviewMeta {
	if doc == nil {
		return nil
	}
	return &interview.InterviewMeta{
		InterviewID:    doc.InterviewID,
		GroupID:        doc.GroupID,
		RestaurantName: doc.RestaurantName,
		CreatedAt:      doc.CreatedAt,
	}
}

func fromGroupDocument(doc GroupDocument) interview.Group {
	return interview.Group{
		GroupID:        doc.GroupID,
		RestaurantName: doc.RestaurantName,
		InterviewIDs:   append([]string{}, doc.InterviewIDs...),
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
}
