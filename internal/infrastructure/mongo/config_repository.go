package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/amint/interview-hub/api/internal/interview"
	publicapp "github.com/amint/interview-hub/api/internal/public/application"
)

// ConfigRepository は interview_configs コレクションの Mongo 実装。
// Admin の書き込みポートと Public の読み取りポートの両方を満たす。
type ConfigRepository struct {
	collection *mongo.Collection
}

// NewConfigRepository は MongoDB コレクションを束縛した ConfigRepository を生成する。
func NewConfigRepository(db *mongo.Database, collection string) *ConfigRepository {
	return &ConfigRepository{collection: db.Collection(collection)}
}

// Upsert はトークンをキーに設定を上書き保存する。createdAt は初回挿入時のみ設定する。
func (r *ConfigRepository) Upsert(ctx context.Context, interviewID string, config interview.InterviewConfig, meta *interview.InterviewMeta) error {
	now := time.Now().UTC()
	set := bson.M{
		"config":    toConfigPayload(config),
		"updatedAt": now,
	}
	if meta != nil {
		set["meta"] = toMetaDocument(meta)
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"createdAt": now},
	}
	_, err := r.collection.UpdateByID(ctx, interviewID, update, options.Update().SetUpsert(true))
	return err
}

// FindByID はトークンで設定を1件取得する。未登録は interview.ErrNotFound。
func (r *ConfigRepository) FindByID(ctx context.Context, interviewID string) (*publicapp.StoredConfig, error) {
	var doc ConfigDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": interviewID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, interview.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &publicapp.StoredConfig{
		InterviewID: doc.InterviewID,
		Config:      fromConfigPayload(doc.Config),
		Meta:        fromMetaDocument(doc.Meta),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}
