package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/amint/interview-hub/api/internal/interview"
)

// 一覧系エンドポイントが1回で返す行数の上限。
const defaultListLimit = 500

// SummaryRepository は summaries コレクションの Mongo 実装。
type SummaryRepository struct {
	collection *mongo.Collection
}

// NewSummaryRepository は MongoDB コレクションを束縛した SummaryRepository を生成する。
func NewSummaryRepository(db *mongo.Database, collection string) *SummaryRepository {
	return &SummaryRepository{collection: db.Collection(collection)}
}

// Upsert はトークンをキーにレポートを上書き保存する。
func (r *SummaryRepository) Upsert(ctx context.Context, summary interview.Summary) error {
	doc := SummaryDocument{
		InterviewID:     summary.InterviewID,
		Summary:         summary.Summary,
		RawConversation: summary.RawConversation,
		CreatedAt:       summary.CreatedAt,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	update := bson.M{"$set": bson.M{
		"summary":         doc.Summary,
		"rawConversation": doc.RawConversation,
		"createdAt":       doc.CreatedAt,
	}}
	_, err := r.collection.UpdateByID(ctx, doc.InterviewID, update, options.Update().SetUpsert(true))
	return err
}

// FindByID はトークンでレポートを1件取得する。未保存は interview.ErrNotFound。
func (r *SummaryRepository) FindByID(ctx context.Context, interviewID string) (*interview.Summary, error) {
	var doc SummaryDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": interviewID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, interview.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &interview.Summary{
		InterviewID:     doc.InterviewID,
		Summary:         doc.Summary,
		RawConversation: doc.RawConversation,
		CreatedAt:       doc.CreatedAt,
	}, nil
}

// List は新しい順のレポート一覧を返す。
func (r *SummaryRepository) List(ctx context.Context, limit int) ([]interview.Summary, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	summaries := make([]interview.Summary, 0)
	for cursor.Next(ctx) {
		var doc SummaryDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		summaries = append(summaries, interview.Summary{
			InterviewID:     doc.InterviewID,
			Summary:         doc.Summary,
			RawConversation: doc.RawConversation,
			CreatedAt:       doc.CreatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Delete はレポートを確定的に削除する。存在しない場合は interview.ErrNotFound。
func (r *SummaryRepository) Delete(ctx context.Context, interviewID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": interviewID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return interview.ErrNotFound
	}
	return nil
}
