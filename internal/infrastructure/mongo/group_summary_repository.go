package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/amint/interview-hub/api/internal/interview"
)

// GroupSummaryRepository は group_summaries コレクションの Mongo 実装。
// 明示的な refresh か構成要素の削除で無効化されるキャッシュとして扱う。
type GroupSummaryRepository struct {
	collection *mongo.Collection
}

// NewGroupSummaryRepository は MongoDB コレクションを束縛した GroupSummaryRepository を生成する。
func NewGroupSummaryRepository(db *mongo.Database, collection string) *GroupSummaryRepository {
	return &GroupSummaryRepository{collection: db.Collection(collection)}
}

// Upsert はグループIDをキーにレポートを上書き保存する。
func (r *GroupSummaryRepository) Upsert(ctx context.Context, summary interview.GroupSummary) error {
	update := bson.M{"$set": bson.M{
		"summary":   summary.Summary,
		"createdAt": summary.CreatedAt,
	}}
	_, err := r.collection.UpdateByID(ctx, summary.GroupID, update, options.Update().SetUpsert(true))
	return err
}

// FindByID はキャッシュ済みレポートを取得する。未生成は interview.ErrNotFound。
func (r *GroupSummaryRepository) FindByID(ctx context.Context, groupID string) (*interview.GroupSummary, error) {
	var doc GroupSummaryDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": groupID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, interview.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &interview.GroupSummary{
		GroupID:   doc.GroupID,
		Summary:   doc.Summary,
		CreatedAt: doc.CreatedAt,
	}, nil
}

// Delete はキャッシュを無効化する。未生成は interview.ErrNotFound。
func (r *GroupSummaryRepository) Delete(ctx context.Context, groupID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": groupID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return interview.ErrNotFound
	}
	return nil
}
