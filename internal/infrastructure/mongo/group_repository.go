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

// GroupRepository は groups コレクションの Mongo 実装。
type GroupRepository struct {
	collection *mongo.Collection
}

// NewGroupRepository は MongoDB コレクションを束縛した GroupRepository を生成する。
func NewGroupRepository(db *mongo.Database, collection string) *GroupRepository {
	return &GroupRepository{collection: db.Collection(collection)}
}

// Merge は既存グループへ interviewIds を和集合で足し込む read-merge-upsert。
// restaurantName は指定があった場合のみ更新し、createdAt は既存値を保持する。
func (r *GroupRepository) Merge(ctx context.Context, groupID, restaurantName string, interviewIDs []string) (*interview.Group, error) {
	now := time.Now().UTC()

	var existing GroupDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": groupID}).Decode(&existing)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	merged := interview.MergeInterviewIDs(existing.InterviewIDs, interviewIDs)

	name := restaurantName
	if name == "" {
		name = existing.RestaurantName
	}
	createdAt := existing.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	doc := GroupDocument{
		GroupID:        groupID,
		RestaurantName: name,
		InterviewIDs:   merged,
		CreatedAt:      createdAt,
		UpdatedAt:      now,
	}
	update := bson.M{"$set": bson.M{
		"restaurantName": doc.RestaurantName,
		"interviewIds":   doc.InterviewIDs,
		"createdAt":      doc.CreatedAt,
		"updatedAt":      doc.UpdatedAt,
	}}
	if _, err := r.collection.UpdateByID(ctx, groupID, update, options.Update().SetUpsert(true)); err != nil {
		return nil, err
	}

	group := fromGroupDocument(doc)
	return &group, nil
}

// FindByID はグループを1件取得する。未登録は interview.ErrNotFound。
func (r *GroupRepository) FindByID(ctx context.Context, groupID string) (*interview.Group, error) {
	var doc GroupDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": groupID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, interview.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	group := fromGroupDocument(doc)
	return &group, nil
}

// FindByInterviewID は指定トークンを含むグループをすべて返す。
func (r *GroupRepository) FindByInterviewID(ctx context.Context, interviewID string) ([]interview.Group, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"interviewIds": interviewID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	groups := make([]interview.Group, 0)
	for cursor.Next(ctx) {
		var doc GroupDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		groups = append(groups, fromGroupDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

// List は更新が新しい順のグループ一覧を返す。
func (r *GroupRepository) List(ctx context.Context, limit int) ([]interview.Group, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	groups := make([]interview.Group, 0)
	for cursor.Next(ctx) {
		var doc GroupDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		groups = append(groups, fromGroupDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

// Delete はグループ行を削除する。存在しない場合は interview.ErrNotFound。
func (r *GroupRepository) Delete(ctx context.Context, groupID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": groupID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return interview.ErrNotFound
	}
	return nil
}
