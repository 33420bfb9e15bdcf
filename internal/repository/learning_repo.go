package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fradegh/ai-sales-sub002/internal/model"
)

type LearningRepo interface {
	Upsert(ctx context.Context, item *model.LearningQueueItem) error
	GetByConversation(ctx context.Context, conversationID string) (*model.LearningQueueItem, error)
	ListPending(ctx context.Context, tenantID string, limit int64) ([]*model.LearningQueueItem, error)
	MarkReviewed(ctx context.Context, conversationID string) error
}

type learningRepo struct {
	collection *mongo.Collection
}

func NewLearningRepo(client *mongo.Client, dbName string) LearningRepo {
	db := client.Database(dbName)
	return &learningRepo{
		collection: db.Collection("learning_queue"),
	}
}

// Upsert merges a new observation into the queue item for a
// conversation. $max keeps the score monotonic and $addToSet keeps the
// reasons a set, so re-applying the same outcome is a no-op.
func (r *learningRepo) Upsert(ctx context.Context, item *model.LearningQueueItem) error {
	update := bson.M{
		"$max": bson.M{"learningScore": item.LearningScore},
		"$addToSet": bson.M{
			"reasons": bson.M{"$each": item.Reasons},
		},
		"$set": bson.M{
			"tenantId":  item.TenantID,
			"updatedAt": time.Now(),
		},
		"$setOnInsert": bson.M{
			"status": string(model.LearningStatusPending),
		},
	}
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": item.ConversationID},
		update,
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *learningRepo) GetByConversation(ctx context.Context, conversationID string) (*model.LearningQueueItem, error) {
	var item model.LearningQueueItem
	err := r.collection.FindOne(ctx, bson.M{"_id": conversationID}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *learningRepo) ListPending(ctx context.Context, tenantID string, limit int64) ([]*model.LearningQueueItem, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "learningScore", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{
		"tenantId": tenantID,
		"status":   string(model.LearningStatusPending),
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*model.LearningQueueItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *learningRepo) MarkReviewed(ctx context.Context, conversationID string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": conversationID},
		bson.M{"$set": bson.M{
			"status":    string(model.LearningStatusReviewed),
			"updatedAt": time.Now(),
		}},
	)
	return err
}
