package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fradegh/ai-sales-sub002/internal/model"
)

// ErrPendingExists is returned when a conversation already has a pending
// suggestion. Concurrent webhook deliveries for the same conversation
// resolve to this via the unique partial index, not a read-then-write
// check.
var ErrPendingExists = errors.New("conversation already has a pending suggestion")

type SuggestionRepo interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, suggestion *model.AiSuggestion) error
	GetByID(ctx context.Context, id string) (*model.AiSuggestion, error)
	GetPendingByConversation(ctx context.Context, conversationID string) (*model.AiSuggestion, error)
	Resolve(ctx context.Context, id string, status model.SuggestionStatus, editedReply string) error
	CountByConversationAndStatus(ctx context.Context, conversationID string, status model.SuggestionStatus) (int64, error)
}

type suggestionRepo struct {
	collection *mongo.Collection
}

func NewSuggestionRepo(client *mongo.Client, dbName string) SuggestionRepo {
	db := client.Database(dbName)
	return &suggestionRepo{
		collection: db.Collection("ai_suggestions"),
	}
}

// EnsureIndexes creates the unique partial index enforcing at most one
// pending suggestion per conversation
func (r *suggestionRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "conversationId", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": string(model.StatusPending)}),
	})
	return err
}

func (r *suggestionRepo) Create(ctx context.Context, suggestion *model.AiSuggestion) error {
	if suggestion.CreatedAt.IsZero() {
		suggestion.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, suggestion)
	if mongo.IsDuplicateKeyError(err) {
		return ErrPendingExists
	}
	return err
}

func (r *suggestionRepo) GetByID(ctx context.Context, id string) (*model.AiSuggestion, error) {
	var suggestion model.AiSuggestion
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&suggestion)
	if err != nil {
		return nil, err
	}
	return &suggestion, nil
}

func (r *suggestionRepo) GetPendingByConversation(ctx context.Context, conversationID string) (*model.AiSuggestion, error) {
	var suggestion model.AiSuggestion
	err := r.collection.FindOne(ctx, bson.M{
		"conversationId": conversationID,
		"status":         string(model.StatusPending),
	}).Decode(&suggestion)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &suggestion, nil
}

func (r *suggestionRepo) Resolve(ctx context.Context, id string, status model.SuggestionStatus, editedReply string) error {
	now := time.Now()
	set := bson.M{
		"status":     string(status),
		"resolvedAt": now,
	}
	if editedReply != "" {
		set["suggestedReply"] = editedReply
	}
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": string(model.StatusPending)},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *suggestionRepo) CountByConversationAndStatus(ctx context.Context, conversationID string, status model.SuggestionStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"conversationId": conversationID,
		"status":         string(status),
	})
}
