package repository

import (
	"context"

	"attempt-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InteractionRepository stores the externally captured visit log. The log
// is append-only; nothing in this service ever updates or deletes events.
type InteractionRepository struct {
	Col *mongo.Collection
}

func NewInteractionRepository(db *mongo.Database) *InteractionRepository {
	return &InteractionRepository{Col: db.Collection("interactions")}
}

func (r *InteractionRepository) Append(ctx context.Context, events []models.InteractionEvent) error {
	if len(events) == 0 {
		return nil
	}
	docs := make([]any, len(events))
	for i := range events {
		docs[i] = events[i]
	}
	_, err := r.Col.InsertMany(ctx, docs)
	return err
}

func (r *InteractionRepository) FindByAttempt(ctx context.Context, attemptID string) ([]models.InteractionEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp_enter", Value: 1}})
	cur, err := r.Col.Find(ctx, bson.M{"attempt_id": attemptID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var events []models.InteractionEvent
	for cur.Next(ctx) {
		var ev models.InteractionEvent
		if err := cur.Decode(&ev); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}
