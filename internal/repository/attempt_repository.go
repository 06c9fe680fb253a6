package repository

import (
	"context"

	"attempt-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AttemptRepository struct {
	Col *mongo.Collection
}

func NewAttemptRepository(db *mongo.Database) *AttemptRepository {
	return &AttemptRepository{Col: db.Collection("attempts")}
}

func (r *AttemptRepository) FindByID(ctx context.Context, id string) (*models.Attempt, error) {
	var a models.Attempt
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindRawByID returns the stored document undecoded, for the
// normalization path that must inspect historical shapes.
func (r *AttemptRepository) FindRawByID(ctx context.Context, id string) (map[string]any, error) {
	var doc map[string]any
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *AttemptRepository) FindByUser(ctx context.Context, userID string) ([]models.Attempt, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var attempts []models.Attempt
	for cur.Next(ctx) {
		var a models.Attempt
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}

func (r *AttemptRepository) Create(ctx context.Context, a *models.Attempt) error {
	_, err := r.Col.InsertOne(ctx, a)
	return err
}

// Save replaces the whole attempt document. The attempt is a single-writer
// record, so full replacement keeps the stored state and the engine state
// identical.
func (r *AttemptRepository) Save(ctx context.Context, a *models.Attempt) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.Col.ReplaceOne(ctx, bson.M{"_id": a.ID}, a, opts)
	return err
}
