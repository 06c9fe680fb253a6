package repository

import (
	"context"

	"attempt-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ResultRepository struct {
	Col *mongo.Collection
}

func NewResultRepository(db *mongo.Database) *ResultRepository {
	return &ResultRepository{Col: db.Collection("reports")}
}

func (r *ResultRepository) FindByAttempt(ctx context.Context, attemptID string) (*models.AttemptReport, error) {
	var report models.AttemptReport
	err := r.Col.FindOne(ctx, bson.M{"attempt_id": attemptID}).Decode(&report)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ResultRepository) FindByUser(ctx context.Context, userID string) ([]models.AttemptReport, error) {
	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var reports []models.AttemptReport
	for cur.Next(ctx) {
		var rep models.AttemptReport
		if err := cur.Decode(&rep); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

func (r *ResultRepository) Create(ctx context.Context, report *models.AttemptReport) error {
	_, err := r.Col.InsertOne(ctx, report)
	return err
}
