package service

import (
	"context"

	"attempt-service/internal/models"
	"attempt-service/internal/repository"

	"github.com/google/uuid"
)

// InteractionService ingests the externally captured visit log. Events are
// stored as-is; the engine never edits them.
type InteractionService struct {
	Repo *repository.InteractionRepository
}

func NewInteractionService(repo *repository.InteractionRepository) *InteractionService {
	return &InteractionService{Repo: repo}
}

func (s *InteractionService) Ingest(ctx context.Context, attemptID string, events []models.InteractionEvent) error {
	for i := range events {
		events[i].ID = uuid.NewString()
		events[i].AttemptID = attemptID
	}
	return s.Repo.Append(ctx, events)
}

func (s *InteractionService) ListByAttempt(ctx context.Context, attemptID string) ([]models.InteractionEvent, error) {
	return s.Repo.FindByAttempt(ctx, attemptID)
}
