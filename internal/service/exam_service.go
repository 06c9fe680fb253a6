package service

import (
	"context"
	"time"

	"attempt-service/internal/models"
	"attempt-service/internal/repository"

	"github.com/google/uuid"
)

type ExamService struct {
	Repo *repository.ExamRepository
}

func NewExamService(repo *repository.ExamRepository) *ExamService {
	return &ExamService{Repo: repo}
}

func (s *ExamService) ListExams(ctx context.Context) ([]models.Exam, error) {
	return s.Repo.FindAll(ctx)
}

func (s *ExamService) GetExam(ctx context.Context, id string) (*models.Exam, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *ExamService) CreateExam(ctx context.Context, exam *models.Exam) error {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	if exam.MarkingScheme == (models.MarkingScheme{}) {
		exam.MarkingScheme = models.DefaultMarkingScheme()
	}
	now := time.Now()
	exam.CreatedAt = now
	exam.UpdatedAt = now
	if exam.Status == "" {
		exam.Status = "active"
	}
	return s.Repo.Create(ctx, exam)
}

// UpdateExam edits the exam definition. Attempts snapshot their questions
// at creation, so edits never reach a paper already in flight.
func (s *ExamService) UpdateExam(ctx context.Context, id string, update map[string]any) error {
	if update == nil {
		update = map[string]any{}
	}
	update["updated_at"] = time.Now()
	return s.Repo.Update(ctx, id, update)
}
