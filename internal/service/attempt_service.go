package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"attempt-service/internal/attempt"
	"attempt-service/internal/models"
	"attempt-service/internal/normalize"
	"attempt-service/internal/repository"

	"github.com/google/uuid"
)

// AttemptService orchestrates the attempt store against persistence: load
// the record, apply a transition, save. The engine itself is synchronous
// and single-writer; the per-attempt mutex only exists so a manual submit
// racing a timer-expiry auto-submit observes the stored result instead of
// scoring twice.
type AttemptService struct {
	Repo         *repository.AttemptRepository
	ExamRepo     *repository.ExamRepository
	QuestionRepo *repository.QuestionRepository

	normCfg normalize.Config
	locks   sync.Map // attempt ID -> *sync.Mutex
}

func NewAttemptService(
	repo *repository.AttemptRepository,
	examRepo *repository.ExamRepository,
	questionRepo *repository.QuestionRepository,
) *AttemptService {
	return &AttemptService{
		Repo:         repo,
		ExamRepo:     examRepo,
		QuestionRepo: questionRepo,
		normCfg:      normalize.DefaultConfig(),
	}
}

func (s *AttemptService) lock(id string) func() {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	return mu.(*sync.Mutex).Unlock
}

// CreateAttempt materializes a fresh attempt from the exam definition.
// The attempt snapshots the questions so later edits to the bank cannot
// change a paper mid-flight.
func (s *AttemptService) CreateAttempt(ctx context.Context, examID, userID string) (*models.Attempt, error) {
	exam, err := s.ExamRepo.FindByID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to load exam: %w", err)
	}
	questions, err := s.QuestionRepo.FindByIDs(ctx, exam.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	entries := make([]models.AttemptQuestion, len(questions))
	for i, q := range questions {
		entries[i] = models.AttemptQuestion{Question: q}
	}

	scheme := exam.MarkingScheme
	if scheme == (models.MarkingScheme{}) {
		scheme = models.DefaultMarkingScheme()
	}

	now := time.Now()
	a := &models.Attempt{
		ID:                   uuid.NewString(),
		ExamID:               exam.ID,
		UserID:               userID,
		Questions:            entries,
		TotalDurationSeconds: exam.TotalDurationSeconds,
		MarkingScheme:        scheme,
		Status:               models.AttemptNotStarted,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AttemptService) GetAttempt(ctx context.Context, id string) (*models.Attempt, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *AttemptService) ListByUser(ctx context.Context, userID string) ([]models.Attempt, error) {
	return s.Repo.FindByUser(ctx, userID)
}

func (s *AttemptService) StartAttempt(ctx context.Context, id string) (*models.Attempt, error) {
	unlock := s.lock(id)
	defer unlock()

	a, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	attempt.Start(a)
	if err := s.save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Navigate flushes the elapsed time onto the currently active question and
// then moves. Applying the flush before the index change is what keeps the
// per-question clocks from double-counting.
func (s *AttemptService) Navigate(ctx context.Context, id string, index int, elapsedSeconds float64) (*models.Attempt, error) {
	unlock := s.lock(id)
	defer unlock()

	a, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(a.Questions) > 0 && elapsedSeconds > 0 {
		if err := attempt.AccrueTime(a, a.ActiveQuestionIndex, elapsedSeconds); err != nil {
			return nil, err
		}
	}
	if err := attempt.NavigateTo(a, index); err != nil {
		return nil, err
	}
	if err := s.save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AttemptService) RecordAnswer(ctx context.Context, id string, index int, value *float64, options []int) (*models.Attempt, error) {
	unlock := s.lock(id)
	defer unlock()

	a, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(options) > 0 {
		err = attempt.RecordMultiAnswer(a, index, options)
	} else {
		err = attempt.RecordAnswer(a, index, value)
	}
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AttemptService) ToggleMark(ctx context.Context, id string, index int) (*models.Attempt, error) {
	unlock := s.lock(id)
	defer unlock()

	a, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := attempt.ToggleMark(a, index); err != nil {
		return nil, err
	}
	if err := s.save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Tick accrues the delta onto the active question, then advances the
// attempt clock. Returns whether this tick expired the clock and
// auto-submitted.
func (s *AttemptService) Tick(ctx context.Context, id string, deltaSeconds float64) (*models.Attempt, bool, error) {
	unlock := s.lock(id)
	defer unlock()

	a, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if len(a.Questions) > 0 && deltaSeconds > 0 {
		if err := attempt.AccrueTime(a, a.ActiveQuestionIndex, deltaSeconds); err != nil {
			return nil, false, err
		}
	}
	submitted := attempt.Tick(a, deltaSeconds)
	if err := s.save(ctx, a); err != nil {
		return nil, false, err
	}
	return a, submitted, nil
}

// Submit completes the attempt. Idempotent: re-submitting returns the
// attempt with its already-computed score untouched.
func (s *AttemptService) Submit(ctx context.Context, id string) (*models.Attempt, models.ScoreResult, error) {
	unlock := s.lock(id)
	defer unlock()

	a, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, models.ScoreResult{}, err
	}
	result := attempt.Submit(a, models.CompletionManual)
	if err := s.save(ctx, a); err != nil {
		return nil, models.ScoreResult{}, err
	}
	return a, result, nil
}

// GetHistorical loads an attempt through the normalization layer. Used for
// documents written by older clients or foreign importers, where fields go
// missing and time units drift.
func (s *AttemptService) GetHistorical(ctx context.Context, id string) (*models.Attempt, error) {
	doc, err := s.Repo.FindRawByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return normalize.AttemptFromDocument(doc, s.normCfg)
}

func (s *AttemptService) save(ctx context.Context, a *models.Attempt) error {
	a.UpdatedAt = time.Now()
	return s.Repo.Save(ctx, a)
}
