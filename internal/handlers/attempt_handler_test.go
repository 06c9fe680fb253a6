package handlers

import (
	"testing"

	"attempt-service/internal/event"
	"attempt-service/internal/models"
)

type recordingPublisher struct {
	published []string
}

func (p *recordingPublisher) Publish(eventType string, payload any) error {
	p.published = append(p.published, eventType)
	return nil
}

func expiredAttempt() *models.Attempt {
	return &models.Attempt{
		ID:             "a1",
		UserID:         "u1",
		Status:         models.AttemptCompleted,
		CompletionType: models.CompletionTimeExpired,
	}
}

func TestPublishAutoSubmit(t *testing.T) {
	tests := []struct {
		name    string
		expired bool
		want    []string
	}{
		{"expiry tick publishes attempt.expired", true, []string{event.AttemptExpired}},
		{"ordinary tick publishes nothing", false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingPublisher{}
			h := &AttemptHandler{Events: rec}

			h.publishAutoSubmit(expiredAttempt(), tt.expired)

			if len(rec.published) != len(tt.want) {
				t.Fatalf("published %v, want %v", rec.published, tt.want)
			}
			for i := range tt.want {
				if rec.published[i] != tt.want[i] {
					t.Errorf("published[%d] = %v, want %v", i, rec.published[i], tt.want[i])
				}
			}
		})
	}
}

func TestPublishAutoSubmitWithoutPublisher(t *testing.T) {
	h := &AttemptHandler{}
	h.publishAutoSubmit(expiredAttempt(), true) // must not panic
}
