package contracts

import (
	"context"
	"smarthealth-service/internal/app/models"
	"time"
)

type CaseRepository interface {
	Create(ctx context.Context, c *models.Case) (string, error)
	FindByID(ctx context.Context, id string) (*models.Case, error)
	AssignToDoctor(ctx context.Context, caseID, doctorID string) error
	UpdateStatus(ctx context.Context, caseID string, status models.CaseStatus) error
	UpdateSymptoms(ctx context.Context, caseID, symptoms string) error
	SetRecording(ctx context.Context, caseID, recordingURL string) error
	SetRecordingObjectKey(ctx context.Context, caseID, objectKey string) error
	GetBySubscriber(ctx context.Context, subscriberID string, limit int) ([]models.Case, error)
	CountActiveByDoctor(ctx context.Context, doctorID string) (int, error)
	// CancelStaleProvisional cancels provisional mobile-payment cases still
	// pending after the cutoff. Returns the number of cases cancelled.
	CancelStaleProvisional(ctx context.Context, olderThan time.Time) (int, error)
}
