package contracts

import (
	"context"
	"smarthealth-service/internal/app/models"
)

// SessionService persists session records keyed by the channel-issued
// identifier. Records expire with the store's TTL; Save refreshes it.
type SessionService interface {
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, sessionID string) error
}
