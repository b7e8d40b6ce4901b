package contracts

import (
	"context"
	"smarthealth-service/internal/app/models"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) (string, error)
	FindByID(ctx context.Context, id string) (*models.Transaction, error)
	UpdateStatus(ctx context.Context, id string, status models.TransactionStatus) error
	UpdateRef(ctx context.Context, id, ref string) error
}
