package contracts

import (
	"context"
	"smarthealth-service/internal/app/models"
)

type DoctorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Doctor, error)
	// GetAvailable returns doctors open for consultation, ordered by fee
	// ascending; the flows render the slice verbatim as a numbered menu.
	GetAvailable(ctx context.Context) ([]models.Doctor, error)
	GetOnline(ctx context.Context) ([]models.Doctor, error)
}
