package handlers

import (
	"context"

	"hospital-records-server/internal/models"
	"hospital-records-server/internal/stores/patientstore"
)

// PatientStore is the document-store surface the handlers depend on.
// Implemented by patientstore.Store; tests substitute a fake.
type PatientStore interface {
	Create(ctx context.Context, rec *models.PatientRecord) (string, error)
	GetByID(ctx context.Context, id string) (*models.PatientRecord, error)
	List(ctx context.Context, limit, skip int64) ([]models.PatientRecord, error)
	Count(ctx context.Context) (int64, error)
	CountStroke(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, rec *models.PatientRecord) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, filter patientstore.SearchFilter) ([]models.PatientRecord, error)
}

var _ PatientStore = (*patientstore.Store)(nil)
