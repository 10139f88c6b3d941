package repository

import (
	"context"

	"github.com/lshigami/coursexam/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CertificateRepository interface {
	Find(ctx context.Context, key Key) (*model.Certificate, error)
	// CreateIfAbsent inserts the certificate unless one already exists for the
	// key. It always returns the stored row; created is false when the row
	// predates the call.
	CreateIfAbsent(ctx context.Context, cert *model.Certificate) (stored *model.Certificate, created bool, err error)
}

type certificateRepository struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) Find(ctx context.Context, key Key) (*model.Certificate, error) {
	var cert model.Certificate
	if err := key.where(r.db.WithContext(ctx)).First(&cert).Error; err != nil {
		return nil, translate(err)
	}
	return &cert, nil
}

func (r *certificateRepository) CreateIfAbsent(ctx context.Context, cert *model.Certificate) (*model.Certificate, bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   keyColumns,
		DoNothing: true,
	}).Create(cert)
	if res.Error != nil {
		return nil, false, res.Error
	}
	stored, err := r.Find(ctx, Key{UserID: cert.UserID, CourseID: cert.CourseID, AssessmentID: cert.AssessmentID})
	if err != nil {
		return nil, false, err
	}
	return stored, res.RowsAffected > 0, nil
}
