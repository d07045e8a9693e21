package repository

import (
	"context"
	"medifind/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MedicationRepository interface {
	Seed(ctx context.Context, medications []*model.Medication) error
	Create(ctx context.Context, medication *model.Medication) error
	FindByID(ctx context.Context, medicationID uint) (*model.Medication, error)
	FindMany(ctx context.Context, tx *gorm.DB, medicationIDs []uint) ([]*model.Medication, error)
	List(ctx context.Context, query string) ([]*model.Medication, error)
}

type medicationRepoImpl struct {
	db *gorm.DB
}

func NewMedicationRepository(db *gorm.DB) MedicationRepository {
	return &medicationRepoImpl{
		db: db,
	}
}

func (r *medicationRepoImpl) Seed(ctx context.Context, medications []*model.Medication) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&medications).Error
}

func (r *medicationRepoImpl) Create(ctx context.Context, medication *model.Medication) error {
	return r.db.WithContext(ctx).Create(medication).Error
}

func (r *medicationRepoImpl) FindByID(ctx context.Context, medicationID uint) (*model.Medication, error) {
	var medication model.Medication
	err := r.db.WithContext(ctx).
		Where("id = ?", medicationID).
		First(&medication).Error

	if err != nil {
		return nil, err
	}

	return &medication, nil
}

func (r *medicationRepoImpl) FindMany(ctx context.Context, tx *gorm.DB, medicationIDs []uint) ([]*model.Medication, error) {
	var medications []*model.Medication
	if len(medicationIDs) == 0 {
		return medications, nil
	}

	err := conn(r.db, tx).WithContext(ctx).
		Where("id IN ?", medicationIDs).
		Find(&medications).
		Error

	if err != nil {
		return nil, err
	}

	return medications, nil
}

// List returns all medications, or those whose name, category or manufacturer
// contains query.
func (r *medicationRepoImpl) List(ctx context.Context, query string) ([]*model.Medication, error) {
	var medications []*model.Medication

	db := r.db.WithContext(ctx)
	if query != "" {
		like := "%" + query + "%"
		db = db.Where("LOWER(name) LIKE LOWER(?) OR LOWER(category) LIKE LOWER(?) OR LOWER(manufacturer) LIKE LOWER(?)", like, like, like)
	}

	if err := db.Order("id").Find(&medications).Error; err != nil {
		return nil, err
	}

	return medications, nil
}
