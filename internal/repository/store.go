package repository

import (
	"context"
	"medifind/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StoreRepository interface {
	Seed(ctx context.Context, stores []*model.Store) error
	Create(ctx context.Context, store *model.Store) error
	Get(ctx context.Context, tx *gorm.DB, storeID uint) (*model.Store, error)
	List(ctx context.Context, query string) ([]*model.Store, error)
}

type storeRepoImpl struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepoImpl{
		db: db,
	}
}

func (r *storeRepoImpl) Seed(ctx context.Context, stores []*model.Store) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&stores).Error
}

func (r *storeRepoImpl) Create(ctx context.Context, store *model.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *storeRepoImpl) Get(ctx context.Context, tx *gorm.DB, storeID uint) (*model.Store, error) {
	var store model.Store
	err := conn(r.db, tx).WithContext(ctx).
		Where("id = ?", storeID).
		First(&store).Error
	if err != nil {
		return nil, err
	}

	return &store, nil
}

// List returns all stores, or those whose name, city or address contains query.
func (r *storeRepoImpl) List(ctx context.Context, query string) ([]*model.Store, error) {
	var stores []*model.Store

	db := r.db.WithContext(ctx)
	if query != "" {
		like := "%" + query + "%"
		db = db.Where("LOWER(name) LIKE LOWER(?) OR LOWER(city) LIKE LOWER(?) OR LOWER(address) LIKE LOWER(?)", like, like, like)
	}

	if err := db.Order("id").Find(&stores).Error; err != nil {
		return nil, err
	}

	return stores, nil
}
