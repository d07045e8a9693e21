package repository

import (
	"context"
	"errors"
	"fmt"
	"medifind/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInsufficientStock is returned by Decrement when the conditional update
// matched no row: the record is out of stock or holds fewer units than asked.
var ErrInsufficientStock = errors.New("insufficient stock")

type InventoryRepository interface {
	Get(ctx context.Context, tx *gorm.DB, storeID, medicationID uint) (*model.StoreInventory, error)
	GetWithMedication(ctx context.Context, storeID, medicationID uint) (*model.StoreInventory, error)
	ListByStore(ctx context.Context, storeID uint) ([]*model.StoreInventory, error)
	Decrement(ctx context.Context, tx *gorm.DB, recordID uint, amount int32) (*model.StoreInventory, error)
	Restore(ctx context.Context, tx *gorm.DB, storeID, medicationID uint, amount int32) error
	Restock(ctx context.Context, tx *gorm.DB, inventory *model.StoreInventory, overwrite ...string) error
}

type inventoryRepoImpl struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepoImpl{
		db: db,
	}
}

func (r *inventoryRepoImpl) Get(ctx context.Context, tx *gorm.DB, storeID, medicationID uint) (*model.StoreInventory, error) {
	var inventory model.StoreInventory
	err := conn(r.db, tx).WithContext(ctx).
		Where("store_id = ? AND medication_id = ?", storeID, medicationID).
		First(&inventory).Error
	if err != nil {
		return nil, err
	}

	return &inventory, nil
}

func (r *inventoryRepoImpl) GetWithMedication(ctx context.Context, storeID, medicationID uint) (*model.StoreInventory, error) {
	var inventory model.StoreInventory
	err := r.db.WithContext(ctx).
		Preload("Medication").
		Where("store_id = ? AND medication_id = ?", storeID, medicationID).
		First(&inventory).Error
	if err != nil {
		return nil, err
	}

	return &inventory, nil
}

func (r *inventoryRepoImpl) ListByStore(ctx context.Context, storeID uint) ([]*model.StoreInventory, error) {
	var inventories []*model.StoreInventory

	err := r.db.WithContext(ctx).
		Preload("Medication").
		Where("store_id = ?", storeID).
		Order("id").
		Find(&inventories).Error
	if err != nil {
		return nil, err
	}

	return inventories, nil
}

// Decrement takes amount units off the record in a single conditional update,
// so two buyers racing for the last units cannot both succeed and the quantity
// never goes negative.
func (r *inventoryRepoImpl) Decrement(ctx context.Context, tx *gorm.DB, recordID uint, amount int32) (*model.StoreInventory, error) {
	db := conn(r.db, tx).WithContext(ctx)

	result := db.Model(&model.StoreInventory{}).
		Where("id = ? AND in_stock = ? AND quantity >= ?", recordID, true, amount).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrInsufficientStock
	}

	var inventory model.StoreInventory
	if err := db.Where("id = ?", recordID).First(&inventory).Error; err != nil {
		return nil, err
	}

	return &inventory, nil
}

// Restore puts units back, e.g. when an order is cancelled.
func (r *inventoryRepoImpl) Restore(ctx context.Context, tx *gorm.DB, storeID, medicationID uint, amount int32) error {
	result := conn(r.db, tx).WithContext(ctx).
		Model(&model.StoreInventory{}).
		Where("store_id = ? AND medication_id = ?", storeID, medicationID).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Restock adds inventory.Quantity units to the (store, medication) row,
// creating it from inventory when missing. On an existing row only the columns
// named in overwrite ("price", "in_stock") replace the stored values.
func (r *inventoryRepoImpl) Restock(ctx context.Context, tx *gorm.DB, inventory *model.StoreInventory, overwrite ...string) error {
	assignments := map[string]interface{}{
		"quantity":   gorm.Expr("store_inventories.quantity + ?", inventory.Quantity),
		"updated_at": time.Now(),
	}
	for _, column := range overwrite {
		switch column {
		case "price":
			assignments[column] = inventory.Price
		case "in_stock":
			assignments[column] = inventory.InStock
		default:
			return fmt.Errorf("restock cannot overwrite column %q", column)
		}
	}

	return conn(r.db, tx).WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_id"}, {Name: "medication_id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(inventory).Error
}
