package repository

import (
	"context"
	"errors"
	"medifind/internal/model"
	"time"

	"gorm.io/gorm"
)

// ErrStatusChanged means the order no longer had the expected status when the
// update ran.
var ErrStatusChanged = errors.New("order status changed concurrently")

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindByID(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Order, error)
	ListByUser(ctx context.Context, userID uint) ([]*model.Order, error)
	ListByStore(ctx context.Context, storeID uint) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, orderID uint, from, to model.OrderStatus) error
	GetOrderItems(ctx context.Context, tx *gorm.DB, orderID uint) ([]*model.OrderItem, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return conn(r.db, tx).WithContext(ctx).Omit("Items").Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return conn(r.db, tx).WithContext(ctx).Omit("Medication").Create(&items).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Order, error) {
	var order model.Order
	err := conn(r.db, tx).WithContext(ctx).
		Preload("Items.Medication").
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) ListByUser(ctx context.Context, userID uint) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Medication").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) ListByStore(ctx context.Context, storeID uint) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Medication").
		Where("store_id = ?", storeID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) UpdateStatus(ctx context.Context, tx *gorm.DB, orderID uint, from, to model.OrderStatus) error {
	result := conn(r.db, tx).WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusChanged
	}

	return nil
}

func (r *orderRepoImpl) GetOrderItems(ctx context.Context, tx *gorm.DB, orderID uint) ([]*model.OrderItem, error) {
	var items []*model.OrderItem
	err := conn(r.db, tx).WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}
