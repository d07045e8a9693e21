package service

import (
	"context"
	"errors"
	"fmt"
	"medifind/internal/dto"
	"medifind/internal/model"
	"medifind/internal/repository"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PricePolicy decides what happens when the prices a client submits differ
// from the ones in the inventory ledger.
type PricePolicy string

const (
	PricePolicyWarn   PricePolicy = "warn"
	PricePolicyReject PricePolicy = "reject"
)

func ParsePricePolicy(s string) (PricePolicy, error) {
	switch p := PricePolicy(s); p {
	case PricePolicyWarn, PricePolicyReject:
		return p, nil
	}
	return "", fmt.Errorf("unknown price policy %q", s)
}

type OrderService interface {
	PlaceOrder(ctx context.Context, userID uint, req *dto.PlaceOrderRequest) (*model.Order, error)
	GetOrder(ctx context.Context, userID, orderID uint) (*model.Order, error)
	ListUserOrders(ctx context.Context, userID uint) ([]*model.Order, error)
	ListStoreOrders(ctx context.Context, ownerID, storeID uint) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, ownerID, orderID uint, status model.OrderStatus) (*model.Order, error)
}

type orderServiceImpl struct {
	db             *gorm.DB
	logger         *zap.Logger
	pricePolicy    PricePolicy
	storeRepo      repository.StoreRepository
	inventoryRepo  repository.InventoryRepository
	medicationRepo repository.MedicationRepository
	orderRepo      repository.OrderRepository
	notifier       NotificationService
}

func NewOrderService(
	db *gorm.DB,
	logger *zap.Logger,
	pricePolicy PricePolicy,
	storeRepo repository.StoreRepository,
	inventoryRepo repository.InventoryRepository,
	medicationRepo repository.MedicationRepository,
	orderRepo repository.OrderRepository,
	notifier NotificationService,
) OrderService {
	return &orderServiceImpl{
		db:             db,
		logger:         logger,
		pricePolicy:    pricePolicy,
		storeRepo:      storeRepo,
		inventoryRepo:  inventoryRepo,
		medicationRepo: medicationRepo,
		orderRepo:      orderRepo,
		notifier:       notifier,
	}
}

// PlaceOrder turns the cart lines of one store into a pending order. Stock
// checks, decrements and the order rows share one transaction, so any failure
// leaves inventory and orders untouched. The purchaser notification is sent
// after commit and its failure does not fail the order.
func (s *orderServiceImpl) PlaceOrder(ctx context.Context, userID uint, req *dto.PlaceOrderRequest) (*model.Order, error) {
	if err := validatePlaceOrder(req); err != nil {
		return nil, err
	}

	storeID := req.Order.StoreID
	if _, err := s.storeRepo.Get(ctx, nil, storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Store not found"}
		}
		return nil, fmt.Errorf("get store: %w", err)
	}

	order := &model.Order{
		UserID:     userID,
		StoreID:    storeID,
		Status:     model.OrderStatusPending,
		PickupTime: req.Order.PickupTime,
		Notes:      req.Order.Notes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		records := make([]*model.StoreInventory, len(req.Items))
		for i, line := range req.Items {
			record, err := s.inventoryRepo.Get(ctx, tx, storeID, line.MedicationID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return MedicationNotInInventory(line.MedicationID)
			}
			if err != nil {
				return fmt.Errorf("get inventory for medication %d: %w", line.MedicationID, err)
			}
			if !record.Purchasable() || record.Quantity < line.Quantity {
				return &InsufficientStockError{
					MedicationID: line.MedicationID,
					Available:    available(record),
					Requested:    line.Quantity,
				}
			}
			records[i] = record
		}

		items, total, err := s.priceLines(ctx, tx, req, records)
		if err != nil {
			return err
		}

		// decrement in record id order so concurrent orders lock rows in the same order
		byRecord := make([]int, len(records))
		for i := range byRecord {
			byRecord[i] = i
		}
		sort.Slice(byRecord, func(a, b int) bool {
			return records[byRecord[a]].ID < records[byRecord[b]].ID
		})

		for _, i := range byRecord {
			line := req.Items[i]
			_, err := s.inventoryRepo.Decrement(ctx, tx, records[i].ID, line.Quantity)
			if errors.Is(err, repository.ErrInsufficientStock) {
				// another order took the units between our read and the update
				stockErr := &InsufficientStockError{MedicationID: line.MedicationID, Requested: line.Quantity}
				if current, err := s.inventoryRepo.Get(ctx, tx, storeID, line.MedicationID); err == nil {
					stockErr.Available = available(current)
				}
				return stockErr
			}
			if err != nil {
				return fmt.Errorf("decrement inventory %d: %w", records[i].ID, err)
			}
		}

		order.TotalAmount = total
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order in db: %w", err)
		}

		for _, item := range items {
			item.OrderID = order.ID
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
			return fmt.Errorf("store order items in db: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order placed",
		zap.Uint("order_id", order.ID),
		zap.Uint("user_id", userID),
		zap.Uint("store_id", storeID),
		zap.String("total", order.TotalAmount.StringFixed(2)))

	if err := s.notifier.OrderPlaced(ctx, order); err != nil {
		s.logger.Warn("order notification failed", zap.Uint("order_id", order.ID), zap.Error(err))
	}

	return order, nil
}

func validatePlaceOrder(req *dto.PlaceOrderRequest) error {
	if req == nil {
		return &ValidationError{Message: "Invalid input"}
	}
	if req.Order.StoreID == 0 {
		return invalid("order.storeId", "required")
	}
	if req.Order.Status != "" && model.OrderStatus(req.Order.Status) != model.OrderStatusPending {
		return invalid("order.status", "new orders must be pending")
	}
	if len(req.Items) == 0 {
		return invalid("items", "at least one item is required")
	}

	seen := make(map[uint]bool, len(req.Items))
	for i, line := range req.Items {
		field := fmt.Sprintf("items[%d]", i)
		switch {
		case line == nil:
			return invalid(field, "required")
		case line.MedicationID == 0:
			return invalid(field+".medicationId", "required")
		case line.Quantity <= 0:
			return invalid(field+".quantity", "must be a positive integer")
		case line.Price.IsNegative():
			return invalid(field+".price", "must not be negative")
		case seen[line.MedicationID]:
			return invalid(field+".medicationId", "duplicate medication")
		}
		seen[line.MedicationID] = true
	}

	return nil
}

// priceLines builds the order items from ledger prices and returns their total.
// Client prices only serve as a cross-check, handled by the price policy.
func (s *orderServiceImpl) priceLines(ctx context.Context, tx *gorm.DB, req *dto.PlaceOrderRequest, records []*model.StoreInventory) ([]*model.OrderItem, decimal.Decimal, error) {
	var baseIDs []uint
	for _, record := range records {
		if !record.Price.Valid {
			baseIDs = append(baseIDs, record.MedicationID)
		}
	}
	medications, err := s.medicationRepo.FindMany(ctx, tx, baseIDs)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("get medications: %w", err)
	}
	basePrices := make(map[uint]decimal.Decimal, len(medications))
	for _, medication := range medications {
		basePrices[medication.ID] = medication.Price
	}

	total := decimal.Zero
	items := make([]*model.OrderItem, len(req.Items))
	for i, line := range req.Items {
		price := records[i].UnitPrice(basePrices[line.MedicationID])
		if !price.Equal(line.Price) {
			if err := s.priceMismatch(line.MedicationID, price, line.Price); err != nil {
				return nil, decimal.Zero, err
			}
		}

		total = total.Add(price.Mul(decimal.NewFromInt32(line.Quantity)))
		items[i] = &model.OrderItem{
			MedicationID: line.MedicationID,
			Quantity:     line.Quantity,
			Price:        price,
		}
	}

	if !total.Equal(req.Order.TotalAmount) {
		if err := s.priceMismatch(0, total, req.Order.TotalAmount); err != nil {
			return nil, decimal.Zero, err
		}
	}

	return items, total, nil
}

func (s *orderServiceImpl) priceMismatch(medicationID uint, expected, got decimal.Decimal) error {
	if s.pricePolicy == PricePolicyReject {
		return &PriceMismatchError{MedicationID: medicationID, Expected: expected, Got: got}
	}

	s.logger.Warn("client price differs from ledger, charging ledger price",
		zap.Uint("medication_id", medicationID),
		zap.String("ledger", expected.String()),
		zap.String("client", got.String()))
	return nil
}

func available(record *model.StoreInventory) int32 {
	if !record.InStock {
		return 0
	}
	return record.Quantity
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, userID, orderID uint) (*model.Order, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID == userID {
		return order, nil
	}

	// the store owner may look at orders placed at their store
	if _, err := s.ownedStore(ctx, userID, order.StoreID); err != nil {
		return nil, err
	}

	return order, nil
}

func (s *orderServiceImpl) ListUserOrders(ctx context.Context, userID uint) ([]*model.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

func (s *orderServiceImpl) ListStoreOrders(ctx context.Context, ownerID, storeID uint) ([]*model.Order, error) {
	if _, err := s.ownedStore(ctx, ownerID, storeID); err != nil {
		return nil, err
	}

	return s.orderRepo.ListByStore(ctx, storeID)
}

// UpdateStatus moves an order along its lifecycle on behalf of the store owner.
// Cancelling puts the ordered units back into the store inventory.
func (s *orderServiceImpl) UpdateStatus(ctx context.Context, ownerID, orderID uint, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, invalid("status", "unknown order status")
	}

	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedStore(ctx, ownerID, order.StoreID); err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, status)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, order.Status, status); err != nil {
			if errors.Is(err, repository.ErrStatusChanged) {
				return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
			}
			return fmt.Errorf("update order status: %w", err)
		}

		if status != model.OrderStatusCancelled {
			return nil
		}
		items, err := s.orderRepo.GetOrderItems(ctx, tx, order.ID)
		if err != nil {
			return fmt.Errorf("get order items: %w", err)
		}
		for _, item := range items {
			if err := s.inventoryRepo.Restore(ctx, tx, order.StoreID, item.MedicationID, item.Quantity); err != nil {
				return fmt.Errorf("restore inventory for medication %d: %w", item.MedicationID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = status
	if err := s.notifier.OrderStatusChanged(ctx, order); err != nil {
		s.logger.Warn("status notification failed", zap.Uint("order_id", order.ID), zap.Error(err))
	}

	return order, nil
}

func (s *orderServiceImpl) findOrder(ctx context.Context, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, nil, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Message: "Order not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	return order, nil
}

func (s *orderServiceImpl) ownedStore(ctx context.Context, ownerID, storeID uint) (*model.Store, error) {
	store, err := s.storeRepo.Get(ctx, nil, storeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Message: "Store not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("get store: %w", err)
	}
	if store.UserID != ownerID {
		return nil, ErrForbidden
	}

	return store, nil
}
