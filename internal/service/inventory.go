package service

import (
	"context"
	"errors"
	"fmt"
	"medifind/internal/dto"
	"medifind/internal/model"
	"medifind/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InventoryService is the store owner's write path to the ledger. It only ever
// adds units; sales go through the order service.
type InventoryService interface {
	Restock(ctx context.Context, ownerID, storeID uint, req *dto.RestockRequest) (*model.StoreInventory, error)
}

type inventoryServiceImpl struct {
	db             *gorm.DB
	logger         *zap.Logger
	storeRepo      repository.StoreRepository
	medicationRepo repository.MedicationRepository
	inventoryRepo  repository.InventoryRepository
}

func NewInventoryService(
	db *gorm.DB,
	logger *zap.Logger,
	storeRepo repository.StoreRepository,
	medicationRepo repository.MedicationRepository,
	inventoryRepo repository.InventoryRepository,
) InventoryService {
	return &inventoryServiceImpl{
		db:             db,
		logger:         logger,
		storeRepo:      storeRepo,
		medicationRepo: medicationRepo,
		inventoryRepo:  inventoryRepo,
	}
}

func (s *inventoryServiceImpl) Restock(ctx context.Context, ownerID, storeID uint, req *dto.RestockRequest) (*model.StoreInventory, error) {
	if req.Quantity < 0 {
		return nil, invalid("quantity", "must not be negative")
	}
	if req.Price.Valid && req.Price.Decimal.IsNegative() {
		return nil, invalid("price", "must not be negative")
	}

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

	if _, err := s.medicationRepo.FindByID(ctx, req.MedicationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Medication not found"}
		}
		return nil, fmt.Errorf("get medication: %w", err)
	}

	// omitted fields keep their stored values; new rows start in stock
	inStock := true
	var overwrite []string
	if req.Price.Valid {
		overwrite = append(overwrite, "price")
	}
	if req.InStock != nil {
		inStock = *req.InStock
		overwrite = append(overwrite, "in_stock")
	}

	var record *model.StoreInventory
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := s.inventoryRepo.Restock(ctx, tx, &model.StoreInventory{
			StoreID:      storeID,
			MedicationID: req.MedicationID,
			InStock:      inStock,
			Quantity:     req.Quantity,
			Price:        req.Price,
		}, overwrite...)
		if err != nil {
			return fmt.Errorf("restock inventory: %w", err)
		}

		record, err = s.inventoryRepo.Get(ctx, tx, storeID, req.MedicationID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("inventory restocked",
		zap.Uint("store_id", storeID),
		zap.Uint("medication_id", req.MedicationID),
		zap.Int32("added", req.Quantity),
		zap.Int32("quantity", record.Quantity))

	return record, nil
}
