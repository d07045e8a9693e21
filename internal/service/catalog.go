package service

import (
	"context"
	"errors"
	"fmt"
	"medifind/internal/model"
	"medifind/internal/repository"
	"strings"

	"gorm.io/gorm"
)

// CatalogService serves the read side: stores, medications and store inventory.
type CatalogService interface {
	ListStores(ctx context.Context, query string) ([]*model.Store, error)
	GetStore(ctx context.Context, storeID uint) (*model.Store, error)
	ListMedications(ctx context.Context, query string) ([]*model.Medication, error)
	GetMedication(ctx context.Context, medicationID uint) (*model.Medication, error)
	StoreInventory(ctx context.Context, storeID uint) ([]*model.StoreInventory, error)
	InventoryItem(ctx context.Context, storeID, medicationID uint) (*model.StoreInventory, error)
}

type catalogServiceImpl struct {
	storeRepo      repository.StoreRepository
	medicationRepo repository.MedicationRepository
	inventoryRepo  repository.InventoryRepository
}

func NewCatalogService(
	storeRepo repository.StoreRepository,
	medicationRepo repository.MedicationRepository,
	inventoryRepo repository.InventoryRepository,
) CatalogService {
	return &catalogServiceImpl{
		storeRepo:      storeRepo,
		medicationRepo: medicationRepo,
		inventoryRepo:  inventoryRepo,
	}
}

func (s *catalogServiceImpl) ListStores(ctx context.Context, query string) ([]*model.Store, error) {
	return s.storeRepo.List(ctx, strings.TrimSpace(query))
}

func (s *catalogServiceImpl) GetStore(ctx context.Context, storeID uint) (*model.Store, error) {
	store, err := s.storeRepo.Get(ctx, nil, storeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Message: "Store not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("get store: %w", err)
	}

	return store, nil
}

func (s *catalogServiceImpl) ListMedications(ctx context.Context, query string) ([]*model.Medication, error) {
	return s.medicationRepo.List(ctx, strings.TrimSpace(query))
}

func (s *catalogServiceImpl) GetMedication(ctx context.Context, medicationID uint) (*model.Medication, error) {
	medication, err := s.medicationRepo.FindByID(ctx, medicationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Message: "Medication not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("get medication: %w", err)
	}

	return medication, nil
}

func (s *catalogServiceImpl) StoreInventory(ctx context.Context, storeID uint) ([]*model.StoreInventory, error) {
	if _, err := s.GetStore(ctx, storeID); err != nil {
		return nil, err
	}

	return s.inventoryRepo.ListByStore(ctx, storeID)
}

func (s *catalogServiceImpl) InventoryItem(ctx context.Context, storeID, medicationID uint) (*model.StoreInventory, error) {
	item, err := s.inventoryRepo.GetWithMedication(ctx, storeID, medicationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Message: "Inventory item not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("get inventory item: %w", err)
	}

	return item, nil
}
