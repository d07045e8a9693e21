package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"medifind/internal/client"
	"medifind/internal/config"
	"medifind/internal/dto"
	"medifind/internal/model"
	"medifind/internal/repository"
	"medifind/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

const (
	ownerID    uint = 1
	customerID uint = 10
	strangerID uint = 11
	storeID    uint = 1
	otherStore uint = 2
)

type fixture struct {
	db            *gorm.DB
	orders        service.OrderService
	notifications service.NotificationService
	inventory     service.InventoryService
	inventoryRepo repository.InventoryRepository
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	policy    service.PricePolicy
	notifier  func(service.NotificationService) service.NotificationService
	orderRepo func(repository.OrderRepository) repository.OrderRepository
	ledger    func(repository.InventoryRepository) repository.InventoryRepository
}

func withPolicy(p service.PricePolicy) fixtureOption {
	return func(c *fixtureConfig) { c.policy = p }
}

func withNotifier(wrap func(service.NotificationService) service.NotificationService) fixtureOption {
	return func(c *fixtureConfig) { c.notifier = wrap }
}

func withOrderRepo(wrap func(repository.OrderRepository) repository.OrderRepository) fixtureOption {
	return func(c *fixtureConfig) { c.orderRepo = wrap }
}

// withLedger wraps the inventory repository seen by the order service.
func withLedger(wrap func(repository.InventoryRepository) repository.InventoryRepository) fixtureOption {
	return func(c *fixtureConfig) { c.ledger = wrap }
}

// newFixture builds the services on a fresh in-memory sqlite database holding
// two stores (store 1 owned by user 1, store 2 owned by user 2) and three
// medications with base prices 10.00, 20.00 and 5.00.
func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	cfg := fixtureConfig{policy: service.PricePolicyWarn}
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := client.InitDBClient(config.Database{
		Driver: "sqlite",
		URL:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	for _, u := range []*model.User{
		{ID: ownerID, Username: "lahore_store_1", Email: "lahore_store_1@example.com", Address: "123 Main Road", IsStore: true},
		{ID: 2, Username: "lahore_store_2", Email: "lahore_store_2@example.com", Address: "45 Gulberg III", IsStore: true},
		{ID: customerID, Username: "customer", Email: "customer@example.com", Address: "10 Mall Road"},
		{ID: strangerID, Username: "stranger", Email: "stranger@example.com", Address: "1 Canal Road"},
	} {
		require.NoError(t, db.Create(u).Error)
	}
	require.NoError(t, db.Create(&model.Store{ID: storeID, UserID: ownerID, Name: "MediCare Pharmacy", City: "Lahore"}).Error)
	require.NoError(t, db.Create(&model.Store{ID: otherStore, UserID: 2, Name: "Health First Pharmacy", City: "Lahore"}).Error)
	for _, m := range []*model.Medication{
		{ID: 1, Name: "Paracetamol", Price: dec("10.00")},
		{ID: 2, Name: "Amoxicillin", Price: dec("20.00")},
		{ID: 3, Name: "Cetirizine", Price: dec("5.00")},
	} {
		require.NoError(t, db.Create(m).Error)
	}

	logger := zaptest.NewLogger(t)
	storeRepo := repository.NewStoreRepository(db)
	medicationRepo := repository.NewMedicationRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	orderLedger := inventoryRepo
	if cfg.ledger != nil {
		orderLedger = cfg.ledger(inventoryRepo)
	}
	var orderRepo repository.OrderRepository = repository.NewOrderRepository(db)
	if cfg.orderRepo != nil {
		orderRepo = cfg.orderRepo(orderRepo)
	}

	notifications := service.NewNotificationService(repository.NewNotificationRepository(db))
	notifier := notifications
	if cfg.notifier != nil {
		notifier = cfg.notifier(notifications)
	}

	return &fixture{
		db: db,
		orders: service.NewOrderService(db, logger, cfg.policy,
			storeRepo, orderLedger, medicationRepo, orderRepo, notifier),
		notifications: notifications,
		inventory:     service.NewInventoryService(db, logger, storeRepo, medicationRepo, inventoryRepo),
		inventoryRepo: inventoryRepo,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// stock puts a record for medicationID in storeID. An empty price leaves the
// store price unset.
func (f *fixture) stock(t *testing.T, storeID, medicationID uint, quantity int32, inStock bool, price string) {
	t.Helper()

	record := &model.StoreInventory{StoreID: storeID, MedicationID: medicationID, InStock: inStock, Quantity: quantity}
	if price != "" {
		record.Price = decimal.NewNullDecimal(dec(price))
	}
	require.NoError(t, f.db.Create(record).Error)
}

func (f *fixture) quantity(t *testing.T, storeID, medicationID uint) int32 {
	t.Helper()

	record, err := f.inventoryRepo.Get(context.Background(), nil, storeID, medicationID)
	require.NoError(t, err)
	return record.Quantity
}

func (f *fixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

func (f *fixture) requireNoSideEffects(t *testing.T) {
	t.Helper()

	require.Zero(t, f.count(t, &model.Order{}), "orders")
	require.Zero(t, f.count(t, &model.OrderItem{}), "order items")
	require.Zero(t, f.count(t, &model.Notification{}), "notifications")
}

type line struct {
	medicationID uint
	quantity     int32
	price        string
}

func orderRequest(storeID uint, total string, lines ...line) *dto.PlaceOrderRequest {
	req := &dto.PlaceOrderRequest{
		Order: dto.OrderDetails{
			StoreID:     storeID,
			TotalAmount: dec(total),
			Status:      "pending",
			PickupTime:  "Today 5pm",
		},
	}
	for _, l := range lines {
		req.Items = append(req.Items, &dto.OrderLine{
			MedicationID: l.medicationID,
			Quantity:     l.quantity,
			Price:        dec(l.price),
		})
	}
	return req
}

// failingNotifier fails every emission.
type failingNotifier struct {
	service.NotificationService
}

func (failingNotifier) OrderPlaced(context.Context, *model.Order) error {
	return errors.New("notification store unavailable")
}

func (failingNotifier) OrderStatusChanged(context.Context, *model.Order) error {
	return errors.New("notification store unavailable")
}

// failingItemsRepo fails after the order row is written, to check rollback.
type failingItemsRepo struct {
	repository.OrderRepository
}

func (failingItemsRepo) CreateOrderItems(context.Context, *gorm.DB, []*model.OrderItem) error {
	return errors.New("disk full")
}

// staleLedger answers the first read of each record with ten more units than
// it holds, as if another order took them between the read and the update.
type staleLedger struct {
	repository.InventoryRepository

	mu   sync.Mutex
	seen map[uint]bool
}

func (l *staleLedger) Get(ctx context.Context, tx *gorm.DB, storeID, medicationID uint) (*model.StoreInventory, error) {
	record, err := l.InventoryRepository.Get(ctx, tx, storeID, medicationID)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seen == nil {
		l.seen = make(map[uint]bool)
	}
	if !l.seen[medicationID] {
		l.seen[medicationID] = true
		record.Quantity += 10
	}
	return record, nil
}

// recordingLedger remembers the record ids passed to Decrement.
type recordingLedger struct {
	repository.InventoryRepository

	decremented []uint
}

func (l *recordingLedger) Decrement(ctx context.Context, tx *gorm.DB, recordID uint, amount int32) (*model.StoreInventory, error) {
	l.decremented = append(l.decremented, recordID)
	return l.InventoryRepository.Decrement(ctx, tx, recordID, amount)
}
