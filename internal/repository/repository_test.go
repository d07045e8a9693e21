package repository_test

import (
	"context"
	"testing"

	"medifind/internal/client"
	"medifind/internal/config"
	"medifind/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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
	return db
}

// seedCatalog creates one store (id 1, owner 1) and medications 1 and 2.
func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()

	require.NoError(t, db.Create(&model.User{ID: 1, Username: "owner", Email: "owner@example.com", Address: "x", IsStore: true}).Error)
	require.NoError(t, db.Create(&model.Store{ID: 1, UserID: 1, Name: "MediCare Pharmacy", Address: "123 Main Road", City: "Lahore"}).Error)
	require.NoError(t, db.Create(&model.Medication{ID: 1, Name: "Paracetamol", Category: "Pain Relief", Price: decimal.RequireFromString("5.99")}).Error)
	require.NoError(t, db.Create(&model.Medication{ID: 2, Name: "Amoxicillin", Category: "Antibiotics", Price: decimal.RequireFromString("12.99")}).Error)
}

func quantityOf(t *testing.T, db *gorm.DB, storeID, medicationID uint) int32 {
	t.Helper()

	var record model.StoreInventory
	require.NoError(t, db.WithContext(context.Background()).
		Where("store_id = ? AND medication_id = ?", storeID, medicationID).
		First(&record).Error)
	return record.Quantity
}
