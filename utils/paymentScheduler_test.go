package utils

import (
	"testing"
	"time"

	"elearn/database"
	paymentModels "elearn/models/payment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSchedulerDb(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}
}

func TestExpireStalePurchases(t *testing.T) {
	setupSchedulerDb(t)
	db := database.Database.Db

	stale := paymentModels.Purchase{
		StudentID:       1,
		CourseID:        1,
		Amount:          50,
		Status:          paymentModels.StatusPending,
		PaymentIntentID: "pi_stale",
		TransactionID:   uuid.NewString(),
	}
	stale.CreatedAt = time.Now().Add(-30 * time.Hour)
	require.NoError(t, db.Create(&stale).Error)

	fresh := paymentModels.Purchase{
		StudentID:       1,
		CourseID:        2,
		Amount:          50,
		Status:          paymentModels.StatusPending,
		PaymentIntentID: "pi_fresh",
		TransactionID:   uuid.NewString(),
	}
	require.NoError(t, db.Create(&fresh).Error)

	settled := paymentModels.Purchase{
		StudentID:       1,
		CourseID:        3,
		Amount:          50,
		Status:          paymentModels.StatusCompleted,
		PaymentIntentID: "pi_done",
		TransactionID:   uuid.NewString(),
	}
	settled.CreatedAt = time.Now().Add(-30 * time.Hour)
	require.NoError(t, db.Create(&settled).Error)

	ExpireStalePurchases()

	var reloadedStale paymentModels.Purchase
	require.NoError(t, db.First(&reloadedStale, stale.ID).Error)
	assert.Equal(t, paymentModels.StatusFailed, reloadedStale.Status)

	var reloadedFresh paymentModels.Purchase
	require.NoError(t, db.First(&reloadedFresh, fresh.ID).Error)
	assert.Equal(t, paymentModels.StatusPending, reloadedFresh.Status)

	var reloadedSettled paymentModels.Purchase
	require.NoError(t, db.First(&reloadedSettled, settled.ID).Error)
	assert.Equal(t, paymentModels.StatusCompleted, reloadedSettled.Status)
}
