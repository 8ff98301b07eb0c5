package repository_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"brewmenu/config"
	"brewmenu/models"
	"brewmenu/repository"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, config.AutoMigrate(db))
	return db
}

func TestDuplicateOrderCodeIsTranslated(t *testing.T) {
	repo := repository.NewGormOrderRepository(setupDB(t))

	first := &models.Order{OrderCode: "ORD-20250130-001", Status: models.OrderPending, PaymentStatus: models.PaymentUnpaid}
	require.NoError(t, repo.Create(first))

	dup := &models.Order{OrderCode: "ORD-20250130-001", Status: models.OrderPending, PaymentStatus: models.PaymentUnpaid}
	err := repo.Create(dup)
	assert.ErrorIs(t, err, repository.ErrDuplicateOrderCode,
		"the unique index must surface as the retryable sentinel")
}

func TestCountByCodePrefix(t *testing.T) {
	repo := repository.NewGormOrderRepository(setupDB(t))

	for i := 1; i <= 3; i++ {
		order := &models.Order{
			OrderCode:     fmt.Sprintf("ORD-20250130-%03d", i),
			Status:        models.OrderPending,
			PaymentStatus: models.PaymentUnpaid,
		}
		require.NoError(t, repo.Create(order))
	}
	other := &models.Order{OrderCode: "ORD-20250131-001", Status: models.OrderPending, PaymentStatus: models.PaymentUnpaid}
	require.NoError(t, repo.Create(other))

	count, err := repo.CountByCodePrefix("ORD-20250130")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestGetPreloadsItemsAndTable(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewGormOrderRepository(db)
	require.NoError(t, db.Create(&models.Table{ID: 5, TableNumber: "5"}).Error)

	tableID := uint(5)
	order := &models.Order{OrderCode: "ORD-20250130-001", TableID: &tableID, Status: models.OrderPending, PaymentStatus: models.PaymentUnpaid}
	require.NoError(t, repo.Create(order))
	require.NoError(t, repo.CreateItems([]models.OrderItem{
		{OrderID: order.ID, ProductID: 1, ProductName: "Americano", PriceAtTime: 75, Quantity: 2, Status: models.ItemPending},
	}))

	fetched, err := repo.Get(order.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Items, 1)
	require.NotNil(t, fetched.Table)
	assert.Equal(t, "5", fetched.Table.TableNumber)
}

func TestGetMissingOrder(t *testing.T) {
	repo := repository.NewGormOrderRepository(setupDB(t))
	_, err := repo.Get(42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteIsHard(t *testing.T) {
	repo := repository.NewGormOrderRepository(setupDB(t))

	order := &models.Order{OrderCode: "ORD-20250130-001", Status: models.OrderPending, PaymentStatus: models.PaymentUnpaid}
	require.NoError(t, repo.Create(order))
	require.NoError(t, repo.Delete(order.ID))

	_, err := repo.Get(order.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// the code is free again
	count, err := repo.CountByCodePrefix("ORD-20250130")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTableRepositoryStatusUpdate(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewGormTableRepository(db)
	require.NoError(t, db.Create(&models.Table{ID: 5, TableNumber: "A1"}).Error)

	require.NoError(t, repo.UpdateStatus(5, models.TableOccupied))
	table, err := repo.Get(5)
	require.NoError(t, err)
	assert.Equal(t, models.TableOccupied, table.Status)

	assert.ErrorIs(t, repo.UpdateStatus(99, models.TableOccupied), repository.ErrNotFound)
}
