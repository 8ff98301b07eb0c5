package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"brewmenu/models"
)

// GormOrderRepository implements OrderRepository on a *gorm.DB. The DB must
// be opened with TranslateError so duplicate-key violations surface as
// gorm.ErrDuplicatedKey.
type GormOrderRepository struct {
	DB *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{DB: db}
}

func (r *GormOrderRepository) Create(order *models.Order) error {
	if err := r.DB.Omit("Items", "Table").Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ErrDuplicateOrderCode, order.OrderCode)
		}
		return err
	}
	return nil
}

func (r *GormOrderRepository) CreateItems(items []models.OrderItem) error {
	return r.DB.Create(&items).Error
}

func (r *GormOrderRepository) Delete(id uint) error {
	return r.DB.Unscoped().Delete(&models.Order{}, id).Error
}

func (r *GormOrderRepository) Get(id uint) (*models.Order, error) {
	var order models.Order
	err := r.DB.Preload("Items").Preload("Table").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) List() ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.Preload("Items").Preload("Table").
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) CountByCodePrefix(prefix string) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Order{}).
		Where("order_code LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}

func (r *GormOrderRepository) Update(order *models.Order) error {
	return r.DB.Omit("Items", "Table").Save(order).Error
}

func (r *GormOrderRepository) UpdateItem(item *models.OrderItem) error {
	return r.DB.Save(item).Error
}

// GormTableRepository implements TableRepository on a *gorm.DB.
type GormTableRepository struct {
	DB *gorm.DB
}

func NewGormTableRepository(db *gorm.DB) *GormTableRepository {
	return &GormTableRepository{DB: db}
}

func (r *GormTableRepository) Get(id uint) (*models.Table, error) {
	var table models.Table
	err := r.DB.First(&table, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *GormTableRepository) List() ([]models.Table, error) {
	var tables []models.Table
	err := r.DB.Order("id ASC").Find(&tables).Error
	return tables, err
}

func (r *GormTableRepository) UpdateStatus(id uint, status string) error {
	res := r.DB.Model(&models.Table{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// RowsAffected is also 0 when the value did not change, so
		// only a missing row is an error
		var count int64
		if err := r.DB.Model(&models.Table{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
	}
	return nil
}
