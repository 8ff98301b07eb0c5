package repository

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"brewmenu/models"
)

// MemoryStore is an in-process implementation of both OrderRepository and
// TableRepository. It enforces the same order_code uniqueness as the real
// schema, which makes it usable for exercising the code-collision retry
// path in tests and local development.
type MemoryStore struct {
	mu     sync.Mutex
	orders map[uint]*models.Order
	items  map[uint][]models.OrderItem
	tables map[uint]*models.Table
	codes  map[string]uint
	nextID uint
	itemID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders: make(map[uint]*models.Order),
		items:  make(map[uint][]models.OrderItem),
		tables: make(map[uint]*models.Table),
		codes:  make(map[string]uint),
	}
}

// AddTable seeds a table row.
func (s *MemoryStore) AddTable(table models.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if table.Status == "" {
		table.Status = models.TableAvailable
	}
	t := table
	s.tables[table.ID] = &t
}

func (s *MemoryStore) Create(order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.codes[order.OrderCode]; taken {
		return fmt.Errorf("%w: %s", ErrDuplicateOrderCode, order.OrderCode)
	}
	s.nextID++
	order.ID = s.nextID
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	s.codes[order.OrderCode] = order.ID
	stored := *order
	stored.Items = nil
	stored.Table = nil
	s.orders[order.ID] = &stored
	return nil
}

func (s *MemoryStore) CreateItems(items []models.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range items {
		s.itemID++
		items[i].ID = s.itemID
		s.items[items[i].OrderID] = append(s.items[items[i].OrderID], items[i])
	}
	return nil
}

func (s *MemoryStore) Delete(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order, ok := s.orders[id]; ok {
		delete(s.codes, order.OrderCode)
	}
	delete(s.orders, id)
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) Get(id uint) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *order
	out.Items = append([]models.OrderItem(nil), s.items[id]...)
	if order.TableID != nil {
		if table, ok := s.tables[*order.TableID]; ok {
			t := *table
			out.Table = &t
		}
	}
	return &out, nil
}

func (s *MemoryStore) List() ([]models.Order, error) {
	s.mu.Lock()
	ids := make([]uint, 0, len(s.orders))
	for id := range s.orders {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	// newest first
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	orders := make([]models.Order, 0, len(ids))
	for _, id := range ids {
		order, err := s.Get(id)
		if err != nil {
			continue
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func (s *MemoryStore) CountByCodePrefix(prefix string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for code := range s.codes {
		if len(code) >= len(prefix) && code[:len(prefix)] == prefix {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) Update(order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[order.ID]; !ok {
		return ErrNotFound
	}
	order.UpdatedAt = time.Now()
	stored := *order
	stored.Items = nil
	stored.Table = nil
	s.orders[order.ID] = &stored
	return nil
}

func (s *MemoryStore) UpdateItem(item *models.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.items[item.OrderID]
	for i := range items {
		if items[i].ID == item.ID {
			item.UpdatedAt = time.Now()
			items[i] = *item
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) GetTable(id uint) (*models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table, ok := s.tables[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *table
	return &out, nil
}

func (s *MemoryStore) ListTables() ([]models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint, 0, len(s.tables))
	for id := range s.tables {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	tables := make([]models.Table, 0, len(ids))
	for _, id := range ids {
		tables = append(tables, *s.tables[id])
	}
	return tables, nil
}

func (s *MemoryStore) UpdateTableStatus(id uint, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	table, ok := s.tables[id]
	if !ok {
		return ErrNotFound
	}
	table.Status = status
	table.UpdatedAt = time.Now()
	return nil
}

// Tables adapts the store to the TableRepository interface.
func (s *MemoryStore) Tables() TableRepository {
	return memoryTables{s}
}

type memoryTables struct {
	store *MemoryStore
}

func (t memoryTables) Get(id uint) (*models.Table, error) { return t.store.GetTable(id) }

func (t memoryTables) List() ([]models.Table, error) { return t.store.ListTables() }

func (t memoryTables) UpdateStatus(id uint, status string) error {
	return t.store.UpdateTableStatus(id, status)
}
