package client

import (
	"encoding/json"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
)

// Storage keys, shared with the web frontend's localStorage.
const (
	cartKey  = "brewmenu_cart"
	tableKey = "brewmenu_tableId"
	orderKey = "brewmenu_currentOrderId"
)

// Product is the denormalized catalog snapshot captured into a cart line at
// add time. Later catalog edits do not touch it.
type Product struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name_th"`
	NameEn   string  `json:"name_en,omitempty"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url,omitempty"`
}

type CartLine struct {
	Product        Product         `json:"product"`
	Quantity       int             `json:"quantity"`
	Notes          string          `json:"notes,omitempty"`
	Customizations json.RawMessage `json:"customizations,omitempty"`
}

// CartStore is the device-local staging area for an order: pending lines,
// the scanned table, and a reference to the in-flight order if one exists.
// Every mutation persists a snapshot so a reload starts where it left off.
// Single writer per device; two tabs on one table may diverge.
type CartStore struct {
	mu             sync.Mutex
	storage        Storage
	items          []CartLine
	tableID        string
	currentOrderID uint
}

// NewCartStore loads any persisted state. Corrupt or missing snapshots are
// dropped rather than failing the session.
func NewCartStore(storage Storage) *CartStore {
	cs := &CartStore{storage: storage}

	if data, err := storage.Load(cartKey); err == nil && data != nil {
		var items []CartLine
		if err := json.Unmarshal(data, &items); err == nil {
			cs.items = items
		} else {
			logrus.Errorf("Error loading cart: %v", err)
		}
	}
	if data, err := storage.Load(tableKey); err == nil && data != nil {
		cs.tableID = string(data)
	}
	if data, err := storage.Load(orderKey); err == nil && data != nil {
		if id, err := strconv.ParseUint(string(data), 10, 32); err == nil {
			cs.currentOrderID = uint(id)
		}
	}
	return cs
}

// AddItem merges into an existing line for the same product, otherwise
// appends. quantity < 1 counts as 1.
func (cs *CartStore) AddItem(product Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for i := range cs.items {
		if cs.items[i].Product.ID == product.ID {
			cs.items[i].Quantity += quantity
			cs.persistCart()
			return
		}
	}
	cs.items = append(cs.items, CartLine{Product: product, Quantity: quantity})
	cs.persistCart()
}

// RemoveItem deletes the line for productID; no-op if absent.
func (cs *CartStore) RemoveItem(productID uint) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.removeLocked(productID)
	cs.persistCart()
}

// UpdateQuantity sets a line's quantity exactly. Zero or negative removes
// the line; a line never stays at quantity <= 0.
func (cs *CartStore) UpdateQuantity(productID uint, quantity int) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if quantity <= 0 {
		cs.removeLocked(productID)
		cs.persistCart()
		return
	}
	for i := range cs.items {
		if cs.items[i].Product.ID == productID {
			cs.items[i].Quantity = quantity
			break
		}
	}
	cs.persistCart()
}

func (cs *CartStore) removeLocked(productID uint) {
	kept := cs.items[:0]
	for _, line := range cs.items {
		if line.Product.ID != productID {
			kept = append(kept, line)
		}
	}
	cs.items = kept
}

// ClearCart empties the lines and forgets the current order reference. The
// caller must only invoke this after an observed submission success.
func (cs *CartStore) ClearCart() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.items = nil
	cs.currentOrderID = 0
	if err := cs.storage.Delete(cartKey); err != nil {
		logrus.Errorf("Error clearing cart: %v", err)
	}
	if err := cs.storage.Delete(orderKey); err != nil {
		logrus.Errorf("Error clearing order reference: %v", err)
	}
}

// SetTableID records the scanned table for this session, persisted
// immediately so a reload keeps it.
func (cs *CartStore) SetTableID(id string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.tableID = id
	if err := cs.storage.Save(tableKey, []byte(id)); err != nil {
		logrus.Errorf("Error saving tableId: %v", err)
	}
}

func (cs *CartStore) TableID() string {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.tableID
}

// SetCurrentOrderID remembers the in-flight order for reconciliation after
// a reload.
func (cs *CartStore) SetCurrentOrderID(id uint) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.currentOrderID = id
	if err := cs.storage.Save(orderKey, []byte(strconv.FormatUint(uint64(id), 10))); err != nil {
		logrus.Errorf("Error saving order reference: %v", err)
	}
}

func (cs *CartStore) CurrentOrderID() uint {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.currentOrderID
}

// ClearCurrentOrder drops the active-order reference, keeping the cart.
func (cs *CartStore) ClearCurrentOrder() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.currentOrderID = 0
	if err := cs.storage.Delete(orderKey); err != nil {
		logrus.Errorf("Error clearing order reference: %v", err)
	}
}

// Items returns a copy of the current lines.
func (cs *CartStore) Items() []CartLine {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]CartLine(nil), cs.items...)
}

func (cs *CartStore) Total() float64 {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	var total float64
	for _, line := range cs.items {
		total += line.Product.Price * float64(line.Quantity)
	}
	return total
}

func (cs *CartStore) ItemCount() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	var count int
	for _, line := range cs.items {
		count += line.Quantity
	}
	return count
}

// persistCart writes the full snapshot. Persistence failures never fail the
// mutation; the next mutation retries with the full state anyway.
func (cs *CartStore) persistCart() {
	data, err := json.Marshal(cs.items)
	if err != nil {
		logrus.Errorf("Error saving cart: %v", err)
		return
	}
	if err := cs.storage.Save(cartKey, data); err != nil {
		logrus.Errorf("Error saving cart: %v", err)
	}
}
