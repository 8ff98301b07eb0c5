package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var americano = Product{ID: 1, Name: "Americano", Price: 75}
var latte = Product{ID: 2, Name: "Latte", Price: 85}

func TestAddItemMergesSameProduct(t *testing.T) {
	cart := NewCartStore(NewMemoryStorage())

	cart.AddItem(americano, 1)
	cart.AddItem(americano, 1)

	items := cart.Items()
	require.Len(t, items, 1, "re-adding must merge, not duplicate")
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 2, cart.ItemCount())
	assert.Equal(t, 150.0, cart.Total())
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	cart := NewCartStore(NewMemoryStorage())
	cart.AddItem(americano, 0)
	require.Len(t, cart.Items(), 1)
	assert.Equal(t, 1, cart.Items()[0].Quantity)
}

func TestUpdateQuantitySetsExactValue(t *testing.T) {
	cart := NewCartStore(NewMemoryStorage())
	cart.AddItem(americano, 2)
	cart.UpdateQuantity(americano.ID, 5)
	assert.Equal(t, 5, cart.Items()[0].Quantity)
}

func TestQuantityFloorRemovesLine(t *testing.T) {
	cart := NewCartStore(NewMemoryStorage())
	cart.AddItem(americano, 2)
	cart.AddItem(latte, 1)

	cart.UpdateQuantity(americano.ID, 0)
	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, latte.ID, items[0].Product.ID)

	cart.UpdateQuantity(latte.ID, -3)
	assert.Empty(t, cart.Items(), "negative quantity removes the line")
}

func TestRemoveItemMissingIsNoop(t *testing.T) {
	cart := NewCartStore(NewMemoryStorage())
	cart.AddItem(americano, 1)
	cart.RemoveItem(99)
	assert.Len(t, cart.Items(), 1)
}

func TestCartSurvivesReload(t *testing.T) {
	storage := NewMemoryStorage()

	cart := NewCartStore(storage)
	cart.AddItem(americano, 2)
	cart.SetTableID("5")
	cart.SetCurrentOrderID(42)

	// a new store over the same storage is "the page after reload"
	reloaded := NewCartStore(storage)
	require.Len(t, reloaded.Items(), 1)
	assert.Equal(t, 2, reloaded.Items()[0].Quantity)
	assert.Equal(t, "5", reloaded.TableID())
	assert.Equal(t, uint(42), reloaded.CurrentOrderID())
}

func TestCartSurvivesReloadOnDisk(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewFileStorage(dir)
	require.NoError(t, err)

	cart := NewCartStore(storage)
	cart.AddItem(latte, 3)
	cart.SetTableID("A1")

	reloaded := NewCartStore(storage)
	require.Len(t, reloaded.Items(), 1)
	assert.Equal(t, 3, reloaded.Items()[0].Quantity)
	assert.Equal(t, "A1", reloaded.TableID())
}

func TestCorruptSnapshotStartsEmpty(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Save(cartKey, []byte("{not json")))

	cart := NewCartStore(storage)
	assert.Empty(t, cart.Items())
}

func TestClearCartDropsItemsAndOrderRef(t *testing.T) {
	storage := NewMemoryStorage()
	cart := NewCartStore(storage)
	cart.AddItem(americano, 1)
	cart.SetTableID("5")
	cart.SetCurrentOrderID(7)

	cart.ClearCart()
	assert.Empty(t, cart.Items())
	assert.Zero(t, cart.CurrentOrderID())
	assert.Equal(t, "5", cart.TableID(), "table association outlives the cart")

	reloaded := NewCartStore(storage)
	assert.Empty(t, reloaded.Items())
	assert.Zero(t, reloaded.CurrentOrderID())
	assert.Equal(t, "5", reloaded.TableID())
}

func TestSnapshotFrozenAtAddTime(t *testing.T) {
	cart := NewCartStore(NewMemoryStorage())
	product := americano
	cart.AddItem(product, 1)

	// a later catalog price change must not touch the captured line
	product.Price = 999
	assert.Equal(t, 75.0, cart.Items()[0].Product.Price)
	assert.Equal(t, 75.0, cart.Total())
}
