package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Statuses the customer is still waiting on. Anything else resolves the
// locally remembered order.
var activeStatuses = map[string]bool{
	"pending":   true,
	"confirmed": true,
	"preparing": true,
}

// StatusSync keeps the device's idea of "my current order" consistent with
// the server, after reloads and across live updates.
type StatusSync struct {
	api  *OrderClient
	cart *CartStore
}

func NewStatusSync(api *OrderClient, cart *CartStore) *StatusSync {
	return &StatusSync{api: api, cart: cart}
}

// Reconcile re-derives the active-order reference from server truth. The
// freshest fetched snapshot is authoritative: an order that reached ready,
// served, paid or cancelled (or no longer exists) drops the reference; a
// transport failure keeps the last known local state untouched. Calling it
// again with no server change returns the same result.
func (s *StatusSync) Reconcile(ctx context.Context) (*Order, error) {
	id := s.cart.CurrentOrderID()
	if id == 0 {
		return nil, nil
	}

	order, err := s.api.GetOrder(ctx, id)
	if errors.Is(err, ErrOrderNotFound) {
		s.cart.ClearCurrentOrder()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !activeStatuses[order.Status] {
		s.cart.ClearCurrentOrder()
		return nil, nil
	}
	return order, nil
}

// Subscribe prepares a live subscription to the order change feed. Nothing
// connects until Start.
func (s *StatusSync) Subscribe() *Subscription {
	return &Subscription{sync: s}
}

// Subscription is a cancellable handle on the realtime feed. Each incoming
// event triggers a full Reconcile; the event payload itself is ignored,
// since delivery is at-least-once and unordered.
type Subscription struct {
	sync     *StatusSync
	conn     *websocket.Conn
	done     chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
	started  bool

	// OnChange, if set, receives each reconcile result (nil once the
	// order resolves). Set it before Start.
	OnChange func(*Order)
}

// Start dials the feed for the currently remembered order and begins
// reconciling on every event.
func (sub *Subscription) Start(ctx context.Context) error {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.started {
		return errors.New("subscription already started")
	}

	orderID := sub.sync.cart.CurrentOrderID()
	if orderID == 0 {
		return errors.New("no active order to watch")
	}

	url := fmt.Sprintf("%s/ws/orders?order_id=%d", wsBase(sub.sync.api.BaseURL), orderID)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return err
	}
	sub.conn = conn
	sub.done = make(chan struct{})
	sub.started = true

	go sub.loop(ctx)
	return nil
}

func (sub *Subscription) loop(ctx context.Context) {
	defer close(sub.done)
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
		order, err := sub.sync.Reconcile(ctx)
		if err != nil {
			// keep last-known local state; the next event retries
			logrus.Errorf("reconcile after change event: %v", err)
			continue
		}
		if sub.OnChange != nil {
			sub.OnChange(order)
		}
	}
}

// Stop closes the connection and waits for the read loop to exit. Safe to
// call more than once.
func (sub *Subscription) Stop() {
	sub.mu.Lock()
	started := sub.started
	sub.mu.Unlock()
	if !started {
		return
	}
	sub.stopOnce.Do(func() {
		sub.conn.Close()
		<-sub.done
	})
}

func wsBase(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base
}
