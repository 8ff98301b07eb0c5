package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"brewmenu/models"
	"brewmenu/repository"
	"brewmenu/utils"
)

var (
	ErrEmptyOrder        = errors.New("order has no items")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type SubmitProduct struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name_th"`
	NameEn   string  `json:"name_en"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url"`
}

type SubmitItem struct {
	Product        SubmitProduct   `json:"product"`
	Quantity       int             `json:"quantity"`
	Notes          string          `json:"notes"`
	Customizations json.RawMessage `json:"customizations"`
}

type SubmitRequest struct {
	TableID             *uint        `json:"table_id"`
	Items               []SubmitItem `json:"items"`
	TotalAmount         float64      `json:"total_amount"`
	SpecialInstructions string       `json:"special_instructions"`
	CustomerName        string       `json:"customer_name"`
}

// OrderUpdate carries the optional fields a staff PATCH may change.
type OrderUpdate struct {
	Status         *string  `json:"status"`
	PaymentStatus  *string  `json:"payment_status"`
	PaymentMethod  *string  `json:"payment_method"`
	DiscountAmount *float64 `json:"discount_amount"`
	CustomerName   *string  `json:"customer_name"`
}

// OrderService owns the order lifecycle: submission, status and payment
// transitions, and the table occupancy that follows them. Repositories are
// injected so tests can swap in the in-memory store.
type OrderService struct {
	orders repository.OrderRepository
	tables repository.TableRepository
	now    func() time.Time
}

func NewOrderService(orders repository.OrderRepository, tables repository.TableRepository) *OrderService {
	return &OrderService{
		orders: orders,
		tables: tables,
		now:    time.Now,
	}
}

// Submit turns a cart into a durable order. Sequence: allocate a day-scoped
// code (retrying on collision), insert the order, insert the item snapshots
// (hard-deleting the order if that fails, so a zero-item order never
// persists), then best-effort mark the table occupied.
func (s *OrderService) Submit(req SubmitRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	var order *models.Order
	for attempt := 1; attempt <= orderCodeAttempts; attempt++ {
		code, err := s.nextOrderCode(s.now())
		if err != nil {
			return nil, err
		}
		candidate := &models.Order{
			OrderCode:           code,
			TableID:             req.TableID,
			Status:              models.OrderPending,
			PaymentStatus:       models.PaymentUnpaid,
			TotalAmount:         req.TotalAmount,
			FinalAmount:         req.TotalAmount,
			CustomerName:        req.CustomerName,
			SpecialInstructions: req.SpecialInstructions,
		}
		err = s.orders.Create(candidate)
		if err == nil {
			order = candidate
			break
		}
		if errors.Is(err, repository.ErrDuplicateOrderCode) && attempt < orderCodeAttempts {
			// concurrent submission grabbed the same sequence; recount
			continue
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		quantity := line.Quantity
		if quantity < 1 {
			quantity = 1
		}
		items = append(items, models.OrderItem{
			OrderID:        order.ID,
			ProductID:      line.Product.ID,
			ProductName:    line.Product.Name,
			ProductNameEn:  line.Product.NameEn,
			PriceAtTime:    line.Product.Price,
			Quantity:       quantity,
			Notes:          line.Notes,
			Customizations: string(line.Customizations),
			Status:         models.ItemPending,
		})
	}
	if err := s.orders.CreateItems(items); err != nil {
		if delErr := s.orders.Delete(order.ID); delErr != nil {
			utils.ErrorLogger.Printf("compensating delete of order %d failed: %v", order.ID, delErr)
		}
		return nil, fmt.Errorf("create order items: %w", err)
	}
	order.Items = items

	if req.TableID != nil {
		if err := s.tables.UpdateStatus(*req.TableID, models.TableOccupied); err != nil {
			// the order exists; a stale table flag is tolerable
			utils.ErrorLogger.Printf("table %d not marked occupied after order %s: %v",
				*req.TableID, order.OrderCode, err)
		}
	}

	return order, nil
}

func (s *OrderService) Get(id uint) (*models.Order, error) {
	return s.orders.Get(id)
}

func (s *OrderService) List() ([]models.Order, error) {
	return s.orders.List()
}

// Update applies a staff-side partial update. Status moves one forward step
// at a time (or to cancelled), payment follows unpaid->paid->refunded, and
// each lifecycle timestamp is stamped only the first time its transition
// happens.
func (s *OrderService) Update(id uint, upd OrderUpdate) (*models.Order, error) {
	order, err := s.orders.Get(id)
	if err != nil {
		return nil, err
	}

	if upd.Status != nil && *upd.Status != order.Status {
		if !models.IsOrderStatus(*upd.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, *upd.Status)
		}
		if !models.CanTransitionOrder(order.Status, *upd.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, *upd.Status)
		}
		if err := s.checkItemsFor(order, *upd.Status); err != nil {
			return nil, err
		}
		s.applyStatus(order, *upd.Status)
	}

	if upd.PaymentStatus != nil {
		if !models.IsPaymentStatus(*upd.PaymentStatus) {
			return nil, fmt.Errorf("%w: unknown payment status %q", ErrInvalidTransition, *upd.PaymentStatus)
		}
		if !models.CanTransitionPayment(order.PaymentStatus, *upd.PaymentStatus) {
			return nil, fmt.Errorf("%w: payment %s -> %s", ErrInvalidTransition, order.PaymentStatus, *upd.PaymentStatus)
		}
		if *upd.PaymentStatus == models.PaymentPaid && order.PaidAt == nil {
			now := s.now()
			order.PaidAt = &now
		}
		order.PaymentStatus = *upd.PaymentStatus
	}

	if upd.PaymentMethod != nil {
		order.PaymentMethod = *upd.PaymentMethod
	}
	if upd.CustomerName != nil {
		order.CustomerName = *upd.CustomerName
	}
	if upd.DiscountAmount != nil {
		order.DiscountAmount = *upd.DiscountAmount
		order.FinalAmount = order.TotalAmount - order.DiscountAmount
	}

	if err := s.orders.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

// Cancel is the public delete: the row stays, status flips to cancelled and
// the table is released. Cancelling twice is a no-op.
func (s *OrderService) Cancel(id uint) (*models.Order, error) {
	order, err := s.orders.Get(id)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderCancelled {
		return order, nil
	}
	if !models.CanTransitionOrder(order.Status, models.OrderCancelled) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, models.OrderCancelled)
	}
	order.Status = models.OrderCancelled
	if err := s.orders.Update(order); err != nil {
		return nil, err
	}
	s.releaseTable(order)
	return order, nil
}

// UpdateItemStatus advances one line's fulfillment state and keeps the
// order-level status in lockstep: first line cooking moves the order to
// preparing, the last line reaching ready rolls the order to ready.
func (s *OrderService) UpdateItemStatus(orderID, itemID uint, status string) (*models.Order, error) {
	if !models.IsItemStatus(status) {
		return nil, fmt.Errorf("%w: unknown item status %q", ErrInvalidTransition, status)
	}
	order, err := s.orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if models.IsTerminalOrderStatus(order.Status) {
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidTransition, order.Status)
	}

	var item *models.OrderItem
	for i := range order.Items {
		if order.Items[i].ID == itemID {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		return nil, repository.ErrNotFound
	}
	if !models.CanTransitionItem(item.Status, status) {
		return nil, fmt.Errorf("%w: item %s -> %s", ErrInvalidTransition, item.Status, status)
	}
	item.Status = status
	if err := s.orders.UpdateItem(item); err != nil {
		return nil, err
	}

	next := ""
	switch status {
	case models.ItemCooking:
		next = models.OrderPreparing
	case models.ItemReady:
		allReady := true
		for i := range order.Items {
			if !models.ItemAtLeast(order.Items[i].Status, models.ItemReady) {
				allReady = false
				break
			}
		}
		if allReady {
			next = models.OrderReady
		}
	}
	if next != "" && models.CanTransitionOrder(order.Status, next) {
		s.applyStatus(order, next)
		if err := s.orders.Update(order); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func (s *OrderService) applyStatus(order *models.Order, status string) {
	now := s.now()
	switch status {
	case models.OrderConfirmed:
		if order.ConfirmedAt == nil {
			order.ConfirmedAt = &now
		}
	case models.OrderServed:
		if order.CompletedAt == nil {
			order.CompletedAt = &now
		}
	case models.OrderPaid:
		if order.PaidAt == nil {
			order.PaidAt = &now
		}
	}
	order.Status = status
	if models.IsTerminalOrderStatus(status) {
		s.releaseTable(order)
	}
}

// checkItemsFor blocks order-level status from outrunning the lines: the
// order may not be served (or paid) while a line is still behind served.
func (s *OrderService) checkItemsFor(order *models.Order, status string) error {
	if status != models.OrderServed && status != models.OrderPaid {
		return nil
	}
	for i := range order.Items {
		if !models.ItemAtLeast(order.Items[i].Status, models.ItemServed) {
			return fmt.Errorf("%w: item %d is still %s", ErrInvalidTransition,
				order.Items[i].ID, order.Items[i].Status)
		}
	}
	return nil
}

func (s *OrderService) releaseTable(order *models.Order) {
	if order.TableID == nil {
		return
	}
	if err := s.tables.UpdateStatus(*order.TableID, models.TableAvailable); err != nil {
		utils.ErrorLogger.Printf("table %d not released after order %s: %v",
			*order.TableID, order.OrderCode, err)
	}
}
