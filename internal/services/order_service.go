package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/repos"
)

// NewOrder is the client-supplied part of an order.
type NewOrder struct {
	OrderItems       []domain.LineItem `json:"orderItems" validate:"required,min=1,dive"`
	ShippingAddress1 string            `json:"shippingAddress1"`
	ShippingAddress2 string            `json:"shippingAddress2"`
	City             string            `json:"city"`
	Zip              string            `json:"zip"`
	Country          string            `json:"country"`
	Phone            string            `json:"phone"`
	Status           string            `json:"status"`
	User             domain.UserID     `json:"user"`
}

type OrderService struct {
	Orders  *repos.OrderRepo
	Items   *repos.OrderItemRepo
	Pricing *PricingCalculator
	Now     func() time.Time
}

func NewOrderService(orders *repos.OrderRepo, items *repos.OrderItemRepo, pricing *PricingCalculator) *OrderService {
	return &OrderService{Orders: orders, Items: items, Pricing: pricing, Now: time.Now}
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.Orders.ListLatest(ctx)
}

func (s *OrderService) Get(ctx context.Context, id string) (domain.Order, error) {
	return s.Orders.Get(ctx, id)
}

// Place prices the order, writes one OrderItem per line and then the Order.
// Pricing runs first so a missing product leaves nothing behind; if a later
// write fails the OrderItems already written are deleted again.
func (s *OrderService) Place(ctx context.Context, in NewOrder) (domain.Order, error) {
	if len(in.OrderItems) == 0 {
		return domain.Order{}, errors.New("order has no items")
	}

	total, err := s.Pricing.Total(ctx, in.OrderItems)
	if err != nil {
		return domain.Order{}, err
	}

	ids := make([]domain.OrderItemID, len(in.OrderItems))
	g, gctx := errgroup.WithContext(ctx)
	for i, it := range in.OrderItems {
		g.Go(func() error {
			id, err := s.Items.Insert(gctx, domain.OrderItem{Product: it.Product, Quantity: it.Quantity})
			if err != nil {
				return err
			}
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Order{}, s.rollbackItems(ctx, ids, err)
	}

	o := domain.Order{
		OrderItems:       ids,
		ShippingAddress1: in.ShippingAddress1,
		ShippingAddress2: in.ShippingAddress2,
		City:             in.City,
		Zip:              in.Zip,
		Country:          in.Country,
		Phone:            in.Phone,
		Status:           in.Status,
		TotalPrice:       total,
		User:             in.User,
		DateOrdered:      domain.NewTimestamp(s.Now()),
	}
	orderID, err := s.Orders.Create(ctx, o)
	if err != nil {
		return domain.Order{}, s.rollbackItems(ctx, ids, err)
	}
	// the order is stored; a failed read-back must not report it as failed
	o.ID = orderID
	return o, nil
}

// rollbackItems deletes the OrderItems written for a failed order and
// returns cause joined with any cleanup failure.
func (s *OrderService) rollbackItems(ctx context.Context, ids []domain.OrderItemID, cause error) error {
	ctx = context.WithoutCancel(ctx)
	errs := []error{cause}
	for _, id := range ids {
		if id == "" {
			continue
		}
		if err := s.Items.Delete(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("cleanup order item %s: %w", id, err))
		}
	}
	if len(errs) == 1 {
		return cause
	}
	applog.Warn("order.place.cleanup", errors.Join(errs[1:]...), map[string]any{"items": len(ids)})
	return errors.Join(errs...)
}

// UpdateStatus changes only the status of an existing order.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (domain.Order, error) {
	if err := s.Orders.UpdateStatus(ctx, id, status); err != nil {
		return domain.Order{}, err
	}
	return s.Orders.Get(ctx, id)
}

// Delete removes the order record. Its OrderItems are not deleted.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.Orders.Delete(ctx, id)
}
