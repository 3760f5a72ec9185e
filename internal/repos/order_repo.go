package repos

import (
	"context"

	"storefront/internal/docstore"
	"storefront/internal/domain"
)

type OrderRepo struct{ col docstore.Collection }

func NewOrderRepo(store docstore.Store) *OrderRepo {
	return &OrderRepo{col: store.Collection("orders")}
}

func decodeOrder(d docstore.Document) (domain.Order, error) {
	var o domain.Order
	if err := d.DataTo(&o); err != nil {
		return domain.Order{}, err
	}
	o.ID = d.ID
	if o.OrderItems == nil {
		o.OrderItems = []domain.OrderItemID{}
	}
	return o, nil
}

// ListLatest returns every order, newest dateOrdered first.
func (r *OrderRepo) ListLatest(ctx context.Context) ([]domain.Order, error) {
	docs, err := r.col.List(ctx, docstore.Query{OrderBy: "dateOrdered", Dir: docstore.Desc})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(docs))
	for _, d := range docs {
		o, err := decodeOrder(d)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	d, err := r.col.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	return decodeOrder(d)
}

func (r *OrderRepo) Create(ctx context.Context, o domain.Order) (string, error) {
	o.ID = ""
	return r.col.Add(ctx, o)
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.col.Update(ctx, id, map[string]any{"status": status})
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	return r.col.Delete(ctx, id)
}

type OrderItemRepo struct{ col docstore.Collection }

func NewOrderItemRepo(store docstore.Store) *OrderItemRepo {
	return &OrderItemRepo{col: store.Collection("orderItems")}
}

func (r *OrderItemRepo) Insert(ctx context.Context, it domain.OrderItem) (domain.OrderItemID, error) {
	it.ID = ""
	id, err := r.col.Add(ctx, it)
	return domain.OrderItemID(id), err
}

func (r *OrderItemRepo) Get(ctx context.Context, id domain.OrderItemID) (domain.OrderItem, error) {
	d, err := r.col.Get(ctx, string(id))
	if err != nil {
		return domain.OrderItem{}, err
	}
	var it domain.OrderItem
	if err := d.DataTo(&it); err != nil {
		return domain.OrderItem{}, err
	}
	it.ID = domain.OrderItemID(d.ID)
	return it, nil
}

func (r *OrderItemRepo) Delete(ctx context.Context, id domain.OrderItemID) error {
	return r.col.Delete(ctx, string(id))
}

func (r *OrderItemRepo) Count(ctx context.Context) (int, error) {
	return r.col.Count(ctx)
}
