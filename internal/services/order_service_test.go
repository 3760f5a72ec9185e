package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/docstore"
	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/services"
)

type orderFixture struct {
	svc   *services.OrderService
	prods *repos.ProductRepo
	items *repos.OrderItemRepo
}

// faultyStore fails Add or Get on one collection.
type faultyStore struct {
	docstore.Store
	coll    string
	failAdd error
	failGet error
}

func (s faultyStore) Collection(name string) docstore.Collection {
	c := s.Store.Collection(name)
	if name != s.coll {
		return c
	}
	return faultyCollection{Collection: c, failAdd: s.failAdd, failGet: s.failGet}
}

type faultyCollection struct {
	docstore.Collection
	failAdd error
	failGet error
}

func (c faultyCollection) Add(ctx context.Context, data any) (string, error) {
	if c.failAdd != nil {
		return "", c.failAdd
	}
	return c.Collection.Add(ctx, data)
}

func (c faultyCollection) Get(ctx context.Context, id string) (docstore.Document, error) {
	if c.failGet != nil {
		return docstore.Document{}, c.failGet
	}
	return c.Collection.Get(ctx, id)
}

func newOrderFixture(t *testing.T) orderFixture {
	return newOrderFixtureOn(t, func(s docstore.Store) docstore.Store { return s })
}

// newOrderFixtureOn lets wrap replace the store the order service writes to;
// products and the item counter use the real one.
func newOrderFixtureOn(t *testing.T, wrap func(docstore.Store) docstore.Store) orderFixture {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	base := docstore.NewSQLStore(db)
	store := wrap(base)

	prods := repos.NewProductRepo(base)
	svc := services.NewOrderService(repos.NewOrderRepo(store), repos.NewOrderItemRepo(store), services.NewPricingCalculator(prods))
	return orderFixture{svc: svc, prods: prods, items: repos.NewOrderItemRepo(base)}
}

func (f orderFixture) product(t *testing.T, price string) domain.ProductID {
	t.Helper()
	p, err := f.prods.Create(context.Background(), domain.Product{Name: "p" + price, Price: decimal.RequireFromString(price)})
	require.NoError(t, err)
	return p.ID
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	p1 := f.product(t, "10.0")
	p2 := f.product(t, "2.50")
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f.svc.Now = func() time.Time { return at }

	o, err := f.svc.Place(ctx, services.NewOrder{
		OrderItems: []domain.LineItem{{Product: p1, Quantity: 2}, {Product: p2, Quantity: 4}},
		City:       "C",
		Status:     "pending",
		User:       "U1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "30", o.TotalPrice.String())
	assert.True(t, at.Equal(o.DateOrdered.Time))
	require.Len(t, o.OrderItems, 2)

	first, err := f.items.Get(ctx, o.OrderItems[0])
	require.NoError(t, err)
	assert.Equal(t, domain.OrderItem{ID: o.OrderItems[0], Product: p1, Quantity: 2}, first)
	second, err := f.items.Get(ctx, o.OrderItems[1])
	require.NoError(t, err)
	assert.Equal(t, p2, second.Product, "item ids follow input order")
}

func TestPlaceOrderMissingProductWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	p1 := f.product(t, "10")

	_, err := f.svc.Place(ctx, services.NewOrder{
		OrderItems: []domain.LineItem{{Product: p1, Quantity: 1}, {Product: "ghost", Quantity: 1}},
	})
	require.ErrorIs(t, err, services.ErrMissingProduct)

	orders, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
	n, err := f.items.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPlaceOrderEmptyRejected(t *testing.T) {
	_, err := newOrderFixture(t).svc.Place(context.Background(), services.NewOrder{})
	assert.Error(t, err)
}

func TestOrderStatusListAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	p1 := f.product(t, "1")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		f.svc.Now = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		o, err := f.svc.Place(ctx, services.NewOrder{OrderItems: []domain.LineItem{{Product: p1, Quantity: 1}}})
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}

	orders, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{orders[0].ID, orders[1].ID, orders[2].ID})

	o, err := f.svc.UpdateStatus(ctx, ids[0], "shipped")
	require.NoError(t, err)
	assert.Equal(t, "shipped", o.Status)
	assert.Equal(t, "1", o.TotalPrice.String())

	_, err = f.svc.UpdateStatus(ctx, "missing", "shipped")
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	require.NoError(t, f.svc.Delete(ctx, ids[0]))
	_, err = f.svc.Get(ctx, ids[0])
	assert.ErrorIs(t, err, docstore.ErrNotFound)
	n, err := f.items.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "deleting an order leaves its items")
	assert.ErrorIs(t, f.svc.Delete(ctx, ids[0]), docstore.ErrNotFound)
}

func TestPlaceOrderFailedOrderWriteRemovesItems(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("orders unavailable")
	f := newOrderFixtureOn(t, func(s docstore.Store) docstore.Store {
		return faultyStore{Store: s, coll: "orders", failAdd: boom}
	})
	p1 := f.product(t, "10")
	p2 := f.product(t, "3")

	_, err := f.svc.Place(ctx, services.NewOrder{
		OrderItems: []domain.LineItem{{Product: p1, Quantity: 1}, {Product: p2, Quantity: 2}},
	})
	require.ErrorIs(t, err, boom)

	n, err := f.items.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "items written before the failure are deleted")
}

func TestPlaceOrderReadBackFailureStillReportsOrder(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixtureOn(t, func(s docstore.Store) docstore.Store {
		return faultyStore{Store: s, coll: "orders", failGet: errors.New("read failed")}
	})
	p1 := f.product(t, "10")

	o, err := f.svc.Place(ctx, services.NewOrder{
		OrderItems: []domain.LineItem{{Product: p1, Quantity: 2}},
		Status:     "pending",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "20", o.TotalPrice.String())
	assert.False(t, o.DateOrdered.IsZero())
	require.Len(t, o.OrderItems, 1)

	n, err := f.items.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
