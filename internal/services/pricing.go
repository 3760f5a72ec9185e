package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"storefront/internal/docstore"
	"storefront/internal/domain"
)

var ErrMissingProduct = errors.New("product not found")

type PriceLookup interface {
	Price(ctx context.Context, id domain.ProductID) (decimal.Decimal, error)
}

type PricingCalculator struct {
	Products PriceLookup
}

func NewPricingCalculator(products PriceLookup) *PricingCalculator {
	return &PricingCalculator{Products: products}
}

// Total returns sum(price(product) * quantity) over items. Lookups run
// concurrently; the first failure cancels the rest and fails the total.
func (p *PricingCalculator) Total(ctx context.Context, items []domain.LineItem) (decimal.Decimal, error) {
	subtotals := make([]decimal.Decimal, len(items))
	g, ctx := errgroup.WithContext(ctx)
	for i, it := range items {
		g.Go(func() error {
			price, err := p.Products.Price(ctx, it.Product)
			if errors.Is(err, docstore.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrMissingProduct, it.Product)
			}
			if err != nil {
				return err
			}
			subtotals[i] = price.Mul(decimal.NewFromInt(int64(it.Quantity)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, subtotals...), nil
}
