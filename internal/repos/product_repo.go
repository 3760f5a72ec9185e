package repos

import (
	"context"

	"github.com/shopspring/decimal"

	"storefront/internal/docstore"
	"storefront/internal/domain"
)

type ProductRepo struct{ col docstore.Collection }

func NewProductRepo(store docstore.Store) *ProductRepo {
	return &ProductRepo{col: store.Collection("products")}
}

func decodeProduct(d docstore.Document) (domain.Product, error) {
	var p domain.Product
	if err := d.DataTo(&p); err != nil {
		return domain.Product{}, err
	}
	p.ID = domain.ProductID(d.ID)
	if p.Images == nil {
		p.Images = []string{}
	}
	return p, nil
}

func decodeProducts(docs []docstore.Document) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		p, err := decodeProduct(d)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	docs, err := r.col.List(ctx, docstore.Query{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return decodeProducts(docs)
}

func (r *ProductRepo) Featured(ctx context.Context, limit int) ([]domain.Product, error) {
	q := docstore.Where("isFeatured", "==", true)
	q.Limit = limit
	docs, err := r.col.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return decodeProducts(docs)
}

func (r *ProductRepo) Get(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	d, err := r.col.Get(ctx, string(id))
	if err != nil {
		return domain.Product{}, err
	}
	return decodeProduct(d)
}

// Price returns the unit price of one product; a missing product yields
// docstore.ErrNotFound.
func (r *ProductRepo) Price(ctx context.Context, id domain.ProductID) (decimal.Decimal, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return p.Price, nil
}

func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	return r.col.Count(ctx)
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.ID = ""
	if p.Images == nil {
		p.Images = []string{}
	}
	id, err := r.col.Add(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}
	return r.Get(ctx, domain.ProductID(id))
}

// Replace overwrites the editable field set. Images and dateCreated are kept.
func (r *ProductRepo) Replace(ctx context.Context, id domain.ProductID, p domain.Product) (domain.Product, error) {
	err := r.col.Update(ctx, string(id), map[string]any{
		"name":            p.Name,
		"description":     p.Description,
		"richDescription": p.RichDescription,
		"image":           p.Image,
		"brand":           p.Brand,
		"price":           p.Price,
		"category":        p.Category,
		"countInStock":    p.CountInStock,
		"rating":          p.Rating,
		"numReviews":      p.NumReviews,
		"isFeatured":      p.IsFeatured,
	})
	if err != nil {
		return domain.Product{}, err
	}
	return r.Get(ctx, id)
}

func (r *ProductRepo) SetImages(ctx context.Context, id domain.ProductID, urls []string) (domain.Product, error) {
	if urls == nil {
		urls = []string{}
	}
	if err := r.col.Update(ctx, string(id), map[string]any{"images": urls}); err != nil {
		return domain.Product{}, err
	}
	return r.Get(ctx, id)
}

func (r *ProductRepo) Delete(ctx context.Context, id domain.ProductID) error {
	return r.col.Delete(ctx, string(id))
}
