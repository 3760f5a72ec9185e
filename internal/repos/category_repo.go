package repos

import (
	"context"

	"storefront/internal/docstore"
	"storefront/internal/domain"
)

type CategoryRepo struct{ col docstore.Collection }

func NewCategoryRepo(store docstore.Store) *CategoryRepo {
	return &CategoryRepo{col: store.Collection("categories")}
}

func decodeCategory(d docstore.Document) (domain.Category, error) {
	var c domain.Category
	if err := d.DataTo(&c); err != nil {
		return domain.Category{}, err
	}
	c.ID = domain.CategoryID(d.ID)
	return c, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	docs, err := r.col.List(ctx, docstore.Query{OrderBy: "name"})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(docs))
	for _, d := range docs {
		c, err := decodeCategory(d)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *CategoryRepo) Get(ctx context.Context, id domain.CategoryID) (domain.Category, error) {
	d, err := r.col.Get(ctx, string(id))
	if err != nil {
		return domain.Category{}, err
	}
	return decodeCategory(d)
}

func (r *CategoryRepo) Create(ctx context.Context, c domain.Category) (domain.Category, error) {
	c.ID = ""
	id, err := r.col.Add(ctx, c)
	if err != nil {
		return domain.Category{}, err
	}
	return r.Get(ctx, domain.CategoryID(id))
}

func (r *CategoryRepo) Replace(ctx context.Context, id domain.CategoryID, c domain.Category) (domain.Category, error) {
	err := r.col.Update(ctx, string(id), map[string]any{
		"name":  c.Name,
		"icon":  c.Icon,
		"color": c.Color,
	})
	if err != nil {
		return domain.Category{}, err
	}
	return r.Get(ctx, id)
}

func (r *CategoryRepo) Delete(ctx context.Context, id domain.CategoryID) error {
	return r.col.Delete(ctx, string(id))
}
