package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/docstore"
	"storefront/internal/domain"
	"storefront/internal/repos"
)

var ErrInvalidCategory = errors.New("invalid category")

// ProductInput is the editable field set of a product, accepted as JSON or
// as multipart form fields.
type ProductInput struct {
	Name            string            `json:"name" form:"name"`
	Description     string            `json:"description" form:"description"`
	RichDescription string            `json:"richDescription" form:"richDescription"`
	Image           string            `json:"image" form:"image"`
	Brand           string            `json:"brand" form:"brand"`
	Price           decimal.Decimal   `json:"price" form:"price"`
	Category        domain.CategoryID `json:"category" form:"category"`
	CountInStock    int               `json:"countInStock" form:"countInStock" validate:"gte=0"`
	Rating          decimal.Decimal   `json:"rating" form:"rating"`
	NumReviews      int               `json:"numReviews" form:"numReviews" validate:"gte=0"`
	IsFeatured      bool              `json:"isFeatured" form:"isFeatured"`
}

func (in ProductInput) product() domain.Product {
	return domain.Product{
		Name:            in.Name,
		Description:     in.Description,
		RichDescription: in.RichDescription,
		Image:           in.Image,
		Brand:           in.Brand,
		Price:           in.Price,
		Category:        in.Category,
		CountInStock:    in.CountInStock,
		Rating:          in.Rating,
		NumReviews:      in.NumReviews,
		IsFeatured:      in.IsFeatured,
	}
}

type CategoryInput struct {
	Name  string `json:"name" validate:"required"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
	Now   func() time.Time
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods, Now: time.Now}
}

// ListProducts returns every product when pageSize is 0.
func (s *CatalogService) ListProducts(ctx context.Context, page, pageSize int) ([]domain.Product, error) {
	if pageSize <= 0 {
		return s.Prods.List(ctx, 0, 0)
	}
	if page < 1 {
		page = 1
	}
	return s.Prods.List(ctx, pageSize, (page-1)*pageSize)
}

func (s *CatalogService) GetProduct(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	return s.Prods.Get(ctx, id)
}

func (s *CatalogService) CountProducts(ctx context.Context) (int, error) {
	return s.Prods.Count(ctx)
}

func (s *CatalogService) Featured(ctx context.Context, n int) ([]domain.Product, error) {
	if n <= 0 {
		return []domain.Product{}, nil
	}
	return s.Prods.Featured(ctx, n)
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (domain.Product, error) {
	if err := s.checkCategory(ctx, in.Category); err != nil {
		return domain.Product{}, err
	}
	p := in.product()
	p.DateCreated = domain.NewTimestamp(s.Now())
	return s.Prods.Create(ctx, p)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id domain.ProductID, in ProductInput) (domain.Product, error) {
	if err := s.checkCategory(ctx, in.Category); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Replace(ctx, id, in.product())
}

// SetGallery replaces the product's images with urls.
func (s *CatalogService) SetGallery(ctx context.Context, id domain.ProductID, urls []string) (domain.Product, error) {
	return s.Prods.SetImages(ctx, id, urls)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id domain.ProductID) error {
	return s.Prods.Delete(ctx, id)
}

// checkCategory resolves a non-empty category reference.
func (s *CatalogService) checkCategory(ctx context.Context, id domain.CategoryID) error {
	if id == "" {
		return nil
	}
	_, err := s.Cats.Get(ctx, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrInvalidCategory, id)
	}
	return err
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.Cats.List(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id domain.CategoryID) (domain.Category, error) {
	return s.Cats.Get(ctx, id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (domain.Category, error) {
	return s.Cats.Create(ctx, domain.Category{Name: in.Name, Icon: in.Icon, Color: in.Color})
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id domain.CategoryID, in CategoryInput) (domain.Category, error) {
	return s.Cats.Replace(ctx, id, domain.Category{Name: in.Name, Icon: in.Icon, Color: in.Color})
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id domain.CategoryID) error {
	return s.Cats.Delete(ctx, id)
}
