package handlers

import (
	"storefront/internal/config"
	"storefront/internal/docstore"
	"storefront/internal/identity"
	"storefront/internal/media"
	"storefront/internal/repos"
	"storefront/internal/services"
)

type Deps struct {
	ProductHandler  *ProductHandler
	CategoryHandler *CategoryHandler
	OrderHandler    *OrderHandler
	UserHandler     *UserHandler
	HealthHandler   *HealthHandler
	MediaHandler    *MediaHandler
	Tokens          *services.TokenIssuer

	cfg config.Config
}

func NewDeps(store docstore.Store, users identity.Provider, cfg config.Config) *Deps {
	catRepo := repos.NewCategoryRepo(store)
	prodRepo := repos.NewProductRepo(store)
	orderRepo := repos.NewOrderRepo(store)
	itemRepo := repos.NewOrderItemRepo(store)

	tokens := services.NewTokenIssuer(cfg.Secret, cfg.TokenTTL)
	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	pricing := services.NewPricingCalculator(prodRepo)
	orderSvc := services.NewOrderService(orderRepo, itemRepo, pricing)
	authSvc := services.NewAuthService(users, tokens)
	userSvc := services.NewUserService(users)
	uploads := media.NewStore(cfg.UploadDir)

	return &Deps{
		ProductHandler:  &ProductHandler{Catalog: catalogSvc, Uploads: uploads},
		CategoryHandler: &CategoryHandler{Catalog: catalogSvc},
		OrderHandler:    &OrderHandler{Orders: orderSvc},
		UserHandler:     &UserHandler{Users: userSvc, Auth: authSvc},
		HealthHandler:   &HealthHandler{Store: store, Users: users},
		MediaHandler:    &MediaHandler{Dir: cfg.UploadDir},
		Tokens:          tokens,
		cfg:             cfg,
	}
}
