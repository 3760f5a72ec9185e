package domain

import (
	"github.com/shopspring/decimal"
)

func init() {
	// prices and totals go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

type (
	ProductID   string
	CategoryID  string
	OrderItemID string
	UserID      string
)

type Category struct {
	ID    CategoryID `json:"id,omitempty"`
	Name  string     `json:"name"`
	Icon  string     `json:"icon,omitempty"`
	Color string     `json:"color,omitempty"`
}

type Product struct {
	ID              ProductID       `json:"id,omitempty"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	RichDescription string          `json:"richDescription"`
	Image           string          `json:"image"`
	Images          []string        `json:"images"`
	Brand           string          `json:"brand"`
	Price           decimal.Decimal `json:"price"`
	Category        CategoryID      `json:"category"`
	CountInStock    int             `json:"countInStock"`
	Rating          decimal.Decimal `json:"rating"`
	NumReviews      int             `json:"numReviews"`
	IsFeatured      bool            `json:"isFeatured"`
	DateCreated     Timestamp       `json:"dateCreated"`
}

// LineItem is one (product, quantity) pair submitted with a new order.
type LineItem struct {
	Product  ProductID `json:"product" validate:"required"`
	Quantity int       `json:"quantity" validate:"min=1"`
}

type OrderItem struct {
	ID       OrderItemID `json:"id,omitempty"`
	Product  ProductID   `json:"product"`
	Quantity int         `json:"quantity"`
}

type Order struct {
	ID               string          `json:"id,omitempty"`
	OrderItems       []OrderItemID   `json:"orderItems"`
	ShippingAddress1 string          `json:"shippingAddress1"`
	ShippingAddress2 string          `json:"shippingAddress2"`
	City             string          `json:"city"`
	Zip              string          `json:"zip"`
	Country          string          `json:"country"`
	Phone            string          `json:"phone"`
	Status           string          `json:"status"`
	TotalPrice       decimal.Decimal `json:"totalPrice"`
	User             UserID          `json:"user"`
	DateOrdered      Timestamp       `json:"dateOrdered"`
}

// UserView is the only shape of an identity that leaves the service.
type UserView struct {
	ID          UserID `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}
