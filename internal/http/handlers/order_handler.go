package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
)

type OrderHandler struct {
	Orders *services.OrderService
}

type statusUpdate struct {
	Status string `json:"status" validate:"required"`
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.Orders.List(c.UserContext())
	if err != nil {
		return respondError(c, "orders.list.fail", "Order", err)
	}
	return c.JSON(orders)
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "Order")
	if !ok {
		return err
	}
	o, err := h.Orders.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, "orders.get.fail", "Order", err)
	}
	return c.JSON(o)
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in services.NewOrder
	if ok, err := bind(c, &in); !ok {
		return err
	}
	o, err := h.Orders.Place(c.UserContext(), in)
	if err != nil {
		return respondError(c, "order.place.fail", "Order", err)
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": o.ID,
		"items":    len(o.OrderItems),
		"total":    o.TotalPrice.String(),
	})
	return c.JSON(o)
}

// Update changes the order status; other fields in the body are ignored.
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "Order")
	if !ok {
		return err
	}
	var in statusUpdate
	if ok, err := bind(c, &in); !ok {
		return err
	}
	status := strings.TrimSpace(in.Status)
	o, err := h.Orders.UpdateStatus(c.UserContext(), id, status)
	if err != nil {
		return respondError(c, "orders.update.fail", "Order", err)
	}
	applog.Audit(c, "orders.update", map[string]any{"order_id": id, "status": status})
	return c.JSON(o)
}

func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id, ok, err := pathID(c, "Order")
	if !ok {
		return err
	}
	if err := h.Orders.Delete(c.UserContext(), id); err != nil {
		return respondError(c, "orders.delete.fail", "Order", err)
	}
	applog.Audit(c, "orders.delete", map[string]any{"order_id": id})
	return c.JSON(fiber.Map{"success": true, "message": "Order deleted successfully"})
}
