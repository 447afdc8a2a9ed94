package orders

import (
	"time"

	"github.com/arnarg/webshop-backend/internal/cart"
	"github.com/arnarg/webshop-backend/pkg/db/models"
)

// OrderDTO is the transport shape for a committed order.
type OrderDTO struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created"`
}

// OrderDetail is an order with a page of its lines and the total over ALL
// lines.
type OrderDetail struct {
	Order      OrderDTO       `json:"order"`
	Lines      []cart.LineDTO `json:"lines"`
	TotalPrice int64          `json:"totalPrice"`
}

// CommitInput carries everything needed to turn a cart into an order.
// CartID is only honored for privileged callers; everyone else commits their
// own open cart.
type CommitInput struct {
	UserID     int64
	CartID     int64
	Name       string
	Address    string
	Privileged bool
}

func fromModel(c *models.Cart) *OrderDTO {
	if c == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:        c.ID,
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
	}
	if c.Name != nil {
		dto.Name = *c.Name
	}
	if c.Address != nil {
		dto.Address = *c.Address
	}
	return dto
}
