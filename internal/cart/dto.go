package cart

import (
	"time"

	"github.com/arnarg/webshop-backend/pkg/db/models"
)

// CartDTO is the transport shape for an open cart.
type CartDTO struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user"`
	CreatedAt time.Time `json:"created"`
}

// LineDTO is the transport shape for a cart line.
type LineDTO struct {
	ID        int64     `json:"id"`
	CartID    int64     `json:"cart"`
	ProductID int64     `json:"product"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created"`
}

// CartDetail is an open cart with a page of its lines and the total over ALL
// lines, not just the returned page.
type CartDetail struct {
	Cart       CartDTO   `json:"cart"`
	Lines      []LineDTO `json:"lines"`
	TotalPrice int64     `json:"totalPrice"`
}

func CartFromModel(c *models.Cart) *CartDTO {
	if c == nil {
		return nil
	}
	return &CartDTO{
		ID:        c.ID,
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
	}
}

func LineFromModel(l *models.CartLine) *LineDTO {
	if l == nil {
		return nil
	}
	return &LineDTO{
		ID:        l.ID,
		CartID:    l.CartID,
		ProductID: l.ProductID,
		Amount:    l.Amount,
		CreatedAt: l.CreatedAt,
	}
}

func linesFromModels(rows []models.CartLine) []LineDTO {
	out := make([]LineDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *LineFromModel(&rows[i]))
	}
	return out
}
