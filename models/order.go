package models

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID        uuid.UUID   `json:"id"`
	UserID    *uuid.UUID  `json:"user_id"`
	PromoCode *string     `json:"promo_code"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Items     []OrderItem `json:"items,omitempty"`
}

// OrderItem links an order to a product. UnitPrice is the catalog price
// captured when the item was added or last touched, not a live reference.
type OrderItem struct {
	ID        int64     `json:"-"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	Count     int       `json:"count"`
	UnitPrice int64     `json:"unit_price"`
	Product   *Product  `json:"product,omitempty"`
}

type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Count     int       `json:"count" binding:"required,min=1"`
}

type OrderItemPatch struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Count     *int      `json:"count"`
}

type OrderCreateRequest struct {
	UserID    *uuid.UUID `json:"user_id"`
	PromoCode *string    `json:"promo_code"`
}

type OrderCreateWithProductsRequest struct {
	UserID    *uuid.UUID       `json:"user_id"`
	PromoCode *string          `json:"promo_code"`
	Products  []OrderItemInput `json:"products"`
}

// OrderPatch is the explicit optional-field set applied during an update.
// SetUserID / SetPromoCode mark which scalar fields the request carried,
// so a PATCH leaves unmentioned fields alone while a PUT writes them all.
// Items is always patch-style: associations not named here stay untouched.
type OrderPatch struct {
	SetUserID    bool
	UserID       *uuid.UUID
	SetPromoCode bool
	PromoCode    *string
	Items        []OrderItemPatch
}

type OrderEvent struct {
	OrderID  uuid.UUID `json:"order_id"`
	Type     string    `json:"type"` // created, updated, deleted
	Occurred time.Time `json:"occurred"`
}
