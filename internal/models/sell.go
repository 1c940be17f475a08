package models

import "time"

type Sell struct {
	ID           int           `json:"id"`
	ProductID    int           `json:"product_id"`
	SellerUserID int           `json:"seller_user_id"`
	BuyerUserID  *int          `json:"buyer_user_id"`
	CreatedAt    time.Time     `json:"created_at"`
	Product      *Product      `json:"product,omitempty"`
	Seller       *PartySummary `json:"seller,omitempty"`
	Buyer        *PartySummary `json:"buyer,omitempty"`
}

type CreateSellRequest struct {
	ProductID   int  `json:"product_id" binding:"required"`
	BuyerUserID *int `json:"buyer_user_id"`
}
