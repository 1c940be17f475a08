package models

import "time"

type Product struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Description *string   `json:"description"`
	Images      []string  `json:"images"`
	Sold        bool      `json:"sold"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateProductRequest struct {
	Title       string   `json:"title" binding:"required,min=2,max=255"`
	Category    string   `json:"category" binding:"required,max=100"`
	Price       float64  `json:"price" binding:"required,gte=0"`
	Description *string  `json:"description"`
	Images      []string `json:"images"` // URLs only, upload handling lives elsewhere
}

// ProductOwner is the public owner info attached to product responses.
type ProductOwner struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
