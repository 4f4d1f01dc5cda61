package models

import "time"

// DefaultSweetImage is used when a sweet is created without an image URL.
const DefaultSweetImage = "https://placehold.co/600x400/1f2937/fbbf24?text=Sweet"

// Sweet represents an inventory item in the shop.
// (Name, Category) pairs are unique; Quantity never goes negative.
type Sweet struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name      string    `json:"name" gorm:"uniqueIndex:idx_sweets_name_category;type:varchar(100)" validate:"required,max=100"`
	Category  string    `json:"category" gorm:"uniqueIndex:idx_sweets_name_category;type:varchar(50)" validate:"required,max=50"`
	Price     float64   `json:"price" validate:"gte=0"`
	Quantity  int       `json:"quantity" validate:"gte=0"`
	Image     string    `json:"image" validate:"omitempty,url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SweetUpdate carries a partial update; nil fields are left untouched.
type SweetUpdate struct {
	Name     *string  `json:"name" validate:"omitempty,max=100"`
	Category *string  `json:"category" validate:"omitempty,max=50"`
	Price    *float64 `json:"price" validate:"omitempty,gte=0"`
	Quantity *int     `json:"quantity" validate:"omitempty,gte=0"`
	Image    *string  `json:"image" validate:"omitempty,url"`
}
