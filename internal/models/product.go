package models

// Product represents a product in the store.
type Product struct {
	ID          uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string  `json:"name" gorm:"uniqueIndex;type:varchar(100)"`
	Description string  `json:"description" gorm:"type:varchar(200)"`
	Price       float64 `json:"price"`
	Qty         int     `json:"qty"`
}

// ProductRequest is the body accepted by create and update. All four fields
// are required; a present zero value such as "qty": 0 is valid.
type ProductRequest struct {
	Name        *string  `json:"name" validate:"required"`
	Description *string  `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required"`
	Qty         *int     `json:"qty" validate:"required"`
}

// ToProduct copies the request fields onto a Product with the given ID.
// It must only be called on a validated request.
func (r ProductRequest) ToProduct(id uint) Product {
	return Product{
		ID:          id,
		Name:        *r.Name,
		Description: *r.Description,
		Price:       *r.Price,
		Qty:         *r.Qty,
	}
}
