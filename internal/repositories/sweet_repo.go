package repositories

import "sweetshop/internal/models"

// SweetRepository defines the interface for sweet inventory data access.
//
// DecrementQuantity and IncrementQuantity must be atomic at the store level:
// concurrent calls against the same sweet may never interleave into a lost
// update or drive the quantity negative.
type SweetRepository interface {
	GetAll() ([]models.Sweet, error)
	GetByID(id string) (*models.Sweet, error)
	GetByNameAndCategory(name, category string) (*models.Sweet, error)
	Search(query string) ([]models.Sweet, error)
	Create(sweet *models.Sweet) error
	Update(sweet *models.Sweet) error
	Delete(id string) error
	DecrementQuantity(id string) (*models.Sweet, error)
	IncrementQuantity(id string, amount int) (*models.Sweet, error)
}
