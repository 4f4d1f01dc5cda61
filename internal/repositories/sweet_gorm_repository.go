package repositories

import (
	"errors"
	"fmt"
	"strings"

	"sweetshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMSweetRepository is a GORM implementation of SweetRepository.
type GORMSweetRepository struct {
	db *gorm.DB
}

// NewGORMSweetRepository creates a new instance of GORMSweetRepository.
func NewGORMSweetRepository(db *gorm.DB) *GORMSweetRepository {
	return &GORMSweetRepository{
		db: db,
	}
}

// GetAll retrieves all sweets from the database.
func (r *GORMSweetRepository) GetAll() ([]models.Sweet, error) {
	var sweets []models.Sweet
	if err := r.db.Find(&sweets).Error; err != nil {
		return nil, fmt.Errorf("failed to get all sweets: %w", err)
	}
	return sweets, nil
}

// GetByID retrieves a single sweet by its ID from the database.
func (r *GORMSweetRepository) GetByID(id string) (*models.Sweet, error) {
	var sweet models.Sweet
	if err := r.db.First(&sweet, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("sweet ID %s: %w", id, models.ErrSweetNotFound)
		}
		return nil, fmt.Errorf("failed to get sweet by ID %s: %w", id, err)
	}
	return &sweet, nil
}

// GetByNameAndCategory retrieves the sweet with the given (name, category)
// pair, used for uniqueness checks.
func (r *GORMSweetRepository) GetByNameAndCategory(name, category string) (*models.Sweet, error) {
	var sweet models.Sweet
	if err := r.db.First(&sweet, "name = ? AND category = ?", name, category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("sweet %s/%s: %w", name, category, models.ErrSweetNotFound)
		}
		return nil, fmt.Errorf("failed to get sweet %s/%s: %w", name, category, err)
	}
	return &sweet, nil
}

// Search returns sweets whose name or category contains the query,
// case-insensitively.
func (r *GORMSweetRepository) Search(query string) ([]models.Sweet, error) {
	var sweets []models.Sweet
	pattern := "%" + strings.ToLower(query) + "%"
	err := r.db.
		Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern).
		Find(&sweets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search sweets for %q: %w", query, err)
	}
	return sweets, nil
}

// Create creates a new sweet in the database.
func (r *GORMSweetRepository) Create(sweet *models.Sweet) error {
	if sweet.ID == "" {
		sweet.ID = uuid.New().String()
	}
	if err := r.db.Create(sweet).Error; err != nil {
		return fmt.Errorf("failed to create sweet: %w", err)
	}
	return nil
}

// Update updates an existing sweet in the database.
func (r *GORMSweetRepository) Update(sweet *models.Sweet) error {
	res := r.db.Save(sweet) // Save writes all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update sweet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Save does not return ErrRecordNotFound for a missing row, so we
		// check RowsAffected.
		return fmt.Errorf("sweet ID %s: %w", sweet.ID, models.ErrSweetNotFound)
	}
	return nil
}

// Delete deletes a sweet by its ID from the database.
func (r *GORMSweetRepository) Delete(id string) error {
	res := r.db.Delete(&models.Sweet{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete sweet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("sweet ID %s: %w", id, models.ErrSweetNotFound)
	}
	return nil
}

// DecrementQuantity decrements the quantity by one as a single conditional
// UPDATE guarded by quantity > 0, so concurrent purchases of the last unit
// cannot both succeed. Returns the updated sweet.
func (r *GORMSweetRepository) DecrementQuantity(id string) (*models.Sweet, error) {
	res := r.db.Model(&models.Sweet{}).
		Where("id = ? AND quantity > 0", id).
		Update("quantity", gorm.Expr("quantity - 1"))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to decrement quantity for sweet %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the sweet is missing or its quantity is already zero.
		if _, err := r.GetByID(id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("sweet ID %s: %w", id, models.ErrOutOfStock)
	}
	return r.GetByID(id)
}

// IncrementQuantity increments the quantity by the given amount as a single
// UPDATE expression. Returns the updated sweet.
func (r *GORMSweetRepository) IncrementQuantity(id string, amount int) (*models.Sweet, error) {
	res := r.db.Model(&models.Sweet{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", amount))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to increment quantity for sweet %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("sweet ID %s: %w", id, models.ErrSweetNotFound)
	}
	return r.GetByID(id)
}
