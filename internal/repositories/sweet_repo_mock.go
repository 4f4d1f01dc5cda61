package repositories

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"sweetshop/internal/models"

	"github.com/google/uuid"
)

// MockSweetRepository is an in-memory implementation of SweetRepository.
// All quantity mutations happen under the write lock, which gives the same
// atomicity guarantee the conditional UPDATE provides in the GORM
// implementation.
type MockSweetRepository struct {
	sweets map[string]models.Sweet
	mu     sync.RWMutex
}

// NewMockSweetRepository creates a new instance of MockSweetRepository.
func NewMockSweetRepository() *MockSweetRepository {
	return &MockSweetRepository{
		sweets: make(map[string]models.Sweet),
	}
}

// GetAll returns all sweets.
func (r *MockSweetRepository) GetAll() ([]models.Sweet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sweetList := make([]models.Sweet, 0, len(r.sweets))
	for _, s := range r.sweets {
		sweetList = append(sweetList, s)
	}
	return sweetList, nil
}

// GetByID returns a sweet by its ID.
func (r *MockSweetRepository) GetByID(id string) (*models.Sweet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sweet, ok := r.sweets[id]
	if !ok {
		return nil, fmt.Errorf("sweet ID %s: %w", id, models.ErrSweetNotFound)
	}
	return &sweet, nil
}

// GetByNameAndCategory returns the sweet with the given (name, category) pair.
func (r *MockSweetRepository) GetByNameAndCategory(name, category string) (*models.Sweet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sweets {
		if s.Name == name && s.Category == category {
			sweet := s
			return &sweet, nil
		}
	}
	return nil, fmt.Errorf("sweet %s/%s: %w", name, category, models.ErrSweetNotFound)
}

// Search returns sweets whose name or category contains the query,
// case-insensitively.
func (r *MockSweetRepository) Search(query string) ([]models.Sweet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	var matches []models.Sweet
	for _, s := range r.sweets {
		if strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(strings.ToLower(s.Category), q) {
			matches = append(matches, s)
		}
	}
	return matches, nil
}

// Create adds a new sweet.
func (r *MockSweetRepository) Create(sweet *models.Sweet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sweet.ID == "" {
		sweet.ID = uuid.New().String()
	}
	sweet.CreatedAt = time.Now()
	sweet.UpdatedAt = time.Now()
	r.sweets[sweet.ID] = *sweet
	return nil
}

// Update modifies an existing sweet.
func (r *MockSweetRepository) Update(sweet *models.Sweet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sweets[sweet.ID]
	if !ok {
		return fmt.Errorf("sweet ID %s: %w", sweet.ID, models.ErrSweetNotFound)
	}
	sweet.UpdatedAt = time.Now()
	r.sweets[sweet.ID] = *sweet
	return nil
}

// Delete removes a sweet by its ID.
func (r *MockSweetRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sweets[id]
	if !ok {
		return fmt.Errorf("sweet ID %s: %w", id, models.ErrSweetNotFound)
	}
	delete(r.sweets, id)
	return nil
}

// DecrementQuantity decrements the quantity by one if it is positive.
func (r *MockSweetRepository) DecrementQuantity(id string) (*models.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sweet, ok := r.sweets[id]
	if !ok {
		return nil, fmt.Errorf("sweet ID %s: %w", id, models.ErrSweetNotFound)
	}
	if sweet.Quantity < 1 {
		return nil, fmt.Errorf("sweet ID %s: %w", id, models.ErrOutOfStock)
	}
	sweet.Quantity--
	sweet.UpdatedAt = time.Now()
	r.sweets[id] = sweet
	return &sweet, nil
}

// IncrementQuantity increments the quantity by the given amount.
func (r *MockSweetRepository) IncrementQuantity(id string, amount int) (*models.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sweet, ok := r.sweets[id]
	if !ok {
		return nil, fmt.Errorf("sweet ID %s: %w", id, models.ErrSweetNotFound)
	}
	sweet.Quantity += amount
	sweet.UpdatedAt = time.Now()
	r.sweets[id] = sweet
	return &sweet, nil
}
