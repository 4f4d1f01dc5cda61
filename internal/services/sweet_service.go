package services

import (
	"fmt"
	"log"
	"strings"

	"sweetshop/internal/models"
	"sweetshop/internal/repositories"
	"sweetshop/pkg/rabbitmq"
)

// SweetService handles business logic for the sweet inventory.
type SweetService struct {
	repo     repositories.SweetRepository
	mqClient *rabbitmq.Client
}

// NewSweetService creates a new SweetService. mqClient may be nil, in which
// case inventory events are not published.
func NewSweetService(repo repositories.SweetRepository, mqClient *rabbitmq.Client) *SweetService {
	return &SweetService{
		repo:     repo,
		mqClient: mqClient,
	}
}

// GetAllSweets retrieves all sweets.
func (s *SweetService) GetAllSweets() ([]models.Sweet, error) {
	return s.repo.GetAll()
}

// GetSweetByID retrieves a single sweet by its ID.
func (s *SweetService) GetSweetByID(id string) (*models.Sweet, error) {
	return s.repo.GetByID(id)
}

// SearchSweets returns sweets whose name or category contains the query,
// case-insensitively. An empty query is rejected.
func (s *SweetService) SearchSweets(query string) ([]models.Sweet, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.ErrMissingQuery
	}
	return s.repo.Search(query)
}

// CreateSweet creates a new sweet after checking the (name, category)
// uniqueness invariant. A missing image falls back to the placeholder.
func (s *SweetService) CreateSweet(sweet *models.Sweet) error {
	if existing, err := s.repo.GetByNameAndCategory(sweet.Name, sweet.Category); err == nil && existing != nil {
		return fmt.Errorf("sweet %s/%s: %w", sweet.Name, sweet.Category, models.ErrDuplicateSweet)
	}
	if sweet.Image == "" {
		sweet.Image = models.DefaultSweetImage
	}
	if err := s.repo.Create(sweet); err != nil {
		return err
	}
	s.publishEvent("sweet.created", sweet)
	return nil
}

// UpdateSweet merges the supplied fields onto the existing record,
// re-validates the uniqueness invariant and saves. Returns the updated sweet.
func (s *SweetService) UpdateSweet(id string, input *models.SweetUpdate) (*models.Sweet, error) {
	sweet, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		sweet.Name = *input.Name
	}
	if input.Category != nil {
		sweet.Category = *input.Category
	}
	if input.Price != nil {
		sweet.Price = *input.Price
	}
	if input.Quantity != nil {
		sweet.Quantity = *input.Quantity
	}
	if input.Image != nil {
		sweet.Image = *input.Image
	}

	if existing, err := s.repo.GetByNameAndCategory(sweet.Name, sweet.Category); err == nil && existing != nil && existing.ID != sweet.ID {
		return nil, fmt.Errorf("sweet %s/%s: %w", sweet.Name, sweet.Category, models.ErrDuplicateSweet)
	}

	if err := s.repo.Update(sweet); err != nil {
		return nil, err
	}
	return sweet, nil
}

// DeleteSweet deletes a sweet by its ID.
func (s *SweetService) DeleteSweet(id string) error {
	return s.repo.Delete(id)
}

// PurchaseSweet decrements the quantity by one. The repository performs the
// decrement as a single conditional mutation, so concurrent purchases of the
// last unit cannot both succeed.
func (s *SweetService) PurchaseSweet(id string) (*models.Sweet, error) {
	sweet, err := s.repo.DecrementQuantity(id)
	if err != nil {
		return nil, err
	}
	s.publishEvent("sweet.purchased", sweet)
	return sweet, nil
}

// RestockSweet increments the quantity by the given amount, which must be a
// positive number.
func (s *SweetService) RestockSweet(id string, amount int) (*models.Sweet, error) {
	if amount < 1 {
		return nil, fmt.Errorf("restock amount %d: %w", amount, models.ErrInvalidAmount)
	}
	sweet, err := s.repo.IncrementQuantity(id, amount)
	if err != nil {
		return nil, err
	}
	s.publishEvent("sweet.restocked", sweet)
	return sweet, nil
}

// publishEvent emits an inventory event when a RabbitMQ client is configured.
// Publish failures are logged, never surfaced to the request.
func (s *SweetService) publishEvent(event string, sweet *models.Sweet) {
	if s.mqClient == nil {
		return
	}
	err := s.mqClient.PublishInventoryEvent(rabbitmq.InventoryEvent{
		Event:    event,
		SweetID:  sweet.ID,
		Name:     sweet.Name,
		Quantity: sweet.Quantity,
	})
	if err != nil {
		log.Printf("Warning: failed to publish %s event for sweet %s: %v", event, sweet.ID, err)
	}
}
