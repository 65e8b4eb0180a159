package services

import (
	"context"
	"errors"

	"github.com/diewo77/go-ledger/internal/models"
	"github.com/diewo77/go-ledger/internal/validation"
	"gorm.io/gorm"
)

type CustomerInput struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
}

type CustomerService struct {
	db     *gorm.DB
	policy Policy
}

func NewCustomerService(db *gorm.DB, policy Policy) *CustomerService {
	return &CustomerService{db: db, policy: policy}
}

func (s *CustomerService) validate(in CustomerInput) error {
	v := validation.Violations{}
	if s.policy.RequireCustomerName {
		validation.Required("name", in.Name, v)
	}
	return checkViolations(v)
}

// List returns the roster, newest first.
func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	customers := []models.Customer{}
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&customers).Error; err != nil {
		return nil, storeErr("list customers", err)
	}
	return customers, nil
}

func (s *CustomerService) Get(ctx context.Context, id string) (*models.Customer, error) {
	var c models.Customer
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr("get customer", err)
	}
	return &c, nil
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	c := models.Customer{Name: in.Name, Contact: in.Contact, Phone: in.Phone}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, storeErr("create customer", err)
	}
	return &c, nil
}

// Update replaces the editable fields. Payments keep the customer name
// they were recorded with.
func (s *CustomerService) Update(ctx context.Context, id string, in CustomerInput) (*models.Customer, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name, c.Contact, c.Phone = in.Name, in.Contact, in.Phone
	if err := s.db.WithContext(ctx).Model(c).
		Select("name", "contact", "phone").
		Updates(map[string]any{"name": c.Name, "contact": c.Contact, "phone": c.Phone}).Error; err != nil {
		return nil, storeErr("update customer", err)
	}
	return c, nil
}
