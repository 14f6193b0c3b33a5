package services

import (
	"context"
	"strings"

	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/repository"
	"github.com/sjperalta/dealership-api/internal/validation"
)

// CustomerService manages buyers and leads
type CustomerService struct {
	repo     repository.CustomerRepository
	saleRepo repository.SaleRepository
	auditSvc *AuditService
}

func NewCustomerService(repo repository.CustomerRepository, saleRepo repository.SaleRepository, auditSvc *AuditService) *CustomerService {
	return &CustomerService{repo: repo, saleRepo: saleRepo, auditSvc: auditSvc}
}

func (s *CustomerService) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	return customer, translate(err, "cliente")
}

func (s *CustomerService) List(ctx context.Context, query *repository.ListQuery) ([]models.Customer, int64, error) {
	return s.repo.List(ctx, query)
}

// Sales lists the sales of a customer
func (s *CustomerService) Sales(ctx context.Context, id uint, query *repository.ListQuery) ([]models.Sale, int64, error) {
	if _, err := s.FindByID(ctx, id); err != nil {
		return nil, 0, err
	}
	if query.Filters == nil {
		query.Filters = map[string]string{}
	}
	query.Filters["customer_id"] = uintString(id)
	return s.saleRepo.List(ctx, query)
}

func (s *CustomerService) Create(ctx context.Context, form validation.CustomerForm) (*models.Customer, error) {
	if err := validation.ValidateCustomer(form).Err(); err != nil {
		return nil, err
	}
	customer := &models.Customer{}
	applyCustomerForm(customer, form)

	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	s.auditSvc.Log(ctx, models.AuditActionCreate, "Customer", customer.ID, "Cliente creado: %s", customer.Name)
	return customer, nil
}

func (s *CustomerService) Update(ctx context.Context, id uint, form validation.CustomerForm) (*models.Customer, error) {
	if err := validation.ValidateCustomer(form).Err(); err != nil {
		return nil, err
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "cliente")
	}
	applyCustomerForm(customer, form)

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	s.auditSvc.Log(ctx, models.AuditActionUpdate, "Customer", customer.ID, "Cliente actualizado: %s", customer.Name)
	return customer, nil
}

// Delete soft deletes a customer; historical sales keep showing it.
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, models.AuditActionDelete, "Customer", id, "Cliente eliminado")
	return nil
}

// createFromSale registers the inline customer of a sale form
func (s *CustomerService) createFromSale(ctx context.Context, form validation.SaleForm) (*models.Customer, error) {
	customer := &models.Customer{
		Name:  strings.TrimSpace(form.NewCustomerName),
		Phone: validation.NormalizePhone(form.NewCustomerPhone),
		Email: optionalString(form.NewCustomerEmail),
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	s.auditSvc.Log(ctx, models.AuditActionCreate, "Customer", customer.ID, "Cliente creado desde venta: %s", customer.Name)
	return customer, nil
}

func applyCustomerForm(c *models.Customer, form validation.CustomerForm) {
	c.Name = strings.TrimSpace(form.Name)
	c.Phone = validation.NormalizePhone(form.Phone)
	c.Email = optionalString(strings.ToLower(form.Email))
	c.DocumentID = optionalString(form.DocumentID)
	c.Address = optionalString(form.Address)
	c.Notes = optionalString(form.Notes)
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
