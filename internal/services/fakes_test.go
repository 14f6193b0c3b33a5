package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/repository"
	"gorm.io/gorm"
)

// In-memory fakes. Each embeds its repository interface so unused methods
// panic if a test reaches them unexpectedly.

type fakeVehicleRepo struct {
	repository.VehicleRepository
	vehicles        map[uint]*models.Vehicle
	updateStatusErr error
}

func newFakeVehicleRepo(vehicles ...*models.Vehicle) *fakeVehicleRepo {
	r := &fakeVehicleRepo{vehicles: map[uint]*models.Vehicle{}}
	for _, v := range vehicles {
		r.vehicles[v.ID] = v
	}
	return r
}

func (r *fakeVehicleRepo) FindByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	v, ok := r.vehicles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *v
	return &copied, nil
}

func (r *fakeVehicleRepo) Update(ctx context.Context, vehicle *models.Vehicle) error {
	copied := *vehicle
	r.vehicles[vehicle.ID] = &copied
	return nil
}

func (r *fakeVehicleRepo) List(ctx context.Context, query *repository.ListQuery) ([]models.Vehicle, int64, error) {
	out := make([]models.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		if status := query.Filter("status"); status != "" && v.Status != status {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeVehicleRepo) CountByBrand(ctx context.Context, brandID uint) (int64, error) {
	var n int64
	for _, v := range r.vehicles {
		if v.BrandID == brandID {
			n++
		}
	}
	return n, nil
}

func (r *fakeVehicleRepo) CountByModel(ctx context.Context, modelID uint) (int64, error) {
	var n int64
	for _, v := range r.vehicles {
		if v.ModelID == modelID {
			n++
		}
	}
	return n, nil
}

func (r *fakeVehicleRepo) UpdateStatus(ctx context.Context, id uint, from, to string) error {
	if r.updateStatusErr != nil {
		return r.updateStatusErr
	}
	v, ok := r.vehicles[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v.Status != from {
		return repository.ErrStaleStatus
	}
	v.Status = to
	return nil
}

// staleVehicleRepo serves a fixed snapshot on reads while writes reach the
// shared store, like a second request that read the row before the first wrote it.
type staleVehicleRepo struct {
	*fakeVehicleRepo
	snapshot models.Vehicle
}

func (r *staleVehicleRepo) FindByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	copied := r.snapshot
	return &copied, nil
}

type fakeSaleRepo struct {
	repository.SaleRepository
	sales  map[uint]*models.Sale
	nextID uint
	// vehicles resolves the Vehicle association like the real preload
	vehicles *fakeVehicleRepo
}

func newFakeSaleRepo(vehicles *fakeVehicleRepo) *fakeSaleRepo {
	return &fakeSaleRepo{sales: map[uint]*models.Sale{}, nextID: 1, vehicles: vehicles}
}

func (r *fakeSaleRepo) Create(ctx context.Context, sale *models.Sale) error {
	sale.ID = r.nextID
	r.nextID++
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now()
	}
	copied := *sale
	r.sales[sale.ID] = &copied
	return nil
}

func (r *fakeSaleRepo) Update(ctx context.Context, sale *models.Sale) error {
	if _, ok := r.sales[sale.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *sale
	r.sales[sale.ID] = &copied
	return nil
}

func (r *fakeSaleRepo) FindByID(ctx context.Context, id uint) (*models.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s
	if r.vehicles != nil {
		if v, err := r.vehicles.FindByID(ctx, s.VehicleID); err == nil {
			copied.Vehicle = *v
		}
	}
	return &copied, nil
}

func (r *fakeSaleRepo) List(ctx context.Context, query *repository.ListQuery) ([]models.Sale, int64, error) {
	out := make([]models.Sale, 0, len(r.sales))
	customerID, byCustomer := query.FilterUint("customer_id")
	for _, s := range r.sales {
		if byCustomer && (s.CustomerID == nil || *s.CustomerID != customerID) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := int64(len(out))
	if query.PerPage > 0 && len(out) > query.PerPage {
		out = out[:query.PerPage]
	}
	return out, total, nil
}

func (r *fakeSaleRepo) ListOpenPromissory(ctx context.Context) ([]models.Sale, error) {
	var out []models.Sale
	for _, s := range r.sales {
		if s.IsPromissory() && !s.IsCanceled() {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeHistoryRepo struct {
	repository.PaymentHistoryRepository
	entries []models.PaymentHistory
}

func (r *fakeHistoryRepo) Create(ctx context.Context, entry *models.PaymentHistory) error {
	entry.ID = uint(len(r.entries) + 1)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoryRepo) FindBySale(ctx context.Context, saleID uint) ([]models.PaymentHistory, error) {
	var out []models.PaymentHistory
	for _, e := range r.entries {
		if e.SaleID == saleID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeCustomerRepo struct {
	repository.CustomerRepository
	customers map[uint]*models.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[uint]*models.Customer{}}
}

func (r *fakeCustomerRepo) Create(ctx context.Context, c *models.Customer) error {
	c.ID = uint(len(r.customers) + 1)
	copied := *c
	r.customers[c.ID] = &copied
	return nil
}

func (r *fakeCustomerRepo) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, c *models.Customer) error {
	if _, ok := r.customers[c.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *c
	r.customers[c.ID] = &copied
	return nil
}

func (r *fakeCustomerRepo) Delete(ctx context.Context, id uint) error {
	delete(r.customers, id)
	return nil
}

type fakeAuditRepo struct {
	repository.AuditRepository
	entries []models.AuditLog
}

func (r *fakeAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	r.entries = append(r.entries, *entry)
	return nil
}

type fakeSettingRepo struct {
	repository.SettingRepository
}

func (r *fakeSettingRepo) Get(ctx context.Context) (*models.Setting, error) {
	return models.DefaultSetting(), nil
}

var errBoom = errors.New("boom")

// saleFixture wires the sale and payment services over in-memory fakes.
type saleFixture struct {
	vehicles  *fakeVehicleRepo
	sales     *fakeSaleRepo
	history   *fakeHistoryRepo
	customers *fakeCustomerRepo
	audit     *fakeAuditRepo
	saleSvc   *SaleService
	paySvc    *PaymentService
}

func newSaleFixture(vehicles ...*models.Vehicle) *saleFixture {
	f := &saleFixture{
		vehicles:  newFakeVehicleRepo(vehicles...),
		history:   &fakeHistoryRepo{},
		customers: newFakeCustomerRepo(),
		audit:     &fakeAuditRepo{},
	}
	f.sales = newFakeSaleRepo(f.vehicles)

	auditSvc := NewAuditService(f.audit)
	vehicleSvc := NewVehicleService(f.vehicles, nil, nil, auditSvc, nil)
	customerSvc := NewCustomerService(f.customers, f.sales, auditSvc)
	settingSvc := NewSettingService(&fakeSettingRepo{}, nil, auditSvc)

	f.saleSvc = NewSaleService(f.sales, vehicleSvc, customerSvc, nil, auditSvc, nil, nil)
	f.paySvc = NewPaymentService(f.sales, f.history, nil, f.saleSvc, settingSvc, nil, nil, auditSvc, nil, nil)
	return f
}

func availableVehicle(id uint, price float64) *models.Vehicle {
	return &models.Vehicle{
		ID:      id,
		BrandID: 1,
		ModelID: 1,
		Year:    2021,
		Price:   decimal.NewFromFloat(price),
		Status:  models.VehicleStatusAvailable,
		Brand:   models.Brand{ID: 1, Name: "Toyota"},
		Model:   models.VehicleModel{ID: 1, BrandID: 1, Name: "Corolla"},
	}
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func uintPtr(v uint) *uint        { return &v }
