package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/motormart/services/showroom/internal/models"
)

// NewStores builds GORM-backed stores. Reads go to readOnlyDB, writes to
// db; inside a transaction both are the same *gorm.DB.
func NewStores(db, readOnlyDB *gorm.DB) Stores {
	return Stores{
		Inventory: &gormInventory{db: db, readOnlyDB: readOnlyDB},
		Sales:     &gormSaleLedger{db: db, readOnlyDB: readOnlyDB},
		Audit:     &gormAuditTrail{db: db, readOnlyDB: readOnlyDB},
		Tenants:   &gormTenantStore{db: db, readOnlyDB: readOnlyDB},
	}
}

// GormUnitOfWork wraps the write database's transaction support.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a unit of work over the write database.
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Do runs fn inside a single database transaction. The stores handed to fn
// read and write through that transaction, so a returned error rolls every
// write back.
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(tx Stores) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStores(tx, tx))
	})
}

type gormInventory struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

func (r *gormInventory) FindByID(ctx context.Context, cat models.Category, id uuid.UUID) (*models.Vehicle, error) {
	var v models.Vehicle
	err := r.readOnlyDB.WithContext(ctx).Table(cat.Table()).Where("id = ?", id).Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get %s by id", cat)
	}
	return &v, nil
}

func (r *gormInventory) FindDuplicate(ctx context.Context, cat models.Category, engineNumber, chassisNumber string) (*models.Vehicle, error) {
	var v models.Vehicle
	err := r.readOnlyDB.WithContext(ctx).Table(cat.Table()).
		Where("engine_number = ? OR chassis_number = ?", engineNumber, chassisNumber).
		Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed duplicate lookup in %s", cat.Table())
	}
	return &v, nil
}

func (r *gormInventory) ListByShowroom(ctx context.Context, cat models.Category, showroomID uuid.UUID, f VehicleFilter) ([]models.Vehicle, error) {
	q := r.readOnlyDB.WithContext(ctx).Table(cat.Table())
	if showroomID != uuid.Nil {
		q = q.Where("showroom_id = ?", showroomID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Brand != "" {
		q = q.Where("brand = ?", f.Brand)
	}
	var vehicles []models.Vehicle
	if err := q.Order("date_added DESC").Find(&vehicles).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", cat.Table())
	}
	return vehicles, nil
}

func (r *gormInventory) Create(ctx context.Context, cat models.Category, v *models.Vehicle) error {
	if err := r.db.WithContext(ctx).Table(cat.Table()).Create(v).Error; err != nil {
		return errors.Wrapf(err, "failed to create vehicle in %s", cat.Table())
	}
	return nil
}

func (r *gormInventory) MarkStockOut(ctx context.Context, cat models.Category, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Table(cat.Table()).
		Where("id = ? AND status = ?", id, models.StatusStockIn).
		Update("status", models.StatusStockOut)
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "failed to mark %s stock out", cat)
	}
	return res.RowsAffected == 1, nil
}

func (r *gormInventory) Delete(ctx context.Context, cat models.Category, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Table(cat.Table()).Where("id = ?", id).Delete(&models.Vehicle{}).Error; err != nil {
		return errors.Wrapf(err, "failed to delete vehicle from %s", cat.Table())
	}
	return nil
}

func (r *gormInventory) DeleteByShowroom(ctx context.Context, cat models.Category, showroomID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Table(cat.Table()).
		Where("showroom_id = ?", showroomID).
		Delete(&models.Vehicle{})
	if res.Error != nil {
		return 0, errors.Wrapf(res.Error, "failed to delete %s for showroom", cat.Table())
	}
	return res.RowsAffected, nil
}

func (r *gormInventory) CountByStatus(ctx context.Context, cat models.Category, showroomID uuid.UUID) (int64, int64, error) {
	count := func(status models.VehicleStatus) (int64, error) {
		q := r.readOnlyDB.WithContext(ctx).Table(cat.Table()).Where("status = ?", status)
		if showroomID != uuid.Nil {
			q = q.Where("showroom_id = ?", showroomID)
		}
		var n int64
		err := q.Count(&n).Error
		return n, err
	}
	stockIn, err := count(models.StatusStockIn)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "failed to count stock-in %s", cat.Table())
	}
	stockOut, err := count(models.StatusStockOut)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "failed to count stock-out %s", cat.Table())
	}
	return stockIn, stockOut, nil
}

type gormSaleLedger struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

func (r *gormSaleLedger) Append(ctx context.Context, sale *models.Sale) error {
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		return errors.Wrap(err, "failed to append sale")
	}
	return nil
}

func (r *gormSaleLedger) Find(ctx context.Context, f SaleFilter) ([]models.Sale, error) {
	q := r.readOnlyDB.WithContext(ctx).Model(&models.Sale{})
	if f.ShowroomID != uuid.Nil {
		q = q.Where("showroom_id = ?", f.ShowroomID)
	}
	if f.Category != "" {
		q = q.Where("vehicle_type = ?", f.Category)
	}
	if f.PaymentType != "" {
		q = q.Where("payment_type = ?", f.PaymentType)
	}
	if !f.From.IsZero() {
		q = q.Where("sale_date >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("sale_date < ?", f.To)
	}
	var sales []models.Sale
	if err := q.Order("sale_date DESC").Find(&sales).Error; err != nil {
		return nil, errors.Wrap(err, "failed to query sales")
	}
	return sales, nil
}

func (r *gormSaleLedger) ListUnreconciled(ctx context.Context, limit int) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.readOnlyDB.WithContext(ctx).
		Where("reconciled = ?", false).
		Limit(limit).
		Find(&sales).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list unreconciled sales")
	}
	return sales, nil
}

func (r *gormSaleLedger) MarkReconciled(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("id = ?", id).
		Update("reconciled", true)
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to mark sale reconciled")
	}
	if res.RowsAffected == 0 {
		return errors.New("no sale updated")
	}
	return nil
}

type gormAuditTrail struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

func (r *gormAuditTrail) Append(ctx context.Context, event *models.AuditEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return errors.Wrap(err, "failed to append audit event")
	}
	return nil
}

func (r *gormAuditTrail) Find(ctx context.Context, f AuditFilter) ([]models.AuditEvent, error) {
	q := r.readOnlyDB.WithContext(ctx).Model(&models.AuditEvent{})
	if f.ShowroomID != uuid.Nil {
		q = q.Where("showroom_id = ?", f.ShowroomID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.From.IsZero() {
		q = q.Where("date >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("date < ?", f.To)
	}
	var events []models.AuditEvent
	if err := q.Order("date DESC").Find(&events).Error; err != nil {
		return nil, errors.Wrap(err, "failed to query audit events")
	}
	return events, nil
}

type gormTenantStore struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

func (r *gormTenantStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := r.readOnlyDB.WithContext(ctx).Where("id = ?", id).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user by id")
	}
	return &u, nil
}

func (r *gormTenantStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.readOnlyDB.WithContext(ctx).Where("username = ?", username).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user by username")
	}
	return &u, nil
}

func (r *gormTenantStore) Create(ctx context.Context, u *models.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return errors.Wrap(err, "failed to create user")
	}
	return nil
}

func (r *gormTenantStore) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to delete user")
	}
	if res.RowsAffected == 0 {
		return errors.New("no user deleted")
	}
	return nil
}

func (r *gormTenantStore) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.readOnlyDB.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	return users, nil
}
