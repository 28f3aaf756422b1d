package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"example.com/motormart/services/showroom/internal/models"
)

// The workflows in internal/services talk to storage exclusively through
// these interfaces. Lookups return (nil, nil) when nothing matches; the
// service layer decides whether that is an error.

// VehicleFilter narrows ListByShowroom results.
type VehicleFilter struct {
	Status models.VehicleStatus // empty = any
	Brand  string               // empty = any
}

// SaleFilter narrows ledger queries. A Nil ShowroomID means no tenant
// filter (admin callers only).
type SaleFilter struct {
	ShowroomID  uuid.UUID
	Category    models.Category
	PaymentType models.PaymentType
	From        time.Time
	To          time.Time
}

// AuditFilter narrows audit-trail queries.
type AuditFilter struct {
	ShowroomID uuid.UUID
	Status     models.VehicleStatus
	From       time.Time
	To         time.Time
}

// InventoryStore holds the per-category vehicle stock.
type InventoryStore interface {
	FindByID(ctx context.Context, cat models.Category, id uuid.UUID) (*models.Vehicle, error)
	FindDuplicate(ctx context.Context, cat models.Category, engineNumber, chassisNumber string) (*models.Vehicle, error)
	ListByShowroom(ctx context.Context, cat models.Category, showroomID uuid.UUID, f VehicleFilter) ([]models.Vehicle, error)
	Create(ctx context.Context, cat models.Category, v *models.Vehicle) error
	// MarkStockOut flips status Stock In -> Stock Out and reports whether
	// this call performed the transition. A false return means the vehicle
	// was missing or already sold; the caller must not proceed with a sale.
	MarkStockOut(ctx context.Context, cat models.Category, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, cat models.Category, id uuid.UUID) error
	DeleteByShowroom(ctx context.Context, cat models.Category, showroomID uuid.UUID) (int64, error)
	CountByStatus(ctx context.Context, cat models.Category, showroomID uuid.UUID) (stockIn, stockOut int64, err error)
}

// SaleLedger is the append-only store of completed sales.
type SaleLedger interface {
	Append(ctx context.Context, sale *models.Sale) error
	Find(ctx context.Context, f SaleFilter) ([]models.Sale, error)
	ListUnreconciled(ctx context.Context, limit int) ([]models.Sale, error)
	MarkReconciled(ctx context.Context, id uuid.UUID) error
}

// AuditTrail is the append-only store of stock movement events.
type AuditTrail interface {
	Append(ctx context.Context, event *models.AuditEvent) error
	Find(ctx context.Context, f AuditFilter) ([]models.AuditEvent, error)
}

// TenantStore holds the user accounts that double as showrooms.
type TenantStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.User, error)
}

// Stores bundles every collaborator a workflow can touch. Inside a unit of
// work all members share one transaction.
type Stores struct {
	Inventory InventoryStore
	Sales     SaleLedger
	Audit     AuditTrail
	Tenants   TenantStore
}

// UnitOfWork runs fn against transaction-scoped stores: either every write
// fn performs commits, or none do.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx Stores) error) error
}
