package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Category identifies one of the five vehicle collections. Each category
// is persisted in its own table, mirroring the per-category stock books
// the showrooms keep.
type Category string

const (
	CategoryBike         Category = "Bike"
	CategoryCar          Category = "Car"
	CategoryRickshaw     Category = "Rickshaw"
	CategoryLoader       Category = "Loader"
	CategoryElectricBike Category = "Electric Bike"
)

// Categories lists every known category in a stable order.
func Categories() []Category {
	return []Category{
		CategoryBike,
		CategoryCar,
		CategoryRickshaw,
		CategoryLoader,
		CategoryElectricBike,
	}
}

// ParseCategory resolves a wire-format vehicle type to a Category.
// "ElectricBike" is accepted alongside the canonical "Electric Bike".
func ParseCategory(s string) (Category, error) {
	switch strings.TrimSpace(s) {
	case "Bike":
		return CategoryBike, nil
	case "Car":
		return CategoryCar, nil
	case "Rickshaw":
		return CategoryRickshaw, nil
	case "Loader":
		return CategoryLoader, nil
	case "Electric Bike", "ElectricBike":
		return CategoryElectricBike, nil
	}
	return "", errors.Errorf("unknown vehicle type %q", s)
}

// Table returns the database table backing this category's stock.
func (c Category) Table() string {
	switch c {
	case CategoryBike:
		return "bikes"
	case CategoryCar:
		return "cars"
	case CategoryRickshaw:
		return "rickshaws"
	case CategoryLoader:
		return "loaders"
	case CategoryElectricBike:
		return "electric_bikes"
	}
	return ""
}

// VehicleStatus is the availability state of a stocked vehicle.
type VehicleStatus string

const (
	StatusStockIn  VehicleStatus = "Stock In"
	StatusStockOut VehicleStatus = "Stock Out"
)

// PaymentType is how a sale was settled.
type PaymentType string

const (
	PaymentCash        PaymentType = "Cash"
	PaymentCard        PaymentType = "Card"
	PaymentInstallment PaymentType = "Installment"
)

// ParsePaymentType validates a wire-format payment type.
func ParsePaymentType(s string) (PaymentType, error) {
	switch PaymentType(strings.TrimSpace(s)) {
	case PaymentCash:
		return PaymentCash, nil
	case PaymentCard:
		return PaymentCard, nil
	case PaymentInstallment:
		return PaymentInstallment, nil
	}
	return "", errors.Errorf("unknown payment type %q", s)
}

// Role separates the cross-tenant admin account from showroom accounts.
const (
	RoleAdmin    = "admin"
	RoleShowroom = "showroom"
)

var cnicPattern = regexp.MustCompile(`^\d{5}-\d{7}-\d{1}$`)

// PlaceholderCNIC is recorded when neither the vehicle's partner nor the
// tenant carries a national-id number.
const PlaceholderCNIC = "00000-0000000-0"

// ValidCNIC reports whether s matches the national-id format 12345-1234567-1.
func ValidCNIC(s string) bool {
	return cnicPattern.MatchString(s)
}

// Vehicle is one stocked unit. The table it lives in is chosen by its
// Category; the struct itself carries no table name.
type Vehicle struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
	Brand         string        `gorm:"not null" json:"brand"`
	Model         string        `gorm:"not null" json:"model"`
	Price         int64         `gorm:"not null" json:"price"`
	Color         string        `json:"color"`
	Status        VehicleStatus `gorm:"not null;default:'Stock In';index" json:"status"`
	EngineNumber  string        `gorm:"not null;uniqueIndex" json:"engineNumber"`
	ChassisNumber string        `gorm:"not null;uniqueIndex" json:"chassisNumber"`
	Partner       string        `json:"partner"`
	PartnerCNIC   string        `json:"partnerCNIC"`
	Showroom      string        `gorm:"not null" json:"showroom"`
	ShowroomID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"showroomId"`
	DateAdded     time.Time     `json:"dateAdded"`
}

// Sale is the immutable record of a completed sale. Vehicle attributes are
// snapshotted so the record survives later stock mutations.
type Sale struct {
	ID                 uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt          time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
	VehicleID          uuid.UUID   `gorm:"type:uuid;not null" json:"vehicleId"`
	VehicleType        Category    `gorm:"not null" json:"vehicleType"`
	Brand              string      `gorm:"not null" json:"brand"`
	Model              string      `gorm:"not null" json:"model"`
	Color              string      `json:"color"`
	Price              int64       `gorm:"not null" json:"price"`
	TotalAmount        int64       `gorm:"not null" json:"totalAmount"`
	PaymentType        PaymentType `gorm:"not null" json:"paymentType"`
	PaidAmount         int64       `gorm:"not null" json:"paidAmount"`
	DueAmount          int64       `gorm:"not null" json:"dueAmount"`
	Months             int         `json:"months,omitempty"`
	MonthlyInstallment int64       `json:"monthlyInstallment,omitempty"`
	CustomerName       string      `gorm:"not null" json:"customerName"`
	CustomerCNIC       string      `gorm:"not null" json:"customerCNIC"`
	EngineNumber       string      `gorm:"not null" json:"engineNumber"`
	ChassisNumber      string      `gorm:"not null" json:"chassisNumber"`
	Showroom           string      `gorm:"not null" json:"showroom"`
	ShowroomID         uuid.UUID   `gorm:"type:uuid;not null;index" json:"showroomId"`
	SaleDate           time.Time   `json:"saleDate"`
	// Reconciled is set once the vehicle's stock transition is known to
	// have committed alongside this sale. The worker sweep repairs any
	// record that reaches the ledger without it.
	Reconciled bool `gorm:"not null;default:false;index" json:"-"`
}

// AuditEvent is one append-only stock movement record. Both the stock-in
// and sale workflows write these; nothing updates or deletes them.
type AuditEvent struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"created_at"`
	VehicleType   Category      `gorm:"not null" json:"type"`
	Brand         string        `gorm:"not null" json:"brand"`
	Model         string        `gorm:"not null" json:"model"`
	Price         int64         `gorm:"not null" json:"price"`
	EngineNumber  string        `gorm:"not null" json:"engineNumber"`
	ChassisNumber string        `gorm:"not null" json:"chassisNumber"`
	CustomerName  string        `json:"customerName"`
	CustomerCNIC  string        `json:"customerCNIC"`
	Status        VehicleStatus `gorm:"not null" json:"status"`
	Showroom      string        `gorm:"not null" json:"showroom"`
	ShowroomID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"showroomId"`
	Date          time.Time     `gorm:"not null" json:"date"`
	PaymentType   string        `gorm:"not null" json:"paymentType"`
	Amount        int64         `gorm:"not null" json:"amount"`
	ActionBy      uuid.UUID     `gorm:"type:uuid;not null" json:"actionBy"`
	Partner       string        `gorm:"not null" json:"partner"`
	PartnerCNIC   string        `gorm:"not null" json:"partnerCNIC"`
}

func (AuditEvent) TableName() string { return "audit_events" }

// User is a tenant account. A showroom-role user IS the showroom: its id
// is the showroomId foreign key on vehicles, sales and audit events.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Username     string    `gorm:"not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"not null;default:'showroom'" json:"role"`
	ShowroomName string    `json:"showroomName,omitempty"`
	CNIC         string    `json:"cnic,omitempty"`
}

// Identity is the resolved authenticated caller every workflow receives.
type Identity struct {
	UserID       uuid.UUID
	Role         string
	ShowroomID   uuid.UUID
	ShowroomName string
}

// IsAdmin reports whether the caller may act across tenants.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// SetupModels runs migrations for every collection, including one vehicle
// table per category.
func SetupModels(db *gorm.DB) error {
	for _, cat := range Categories() {
		if err := db.Table(cat.Table()).AutoMigrate(&Vehicle{}); err != nil {
			return errors.Wrapf(err, "failed to migrate %s", cat.Table())
		}
	}
	if err := db.AutoMigrate(&Sale{}, &AuditEvent{}, &User{}); err != nil {
		return errors.Wrap(err, "failed to run auto migrations")
	}
	return nil
}
