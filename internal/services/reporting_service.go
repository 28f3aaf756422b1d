package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"example.com/motormart/services/showroom/internal/models"
	"example.com/motormart/services/showroom/internal/repositories"
	"example.com/motormart/services/showroom/internal/search"
)

// ReportingService serves the read-only stock, sales and dashboard pages.
// It is wired against the read-only database handle; nothing here writes.
type ReportingService struct {
	stores  repositories.Stores
	indexer search.Client
}

// NewReportingService creates a reporting service. indexer may be nil, in
// which case SearchSales is unavailable.
func NewReportingService(stores repositories.Stores, indexer search.Client) *ReportingService {
	return &ReportingService{stores: stores, indexer: indexer}
}

// ListVehiclesRequest narrows a stock listing. ShowroomID is honored for
// admin callers only; showroom callers always see their own stock.
type ListVehiclesRequest struct {
	VehicleType string
	Status      string
	Brand       string
	ShowroomID  uuid.UUID
}

// ListVehicles returns the stock book for one category.
func (s *ReportingService) ListVehicles(ctx context.Context, caller models.Identity, req ListVehiclesRequest) ([]models.Vehicle, error) {
	cat, err := models.ParseCategory(req.VehicleType)
	if err != nil {
		return nil, invalidInput(err.Error())
	}

	filter := repositories.VehicleFilter{Brand: req.Brand}
	if req.Status != "" {
		switch models.VehicleStatus(req.Status) {
		case models.StatusStockIn, models.StatusStockOut:
			filter.Status = models.VehicleStatus(req.Status)
		default:
			return nil, invalidInput("status must be Stock In or Stock Out")
		}
	}

	showroomID := caller.ShowroomID
	if caller.IsAdmin() {
		showroomID = req.ShowroomID
	}
	return s.stores.Inventory.ListByShowroom(ctx, cat, showroomID, filter)
}

// ListSalesRequest narrows a sales listing.
type ListSalesRequest struct {
	VehicleType string
	PaymentType string
	From        time.Time
	To          time.Time
	ShowroomID  uuid.UUID
}

// ListSales returns the sale ledger, tenant-scoped unless the caller is an
// admin.
func (s *ReportingService) ListSales(ctx context.Context, caller models.Identity, req ListSalesRequest) ([]models.Sale, error) {
	filter := repositories.SaleFilter{From: req.From, To: req.To}

	if req.VehicleType != "" {
		cat, err := models.ParseCategory(req.VehicleType)
		if err != nil {
			return nil, invalidInput(err.Error())
		}
		filter.Category = cat
	}
	if req.PaymentType != "" {
		pt, err := models.ParsePaymentType(req.PaymentType)
		if err != nil {
			return nil, invalidInput(err.Error())
		}
		filter.PaymentType = pt
	}

	if caller.IsAdmin() {
		filter.ShowroomID = req.ShowroomID
	} else {
		filter.ShowroomID = caller.ShowroomID
	}
	return s.stores.Sales.Find(ctx, filter)
}

// ListMovementsRequest narrows the stock movement history.
type ListMovementsRequest struct {
	Status     string
	From       time.Time
	To         time.Time
	ShowroomID uuid.UUID
}

// ListMovements returns the audit trail of stock movements, tenant-scoped
// unless the caller is an admin.
func (s *ReportingService) ListMovements(ctx context.Context, caller models.Identity, req ListMovementsRequest) ([]models.AuditEvent, error) {
	filter := repositories.AuditFilter{From: req.From, To: req.To}

	if req.Status != "" {
		switch models.VehicleStatus(req.Status) {
		case models.StatusStockIn, models.StatusStockOut:
			filter.Status = models.VehicleStatus(req.Status)
		default:
			return nil, invalidInput("status must be Stock In or Stock Out")
		}
	}

	if caller.IsAdmin() {
		filter.ShowroomID = req.ShowroomID
	} else {
		filter.ShowroomID = caller.ShowroomID
	}
	return s.stores.Audit.Find(ctx, filter)
}

// CategoryCount is one dashboard row.
type CategoryCount struct {
	Category models.Category `json:"category"`
	StockIn  int64           `json:"stockIn"`
	StockOut int64           `json:"stockOut"`
}

// Dashboard summarizes stock per category for one showroom.
func (s *ReportingService) Dashboard(ctx context.Context, caller models.Identity, showroomID uuid.UUID) ([]CategoryCount, error) {
	if !caller.IsAdmin() {
		showroomID = caller.ShowroomID
	}

	counts := make([]CategoryCount, 0, len(models.Categories()))
	for _, cat := range models.Categories() {
		stockIn, stockOut, err := s.stores.Inventory.CountByStatus(ctx, cat, showroomID)
		if err != nil {
			return nil, err
		}
		counts = append(counts, CategoryCount{Category: cat, StockIn: stockIn, StockOut: stockOut})
	}
	return counts, nil
}

// SearchSales runs a free-text query over the sales index. Non-admin
// callers are fenced to their own showroom with a filter clause.
func (s *ReportingService) SearchSales(ctx context.Context, caller models.Identity, text string) ([]map[string]interface{}, error) {
	if s.indexer == nil {
		return nil, invalidInput("search is not available")
	}
	if text == "" {
		return nil, invalidInput("query text is required")
	}

	boolQuery := map[string]interface{}{
		"must": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  text,
				"fields": []string{"customer_name", "brand", "model", "vehicle_name", "engine_number", "chassis_number"},
			},
		},
	}
	if !caller.IsAdmin() {
		boolQuery["filter"] = map[string]interface{}{
			"term": map[string]interface{}{
				"showroom_id": caller.ShowroomID.String(),
			},
		}
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"size":  50,
		"sort":  []map[string]interface{}{{"sale_date": map[string]interface{}{"order": "desc"}}},
	}
	return s.indexer.SearchSales(ctx, query)
}
