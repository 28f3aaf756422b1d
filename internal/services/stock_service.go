package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"example.com/motormart/services/showroom/internal/messaging"
	"example.com/motormart/services/showroom/internal/metrics"
	"example.com/motormart/services/showroom/internal/models"
	"example.com/motormart/services/showroom/internal/repositories"
	"example.com/motormart/services/showroom/internal/tracing"
)

// StockService handles vehicles entering a showroom's stock.
type StockService struct {
	uow       repositories.UnitOfWork
	publisher messaging.Publisher
	metrics   *metrics.Metrics
	tracer    tracing.Tracer
}

// NewStockService creates a stock service. publisher may be nil.
func NewStockService(uow repositories.UnitOfWork, publisher messaging.Publisher, m *metrics.Metrics, tracer tracing.Tracer) *StockService {
	return &StockService{uow: uow, publisher: publisher, metrics: m, tracer: tracer}
}

// AddVehicleRequest is the decoded request body of POST /vehicles.
type AddVehicleRequest struct {
	VehicleType   string
	Brand         string
	Model         string
	Price         int64
	Color         string
	EngineNumber  string
	ChassisNumber string
	Partner       string
	PartnerCNIC   string
}

// AddVehicle books one vehicle into the caller's stock and appends a
// Stock In audit event in the same transaction. Engine and chassis
// numbers are unique per category.
func (s *StockService) AddVehicle(ctx context.Context, caller models.Identity, req AddVehicleRequest) (*models.Vehicle, error) {
	txn := s.tracer.StartTransaction("add-vehicle")
	defer s.tracer.EndTransaction(txn)
	start := time.Now()

	vehicle, err := s.addVehicle(ctx, caller, req)

	s.metrics.RecordTimer("stock_in", time.Since(start))
	if err != nil {
		s.tracer.RecordError(txn, err)
		s.metrics.RecordError("stock_in")
		return nil, err
	}
	s.metrics.RecordSuccess("stock_in")
	s.metrics.IncrementCounter("vehicles_stocked")
	return vehicle, nil
}

func (s *StockService) addVehicle(ctx context.Context, caller models.Identity, req AddVehicleRequest) (*models.Vehicle, error) {
	cat, err := models.ParseCategory(req.VehicleType)
	if err != nil {
		return nil, invalidInput(err.Error())
	}
	if len(strings.TrimSpace(req.Brand)) < 2 {
		return nil, invalidInput("brand must be at least 2 characters")
	}
	if strings.TrimSpace(req.Model) == "" {
		return nil, invalidInput("model is required")
	}
	if req.Price <= 0 {
		return nil, invalidInput("price must be positive")
	}
	if strings.TrimSpace(req.EngineNumber) == "" {
		return nil, invalidInput("engine number is required")
	}
	if strings.TrimSpace(req.ChassisNumber) == "" {
		return nil, invalidInput("chassis number is required")
	}
	if req.PartnerCNIC != "" && !models.ValidCNIC(req.PartnerCNIC) {
		return nil, invalidInput("partner CNIC must be in format 12345-1234567-1")
	}
	if caller.ShowroomID == uuid.Nil {
		return nil, forbidden("only showroom accounts can stock vehicles")
	}

	now := time.Now()
	vehicle := models.Vehicle{
		ID:            uuid.New(),
		Brand:         strings.TrimSpace(req.Brand),
		Model:         strings.TrimSpace(req.Model),
		Price:         req.Price,
		Color:         req.Color,
		Status:        models.StatusStockIn,
		EngineNumber:  strings.TrimSpace(req.EngineNumber),
		ChassisNumber: strings.TrimSpace(req.ChassisNumber),
		Partner:       strings.TrimSpace(req.Partner),
		PartnerCNIC:   req.PartnerCNIC,
		Showroom:      caller.ShowroomName,
		ShowroomID:    caller.ShowroomID,
		DateAdded:     now,
	}

	var event models.AuditEvent
	err = s.uow.Do(ctx, func(tx repositories.Stores) error {
		existing, err := tx.Inventory.FindDuplicate(ctx, cat, vehicle.EngineNumber, vehicle.ChassisNumber)
		if err != nil {
			return err
		}
		if existing != nil {
			return conflict("a vehicle with this engine or chassis number already exists")
		}
		if err := tx.Inventory.Create(ctx, cat, &vehicle); err != nil {
			return err
		}

		partner, partnerCNIC := vehicle.Partner, vehicle.PartnerCNIC
		if partner == "" {
			partner = "None"
		}
		if partnerCNIC == "" {
			partnerCNIC = models.PlaceholderCNIC
		}
		event = models.AuditEvent{
			ID:            uuid.New(),
			VehicleType:   cat,
			Brand:         vehicle.Brand,
			Model:         vehicle.Model,
			Price:         vehicle.Price,
			EngineNumber:  vehicle.EngineNumber,
			ChassisNumber: vehicle.ChassisNumber,
			Status:        models.StatusStockIn,
			Showroom:      vehicle.Showroom,
			ShowroomID:    vehicle.ShowroomID,
			Date:          now,
			PaymentType:   "None",
			Amount:        0,
			ActionBy:      caller.UserID,
			Partner:       partner,
			PartnerCNIC:   partnerCNIC,
		}
		return tx.Audit.Append(ctx, &event)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("vehicle_id", vehicle.ID.String()).
		Str("category", string(cat)).
		Str("showroom_id", vehicle.ShowroomID.String()).
		Msg("vehicle stocked in")

	if s.publisher != nil {
		if err := s.publisher.PublishMovement(ctx, &event); err != nil {
			log.Warn().Err(err).Str("vehicle_id", vehicle.ID.String()).Msg("failed to publish movement event")
			s.metrics.IncrementCounter("movement_publish_failures")
		}
	}
	return &vehicle, nil
}
