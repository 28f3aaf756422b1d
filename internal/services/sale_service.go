package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/motormart/services/showroom/config"
	"example.com/motormart/services/showroom/internal/cache"
	"example.com/motormart/services/showroom/internal/messaging"
	"example.com/motormart/services/showroom/internal/metrics"
	"example.com/motormart/services/showroom/internal/models"
	"example.com/motormart/services/showroom/internal/repositories"
	"example.com/motormart/services/showroom/internal/search"
	"example.com/motormart/services/showroom/internal/tracing"
)

const tenantCacheTTL = 5 * time.Minute

// SaleService runs the sale-transaction workflow: it converts a stocked
// vehicle into a completed sale record, atomically.
type SaleService struct {
	uow       repositories.UnitOfWork
	stores    repositories.Stores
	cache     *cache.RedisCache
	indexer   search.Client
	publisher messaging.Publisher
	metrics   *metrics.Metrics
	tracer    tracing.Tracer
	cfg       config.SaleConfig
}

// NewSaleService creates a sale service. indexer and publisher may be nil;
// the corresponding post-commit side effects are then skipped.
func NewSaleService(
	uow repositories.UnitOfWork,
	stores repositories.Stores,
	redisCache *cache.RedisCache,
	indexer search.Client,
	publisher messaging.Publisher,
	m *metrics.Metrics,
	tracer tracing.Tracer,
	cfg config.SaleConfig,
) *SaleService {
	return &SaleService{
		uow:       uow,
		stores:    stores,
		cache:     redisCache,
		indexer:   indexer,
		publisher: publisher,
		metrics:   m,
		tracer:    tracer,
		cfg:       cfg,
	}
}

// SubmitSaleRequest is the decoded request body of POST /sales.
type SubmitSaleRequest struct {
	VehicleType   string
	VehicleID     uuid.UUID
	PaymentType   string
	CustomerName  string
	CustomerCNIC  string
	AdvanceAmount int64
	Months        int
}

// SaleReceipt is what the caller renders as a receipt: the persisted sale
// plus the human-readable vehicle name and the monthly installment.
type SaleReceipt struct {
	models.Sale
	VehicleName string `json:"vehicleName"`
	PerMonth    int64  `json:"perMonth"`
}

// SubmitSale validates, authorizes and commits one sale.
//
// The sale record, the vehicle's Stock In -> Stock Out transition and the
// stock-out audit event commit in a single transaction, with the status
// flip acting as a compare-and-set guard: of two racing submissions for
// the same vehicle, exactly one wins and the other gets a conflict.
func (s *SaleService) SubmitSale(ctx context.Context, caller models.Identity, req SubmitSaleRequest) (*SaleReceipt, error) {
	txn := s.tracer.StartTransaction("submit-sale")
	defer s.tracer.EndTransaction(txn)
	start := time.Now()

	receipt, err := s.submitSale(ctx, caller, req)

	s.metrics.RecordTimer("sale_submit", time.Since(start))
	if err != nil {
		s.tracer.RecordError(txn, err)
		s.metrics.RecordError("sale_submit")
		return nil, err
	}
	s.metrics.RecordSuccess("sale_submit")
	s.metrics.IncrementCounter("sales_completed")
	return receipt, nil
}

func (s *SaleService) submitSale(ctx context.Context, caller models.Identity, req SubmitSaleRequest) (*SaleReceipt, error) {
	cat, err := models.ParseCategory(req.VehicleType)
	if err != nil {
		return nil, invalidInput(err.Error())
	}
	paymentType, err := models.ParsePaymentType(req.PaymentType)
	if err != nil {
		return nil, invalidInput(err.Error())
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, invalidInput("customer name is required")
	}
	if !models.ValidCNIC(req.CustomerCNIC) {
		return nil, invalidInput("customer CNIC must be in format 12345-1234567-1")
	}
	if req.VehicleID == uuid.Nil {
		return nil, invalidInput("vehicle id is required")
	}
	if paymentType == models.PaymentInstallment {
		if req.AdvanceAmount <= 0 {
			return nil, invalidInput("advance amount must be positive for installment sales")
		}
		if req.Months < 1 || req.Months > s.cfg.MaxInstallmentMonths {
			return nil, invalidInput("installment months out of range")
		}
	}

	// Fail fast for showroom callers whose account vanished; the cache
	// keeps this off the database on the hot path. Admin callers have no
	// showroom of their own.
	if !caller.IsAdmin() {
		tenant, err := s.lookupTenant(ctx, caller.ShowroomID)
		if err != nil {
			return nil, err
		}
		if tenant == nil {
			return nil, notFound("tenant not found")
		}
	}

	var (
		sale  models.Sale
		event models.AuditEvent
	)
	err = s.uow.Do(ctx, func(tx repositories.Stores) error {
		vehicle, err := tx.Inventory.FindByID(ctx, cat, req.VehicleID)
		if err != nil {
			return err
		}
		if vehicle == nil {
			return notFound("vehicle not found")
		}
		if vehicle.Status != models.StatusStockIn {
			return conflict("vehicle not available")
		}
		if !caller.IsAdmin() && vehicle.ShowroomID != caller.ShowroomID {
			return forbidden("you can only sell vehicles from your own showroom")
		}
		if paymentType == models.PaymentInstallment && req.AdvanceAmount > vehicle.Price {
			return invalidInput("advance amount exceeds vehicle price")
		}

		// Partner attribution defaults come from the vehicle's owning
		// tenant, which for showroom callers is the caller itself.
		tenant, err := tx.Tenants.FindByID(ctx, vehicle.ShowroomID)
		if err != nil {
			return err
		}

		partner, partnerCNIC := ResolvePartner(vehicle, tenant)
		if !models.ValidCNIC(partnerCNIC) {
			return invalidInput("partner CNIC must be in format 12345-1234567-1")
		}

		split := ComputePaymentSplit(vehicle.Price, paymentType, req.AdvanceAmount, req.Months)

		// The guard: only the request that flips the status gets to sell.
		flipped, err := tx.Inventory.MarkStockOut(ctx, cat, vehicle.ID)
		if err != nil {
			return err
		}
		if !flipped {
			return conflict("vehicle not available")
		}
		if !s.cfg.RetainSoldVehicles {
			if err := tx.Inventory.Delete(ctx, cat, vehicle.ID); err != nil {
				return err
			}
		}

		now := time.Now()
		sale = models.Sale{
			ID:            uuid.New(),
			VehicleID:     vehicle.ID,
			VehicleType:   cat,
			Brand:         vehicle.Brand,
			Model:         vehicle.Model,
			Color:         vehicle.Color,
			Price:         vehicle.Price,
			TotalAmount:   split.TotalAmount,
			PaymentType:   paymentType,
			PaidAmount:    split.PaidAmount,
			DueAmount:     split.DueAmount,
			CustomerName:  req.CustomerName,
			CustomerCNIC:  req.CustomerCNIC,
			EngineNumber:  vehicle.EngineNumber,
			ChassisNumber: vehicle.ChassisNumber,
			Showroom:      vehicle.Showroom,
			ShowroomID:    vehicle.ShowroomID,
			SaleDate:      now,
			Reconciled:    true,
		}
		if paymentType == models.PaymentInstallment {
			sale.Months = req.Months
			sale.MonthlyInstallment = split.MonthlyInstallment
		}
		if err := tx.Sales.Append(ctx, &sale); err != nil {
			return err
		}

		event = models.AuditEvent{
			ID:            uuid.New(),
			VehicleType:   cat,
			Brand:         vehicle.Brand,
			Model:         vehicle.Model,
			Price:         vehicle.Price,
			EngineNumber:  vehicle.EngineNumber,
			ChassisNumber: vehicle.ChassisNumber,
			CustomerName:  req.CustomerName,
			CustomerCNIC:  req.CustomerCNIC,
			Status:        models.StatusStockOut,
			Showroom:      vehicle.Showroom,
			ShowroomID:    vehicle.ShowroomID,
			Date:          now,
			PaymentType:   string(paymentType),
			Amount:        split.PaidAmount,
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
		Str("sale_id", sale.ID.String()).
		Str("vehicle_id", sale.VehicleID.String()).
		Str("showroom_id", sale.ShowroomID.String()).
		Str("payment_type", string(sale.PaymentType)).
		Int64("total", sale.TotalAmount).
		Msg("sale recorded")

	s.afterSale(ctx, &sale, &event)

	return &SaleReceipt{
		Sale:        sale,
		VehicleName: sale.Brand + " " + sale.Model,
		PerMonth:    sale.MonthlyInstallment,
	}, nil
}

// afterSale runs the best-effort read-model side effects. Failures here
// never fail the sale; the database already holds the truth.
func (s *SaleService) afterSale(ctx context.Context, sale *models.Sale, event *models.AuditEvent) {
	if s.indexer != nil {
		if err := s.indexer.IndexSale(ctx, sale); err != nil {
			log.Warn().Err(err).Str("sale_id", sale.ID.String()).Msg("failed to index sale")
			s.metrics.IncrementCounter("sale_index_failures")
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishMovement(ctx, event); err != nil {
			log.Warn().Err(err).Str("sale_id", sale.ID.String()).Msg("failed to publish movement event")
			s.metrics.IncrementCounter("movement_publish_failures")
		}
	}
	if err := s.cache.Delete(ctx, cache.VehicleCacheKey(sale.VehicleType, sale.VehicleID)); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate vehicle cache entry")
	}
}

func (s *SaleService) lookupTenant(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, nil
	}

	var cached models.User
	if err := s.cache.Get(ctx, cache.TenantCacheKey(id), &cached); err == nil {
		return &cached, nil
	}

	tenant, err := s.stores.Tenants.FindByID(ctx, id)
	if err != nil || tenant == nil {
		return tenant, err
	}

	if err := s.cache.Set(ctx, cache.TenantCacheKey(id), tenant, tenantCacheTTL); err != nil {
		log.Warn().Err(err).Msg("failed to cache tenant record")
	}
	return tenant, nil
}

// ReconcileSales is the fallback sweep for sales whose vehicle transition
// is not known to have committed (older revisions wrote the sale first and
// flipped the vehicle afterwards). It re-applies the transition, appends
// the missing stock-out audit event and marks the sale reconciled.
func (s *SaleService) ReconcileSales(ctx context.Context) error {
	txn := s.tracer.StartTransaction("reconcile-sales")
	defer s.tracer.EndTransaction(txn)

	sales, err := s.stores.Sales.ListUnreconciled(ctx, 100)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return errors.Wrap(err, "failed to list unreconciled sales")
	}
	if len(sales) == 0 {
		return nil
	}

	log.Info().Int("count", len(sales)).Msg("reconciling sales with pending vehicle transitions")

	for i := range sales {
		sale := sales[i]
		err := s.uow.Do(ctx, func(tx repositories.Stores) error {
			flipped, err := tx.Inventory.MarkStockOut(ctx, sale.VehicleType, sale.VehicleID)
			if err != nil {
				return err
			}
			if flipped {
				vehicle, err := tx.Inventory.FindByID(ctx, sale.VehicleType, sale.VehicleID)
				if err != nil {
					return err
				}
				partner, partnerCNIC := "None", models.PlaceholderCNIC
				if vehicle != nil {
					partner, partnerCNIC = ResolvePartner(vehicle, nil)
				}
				event := models.AuditEvent{
					ID:            uuid.New(),
					VehicleType:   sale.VehicleType,
					Brand:         sale.Brand,
					Model:         sale.Model,
					Price:         sale.Price,
					EngineNumber:  sale.EngineNumber,
					ChassisNumber: sale.ChassisNumber,
					CustomerName:  sale.CustomerName,
					CustomerCNIC:  sale.CustomerCNIC,
					Status:        models.StatusStockOut,
					Showroom:      sale.Showroom,
					ShowroomID:    sale.ShowroomID,
					Date:          time.Now(),
					PaymentType:   string(sale.PaymentType),
					Amount:        sale.PaidAmount,
					ActionBy:      sale.ShowroomID,
					Partner:       partner,
					PartnerCNIC:   partnerCNIC,
				}
				if err := tx.Audit.Append(ctx, &event); err != nil {
					return err
				}
			}
			return tx.Sales.MarkReconciled(ctx, sale.ID)
		})
		if err != nil {
			log.Error().Err(err).Str("sale_id", sale.ID.String()).Msg("failed to reconcile sale")
			s.tracer.RecordError(txn, err)
			s.metrics.IncrementCounter("reconcile_failures")
			continue
		}
		s.metrics.IncrementCounter("sales_reconciled")
		log.Info().Str("sale_id", sale.ID.String()).Msg("sale reconciled")
	}
	return nil
}
