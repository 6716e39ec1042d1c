// Package http assembles the billing back-office HTTP surface.
package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	billingUsecases "github.com/fibrelink-inc/fibrelink/internal/application/billing/usecases"
	"github.com/fibrelink-inc/fibrelink/internal/domain/shared/events"
	"github.com/fibrelink-inc/fibrelink/internal/infrastructure/cache"
	"github.com/fibrelink-inc/fibrelink/internal/infrastructure/config"
	"github.com/fibrelink-inc/fibrelink/internal/infrastructure/repository"
	billinghandlers "github.com/fibrelink-inc/fibrelink/internal/interfaces/http/handlers/billing"
	"github.com/fibrelink-inc/fibrelink/internal/interfaces/http/middleware"
	"github.com/fibrelink-inc/fibrelink/internal/interfaces/http/routes"
	"github.com/fibrelink-inc/fibrelink/internal/shared/db"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	engine              *gin.Engine
	subscriptionHandler *billinghandlers.SubscriptionHandler
	planHandler         *billinghandlers.PlanHandler
	ledgerHandler       *billinghandlers.LedgerHandler
	allowedOrigins      []string
}

// UseCases bundles the billing use cases needed by the HTTP surface
// and the background scheduler. Wiring them once keeps the server
// command and the router in sync.
type UseCases struct {
	Provision         *billingUsecases.ProvisionSubscriberUseCase
	Get               *billingUsecases.GetSubscriptionUseCase
	List              *billingUsecases.ListSubscriptionsUseCase
	Renew             *billingUsecases.RenewSubscriptionUseCase
	Reduce            *billingUsecases.ReduceSubscriptionUseCase
	UpdateBilling     *billingUsecases.UpdateBillingUseCase
	PaymentStatus     *billingUsecases.RecordPaymentStatusChangeUseCase
	PlanChange        *billingUsecases.RecordPlanChangeUseCase
	AmountAdjustment  *billingUsecases.RecordAmountAdjustmentUseCase
	Suspend           *billingUsecases.SuspendSubscriptionUseCase
	Resume            *billingUsecases.ResumeSubscriptionUseCase
	CreatePlan        *billingUsecases.CreatePlanUseCase
	GetPlan           *billingUsecases.GetPlanUseCase
	ListPlans         *billingUsecases.ListPlansUseCase
	ListLedger        *billingUsecases.ListLedgerUseCase
	EditLedgerEntry   *billingUsecases.EditLedgerEntryUseCase
	DeleteLedgerEntry *billingUsecases.DeleteLedgerEntryUseCase
	RecomputeStatuses *billingUsecases.RecomputeStatusesUseCase
	NotifyExpiring    *billingUsecases.NotifyExpiringSoonUseCase
	NotifyPaymentDue  *billingUsecases.NotifyPaymentDueUseCase
}

// BuildUseCases wires the repositories, the cached plan reader and the
// use cases on top of the given connections. redisClient may be nil;
// plan reads then go straight to the database.
func BuildUseCases(
	gormDB *gorm.DB,
	redisClient *redis.Client,
	dispatcher *events.InMemoryEventDispatcher,
	cfg *config.Config,
	log logger.Interface,
) *UseCases {
	subscriptionRepo := repository.NewSubscriptionRepository(gormDB, log)
	planRepo := repository.NewPlanRepository(gormDB, log)
	ledgerRepo := repository.NewBillingChangeRepository(gormDB, log)
	txManager := db.NewTransactionManager(gormDB)

	var planReader billingUsecases.PlanReader = planRepo
	if redisClient != nil {
		planCache := cache.NewRedisPlanCache(
			redisClient,
			time.Duration(cfg.Billing.PlanCacheTTLMin)*time.Minute,
			log,
		)
		planReader = cache.NewCachedPlanReader(planRepo, planCache, log)
	}

	uc := &UseCases{
		Provision:         billingUsecases.NewProvisionSubscriberUseCase(subscriptionRepo, planReader, log),
		Get:               billingUsecases.NewGetSubscriptionUseCase(subscriptionRepo, planReader, log),
		List:              billingUsecases.NewListSubscriptionsUseCase(subscriptionRepo, log),
		Renew:             billingUsecases.NewRenewSubscriptionUseCase(subscriptionRepo, ledgerRepo, txManager, log),
		Reduce:            billingUsecases.NewReduceSubscriptionUseCase(subscriptionRepo, ledgerRepo, txManager, log),
		UpdateBilling:     billingUsecases.NewUpdateBillingUseCase(subscriptionRepo, planRepo, ledgerRepo, txManager, log),
		PaymentStatus:     billingUsecases.NewRecordPaymentStatusChangeUseCase(subscriptionRepo, ledgerRepo, txManager, log),
		PlanChange:        billingUsecases.NewRecordPlanChangeUseCase(subscriptionRepo, planRepo, ledgerRepo, txManager, log),
		AmountAdjustment:  billingUsecases.NewRecordAmountAdjustmentUseCase(subscriptionRepo, ledgerRepo, txManager, log),
		Suspend:           billingUsecases.NewSuspendSubscriptionUseCase(subscriptionRepo, log),
		Resume:            billingUsecases.NewResumeSubscriptionUseCase(subscriptionRepo, log),
		CreatePlan:        billingUsecases.NewCreatePlanUseCase(planRepo, log),
		GetPlan:           billingUsecases.NewGetPlanUseCase(planReader),
		ListPlans:         billingUsecases.NewListPlansUseCase(planRepo, log),
		ListLedger:        billingUsecases.NewListLedgerUseCase(subscriptionRepo, ledgerRepo, log),
		EditLedgerEntry:   billingUsecases.NewEditLedgerEntryUseCase(ledgerRepo, log),
		DeleteLedgerEntry: billingUsecases.NewDeleteLedgerEntryUseCase(ledgerRepo, log),
		RecomputeStatuses: billingUsecases.NewRecomputeStatusesUseCase(subscriptionRepo, log),
		NotifyExpiring:    billingUsecases.NewNotifyExpiringSoonUseCase(subscriptionRepo, dispatcher, cfg.Billing.ExpiringSoonDays, log),
		NotifyPaymentDue:  billingUsecases.NewNotifyPaymentDueUseCase(subscriptionRepo, dispatcher, cfg.Billing.PaymentDueSoonDays, log),
	}

	if dispatcher != nil {
		uc.Renew.SetEventPublisher(dispatcher)
		uc.RecomputeStatuses.SetEventPublisher(dispatcher)
	}

	return uc
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(useCases *UseCases, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()

	subscriptionHandler := billinghandlers.NewSubscriptionHandler(
		useCases.Provision,
		useCases.Get,
		useCases.List,
		useCases.Renew,
		useCases.Reduce,
		useCases.UpdateBilling,
		useCases.PaymentStatus,
		useCases.PlanChange,
		useCases.AmountAdjustment,
		useCases.Suspend,
		useCases.Resume,
		log,
	)

	planHandler := billinghandlers.NewPlanHandler(
		useCases.CreatePlan,
		useCases.GetPlan,
		useCases.ListPlans,
		log,
	)

	ledgerHandler := billinghandlers.NewLedgerHandler(
		useCases.ListLedger,
		useCases.EditLedgerEntry,
		useCases.DeleteLedgerEntry,
		log,
	)

	return &Router{
		engine:              engine,
		subscriptionHandler: subscriptionHandler,
		planHandler:         planHandler,
		ledgerHandler:       ledgerHandler,
		allowedOrigins:      cfg.Server.AllowedOrigins,
	}
}

// SetupRoutes registers middleware and all route groups.
func (r *Router) SetupRoutes(log logger.Interface) {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestLogger(log))
	if len(r.allowedOrigins) > 0 {
		r.engine.Use(middleware.CORS(r.allowedOrigins))
	}

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	routes.SetupBillingRoutes(r.engine, &routes.BillingRouteConfig{
		SubscriptionHandler: r.subscriptionHandler,
		PlanHandler:         r.planHandler,
		LedgerHandler:       r.ledgerHandler,
	})
}

// GetEngine returns the underlying gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
