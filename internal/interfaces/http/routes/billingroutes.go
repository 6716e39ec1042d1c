package routes

import (
	"github.com/gin-gonic/gin"

	billinghandlers "github.com/fibrelink-inc/fibrelink/internal/interfaces/http/handlers/billing"
)

// BillingRouteConfig holds dependencies for the billing routes.
type BillingRouteConfig struct {
	SubscriptionHandler *billinghandlers.SubscriptionHandler
	PlanHandler         *billinghandlers.PlanHandler
	LedgerHandler       *billinghandlers.LedgerHandler
}

// SetupBillingRoutes configures the billing back-office routes.
func SetupBillingRoutes(engine *gin.Engine, cfg *BillingRouteConfig) {
	plans := engine.Group("/plans")
	{
		plans.POST("", cfg.PlanHandler.Create)
		plans.GET("", cfg.PlanHandler.List)
		plans.GET("/:sid", cfg.PlanHandler.Get)
	}

	subscriptions := engine.Group("/subscriptions")
	{
		subscriptions.POST("", cfg.SubscriptionHandler.Provision)
		subscriptions.GET("", cfg.SubscriptionHandler.List)
		subscriptions.GET("/:sid", cfg.SubscriptionHandler.Get)
		subscriptions.PATCH("/:sid/billing", cfg.SubscriptionHandler.UpdateBilling)
		subscriptions.POST("/:sid/renew", cfg.SubscriptionHandler.Renew)
		subscriptions.POST("/:sid/reduce", cfg.SubscriptionHandler.Reduce)
		subscriptions.POST("/:sid/payment-status", cfg.SubscriptionHandler.RecordPaymentStatus)
		subscriptions.POST("/:sid/plan-change", cfg.SubscriptionHandler.RecordPlanChange)
		subscriptions.POST("/:sid/amount-adjustment", cfg.SubscriptionHandler.RecordAmountAdjustment)
		subscriptions.POST("/:sid/suspend", cfg.SubscriptionHandler.Suspend)
		subscriptions.POST("/:sid/resume", cfg.SubscriptionHandler.Resume)
		subscriptions.GET("/:sid/ledger", cfg.LedgerHandler.List)
	}

	ledger := engine.Group("/ledger")
	{
		ledger.PATCH("/:id", cfg.LedgerHandler.Edit)
		ledger.DELETE("/:id", cfg.LedgerHandler.Delete)
	}
}
