// Package billing provides HTTP handlers for the subscription billing
// back office.
package billing

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fibrelink-inc/fibrelink/internal/application/billing/usecases"
	"github.com/fibrelink-inc/fibrelink/internal/shared/biztime"
	"github.com/fibrelink-inc/fibrelink/internal/shared/constants"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
	"github.com/fibrelink-inc/fibrelink/internal/shared/utils"
)

// SubscriptionHandler handles subscription billing operations
type SubscriptionHandler struct {
	provisionUseCase     *usecases.ProvisionSubscriberUseCase
	getUseCase           *usecases.GetSubscriptionUseCase
	listUseCase          *usecases.ListSubscriptionsUseCase
	renewUseCase         *usecases.RenewSubscriptionUseCase
	reduceUseCase        *usecases.ReduceSubscriptionUseCase
	updateBillingUseCase *usecases.UpdateBillingUseCase
	paymentStatusUseCase *usecases.RecordPaymentStatusChangeUseCase
	planChangeUseCase    *usecases.RecordPlanChangeUseCase
	amountUseCase        *usecases.RecordAmountAdjustmentUseCase
	suspendUseCase       *usecases.SuspendSubscriptionUseCase
	resumeUseCase        *usecases.ResumeSubscriptionUseCase
	logger               logger.Interface
}

// NewSubscriptionHandler creates a new subscription billing handler
func NewSubscriptionHandler(
	provisionUC *usecases.ProvisionSubscriberUseCase,
	getUC *usecases.GetSubscriptionUseCase,
	listUC *usecases.ListSubscriptionsUseCase,
	renewUC *usecases.RenewSubscriptionUseCase,
	reduceUC *usecases.ReduceSubscriptionUseCase,
	updateBillingUC *usecases.UpdateBillingUseCase,
	paymentStatusUC *usecases.RecordPaymentStatusChangeUseCase,
	planChangeUC *usecases.RecordPlanChangeUseCase,
	amountUC *usecases.RecordAmountAdjustmentUseCase,
	suspendUC *usecases.SuspendSubscriptionUseCase,
	resumeUC *usecases.ResumeSubscriptionUseCase,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		provisionUseCase:     provisionUC,
		getUseCase:           getUC,
		listUseCase:          listUC,
		renewUseCase:         renewUC,
		reduceUseCase:        reduceUC,
		updateBillingUseCase: updateBillingUC,
		paymentStatusUseCase: paymentStatusUC,
		planChangeUseCase:    planChangeUC,
		amountUseCase:        amountUC,
		suspendUseCase:       suspendUC,
		resumeUseCase:        resumeUC,
		logger:               logger,
	}
}

// ProvisionRequest represents the request to provision a new subscriber
type ProvisionRequest struct {
	PlanID    string  `json:"plan_id" binding:"required"` // Stripe-style SID (plan_xxx)
	StartDate *string `json:"start_date"`                 // YYYY-MM-DD, defaults to today
	Activate  *bool   `json:"activate"`                   // Skip pending_installation, defaults to false
}

// RenewRequest represents a renewal of whole calendar months
type RenewRequest struct {
	Months int    `json:"months" binding:"required,min=0"`
	Notes  string `json:"notes"`
}

// ReduceRequest represents a reversal of an accidental renewal
type ReduceRequest struct {
	Months int    `json:"months" binding:"required,min=1"`
	Notes  string `json:"notes"`
}

// UpdateBillingRequest is a partial patch of the billing fields.
// Omitted keys are left untouched. clear_payment_due_date removes the
// due date (subscriber paid up); it cannot be combined with a new
// payment_due_date value.
type UpdateBillingRequest struct {
	PlanID              *string          `json:"plan_id"`
	PaymentStatus       *string          `json:"payment_status"`
	OldPendingAmount    *decimal.Decimal `json:"old_pending_amount"`
	PlanStartDate       *string          `json:"plan_start_date"` // YYYY-MM-DD
	PaymentDueDate      *string          `json:"payment_due_date"`
	ClearPaymentDueDate bool             `json:"clear_payment_due_date"`
	Notes               string           `json:"notes"`
}

// PaymentStatusRequest records a verified payment status transition
type PaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
	Notes         string `json:"notes"`
}

// PlanChangeRequest moves the subscriber to another catalog plan
type PlanChangeRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
	Notes  string `json:"notes"`
}

// AmountAdjustmentRequest corrects the carried-forward balance
type AmountAdjustmentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Notes  string          `json:"notes"`
}

func (h *SubscriptionHandler) Provision(c *gin.Context) {
	var req ProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for provision subscriber", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	var startDate *time.Time
	if req.StartDate != nil {
		parsed, err := biztime.ParseDate(*req.StartDate)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid start_date format, use YYYY-MM-DD")
			return
		}
		startDate = &parsed
	}

	activate := false
	if req.Activate != nil {
		activate = *req.Activate
	}

	cmd := usecases.ProvisionSubscriberCommand{
		PlanID:              req.PlanID,
		StartDate:           startDate,
		ActivateImmediately: activate,
		ActorID:             actorID(c),
	}

	result, err := h.provisionUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to provision subscriber", "error", err, "plan_id", req.PlanID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Subscriber provisioned successfully")
}

func (h *SubscriptionHandler) Get(c *gin.Context) {
	query := usecases.GetSubscriptionQuery{
		SubscriberSID: c.Param("sid"),
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *SubscriptionHandler) List(c *gin.Context) {
	page := constants.DefaultPage
	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	pageSize := constants.DefaultPageSize
	if pageSizeStr := c.Query("page_size"); pageSizeStr != "" {
		if ps, err := strconv.Atoi(pageSizeStr); err == nil && ps > 0 && ps <= constants.MaxPageSize {
			pageSize = ps
		}
	}

	query := usecases.ListSubscriptionsQuery{
		Page:     page,
		PageSize: pageSize,
	}

	items, total, err := h.listUseCase.Execute(c.Request.Context(), query)
	if err != nil {
		h.logger.Errorw("failed to list subscriptions", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, items, total, page, pageSize)
}

func (h *SubscriptionHandler) Renew(c *gin.Context) {
	var req RenewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for renew", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := usecases.RenewSubscriptionCommand{
		SubscriberSID: c.Param("sid"),
		Months:        req.Months,
		ActorID:       actorID(c),
		Notes:         req.Notes,
	}

	result, err := h.renewUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Renewal recorded successfully", result)
}

func (h *SubscriptionHandler) Reduce(c *gin.Context) {
	var req ReduceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for reduce", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := usecases.ReduceSubscriptionCommand{
		SubscriberSID: c.Param("sid"),
		Months:        req.Months,
		ActorID:       actorID(c),
		Notes:         req.Notes,
	}

	result, err := h.reduceUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reduction recorded successfully", result)
}

func (h *SubscriptionHandler) UpdateBilling(c *gin.Context) {
	var req UpdateBillingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for billing update", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	var planStartDate *time.Time
	if req.PlanStartDate != nil {
		parsed, err := biztime.ParseDate(*req.PlanStartDate)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid plan_start_date format, use YYYY-MM-DD")
			return
		}
		planStartDate = &parsed
	}

	setDueDate := false
	var paymentDueDate *time.Time
	switch {
	case req.ClearPaymentDueDate && req.PaymentDueDate != nil:
		utils.ErrorResponse(c, http.StatusBadRequest, "payment_due_date and clear_payment_due_date are mutually exclusive")
		return
	case req.ClearPaymentDueDate:
		setDueDate = true
	case req.PaymentDueDate != nil:
		parsed, err := biztime.ParseDate(*req.PaymentDueDate)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid payment_due_date format, use YYYY-MM-DD")
			return
		}
		setDueDate = true
		paymentDueDate = &parsed
	}

	cmd := usecases.UpdateBillingCommand{
		SubscriberSID:     c.Param("sid"),
		PlanID:            req.PlanID,
		PaymentStatus:     req.PaymentStatus,
		OldPendingAmount:  req.OldPendingAmount,
		PlanStartDate:     planStartDate,
		SetPaymentDueDate: setDueDate,
		PaymentDueDate:    paymentDueDate,
		ActorID:           actorID(c),
		Notes:             req.Notes,
	}

	result, err := h.updateBillingUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Billing updated successfully", result)
}

func (h *SubscriptionHandler) RecordPaymentStatus(c *gin.Context) {
	var req PaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for payment status change", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := usecases.RecordPaymentStatusChangeCommand{
		SubscriberSID: c.Param("sid"),
		PaymentStatus: req.PaymentStatus,
		ActorID:       actorID(c),
		Notes:         req.Notes,
	}

	result, err := h.paymentStatusUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Payment status recorded successfully", result)
}

func (h *SubscriptionHandler) RecordPlanChange(c *gin.Context) {
	var req PlanChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for plan change", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := usecases.RecordPlanChangeCommand{
		SubscriberSID: c.Param("sid"),
		NewPlanID:     req.PlanID,
		ActorID:       actorID(c),
		Notes:         req.Notes,
	}

	result, err := h.planChangeUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Plan change recorded successfully", result)
}

func (h *SubscriptionHandler) RecordAmountAdjustment(c *gin.Context) {
	var req AmountAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for amount adjustment", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := usecases.RecordAmountAdjustmentCommand{
		SubscriberSID: c.Param("sid"),
		NewAmount:     req.Amount,
		ActorID:       actorID(c),
		Notes:         req.Notes,
	}

	result, err := h.amountUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Amount adjustment recorded successfully", result)
}

func (h *SubscriptionHandler) Suspend(c *gin.Context) {
	cmd := usecases.SuspendSubscriptionCommand{
		SubscriberSID: c.Param("sid"),
		ActorID:       actorID(c),
	}

	result, err := h.suspendUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription suspended successfully", result)
}

func (h *SubscriptionHandler) Resume(c *gin.Context) {
	cmd := usecases.ResumeSubscriptionCommand{
		SubscriberSID: c.Param("sid"),
		ActorID:       actorID(c),
	}

	result, err := h.resumeUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription resumed successfully", result)
}

// actorID resolves the acting operator from the request. The back
// office runs behind a trusted proxy that injects the operator header.
func actorID(c *gin.Context) string {
	if actor := c.GetHeader("X-Operator-ID"); actor != "" {
		return actor
	}
	return "system"
}
