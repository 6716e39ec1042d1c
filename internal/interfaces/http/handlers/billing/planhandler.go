package billing

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fibrelink-inc/fibrelink/internal/application/billing/usecases"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
	"github.com/fibrelink-inc/fibrelink/internal/shared/utils"
)

// PlanHandler handles plan catalog operations
type PlanHandler struct {
	createUseCase *usecases.CreatePlanUseCase
	getUseCase    *usecases.GetPlanUseCase
	listUseCase   *usecases.ListPlansUseCase
	logger        logger.Interface
}

// NewPlanHandler creates a new plan catalog handler
func NewPlanHandler(
	createUC *usecases.CreatePlanUseCase,
	getUC *usecases.GetPlanUseCase,
	listUC *usecases.ListPlansUseCase,
	logger logger.Interface,
) *PlanHandler {
	return &PlanHandler{
		createUseCase: createUC,
		getUseCase:    getUC,
		listUseCase:   listUC,
		logger:        logger,
	}
}

// CreatePlanRequest represents the request to add a catalog plan
type CreatePlanRequest struct {
	Name         string          `json:"name" binding:"required"`
	MonthlyPrice decimal.Decimal `json:"monthly_price" binding:"required"`
	Speed        string          `json:"speed" binding:"required"`
	DataLimit    string          `json:"data_limit" binding:"required"`
	Commitment   string          `json:"commitment" binding:"required,oneof=monthly quarterly half_yearly yearly"`
}

func (h *PlanHandler) Create(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create plan", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := usecases.CreatePlanCommand{
		Name:         req.Name,
		MonthlyPrice: req.MonthlyPrice,
		Speed:        req.Speed,
		DataLimit:    req.DataLimit,
		Commitment:   req.Commitment,
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to create plan", "error", err, "name", req.Name)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Plan created successfully")
}

func (h *PlanHandler) Get(c *gin.Context) {
	query := usecases.GetPlanQuery{
		PlanID: c.Param("sid"),
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *PlanHandler) List(c *gin.Context) {
	result, err := h.listUseCase.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to list plans", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
