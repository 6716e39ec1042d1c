package billing

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fibrelink-inc/fibrelink/internal/application/billing/usecases"
	"github.com/fibrelink-inc/fibrelink/internal/shared/logger"
	"github.com/fibrelink-inc/fibrelink/internal/shared/utils"
)

// LedgerHandler handles billing change history operations
type LedgerHandler struct {
	listUseCase   *usecases.ListLedgerUseCase
	editUseCase   *usecases.EditLedgerEntryUseCase
	deleteUseCase *usecases.DeleteLedgerEntryUseCase
	logger        logger.Interface
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(
	listUC *usecases.ListLedgerUseCase,
	editUC *usecases.EditLedgerEntryUseCase,
	deleteUC *usecases.DeleteLedgerEntryUseCase,
	logger logger.Interface,
) *LedgerHandler {
	return &LedgerHandler{
		listUseCase:   listUC,
		editUseCase:   editUC,
		deleteUseCase: deleteUC,
		logger:        logger,
	}
}

// EditLedgerEntryRequest rewrites the free-text annotation on an entry.
// The recorded transition itself is immutable.
type EditLedgerEntryRequest struct {
	Notes *string `json:"notes" binding:"required"`
}

func (h *LedgerHandler) List(c *gin.Context) {
	query := usecases.ListLedgerQuery{
		SubscriberSID: c.Param("sid"),
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *LedgerHandler) Edit(c *gin.Context) {
	entryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid ledger entry ID")
		return
	}

	var req EditLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for edit ledger entry", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := usecases.EditLedgerEntryCommand{
		EntryID: uint(entryID),
		Notes:   req.Notes,
		ActorID: actorID(c),
	}

	result, err := h.editUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ledger entry updated successfully", result)
}

func (h *LedgerHandler) Delete(c *gin.Context) {
	entryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid ledger entry ID")
		return
	}

	cmd := usecases.DeleteLedgerEntryCommand{
		EntryID: uint(entryID),
		ActorID: actorID(c),
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), cmd); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
