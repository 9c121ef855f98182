package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arthamitra/finassist-be/middleware"
	"github.com/arthamitra/finassist-be/service"
	"github.com/arthamitra/finassist-be/types"
)

// RecordHandler is the notification surface for the ledger layer: it
// tells the core a record was created so one indexed document is
// produced, and exposes the per-user rebuild and reset maintenance
// operations.
type RecordHandler struct {
	indexer *service.IndexService
}

func NewRecordHandler(indexer *service.IndexService) *RecordHandler {
	return &RecordHandler{indexer: indexer}
}

func (h *RecordHandler) HandleIndexRecord(c *gin.Context) {
	var req types.IndexRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}
	if req.Kind == "" || len(req.Data) == 0 {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "kind and data are required",
		})
		return
	}

	record := types.FinancialRecord{
		UserID: middleware.UserID(c),
		Kind:   req.Kind,
		Data:   req.Data,
	}
	if err := h.indexer.IndexRecord(c.Request.Context(), record); err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{Status: "success"})
}

func (h *RecordHandler) HandleReindex(c *gin.Context) {
	indexed, err := h.indexer.ReindexUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   gin.H{"indexed": indexed},
	})
}

func (h *RecordHandler) HandleClear(c *gin.Context) {
	removed, err := h.indexer.ClearUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   gin.H{"removed": removed},
	})
}
