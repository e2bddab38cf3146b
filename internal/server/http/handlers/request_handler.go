package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/server/http/dto"
)

// RequestHandler manages the request ledger endpoints.
type RequestHandler struct {
	facade RequestFacade
}

// NewRequestHandler constructs RequestHandler.
func NewRequestHandler(facade RequestFacade) *RequestHandler {
	return &RequestHandler{facade: facade}
}

// Create handles POST /api/requests.
func (h *RequestHandler) Create(c *gin.Context) {
	var req dto.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	submitStatus := model.SubmitStatus(req.SubmitStatus)
	if submitStatus == "" {
		submitStatus = model.SubmitStatusSubmitted
	}

	result, err := h.facade.SubmitRequest(c.Request.Context(), model.RequestInput{
		Header: model.RequestHeader{
			RequestorName:    req.RequestorName,
			Department:       req.Department,
			Title:            req.Title,
			VendorName:       req.VendorName,
			VendorVATID:      req.VendorVATID,
			Currency:         model.Currency(req.Currency),
			CommodityGroupID: req.CommodityGroupID,
			TotalCost:        req.TotalCost.Float(),
			PositionsNet:     req.PositionsNet.Ptr(),
			ShippingNet:      req.ShippingNet.Ptr(),
			TaxAmount:        req.TaxAmount.Ptr(),
		},
		Lines:        toRawLines(req.OrderLines),
		SubmitStatus: submitStatus,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitResponse{
		ID:             result.ID,
		OrderLines:     toLineResponses(result.Lines),
		Subtotal:       result.Subtotal,
		Classification: result.Classification,
	})
}

// List handles GET /api/requests.
func (h *RequestHandler) List(c *gin.Context) {
	requests, err := h.facade.Requests(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.RequestResponse, 0, len(requests))
	for _, r := range requests {
		response = append(response, toRequestResponse(r))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/requests/:id.
func (h *RequestHandler) Get(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}
	request, err := h.facade.Request(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRequestResponse(*request))
}

// Lines handles GET /api/requests/:id/lines.
func (h *RequestHandler) Lines(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}
	lines, err := h.facade.RequestLines(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLineResponses(lines))
}

// Status handles GET /api/requests/:id/status.
func (h *RequestHandler) Status(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}
	status, err := h.facade.RequestStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: string(status)})
}

// Transition handles POST /api/requests/:id/status.
func (h *RequestHandler) Transition(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}
	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	status, ok := model.ParseProcessStatus(req.Status)
	if !ok {
		respondError(c, domainErrors.ErrInvalidStatus)
		return
	}

	previous, err := h.facade.TransitionRequest(c.Request.Context(), id, status, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TransitionResponse{PreviousStatus: string(previous), Status: string(status)})
}

// History handles GET /api/requests/:id/history.
func (h *RequestHandler) History(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}
	history, err := h.facade.RequestHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.HistoryResponse, 0, len(history))
	for _, e := range history {
		response = append(response, toHistoryResponse(e))
	}
	c.JSON(http.StatusOK, response)
}
