package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/server/http/dto"
)

// requestID reads the :id path parameter. ok is false when it is not a positive integer.
func requestID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// respondError maps domain errors to HTTP statuses. Unexpected errors are
// attached to the gin context so the request logger records them.
func respondError(c *gin.Context, err error) {
	var validation *domainErrors.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorsResponse{Errors: validation.Problems})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrInvalidStatus),
		errors.Is(err, domainErrors.ErrInvalidSubmitStatus),
		errors.Is(err, domainErrors.ErrInvalidCurrency),
		errors.Is(err, domainErrors.ErrUnknownCommodityGroup):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorsResponse{Errors: []string{err.Error()}})
	case errors.Is(err, domainErrors.ErrConsentRequired):
		c.JSON(http.StatusBadRequest, dto.ErrorsResponse{Errors: []string{err.Error()}})
	case errors.Is(err, domainErrors.ErrUnsupportedDocument):
		c.JSON(http.StatusUnsupportedMediaType, dto.ErrorsResponse{Errors: []string{err.Error()}})
	case errors.Is(err, domainErrors.ErrExtractionFailed):
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, dto.ErrorsResponse{Errors: []string{domainErrors.ErrExtractionFailed.Error()}})
	default:
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
	}
}

func toRawLines(lines []dto.OrderLine) []model.RawLine {
	raw := make([]model.RawLine, 0, len(lines))
	for _, l := range lines {
		raw = append(raw, model.RawLine{
			Description: l.Description,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			Unit:        l.Unit,
		})
	}
	return raw
}

func toLineResponses(lines []model.OrderLine) []dto.LineResponse {
	response := make([]dto.LineResponse, 0, len(lines))
	for _, l := range lines {
		response = append(response, dto.LineResponse{
			ID:          l.ID,
			RequestID:   l.RequestID,
			Description: l.Description,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			Unit:        l.Unit,
			LineTotal:   l.LineTotal,
		})
	}
	return response
}

func toRequestResponse(r model.Request) dto.RequestResponse {
	return dto.RequestResponse{
		ID:                 r.ID,
		RequestorName:      r.RequestorName,
		Department:         r.Department,
		Title:              r.Title,
		VendorName:         r.VendorName,
		VendorVATID:        r.VendorVATID,
		Currency:           string(r.Currency),
		CommodityGroupID:   r.CommodityGroupID,
		CommodityGroupName: r.CommodityGroupName,
		TotalCost:          r.TotalCost,
		PositionsNet:       r.PositionsNet,
		ShippingNet:        r.ShippingNet,
		TaxAmount:          r.TaxAmount,
		TotalIsGross:       r.TotalIsGross,
		SubmitStatus:       string(r.SubmitStatus),
		ProcessStatus:      string(r.ProcessStatus),
		CreatedAt:          r.CreatedAt,
	}
}

func toHistoryResponse(e model.StatusHistoryEntry) dto.HistoryResponse {
	var old *string
	if e.OldStatus != nil {
		s := string(*e.OldStatus)
		old = &s
	}
	return dto.HistoryResponse{
		ID:        e.ID,
		OldStatus: old,
		NewStatus: string(e.NewStatus),
		ChangedAt: e.ChangedAt,
		Note:      e.Note,
	}
}

func toDraftResponse(d *model.OfferDraft) dto.OfferDraftResponse {
	return dto.OfferDraftResponse{
		VendorName:   d.VendorName,
		VendorVATID:  d.VendorVATID,
		Department:   d.Department,
		Title:        d.Title,
		Currency:     string(d.Currency),
		OrderLines:   toLineResponses(d.Lines),
		Subtotal:     d.Subtotal,
		PositionsNet: d.PositionsNet,
		ShippingNet:  d.ShippingNet,
		TaxAmount:    d.TaxAmount,
		TotalGross:   d.TotalGross,
	}
}
