package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/domain/taxonomy"
	"github.com/polkiloo/procurement/internal/server/http/dto"
)

// IntakeHandler serves autofill, line preview, classification and the taxonomy.
type IntakeHandler struct {
	facade    IntakeFacade
	maxUpload int64
}

// NewIntakeHandler constructs IntakeHandler. maxUpload limits document uploads in bytes.
func NewIntakeHandler(facade IntakeFacade, maxUpload int64) *IntakeHandler {
	return &IntakeHandler{facade: facade, maxUpload: maxUpload}
}

// Taxonomy handles GET /api/taxonomy.
func (h *IntakeHandler) Taxonomy(c *gin.Context) {
	c.JSON(http.StatusOK, dto.TaxonomyResponse{Version: taxonomy.Version, Entries: h.facade.Taxonomy()})
}

// Text handles POST /api/intake/text.
func (h *IntakeHandler) Text(c *gin.Context) {
	var req dto.TextIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	h.autofill(c, model.AutofillInput{Text: req.Text, Title: req.Title, Consent: req.Consent})
}

// Document handles POST /api/intake/document with a multipart "file" field.
func (h *IntakeHandler) Document(c *gin.Context) {
	if h.maxUpload > 0 {
		if c.Request.ContentLength > h.maxUpload {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusBadRequest)
		return
	}
	file, err := header.Open()
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	consent, _ := strconv.ParseBool(c.PostForm("consent"))
	h.autofill(c, model.AutofillInput{
		Document: data,
		Filename: header.Filename,
		Title:    c.PostForm("title"),
		Consent:  consent,
	})
}

func (h *IntakeHandler) autofill(c *gin.Context, in model.AutofillInput) {
	draft, err := h.facade.Autofill(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDraftResponse(draft))
}

// Lines handles POST /api/intake/lines.
func (h *IntakeHandler) Lines(c *gin.Context) {
	var req dto.LinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	lines, subtotal := h.facade.PreviewLines(toRawLines(req.OrderLines))
	c.JSON(http.StatusOK, dto.LinesResponse{OrderLines: toLineResponses(lines), Subtotal: subtotal})
}

// Classify handles POST /api/intake/classify.
func (h *IntakeHandler) Classify(c *gin.Context) {
	var req dto.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	lines, _ := h.facade.PreviewLines(toRawLines(req.OrderLines))
	c.JSON(http.StatusOK, h.facade.Classify(c.Request.Context(), model.ClassificationInput{
		Title:  req.Title,
		Vendor: req.VendorName,
		Lines:  lines,
	}))
}
