package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/derdiedas/internal/adapters/http/dto"
	"github.com/jsamuelsen/derdiedas/internal/domain"
	"github.com/jsamuelsen/derdiedas/internal/ports"
)

// APIHandler serves the JSON endpoints under /api/v1.
type APIHandler struct {
	annotator  ports.AnnotationService
	translator ports.TranslationService
}

// NewAPIHandler creates the JSON API handler.
func NewAPIHandler(annotator ports.AnnotationService, translator ports.TranslationService) *APIHandler {
	return &APIHandler{
		annotator:  annotator,
		translator: translator,
	}
}

// Annotate handles POST /api/v1/annotate.
//
// @Summary Highlight gender markers in German text
// @Accept json
// @Produce json
// @Success 200 {object} dto.AnnotateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/annotate [post]
func (h *APIHandler) Annotate(c *gin.Context) {
	var req dto.AnnotateRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	annotation, err := h.annotator.Annotate(c.Request.Context(), req.Text)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAnnotateResponse(annotation))
}

// Translate handles POST /api/v1/translate.
//
// @Summary Translate German text, keeping speaker prefixes
// @Accept json
// @Produce json
// @Success 200 {object} dto.TranslateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/translate [post]
func (h *APIHandler) Translate(c *gin.Context) {
	var req dto.TranslateRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	target, err := domain.ParseLanguage(req.Target)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	translation, err := h.translator.Translate(c.Request.Context(), req.Text, target)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTranslateResponse(translation))
}

// Legend handles GET /api/v1/legend.
func (h *APIHandler) Legend(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewLegendResponse())
}

// Examples handles GET /api/v1/examples.
func (h *APIHandler) Examples(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ExamplesResponse{Examples: domain.Examples()})
}

// RegisterRoutes registers the API routes on rg.
func (h *APIHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/annotate", h.Annotate)
	rg.POST("/translate", h.Translate)
	rg.GET("/legend", h.Legend)
	rg.GET("/examples", h.Examples)
}
