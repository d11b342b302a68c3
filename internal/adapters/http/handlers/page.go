package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/derdiedas/internal/adapters/http/dto"
	"github.com/jsamuelsen/derdiedas/internal/domain"
	"github.com/jsamuelsen/derdiedas/internal/platform/logging"
	"github.com/jsamuelsen/derdiedas/internal/ports"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// PageHandler serves the HTML form at /.
type PageHandler struct {
	annotator  ports.AnnotationService
	translator ports.TranslationService
}

// NewPageHandler creates the HTML page handler.
func NewPageHandler(annotator ports.AnnotationService, translator ports.TranslationService) *PageHandler {
	return &PageHandler{
		annotator:  annotator,
		translator: translator,
	}
}

type targetOption struct {
	Code     string
	Name     string
	Selected bool
}

type pageData struct {
	Text        string
	Targets     []targetOption
	TargetName  string
	Markup      template.HTML
	Translation string
	Errors      []string
	Submitted   bool
	Legend      []domain.LegendEntry
	Examples    []string
}

func newPageData(text string, target domain.Language) *pageData {
	targets := domain.TargetLanguages()
	options := make([]targetOption, len(targets))
	for i, l := range targets {
		options[i] = targetOption{Code: string(l), Name: l.Name(), Selected: l == target}
	}

	return &pageData{
		Text:       text,
		Targets:    options,
		TargetName: target.Name(),
		Legend:     domain.Legend(),
		Examples:   domain.Examples(),
	}
}

// Show handles GET /.
func (h *PageHandler) Show(c *gin.Context) {
	h.render(c, newPageData("", domain.English))
}

// Submit handles POST /. The page always renders: annotation and translation
// failures become inline error boxes and the original text is shown as is.
func (h *PageHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()

	var form dto.TranslateRequest
	if err := c.ShouldBind(&form); err != nil {
		logging.FromContext(ctx).Warn("bad form submission", slog.String("error", err.Error()))
	}

	target, targetErr := domain.ParseLanguage(form.Target)
	if form.Target == "" {
		target, targetErr = domain.English, nil
	}

	data := newPageData(form.Text, target)
	data.Submitted = true

	annotation, err := h.annotator.Annotate(ctx, form.Text)
	if err != nil {
		data.Errors = append(data.Errors, errorMessage(err))
	} else {
		data.Markup = template.HTML(annotation.Markup()) //nolint:gosec // Markup escapes all input text
	}

	if targetErr != nil {
		data.Errors = append(data.Errors, errorMessage(targetErr))
	} else if translation, err := h.translator.Translate(ctx, form.Text, target); err != nil {
		data.Errors = append(data.Errors, errorMessage(err))
	} else {
		data.Translation = translation.Text
	}

	h.render(c, data)
}

func (h *PageHandler) render(c *gin.Context, data *pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		logging.FromContext(c.Request.Context()).Error("rendering page", slog.String("error", err.Error()))
		c.String(http.StatusInternalServerError, "Internal Server Error\n")

		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// errorMessage is the text of an inline error box.
func errorMessage(err error) string {
	switch {
	case domain.IsModelUnavailable(err):
		return "The German language model is unavailable, so no words are highlighted. (" + err.Error() + ")"
	case domain.IsTranslationUnavailable(err):
		return "Translation is unavailable right now. (" + err.Error() + ")"
	case domain.IsValidation(err):
		return err.Error()
	default:
		return "Something went wrong. Please try again."
	}
}

// RegisterRoutes registers GET / and POST / on r.
func (h *PageHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.Show)
	r.POST("/", h.Submit)
}
