package dto

import (
	"github.com/jsamuelsen/derdiedas/internal/domain"
)

// AnnotateRequest is the body of POST /api/v1/annotate.
type AnnotateRequest struct {
	Text string `json:"text" form:"text"`
}

// TranslateRequest is the body of POST /api/v1/translate.
type TranslateRequest struct {
	Text   string `json:"text"   form:"text"`
	Target string `json:"target" form:"target" validate:"required,target_language"`
}

// SpanResponse is one span of an annotation.
type SpanResponse struct {
	Text   string `json:"text"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Kind   string `json:"kind"`
	Gender string `json:"gender,omitempty"`
	Color  string `json:"color,omitempty"`
}

// LegendEntryResponse is one row of the color legend.
type LegendEntryResponse struct {
	Gender  string `json:"gender"`
	Label   string `json:"label"`
	Article string `json:"article"`
	Color   string `json:"color"`
}

// AnnotateResponse is the result of POST /api/v1/annotate.
type AnnotateResponse struct {
	Text   string                `json:"text"`
	Spans  []SpanResponse        `json:"spans"`
	Markup string                `json:"markup"`
	Counts map[string]int        `json:"counts"`
	Legend []LegendEntryResponse `json:"legend"`
}

// TranslateResponse is the result of POST /api/v1/translate.
type TranslateResponse struct {
	Text        string `json:"text"`
	Source      string `json:"source"`
	Target      string `json:"target"`
	Translation string `json:"translation"`
}

// LegendResponse is the result of GET /api/v1/legend.
type LegendResponse struct {
	Legend []LegendEntryResponse `json:"legend"`
}

// ExamplesResponse is the result of GET /api/v1/examples.
type ExamplesResponse struct {
	Examples []string `json:"examples"`
}

// NewAnnotateResponse converts a domain annotation.
func NewAnnotateResponse(a *domain.Annotation) AnnotateResponse {
	spans := make([]SpanResponse, len(a.Spans))
	for i, s := range a.Spans {
		spans[i] = SpanResponse{
			Text:  s.Text,
			Start: s.Start,
			End:   s.End,
			Kind:  s.Kind.String(),
			Color: s.Color(),
		}
		if s.Kind != domain.SpanPlain {
			spans[i].Gender = s.Gender.String()
		}
	}

	counts := make(map[string]int)
	for g, n := range a.Counts() {
		counts[g.String()] = n
	}

	return AnnotateResponse{
		Text:   a.Text,
		Spans:  spans,
		Markup: a.Markup(),
		Counts: counts,
		Legend: NewLegendResponse().Legend,
	}
}

// NewTranslateResponse converts a domain translation.
func NewTranslateResponse(t *domain.Translation) TranslateResponse {
	return TranslateResponse{
		Text:        t.Input,
		Source:      string(t.Source),
		Target:      string(t.Target),
		Translation: t.Text,
	}
}

// NewLegendResponse returns the color legend.
func NewLegendResponse() LegendResponse {
	legend := domain.Legend()
	entries := make([]LegendEntryResponse, len(legend))
	for i, e := range legend {
		entries[i] = LegendEntryResponse{
			Gender:  e.Gender.String(),
			Label:   e.Label,
			Article: e.Article,
			Color:   e.Color,
		}
	}

	return LegendResponse{Legend: entries}
}
