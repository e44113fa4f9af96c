package http

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/ekisa-team/ttsform/internal/form"
	"github.com/ekisa-team/ttsform/internal/params"
)

//go:embed templates/*.tmpl
var templates embed.FS

var pageTemplate = template.Must(template.ParseFS(templates, "templates/form.html.tmpl"))

type pageData struct {
	View  form.View
	Error string
}

// PageHandler renders the form as an HTML page.
type PageHandler struct {
	form   *form.Form
	logger *slog.Logger
}

// NewPageHandler creates a new PageHandler instance.
func NewPageHandler(f *form.Form, logger *slog.Logger) *PageHandler {
	return &PageHandler{form: f, logger: logger}
}

// Show renders the current view.
func (h *PageHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "")
}

// Apply turns the posted fields into form events. A language change resets the
// voice, so the posted voice is only kept when the language did not change.
// With action=submit a generation is started. The browser is redirected back
// to the page on success.
func (h *PageHandler) Apply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	if err := h.apply(r); err != nil {
		h.logger.Warn("Rejected form post", "error", err)
		h.render(w, http.StatusBadRequest, errorMessage(err))
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) apply(r *http.Request) error {
	ctx := r.Context()
	current := h.form.View()

	events := []form.Event{{Type: form.EventSetText, Value: r.PostForm.Get("text")}}

	language := r.PostForm.Get("language")
	languageChanged := language != current.Language
	if languageChanged {
		events = append(events, form.Event{Type: form.EventSetLanguage, Value: language})
	}
	if voice := r.PostForm.Get("voice"); voice != "" && !languageChanged && slices.Contains(current.Voices, voice) {
		events = append(events, form.Event{Type: form.EventSetVoice, Value: voice})
	}
	if format := r.PostForm.Get("response_format"); format != "" {
		events = append(events, form.Event{Type: form.EventSetResponseFormat, Value: format})
	}
	if model := r.PostForm.Get("model"); model != "" {
		events = append(events, form.Event{Type: form.EventSetModel, Value: model})
	}
	if raw := r.PostForm.Get("speed"); raw != "" {
		speed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return errors.Join(form.ErrInvalidValue, err)
		}
		events = append(events, form.Event{Type: form.EventSetSpeed, Speed: speed})
	}
	if r.PostForm.Get("action") == "submit" {
		events = append(events, form.Event{Type: form.EventSubmit})
	}

	for _, ev := range events {
		if err := h.form.Dispatch(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

func (h *PageHandler) render(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if err := pageTemplate.Execute(w, pageData{View: h.form.View(), Error: message}); err != nil {
		h.logger.Error("Failed to render form page", "error", err)
	}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, params.ErrTextRequired):
		return "Text is required"
	case errors.Is(err, params.ErrTextTooLong):
		return "Text is too long"
	case isInvalidEvent(err):
		return err.Error()
	default:
		return "Failed to apply form"
	}
}
