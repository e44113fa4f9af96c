package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/ekisa-team/ttsform/internal/catalog"
	"github.com/ekisa-team/ttsform/internal/form"
	"github.com/ekisa-team/ttsform/internal/params"
)

type (
	EventRequestDTO struct {
		Type  string  `json:"type" enum:"setText,setLanguage,setVoice,setResponseFormat,setModel,setSpeed,submit"`
		Value string  `json:"value,omitempty" maxLength:"4096"`
		Speed float64 `json:"speed,omitempty"`
	}
)

type (
	GetFormInput struct{}

	ApplyEventInput struct {
		Body EventRequestDTO
	}

	FormOutput struct {
		Body form.View
	}

	StreamFormInput struct{}
)

// FormHandler exposes the form session as a JSON API.
type FormHandler struct {
	form     *form.Form
	interval time.Duration
}

// NewFormHandler creates a new FormHandler instance.
func NewFormHandler(api huma.API, f *form.Form, interval time.Duration) *FormHandler {
	h := &FormHandler{form: f, interval: interval}

	huma.Register(api, huma.Operation{
		OperationID:   "get-form",
		Method:        http.MethodGet,
		Path:          "/api/form",
		Summary:       "Get the current form view",
		Tags:          []string{"form"},
		DefaultStatus: http.StatusOK,
	}, h.handleGet)

	huma.Register(api, huma.Operation{
		OperationID:   "apply-form-event",
		Method:        http.MethodPost,
		Path:          "/api/form/events",
		Summary:       "Apply one user event to the form",
		Tags:          []string{"form"},
		DefaultStatus: http.StatusOK,
	}, h.handleEvent)

	sse.Register(api, huma.Operation{
		OperationID: "stream-form",
		Method:      http.MethodGet,
		Path:        "/api/form/stream",
		Summary:     "Stream form views until no generation is in flight (SSE)",
		Tags:        []string{"form"},
	}, map[string]any{
		"view": form.View{},
	}, h.handleStream)

	return h
}

// handleGet handles the get-form operation.
func (h *FormHandler) handleGet(_ context.Context, _ *GetFormInput) (*FormOutput, error) {
	return &FormOutput{Body: h.form.View()}, nil
}

// handleEvent handles the apply-form-event operation.
func (h *FormHandler) handleEvent(ctx context.Context, input *ApplyEventInput) (*FormOutput, error) {
	ev := form.Event{
		Type:  form.EventType(input.Body.Type),
		Value: input.Body.Value,
		Speed: input.Body.Speed,
	}

	if err := h.form.Dispatch(ctx, ev); err != nil {
		if isInvalidEvent(err) {
			return nil, huma.Error400BadRequest("invalid form event", err)
		}
		return nil, huma.Error500InternalServerError("failed to apply form event", err)
	}

	return &FormOutput{Body: h.form.View()}, nil
}

// handleStream handles the stream-form operation. The first event is the current
// view; later events are sent when the view changes.
func (h *FormHandler) handleStream(ctx context.Context, _ *StreamFormInput, send sse.Sender) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var last viewKey
	for first := true; ; first = false {
		v := h.form.View()
		if key := keyOf(v); first || key != last {
			if err := send.Data(v); err != nil {
				return
			}
			last = key
		}

		if !v.Loading {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// viewKey holds the parts of a view a generation can change.
type viewKey struct {
	loading bool
	status  string
	locator string
	notice  string
}

func keyOf(v form.View) viewKey {
	k := viewKey{loading: v.Loading, status: v.Status, notice: v.Notice}
	if v.AudioLocator != nil {
		k.locator = *v.AudioLocator
	}
	return k
}

func isInvalidEvent(err error) bool {
	for _, target := range []error{
		form.ErrUnknownEvent,
		form.ErrInvalidValue,
		catalog.ErrLanguageNotFound,
		params.ErrTextRequired,
		params.ErrTextTooLong,
		params.ErrInvalidResponseFormat,
		params.ErrInvalidModel,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
