package form

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/ekisa-team/ttsform/internal/generation"
	"github.com/ekisa-team/ttsform/internal/params"
)

// Error definitions for the form package.
var (
	ErrUnknownEvent = errors.New("unknown form event")
	ErrInvalidValue = errors.New("invalid event value")
)

// EventType names a user action emitted by the rendering layer.
type EventType string

const (
	EventSetText           EventType = "setText"
	EventSetLanguage       EventType = "setLanguage"
	EventSetVoice          EventType = "setVoice"
	EventSetResponseFormat EventType = "setResponseFormat"
	EventSetModel          EventType = "setModel"
	EventSetSpeed          EventType = "setSpeed"
	EventSubmit            EventType = "submit"
)

// Event is one user action. Value carries string payloads, Speed the slider value.
type Event struct {
	Type  EventType
	Value string
	Speed float64
}

// View is the read model handed to the rendering layer.
type View struct {
	Text           string   `json:"text"`
	Language       string   `json:"language,omitempty"`
	Voice          string   `json:"voice"`
	ResponseFormat string   `json:"response_format"`
	Model          string   `json:"model"`
	Speed          float64  `json:"speed"`
	Loading        bool     `json:"loading"`
	AudioLocator   *string  `json:"audio_locator"`
	Status         string   `json:"status"`
	Notice         string   `json:"notice,omitempty"`
	Languages      []string `json:"languages"`
	Voices         []string `json:"voices"`
	Formats        []string `json:"formats"`
	Models         []string `json:"models"`
	SpeedMin       float64  `json:"speed_min"`
	SpeedMax       float64  `json:"speed_max"`
	SpeedStep      float64  `json:"speed_step"`
	MaxTextLength  int      `json:"max_text_length"`
}

// Form ties the parameter store to the generation controller.
type Form struct {
	params     *params.Store
	controller *generation.Controller
	notice     string
	mu         sync.Mutex
}

// New creates a form and registers it as the controller's notifier, so failure
// notices reach the view.
func New(store *params.Store, controller *generation.Controller) *Form {
	f := &Form{
		params:     store,
		controller: controller,
	}
	controller.SetNotifier(f)
	return f
}

// Notify records a failure notice for the view. It implements generation.Notifier.
func (f *Form) Notify(_ context.Context, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.notice = message
}

// Dispatch applies one event. Submit returns as soon as the generation is pending;
// the request keeps running after ctx is done.
func (f *Form) Dispatch(ctx context.Context, ev Event) error {
	switch ev.Type {
	case EventSetText:
		f.params.SetText(ev.Value)
	case EventSetLanguage:
		return f.params.SetLanguage(ev.Value)
	case EventSetVoice:
		f.params.SetVoice(ev.Value)
	case EventSetResponseFormat:
		format := params.ResponseFormat(ev.Value)
		if !format.Valid() {
			return fmt.Errorf("form: %q: %w", ev.Value, params.ErrInvalidResponseFormat)
		}
		f.params.SetResponseFormat(format)
	case EventSetModel:
		model := params.Model(ev.Value)
		if !model.Valid() {
			return fmt.Errorf("form: %q: %w", ev.Value, params.ErrInvalidModel)
		}
		f.params.SetModel(model)
	case EventSetSpeed:
		if math.IsNaN(ev.Speed) || math.IsInf(ev.Speed, 0) {
			return fmt.Errorf("form: speed %v: %w", ev.Speed, ErrInvalidValue)
		}
		f.params.SetSpeed(params.SnapSpeed(ev.Speed))
	case EventSubmit:
		_, err := f.Submit(ctx)
		return err
	default:
		return fmt.Errorf("form: %q: %w", ev.Type, ErrUnknownEvent)
	}

	return nil
}

// Submit snapshots the parameters and starts a generation. Empty text is rejected
// before the controller is involved, like a required form field.
func (f *Form) Submit(ctx context.Context) (<-chan generation.Result, error) {
	snapshot := f.params.Snapshot()
	if snapshot.Text == "" {
		return nil, fmt.Errorf("form: %w", params.ErrTextRequired)
	}

	f.mu.Lock()
	f.notice = ""
	f.mu.Unlock()

	return f.controller.SubmitAsync(context.WithoutCancel(ctx), snapshot), nil
}

// View returns the current read model.
func (f *Form) View() View {
	p := f.params.Snapshot()
	result := f.controller.Result()
	c := f.params.Catalog()

	voices, err := c.Voices(p.Language)
	if err != nil {
		voices, _ = c.Voices("")
	}

	v := View{
		Text:           p.Text,
		Language:       p.Language,
		Voice:          p.Voice,
		ResponseFormat: string(p.ResponseFormat),
		Model:          string(p.Model),
		Speed:          p.Speed,
		Loading:        f.controller.Loading(),
		Status:         string(result.Status),
		Languages:      c.Languages(),
		Voices:         voices,
		SpeedMin:       params.MinSpeed,
		SpeedMax:       params.MaxSpeed,
		SpeedStep:      params.SpeedStep,
		MaxTextLength:  params.MaxTextLength,
	}

	if locator := result.Locator(); locator != "" {
		v.AudioLocator = &locator
	}

	for _, format := range params.ResponseFormats() {
		v.Formats = append(v.Formats, string(format))
	}
	for _, model := range params.Models() {
		v.Models = append(v.Models, string(model))
	}

	f.mu.Lock()
	v.Notice = f.notice
	f.mu.Unlock()

	return v
}

// Close tears down the controller, releasing the current audio.
func (f *Form) Close() error {
	return f.controller.Close()
}
