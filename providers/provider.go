// Package providers owns the set of AI image generation providers, the
// currently active one, and provider health.
//
// The provider set is closed: gemini and fal-ai. Adding a provider means
// adding a constant and an adapter here, not registering at runtime from
// elsewhere.
package providers

import "context"

// ID identifies a provider.
type ID string

const (
	// IDFalAI is the Fal.ai Seedream adapter.
	IDFalAI ID = "fal-ai"
	// IDGemini is the Google Gemini adapter.
	IDGemini ID = "gemini"
)

// IDs lists every member of the closed provider set.
var IDs = []ID{IDFalAI, IDGemini}

// Valid reports whether id names a known provider.
func (id ID) Valid() bool {
	switch id {
	case IDFalAI, IDGemini:
		return true
	}
	return false
}

// Image is an uploaded source image handed to a provider.
type Image struct {
	Data []byte
	MIME string
}

// Request is the normalized provider input: the rendered prompt plus the
// source images. Providers receive the prompt as-is; they never rebuild it.
type Request struct {
	Prompt    string
	MainImage Image
	SideImage *Image
}

// Result is the normalized provider output. ImageURL is either an HTTPS URL
// or a data URI, depending on how the provider returns image bytes. Raw
// preserves the provider's response verbatim for debugging; provider field
// names never leak anywhere else.
type Result struct {
	ImageURL string
	Model    string
	Raw      []byte
}

// Provider is one generation backend. Generate returns an error classified
// by core.ErrorKind via core.AppError; an ambiguous empty success (response
// with no image and no error) yields a non-nil error with the raw response
// still attached to the returned Result.
type Provider interface {
	ID() ID
	DisplayName() string
	Model() string
	Generate(ctx context.Context, req Request) (*Result, error)
	HealthCheck(ctx context.Context) error
}

// Config is the client-facing descriptor of a provider, served by the
// provider listing endpoint.
type Config struct {
	ID          ID       `json:"type" yaml:"type"`
	DisplayName string   `json:"displayName" yaml:"displayName"`
	Enabled     bool     `json:"enabled" yaml:"-"`
	Description string   `json:"description" yaml:"description"`
	Features    []string `json:"features" yaml:"features"`
	Limitations []string `json:"limitations,omitempty" yaml:"limitations"`
}
