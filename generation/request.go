// Package generation holds the request/result model and the orchestrator
// that takes a validated request through prompt construction, provider
// dispatch, and persistence.
package generation

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	_ "image/jpeg" // register decoders for upload validation
	_ "image/png"

	_ "golang.org/x/image/webp"

	"paintly_backend/colors"
	"paintly_backend/core"
	"paintly_backend/prompt"
	"paintly_backend/providers"
)

// noChangeSentinels are the selection values meaning "leave this surface
// alone". The Japanese form is what the original paint catalog ships to
// clients, so it is accepted on the wire too.
var noChangeSentinels = map[string]bool{
	"":          true,
	"no change": true,
	"no-change": true,
	"変更なし":      true,
}

// Request is the structured input to a generation run. Color fields hold
// resolved catalog entries; nil means no change. Color metadata is attached
// exactly once, when the request is parsed, and never re-resolved later.
type Request struct {
	ID         string
	CustomerID string

	Wall *colors.PaintColor
	Roof *colors.PaintColor
	Door *colors.PaintColor

	Weather           prompt.Weather
	LayoutSideBySide  bool
	BackgroundColor   prompt.Background
	OtherInstructions string

	MainImage providers.Image
	SideImage *providers.Image
}

// HasSideImage reports whether the caller supplied a secondary image.
func (r *Request) HasSideImage() bool {
	return r.SideImage != nil
}

// PromptParams maps the request onto the prompt builder's input.
func (r *Request) PromptParams() prompt.Params {
	return prompt.Params{
		Wall:              r.Wall,
		Roof:              r.Roof,
		Door:              r.Door,
		Weather:           r.Weather,
		LayoutSideBySide:  r.LayoutSideBySide,
		BackgroundColor:   r.BackgroundColor,
		HasSideImage:      r.HasSideImage(),
		OtherInstructions: r.OtherInstructions,
	}
}

// Validate checks everything about the request except the images, which are
// validated at decode time by ParseImage.
func (r *Request) Validate() error {
	if r.CustomerID == "" {
		return core.NewError(core.ErrorKindValidation, "customerId is required")
	}
	if !r.Weather.Valid() {
		return core.NewError(core.ErrorKindValidation,
			fmt.Sprintf("unknown weather value %q", r.Weather))
	}
	if r.LayoutSideBySide && !r.BackgroundColor.Valid() {
		return core.NewError(core.ErrorKindValidation,
			fmt.Sprintf("unknown background color %q", r.BackgroundColor))
	}
	if len(r.MainImage.Data) == 0 {
		return core.NewError(core.ErrorKindValidation, "mainImage is required")
	}
	for _, c := range []*colors.PaintColor{r.Wall, r.Roof, r.Door} {
		if c == nil {
			continue
		}
		if err := c.Validate(); err != nil {
			return core.WrapError(core.ErrorKindValidation, "incomplete color metadata", err)
		}
	}
	return nil
}

// ResolveColor maps a wire-level selection value to a catalog entry for the
// given surface. The no-change sentinels yield nil; anything else must name
// a catalog color or the request fails validation.
func ResolveColor(surface colors.Surface, value string) (*colors.PaintColor, error) {
	if noChangeSentinels[strings.ToLower(strings.TrimSpace(value))] {
		return nil, nil
	}
	c, ok := colors.Find(surface, strings.TrimSpace(value))
	if !ok {
		return nil, core.NewError(core.ErrorKindValidation,
			fmt.Sprintf("unknown %s color %q", surface, value))
	}
	return &c, nil
}

// ParseImage validates uploaded bytes as a decodable JPEG, PNG, or WebP
// image and returns them with the detected MIME type. Anything else is an
// upload error.
func ParseImage(data []byte) (providers.Image, error) {
	if len(data) == 0 {
		return providers.Image{}, core.NewError(core.ErrorKindUpload, "image data is empty")
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return providers.Image{}, core.WrapError(core.ErrorKindUpload, "unrecognized image format", err)
	}
	switch format {
	case "jpeg", "png", "webp":
		return providers.Image{Data: data, MIME: "image/" + format}, nil
	default:
		return providers.Image{}, core.NewError(core.ErrorKindUpload,
			fmt.Sprintf("unsupported image format %q", format))
	}
}
