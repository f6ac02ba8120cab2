// Package prompt renders the natural-language generation prompt sent to the
// image providers.
//
// Build is a pure function of its Params: no I/O, no randomness, no clock
// reads. Calling it twice with the same input yields byte-identical output,
// which is what makes prompt previews and generation-history records
// trustworthy.
package prompt

import (
	"fmt"
	"strings"

	"paintly_backend/colors"
	"paintly_backend/core"
)

// Params is the structured input to prompt construction. Color fields are
// resolved catalog entries; a nil pointer means "no change" for that surface.
// Color metadata is attached once, when the request is built, and never
// re-resolved.
type Params struct {
	Wall *colors.PaintColor
	Roof *colors.PaintColor
	Door *colors.PaintColor

	Weather           Weather
	LayoutSideBySide  bool
	BackgroundColor   Background
	HasSideImage      bool
	OtherInstructions string
}

const preamble = "Edit this building image by applying professional paint " +
	"according to the specifications below. Maintain the exact structure, shape, " +
	"and architectural details of the building while changing only the specified " +
	"colors. Remove all dirt, stains, mold, weathering, and peeling from the " +
	"building surfaces so the result looks freshly painted and brand new."

const closing = "Render the image photorealistically and in high resolution, " +
	"faithfully reproducing the building's exterior as it would appear after a " +
	"real professional paint job. Colors must match the specified color codes " +
	"exactly, with no streaks, unevenness, or unnatural patches anywhere, as if " +
	"finished by a master painter. Window frames, gutters, vents, and other " +
	"details must remain properly handled.\n\n" +
	"Do not reply to this message with text; proceed directly to image generation."

// Build renders the full generation prompt from params.
//
// Paragraphs are appended in a fixed order: preamble, one paragraph per
// changed surface color, exactly one weather paragraph, a layout paragraph,
// the optional extra-instructions paragraph, and the fixed closing. Each
// paragraph is self-contained and is skipped entirely when its condition
// does not hold.
//
// Returns a validation error if any attached color is missing its hex or
// code; a malformed prompt is worse than a rejected request, so incomplete
// metadata never reaches string interpolation.
func Build(params Params) (string, error) {
	surfaces := []struct {
		label string
		color *colors.PaintColor
	}{
		{"wall", params.Wall},
		{"roof", params.Roof},
		{"door", params.Door},
	}
	for _, s := range surfaces {
		if s.color == nil {
			continue
		}
		if err := s.color.Validate(); err != nil {
			return "", core.NewError(core.ErrorKindValidation,
				fmt.Sprintf("prompt: incomplete %s color metadata: %v", s.label, err))
		}
	}

	var b strings.Builder
	para(&b, preamble)

	if c := params.Wall; c != nil {
		para(&b, fmt.Sprintf(
			"Paint the exterior walls of the building in %q (%s, industry color code %s, "+
				"rgb(%d, %d, %d)) with a matte finish. Cover every wall face, corner, seam, "+
				"and recess uniformly so none of the previous wall color remains visible, "+
				"while preserving the wall's original texture.",
			c.Name, c.Hex, c.Code, c.RGB.R, c.RGB.G, c.RGB.B))
	}
	if c := params.Roof; c != nil {
		para(&b, fmt.Sprintf(
			"Paint the roof in %q (%s, industry color code %s, rgb(%d, %d, %d)) with a "+
				"weather-resistant finish. Coat every roof face including ridges, eaves, and "+
				"valleys so none of the previous roof color remains visible, while keeping "+
				"the texture of the roofing material.",
			c.Name, c.Hex, c.Code, c.RGB.R, c.RGB.G, c.RGB.B))
	}
	if c := params.Door; c != nil {
		para(&b, fmt.Sprintf(
			"Paint the entrance door only in %q (%s, industry color code %s, "+
				"rgb(%d, %d, %d)) with a semi-gloss finish, covering the door surface, frame, "+
				"and panels completely. Door handles, hinges, and other hardware must keep "+
				"their original color, and windows and other fittings must not be repainted.",
			c.Name, c.Hex, c.Code, c.RGB.R, c.RGB.G, c.RGB.B))
	}

	narrative, ok := weatherNarratives[params.Weather]
	if !ok {
		narrative = weatherNarratives[WeatherNone]
	}
	para(&b, narrative)

	if params.LayoutSideBySide {
		bg, ok := backgroundNarratives[params.BackgroundColor]
		if !ok {
			bg = backgroundNarratives[BackgroundWhite]
		}
		var layout strings.Builder
		fmt.Fprintf(&layout,
			"Cut out the freshly painted building and place it on a %s background. ", bg)
		if params.HasSideImage {
			layout.WriteString(
				"Arrange the front view and the side view side by side in a single image: " +
					"the painted building seen from the front on the left, and on the right the " +
					"user-provided side view rendered with the same paint specification applied.")
		} else {
			layout.WriteString(
				"Arrange the front view and an AI-generated side view side by side in a " +
					"single image, with the same paint specification applied consistently to " +
					"both views for a unified finish.")
		}
		para(&b, layout.String())
	} else {
		para(&b,
			"Keep the original composition and viewpoint entirely intact, rendering the "+
				"surrounding environment naturally, while still applying the specified color "+
				"changes without fail.")
	}

	if extra := strings.TrimSpace(params.OtherInstructions); extra != "" {
		para(&b, "In addition, please take the following into account: "+extra)
	}

	b.WriteString(closing)
	return b.String(), nil
}

func para(b *strings.Builder, text string) {
	b.WriteString(text)
	b.WriteString("\n\n")
}
