package providers

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultMetadata carries the client-facing descriptions served by the
// provider listing endpoint. A metadata file can override any of it.
var defaultMetadata = map[ID]Config{
	IDFalAI: {
		ID:          IDFalAI,
		DisplayName: "Fal AI (Seedream 4.0)",
		Description: "AI model optimized for high-quality image generation",
		Features: []string{
			"High-resolution output",
			"Fast generation (30-60s on average)",
			"Photorealistic results",
			"Strong architectural detail",
		},
		Limitations: []string{
			"Paid subscription required",
			"Requires internet connectivity",
		},
	},
	IDGemini: {
		ID:          IDGemini,
		DisplayName: "Google Gemini 2.5 Flash",
		Description: "Google's latest multimodal AI model",
		Features: []string{
			"Multilingual support",
			"Advanced image understanding",
			"Free usage tier available",
			"Real-time generation",
		},
		Limitations: []string{
			"Generation quality can vary",
			"Preview-stage limits apply",
		},
	},
}

type metadataFile struct {
	Providers []Config `yaml:"providers"`
}

// LoadMetadata returns the provider display metadata, overlaying entries
// from the YAML file at path when it exists. An empty path or a missing
// file yields the defaults unchanged.
func LoadMetadata(path string) (map[ID]Config, error) {
	meta := make(map[ID]Config, len(defaultMetadata))
	for id, cfg := range defaultMetadata {
		meta[id] = cfg
	}
	if path == "" {
		return meta, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return meta, nil
	}
	if err != nil {
		return nil, fmt.Errorf("providers: read metadata file: %w", err)
	}

	var file metadataFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("providers: parse metadata file: %w", err)
	}
	for _, cfg := range file.Providers {
		if !cfg.ID.Valid() {
			return nil, fmt.Errorf("providers: metadata file names unknown provider %q", cfg.ID)
		}
		merged := meta[cfg.ID]
		if cfg.DisplayName != "" {
			merged.DisplayName = cfg.DisplayName
		}
		if cfg.Description != "" {
			merged.Description = cfg.Description
		}
		if len(cfg.Features) > 0 {
			merged.Features = cfg.Features
		}
		if len(cfg.Limitations) > 0 {
			merged.Limitations = cfg.Limitations
		}
		meta[cfg.ID] = merged
	}
	return meta, nil
}
