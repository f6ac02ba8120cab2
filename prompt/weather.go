package prompt

// Weather selects which lighting/atmosphere paragraph the builder emits.
type Weather string

const (
	WeatherNone   Weather = "none"
	WeatherSunny  Weather = "sunny"
	WeatherCloudy Weather = "cloudy"
	WeatherRainy  Weather = "rainy"
	WeatherSnowy  Weather = "snowy"
)

// Weathers lists every recognized weather value.
var Weathers = []Weather{WeatherNone, WeatherSunny, WeatherCloudy, WeatherRainy, WeatherSnowy}

// Valid reports whether w is a recognized weather value.
func (w Weather) Valid() bool {
	switch w {
	case WeatherNone, WeatherSunny, WeatherCloudy, WeatherRainy, WeatherSnowy:
		return true
	}
	return false
}

// weatherNarratives maps each weather value to exactly one descriptive
// paragraph. The builder never blends entries; an unrecognized value falls
// back to the WeatherNone entry.
var weatherNarratives = map[Weather]string{
	WeatherNone: "Keep the same lighting conditions and weather as the original image, " +
		"changing only the paint colors. Preserve the surrounding environment, the way " +
		"light falls on the building, and the original shadow patterns exactly as they are.",
	WeatherSunny: "Under a clear blue sky, bright sunlight pours down and illuminates the " +
		"freshly painted building. Crisp shadows emphasize the building's dimensionality, " +
		"and the vivid colors of the clean new paint should appear to shine in the sunlight.",
	WeatherCloudy: "Under a calm overcast sky, soft and even light wraps the freshly painted " +
		"building. Shadows are subdued, providing ideal conditions that gently bring out the " +
		"texture and tone of the clean new paintwork.",
	WeatherRainy: "Rain glistens on the building's surfaces, highlighting the beauty of the " +
		"new paint. Raindrops stream down the clean painted faces, the wet texture lending " +
		"the building depth and character, while the soft light unique to a rainy day gently " +
		"flatters the new colors.",
	WeatherSnowy: "The freshly painted building stands quietly in a dreamlike snow-covered " +
		"scene. Snow resting on the roof and surroundings makes the clean, vivid paint colors " +
		"stand out all the more, composing a beautiful winter tableau.",
}

// Background selects the cut-out background for side-by-side layouts.
type Background string

const (
	BackgroundWhite Background = "white"
	BackgroundBlack Background = "black"
	BackgroundPink  Background = "pink"
)

// Valid reports whether b is a recognized background value.
func (b Background) Valid() bool {
	switch b {
	case BackgroundWhite, BackgroundBlack, BackgroundPink:
		return true
	}
	return false
}

// backgroundNarratives gives each background its descriptive phrase. An
// unrecognized value falls back to pure white, matching the default layout.
var backgroundNarratives = map[Background]string{
	BackgroundWhite: "pure white",
	BackgroundBlack: "deep black",
	BackgroundPink:  "soft pale pink",
}
