package colors

import "testing"

func TestCatalogsComplete(t *testing.T) {
	for _, surface := range []Surface{SurfaceWall, SurfaceRoof, SurfaceDoor} {
		catalog := CatalogFor(surface)
		if len(catalog) == 0 {
			t.Fatalf("empty catalog for surface %q", surface)
		}
		for _, c := range catalog {
			if err := c.Validate(); err != nil {
				t.Errorf("%s catalog: %v", surface, err)
			}
		}
	}
}

func TestCatalogForUnknownSurface(t *testing.T) {
	if got := CatalogFor(Surface("chimney")); got != nil {
		t.Errorf("CatalogFor(chimney) = %v, want nil", got)
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		surface  Surface
		query    string
		wantCode string
		wantHex  string
		found    bool
	}{
		{SurfaceWall, "Red", "07-40X", "#B90019", true},
		{SurfaceWall, "07-40x", "07-40X", "#B90019", true},
		{SurfaceWall, "White", "N90", "#E5E5E5", true},
		{SurfaceRoof, "Charcoal Black", "N25", "#404040", true},
		{SurfaceDoor, "Dark Brown", "05-30D", "#5C3A28", true},
		{SurfaceWall, "Chartreuse", "", "", false},
		{SurfaceRoof, "White", "", "", false}, // white is a wall color only
	}
	for _, tt := range tests {
		got, ok := Find(tt.surface, tt.query)
		if ok != tt.found {
			t.Errorf("Find(%s, %q) found=%v, want %v", tt.surface, tt.query, ok, tt.found)
			continue
		}
		if !ok {
			continue
		}
		if got.Code != tt.wantCode || got.Hex != tt.wantHex {
			t.Errorf("Find(%s, %q) = code %q hex %q, want %q %q",
				tt.surface, tt.query, got.Code, got.Hex, tt.wantCode, tt.wantHex)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		color   PaintColor
		wantErr bool
	}{
		{"valid", PaintColor{ID: "x", Name: "Red", Code: "07-40X", Hex: "#B90019"}, false},
		{"missing name", PaintColor{ID: "x", Code: "07-40X", Hex: "#B90019"}, true},
		{"missing code", PaintColor{ID: "x", Name: "Red", Hex: "#B90019"}, true},
		{"missing hex", PaintColor{ID: "x", Name: "Red", Code: "07-40X"}, true},
		{"malformed hex", PaintColor{ID: "x", Name: "Red", Code: "07-40X", Hex: "B90019"}, true},
		{"short hex", PaintColor{ID: "x", Name: "Red", Code: "07-40X", Hex: "#B90"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.color.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
