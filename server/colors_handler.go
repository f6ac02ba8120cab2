package server

import (
	"net/http"

	"paintly_backend/colors"
)

type colorsResponse struct {
	Success bool                `json:"success"`
	Wall    []colors.PaintColor `json:"wall"`
	Roof    []colors.PaintColor `json:"roof"`
	Door    []colors.PaintColor `json:"door"`
}

// handleColors returns the paint catalogs. The catalogs are compiled in, so
// the response is immutable for a given build.
func (s *Server) handleColors(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", providersCacheControl)
	s.writeJSON(w, http.StatusOK, colorsResponse{
		Success: true,
		Wall:    colors.WallColors,
		Roof:    colors.RoofColors,
		Door:    colors.DoorColors,
	})
}
