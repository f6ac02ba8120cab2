package server

import (
	"net/http"
	"strconv"
	"time"

	"paintly_backend/db"
)

// historyItem is the wire shape of one persisted generation.
type historyItem struct {
	ID                string `json:"id"`
	CustomerID        string `json:"customerId"`
	WallColorName     string `json:"wallColorName,omitempty"`
	WallColorCode     string `json:"wallColorCode,omitempty"`
	RoofColorName     string `json:"roofColorName,omitempty"`
	RoofColorCode     string `json:"roofColorCode,omitempty"`
	DoorColorName     string `json:"doorColorName,omitempty"`
	DoorColorCode     string `json:"doorColorCode,omitempty"`
	Weather           string `json:"weather"`
	LayoutSideBySide  bool   `json:"layoutSideBySide"`
	BackgroundColor   string `json:"backgroundColor,omitempty"`
	OtherInstructions string `json:"otherInstructions,omitempty"`
	ProviderUsed      string `json:"providerUsed"`
	Model             string `json:"model,omitempty"`
	Status            string `json:"status"`
	ImageURL          string `json:"imageUrl,omitempty"`
	ErrorMessage      string `json:"errorMessage,omitempty"`
	ProcessingTimeMS  int64  `json:"processingTimeMs"`
	CreatedAt         string `json:"createdAt"`
}

type historyResponse struct {
	Success bool          `json:"success"`
	History []historyItem `json:"history"`
}

// handleHistory lists generation runs, newest first. Query parameters:
// customerId (optional filter) and limit.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeErrorMessage(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := s.orch.History(r.Context(), r.URL.Query().Get("customerId"), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	items := make([]historyItem, len(records))
	for i, rec := range records {
		items[i] = toHistoryItem(rec)
	}
	s.writeJSON(w, http.StatusOK, historyResponse{Success: true, History: items})
}

func toHistoryItem(rec db.GenerationRecord) historyItem {
	return historyItem{
		ID:                rec.ID,
		CustomerID:        rec.CustomerID,
		WallColorName:     rec.WallColorName,
		WallColorCode:     rec.WallColorCode,
		RoofColorName:     rec.RoofColorName,
		RoofColorCode:     rec.RoofColorCode,
		DoorColorName:     rec.DoorColorName,
		DoorColorCode:     rec.DoorColorCode,
		Weather:           rec.Weather,
		LayoutSideBySide:  rec.LayoutSideBySide,
		BackgroundColor:   rec.BackgroundColor,
		OtherInstructions: rec.OtherInstructions,
		ProviderUsed:      rec.ProviderUsed,
		Model:             rec.Model,
		Status:            rec.Status,
		ImageURL:          rec.ImageURL,
		ErrorMessage:      rec.ErrorMessage,
		ProcessingTimeMS:  rec.ProcessingTimeMS,
		CreatedAt:         rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}
