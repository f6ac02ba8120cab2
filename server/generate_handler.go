package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"paintly_backend/colors"
	"paintly_backend/core"
	"paintly_backend/generation"
	"paintly_backend/prompt"
	"paintly_backend/providers"
)

// generateResponse flattens the result fields next to the success flag.
type generateResponse struct {
	Success bool `json:"success"`
	*generation.Result
}

// handleGenerate accepts a multipart form and runs the full generation
// pipeline. The response carries the terminal result either way; failures
// additionally use the error status mapped from the classification.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.writeError(w, core.WrapError(core.ErrorKindUpload, "failed to parse upload", err))
		return
	}

	req, err := s.requestFromForm(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.orch.Generate(r.Context(), req)
	if err != nil {
		if result != nil {
			// Dispatch failed after a history record was written; return
			// the failed result alongside the error classification.
			s.writeJSON(w, statusForKind(core.KindOf(err)), generateResponse{Result: result})
			return
		}
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, generateResponse{Success: true, Result: result})
}

// requestFromForm maps the multipart fields onto a generation request.
// Color values resolve against the catalogs here so prompt construction
// never sees a bare color name.
func (s *Server) requestFromForm(r *http.Request) (*generation.Request, error) {
	req := &generation.Request{
		CustomerID:        r.FormValue("customerId"),
		Weather:           prompt.Weather(r.FormValue("weather")),
		BackgroundColor:   prompt.Background(r.FormValue("backgroundColor")),
		OtherInstructions: r.FormValue("otherInstructions"),
	}
	if v := r.FormValue("layoutSideBySide"); v != "" {
		sideBySide, err := strconv.ParseBool(v)
		if err != nil {
			return nil, core.NewError(core.ErrorKindValidation,
				fmt.Sprintf("invalid layoutSideBySide value %q", v))
		}
		req.LayoutSideBySide = sideBySide
	}

	var err error
	if req.Wall, err = generation.ResolveColor(colors.SurfaceWall, r.FormValue("wallColor")); err != nil {
		return nil, err
	}
	if req.Roof, err = generation.ResolveColor(colors.SurfaceRoof, r.FormValue("roofColor")); err != nil {
		return nil, err
	}
	if req.Door, err = generation.ResolveColor(colors.SurfaceDoor, r.FormValue("doorColor")); err != nil {
		return nil, err
	}

	main, err := formImage(r, "mainImage", true)
	if err != nil {
		return nil, err
	}
	req.MainImage = *main

	side, err := formImage(r, "sideImage", false)
	if err != nil {
		return nil, err
	}
	req.SideImage = side

	return req, nil
}

// formImage reads and validates one uploaded image. A missing optional file
// returns (nil, nil).
func formImage(r *http.Request, field string, required bool) (*providers.Image, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile && !required {
			return nil, nil
		}
		return nil, core.WrapError(core.ErrorKindUpload,
			fmt.Sprintf("missing or unreadable %s", field), err)
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, core.WrapError(core.ErrorKindUpload,
			fmt.Sprintf("failed to read %s", field), err)
	}
	img, err := generation.ParseImage(data)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// previewRequest is the JSON body of POST /api/generate/preview. It mirrors
// the multipart form minus the images.
type previewRequest struct {
	WallColor         string `json:"wallColor"`
	RoofColor         string `json:"roofColor"`
	DoorColor         string `json:"doorColor"`
	Weather           string `json:"weather"`
	LayoutSideBySide  bool   `json:"layoutSideBySide"`
	BackgroundColor   string `json:"backgroundColor"`
	OtherInstructions string `json:"otherInstructions"`
	HasSideImage      bool   `json:"hasSideImage"`
}

type previewResponse struct {
	Success  bool         `json:"success"`
	Prompt   string       `json:"prompt"`
	Provider providers.ID `json:"provider"`
}

// handlePreview renders the prompt a request would dispatch. No quota,
// history, or provider traffic.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var body previewRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&body); err != nil {
		s.writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req := &generation.Request{
		Weather:           prompt.Weather(body.Weather),
		LayoutSideBySide:  body.LayoutSideBySide,
		BackgroundColor:   prompt.Background(body.BackgroundColor),
		OtherInstructions: body.OtherInstructions,
	}
	if body.HasSideImage {
		req.SideImage = &providers.Image{}
	}

	var err error
	if req.Wall, err = generation.ResolveColor(colors.SurfaceWall, body.WallColor); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Roof, err = generation.ResolveColor(colors.SurfaceRoof, body.RoofColor); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Door, err = generation.ResolveColor(colors.SurfaceDoor, body.DoorColor); err != nil {
		s.writeError(w, err)
		return
	}

	rendered, provider, err := s.orch.PreviewPrompt(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, previewResponse{Success: true, Prompt: rendered, Provider: provider})
}
