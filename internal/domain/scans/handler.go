package scans

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-visit-summary/internal/domain/pets"
	"pet-visit-summary/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, petsSvc *pets.Service) {
	r.Route("/pets/{petID}/scans", func(sr chi.Router) {
		sr.Post("/", createScanHandler(svc, petsSvc))
		sr.Get("/", listScansHandler(svc, petsSvc))
		sr.Get("/{scanID}", getScanHandler(svc, petsSvc))

		// El servicio de análisis reporta el resultado acá.
		sr.Post("/{scanID}/complete", completeScanHandler(svc, petsSvc))
		sr.Post("/{scanID}/fail", failScanHandler(svc, petsSvc))
	})
}

type completeScanRequest struct {
	ProductName       string   `json:"product_name"`
	Brand             string   `json:"brand"`
	Ingredients       []string `json:"ingredients"`
	UnsafeIngredients []string `json:"unsafe_ingredients"`
}

type scanAnalysisResponse struct {
	ProductName       string   `json:"product_name"`
	Brand             string   `json:"brand"`
	Ingredients       []string `json:"ingredients"`
	UnsafeIngredients []string `json:"unsafe_ingredients"`
}

type scanResponse struct {
	ID          string                `json:"id"`
	PetID       string                `json:"pet_id"`
	Status      Status                `json:"status"`
	Analysis    *scanAnalysisResponse `json:"analysis,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
}

// createScanHandler godoc
// @Summary Crear escaneo
// @Description Registra un escaneo de producto en estado pending para la mascota indicada.
// @Tags scans
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 201 {object} scanResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/scans [post]
func createScanHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := authorizePet(w, r, petsSvc)
		if !ok {
			return
		}

		rec, err := svc.Create(r.Context(), p.ID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toScanResponse(rec))
	}
}

func listScansHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := authorizePet(w, r, petsSvc)
		if !ok {
			return
		}

		filter, err := parseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.ListByPet(r.Context(), p.ID, filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]scanResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toScanResponse(rec))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getScanHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := authorizePet(w, r, petsSvc)
		if !ok {
			return
		}

		rec, err := svc.GetByID(r.Context(), chi.URLParam(r, "scanID"))
		if err != nil || rec.PetID != p.ID {
			http.Error(w, "scan not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toScanResponse(rec))
	}
}

func completeScanHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := authorizePet(w, r, petsSvc)
		if !ok {
			return
		}

		scanID := chi.URLParam(r, "scanID")
		rec, err := svc.GetByID(r.Context(), scanID)
		if err != nil || rec.PetID != p.ID {
			http.Error(w, "scan not found", http.StatusNotFound)
			return
		}

		var req completeScanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, err := svc.Complete(r.Context(), scanID, CompleteInput{
			ProductName:       req.ProductName,
			Brand:             req.Brand,
			Ingredients:       req.Ingredients,
			UnsafeIngredients: req.UnsafeIngredients,
		})
		if err != nil {
			writeScanError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toScanResponse(updated))
	}
}

func failScanHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := authorizePet(w, r, petsSvc)
		if !ok {
			return
		}

		scanID := chi.URLParam(r, "scanID")
		rec, err := svc.GetByID(r.Context(), scanID)
		if err != nil || rec.PetID != p.ID {
			http.Error(w, "scan not found", http.StatusNotFound)
			return
		}

		updated, err := svc.Fail(r.Context(), scanID)
		if err != nil {
			writeScanError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toScanResponse(updated))
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	filter := ListFilter{Limit: limit}

	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("from must be RFC3339")
		}
		filter.From = &t
	}

	if v := strings.TrimSpace(r.URL.Query().Get("completed")); v != "" {
		filter.CompletedOnly = v == "true" || v == "1"
	}

	return filter, nil
}

func writeScanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNotPending):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "scan not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func authorizePet(w http.ResponseWriter, r *http.Request, petsSvc *pets.Service) (pets.Pet, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return pets.Pet{}, false
	}

	petID := chi.URLParam(r, "petID")
	p, err := petsSvc.GetByID(r.Context(), petID)
	if err != nil {
		http.Error(w, "pet not found", http.StatusNotFound)
		return pets.Pet{}, false
	}

	if p.OwnerUserID != claims.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return pets.Pet{}, false
	}

	return p, true
}

func toScanResponse(rec ScanRecord) scanResponse {
	out := scanResponse{
		ID:          rec.ID,
		PetID:       rec.PetID,
		Status:      rec.Status,
		CreatedAt:   rec.CreatedAt,
		CompletedAt: rec.CompletedAt,
	}
	if rec.Analysis != nil {
		out.Analysis = &scanAnalysisResponse{
			ProductName:       rec.Analysis.ProductName,
			Brand:             rec.Analysis.Brand,
			Ingredients:       rec.Analysis.Ingredients,
			UnsafeIngredients: rec.Analysis.UnsafeIngredients,
		}
	}
	return out
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
