package healthevents

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
	r.Route("/pets/{petID}/health-events", func(hr chi.Router) {
		hr.Post("/", recordEventHandler(svc, petsSvc))
		hr.Get("/", listEventsHandler(svc, petsSvc))
		hr.Delete("/{eventID}", deleteEventHandler(svc, petsSvc))
	})
}

type recordEventRequest struct {
	OccurredAt string   `json:"occurred_at"` // RFC3339
	Category   Category `json:"category" enums:"vomiting,diarrhea,itching,lethargy,vet_visit,other"`
	Title      string   `json:"title"`
	Severity   int      `json:"severity"` // 1-5
	Notes      string   `json:"notes"`
}

type eventResponse struct {
	ID         string    `json:"id"`
	PetID      string    `json:"pet_id"`
	OccurredAt time.Time `json:"occurred_at"`
	RecordedAt time.Time `json:"recorded_at"`
	Category   Category  `json:"category"`
	Title      string    `json:"title"`
	Severity   int       `json:"severity"`
	Notes      string    `json:"notes"`
}

// recordEventHandler godoc
// @Summary Registrar evento de salud
// @Description Registra un evento de salud observado (vómito, diarrea, visita al veterinario, etc.) con severidad 1-5.
// @Tags health-events
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body recordEventRequest true "Datos del evento; occurred_at en formato RFC3339"
// @Success 201 {object} eventResponse
// @Failure 400 {string} string "invalid json / occurred_at inválido / severidad fuera de rango"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/health-events [post]
func recordEventHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := authorizePet(w, r, petsSvc)
		if !ok {
			return
		}

		var req recordEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			http.Error(w, "occurred_at must be RFC3339", http.StatusBadRequest)
			return
		}

		e, err := svc.Record(r.Context(), p.ID, RecordInput{
			OccurredAt: t,
			Category:   req.Category,
			Title:      req.Title,
			Severity:   req.Severity,
			Notes:      req.Notes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toEventResponse(e))
	}
}

func listEventsHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
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

		out := make([]eventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEventResponse(e))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func deleteEventHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := authorizePet(w, r, petsSvc)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), p.ID, chi.URLParam(r, "eventID")); err != nil {
			if errors.Is(err, ErrNotFound) || strings.Contains(strings.ToLower(err.Error()), "not found") {
				http.Error(w, "health event not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
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

	// categories=vomiting,diarrhea
	if v := strings.TrimSpace(r.URL.Query().Get("categories")); v != "" {
		parts := strings.Split(v, ",")
		out := make([]Category, 0, len(parts))
		for _, p := range parts {
			c := Category(strings.TrimSpace(p))
			if c == "" {
				continue
			}
			if !ValidCategory(c) {
				return ListFilter{}, errors.New("unknown category: " + string(c))
			}
			out = append(out, c)
		}
		if len(out) > 0 {
			filter.Categories = out
		}
	}

	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("from must be RFC3339")
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("to must be RFC3339")
		}
		filter.To = &t
	}

	return filter, nil
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

func toEventResponse(e HealthEvent) eventResponse {
	return eventResponse{
		ID:         e.ID,
		PetID:      e.PetID,
		OccurredAt: e.OccurredAt,
		RecordedAt: e.RecordedAt,
		Category:   e.Category,
		Title:      e.Title,
		Severity:   e.Severity,
		Notes:      e.Notes,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
