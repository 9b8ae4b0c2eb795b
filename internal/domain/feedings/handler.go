package feedings

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
	r.Route("/pets/{petID}/feedings", func(fr chi.Router) {
		fr.Post("/", logFeedingHandler(svc, petsSvc))
		fr.Get("/", listFeedingsHandler(svc, petsSvc))
		fr.Delete("/{feedingID}", deleteFeedingHandler(svc, petsSvc))
	})
}

type logFeedingRequest struct {
	FoodName string `json:"food_name"`
	Brand    string `json:"brand"`
	FedAt    string `json:"fed_at"` // RFC3339
	Notes    string `json:"notes"`
}

type feedingResponse struct {
	ID        string    `json:"id"`
	PetID     string    `json:"pet_id"`
	FoodName  string    `json:"food_name"`
	Brand     string    `json:"brand"`
	FedAt     time.Time `json:"fed_at"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// logFeedingHandler godoc
// @Summary Registrar alimentación
// @Description Registra una entrada del diario de alimentación de la mascota. Solo el dueño puede registrar.
// @Tags feedings
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body logFeedingRequest true "Datos de la alimentación; fed_at en formato RFC3339"
// @Success 201 {object} feedingResponse
// @Failure 400 {string} string "invalid json / fed_at inválido / reglas de negocio"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/feedings [post]
func logFeedingHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := authorizePet(w, r, petsSvc)
		if !ok {
			return
		}

		var req logFeedingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := time.Parse(time.RFC3339, req.FedAt)
		if err != nil {
			http.Error(w, "fed_at must be RFC3339", http.StatusBadRequest)
			return
		}

		f, err := svc.Log(r.Context(), p.ID, LogInput{
			FoodName: req.FoodName,
			Brand:    req.Brand,
			FedAt:    t,
			Notes:    req.Notes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toFeedingResponse(f))
	}
}

func listFeedingsHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
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

		out := make([]feedingResponse, 0, len(items))
		for _, f := range items {
			out = append(out, toFeedingResponse(f))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func deleteFeedingHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := authorizePet(w, r, petsSvc)
		if !ok {
			return
		}

		err := svc.Delete(r.Context(), p.ID, chi.URLParam(r, "feedingID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) || strings.Contains(strings.ToLower(err.Error()), "not found") {
				http.Error(w, "feeding record not found", http.StatusNotFound)
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

func toFeedingResponse(f FeedingRecord) feedingResponse {
	return feedingResponse{
		ID:        f.ID,
		PetID:     f.PetID,
		FoodName:  f.FoodName,
		Brand:     f.Brand,
		FedAt:     f.FedAt,
		Notes:     f.Notes,
		CreatedAt: f.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
