package visitsummary

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pet-visit-summary/internal/domain/healthevents"
	"pet-visit-summary/internal/domain/pets"
	"pet-visit-summary/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, petsSvc *pets.Service) {
	r.Post("/pets/{petID}/visit-summary", generateSummaryHandler(svc, petsSvc))
	r.Get("/visit-summary", currentSummaryHandler(svc))
	r.Delete("/visit-summary", clearSummaryHandler(svc))
}

type generateSummaryRequest struct {
	RangeDays int `json:"range_days" enums:"30,60,90"`
}

type flaggedIngredientResponse struct {
	Name     string       `json:"name"`
	Reason   string       `json:"reason"`
	Severity FlagSeverity `json:"severity"`
}

type foodChangeResponse struct {
	Date               time.Time                   `json:"date"`
	FoodName           string                      `json:"food_name"`
	Change             ChangeKind                  `json:"change"`
	FlaggedIngredients []flaggedIngredientResponse `json:"flagged_ingredients"`
}

type weightPointResponse struct {
	Date     time.Time `json:"date"`
	WeightKg float64   `json:"weight_kg"`
}

type weightTrendResponse struct {
	Points        []weightPointResponse `json:"points"`
	StartKg       float64               `json:"start_kg"`
	EndKg         float64               `json:"end_kg"`
	MinKg         float64               `json:"min_kg"`
	MaxKg         float64               `json:"max_kg"`
	PercentChange *float64              `json:"percent_change,omitempty"`
	Trend         Trend                 `json:"trend"`
	HasData       bool                  `json:"has_data"`
}

type activeMedicationResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Dosage    string     `json:"dosage"`
	Frequency string     `json:"frequency"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsOngoing bool       `json:"is_ongoing"`
	Duration  string     `json:"duration"`
}

type healthEventSummaryResponse struct {
	ID       string                `json:"id"`
	Date     time.Time             `json:"date"`
	Category healthevents.Category `json:"category"`
	Title    string                `json:"title"`
	Severity int                   `json:"severity"`
	Notes    string                `json:"notes"`
}

type petSnapshotResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Species  string   `json:"species"`
	Breed    string   `json:"breed"`
	WeightKg *float64 `json:"weight_kg,omitempty"`
}

type summaryStatsResponse struct {
	FoodChangeCount        int      `json:"food_change_count"`
	FlaggedIngredientCount int      `json:"flagged_ingredient_count"`
	WeightChangePercent    *float64 `json:"weight_change_percent,omitempty"`
	MedicationCount        int      `json:"medication_count"`
	HealthEventCount       int      `json:"health_event_count"`
}

type visitSummaryResponse struct {
	ID                 string                       `json:"id"`
	Pet                petSnapshotResponse          `json:"pet"`
	RangeDays          int                          `json:"range_days"`
	GeneratedAt        time.Time                    `json:"generated_at"`
	FoodChanges        []foodChangeResponse         `json:"food_changes"`
	WeightTrend        weightTrendResponse          `json:"weight_trend"`
	ActiveMedications  []activeMedicationResponse   `json:"active_medications"`
	HealthEvents       []healthEventSummaryResponse `json:"health_events"`
	KnownSensitivities []string                     `json:"known_sensitivities"`
	OwnerNotes         string                       `json:"owner_notes"`
	Stats              summaryStatsResponse         `json:"stats"`
}

type summaryStateResponse struct {
	Status  Status                `json:"status"`
	Summary *visitSummaryResponse `json:"summary,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// generateSummaryHandler godoc
// @Summary Generar resumen de visita
// @Description Genera un reporte agregado (comida, peso, medicaciones, eventos de salud) para la visita al veterinario. Ventana de 30, 60 o 90 días. Las fuentes de medicaciones y eventos son best-effort; si la fuente de comida o de peso falla, la generación falla entera.
// @Tags visit-summary
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body generateSummaryRequest true "Ventana del reporte en días (30, 60 o 90)"
// @Success 200 {object} visitSummaryResponse
// @Failure 400 {string} string "invalid json / range_days inválido"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Failure 502 {string} string "una fuente load-bearing falló"
// @Router /pets/{petID}/visit-summary [post]
func generateSummaryHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID := chi.URLParam(r, "petID")
		p, err := petsSvc.GetByID(r.Context(), petID)
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}
		if p.OwnerUserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req generateSummaryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rng, err := ParseRange(req.RangeDays)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		summary, err := svc.Generate(r.Context(), p, rng)
		if err != nil {
			if r.Context().Err() != nil {
				// El cliente abandonó; no hay a quién responder.
				return
			}
			http.Error(w, "summary generation failed: "+err.Error(), http.StatusBadGateway)
			return
		}

		writeJSON(w, http.StatusOK, toSummaryResponse(summary))
	}
}

func currentSummaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		st := svc.State()
		// El estado pertenece al dueño que lo generó; nadie más lo lee.
		if st.OwnerUserID != "" && st.OwnerUserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		out := summaryStateResponse{
			Status: st.Status,
			Error:  st.ErrMessage,
		}
		if st.Summary != nil {
			resp := toSummaryResponse(*st.Summary)
			out.Summary = &resp
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func clearSummaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		st := svc.State()
		// Solo el dueño que generó el estado puede descartarlo.
		if st.OwnerUserID != "" && st.OwnerUserID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		svc.Clear()
		w.WriteHeader(http.StatusNoContent)
	}
}

func toSummaryResponse(v VisitSummary) visitSummaryResponse {
	foodChanges := make([]foodChangeResponse, 0, len(v.FoodChanges))
	for _, fc := range v.FoodChanges {
		flags := make([]flaggedIngredientResponse, 0, len(fc.FlaggedIngredients))
		for _, f := range fc.FlaggedIngredients {
			flags = append(flags, flaggedIngredientResponse{
				Name:     f.Name,
				Reason:   f.Reason,
				Severity: f.Severity,
			})
		}
		foodChanges = append(foodChanges, foodChangeResponse{
			Date:               fc.Date,
			FoodName:           fc.FoodName,
			Change:             fc.Change,
			FlaggedIngredients: flags,
		})
	}

	points := make([]weightPointResponse, 0, len(v.WeightTrend.Points))
	for _, p := range v.WeightTrend.Points {
		points = append(points, weightPointResponse{Date: p.Date, WeightKg: p.WeightKg})
	}

	meds := make([]activeMedicationResponse, 0, len(v.ActiveMedications))
	for _, m := range v.ActiveMedications {
		meds = append(meds, activeMedicationResponse{
			ID:        m.ID,
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			StartDate: m.StartDate,
			EndDate:   m.EndDate,
			IsOngoing: m.IsOngoing,
			Duration:  m.Duration,
		})
	}

	events := make([]healthEventSummaryResponse, 0, len(v.HealthEvents))
	for _, e := range v.HealthEvents {
		events = append(events, healthEventSummaryResponse{
			ID:       e.ID,
			Date:     e.Date,
			Category: e.Category,
			Title:    e.Title,
			Severity: e.Severity,
			Notes:    e.Notes,
		})
	}

	sens := v.KnownSensitivities
	if sens == nil {
		sens = []string{}
	}

	return visitSummaryResponse{
		ID: v.ID,
		Pet: petSnapshotResponse{
			ID:       v.Pet.ID,
			Name:     v.Pet.Name,
			Species:  v.Pet.Species,
			Breed:    v.Pet.Breed,
			WeightKg: v.Pet.WeightKg,
		},
		RangeDays:   v.RangeDays,
		GeneratedAt: v.GeneratedAt,
		FoodChanges: foodChanges,
		WeightTrend: weightTrendResponse{
			Points:        points,
			StartKg:       v.WeightTrend.StartKg,
			EndKg:         v.WeightTrend.EndKg,
			MinKg:         v.WeightTrend.MinKg,
			MaxKg:         v.WeightTrend.MaxKg,
			PercentChange: v.WeightTrend.PercentChange,
			Trend:         v.WeightTrend.Trend,
			HasData:       v.WeightTrend.HasData(),
		},
		ActiveMedications:  meds,
		HealthEvents:       events,
		KnownSensitivities: sens,
		OwnerNotes:         v.OwnerNotes,
		Stats: summaryStatsResponse{
			FoodChangeCount:        len(v.FoodChanges),
			FlaggedIngredientCount: v.FlaggedIngredientCount(),
			WeightChangePercent:    v.WeightChangePercent(),
			MedicationCount:        len(v.ActiveMedications),
			HealthEventCount:       len(v.HealthEvents),
		},
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
