package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pet-visit-summary/internal/router"
)

func TestHTTP_EndToEnd_VisitSummary(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	ownerID := "owner-1"
	strangerID := "stranger-1"
	now := time.Now().UTC()

	// 1) Owner crea mascota con sensibilidad a pescado y peso actual
	petID := createPet(t, ts.URL, ownerID, map[string]any{
		"name":                "Buddy",
		"species":             "dog",
		"breed":               "beagle",
		"sex":                 "male",
		"known_sensitivities": []string{"fish"},
		"weight_kg":           12.5,
	})

	// 2) Otro usuario no puede ver la mascota
	{
		st, _ := doReq(t, ts.URL, "GET", "/pets/"+petID, strangerID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for stranger, got %d", st)
		}
	}

	// 3) Diario de alimentación: la misma comida dos veces y una nueva
	logFeeding(t, ts.URL, ownerID, petID, "Chicken Mix", "Acme", now.AddDate(0, 0, -25))
	logFeeding(t, ts.URL, ownerID, petID, "Chicken Mix", "Acme", now.AddDate(0, 0, -20))
	logFeeding(t, ts.URL, ownerID, petID, "Fish Stew", "Acme", now.AddDate(0, 0, -10))

	// 4) Escaneo completado con ingrediente inseguro
	scanID := createScan(t, ts.URL, ownerID, petID)
	{
		st, body := doReq(t, ts.URL, "POST", "/pets/"+petID+"/scans/"+scanID+"/complete", ownerID, map[string]any{
			"product_name":       "Mystery Treats",
			"brand":              "NoName",
			"ingredients":        []string{"corn", "xylitol"},
			"unsafe_ingredients": []string{"xylitol"},
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 completing scan, got %d body=%s", st, string(body))
		}
	}

	// 5) Medicación vigente
	{
		st, body := doReq(t, ts.URL, "POST", "/pets/"+petID+"/medications", ownerID, map[string]any{
			"name":       "Apoquel",
			"dosage":     "16",
			"dose_unit":  "mg",
			"frequency":  "cada 12h",
			"start_date": now.AddDate(0, 0, -15).Format("2006-01-02"),
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create medication, got %d body=%s", st, string(body))
		}
	}

	// 6) Evento de salud dentro de la ventana
	{
		st, body := doReq(t, ts.URL, "POST", "/pets/"+petID+"/health-events", ownerID, map[string]any{
			"occurred_at": now.AddDate(0, 0, -3).Format(time.RFC3339),
			"category":    "vomiting",
			"title":       "Vómito después de comer",
			"severity":    3,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 record event, got %d body=%s", st, string(body))
		}
	}

	// 7) range_days inválido => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/pets/"+petID+"/visit-summary", ownerID, map[string]any{
			"range_days": 45,
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid range, got %d", st)
		}
	}

	// 8) Generar resumen de 30 días
	var summary struct {
		ID          string `json:"id"`
		RangeDays   int    `json:"range_days"`
		FoodChanges []struct {
			FoodName           string `json:"food_name"`
			Change             string `json:"change"`
			FlaggedIngredients []struct {
				Name     string `json:"name"`
				Severity string `json:"severity"`
			} `json:"flagged_ingredients"`
		} `json:"food_changes"`
		WeightTrend struct {
			Trend   string `json:"trend"`
			HasData bool   `json:"has_data"`
		} `json:"weight_trend"`
		ActiveMedications []struct {
			Name      string `json:"name"`
			Dosage    string `json:"dosage"`
			IsOngoing bool   `json:"is_ongoing"`
		} `json:"active_medications"`
		HealthEvents []struct {
			Category string `json:"category"`
			Severity int    `json:"severity"`
		} `json:"health_events"`
		KnownSensitivities []string `json:"known_sensitivities"`
		Stats              struct {
			FoodChangeCount        int `json:"food_change_count"`
			FlaggedIngredientCount int `json:"flagged_ingredient_count"`
		} `json:"stats"`
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/pets/"+petID+"/visit-summary", ownerID, map[string]any{
			"range_days": 30,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 generating summary, got %d body=%s", st, string(body))
		}
		if err := json.Unmarshal(body, &summary); err != nil {
			t.Fatalf("decode summary: %v body=%s", err, string(body))
		}
	}

	if summary.RangeDays != 30 {
		t.Fatalf("expected range 30, got %d", summary.RangeDays)
	}

	// Tres comidas distintas: escaneo (hoy), Fish Stew (-10d), Chicken Mix (-25d).
	if len(summary.FoodChanges) != 3 {
		t.Fatalf("expected 3 food changes, got %d: %+v", len(summary.FoodChanges), summary.FoodChanges)
	}
	if summary.FoodChanges[0].FoodName != "NoName Mystery Treats" {
		t.Fatalf("expected scan product first (newest), got %q", summary.FoodChanges[0].FoodName)
	}
	if summary.FoodChanges[1].FoodName != "Acme Fish Stew" {
		t.Fatalf("expected fish stew second, got %q", summary.FoodChanges[1].FoodName)
	}
	if summary.FoodChanges[2].FoodName != "Acme Chicken Mix" {
		t.Fatalf("expected chicken mix last, got %q", summary.FoodChanges[2].FoodName)
	}
	for _, fc := range summary.FoodChanges {
		if fc.Change != "added" {
			t.Fatalf("first occurrence of %q should be added, got %s", fc.FoodName, fc.Change)
		}
	}

	// Flags: xylitol inseguro en el escaneo, fish como sensibilidad conocida.
	if len(summary.FoodChanges[0].FlaggedIngredients) != 1 ||
		summary.FoodChanges[0].FlaggedIngredients[0].Severity != "unsafe" {
		t.Fatalf("expected unsafe flag on scan product, got %+v", summary.FoodChanges[0].FlaggedIngredients)
	}
	if len(summary.FoodChanges[1].FlaggedIngredients) != 1 ||
		summary.FoodChanges[1].FlaggedIngredients[0].Severity != "known_sensitivity" {
		t.Fatalf("expected known_sensitivity flag on fish stew, got %+v", summary.FoodChanges[1].FlaggedIngredients)
	}
	if len(summary.FoodChanges[2].FlaggedIngredients) != 0 {
		t.Fatalf("expected no flags on chicken mix, got %+v", summary.FoodChanges[2].FlaggedIngredients)
	}
	if summary.Stats.FoodChangeCount != 3 || summary.Stats.FlaggedIngredientCount != 2 {
		t.Fatalf("unexpected stats %+v", summary.Stats)
	}

	// Peso: solo la muestra del perfil => tendencia insufficient.
	if summary.WeightTrend.Trend != "insufficient" || summary.WeightTrend.HasData {
		t.Fatalf("expected insufficient trend without history, got %+v", summary.WeightTrend)
	}

	if len(summary.ActiveMedications) != 1 {
		t.Fatalf("expected 1 active medication, got %d", len(summary.ActiveMedications))
	}
	if summary.ActiveMedications[0].Dosage != "16 mg" || !summary.ActiveMedications[0].IsOngoing {
		t.Fatalf("unexpected medication %+v", summary.ActiveMedications[0])
	}

	if len(summary.HealthEvents) != 1 || summary.HealthEvents[0].Category != "vomiting" {
		t.Fatalf("unexpected health events %+v", summary.HealthEvents)
	}

	if len(summary.KnownSensitivities) != 1 || summary.KnownSensitivities[0] != "fish" {
		t.Fatalf("expected fish sensitivity in summary, got %v", summary.KnownSensitivities)
	}

	// 9) GET devuelve el resumen vigente
	{
		st, body := doReq(t, ts.URL, "GET", "/visit-summary", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 current summary, got %d", st)
		}
		var state struct {
			Status  string `json:"status"`
			Summary *struct {
				ID string `json:"id"`
			} `json:"summary"`
		}
		if err := json.Unmarshal(body, &state); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		if state.Status != "loaded" || state.Summary == nil || state.Summary.ID != summary.ID {
			t.Fatalf("expected loaded state with same summary, got %s body=%s", state.Status, string(body))
		}
	}

	// 10) Descartar => idle
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/visit-summary", ownerID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 clearing summary, got %d", st)
		}

		st, body := doReq(t, ts.URL, "GET", "/visit-summary", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 after clear, got %d", st)
		}
		var state struct {
			Status string `json:"status"`
		}
		_ = json.Unmarshal(body, &state)
		if state.Status != "idle" {
			t.Fatalf("expected idle after clear, got %s", state.Status)
		}
	}

	// 11) Sin usuario => 401
	{
		st, _ := doReq(t, ts.URL, "POST", "/pets/"+petID+"/visit-summary", "", map[string]any{
			"range_days": 30,
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without user, got %d", st)
		}
	}
}

func TestHTTP_VisitSummary_StrangerCannotGenerate(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	petID := createPet(t, ts.URL, "owner-1", map[string]any{
		"name":    "Milo",
		"species": "cat",
	})

	st, _ := doReq(t, ts.URL, "POST", "/pets/"+petID+"/visit-summary", "stranger-1", map[string]any{
		"range_days": 30,
	})
	if st != http.StatusForbidden {
		t.Fatalf("expected 403 for stranger, got %d", st)
	}
}

func TestHTTP_VisitSummary_StrangerCannotReadOrClear(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	petID := createPet(t, ts.URL, "owner-1", map[string]any{
		"name":    "Milo",
		"species": "cat",
	})

	st, body := doReq(t, ts.URL, "POST", "/pets/"+petID+"/visit-summary", "owner-1", map[string]any{
		"range_days": 30,
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 generating summary, got %d body=%s", st, string(body))
	}

	// El estado vigente es del dueño: otro usuario no lo lee ni lo descarta.
	if st, _ := doReq(t, ts.URL, "GET", "/visit-summary", "stranger-1", nil); st != http.StatusForbidden {
		t.Fatalf("expected 403 reading another owner's summary, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "DELETE", "/visit-summary", "stranger-1", nil); st != http.StatusForbidden {
		t.Fatalf("expected 403 clearing another owner's summary, got %d", st)
	}

	st, body = doReq(t, ts.URL, "GET", "/visit-summary", "owner-1", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 for owner after stranger attempts, got %d", st)
	}
	var state struct {
		Status string `json:"status"`
	}
	_ = json.Unmarshal(body, &state)
	if state.Status != "loaded" {
		t.Fatalf("expected summary still loaded for owner, got %s body=%s", state.Status, string(body))
	}
}

func TestHTTP_Health(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected 200 ok, got %d body=%s", st, string(body))
	}
}

func createPet(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create pet: missing id body=%s", string(body))
	}
	return resp.ID
}

func logFeeding(t *testing.T, baseURL, userID, petID, foodName, brand string, fedAt time.Time) {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets/"+petID+"/feedings", userID, map[string]any{
		"food_name": foodName,
		"brand":     brand,
		"fed_at":    fedAt.Format(time.RFC3339),
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 log feeding, got %d body=%s", st, string(body))
	}
}

func createScan(t *testing.T, baseURL, userID, petID string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets/"+petID+"/scans", userID, nil)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create scan, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create scan: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
