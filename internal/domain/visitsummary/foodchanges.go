package visitsummary

import (
	"sort"
	"strings"
	"time"
)

// ExtractFoodChanges convierte la lista cronológica de registros de
// comida en eventos deduplicados de "comida introducida", marcando
// ingredientes que coinciden con sensibilidades declaradas.
//
// El orden de los dos recorridos importa:
//   - la clasificación added/switched depende del primer visto en
//     orden ascendente por fecha,
//   - la lista final se presenta descendente (más reciente primero).
func ExtractFoodChanges(knownSensitivities []string, rangeStart time.Time, records []FoodRecord) []FoodChangeEntry {
	inRange := make([]FoodRecord, 0, len(records))
	for _, rec := range records {
		if rec.Date.Before(rangeStart) {
			continue
		}
		if strings.TrimSpace(rec.Name) == "" {
			continue
		}
		inRange = append(inRange, rec)
	}

	sort.SliceStable(inRange, func(i, j int) bool {
		return inRange[i].Date.Before(inRange[j].Date)
	})

	// Primer recorrido: clasificar por primer-visto.
	seen := map[string]struct{}{}
	entries := make([]FoodChangeEntry, 0, len(inRange))
	keys := make([]string, 0, len(inRange))

	for _, rec := range inRange {
		key := normalizeFoodName(rec.Name)

		change := ChangeSwitched
		if _, ok := seen[key]; !ok {
			change = ChangeAdded
		}
		seen[key] = struct{}{}

		entries = append(entries, FoodChangeEntry{
			Date:               rec.Date,
			FoodName:           displayName(rec),
			Change:             change,
			FlaggedIngredients: flagIngredients(knownSensitivities, rec),
		})
		keys = append(keys, key)
	}

	// Segundo recorrido: una entrada por comida, la más temprana gana.
	kept := map[string]struct{}{}
	out := make([]FoodChangeEntry, 0, len(entries))
	for i, e := range entries {
		if _, ok := kept[keys[i]]; ok {
			continue
		}
		kept[keys[i]] = struct{}{}
		out = append(out, e)
	}

	// Presentación: más reciente primero.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})

	return out
}

// flagIngredients marca ingredientes del registro contra las
// sensibilidades conocidas (substring, case-insensitive) y agrega los
// que el análisis upstream ya marcó como inseguros.
func flagIngredients(knownSensitivities []string, rec FoodRecord) []FlaggedIngredient {
	out := make([]FlaggedIngredient, 0)
	dedup := map[string]struct{}{}

	add := func(f FlaggedIngredient) {
		key := strings.ToLower(f.Name) + "|" + string(f.Severity)
		if _, ok := dedup[key]; ok {
			return
		}
		dedup[key] = struct{}{}
		out = append(out, f)
	}

	for _, term := range knownSensitivities {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}

		if containsFold(rec.Name, term) {
			add(FlaggedIngredient{
				Name:     term,
				Reason:   "known sensitivity: " + term,
				Severity: SeverityKnownSensitivity,
			})
		}
		for _, ing := range rec.Ingredients {
			if containsFold(ing, term) {
				add(FlaggedIngredient{
					Name:     ing,
					Reason:   "known sensitivity: " + term,
					Severity: SeverityKnownSensitivity,
				})
			}
		}
	}

	for _, ing := range rec.UnsafeIngredients {
		ing = strings.TrimSpace(ing)
		if ing == "" {
			continue
		}
		add(FlaggedIngredient{
			Name:     ing,
			Reason:   "identified as potentially unsafe",
			Severity: SeverityUnsafe,
		})
	}

	return out
}

func normalizeFoodName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func displayName(rec FoodRecord) string {
	if strings.TrimSpace(rec.Brand) == "" {
		return strings.TrimSpace(rec.Name)
	}
	return strings.TrimSpace(rec.Brand) + " " + strings.TrimSpace(rec.Name)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
