package visitsummary

import (
	"sort"

	"github.com/montanaflynn/stats"
)

// Umbrales de clasificación de tendencia (% de cambio).
const (
	trendIncreasingThreshold = 3.0
	trendDecreasingThreshold = -3.0
)

// AnalyzeWeightTrend clasifica una serie de muestras de peso.
// Siempre devuelve un valor: con menos de dos muestras (el caso normal
// hoy, porque solo existe el último peso del perfil) la tendencia es
// insufficient y PercentChange queda nil.
func AnalyzeWeightTrend(points []WeightDataPoint) WeightTrendData {
	pts := make([]WeightDataPoint, len(points))
	copy(pts, points)
	sort.SliceStable(pts, func(i, j int) bool {
		return pts[i].Date.Before(pts[j].Date)
	})

	data := WeightTrendData{
		Points: pts,
		Trend:  TrendInsufficient,
	}

	if len(pts) == 0 {
		return data
	}

	values := make([]float64, 0, len(pts))
	for _, p := range pts {
		values = append(values, p.WeightKg)
	}

	data.StartKg = values[0]
	data.EndKg = values[len(values)-1]
	if min, err := stats.Min(values); err == nil {
		data.MinKg = min
	}
	if max, err := stats.Max(values); err == nil {
		data.MaxKg = max
	}

	// Cambio porcentual indefinido con menos de dos muestras o con
	// peso inicial no positivo.
	if len(pts) < 2 || data.StartKg <= 0 {
		return data
	}

	pct := (data.EndKg - data.StartKg) / data.StartKg * 100
	data.PercentChange = &pct

	switch {
	case pct > trendIncreasingThreshold:
		data.Trend = TrendIncreasing
	case pct < trendDecreasingThreshold:
		data.Trend = TrendDecreasing
	default:
		data.Trend = TrendStable
	}

	return data
}
