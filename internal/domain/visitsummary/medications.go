package visitsummary

import (
	"sort"
	"strings"
	"time"

	"pet-visit-summary/internal/domain/medications"
)

const durationDateLayout = "Jan 2, 2006"

// SelectActiveMedications filtra los recordatorios a las medicaciones
// vigentes en now y las mapea a formato de display, ordenadas por
// fecha de inicio descendente.
func SelectActiveMedications(reminders []medications.Reminder, now time.Time) []ActiveMedication {
	out := make([]ActiveMedication, 0, len(reminders))

	for _, m := range reminders {
		if !m.ActiveAt(now) {
			continue
		}

		am := ActiveMedication{
			ID:        m.ID,
			Name:      m.Name,
			Dosage:    strings.TrimSpace(m.Dosage + " " + m.DoseUnit),
			Frequency: m.Frequency,
			StartDate: m.StartDate,
			EndDate:   m.EndDate,
			IsOngoing: m.EndDate == nil,
		}

		if m.EndDate == nil {
			am.Duration = "Started " + m.StartDate.Format(durationDateLayout) + " – Ongoing"
		} else {
			am.Duration = m.StartDate.Format(durationDateLayout) + " – " + m.EndDate.Format(durationDateLayout)
		}

		out = append(out, am)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.After(out[j].StartDate)
	})

	return out
}
