package calendar

import "time"

// Candidate — ещё не сохранённый слот.
type Candidate struct {
	Instant time.Time // UTC, секунды нулевые
	Weekday time.Weekday
}

// Generate разворачивает недельный шаблон в упорядоченный список слотов.
//
// Обход начинается с локальной полуночи завтрашнего дня (сегодняшние слоты не
// пересоздаются) и идёт по дням до deadline, не включая его. Внутри интервала
// слоты идут с шагом interval минут; слот, начинающийся в End или позже, не создаётся.
// Шаблон должен быть заранее проверен через WeeklySchedule.Validate.
func Generate(schedule WeeklySchedule, intervalMinutes int, deadline Date, now time.Time, n Normalizer) []Candidate {
	if intervalMinutes < 1 {
		return nil
	}

	var out []Candidate
	for day := n.Tomorrow(now); day.Before(deadline); day = day.AddDays(1) {
		entry, ok := schedule.Day(day.Weekday())
		if !ok || !entry.Enabled {
			continue
		}
		for _, r := range entry.Ranges {
			for t := r.Start; t < r.End; t += TimeOfDay(intervalMinutes) {
				out = append(out, Candidate{
					Instant: n.At(day, t),
					Weekday: day.Weekday(),
				})
			}
		}
	}
	return out
}
