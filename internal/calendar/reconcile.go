package calendar

import (
	"time"

	"github.com/google/uuid"
)

// PersistedSlot содержит то, что сверке нужно знать о сохранённом слоте.
type PersistedSlot struct {
	ID        uuid.UUID
	Instant   time.Time
	Available bool
}

// Plan — результат сверки нового шаблона с текущими слотами.
type Plan struct {
	// свободные слоты, выпавшие из нового шаблона.
	Delete []uuid.UUID
	// кандидаты, которых ещё нет в таблице.
	Insert []Candidate
	// сколько сохранённых слотов совпало с кандидатами.
	Kept int
	// занятые слоты вне нового шаблона. Их не трогаем:
	// судьбу решит отмена по текущей конфигурации.
	Orphaned []uuid.UUID
}

func instantKey(t time.Time) int64 { return t.UTC().Truncate(time.Minute).Unix() }

// Reconcile сравнивает текущие слоты с кандидатами. Функция чистая:
// удаление и вставку выполняет вызывающий код в одной транзакции.
func Reconcile(existing []PersistedSlot, candidates []Candidate) Plan {
	wanted := make(map[int64]struct{}, len(candidates))
	for _, c := range candidates {
		wanted[instantKey(c.Instant)] = struct{}{}
	}

	var plan Plan
	present := make(map[int64]struct{}, len(existing))
	for _, s := range existing {
		key := instantKey(s.Instant)
		if _, ok := wanted[key]; ok {
			present[key] = struct{}{}
			plan.Kept++
			continue
		}
		if s.Available {
			plan.Delete = append(plan.Delete, s.ID)
		} else {
			plan.Orphaned = append(plan.Orphaned, s.ID)
		}
	}

	for _, c := range candidates {
		key := instantKey(c.Instant)
		if _, ok := present[key]; ok {
			continue
		}
		// защищает и от дублей среди самих кандидатов
		present[key] = struct{}{}
		plan.Insert = append(plan.Insert, c)
	}
	return plan
}
