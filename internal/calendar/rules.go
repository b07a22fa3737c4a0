package calendar

import "time"

const (
	// минимальный запас до начала слота, чтобы его можно было запросить.
	LeadTime = 12 * time.Hour
	// минимальный запас до начала слота для отмены.
	CancellationWindow = 24 * time.Hour
)

// BookingCutoff — самый ранний момент, который ещё можно забронировать.
func BookingCutoff(now time.Time) time.Time { return now.Add(LeadTime) }

// Bookable: локальная дата слота строго после сегодняшней и начало не раньше now+12h.
func Bookable(instant, now time.Time, n Normalizer) bool {
	return n.DateOf(instant).After(n.Today(now)) && !instant.Before(BookingCutoff(now))
}

// Cancellable: отмена запрещена, если до начала меньше 24 часов.
func Cancellable(instant, now time.Time) bool {
	return !instant.Before(now.Add(CancellationWindow))
}

// StillOffered сообщает, входит ли слот в текущий шаблон по локальному дню недели и времени.
// Если нет, отменённый слот удаляется, а не возвращается в свободные.
func StillOffered(instant time.Time, schedule WeeklySchedule, n Normalizer) bool {
	local := instant.In(n.Location())
	return schedule.Covers(local.Weekday(), n.TimeOf(instant))
}
