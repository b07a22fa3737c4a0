package calendar

import (
	"fmt"
	"time"
	_ "time/tzdata" // база часовых поясов внутри бинарника
)

const DefaultTimeZone = "America/Argentina/Buenos_Aires"

// Clock отдаёт текущее время. Операция читает его ровно один раз.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock для тестов.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// Date — календарная дата без времени и часового пояса.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// ParseDate разбирает дату в формате YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf берёт дату из t в его собственном часовом поясе.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// AddDays нормализует переполнение месяца через time.Date.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

func (d Date) Before(o Date) bool { return d.compare(o) < 0 }

func (d Date) After(o Date) bool { return d.compare(o) > 0 }

func (d Date) compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return d.Year - o.Year
	case d.Month != o.Month:
		return int(d.Month) - int(o.Month)
	default:
		return d.Day - o.Day
	}
}

// LocalInstant — момент времени в представлении часового пояса бизнеса.
type LocalInstant struct {
	LocalDate  string // 2006-01-02
	LocalTime  string // 15:04
	ISOInstant string // RFC3339 с локальным смещением
}

// Normalizer переводит хранимые (UTC) моменты в часовой пояс бизнеса и обратно.
// Все сравнения "сегодня/завтра/через N часов" делаются через него.
type Normalizer struct {
	loc *time.Location
}

func NewNormalizer(loc *time.Location) Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return Normalizer{loc: loc}
}

// LoadNormalizer загружает часовой пояс по имени IANA.
func LoadNormalizer(name string) (Normalizer, error) {
	if name == "" {
		name = DefaultTimeZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Normalizer{}, fmt.Errorf("load time zone %q: %w", name, err)
	}
	return NewNormalizer(loc), nil
}

func (n Normalizer) Location() *time.Location {
	if n.loc == nil {
		return time.UTC
	}
	return n.loc
}

func (n Normalizer) Normalize(t time.Time) LocalInstant {
	local := t.In(n.Location())
	return LocalInstant{
		LocalDate:  local.Format(dateLayout),
		LocalTime:  local.Format("15:04"),
		ISOInstant: local.Format(time.RFC3339),
	}
}

// DateOf возвращает локальную дату момента t.
func (n Normalizer) DateOf(t time.Time) Date { return DateOf(t.In(n.Location())) }

// TimeOf возвращает локальное время суток момента t.
func (n Normalizer) TimeOf(t time.Time) TimeOfDay {
	local := t.In(n.Location())
	return TimeOfDay(local.Hour()*60 + local.Minute())
}

func (n Normalizer) Today(now time.Time) Date { return n.DateOf(now) }

func (n Normalizer) Tomorrow(now time.Time) Date { return n.Today(now).AddDays(1) }

// At собирает момент из локальной даты и времени суток. Результат в UTC, секунды нулевые.
func (n Normalizer) At(d Date, tod TimeOfDay) time.Time {
	h, m := tod.Clock()
	return time.Date(d.Year, d.Month, d.Day, h, m, 0, 0, n.Location()).UTC()
}

// DayBounds возвращает полуинтервал [from, to) локальных суток d в UTC.
func (n Normalizer) DayBounds(d Date) (time.Time, time.Time) {
	return n.At(d, 0), n.At(d.AddDays(1), 0)
}
