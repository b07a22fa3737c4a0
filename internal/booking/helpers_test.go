package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Leganyst/appointment-booking/internal/access"
	"github.com/Leganyst/appointment-booking/internal/calendar"
	"github.com/Leganyst/appointment-booking/internal/db"
	"github.com/Leganyst/appointment-booking/internal/model"
	"github.com/Leganyst/appointment-booking/internal/notify"
	"github.com/Leganyst/appointment-booking/internal/repository"
)

// четверг 2026-10-15, 09:00 в Буэнос-Айресе
var thursdayMorning = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

var tuesday = calendar.Date{Year: 2026, Month: time.October, Day: 20}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (n *recordingNotifier) Send(_ context.Context, msg notify.Message) error {
	n.mu.Lock()
	n.sent = append(n.sent, msg)
	n.mu.Unlock()
	return nil
}

func (n *recordingNotifier) Messages() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Message(nil), n.sent...)
}

type fixture struct {
	store    *repository.GormStore
	svc      *Service
	clock    *testClock
	notifier *recordingNotifier
	tz       calendar.Normalizer

	admin   *access.Principal
	client  *access.Principal
	other   *access.Principal
	service *model.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb, err := db.NewSQLiteMemory()
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := model.AutoMigrate(gdb); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	tz, err := calendar.LoadNormalizer(calendar.DefaultTimeZone)
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}

	f := &fixture{
		store:    repository.NewGormStore(gdb),
		clock:    &testClock{t: thursdayMorning},
		notifier: &recordingNotifier{},
		tz:       tz,
	}
	f.svc = NewService(f.store, Options{
		Clock:    f.clock,
		TimeZone: tz,
		Notifier: f.notifier,
		OpsEmail: "ops@example.com",
	})

	f.admin = f.user(t, "admin@example.com", model.RoleAdmin)
	f.client = f.user(t, "client@example.com", model.RoleClient)
	f.other = f.user(t, "other@example.com", model.RoleClient)

	f.service = &model.Service{Name: "Corte", DurationMin: 30, Price: 1500, IsActive: true}
	if err := f.store.Services().Create(context.Background(), f.service); err != nil {
		t.Fatalf("create service: %v", err)
	}
	return f
}

func (f *fixture) user(t *testing.T, email string, role model.Role) *access.Principal {
	t.Helper()
	u := &model.User{Name: email, Email: email, PasswordHash: "x", Phone: "1155554444", Role: role}
	if err := f.store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &access.Principal{UserID: u.ID, Role: u.Role}
}

func intp(v int) *int { return &v }

// week собирает ввод шаблона: включены только дни из days.
func week(days map[time.Weekday][]TimeRangeInput) []DayInput {
	out := make([]DayInput, 0, 7)
	for w := time.Sunday; w <= time.Saturday; w++ {
		ranges, ok := days[w]
		out = append(out, DayInput{DayIndex: intp(int(w)), Day: w.String(), Enabled: ok, TimeSlots: ranges})
	}
	return out
}

// tuesdayInput: вторник 09:00-10:00 и 14:00-15:00, шаг 30 минут, до 2026-10-21.
func tuesdayInput() ConfigureInput {
	return ConfigureInput{
		AttentionSchedule: week(map[time.Weekday][]TimeRangeInput{
			time.Tuesday: {{Start: "09:00", End: "10:00"}, {Start: "14:00", End: "15:00"}},
		}),
		Interval: 30,
		Deadline: "2026-10-21",
	}
}

func (f *fixture) configure(t *testing.T, in ConfigureInput) ConfigureResult {
	t.Helper()
	res, err := f.svc.ConfigureCalendar(context.Background(), f.admin, in)
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	return res
}

// slotAt ищет свободный слот вторника по местному времени HH:mm.
func (f *fixture) slotAt(t *testing.T, hhmm string) AvailableSlot {
	t.Helper()
	page, err := f.svc.ListAvailableSlots(context.Background(), nil, tuesday, calendar.PageRequest{})
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	for _, s := range page.Items {
		if s.Local.LocalTime == hhmm {
			return s
		}
	}
	t.Fatalf("slot %s not found among %d available", hhmm, len(page.Items))
	return AvailableSlot{}
}
