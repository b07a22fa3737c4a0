package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/appointment-booking/internal/apperr"
	"github.com/Leganyst/appointment-booking/internal/calendar"
	"github.com/Leganyst/appointment-booking/internal/db"
	"github.com/Leganyst/appointment-booking/internal/model"
)

func newTestStore(t *testing.T) *GormStore {
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
	return NewGormStore(gdb)
}

func createUser(t *testing.T, s Store, email string) *model.User {
	t.Helper()
	u := &model.User{Name: "Ana", Email: email, PasswordHash: "x", Phone: "1155554444"}
	if err := s.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func createService(t *testing.T, s Store, name string, active bool) *model.Service {
	t.Helper()
	svc := &model.Service{Name: name, DurationMin: 30, Price: 1000, IsActive: active}
	if err := s.Services().Create(context.Background(), svc); err != nil {
		t.Fatalf("create service: %v", err)
	}
	return svc
}

var day = time.Date(2026, 10, 20, 12, 0, 0, 0, time.UTC)

func TestSlotRepository_InsertAndListAvailable(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	instants := []time.Time{day.Add(time.Hour), day, day.Add(30 * time.Minute)}
	if err := s.Slots().InsertAvailable(ctx, instants); err != nil {
		t.Fatalf("insert: %v", err)
	}

	slots, err := s.Slots().ListAvailable(ctx, day.Add(-time.Hour), day.Add(2*time.Hour), day.Add(10*time.Minute))
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots after notBefore, got %d", len(slots))
	}
	if !slots[0].Instant.Equal(day.Add(30*time.Minute)) || !slots[1].Instant.Equal(day.Add(time.Hour)) {
		t.Fatalf("expected slots ordered by instant, got %s, %s", slots[0].Instant, slots[1].Instant)
	}
}

func TestSlotRepository_DuplicateInstantRejected(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Slots().InsertAvailable(ctx, []time.Time{day}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	err := s.Slots().InsertAvailable(ctx, []time.Time{day})
	if err == nil {
		t.Fatalf("expected duplicate instant to be rejected")
	}
	if !apperr.Is(err, apperr.KindAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestSlotRepository_ReserveIsConditional(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u1 := createUser(t, s, "one@example.com")
	u2 := createUser(t, s, "two@example.com")
	svc := createService(t, s, "Corte", true)

	if err := s.Slots().InsertAvailable(ctx, []time.Time{day}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	all, err := s.Slots().ListAll(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("list all: %v (%d)", err, len(all))
	}
	id := all[0].ID

	// слишком близко к началу
	ok, err := s.Slots().Reserve(ctx, id, u1.ID, svc.ID, day.Add(time.Minute))
	if err != nil || ok {
		t.Fatalf("expected reserve to fail on notBefore, got ok=%v err=%v", ok, err)
	}

	ok, err = s.Slots().Reserve(ctx, id, u1.ID, svc.ID, day.Add(-time.Hour))
	if err != nil || !ok {
		t.Fatalf("expected reserve to succeed, got ok=%v err=%v", ok, err)
	}
	ok, err = s.Slots().Reserve(ctx, id, u2.ID, svc.ID, day.Add(-time.Hour))
	if err != nil || ok {
		t.Fatalf("expected second reserve to fail, got ok=%v err=%v", ok, err)
	}

	booked, err := s.Bookings().GetBooked(ctx, id)
	if err != nil {
		t.Fatalf("get booked: %v", err)
	}
	if booked.Available || booked.UserID == nil || *booked.UserID != u1.ID {
		t.Fatalf("expected slot booked by first user, got %+v", booked)
	}
	if booked.User == nil || booked.Service == nil || booked.Service.Name != "Corte" {
		t.Fatalf("expected user and service preloaded")
	}
}

func TestSlotRepository_ReleaseAndDeleteRequireOwner(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	owner := createUser(t, s, "owner@example.com")
	other := createUser(t, s, "other@example.com")
	svc := createService(t, s, "Color", true)

	if err := s.Slots().InsertAvailable(ctx, []time.Time{day, day.Add(time.Hour)}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	all, _ := s.Slots().ListAll(ctx)
	first, second := all[0].ID, all[1].ID
	for _, id := range []uuid.UUID{first, second} {
		if ok, err := s.Slots().Reserve(ctx, id, owner.ID, svc.ID, day.Add(-time.Hour)); err != nil || !ok {
			t.Fatalf("reserve: ok=%v err=%v", ok, err)
		}
	}

	if ok, err := s.Slots().Release(ctx, first, other.ID); err != nil || ok {
		t.Fatalf("expected release by non-owner to fail, got ok=%v err=%v", ok, err)
	}
	if ok, err := s.Slots().Release(ctx, first, owner.ID); err != nil || !ok {
		t.Fatalf("expected release by owner, got ok=%v err=%v", ok, err)
	}
	released, err := s.Slots().GetByID(ctx, first)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !released.Available || released.UserID != nil || released.ServiceID != nil {
		t.Fatalf("expected released slot to be clean, got %+v", released)
	}

	if ok, err := s.Slots().DeleteBooked(ctx, second, other.ID); err != nil || ok {
		t.Fatalf("expected delete by non-owner to fail, got ok=%v err=%v", ok, err)
	}
	if ok, err := s.Slots().DeleteBooked(ctx, second, owner.ID); err != nil || !ok {
		t.Fatalf("expected delete by owner, got ok=%v err=%v", ok, err)
	}
	if _, err := s.Slots().GetByID(ctx, second); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected deleted slot to be gone, got %v", err)
	}
}

func TestSlotRepository_DeleteAvailableSkipsBooked(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := createUser(t, s, "u@example.com")
	svc := createService(t, s, "Barba", true)

	if err := s.Slots().InsertAvailable(ctx, []time.Time{day, day.Add(time.Hour)}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	all, _ := s.Slots().ListAll(ctx)
	if ok, _ := s.Slots().Reserve(ctx, all[0].ID, u.ID, svc.ID, day.Add(-time.Hour)); !ok {
		t.Fatalf("reserve failed")
	}

	n, err := s.Slots().DeleteAvailable(ctx, []uuid.UUID{all[0].ID, all[1].ID})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 deleted, got %d", n)
	}
	left, _ := s.Slots().ListAll(ctx)
	if len(left) != 1 || left[0].ID != all[0].ID {
		t.Fatalf("expected booked slot to survive, got %+v", left)
	}
}

func TestBookingRepository_ListBookedFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	a := createUser(t, s, "a@example.com")
	b := createUser(t, s, "b@example.com")
	svc := createService(t, s, "Corte", true)

	instants := []time.Time{day, day.Add(time.Hour), day.Add(24 * time.Hour)}
	if err := s.Slots().InsertAvailable(ctx, instants); err != nil {
		t.Fatalf("insert: %v", err)
	}
	all, _ := s.Slots().ListAll(ctx)
	owners := []uuid.UUID{a.ID, b.ID, a.ID}
	for i, sl := range all {
		if ok, err := s.Slots().Reserve(ctx, sl.ID, owners[i], svc.ID, day.Add(-time.Hour)); err != nil || !ok {
			t.Fatalf("reserve %d: ok=%v err=%v", i, ok, err)
		}
	}

	mine, err := s.Bookings().ListBooked(ctx, BookedFilter{UserID: &a.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 bookings for a, got %d", len(mine))
	}

	from, to := day.Add(-time.Minute), day.Add(2*time.Hour)
	window, err := s.Bookings().ListBooked(ctx, BookedFilter{From: &from, To: &to})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(window) != 2 {
		t.Fatalf("expected 2 bookings in window, got %d", len(window))
	}
	if window[0].User == nil || window[0].User.Email != "a@example.com" {
		t.Fatalf("expected first booking preloaded with user a")
	}
}

func TestScheduleRepository_ReplaceAndCurrent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, ok, err := s.Calendar().Current(ctx); err != nil || ok {
		t.Fatalf("expected empty calendar, got ok=%v err=%v", ok, err)
	}

	schedule := make(calendar.WeeklySchedule, 0, 7)
	for w := time.Sunday; w <= time.Saturday; w++ {
		d := calendar.AttentionDay{Weekday: w}
		if w == time.Tuesday {
			d.Enabled = true
			d.Ranges = []calendar.TimeRange{{Start: 9 * 60, End: 12 * 60}, {Start: 14 * 60, End: 18*60 + 30}}
		}
		schedule = append(schedule, d)
	}
	cfg := calendar.Configuration{
		IntervalMinutes: 30,
		Deadline:        calendar.Date{Year: 2026, Month: time.December, Day: 1},
		Schedule:        schedule,
	}
	if err := s.Calendar().Replace(ctx, cfg); err != nil {
		t.Fatalf("replace: %v", err)
	}
	// повторная замена не должна плодить строки
	cfg.IntervalMinutes = 45
	if err := s.Calendar().Replace(ctx, cfg); err != nil {
		t.Fatalf("replace again: %v", err)
	}

	got, ok, err := s.Calendar().Current(ctx)
	if err != nil || !ok {
		t.Fatalf("expected calendar, got ok=%v err=%v", ok, err)
	}
	if got.IntervalMinutes != 45 || got.Deadline != cfg.Deadline {
		t.Fatalf("unexpected policy %+v", got)
	}
	if len(got.Schedule) != 7 {
		t.Fatalf("expected 7 days, got %d", len(got.Schedule))
	}
	tue, _ := got.Schedule.Day(time.Tuesday)
	if !tue.Enabled || len(tue.Ranges) != 2 || tue.Ranges[1].End != 18*60+30 {
		t.Fatalf("unexpected tuesday %+v", tue)
	}
	if mon, _ := got.Schedule.Day(time.Monday); mon.Enabled {
		t.Fatalf("expected monday disabled")
	}
}

func TestServiceRepository_ListAndDeactivate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	active := createService(t, s, "Corte", true)
	createService(t, s, "Viejo", false)

	list, total, err := s.Services().List(ctx, true, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ID != active.ID {
		t.Fatalf("expected only active service, got %d/%d", len(list), total)
	}

	if _, total, _ := s.Services().List(ctx, false, 1, 0); total != 2 {
		t.Fatalf("expected 2 services in total, got %d", total)
	}

	if err := s.Services().SetActive(ctx, active.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if err := s.Services().SetActive(ctx, uuid.New(), false); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for unknown service, got %v", err)
	}
}

func TestUserRepository_EmailAndRole(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := createUser(t, s, "Ana@Example.com ")

	found, err := s.Users().FindByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != u.ID {
		t.Fatalf("expected same user")
	}

	dup := &model.User{Name: "Otra", Email: "ANA@example.com", PasswordHash: "x"}
	if err := s.Users().Create(ctx, dup); !apperr.Is(err, apperr.KindAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}

	if err := s.Users().SetRole(ctx, u.ID, model.RoleEmployee); err != nil {
		t.Fatalf("set role: %v", err)
	}
	role, err := s.Users().GetRole(ctx, u.ID)
	if err != nil || role != model.RoleEmployee {
		t.Fatalf("expected employee, got %s (%v)", role, err)
	}

	if _, err := s.Users().GetByID(ctx, uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEventRepository_RecordAndList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	slotID := uuid.New()

	if err := s.Events().Record(ctx, model.EventTypeSlotRequested, nil, &slotID, map[string]any{"k": "v"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.Events().Record(ctx, model.EventTypeSlotReleased, nil, &slotID, nil); err != nil {
		t.Fatalf("record: %v", err)
	}

	events, err := s.Events().ListBySlot(ctx, slotID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	requested, err := s.Events().ListByType(ctx, model.EventTypeSlotRequested, 10)
	if err != nil || len(requested) != 1 {
		t.Fatalf("expected 1 requested event, got %d (%v)", len(requested), err)
	}
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	err := s.Transaction(ctx, func(tx Store) error {
		if err := tx.Slots().InsertAvailable(ctx, []time.Time{day}); err != nil {
			return err
		}
		return apperr.NotAvailable("abort")
	})
	if !apperr.Is(err, apperr.KindNotAvailable) {
		t.Fatalf("expected domain error to pass through, got %v", err)
	}
	all, _ := s.Slots().ListAll(ctx)
	if len(all) != 0 {
		t.Fatalf("expected rollback, found %d slots", len(all))
	}
}
