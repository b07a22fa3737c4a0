package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Leganyst/appointment-booking/internal/access"
	"github.com/Leganyst/appointment-booking/internal/apperr"
	"github.com/Leganyst/appointment-booking/internal/config"
	"github.com/Leganyst/appointment-booking/internal/db"
	"github.com/Leganyst/appointment-booking/internal/model"
	"github.com/Leganyst/appointment-booking/internal/notify"
	"github.com/Leganyst/appointment-booking/internal/repository"
)

func TestMain(m *testing.M) {
	hashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type memNotifier struct {
	sent []notify.Message
}

func (n *memNotifier) Send(_ context.Context, msg notify.Message) error {
	n.sent = append(n.sent, msg)
	return nil
}

func newTestService(t *testing.T) (*Service, *repository.GormStore, *memNotifier) {
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
	store := repository.NewGormStore(gdb)
	n := &memNotifier{}
	return NewService(store, NewTokens("test-secret", time.Hour), n, nil), store, n
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Name:            "Ana",
		Email:           "Ana@Example.com",
		Password:        "supersecret",
		PasswordConfirm: "supersecret",
		Phone:           "1155554444",
	}
}

func TestTokens_IssueAndParse(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	id := uuid.New()

	signed, exp, err := tokens.Issue(id, model.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expected expiry in the future, got %s", exp)
	}

	claims, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got, err := claims.UserID()
	if err != nil || got != id {
		t.Fatalf("expected subject %s, got %s (%v)", id, got, err)
	}
	if claims.Role != model.RoleAdmin {
		t.Fatalf("expected admin role hint, got %s", claims.Role)
	}
}

func TestTokens_ParseRejects(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	signed, _, err := tokens.Issue(uuid.New(), model.RoleClient)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewTokens("other", time.Hour).Parse(signed); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized for wrong secret, got %v", err)
	}
	if _, err := tokens.Parse(""); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized for empty token, got %v", err)
	}
	if _, err := tokens.Parse("not.a.token"); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized for garbage, got %v", err)
	}

	expired := NewTokens("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := expired.Parse(signed); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized for expired token, got %v", err)
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("supersecret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if ok, err := CheckPassword(hash, "supersecret"); err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}
	if ok, err := CheckPassword(hash, "wrong"); err != nil || ok {
		t.Fatalf("expected mismatch, got ok=%v err=%v", ok, err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, n := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != model.RoleClient || u.Email != "ana@example.com" {
		t.Fatalf("unexpected user %+v", u)
	}
	if u.PasswordHash == "supersecret" {
		t.Fatalf("password stored in clear text")
	}
	if len(n.sent) != 1 || n.sent[0].To[0] != "ana@example.com" {
		t.Fatalf("expected welcome email, got %+v", n.sent)
	}

	if _, err := svc.Register(ctx, validRegistration()); !apperr.Is(err, apperr.KindAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}

	sess, err := svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Token == "" || sess.User.ID != u.ID {
		t.Fatalf("unexpected session %+v", sess)
	}

	p, err := svc.Authenticate(ctx, sess.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if p.UserID != u.ID || p.Role != model.RoleClient {
		t.Fatalf("unexpected principal %+v", p)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	in := validRegistration()
	in.PasswordConfirm = "different"
	in.Email = "not-an-email"
	_, err := svc.Register(ctx, in)
	fields := apperr.FieldsOf(err)
	if _, ok := fields["passwordConfirm"]; !ok {
		t.Fatalf("expected passwordConfirm error, got %v", err)
	}
	if _, ok := fields["email"]; !ok {
		t.Fatalf("expected email error, got %v", err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(ctx, LoginInput{Email: "ana@example.com", Password: "wrongpass"}); !apperr.Is(err, apperr.KindInvalidCredentials) {
		t.Fatalf("expected invalid credentials for wrong password, got %v", err)
	}
	if _, err := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "supersecret"}); !apperr.Is(err, apperr.KindInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.Authenticate(ctx, "")
	if err != nil || p != nil {
		t.Fatalf("expected anonymous for empty token, got %+v (%v)", p, err)
	}

	// токен валиден, но пользователя нет
	orphan, _, err := svc.tokens.Issue(uuid.New(), model.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Authenticate(ctx, orphan); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized for unknown user, got %v", err)
	}
}

func TestAuthenticate_RoleReadFromStore(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	sess, err := svc.Login(ctx, LoginInput{Email: u.Email, Password: "supersecret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := store.Users().SetRole(ctx, u.ID, model.RoleEmployee); err != nil {
		t.Fatalf("set role: %v", err)
	}

	p, err := svc.Authenticate(ctx, sess.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if p.Role != model.RoleEmployee {
		t.Fatalf("expected role from store, got %s", p.Role)
	}
}

func TestSetRole(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	admin := &model.User{Name: "Admin", Email: "admin@example.com", PasswordHash: "x", Role: model.RoleAdmin}
	if err := store.Users().Create(ctx, admin); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	u, err := svc.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	adminP := &access.Principal{UserID: admin.ID, Role: model.RoleAdmin}
	clientP := &access.Principal{UserID: u.ID, Role: model.RoleClient}

	if _, err := svc.SetRole(ctx, clientP, u.ID, model.RoleAdmin); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized for client, got %v", err)
	}
	if _, err := svc.SetRole(ctx, adminP, admin.ID, model.RoleClient); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for own role, got %v", err)
	}
	if _, err := svc.SetRole(ctx, adminP, u.ID, model.Role("owner")); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for unknown role, got %v", err)
	}
	if _, err := svc.SetRole(ctx, adminP, uuid.New(), model.RoleEmployee); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for unknown user, got %v", err)
	}

	updated, err := svc.SetRole(ctx, adminP, u.ID, model.RoleEmployee)
	if err != nil {
		t.Fatalf("set role: %v", err)
	}
	if updated.Role != model.RoleEmployee {
		t.Fatalf("expected employee, got %s", updated.Role)
	}

	events, err := store.Events().ListByType(ctx, model.EventTypeRoleChanged, 10)
	if err != nil || len(events) != 1 {
		t.Fatalf("expected role_changed event, got %d (%v)", len(events), err)
	}

	users, err := svc.ListUsers(ctx, adminP)
	if err != nil || len(users) != 2 {
		t.Fatalf("expected 2 users, got %d (%v)", len(users), err)
	}
	if _, err := svc.ListUsers(ctx, clientP); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized list for client, got %v", err)
	}
}

func TestSeedAdmin(t *testing.T) {
	_, store, _ := newTestService(t)
	ctx := context.Background()

	if err := SeedAdmin(ctx, store, config.AdminSeed{}, nil); err != nil {
		t.Fatalf("expected disabled seed to be a no-op, got %v", err)
	}

	seed := config.AdminSeed{Name: "Root", Email: "root@example.com", Password: "rootpassword"}
	if err := SeedAdmin(ctx, store, seed, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// повторный запуск не создаёт второго пользователя
	if err := SeedAdmin(ctx, store, seed, nil); err != nil {
		t.Fatalf("seed again: %v", err)
	}

	u, err := store.Users().FindByEmail(ctx, "root@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u.Role != model.RoleAdmin {
		t.Fatalf("expected admin role, got %s", u.Role)
	}
	if ok, _ := CheckPassword(u.PasswordHash, "rootpassword"); !ok {
		t.Fatalf("expected seeded password to match")
	}

	users, _ := store.Users().List(ctx)
	if len(users) != 1 {
		t.Fatalf("expected a single seeded user, got %d", len(users))
	}
}
