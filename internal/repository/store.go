package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Leganyst/appointment-booking/internal/apperr"
)

// Store собирает репозитории над одним подключением и умеет открывать транзакцию.
// Сервисы зависят от интерфейса, поэтому в тестах его можно подменить.
type Store interface {
	Slots() SlotRepository
	Bookings() BookingRepository
	Calendar() ScheduleRepository
	Services() ServiceRepository
	Users() UserRepository
	Events() EventRepository

	// Transaction выполняет fn атомарно. Репозитории tx работают внутри транзакции.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Slots() SlotRepository { return NewGormSlotRepository(s.db) }
func (s *GormStore) Bookings() BookingRepository { return NewGormBookingRepository(s.db) }
func (s *GormStore) Calendar() ScheduleRepository { return NewGormScheduleRepository(s.db) }
func (s *GormStore) Services() ServiceRepository { return NewGormServiceRepository(s.db) }
func (s *GormStore) Users() UserRepository { return NewGormUserRepository(s.db) }
func (s *GormStore) Events() EventRepository { return NewGormEventRepository(s.db) }

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
	if err == nil {
		return nil
	}
	// доменные ошибки из fn пробрасываем как есть
	if apperr.KindOf(err) != apperr.KindUnknown {
		return err
	}
	return apperr.Connectivity(err, "transaction")
}

// translate приводит ошибки GORM к категориям apperr.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if apperr.KindOf(err) != apperr.KindUnknown {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &apperr.Error{Kind: apperr.KindNotFound, Message: op + ": not found", Err: err}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &apperr.Error{Kind: apperr.KindAlreadyExists, Message: op + ": already exists", Err: err}
	}
	return apperr.Connectivity(err, op)
}
