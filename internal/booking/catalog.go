package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/Leganyst/appointment-booking/internal/access"
	"github.com/Leganyst/appointment-booking/internal/apperr"
	"github.com/Leganyst/appointment-booking/internal/calendar"
	"github.com/Leganyst/appointment-booking/internal/model"
	"github.com/Leganyst/appointment-booking/internal/validation"
)

// ServiceInput — создание услуги.
type ServiceInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	DurationMin int64   `json:"duration" validate:"min=1"`
	Price       float64 `json:"price" validate:"min=1"`
}

// ListServices — каталог услуг. Без прав персонала видны только активные.
func (s *Service) ListServices(ctx context.Context, p *access.Principal, page calendar.PageRequest) (calendar.Page[model.Service], error) {
	if err := access.Authorize(p, access.OpListServices); err != nil {
		return calendar.Page[model.Service]{}, err
	}

	onlyActive := !p.IsStaff()
	limit, offset := 0, 0
	if !page.IsZero() {
		_, limit = page.Normalize()
		offset = page.Offset()
	}

	services, total, err := s.store.Services().List(ctx, onlyActive, limit, offset)
	if err != nil {
		return calendar.Page[model.Service]{}, err
	}
	if len(services) == 0 && offset == 0 {
		return calendar.Page[model.Service]{}, apperr.NotFound("services not found")
	}

	out := calendar.Page[model.Service]{Items: services, Page: 1, PageSize: len(services), Total: int(total)}
	if limit > 0 {
		out.Page = offset/limit + 1
		out.PageSize = limit
		out.HasPrev = out.Page > 1
		out.HasNext = int64(offset+len(services)) < total
	}
	return out, nil
}

func (s *Service) CreateService(ctx context.Context, p *access.Principal, in ServiceInput) (*model.Service, error) {
	log := s.logger(ctx, "CreateService")

	if err := access.Authorize(p, access.OpManageServices); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	svc := &model.Service{
		Name:        in.Name,
		DurationMin: in.DurationMin,
		Price:       in.Price,
		IsActive:    true,
	}
	if err := s.store.Services().Create(ctx, svc); err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "service created", "service_id", svc.ID)
	return svc, nil
}

// DeactivateService снимает услугу с каталога. Уже сделанные бронирования остаются.
func (s *Service) DeactivateService(ctx context.Context, p *access.Principal, id uuid.UUID) error {
	log := s.logger(ctx, "DeactivateService", "service_id", id)

	if err := access.Authorize(p, access.OpManageServices); err != nil {
		return err
	}
	if err := s.store.Services().SetActive(ctx, id, false); err != nil {
		return err
	}
	log.InfoContext(ctx, "service deactivated")
	return nil
}
