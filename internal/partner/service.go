package partner

import "context"

type Service interface {
	GetByID(ctx context.Context, id string) (*Partner, error)
	List(ctx context.Context, filter Filter) ([]*Partner, int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id string) (*Partner, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Partner, int, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, 0, ErrInvalidRole
	}
	return s.repo.List(ctx, filter)
}
