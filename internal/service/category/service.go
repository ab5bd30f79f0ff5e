package category

import (
	"context"
	"strings"

	"shopstack/internal/domain"
	categoryrepo "shopstack/internal/repository/category"
)

type Service struct {
	repo categoryrepo.Repository
}

func New(repo categoryrepo.Repository) *Service {
	return &Service{repo: repo}
}

type Input struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Category, error) {
	return s.repo.GetActiveByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (*domain.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, domain.ValidationError{"name": "name is required"}
	}
	taken, err := s.repo.ExistsActiveByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Duplicate("Category", "name", in.Name)
	}
	return s.repo.Create(ctx, domain.Category{Name: in.Name, Description: in.Description, Active: true})
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*domain.Category, error) {
	c, err := s.repo.GetActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, domain.ValidationError{"name": "name is required"}
	}
	if !strings.EqualFold(in.Name, c.Name) {
		taken, err := s.repo.ExistsActiveByName(ctx, in.Name)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.Duplicate("Category", "name", in.Name)
		}
	}
	c.Name = in.Name
	c.Description = in.Description
	return s.repo.Update(ctx, *c)
}

func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if _, err := s.repo.GetActiveByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SetInactive(ctx, id)
}
