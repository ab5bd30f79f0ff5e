package address

import (
	"context"
	"strings"

	"shopstack/internal/domain"
	addressrepo "shopstack/internal/repository/address"
	userrepo "shopstack/internal/repository/user"
)

type Service struct {
	repo     addressrepo.Repository
	userRepo userrepo.Repository
}

func New(repo addressrepo.Repository, userRepo userrepo.Repository) *Service {
	return &Service{repo: repo, userRepo: userRepo}
}

type Input struct {
	Type          string `json:"type"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	StateProvince string `json:"stateProvince"`
	PostalCode    string `json:"postalCode"`
	Country       string `json:"country"`
	Phone         string `json:"phone"`
	IsDefault     bool   `json:"isDefault"`
}

func (in Input) validate() error {
	fields := domain.ValidationError{}
	if !domain.AddressType(strings.ToUpper(in.Type)).Valid() {
		fields["type"] = "type must be SHIPPING, BILLING or BOTH"
	}
	if strings.TrimSpace(in.StreetAddress) == "" {
		fields["streetAddress"] = "street address is required"
	}
	if strings.TrimSpace(in.City) == "" {
		fields["city"] = "city is required"
	}
	if strings.TrimSpace(in.PostalCode) == "" {
		fields["postalCode"] = "postal code is required"
	}
	if strings.TrimSpace(in.Country) == "" {
		fields["country"] = "country is required"
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64) ([]domain.Address, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListActiveByUser(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*domain.Address, error) {
	return s.repo.GetActiveByIDAndUser(ctx, id, userID)
}

func (s *Service) Create(ctx context.Context, userID int64, in Input) (*domain.Address, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	// a new default displaces any previous one
	if in.IsDefault {
		if err := s.repo.ClearDefault(ctx, userID); err != nil {
			return nil, err
		}
	}
	return s.repo.Create(ctx, domain.Address{
		UserID:        userID,
		Type:          domain.AddressType(strings.ToUpper(in.Type)),
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		StreetAddress: in.StreetAddress,
		City:          in.City,
		StateProvince: in.StateProvince,
		PostalCode:    in.PostalCode,
		Country:       in.Country,
		Phone:         in.Phone,
		IsDefault:     in.IsDefault,
		Active:        true,
	})
}

func (s *Service) Update(ctx context.Context, userID, id int64, in Input) (*domain.Address, error) {
	a, err := s.repo.GetActiveByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.IsDefault && !a.IsDefault {
		if err := s.repo.ClearDefault(ctx, userID); err != nil {
			return nil, err
		}
	}
	a.Type = domain.AddressType(strings.ToUpper(in.Type))
	a.FirstName = in.FirstName
	a.LastName = in.LastName
	a.StreetAddress = in.StreetAddress
	a.City = in.City
	a.StateProvince = in.StateProvince
	a.PostalCode = in.PostalCode
	a.Country = in.Country
	a.Phone = in.Phone
	a.IsDefault = in.IsDefault
	return s.repo.Update(ctx, *a)
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	return s.repo.SetInactive(ctx, id, userID)
}
