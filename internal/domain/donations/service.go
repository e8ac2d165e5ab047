package donations

import (
	"context"
	"strings"
	"time"

	"dues-app-go/internal/domain/money"
	paymentdomain "dues-app-go/internal/domain/payment"
	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	now   func() time.Time
	hooks []func()
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) OnChange(fn func()) {
	s.hooks = append(s.hooks, fn)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Donation, int64, error) {
	if filter.DonationType != "" && !filter.DonationType.Valid() {
		return nil, 0, ErrInvalidType
	}
	if filter.PaymentMethod != "" && !paymentdomain.Method(filter.PaymentMethod).Valid() {
		return nil, 0, ErrInvalidMethod
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []Donation{}
	}
	return items, total, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Donation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrDonationNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Donation, error) {
	donorName := strings.TrimSpace(input.DonorName)
	if donorName == "" {
		return nil, ErrDonorNameRequired
	}
	if !money.ValidAmount(input.Amount) {
		return nil, ErrInvalidAmount
	}
	donationType := Type(strings.TrimSpace(input.DonationType))
	if !donationType.Valid() {
		return nil, ErrInvalidType
	}
	method := paymentdomain.Method(strings.TrimSpace(input.PaymentMethod))
	if !method.Valid() {
		return nil, ErrInvalidMethod
	}

	donation := Donation{
		ID:            uuid.NewString(),
		DonorName:     donorName,
		Amount:        input.Amount.Round(2),
		DonationType:  donationType,
		PaymentMethod: string(method),
		DonationDate:  s.now().UTC(),
	}
	if input.DonationDate != nil {
		donation.DonationDate = input.DonationDate.UTC()
	}
	if memberID := strings.TrimSpace(input.MemberID); memberID != "" {
		if _, err := uuid.Parse(memberID); err != nil {
			return nil, ErrInvalidMemberID
		}
		donation.MemberID = &memberID
	}
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		donation.Notes = &notes
	}
	if recordedBy := strings.TrimSpace(input.RecordedBy); recordedBy != "" {
		if _, err := uuid.Parse(recordedBy); err == nil {
			donation.RecordedBy = &recordedBy
		}
	}

	if err := s.repo.Create(ctx, &donation); err != nil {
		return nil, err
	}

	for _, hook := range s.hooks {
		hook()
	}
	return &donation, nil
}
