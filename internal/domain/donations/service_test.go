package donations

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

type fakeDonationsRepo struct {
	donations map[string]Donation
}

func (r *fakeDonationsRepo) List(ctx context.Context, filter ListFilter) ([]Donation, int64, error) {
	items := make([]Donation, 0)
	for _, donation := range r.donations {
		if filter.DonationType != "" && donation.DonationType != filter.DonationType {
			continue
		}
		items = append(items, donation)
	}
	return items, int64(len(items)), nil
}

func (r *fakeDonationsRepo) GetByID(ctx context.Context, id string) (*Donation, error) {
	donation, ok := r.donations[id]
	if !ok {
		return nil, ErrDonationNotFound
	}
	return &donation, nil
}

func (r *fakeDonationsRepo) Create(ctx context.Context, donation *Donation) error {
	r.donations[donation.ID] = *donation
	return nil
}

func TestCreateDonation(t *testing.T) {
	repo := &fakeDonationsRepo{donations: make(map[string]Donation)}
	service := NewService(repo)
	calls := 0
	service.OnChange(func() { calls++ })

	created, err := service.Create(context.Background(), CreateInput{
		DonorName:     " Anonymous ",
		Amount:        decimal.RequireFromString("100"),
		DonationType:  "offering",
		PaymentMethod: "cash",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.DonorName != "Anonymous" {
		t.Fatalf("expected trimmed donor name, got %q", created.DonorName)
	}
	if created.MemberID != nil {
		t.Fatalf("expected no member link")
	}
	if calls != 1 {
		t.Fatalf("expected 1 hook call, got %d", calls)
	}

	items, total, err := service.List(context.Background(), ListFilter{DonationType: TypeOffering})
	if err != nil || total != 1 || len(items) != 1 {
		t.Fatalf("expected 1 offering, got %d %v", total, err)
	}
}

func TestCreateDonationValidates(t *testing.T) {
	service := NewService(&fakeDonationsRepo{donations: make(map[string]Donation)})

	cases := []struct {
		name  string
		input CreateInput
		want  error
	}{
		{name: "donor", input: CreateInput{Amount: decimal.NewFromInt(1), DonationType: "tithe", PaymentMethod: "cash"}, want: ErrDonorNameRequired},
		{name: "amount", input: CreateInput{DonorName: "A", DonationType: "tithe", PaymentMethod: "cash"}, want: ErrInvalidAmount},
		{name: "amount too large", input: CreateInput{DonorName: "A", Amount: decimal.NewFromInt(10_000_000_000), DonationType: "tithe", PaymentMethod: "cash"}, want: ErrInvalidAmount},
		{name: "type", input: CreateInput{DonorName: "A", Amount: decimal.NewFromInt(1), DonationType: "pledge", PaymentMethod: "cash"}, want: ErrInvalidType},
		{name: "method", input: CreateInput{DonorName: "A", Amount: decimal.NewFromInt(1), DonationType: "tithe", PaymentMethod: "card"}, want: ErrInvalidMethod},
		{name: "member", input: CreateInput{DonorName: "A", Amount: decimal.NewFromInt(1), DonationType: "tithe", PaymentMethod: "cash", MemberID: "m-1"}, want: ErrInvalidMemberID},
	}

	for _, tc := range cases {
		_, err := service.Create(context.Background(), tc.input)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestListRejectsUnknownFilters(t *testing.T) {
	service := NewService(&fakeDonationsRepo{donations: make(map[string]Donation)})
	if _, _, err := service.List(context.Background(), ListFilter{DonationType: "pledge"}); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
	if _, _, err := service.List(context.Background(), ListFilter{PaymentMethod: "card"}); !errors.Is(err, ErrInvalidMethod) {
		t.Fatalf("expected ErrInvalidMethod, got %v", err)
	}
}
