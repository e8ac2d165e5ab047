package payment

import (
	"context"
	"strings"
	"time"

	memberdomain "dues-app-go/internal/domain/member"
	"dues-app-go/internal/domain/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo       Repository
	duesAmount decimal.Decimal
	now        func() time.Time
	hooks      []func()
}

func NewService(repo Repository, duesAmount decimal.Decimal) *Service {
	return &Service{repo: repo, duesAmount: duesAmount, now: time.Now}
}

// OnChange registers fn to run after every committed payment.
func (s *Service) OnChange(fn func()) {
	s.hooks = append(s.hooks, fn)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]PaymentWithMember, int64, error) {
	if filter.Method != "" && !filter.Method.Valid() {
		return nil, 0, ErrInvalidMethod
	}
	if filter.MemberID != "" {
		if _, err := uuid.Parse(filter.MemberID); err != nil {
			return nil, 0, ErrInvalidMemberID
		}
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []PaymentWithMember{}
	}
	return items, total, nil
}

func (s *Service) Get(ctx context.Context, id string) (*PaymentWithMember, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrPaymentNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByMember(ctx context.Context, memberID string, limit, offset int) ([]Payment, int64, error) {
	if _, err := uuid.Parse(memberID); err != nil {
		return nil, 0, memberdomain.ErrMemberNotFound
	}
	items, total, err := s.repo.ListByMember(ctx, memberID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []Payment{}
	}
	return items, total, nil
}

// Record stores a payment and updates the member ledger atomically: the
// member row is locked, listed owing months are settled, unsettled months of
// an advance payment become credit months, and total_paid grows by exactly
// the payment amount.
func (s *Service) Record(ctx context.Context, input RecordInput) (*Receipt, error) {
	memberID := strings.TrimSpace(input.MemberID)
	if _, err := uuid.Parse(memberID); err != nil {
		return nil, ErrInvalidMemberID
	}
	if !money.ValidAmount(input.Amount) {
		return nil, ErrInvalidAmount
	}
	method := Method(strings.TrimSpace(input.Method))
	if !method.Valid() {
		return nil, ErrInvalidMethod
	}
	months, err := memberdomain.NormalizeMonths(input.MonthsPaid)
	if err != nil {
		return nil, err
	}

	paymentDate := s.now().UTC()
	if input.PaymentDate != nil {
		paymentDate = input.PaymentDate.UTC()
	}

	payment := Payment{
		ID:          uuid.NewString(),
		MemberID:    memberID,
		Amount:      input.Amount.Round(2),
		Method:      method,
		PaymentDate: paymentDate,
		MonthsPaid:  MonthList(months),
		IsAdvance:   input.IsAdvance,
		Notes:       optionalString(input.Notes),
	}
	if recordedBy := strings.TrimSpace(input.RecordedBy); recordedBy != "" {
		if _, err := uuid.Parse(recordedBy); err == nil {
			payment.RecordedBy = &recordedBy
		}
	}

	receipt := Receipt{Settled: []string{}, Credited: []string{}}
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		member, err := tx.LockMember(ctx, memberID)
		if err != nil {
			return err
		}
		if !money.Fits(member.TotalPaid.Add(payment.Amount)) {
			return ErrTotalPaidLimit
		}

		if err := tx.Create(ctx, &payment); err != nil {
			return err
		}

		settled, err := tx.SettleOwingMonths(ctx, memberID, months)
		if err != nil {
			return err
		}

		if input.IsAdvance {
			credited := difference(months, settled)
			if len(credited) > 0 {
				credits := make([]memberdomain.MonthAmount, 0, len(credited))
				for _, month := range credited {
					credits = append(credits, memberdomain.MonthAmount{Month: month, Amount: s.duesAmount})
				}
				if err := tx.AddCreditMonths(ctx, memberID, credits); err != nil {
					return err
				}
				receipt.Credited = credited
			}
		}

		owing, err := tx.SumOwing(ctx, memberID)
		if err != nil {
			return err
		}
		if err := tx.ApplyTotals(ctx, memberID, payment.Amount, owing); err != nil {
			return err
		}

		member.TotalPaid = member.TotalPaid.Add(payment.Amount)
		member.TotalOwing = owing
		receipt.Member = *member
		receipt.Settled = append(receipt.Settled, settled...)
		receipt.TotalPaid = member.TotalPaid
		receipt.TotalOwing = owing
		return nil
	})
	if err != nil {
		return nil, err
	}

	receipt.Payment = payment
	for _, hook := range s.hooks {
		hook()
	}
	return &receipt, nil
}

func difference(all, remove []string) []string {
	removed := make(map[string]struct{}, len(remove))
	for _, item := range remove {
		removed[item] = struct{}{}
	}
	result := make([]string, 0, len(all))
	for _, item := range all {
		if _, ok := removed[item]; ok {
			continue
		}
		result = append(result, item)
	}
	return result
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
