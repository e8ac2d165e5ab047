package member

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const minPhoneLength = 10

type Service struct {
	repo       Repository
	duesAmount decimal.Decimal
	now        func() time.Time
	hooks      []func()
}

func NewService(repo Repository, duesAmount decimal.Decimal) *Service {
	return &Service{repo: repo, duesAmount: duesAmount, now: time.Now}
}

// OnChange registers fn to run after a member is created, edited, removed or
// charged new months.
func (s *Service) OnChange(fn func()) {
	s.hooks = append(s.hooks, fn)
}

func (s *Service) changed() {
	for _, hook := range s.hooks {
		hook()
	}
}

func (s *Service) DuesAmount() decimal.Decimal {
	return s.duesAmount
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]MemberWithMonths, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	filter.Search = strings.TrimSpace(filter.Search)

	members, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	items, err := s.attachMonths(ctx, members)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) ListWithOwing(ctx context.Context) ([]MemberWithMonths, error) {
	members, err := s.repo.ListWithOwing(ctx)
	if err != nil {
		return nil, err
	}
	return s.attachMonths(ctx, members)
}

func (s *Service) Get(ctx context.Context, id string) (*MemberWithMonths, error) {
	if err := validateID(id); err != nil {
		return nil, ErrMemberNotFound
	}

	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.attachMonths(ctx, []Member{*member})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// IsLinkedUser reports whether the member row belongs to the given login.
func (s *Service) IsLinkedUser(ctx context.Context, memberID, userID string) (bool, error) {
	if validateID(memberID) != nil {
		return false, nil
	}
	member, err := s.repo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return false, nil
		}
		return false, err
	}
	return member.UserID != nil && *member.UserID == userID, nil
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Member, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	phone, err := validatePhone(input.Phone)
	if err != nil {
		return nil, err
	}

	status := StatusActive
	if strings.TrimSpace(input.Status) != "" {
		status = Status(strings.TrimSpace(input.Status))
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
	}

	member := Member{
		ID:             uuid.NewString(),
		Name:           name,
		Email:          email,
		Phone:          phone,
		Address:        optionalString(input.Address),
		DateOfBirth:    input.DateOfBirth,
		MembershipDate: s.now().UTC().Truncate(24 * time.Hour),
		Status:         status,
		TotalPaid:      decimal.Zero,
		TotalOwing:     decimal.Zero,
	}
	if strings.TrimSpace(input.UserID) != "" {
		if err := validateID(input.UserID); err != nil {
			return nil, err
		}
		userID := strings.TrimSpace(input.UserID)
		member.UserID = &userID
	}

	if err := s.ensureUniqueContact(ctx, email, phone, ""); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &member); err != nil {
		return nil, err
	}
	s.changed()
	return &member, nil
}

func (s *Service) Update(ctx context.Context, input UpdateInput) (*Member, error) {
	if err := validateID(input.ID); err != nil {
		return nil, ErrMemberNotFound
	}

	var updated Member
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		member, err := tx.LockByID(ctx, input.ID)
		if err != nil {
			return err
		}

		if input.Name != nil {
			name, err := validateName(*input.Name)
			if err != nil {
				return err
			}
			member.Name = name
		}
		if input.Email != nil {
			email, err := normalizeEmail(*input.Email)
			if err != nil {
				return err
			}
			member.Email = email
		}
		if input.Phone != nil {
			phone, err := validatePhone(*input.Phone)
			if err != nil {
				return err
			}
			member.Phone = phone
		}
		if input.Address != nil {
			member.Address = optionalString(*input.Address)
		}
		if input.DateOfBirth != nil {
			member.DateOfBirth = input.DateOfBirth
		}
		if input.Status != nil {
			status := Status(strings.TrimSpace(*input.Status))
			if !status.Valid() {
				return ErrInvalidStatus
			}
			member.Status = status
		}
		if input.UserID != nil {
			if strings.TrimSpace(*input.UserID) == "" {
				member.UserID = nil
			} else {
				if err := validateID(*input.UserID); err != nil {
					return err
				}
				userID := strings.TrimSpace(*input.UserID)
				member.UserID = &userID
			}
		}

		if err := ensureUniqueContact(ctx, tx, member.Email, member.Phone, member.ID); err != nil {
			return err
		}

		member.UpdatedAt = s.now().UTC()
		if err := tx.Update(ctx, member); err != nil {
			return err
		}
		updated = *member
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.changed()
	return &updated, nil
}

// Delete soft-deletes the member. Payment history is kept.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return ErrMemberNotFound
	}
	deleted, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMemberNotFound
	}
	s.changed()
	return nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	now := s.now().UTC()
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	stats, err := s.repo.Stats(ctx, yearStart)
	if err != nil {
		return Stats{}, err
	}
	stats.MembersPaidUp = stats.ActiveMembers - stats.MembersOwing
	if stats.MembersPaidUp < 0 {
		stats.MembersPaidUp = 0
	}
	return stats, nil
}

// AddOwingMonths records months as owed at the configured dues amount and
// recomputes the member's total owing in the same transaction.
func (s *Service) AddOwingMonths(ctx context.Context, memberID string, months []string) ([]MonthAmount, error) {
	if err := validateID(memberID); err != nil {
		return nil, ErrMemberNotFound
	}
	normalized, err := NormalizeMonths(months)
	if err != nil {
		return nil, err
	}
	if len(normalized) == 0 {
		return nil, ErrNoMonths
	}

	items := make([]MonthAmount, 0, len(normalized))
	for _, month := range normalized {
		items = append(items, MonthAmount{Month: month, Amount: s.duesAmount})
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.LockByID(ctx, memberID); err != nil {
			return err
		}
		if err := tx.AddOwingMonths(ctx, memberID, items); err != nil {
			return err
		}
		total, err := tx.SumOwing(ctx, memberID)
		if err != nil {
			return err
		}
		return tx.SetTotalOwing(ctx, memberID, total)
	})
	if err != nil {
		return nil, err
	}
	s.changed()
	return items, nil
}

func (s *Service) ensureUniqueContact(ctx context.Context, email *string, phone, excludeID string) error {
	return ensureUniqueContact(ctx, s.repo, email, phone, excludeID)
}

func ensureUniqueContact(ctx context.Context, repo Repository, email *string, phone, excludeID string) error {
	if email != nil {
		count, err := repo.CountByEmail(ctx, *email, excludeID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateEmail
		}
	}

	count, err := repo.CountByPhone(ctx, phone, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicatePhone
	}
	return nil
}

func (s *Service) attachMonths(ctx context.Context, members []Member) ([]MemberWithMonths, error) {
	if len(members) == 0 {
		return []MemberWithMonths{}, nil
	}

	ids := make([]string, 0, len(members))
	for _, member := range members {
		ids = append(ids, member.ID)
	}

	months, err := s.repo.MonthsByMemberIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]MemberWithMonths, 0, len(members))
	for _, member := range members {
		entry := months[member.ID]
		owing := entry.Owing
		if owing == nil {
			owing = []MonthAmount{}
		}
		credit := entry.Credit
		if credit == nil {
			credit = []MonthAmount{}
		}
		items = append(items, MemberWithMonths{
			Member:       member,
			OwingMonths:  owing,
			CreditMonths: credit,
		})
	}
	return items, nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return ErrInvalidMemberRef
	}
	return nil
}

func validateName(value string) (string, error) {
	name := strings.TrimSpace(value)
	if len([]rune(name)) < 2 {
		return "", ErrInvalidName
	}
	return name, nil
}

func validatePhone(value string) (string, error) {
	phone := strings.TrimSpace(value)
	if len(phone) < minPhoneLength {
		return "", ErrInvalidPhone
	}
	return phone, nil
}

func normalizeEmail(value string) (*string, error) {
	email := strings.ToLower(strings.TrimSpace(value))
	if email == "" {
		return nil, nil
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		return nil, ErrInvalidEmail
	}
	return &email, nil
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
