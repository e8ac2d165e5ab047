package reminders

import (
	"context"
	"fmt"
	"strings"
	"time"

	memberdomain "dues-app-go/internal/domain/member"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxMessageLength = 1000

type MemberLookup interface {
	Get(ctx context.Context, id string) (*memberdomain.MemberWithMonths, error)
	ListWithOwing(ctx context.Context) ([]memberdomain.MemberWithMonths, error)
}

type Service struct {
	repo     Repository
	members  MemberLookup
	notifier Notifier
	currency string
	now      func() time.Time
}

func NewService(repo Repository, members MemberLookup, notifier Notifier, currency string) *Service {
	return &Service{
		repo:     repo,
		members:  members,
		notifier: notifier,
		currency: currency,
		now:      time.Now,
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]ReminderWithMember, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []ReminderWithMember{}
	}
	return items, total, nil
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Reminder, error) {
	memberID := strings.TrimSpace(input.MemberID)
	if _, err := uuid.Parse(memberID); err != nil {
		return nil, ErrInvalidMemberID
	}
	message := strings.TrimSpace(input.Message)
	if message == "" || len(message) > maxMessageLength {
		return nil, ErrMessageRequired
	}

	if _, err := s.members.Get(ctx, memberID); err != nil {
		return nil, err
	}

	reminder := s.newReminder(memberID, message, input.CreatedBy)
	if err := s.repo.Create(ctx, []Reminder{reminder}); err != nil {
		return nil, err
	}
	return &reminder, nil
}

// CreateForOwing queues one pending reminder per active member that owes dues.
func (s *Service) CreateForOwing(ctx context.Context, createdBy string) ([]Reminder, error) {
	members, err := s.members.ListWithOwing(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]Reminder, 0, len(members))
	for _, member := range members {
		if len(member.OwingMonths) == 0 {
			continue
		}
		items = append(items, s.newReminder(member.ID, s.owingMessage(member), createdBy))
	}
	if len(items) == 0 {
		return items, nil
	}

	if err := s.repo.Create(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Send delivers a reminder and records the outcome. A delivery failure is
// not an error: it is stored on the reminder with status failed.
func (s *Service) Send(ctx context.Context, id string) (*ReminderWithMember, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrReminderNotFound
	}

	reminder, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reminder.Status == StatusSent {
		return nil, ErrAlreadySent
	}

	recipient := Recipient{
		MemberID: reminder.MemberID,
		Name:     reminder.MemberName,
		Email:    reminder.MemberEmail,
		Phone:    reminder.MemberPhone,
	}

	sendErr := s.notifier.Notify(ctx, recipient, reminder.Message)
	if sendErr != nil {
		message := sendErr.Error()
		reminder.Status = StatusFailed
		reminder.Error = &message
		reminder.SentAt = nil
	} else {
		sentAt := s.now().UTC()
		reminder.Status = StatusSent
		reminder.SentAt = &sentAt
		reminder.Error = nil
	}

	if err := s.repo.MarkResult(ctx, reminder.ID, reminder.Status, reminder.SentAt, reminder.Error); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *Service) newReminder(memberID, message, createdBy string) Reminder {
	reminder := Reminder{
		ID:       uuid.NewString(),
		MemberID: memberID,
		Message:  message,
		Status:   StatusPending,
	}
	if createdBy = strings.TrimSpace(createdBy); createdBy != "" {
		if _, err := uuid.Parse(createdBy); err == nil {
			reminder.CreatedBy = &createdBy
		}
	}
	return reminder
}

func (s *Service) owingMessage(member memberdomain.MemberWithMonths) string {
	total := decimal.Zero
	for _, month := range member.OwingMonths {
		total = total.Add(month.Amount)
	}
	return fmt.Sprintf(
		"Dear %s, our records show outstanding dues for %s totalling %s %s. Kindly arrange payment with the treasurer.",
		member.Name,
		strings.Join(member.OwingMonthKeys(), ", "),
		s.currency,
		total.StringFixed(2),
	)
}
