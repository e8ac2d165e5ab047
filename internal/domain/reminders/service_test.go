package reminders

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	memberdomain "dues-app-go/internal/domain/member"
	"github.com/shopspring/decimal"
)

const (
	memberID1 = "8e0b7c7e-1f2a-4b3c-9d4e-5f6a7b8c9d0e"
	memberID2 = "9f1c8d8f-2a3b-4c4d-8e5f-6a7b8c9d0e1f"
)

type fakeRemindersRepo struct {
	reminders map[string]*Reminder
	members   map[string]memberdomain.Member
}

func newFakeRemindersRepo(members map[string]memberdomain.Member) *fakeRemindersRepo {
	return &fakeRemindersRepo{reminders: make(map[string]*Reminder), members: members}
}

func (r *fakeRemindersRepo) List(ctx context.Context, filter ListFilter) ([]ReminderWithMember, int64, error) {
	items := make([]ReminderWithMember, 0)
	for _, reminder := range r.reminders {
		if filter.Status != "" && reminder.Status != filter.Status {
			continue
		}
		items = append(items, ReminderWithMember{Reminder: *reminder})
	}
	return items, int64(len(items)), nil
}

func (r *fakeRemindersRepo) GetByID(ctx context.Context, id string) (*ReminderWithMember, error) {
	reminder, ok := r.reminders[id]
	if !ok {
		return nil, ErrReminderNotFound
	}
	member := r.members[reminder.MemberID]
	return &ReminderWithMember{
		Reminder:    *reminder,
		MemberName:  member.Name,
		MemberPhone: member.Phone,
		MemberEmail: member.Email,
	}, nil
}

func (r *fakeRemindersRepo) Create(ctx context.Context, reminders []Reminder) error {
	for i := range reminders {
		copied := reminders[i]
		r.reminders[copied.ID] = &copied
	}
	return nil
}

func (r *fakeRemindersRepo) MarkResult(ctx context.Context, id string, status Status, sentAt *time.Time, errMessage *string) error {
	reminder, ok := r.reminders[id]
	if !ok {
		return ErrReminderNotFound
	}
	reminder.Status = status
	reminder.SentAt = sentAt
	reminder.Error = errMessage
	return nil
}

type fakeMembers struct {
	members map[string]memberdomain.MemberWithMonths
}

func (f *fakeMembers) Get(ctx context.Context, id string) (*memberdomain.MemberWithMonths, error) {
	member, ok := f.members[id]
	if !ok {
		return nil, memberdomain.ErrMemberNotFound
	}
	return &member, nil
}

func (f *fakeMembers) ListWithOwing(ctx context.Context) ([]memberdomain.MemberWithMonths, error) {
	items := make([]memberdomain.MemberWithMonths, 0)
	for _, id := range []string{memberID1, memberID2} {
		member, ok := f.members[id]
		if ok && len(member.OwingMonths) > 0 {
			items = append(items, member)
		}
	}
	return items, nil
}

type recordingNotifier struct {
	err        error
	recipients []Recipient
}

func (n *recordingNotifier) Notify(ctx context.Context, recipient Recipient, message string) error {
	n.recipients = append(n.recipients, recipient)
	return n.err
}

func fixture() (*fakeRemindersRepo, *fakeMembers) {
	email := "ama@example.com"
	ama := memberdomain.Member{ID: memberID1, Name: "Ama Mensah", Phone: "0241234567", Email: &email}
	kojo := memberdomain.Member{ID: memberID2, Name: "Kojo Asante", Phone: "0249876543"}

	members := &fakeMembers{members: map[string]memberdomain.MemberWithMonths{
		memberID1: {
			Member: ama,
			OwingMonths: []memberdomain.MonthAmount{
				{Month: "2026-01", Amount: decimal.NewFromInt(10)},
				{Month: "2026-02", Amount: decimal.NewFromInt(10)},
			},
		},
		memberID2: {Member: kojo},
	}}
	repo := newFakeRemindersRepo(map[string]memberdomain.Member{memberID1: ama, memberID2: kojo})
	return repo, members
}

func TestCreateReminderStartsPending(t *testing.T) {
	repo, members := fixture()
	service := NewService(repo, members, &recordingNotifier{}, "GHS")

	reminder, err := service.Create(context.Background(), CreateInput{MemberID: memberID2, Message: "Please pay"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if reminder.Status != StatusPending {
		t.Fatalf("expected pending, got %s", reminder.Status)
	}
}

func TestCreateReminderValidates(t *testing.T) {
	repo, members := fixture()
	service := NewService(repo, members, &recordingNotifier{}, "GHS")

	if _, err := service.Create(context.Background(), CreateInput{MemberID: "x", Message: "hi"}); !errors.Is(err, ErrInvalidMemberID) {
		t.Fatalf("expected ErrInvalidMemberID, got %v", err)
	}
	if _, err := service.Create(context.Background(), CreateInput{MemberID: memberID1, Message: "  "}); !errors.Is(err, ErrMessageRequired) {
		t.Fatalf("expected ErrMessageRequired, got %v", err)
	}
	missing := "00000000-0000-4000-8000-000000000001"
	if _, err := service.Create(context.Background(), CreateInput{MemberID: missing, Message: "hi"}); !errors.Is(err, memberdomain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestCreateForOwingListsMonthsAndAmount(t *testing.T) {
	repo, members := fixture()
	service := NewService(repo, members, &recordingNotifier{}, "GHS")

	created, err := service.CreateForOwing(context.Background(), "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(created))
	}
	message := created[0].Message
	if !strings.Contains(message, "2026-01, 2026-02") || !strings.Contains(message, "GHS 20.00") {
		t.Fatalf("unexpected message: %s", message)
	}
}

func TestSendMarksSentAndRejectsResend(t *testing.T) {
	repo, members := fixture()
	notifier := &recordingNotifier{}
	service := NewService(repo, members, notifier, "GHS")

	reminder, err := service.Create(context.Background(), CreateInput{MemberID: memberID1, Message: "Please pay"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	sent, err := service.Send(context.Background(), reminder.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if sent.Status != StatusSent || sent.SentAt == nil {
		t.Fatalf("expected sent status with timestamp, got %+v", sent.Reminder)
	}
	if len(notifier.recipients) != 1 || notifier.recipients[0].Email == nil {
		t.Fatalf("expected notifier to receive member email")
	}

	if _, err := service.Send(context.Background(), reminder.ID); !errors.Is(err, ErrAlreadySent) {
		t.Fatalf("expected ErrAlreadySent, got %v", err)
	}
}

func TestSendRecordsDeliveryFailure(t *testing.T) {
	repo, members := fixture()
	service := NewService(repo, members, &recordingNotifier{err: errors.New("mailbox unavailable")}, "GHS")

	reminder, err := service.Create(context.Background(), CreateInput{MemberID: memberID1, Message: "Please pay"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := service.Send(context.Background(), reminder.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Status != StatusFailed {
		t.Fatalf("expected failed status, got %s", result.Status)
	}
	if stored := repo.reminders[reminder.ID]; stored.Error == nil || *stored.Error != "mailbox unavailable" {
		t.Fatalf("expected stored delivery error")
	}
}
