package member

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type fakeMemberRepo struct {
	members map[string]*Member
	owing   map[string]map[string]decimal.Decimal
	credit  map[string]map[string]decimal.Decimal
	paid    decimal.Decimal
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{
		members: make(map[string]*Member),
		owing:   make(map[string]map[string]decimal.Decimal),
		credit:  make(map[string]map[string]decimal.Decimal),
	}
}

func (r *fakeMemberRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeMemberRepo) live() []Member {
	items := make([]Member, 0, len(r.members))
	for _, member := range r.members {
		if member.DeletedAt.Valid {
			continue
		}
		items = append(items, *member)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

func (r *fakeMemberRepo) List(ctx context.Context, filter ListFilter) ([]Member, int64, error) {
	items := make([]Member, 0)
	for _, member := range r.live() {
		if filter.Status != "" && member.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(member.Name), strings.ToLower(filter.Search)) {
			continue
		}
		items = append(items, member)
	}
	total := int64(len(items))
	if filter.Offset > 0 {
		if filter.Offset >= len(items) {
			return []Member{}, total, nil
		}
		items = items[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(items) {
		items = items[:filter.Limit]
	}
	return items, total, nil
}

func (r *fakeMemberRepo) ListWithOwing(ctx context.Context) ([]Member, error) {
	items := make([]Member, 0)
	for _, member := range r.live() {
		if member.Status == StatusActive && len(r.owing[member.ID]) > 0 {
			items = append(items, member)
		}
	}
	return items, nil
}

func (r *fakeMemberRepo) GetByID(ctx context.Context, id string) (*Member, error) {
	member, ok := r.members[id]
	if !ok || member.DeletedAt.Valid {
		return nil, ErrMemberNotFound
	}
	copied := *member
	return &copied, nil
}

func (r *fakeMemberRepo) LockByID(ctx context.Context, id string) (*Member, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeMemberRepo) Create(ctx context.Context, member *Member) error {
	copied := *member
	r.members[member.ID] = &copied
	return nil
}

func (r *fakeMemberRepo) Update(ctx context.Context, member *Member) error {
	copied := *member
	r.members[member.ID] = &copied
	return nil
}

func (r *fakeMemberRepo) SoftDelete(ctx context.Context, id string) (bool, error) {
	member, ok := r.members[id]
	if !ok || member.DeletedAt.Valid {
		return false, nil
	}
	member.DeletedAt.Time = time.Now()
	member.DeletedAt.Valid = true
	return true, nil
}

func (r *fakeMemberRepo) CountByEmail(ctx context.Context, email, excludeID string) (int64, error) {
	var count int64
	for _, member := range r.live() {
		if member.ID != excludeID && member.Email != nil && strings.EqualFold(*member.Email, email) {
			count++
		}
	}
	return count, nil
}

func (r *fakeMemberRepo) CountByPhone(ctx context.Context, phone, excludeID string) (int64, error) {
	var count int64
	for _, member := range r.live() {
		if member.ID != excludeID && member.Phone == phone {
			count++
		}
	}
	return count, nil
}

func (r *fakeMemberRepo) MonthsByMemberIDs(ctx context.Context, ids []string) (map[string]Months, error) {
	result := make(map[string]Months, len(ids))
	for _, id := range ids {
		var entry Months
		for month, amount := range r.owing[id] {
			entry.Owing = append(entry.Owing, MonthAmount{Month: month, Amount: amount})
		}
		for month, amount := range r.credit[id] {
			entry.Credit = append(entry.Credit, MonthAmount{Month: month, Amount: amount})
		}
		sort.Slice(entry.Owing, func(i, j int) bool { return entry.Owing[i].Month < entry.Owing[j].Month })
		result[id] = entry
	}
	return result, nil
}

func (r *fakeMemberRepo) AddOwingMonths(ctx context.Context, memberID string, months []MonthAmount) error {
	if r.owing[memberID] == nil {
		r.owing[memberID] = make(map[string]decimal.Decimal)
	}
	for _, month := range months {
		if _, exists := r.owing[memberID][month.Month]; exists {
			continue
		}
		r.owing[memberID][month.Month] = month.Amount
	}
	return nil
}

func (r *fakeMemberRepo) SumOwing(ctx context.Context, memberID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, amount := range r.owing[memberID] {
		total = total.Add(amount)
	}
	return total, nil
}

func (r *fakeMemberRepo) SetTotalOwing(ctx context.Context, memberID string, total decimal.Decimal) error {
	member, ok := r.members[memberID]
	if !ok {
		return ErrMemberNotFound
	}
	member.TotalOwing = total
	return nil
}

func (r *fakeMemberRepo) Stats(ctx context.Context, yearStart time.Time) (Stats, error) {
	stats := Stats{TotalOwingAmount: decimal.Zero, TotalPaidThisYear: r.paid}
	for _, member := range r.live() {
		stats.TotalMembers++
		if member.Status == StatusActive {
			stats.ActiveMembers++
		}
		if len(r.owing[member.ID]) > 0 {
			stats.MembersOwing++
		}
		for _, amount := range r.owing[member.ID] {
			stats.TotalOwingAmount = stats.TotalOwingAmount.Add(amount)
		}
	}
	return stats, nil
}

func newTestService() (*Service, *fakeMemberRepo) {
	repo := newFakeMemberRepo()
	return NewService(repo, decimal.NewFromInt(10)), repo
}

func createMember(t *testing.T, service *Service, name, email, phone string) *Member {
	t.Helper()
	member, err := service.Create(context.Background(), CreateInput{Name: name, Email: email, Phone: phone})
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return member
}

func TestCreateRejectsDuplicateContact(t *testing.T) {
	service, _ := newTestService()
	createMember(t, service, "Ama Mensah", "ama@example.com", "0241234567")

	_, err := service.Create(context.Background(), CreateInput{Name: "Ama Two", Email: "AMA@example.com", Phone: "0249999999"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	_, err = service.Create(context.Background(), CreateInput{Name: "Kojo", Phone: "0241234567"})
	if !errors.Is(err, ErrDuplicatePhone) {
		t.Fatalf("expected ErrDuplicatePhone, got %v", err)
	}
}

func TestCreateAllowsContactOfDeletedMember(t *testing.T) {
	service, _ := newTestService()
	first := createMember(t, service, "Ama Mensah", "ama@example.com", "0241234567")

	if err := service.Delete(context.Background(), first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := service.Create(context.Background(), CreateInput{Name: "Ama Mensah", Email: "ama@example.com", Phone: "0241234567"}); err != nil {
		t.Fatalf("expected re-create to succeed, got %v", err)
	}
}

func TestCreateValidatesFields(t *testing.T) {
	service, _ := newTestService()

	cases := []struct {
		name  string
		input CreateInput
		want  error
	}{
		{name: "short name", input: CreateInput{Name: "A", Phone: "0241234567"}, want: ErrInvalidName},
		{name: "bad email", input: CreateInput{Name: "Ama", Email: "ama@", Phone: "0241234567"}, want: ErrInvalidEmail},
		{name: "short phone", input: CreateInput{Name: "Ama", Phone: "024"}, want: ErrInvalidPhone},
		{name: "bad status", input: CreateInput{Name: "Ama", Phone: "0241234567", Status: "gone"}, want: ErrInvalidStatus},
	}

	for _, tc := range cases {
		_, err := service.Create(context.Background(), tc.input)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestCreateDefaultsToActiveWithZeroTotals(t *testing.T) {
	service, _ := newTestService()
	member := createMember(t, service, "Ama Mensah", "", "0241234567")

	if member.Status != StatusActive {
		t.Fatalf("expected active, got %s", member.Status)
	}
	if !member.TotalPaid.IsZero() || !member.TotalOwing.IsZero() {
		t.Fatalf("expected zero totals")
	}
	if member.Email != nil {
		t.Fatalf("expected nil email")
	}
}

func TestUpdateRejectsPhoneOfAnotherMember(t *testing.T) {
	service, _ := newTestService()
	createMember(t, service, "Ama Mensah", "", "0241234567")
	second := createMember(t, service, "Kojo Asante", "", "0249876543")

	phone := "0241234567"
	_, err := service.Update(context.Background(), UpdateInput{ID: second.ID, Phone: &phone})
	if !errors.Is(err, ErrDuplicatePhone) {
		t.Fatalf("expected ErrDuplicatePhone, got %v", err)
	}

	samePhone := "0249876543"
	name := "Kojo A."
	updated, err := service.Update(context.Background(), UpdateInput{ID: second.ID, Phone: &samePhone, Name: &name})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Name != name {
		t.Fatalf("expected %q, got %q", name, updated.Name)
	}
}

func TestDeleteUnknownMember(t *testing.T) {
	service, _ := newTestService()
	err := service.Delete(context.Background(), "7d3c9a52-2f0c-4d0e-9c55-1c1a1e0f0b11")
	if !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestAddOwingMonthsRecomputesTotal(t *testing.T) {
	service, repo := newTestService()
	member := createMember(t, service, "Ama Mensah", "", "0241234567")

	added, err := service.AddOwingMonths(context.Background(), member.ID, []string{"2026-02", "2026-01", "2026-02"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(added) != 2 || added[0].Month != "2026-01" {
		t.Fatalf("unexpected months: %+v", added)
	}
	if !repo.members[member.ID].TotalOwing.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected total owing 20, got %s", repo.members[member.ID].TotalOwing)
	}

	if _, err := service.AddOwingMonths(context.Background(), member.ID, []string{"2026-13"}); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
	if _, err := service.AddOwingMonths(context.Background(), member.ID, nil); !errors.Is(err, ErrNoMonths) {
		t.Fatalf("expected ErrNoMonths, got %v", err)
	}
}

func TestChangeHooksRunAfterWrites(t *testing.T) {
	service, _ := newTestService()
	calls := 0
	service.OnChange(func() { calls++ })

	member := createMember(t, service, "Ama Mensah", "", "0241234567")
	name := "Ama M."
	if _, err := service.Update(context.Background(), UpdateInput{ID: member.ID, Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := service.AddOwingMonths(context.Background(), member.ID, []string{"2026-01"}); err != nil {
		t.Fatalf("add months: %v", err)
	}
	if err := service.Delete(context.Background(), member.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if calls != 4 {
		t.Fatalf("expected 4 hook calls, got %d", calls)
	}

	if err := service.Delete(context.Background(), member.ID); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
	if _, err := service.Create(context.Background(), CreateInput{Name: "A", Phone: "0241234567"}); err == nil {
		t.Fatalf("expected validation error")
	}
	if calls != 4 {
		t.Fatalf("failed writes must not run hooks, got %d calls", calls)
	}
}

func TestGetAttachesMonths(t *testing.T) {
	service, _ := newTestService()
	member := createMember(t, service, "Ama Mensah", "", "0241234567")
	if _, err := service.AddOwingMonths(context.Background(), member.ID, []string{"2026-03"}); err != nil {
		t.Fatalf("add owing: %v", err)
	}

	got, err := service.Get(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if keys := got.OwingMonthKeys(); len(keys) != 1 || keys[0] != "2026-03" {
		t.Fatalf("unexpected owing months: %v", keys)
	}
	if got.CreditMonths == nil {
		t.Fatalf("expected empty credit months slice, got nil")
	}
}

func TestStatsNeverReportsNegativePaidUp(t *testing.T) {
	service, repo := newTestService()
	member := createMember(t, service, "Ama Mensah", "", "0241234567")
	if _, err := service.AddOwingMonths(context.Background(), member.ID, []string{"2026-03"}); err != nil {
		t.Fatalf("add owing: %v", err)
	}
	repo.members[member.ID].Status = StatusInactive

	stats, err := service.Stats(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stats.MembersPaidUp != 0 {
		t.Fatalf("expected 0 paid up, got %d", stats.MembersPaidUp)
	}
	if stats.MembersOwing != 1 {
		t.Fatalf("expected 1 owing, got %d", stats.MembersOwing)
	}
}

func TestIsLinkedUser(t *testing.T) {
	service, _ := newTestService()
	userID := "5b1f3a3e-8f2e-4a57-9d7e-3f1c2b4a6d10"
	member, err := service.Create(context.Background(), CreateInput{Name: "Ama", Phone: "0241234567", UserID: userID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	linked, err := service.IsLinkedUser(context.Background(), member.ID, userID)
	if err != nil || !linked {
		t.Fatalf("expected linked, got %v %v", linked, err)
	}
	linked, err = service.IsLinkedUser(context.Background(), member.ID, "someone-else")
	if err != nil || linked {
		t.Fatalf("expected not linked, got %v %v", linked, err)
	}
}
