package member

import (
	"context"
	"errors"
	"time"

	"dues-app-go/internal/db"
	memberdomain "dues-app-go/internal/domain/member"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(memberdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) List(ctx context.Context, filter memberdomain.ListFilter) ([]memberdomain.Member, int64, error) {
	query := r.db.WithContext(ctx).Model(&memberdomain.Member{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := db.ContainsPattern(filter.Search)
		query = query.Where(`name ILIKE ? ESCAPE '\' OR email ILIKE ? ESCAPE '\' OR phone ILIKE ? ESCAPE '\'`, pattern, pattern, pattern)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, db.Translate(err)
	}

	query = query.Order("created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var items []memberdomain.Member
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, db.Translate(err)
	}
	return items, total, nil
}

func (r *PostgresRepository) ListWithOwing(ctx context.Context) ([]memberdomain.Member, error) {
	var items []memberdomain.Member
	err := r.db.WithContext(ctx).
		Where("status = ?", memberdomain.StatusActive).
		Where("EXISTS (SELECT 1 FROM member_owing_months mom WHERE mom.member_id = members.id)").
		Order("name asc").
		Find(&items).Error
	if err != nil {
		return nil, db.Translate(err)
	}
	return items, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*memberdomain.Member, error) {
	var member memberdomain.Member
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, memberdomain.ErrMemberNotFound
		}
		return nil, db.Translate(err)
	}
	return &member, nil
}

func (r *PostgresRepository) LockByID(ctx context.Context, id string) (*memberdomain.Member, error) {
	var member memberdomain.Member
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, memberdomain.ErrMemberNotFound
		}
		return nil, db.Translate(err)
	}
	return &member, nil
}

func (r *PostgresRepository) Create(ctx context.Context, member *memberdomain.Member) error {
	return translateContactError(r.db.WithContext(ctx).Create(member).Error)
}

func (r *PostgresRepository) Update(ctx context.Context, member *memberdomain.Member) error {
	err := r.db.WithContext(ctx).
		Model(&memberdomain.Member{}).
		Where("id = ?", member.ID).
		Updates(map[string]interface{}{
			"user_id":       member.UserID,
			"name":          member.Name,
			"email":         member.Email,
			"phone":         member.Phone,
			"address":       member.Address,
			"date_of_birth": member.DateOfBirth,
			"status":        member.Status,
			"updated_at":    member.UpdatedAt,
		}).Error
	return translateContactError(err)
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&memberdomain.Member{}, "id = ?", id)
	if result.Error != nil {
		return false, db.Translate(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) CountByEmail(ctx context.Context, email, excludeID string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&memberdomain.Member{}).Where("LOWER(email) = LOWER(?)", email)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, db.Translate(err)
	}
	return count, nil
}

func (r *PostgresRepository) CountByPhone(ctx context.Context, phone, excludeID string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&memberdomain.Member{}).Where("phone = ?", phone)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, db.Translate(err)
	}
	return count, nil
}

func (r *PostgresRepository) MonthsByMemberIDs(ctx context.Context, ids []string) (map[string]memberdomain.Months, error) {
	result := make(map[string]memberdomain.Months, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var owing []memberdomain.OwingMonth
	if err := r.db.WithContext(ctx).
		Where("member_id IN ?", ids).
		Order("month asc").
		Find(&owing).Error; err != nil {
		return nil, db.Translate(err)
	}

	var credit []memberdomain.CreditMonth
	if err := r.db.WithContext(ctx).
		Where("member_id IN ?", ids).
		Order("month asc").
		Find(&credit).Error; err != nil {
		return nil, db.Translate(err)
	}

	for _, row := range owing {
		entry := result[row.MemberID]
		entry.Owing = append(entry.Owing, memberdomain.MonthAmount{Month: row.Month, Amount: row.Amount})
		result[row.MemberID] = entry
	}
	for _, row := range credit {
		entry := result[row.MemberID]
		entry.Credit = append(entry.Credit, memberdomain.MonthAmount{Month: row.Month, Amount: row.Amount})
		result[row.MemberID] = entry
	}
	return result, nil
}

func (r *PostgresRepository) AddOwingMonths(ctx context.Context, memberID string, months []memberdomain.MonthAmount) error {
	if len(months) == 0 {
		return nil
	}

	rows := make([]memberdomain.OwingMonth, 0, len(months))
	for _, month := range months {
		rows = append(rows, memberdomain.OwingMonth{MemberID: memberID, Month: month.Month, Amount: month.Amount})
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	return db.Translate(err)
}

func (r *PostgresRepository) SumOwing(ctx context.Context, memberID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&memberdomain.OwingMonth{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("member_id = ?", memberID).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, db.Translate(err)
	}
	return total, nil
}

func (r *PostgresRepository) SetTotalOwing(ctx context.Context, memberID string, total decimal.Decimal) error {
	err := r.db.WithContext(ctx).
		Model(&memberdomain.Member{}).
		Where("id = ?", memberID).
		Updates(map[string]interface{}{
			"total_owing": total,
			"updated_at":  time.Now().UTC(),
		}).Error
	return db.Translate(err)
}

func (r *PostgresRepository) Stats(ctx context.Context, yearStart time.Time) (memberdomain.Stats, error) {
	var row struct {
		TotalMembers      int64
		ActiveMembers     int64
		MembersOwing      int64
		TotalOwingAmount  decimal.Decimal
		TotalPaidThisYear decimal.Decimal
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(1) FROM members WHERE deleted_at IS NULL) AS total_members,
			(SELECT COUNT(1) FROM members WHERE deleted_at IS NULL AND status = ?) AS active_members,
			(SELECT COUNT(DISTINCT mom.member_id)
				FROM member_owing_months mom
				JOIN members m ON m.id = mom.member_id AND m.deleted_at IS NULL) AS members_owing,
			(SELECT COALESCE(SUM(mom.amount), 0)
				FROM member_owing_months mom
				JOIN members m ON m.id = mom.member_id AND m.deleted_at IS NULL) AS total_owing_amount,
			(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE payment_date >= ?) AS total_paid_this_year
	`, memberdomain.StatusActive, yearStart).Scan(&row).Error
	if err != nil {
		return memberdomain.Stats{}, db.Translate(err)
	}

	return memberdomain.Stats{
		TotalMembers:      row.TotalMembers,
		ActiveMembers:     row.ActiveMembers,
		MembersOwing:      row.MembersOwing,
		TotalOwingAmount:  row.TotalOwingAmount,
		TotalPaidThisYear: row.TotalPaidThisYear,
	}, nil
}

func translateContactError(err error) error {
	if err == nil {
		return nil
	}
	switch db.ConstraintName(err) {
	case "members_email_active_key":
		return memberdomain.ErrDuplicateEmail.Wrap(err)
	case "members_phone_active_key":
		return memberdomain.ErrDuplicatePhone.Wrap(err)
	default:
		return db.Translate(err)
	}
}
