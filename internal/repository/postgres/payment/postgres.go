package payment

import (
	"context"
	"errors"
	"time"

	"dues-app-go/internal/db"
	memberdomain "dues-app-go/internal/domain/member"
	paymentdomain "dues-app-go/internal/domain/payment"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const paymentWithMemberColumns = `payments.*,
	members.name AS member_name,
	members.email AS member_email,
	members.phone AS member_phone`

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(paymentdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) List(ctx context.Context, filter paymentdomain.ListFilter) ([]paymentdomain.PaymentWithMember, int64, error) {
	query := r.db.WithContext(ctx).
		Table("payments").
		Joins("LEFT JOIN members ON members.id = payments.member_id")
	if filter.MemberID != "" {
		query = query.Where("payments.member_id = ?", filter.MemberID)
	}
	if filter.Method != "" {
		query = query.Where("payments.payment_method = ?", filter.Method)
	}
	if filter.From != nil {
		query = query.Where("payments.payment_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("payments.payment_date < ?", filter.To.AddDate(0, 0, 1))
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, db.Translate(err)
	}

	query = query.Select(paymentWithMemberColumns).Order("payments.payment_date desc, payments.created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []paymentRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, db.Translate(err)
	}

	items := make([]paymentdomain.PaymentWithMember, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, total, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*paymentdomain.PaymentWithMember, error) {
	var row paymentRow
	result := r.db.WithContext(ctx).
		Table("payments").
		Select(paymentWithMemberColumns).
		Joins("LEFT JOIN members ON members.id = payments.member_id").
		Where("payments.id = ?", id).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return nil, db.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, paymentdomain.ErrPaymentNotFound
	}
	item := row.toDomain()
	return &item, nil
}

func (r *PostgresRepository) ListByMember(ctx context.Context, memberID string, limit, offset int) ([]paymentdomain.Payment, int64, error) {
	query := r.db.WithContext(ctx).Model(&paymentdomain.Payment{}).Where("member_id = ?", memberID)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, db.Translate(err)
	}

	query = query.Order("payment_date desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var items []paymentdomain.Payment
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, db.Translate(err)
	}
	return items, total, nil
}

func (r *PostgresRepository) LockMember(ctx context.Context, memberID string) (*memberdomain.Member, error) {
	var member memberdomain.Member
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", memberID).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, memberdomain.ErrMemberNotFound
		}
		return nil, db.Translate(err)
	}
	return &member, nil
}

func (r *PostgresRepository) Create(ctx context.Context, payment *paymentdomain.Payment) error {
	return db.Translate(r.db.WithContext(ctx).Create(payment).Error)
}

func (r *PostgresRepository) SettleOwingMonths(ctx context.Context, memberID string, months []string) ([]string, error) {
	if len(months) == 0 {
		return []string{}, nil
	}

	var settled []memberdomain.OwingMonth
	err := r.db.WithContext(ctx).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "month"}}}).
		Where("member_id = ? AND month IN ?", memberID, months).
		Delete(&settled).Error
	if err != nil {
		return nil, db.Translate(err)
	}

	result := make([]string, 0, len(settled))
	for _, row := range settled {
		result = append(result, row.Month)
	}
	return result, nil
}

func (r *PostgresRepository) AddCreditMonths(ctx context.Context, memberID string, months []memberdomain.MonthAmount) error {
	if len(months) == 0 {
		return nil
	}

	rows := make([]memberdomain.CreditMonth, 0, len(months))
	for _, month := range months {
		rows = append(rows, memberdomain.CreditMonth{MemberID: memberID, Month: month.Month, Amount: month.Amount})
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "member_id"}, {Name: "month"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"amount": gorm.Expr("member_credit_months.amount + EXCLUDED.amount")}),
		}).
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

func (r *PostgresRepository) ApplyTotals(ctx context.Context, memberID string, paidDelta, totalOwing decimal.Decimal) error {
	err := r.db.WithContext(ctx).
		Model(&memberdomain.Member{}).
		Unscoped().
		Where("id = ?", memberID).
		Updates(map[string]interface{}{
			"total_paid":  gorm.Expr("total_paid + ?", paidDelta),
			"total_owing": totalOwing,
			"updated_at":  time.Now().UTC(),
		}).Error
	return db.Translate(err)
}

type paymentRow struct {
	paymentdomain.Payment
	MemberName  string
	MemberEmail *string
	MemberPhone string
}

func (r paymentRow) toDomain() paymentdomain.PaymentWithMember {
	return paymentdomain.PaymentWithMember{
		Payment:     r.Payment,
		MemberName:  r.MemberName,
		MemberEmail: r.MemberEmail,
		MemberPhone: r.MemberPhone,
	}
}
