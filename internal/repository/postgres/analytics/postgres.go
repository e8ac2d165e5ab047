package analytics

import (
	"context"
	"strings"
	"time"

	"dues-app-go/internal/db"
	analyticsdomain "dues-app-go/internal/domain/analytics"
	memberdomain "dues-app-go/internal/domain/member"
	paymentdomain "dues-app-go/internal/domain/payment"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) PaymentsBetween(ctx context.Context, from, to time.Time) ([]analyticsdomain.PaymentPoint, error) {
	var rows []struct {
		MemberID      string
		Amount        decimal.Decimal
		PaymentMethod string
		PaymentDate   time.Time
	}
	err := r.db.WithContext(ctx).
		Table("payments").
		Select("member_id, amount, payment_method, payment_date").
		Where("payment_date >= ? AND payment_date < ?", from, to).
		Order("payment_date").
		Scan(&rows).Error
	if err != nil {
		return nil, db.Translate(err)
	}

	points := make([]analyticsdomain.PaymentPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, analyticsdomain.PaymentPoint{
			MemberID: row.MemberID,
			Amount:   row.Amount,
			Method:   paymentdomain.Method(row.PaymentMethod),
			Date:     row.PaymentDate,
		})
	}
	return points, nil
}

func (r *PostgresRepository) DonationsBetween(ctx context.Context, from, to time.Time) ([]analyticsdomain.DonationPoint, error) {
	var rows []struct {
		Amount       decimal.Decimal
		DonationType string
		DonationDate time.Time
	}
	err := r.db.WithContext(ctx).
		Table("donations").
		Select("amount, donation_type, donation_date").
		Where("donation_date >= ? AND donation_date < ?", from, to).
		Order("donation_date").
		Scan(&rows).Error
	if err != nil {
		return nil, db.Translate(err)
	}

	points := make([]analyticsdomain.DonationPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, analyticsdomain.DonationPoint{
			Amount: row.Amount,
			Type:   row.DonationType,
			Date:   row.DonationDate,
		})
	}
	return points, nil
}

func (r *PostgresRepository) ExpensesBetween(ctx context.Context, from, to time.Time) ([]analyticsdomain.ExpensePoint, error) {
	var rows []struct {
		Amount      decimal.Decimal
		Category    string
		ExpenseDate time.Time
	}
	err := r.db.WithContext(ctx).
		Table("expenses").
		Select("amount, category, expense_date").
		Where("expense_date >= ? AND expense_date < ?", from, to).
		Order("expense_date").
		Scan(&rows).Error
	if err != nil {
		return nil, db.Translate(err)
	}

	points := make([]analyticsdomain.ExpensePoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, analyticsdomain.ExpensePoint{
			Amount:   row.Amount,
			Category: row.Category,
			Date:     row.ExpenseDate,
		})
	}
	return points, nil
}

func (r *PostgresRepository) MemberCounts(ctx context.Context) (analyticsdomain.MemberCounts, error) {
	var row struct {
		TotalMembers  int64
		ActiveMembers int64
		MembersOwing  int64
		TotalOwing    decimal.Decimal
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
				JOIN members m ON m.id = mom.member_id AND m.deleted_at IS NULL) AS total_owing
	`, memberdomain.StatusActive).Scan(&row).Error
	if err != nil {
		return analyticsdomain.MemberCounts{}, db.Translate(err)
	}

	return analyticsdomain.MemberCounts{
		TotalMembers:  row.TotalMembers,
		ActiveMembers: row.ActiveMembers,
		MembersOwing:  row.MembersOwing,
		TotalOwing:    row.TotalOwing,
	}, nil
}

func (r *PostgresRepository) RecentPayments(ctx context.Context, limit int) ([]analyticsdomain.Activity, error) {
	var rows []struct {
		ID            string
		Amount        decimal.Decimal
		PaymentMethod string
		PaymentDate   time.Time
		Notes         *string
		MemberName    *string
	}
	err := r.db.WithContext(ctx).
		Table("payments").
		Select("payments.id, payments.amount, payments.payment_method, payments.payment_date, payments.notes, members.name AS member_name").
		Joins("LEFT JOIN members ON members.id = payments.member_id").
		Order("payments.payment_date desc, payments.created_at desc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, db.Translate(err)
	}

	items := make([]analyticsdomain.Activity, 0, len(rows))
	for _, row := range rows {
		name := "Unknown"
		if row.MemberName != nil && *row.MemberName != "" {
			name = *row.MemberName
		}
		action := "payment made"
		if row.Notes != nil && strings.TrimSpace(*row.Notes) != "" {
			action = strings.TrimSpace(*row.Notes)
		}
		items = append(items, analyticsdomain.Activity{
			ID:          row.ID,
			MemberName:  name,
			Description: name + " - " + action,
			Amount:      row.Amount,
			Method:      paymentdomain.Method(row.PaymentMethod),
			Date:        row.PaymentDate,
		})
	}
	return items, nil
}
