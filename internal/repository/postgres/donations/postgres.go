package donations

import (
	"context"
	"errors"

	"dues-app-go/internal/db"
	donationsdomain "dues-app-go/internal/domain/donations"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, filter donationsdomain.ListFilter) ([]donationsdomain.Donation, int64, error) {
	query := r.db.WithContext(ctx).Model(&donationsdomain.Donation{})
	if filter.DonationType != "" {
		query = query.Where("donation_type = ?", filter.DonationType)
	}
	if filter.PaymentMethod != "" {
		query = query.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.From != nil {
		query = query.Where("donation_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("donation_date < ?", filter.To.AddDate(0, 0, 1))
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, db.Translate(err)
	}

	query = query.Order("donation_date desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var items []donationsdomain.Donation
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, db.Translate(err)
	}
	return items, total, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*donationsdomain.Donation, error) {
	var donation donationsdomain.Donation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&donation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, donationsdomain.ErrDonationNotFound
		}
		return nil, db.Translate(err)
	}
	return &donation, nil
}

func (r *PostgresRepository) Create(ctx context.Context, donation *donationsdomain.Donation) error {
	return db.Translate(r.db.WithContext(ctx).Create(donation).Error)
}
