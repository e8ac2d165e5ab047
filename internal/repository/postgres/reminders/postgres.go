package reminders

import (
	"context"
	"time"

	"dues-app-go/internal/db"
	remindersdomain "dues-app-go/internal/domain/reminders"
	"gorm.io/gorm"
)

const reminderWithMemberColumns = `reminders.*,
	members.name AS member_name,
	members.phone AS member_phone,
	members.email AS member_email`

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, filter remindersdomain.ListFilter) ([]remindersdomain.ReminderWithMember, int64, error) {
	query := r.db.WithContext(ctx).
		Table("reminders").
		Joins("LEFT JOIN members ON members.id = reminders.member_id")
	if filter.Status != "" {
		query = query.Where("reminders.status = ?", filter.Status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, db.Translate(err)
	}

	query = query.Select(reminderWithMemberColumns).Order("reminders.created_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []reminderRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, db.Translate(err)
	}

	items := make([]remindersdomain.ReminderWithMember, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, total, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*remindersdomain.ReminderWithMember, error) {
	var row reminderRow
	result := r.db.WithContext(ctx).
		Table("reminders").
		Select(reminderWithMemberColumns).
		Joins("LEFT JOIN members ON members.id = reminders.member_id").
		Where("reminders.id = ?", id).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return nil, db.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, remindersdomain.ErrReminderNotFound
	}
	item := row.toDomain()
	return &item, nil
}

func (r *PostgresRepository) Create(ctx context.Context, reminders []remindersdomain.Reminder) error {
	if len(reminders) == 0 {
		return nil
	}
	return db.Translate(r.db.WithContext(ctx).Create(&reminders).Error)
}

func (r *PostgresRepository) MarkResult(ctx context.Context, id string, status remindersdomain.Status, sentAt *time.Time, errMessage *string) error {
	result := r.db.WithContext(ctx).
		Model(&remindersdomain.Reminder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"sent_at":    sentAt,
			"error":      errMessage,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return db.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return remindersdomain.ErrReminderNotFound
	}
	return nil
}

type reminderRow struct {
	remindersdomain.Reminder
	MemberName  string
	MemberPhone string
	MemberEmail *string
}

func (r reminderRow) toDomain() remindersdomain.ReminderWithMember {
	return remindersdomain.ReminderWithMember{
		Reminder:    r.Reminder,
		MemberName:  r.MemberName,
		MemberPhone: r.MemberPhone,
		MemberEmail: r.MemberEmail,
	}
}
