package maintenance

import (
	"context"

	"dues-app-go/internal/db"
	"dues-app-go/pkg/logger"
	"gorm.io/gorm"
)

// financialTables are cleared children first so foreign keys hold throughout.
var financialTables = []string{
	"member_owing_months",
	"member_credit_months",
	"payments",
	"donations",
	"expenses",
}

// Result maps a table to the number of rows removed or reset.
type Result map[string]int64

type Cleaner struct {
	db  *gorm.DB
	log logger.Logger
}

func NewCleaner(conn *gorm.DB, log logger.Logger) *Cleaner {
	return &Cleaner{db: conn, log: log}
}

// ResetFinancials deletes the ledger and zeroes every member's totals. The
// member roster is kept.
func (c *Cleaner) ResetFinancials(ctx context.Context) (Result, error) {
	result := Result{}
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range financialTables {
			res := tx.Exec("DELETE FROM " + table)
			if res.Error != nil {
				return db.Translate(res.Error)
			}
			result[table] = res.RowsAffected
			c.log.Info("cleanup.financial: table cleared", "table", table, "rows", res.RowsAffected)
		}

		res := tx.Exec("UPDATE members SET total_paid = 0, total_owing = 0, updated_at = now()")
		if res.Error != nil {
			return db.Translate(res.Error)
		}
		result["members"] = res.RowsAffected
		c.log.Info("cleanup.financial: member totals reset", "rows", res.RowsAffected)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PurgeReminders deletes every reminder regardless of status.
func (c *Cleaner) PurgeReminders(ctx context.Context) (Result, error) {
	res := c.db.WithContext(ctx).Exec("DELETE FROM reminders")
	if res.Error != nil {
		return nil, db.Translate(res.Error)
	}
	c.log.Info("cleanup.reminders: table cleared", "rows", res.RowsAffected)
	return Result{"reminders": res.RowsAffected}, nil
}
