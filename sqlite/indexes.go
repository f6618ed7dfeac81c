package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/benjamonnguyen/taskmaster"
)

// indexedTask declares the secondary indexes on the tasks table. Only the
// indexed columns are mapped.
type indexedTask struct {
	ID        int64  `gorm:"primaryKey"`
	Priority  string `gorm:"index:idx_tasks_priority"`
	Category  string `gorm:"index:idx_tasks_category"`
	Completed bool   `gorm:"index:idx_tasks_completed"`
	DueDate   *int64 `gorm:"column:due_date;index:idx_tasks_due_date"`
}

func (indexedTask) TableName() string {
	return "tasks"
}

var taskIndexes = []string{
	"idx_tasks_priority",
	"idx_tasks_category",
	"idx_tasks_completed",
	"idx_tasks_due_date",
}

// ensureIndexes creates each named index that does not exist yet. A failure
// is logged and recorded in the report and the next index is still attempted.
// The returned error is only for failing to inspect the schema at all.
func ensureIndexes(ctx context.Context, conn *sql.DB, names []string, l taskmaster.Logger) (taskmaster.MigrationReport, error) {
	gdb, err := gorm.Open(sqlite.New(sqlite.Config{
		DriverName: "sqlite",
		Conn:       conn,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return taskmaster.MigrationReport{}, fmt.Errorf("failed to inspect schema: %w", err)
	}
	migrator := gdb.WithContext(ctx).Migrator()

	var report taskmaster.MigrationReport
	for _, name := range names {
		res := taskmaster.IndexResult{Name: name}
		if migrator.HasIndex(&indexedTask{}, name) {
			res.Status = taskmaster.IndexExists
		} else if err := migrator.CreateIndex(&indexedTask{}, name); err != nil {
			res.Status = taskmaster.IndexFailed
			res.Err = err
			l.Warn("failed to create index", "index", name, "error", err)
		} else {
			res.Status = taskmaster.IndexCreated
			l.Debug("created index", "index", name)
		}
		report.Indexes = append(report.Indexes, res)
	}

	return report, nil
}
