package tasks

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"
)

// DefineTasks registers all available tasks
func DefineTasks() {
	RegisterHandler(RefreshCreditStatusTask.TaskID(), RefreshCreditStatusTask.HandleExecution)
	RegisterHandler(CollectionDigestTask.TaskID(), CollectionDigestTask.HandleExecution)
}

// dailyInterval drives both recurring sweeps.
const dailyInterval = "FREQ=DAILY"

// EnsureDefaults seeds the recurring sweep tasks when they are missing,
// so a fresh database starts collecting on its own. Existing rows are
// left untouched.
func EnsureDefaults(db *gorm.DB) error {
	interval := dailyInterval
	defaults := []string{
		RefreshCreditStatusTask.TaskID(),
		CollectionDigestTask.TaskID(),
	}

	for _, name := range defaults {
		var existing models.ScheduledTask
		err := db.Where("task_name = ?", name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// First run at the next local midnight.
		now := time.Now()
		due := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)

		task, err := BuildScheduledTask(name, map[string]interface{}{}, due, &interval, models.ScheduledTaskTypeRecurring, 3)
		if err != nil {
			return err
		}
		if err := db.Create(task).Error; err != nil {
			return err
		}
	}
	return nil
}
