package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"
)

// BuildScheduledTask assembles an unsaved ScheduledTask from typed
// arguments. The arguments round-trip through JSON so the worker sees
// exactly what a database reload would give it. Recurring tasks must
// carry a parseable RRULE, otherwise NextDue would silently stop
// rescheduling them.
func BuildScheduledTask(taskName string, args interface{}, due time.Time, recurringInterval *string, taskType models.ScheduledTaskType, maxAttempt int) (*models.ScheduledTask, error) {
	if taskName == "" {
		return nil, fmt.Errorf("task name is required")
	}
	if maxAttempt < 1 {
		maxAttempt = 1
	}
	if taskType == models.ScheduledTaskTypeRecurring {
		if recurringInterval == nil || *recurringInterval == "" {
			return nil, fmt.Errorf("recurring task %q needs a recurring interval", taskName)
		}
		if _, err := rrule.StrToRRule(*recurringInterval); err != nil {
			return nil, fmt.Errorf("invalid recurring interval %q: %w", *recurringInterval, err)
		}
	}

	argsBytes, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal args: %w", err)
	}
	var mapArgs map[string]interface{}
	if err := json.Unmarshal(argsBytes, &mapArgs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal into map: %w", err)
	}

	return &models.ScheduledTask{
		TaskName:          taskName,
		Arguments:         mapArgs,
		Due:               due,
		RecurringInterval: recurringInterval,
		Status:            models.ScheduledTaskStatusActive,
		TaskType:          taskType,
		MaxAttempt:        maxAttempt,
	}, nil
}
