package tasks

import (
	"testing"
	"time"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"
)

func TestSnapshotAnnotations(t *testing.T) {
	paidDate := time.Now()
	credit := &models.Credit{
		Schedule: []models.Installment{
			{Number: 1, AppliedAmount: 30000, Paid: true, PaidDate: &paidDate},
			{Number: 2, AppliedAmount: 15000},
		},
		Fines: []models.Fine{
			{Amount: 10000, PaidAmount: 4000},
		},
	}

	before := snapshotAnnotations(credit)
	if snapshotAnnotations(credit) != before {
		t.Fatal("snapshot should be stable when nothing changes")
	}

	credit.Schedule[1].AppliedAmount = 30000
	if snapshotAnnotations(credit) == before {
		t.Error("snapshot should change when an applied amount changes")
	}
	credit.Schedule[1].AppliedAmount = 15000

	credit.Fines[0].Settled = true
	if snapshotAnnotations(credit) == before {
		t.Error("snapshot should change when a fine settles")
	}
}

func TestBuildScheduledTask(t *testing.T) {
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	interval := "FREQ=DAILY"

	task, err := BuildScheduledTask("collection_digest", map[string]interface{}{"route": "centro"}, due, &interval, models.ScheduledTaskTypeRecurring, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if task.TaskName != "collection_digest" {
		t.Errorf("task name = %q, want collection_digest", task.TaskName)
	}
	if task.Status != models.ScheduledTaskStatusActive {
		t.Errorf("status = %q, want active", task.Status)
	}
	if task.Arguments["route"] != "centro" {
		t.Errorf("arguments not carried over: %v", task.Arguments)
	}
	if !task.Due.Equal(due) {
		t.Errorf("due = %v, want %v", task.Due, due)
	}
}

func TestBuildScheduledTaskRejectsBadInput(t *testing.T) {
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	interval := "FREQ=DAILY"
	garbage := "every other tuesday"

	tests := []struct {
		name     string
		taskName string
		interval *string
		taskType models.ScheduledTaskType
	}{
		{"empty task name", "", &interval, models.ScheduledTaskTypeRecurring},
		{"recurring without interval", "refresh_credit_status", nil, models.ScheduledTaskTypeRecurring},
		{"recurring with unparseable interval", "refresh_credit_status", &garbage, models.ScheduledTaskTypeRecurring},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildScheduledTask(tt.taskName, nil, due, tt.interval, tt.taskType, 3); err == nil {
				t.Error("expected an error")
			}
		})
	}

	// One-time tasks need no interval.
	task, err := BuildScheduledTask("collection_digest", nil, due, nil, models.ScheduledTaskTypeOneTime, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.MaxAttempt != 1 {
		t.Errorf("max attempt = %d, want clamped to 1", task.MaxAttempt)
	}
}

func TestDefineTasksRegistersHandlers(t *testing.T) {
	DefineTasks()

	for _, name := range []string{"refresh_credit_status", "collection_digest"} {
		if _, ok := GetHandler(name); !ok {
			t.Errorf("handler %q not registered", name)
		}
	}
}
