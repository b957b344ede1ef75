package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/config"
	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/models"
	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/services"
	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/tasks"
)

var log = logrus.New()

func main() {
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	db, err := services.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	tasks.DefineTasks()
	if err := tasks.EnsureDefaults(db); err != nil {
		log.WithError(err).Fatal("Failed to seed scheduled tasks")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Info("Shutting down worker")
		cancel()
	}()

	// One sweep on startup so a restarted worker catches up immediately,
	// then every 5 minutes on the cron schedule.
	processScheduledTasks(ctx, db)

	c := cron.New()
	if _, err := c.AddFunc("@every 5m", func() { processScheduledTasks(ctx, db) }); err != nil {
		log.WithError(err).Fatal("Failed to schedule sweep")
	}
	c.Start()
	log.Info("Worker started")

	<-ctx.Done()
	<-c.Stop().Done()
}

func processScheduledTasks(ctx context.Context, db *gorm.DB) {
	var pendingTasks []models.ScheduledTask
	now := time.Now()
	if err := db.Where("status = ? AND due <= ?", models.ScheduledTaskStatusActive, now).Find(&pendingTasks).Error; err != nil {
		log.WithError(err).Error("Failed to fetch pending tasks")
		return
	}

	if len(pendingTasks) == 0 {
		return
	}
	log.WithField("count", len(pendingTasks)).Info("Found pending tasks")

	for _, task := range pendingTasks {
		if ctx.Err() != nil {
			return
		}
		executeTask(ctx, db, task, 1)
	}
}

func executeTask(ctx context.Context, db *gorm.DB, task models.ScheduledTask, curAttempt int) {
	taskLog := log.WithFields(logrus.Fields{
		"task":    task.TaskName,
		"task_id": task.ID,
		"attempt": curAttempt,
	})
	taskLog.Info("Processing task")

	if task.Arguments == nil {
		task.Arguments = make(map[string]interface{})
	}

	handler, found := tasks.GetHandler(task.TaskName)
	if !found {
		taskLog.Error("Task handler not found, marking as failure")
		now := time.Now()
		db.Model(&task).Updates(map[string]interface{}{
			"status":   models.ScheduledTaskStatusFailure,
			"last_run": &now,
		})
		db.Create(&models.ScheduledTaskHistory{
			ScheduledTaskID: task.ID,
			TaskName:        task.TaskName,
			RunAt:           now,
			Status:          "handler_not_found",
			AttemptNumber:   curAttempt,
			Arguments:       task.Arguments,
			Result:          map[string]interface{}{"error": "handler not found"},
		})
		return
	}

	startTime := time.Now()
	result, err := handler(ctx, db, task)
	runtimeMS := int(time.Since(startTime).Milliseconds())

	status := "success"
	resultData := result
	if err != nil {
		status = "failure"
		resultData = map[string]interface{}{"error": err.Error()}
		taskLog.WithError(err).Error("Task failed")
	} else {
		taskLog.Info("Task completed")
	}

	db.Create(&models.ScheduledTaskHistory{
		ScheduledTaskID: task.ID,
		TaskName:        task.TaskName,
		RunAt:           startTime,
		RuntimeMS:       runtimeMS,
		Status:          status,
		AttemptNumber:   curAttempt,
		Arguments:       task.Arguments,
		Result:          resultData,
	})

	taskUpdates := map[string]interface{}{
		"last_run": &startTime,
	}

	if status != "success" {
		if curAttempt < task.MaxAttempt {
			executeTask(ctx, db, task, curAttempt+1)
			return
		}
		taskUpdates["status"] = models.ScheduledTaskStatusFailure
	} else {
		switch task.TaskType {
		case models.ScheduledTaskTypeOneTime:
			taskUpdates["status"] = models.ScheduledTaskStatusDone
		case models.ScheduledTaskTypeRecurring:
			nextDue := task.NextDue()
			// The next due must move forward, otherwise the task would
			// run again on every sweep.
			if nextDue.After(task.Due) {
				taskUpdates["status"] = models.ScheduledTaskStatusActive
				taskUpdates["due"] = nextDue
			} else {
				taskUpdates["status"] = models.ScheduledTaskStatusDone
			}
		}
	}

	db.Model(&task).Updates(taskUpdates)
}
