package ledger

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"musky-bot/internal/models"
)

var ErrTaskNotFound = errors.New("task not found")

func (l *Ledger) CreateTask(ctx context.Context, task *models.Task) error {
	db, cancel := l.session(ctx)
	defer cancel()

	if task.Status == "" {
		task.Status = "active"
	}
	if err := db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (l *Ledger) UpdateTask(ctx context.Context, id uint, fields map[string]any) error {
	db, cancel := l.session(ctx)
	defer cancel()

	result := db.Model(&models.Task{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update task %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (l *Ledger) DeleteTask(ctx context.Context, id uint) error {
	db, cancel := l.session(ctx)
	defer cancel()

	result := db.Delete(&models.Task{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (l *Ledger) ActiveTasks(ctx context.Context) ([]models.Task, error) {
	db, cancel := l.session(ctx)
	defer cancel()

	var tasks []models.Task
	if err := db.Where("status = ?", "active").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list active tasks: %w", err)
	}
	return tasks, nil
}

func (l *Ledger) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	db, cancel := l.session(ctx)
	defer cancel()

	var task models.Task
	if err := db.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task %d: %w", id, err)
	}
	return &task, nil
}
