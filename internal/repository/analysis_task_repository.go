package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/northseawatch/scrubber-backend-go/internal/database"
	"github.com/northseawatch/scrubber-backend-go/internal/models"
)

const taskColumns = `id, skill_name, task_type, status, progress_percent, eta_seconds,
	params_json, total_ships, processed_ships, failed_ships, start_time, end_time,
	result_summary, error_message, created_by, created_at, updated_at`

// AnalysisTaskRepository handles database operations for analysis tasks
type AnalysisTaskRepository struct {
	db *database.DB
}

// NewAnalysisTaskRepository creates a new analysis task repository
func NewAnalysisTaskRepository(db *database.DB) *AnalysisTaskRepository {
	return &AnalysisTaskRepository{db: db}
}

// Create creates a new analysis task
func (r *AnalysisTaskRepository) Create(ctx context.Context, task *models.AnalysisTask) error {
	now := time.Now().Unix()
	task.CreatedAt, task.UpdatedAt = now, now

	query := r.db.Rebind(`
		INSERT INTO analysis_tasks (
			skill_name, task_type, status, progress_percent, eta_seconds,
			params_json, total_ships, processed_ships, failed_ships,
			start_time, end_time, result_summary, error_message,
			created_by, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	err := r.db.QueryRowContext(ctx, query,
		task.SkillName,
		task.TaskType,
		task.Status,
		task.ProgressPercent,
		task.ETASeconds,
		task.ParamsJSON,
		task.TotalShips,
		task.ProcessedShips,
		task.FailedShips,
		task.StartTime,
		task.EndTime,
		task.ResultSummary,
		task.ErrorMessage,
		task.CreatedBy,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)
	if err != nil {
		return fmt.Errorf("failed to create analysis task: %w", err)
	}

	return nil
}

// GetByID retrieves an analysis task by ID
func (r *AnalysisTaskRepository) GetByID(ctx context.Context, id int64) (*models.AnalysisTask, error) {
	query := r.db.Rebind(`SELECT ` + taskColumns + ` FROM analysis_tasks WHERE id = ?`)

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis task %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis task: %w", err)
	}

	return task, nil
}

// List retrieves analysis tasks with optional filters, newest first
func (r *AnalysisTaskRepository) List(ctx context.Context, skillName, status string, limit, offset int) ([]*models.AnalysisTask, error) {
	query := `SELECT ` + taskColumns + ` FROM analysis_tasks WHERE 1=1`

	args := []interface{}{}
	if skillName != "" {
		query += " AND skill_name = ?"
		args = append(args, skillName)
	}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*models.AnalysisTask{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis task: %w", err)
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// HasActive reports whether a pending or running task exists for the skill
func (r *AnalysisTaskRepository) HasActive(ctx context.Context, skillName string) (bool, error) {
	query := r.db.Rebind(`
		SELECT COUNT(*) FROM analysis_tasks
		WHERE skill_name = ? AND status IN (?, ?)
	`)

	var n int
	err := r.db.QueryRowContext(ctx, query, skillName, models.TaskStatusPending, models.TaskStatusRunning).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check active tasks: %w", err)
	}
	return n > 0, nil
}

// UpdateProgress updates the progress of an analysis task
func (r *AnalysisTaskRepository) UpdateProgress(ctx context.Context, id int64, total, processed, failed, etaSeconds int) error {
	percent := 0
	if total > 0 {
		percent = processed * 100 / total
	}

	query := r.db.Rebind(`
		UPDATE analysis_tasks
		SET total_ships = ?, processed_ships = ?, failed_ships = ?, progress_percent = ?,
			eta_seconds = ?, updated_at = ?
		WHERE id = ?
	`)

	_, err := r.db.ExecContext(ctx, query, total, processed, failed, percent, etaSeconds, time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to update task progress: %w", err)
	}

	return nil
}

// MarkAsRunning marks a pending task as running
func (r *AnalysisTaskRepository) MarkAsRunning(ctx context.Context, id int64) error {
	now := time.Now().Unix()
	query := r.db.Rebind(`
		UPDATE analysis_tasks
		SET status = ?, start_time = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`)

	res, err := r.db.ExecContext(ctx, query, models.TaskStatusRunning, now, now, id, models.TaskStatusPending)
	if err != nil {
		return fmt.Errorf("failed to mark task as running: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("analysis task %d is not pending", id)
	}

	return nil
}

// MarkAsCompleted marks a task as completed with result summary
func (r *AnalysisTaskRepository) MarkAsCompleted(ctx context.Context, id int64, resultSummary string) error {
	return r.finish(ctx, id, models.TaskStatusCompleted, resultSummary, "")
}

// MarkAsFailed marks a task as failed with an error message
func (r *AnalysisTaskRepository) MarkAsFailed(ctx context.Context, id int64, errorMessage string) error {
	return r.finish(ctx, id, models.TaskStatusFailed, "", errorMessage)
}

// MarkAsCancelled marks a pending or running task as cancelled
func (r *AnalysisTaskRepository) MarkAsCancelled(ctx context.Context, id int64) error {
	return r.finish(ctx, id, models.TaskStatusCancelled, "", "Task cancelled by user")
}

func (r *AnalysisTaskRepository) finish(ctx context.Context, id int64, status, summary, errMsg string) error {
	now := time.Now().Unix()
	query := `
		UPDATE analysis_tasks
		SET status = ?, end_time = ?, result_summary = ?, error_message = ?, updated_at = ?`
	if status == models.TaskStatusCompleted {
		query += ", progress_percent = 100"
	}
	// A cancelled task keeps its status when the worker finishes afterwards
	query += " WHERE id = ? AND status IN (?, ?)"

	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		status, now, summary, errMsg, now, id, models.TaskStatusPending, models.TaskStatusRunning)
	if err != nil {
		return fmt.Errorf("failed to mark task as %s: %w", status, err)
	}

	return nil
}

func scanTask(row rowScanner) (*models.AnalysisTask, error) {
	task := &models.AnalysisTask{}
	err := row.Scan(
		&task.ID,
		&task.SkillName,
		&task.TaskType,
		&task.Status,
		&task.ProgressPercent,
		&task.ETASeconds,
		&task.ParamsJSON,
		&task.TotalShips,
		&task.ProcessedShips,
		&task.FailedShips,
		&task.StartTime,
		&task.EndTime,
		&task.ResultSummary,
		&task.ErrorMessage,
		&task.CreatedBy,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}
