package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/northseawatch/scrubber-backend-go/internal/analysis"
	"github.com/northseawatch/scrubber-backend-go/internal/models"
	"github.com/northseawatch/scrubber-backend-go/internal/repository"
)

// Task service errors
var (
	ErrUnknownSkill      = errors.New("unknown skill")
	ErrInvalidTaskType   = errors.New("invalid task type")
	ErrTaskActive        = errors.New("a task for this skill is already pending or running")
	ErrTaskNotCancelable = errors.New("task is not running")
)

// AnalysisTaskService handles analysis task business logic
type AnalysisTaskService struct {
	repo    *repository.AnalysisTaskRepository
	deps    analysis.Deps
	metrics Metrics

	mu      sync.Mutex
	cancels map[int64]context.CancelFunc
	wg      sync.WaitGroup
}

// NewAnalysisTaskService creates a new analysis task service
func NewAnalysisTaskService(repo *repository.AnalysisTaskRepository, deps analysis.Deps, m Metrics) *AnalysisTaskService {
	return &AnalysisTaskService{
		repo:    repo,
		deps:    deps,
		metrics: metricsOrNoop(m),
		cancels: make(map[int64]context.CancelFunc),
	}
}

// CreateTask creates a new analysis task and starts the analyzer in the background
func (s *AnalysisTaskService) CreateTask(ctx context.Context, skillName, taskType string, params map[string]interface{}, createdBy string) (*models.AnalysisTask, error) {
	task, err := s.newTask(ctx, skillName, taskType, params, createdBy)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancels[task.ID] = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.execute(runCtx, task.ID, skillName, taskType)
	}()

	return task, nil
}

// RunTask creates a task and runs it to completion on the caller's goroutine
func (s *AnalysisTaskService) RunTask(ctx context.Context, skillName, taskType string, params map[string]interface{}, createdBy string) (*models.AnalysisTask, error) {
	task, err := s.newTask(ctx, skillName, taskType, params, createdBy)
	if err != nil {
		return nil, err
	}
	if err := s.execute(ctx, task.ID, skillName, taskType); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, task.ID)
}

func (s *AnalysisTaskService) newTask(ctx context.Context, skillName, taskType string, params map[string]interface{}, createdBy string) (*models.AnalysisTask, error) {
	if !analysis.IsRegistered(skillName) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSkill, skillName)
	}
	if taskType != models.TaskTypeIncremental && taskType != models.TaskTypeFullRecompute {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTaskType, taskType)
	}

	active, err := s.repo.HasActive(ctx, skillName)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrTaskActive
	}

	task := &models.AnalysisTask{
		SkillName: skillName,
		TaskType:  taskType,
		Status:    models.TaskStatusPending,
		CreatedBy: createdBy,
	}
	if params != nil {
		paramsBytes, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize params: %w", err)
		}
		task.ParamsJSON = string(paramsBytes)
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	log.Printf("[AnalysisTask] Created task %d (skill: %s, type: %s)", task.ID, skillName, taskType)
	return task, nil
}

// execute runs the analyzer and records the final status
func (s *AnalysisTaskService) execute(ctx context.Context, taskID int64, skillName, taskType string) error {
	defer s.forget(taskID)

	analyzer := analysis.GetAnalyzer(skillName, s.deps)
	if analyzer == nil {
		msg := fmt.Sprintf("Unknown skill: %s", skillName)
		s.markFailed(taskID, skillName, msg)
		return fmt.Errorf("%w: %s", ErrUnknownSkill, skillName)
	}

	err := analyzer.Analyze(ctx, taskID, analysis.ModeForTaskType(taskType))
	switch {
	case err == nil:
		log.Printf("[AnalysisTask] Task %d completed", taskID)
		s.metrics.TaskFinished(skillName, models.TaskStatusCompleted)
		return nil
	case errors.Is(err, context.Canceled):
		log.Printf("[AnalysisTask] Task %d cancelled", taskID)
		if markErr := s.repo.MarkAsCancelled(context.Background(), taskID); markErr != nil {
			log.Printf("[AnalysisTask] Failed to mark task %d as cancelled: %v", taskID, markErr)
		}
		s.metrics.TaskFinished(skillName, models.TaskStatusCancelled)
		return err
	default:
		log.Printf("[AnalysisTask] Task %d failed: %v", taskID, err)
		s.markFailed(taskID, skillName, fmt.Sprintf("Analysis failed: %v", err))
		return err
	}
}

func (s *AnalysisTaskService) markFailed(taskID int64, skillName, msg string) {
	if err := s.repo.MarkAsFailed(context.Background(), taskID, msg); err != nil {
		log.Printf("[AnalysisTask] Failed to mark task %d as failed: %v", taskID, err)
	}
	s.metrics.TaskFinished(skillName, models.TaskStatusFailed)
}

func (s *AnalysisTaskService) forget(taskID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.cancels[taskID]; ok {
		cancel()
		delete(s.cancels, taskID)
	}
}

// GetTask retrieves a task by ID
func (s *AnalysisTaskService) GetTask(ctx context.Context, id int64) (*models.AnalysisTask, error) {
	return s.repo.GetByID(ctx, id)
}

// ListTasks retrieves all tasks with optional filters
func (s *AnalysisTaskService) ListTasks(ctx context.Context, skillName, status string, limit, offset int) ([]*models.AnalysisTask, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(ctx, skillName, status, limit, offset)
}

// CancelTask cancels a pending or running task
func (s *AnalysisTaskService) CancelTask(ctx context.Context, id int64) error {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}

	if task.Status != models.TaskStatusPending && task.Status != models.TaskStatusRunning {
		return fmt.Errorf("%w (status: %s)", ErrTaskNotCancelable, task.Status)
	}

	if err := s.repo.MarkAsCancelled(ctx, id); err != nil {
		return err
	}
	s.forget(id)
	return nil
}

// Shutdown cancels running tasks and waits for their goroutines to exit
func (s *AnalysisTaskService) Shutdown() {
	s.mu.Lock()
	for _, cancel := range s.cancels {
		cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// Wait blocks until all background tasks have returned
func (s *AnalysisTaskService) Wait() {
	s.wg.Wait()
}
