package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/northseawatch/scrubber-backend-go/internal/database"
	"github.com/northseawatch/scrubber-backend-go/internal/models"
	"github.com/northseawatch/scrubber-backend-go/internal/repository"
)

// Analyzer is the interface that all batch skills must implement
type Analyzer interface {
	// Analyze performs the analysis for a given task.
	// mode: "incremental" or "full"
	Analyze(ctx context.Context, taskID int64, mode string) error

	// GetProgress returns the current progress of the analysis
	GetProgress(ctx context.Context, taskID int64) (*Progress, error)

	// GetName returns the name of the analyzer
	GetName() string
}

// Analysis modes
const (
	ModeIncremental = "incremental"
	ModeFull        = "full"
)

// ModeForTaskType maps a stored task type to an analysis mode
func ModeForTaskType(taskType string) string {
	if taskType == models.TaskTypeFullRecompute {
		return ModeFull
	}
	return ModeIncremental
}

// Progress represents the progress of an analysis task
type Progress struct {
	Processed  int     // Number of ships processed
	Total      int     // Total number of ships to process
	Failed     int     // Number of failed ships
	Percent    float64 // Progress percentage (0-100)
	ETASeconds int     // Estimated time to completion in seconds
}

// RatePublisher receives recomputed rates; implemented by the NATS publisher
type RatePublisher interface {
	PublishRates(ctx context.Context, update models.RateUpdate) error
}

// Deps are the shared resources handed to analyzer factories
type Deps struct {
	DB        *database.DB
	Publisher RatePublisher // optional
}

// BaseAnalyzer provides common functionality for all analyzers
type BaseAnalyzer struct {
	DB    *database.DB
	Tasks *repository.AnalysisTaskRepository
	Name  string
}

// NewBaseAnalyzer creates a new base analyzer
func NewBaseAnalyzer(db *database.DB, name string) *BaseAnalyzer {
	return &BaseAnalyzer{
		DB:    db,
		Tasks: repository.NewAnalysisTaskRepository(db),
		Name:  name,
	}
}

// GetName returns the analyzer name
func (a *BaseAnalyzer) GetName() string {
	return a.Name
}

// LoadParams decodes the task's params_json into v; empty params leave v untouched
func (a *BaseAnalyzer) LoadParams(ctx context.Context, taskID int64, v interface{}) error {
	task, err := a.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task.ParamsJSON == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(task.ParamsJSON), v); err != nil {
		return fmt.Errorf("failed to parse task params: %w", err)
	}
	return nil
}

// MarkTaskAsRunning marks a task as running
func (a *BaseAnalyzer) MarkTaskAsRunning(ctx context.Context, taskID int64) error {
	return a.Tasks.MarkAsRunning(ctx, taskID)
}

// MarkTaskAsCompleted marks a task as completed with result summary
func (a *BaseAnalyzer) MarkTaskAsCompleted(ctx context.Context, taskID int64, resultSummary string) error {
	return a.Tasks.MarkAsCompleted(ctx, taskID, resultSummary)
}

// GetProgress returns the current progress from the database
func (a *BaseAnalyzer) GetProgress(ctx context.Context, taskID int64) (*Progress, error) {
	task, err := a.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return &Progress{
		Processed:  task.ProcessedShips,
		Total:      task.TotalShips,
		Failed:     task.FailedShips,
		Percent:    float64(task.ProgressPercent),
		ETASeconds: task.ETASeconds,
	}, nil
}

// AnalyzerFactory is a function that creates an analyzer instance
type AnalyzerFactory func(deps Deps) Analyzer

var (
	registryMu sync.RWMutex
	registry   = make(map[string]AnalyzerFactory)
)

// RegisterAnalyzer registers an analyzer factory for a skill name
func RegisterAnalyzer(skillName string, factory AnalyzerFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[skillName] = factory
}

// GetAnalyzer retrieves an analyzer instance for a skill name, or nil
func GetAnalyzer(skillName string, deps Deps) Analyzer {
	registryMu.RLock()
	factory, ok := registry[skillName]
	registryMu.RUnlock()
	if !ok {
		return nil
	}
	return factory(deps)
}

// IsRegistered checks if a skill has an analyzer
func IsRegistered(skillName string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[skillName]
	return ok
}

// RegisteredSkills lists the registered skill names in order
func RegisteredSkills() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
