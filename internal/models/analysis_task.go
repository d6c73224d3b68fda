package models

// AnalysisTask represents a batch job tracked in analysis_tasks
type AnalysisTask struct {
	ID int64 `json:"id" db:"id"`

	// Task identification
	SkillName string `json:"skill_name" db:"skill_name"` // Which analyzer to run
	TaskType  string `json:"task_type" db:"task_type"`   // INCREMENTAL, FULL_RECOMPUTE

	// Status
	Status          string `json:"status" db:"status"` // pending, running, completed, failed
	ProgressPercent int    `json:"progress_percent" db:"progress_percent"`
	ETASeconds      int    `json:"eta_seconds,omitempty" db:"eta_seconds"`

	ParamsJSON string `json:"params_json,omitempty" db:"params_json"`

	// Execution info
	TotalShips     int   `json:"total_ships" db:"total_ships"`
	ProcessedShips int   `json:"processed_ships" db:"processed_ships"`
	FailedShips    int   `json:"failed_ships" db:"failed_ships"`
	StartTime      int64 `json:"start_time,omitempty" db:"start_time"` // Unix timestamp
	EndTime        int64 `json:"end_time,omitempty" db:"end_time"`     // Unix timestamp

	// Results
	ResultSummary string `json:"result_summary,omitempty" db:"result_summary"` // JSON object
	ErrorMessage  string `json:"error_message,omitempty" db:"error_message"`

	CreatedBy string `json:"created_by,omitempty" db:"created_by"`
	CreatedAt int64  `json:"created_at" db:"created_at"` // Unix timestamp
	UpdatedAt int64  `json:"updated_at" db:"updated_at"` // Unix timestamp
}

// TaskType constants
const (
	TaskTypeIncremental   = "INCREMENTAL"
	TaskTypeFullRecompute = "FULL_RECOMPUTE"
)

// TaskStatus constants
const (
	TaskStatusPending   = "pending"
	TaskStatusRunning   = "running"
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
	TaskStatusCancelled = "cancelled"
)
