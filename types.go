package taskpilot

import (
	"time"

	"github.com/taskpilot/taskpilot-go/session"
)

// User is the profile record returned by the auth service. Re-exported from
// the session sub-package so callers rarely need both imports.
type User = session.User

// Priority defines a public type used by taskpilot APIs.
//
// Priority values match the service's wire representation exactly.
type Priority string

const (
	// PriorityLow is an exported constant or variable used by the TaskPilot client.
	PriorityLow Priority = "LOW"
	// PriorityMedium is an exported constant or variable used by the TaskPilot client.
	PriorityMedium Priority = "MEDIUM"
	// PriorityHigh is an exported constant or variable used by the TaskPilot client.
	PriorityHigh Priority = "HIGH"
	// PriorityUrgent is an exported constant or variable used by the TaskPilot client.
	PriorityUrgent Priority = "URGENT"
)

// TaskStatus defines a public type used by taskpilot APIs.
//
// TaskStatus values match the service's wire representation exactly.
type TaskStatus string

const (
	// StatusPending is an exported constant or variable used by the TaskPilot client.
	StatusPending TaskStatus = "PENDING"
	// StatusInProgress is an exported constant or variable used by the TaskPilot client.
	StatusInProgress TaskStatus = "IN_PROGRESS"
	// StatusCompleted is an exported constant or variable used by the TaskPilot client.
	StatusCompleted TaskStatus = "COMPLETED"
	// StatusCancelled is an exported constant or variable used by the TaskPilot client.
	StatusCancelled TaskStatus = "CANCELLED"
)

// Task is the full task record, including the AI enrichment fields the
// service fills in asynchronously after creation.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	RawMessage  string     `json:"raw_message,omitempty"`
	Priority    Priority   `json:"priority"`
	Status      TaskStatus `json:"status"`
	AITitle     string     `json:"ai_title,omitempty"`
	AISummary   string     `json:"ai_summary,omitempty"`
	AIPriority  Priority   `json:"ai_priority,omitempty"`
	AIReasoning string     `json:"ai_reasoning,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	UserID      string     `json:"user_id"`
}

// TaskCreate is the payload for creating a task. Zero-valued Priority and
// Status fall back to the service defaults (MEDIUM, PENDING).
type TaskCreate struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	RawMessage  string     `json:"raw_message,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	Status      TaskStatus `json:"status,omitempty"`
}

// TaskUpdate is a partial update; nil fields are left unchanged server-side.
type TaskUpdate struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Priority    *Priority   `json:"priority,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
}

// TaskFilters narrows ListTasks results. The zero value lists everything up
// to the service's default page size.
type TaskFilters struct {
	Status   TaskStatus
	Priority Priority
	Search   string
	Limit    int
	Offset   int
}

// TaskStats is the aggregate view served by the stats overview endpoint.
type TaskStats struct {
	ByStatus   map[string]int `json:"by_status"`
	ByPriority map[string]int `json:"by_priority"`
	Total      int            `json:"total"`
}

// SearchResult pairs a task with its semantic similarity score in [0, 1].
type SearchResult struct {
	Task       Task    `json:"task"`
	Similarity float64 `json:"similarity"`
}

// AIAnalysis is the service's structured reading of a free-form message.
type AIAnalysis struct {
	Title             string   `json:"title"`
	Summary           string   `json:"summary"`
	SuggestedPriority Priority `json:"suggested_priority"`
	Reasoning         string   `json:"reasoning"`
	Confidence        float64  `json:"confidence"`
}

// ChatResponseType discriminates what the chat agent did with a message.
type ChatResponseType string

const (
	// ChatAnswer is an exported constant or variable used by the TaskPilot client.
	ChatAnswer ChatResponseType = "answer"
	// ChatTaskCreated is an exported constant or variable used by the TaskPilot client.
	ChatTaskCreated ChatResponseType = "task_created"
)

// ChatResponse is the chat agent's reply; Task is set only for
// [ChatTaskCreated] responses.
type ChatResponse struct {
	Type    ChatResponseType `json:"type"`
	Content string           `json:"content"`
	Task    *Task            `json:"task,omitempty"`
}

// ChatHistoryMessage is one entry of the persisted conversation, user and
// agent messages interleaved.
type ChatHistoryMessage struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	IsUser    bool      `json:"is_user"`
	TaskID    *string   `json:"task_id"`
	CreatedAt time.Time `json:"created_at"`
}

// tokenResponse is the credential-exchange payload: a bearer token and its
// scheme.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// registerRequest is the registration payload.
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// chatMessageRequest is the chat message payload.
type chatMessageRequest struct {
	Message string `json:"message"`
}
