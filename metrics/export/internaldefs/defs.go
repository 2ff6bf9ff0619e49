package internaldefs

import (
	taskpilot "github.com/taskpilot/taskpilot-go"
)

// CounterDef defines a public type used by taskpilot APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   taskpilot.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by taskpilot APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   taskpilot.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the TaskPilot client.
var CounterDefs = []CounterDef{
	{ID: taskpilot.MetricLoginSuccess, Name: "taskpilot_login_success_total", Help: "Successful login attempts."},
	{ID: taskpilot.MetricLoginFailure, Name: "taskpilot_login_failure_total", Help: "Failed login attempts."},
	{ID: taskpilot.MetricRegisterSuccess, Name: "taskpilot_register_success_total", Help: "Successful registrations."},
	{ID: taskpilot.MetricRegisterFailure, Name: "taskpilot_register_failure_total", Help: "Failed registrations."},
	{ID: taskpilot.MetricLogout, Name: "taskpilot_logout_total", Help: "Logout operations."},
	{ID: taskpilot.MetricCheckAuthSuccess, Name: "taskpilot_checkauth_success_total", Help: "Session rehydrations that ended authenticated."},
	{ID: taskpilot.MetricCheckAuthFailure, Name: "taskpilot_checkauth_failure_total", Help: "Session rehydrations rejected or errored."},
	{ID: taskpilot.MetricCheckAuthNoToken, Name: "taskpilot_checkauth_no_token_total", Help: "Session rehydrations with no persisted token."},
	{ID: taskpilot.MetricAuthRejectedInFlight, Name: "taskpilot_auth_rejected_in_flight_total", Help: "Auth operations rejected by the single-flight guard."},
	{ID: taskpilot.MetricTaskCreated, Name: "taskpilot_task_created_total", Help: "Created tasks."},
	{ID: taskpilot.MetricTaskUpdated, Name: "taskpilot_task_updated_total", Help: "Updated tasks."},
	{ID: taskpilot.MetricTaskDeleted, Name: "taskpilot_task_deleted_total", Help: "Deleted tasks."},
	{ID: taskpilot.MetricTaskListed, Name: "taskpilot_task_listed_total", Help: "Task list operations."},
	{ID: taskpilot.MetricChatMessageSent, Name: "taskpilot_chat_message_sent_total", Help: "Chat messages sent."},
	{ID: taskpilot.MetricAIAnalyzed, Name: "taskpilot_ai_analyzed_total", Help: "AI analysis requests."},
	{ID: taskpilot.MetricAPIFailure, Name: "taskpilot_api_failure_total", Help: "Failed task, chat, and AI requests."},
}

// HistogramDefs is an exported constant or variable used by the TaskPilot client.
var HistogramDefs = []HistogramDef{
	{ID: taskpilot.MetricRequestLatency, Name: "taskpilot_request_latency_seconds", Help: "Remote request latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the TaskPilot client.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the TaskPilot client.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
