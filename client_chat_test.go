package taskpilot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestSendChatMessageAnswer(t *testing.T) {
	client, done := buildTasksClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat/message" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var in chatMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if in.Message != "what's next?" {
			t.Errorf("message = %q", in.Message)
		}
		writeBody(w, ChatResponse{Type: ChatAnswer, Content: "Start with the report."})
	}))
	defer done()

	resp, err := client.SendChatMessage(context.Background(), "what's next?")
	if err != nil {
		t.Fatalf("SendChatMessage failed: %v", err)
	}
	if resp.Type != ChatAnswer || resp.Task != nil {
		t.Fatalf("unexpected response %+v", resp)
	}
	if got := client.MetricsSnapshot().Counters[MetricChatMessageSent]; got != 1 {
		t.Fatalf("chat counter = %d, want 1", got)
	}
}

func TestSendChatMessageCreatesTask(t *testing.T) {
	client, done := buildTasksClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, ChatResponse{
			Type:    ChatTaskCreated,
			Content: "Created a task for you.",
			Task:    &Task{ID: "t9", Title: "Buy milk", Status: StatusPending, Priority: PriorityLow},
		})
	}))
	defer done()

	resp, err := client.SendChatMessage(context.Background(), "remind me to buy milk")
	if err != nil {
		t.Fatalf("SendChatMessage failed: %v", err)
	}
	if resp.Type != ChatTaskCreated || resp.Task == nil || resp.Task.ID != "t9" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestSendChatMessageEmpty(t *testing.T) {
	client, done := buildTasksClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer done()

	if _, err := client.SendChatMessage(context.Background(), ""); !errors.Is(err, ErrTaskInvalid) {
		t.Fatalf("error = %v, want ErrTaskInvalid", err)
	}
}

func TestChatHistory(t *testing.T) {
	var gotQuery string
	client, done := buildTasksClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/history" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		writeBody(w, []ChatHistoryMessage{
			{ID: "m1", Message: "hello", IsUser: true, CreatedAt: time.Now()},
			{ID: "m2", Message: "hi there", IsUser: false, CreatedAt: time.Now()},
		})
	}))
	defer done()

	messages, err := client.ChatHistory(context.Background(), 10)
	if err != nil {
		t.Fatalf("ChatHistory failed: %v", err)
	}
	if len(messages) != 2 || !messages[0].IsUser || messages[1].IsUser {
		t.Fatalf("unexpected messages %+v", messages)
	}
	if gotQuery != "limit=10" {
		t.Fatalf("query = %q", gotQuery)
	}
}

func TestAnalyzeMessageTravelsAsQueryParam(t *testing.T) {
	client, done := buildTasksClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/ai/analyze" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("message"); got != "fix the login bug" {
			t.Errorf("message param = %q", got)
		}
		if r.ContentLength > 0 {
			t.Error("analyze must not carry a body")
		}
		writeBody(w, AIAnalysis{
			Title:             "Fix login bug",
			Summary:           "Investigate and fix the login failure.",
			SuggestedPriority: PriorityHigh,
			Reasoning:         "Auth failures block all users.",
			Confidence:        0.87,
		})
	}))
	defer done()

	analysis, err := client.AnalyzeMessage(context.Background(), "fix the login bug")
	if err != nil {
		t.Fatalf("AnalyzeMessage failed: %v", err)
	}
	if analysis.SuggestedPriority != PriorityHigh || analysis.Confidence != 0.87 {
		t.Fatalf("unexpected analysis %+v", analysis)
	}
	if got := client.MetricsSnapshot().Counters[MetricAIAnalyzed]; got != 1 {
		t.Fatalf("analyzed counter = %d, want 1", got)
	}
}
