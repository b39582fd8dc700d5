package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Bakar31/ai-task-manager/internal/app/commands"
)

func TestChatReturnsToolCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected authorization header: %q", got)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req["tool_choice"] != "auto" {
			t.Errorf("expected tool_choice auto, got %v", req["tool_choice"])
		}
		if tools, ok := req["tools"].([]any); !ok || len(tools) != 5 {
			t.Errorf("expected 5 tools in the request, got %v", req["tools"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"choices": [{
				"message": {
					"role": "assistant",
					"content": "",
					"tool_calls": [{
						"id": "call_1",
						"type": "function",
						"function": {"name": "add_task", "arguments": "{\"title\":\"Buy groceries\"}"}
					}]
				}
			}]
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "test-model", server.URL)
	msg, err := client.Chat(context.Background(),
		[]Message{{Role: "user", Content: "add buy groceries"}},
		Tools(commands.DefaultContracts()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(msg.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(msg.ToolCalls))
	}
	call := msg.ToolCalls[0]
	if call.Function.Name != "add_task" {
		t.Errorf("unexpected tool: %s", call.Function.Name)
	}

	args, err := call.Args()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if args["title"] != "Buy groceries" {
		t.Errorf("unexpected arguments: %v", args)
	}
}

func TestChatPlainReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"You have no tasks."}}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "", server.URL)
	msg, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "anything due?"}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Content != "You have no tasks." || len(msg.ToolCalls) != 0 {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestChatAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key","type":"auth_error"}}`))
	}))
	defer server.Close()

	client := NewClient("bad-key", "", server.URL)
	_, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestToolCallArgsInvalidJSON(t *testing.T) {
	call := ToolCall{Function: FunctionCall{Name: "add_task", Arguments: "{broken"}}
	if _, err := call.Args(); err == nil {
		t.Fatal("expected an error for invalid JSON arguments")
	}
}
