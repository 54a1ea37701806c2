package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8081", "test-key", "test-model")
	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.BaseURL != "http://localhost:8081" {
		t.Errorf("NewClient() BaseURL = %v, want http://localhost:8081", client.BaseURL)
	}
	if client.APIKey != "test-key" {
		t.Errorf("NewClient() APIKey = %v, want test-key", client.APIKey)
	}
	if client.Model != "test-model" {
		t.Errorf("NewClient() Model = %v, want test-model", client.Model)
	}
	if client.client == nil {
		t.Error("NewClient() client should not be nil")
	}
}

func okResponse(content string) ChatResponse {
	return ChatResponse{
		ID:     "test-id",
		Object: "chat.completion",
		Choices: []ChatChoice{
			{
				Index: 0,
				Message: ChatChoiceMessage{
					Role:    "assistant",
					Content: content,
				},
				FinishReason: "stop",
			},
		},
	}
}

func TestClient_Complete(t *testing.T) {
	tests := []struct {
		name       string
		req        CompletionRequest
		serverResp func(w http.ResponseWriter, r *http.Request)
		wantReply  string
		wantErr    bool
	}{
		{
			name: "successful completion",
			req:  CompletionRequest{Prompt: "Hello"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/v1/chat/completions" {
					t.Errorf("expected /v1/chat/completions, got %s", r.URL.Path)
				}
				if !strings.Contains(r.Header.Get("Authorization"), "Bearer") {
					t.Error("missing Authorization header")
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(okResponse("Hi there!"))
			},
			wantReply: "Hi there!",
		},
		{
			name: "no choices returned",
			req:  CompletionRequest{Prompt: "Hello"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(ChatResponse{ID: "test-id", Choices: []ChatChoice{}})
			},
			wantErr: true,
		},
		{
			name: "server error",
			req:  CompletionRequest{Prompt: "Hello"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("internal server error"))
			},
			wantErr: true,
		},
		{
			name: "malformed body",
			req:  CompletionRequest{Prompt: "Hello"},
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewClient(server.URL, "test-key", "test-model")
			reply, err := client.Complete(context.Background(), tt.req)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Complete() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Complete() unexpected error: %v", err)
				return
			}

			if reply != tt.wantReply {
				t.Errorf("Complete() reply = %v, want %v", reply, tt.wantReply)
			}
		})
	}
}

func TestClient_Complete_SystemInstructionAndImages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw struct {
			Model       string            `json:"model"`
			Temperature float32           `json:"temperature"`
			TopP        float32           `json:"top_p"`
			Messages    []json.RawMessage `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		if raw.Model != "test-model" {
			t.Errorf("expected model test-model, got %s", raw.Model)
		}
		if raw.Temperature != defaultTemperature || raw.TopP != defaultTopP {
			t.Errorf("expected default sampling params, got temperature=%v top_p=%v", raw.Temperature, raw.TopP)
		}
		if len(raw.Messages) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(raw.Messages))
		}

		var system struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		}
		_ = json.Unmarshal(raw.Messages[0], &system)
		if system.Role != "system" || system.Content != "be careful" {
			t.Errorf("unexpected system message %+v", system)
		}

		var user struct {
			Role    string        `json:"role"`
			Content []ContentPart `json:"content"`
		}
		if err := json.Unmarshal(raw.Messages[1], &user); err != nil {
			t.Fatalf("decode user message: %v", err)
		}
		if len(user.Content) != 2 {
			t.Fatalf("expected text + image parts, got %d", len(user.Content))
		}
		if user.Content[0].Type != "text" || user.Content[0].Text != "look at this rash" {
			t.Errorf("unexpected text part %+v", user.Content[0])
		}
		if user.Content[1].ImageURL == nil || user.Content[1].ImageURL.URL != "data:image/png;base64,AQID" {
			t.Errorf("unexpected image part %+v", user.Content[1])
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(okResponse("Response"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "test-model")
	reply, err := client.Complete(context.Background(), CompletionRequest{
		SystemInstruction: "be careful",
		Prompt:            "look at this rash",
		Images:            []Image{{MIMEType: "image/png", Data: []byte{1, 2, 3}}},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if reply != "Response" {
		t.Errorf("Complete() reply = %v, want Response", reply)
	}
}

func TestDataURL_DefaultMIME(t *testing.T) {
	got := dataURL(Image{Data: []byte("hi")})
	if got != "data:image/jpeg;base64,aGk=" {
		t.Errorf("dataURL() = %q", got)
	}
}
