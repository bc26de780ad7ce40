package chatclient

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestAskReturnsAnswerWithCitations(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/ask", func(w http.ResponseWriter, r *http.Request) {
		var req askRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
			writeJSON(t, w, http.StatusBadRequest, map[string]string{"error": "query required"})
			return
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"query":     req.Query,
			"thread_id": "th-1",
			"response":  "Chapter 3 covers it.",
			"citations": []map[string]any{
				{
					"id":       "CIT-001",
					"document": map[string]any{"doc_id": "d1", "name": "handbook.pdf"},
					"location": map[string]any{"page_label": "42", "page_physical": 44, "chapter": "3"},
					"chunk_id": "c-9",
					"source":   "vector",
				},
			},
		})
	})

	c := newTestClient(t, mux)
	seedSession(t, c, "a1", "r1", "user")

	answer, err := c.Ask(context.Background(), "where is it covered?", "")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if answer.ThreadID != "th-1" || answer.Response == "" {
		t.Fatalf("unexpected answer: %+v", answer)
	}
	if len(answer.Citations) != 1 {
		t.Fatalf("expected one citation, got %d", len(answer.Citations))
	}
	cit := answer.Citations[0]
	if cit.ID != "CIT-001" || cit.Document.Name != "handbook.pdf" || cit.Location.PagePhysical != 44 {
		t.Fatalf("unexpected citation: %+v", cit)
	}
}

func TestThreadsAndMessages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/threads", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"threads": []map[string]string{
				{"thread_id": "th-1", "title": "where is it covered?"},
				{"thread_id": "th-2", "title": "follow-up"},
			},
		})
	})
	mux.HandleFunc("/chat/messages/th-1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"thread_id": "th-1",
			"messages": []map[string]any{
				{"role": "user", "content": "where is it covered?"},
				{"role": "assistant", "content": "Chapter 3 covers it."},
			},
		})
	})

	c := newTestClient(t, mux)
	seedSession(t, c, "a1", "r1", "user")

	threads, err := c.Threads(context.Background())
	if err != nil {
		t.Fatalf("Threads failed: %v", err)
	}
	if len(threads) != 2 || threads[0].ThreadID != "th-1" {
		t.Fatalf("unexpected threads: %+v", threads)
	}

	messages, err := c.Messages(context.Background(), "th-1")
	if err != nil {
		t.Fatalf("Messages failed: %v", err)
	}
	if len(messages) != 2 || messages[1].Role != "assistant" {
		t.Fatalf("unexpected messages: %+v", messages)
	}
}

func TestDeleteThread(t *testing.T) {
	var deleted bool
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/threads/th-1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			writeJSON(t, w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		deleted = true
		writeJSON(t, w, http.StatusOK, map[string]string{"status": "deleted", "thread_id": "th-1"})
	})

	c := newTestClient(t, mux)
	seedSession(t, c, "a1", "r1", "user")

	if err := c.DeleteThread(context.Background(), "th-1"); err != nil {
		t.Fatalf("DeleteThread failed: %v", err)
	}
	if !deleted {
		t.Fatal("expected DELETE issued")
	}
}

func TestAskForbiddenPassesThroughServerBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat/ask", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusForbidden, map[string]string{"error": "thread access denied"})
	})

	c := newTestClient(t, mux)
	seedSession(t, c, "a1", "r1", "user")

	_, err := c.Ask(context.Background(), "q", "someone-elses-thread")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusForbidden || apiErr.Message != "thread access denied" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}
