package judge0

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/himanshu8github/Neetcode/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", APIKey: "key", APIHost: "judge0.test"}, zap.NewNop())
}

func TestSubmitBatch_WireFormat(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/submissions/batch" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("base64_encoded") != "true" {
			t.Error("expected base64_encoded=true")
		}
		if r.Header.Get("X-RapidAPI-Key") != "key" || r.Header.Get("X-RapidAPI-Host") != "judge0.test" {
			t.Error("missing RapidAPI headers")
		}

		var body batchRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
			return
		}
		if len(body.Submissions) != 2 || body.Submissions[1].LanguageID != 62 || body.Submissions[1].Stdin != "Mg==" {
			t.Errorf("unexpected submissions: %+v", body.Submissions)
		}
		_, _ = w.Write([]byte(`[{"token":"t1"},{"token":"t2"}]`))
	})

	tokens, err := client.SubmitBatch(context.Background(), []domain.ExecutionRequest{
		{SourceCode: "Y29kZQ==", LanguageID: 62, Stdin: "MQ==", ExpectedOutput: "MQ=="},
		{SourceCode: "Y29kZQ==", LanguageID: 62, Stdin: "Mg==", ExpectedOutput: "Mg=="},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(tokens, ",") != "t1,t2" {
		t.Errorf("unexpected tokens %v", tokens)
	}
}

func TestSubmitBatch_RejectedEntryHasEmptyToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"token":"t1"},{"language_id":["language with id 999 doesn't exist"]}]`))
	})

	tokens, err := client.SubmitBatch(context.Background(), make([]domain.ExecutionRequest, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 2 || tokens[1] != "" {
		t.Errorf("expected empty second token, got %v", tokens)
	}
}

func TestSubmitBatch_ServerErrorIsEngineUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "queue full", http.StatusServiceUnavailable)
	})

	_, err := client.SubmitBatch(context.Background(), make([]domain.ExecutionRequest, 1))
	if !errors.Is(err, domain.ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}
}

func TestFetchBatch_ParsesResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("tokens") != "t1,t2,t3" {
			t.Errorf("unexpected tokens query %q", q.Get("tokens"))
		}
		if !strings.Contains(q.Get("fields"), "status_id") {
			t.Errorf("fields must include status_id, got %q", q.Get("fields"))
		}
		_, _ = w.Write([]byte(`{"submissions":[
			{"token":"t1","status_id":3,"stdout":"Mwo=","time":"0.002","memory":3160},
			{"token":"t2","status":{"id":4,"description":"Wrong Answer"},"stderr":null,"time":0.5,"memory":null},
			{"token":"t3","status_id":1,"time":null}
		]}`))
	})

	results, err := client.FetchBatch(context.Background(), []string{"t1", "t2", "t3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].StatusID != 3 || results[0].Stdout != "Mwo=" || results[0].TimeSec != 0.002 || results[0].MemoryKB != 3160 {
		t.Errorf("unexpected first result %+v", results[0])
	}
	if results[1].StatusID != 4 || results[1].TimeSec != 0.5 || results[1].MemoryKB != 0 {
		t.Errorf("unexpected second result %+v", results[1])
	}
	if results[2].IsTerminal() {
		t.Error("status 1 must not be terminal")
	}
}

func TestFetchBatch_MalformedBodyIsEngineUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := client.FetchBatch(context.Background(), []string{"t1"})
	if !errors.Is(err, domain.ErrEngineUnavailable) {
		t.Fatalf("expected ErrEngineUnavailable, got %v", err)
	}
}

func TestClient_AuthTokenHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Auth-Token") != "self-hosted" {
			t.Errorf("missing X-Auth-Token header")
		}
		if r.Header.Get("X-RapidAPI-Key") != "" {
			t.Errorf("unexpected RapidAPI header")
		}
		_, _ = w.Write([]byte(`{"submissions":[]}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, AuthToken: "self-hosted"}, zap.NewNop())
	if _, err := client.FetchBatch(context.Background(), []string{"t"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
