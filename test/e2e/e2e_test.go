//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
)

const defaultBaseURL = "http://localhost:8080"

var (
	baseURL       string
	identityToken string
	sessionID     string
)

func TestMain(m *testing.M) {
	// Load .env if present (ignore error)
	_ = godotenv.Load("../../.env")

	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	os.Exit(m.Run())
}

// envelope mirrors the API response wrapper.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doJSON(t *testing.T, method, path string, body interface{}) (int, *envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if identityToken != "" {
		req.Header.Set("Authorization", "Bearer "+identityToken)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s %s: %v", method, path, err)
	}
	return resp.StatusCode, &env
}

func TestHealth(t *testing.T) {
	code, env := doJSON(t, http.MethodGet, "/health", nil)
	if code != http.StatusOK {
		t.Fatalf("health status = %d", code)
	}
	var data struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Status != "ok" {
		t.Fatalf("health payload = %s", env.Data)
	}
}

func TestSaveIdentity(t *testing.T) {
	code, env := doJSON(t, http.MethodPost, "/api/v1/identity", map[string]string{
		"name":  "E2E Student",
		"email": "E2E@Example.com",
	})
	if code != http.StatusOK {
		t.Fatalf("identity status = %d (%v)", code, env.Error)
	}

	var data struct {
		Token       string `json:"token"`
		PersonalKey string `json:"personal_key"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Token == "" {
		t.Fatal("no token issued")
	}
	if data.PersonalKey != "e2e@example.com" {
		t.Fatalf("personal key = %q, want lowercased email", data.PersonalKey)
	}
	identityToken = data.Token
}

func TestScheduleVisibility(t *testing.T) {
	code, env := doJSON(t, http.MethodGet, "/api/v1/schedule", nil)
	switch code {
	case http.StatusOK:
		var data struct {
			Entries []struct {
				Day       int    `json:"day"`
				SubjectID string `json:"subject_id"`
			} `json:"entries"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatal(err)
		}
		if len(data.Entries) == 0 {
			t.Fatal("published schedule has no entries")
		}
	case http.StatusNotFound:
		if env.Error == nil || env.Error.Code != "SCHEDULE_NOT_PUBLISHED" {
			t.Fatalf("unexpected error payload: %v", env.Error)
		}
	default:
		t.Fatalf("schedule status = %d", code)
	}
}

func TestTodayAndSessionFlow(t *testing.T) {
	if identityToken == "" {
		t.Skip("identity not established")
	}

	code, env := doJSON(t, http.MethodGet, "/api/v1/exams/today", nil)
	if code == http.StatusNotFound {
		t.Skip("no exam scheduled today")
	}
	if code != http.StatusOK {
		t.Fatalf("today status = %d (%v)", code, env.Error)
	}

	var today struct {
		SubjectID string `json:"subject_id"`
		Status    string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &today); err != nil {
		t.Fatal(err)
	}
	if today.Status != "ACTIVE" {
		t.Skipf("window not active (status %s)", today.Status)
	}

	// Open the session.
	code, env = doJSON(t, http.MethodPost, "/api/v1/sessions", nil)
	if code != http.StatusCreated && code != http.StatusOK {
		t.Fatalf("open status = %d (%v)", code, env.Error)
	}
	var opened struct {
		SessionID string `json:"session_id"`
		Paper     struct {
			Questions []struct {
				ID string `json:"id"`
			} `json:"questions"`
		} `json:"paper"`
	}
	if err := json.Unmarshal(env.Data, &opened); err != nil {
		t.Fatal(err)
	}
	if len(opened.Paper.Questions) == 0 {
		t.Fatal("opened session carries no questions")
	}
	sessionID = opened.SessionID

	// Opening again must resume the same session.
	code, env = doJSON(t, http.MethodPost, "/api/v1/sessions", nil)
	if code != http.StatusOK {
		t.Fatalf("reopen status = %d", code)
	}
	var reopened struct {
		SessionID string `json:"session_id"`
		Resumed   bool   `json:"resumed"`
	}
	if err := json.Unmarshal(env.Data, &reopened); err != nil {
		t.Fatal(err)
	}
	if !reopened.Resumed || reopened.SessionID != sessionID {
		t.Fatalf("reopen did not resume: %+v", reopened)
	}

	// Record one answer, then submit.
	qid := opened.Paper.Questions[0].ID
	code, env = doJSON(t, http.MethodPut, fmt.Sprintf("/api/v1/sessions/%s/answers", sessionID), map[string]interface{}{
		"question_id":  qid,
		"option_index": 0,
	})
	if code != http.StatusOK {
		t.Fatalf("answer status = %d (%v)", code, env.Error)
	}

	code, env = doJSON(t, http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/submit", sessionID), nil)
	if code != http.StatusOK {
		t.Fatalf("submit status = %d (%v)", code, env.Error)
	}
	var sub struct {
		Totals struct {
			Total int `json:"total"`
		} `json:"totals"`
	}
	if err := json.Unmarshal(env.Data, &sub); err != nil {
		t.Fatal(err)
	}
	if sub.Totals.Total != len(opened.Paper.Questions) {
		t.Fatalf("totals.total = %d, want %d", sub.Totals.Total, len(opened.Paper.Questions))
	}

	// History should surface the submission once the worker persists it.
	deadline := time.Now().Add(10 * time.Second)
	for {
		code, env = doJSON(t, http.MethodGet, "/api/v1/history", nil)
		if code != http.StatusOK {
			t.Fatalf("history status = %d", code)
		}
		var hist struct {
			Submissions []json.RawMessage `json:"submissions"`
		}
		if err := json.Unmarshal(env.Data, &hist); err != nil {
			t.Fatal(err)
		}
		if len(hist.Submissions) > 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("submission never appeared in history")
		}
		time.Sleep(500 * time.Millisecond)
	}
}
