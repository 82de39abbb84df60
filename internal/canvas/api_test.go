package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListAssignments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Path != "/api/v1/courses/42/assignments" {
			t.Errorf("path = %q", r.URL.Path)
		}

		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		switch page {
		case "1":
			// A full page forces a second request.
			assignments := make([]map[string]any, perPage)
			for i := range assignments {
				assignments[i] = map[string]any{
					"id":   i + 1,
					"name": fmt.Sprintf("Lab report %d", i+1),
				}
			}
			json.NewEncoder(w).Encode(assignments)
		case "2":
			fmt.Fprint(w, `[{
				"id": 999,
				"name": "Final project",
				"html_url": "https://canvas.example.org/courses/42/assignments/999",
				"description": "Contact a.marker@bham.ac.uk with queries.",
				"needs_grading_count": 17,
				"due_at": "2022-12-16T12:00:00Z"
			}]`)
		default:
			t.Errorf("unexpected page %q", page)
		}
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, "token")
	assignments, err := client.ListAssignments(context.Background(), "42")
	if err != nil {
		t.Fatal(err)
	}

	if len(assignments) != perPage+1 {
		t.Fatalf("len(assignments) = %d, want %d", len(assignments), perPage+1)
	}
	last := assignments[perPage]
	if last.Name != "Final project" || last.NeedsGradingCount != 17 {
		t.Errorf("last assignment = %+v", last)
	}
	if last.DueAt == nil || last.DueAt.Day() != 16 {
		t.Errorf("DueAt = %v", last.DueAt)
	}
}

func TestListAssignmentsRequiresToken(t *testing.T) {
	client := NewAPIClient("https://canvas.example.org", "")
	if _, err := client.ListAssignments(context.Background(), "42"); err != ErrTokenMissing {
		t.Fatalf("err = %v, want ErrTokenMissing", err)
	}
}

func TestListAssignmentsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, "expired")
	if _, err := client.ListAssignments(context.Background(), "42"); err == nil {
		t.Fatal("expected error for 401 response")
	}
}
