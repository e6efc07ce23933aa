package matcher

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(zap.NewNop(), "secret-token")
	client.APIURL = server.URL + "/api"
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestRequestsCarryBearerTokenAndRequestID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		if r.Header.Get(requestIDHeader) == "" {
			t.Errorf("expected request id header")
		}
		if r.URL.Path != "/api/job-description/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, []map[string]any{
			{"id": 1, "title": "Go Developer", "skills": []string{"Go", "Kafka"}, "status": "pending"},
		})
	})

	jobs, err := client.ListJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(jobs) != 1 || jobs[0].Title != "Go Developer" || jobs[0].Status != JobStatusPending {
		t.Fatalf("unexpected jobs: %+v", jobs)
	}
}

func TestRequestWithoutTokenHasNoAuthorization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no authorization header, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(nil, "  ")
	client.APIURL = server.URL
	if client.HasToken() {
		t.Fatalf("blank token must not be used")
	}

	if err := client.DeleteJob(context.Background(), 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTopMatchesAcceptsProfileAndConsultantShapes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/match-result/top-3-matches/7" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, []map[string]any{
			{
				"profile":          map[string]any{"id": 1, "name": "Ada", "skills": []string{"Go"}, "availability": "available", "experience": 5},
				"similarity_score": 0.914,
				"rank":             1,
			},
			{
				"consultant":       map[string]any{"id": "2", "name": "Linus", "skills": []string{"C"}, "availability": "busy"},
				"similarity_score": "0.5",
				"rank":             "2",
			},
		})
	})

	matches, err := client.TopMatches(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}

	if got := matches[0].Candidate(); got == nil || got.Name != "Ada" || got.Experience != 5 {
		t.Fatalf("unexpected first candidate: %+v", got)
	}
	if matches[0].Percent() != 91 {
		t.Fatalf("expected 91%%, got %d", matches[0].Percent())
	}

	second := matches[1]
	if second.Candidate() == nil || second.Candidate().ID != 2 || second.Candidate().Availability != Busy {
		t.Fatalf("unexpected second candidate: %+v", second.Candidate())
	}
	if second.Rank != 2 || second.Percent() != 50 {
		t.Fatalf("unexpected weakly typed fields: rank=%d percent=%d", second.Rank, second.Percent())
	}
}

func TestTopMatchesNullMeansEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "null")
	})

	matches, err := client.TopMatches(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(matches))
	}
}

func TestWorkflowStatusForJob(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/workflow-status/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, []map[string]any{
			{"id": 1, "job_description_id": 3, "steps": map[string]any{"jd_parsed": true}},
			{
				"id":                 2,
				"job_description_id": "4",
				"jd_parsed":          true,
				"profiles_compared":  true,
				"profiles_ranked":    false,
				"notification_sent":  false,
				"custom_review":      true,
				"updated_at":         "2024-01-01",
			},
		})
	})

	status, err := client.WorkflowStatusForJob(context.Background(), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status == nil || status.ID != 2 {
		t.Fatalf("unexpected status: %+v", status)
	}

	steps := status.OrderedSteps()
	names := make([]string, 0, len(steps))
	for _, step := range steps {
		names = append(names, step.Name)
	}
	expected := []string{StepJDParsed, StepProfilesCompared, StepProfilesRanked, StepNotificationSent, "custom_review"}
	if strings.Join(names, ",") != strings.Join(expected, ",") {
		t.Fatalf("unexpected step order: %v", names)
	}
	if !steps[1].Done || steps[2].Done {
		t.Fatalf("unexpected step states: %+v", steps)
	}
	if steps[0].Label != "Jd parsed" {
		t.Fatalf("unexpected label: %q", steps[0].Label)
	}
	if _, ok := status.Extra["updated_at"]; !ok {
		t.Fatalf("non-boolean extra fields must be kept aside")
	}

	missing, err := client.WorkflowStatusForJob(context.Background(), 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected no status for unknown job, got %+v", missing)
	}
}

func TestCreateConsultantDuplicateEmail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, map[string]any{
			"detail": "(1062, \"Duplicate entry 'ada@example.com' for key 'email'\")",
		})
	})

	_, err := client.CreateConsultant(context.Background(), &ConsultantInput{Name: "Ada", Email: "ada@example.com"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email error, got %v", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected api error to be preserved, got %v", err)
	}
}

func TestUpdateConsultantNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/consultant-profile/5" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		writeJSON(t, w, http.StatusNotFound, map[string]any{"detail": "Consultant not found"})
	})

	err := client.UpdateConsultant(context.Background(), 5, &ConsultantInput{Name: "Ada"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("404 must not be reported as duplicate email")
	}
	if DetailOr(err, "fallback") != "Consultant not found" {
		t.Fatalf("unexpected detail: %q", DetailOr(err, "fallback"))
	}
}

func TestDetailOr(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		expect string
	}{
		{name: "string detail", body: `{"detail":"boom"}`, expect: "boom"},
		{name: "validation detail", body: `{"detail":[{"msg":"field required"},{"msg":"value is not a valid email"}]}`, expect: "field required; value is not a valid email"},
		{name: "message", body: `{"message":"nope"}`, expect: "nope"},
		{name: "no body", body: ``, expect: "fallback"},
		{name: "html", body: `<html>bad gateway</html>`, expect: "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &APIError{StatusCode: http.StatusBadRequest, Status: "400 Bad Request", Detail: parseDetail([]byte(tt.body))}
			if got := DetailOr(err, "fallback"); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}

	if got := DetailOr(errors.New("dial tcp: refused"), "fallback"); got != "fallback" {
		t.Fatalf("expected fallback for transport errors, got %q", got)
	}
}

func TestLoginSendsFormEncodedCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/user/token" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != formContentType {
			t.Errorf("unexpected content type: %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("username") != "ada@example.com" || r.PostForm.Get("password") != "pw" {
			t.Errorf("unexpected form: %v", r.PostForm)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"access_token": "abc", "token_type": "bearer"})
	})

	token, err := client.Login(context.Background(), "ada@example.com", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.AccessToken != "abc" {
		t.Fatalf("unexpected token: %+v", token)
	}
}

func TestUploadConsultantsSendsMultipartFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "ada.pdf")
	second := filepath.Join(dir, "linus.pdf")
	for _, path := range []string{first, second} {
		if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o600); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/consultant-profile/upload-pdfs/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		files := r.MultipartForm.File[uploadField]
		if len(files) != 2 || files[0].Filename != "ada.pdf" || files[1].Filename != "linus.pdf" {
			t.Errorf("unexpected files: %+v", files)
		}
		writeJSON(t, w, http.StatusOK, []map[string]any{{"id": 1, "name": "Ada"}, {"id": 2, "name": "Linus"}})
	})

	created, err := client.UploadConsultants(context.Background(), []string{first, second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(created))
	}
}

func TestUpdateAvailabilityUsesQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/consultant-profile/3/availability" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("availability"); got != "busy" {
			t.Errorf("unexpected availability: %q", got)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"id": 3, "availability": "busy"})
	})

	consultant, err := client.UpdateAvailability(context.Background(), 3, Busy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if consultant.Availability != Busy {
		t.Fatalf("unexpected consultant: %+v", consultant)
	}
}

func TestFailedResponseIsLogged(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(zap.New(core), "token")
	client.APIURL = server.URL

	if _, err := client.ListConsultants(context.Background()); err == nil {
		t.Fatalf("expected error")
	}

	errorsLogged := observed.FilterMessage("api response error").All()
	if len(errorsLogged) != 1 {
		t.Fatalf("expected one error entry, got %d", len(errorsLogged))
	}
	if status := errorsLogged[0].ContextMap()["status"]; status != int64(http.StatusBadGateway) {
		t.Fatalf("unexpected status field: %v", status)
	}
}

func TestParseAvailability(t *testing.T) {
	got, err := ParseAvailability(" Busy ")
	if err != nil || got != Busy {
		t.Fatalf("expected busy, got %q (%v)", got, err)
	}

	if _, err := ParseAvailability("on-leave"); err == nil {
		t.Fatalf("expected error for unknown availability")
	}
}

func TestEntitiesAcceptStringNumbers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/job-description/12":
			writeJSON(t, w, http.StatusOK, map[string]any{"id": "12", "title": "Go Developer", "skills": []string{"Go"}})
		case "/api/consultant-profile/":
			writeJSON(t, w, http.StatusOK, []map[string]any{
				{"id": "7", "name": "Ada", "experience": "5", "skills": []string{"Go"}, "availability": "busy"},
				{"id": 8, "name": "Grace", "experience": nil, "skills": nil},
			})
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	job, err := client.GetJob(context.Background(), 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ID != 12 || job.Title != "Go Developer" {
		t.Fatalf("unexpected job: %+v", job)
	}

	consultants, err := client.ListConsultants(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(consultants) != 2 {
		t.Fatalf("expected 2 consultants, got %d", len(consultants))
	}
	if consultants[0].ID != 7 || consultants[0].Experience != 5 || consultants[0].Availability != Busy {
		t.Fatalf("unexpected first consultant: %+v", consultants[0])
	}
	if consultants[1].ID != 8 || consultants[1].Experience != 0 {
		t.Fatalf("unexpected second consultant: %+v", consultants[1])
	}
}

func TestMalformedResponseIsAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{not json"))
	})

	if _, err := client.GetConsultant(context.Background(), 1); err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("expected decode error, got %v", err)
	}
}
