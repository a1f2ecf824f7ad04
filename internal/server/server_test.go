package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medbridge-ca/medbridge/internal/pathway"
	"github.com/medbridge-ca/medbridge/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubStore struct {
	users    map[string]*store.User
	profiles map[uuid.UUID]*store.DoctorProfile
	postings map[uuid.UUID]*store.JobPosting

	profileOrder []uuid.UUID
	postingOrder []uuid.UUID
}

func newStubStore() *stubStore {
	return &stubStore{
		users:    map[string]*store.User{},
		profiles: map[uuid.UUID]*store.DoctorProfile{},
		postings: map[uuid.UUID]*store.JobPosting{},
	}
}

func (s *stubStore) UpsertUserByEmail(email, externalID, role string) (*store.User, error) {
	if user, ok := s.users[email]; ok {
		user.ExternalID = externalID
		return user, nil
	}
	user := &store.User{ID: uuid.New(), Email: email, ExternalID: externalID, Role: role}
	s.users[email] = user
	return user, nil
}

func (s *stubStore) SaveDoctorProfile(profile *store.DoctorProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if _, ok := s.profiles[profile.ID]; !ok {
		s.profileOrder = append(s.profileOrder, profile.ID)
	}
	s.profiles[profile.ID] = profile
	return nil
}

func (s *stubStore) GetDoctorProfile(id uuid.UUID) (*store.DoctorProfile, error) {
	profile, ok := s.profiles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return profile, nil
}

func (s *stubStore) ListDoctorProfiles() ([]store.DoctorProfile, error) {
	out := make([]store.DoctorProfile, 0, len(s.profileOrder))
	for _, id := range s.profileOrder {
		out = append(out, *s.profiles[id])
	}
	return out, nil
}

func (s *stubStore) CreateJobPosting(posting *store.JobPosting) error {
	if posting.ID == uuid.Nil {
		posting.ID = uuid.New()
	}
	if _, ok := s.postings[posting.ID]; !ok {
		s.postingOrder = append(s.postingOrder, posting.ID)
	}
	s.postings[posting.ID] = posting
	return nil
}

func (s *stubStore) GetJobPosting(id uuid.UUID) (*store.JobPosting, error) {
	posting, ok := s.postings[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return posting, nil
}

func (s *stubStore) ListJobPostings() ([]store.JobPosting, error) {
	out := make([]store.JobPosting, 0, len(s.postingOrder))
	for _, id := range s.postingOrder {
		out = append(out, *s.postings[id])
	}
	return out, nil
}

type stubAnalyzer struct {
	applicant *pathway.Applicant
	err       error
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ string) (*pathway.Applicant, error) {
	return s.applicant, s.err
}

func newTestServer(st Persistence) *Server {
	return New(Options{Store: st})
}

func doRequest(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, newTestServer(newStubStore()), http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestIdentityWebhook(t *testing.T) {
	t.Run("user created upserts", func(t *testing.T) {
		st := newStubStore()
		srv := newTestServer(st)

		payload := map[string]any{
			"type": "user.created",
			"data": map[string]any{
				"id": "ext-123",
				"email_addresses": []map[string]any{
					{"email_address": "doc@example.com"},
				},
			},
		}

		rec := doRequest(t, srv, http.MethodPost, "/webhook/identity", payload)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		user, ok := st.users["doc@example.com"]
		if !ok {
			t.Fatalf("expected user to be stored")
		}
		if user.ExternalID != "ext-123" {
			t.Fatalf("expected external id ext-123, got %q", user.ExternalID)
		}
		if user.Role != "DOCTOR" {
			t.Fatalf("expected default role DOCTOR, got %q", user.Role)
		}
	})

	t.Run("other events acknowledged without storing", func(t *testing.T) {
		st := newStubStore()
		srv := newTestServer(st)

		payload := map[string]any{"type": "session.created", "data": map[string]any{}}
		rec := doRequest(t, srv, http.MethodPost, "/webhook/identity", payload)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"received":true`) {
			t.Fatalf("expected received ack, got %s", rec.Body.String())
		}
		if len(st.users) != 0 {
			t.Fatalf("expected no users stored")
		}
	})

	t.Run("missing email rejected", func(t *testing.T) {
		payload := map[string]any{"type": "user.created", "data": map[string]any{"id": "x"}}
		rec := doRequest(t, newTestServer(newStubStore()), http.MethodPost, "/webhook/identity", payload)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("secret enforced when configured", func(t *testing.T) {
		srv := New(Options{Store: newStubStore(), WebhookSecret: "s3cret"})

		req := httptest.NewRequest(http.MethodPost, "/webhook/identity", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 without secret, got %d", rec.Code)
		}

		req = httptest.NewRequest(http.MethodPost, "/webhook/identity", strings.NewReader(`{"type":"other"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Webhook-Secret", "s3cret")
		rec = httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 with secret, got %d", rec.Code)
		}
	})
}

func TestEvaluateEndpoint(t *testing.T) {
	srv := newTestServer(newStubStore())

	t.Run("qualified applicant", func(t *testing.T) {
		applicant := pathway.Applicant{
			Country:          "Ireland",
			DegreeVerified:   true,
			InternshipMonths: 12,
			HasMCCQE1:        true,
			Role:             pathway.RoleGeneralPractitioner,
			CFPCCertified:    true,
			ProvinceLicence:  true,
			CMPA:             true,
		}

		rec := doRequest(t, srv, http.MethodPost, "/api/v1/evaluate", applicant)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var report pathway.Report
		if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
			t.Fatalf("unmarshal report: %v", err)
		}
		if len(report.GapActions) != 0 {
			t.Fatalf("expected no gap actions, got %v", report.GapActions)
		}
	})

	t.Run("unsupported country is 422", func(t *testing.T) {
		applicant := pathway.Applicant{Country: "Brazil", Role: pathway.RoleGeneralPractitioner}
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/evaluate", applicant)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
	})

	t.Run("unknown role is 422", func(t *testing.T) {
		applicant := pathway.Applicant{Country: "India", Role: "surgeon"}
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/evaluate", applicant)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
	})

	t.Run("malformed payload is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", strings.NewReader("not json"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAnalyzeDisabled(t *testing.T) {
	rec := doRequest(t, newTestServer(newStubStore()), http.MethodPost, "/api/v1/analyze", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when analyzer is nil, got %d", rec.Code)
	}
}

func TestAnalyzeRequiresResumeFile(t *testing.T) {
	srv := New(Options{
		Store:    newStubStore(),
		Analyzer: &stubAnalyzer{applicant: &pathway.Applicant{Country: "India"}},
	})

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/analyze", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a resume upload, got %d", rec.Code)
	}
}

func TestJobPostings(t *testing.T) {
	st := newStubStore()
	srv := newTestServer(st)

	posting := map[string]any{
		"hospitalId":   uuid.New().String(),
		"title":        "Family Physician",
		"requirements": "MD, LMCC, CFPC",
		"location":     "Surrey, BC",
	}

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/jobs", posting)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created store.JobPosting
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal created posting: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatalf("expected generated posting id")
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/jobs", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var listed []store.JobPosting
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("unmarshal postings: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected one posting, got %d", len(listed))
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/jobs/"+created.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/jobs/"+uuid.New().String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown posting, got %d", rec.Code)
	}

	t.Run("missing title rejected", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/jobs", map[string]any{"location": "Surrey"})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestSaveDoctorProfileForm(t *testing.T) {
	st := newStubStore()
	srv := newTestServer(st)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	form.WriteField("firstName", "Amira")
	form.WriteField("lastName", "Hassan")
	form.WriteField("countryOfOrigin", "Egypt")
	form.WriteField("credentials", "MD, General Surgery")
	form.WriteField("yearsExperience", "9")
	form.WriteField("location", "Cairo")
	form.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile/doctor", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var saved store.DoctorProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
		t.Fatalf("unmarshal profile: %v", err)
	}
	if saved.ID == uuid.Nil {
		t.Fatalf("expected generated profile id")
	}
	if saved.TranslatedCredentials != "MD, General Surgery" {
		t.Fatalf("expected translated credentials to default to credentials, got %q", saved.TranslatedCredentials)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/profile/doctor/"+saved.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching saved profile, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/profile/doctor/"+uuid.New().String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown profile, got %d", rec.Code)
	}
}

func TestMatchEndpoints(t *testing.T) {
	st := newStubStore()
	srv := newTestServer(st)

	profile := &store.DoctorProfile{
		FirstName:             "Amira",
		LastName:              "Hassan",
		TranslatedCredentials: "md, general surgery, acls",
	}
	if err := st.SaveDoctorProfile(profile); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	match := &store.JobPosting{Title: "Surgeon", Requirements: "MD, General Surgery"}
	noMatch := &store.JobPosting{Title: "Pediatrician", Requirements: "Pediatrics"}
	for _, posting := range []*store.JobPosting{match, noMatch} {
		if err := st.CreateJobPosting(posting); err != nil {
			t.Fatalf("seed posting: %v", err)
		}
	}

	t.Run("doctor dashboard", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/match/doctor/"+profile.ID.String(), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var matches []map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &matches); err != nil {
			t.Fatalf("unmarshal matches: %v", err)
		}
		if len(matches) != 1 {
			t.Fatalf("expected zero-score posting filtered, got %d matches", len(matches))
		}
		if matches[0]["matchScore"].(float64) != 100 {
			t.Fatalf("expected score 100, got %v", matches[0]["matchScore"])
		}
	})

	t.Run("hospital dashboard", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/match/job/"+match.ID.String(), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var matches []map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &matches); err != nil {
			t.Fatalf("unmarshal matches: %v", err)
		}
		if len(matches) != 1 {
			t.Fatalf("expected one doctor match, got %d", len(matches))
		}
		doctor, ok := matches[0]["doctorProfile"].(map[string]any)
		if !ok {
			t.Fatalf("expected doctor profile in match, got %v", matches[0])
		}
		if doctor["fullName"] != "Amira Hassan" {
			t.Fatalf("expected full name in match, got %v", doctor["fullName"])
		}
	})

	t.Run("unknown ids are 404", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/v1/match/doctor/"+uuid.New().String(), nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		rec = doRequest(t, srv, http.MethodGet, "/api/v1/match/job/"+uuid.New().String(), nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
