package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/esign-demos/embedded-signing/app/internal/config"
)

func testConfig(t *testing.T, apiBasePath string) *config.ServerEnvironment {
	t.Helper()

	docPath := filepath.Join(t.TempDir(), "agreement.pdf")
	if err := os.WriteFile(docPath, []byte("%PDF-1.4 demo agreement"), 0o600); err != nil {
		t.Fatalf("failed to write test document: %v", err)
	}

	return &config.ServerEnvironment{
		Environment:    "test",
		Host:           "localhost",
		Port:           3000,
		LogLevel:       "error",
		MaxRequestSize: 1 << 20,
		APIBasePath:    apiBasePath,
		AccessToken:    "env-token",
		AccountID:      "acct-env",
		SignerName:     "Jo Example",
		SignerEmail:    "jo@example.com",
		ClientUserID:   "123",
		APICallTimeout: 5 * time.Second,
		DocumentPath:   docPath,
	}
}

func newTestServer(t *testing.T, apiBasePath string) *Server {
	t.Helper()
	return NewServer(testConfig(t, apiBasePath), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// recordedPaths collects the request paths seen by the fake signing API.
type recordedPaths struct {
	mu    sync.Mutex
	paths []string
}

func (p *recordedPaths) add(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths = append(p.paths, path)
}

func (p *recordedPaths) list() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.paths...)
}

// fakeSigningAPI replays the two-call create-envelope / create-recipient-view
// sequence and records the paths it saw.
func fakeSigningAPI(t *testing.T, signingURL string) (*httptest.Server, *recordedPaths) {
	t.Helper()
	paths := &recordedPaths{}

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths.add(r.URL.Path)
		switch {
		case strings.HasSuffix(r.URL.Path, "/envelopes"):
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"envelopeId":"env-77","status":"sent"}`))
		case strings.HasSuffix(r.URL.Path, "/views/recipient"):
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"url":"` + signingURL + `"}`))
		default:
			t.Errorf("unexpected signing API path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(api.Close)

	return api, paths
}

func TestStartCeremonyRedirects(t *testing.T) {
	signingURL := "https://demo.docusign.net/signing/start?t=xyz"
	api, paths := fakeSigningAPI(t, signingURL)

	srv := newTestServer(t, api.URL)

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("POST", "/", nil))

	if rr.Code != http.StatusFound {
		t.Fatalf("got status %d, want %d (body: %s)", rr.Code, http.StatusFound, rr.Body.String())
	}
	if got := rr.Header().Get("Location"); got != signingURL {
		t.Errorf("Location = %q, want %q", got, signingURL)
	}

	// exactly two outbound calls, create-envelope first, envelope id passed
	// unmodified into the view request path
	calls := paths.list()
	if len(calls) != 2 {
		t.Fatalf("expected exactly 2 signing API calls, got %d: %v", len(calls), calls)
	}
	if calls[0] != "/v2.1/accounts/acct-env/envelopes" {
		t.Errorf("first call = %q", calls[0])
	}
	if calls[1] != "/v2.1/accounts/acct-env/envelopes/env-77/views/recipient" {
		t.Errorf("second call = %q", calls[1])
	}
}

func TestStartCeremonyQueryParameterFallback(t *testing.T) {
	api, paths := fakeSigningAPI(t, "https://demo.docusign.net/signing/start")

	cfg := testConfig(t, api.URL)
	cfg.AccountID = "" // not configured - must come from the query string
	srv := NewServer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("POST", "/?ACCOUNT_ID=acct-query", nil))

	if rr.Code != http.StatusFound {
		t.Fatalf("got status %d, want %d", rr.Code, http.StatusFound)
	}
	if calls := paths.list(); calls[0] != "/v2.1/accounts/acct-query/envelopes" {
		t.Errorf("first call = %q, query parameter account id not used", calls[0])
	}
}

func TestStartCeremonyEnvironmentWinsOverQuery(t *testing.T) {
	api, paths := fakeSigningAPI(t, "https://demo.docusign.net/signing/start")

	srv := newTestServer(t, api.URL) // AccountID=acct-env

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("POST", "/?ACCOUNT_ID=acct-query", nil))

	if rr.Code != http.StatusFound {
		t.Fatalf("got status %d, want %d", rr.Code, http.StatusFound)
	}
	if calls := paths.list(); calls[0] != "/v2.1/accounts/acct-env/envelopes" {
		t.Errorf("first call = %q, environment value must win over the query parameter", calls[0])
	}
}

func TestStartCeremonyAPIErrorPage(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errorCode":"INVALID_EMAIL_ADDRESS_FOR_RECIPIENT","message":"The email address for the recipient is invalid."}`))
	}))
	defer api.Close()

	srv := newTestServer(t, api.URL)

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("POST", "/", nil))

	if rr.Code == http.StatusFound || rr.Header().Get("Location") != "" {
		t.Fatal("API error must never produce a redirect")
	}

	body := rr.Body.String()
	if !strings.Contains(body, "400") {
		t.Errorf("error page does not contain the remote status code: %s", body)
	}
	if !strings.Contains(body, "The email address for the recipient is invalid.") {
		t.Errorf("error page does not contain the API error message verbatim: %s", body)
	}
	if !strings.Contains(body, "API problem") {
		t.Errorf("error page missing heading: %s", body)
	}
}

func TestStartCeremonyTransportFailure(t *testing.T) {
	// unparseable error body - treated as an opaque server failure
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream broke</html>"))
	}))
	defer api.Close()

	srv := newTestServer(t, api.URL)

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("POST", "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("got status %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if strings.Contains(rr.Body.String(), "upstream broke") {
		t.Error("opaque failures must not leak the upstream body")
	}
}

func TestStartCeremonyMissingDocument(t *testing.T) {
	api, paths := fakeSigningAPI(t, "https://unused")

	cfg := testConfig(t, api.URL)
	cfg.DocumentPath = filepath.Join(t.TempDir(), "missing.pdf")
	srv := NewServer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("POST", "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("got status %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if calls := paths.list(); len(calls) != 0 {
		t.Errorf("no signing API call should be made when the document cannot be read, got %v", calls)
	}
}

func TestLandingPage(t *testing.T) {
	srv := newTestServer(t, "http://unused.invalid")

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", rr.Code, http.StatusOK)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `method="post"`) || !strings.Contains(body, "Sign the document!") {
		t.Errorf("landing page missing the signing form: %s", body)
	}
}

func TestReturnPage(t *testing.T) {
	srv := newTestServer(t, "http://unused.invalid")

	tests := []struct {
		name     string
		target   string
		contains []string
	}{
		{"signing complete", "/dsreturn?event=signing_complete", []string{"signing_complete"}},
		{"decline", "/dsreturn?event=decline", []string{"decline"}},
		{"treasures passthrough", "/dsreturn?event=cancel&treasures=kept", []string{"cancel", "kept"}},
		{"no event", "/dsreturn", []string{"signing ceremony"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			srv.Router().ServeHTTP(rr, httptest.NewRequest("GET", tt.target, nil))

			if rr.Code != http.StatusOK {
				t.Fatalf("got status %d, want 200", rr.Code)
			}
			for _, want := range tt.contains {
				if !strings.Contains(rr.Body.String(), want) {
					t.Errorf("return page missing %q: %s", want, rr.Body.String())
				}
			}
		})
	}
}

func TestReturnPageEscapesEvent(t *testing.T) {
	srv := newTestServer(t, "http://unused.invalid")

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("GET", "/dsreturn?event=%3Cscript%3Ealert(1)%3C/script%3E", nil))

	if strings.Contains(rr.Body.String(), "<script>") {
		t.Error("event parameter rendered without HTML escaping")
	}
}

func TestHealthAndVersion(t *testing.T) {
	srv := newTestServer(t, "http://unused.invalid")

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "OK" {
		t.Errorf("health: got %d %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("GET", "/version", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("version: got status %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "signing-server") {
		t.Errorf("version response missing service name: %s", rr.Body.String())
	}
}

func TestStartCeremonyWithEnvelopeTemplate(t *testing.T) {
	api, paths := fakeSigningAPI(t, "https://demo.docusign.net/signing/start")

	template := `{
	  "emailSubject": "placeholder",
	  "status": "created",
	  "documents": [{"documentBase64":"JVBERi0xLjQ=","name":"Bundled","fileExtension":"pdf","documentId":"1"}],
	  "recipients": {"signers": [{
	    "name":"{signer_name}","email":"{signer_email}",
	    "routingOrder":"1","recipientId":"1","clientUserId":"1000",
	    "tabs":{"signHereTabs":[{"documentId":"1","pageNumber":"1","recipientId":"1","tabLabel":"sig","xPosition":"200","yPosition":"160"}]}
	  }]}
	}`
	templatePath := filepath.Join(t.TempDir(), "envelope.json")
	if err := os.WriteFile(templatePath, []byte(template), 0o600); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}

	cfg := testConfig(t, api.URL)
	cfg.EnvelopeTemplatePath = templatePath
	srv := NewServer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("POST", "/", nil))

	if rr.Code != http.StatusFound {
		t.Fatalf("got status %d, want %d (body: %s)", rr.Code, http.StatusFound, rr.Body.String())
	}
	if calls := paths.list(); len(calls) != 2 {
		t.Fatalf("expected 2 signing API calls, got %d", len(calls))
	}
}
