package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"

	"finderqr/internal/config"
	"finderqr/internal/contact"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:                   "development",
		ServerAddr:            ":0",
		BaseURL:               "http://localhost:3000",
		ViewsDir:              "../../views",
		StaticDir:             "../../static",
		SessionSecret:         "test-secret-that-is-long-enough-for-production",
		SessionIdleTimeout:    time.Minute,
		RateLimitMax:          1000,
		KeystrokeRateLimitMax: 10000,
		MetricsEnabled:        true,
		SiteTitle:             "Lost & Found QR",
		Form:                  config.DefaultFormConfig(),
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New(testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	srv.RegisterRoutes()
	return srv
}

// client replays cookies across requests, the way a browser keeps its
// encrypted session cookie.
type client struct {
	t       *testing.T
	srv     *Server
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, srv *Server) *client {
	return &client{t: t, srv: srv, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, form url.Values, headers map[string]string) (*http.Response, string) {
	c.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, _ := http.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	resp, err := c.srv.App.Test(req)
	if err != nil {
		c.t.Fatalf("%s %s failed: %v", method, path, err)
	}
	for _, ck := range resp.Cookies() {
		c.cookies[ck.Name] = ck
	}
	data, _ := io.ReadAll(resp.Body)
	return resp, string(data)
}

func (c *client) field(name, value string) (*http.Response, string) {
	return c.do("POST", "/form/"+name, url.Values{name: {value}}, map[string]string{"HX-Request": "true"})
}

func TestProbes(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, body := c.do("GET", path, nil, nil)
		if resp.StatusCode != 200 {
			t.Errorf("%s: expected 200, got %d: %s", path, resp.StatusCode, body)
		}
	}
}

func TestIndexRendersForm(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	resp, body := c.do("GET", "/", nil, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	for _, want := range []string{`name="name"`, `name="phone"`, `maxlength="10"`, "Generate QR Code", "blessings and a reward"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
	if strings.Contains(body, "/qr.png") {
		t.Error("index shows a QR code before generation")
	}
	// app.js falls back to this text when the share request itself fails.
	if !strings.Contains(body, `data-unsupported="Sharing not supported on this device."`) {
		t.Error("index missing the unsupported-sharing message")
	}
}

// TestKeystrokeSessionFlow types a full form one field at a time through the
// encrypted session cookie, then generates and checks the reset.
func TestKeystrokeSessionFlow(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	values := []struct{ field, value string }{
		{"name", "Asha"},
		{"email", "a@b.com"},
		{"phone", "9876543210"},
		{"address", "12 Oak St"},
		{"item", "Wallet"},
		{"message", "Please call."},
	}
	for _, v := range values {
		resp, body := c.field(v.field, v.value)
		if resp.StatusCode != fiber.StatusNoContent {
			t.Fatalf("field %s: expected 204, got %d: %s", v.field, resp.StatusCode, body)
		}
	}

	// Rejected keystrokes re-render the previous value.
	resp, body := c.field("name", "Asha9")
	if resp.StatusCode != 200 {
		t.Fatalf("rejected name: expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `value="Asha"`) {
		t.Errorf("rejected name did not restore previous value: %s", body)
	}

	resp, body = c.field("phone", "98765432101")
	if resp.StatusCode != 200 || !strings.Contains(body, `value="9876543210"`) {
		t.Errorf("rejected phone: status %d body %s", resp.StatusCode, body)
	}

	resp, body = c.do("POST", "/generate", url.Values{}, map[string]string{"Accept": "application/json"})
	if resp.StatusCode != 200 {
		t.Fatalf("generate: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var out struct {
		Status string `json:"status"`
		Data   struct {
			Payload string `json:"payload"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("decode generate response: %v", err)
	}

	want, _ := contact.Record{
		Name: "Asha", Email: "a@b.com", Phone: "9876543210",
		Address: "12 Oak St", Item: "Wallet", Message: "Please call.",
	}.Link()
	if out.Data.Payload != want {
		t.Errorf("payload = %q, want %q", out.Data.Payload, want)
	}

	// Fields reset, QR stays.
	resp, body = c.do("GET", "/", nil, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("index: expected 200, got %d", resp.StatusCode)
	}
	if strings.Contains(body, `value="Asha"`) {
		t.Error("name was not reset after generation")
	}
	if !strings.Contains(body, "/qr.png") {
		t.Error("QR code not shown after generation")
	}

	resp, body = c.do("GET", "/qr.png", nil, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("qr.png: expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("qr.png content type = %q", ct)
	}
	if !strings.HasPrefix(body, "\x89PNG") {
		t.Error("qr.png body is not a PNG")
	}

	resp, body = c.do("GET", "/print", nil, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("print: expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "data:image/png;base64,") || !strings.Contains(body, "window.print()") {
		t.Errorf("print page incomplete: %s", body)
	}
}

// TestTypingKeepsGenerateWithinRateLimit types a realistic form one
// character at a time under the default limits, then generates.
func TestTypingKeepsGenerateWithinRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitMax = 100
	cfg.KeystrokeRateLimitMax = 1200
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	srv.RegisterRoutes()
	c := newClient(t, srv)

	values := []struct{ field, value string }{
		{"name", "Asha Ramakrishnan"},
		{"email", "asha.ramakrishnan@example.com"},
		{"phone", "9876543210"},
		{"address", "12 Oak Street Bangalore"},
		{"item", "Brown leather wallet"},
	}
	typed := 0
	for _, v := range values {
		for i := 1; i <= len(v.value); i++ {
			resp, body := c.field(v.field, v.value[:i])
			if resp.StatusCode != fiber.StatusNoContent {
				t.Fatalf("field %s after %d keystrokes: expected 204, got %d: %s", v.field, typed, resp.StatusCode, body)
			}
			typed++
		}
	}
	if typed <= cfg.RateLimitMax {
		t.Fatalf("typed only %d characters, want more than %d", typed, cfg.RateLimitMax)
	}

	resp, body := c.do("POST", "/generate", url.Values{}, map[string]string{"HX-Request": "true"})
	if resp.StatusCode != 200 {
		t.Fatalf("generate after %d keystrokes: expected 200, got %d: %s", typed, resp.StatusCode, body)
	}
	if !strings.Contains(body, "/qr.png") {
		t.Errorf("generate did not show a QR code: %s", body)
	}
}

// TestFieldUpdatesOnlyTouchTheirField alternates updates between fields and
// checks that none of them undoes another.
func TestFieldUpdatesOnlyTouchTheirField(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	steps := []struct{ field, value string }{
		{"email", "a"},
		{"name", "A"},
		{"email", "a@"},
		{"name", "As"},
		{"phone", "98"},
		{"email", "a@b.com"},
		{"name", "Asha"},
	}
	for _, s := range steps {
		if resp, body := c.field(s.field, s.value); resp.StatusCode != fiber.StatusNoContent {
			t.Fatalf("field %s=%q: expected 204, got %d: %s", s.field, s.value, resp.StatusCode, body)
		}
	}

	// A rejected keystroke re-renders only its own field's stored value.
	resp, body := c.field("phone", "98x")
	if resp.StatusCode != 200 || !strings.Contains(body, `value="98"`) {
		t.Errorf("rejected phone: status %d body %s", resp.StatusCode, body)
	}

	_, body = c.do("GET", "/", nil, nil)
	for _, want := range []string{`value="Asha"`, `value="a@b.com"`, `value="98"`, "blessings and a reward"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q after interleaved updates", want)
		}
	}
}

func TestNewRedisStorageUnreachable(t *testing.T) {
	store, err := newRedisStorage("redis://127.0.0.1:1/0")
	if err == nil {
		_ = store.Close()
		t.Fatal("expected an error for an unreachable redis")
	}
}

func TestGenerateMissingFields(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	form := url.Values{"name": {"Asha"}, "email": {"a@b.com"}, "phone": {""}, "address": {"12 Oak St"}, "item": {"Wallet"}}
	resp, body := c.do("POST", "/generate", form, map[string]string{"Accept": "application/json"})
	if resp.StatusCode != 422 {
		t.Fatalf("expected 422, got %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "All fields are required!") {
		t.Errorf("body = %s", body)
	}

	resp, _ = c.do("GET", "/qr.png", nil, nil)
	if resp.StatusCode != 404 {
		t.Errorf("qr.png without payload: expected 404, got %d", resp.StatusCode)
	}

	// The HTMX form shows the inline error and keeps the entered values.
	resp, body = c.do("POST", "/generate", url.Values{}, map[string]string{"HX-Request": "true"})
	if resp.StatusCode != 200 {
		t.Fatalf("htmx generate: expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "All fields are required!") || !strings.Contains(body, `value="Asha"`) {
		t.Errorf("htmx body = %s", body)
	}
}

func TestPlainFormPostRedirects(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	form := url.Values{"name": {"Asha"}, "email": {"a@b.com"}, "phone": {"9876543210"}, "address": {"12 Oak St"}, "item": {"Wallet"}}
	resp, _ := c.do("POST", "/generate", form, map[string]string{"Accept": "text/html"})
	if resp.StatusCode != 303 {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}

func TestShareFlow(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	resp, _ := c.do("POST", "/share", url.Values{"files": {"true"}}, nil)
	if resp.StatusCode != 404 {
		t.Errorf("share without payload: expected 404, got %d", resp.StatusCode)
	}

	form := url.Values{"name": {"Asha"}, "email": {"a@b.com"}, "phone": {"9876543210"}, "address": {"12 Oak St"}, "item": {"Wallet"}}
	if resp, body := c.do("POST", "/generate", form, map[string]string{"Accept": "application/json"}); resp.StatusCode != 200 {
		t.Fatalf("generate: %d %s", resp.StatusCode, body)
	}

	type shareBody struct {
		Status string `json:"status"`
		Error  string `json:"error"`
		Data   struct {
			Method   string `json:"method"`
			Title    string `json:"title"`
			URL      string `json:"url"`
			FileURL  string `json:"file_url"`
			FileName string `json:"file_name"`
		} `json:"data"`
	}

	tests := []struct {
		name       string
		caps       url.Values
		wantStatus int
		wantMethod string
	}{
		{"files supported", url.Values{"files": {"true"}, "text": {"true"}}, 200, "file"},
		{"text only", url.Values{"files": {"false"}, "text": {"true"}}, 200, "link"},
		{"unsupported", url.Values{}, 422, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := c.do("POST", "/share", tt.caps, nil)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, resp.StatusCode, body)
			}
			var out shareBody
			if err := json.Unmarshal([]byte(body), &out); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if tt.wantStatus != 200 {
				if out.Error != "Sharing not supported on this device." {
					t.Errorf("error = %q", out.Error)
				}
				return
			}
			if out.Data.Method != tt.wantMethod {
				t.Errorf("method = %q, want %q", out.Data.Method, tt.wantMethod)
			}
			if out.Data.Title != "Lost Item QR Code" {
				t.Errorf("title = %q", out.Data.Title)
			}
			if !strings.HasPrefix(out.Data.URL, "https://wa.me/9876543210?text=") {
				t.Errorf("url = %q", out.Data.URL)
			}
			if tt.wantMethod != "file" {
				return
			}
			if out.Data.FileName != "qr-code.png" || out.Data.FileURL == "" {
				t.Fatalf("file = %q at %q", out.Data.FileName, out.Data.FileURL)
			}
			// The browser downloads the shared file from file_url.
			resp, body = c.do("GET", out.Data.FileURL, nil, nil)
			if resp.StatusCode != 200 || !strings.HasPrefix(body, "\x89PNG") {
				t.Errorf("file_url: status %d, png %v", resp.StatusCode, strings.HasPrefix(body, "\x89PNG"))
			}
			if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "qr-code.png") {
				t.Errorf("file_url Content-Disposition = %q", cd)
			}
		})
	}

	resp, _ = c.do("POST", "/share/result", url.Values{"method": {"file"}, "outcome": {"cancelled"}, "error": {"AbortError"}}, nil)
	if resp.StatusCode != 204 {
		t.Errorf("share result: expected 204, got %d", resp.StatusCode)
	}
	resp, _ = c.do("POST", "/share/result", url.Values{"outcome": {"boom"}}, nil)
	if resp.StatusCode != 400 {
		t.Errorf("invalid share result: expected 400, got %d", resp.StatusCode)
	}
}

func TestUnknownField(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	resp, _ := c.do("POST", "/form/zip", url.Values{"zip": {"123"}}, nil)
	if resp.StatusCode != 404 {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	c.do("POST", "/generate", url.Values{}, map[string]string{"Accept": "application/json"})
	resp, body := c.do("GET", "/metrics", nil, nil)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "finderqr_generations_total") {
		t.Error("metrics missing generation counter")
	}
}

func TestBuildTLSConfig(t *testing.T) {
	cfg := testConfig()
	tc, err := buildTLSConfig(cfg)
	if err != nil {
		t.Fatalf("buildTLSConfig() error = %v", err)
	}
	if tc.ClientCAs != nil {
		t.Error("client CAs set without CA file")
	}

	cfg.TLSCAFile = "/nonexistent/ca.pem"
	if _, err := buildTLSConfig(cfg); err == nil {
		t.Error("expected error for missing CA file")
	}
}
