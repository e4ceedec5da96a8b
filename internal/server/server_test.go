package server

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/akolanti/CSVAgent/internal/adapter/utils"
	"github.com/akolanti/CSVAgent/internal/analysis"
	"github.com/akolanti/CSVAgent/internal/analysis/sandbox/duckSandbox"
	"github.com/akolanti/CSVAgent/internal/api"
	"github.com/akolanti/CSVAgent/internal/config"
	"github.com/akolanti/CSVAgent/internal/data/store"
	"github.com/akolanti/CSVAgent/internal/handlers"
	"github.com/akolanti/CSVAgent/internal/middleware"
	"github.com/akolanti/CSVAgent/internal/web"
	"github.com/akolanti/CSVAgent/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type stubAgent struct {
	mu        sync.Mutex
	files     []string
	questions []string
	answer    string
}

func (s *stubAgent) Ask(ctx context.Context, filePath string, question string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = append(s.files, filePath)
	s.questions = append(s.questions, question)
	return s.answer, nil
}

func (s *stubAgent) Name() string { return "stub" }

type testApp struct {
	handler  http.Handler
	agent    *stubAgent
	recorder *store.InMemoryInteractionStore
}

func newTestApp(t *testing.T, opts middleware.Options) *testApp {
	t.Helper()
	app := &testApp{
		agent:    &stubAgent{answer: "There are **42** rows."},
		recorder: store.InitInMemoryInteractionStore(),
	}
	pool := worker.NewPool(worker.DefaultOptions())
	t.Cleanup(pool.Stop)
	sessions := store.InitInMemorySessionStore()
	svc := analysis.NewService(analysis.Deps{
		Agent:      app.agent,
		Recorder:   app.recorder,
		Sessions:   sessions,
		Executor:   duckSandbox.New(),
		Dispatcher: pool,
		ScratchDir: t.TempDir(),
	})
	renderer, err := web.NewRenderer()
	require.NoError(t, err)
	app.handler = Routes(handlers.NewHandler(svc, renderer), middleware.New(opts, svc))
	return app
}

func openOptions() middleware.Options {
	return middleware.Options{RatePerSecond: rate.Inf, Burst: 1}
}

func archiveBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var zbuf bytes.Buffer
	zw := zip.NewWriter(&zbuf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("archive", "sales_2024.zip")
	require.NoError(t, err)
	_, err = part.Write(zbuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func (a *testApp) do(req *http.Request, sessionId string) *httptest.ResponseRecorder {
	if sessionId != "" {
		req.Header.Set(config.SessionHeaderName, sessionId)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func TestAPI_UploadSelectAsk(t *testing.T) {
	app := newTestApp(t, openOptions())

	body, contentType := archiveBody(t, map[string]string{
		"sales.csv": "region,amount\nnorth,10\nsouth,32\n",
		"costs.csv": "item,cost\npaper,3\n",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/archives", body)
	req.Header.Set("Content-Type", contentType)
	rec := app.do(req, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var sess api.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.True(t, utils.IsUUID(sess.SessionId))
	assert.Equal(t, sess.SessionId, rec.Header().Get(config.SessionHeaderName))
	assert.Equal(t, []string{"costs.csv", "sales.csv"}, sess.AvailableFiles)
	assert.Equal(t, "sales_2024.zip", sess.ArchiveName)

	rec = app.do(httptest.NewRequest(http.MethodPut, "/api/selection", strings.NewReader(`{"file":"sales.csv"}`)), sess.SessionId)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(httptest.NewRequest(http.MethodPost, "/api/questions", strings.NewReader(`{"question":"total rows?"}`)), sess.SessionId)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var answer api.AnswerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &answer))
	assert.Equal(t, "There are **42** rows.", answer.Answer)
	assert.Contains(t, answer.AnswerHTML, "<strong>42</strong>")
	assert.Equal(t, "sales.csv", answer.SourceFile)
	assert.NotEmpty(t, answer.LogId)

	require.Len(t, app.agent.files, 1)
	assert.Equal(t, "sales.csv", filepath.Base(app.agent.files[0]))

	logs, err := app.recorder.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "sales.csv", logs[0].SourceFile)
	assert.Equal(t, "total rows?", logs[0].Question)
	assert.Equal(t, "There are **42** rows.", logs[0].Answer)

	rec = app.do(httptest.NewRequest(http.MethodGet, "/api/preview?rows=1", nil), sess.SessionId)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var preview api.PreviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &preview))
	assert.Equal(t, []string{"region", "amount"}, preview.Columns)
	assert.Len(t, preview.Rows, 1)
	assert.True(t, preview.Truncated)

	rec = app.do(httptest.NewRequest(http.MethodGet, "/api/interactions", nil), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list api.InteractionListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Interactions, 1)
}

func TestAPI_AskWithoutArchive(t *testing.T) {
	app := newTestApp(t, openOptions())
	rec := app.do(httptest.NewRequest(http.MethodPost, "/api/questions", strings.NewReader(`{"question":"total rows?"}`)), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, app.agent.questions)
	assert.Zero(t, app.recorder.Len())
}

func TestAPI_InvalidSessionIdIsReplaced(t *testing.T) {
	app := newTestApp(t, openOptions())
	rec := app.do(httptest.NewRequest(http.MethodGet, "/api/session", nil), "../../etc")

	require.Equal(t, http.StatusOK, rec.Code)
	var sess api.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.NotEqual(t, "../../etc", sess.SessionId)
	assert.True(t, utils.IsUUID(sess.SessionId))
}

func TestAPI_Auth(t *testing.T) {
	opts := openOptions()
	opts.AuthToken = "secret"
	app := newTestApp(t, opts)

	rec := app.do(httptest.NewRequest(http.MethodGet, "/api/session", nil), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var denied api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &denied))
	require.NotNil(t, denied.Error)
	assert.Equal(t, http.StatusUnauthorized, denied.Error.Code)
	assert.Empty(t, denied.SessionId)

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = app.do(req, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// the html page is never behind the bearer token
	rec = app.do(httptest.NewRequest(http.MethodGet, "/", nil), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_RateLimit(t *testing.T) {
	app := newTestApp(t, middleware.Options{RatePerSecond: rate.Limit(0.001), Burst: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, app.do(httptest.NewRequest(http.MethodGet, "/api/session", nil), "").Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestPages_SessionCookieFlow(t *testing.T) {
	app := newTestApp(t, openOptions())

	rec := app.do(httptest.NewRequest(http.MethodGet, "/", nil), "")
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	var cookie *http.Cookie
	for _, c := range cookies {
		if c.Name == config.SessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.NotContains(t, rec.Body.String(), `name="question"`)

	body, contentType := archiveBody(t, map[string]string{"readme.txt": "hello"})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	rec = app.do(req, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No .csv file found in the uploaded .zip.")

	body, contentType = archiveBody(t, map[string]string{"sales.csv": "a\n1\n"})
	req = httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	rec = app.do(req, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="question"`)

	form := url.Values{"question": {"total rows?"}}
	req = httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	rec = app.do(req, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<strong>42</strong>")
	assert.Equal(t, 1, app.recorder.Len())
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, openOptions())
	rec := app.do(httptest.NewRequest(http.MethodGet, "/healthz", nil), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
