package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hospital-records-server/internal/config"
	"hospital-records-server/internal/middleware"
	"hospital-records-server/internal/models"
	"hospital-records-server/internal/routes"
	"hospital-records-server/internal/seclog"
	"hospital-records-server/internal/stores/patientstore"
)

// fakeStore is an in-memory PatientStore used by handler tests. When err is
// set every operation fails with it.
type fakeStore struct {
	mu      sync.Mutex
	records map[string]models.PatientRecord
	order   []string
	err     error

	createCalls int
	updateCalls int
	deleteCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]models.PatientRecord)}
}

func (f *fakeStore) Create(_ context.Context, rec *models.PatientRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.err != nil {
		return "", f.err
	}
	id := uuid.New().String()
	rec.ID = id
	rec.CreatedAt = time.Now().UTC()
	rec.UpdatedAt = rec.CreatedAt
	f.records[id] = *rec
	f.order = append(f.order, id)
	return id, nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*models.PatientRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.records[id]
	if !ok {
		return nil, patientstore.ErrNotFound
	}
	return &rec, nil
}

func (f *fakeStore) List(_ context.Context, limit, skip int64) ([]models.PatientRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.PatientRecord
	// Newest first, matching the backing collection's sort order.
	for i := len(f.order) - 1; i >= 0; i-- {
		out = append(out, f.records[f.order[i]])
	}
	if skip >= int64(len(out)) {
		return nil, nil
	}
	out = out[skip:]
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.records)), nil
}

func (f *fakeStore) CountStroke(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, rec := range f.records {
		if rec.Stroke == 1 {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) Update(_ context.Context, id string, rec *models.PatientRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.err != nil {
		return f.err
	}
	existing, ok := f.records[id]
	if !ok {
		return patientstore.ErrNotFound
	}
	updated := *rec
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	f.records[id] = updated
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.err != nil {
		return f.err
	}
	if _, ok := f.records[id]; !ok {
		return patientstore.ErrNotFound
	}
	delete(f.records, id)
	for i, other := range f.order {
		if other == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) Search(_ context.Context, filter patientstore.SearchFilter) ([]models.PatientRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []models.PatientRecord
	for _, id := range f.order {
		rec := f.records[id]
		if filter.Gender != "" && rec.Gender != filter.Gender {
			continue
		}
		if filter.Stroke != nil && rec.Stroke != *filter.Stroke {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeStore) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// testApp wires a full router against a temporary user database, a fake
// patient store and log files under a temp dir.
type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	store  *fakeStore
	logDir string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Port:               "8080",
		Environment:        "development",
		SessionSecret:      "test-secret",
		SessionName:        "test_session",
		SessionIdleMinutes: 30,
	}

	logDir := t.TempDir()
	log, err := seclog.New(config.LogConfig{Dir: logDir, SecurityMaxSizeMB: 1, AppMaxSizeMB: 1, AuthMaxSizeMB: 1})
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })

	db, err := models.InitDB(models.DatabaseConfig{Path: filepath.Join(t.TempDir(), "auth.db")})
	require.NoError(t, err)

	store := newFakeStore()

	router := gin.New()
	router.Use(sessions.Sessions(cfg.SessionName, cookie.NewStore([]byte(cfg.SessionSecret))))
	router.Use(middleware.CSRF(log))
	router.LoadHTMLGlob("../../web/templates/*.html")
	routes.SetupRoutes(router, db, store, cfg, log)

	// Test-only shortcut that establishes an authenticated session without
	// going through the login form.
	router.GET("/__login", func(c *gin.Context) {
		sess := sessions.Default(c)
		sess.Set(middleware.SessionUserID, "user-test")
		sess.Set(middleware.SessionUsername, "doctor1")
		sess.Set(middleware.SessionRole, "doctor")
		sess.Set(middleware.SessionLastSeen, time.Now().Unix())
		require.NoError(t, sess.Save())
		c.Status(http.StatusOK)
	})

	return &testApp{router: router, db: db, store: store, logDir: logDir}
}

var csrfTokenPattern = regexp.MustCompile(`name="csrf_token" value="([0-9a-f]+)"`)

// browser carries session cookies across requests like a real client.
type browser struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, app *testApp) *browser {
	return &browser{t: t, router: app.router, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var body string
	if form != nil {
		body = form.Encode()
	}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, ck := range b.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		b.cookies[ck.Name] = ck
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, path, nil)
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	return b.do(http.MethodPost, path, form)
}

// csrfToken fetches a page carrying a form and extracts its embedded token.
func (b *browser) csrfToken(path string) string {
	b.t.Helper()
	w := b.get(path)
	require.Equal(b.t, http.StatusOK, w.Code)
	m := csrfTokenPattern.FindStringSubmatch(w.Body.String())
	require.Len(b.t, m, 2, "no CSRF token found on %s", path)
	return m[1]
}

// login establishes an authenticated session on the browser.
func (b *browser) login() {
	b.t.Helper()
	w := b.get("/__login")
	require.Equal(b.t, http.StatusOK, w.Code)
}

// validPatientValues returns a form submission that passes validation.
func validPatientValues(token string) url.Values {
	return url.Values{
		"csrf_token":        {token},
		"gender":            {"Male"},
		"age":               {"67"},
		"hypertension":      {"0"},
		"ever_married":      {"Yes"},
		"work_type":         {"Private"},
		"residence_type":    {"Urban"},
		"avg_glucose_level": {"228.69"},
		"bmi":               {"36.6"},
		"smoking_status":    {"Formerly smoked"},
		"stroke":            {"1"},
	}
}

// seedPatient inserts a record directly into the fake store.
func seedPatient(t *testing.T, store *fakeStore, gender models.Gender, age int, stroke models.BinaryFlag) string {
	t.Helper()
	id, err := store.Create(context.Background(), &models.PatientRecord{
		Gender:          gender,
		Age:             age,
		Hypertension:    0,
		EverMarried:     models.MarriedYes,
		WorkType:        models.WorkPrivate,
		ResidenceType:   models.ResidenceUrban,
		AvgGlucoseLevel: 100 + float64(age),
		BMI:             25,
		SmokingStatus:   models.SmokingNever,
		Stroke:          stroke,
	})
	require.NoError(t, err)
	return id
}
