package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-records-server/internal/models"
	"hospital-records-server/internal/stores/patientstore"
)

func TestPatientRoutesRequireLogin(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)

	w := b.get("/patient/view")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login", w.Header().Get("Location"))
}

func TestAddPatientStoresValidRecord(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)
	b.login()

	token := b.csrfToken("/patient/add")
	w := b.post("/patient/add", validPatientValues(token))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/patient/view", w.Header().Get("Location"))

	require.Len(t, app.store.records, 1)
	for _, rec := range app.store.records {
		assert.Equal(t, models.GenderMale, rec.Gender)
		assert.Equal(t, 67, rec.Age)
		assert.Equal(t, models.SmokingFormerly, rec.SmokingStatus)
		assert.Equal(t, models.BinaryFlag(1), rec.Stroke)
	}

	w = b.get("/patient/view")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Formerly smoked")
}

func TestAddPatientRejectsInvalidEnum(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)
	b.login()

	token := b.csrfToken("/patient/add")
	form := validPatientValues(token)
	form.Set("gender", "Alien")

	w := b.post("/patient/add", form)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "must be one of")
	assert.Zero(t, app.store.createCalls)
}

func TestAddPatientRejectsOutOfRangeAge(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)
	b.login()

	token := b.csrfToken("/patient/add")
	form := validPatientValues(token)
	form.Set("age", "121")

	w := b.post("/patient/add", form)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "must be between 0 and 120")
	assert.Zero(t, app.store.createCalls)
}

func TestEditPatient(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)
	b.login()

	id := seedPatient(t, app.store, models.GenderFemale, 49, 0)

	w := b.get("/patient/edit/" + id)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="49"`)

	token := b.csrfToken("/patient/edit/" + id)
	form := validPatientValues(token)
	form.Set("gender", "Female")
	form.Set("age", "50")

	w = b.post("/patient/edit/"+id, form)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/patient/view", w.Header().Get("Location"))

	rec := app.store.records[id]
	assert.Equal(t, 50, rec.Age)
	assert.Equal(t, models.GenderFemale, rec.Gender)
}

func TestEditMissingPatientRedirects(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)
	b.login()

	w := b.get("/patient/edit/no-such-id")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/patient/view", w.Header().Get("Location"))
}

func TestDeleteRequiresCSRF(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)
	b.login()

	id := seedPatient(t, app.store, models.GenderMale, 67, 1)

	w := b.post("/patient/delete/"+id, url.Values{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, app.store.deleteCalls)
	assert.Len(t, app.store.records, 1)
}

func TestDeletePatient(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)
	b.login()

	id := seedPatient(t, app.store, models.GenderMale, 67, 1)

	token := b.csrfToken("/patient/view")
	w := b.post("/patient/delete/"+id, url.Values{"csrf_token": {token}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/patient/view", w.Header().Get("Location"))
	assert.Empty(t, app.store.records)
}

func TestViewPagination(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)
	b.login()

	for i := 0; i < 25; i++ {
		seedPatient(t, app.store, models.GenderMale, 30+i, 0)
	}

	w := b.get("/patient/view?page=2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Page 2 of 3")

	// Out-of-range page numbers fall back to the first page.
	w = b.get("/patient/view?page=0")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Page 1 of 3")
}

func TestSearchFilters(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)
	b.login()

	match := seedPatient(t, app.store, models.GenderMale, 67, 1)
	wrongGender := seedPatient(t, app.store, models.GenderFemale, 61, 1)
	wrongStroke := seedPatient(t, app.store, models.GenderMale, 80, 0)

	w := b.get("/patient/search?gender=Male&stroke=1")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, match)
	assert.NotContains(t, body, wrongGender)
	assert.NotContains(t, body, wrongStroke)
}

func TestSearchIgnoresMalformedStroke(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)
	b.login()

	withStroke := seedPatient(t, app.store, models.GenderMale, 67, 1)
	noStroke := seedPatient(t, app.store, models.GenderMale, 80, 0)

	w := b.get("/patient/search?gender=Male&stroke=banana")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, withStroke)
	assert.Contains(t, body, noStroke)
}

func TestSearchByID(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)
	b.login()

	id := seedPatient(t, app.store, models.GenderMale, 67, 1)

	token := b.csrfToken("/dashboard")
	w := b.post("/patient/search-by-id", url.Values{"csrf_token": {token}, "patient_id": {id}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id)

	token = b.csrfToken("/dashboard")
	w = b.post("/patient/search-by-id", url.Values{"csrf_token": {token}, "patient_id": {"no-such-id"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Patient not found with ID: no-such-id")
}

func TestDashboardStats(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)
	b.login()

	seedPatient(t, app.store, models.GenderMale, 67, 1)
	seedPatient(t, app.store, models.GenderFemale, 61, 0)
	seedPatient(t, app.store, models.GenderMale, 80, 0)
	seedPatient(t, app.store, models.GenderFemale, 49, 0)

	w := b.get("/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Total Patients")
	assert.Contains(t, body, "25%")
}

func TestStoreUnavailableShowsFriendlyError(t *testing.T) {
	app := newTestApp(t)
	b := newBrowser(t, app)
	b.login()

	app.store.setErr(patientstore.ErrUnavailable)

	w := b.get("/patient/view")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	// The dashboard still renders, with zeroed stats and the flash shown.
	w = b.get("/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "currently unavailable")
}
