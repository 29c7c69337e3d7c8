package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abelzeko/aquahealth/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(newTestEnv(t).services, RouterOptions{}))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestCreateAssessment(t *testing.T) {
	srv := newTestServer(t)

	body := `{"temperature": 29, "oxygen": 3, "salinity": 26, "foam": "Yes - Heavy", "dead_fish_count": 4, "feeding": "Refused"}`
	resp, err := http.Post(srv.URL+"/api/assessments", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var a entities.RiskAssessment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&a))
	assert.Equal(t, entities.PredictionAnomalous, a.Prediction)
	assert.Equal(t, entities.TierRed, a.ColorTier)
	assert.GreaterOrEqual(t, a.RiskScore, 0.0)
	assert.LessOrEqual(t, a.RiskScore, 100.0)
	assert.Equal(t, "High temperature; Low dissolved oxygen; Salinity out of range", a.Reason)
}

func TestCreateAssessmentValidation(t *testing.T) {
	srv := newTestServer(t)

	for _, body := range []string{
		`{"temperature": 50, "oxygen": 3, "salinity": 26}`,
		`{"temperature": 20, "oxygen": 6, "salinity": 30, "odor": "Lavender"}`,
		`{"temperature": 20, "oxygen": 6, "salinity": 30, "dead_fish_count": -1}`,
		`{"temperature": `,
	} {
		resp, err := http.Post(srv.URL+"/api/assessments", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestAssessmentGauge(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/assessments/gauge", "application/json", strings.NewReader(`{"temperature": 24, "oxygen": 6, "salinity": 30}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))

	svg, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(svg), `stroke="green"`)
	assert.Contains(t, string(svg), `stroke-dasharray="0, 100"`)
	assert.Contains(t, string(svg), ">0%</text>")
}

func TestPostsAPI(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/posts", "application/json",
		strings.NewReader(`{"message": "Thousands of jellyfish", "tag": "#JellyfishBloom", "lat": 43.5, "lon": 16.4}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	mw.WriteField("user", "marta")
	mw.WriteField("location", "Zadar")
	mw.WriteField("lat", "44.1194")
	mw.WriteField("lon", "15.2314")
	mw.WriteField("message", "Green scum")
	mw.WriteField("tag", "#AlgalBloom")
	fw, err := mw.CreateFormFile("image", "scum.png")
	require.NoError(t, err)
	fw.Write([]byte("\x89PNG\r\n\x1a\nfake"))
	require.NoError(t, mw.Close())

	resp, err = http.Post(srv.URL+"/api/posts", mw.FormDataContentType(), &form)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var posts []struct {
		User      string `json:"user"`
		Location  string `json:"location"`
		Tag       string `json:"tag"`
		ShowImage bool   `json:"show_image"`
		ImageURL  string `json:"image_url"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/posts", &posts))
	require.Len(t, posts, 2)
	assert.Equal(t, "marta", posts[0].User)
	assert.True(t, posts[0].ShowImage)
	assert.True(t, strings.HasPrefix(posts[0].ImageURL, "/images/marta_"))
	assert.Equal(t, entities.AnonymousUser, posts[1].User)
	assert.Equal(t, entities.UnknownLocation, posts[1].Location)
	assert.Empty(t, posts[1].ImageURL)

	img, err := http.Get(srv.URL + posts[0].ImageURL)
	require.NoError(t, err)
	defer img.Body.Close()
	assert.Equal(t, http.StatusOK, img.StatusCode)
	assert.Equal(t, "image/png", img.Header.Get("Content-Type"))

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/images/nobody.png", nil))
}

func TestCreatePostValidation(t *testing.T) {
	srv := newTestServer(t)

	for _, body := range []string{
		`{"message": "?", "tag": "#Unknown"}`,
		`{"message": "?", "tag": "#RedTide", "lat": -95}`,
		`not json`,
	} {
		resp, err := http.Post(srv.URL+"/api/posts", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestTagsAPI(t *testing.T) {
	srv := newTestServer(t)

	var tags []string
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/tags", &tags))
	assert.Len(t, tags, len(entities.Tags))
}

func TestDashboardAPI(t *testing.T) {
	srv := newTestServer(t)

	var summary entities.DashboardSummary
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/dashboard", &summary))
	assert.Equal(t, 3, summary.TotalEntries)
	assert.Equal(t, 2, summary.TotalAlerts)
	assert.Equal(t, 1, summary.CriticalAlerts)
	assert.Equal(t, 54.67, summary.AvgRiskScore)

	var entries []entities.LogbookEntry
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/logbook?status=Early+Warning", &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, 58.0, entries[0].RiskScore)

	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/logbook?status=All", &entries))
	assert.Len(t, entries, 3)

	var statuses []string
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/logbook/statuses", &statuses))
	assert.Equal(t, []string{"All", "Normal", "Early Warning", "Critical Alert"}, statuses)

	var series []entities.SeriesPoint
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/logbook/series/oxygen", &series))
	require.Len(t, series, 3)
	assert.Equal(t, 3.0, series[2].Value)

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/logbook/series/ph", nil))
}

func TestInsightsAPI(t *testing.T) {
	srv := newTestServer(t)

	var insights []entities.Insight
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/insights?location=Piran", &insights))
	require.Len(t, insights, 1)
	assert.Equal(t, "#FoamSlick", insights[0].Tag)

	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/insights?q=rainbow", &insights))
	assert.Empty(t, insights)

	var locations []string
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/insights/locations", &locations))
	assert.Equal(t, []string{"All", "Piran", "Split"}, locations)
}

func TestOperationalEndpoints(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/healthz", nil))

	// Generate a labelled sample first.
	getJSON(t, srv.URL+"/api/tags", nil)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `aquahealth_http_requests_total{method="GET",route="/api/tags",status="200"}`)
}
