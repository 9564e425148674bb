package ginserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayfinder/internal/app/session"
	"stayfinder/internal/infra/api"
	"stayfinder/internal/infra/config"
	"stayfinder/internal/infra/identity"
	"stayfinder/internal/infra/obs"
	"stayfinder/internal/infra/storage/memory"
)

var jwtSecret = []byte("test-secret")

// upstream fakes the remote listing source and booking endpoint together.
func upstream(t *testing.T, bookingStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/listings/listing-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id": "listing-1", "title": "Seaside loft", "pricePerNight": 100,
		})
	})
	mux.HandleFunc("/api/listings", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"listings":   []map[string]any{{"id": "listing-1", "pricePerNight": 100}},
			"totalCount": 1,
		})
	})
	mux.HandleFunc("/api/bookings/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(bookingStatus)
		if bookingStatus == http.StatusCreated {
			json.NewEncoder(w).Encode(map[string]any{"id": "bk-1"})
		}
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestRouter(t *testing.T, bookingStatus int) http.Handler {
	t.Helper()
	remote := upstream(t, bookingStatus)

	svc := session.NewService(
		memory.NewSessionStore(),
		&api.ListingClient{Client: remote.Client(), BaseURL: remote.URL},
		&api.BookingClient{Client: remote.Client(), BaseURL: remote.URL},
		identity.JWTResolver{Secret: jwtSecret},
		nil,
	)
	svc.Now = func() time.Time {
		return time.Date(2025, time.March, 7, 10, 0, 0, 0, time.UTC)
	}

	cfg := config.Config{Env: "test", HTTPAddr: ":0"}
	server := NewServer(cfg, obs.Middleware{}, obs.HealthHandlers{}, Handlers{
		Listing: ListingHandler{Listings: &api.ListingClient{Client: remote.Client(), BaseURL: remote.URL}},
		Session: SessionHandler{Service: svc},
	})
	return server.Handler
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func guestToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "guest-42",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(jwtSecret)
	require.NoError(t, err)
	return signed
}

func openSession(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions", map[string]any{"listing_id": "listing-1"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(t, rec)["id"].(string)
}

func TestBookingFlowEndToEnd(t *testing.T) {
	router := newTestRouter(t, http.StatusCreated)
	id := openSession(t, router)
	base := "/api/v1/sessions/" + id

	rec := doJSON(t, router, http.MethodPut, base+"/guests", map[string]any{"guests": 2}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, base+"/calendar/clicks", map[string]any{"day": 1}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mar 1, 2025 - Select end date", decode(t, rec)["selection"])

	rec = doJSON(t, router, http.MethodPost, base+"/calendar/clicks", map[string]any{"day": 4}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, base+"/quote", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	quote := decode(t, rec)
	assert.Equal(t, float64(3), quote["nights"])
	assert.Equal(t, true, quote["bookable"])
	assert.Equal(t, "3 nights for 2 guests", quote["summary"])
	assert.Equal(t, "$600", quote["total"].(map[string]any)["display"])

	rec = doJSON(t, router, http.MethodPost, base+"/draft", nil, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPut, base+"/payment", map[string]any{"fields": map[string]string{
		"cardNumber":     "4111111111111111",
		"expiryDate":     "1126",
		"cvv":            "123",
		"cardholderName": "John Doe",
		"email":          "john@example.com",
	}}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, base+"/submit", nil, map[string]string{
		"Authorization": "Bearer " + guestToken(t),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode(t, rec)
	assert.Equal(t, "BOOKED", view["status"])
	confirmation := view["confirmation"].(map[string]any)
	assert.Equal(t, "bk-1", confirmation["reference"])
	assert.Equal(t, "$600", confirmation["total"])
}

func TestDraftBeforeDatesIsUserFacingFailure(t *testing.T) {
	router := newTestRouter(t, http.StatusCreated)
	id := openSession(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+id+"/draft", nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "select check-in and check-out dates")
}

func TestSubmitWithoutCredential(t *testing.T) {
	router := newTestRouter(t, http.StatusCreated)
	id := openSession(t, router)
	base := "/api/v1/sessions/" + id
	doJSON(t, router, http.MethodPost, base+"/calendar/clicks", map[string]any{"day": 1}, nil)
	doJSON(t, router, http.MethodPost, base+"/calendar/clicks", map[string]any{"day": 4}, nil)
	doJSON(t, router, http.MethodPost, base+"/draft", nil, nil)
	doJSON(t, router, http.MethodPut, base+"/payment", map[string]any{"fields": map[string]string{
		"cardNumber":     "4111111111111111",
		"expiryDate":     "1126",
		"cvv":            "123",
		"cardholderName": "John Doe",
		"email":          "john@example.com",
	}}, nil)

	rec := doJSON(t, router, http.MethodPost, base+"/submit", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitValidationReasonSurfaces(t *testing.T) {
	router := newTestRouter(t, http.StatusCreated)
	id := openSession(t, router)
	base := "/api/v1/sessions/" + id
	doJSON(t, router, http.MethodPost, base+"/calendar/clicks", map[string]any{"day": 1}, nil)
	doJSON(t, router, http.MethodPost, base+"/calendar/clicks", map[string]any{"day": 4}, nil)
	doJSON(t, router, http.MethodPost, base+"/draft", nil, nil)

	rec := doJSON(t, router, http.MethodPost, base+"/submit", nil, map[string]string{
		"Authorization": "Bearer " + guestToken(t),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Please enter a valid 16-digit card number", decode(t, rec)["error"])
}

func TestSubmitUpstreamFailureKeepsSessionRetryable(t *testing.T) {
	router := newTestRouter(t, http.StatusInternalServerError)
	id := openSession(t, router)
	base := "/api/v1/sessions/" + id
	doJSON(t, router, http.MethodPost, base+"/calendar/clicks", map[string]any{"day": 1}, nil)
	doJSON(t, router, http.MethodPost, base+"/calendar/clicks", map[string]any{"day": 4}, nil)
	doJSON(t, router, http.MethodPost, base+"/draft", nil, nil)
	doJSON(t, router, http.MethodPut, base+"/payment", map[string]any{"fields": map[string]string{
		"cardNumber":     "4111111111111111",
		"expiryDate":     "1126",
		"cvv":            "123",
		"cardholderName": "John Doe",
		"email":          "john@example.com",
	}}, nil)

	rec := doJSON(t, router, http.MethodPost, base+"/submit", nil, map[string]string{
		"Authorization": "Bearer " + guestToken(t),
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Failed to process booking. Please try again.", decode(t, rec)["error"])

	rec = doJSON(t, router, http.MethodGet, base, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode(t, rec)
	assert.Equal(t, "FAILED", view["status"])
	assert.NotNil(t, view["draft"], "draft preserved for retry")
}

func TestCalendarGridEndpoint(t *testing.T) {
	router := newTestRouter(t, http.StatusCreated)
	id := openSession(t, router)
	base := "/api/v1/sessions/" + id
	doJSON(t, router, http.MethodPost, base+"/calendar/clicks", map[string]any{"day": 5}, nil)
	doJSON(t, router, http.MethodPost, base+"/calendar/clicks", map[string]any{"day": 10}, nil)

	rec := doJSON(t, router, http.MethodGet, base+"/calendar", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	grid := decode(t, rec)
	assert.Equal(t, float64(2025), grid["year"])
	days := grid["days"].([]any)
	require.Len(t, days, 31)
	day7 := days[6].(map[string]any)
	assert.Equal(t, true, day7["in_range"])
	assert.Equal(t, true, day7["today"])
}

// Session reads must not share live state with concurrent mutations; the
// race detector fails this test if the store leaks its own copy.
func TestConcurrentReadAndClick(t *testing.T) {
	router := newTestRouter(t, http.StatusCreated)
	id := openSession(t, router)
	base := "/api/v1/sessions/" + id

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for day := 1; day <= 28; day++ {
			doJSON(t, router, http.MethodPost, base+"/calendar/clicks", map[string]any{"day": day}, nil)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 28; i++ {
			rec := doJSON(t, router, http.MethodGet, base, nil, nil)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	}()
	wg.Wait()
}

func TestUnknownSessionIs404(t *testing.T) {
	router := newTestRouter(t, http.StatusCreated)
	rec := doJSON(t, router, http.MethodGet, "/api/v1/sessions/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogProxy(t *testing.T) {
	router := newTestRouter(t, http.StatusCreated)
	rec := doJSON(t, router, http.MethodGet, "/api/v1/listings?guests=2", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode(t, rec)
	assert.Equal(t, float64(1), page["totalCount"])
	assert.Equal(t, false, page["hasMore"])
}
