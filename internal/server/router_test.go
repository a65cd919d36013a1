package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"address-api/internal/handler"
	"address-api/internal/models"
	"address-api/internal/repository"
	"address-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := repository.NewSQLiteRepository(context.Background(), filepath.Join(t.TempDir(), "addresses.db"))
	require.NoError(t, err)
	t.Cleanup(repo.Close)

	return NewRouter(
		handler.NewAddressHandler(service.NewAddressService(repo)),
		handler.NewHealthHandler(repo),
		zerolog.Nop(),
	)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func createAddress(t *testing.T, h http.Handler, name string, lat, lon float64) models.Address {
	t.Helper()
	w := do(t, h, http.MethodPost, "/addresses/", fmt.Sprintf(`{"name":%q,"latitude":%v,"longitude":%v}`, name, lat, lon))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var addr models.Address
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &addr))
	return addr
}

func listAddresses(t *testing.T, h http.Handler, target string) []models.Address {
	t.Helper()
	w := do(t, h, http.MethodGet, target, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var addresses []models.Address
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &addresses))
	return addresses
}

func TestRouter_AddressLifecycle(t *testing.T) {
	h := newTestServer(t)

	assert.Empty(t, listAddresses(t, h, "/addresses/"))

	a := createAddress(t, h, "A", 0, 0)
	b := createAddress(t, h, "B", 0, 1)
	assert.Equal(t, models.Address{ID: a.ID, Name: "A", Latitude: 0, Longitude: 0}, a)
	assert.Equal(t, []models.Address{a, b}, listAddresses(t, h, "/addresses/"))

	// duplicate name
	w := do(t, h, http.MethodPost, "/addresses/", `{"name":"A","latitude":45,"longitude":45}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"detail":"Address with this name already exists"}`, w.Body.String())

	// update
	w = do(t, h, http.MethodPut, fmt.Sprintf("/addresses/%d", b.ID), `{"name":"B2","latitude":10.5,"longitude":-20.25}`)
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Address
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, models.Address{ID: b.ID, Name: "B2", Latitude: 10.5, Longitude: -20.25}, updated)

	w = do(t, h, http.MethodGet, fmt.Sprintf("/addresses/%d", b.ID), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodPut, "/addresses/999", `{"name":"X","latitude":1,"longitude":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Address not found"}`, w.Body.String())

	// delete
	w = do(t, h, http.MethodDelete, fmt.Sprintf("/addresses/%d", a.ID), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Address deleted successfully"}`, w.Body.String())
	assert.Equal(t, []models.Address{updated}, listAddresses(t, h, "/addresses/"))

	w = do(t, h, http.MethodDelete, fmt.Sprintf("/addresses/%d", a.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_WithinDistance(t *testing.T) {
	h := newTestServer(t)

	assert.Empty(t, listAddresses(t, h, "/addresses/distance/?latitude=0&longitude=0&distance=100000"))
	assert.Empty(t, listAddresses(t, h, "/addresses/distance/?latitude=0&longitude=0&distance=-5"))

	a := createAddress(t, h, "A", 0, 0)
	b := createAddress(t, h, "B", 0, 1)
	createAddress(t, h, "Far", 35.681236, 139.767125)

	assert.Equal(t, []models.Address{a}, listAddresses(t, h, "/addresses/distance/?latitude=0&longitude=0&distance=0"))
	assert.Equal(t, []models.Address{a}, listAddresses(t, h, "/addresses/distance/?latitude=0&longitude=0&distance=50"))
	assert.Equal(t, []models.Address{a, b}, listAddresses(t, h, "/addresses/distance/?latitude=0&longitude=0&distance=150"))

	assert.Empty(t, listAddresses(t, h, "/addresses/distance/?latitude=0&longitude=0&distance=-5"))

	antipode := createAddress(t, h, "Antipode", -10, -160)
	assert.Contains(t, listAddresses(t, h, "/addresses/distance/?latitude=10&longitude=20&distance=20004"), antipode)
	assert.NotContains(t, listAddresses(t, h, "/addresses/distance/?latitude=10&longitude=20&distance=20000"), antipode)

	w := do(t, h, http.MethodGet, "/addresses/distance/?latitude=0&longitude=0", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, h, http.MethodGet, "/addresses/distance/?latitude=zero&longitude=0&distance=1", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRouter_ConcurrentCreatesSameName(t *testing.T) {
	h := newTestServer(t)

	const workers = 8
	codes := make([]int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = do(t, h, http.MethodPost, "/addresses/", `{"name":"Same","latitude":1,"longitude":1}`).Code
		}(i)
	}
	wg.Wait()

	counts := map[int]int{}
	for _, code := range codes {
		counts[code]++
	}
	assert.Equal(t, map[int]int{http.StatusOK: 1, http.StatusBadRequest: workers - 1}, counts)
}

func TestRouter_HealthAndDocs(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/swagger/doc.json", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/addresses/distance/")
}

func TestRouter_TrailingSlashRedirect(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodGet, "/addresses", "")
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "/addresses/", w.Header().Get("Location"))
}
