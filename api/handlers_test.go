package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nearby-search-system/models"
	"nearby-search-system/search"
	"nearby-search-system/store"
)

// memStore is an in-memory store.Store used to exercise the handlers.
type memStore struct {
	docs map[string]map[string]interface{}
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string]map[string]interface{})}
}

func (m *memStore) Put(ctx context.Context, id string, fields map[string]interface{}) error {
	m.docs[id] = fields
	return nil
}

func (m *memStore) Get(ctx context.Context, id string) (map[string]interface{}, error) {
	fields, ok := m.docs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return fields, nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	delete(m.docs, id)
	return nil
}

func (m *memStore) QueryRange(ctx context.Context, field, start, end string) ([]search.Document, error) {
	var docs []search.Document
	for id, fields := range m.docs {
		v, ok := models.FieldAt(fields, field)
		if !ok {
			continue
		}
		s, _ := v.(string)
		if s >= start && s <= end {
			docs = append(docs, search.Document{ID: id, Fields: fields})
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		a, _ := models.FieldAt(docs[i].Fields, field)
		b, _ := models.FieldAt(docs[j].Fields, field)
		as, _ := a.(string)
		bs, _ := b.(string)
		return as < bs
	})
	return docs, nil
}

func (m *memStore) Close() error { return nil }

func newTestServer() (*memStore, http.Handler) {
	st := newMemStore()
	return st, RegisterRoutes(&Handler{Store: st, GeoField: "location"})
}

func createPlace(t *testing.T, router http.Handler, name string, lat, lon float64) models.Place {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"latitude":  lat,
		"longitude": lon,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/places", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var place models.Place
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &place))
	return place
}

func TestCreateAndGetPlace(t *testing.T) {
	_, router := newTestServer()

	place := createPlace(t, router, "Trafalgar Square", 51.5080, -0.1281)
	assert.NotEmpty(t, place.ID)
	assert.Len(t, place.Location.Geohash, 9)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/places/"+place.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		ID     string                 `json:"id"`
		Fields map[string]interface{} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, place.ID, got.ID)
	assert.Equal(t, "Trafalgar Square", got.Fields["name"])
}

func TestCreatePlaceRejectsBadCoordinates(t *testing.T) {
	_, router := newTestServer()

	body := []byte(`{"name": "nowhere", "latitude": 95, "longitude": 0}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/places", bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPlaceNotFound(t *testing.T) {
	_, router := newTestServer()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/places/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchNearbyFlow(t *testing.T) {
	_, router := newTestServer()

	near := createPlace(t, router, "near", 51.51190, -0.1278)
	mid := createPlace(t, router, "mid", 51.52539, -0.1278)
	createPlace(t, router, "far", 51.59733, -0.1278)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/places/nearby?lat=51.5074&lon=-0.1278&radius_km=3", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Count   int `json:"count"`
		Results []struct {
			ID         string  `json:"id"`
			DistanceKm float64 `json:"distance_km"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, near.ID, resp.Results[0].ID)
	assert.Equal(t, mid.ID, resp.Results[1].ID)
	assert.Less(t, resp.Results[0].DistanceKm, resp.Results[1].DistanceKm)
}

func TestSearchNearbyRejectsBadParameters(t *testing.T) {
	_, router := newTestServer()

	for _, url := range []string{
		"/places/nearby?lat=abc&lon=0&radius_km=3",
		"/places/nearby?lat=0&lon=abc&radius_km=3",
		"/places/nearby?lat=0&lon=0&radius_km=abc",
		"/places/nearby?lat=95&lon=0&radius_km=3",
		"/places/nearby?lat=0&lon=0&radius_km=-1",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", url, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, url)
	}
}

func TestUpdatePlaceLocationRederivesGeohash(t *testing.T) {
	st, router := newTestServer()

	place := createPlace(t, router, "mobile", 51.5074, -0.1278)

	body := []byte(`{"latitude": -33.8688, "longitude": 151.2093}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("PUT", fmt.Sprintf("/places/%s/location", place.ID), bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	fields, err := st.Get(context.Background(), place.ID)
	require.NoError(t, err)
	got, ok := models.GeoDataAt(fields, "location")
	require.True(t, ok)
	assert.Equal(t, -33.8688, got.Latitude)
	assert.NotEqual(t, place.Location.Geohash, got.Geohash)

	want, err := models.NewGeoData(-33.8688, 151.2093)
	require.NoError(t, err)
	assert.Equal(t, want.Geohash, got.Geohash)
}

func TestDeletePlace(t *testing.T) {
	_, router := newTestServer()

	place := createPlace(t, router, "temp", 51.5074, -0.1278)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/places/"+place.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/places/"+place.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDistanceEndpoint(t *testing.T) {
	_, router := newTestServer()

	body := []byte(`{"from_latitude": 51.5074, "from_longitude": -0.1278, "to_latitude": 48.8566, "to_longitude": 2.3522}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/distance", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 343.5, resp["distance_km"], 1.0)
}
