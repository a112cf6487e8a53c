package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"nearby-search-system/geohash"
	"nearby-search-system/models"
	"nearby-search-system/search"
	"nearby-search-system/store"
)

// Handler carries the active document store and the configured geo field
// path into the HTTP handlers.
type Handler struct {
	Store    store.Store
	GeoField string
}

// CreatePlace registers a new place, deriving its GeoData on write.
func (h *Handler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string   `json:"name"`
		Latitude  float64  `json:"latitude"`
		Longitude float64  `json:"longitude"`
		Tags      []string `json:"tags"`
	}

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	location, err := models.NewGeoData(req.Latitude, req.Longitude)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	place := models.Place{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Tags:     req.Tags,
		Location: location,
	}

	if err := h.Store.Put(r.Context(), place.ID, place.Fields(h.GeoField)); err != nil {
		http.Error(w, "Failed to create place", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(place)
}

// GetPlace handles fetching place details by ID.
func (h *Handler) GetPlace(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	placeID := vars["place_id"]

	fields, err := h.Store.Get(r.Context(), placeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Place not found", http.StatusNotFound)
		} else {
			http.Error(w, "Store error", http.StatusInternalServerError)
		}
		return
	}

	response := map[string]interface{}{
		"id":     placeID,
		"fields": fields,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// UpdatePlaceLocation moves a place and re-derives its GeoData so the
// stored geohash stays consistent with the coordinates.
func (h *Handler) UpdatePlaceLocation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	placeID := vars["place_id"]

	var req struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	fields, err := h.Store.Get(r.Context(), placeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Place not found", http.StatusNotFound)
		} else {
			http.Error(w, "Store error", http.StatusInternalServerError)
		}
		return
	}

	location, err := models.NewGeoData(req.Latitude, req.Longitude)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	models.SetFieldAt(fields, h.GeoField, location.FieldMap())
	if err := h.Store.Put(r.Context(), placeID, fields); err != nil {
		http.Error(w, "Failed to update place", http.StatusInternalServerError)
		return
	}

	response := map[string]string{"message": "Place location updated"}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// DeletePlace removes a place and its index entries.
func (h *Handler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	placeID := vars["place_id"]

	if err := h.Store.Delete(r.Context(), placeID); err != nil {
		http.Error(w, "Failed to delete place", http.StatusInternalServerError)
		return
	}

	response := map[string]string{"message": "Place deleted"}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// SearchNearby runs the radius search around the given center.
func (h *Handler) SearchNearby(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		http.Error(w, "Invalid lat parameter", http.StatusBadRequest)
		return
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		http.Error(w, "Invalid lon parameter", http.StatusBadRequest)
		return
	}
	radiusKm, err := strconv.ParseFloat(r.URL.Query().Get("radius_km"), 64)
	if err != nil {
		http.Error(w, "Invalid radius_km parameter", http.StatusBadRequest)
		return
	}

	candidates, err := search.Search(r.Context(), h.Store, search.Request{
		Latitude:  lat,
		Longitude: lon,
		RadiusKm:  radiusKm,
		Field:     h.GeoField,
	})
	if err != nil {
		if errors.Is(err, geohash.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, "Search failed", http.StatusBadGateway)
		}
		return
	}

	results := make([]map[string]interface{}, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, map[string]interface{}{
			"id":          c.ID,
			"fields":      c.Fields,
			"distance_km": c.DistanceKm,
		})
	}

	response := map[string]interface{}{
		"count":   len(results),
		"results": results,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Distance computes the great-circle distance between two points.
func (h *Handler) Distance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FromLat float64 `json:"from_latitude"`
		FromLon float64 `json:"from_longitude"`
		ToLat   float64 `json:"to_latitude"`
		ToLon   float64 `json:"to_longitude"`
	}

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	response := map[string]float64{
		"distance_km": geohash.HaversineKm(req.FromLat, req.FromLon, req.ToLat, req.ToLon),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
