package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func RegisterRoutes(h *Handler) http.Handler {
	router := mux.NewRouter()

	// Place endpoints
	router.HandleFunc("/places", h.CreatePlace).Methods("POST")
	router.HandleFunc("/places/nearby", h.SearchNearby).Methods("GET")
	router.HandleFunc("/places/{place_id}", h.GetPlace).Methods("GET")
	router.HandleFunc("/places/{place_id}", h.DeletePlace).Methods("DELETE")
	router.HandleFunc("/places/{place_id}/location", h.UpdatePlaceLocation).Methods("PUT")

	// Distance endpoint
	router.HandleFunc("/distance", h.Distance).Methods("POST")

	// Add CORS support
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	return cors(router)
}
