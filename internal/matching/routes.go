package matching

import (
	"net/http"

	"github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware func(http.Handler) http.Handler) {
	api := router.PathPrefix("/api/v1/matching").Subrouter()
	api.Use(authMiddleware)

	// Feed
	api.HandleFunc("/feed", handler.GetFeed).Methods("GET")
	api.HandleFunc("/feed", handler.PostFeed).Methods("POST")
	api.HandleFunc("/compatibility/{userId}", handler.GetCompatibility).Methods("GET")

	// Swipes
	api.HandleFunc("/swipes", handler.RecordSwipe).Methods("POST")

	// Saved filters
	api.HandleFunc("/filters", handler.GetFilters).Methods("GET")
	api.HandleFunc("/filters", handler.SaveFilters).Methods("PUT")
}
