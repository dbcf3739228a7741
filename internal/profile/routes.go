// internal/profile/routes.go

package profile

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers all profile routes
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware func(http.Handler) http.Handler) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware)

	// Profile
	api.HandleFunc("/profile", handler.GetMyProfile).Methods("GET")
	api.HandleFunc("/profile", handler.SaveProfile).Methods("PUT")
	api.HandleFunc("/users/{id}/profile", handler.GetUserProfile).Methods("GET")

	// Blocking
	api.HandleFunc("/profile/blocked", handler.GetBlockedUsers).Methods("GET")
	api.HandleFunc("/users/{id}/block", handler.BlockUser).Methods("POST")
	api.HandleFunc("/users/{id}/block", handler.UnblockUser).Methods("DELETE")
}
