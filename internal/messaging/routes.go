// internal/messaging/routes.go

package messaging

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes registers the conversation routes
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware func(http.Handler) http.Handler) {
	api := router.PathPrefix("/api/v1/conversations").Subrouter()
	api.Use(authMiddleware)

	api.HandleFunc("", handler.GetConversations).Methods("GET")
	api.HandleFunc("/with/{userId}", handler.GetConversationWith).Methods("GET")
}
