package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/seedroom-project/backend/internal/router"
)

var _ router.Controller = (*HealthController)(nil)

type HealthController struct {
}

func (c *HealthController) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (c *HealthController) Register(router *mux.Router) {
	router.HandleFunc("/health", c.handleHealth).
		Methods(http.MethodGet)
}
