package controllers

import (
	"net/http"

	"github.com/homemade/pickleshop/api/responses"
	"github.com/homemade/pickleshop/internal/records"
)

type HealthResponse struct {
	Status   string   `json:"status"`
	Services []string `json:"services"`
}

// Health reports the availability decided at startup; it never probes the store.
func Health(avail records.Availability) http.HandlerFunc {
	body := HealthResponse{Status: "healthy", Services: avail.Services()}
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusOK, body)
	}
}
