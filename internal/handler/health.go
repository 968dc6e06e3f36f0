package handler

import "net/http"

// HandleHealth handles GET /health. It does not touch the database.
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
