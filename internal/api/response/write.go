package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes data as a JSON body. Lobby state is live, so nothing is cacheable.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteStatus writes the {"status": ok} body the table-manager expects
func WriteStatus(w http.ResponseWriter, ok bool) {
	JSON(w, http.StatusOK, Status{Status: ok})
}
