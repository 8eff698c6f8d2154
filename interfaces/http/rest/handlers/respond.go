package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"onboardhq-backend/pkg/common"
	"onboardhq-backend/pkg/utils"
)

// CreatedResponse is the body returned by create endpoints
type CreatedResponse struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt"`
}

func created(id string, createdAt time.Time) CreatedResponse {
	return CreatedResponse{
		ID:        id,
		CreatedAt: createdAt.UTC().Format(time.RFC3339),
	}
}

// decodeJSON decodes the request body into dst. It writes the 400
// response itself and reports whether the caller should continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body: "+err.Error())
		return false
	}
	return true
}

// validateCommand runs struct-tag validation on a fully populated
// command, after path parameters have been copied in.
func validateCommand(w http.ResponseWriter, cmd interface{}) bool {
	if err := utils.ValidateStruct(cmd); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return false
	}
	return true
}
