package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/logging"
	"github.com/GeorgeMcIntyre-Web/NitroPlanner-sub001/models"
)

// checkRole trusts the gateway-injected Role header; token verification
// happens upstream.
func checkRole(r *http.Request, allowedRoles ...string) error {
	userRole := r.Header.Get("Role")
	if userRole == "" {
		return fmt.Errorf("role is missing in request header")
	}
	for _, role := range allowedRoles {
		if role == userRole {
			return nil
		}
	}
	return fmt.Errorf("access forbidden: user does not have the required role")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logger.Warnf("Event ID: RESPONSE_ENCODE_FAILED, Description: Failed to encode response: %v", err)
	}
}

type errorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Cycle   []string `json:"cycle,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// writeError maps the core error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var (
		validation *models.ValidationError
		notFound   *models.NotFoundError
		cycle      *models.CycleError
		unknownDep *models.UnknownDependencyError
		transition *models.TransitionError
		conflict   *models.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "ValidationError", Message: validation.Error()})
	case errors.As(err, &unknownDep):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "UnknownDependency", Message: unknownDep.Error(), Missing: unknownDep.Missing})
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "NotFound", Message: notFound.Error()})
	case errors.As(err, &cycle):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "CycleDetected", Message: cycle.Error(), Cycle: cycle.Members})
	case errors.As(err, &transition):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "InvalidTransition", Message: transition.Error()})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "ConcurrencyConflict", Message: conflict.Error()})
	default:
		logging.Logger.Errorf("Event ID: INTERNAL_ERROR, Description: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "InternalError", Message: "internal server error"})
	}
}
