package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-user-accounts/internal/service"
	"github.com/MKhiriev/go-user-accounts/internal/store"
	"github.com/MKhiriev/go-user-accounts/internal/utils"
	"github.com/MKhiriev/go-user-accounts/models"
)

// invalidCodeMessage is the single user-facing rejection for every
// confirmation or reset code failure. Unknown user and bad code produce the
// same body so the endpoints cannot be used to probe registered accounts.
const invalidCodeMessage = "invalid or expired code"

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrWeakPassword:        http.StatusBadRequest,
	service.ErrUserNotFound:        http.StatusBadRequest,
	service.ErrInvalidToken:        http.StatusBadRequest,
	service.ErrNotEligible:         http.StatusBadRequest,

	service.ErrInvalidCredentials:      http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,

	store.ErrEmailAlreadyExists:    http.StatusConflict,
	store.ErrUsernameAlreadyExists: http.StatusConflict,
	store.ErrNoUserWasFound:        http.StatusNotFound,
	store.ErrStorageUnavailable:    http.StatusServiceUnavailable,

	store.ErrBuildingSQLQuery: http.StatusInternalServerError,
	store.ErrScanningRow:      http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError sends a uniform JSON error body with the status mapped from err.
func writeError(w http.ResponseWriter, err error, message string) {
	utils.WriteJSON(w, models.NewErrorResponse(message), statusFromError(err))
}
