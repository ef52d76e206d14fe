package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ogurasousui/roster-sync/internal/core/availability"
	"github.com/ogurasousui/roster-sync/internal/core/organization"
	"github.com/ogurasousui/roster-sync/internal/core/roster"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError はユースケースのエラーを HTTP ステータスへ変換して返します。
// 内部エラーの詳細はクライアントへ漏らしません。
func writeError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	if errors.Is(err, roster.ErrSyncFailed) {
		// プロバイダー側の失敗理由はログにのみ残す。
		message = roster.ErrSyncFailed.Error()
	}
	writeJSON(w, status, errorResponse{Error: message})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, roster.ErrInvalidOrganizationID),
		errors.Is(err, roster.ErrInvalidEmployeeID),
		errors.Is(err, roster.ErrInvalidProviderEmployeeID),
		errors.Is(err, organization.ErrInvalidID),
		errors.Is(err, organization.ErrInvalidName),
		errors.Is(err, organization.ErrInvalidProviderKind),
		errors.Is(err, organization.ErrMissingProviderTokens),
		errors.Is(err, organization.ErrMissingProviderTenant),
		errors.Is(err, availability.ErrInvalidWindow),
		errors.Is(err, availability.ErrInvalidSlotDuration),
		errors.Is(err, availability.ErrInvalidBuffer),
		errors.Is(err, availability.ErrInvalidCapacity),
		errors.Is(err, availability.ErrInvalidBusyInterval):
		return http.StatusBadRequest
	case errors.Is(err, organization.ErrInvalidAPIToken):
		return http.StatusUnauthorized
	case errors.Is(err, roster.ErrEmployeeNotFound),
		errors.Is(err, organization.ErrOrganizationNotFound):
		return http.StatusNotFound
	case errors.Is(err, roster.ErrEmployeeRemoved),
		errors.Is(err, roster.ErrProviderEmployeeAlreadyExists),
		errors.Is(err, organization.ErrAPITokenAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, organization.ErrProviderNotConfigured):
		return http.StatusUnprocessableEntity
	case errors.Is(err, roster.ErrSyncFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}
