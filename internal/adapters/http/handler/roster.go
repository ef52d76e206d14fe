package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ogurasousui/roster-sync/internal/core/roster"
)

// RosterHandler はロスター同期まわりの HTTP エンドポイントを提供します。
type RosterHandler struct {
	roster roster.UseCase
}

// NewRosterHandler は RosterHandler を生成します。
func NewRosterHandler(uc roster.UseCase) *RosterHandler {
	return &RosterHandler{roster: uc}
}

type employeeResponse struct {
	ID                 string    `json:"id"`
	ProviderEmployeeID int64     `json:"provider_employee_id"`
	Name               string    `json:"name"`
	Email              *string   `json:"email"`
	Enabled            bool      `json:"enabled"`
	Removed            bool      `json:"removed"`
	Assignable         bool      `json:"assignable"`
	LastSyncAt         time.Time `json:"last_sync_at"`
}

type syncEntryResponse struct {
	employeeResponse
	WasJustAdded   bool `json:"was_just_added"`
	WasJustRemoved bool `json:"was_just_removed"`
}

type syncResultResponse struct {
	SyncedAt time.Time           `json:"synced_at"`
	Entries  []syncEntryResponse `json:"entries"`
}

type listEmployeesResponse struct {
	Employees []employeeResponse `json:"employees"`
}

type setEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

func toEmployeeResponse(e *roster.Employee) employeeResponse {
	return employeeResponse{
		ID:                 e.ID,
		ProviderEmployeeID: e.ProviderEmployeeID,
		Name:               e.Name,
		Email:              e.Email,
		Enabled:            e.Enabled,
		Removed:            e.Removed,
		Assignable:         e.Assignable(),
		LastSyncAt:         e.LastSyncAt,
	}
}

// Sync は認証済み組織のロスター同期を実行します。
func (h *RosterHandler) Sync(w http.ResponseWriter, r *http.Request) {
	org, ok := OrganizationFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	result, err := h.roster.SyncEmployees(r.Context(), roster.SyncEmployeesInput{OrganizationID: org.ID})
	if err != nil {
		writeError(w, err)
		return
	}

	entries := make([]syncEntryResponse, 0, len(result.Entries))
	for _, entry := range result.Entries {
		entries = append(entries, syncEntryResponse{
			employeeResponse: toEmployeeResponse(entry.Employee),
			WasJustAdded:     entry.WasJustAdded,
			WasJustRemoved:   entry.WasJustRemoved,
		})
	}

	writeJSON(w, http.StatusOK, syncResultResponse{SyncedAt: result.SyncedAt, Entries: entries})
}

// List は認証済み組織のロスターレコードを除籍済みも含めて返します。
func (h *RosterHandler) List(w http.ResponseWriter, r *http.Request) {
	org, ok := OrganizationFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	employees, err := h.roster.ListEmployees(r.Context(), roster.ListEmployeesInput{OrganizationID: org.ID})
	if err != nil {
		writeError(w, err)
		return
	}

	body := listEmployeesResponse{Employees: make([]employeeResponse, 0, len(employees))}
	for _, emp := range employees {
		body.Employees = append(body.Employees, toEmployeeResponse(emp))
	}

	writeJSON(w, http.StatusOK, body)
}

// SetEnabled は 1 レコードの割り当て可否フラグを更新します。
func (h *RosterHandler) SetEnabled(w http.ResponseWriter, r *http.Request) {
	org, ok := OrganizationFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	var req setEnabledRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	updated, err := h.roster.SetEmployeeEnabled(r.Context(), roster.SetEmployeeEnabledInput{
		OrganizationID: org.ID,
		EmployeeID:     mux.Vars(r)["id"],
		Enabled:        req.Enabled,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEmployeeResponse(updated))
}
