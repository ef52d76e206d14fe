package handler

import (
	"net/http"
	"time"

	"github.com/ogurasousui/roster-sync/internal/core/availability"
	"github.com/ogurasousui/roster-sync/internal/core/roster"
)

// AvailabilityHandler は予約可能スロット計算のエンドポイントを提供します。
// 同一時間帯のキャパシティは割り当て可能なロスターレコード数から決まります。
type AvailabilityHandler struct {
	roster roster.UseCase
}

// NewAvailabilityHandler は AvailabilityHandler を生成します。
func NewAvailabilityHandler(uc roster.UseCase) *AvailabilityHandler {
	return &AvailabilityHandler{roster: uc}
}

type intervalPayload struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type computeSlotsRequest struct {
	Open            time.Time         `json:"open"`
	Close           time.Time         `json:"close"`
	SlotDurationMin int               `json:"slot_duration_minutes"`
	BufferMin       int               `json:"buffer_minutes"`
	Busy            []intervalPayload `json:"busy"`
}

type computeSlotsResponse struct {
	Capacity int               `json:"capacity"`
	Slots    []intervalPayload `json:"slots"`
}

// ComputeSlots は営業時間と既存予約から予約可能スロットを計算します。
func (h *AvailabilityHandler) ComputeSlots(w http.ResponseWriter, r *http.Request) {
	org, ok := OrganizationFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	var req computeSlotsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	employees, err := h.roster.ListEmployees(r.Context(), roster.ListEmployeesInput{OrganizationID: org.ID})
	if err != nil {
		writeError(w, err)
		return
	}

	capacity := 0
	for _, emp := range employees {
		if emp.Assignable() {
			capacity++
		}
	}

	// 割り当て可能な従業員がいなければスロットも存在しない。
	if capacity == 0 {
		writeJSON(w, http.StatusOK, computeSlotsResponse{Capacity: 0, Slots: []intervalPayload{}})
		return
	}

	busy := make([]availability.Interval, 0, len(req.Busy))
	for _, b := range req.Busy {
		busy = append(busy, availability.Interval{Start: b.Start, End: b.End})
	}

	slots, err := availability.ComputeSlots(availability.Input{
		Open:         req.Open,
		Close:        req.Close,
		SlotDuration: time.Duration(req.SlotDurationMin) * time.Minute,
		Buffer:       time.Duration(req.BufferMin) * time.Minute,
		Capacity:     capacity,
		Busy:         busy,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	body := computeSlotsResponse{Capacity: capacity, Slots: make([]intervalPayload, 0, len(slots))}
	for _, slot := range slots {
		body.Slots = append(body.Slots, intervalPayload{Start: slot.Start, End: slot.End})
	}

	writeJSON(w, http.StatusOK, body)
}
