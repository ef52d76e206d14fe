package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ogurasousui/roster-sync/internal/core/organization"
	"github.com/ogurasousui/roster-sync/internal/core/roster"
	"github.com/rs/zerolog"
)

// RouterConfig はルーター構築に必要な依存をまとめます。
type RouterConfig struct {
	Organizations  organization.UseCase
	Roster         roster.UseCase
	MetricsHandler http.Handler
	Logger         zerolog.Logger
}

// NewRouter はすべてのエンドポイントを登録したルーターを返します。
// /v1 配下は組織作成を除き Bearer トークン認証が必要です。
func NewRouter(cfg RouterConfig) *mux.Router {
	orgHandler := NewOrganizationHandler(cfg.Organizations)
	rosterHandler := NewRosterHandler(cfg.Roster)
	availabilityHandler := NewAvailabilityHandler(cfg.Roster)

	router := mux.NewRouter()
	router.Use(RequestLogger(cfg.Logger))

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	if cfg.MetricsHandler != nil {
		router.Handle("/metrics", cfg.MetricsHandler).Methods(http.MethodGet)
	}

	router.HandleFunc("/v1/organizations", orgHandler.Create).Methods(http.MethodPost)

	authed := router.PathPrefix("/v1").Subrouter()
	authed.Use(Authenticate(cfg.Organizations))

	authed.HandleFunc("/organization", orgHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/organization/provider", orgHandler.UpdateProvider).Methods(http.MethodPut)

	authed.HandleFunc("/roster/sync", rosterHandler.Sync).Methods(http.MethodPost)
	authed.HandleFunc("/roster/employees", rosterHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/roster/employees/{id}/enabled", rosterHandler.SetEnabled).Methods(http.MethodPatch)

	authed.HandleFunc("/availability/slots", availabilityHandler.ComputeSlots).Methods(http.MethodPost)

	return router
}
