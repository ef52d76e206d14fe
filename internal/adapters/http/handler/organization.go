package handler

import (
	"net/http"

	"github.com/ogurasousui/roster-sync/internal/core/organization"
)

// OrganizationHandler は組織管理の HTTP エンドポイントを提供します。
type OrganizationHandler struct {
	orgs organization.UseCase
}

// NewOrganizationHandler は OrganizationHandler を生成します。
func NewOrganizationHandler(uc organization.UseCase) *OrganizationHandler {
	return &OrganizationHandler{orgs: uc}
}

type createOrganizationRequest struct {
	Name string `json:"name"`
}

type providerResponse struct {
	Kind       string `json:"kind"`
	Subdomain  string `json:"subdomain,omitempty"`
	Domain     string `json:"domain,omitempty"`
	Configured bool   `json:"configured"`
}

type organizationResponse struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Provider providerResponse `json:"provider"`
}

type createdOrganizationResponse struct {
	organizationResponse
	APIToken string `json:"api_token"`
}

type updateProviderRequest struct {
	Kind         string `json:"kind"`
	Subdomain    string `json:"subdomain"`
	Domain       string `json:"domain"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func toOrganizationResponse(org *organization.Organization) organizationResponse {
	return organizationResponse{
		ID:   org.ID,
		Name: org.Name,
		Provider: providerResponse{
			Kind:       string(org.Provider.Kind),
			Subdomain:  org.Provider.Subdomain,
			Domain:     org.Provider.Domain,
			Configured: org.ProviderConfigured(),
		},
	}
}

// Create は組織を新規登録し、API トークンを発行します。トークンはこの
// レスポンスでのみ返されます。
func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrganizationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	created, err := h.orgs.CreateOrganization(r.Context(), organization.CreateOrganizationInput{Name: req.Name})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createdOrganizationResponse{
		organizationResponse: toOrganizationResponse(created),
		APIToken:             created.APIToken,
	})
}

// Get は認証済み組織の情報を返します。
func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	org, ok := OrganizationFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	found, err := h.orgs.GetOrganization(r.Context(), organization.GetOrganizationInput{ID: org.ID})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrganizationResponse(found))
}

// UpdateProvider はプロバイダー接続設定を更新します。kind に空文字を渡すと
// 接続解除になります。
func (h *OrganizationHandler) UpdateProvider(w http.ResponseWriter, r *http.Request) {
	org, ok := OrganizationFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return
	}

	var req updateProviderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	updated, err := h.orgs.UpdateProviderSettings(r.Context(), organization.UpdateProviderSettingsInput{
		OrganizationID: org.ID,
		Kind:           organization.ProviderKind(req.Kind),
		Subdomain:      req.Subdomain,
		Domain:         req.Domain,
		AccessToken:    req.AccessToken,
		RefreshToken:   req.RefreshToken,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrganizationResponse(updated))
}
