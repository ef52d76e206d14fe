package housecallpro

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_FetchEmployees_Paginates(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		switch page {
		case "1":
			fmt.Fprint(w, `{"employees":[{"id":1,"first_name":"Taro","last_name":"Yamada","email":"taro@example.com"}],"page":1,"total_pages":2}`)
		case "2":
			fmt.Fprint(w, `{"employees":[{"id":2,"first_name":"Hanako","last_name":"Sato","email":null}],"page":2,"total_pages":2}`)
		default:
			t.Errorf("unexpected page %s", page)
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, AccessToken: "token-1", HTTPClient: server.Client()})

	employees, err := client.FetchEmployees(context.Background())
	if err != nil {
		t.Fatalf("FetchEmployees returned error: %v", err)
	}

	if len(employees) != 2 {
		t.Fatalf("expected 2 employees across pages, got %d", len(employees))
	}
	if employees[0].ID != 1 || employees[0].Name != "Taro Yamada" {
		t.Fatalf("unexpected first employee: %+v", employees[0])
	}
	if employees[0].Email == nil || *employees[0].Email != "taro@example.com" {
		t.Fatalf("expected email for first employee, got %+v", employees[0].Email)
	}
	if employees[1].Email != nil {
		t.Fatalf("expected nil email for second employee, got %+v", employees[1].Email)
	}
}

func TestClient_FetchEmployees_RefreshesExpiredToken(t *testing.T) {
	t.Parallel()

	refreshCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token" {
			refreshCalls++
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse form: %v", err)
			}
			if r.PostForm.Get("grant_type") != "refresh_token" || r.PostForm.Get("refresh_token") != "refresh-1" {
				t.Errorf("unexpected refresh form: %v", r.PostForm)
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: "token-2", RefreshToken: "refresh-2"})
			return
		}

		switch r.Header.Get("Authorization") {
		case "Bearer token-2":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"employees":[{"id":9,"first_name":"Ichiro","last_name":"Suzuki"}],"page":1,"total_pages":1}`)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, AccessToken: "expired", RefreshToken: "refresh-1", HTTPClient: server.Client()})

	employees, err := client.FetchEmployees(context.Background())
	if err != nil {
		t.Fatalf("FetchEmployees returned error: %v", err)
	}

	if refreshCalls != 1 {
		t.Fatalf("expected exactly one refresh call, got %d", refreshCalls)
	}
	if len(employees) != 1 || employees[0].ID != 9 {
		t.Fatalf("unexpected employees after refresh: %+v", employees)
	}
}

func TestClient_FetchEmployees_FailsWithoutRefreshToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, AccessToken: "expired", HTTPClient: server.Client()})

	if _, err := client.FetchEmployees(context.Background()); err == nil {
		t.Fatal("expected error when token is rejected and no refresh token is configured")
	}
}
