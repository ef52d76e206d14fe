package jobber

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_FetchEmployees(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/employees" {
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("X-API-Key") != "key-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"employees":[
			{"id":1,"name":" Taro Yamada ","email":"taro@example.com","archived":false},
			{"id":2,"name":"Old Timer","email":null,"archived":true},
			{"id":3,"name":"Hanako Sato","email":null,"archived":false}
		]}`)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, APIKey: "key-1", HTTPClient: server.Client()})

	employees, err := client.FetchEmployees(context.Background())
	if err != nil {
		t.Fatalf("FetchEmployees returned error: %v", err)
	}

	if len(employees) != 2 {
		t.Fatalf("expected archived employees to be skipped, got %d entries", len(employees))
	}
	if employees[0].ID != 1 || employees[0].Name != "Taro Yamada" {
		t.Fatalf("unexpected first employee: %+v", employees[0])
	}
	if employees[1].ID != 3 {
		t.Fatalf("unexpected second employee: %+v", employees[1])
	}
}

func TestClient_FetchEmployees_TenantURL(t *testing.T) {
	t.Parallel()

	client := New(Config{Subdomain: "acme", Domain: "getjobber.com", APIKey: "key"})
	if client.baseURL != "https://acme.getjobber.com" {
		t.Fatalf("unexpected tenant base url: %s", client.baseURL)
	}
}

func TestClient_FetchEmployees_TransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, APIKey: "wrong", HTTPClient: server.Client()})

	if _, err := client.FetchEmployees(context.Background()); err == nil {
		t.Fatal("expected error for rejected api key")
	}
}
