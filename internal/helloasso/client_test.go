package helloasso

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// newAPIServer serves handler under /v5/ and checks the bearer token on every call
func newAPIServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	client := NewClient(testConfig(server.URL), "token-123", server.Client())
	return server, client
}

func TestListForms(t *testing.T) {
	server, client := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v5/organizations/grimpo6/forms" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		switch r.URL.Query().Get("pageIndex") {
		case "1":
			fmt.Fprint(w, `{"data":[{"title":"Adhésion 2024","formSlug":"adhesion-2024","formType":"Membership"}],
				"pagination":{"pageIndex":1,"totalPages":2}}`)
		case "2":
			fmt.Fprint(w, `{"data":[{"title":"Stage été","formSlug":"stage-ete"}],
				"pagination":{"pageIndex":2,"totalPages":2}}`)
		default:
			t.Errorf("unexpected pageIndex %q", r.URL.Query().Get("pageIndex"))
		}
	})
	defer server.Close()

	forms, err := client.ListForms(context.Background())
	if err != nil {
		t.Fatalf("ListForms() unexpected error: %v", err)
	}

	want := []Form{
		{Title: "Adhésion 2024", Slug: "adhesion-2024", Type: "Membership"},
		{Title: "Stage été", Slug: "stage-ete"},
	}
	if diff := cmp.Diff(want, forms); diff != "" {
		t.Errorf("ListForms() mismatch (-want +got):\n%s", diff)
	}
}

func TestListForms_WithoutPagination(t *testing.T) {
	server, client := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"title":"A","formSlug":"a"},{"title":"B","formSlug":"b"}]}`)
	})
	defer server.Close()

	forms, err := client.ListForms(context.Background())
	if err != nil {
		t.Fatalf("ListForms() unexpected error: %v", err)
	}
	if len(forms) != 2 {
		t.Errorf("ListForms() returned %d forms, want 2", len(forms))
	}
}

func TestListForms_MissingSlug(t *testing.T) {
	server, client := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"title":"No slug"}]}`)
	})
	defer server.Close()

	_, err := client.ListForms(context.Background())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("ListForms() error = %v, want ErrMalformedResponse", err)
	}
}

func TestListOrders(t *testing.T) {
	server, client := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v5/organizations/grimpo6/forms/Membership/adhesion-2024/orders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("pageSize"); got != "100" {
			t.Errorf("pageSize = %q, want 100", got)
		}
		if got := r.URL.Query().Get("pageIndex"); got != "3" {
			t.Errorf("pageIndex = %q, want 3", got)
		}
		fmt.Fprint(w, `{"data":[{"id":42,"date":"2024-03-05T10:00:00.1234567+01:00","items":[
			{"id":1,"type":"Membership","user":{"firstName":"Marie","lastName":"Dupont"}},
			{"id":2,"type":"Donation"}]}],
			"pagination":{"pageIndex":3,"totalPages":4}}`)
	})
	defer server.Close()

	page, err := client.ListOrders(context.Background(), "adhesion-2024", 3, 100)
	if err != nil {
		t.Fatalf("ListOrders() unexpected error: %v", err)
	}

	if len(page.Data) != 1 || page.Data[0].ID != 42 {
		t.Fatalf("ListOrders() data = %+v", page.Data)
	}
	if got := len(page.Data[0].Persons()); got != 1 {
		t.Errorf("Persons() = %d, want 1", got)
	}
	if page.Pagination.PageIndex != 3 || page.Pagination.TotalPages != 4 {
		t.Errorf("Pagination = %+v", page.Pagination)
	}
	if page.Pagination.IsLast() {
		t.Error("page 3 of 4 should not be the last")
	}
}

func TestListOrders_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{
			name:    "missing pagination",
			body:    `{"data":[]}`,
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "bad date",
			body:    `{"data":[{"id":1,"date":"05/03/2024 10:00"}],"pagination":{"pageIndex":1,"totalPages":1}}`,
			wantErr: ErrMalformedTimestamp,
		},
		{
			name:    "missing date",
			body:    `{"data":[{"id":1}],"pagination":{"pageIndex":1,"totalPages":1}}`,
			wantErr: ErrMalformedTimestamp,
		},
		{
			name:    "missing id",
			body:    `{"data":[{"date":"2024-01-01T00:00:00+00:00"}],"pagination":{"pageIndex":1,"totalPages":1}}`,
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "wrong shape",
			body:    `{"data":{"id":1}}`,
			wantErr: ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, client := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			})
			defer server.Close()

			_, err := client.ListOrders(context.Background(), "form", 1, 100)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ListOrders() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetOrder(t *testing.T) {
	server, client := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v5/orders/42" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"items":[{"id":1,"user":{"firstName":"Marie","lastName":"Dupont"},
			"customFields":[{"name":"Certificat médical","type":"File","answer":"https://files.example/a.pdf"}]}]}`)
	})
	defer server.Close()

	order, err := client.GetOrder(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetOrder() unexpected error: %v", err)
	}

	want := &Order{
		ID: 42,
		Items: []LineItem{{
			ID:   1,
			User: &User{FirstName: "Marie", LastName: "Dupont"},
			CustomFields: []CustomField{
				{Name: "Certificat médical", Type: "File", Answer: "https://files.example/a.pdf"},
			},
		}},
	}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("GetOrder() mismatch (-want +got):\n%s", diff)
	}
}

func TestGetOrder_APIError(t *testing.T) {
	server, client := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Order not found"}`)
	})
	defer server.Close()

	_, err := client.GetOrder(context.Background(), 7)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("GetOrder() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Message != "Order not found" {
		t.Errorf("APIError = %+v", apiErr)
	}
	if !errors.Is(err, ErrAPI) {
		t.Error("APIError should unwrap to ErrAPI")
	}
}

func TestClient_TransportError(t *testing.T) {
	server, client := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.GetOrder(context.Background(), 1)
	if err == nil {
		t.Fatal("GetOrder() expected error against a closed server")
	}
	if errors.Is(err, ErrAPI) || errors.Is(err, ErrMalformedResponse) {
		t.Errorf("transport failure should not be classified as an API response: %v", err)
	}
}
