package posclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := New(&Config{ServerURL: serverURL, StateDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

const testOrderID = "11111111-2222-3333-4444-555555555555"

func TestClientListOrders_Caches(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		json.NewEncoder(w).Encode([]Order{{ID: testOrderID, OrderNumber: "BCH-001", Status: "RECEIVED"}})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		orders, err := client.ListOrders(ctx)
		if err != nil {
			t.Fatalf("ListOrders: %v", err)
		}
		if len(orders) != 1 || orders[0].OrderNumber != "BCH-001" {
			t.Fatalf("unexpected orders: %+v", orders)
		}
	}

	if got := hits.Load(); got != 1 {
		t.Errorf("expected 1 request, server saw %d", got)
	}
}

func TestClientUpdateOrderStatus_InvalidatesOrderList(t *testing.T) {
	var listHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/orders", func(w http.ResponseWriter, r *http.Request) {
		listHits.Add(1)
		json.NewEncoder(w).Encode([]Order{{ID: testOrderID, Status: "RECEIVED"}})
	})
	mux.HandleFunc("PUT /api/orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Order{ID: r.PathValue("id"), Status: "PREPARING"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	if _, err := client.ListOrders(ctx); err != nil {
		t.Fatalf("ListOrders: %v", err)
	}

	order, err := client.UpdateOrderStatus(ctx, testOrderID, "PREPARING")
	if err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}
	if order.Status != "PREPARING" {
		t.Errorf("expected PREPARING, got %s", order.Status)
	}

	if _, err := client.ListOrders(ctx); err != nil {
		t.Fatalf("ListOrders after update: %v", err)
	}
	if got := listHits.Load(); got != 2 {
		t.Errorf("expected list to refetch after update, server saw %d list requests", got)
	}
}

func TestClientUpdateOrderStatus_FailureKeepsCache(t *testing.T) {
	var listHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/orders", func(w http.ResponseWriter, r *http.Request) {
		listHits.Add(1)
		json.NewEncoder(w).Encode([]Order{{ID: testOrderID, Status: "COMPLETED"}})
	})
	mux.HandleFunc("PUT /api/orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "cannot transition from COMPLETED to PREPARING"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	ctx := context.Background()

	if _, err := client.ListOrders(ctx); err != nil {
		t.Fatalf("ListOrders: %v", err)
	}

	_, err := client.UpdateOrderStatus(ctx, testOrderID, "PREPARING")
	if err == nil {
		t.Fatal("expected error from rejected transition")
	}
	if !strings.Contains(err.Error(), "cannot transition") {
		t.Errorf("expected server message in error, got: %v", err)
	}

	if _, err := client.ListOrders(ctx); err != nil {
		t.Fatalf("ListOrders after failed update: %v", err)
	}
	if got := listHits.Load(); got != 1 {
		t.Errorf("failed update should not invalidate the cached list, server saw %d list requests", got)
	}
}

func TestClientGetOrder_InvalidIDIssuesNoRequest(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	for _, id := range []string{"", "abc", "not-a-uuid-at-all-but-36-chars-long!"} {
		if _, err := client.GetOrder(context.Background(), id); err != ErrInvalidOrderID {
			t.Errorf("id %q: expected ErrInvalidOrderID, got %v", id, err)
		}
	}

	if got := hits.Load(); got != 0 {
		t.Errorf("expected no requests for invalid ids, server saw %d", got)
	}
}

func TestClientLogin_StoresUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(loginResponse{
			Token:        "access-token",
			RefreshToken: "refresh-token",
			User:         User{ID: "u1", Username: "somchai", FullName: "Somchai J.", Role: "CASHIER"},
		})
	}))
	defer server.Close()

	stateDir := t.TempDir()
	client, err := New(&Config{ServerURL: server.URL, StateDir: stateDir})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	user, err := client.Login(context.Background(), "somchai", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Username != "somchai" {
		t.Errorf("expected somchai, got %s", user.Username)
	}

	stored, err := client.CurrentUser()
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if stored == nil || stored.ID != "u1" || stored.Role != "CASHIER" {
		t.Errorf("unexpected stored user: %+v", stored)
	}

	// A new client over the same state dir picks up the session.
	reopened, err := New(&Config{ServerURL: server.URL, StateDir: stateDir})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if reopened.Token() != "access-token" {
		t.Errorf("expected session to be reloaded, token %q", reopened.Token())
	}
}

func TestClientLogin_RejectedStoresNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
	}))
	defer server.Close()

	stateDir := t.TempDir()
	client, err := New(&Config{ServerURL: server.URL, StateDir: stateDir})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = client.Login(context.Background(), "somchai", "wrong")
	if err == nil {
		t.Fatal("expected error from rejected login")
	}
	if !strings.Contains(err.Error(), "invalid credentials") {
		t.Errorf("expected server message in error, got: %v", err)
	}

	for _, name := range []string{"user.json", "session.json"} {
		if _, statErr := os.Stat(filepath.Join(stateDir, name)); !os.IsNotExist(statErr) {
			t.Errorf("rejected login must not write %s", name)
		}
	}

	user, err := client.CurrentUser()
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if user != nil {
		t.Errorf("expected no stored user, got %+v", user)
	}
}

func TestClientStoreName_Cached(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"key": "store_name", "value": "Baan Cha"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	for i := 0; i < 2; i++ {
		name, err := client.StoreName(context.Background())
		if err != nil {
			t.Fatalf("StoreName: %v", err)
		}
		if name != "Baan Cha" {
			t.Errorf("expected Baan Cha, got %q", name)
		}
	}

	if got := hits.Load(); got != 1 {
		t.Errorf("expected 1 request, server saw %d", got)
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Order{})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.SetToken("terminal-token")

	if _, err := client.ListOrders(context.Background()); err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if gotAuth != "Bearer terminal-token" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}
