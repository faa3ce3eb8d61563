package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/realmbank/realmbank/internal/config"
	"github.com/realmbank/realmbank/internal/logging"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Config{
		AppName:        "realmbank-test",
		Port:           "0",
		DataDir:        t.TempDir(),
		WorldID:        "test-world",
		ShutdownPeriod: time.Second,
	}
	srv, err := New(cfg, nil, nil, logging.Discard())
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

func TestAPIFullFlow(t *testing.T) {
	srv := newTestServer(t)

	status, economy := doJSON(t, srv, http.MethodPost, "/api/v1/economies", `{
        "name": "Kingdom",
        "base_currency": {"name": "Gold", "abbrev": "gp", "symbol": "g"}
    }`)
	if status != http.StatusCreated {
		t.Fatalf("create economy: status %d (%v)", status, economy)
	}
	economyID := economy["id"].(string)
	goldID := economy["base_currency_id"].(string)

	status, bank := doJSON(t, srv, http.MethodPost, "/api/v1/banks", fmt.Sprintf(`{
        "economy_id": %q, "name": "Crown Vault"
    }`, economyID))
	if status != http.StatusCreated {
		t.Fatalf("create bank: status %d (%v)", status, bank)
	}
	bankID := bank["id"].(string)

	status, acct := doJSON(t, srv, http.MethodPost, "/api/v1/accounts", fmt.Sprintf(`{
        "bank_id": %q, "currency_id": %q, "owner_id": "actor-1", "owner_name": "Merriweather"
    }`, bankID, goldID))
	if status != http.StatusCreated {
		t.Fatalf("create account: status %d (%v)", status, acct)
	}
	accountID := acct["id"].(string)

	status, receipt := doJSON(t, srv, http.MethodPost, "/api/v1/accounts/"+accountID+"/deposit", `{
        "amount": "100", "description": "loot", "initiator_id": "gm"
    }`)
	if status != http.StatusCreated {
		t.Fatalf("deposit: status %d (%v)", status, receipt)
	}

	status, body := doJSON(t, srv, http.MethodGet, "/api/v1/accounts/"+accountID+"/transactions", "")
	if status != http.StatusOK {
		t.Fatalf("list transactions: status %d", status)
	}
	txs, ok := body["transactions"].([]any)
	if !ok || len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %v", body)
	}

	// Overdraft maps to 422.
	status, body = doJSON(t, srv, http.MethodPost, "/api/v1/accounts/"+accountID+"/withdraw", `{"amount": "500"}`)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("overdraft: expected 422, got %d (%v)", status, body)
	}

	// Unknown account maps to 404.
	status, _ = doJSON(t, srv, http.MethodGet, "/api/v1/accounts/nope", "")
	if status != http.StatusNotFound {
		t.Fatalf("unknown account: expected 404, got %d", status)
	}

	// Deleting the bank conflicts while the account is open.
	status, _ = doJSON(t, srv, http.MethodDelete, "/api/v1/banks/"+bankID, "")
	if status != http.StatusConflict {
		t.Fatalf("bank delete: expected 409, got %d", status)
	}
}

func TestAPIPersistsAcrossServers(t *testing.T) {
	cfg := config.Config{
		AppName:        "realmbank-test",
		Port:           "0",
		DataDir:        t.TempDir(),
		WorldID:        "test-world",
		ShutdownPeriod: time.Second,
	}
	srv, err := New(cfg, nil, nil, logging.Discard())
	if err != nil {
		t.Fatalf("build server: %v", err)
	}

	status, economy := doJSON(t, srv, http.MethodPost, "/api/v1/economies", `{
        "name": "Kingdom",
        "base_currency": {"name": "Gold", "abbrev": "gp"}
    }`)
	if status != http.StatusCreated {
		t.Fatalf("create economy: status %d", status)
	}

	// A second server over the same data directory sees the document.
	srv2, err := New(cfg, nil, nil, logging.Discard())
	if err != nil {
		t.Fatalf("build second server: %v", err)
	}
	status, got := doJSON(t, srv2, http.MethodGet, "/api/v1/economies/"+economy["id"].(string), "")
	if status != http.StatusOK {
		t.Fatalf("reload economy: status %d (%v)", status, got)
	}
	if got["name"] != "Kingdom" {
		t.Fatalf("expected Kingdom, got %v", got["name"])
	}
}
