package infra

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func newIdentityServer(t *testing.T, accountID uuid.UUID, credit float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v1/accounts/me":
			if r.Header.Get("Authorization") != "Bearer good-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(AccountIdentity{ID: accountID, Email: "user@example.com", Credit: credit})
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/debit"):
			var req struct {
				Amount float64 `json:"amount"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Amount > credit {
				w.WriteHeader(http.StatusPaymentRequired)
				return
			}
			json.NewEncoder(w).Encode(map[string]float64{"credit": credit - req.Amount})
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/refund"):
			var req struct {
				Amount float64 `json:"amount"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			json.NewEncoder(w).Encode(map[string]float64{"credit": credit + req.Amount})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestVerifyToken(t *testing.T) {
	accountID := uuid.New()
	server := newIdentityServer(t, accountID, 42.5)
	defer server.Close()

	service := &IdentityService{ServiceURL: server.URL}

	account, err := service.VerifyToken(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if account.ID != accountID {
		t.Errorf("account id = %s, want %s", account.ID, accountID)
	}
	if account.Credit != 42.5 {
		t.Errorf("credit = %v, want 42.5", account.Credit)
	}

	if _, err := service.VerifyToken(context.Background(), "bad-token"); err == nil {
		t.Error("expected error for rejected token")
	}
}

func TestDebitCredit(t *testing.T) {
	accountID := uuid.New()
	server := newIdentityServer(t, accountID, 100)
	defer server.Close()

	service := &IdentityService{ServiceURL: server.URL}

	remaining, err := service.DebitCredit(context.Background(), accountID, 14.5)
	if err != nil {
		t.Fatalf("DebitCredit: %v", err)
	}
	if remaining != 85.5 {
		t.Errorf("remaining = %v, want 85.5", remaining)
	}

	_, err = service.DebitCredit(context.Background(), accountID, 1000)
	if !errors.Is(err, ErrInsufficientCredit) {
		t.Errorf("expected ErrInsufficientCredit, got %v", err)
	}
}

func TestRefundCredit(t *testing.T) {
	accountID := uuid.New()
	server := newIdentityServer(t, accountID, 100)
	defer server.Close()

	service := &IdentityService{ServiceURL: server.URL}

	balance, err := service.RefundCredit(context.Background(), accountID, 14.5)
	if err != nil {
		t.Fatalf("RefundCredit: %v", err)
	}
	if balance != 114.5 {
		t.Errorf("balance = %v, want 114.5", balance)
	}
}

func TestVerifyTokenUnreachableProvider(t *testing.T) {
	service := &IdentityService{ServiceURL: "http://127.0.0.1:1"}
	if _, err := service.VerifyToken(context.Background(), "good-token"); err == nil {
		t.Error("expected transport error")
	}
}
