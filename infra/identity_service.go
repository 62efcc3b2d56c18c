package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/nimbuslabs/nimbus-vps-service/config"
)

// ErrInsufficientCredit is returned when the identity provider rejects a
// debit because the account balance is too low.
var ErrInsufficientCredit = errors.New("insufficient credit")

// AccountIdentity is the caller's account as the identity provider sees
// it. Credit is the spendable balance the provider keeps in the account
// metadata.
type AccountIdentity struct {
	ID     uuid.UUID `json:"id"`
	Email  string    `json:"email"`
	Credit float64   `json:"credit"`
}

type debitRequest struct {
	Amount float64 `json:"amount"`
}

type debitResponse struct {
	Credit float64 `json:"credit"`
}

// IdentityService talks to the external identity provider that owns
// authentication and the per-account credit balance.
type IdentityService struct {
	ServiceURL string
	PrivateKey string
}

func InitIdentityService(cfg *config.EnvConfig) *IdentityService {
	url := cfg.Identity.ServiceURL
	if url == "" {
		panic("Identity service URL is not configured")
	}

	return &IdentityService{
		ServiceURL: url,
		PrivateKey: cfg.Identity.PrivateKey,
	}
}

// VerifyToken resolves a bearer token to the account it belongs to. Any
// failure, transport or rejection, means the caller is unauthenticated.
func (s *IdentityService) VerifyToken(ctx context.Context, token string) (*AccountIdentity, error) {
	url := fmt.Sprintf("%s/v1/accounts/me", s.ServiceURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Private-Key", s.PrivateKey)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("identity service returned %d: %s", resp.StatusCode, string(raw))
	}

	var account AccountIdentity
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &account, nil
}

// DebitCredit spends amount from the account balance and returns the new
// balance.
func (s *IdentityService) DebitCredit(ctx context.Context, userID uuid.UUID, amount float64) (float64, error) {
	return s.postBalanceChange(ctx, userID, amount, "debit")
}

// RefundCredit returns amount to the account balance. Compensating action
// for a debit whose follow-up insert failed.
func (s *IdentityService) RefundCredit(ctx context.Context, userID uuid.UUID, amount float64) (float64, error) {
	return s.postBalanceChange(ctx, userID, amount, "refund")
}

func (s *IdentityService) postBalanceChange(ctx context.Context, userID uuid.UUID, amount float64, op string) (float64, error) {
	url := fmt.Sprintf("%s/v1/accounts/%s/%s", s.ServiceURL, userID, op)

	body, err := json.Marshal(debitRequest{Amount: amount})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Private-Key", s.PrivateKey)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPaymentRequired {
		return 0, ErrInsufficientCredit
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("identity service returned %d: %s", resp.StatusCode, string(raw))
	}

	var result debitResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Credit, nil
}
