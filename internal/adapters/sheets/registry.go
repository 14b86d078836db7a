package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/emiliopalmerini/activitybot/internal/ports"
)

// Registry tracks live per-user spreadsheet sessions. A session is created
// by /connect and kept for the life of the process; reconnecting replaces
// it. There is no disconnect command.
type Registry struct {
	svc   *sheets.Service
	email string

	mu       sync.RWMutex
	sessions map[int64]*Store
}

// NewRegistry builds the shared Sheets client from service-account JSON.
func NewRegistry(ctx context.Context, credentialsJSON []byte) (*Registry, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(credentialsJSON, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	return &Registry{
		svc:      svc,
		email:    creds.ClientEmail,
		sessions: make(map[int64]*Store),
	}, nil
}

// ServiceAccountEmail is the address users must share their sheet with.
func (r *Registry) ServiceAccountEmail() string {
	return r.email
}

// Connect opens (or replaces) a user's spreadsheet session.
func (r *Registry) Connect(ctx context.Context, userID int64, url string) error {
	store, err := Open(ctx, r.svc, userID, url)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.sessions[userID] = store
	r.mu.Unlock()
	return nil
}

// StoreFor returns the user's session, if connected.
func (r *Registry) StoreFor(userID int64) (ports.Store, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[userID]
	if !ok {
		return nil, false
	}
	return s, true
}

// URLFor returns the connected spreadsheet URL for a user.
func (r *Registry) URLFor(userID int64) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[userID]
	if !ok {
		return "", false
	}
	return s.URL(), true
}
