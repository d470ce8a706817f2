package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultBaseURL   = "https://api.github.com"
	usersFile        = "users.json"
	transactionsFile = "transactions.json"
)

// GistStore keeps the ledger snapshot in a GitHub gist: users.json and
// transactions.json, always written together in a single PATCH.
type GistStore struct {
	client  *http.Client
	baseURL string
	token   string
	gistID  string
	log     zerolog.Logger
}

func NewGistStore(token, gistID string, log zerolog.Logger) *GistStore {
	return &GistStore{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: defaultBaseURL,
		token:   token,
		gistID:  gistID,
		log:     log,
	}
}

// Gist API payload shapes. Only the fields we use.
type gistFile struct {
	Content string `json:"content"`
}

type gistPayload struct {
	Files map[string]gistFile `json:"files"`
}

// Load fetches both documents from the gist. A missing, empty or
// unparseable file yields empty defaults rather than an error; only
// transport-level failures are reported, so the caller can start with a
// blank ledger and keep going.
func (g *GistStore) Load(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{Accounts: make(map[int64]AccountRecord)}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.gistURL(), nil)
	if err != nil {
		return snap, err
	}
	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return snap, fmt.Errorf("fetch gist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return snap, fmt.Errorf("fetch gist: unexpected status %s", resp.Status)
	}

	var payload gistPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return snap, fmt.Errorf("decode gist: %w", err)
	}

	if f, ok := payload.Files[usersFile]; ok && f.Content != "" {
		if err := json.Unmarshal([]byte(f.Content), &snap.Accounts); err != nil {
			g.log.Warn().Err(err).Str("file", usersFile).Msg("unreadable document, starting empty")
			snap.Accounts = make(map[int64]AccountRecord)
		}
	}
	if f, ok := payload.Files[transactionsFile]; ok && f.Content != "" {
		if err := json.Unmarshal([]byte(f.Content), &snap.Transactions); err != nil {
			g.log.Warn().Err(err).Str("file", transactionsFile).Msg("unreadable document, starting empty")
			snap.Transactions = nil
		}
	}
	return snap, nil
}

// Save writes both documents back in one request so accounts and
// transactions never diverge on the remote side.
func (g *GistStore) Save(ctx context.Context, snap Snapshot) error {
	users, err := json.MarshalIndent(snap.Accounts, "", "  ")
	if err != nil {
		return err
	}
	txs, err := json.MarshalIndent(snap.Transactions, "", "  ")
	if err != nil {
		return err
	}

	body, err := json.Marshal(gistPayload{Files: map[string]gistFile{
		usersFile:        {Content: string(users)},
		transactionsFile: {Content: string(txs)},
	}})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, g.gistURL(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	g.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("update gist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("update gist: unexpected status %s", resp.Status)
	}

	g.log.Debug().
		Int("accounts", len(snap.Accounts)).
		Int("transactions", len(snap.Transactions)).
		Msg("snapshot saved")
	return nil
}

func (g *GistStore) gistURL() string {
	return g.baseURL + "/gists/" + g.gistID
}

func (g *GistStore) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "token "+g.token)
	req.Header.Set("Accept", "application/vnd.github+json")
}
