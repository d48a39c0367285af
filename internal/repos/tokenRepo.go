package repos

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/wheelibin/yadom/internal/auth"
	"github.com/wheelibin/yadom/internal/constants"
	"golang.org/x/oauth2"
)

const initSchema = `
  CREATE TABLE IF NOT EXISTS setting (
    key VARCHAR(64) PRIMARY KEY,
    value TEXT NOT NULL
  );
`

// TokenRepo persists the bearer token, the only state that outlives a restart.
type TokenRepo struct {
	logger *log.Logger
	db     *sql.DB
}

func NewTokenRepo(logger *log.Logger, db *sql.DB) (*TokenRepo, error) {

	_, err := db.Exec(initSchema)
	if err != nil {
		return nil, fmt.Errorf("Error initialising setting schema: %w", err)
	}

	return &TokenRepo{logger: logger, db: db}, nil
}

// GetToken returns the stored token, or an empty string when there is none.
func (r *TokenRepo) GetToken() (string, error) {
	row := r.db.QueryRow("SELECT value FROM setting WHERE key = $1", constants.TokenKey)
	var token string
	err := row.Scan(&token)

	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		} else {
			return "", fmt.Errorf("Error reading token: %w", err)
		}
	}
	return token, nil
}

func (r *TokenRepo) SetToken(token string) error {
	_, err := r.db.Exec(`
    INSERT INTO setting (key, value) VALUES ($1, $2)
    ON CONFLICT(key) DO UPDATE SET value = excluded.value`, constants.TokenKey, token)
	if err != nil {
		return fmt.Errorf("Error saving token: %w", err)
	}
	r.logger.Debug("token saved")
	return nil
}

func (r *TokenRepo) ClearToken() error {
	_, err := r.db.Exec("DELETE FROM setting WHERE key = $1", constants.TokenKey)
	if err != nil {
		return fmt.Errorf("Error clearing token: %w", err)
	}
	r.logger.Debug("token cleared")
	return nil
}

// Token implements oauth2.TokenSource so the api client can authorise
// requests with whatever token is currently stored.
func (r *TokenRepo) Token() (*oauth2.Token, error) {
	token, err := r.GetToken()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, auth.ErrNoToken
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}
