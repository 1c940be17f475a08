package repositories

import (
	"database/sql"
	"errors"

	"campusmarket/internal/models"
)

type TokenRepository interface {
	Create(userID int, tokenHash string) (*models.AccessToken, error)
	// GetUserByTokenHash returns the owner of a live token, nil when the
	// token is unknown (never issued or already revoked).
	GetUserByTokenHash(tokenHash string) (*models.User, error)
	// DeleteByTokenHash revokes a token; false when nothing was deleted.
	DeleteByTokenHash(tokenHash string) (bool, error)
	DeleteAllForUser(userID int) error
}

type tokenRepository struct {
	DB *sql.DB
}

func NewTokenRepository(db *sql.DB) TokenRepository {
	return &tokenRepository{DB: db}
}

func (r *tokenRepository) Create(userID int, tokenHash string) (*models.AccessToken, error) {
	t := &models.AccessToken{UserID: userID, TokenHash: tokenHash}
	err := r.DB.QueryRow(`
		INSERT INTO access_tokens (user_id, token_hash)
		VALUES ($1,$2)
		RETURNING id, created_at
	`, userID, tokenHash).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *tokenRepository) GetUserByTokenHash(tokenHash string) (*models.User, error) {
	const q = `
		SELECT
			u.id, u.name, u.email, u.password_hash, u.phone, u.student_id,
			u.email_verified_at,
			u.email_verification_code, u.email_verification_expires_at,
			u.password_reset_code, u.password_reset_expires_at,
			u.created_at
		FROM access_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.token_hash = $1
	`
	u, err := scanUser(r.DB.QueryRow(q, tokenHash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *tokenRepository) DeleteByTokenHash(tokenHash string) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM access_tokens WHERE token_hash=$1`, tokenHash)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *tokenRepository) DeleteAllForUser(userID int) error {
	_, err := r.DB.Exec(`DELETE FROM access_tokens WHERE user_id=$1`, userID)
	return err
}
