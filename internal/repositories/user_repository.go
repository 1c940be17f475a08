package repositories

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"campusmarket/internal/models"
)

// ErrDuplicateEmail reports a unique-constraint violation on users.email.
var ErrDuplicateEmail = errors.New("email already taken")

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	List(limit, offset int) ([]*models.User, error)

	// challenge helpers
	SetVerificationChallenge(userID int, code string, expiresAt time.Time) error
	SetResetChallenge(userID int, code string, expiresAt time.Time) error

	// ConsumeVerificationCode atomically marks the user verified and clears the
	// challenge, keyed on the still-matching code. Returns false when another
	// request consumed it first (or the code no longer matches).
	ConsumeVerificationCode(userID int, code string, verifiedAt time.Time) (bool, error)

	// ConsumeResetCode atomically replaces the password hash and clears the
	// reset challenge, keyed on the still-matching code.
	ConsumeResetCode(userID int, code string, passwordHash string) (bool, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, name, email, password_hash, phone, student_id,
	email_verified_at,
	email_verification_code, email_verification_expires_at,
	password_reset_code, password_reset_expires_at,
	created_at
`

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (
			name, email, password_hash, phone, student_id,
			email_verification_code, email_verification_expires_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(q,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.StudentID,
		user.VerificationCode,
		user.VerificationExpiresAt,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var (
		verifiedAt sql.NullTime
		vCode      sql.NullString
		vExpires   sql.NullTime
		rCode      sql.NullString
		rExpires   sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.StudentID,
		&verifiedAt,
		&vCode, &vExpires,
		&rCode, &rExpires,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		u.EmailVerifiedAt = &t
	}
	if vCode.Valid {
		s := vCode.String
		u.VerificationCode = &s
	}
	if vExpires.Valid {
		t := vExpires.Time
		u.VerificationExpiresAt = &t
	}
	if rCode.Valid {
		s := rCode.String
		u.ResetCode = &s
	}
	if rExpires.Valid {
		t := rExpires.Time
		u.ResetExpiresAt = &t
	}
	return u, nil
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) List(limit, offset int) ([]*models.User, error) {
	rows, err := r.DB.Query(`SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

// ===== challenge helpers =====

func (r *userRepository) SetVerificationChallenge(userID int, code string, expiresAt time.Time) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET email_verification_code=$1, email_verification_expires_at=$2
		WHERE id=$3
	`, code, expiresAt, userID)
	return err
}

func (r *userRepository) SetResetChallenge(userID int, code string, expiresAt time.Time) error {
	_, err := r.DB.Exec(`
		UPDATE users
		SET password_reset_code=$1, password_reset_expires_at=$2
		WHERE id=$3
	`, code, expiresAt, userID)
	return err
}

func (r *userRepository) ConsumeVerificationCode(userID int, code string, verifiedAt time.Time) (bool, error) {
	res, err := r.DB.Exec(`
		UPDATE users
		SET email_verified_at=$1,
		    email_verification_code=NULL,
		    email_verification_expires_at=NULL
		WHERE id=$2
		  AND email_verification_code=$3
		  AND email_verified_at IS NULL
	`, verifiedAt, userID, code)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *userRepository) ConsumeResetCode(userID int, code string, passwordHash string) (bool, error) {
	res, err := r.DB.Exec(`
		UPDATE users
		SET password_hash=$1,
		    password_reset_code=NULL,
		    password_reset_expires_at=NULL
		WHERE id=$2
		  AND password_reset_code=$3
	`, passwordHash, userID, code)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}
