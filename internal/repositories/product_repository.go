package repositories

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"campusmarket/internal/models"
)

type ProductRepository interface {
	Create(p *models.Product) error
	GetByID(id int) (*models.Product, error)
	List(limit, offset int) ([]*models.Product, error)
	ListByUser(userID, limit, offset int) ([]*models.Product, error)
	Delete(id int) (bool, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `id, user_id, title, category, price, description, images, sold, created_at`

func (r *productRepository) Create(p *models.Product) error {
	const q = `
		INSERT INTO products (user_id, title, category, price, description, images)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, sold, created_at
	`
	return r.DB.QueryRow(q,
		p.UserID,
		p.Title,
		p.Category,
		p.Price,
		p.Description,
		pq.StringArray(p.Images),
	).Scan(&p.ID, &p.Sold, &p.CreatedAt)
}

func scanProduct(row rowScanner) (*models.Product, error) {
	p := &models.Product{}
	var (
		desc   sql.NullString
		images pq.StringArray
	)
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Category, &p.Price, &desc, &images, &p.Sold, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		s := desc.String
		p.Description = &s
	}
	p.Images = []string(images)
	return p, nil
}

func (r *productRepository) GetByID(id int) (*models.Product, error) {
	p, err := scanProduct(r.DB.QueryRow(`SELECT `+productColumns+` FROM products WHERE id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *productRepository) List(limit, offset int) ([]*models.Product, error) {
	rows, err := r.DB.Query(`SELECT `+productColumns+` FROM products ORDER BY id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *productRepository) ListByUser(userID, limit, offset int) ([]*models.Product, error) {
	rows, err := r.DB.Query(`
		SELECT `+productColumns+`
		FROM products
		WHERE user_id=$1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func collectProducts(rows *sql.Rows) ([]*models.Product, error) {
	var res []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *productRepository) Delete(id int) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
