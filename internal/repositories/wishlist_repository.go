package repositories

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"campusmarket/internal/models"
)

// ErrDuplicateWishlist reports a product already present on the user's wishlist.
var ErrDuplicateWishlist = errors.New("product already in wishlist")

type WishlistRepository interface {
	Add(userID, productID int) (*models.WishlistItem, error)
	ListByUser(userID, limit, offset int) ([]*models.WishlistItem, error)
	Remove(userID, productID int) (bool, error)
	Exists(userID, productID int) (bool, error)
}

type wishlistRepository struct {
	DB *sql.DB
}

func NewWishlistRepository(db *sql.DB) WishlistRepository {
	return &wishlistRepository{DB: db}
}

func (r *wishlistRepository) Add(userID, productID int) (*models.WishlistItem, error) {
	item := &models.WishlistItem{UserID: userID, ProductID: productID}
	err := r.DB.QueryRow(`
		INSERT INTO wishlists (user_id, product_id)
		VALUES ($1,$2)
		RETURNING id, created_at
	`, userID, productID).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateWishlist
		}
		return nil, err
	}
	return item, nil
}

func (r *wishlistRepository) ListByUser(userID, limit, offset int) ([]*models.WishlistItem, error) {
	const q = `
		SELECT
			w.id, w.user_id, w.product_id, w.created_at,
			p.id, p.user_id, p.title, p.category, p.price, p.description, p.images, p.sold, p.created_at
		FROM wishlists w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.Query(q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.WishlistItem
	for rows.Next() {
		item := &models.WishlistItem{Product: &models.Product{}}
		var (
			desc   sql.NullString
			images pq.StringArray
		)
		err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt,
			&item.Product.ID, &item.Product.UserID, &item.Product.Title, &item.Product.Category,
			&item.Product.Price, &desc, &images, &item.Product.Sold, &item.Product.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if desc.Valid {
			s := desc.String
			item.Product.Description = &s
		}
		item.Product.Images = []string(images)
		res = append(res, item)
	}
	return res, rows.Err()
}

func (r *wishlistRepository) Remove(userID, productID int) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM wishlists WHERE user_id=$1 AND product_id=$2`, userID, productID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *wishlistRepository) Exists(userID, productID int) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM wishlists WHERE user_id=$1 AND product_id=$2)
	`, userID, productID).Scan(&exists)
	return exists, err
}
