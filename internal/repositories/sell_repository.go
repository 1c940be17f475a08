package repositories

import (
	"database/sql"
	"errors"

	"campusmarket/internal/models"
)

// ErrAlreadySold reports a second sale attempt for the same product.
var ErrAlreadySold = errors.New("product already sold")

type SellRepository interface {
	// CreateSale marks the product sold and records the sell row in one
	// transaction. The conditional sold=FALSE update guards the double-sell
	// race: exactly one concurrent caller wins.
	CreateSale(productID, sellerUserID int, buyerUserID *int) (*models.Sell, error)
	ListBySeller(sellerUserID, limit, offset int) ([]*models.Sell, error)
}

type sellRepository struct {
	DB *sql.DB
}

func NewSellRepository(db *sql.DB) SellRepository {
	return &sellRepository{DB: db}
}

func (r *sellRepository) CreateSale(productID, sellerUserID int, buyerUserID *int) (*models.Sell, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE products SET sold=TRUE
		WHERE id=$1 AND user_id=$2 AND sold=FALSE
	`, productID, sellerUserID)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrAlreadySold
	}

	s := &models.Sell{ProductID: productID, SellerUserID: sellerUserID, BuyerUserID: buyerUserID}
	err = tx.QueryRow(`
		INSERT INTO sells (product_id, seller_user_id, buyer_user_id)
		VALUES ($1,$2,$3)
		RETURNING id, created_at
	`, productID, sellerUserID, buyerUserID).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *sellRepository) ListBySeller(sellerUserID, limit, offset int) ([]*models.Sell, error) {
	const q = `
		SELECT
			s.id, s.product_id, s.seller_user_id, s.buyer_user_id, s.created_at,
			seller.id, seller.name, seller.email,
			buyer.id, buyer.name, buyer.email
		FROM sells s
		JOIN users seller ON seller.id = s.seller_user_id
		LEFT JOIN users buyer ON buyer.id = s.buyer_user_id
		WHERE s.seller_user_id = $1
		ORDER BY s.id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.Query(q, sellerUserID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.Sell
	for rows.Next() {
		s := &models.Sell{Seller: &models.PartySummary{}}
		var (
			buyerUserID sql.NullInt64
			buyerID     sql.NullInt64
			buyerName   sql.NullString
			buyerEmail  sql.NullString
		)
		err := rows.Scan(
			&s.ID, &s.ProductID, &s.SellerUserID, &buyerUserID, &s.CreatedAt,
			&s.Seller.ID, &s.Seller.Name, &s.Seller.Email,
			&buyerID, &buyerName, &buyerEmail,
		)
		if err != nil {
			return nil, err
		}
		if buyerUserID.Valid {
			id := int(buyerUserID.Int64)
			s.BuyerUserID = &id
		}
		if buyerID.Valid {
			s.Buyer = &models.PartySummary{
				ID:    int(buyerID.Int64),
				Name:  buyerName.String,
				Email: buyerEmail.String,
			}
		}
		res = append(res, s)
	}
	return res, rows.Err()
}
