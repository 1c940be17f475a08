package services

import (
	"errors"

	"campusmarket/internal/models"
	"campusmarket/internal/repositories"
)

type SellService interface {
	// Sell records a sale of the seller's own product. ErrProductNotFound,
	// ErrNotProductOwner and ErrProductSold classify the failure modes; the
	// sold-flag flip and the sell row commit together.
	Sell(productID, sellerUserID int, buyerUserID *int) (*models.Sell, error)
	ListBySeller(sellerUserID, limit, offset int) ([]*models.Sell, error)
}

type sellService struct {
	repo     repositories.SellRepository
	products repositories.ProductRepository
	users    repositories.UserRepository
}

func NewSellService(repo repositories.SellRepository, products repositories.ProductRepository, users repositories.UserRepository) SellService {
	return &sellService{repo: repo, products: products, users: users}
}

func (s *sellService) Sell(productID, sellerUserID int, buyerUserID *int) (*models.Sell, error) {
	p, err := s.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	if p.UserID != sellerUserID {
		return nil, ErrNotProductOwner
	}
	if p.Sold {
		return nil, ErrProductSold
	}
	if buyerUserID != nil {
		buyer, err := s.users.GetByID(*buyerUserID)
		if err != nil {
			return nil, err
		}
		if buyer == nil {
			return nil, ErrUserNotFound
		}
	}

	sell, err := s.repo.CreateSale(productID, sellerUserID, buyerUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrAlreadySold) {
			// lost the race against a concurrent sale
			return nil, ErrProductSold
		}
		return nil, err
	}
	p.Sold = true
	sell.Product = p
	return sell, nil
}

func (s *sellService) ListBySeller(sellerUserID, limit, offset int) ([]*models.Sell, error) {
	return s.repo.ListBySeller(sellerUserID, limit, offset)
}
