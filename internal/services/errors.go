package services

import "errors"

// Domain errors. Handlers map these to HTTP statuses; anything else is a 500.
var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidCode        = errors.New("invalid code")
	ErrCodeExpired        = errors.New("code expired")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnauthorized       = errors.New("unauthorized")

	ErrProductNotFound  = errors.New("product not found")
	ErrNotProductOwner  = errors.New("not the product owner")
	ErrProductSold      = errors.New("product already sold")
	ErrWishlistConflict = errors.New("product already in wishlist")
	ErrWishlistMissing  = errors.New("item not found in wishlist")
	ErrReceiverNotFound = errors.New("receiver not found")
)
