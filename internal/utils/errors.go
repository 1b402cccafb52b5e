package utils

import "errors"

// Common application errors used across services. The messages double as the
// API error strings returned to clients, so wording is part of the contract.
var (
	ErrValidation         = errors.New("All fields are required")
	ErrInvalidCategory    = errors.New("Invalid category ID")
	ErrMissingImage       = errors.New("Product image is required")
	ErrEmptyUpdate        = errors.New("No update fields provided")
	ErrProductNotFound    = errors.New("Product not found")
	ErrCategoryNotFound   = errors.New("Category not found")
	ErrDuplicateReview    = errors.New("Product already reviewed")
	ErrInvalidRating      = errors.New("Rating must be between 1 and 5")
	ErrInvalidNumber      = errors.New("Invalid numeric field")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrUserExists         = errors.New("User already exists")
)
