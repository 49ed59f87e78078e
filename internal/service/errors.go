package service

import "errors"

// Errors reported to clients as unsuccessful results rather than HTTP errors.
var (
	ErrMissingArguments    = errors.New("Не указаны все необходимые аргументы")
	ErrIngestionInProgress = errors.New("price list ingestion already in progress for this shop")
	ErrEmptyBasket         = errors.New("basket is empty")
	ErrBasketNotFound      = errors.New("basket not found")
)
