package product

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrUnknownCategory   = errors.New("unknown product category")
	ErrSubscriptionEnded = errors.New("product feed subscription ended")
)
