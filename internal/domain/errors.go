package domain

import "errors"

var (
	ErrEmptyName       = errors.New("enterprise name is empty")
	ErrNameTooLong     = errors.New("enterprise name too long")
	ErrCategoryTooLong = errors.New("enterprise category too long")
	ErrAddressTooLong  = errors.New("enterprise address too long")
)

var (
	ErrEmptyServiceName = errors.New("service name is empty")
	ErrInvalidPrice     = errors.New("invalid price format")
)

var (
	ErrEmptyAuthor     = errors.New("review author is empty")
	ErrAuthorTooLong   = errors.New("review author too long")
	ErrInvalidRating   = errors.New("review rating out of range")
	ErrTextTooLong     = errors.New("review text too long")
	ErrResponseTooLong = errors.New("owner response too long")
)

var (
	ErrInvalidDocument = errors.New("invalid source document")
	ErrNoRecord        = errors.New("no record produced")
)
