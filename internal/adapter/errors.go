package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("mail relay rejected the request")
	ErrUnauthorized        = errors.New("mail relay rejected the api key")
	ErrRateLimited         = errors.New("mail relay rate limit exceeded")
	ErrInternalServerError = errors.New("mail relay internal error")
)
