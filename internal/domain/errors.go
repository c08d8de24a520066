package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("rate limited")
	ErrUnauthorized = errors.New("unauthorized")
	ErrMalformed    = errors.New("malformed data")
	ErrCacheMiss    = errors.New("cache miss")
)
