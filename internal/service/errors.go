package service

import "errors"

// Service-level failures. Controllers translate these to HTTP statuses
// (404, 403 and 400); everything else maps through the error middleware.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrNotOwner           = errors.New("not the owner of this resource")
	ErrInvalidProviderKey = errors.New("invalid provider key")
)
