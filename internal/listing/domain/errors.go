package domain

import "errors"

var (
	// ErrListingNotFound indicates that a requested listing does not exist.
	ErrListingNotFound = errors.New("listing not found")
	// ErrEnquiryNotFound indicates that a requested enquiry does not exist.
	ErrEnquiryNotFound = errors.New("enquiry not found")
	// ErrForbidden indicates that the user is not authorized to perform the action.
	ErrForbidden = errors.New("action forbidden")
	// ErrInvalidInput indicates that the provided input data is invalid.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrInvalidStatusTransition indicates a moderation transition that is not allowed.
	ErrInvalidStatusTransition = errors.New("invalid listing status transition")
	// ErrRepository indicates a generic data persistence error.
	ErrRepository = errors.New("repository error")
)
