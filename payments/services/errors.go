package services

import "errors"

var (
	// ErrReferenceNotFound means a webhook reference does not correlate
	// to any application. No mutation happens; the caller surfaces a 404.
	ErrReferenceNotFound = errors.New("payment reference not found")

	// ErrAlreadyPaid rejects re-initiation for an application whose
	// contract payment already succeeded.
	ErrAlreadyPaid = errors.New("contract payment already successful")

	// ErrContractNotRequired rejects initiation when the property does
	// not gate approval behind a tenancy contract.
	ErrContractNotRequired = errors.New("property does not require a tenancy contract")

	// ErrValidation covers webhook payloads missing required correlation
	// fields; rejected before any lookup.
	ErrValidation = errors.New("invalid payment payload")
)
