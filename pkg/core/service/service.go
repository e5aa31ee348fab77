// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package service declares the narrow contract of the external record
// service, as seen by the client-side use cases. The record service
// owns the durable storage of car records; clients never cache or
// locally patch records and treat every returned record as the
// current truth at call time.
// The pkg/adapter/recordsvc package implements this contract over
// HTTP, while the test packages provide in-memory implementations.
package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/dealership/pkg/core/model"
)

// Records is the record service contract. All mutations are atomic
// from the caller's perspective: they are either fully applied by the
// service or fully rejected. Rejections caused by a stale source
// state are reported as cerr.Conflict errors and rejections caused by
// a missing record as cerr.NotFound errors, so callers can
// distinguish them from transport failures (see TransportError).
type Records interface {
	// ListByStatus returns all car records whose status matches the
	// given filter. It is stateless and idempotent.
	ListByStatus(
		ctx context.Context, status model.CarStatus,
	) ([]model.Car, error)

	// Image returns the stored picture binary for the given opaque
	// picture reference, together with its media type.
	Image(
		ctx context.Context, pictureID uuid.UUID,
	) (*model.Attachment, error)

	// Create persists a new available car record with no customer.
	Create(
		ctx context.Context,
		details model.CarDetails,
		picture model.Attachment,
	) (*model.Car, error)

	// Update replaces the descriptive fields of an available car
	// record. A nil picture keeps the stored one; a non-nil picture
	// replaces it, assigning a fresh picture reference.
	Update(
		ctx context.Context,
		carID uuid.UUID,
		details model.CarDetails,
		picture *model.Attachment,
	) (*model.Car, error)

	// Delete destroys an available car record and its picture.
	Delete(ctx context.Context, carID uuid.UUID) error

	// Reserve attaches a customer to an available car record, moving
	// it to the reserved status.
	Reserve(
		ctx context.Context, carID uuid.UUID, customer model.Customer,
	) (*model.Car, error)

	// Sell attaches a customer to an available car record, moving it
	// to the terminal sold status.
	Sell(
		ctx context.Context, carID uuid.UUID, customer model.Customer,
	) (*model.Car, error)

	// CancelReservation moves a reserved car record back to the
	// available status, clearing its customer.
	CancelReservation(
		ctx context.Context, carID uuid.UUID,
	) (*model.Car, error)
}

// TransportError indicates that a call to the record service failed
// before a definite outcome could be observed, e.g., due to a network
// failure or a non-success status without a recognized meaning.
// It is not field-scoped; callers surface it as a generic message,
// keep their dialog open, and let the end-user retry manually. The
// operation is never retried automatically.
type TransportError struct {
	Op  string // the attempted operation, e.g., "reserve"
	Err error  // the underlying failure
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return "record service " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying failure.
func (e *TransportError) Unwrap() error {
	return e.Err
}
