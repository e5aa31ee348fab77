// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/dealership/pkg/core/model"
)

// CarsConnQueryer is a CarsQueryer which operates on a single
// connection, hence, each query runs in its own implicit transaction.
type CarsConnQueryer interface {
	CarsQueryer
}

// CarsTxQueryer is a CarsQueryer which operates within an ongoing
// transaction, so multiple queries (e.g., a status-guarded deletion
// of a car row and the removal of its picture blob) may be applied
// atomically.
type CarsTxQueryer interface {
	CarsQueryer
}

// CarsQueryer provides the queries which the cars use case needs to
// run against the durable storage. Status-guarded mutations apply the
// source-state precondition of their transition inside the UPDATE or
// DELETE statement itself, so a concurrent mutation from another
// connection can never interleave between the check and the change.
// A guarded mutation which matches no row reports cerr.NotFound if
// the car record does not exist at all and cerr.Conflict if it
// exists in a different status.
type CarsQueryer interface {
	// ListByStatus returns all car records in the given status.
	ListByStatus(
		ctx context.Context, status model.CarStatus,
	) ([]model.Car, error)

	// Fetch returns the car record with the given ID, or cerr.NotFound.
	Fetch(ctx context.Context, carID uuid.UUID) (*model.Car, error)

	// Insert persists a new available car record with no customer,
	// referring to an already stored picture blob.
	Insert(
		ctx context.Context,
		details model.CarDetails,
		pictureID uuid.UUID,
	) (*model.Car, error)

	// Update replaces the descriptive fields of an available car
	// record. A non-nil pictureID also replaces the picture
	// reference; the previous blob is not touched here and must be
	// removed by the caller within the same transaction.
	Update(
		ctx context.Context,
		carID uuid.UUID,
		details model.CarDetails,
		pictureID *uuid.UUID,
	) (*model.Car, error)

	// Delete destroys an available car record, returning the picture
	// reference of the destroyed row so its blob can be removed too.
	Delete(ctx context.Context, carID uuid.UUID) (uuid.UUID, error)

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

// Cars specifies the expected interface of a cars repository which
// can wrap a Conn or Tx instance, obtaining a queryer which runs its
// queries over that connection or transaction.
type Cars interface {
	Conn(Conn) CarsConnQueryer
	Tx(Tx) CarsTxQueryer
}
