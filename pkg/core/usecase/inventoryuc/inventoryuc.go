// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package inventoryuc contains the inventory life-cycle UseCase,
// wrapping the external record service with the legal state graph of
// car records. Two kinds of use cases are supported:
//  1. Transitions, which mutate one car record (create, update,
//     reserve, sell, cancel-reservation, and delete),
//  2. Queries, which list the car records of one status filter (see
//     the Query type).
//
// Every transition checks its source-state precondition and validates
// its attached data locally before any call leaves the process; a
// record in the wrong source state is rejected with a cerr.Conflict
// error instead of being silently ignored. A successful transition is
// the caller's signal that the currently displayed filtered set is
// invalidated and must be re-queried; no local projection is patched
// in place.
package inventoryuc

import (
	"context"
	"fmt"

	"github.com/momeni/dealership/pkg/core/cerr"
	"github.com/momeni/dealership/pkg/core/model"
	"github.com/momeni/dealership/pkg/core/service"
	"github.com/momeni/dealership/pkg/core/validate"
)

// sourceStates encodes the legal state graph for all transitions
// which act on an existing car record: each operation is permitted
// from exactly one source state. There is no edge from reserved to
// sold; a reservation must be cancelled before the car can be sold.
// Since the sold state is the source of no edge, it is terminal.
var sourceStates = map[string]model.CarStatus{
	"update":             model.CarStatusAvailable,
	"reserve":            model.CarStatusAvailable,
	"sell":               model.CarStatusAvailable,
	"delete":             model.CarStatusAvailable,
	"cancel-reservation": model.CarStatusReserved,
}

// UseCase represents the inventory transitions use case. It holds the
// record service contract instance which ultimately applies each
// accepted mutation and owns the durable storage.
type UseCase struct {
	svc service.Records
}

// New instantiates an inventory transitions use case.
func New(svc service.Records) *UseCase {
	return &UseCase{svc: svc}
}

// precondition rejects the op transition with a cerr.Conflict error
// unless the car record is in the single source state which the legal
// state graph permits for it. The check relies on the caller's last
// fetched view of the record; the record service re-checks the same
// condition atomically, so a concurrent mutation by another client
// still cannot slip an illegal transition through.
func precondition(car *model.Car, op string) error {
	from, ok := sourceStates[op]
	if !ok {
		panic("unknown transition: " + op)
	}
	if car.Status != from {
		return cerr.Conflict(fmt.Errorf(
			"cannot %s car %s: status is %s, not %s",
			op, car.ID, car.Status, from,
		))
	}
	return nil
}

// Create use case persists a new car record with the given details
// and picture. The record is created in the available status with no
// customer. The picture attachment is mandatory here, despite the
// update transition where it may be omitted.
func (inv *UseCase) Create(
	ctx context.Context,
	details model.CarDetails,
	picture model.Attachment,
) (*model.Car, error) {
	if err := validate.Car(details, &picture, true); err != nil {
		return nil, cerr.BadRequest(err)
	}
	car, err := inv.svc.Create(ctx, details, picture)
	if err != nil {
		return nil, fmt.Errorf("creating car record: %w", err)
	}
	return car, nil
}

// Update use case replaces the descriptive fields of the given
// available car record. A nil picture keeps the stored picture;
// a non-nil picture replaces it.
func (inv *UseCase) Update(
	ctx context.Context,
	car *model.Car,
	details model.CarDetails,
	picture *model.Attachment,
) (*model.Car, error) {
	if err := precondition(car, "update"); err != nil {
		return nil, err
	}
	if err := validate.Car(details, picture, false); err != nil {
		return nil, cerr.BadRequest(err)
	}
	updated, err := inv.svc.Update(ctx, car.ID, details, picture)
	if err != nil {
		return nil, fmt.Errorf("updating car record: %w", err)
	}
	return updated, nil
}

// Reserve use case attaches the given customer to an available car
// record, moving it to the reserved status.
func (inv *UseCase) Reserve(
	ctx context.Context, car *model.Car, customer model.Customer,
) (*model.Car, error) {
	if err := precondition(car, "reserve"); err != nil {
		return nil, err
	}
	if err := validate.Customer(customer); err != nil {
		return nil, cerr.BadRequest(err)
	}
	reserved, err := inv.svc.Reserve(ctx, car.ID, customer)
	if err != nil {
		return nil, fmt.Errorf("reserving car record: %w", err)
	}
	return reserved, nil
}

// Sell use case attaches the given customer to an available car
// record, moving it to the sold status. The sold status is terminal,
// so this transition may not be undone.
func (inv *UseCase) Sell(
	ctx context.Context, car *model.Car, customer model.Customer,
) (*model.Car, error) {
	if err := precondition(car, "sell"); err != nil {
		return nil, err
	}
	if err := validate.Customer(customer); err != nil {
		return nil, cerr.BadRequest(err)
	}
	sold, err := inv.svc.Sell(ctx, car.ID, customer)
	if err != nil {
		return nil, fmt.Errorf("selling car record: %w", err)
	}
	return sold, nil
}

// CancelReservation use case moves the given reserved car record back
// to the available status, clearing its customer.
func (inv *UseCase) CancelReservation(
	ctx context.Context, car *model.Car,
) (*model.Car, error) {
	if err := precondition(car, "cancel-reservation"); err != nil {
		return nil, err
	}
	cancelled, err := inv.svc.CancelReservation(ctx, car.ID)
	if err != nil {
		return nil, fmt.Errorf("cancelling reservation: %w", err)
	}
	return cancelled, nil
}

// Delete use case destroys the given available car record together
// with its stored picture.
func (inv *UseCase) Delete(ctx context.Context, car *model.Car) error {
	if err := precondition(car, "delete"); err != nil {
		return err
	}
	if err := inv.svc.Delete(ctx, car.ID); err != nil {
		return fmt.Errorf("deleting car record: %w", err)
	}
	return nil
}
