// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package workflowuc contains the action workflow UseCase which
// orchestrates the two user-facing interaction shapes of the
// inventory: confirm-only actions (delete and cancel-reservation)
// and collect-customer-then-confirm actions (reserve and sell).
// The actual presentation is owned by the caller through the
// Confirmer and CustomerForm interfaces, keeping this package
// independent of any UI event-loop mechanism; a terminal front-end
// and the test suites provide their own implementations.
package workflowuc

import (
	"context"
	"fmt"

	"github.com/momeni/dealership/pkg/core/cerr"
	"github.com/momeni/dealership/pkg/core/model"
	"github.com/momeni/dealership/pkg/core/usecase/inventoryuc"
)

// Prompt carries the human readable texts which must be presented
// before an action may proceed.
type Prompt struct {
	Title   string // dialog title, e.g., "Confirm Sale"
	Message string // summary of the target record and the act
	Warning string // non-dismissable warning for irreversible acts
}

// Confirmer presents a Prompt and reports the end-user's decision.
// Returning false aborts the action with no side effect at all.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// CustomerForm presents a Prompt together with a customer-data form.
// Returning ok=false means the form was dismissed and the action must
// be aborted with no side effect. The collected candidate is not
// trusted; it is validated before any request leaves the process.
type CustomerForm interface {
	Collect(ctx context.Context, p Prompt) (
		c model.Customer, ok bool, err error,
	)
}

// UseCase represents the action workflow use case. It holds the
// inventory transitions use case which ultimately applies each
// confirmed action, and the caller-supplied presentation interfaces.
type UseCase struct {
	inv     *inventoryuc.UseCase
	confirm Confirmer
	form    CustomerForm
}

// New instantiates an action workflow use case.
func New(
	inv *inventoryuc.UseCase, c Confirmer, f CustomerForm,
) *UseCase {
	return &UseCase{inv: inv, confirm: c, form: f}
}

// Act runs the workflow of the given action against the car record.
// It returns done=true if the action was confirmed and applied, in
// which case the caller must re-query the active inventory filter
// since the displayed set is invalidated. It returns done=false with
// a nil error if the end-user dismissed the dialog.
// Failed actions keep the record unchanged; the caller is expected to
// present the error and may run Act again for a manual retry.
func (wf *UseCase) Act(
	ctx context.Context, action model.Action, car *model.Car,
) (done bool, err error) {
	if err := action.Validate(); err != nil {
		return false, cerr.BadRequest(err)
	}
	p := prompt(action, car)
	if action.CollectsCustomer() {
		customer, ok, err := wf.form.Collect(ctx, p)
		if err != nil {
			return false, fmt.Errorf("collecting customer: %w", err)
		}
		if !ok {
			return false, nil
		}
		switch action {
		case model.ActionReserve:
			_, err = wf.inv.Reserve(ctx, car, customer)
		case model.ActionSell:
			_, err = wf.inv.Sell(ctx, car, customer)
		}
		if err != nil {
			return false, err
		}
		return true, nil
	}
	ok, err := wf.confirm.Confirm(ctx, p)
	if err != nil {
		return false, fmt.Errorf("confirming %s: %w", action, err)
	}
	if !ok {
		return false, nil
	}
	switch action {
	case model.ActionDelete:
		err = wf.inv.Delete(ctx, car)
	case model.ActionCancel:
		_, err = wf.inv.CancelReservation(ctx, car)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// BeginEdit opens the edit flow for the given car record, returning
// its current descriptive fields for pre-filling the form. Editing is
// only offered for available records; for any other state the flow is
// refused with a cerr.Conflict error, matching the precondition of
// the update transition instead of merely hiding the entry point.
func (wf *UseCase) BeginEdit(car *model.Car) (
	model.CarDetails, error,
) {
	if car.Status != model.CarStatusAvailable {
		return model.CarDetails{}, cerr.Conflict(fmt.Errorf(
			"cannot edit car %s: status is %s, not %s",
			car.ID, car.Status, model.CarStatusAvailable,
		))
	}
	return model.CarDetails{
		Make:  car.Make,
		Model: car.Model,
		Year:  car.Year,
		Price: car.Price,
	}, nil
}

// prompt builds the presentation texts of the given action, matching
// the exhaustive set of valid Action values.
func prompt(action model.Action, car *model.Car) Prompt {
	target := fmt.Sprintf("%s %s", car.Make, car.Model)
	switch action {
	case model.ActionReserve:
		return Prompt{
			Title: "Confirm Reservation",
			Message: fmt.Sprintf(
				"Are you sure you want to reserve %s?", target,
			),
		}
	case model.ActionSell:
		return Prompt{
			Title: "Confirm Sale",
			Message: fmt.Sprintf(
				"Are you sure you want to sell %s?", target,
			),
			Warning: "This action is irreversible.",
		}
	case model.ActionDelete:
		return Prompt{
			Title: "Confirm Car Deletion",
			Message: fmt.Sprintf(
				"Are you sure you want to delete %s?", target,
			),
			Warning: "This action is irreversible.",
		}
	case model.ActionCancel:
		var by string
		if car.Customer != nil {
			by = " by " + car.Customer.FullName
		}
		return Prompt{
			Title: "Confirm Cancellation",
			Message: fmt.Sprintf(
				"Are you sure you want to cancel the reservation"+
					" for %s%s?", target, by,
			),
		}
	default:
		panic("unknown inventory action: " + action.String())
	}
}
