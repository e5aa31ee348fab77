// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package workflowuc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/momeni/dealership/pkg/core/cerr"
	"github.com/momeni/dealership/pkg/core/model"
	"github.com/momeni/dealership/pkg/core/service"
	"github.com/momeni/dealership/pkg/core/usecase/inventoryuc"
	"github.com/momeni/dealership/pkg/core/usecase/workflowuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedUI implements both presentation interfaces with canned
// answers, recording the prompts it was shown.
type scriptedUI struct {
	answer   bool
	customer model.Customer
	err      error

	prompts []workflowuc.Prompt
}

func (ui *scriptedUI) Confirm(
	_ context.Context, p workflowuc.Prompt,
) (bool, error) {
	ui.prompts = append(ui.prompts, p)
	return ui.answer, ui.err
}

func (ui *scriptedUI) Collect(
	_ context.Context, p workflowuc.Prompt,
) (model.Customer, bool, error) {
	ui.prompts = append(ui.prompts, p)
	return ui.customer, ui.answer, ui.err
}

// recordingSvc implements service.Records, recording the mutations
// which reached the record service.
type recordingSvc struct {
	service.Records // nil; panics on any unscripted call

	calls []string
	err   error
}

func (s *recordingSvc) result(car *model.Car) (*model.Car, error) {
	if s.err != nil {
		return nil, s.err
	}
	return car, nil
}

func (s *recordingSvc) Reserve(
	_ context.Context, carID uuid.UUID, c model.Customer,
) (*model.Car, error) {
	s.calls = append(s.calls, "reserve")
	car := reservedCar()
	car.ID, car.Customer = carID, &c
	return s.result(car)
}

func (s *recordingSvc) Sell(
	_ context.Context, carID uuid.UUID, c model.Customer,
) (*model.Car, error) {
	s.calls = append(s.calls, "sell")
	car := reservedCar()
	car.ID, car.Status, car.Customer = carID, model.CarStatusSold, &c
	return s.result(car)
}

func (s *recordingSvc) CancelReservation(
	_ context.Context, carID uuid.UUID,
) (*model.Car, error) {
	s.calls = append(s.calls, "cancel-reservation")
	car := availableCar()
	car.ID = carID
	return s.result(car)
}

func (s *recordingSvc) Delete(
	_ context.Context, carID uuid.UUID,
) error {
	s.calls = append(s.calls, "delete")
	return s.err
}

func availableCar() *model.Car {
	return &model.Car{
		ID:      uuid.New(),
		Make:    "Toyota",
		Model:   "Corolla",
		Year:    2020,
		Price:   25000,
		Status:  model.CarStatusAvailable,
		Picture: uuid.New(),
	}
}

func reservedCar() *model.Car {
	car := availableCar()
	car.Status = model.CarStatusReserved
	car.Customer = &model.Customer{
		FullName:    "John Smith",
		Email:       "john@example.org",
		PhoneNumber: "5551234567",
	}
	return car
}

func newWorkflow(svc service.Records, ui *scriptedUI) *workflowuc.UseCase {
	return workflowuc.New(inventoryuc.New(svc), ui, ui)
}

func TestActCollectsCustomerForReserveAndSell(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		action model.Action
		call   string
		title  string
	}{
		{model.ActionReserve, "reserve", "Confirm Reservation"},
		{model.ActionSell, "sell", "Confirm Sale"},
	} {
		t.Run(tc.call, func(t *testing.T) {
			svc := &recordingSvc{}
			ui := &scriptedUI{
				answer: true,
				customer: model.Customer{
					FullName:    "John Smith",
					Email:       "john@example.org",
					PhoneNumber: "5551234567",
				},
			}
			wf := newWorkflow(svc, ui)
			done, err := wf.Act(ctx, tc.action, availableCar())
			require.NoError(t, err)
			assert.True(t, done)
			assert.Equal(t, []string{tc.call}, svc.calls)
			require.Len(t, ui.prompts, 1)
			assert.Equal(t, tc.title, ui.prompts[0].Title)
		})
	}
}

func TestActConfirmOnlyForDeleteAndCancel(t *testing.T) {
	ctx := context.Background()
	t.Run("delete", func(t *testing.T) {
		svc := &recordingSvc{}
		ui := &scriptedUI{answer: true}
		wf := newWorkflow(svc, ui)
		done, err := wf.Act(ctx, model.ActionDelete, availableCar())
		require.NoError(t, err)
		assert.True(t, done)
		assert.Equal(t, []string{"delete"}, svc.calls)
		require.Len(t, ui.prompts, 1)
		assert.Equal(t, "Confirm Car Deletion", ui.prompts[0].Title)
	})
	t.Run("cancel", func(t *testing.T) {
		svc := &recordingSvc{}
		ui := &scriptedUI{answer: true}
		wf := newWorkflow(svc, ui)
		done, err := wf.Act(ctx, model.ActionCancel, reservedCar())
		require.NoError(t, err)
		assert.True(t, done)
		assert.Equal(t, []string{"cancel-reservation"}, svc.calls)
		require.Len(t, ui.prompts, 1)
		assert.Equal(t, "Confirm Cancellation", ui.prompts[0].Title)
		assert.Contains(t, ui.prompts[0].Message, "John Smith")
	})
}

func TestActWarnsAboutIrreversibleActions(t *testing.T) {
	ctx := context.Background()
	const warning = "This action is irreversible."

	svc := &recordingSvc{}
	ui := &scriptedUI{answer: true, customer: *reservedCar().Customer}
	wf := newWorkflow(svc, ui)
	_, err := wf.Act(ctx, model.ActionSell, availableCar())
	require.NoError(t, err)
	require.Len(t, ui.prompts, 1)
	assert.Equal(t, warning, ui.prompts[0].Warning)

	ui = &scriptedUI{answer: true}
	wf = newWorkflow(svc, ui)
	_, err = wf.Act(ctx, model.ActionDelete, availableCar())
	require.NoError(t, err)
	require.Len(t, ui.prompts, 1)
	assert.Equal(t, warning, ui.prompts[0].Warning)

	ui = &scriptedUI{answer: true, customer: *reservedCar().Customer}
	wf = newWorkflow(svc, ui)
	_, err = wf.Act(ctx, model.ActionReserve, availableCar())
	require.NoError(t, err)
	require.Len(t, ui.prompts, 1)
	assert.Empty(t, ui.prompts[0].Warning, "reserve is reversible")
}

func TestActDismissalHasNoSideEffect(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		name   string
		action model.Action
		car    *model.Car
	}{
		{"reserve", model.ActionReserve, availableCar()},
		{"sell", model.ActionSell, availableCar()},
		{"delete", model.ActionDelete, availableCar()},
		{"cancel", model.ActionCancel, reservedCar()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			svc := &recordingSvc{}
			ui := &scriptedUI{answer: false}
			wf := newWorkflow(svc, ui)
			done, err := wf.Act(ctx, tc.action, tc.car)
			require.NoError(t, err)
			assert.False(t, done)
			assert.Empty(t, svc.calls)
		})
	}
}

func TestActRejectsIllegalSourceState(t *testing.T) {
	ctx := context.Background()
	svc := &recordingSvc{}
	ui := &scriptedUI{answer: true, customer: *reservedCar().Customer}
	wf := newWorkflow(svc, ui)

	sold := reservedCar()
	sold.Status = model.CarStatusSold
	for _, action := range []model.Action{
		model.ActionReserve, model.ActionSell,
		model.ActionDelete, model.ActionCancel,
	} {
		done, err := wf.Act(ctx, action, sold)
		assert.False(t, done)
		assert.True(t, cerr.IsConflict(err), "%s: got %v", action, err)
	}
	assert.Empty(t, svc.calls)
}

func TestActKeepsRecordOnFailure(t *testing.T) {
	ctx := context.Background()
	svc := &recordingSvc{
		err: &service.TransportError{
			Op:  "reserve",
			Err: errors.New("connection refused"),
		},
	}
	ui := &scriptedUI{answer: true, customer: *reservedCar().Customer}
	wf := newWorkflow(svc, ui)
	done, err := wf.Act(ctx, model.ActionReserve, availableCar())
	assert.False(t, done)
	var te *service.TransportError
	assert.ErrorAs(t, err, &te)

	// a manual retry runs the whole workflow again
	svc.err = nil
	done, err = wf.Act(ctx, model.ActionReserve, availableCar())
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, []string{"reserve", "reserve"}, svc.calls)
}

func TestBeginEdit(t *testing.T) {
	wf := newWorkflow(&recordingSvc{}, &scriptedUI{})
	car := availableCar()
	d, err := wf.BeginEdit(car)
	require.NoError(t, err)
	assert.Equal(t, model.CarDetails{
		Make:  car.Make,
		Model: car.Model,
		Year:  car.Year,
		Price: car.Price,
	}, d)

	_, err = wf.BeginEdit(reservedCar())
	assert.True(t, cerr.IsConflict(err), "got: %v", err)
}
