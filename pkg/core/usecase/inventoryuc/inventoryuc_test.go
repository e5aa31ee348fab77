// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package inventoryuc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/momeni/dealership/pkg/core/cerr"
	"github.com/momeni/dealership/pkg/core/model"
	"github.com/momeni/dealership/pkg/core/usecase/inventoryuc"
	"github.com/momeni/dealership/pkg/core/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecords implements the service.Records contract with per-call
// hooks, so each test can script the record service behavior and
// observe which calls left the use case.
type fakeRecords struct {
	listByStatus func(model.CarStatus) ([]model.Car, error)
	create       func(model.CarDetails, model.Attachment) (*model.Car, error)
	update       func(uuid.UUID, model.CarDetails, *model.Attachment) (*model.Car, error)
	delete       func(uuid.UUID) error
	reserve      func(uuid.UUID, model.Customer) (*model.Car, error)
	sell         func(uuid.UUID, model.Customer) (*model.Car, error)
	cancel       func(uuid.UUID) (*model.Car, error)
}

func (f *fakeRecords) ListByStatus(
	_ context.Context, status model.CarStatus,
) ([]model.Car, error) {
	return f.listByStatus(status)
}

func (f *fakeRecords) Image(
	_ context.Context, pictureID uuid.UUID,
) (*model.Attachment, error) {
	return nil, cerr.NotFound(errors.New("no such picture"))
}

func (f *fakeRecords) Create(
	_ context.Context, d model.CarDetails, p model.Attachment,
) (*model.Car, error) {
	return f.create(d, p)
}

func (f *fakeRecords) Update(
	_ context.Context,
	carID uuid.UUID,
	d model.CarDetails,
	p *model.Attachment,
) (*model.Car, error) {
	return f.update(carID, d, p)
}

func (f *fakeRecords) Delete(_ context.Context, carID uuid.UUID) error {
	return f.delete(carID)
}

func (f *fakeRecords) Reserve(
	_ context.Context, carID uuid.UUID, c model.Customer,
) (*model.Car, error) {
	return f.reserve(carID, c)
}

func (f *fakeRecords) Sell(
	_ context.Context, carID uuid.UUID, c model.Customer,
) (*model.Car, error) {
	return f.sell(carID, c)
}

func (f *fakeRecords) CancelReservation(
	_ context.Context, carID uuid.UUID,
) (*model.Car, error) {
	return f.cancel(carID)
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

func details() model.CarDetails {
	return model.CarDetails{
		Make:  "Toyota",
		Model: "Corolla",
		Year:  2020,
		Price: 25000,
	}
}

func picture() model.Attachment {
	return model.Attachment{
		Name:        "corolla.jpg",
		ContentType: "image/jpeg",
		Data:        []byte{0xff, 0xd8, 0xff},
	}
}

func customer() model.Customer {
	return model.Customer{
		FullName:    "John Smith",
		Email:       "john@example.org",
		PhoneNumber: "5551234567",
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc := &fakeRecords{
		create: func(
			d model.CarDetails, p model.Attachment,
		) (*model.Car, error) {
			car := availableCar()
			car.Make, car.Model = d.Make, d.Model
			car.Year, car.Price = d.Year, d.Price
			return car, nil
		},
	}
	inv := inventoryuc.New(svc)
	car, err := inv.Create(ctx, details(), picture())
	require.NoError(t, err)
	assert.Equal(t, model.CarStatusAvailable, car.Status)
	assert.Nil(t, car.Customer)
}

func TestCreateRejectsInvalidCandidate(t *testing.T) {
	ctx := context.Background()
	svc := &fakeRecords{
		create: func(
			model.CarDetails, model.Attachment,
		) (*model.Car, error) {
			t.Fatal("a rejected candidate must not reach the service")
			return nil, nil
		},
	}
	inv := inventoryuc.New(svc)
	d := details()
	d.Year = 1850
	_, err := inv.Create(ctx, d, model.Attachment{})
	var ferrs validate.FieldErrors
	require.ErrorAs(t, err, &ferrs)
	m := ferrs.ByField()
	assert.Contains(t, m, "year")
	assert.Contains(t, m, "picture")
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 400, ce.HTTPStatusCode)
}

func TestTransitionPreconditions(t *testing.T) {
	ctx := context.Background()
	svc := &fakeRecords{} // nil hooks panic if a call leaks through
	inv := inventoryuc.New(svc)

	reserved := availableCar()
	reserved.Status = model.CarStatusReserved
	cst := customer()
	reserved.Customer = &cst

	sold := availableCar()
	sold.Status = model.CarStatusSold
	sold.Customer = &cst

	available := availableCar()

	for _, tc := range []struct {
		name string
		run  func() error
	}{
		{"update reserved", func() error {
			_, err := inv.Update(ctx, reserved, details(), nil)
			return err
		}},
		{"reserve reserved", func() error {
			_, err := inv.Reserve(ctx, reserved, customer())
			return err
		}},
		{"sell reserved", func() error {
			_, err := inv.Sell(ctx, reserved, customer())
			return err
		}},
		{"sell sold", func() error {
			_, err := inv.Sell(ctx, sold, customer())
			return err
		}},
		{"update sold", func() error {
			_, err := inv.Update(ctx, sold, details(), nil)
			return err
		}},
		{"delete sold", func() error {
			return inv.Delete(ctx, sold)
		}},
		{"cancel available", func() error {
			_, err := inv.CancelReservation(ctx, available)
			return err
		}},
		{"cancel sold", func() error {
			_, err := inv.CancelReservation(ctx, sold)
			return err
		}},
		{"delete reserved", func() error {
			return inv.Delete(ctx, reserved)
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			assert.True(t, cerr.IsConflict(err), "got: %v", err)
		})
	}
}

func TestTransitionsFromLegalSourceState(t *testing.T) {
	ctx := context.Background()
	cst := customer()
	svc := &fakeRecords{}
	svc.update = func(
		id uuid.UUID, d model.CarDetails, p *model.Attachment,
	) (*model.Car, error) {
		car := availableCar()
		car.ID = id
		return car, nil
	}
	svc.reserve = func(
		id uuid.UUID, c model.Customer,
	) (*model.Car, error) {
		car := availableCar()
		car.ID, car.Status, car.Customer = id, model.CarStatusReserved, &c
		return car, nil
	}
	svc.sell = func(
		id uuid.UUID, c model.Customer,
	) (*model.Car, error) {
		car := availableCar()
		car.ID, car.Status, car.Customer = id, model.CarStatusSold, &c
		return car, nil
	}
	svc.cancel = func(id uuid.UUID) (*model.Car, error) {
		car := availableCar()
		car.ID = id
		return car, nil
	}
	svc.delete = func(uuid.UUID) error { return nil }
	inv := inventoryuc.New(svc)

	available := availableCar()
	updated, err := inv.Update(ctx, available, details(), nil)
	require.NoError(t, err)
	assert.Equal(t, available.ID, updated.ID)

	reserved, err := inv.Reserve(ctx, availableCar(), cst)
	require.NoError(t, err)
	assert.Equal(t, model.CarStatusReserved, reserved.Status)
	require.NotNil(t, reserved.Customer)
	assert.Equal(t, cst, *reserved.Customer)

	sold, err := inv.Sell(ctx, availableCar(), cst)
	require.NoError(t, err)
	assert.Equal(t, model.CarStatusSold, sold.Status)

	cancelled, err := inv.CancelReservation(ctx, reserved)
	require.NoError(t, err)
	assert.Equal(t, model.CarStatusAvailable, cancelled.Status)
	assert.Nil(t, cancelled.Customer)

	assert.NoError(t, inv.Delete(ctx, availableCar()))
}

func TestTransitionRejectsInvalidCustomer(t *testing.T) {
	ctx := context.Background()
	svc := &fakeRecords{}
	inv := inventoryuc.New(svc)
	_, err := inv.Reserve(ctx, availableCar(), model.Customer{})
	var ferrs validate.FieldErrors
	require.ErrorAs(t, err, &ferrs)
	assert.Contains(t, ferrs.ByField(), "fullName")
}

func TestServiceConflictIsPreserved(t *testing.T) {
	// a concurrent mutation may invalidate the locally checked
	// precondition; the remotely detected conflict must keep its
	// category after wrapping
	ctx := context.Background()
	svc := &fakeRecords{
		reserve: func(uuid.UUID, model.Customer) (*model.Car, error) {
			return nil, cerr.Conflict(
				errors.New("car status is reserved, not available"),
			)
		},
	}
	inv := inventoryuc.New(svc)
	_, err := inv.Reserve(ctx, availableCar(), customer())
	assert.True(t, cerr.IsConflict(err), "got: %v", err)
}

func TestQueryListAndSwitch(t *testing.T) {
	ctx := context.Background()
	svc := &fakeRecords{
		listByStatus: func(s model.CarStatus) ([]model.Car, error) {
			car := availableCar()
			car.Status = s
			if s.NeedsCustomer() {
				cst := customer()
				car.Customer = &cst
			}
			return []model.Car{*car}, nil
		},
	}
	q, err := inventoryuc.NewQuery(svc, model.CarStatusAvailable)
	require.NoError(t, err)
	assert.Equal(t, model.CarStatusAvailable, q.Active())

	cars, err := q.List(ctx)
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, model.CarStatusAvailable, cars[0].Status)

	require.NoError(t, q.Switch(model.CarStatusReserved))
	assert.Equal(t, model.CarStatusReserved, q.Active())
	cars, err = q.List(ctx)
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, model.CarStatusReserved, cars[0].Status)

	assert.Error(t, q.Switch(model.CarStatusInvalid))
}

func TestQueryDropsStaleResponse(t *testing.T) {
	ctx := context.Background()
	svc := &fakeRecords{}
	q, err := inventoryuc.NewQuery(svc, model.CarStatusAvailable)
	require.NoError(t, err)
	svc.listByStatus = func(s model.CarStatus) ([]model.Car, error) {
		// the filter is switched while this query is in flight
		if s == model.CarStatusAvailable {
			require.NoError(t, q.Switch(model.CarStatusSold))
		}
		return []model.Car{}, nil
	}
	_, err = q.List(ctx)
	assert.ErrorIs(t, err, inventoryuc.ErrStaleList)

	// the next query runs under the new epoch and is not stale
	cars, err := q.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, cars)
}

func TestQuerySwitchToSameStatusInvalidatesInFlight(t *testing.T) {
	ctx := context.Background()
	svc := &fakeRecords{}
	q, err := inventoryuc.NewQuery(svc, model.CarStatusAvailable)
	require.NoError(t, err)
	first := true
	svc.listByStatus = func(model.CarStatus) ([]model.Car, error) {
		if first {
			first = false
			require.NoError(t, q.Switch(model.CarStatusAvailable))
		}
		return nil, nil
	}
	_, err = q.List(ctx)
	assert.ErrorIs(t, err, inventoryuc.ErrStaleList)
}

func TestQueryRejectsInvalidInitialFilter(t *testing.T) {
	_, err := inventoryuc.NewQuery(
		&fakeRecords{}, model.CarStatusInvalid,
	)
	assert.Error(t, err)
}
