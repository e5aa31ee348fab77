// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsuc contains the cars UseCase of the record service
// which owns the durable storage of the dealership inventory.
// It validates candidate records, delegates accepted mutations to the
// cars and images repositories, and relies on their status-guarded
// queries for the atomic enforcement of the life-cycle preconditions
// (e.g., only an available car may be updated, deleted, reserved, or
// sold and only a reserved car may have its reservation cancelled).
package carsuc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/momeni/dealership/pkg/core/cerr"
	"github.com/momeni/dealership/pkg/core/model"
	"github.com/momeni/dealership/pkg/core/repo"
	"github.com/momeni/dealership/pkg/core/validate"
)

// UseCase represents a cars use case. It holds a database connection
// pool and the cars and images repository instances (to be guided
// with the DB pool), in addition to the use case specific settings.
type UseCase struct {
	pool     repo.Pool
	carsrp   repo.Cars
	imagesrp repo.Images

	maxPictureBytes int64
}

// New instantiates a cars use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(
	p repo.Pool, c repo.Cars, i repo.Images, opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{pool: p, carsrp: c, imagesrp: i}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.maxPictureBytes == 0 {
		uc.maxPictureBytes = 10 << 20
	}
	return uc, nil
}

// MaxPictureBytes returns the configured upper bound for the size of
// one picture blob, so the REST adapter can apply the same bound when
// parsing a multipart request body.
func (cars *UseCase) MaxPictureBytes() int64 {
	return cars.maxPictureBytes
}

// ListByStatus use case returns all car records whose status matches
// the given filter, reflecting the stored state at call time.
func (cars *UseCase) ListByStatus(
	ctx context.Context, status model.CarStatus,
) (cl []model.Car, err error) {
	if err = status.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := cars.carsrp.Conn(c)
		cl, err = q.ListByStatus(ctx, status)
		return err
	})
	if err != nil {
		cl = nil
	}
	return
}

// Image use case returns the picture blob with the given reference.
func (cars *UseCase) Image(
	ctx context.Context, pictureID uuid.UUID,
) (img *model.Attachment, err error) {
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := cars.imagesrp.Conn(c)
		img, err = q.Load(ctx, pictureID)
		return err
	})
	if err != nil {
		img = nil
	}
	return
}

// Create use case persists a new available car record with no
// customer, storing the mandatory picture blob in the same
// transaction, so a failure leaves neither of them behind.
func (cars *UseCase) Create(
	ctx context.Context,
	details model.CarDetails,
	picture model.Attachment,
) (car *model.Car, err error) {
	if err = validate.Car(details, &picture, true); err != nil {
		return nil, cerr.BadRequest(err)
	}
	if err = cars.checkPictureSize(&picture); err != nil {
		return nil, err
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			pictureID, err := cars.imagesrp.Tx(tx).Save(ctx, picture)
			if err != nil {
				return fmt.Errorf("saving picture: %w", err)
			}
			car, err = cars.carsrp.Tx(tx).Insert(
				ctx, details, pictureID,
			)
			return err
		})
	})
	if err != nil {
		car = nil
	}
	return
}

// Update use case replaces the descriptive fields of an available car
// record. The status of the record cannot be changed through an
// update. When a new picture accompanies the update, the old blob is
// removed and the new one is stored within the same transaction.
func (cars *UseCase) Update(
	ctx context.Context,
	carID uuid.UUID,
	details model.CarDetails,
	picture *model.Attachment,
) (car *model.Car, err error) {
	if err = validate.Car(details, picture, false); err != nil {
		return nil, cerr.BadRequest(err)
	}
	if err = cars.checkPictureSize(picture); err != nil {
		return nil, err
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			imagesq := cars.imagesrp.Tx(tx)
			var pictureID *uuid.UUID
			var oldID uuid.UUID
			if picture != nil {
				old, err := cars.carsrp.Tx(tx).Fetch(ctx, carID)
				if err != nil {
					return err
				}
				oldID = old.Picture
				newID, err := imagesq.Save(ctx, *picture)
				if err != nil {
					return fmt.Errorf("saving picture: %w", err)
				}
				pictureID = &newID
			}
			car, err = cars.carsrp.Tx(tx).Update(
				ctx, carID, details, pictureID,
			)
			if err != nil {
				return err
			}
			// the old blob may be removed only after the car row
			// stopped referencing it
			if pictureID != nil {
				if err := imagesq.Delete(ctx, oldID); err != nil {
					return fmt.Errorf(
						"deleting old picture: %w", err,
					)
				}
			}
			return nil
		})
	})
	if err != nil {
		car = nil
	}
	return
}

// Delete use case destroys an available car record and its picture
// blob atomically.
func (cars *UseCase) Delete(
	ctx context.Context, carID uuid.UUID,
) error {
	return cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			pictureID, err := cars.carsrp.Tx(tx).Delete(ctx, carID)
			if err != nil {
				return err
			}
			err = cars.imagesrp.Tx(tx).Delete(ctx, pictureID)
			if err != nil {
				return fmt.Errorf("deleting picture: %w", err)
			}
			return nil
		})
	})
}

// Reserve use case attaches the given customer to an available car
// record, moving it to the reserved status.
func (cars *UseCase) Reserve(
	ctx context.Context, carID uuid.UUID, customer model.Customer,
) (car *model.Car, err error) {
	if err = validate.Customer(customer); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := cars.carsrp.Conn(c)
		car, err = q.Reserve(ctx, carID, customer)
		return err
	})
	if err != nil {
		car = nil
	}
	return
}

// Sell use case attaches the given customer to an available car
// record, moving it to the terminal sold status. No use case may
// mutate or destroy the record thereafter.
func (cars *UseCase) Sell(
	ctx context.Context, carID uuid.UUID, customer model.Customer,
) (car *model.Car, err error) {
	if err = validate.Customer(customer); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := cars.carsrp.Conn(c)
		car, err = q.Sell(ctx, carID, customer)
		return err
	})
	if err != nil {
		car = nil
	}
	return
}

// CancelReservation use case moves a reserved car record back to the
// available status, clearing its customer.
func (cars *UseCase) CancelReservation(
	ctx context.Context, carID uuid.UUID,
) (car *model.Car, err error) {
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := cars.carsrp.Conn(c)
		car, err = q.CancelReservation(ctx, carID)
		return err
	})
	if err != nil {
		car = nil
	}
	return
}

// checkPictureSize rejects a picture blob which exceeds the
// configured size bound. A nil picture is fine since the bound only
// concerns the blobs which are going to be stored.
func (cars *UseCase) checkPictureSize(p *model.Attachment) error {
	if p == nil || int64(len(p.Data)) <= cars.maxPictureBytes {
		return nil
	}
	return cerr.BadRequest(fmt.Errorf(
		"picture is %d bytes, exceeding the %d bytes limit",
		len(p.Data), cars.maxPictureBytes,
	))
}
