// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsrp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/momeni/dealership/pkg/adapter/db/postgres"
	"github.com/momeni/dealership/pkg/core/cerr"
	"github.com/momeni/dealership/pkg/core/model"
	"gorm.io/gorm/clause"
)

// gCustomer keeps the customer contact fields of a car row. All three
// columns are NULL exactly when the car is available; the cars table
// carries a CHECK constraint for this pairing as well.
type gCustomer struct {
	FullName    *string `gorm:"column:customer_full_name"`
	Email       *string `gorm:"column:customer_email"`
	PhoneNumber *string `gorm:"column:customer_phone_number"`
}

// gCar is the cars table row. The core model.Car struct is not
// stored directly since its Customer pointer and CarStatus enum do
// not match the flat columns layout; this struct fixes the mapping
// in the adapter layer, as the Model method converts it back.
type gCar struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid;column:id"`
	Make      string
	Model     string
	Year      int
	Price     float64
	Status    string
	Customer  gCustomer `gorm:"embedded"`
	PictureID uuid.UUID `gorm:"type:uuid;column:picture_id"`
}

func (gc *gCar) TableName() string {
	return "cars"
}

func (gc *gCar) toModel() (*model.Car, error) {
	status, err := model.ParseCarStatus(gc.Status)
	if err != nil {
		return nil, fmt.Errorf("stored status %q: %w", gc.Status, err)
	}
	car := &model.Car{
		ID:      gc.ID,
		Make:    gc.Make,
		Model:   gc.Model,
		Year:    gc.Year,
		Price:   gc.Price,
		Status:  status,
		Picture: gc.PictureID,
	}
	if c := gc.Customer; c.FullName != nil {
		car.Customer = &model.Customer{
			FullName:    *c.FullName,
			Email:       *c.Email,
			PhoneNumber: *c.PhoneNumber,
		}
	}
	return car, nil
}

func ListByStatus[Q postgres.Queryer](ctx context.Context, q Q, status model.CarStatus) ([]model.Car, error) {
	gdb := q.GORM(ctx)
	var gcs []gCar
	gdb.Where("status = ?", status.String()).Order("id").Find(&gcs)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	cars := make([]model.Car, 0, len(gcs))
	for i := range gcs {
		car, err := gcs[i].toModel()
		if err != nil {
			return nil, err
		}
		cars = append(cars, *car)
	}
	return cars, nil
}

func Fetch[Q postgres.Queryer](ctx context.Context, q Q, carID uuid.UUID) (*model.Car, error) {
	gdb := q.GORM(ctx)
	var gcs []gCar
	gdb.Where("id = ?", carID).Limit(1).Find(&gcs)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gcs) == 0 {
		return nil, cerr.NotFound(
			fmt.Errorf("no car with id %s", carID),
		)
	}
	return gcs[0].toModel()
}

func Insert[Q postgres.Queryer](ctx context.Context, q Q, details model.CarDetails, pictureID uuid.UUID) (*model.Car, error) {
	gdb := q.GORM(ctx)
	gc := gCar{
		ID:        uuid.New(),
		Make:      details.Make,
		Model:     details.Model,
		Year:      details.Year,
		Price:     details.Price,
		Status:    model.CarStatusAvailable.String(),
		PictureID: pictureID,
	}
	gdb.Create(&gc)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return gc.toModel()
}

// Update replaces the descriptive fields of the carID car, guarded on
// the available status. A non-nil pictureID replaces the picture
// reference too. The status column is listed among the updated
// columns with the same available value in order to assert that an
// update may not change the status of a car.
func Update[Q postgres.Queryer](ctx context.Context, q Q, carID uuid.UUID, details model.CarDetails, pictureID *uuid.UUID) (*model.Car, error) {
	available := model.CarStatusAvailable.String()
	columns := []string{"make", "model", "year", "price", "status"}
	gc := gCar{
		Make:   details.Make,
		Model:  details.Model,
		Year:   details.Year,
		Price:  details.Price,
		Status: available,
	}
	if pictureID != nil {
		columns = append(columns, "picture_id")
		gc.PictureID = *pictureID
	}
	gdb := q.GORM(ctx)
	var gcs []gCar
	gdb.Model(&gcs).Clauses(clause.Returning{}).Select(
		columns,
	).Where(
		"id = ? AND status = ?", carID, available,
	).Updates(gc)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gcs) != 1 {
		return nil, missRowError(ctx, q, carID, "update")
	}
	return gcs[0].toModel()
}

// Delete destroys the carID car row, guarded on the available status,
// and returns the picture reference of the destroyed row.
func Delete[Q postgres.Queryer](ctx context.Context, q Q, carID uuid.UUID) (uuid.UUID, error) {
	gdb := q.GORM(ctx)
	var gcs []gCar
	gdb.Clauses(clause.Returning{}).Where(
		"id = ? AND status = ?",
		carID, model.CarStatusAvailable.String(),
	).Delete(&gcs)
	if err := gdb.Error; err != nil {
		return uuid.Nil, fmt.Errorf("query: %w", err)
	}
	if len(gcs) != 1 {
		return uuid.Nil, missRowError(ctx, q, carID, "delete")
	}
	return gcs[0].PictureID, nil
}

func Reserve[Q postgres.Queryer](ctx context.Context, q Q, carID uuid.UUID, customer model.Customer) (*model.Car, error) {
	return transition(
		ctx, q, carID, "reserve",
		model.CarStatusAvailable, model.CarStatusReserved, &customer,
	)
}

func Sell[Q postgres.Queryer](ctx context.Context, q Q, carID uuid.UUID, customer model.Customer) (*model.Car, error) {
	return transition(
		ctx, q, carID, "sell",
		model.CarStatusAvailable, model.CarStatusSold, &customer,
	)
}

func CancelReservation[Q postgres.Queryer](ctx context.Context, q Q, carID uuid.UUID) (*model.Car, error) {
	return transition(
		ctx, q, carID, "cancel the reservation of",
		model.CarStatusReserved, model.CarStatusAvailable, nil,
	)
}

// transition moves the carID car from the from status to the to
// status, attaching the given customer record or clearing the stored
// one when customer is nil. The from status guards the update; a
// mutation which matches no row is disambiguated by missRowError.
func transition[Q postgres.Queryer](
	ctx context.Context, q Q, carID uuid.UUID, op string,
	from, to model.CarStatus, customer *model.Customer,
) (*model.Car, error) {
	gc := gCar{Status: to.String()}
	if customer != nil {
		gc.Customer = gCustomer{
			FullName:    &customer.FullName,
			Email:       &customer.Email,
			PhoneNumber: &customer.PhoneNumber,
		}
	}
	gdb := q.GORM(ctx)
	var gcs []gCar
	gdb.Model(&gcs).Clauses(clause.Returning{}).Select(
		"status",
		"customer_full_name", "customer_email",
		"customer_phone_number",
	).Where(
		"id = ? AND status = ?", carID, from.String(),
	).Updates(gc)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gcs) != 1 {
		return nil, missRowError(ctx, q, carID, op)
	}
	return gcs[0].toModel()
}

// missRowError explains why a status-guarded mutation matched no row:
// either the carID car does not exist at all (not-found) or it exists
// in a status which forbids the op transition (state conflict).
func missRowError[Q postgres.Queryer](
	ctx context.Context, q Q, carID uuid.UUID, op string,
) error {
	car, err := Fetch(ctx, q, carID)
	if err != nil {
		return err
	}
	return cerr.Conflict(fmt.Errorf(
		"cannot %s car %s: status is %s", op, carID, car.Status,
	))
}
