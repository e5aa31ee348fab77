// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsrs realizes the cars resource, allowing the dealership
// inventory REST APIs to be accepted and delegated to the cars use
// cases respectively.
package carsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/dealership/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/dealership/pkg/core/model"
	"github.com/momeni/dealership/pkg/core/usecase/carsuc"
)

type resource struct {
	cars *carsuc.UseCase
}

// Register instantiates a resource adapting the cars use case
// instance with the relevant REST APIs including:
//  1. GET request to /api/dlweb/v1/cars/:status
//     in order to list the car records of one status filter,
//  2. GET request to /api/dlweb/v1/cars/image/:id
//     in order to fetch the picture binary of a car record,
//  3. POST request to /api/dlweb/v1/cars
//     in order to create a car record (multipart, with a picture),
//  4. PUT request to /api/dlweb/v1/cars/:id
//     in order to update an available car record,
//  5. DELETE request to /api/dlweb/v1/cars/:id
//     in order to delete an available car record,
//  6. POST requests to /api/dlweb/v1/cars/:id/reserve, …/sell, and
//     …/cancel-reservation in order to run the corresponding
//     life-cycle transition on a car record.
func Register(r *gin.RouterGroup, cars *carsuc.UseCase) {
	rs := &resource{cars: cars}
	r.GET("cars/:status", rs.ListCars)
	r.GET("cars/image/:id", rs.GetImage)
	r.POST("cars", rs.CreateCar)
	r.PUT("cars/:id", rs.UpdateCar)
	r.DELETE("cars/:id", rs.DeleteCar)
	r.POST("cars/:id/reserve", rs.ReserveCar)
	r.POST("cars/:id/sell", rs.SellCar)
	r.POST("cars/:id/cancel-reservation", rs.CancelReservation)
}

func (rs *resource) ListCars(c *gin.Context) {
	status, ok := rs.DserStatus(c)
	if !ok {
		return
	}
	cars, err := rs.cars.ListByStatus(c, status)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, cars)
}

func (rs *resource) GetImage(c *gin.Context) {
	pictureID, ok := rs.DserID(c)
	if !ok {
		return
	}
	img, err := rs.cars.Image(c, pictureID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Data(http.StatusOK, img.ContentType, img.Data)
}

func (rs *resource) CreateCar(c *gin.Context) {
	req := rs.DserCarForm(c)
	if req == nil {
		return
	}
	// a missing picture is rejected by the use case validation
	var picture model.Attachment
	if req.Picture != nil {
		picture = *req.Picture
	}
	car, err := rs.cars.Create(c, req.Details, picture)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (rs *resource) UpdateCar(c *gin.Context) {
	carID, ok := rs.DserID(c)
	if !ok {
		return
	}
	req := rs.DserCarForm(c)
	if req == nil {
		return
	}
	car, err := rs.cars.Update(c, carID, req.Details, req.Picture)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (rs *resource) DeleteCar(c *gin.Context) {
	carID, ok := rs.DserID(c)
	if !ok {
		return
	}
	if err := rs.cars.Delete(c, carID); err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (rs *resource) ReserveCar(c *gin.Context) {
	carID, ok := rs.DserID(c)
	if !ok {
		return
	}
	customer, ok := rs.DserCustomer(c)
	if !ok {
		return
	}
	car, err := rs.cars.Reserve(c, carID, customer)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (rs *resource) SellCar(c *gin.Context) {
	carID, ok := rs.DserID(c)
	if !ok {
		return
	}
	customer, ok := rs.DserCustomer(c)
	if !ok {
		return
	}
	car, err := rs.cars.Sell(c, carID, customer)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}

func (rs *resource) CancelReservation(c *gin.Context) {
	carID, ok := rs.DserID(c)
	if !ok {
		return
	}
	car, err := rs.cars.CancelReservation(c, carID)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, car)
}
