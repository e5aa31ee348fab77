// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/momeni/dealership/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCustomer() *model.Customer {
	return &model.Customer{
		FullName:    "John Smith",
		Email:       "john@example.org",
		PhoneNumber: "5551234567",
	}
}

func TestCarValidateCustomerPairing(t *testing.T) {
	car := model.Car{
		ID:      uuid.New(),
		Make:    "Toyota",
		Model:   "Corolla",
		Year:    2020,
		Price:   25000,
		Status:  model.CarStatusAvailable,
		Picture: uuid.New(),
	}
	assert.NoError(t, car.Validate())

	car.Customer = sampleCustomer()
	assert.Error(t, car.Validate(), "available car with customer")

	car.Status = model.CarStatusReserved
	assert.NoError(t, car.Validate())
	car.Status = model.CarStatusSold
	assert.NoError(t, car.Validate())

	car.Customer = nil
	assert.Error(t, car.Validate(), "sold car without customer")

	car.Status = model.CarStatusInvalid
	assert.Error(t, car.Validate())
}

func TestCarJSONCustomerPresence(t *testing.T) {
	car := model.Car{
		ID:      uuid.New(),
		Make:    "Toyota",
		Model:   "Corolla",
		Year:    2020,
		Price:   25000,
		Status:  model.CarStatusAvailable,
		Picture: uuid.New(),
	}
	b, err := json.Marshal(car)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "customer")

	car.Status = model.CarStatusReserved
	car.Customer = sampleCustomer()
	b, err = json.Marshal(car)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"fullName":"John Smith"`)
	assert.Contains(t, string(b), `"phoneNumber":"5551234567"`)

	var parsed model.Car
	require.NoError(t, json.Unmarshal(b, &parsed))
	assert.Equal(t, car, parsed)
}
