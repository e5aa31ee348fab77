// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package validate_test

import (
	"testing"

	"github.com/momeni/dealership/pkg/core/model"
	"github.com/momeni/dealership/pkg/core/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goodDetails() model.CarDetails {
	return model.CarDetails{
		Make:  "Toyota",
		Model: "Corolla",
		Year:  2020,
		Price: 25000,
	}
}

func goodPicture() *model.Attachment {
	return &model.Attachment{
		Name:        "corolla.jpg",
		ContentType: "image/jpeg",
		Data:        []byte{0xff, 0xd8, 0xff},
	}
}

func fields(t *testing.T, err error) map[string][]string {
	t.Helper()
	var ferrs validate.FieldErrors
	require.ErrorAs(t, err, &ferrs)
	require.NotEmpty(t, ferrs)
	return ferrs.ByField()
}

func TestCarAccepted(t *testing.T) {
	assert.NoError(t, validate.Car(goodDetails(), goodPicture(), true))
	// a nil picture keeps the stored one during an update
	assert.NoError(t, validate.Car(goodDetails(), nil, false))
}

func TestCarMissingFields(t *testing.T) {
	err := validate.Car(model.CarDetails{}, goodPicture(), true)
	m := fields(t, err)
	for _, f := range []string{"make", "model", "year", "price"} {
		assert.Contains(t, m, f)
	}
}

func TestCarFieldBounds(t *testing.T) {
	d := goodDetails()
	d.Year = 1899
	m := fields(t, validate.Car(d, goodPicture(), true))
	require.Contains(t, m, "year")
	assert.Contains(t, m["year"][0], "at least 1900")

	d = goodDetails()
	d.Price = 0.5
	m = fields(t, validate.Car(d, goodPicture(), true))
	require.Contains(t, m, "price")
	assert.Contains(t, m["price"][0], "at least 1")
}

func TestCarPicture(t *testing.T) {
	m := fields(t, validate.Car(goodDetails(), nil, true))
	assert.Contains(t, m, "picture")

	p := goodPicture()
	p.Data = nil
	m = fields(t, validate.Car(goodDetails(), p, false))
	require.Contains(t, m, "picture")
	assert.Contains(t, m["picture"][0], "empty")

	p = goodPicture()
	p.ContentType = "application/pdf"
	m = fields(t, validate.Car(goodDetails(), p, true))
	require.Contains(t, m, "picture")
	assert.Contains(t, m["picture"][0], "not an accepted image type")
}

func TestCustomerAccepted(t *testing.T) {
	assert.NoError(t, validate.Customer(model.Customer{
		FullName:    "John Smith",
		Email:       "john@example.org",
		PhoneNumber: "5551234567",
	}))
}

func TestCustomerRejected(t *testing.T) {
	m := fields(t, validate.Customer(model.Customer{}))
	for _, f := range []string{"fullName", "email", "phoneNumber"} {
		assert.Contains(t, m, f)
	}

	m = fields(t, validate.Customer(model.Customer{
		FullName:    "John Smith",
		Email:       "not-an-email",
		PhoneNumber: "555-123",
	}))
	require.Contains(t, m, "email")
	assert.Contains(t, m["email"][0], "not a valid email address")
	require.Contains(t, m, "phoneNumber")
	assert.Contains(t, m["phoneNumber"][0], "digits only")
}
