// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., as required by validation
// libraries) since adding more tags does not complicate definition of
// a struct, but can prevent unnecessary structs duplication.
package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Car models one dealership inventory record, as persisted by the
// record service and as serialized on the wire. The ID and Picture
// identifiers are assigned by the record service; clients treat both
// as opaque references. The Customer pointer is nil exactly when the
// record is available and non-nil exactly when it is reserved or sold;
// this pairing is enforced by the use case layer (and double checked
// by the Validate method), not inferred ad hoc at call sites.
type Car struct {
	ID       uuid.UUID `json:"id"`
	Make     string    `json:"make"`
	Model    string    `json:"model"`
	Year     int       `json:"year"`
	Price    float64   `json:"price"`
	Status   CarStatus `json:"status"`
	Customer *Customer `json:"customer,omitempty"`
	Picture  uuid.UUID `json:"picture"`
}

// Validate checks the cross-field invariants which must hold for every
// persisted car record: the status is a known state and the customer
// is attached exactly when the status requires one. Field-level rules
// (non-empty make/model, minimum year and price) belong to the
// validate package since they apply to candidate records before they
// obtain an identity.
func (c *Car) Validate() error {
	if err := c.Status.Validate(); err != nil {
		return err
	}
	switch has, needs := c.Customer != nil, c.Status.NeedsCustomer(); {
	case has && !needs:
		return fmt.Errorf(
			"%s car %s must not have a customer", c.Status, c.ID,
		)
	case !has && needs:
		return fmt.Errorf(
			"%s car %s must have a customer", c.Status, c.ID,
		)
	}
	return nil
}

// CarDetails carries the mutable descriptive fields of a car record,
// as collected from an end-user before a create or update operation.
// It has no identity, status, or picture reference on its own; the
// picture binary is carried separately by an Attachment since it may
// be omitted on update to keep the previously stored picture.
type CarDetails struct {
	Make  string  `json:"make" validate:"required"`
	Model string  `json:"model" validate:"required"`
	Year  int     `json:"year" validate:"required,min=1900"`
	Price float64 `json:"price" validate:"required,min=1"`
}

// Attachment carries one binary file which accompanies a structured
// candidate record, such as the picture of a car. How it is encoded
// for transmission (e.g., as a multipart form file) is decided by the
// adapter layer.
type Attachment struct {
	Name        string // file name, as uploaded
	ContentType string // declared media type, e.g., image/jpeg
	Data        []byte
}
