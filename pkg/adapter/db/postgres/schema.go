// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"fmt"

	"github.com/momeni/dealership/pkg/core/repo"
)

// schemaSQL creates the dealership inventory tables. The cars table
// re-states the business invariants as CHECK constraints, so even a
// misbehaving client of the database cannot persist a car record
// which violates them: the year and price minimums, the closed status
// set, and the pairing of the customer columns with the status.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS car_images (
	id uuid PRIMARY KEY,
	name text NOT NULL,
	content_type text NOT NULL,
	data bytea NOT NULL
);
CREATE TABLE IF NOT EXISTS cars (
	id uuid PRIMARY KEY,
	make text NOT NULL CHECK (make <> ''),
	model text NOT NULL CHECK (model <> ''),
	year integer NOT NULL CHECK (year >= 1900),
	price double precision NOT NULL CHECK (price >= 1),
	status text NOT NULL
		CHECK (status IN ('available', 'reserved', 'sold')),
	customer_full_name text,
	customer_email text,
	customer_phone_number text,
	picture_id uuid NOT NULL REFERENCES car_images (id),
	CHECK ((status = 'available') = (customer_full_name IS NULL)),
	CHECK ((customer_full_name IS NULL) = (customer_email IS NULL)),
	CHECK ((customer_email IS NULL) = (customer_phone_number IS NULL))
);
`

// InitSchema creates the inventory tables if they do not exist yet.
// It is used by the db init command and the integration test suites.
func InitSchema(ctx context.Context, c repo.Conn) error {
	if _, err := c.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("creating inventory tables: %w", err)
	}
	return nil
}
