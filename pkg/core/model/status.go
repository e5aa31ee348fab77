// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// CarStatus specifies the life-cycle state enum of a car record,
// accepting the three mutually exclusive available, reserved, and sold
// states. Although this enum is numeric, it is (de)serialized as a
// string for readability in the adapter layer and on the wire.
// The set of valid values is closed; call sites are expected to switch
// over all three states exhaustively instead of consulting a runtime
// registry of states.
type CarStatus int

// Valid values for the CarStatus enum.
const (
	CarStatusInvalid CarStatus = iota // zero value is invalid

	CarStatusAvailable // car is in the inventory and may be mutated
	CarStatusReserved  // car is held by a customer, reversibly
	CarStatusSold      // car is sold; no further transition exists
)

// ErrUnknownCarStatus indicates that a given string may not be parsed
// as a valid/known car status. This error does not communicate the
// invalid status string itself because the caller of ParseCarStatus
// already knows about it and is responsible to wrap this error with
// that extra context if required.
var ErrUnknownCarStatus = errors.New("unknown car status")

// CarStatusError indicates an invalid car status value, containing the
// invalid status as an integer. It is useful for functions which find
// out about an invalid status during their execution, where the caller
// may not know the offending value from its own arguments.
type CarStatusError int

// Error implements the error interface, returning a string
// representation of the CarStatusError.
func (e CarStatusError) Error() string {
	return fmt.Sprintf("invalid car status: %d", int(e))
}

// Validate returns nil if the CarStatus value is valid. For invalid
// values, an instance of the CarStatusError will be returned.
func (s CarStatus) Validate() error {
	switch s {
	case CarStatusAvailable, CarStatusReserved, CarStatusSold:
		return nil
	default:
		return CarStatusError(s)
	}
}

// Terminal reports if no transition may leave this status anymore.
// Only the sold status is terminal; a sold car record may not be
// updated, deleted, or moved to any other status.
func (s CarStatus) Terminal() bool {
	return s == CarStatusSold
}

// NeedsCustomer reports if a car record with this status must have
// an attached customer record. The customer is present exactly when
// the status is reserved or sold, and absent when available.
func (s CarStatus) NeedsCustomer() bool {
	return s == CarStatusReserved || s == CarStatusSold
}

// String converts the CarStatus enum to a string, helping to
// serialize it for transmission to web clients (and to store it in
// the database). An invalid car status causes a panic.
func (s CarStatus) String() string {
	switch s {
	case CarStatusAvailable:
		return "available"
	case CarStatusReserved:
		return "reserved"
	case CarStatusSold:
		return "sold"
	default:
		panic(CarStatusError(s))
	}
}

// ParseCarStatus parses the given string and returns a CarStatus,
// helping to deserialize it when reading a REST API request or
// response. For invalid strings, CarStatusInvalid and
// ErrUnknownCarStatus will be returned.
func ParseCarStatus(s string) (CarStatus, error) {
	switch s {
	case "available":
		return CarStatusAvailable, nil
	case "reserved":
		return CarStatusReserved, nil
	case "sold":
		return CarStatusSold, nil
	default:
		return CarStatusInvalid, ErrUnknownCarStatus
	}
}

// MarshalJSON serializes the CarStatus as its string form.
func (s CarStatus) MarshalJSON() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes the CarStatus from its string form.
func (s *CarStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseCarStatus(str)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", str, err)
	}
	*s = parsed
	return nil
}
