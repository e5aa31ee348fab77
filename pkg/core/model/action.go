// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
)

// Action specifies the user-facing inventory action enum. Each action
// corresponds to one transition of a selected car record. The edit and
// creation flows are not actions in this sense because they collect
// car fields instead of acting on an already rendered record.
type Action int

// Valid values for the Action enum.
const (
	ActionInvalid Action = iota // zero value is invalid

	ActionReserve // attach a customer, moving the car to reserved
	ActionSell    // attach a customer, moving the car to sold
	ActionDelete  // destroy an available car record
	ActionCancel  // cancel a reservation, back to available
)

// ErrUnknownAction indicates that a given string may not be parsed as
// a valid/known inventory action.
var ErrUnknownAction = errors.New("unknown inventory action")

// Validate returns nil if the Action value is valid.
func (a Action) Validate() error {
	switch a {
	case ActionReserve, ActionSell, ActionDelete, ActionCancel:
		return nil
	default:
		return fmt.Errorf("invalid inventory action: %d", int(a))
	}
}

// CollectsCustomer reports if this action requires a customer record
// to be collected and validated before it may be submitted. Reserve
// and sell attach a customer; delete and cancel only need an explicit
// confirmation.
func (a Action) CollectsCustomer() bool {
	return a == ActionReserve || a == ActionSell
}

// Irreversible reports if this action may not be undone by any later
// transition. Selling is irreversible since the sold state is
// terminal; deletion destroys the record itself.
func (a Action) Irreversible() bool {
	return a == ActionSell || a == ActionDelete
}

// String converts the Action enum to a string. An invalid action
// causes a panic.
func (a Action) String() string {
	switch a {
	case ActionReserve:
		return "reserve"
	case ActionSell:
		return "sell"
	case ActionDelete:
		return "delete"
	case ActionCancel:
		return "cancel"
	default:
		panic(fmt.Sprintf("invalid inventory action: %d", int(a)))
	}
}

// ParseAction parses the given string and returns an Action. For
// invalid strings, ActionInvalid and ErrUnknownAction will be
// returned.
func ParseAction(s string) (Action, error) {
	switch s {
	case "reserve":
		return ActionReserve, nil
	case "sell":
		return ActionSell, nil
	case "delete":
		return ActionDelete, nil
	case "cancel":
		return ActionCancel, nil
	default:
		return ActionInvalid, ErrUnknownAction
	}
}
