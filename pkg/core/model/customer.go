// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// Customer models the identity and contact data which is attached to
// a car record exactly while that record is reserved or sold.
// The phone number is restricted to digit characters and the email
// address must have a well-formed shape; both rules are expressed by
// the validation tags and enforced by the validate package before any
// reservation or sale request may leave the process.
type Customer struct {
	FullName    string `json:"fullName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required,number"`
}
