// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Role is a string specifying a database connection role. Each role
// has a set of granted privileges which indicates which operations
// may be performed after using it for connecting to a database.
// The configuration file captures the identification information of
// a database per role, while the authentication information are read
// from a passwords file.
type Role string

// These constants specify the expected database roles. At least the
// AdminRole must exist beforehand (i.e., must be created manually)
// and it must be privileged enough to create the schema objects
// during the database initialization.
const (
	// AdminRole is an administrator role which is used for creation
	// of the schema objects by the db init command.
	AdminRole Role = "admin"

	// NormalRole is a normal (unprivilged) role which is used for
	// all common operations of the record service.
	NormalRole Role = "dlweb"
)
