// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsuc

import (
	"errors"
	"fmt"
)

// Option is a functional option for the cars use case.
type Option func(uc *UseCase) error

// WithMaxPictureBytes option configures a cars UseCase instance in
// order to reject picture blobs which are larger than the given
// bound. This option may be passed to the New() function.
func WithMaxPictureBytes(n int64) Option {
	return func(uc *UseCase) error {
		if n <= 0 {
			return fmt.Errorf("limit (%d) is not positive", n)
		}
		if uc.maxPictureBytes != 0 {
			return errors.New("limit is already configured")
		}
		uc.maxPictureBytes = n
		return nil
	}
}
