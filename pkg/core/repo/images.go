// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/dealership/pkg/core/model"
)

// ImagesConnQueryer is an ImagesQueryer operating on a connection.
type ImagesConnQueryer interface {
	ImagesQueryer
}

// ImagesTxQueryer is an ImagesQueryer operating in a transaction.
type ImagesTxQueryer interface {
	ImagesQueryer
}

// ImagesQueryer provides the queries for the picture blobs which are
// attached to car records. Blobs are addressed by server-assigned
// opaque identifiers; a car row only stores such an identifier.
type ImagesQueryer interface {
	// Save stores the given picture blob, assigning a fresh ID.
	Save(
		ctx context.Context, picture model.Attachment,
	) (uuid.UUID, error)

	// Load returns the picture blob with the given ID, or
	// cerr.NotFound.
	Load(
		ctx context.Context, pictureID uuid.UUID,
	) (*model.Attachment, error)

	// Delete removes the picture blob with the given ID.
	Delete(ctx context.Context, pictureID uuid.UUID) error
}

// Images specifies the expected interface of an images repository
// which can wrap a Conn or Tx instance, obtaining a queryer which
// runs its queries over that connection or transaction.
type Images interface {
	Conn(Conn) ImagesConnQueryer
	Tx(Tx) ImagesTxQueryer
}
