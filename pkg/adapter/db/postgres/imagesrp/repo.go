// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package imagesrp realizes the images repository, storing the
// picture blobs of car records as rows of the car_images table.
// Blobs are addressed by server-assigned UUIDs, which the cars table
// refers to; the REST API never exposes the blob contents except
// through the image retrieval endpoint.
package imagesrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/dealership/pkg/adapter/db/postgres"
	"github.com/momeni/dealership/pkg/core/model"
	"github.com/momeni/dealership/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (images *Repo) Conn(c repo.Conn) repo.ImagesConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Save(ctx context.Context, picture model.Attachment) (uuid.UUID, error) {
	return Save(ctx, cq.Conn, picture)
}

func (cq connQueryer) Load(ctx context.Context, pictureID uuid.UUID) (*model.Attachment, error) {
	return Load(ctx, cq.Conn, pictureID)
}

func (cq connQueryer) Delete(ctx context.Context, pictureID uuid.UUID) error {
	return Delete(ctx, cq.Conn, pictureID)
}

type txQueryer struct {
	*postgres.Tx
}

func (images *Repo) Tx(tx repo.Tx) repo.ImagesTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Save(ctx context.Context, picture model.Attachment) (uuid.UUID, error) {
	return Save(ctx, tq.Tx, picture)
}

func (tq txQueryer) Load(ctx context.Context, pictureID uuid.UUID) (*model.Attachment, error) {
	return Load(ctx, tq.Tx, pictureID)
}

func (tq txQueryer) Delete(ctx context.Context, pictureID uuid.UUID) error {
	return Delete(ctx, tq.Tx, pictureID)
}
