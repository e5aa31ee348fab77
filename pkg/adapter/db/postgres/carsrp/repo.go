// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsrp realizes the cars repository, running the inventory
// life-cycle queries over a borrowed connection or transaction.
// Transitions are encoded as status-guarded UPDATE and DELETE
// statements, so their source-state preconditions are enforced by the
// DBMS atomically and a concurrent mutation from another connection
// can never interleave between the check and the change.
package carsrp

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

func (cars *Repo) Conn(c repo.Conn) repo.CarsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) ListByStatus(ctx context.Context, status model.CarStatus) ([]model.Car, error) {
	return ListByStatus(ctx, cq.Conn, status)
}

func (cq connQueryer) Fetch(ctx context.Context, carID uuid.UUID) (*model.Car, error) {
	return Fetch(ctx, cq.Conn, carID)
}

func (cq connQueryer) Insert(ctx context.Context, details model.CarDetails, pictureID uuid.UUID) (*model.Car, error) {
	return Insert(ctx, cq.Conn, details, pictureID)
}

func (cq connQueryer) Update(ctx context.Context, carID uuid.UUID, details model.CarDetails, pictureID *uuid.UUID) (*model.Car, error) {
	return Update(ctx, cq.Conn, carID, details, pictureID)
}

func (cq connQueryer) Delete(ctx context.Context, carID uuid.UUID) (uuid.UUID, error) {
	return Delete(ctx, cq.Conn, carID)
}

func (cq connQueryer) Reserve(ctx context.Context, carID uuid.UUID, customer model.Customer) (*model.Car, error) {
	return Reserve(ctx, cq.Conn, carID, customer)
}

func (cq connQueryer) Sell(ctx context.Context, carID uuid.UUID, customer model.Customer) (*model.Car, error) {
	return Sell(ctx, cq.Conn, carID, customer)
}

func (cq connQueryer) CancelReservation(ctx context.Context, carID uuid.UUID) (*model.Car, error) {
	return CancelReservation(ctx, cq.Conn, carID)
}

type txQueryer struct {
	*postgres.Tx
}

func (cars *Repo) Tx(tx repo.Tx) repo.CarsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) ListByStatus(ctx context.Context, status model.CarStatus) ([]model.Car, error) {
	return ListByStatus(ctx, tq.Tx, status)
}

func (tq txQueryer) Fetch(ctx context.Context, carID uuid.UUID) (*model.Car, error) {
	return Fetch(ctx, tq.Tx, carID)
}

func (tq txQueryer) Insert(ctx context.Context, details model.CarDetails, pictureID uuid.UUID) (*model.Car, error) {
	return Insert(ctx, tq.Tx, details, pictureID)
}

func (tq txQueryer) Update(ctx context.Context, carID uuid.UUID, details model.CarDetails, pictureID *uuid.UUID) (*model.Car, error) {
	return Update(ctx, tq.Tx, carID, details, pictureID)
}

func (tq txQueryer) Delete(ctx context.Context, carID uuid.UUID) (uuid.UUID, error) {
	return Delete(ctx, tq.Tx, carID)
}

func (tq txQueryer) Reserve(ctx context.Context, carID uuid.UUID, customer model.Customer) (*model.Car, error) {
	return Reserve(ctx, tq.Tx, carID, customer)
}

func (tq txQueryer) Sell(ctx context.Context, carID uuid.UUID, customer model.Customer) (*model.Car, error) {
	return Sell(ctx, tq.Tx, carID, customer)
}

func (tq txQueryer) CancelReservation(ctx context.Context, carID uuid.UUID) (*model.Car, error) {
	return CancelReservation(ctx, tq.Tx, carID)
}
