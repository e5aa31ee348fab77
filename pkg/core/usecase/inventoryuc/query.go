// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package inventoryuc

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/momeni/dealership/pkg/core/model"
	"github.com/momeni/dealership/pkg/core/service"
)

// ErrStaleList indicates that a list response resolved after the
// active status filter had already been switched away, so its records
// belong to a filter which is no longer displayed. The response must
// be discarded by the caller; a fresh query for the active filter is
// either already in flight or may be started by calling List again.
var ErrStaleList = errors.New("list response is stale")

// Query represents the inventory query use case, scoped to one active
// status filter at a time (one UI tab per status). In-flight queries
// are not cancelled when the filter is switched; instead, each List
// call captures the filter epoch at start time and its response is
// dropped with ErrStaleList if another Switch resolved meanwhile.
// List responses for the still-active filter may resolve in any
// order, which is acceptable since ListByStatus is stateless and
// idempotent; the last resolved response determines the displayed
// set.
type Query struct {
	svc service.Records

	mu     sync.Mutex
	status model.CarStatus
	epoch  uint64
}

// NewQuery instantiates an inventory query use case with the given
// initially active status filter.
func NewQuery(svc service.Records, status model.CarStatus) (
	*Query, error,
) {
	if err := status.Validate(); err != nil {
		return nil, fmt.Errorf("initial filter: %w", err)
	}
	return &Query{svc: svc, status: status}, nil
}

// Active returns the currently active status filter.
func (q *Query) Active() model.CarStatus {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.status
}

// Switch activates the given status filter, invalidating all list
// responses which were requested for an earlier epoch (even those
// asking for the same status value, as they were issued for a view
// which no longer exists).
func (q *Query) Switch(status model.CarStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.status = status
	q.epoch++
	return nil
}

// List queries the record service for the car records of the active
// status filter. It reflects the service's current view at call time;
// nothing is cached. If the active filter is switched while the query
// is in flight, the response is dropped and ErrStaleList is returned
// wrapped with the outdated status value.
func (q *Query) List(ctx context.Context) ([]model.Car, error) {
	q.mu.Lock()
	status, epoch := q.status, q.epoch
	q.mu.Unlock()

	cars, err := q.svc.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("listing %s cars: %w", status, err)
	}

	q.mu.Lock()
	stale := q.epoch != epoch
	q.mu.Unlock()
	if stale {
		return nil, fmt.Errorf("%s filter: %w", status, ErrStaleList)
	}
	return cars, nil
}
