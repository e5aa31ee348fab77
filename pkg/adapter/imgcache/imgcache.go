// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package imgcache materializes car pictures as local files, so UI
// adapters which can only render file paths (or need to hand a path
// to an external viewer) may present the pictures of the listed car
// records. Each cached file is scoped to one car record; resolving a
// record whose picture reference has changed supersedes and removes
// the stale file, and records which fall out of view release their
// files too, so the cache never outgrows the listed records.
package imgcache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/momeni/dealership/pkg/core/model"
	"github.com/momeni/dealership/pkg/core/service"
)

// Handle names a materialized picture file of one car record.
// A handle stays valid until the owning cache supersedes it (because
// the record's picture reference changed), releases it (because the
// record fell out of view), or is closed.
type Handle struct {
	path string
}

// Path returns the local file path of the materialized picture.
func (h *Handle) Path() string {
	return h.path
}

type entry struct {
	pictureID uuid.UUID
	path      string
}

// Cache materializes and tracks the picture files of car records.
// It is safe for concurrent use.
type Cache struct {
	svc service.Records

	mu      sync.Mutex
	dir     string
	entries map[uuid.UUID]*entry // keyed by the car record ID
}

// New instantiates a cache, creating a dedicated temporary directory
// for the materialized picture files.
func New(svc service.Records) (*Cache, error) {
	dir, err := os.MkdirTemp("", "dlweb-pictures-")
	if err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Cache{
		svc:     svc,
		dir:     dir,
		entries: make(map[uuid.UUID]*entry),
	}, nil
}

// Resolve returns a handle for the picture of the given car record,
// fetching and materializing it on the first use. If the record's
// picture reference differs from the cached one, the stale file is
// removed first and a fresh file takes its place, so an update of a
// car record invalidates its previously resolved handles.
func (c *Cache) Resolve(
	ctx context.Context, car model.Car,
) (*Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		return nil, errors.New("cache is closed")
	}
	if e, ok := c.entries[car.ID]; ok {
		if e.pictureID == car.Picture {
			return &Handle{path: e.path}, nil
		}
		c.release(car.ID)
	}
	img, err := c.svc.Image(ctx, car.Picture)
	if err != nil {
		return nil, fmt.Errorf("fetching picture: %w", err)
	}
	path := filepath.Join(
		c.dir, car.Picture.String()+extension(img.ContentType),
	)
	if err := os.WriteFile(path, img.Data, 0o600); err != nil {
		return nil, fmt.Errorf("materializing picture: %w", err)
	}
	c.entries[car.ID] = &entry{pictureID: car.Picture, path: path}
	return &Handle{path: path}, nil
}

// Sync releases the cached files of all car records which are absent
// from the given listing, so a status filter switch or a record
// deletion frees the files of the records which are no longer shown.
func (c *Cache) Sync(cars []model.Car) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		return
	}
	visible := make(map[uuid.UUID]struct{}, len(cars))
	for _, car := range cars {
		visible[car.ID] = struct{}{}
	}
	for carID := range c.entries {
		if _, ok := visible[carID]; !ok {
			c.release(carID)
		}
	}
}

// Close releases all cached files and removes the cache directory.
// All previously returned handles become invalid. A closed cache
// rejects further Resolve calls.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		return nil
	}
	c.entries = nil
	if err := os.RemoveAll(c.dir); err != nil {
		return fmt.Errorf("removing cache directory: %w", err)
	}
	return nil
}

// release must be called with the mutex held.
func (c *Cache) release(carID uuid.UUID) {
	e, ok := c.entries[carID]
	if !ok {
		return
	}
	delete(c.entries, carID)
	// a file which is already gone is not an error condition
	_ = os.Remove(e.path)
}

// extension maps the supported picture media types to their common
// file name extensions, so external viewers can recognize the format.
func extension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}
