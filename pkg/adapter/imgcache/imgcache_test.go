// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package imgcache_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/momeni/dealership/pkg/adapter/imgcache"
	"github.com/momeni/dealership/pkg/core/model"
	"github.com/momeni/dealership/pkg/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// imageSvc implements the Image query of the record service contract,
// counting the fetches per picture reference.
type imageSvc struct {
	service.Records // nil; only Image is expected to be called

	fetches map[uuid.UUID]int
}

func (s *imageSvc) Image(
	_ context.Context, pictureID uuid.UUID,
) (*model.Attachment, error) {
	if s.fetches == nil {
		s.fetches = make(map[uuid.UUID]int)
	}
	s.fetches[pictureID]++
	return &model.Attachment{
		Name:        pictureID.String(),
		ContentType: "image/png",
		Data:        []byte(pictureID.String()),
	}, nil
}

func car(carID, picID uuid.UUID) model.Car {
	return model.Car{
		ID:      carID,
		Make:    "Toyota",
		Model:   "Corolla",
		Year:    2020,
		Price:   25000,
		Status:  model.CarStatusAvailable,
		Picture: picID,
	}
}

func newCache(t *testing.T, svc service.Records) *imgcache.Cache {
	t.Helper()
	c, err := imgcache.New(svc)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, c.Close()) })
	return c
}

func TestResolveMaterializesOnce(t *testing.T) {
	ctx := context.Background()
	svc := &imageSvc{}
	cache := newCache(t, svc)
	rec := car(uuid.New(), uuid.New())

	h1, err := cache.Resolve(ctx, rec)
	require.NoError(t, err)
	data, err := os.ReadFile(h1.Path())
	require.NoError(t, err)
	assert.Equal(t, []byte(rec.Picture.String()), data)
	assert.Contains(t, h1.Path(), ".png")

	h2, err := cache.Resolve(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, h1.Path(), h2.Path())
	assert.Equal(t, 1, svc.fetches[rec.Picture], "cached, not refetched")
}

func TestResolveSupersedesChangedPicture(t *testing.T) {
	ctx := context.Background()
	svc := &imageSvc{}
	cache := newCache(t, svc)
	carID := uuid.New()
	rec := car(carID, uuid.New())

	h1, err := cache.Resolve(ctx, rec)
	require.NoError(t, err)

	// an update assigned a fresh picture reference to the same record
	updated := car(carID, uuid.New())
	h2, err := cache.Resolve(ctx, updated)
	require.NoError(t, err)
	assert.NotEqual(t, h1.Path(), h2.Path())
	assert.NoFileExists(t, h1.Path(), "stale file must be removed")
	assert.FileExists(t, h2.Path())
}

func TestSyncReleasesOutOfViewRecords(t *testing.T) {
	ctx := context.Background()
	svc := &imageSvc{}
	cache := newCache(t, svc)
	kept := car(uuid.New(), uuid.New())
	dropped := car(uuid.New(), uuid.New())

	hKept, err := cache.Resolve(ctx, kept)
	require.NoError(t, err)
	hDropped, err := cache.Resolve(ctx, dropped)
	require.NoError(t, err)

	cache.Sync([]model.Car{kept})
	assert.FileExists(t, hKept.Path())
	assert.NoFileExists(t, hDropped.Path())

	// the dropped record is fetched anew if it comes back in view
	_, err = cache.Resolve(ctx, dropped)
	require.NoError(t, err)
	assert.Equal(t, 2, svc.fetches[dropped.Picture])
}

func TestCloseReleasesEverything(t *testing.T) {
	ctx := context.Background()
	svc := &imageSvc{}
	cache, err := imgcache.New(svc)
	require.NoError(t, err)
	rec := car(uuid.New(), uuid.New())
	h, err := cache.Resolve(ctx, rec)
	require.NoError(t, err)

	require.NoError(t, cache.Close())
	assert.NoFileExists(t, h.Path())
	_, err = cache.Resolve(ctx, rec)
	assert.Error(t, err, "a closed cache rejects further resolves")
	assert.NoError(t, cache.Close(), "closing twice is harmless")
}
