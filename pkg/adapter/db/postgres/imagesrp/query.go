// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package imagesrp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/momeni/dealership/pkg/adapter/db/postgres"
	"github.com/momeni/dealership/pkg/core/cerr"
	"github.com/momeni/dealership/pkg/core/model"
)

// gImage is the car_images table row.
type gImage struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid;column:id"`
	Name        string
	ContentType string
	Data        []byte
}

func (gi *gImage) TableName() string {
	return "car_images"
}

func Save[Q postgres.Queryer](ctx context.Context, q Q, picture model.Attachment) (uuid.UUID, error) {
	gdb := q.GORM(ctx)
	gi := gImage{
		ID:          uuid.New(),
		Name:        picture.Name,
		ContentType: picture.ContentType,
		Data:        picture.Data,
	}
	gdb.Create(&gi)
	if err := gdb.Error; err != nil {
		return uuid.Nil, fmt.Errorf("query: %w", err)
	}
	return gi.ID, nil
}

func Load[Q postgres.Queryer](ctx context.Context, q Q, pictureID uuid.UUID) (*model.Attachment, error) {
	gdb := q.GORM(ctx)
	var gis []gImage
	gdb.Where("id = ?", pictureID).Limit(1).Find(&gis)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(gis) == 0 {
		return nil, cerr.NotFound(
			fmt.Errorf("no image with id %s", pictureID),
		)
	}
	gi := gis[0]
	return &model.Attachment{
		Name:        gi.Name,
		ContentType: gi.ContentType,
		Data:        gi.Data,
	}, nil
}

func Delete[Q postgres.Queryer](ctx context.Context, q Q, pictureID uuid.UUID) error {
	gdb := q.GORM(ctx)
	gdb.Where("id = ?", pictureID).Delete(&gImage{})
	if err := gdb.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}
