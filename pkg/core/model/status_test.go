// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/momeni/dealership/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarStatusParseAndString(t *testing.T) {
	for _, tc := range []struct {
		str    string
		status model.CarStatus
	}{
		{"available", model.CarStatusAvailable},
		{"reserved", model.CarStatusReserved},
		{"sold", model.CarStatusSold},
	} {
		t.Run(tc.str, func(t *testing.T) {
			s, err := model.ParseCarStatus(tc.str)
			require.NoError(t, err)
			assert.Equal(t, tc.status, s)
			assert.Equal(t, tc.str, s.String())
			assert.NoError(t, s.Validate())
		})
	}
}

func TestCarStatusParseUnknown(t *testing.T) {
	for _, str := range []string{"", "Available", "deleted", "sold "} {
		t.Run(str, func(t *testing.T) {
			s, err := model.ParseCarStatus(str)
			assert.ErrorIs(t, err, model.ErrUnknownCarStatus)
			assert.Equal(t, model.CarStatusInvalid, s)
		})
	}
}

func TestCarStatusInvalidValues(t *testing.T) {
	for _, s := range []model.CarStatus{
		model.CarStatusInvalid, model.CarStatus(-1), model.CarStatus(4),
	} {
		err := s.Validate()
		var cse model.CarStatusError
		require.ErrorAs(t, err, &cse)
		assert.Equal(t, int(s), int(cse))
		assert.Panics(t, func() { _ = s.String() })
	}
}

func TestCarStatusTerminal(t *testing.T) {
	assert.False(t, model.CarStatusAvailable.Terminal())
	assert.False(t, model.CarStatusReserved.Terminal())
	assert.True(t, model.CarStatusSold.Terminal())
}

func TestCarStatusNeedsCustomer(t *testing.T) {
	assert.False(t, model.CarStatusAvailable.NeedsCustomer())
	assert.True(t, model.CarStatusReserved.NeedsCustomer())
	assert.True(t, model.CarStatusSold.NeedsCustomer())
}

func TestCarStatusJSON(t *testing.T) {
	b, err := json.Marshal(model.CarStatusReserved)
	require.NoError(t, err)
	assert.Equal(t, `"reserved"`, string(b))

	var s model.CarStatus
	require.NoError(t, json.Unmarshal([]byte(`"sold"`), &s))
	assert.Equal(t, model.CarStatusSold, s)

	assert.Error(t, json.Unmarshal([]byte(`"parked"`), &s))
	_, err = json.Marshal(model.CarStatusInvalid)
	assert.Error(t, err)
}
