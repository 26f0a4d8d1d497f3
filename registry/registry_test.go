/*
 * Copyright 2026 bhcore Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bohrium-go/bhcore/bhtype"
)

func TestNewBaseAssignsMonotonicIDs(t *testing.T) {
	r := New()
	id1, err := r.NewBase(bhtype.F32, 1000)
	require.NoError(t, err)
	id2, err := r.NewBase(bhtype.F32, 1000)
	require.NoError(t, err)
	require.Greater(t, id2, id1)
}

func TestNewBaseRejectsBadInput(t *testing.T) {
	r := New()
	_, err := r.NewBase(bhtype.F32, 0)
	require.ErrorIs(t, err, ErrInvalidNElements)

	_, err = r.NewBase(bhtype.Invalid, 10)
	require.ErrorIs(t, err, ErrInvalidType)
}

func TestDoubleDiscardIsAContractViolation(t *testing.T) {
	r := New()
	id, err := r.NewBase(bhtype.F32, 10)
	require.NoError(t, err)

	_, err = r.Discard(id)
	require.NoError(t, err)

	_, err = r.Discard(id)
	require.ErrorIs(t, err, ErrDoubleDiscard)
}

func TestRetireRemovesBase(t *testing.T) {
	r := New()
	id, err := r.NewBase(bhtype.F32, 10)
	require.NoError(t, err)
	require.Equal(t, 1, r.Len())

	r.Retire(id)
	require.Equal(t, 0, r.Len())

	_, err = r.Lookup(id)
	require.ErrorIs(t, err, ErrUnknownBase)
}

func TestPoolMaterializeAndRelease(t *testing.T) {
	r := New()
	id, err := r.NewBase(bhtype.F64, 100)
	require.NoError(t, err)
	b, err := r.Lookup(id)
	require.NoError(t, err)

	var p Pool
	p.MaterializeElements(b)
	require.Len(t, b.Data(), 800)

	p.Release(b)
	require.Nil(t, b.Data())
	require.True(t, b.Freed())
}
