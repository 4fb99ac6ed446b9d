// Copyright 2025 Isthali S.A.C.
// Copyright 2025 LEDI - Laboratorio de Estructuras
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package standards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCalculatorKnownIdentifiers(t *testing.T) {
	for _, ident := range Known() {
		calc, err := GetCalculator(ident)
		require.NoError(t, err, ident)
		assert.Equal(t, ident, calc.Standard())
	}
}

func TestGetCalculatorUnknown(t *testing.T) {
	_, err := GetCalculator("ISO9001")
	assert.ErrorIs(t, err, ErrUnknownStandard)
}

func TestGetCalculatorSuggestsClosest(t *testing.T) {
	_, err := GetCalculator("EN1465")
	require.ErrorIs(t, err, ErrUnknownStandard)
	assert.Contains(t, err.Error(), "EN14651")
}

func TestKnownIsSortedAndComplete(t *testing.T) {
	known := Known()
	assert.Len(t, known, 9)
	assert.IsIncreasing(t, known)
	assert.Contains(t, known, StdEFNARC1996)
	assert.Contains(t, known, StdNTP339111)
}

func TestIndexSetValueLookup(t *testing.T) {
	is := &IndexSet{Standard: StdEN14651}
	is.add("fL", 3.84, "MPa")
	is.add("fR1", 2.56, "MPa")

	v, ok := is.Value("fR1")
	assert.True(t, ok)
	assert.Equal(t, 2.56, v)

	_, ok = is.Value("fR9")
	assert.False(t, ok)

	assert.Equal(t, []string{"fL", "fR1"}, is.Names())
}
