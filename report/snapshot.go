// Copyright 2026 Isthali S.A.C.
// Copyright 2026 LEDI - Laboratorio de Estructuras
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

package report

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// SaveToFile serializes the aggregate to a msgpack snapshot. The snapshot
// is the interchange format between the evaluate action and the export
// and repl actions, so a batch can be computed once and rendered many
// times.
func (a *Aggregate) SaveToFile(path string) error {
	data, err := msgpack.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to serialize run %s: %w", a.RunID, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save run %s: %w", a.RunID, err)
	}
	return nil
}

// LoadAggregateFromFile reads back a snapshot written by SaveToFile.
func LoadAggregateFromFile(path string) (*Aggregate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load run snapshot: %w", err)
	}
	var agg Aggregate
	if err := msgpack.Unmarshal(data, &agg); err != nil {
		return nil, fmt.Errorf("failed to load run snapshot: %w", err)
	}
	return &agg, nil
}
