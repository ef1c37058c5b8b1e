// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateBatchSize validates a batch size for partitioning and committing.
// Batch sizes must be positive integers.
func ValidateBatchSize(batchSize int) error {
	if batchSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}
	return nil
}

// ValidateTopK validates a top-k result count for similarity queries.
// There is no explicit upper bound; results are bounded by collection size.
func ValidateTopK(topK int) error {
	if topK <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTopK, topK)
	}
	return nil
}

// ValidateRecord validates a Record according to domain rules.
//
// Validation rules:
//   - Columns must not be empty
//   - Values must have exactly one entry per column
//
// NOT validated:
//   - Individual cell values (nil and NaN are legal and render as "")
func ValidateRecord(record *Record) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if len(record.Columns) == 0 {
		return fmt.Errorf("%w: no columns", ErrInvalidRecord)
	}

	if len(record.Values) != len(record.Columns) {
		return fmt.Errorf("%w: %w (%d values, %d columns)",
			ErrInvalidRecord, ErrColumnMismatch, len(record.Values), len(record.Columns))
	}

	return nil
}
