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

import "errors"

// Domain validation errors
var (
	// ErrInvalidBatchSize indicates a batch size that is not a positive integer.
	ErrInvalidBatchSize = errors.New("batch size must be a positive integer")

	// ErrInvalidTopK indicates a top-k value that is not a positive integer.
	ErrInvalidTopK = errors.New("top-k must be a positive integer")

	// ErrInvalidRecord indicates a Record failed validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrColumnMismatch indicates a record whose value count does not match
	// its column count.
	ErrColumnMismatch = errors.New("value count does not match column count")

	// ErrEmptySource indicates an empty source name.
	ErrEmptySource = errors.New("source name cannot be empty")

	// ErrNegativeRow indicates a negative row index.
	ErrNegativeRow = errors.New("row index cannot be negative")
)
