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


package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/tabvec/core"
)

// Hand-composed MUS serializers for the stored entry fields.
// Vectors use raw float32 encoding; timestamps are unix microseconds.
var (
	vectorSer   = ord.NewSliceSer[float32](raw.Float32)
	metadataSer = ord.NewMapSer[string, string](ord.String, ord.String)
)

// MarshalIndexEntry serializes an IndexEntry to bytes.
func MarshalIndexEntry(entry *core.IndexEntry) []byte {
	size := ord.String.Size(entry.ID) +
		ord.String.Size(entry.Text) +
		vectorSer.Size(entry.Vector) +
		metadataSer.Size(entry.Metadata) +
		varint.Uint64.Size(uint64(entry.Fingerprint)) +
		varint.Int64.Size(entry.InsertedAt.UnixMicro()) +
		varint.Int64.Size(entry.UpdatedAt.UnixMicro())

	bs := make([]byte, size)
	n := ord.String.Marshal(entry.ID, bs)
	n += ord.String.Marshal(entry.Text, bs[n:])
	n += vectorSer.Marshal(entry.Vector, bs[n:])
	n += metadataSer.Marshal(entry.Metadata, bs[n:])
	n += varint.Uint64.Marshal(uint64(entry.Fingerprint), bs[n:])
	n += varint.Int64.Marshal(entry.InsertedAt.UnixMicro(), bs[n:])
	varint.Int64.Marshal(entry.UpdatedAt.UnixMicro(), bs[n:])
	return bs
}

// UnmarshalIndexEntry deserializes an IndexEntry from bytes.
func UnmarshalIndexEntry(data []byte) (*core.IndexEntry, error) {
	var entry core.IndexEntry

	id, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: id: %w", ErrSerializationFailed, err)
	}
	entry.ID = id

	text, n1, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: text: %w", ErrSerializationFailed, err)
	}
	entry.Text = text
	n += n1

	vector, n1, err := vectorSer.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: vector: %w", ErrSerializationFailed, err)
	}
	entry.Vector = vector
	n += n1

	metadata, n1, err := metadataSer.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: metadata: %w", ErrSerializationFailed, err)
	}
	entry.Metadata = metadata
	n += n1

	fingerprint, n1, err := varint.Uint64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: fingerprint: %w", ErrSerializationFailed, err)
	}
	entry.Fingerprint = core.Fingerprint(fingerprint)
	n += n1

	insertedAt, n1, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: inserted at: %w", ErrSerializationFailed, err)
	}
	entry.InsertedAt = time.UnixMicro(insertedAt).UTC()
	n += n1

	updatedAt, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: updated at: %w", ErrSerializationFailed, err)
	}
	entry.UpdatedAt = time.UnixMicro(updatedAt).UTC()

	return &entry, nil
}
