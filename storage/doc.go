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


// Package storage provides the vector-store abstraction layer for tabvec.
//
// This package defines the Store and Collection interfaces that decouple the
// ingestion and query paths from the storage implementation, allowing
// different backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public
// constructors to enforce abstraction:
//
//	store, err := badger.NewStore(path)  // returns storage.Store interface
//
// # Handle Semantics
//
// A Collection value is an explicit handle, not a live view of lifecycle
// state. Deleting a collection through the Store leaves previously obtained
// handles stale; a caller that resets a collection must use the fresh handle
// returned by GetOrCreateCollection afterwards.
//
// # Serialization
//
// Entries are persisted with MUS binary encoding (mus-go), composed by hand
// from ord/raw/varint serializers since the stored shape is a single small
// struct.
package storage
