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

import "errors"

var (
	// ErrNotInitialized indicates an operation ran before Initialize
	// completed. This is a sequencing bug in the caller, distinct from
	// the index being unreachable.
	ErrNotInitialized = errors.New("collection not initialized")

	// ErrUnreachable indicates the underlying vector index could not
	// be reached during initialization.
	ErrUnreachable = errors.New("vector index unreachable")

	// ErrMalformedResult indicates the index returned a response whose
	// shape could not be interpreted.
	ErrMalformedResult = errors.New("malformed index result")

	// ErrAllEmbeddingsFailed indicates every document in an Add batch
	// failed embedding, leaving nothing to persist.
	ErrAllEmbeddingsFailed = errors.New("embedding failed for every document in batch")

	// ErrNoDocuments indicates an empty batch was passed where at
	// least one document is required.
	ErrNoDocuments = errors.New("no documents provided")
)
