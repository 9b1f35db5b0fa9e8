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


// Package storage provides the vector storage layer for newsrag.
//
// The DocumentStore type owns the collection handle and composes an
// embedding service with an Index, the boundary interface to the
// external vector index service. Two Index implementations ship with
// the repository:
//
//   - storage/qdrant: REST client for a Qdrant collection
//   - storage/memory: in-process cosine-scan index for tests and
//     single-node deployments
//
// All public constructors accept the Index interface so backends are
// interchangeable without touching business logic.
package storage
