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
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidArticle indicates an Article failed validation.
	ErrInvalidArticle = errors.New("invalid article")

	// ErrEmptyID indicates the Document ID field is empty.
	ErrEmptyID = errors.New("document id cannot be empty")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyHeading indicates the chunk Heading field is empty.
	ErrEmptyHeading = errors.New("chunk heading cannot be empty")

	// ErrContentTooShort indicates chunk content is below MinContentLength.
	ErrContentTooShort = errors.New("chunk content below minimum length")

	// ErrEmptyURL indicates the article URL field is empty.
	ErrEmptyURL = errors.New("article url cannot be empty")

	// ErrEmptySource indicates the article Source field is empty.
	ErrEmptySource = errors.New("article source cannot be empty")
)
