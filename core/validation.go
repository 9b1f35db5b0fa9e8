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

import (
	"fmt"
	"unicode/utf8"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Content must not be empty
//
// NOT validated (populated later by the store):
//   - Embedding (can be empty until the store embeds it)
//   - Metadata (optional; provenance keys are the producer's concern)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyID)
	}

	if doc.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Heading must not be empty
//   - Content must not be empty
//   - Content must be at least MinContentLength characters (runes)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Heading == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyHeading)
	}

	if chunk.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	// Character count, not bytes: multibyte content must not slip
	// through on byte length alone.
	if n := utf8.RuneCountInString(chunk.Content); n < MinContentLength {
		return fmt.Errorf("%w: %w (%d < %d)", ErrInvalidChunk, ErrContentTooShort,
			n, MinContentLength)
	}

	return nil
}

// ValidateArticle validates an Article according to domain rules.
func ValidateArticle(article *Article) error {
	if article == nil {
		return fmt.Errorf("%w: article is nil", ErrInvalidArticle)
	}

	if article.URL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArticle, ErrEmptyURL)
	}

	if article.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArticle, ErrEmptySource)
	}

	return nil
}
