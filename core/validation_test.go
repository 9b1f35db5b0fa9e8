package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name:    "valid document",
			doc:     &Document{ID: "https://example.com/a#abc#0", Content: "body"},
			wantErr: nil,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "empty id",
			doc:     &Document{Content: "body"},
			wantErr: ErrEmptyID,
		},
		{
			name:    "empty content",
			doc:     &Document{ID: "x"},
			wantErr: ErrEmptyContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	long := strings.Repeat("a", MinContentLength)

	tests := []struct {
		name    string
		chunk   *Chunk
		wantErr error
	}{
		{
			name:    "valid chunk",
			chunk:   &Chunk{Heading: "h", Content: long},
			wantErr: nil,
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name:    "empty heading",
			chunk:   &Chunk{Content: long},
			wantErr: ErrEmptyHeading,
		},
		{
			name:    "empty content",
			chunk:   &Chunk{Heading: "h"},
			wantErr: ErrEmptyContent,
		},
		{
			name:    "content one short of minimum",
			chunk:   &Chunk{Heading: "h", Content: long[:MinContentLength-1]},
			wantErr: ErrContentTooShort,
		},
		{
			// 99 two-byte runes: over the minimum in bytes, under it in
			// characters.
			name:    "multibyte content below minimum",
			chunk:   &Chunk{Heading: "h", Content: strings.Repeat("é", MinContentLength-1)},
			wantErr: ErrContentTooShort,
		},
		{
			name:    "multibyte content at minimum",
			chunk:   &Chunk{Heading: "h", Content: strings.Repeat("é", MinContentLength)},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateArticle(t *testing.T) {
	assert.NoError(t, ValidateArticle(&Article{Source: "s", URL: "https://example.com"}))
	assert.ErrorIs(t, ValidateArticle(nil), ErrInvalidArticle)
	assert.ErrorIs(t, ValidateArticle(&Article{Source: "s"}), ErrEmptyURL)
	assert.ErrorIs(t, ValidateArticle(&Article{URL: "https://example.com"}), ErrEmptySource)
}
