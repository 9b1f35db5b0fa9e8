// Package sources loads the article list that seeds a backfill.
package sources

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/poiesic/newsrag/core"
)

// Load reads an article list from a CSV file with a (source, url)
// header row, returning articles in file order with the header skipped.
func Load(path string) ([]core.Article, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening article list: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads (source, url) records from r. The first row is a header
// and is skipped. Rows with fewer than two fields are rejected.
func Parse(r io.Reader) ([]core.Article, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // validated per row below

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing article list: %w", err)
	}

	if len(rows) == 0 {
		return []core.Article{}, nil
	}

	articles := make([]core.Article, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 2 {
			return nil, fmt.Errorf("article list row %d: expected source,url", i+2)
		}
		article := core.Article{Source: row[0], URL: row[1]}
		if err := core.ValidateArticle(&article); err != nil {
			return nil, fmt.Errorf("article list row %d: %w", i+2, err)
		}
		articles = append(articles, article)
	}
	return articles, nil
}
