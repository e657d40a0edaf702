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

// Package dataset loads article corpora from line-delimited JSON dumps.
package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/poiesic/answerit/core"
)

// Long Wikipedia articles routinely exceed bufio.Scanner's 64KiB default.
const maxArticleLine = 16 << 20

// LoadArticles reads up to maxArticles articles from a JSONL dump at path.
// Articles with an empty title, empty text, or text that normalizes to
// nothing are skipped rather than failing the load. A maxArticles of zero
// or below means no limit.
func LoadArticles(path string, maxArticles int) ([]core.Article, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	logger := slog.Default().With("component", "dataset-loader")

	var articles []core.Article
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxArticleLine)

	line := 0
	skipped := 0
	for scanner.Scan() {
		if maxArticles > 0 && len(articles) >= maxArticles {
			break
		}
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var record struct {
			Id    string `json:"id"`
			Title string `json:"title"`
			Text  string `json:"text"`
		}
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}

		text := NormalizeText(record.Text)
		if record.Title == "" || text == "" {
			skipped++
			continue
		}

		id := record.Id
		if id == "" {
			id = strconv.Itoa(len(articles))
		}
		articles = append(articles, core.Article{
			Id:     id,
			Title:  record.Title,
			Text:   text,
			Source: "wiki:" + record.Title,
		})

		if len(articles)%1000 == 0 {
			logger.Info("loading articles", "loaded", len(articles))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logger.Info("articles loaded", "path", path, "loaded", len(articles), "skipped", skipped)
	return articles, nil
}

// NormalizeText collapses every run of whitespace, newlines included, into
// a single space and trims the ends.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
