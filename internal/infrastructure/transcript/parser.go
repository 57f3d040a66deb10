// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/meetwise/meetwise-meeting-service/internal/domain"
	"github.com/meetwise/meetwise-meeting-service/internal/domain/models"
)

// Parser decodes JSON-lines transcript files.
type Parser struct{}

// NewParser creates a new transcript parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse implements the transcript parser interface.
func (p *Parser) Parse(data []byte) ([]models.TranscriptItem, error) {
	return ParseJSONL(data)
}

// ParseJSONL parses a JSON-lines transcript file into transcript items. Blank
// lines are skipped. A malformed line fails the whole parse so a truncated or
// corrupt file is never summarized partially.
func ParseJSONL(data []byte) ([]models.TranscriptItem, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var items []models.TranscriptItem
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var item models.TranscriptItem
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, domain.NewValidationError(
				fmt.Sprintf("malformed transcript line %d", lineNo), err)
		}
		items = append(items, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, domain.NewInternalError("failed to scan transcript", err)
	}

	return items, nil
}
