// Package source resolves the list of container identifiers to monitor
// from a local document, an HTTP endpoint or a git repository.
package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrSourceUnavailable means the source has nothing to offer (for example
// the local file does not exist). It is not reported to the operator.
var ErrSourceUnavailable = errors.New("source unavailable")

// Document is the identifier list format.
type Document struct {
	Containers []string `json:"containers" yaml:"containers"`
}

// ParseDocument decodes a JSON document, or a YAML one when the content
// does not start with '{'. Blank and duplicate entries are dropped.
func ParseDocument(data []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty document")
	}

	var doc Document
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}
	return normalize(doc.Containers), nil
}

func normalize(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
