package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type Dataset string

const (
	Daily  Dataset = "daily"
	Weekly Dataset = "weekly"
	ThreeD Dataset = "threeD"
)

var Datasets = []Dataset{Daily, Weekly, ThreeD}

var ErrUnknownDataset = errors.New("unknown dataset")

func ParseDataset(s string) (Dataset, error) {
	for _, d := range Datasets {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDataset, s)
}

// Document is the persisted unit of one dataset.
type Document struct {
	LastUpdated  *time.Time      `json:"lastUpdated"`
	TotalRecords *int            `json:"totalRecords,omitempty"`
	Data         json.RawMessage `json:"data"`
	Message      string          `json:"message,omitempty"`
}

// Populated reports whether the document holds scraped data.
func (d Document) Populated() bool {
	return d.LastUpdated != nil && len(d.Data) > 0 && string(d.Data) != "null"
}

// NewDocument encodes data into a document stamped with at. total is set for
// list datasets.
func NewDocument(data any, total *int, at time.Time) (Document, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Document{}, fmt.Errorf("encode document: %w", err)
	}
	at = at.UTC().Truncate(time.Millisecond)
	return Document{LastUpdated: &at, TotalRecords: total, Data: raw}, nil
}

// Empty returns the sentinel served before the first successful scrape.
func Empty(d Dataset) Document {
	zero := 0
	switch d {
	case Weekly:
		return Document{TotalRecords: &zero, Data: json.RawMessage("[]"), Message: "No weekly data available yet."}
	case ThreeD:
		return Document{TotalRecords: &zero, Data: json.RawMessage("[]"), Message: "No 3D data available yet."}
	default:
		return Document{Data: json.RawMessage("null"), Message: "No data available yet. Waiting for first scrape..."}
	}
}

// Store maps a dataset to its latest document. Write replaces the whole
// document atomically; Read returns the Empty sentinel when nothing was
// written yet.
type Store interface {
	Write(ctx context.Context, d Dataset, doc Document) error
	Read(ctx context.Context, d Dataset) (Document, error)
}
