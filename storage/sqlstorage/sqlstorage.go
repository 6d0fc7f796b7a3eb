package sqlstorage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mylucky2d3d/crawler/storage"
	"github.com/mylucky2d3d/crawler/storage/sqlstorage/sqldb"
	"go.uber.org/zap"
)

const tableName = "lottery_documents"

var columns = []sqldb.Field{
	{Title: "dataset", Type: "VARCHAR(32) NOT NULL"},
	{Title: "body", Type: "MEDIUMTEXT"},
	{Title: "updated_at", Type: "VARCHAR(64)"},
}

// SQLStorage keeps every dataset as one row. Writes are a single REPLACE
// statement, so a reader gets either the old or the new row.
type SQLStorage struct {
	db sqldb.DBer
	options
}

func New(opts ...Option) (*SQLStorage, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	db, err := sqldb.New(
		sqldb.WithConnURL(options.sqlURL),
		sqldb.WithLogger(options.logger),
		sqldb.WithMaxConns(options.maxConns),
	)
	if err != nil {
		return nil, err
	}

	return NewWithDB(db, opts...)
}

// NewWithDB builds the store over an existing connection and creates the table.
func NewWithDB(db sqldb.DBer, opts ...Option) (*SQLStorage, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	s := &SQLStorage{db: db, options: options}
	err := s.db.CreateTable(sqldb.TableData{
		TableName:   tableName,
		ColumnNames: columns,
		PrimaryKey:  "dataset",
	})
	if err != nil {
		s.logger.Error("create table failed", zap.Error(err))
		return nil, err
	}

	return s, nil
}

func (s *SQLStorage) Write(ctx context.Context, d storage.Dataset, doc storage.Document) error {
	if _, err := storage.ParseDataset(string(d)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	var updated string
	if doc.LastUpdated != nil {
		updated = doc.LastUpdated.Format("2006-01-02T15:04:05.000Z07:00")
	}

	err = s.db.Insert(sqldb.TableData{
		TableName:   tableName,
		ColumnNames: columns,
		Args:        []interface{}{string(d), string(body), updated},
		DataCount:   1,
		Replace:     true,
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", d, err)
	}
	s.logger.Debug("document written", zap.String("dataset", string(d)), zap.Int("bytes", len(body)))
	return nil
}

func (s *SQLStorage) Read(ctx context.Context, d storage.Dataset) (storage.Document, error) {
	if _, err := storage.ParseDataset(string(d)); err != nil {
		return storage.Document{}, err
	}
	if err := ctx.Err(); err != nil {
		return storage.Document{}, err
	}

	rows, err := s.db.Find(sqldb.Query{
		TableName: tableName,
		Columns:   []string{"body"},
		Where:     "dataset = ?",
		Args:      []interface{}{string(d)},
	})
	if err != nil {
		return storage.Document{}, fmt.Errorf("read %s: %w", d, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 || rows[0][0] == "" {
		return storage.Empty(d), nil
	}

	var doc storage.Document
	if err := json.Unmarshal([]byte(rows[0][0]), &doc); err != nil {
		return storage.Document{}, fmt.Errorf("decode %s: %w", d, err)
	}
	return doc, nil
}
