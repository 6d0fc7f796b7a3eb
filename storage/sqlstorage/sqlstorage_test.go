package sqlstorage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mylucky2d3d/crawler/storage"
	"github.com/mylucky2d3d/crawler/storage/sqlstorage/sqldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mysqldb keeps rows in memory keyed by the first column.
type mysqldb struct {
	created []sqldb.TableData
	rows    map[string][]string
	err     error
}

func (m *mysqldb) CreateTable(t sqldb.TableData) error {
	m.created = append(m.created, t)
	return m.err
}

func (m *mysqldb) Insert(t sqldb.TableData) error {
	if m.err != nil {
		return m.err
	}
	if _, err := sqldb.InsertSQL(t); err != nil {
		return err
	}
	if m.rows == nil {
		m.rows = make(map[string][]string)
	}
	row := make([]string, len(t.Args))
	for i, a := range t.Args {
		row[i] = a.(string)
	}
	m.rows[row[0]] = row
	return nil
}

func (m *mysqldb) Find(q sqldb.Query) ([]sqldb.Row, error) {
	if m.err != nil {
		return nil, m.err
	}
	row, ok := m.rows[q.Args[0].(string)]
	if !ok {
		return nil, nil
	}
	return []sqldb.Row{{row[1]}}, nil
}

func TestNewWithDBCreatesTable(t *testing.T) {
	db := &mysqldb{}
	_, err := NewWithDB(db)
	require.NoError(t, err)
	require.Len(t, db.created, 1)
	assert.Equal(t, "lottery_documents", db.created[0].TableName)
	assert.Equal(t, "dataset", db.created[0].PrimaryKey)

	_, err = NewWithDB(&mysqldb{err: errors.New("denied")})
	assert.Error(t, err)
}

func TestSQLStorageRoundTrip(t *testing.T) {
	db := &mysqldb{}
	s, err := NewWithDB(db)
	require.NoError(t, err)
	ctx := context.Background()

	doc, err := s.Read(ctx, storage.Weekly)
	require.NoError(t, err)
	assert.Equal(t, storage.Empty(storage.Weekly), doc)

	total := 1
	want, err := storage.NewDocument([]string{"04/Nov/2025"}, &total, time.Date(2025, 11, 4, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, s.Write(ctx, storage.Weekly, want))
	assert.Equal(t, "2025-11-04T10:00:00.000Z", db.rows["weekly"][2])

	got, err := s.Read(ctx, storage.Weekly)
	require.NoError(t, err)
	assert.True(t, want.LastUpdated.Equal(*got.LastUpdated))
	assert.Equal(t, 1, *got.TotalRecords)
	assert.JSONEq(t, string(want.Data), string(got.Data))
}

func TestSQLStorageErrors(t *testing.T) {
	db := &mysqldb{}
	s, err := NewWithDB(db)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Read(ctx, "monthly")
	assert.ErrorIs(t, err, storage.ErrUnknownDataset)

	db.err = errors.New("connection reset")
	_, err = s.Read(ctx, storage.Daily)
	assert.ErrorIs(t, err, db.err)
	assert.ErrorIs(t, s.Write(ctx, storage.Daily, storage.Document{}), db.err)

	db.err = nil
	db.rows = map[string][]string{"daily": {"daily", "{broken", ""}}
	_, err = s.Read(ctx, storage.Daily)
	assert.Error(t, err)
}

func TestMaxConnsOption(t *testing.T) {
	s, err := NewWithDB(&mysqldb{})
	require.NoError(t, err)
	assert.Equal(t, 16, s.maxConns)

	s, err = NewWithDB(&mysqldb{}, WithMaxConns(4))
	require.NoError(t, err)
	assert.Equal(t, 4, s.maxConns)
}
