package sqldb

import (
	"database/sql"
	"errors"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

type DBer interface {
	CreateTable(t TableData) error
	Insert(t TableData) error
	Find(q Query) ([]Row, error)
}

type Sqldb struct {
	options
	db *sql.DB
}

type Field struct {
	Title string
	Type  string
}

type TableData struct {
	TableName   string
	ColumnNames []Field
	PrimaryKey  string
	Args        []interface{}
	DataCount   int  // rows carried by Args
	AutoKey     bool // add an auto increment id column
	Replace     bool // REPLACE INTO instead of INSERT INTO
}

type Query struct {
	TableName string
	Columns   []string
	Where     string // without the WHERE keyword, placeholders allowed
	Args      []interface{}
}

// Row holds the selected columns in Query order; NULL is "".
type Row []string

func New(opts ...Option) (*Sqldb, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	d := &Sqldb{}
	d.options = options

	if err := d.OpenDB(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Sqldb) OpenDB() error {
	db, err := sql.Open("mysql", d.sqlURL)
	if err != nil {
		return err
	}

	db.SetMaxOpenConns(d.maxConns)
	db.SetMaxIdleConns(d.maxConns)

	if err = db.Ping(); err != nil {
		db.Close()
		return err
	}

	d.db = db

	return nil
}

func (d *Sqldb) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *Sqldb) CreateTable(t TableData) error {
	sql, err := CreateTableSQL(t)
	if err != nil {
		return err
	}

	d.logger.Debug("create table", zap.String("sql", sql))

	_, err = d.db.Exec(sql)

	return err
}

func (d *Sqldb) DropTable(t TableData) error {
	if t.TableName == "" {
		return errors.New("table name can not be empty")
	}

	sql := `DROP TABLE ` + t.TableName

	d.logger.Debug("drop table", zap.String("sql", sql))

	_, err := d.db.Exec(sql)

	return err
}

func (d *Sqldb) Insert(t TableData) error {
	sql, err := InsertSQL(t)
	if err != nil {
		return err
	}

	d.logger.Debug("insert table", zap.String("sql", sql))
	_, err = d.db.Exec(sql, t.Args...)

	return err
}

func (d *Sqldb) Find(q Query) ([]Row, error) {
	stmt, err := SelectSQL(q)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("find", zap.String("sql", stmt))
	rows, err := d.db.Query(stmt, q.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		cells := make([]sql.NullString, len(q.Columns))
		dest := make([]interface{}, len(cells))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make(Row, len(cells))
		for i, c := range cells {
			row[i] = c.String
		}
		out = append(out, row)
	}

	return out, rows.Err()
}

func CreateTableSQL(t TableData) (string, error) {
	if len(t.ColumnNames) == 0 {
		return "", errors.New("column can not be empty")
	}

	sql := `CREATE TABLE IF NOT EXISTS ` + t.TableName + " ("

	if t.AutoKey {
		sql += `id INT(12) NOT NULL PRIMARY KEY AUTO_INCREMENT,`
	}

	for _, t := range t.ColumnNames {
		sql += t.Title + ` ` + t.Type + `,`
	}

	if t.PrimaryKey != "" && !t.AutoKey {
		sql += `PRIMARY KEY (` + t.PrimaryKey + `),`
	}

	sql = sql[:len(sql)-1] + `) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

	return sql, nil
}

func InsertSQL(t TableData) (string, error) {
	if len(t.ColumnNames) == 0 {
		return "", errors.New("empty column")
	}
	if t.DataCount <= 0 {
		return "", errors.New("no data to insert")
	}

	sql := `INSERT INTO `
	if t.Replace {
		sql = `REPLACE INTO `
	}
	sql += t.TableName + `(`

	for _, v := range t.ColumnNames {
		sql += v.Title + ","
	}

	sql = sql[:len(sql)-1] + `) VALUES `

	blank := ",(" + strings.Repeat(",?", len(t.ColumnNames))[1:] + ")"
	sql += strings.Repeat(blank, t.DataCount)[1:] + `;`

	return sql, nil
}

func SelectSQL(q Query) (string, error) {
	if len(q.Columns) == 0 {
		return "", errors.New("column can not be empty")
	}

	sql := `SELECT ` + strings.Join(q.Columns, ",") + ` FROM ` + q.TableName
	if q.Where != "" {
		sql += ` WHERE ` + q.Where
	}

	return sql + `;`, nil
}
