package testsupport

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteMemoryDB opens a named shared-cache in-memory sqlite database so
// parallel tests do not see each other's tables.
func NewSQLiteMemoryDB(name string) (*sql.DB, error) {
	return sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
}

// NewSQLiteFileDB opens a sqlite database backed by the file at path.
func NewSQLiteFileDB(path string) (*sql.DB, error) {
	return sql.Open("sqlite3", "file:"+path)
}
