// Package dialect describes the SQL dialects generated projects and the
// predicate renderer can target.
//
// # Supported Dialects
//
//   - SQLite: the embedded backend (modernc.org/sqlite, cgo free)
//   - MySQL: the external backend (github.com/go-sql-driver/mysql)
//   - Postgres: available to the predicate renderer and migrations
//
// # Dialect Constants
//
// Each dialect is identified by a constant string:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// A Dialect knows how to quote identifiers, number placeholders, cast a
// column to text and declare a column for each attribute type:
//
//	d := dialect.ForBackend(feature.External)
//	d.Quote("name")        // `name`
//	d.Placeholder(1)       // ?
//	d.Column(schema.Text)  // VARCHAR(255)
package dialect
