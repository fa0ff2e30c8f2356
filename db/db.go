// Package db holds the postgres schema and the small helpers shared by every
// package that talks to postgres.
package db

import (
	"context"
	_ "embed"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed schema.sql
var schema string

// DbConn is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx
type DbConn interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, conn DbConn) error {
	_, err := conn.Exec(ctx, schema)
	return err
}

// GetCols returns the `db` tagged column names of a struct, in field order.
// Fields tagged `db:"-"` or without a tag are skipped.
func GetCols(s any) []string {
	t := reflect.TypeOf(s)

	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	var cols []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)

		if !f.IsExported() {
			continue
		}

		tag := f.Tag.Get("db")

		if tag == "" || tag == "-" {
			continue
		}

		cols = append(cols, strings.Split(tag, ",")[0])
	}

	return cols
}

// ColsString is GetCols joined for use in a SELECT or RETURNING clause
func ColsString(s any) string {
	return strings.Join(GetCols(s), ", ")
}
