package pgstorage

import (
	"context"
	"strings"
	"time"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

// execQuerierWrapper logs the sql, the arguments and the elapsed time of every query
type execQuerierWrapper struct {
	execQuerier
}

func (w *execQuerierWrapper) Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	startTime := time.Now()
	tag, err := w.execQuerier.Exec(ctx, sql, arguments...)
	log.Debugf("DB query, method[Exec], sql[%v] arguments[%v] rowsAffected[%v] err[%v] processTime[%v]",
		removeNewLine(sql), arguments, tag.RowsAffected(), err, time.Since(startTime).String())
	return tag, err
}

func (w *execQuerierWrapper) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	startTime := time.Now()
	rows, err := w.execQuerier.Query(ctx, sql, args...)
	log.Debugf("DB query, method[Query], sql[%v] arguments[%v] err[%v] processTime[%v]",
		removeNewLine(sql), args, err, time.Since(startTime).String())
	return rows, err
}

func (w *execQuerierWrapper) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	startTime := time.Now()
	row := w.execQuerier.QueryRow(ctx, sql, args...)
	log.Debugf("DB query, method[QueryRow], sql[%v] arguments[%v] processTime[%v]",
		removeNewLine(sql), args, time.Since(startTime).String())
	return row
}

func removeNewLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
