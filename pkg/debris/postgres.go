package debris

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
)

// TableName is the reference table created by the migrations.
const TableName = "debris"

// dbColumns are the columns of TableName in insert order, position excluded.
var dbColumns = append(
	[]string{"object_name"},
	append(
		lo.Map(ElementColumns, func(c string, _ int) string { return strings.ToLower(c) }),
		"satellite_mass")...,
)

func loadPostgres(ctx context.Context, url string, pool *pgxpool.Pool) ([]Record, error) {
	if pool == nil {
		var err error
		pool, err = pgxpool.New(ctx, url)
		if err != nil {
			return nil, err
		}
		defer pool.Close()
	}
	return ReadPostgres(ctx, pool)
}

// ReadPostgres loads all records ordered by their position column.
func ReadPostgres(ctx context.Context, pool *pgxpool.Pool) ([]Record, error) {
	query := fmt.Sprintf("select %s from %s order by position",
		strings.Join(dbColumns, ", "), TableName)
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		var name *string
		var mass *float64
		var v [9]float64
		if err := row.Scan(&name, &v[0], &v[1], &v[2], &v[3], &v[4],
			&v[5], &v[6], &v[7], &v[8], &mass); err != nil {
			return Record{}, err
		}
		return Record{
			Name:          lo.FromPtr(name),
			Elements:      elementsFrom(v),
			Mass:          lo.FromPtrOr(mass, DefaultMass),
			MassDefaulted: mass == nil,
		}, nil
	})
}

// WritePostgres replaces the content of TableName with records, keeping
// their order in the position column. Defaulted masses are stored as NULL.
func WritePostgres(ctx context.Context, pool *pgxpool.Pool, records []Record) (int64, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	//nolint:errcheck // rollback after commit is a no-op
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, "delete from "+TableName); err != nil {
		return 0, err
	}
	rows := lo.Map(records, func(r Record, idx int) []any {
		v := Values(r.Elements)
		var mass *float64
		if !r.MassDefaulted {
			mass = &r.Mass
		}
		return []any{
			idx, lo.EmptyableToPtr(r.Name),
			v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7], v[8],
			mass,
		}
	})
	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{TableName},
		append([]string{"position"}, dbColumns...),
		pgx.CopyFromRows(rows))
	if err != nil {
		return 0, err
	}
	return n, tx.Commit(ctx)
}
