// Package store persists the vehicle catalog in SQLite and resolves filter
// queries into paginated result sets.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/atomicstack/gridscope/internal/resource"
	"github.com/atomicstack/gridscope/internal/vehicle"
)

const schema = `
CREATE TABLE IF NOT EXISTS vehicles (
	vin TEXT PRIMARY KEY,
	manufacturer TEXT NOT NULL,
	model TEXT NOT NULL,
	year INTEGER NOT NULL,
	price INTEGER NOT NULL,
	mileage INTEGER NOT NULL,
	fuel TEXT NOT NULL,
	body_style TEXT NOT NULL,
	color TEXT NOT NULL
);
`

// Catalog is the SQLite-backed vehicle inventory. It satisfies
// resource.Fetcher[vehicle.Filters, vehicle.Vehicle, vehicle.Stats].
type Catalog struct {
	conn *sql.DB
}

// Open connects to the database at path, creating the file and schema as
// needed. ":memory:" opens an in-memory catalog.
func Open(path string) (*Catalog, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL mode allows simultaneous readers and writers
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Catalog{conn: db}, nil
}

// Close releases the connection.
func (c *Catalog) Close() error {
	return c.conn.Close()
}

// Count returns the number of rows in the catalog.
func (c *Catalog) Count(ctx context.Context) (int, error) {
	var n int
	err := c.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM vehicles").Scan(&n)
	return n, err
}

// Insert upserts vehicles.
func (c *Catalog) Insert(ctx context.Context, rows ...vehicle.Vehicle) error {
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO vehicles
		(vin, manufacturer, model, year, price, mileage, fuel, body_style, color)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, v := range rows {
		if _, err := stmt.ExecContext(ctx, v.VIN, v.Manufacturer, v.Model, v.Year,
			v.Price, v.Mileage, v.Fuel, v.BodyStyle, v.Color); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// SeedIfEmpty loads the built-in sample inventory when the catalog has no
// rows, so a fresh install has something to browse.
func (c *Catalog) SeedIfEmpty(ctx context.Context) error {
	n, err := c.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return c.Insert(ctx, SampleInventory()...)
}

// Fetch resolves filters into one page of vehicles plus statistics over the
// full match set. Statistics deliberately ignore pagination. Highlights are
// presentation state and do not narrow the query.
func (c *Catalog) Fetch(ctx context.Context, f vehicle.Filters, _ resource.Highlights) (resource.Result[vehicle.Vehicle, vehicle.Stats], error) {
	var zero resource.Result[vehicle.Vehicle, vehicle.Stats]
	where, args := buildWhere(f)
	query := `SELECT vin, manufacturer, model, year, price, mileage, fuel, body_style, color
		FROM vehicles` + where + ` ORDER BY manufacturer, model, vin`

	rows, err := c.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return zero, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var matches []vehicle.Vehicle
	for rows.Next() {
		var v vehicle.Vehicle
		if err := rows.Scan(&v.VIN, &v.Manufacturer, &v.Model, &v.Year,
			&v.Price, &v.Mileage, &v.Fuel, &v.BodyStyle, &v.Color); err != nil {
			return zero, err
		}
		matches = append(matches, v)
	}
	if err := rows.Err(); err != nil {
		return zero, err
	}

	stats := vehicle.ComputeStats(matches)
	page := paginate(matches, f.Page, f.PageSize)
	return resource.Result[vehicle.Vehicle, vehicle.Stats]{
		Rows:  page,
		Total: len(matches),
		Stats: stats,
	}, nil
}

func buildWhere(f vehicle.Filters) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	addIn := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		holders := make([]string, len(values))
		for i, v := range values {
			holders[i] = "?"
			args = append(args, v)
		}
		clauses = append(clauses, column+" COLLATE NOCASE IN ("+strings.Join(holders, ", ")+")")
	}

	addIn("manufacturer", f.Manufacturers)
	addIn("model", f.Models)
	addIn("fuel", f.Fuels)
	addIn("body_style", f.BodyStyles)

	if f.YearMin > 0 {
		clauses = append(clauses, "year >= ?")
		args = append(args, f.YearMin)
	}
	if f.YearMax > 0 {
		clauses = append(clauses, "year <= ?")
		args = append(args, f.YearMax)
	}
	if f.PriceMax > 0 {
		clauses = append(clauses, "price <= ?")
		args = append(args, f.PriceMax)
	}
	if f.MileageMax > 0 {
		clauses = append(clauses, "mileage <= ?")
		args = append(args, f.MileageMax)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		clauses = append(clauses, "(manufacturer LIKE ? OR model LIKE ? OR vin LIKE ? OR color LIKE ?)")
		args = append(args, like, like, like, like)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func paginate(rows []vehicle.Vehicle, page, size int) []vehicle.Vehicle {
	if size < 1 {
		size = vehicle.DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(rows) {
		return nil
	}
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}
