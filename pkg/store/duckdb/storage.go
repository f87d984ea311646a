package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const WorkOrdersTableSchema = `
	CREATE TABLE IF NOT EXISTS work_orders (
		id VARCHAR PRIMARY KEY,
		wo_number VARCHAR NOT NULL UNIQUE,
		client VARCHAR NOT NULL,
		trade VARCHAR NOT NULL,
		description VARCHAR,
		nte DOUBLE DEFAULT 0,
		status VARCHAR NOT NULL DEFAULT 'waiting',
		priority VARCHAR DEFAULT 'normal',
		city VARCHAR,
		state VARCHAR,
		address VARCHAR,
		notes VARCHAR,
		technician_id VARCHAR,
		eta_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ,
		completed_at TIMESTAMPTZ
	);
`

const CostsTableSchema = `
	CREATE TABLE IF NOT EXISTS costs (
		id VARCHAR PRIMARY KEY,
		work_order_id VARCHAR NOT NULL,
		technician_id VARCHAR NOT NULL,
		amount DOUBLE NOT NULL,
		status VARCHAR NOT NULL DEFAULT 'requested',
		note VARCHAR,
		requested_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		approved_at TIMESTAMPTZ,
		paid_at TIMESTAMPTZ
	);
`

const TechniciansTableSchema = `
	CREATE TABLE IF NOT EXISTS technicians (
		id VARCHAR PRIMARY KEY,
		name VARCHAR NOT NULL,
		trade VARCHAR NOT NULL,
		phone VARCHAR,
		email VARCHAR,
		address VARCHAR,
		city VARCHAR,
		state VARCHAR,
		zip_code VARCHAR,
		notes VARCHAR,
		hourly_rate DOUBLE DEFAULT 0,
		rating DOUBLE DEFAULT 5,
		is_blacklisted BOOLEAN NOT NULL DEFAULT FALSE,
		blacklist_reason VARCHAR,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		money_made DOUBLE NOT NULL DEFAULT 0,
		jobs_done INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ
	);
`

var bootQueries = []string{
	WorkOrdersTableSchema,
	CostsTableSchema,
	TechniciansTableSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
