package postgres

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
)

// Archive persists completed observation records for local history. The
// uplink never depends on it; a dead database costs nothing but rows.

type Archive struct {
	db *sql.DB
}

type WriteRecordParams struct {
	Temperature     float64
	Pressure        float64
	Humidity        float64
	RainRate        float64
	RainDay         float64
	WindSpeed       float64
	WindGust        float64
	WindDirection   float64
	GustDirection   float64
	CaseTemperature float64
}

const writeRecord = `
INSERT INTO observations (
	recorded_at, temperature, pressure, humidity, rain_rate, rain_day,
	wind_speed, wind_gust, wind_direction, gust_direction, case_temperature
) VALUES (
	now(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10
)`

func New(dsn string) (*Archive, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Archive{db: db}, nil
}

func (a *Archive) WriteRecord(ctx context.Context, p WriteRecordParams) error {
	_, err := a.db.ExecContext(ctx, writeRecord,
		p.Temperature, p.Pressure, p.Humidity, p.RainRate, p.RainDay,
		p.WindSpeed, p.WindGust, p.WindDirection, p.GustDirection,
		p.CaseTemperature)
	return err
}

func (a *Archive) Close() error {
	return a.db.Close()
}
