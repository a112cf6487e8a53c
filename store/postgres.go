package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/lib/pq"

	"nearby-search-system/config"
	"nearby-search-system/models"
	"nearby-search-system/search"
)

// PostgresStore keeps documents in a table with a JSONB doc column plus a
// GeoJSON geo column for interoperability. Range queries run over the
// extracted text of the indexed path.
type PostgresStore struct {
	db       *sql.DB
	table    string
	geoField string
}

// NewPostgresStore connects to Postgres and verifies the connection.
func NewPostgresStore(cfg config.DBConfig, table, geoField string) (*PostgresStore, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	log.Println("Database connected.")
	return &PostgresStore{db: db, table: table, geoField: geoField}, nil
}

// jsonPath converts a dotted field path into the path array the #>>
// operator expects.
func jsonPath(field string) []string {
	return strings.Split(field, ".")
}

func (s *PostgresStore) Put(ctx context.Context, id string, fields map[string]interface{}) error {
	doc, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", id, err)
	}

	var geo []byte
	if g, ok := models.GeoDataAt(fields, s.geoField); ok {
		geo, err = json.Marshal(g.ToGeoJSON())
		if err != nil {
			return fmt.Errorf("marshal geojson for %s: %w", id, err)
		}
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (id, doc, geo) VALUES ($1, $2, $3)
         ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, geo = EXCLUDED.geo`,
		s.table,
	)
	_, err = s.db.ExecContext(ctx, query, id, doc, geo)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (map[string]interface{}, error) {
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, s.table)

	var raw []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal document %s: %w", id, err)
	}
	return fields, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table)
	_, err := s.db.ExecContext(ctx, query, id)
	return err
}

// QueryRange returns documents whose field value lies in [start, end],
// ordered ascending by that value.
func (s *PostgresStore) QueryRange(ctx context.Context, field, start, end string) ([]search.Document, error) {
	query := fmt.Sprintf(
		`SELECT id, doc FROM %s WHERE doc #>> $1 BETWEEN $2 AND $3 ORDER BY doc #>> $1 ASC`,
		s.table,
	)
	rows, err := s.db.QueryContext(ctx, query, pq.Array(jsonPath(field)), start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []search.Document
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		var fields map[string]interface{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("unmarshal document %s: %w", id, err)
		}
		docs = append(docs, search.Document{ID: id, Fields: fields})
	}
	return docs, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
