package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/prodcrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ prodcrawl.RunService = (*RunService)(nil)

// RunService implements prodcrawl.RunService using SQLite.
type RunService struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db, Now: time.Now}
}

// RecordHash returns a stable hash of a product's column values. Equal
// records hash equally across runs; FindChangedProducts compares them.
func RecordHash(p *prodcrawl.Product) string {
	h := xxhash.Sum64String(strings.Join(p.Values(), "\x1f"))
	return fmt.Sprintf("%016x", h)
}

// CreateRun stores a new run in the running state. ID and StartedAt are set
// on the passed run.
func (s *RunService) CreateRun(ctx context.Context, run *prodcrawl.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.Status = prodcrawl.RunRunning
	run.Products = 0
	run.StartedAt = s.Now().UTC()
	run.FinishedAt = time.Time{}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seed_url, max_depth, status, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.SeedURL, run.MaxDepth, string(run.Status), formatTime(run.StartedAt))

	return err
}

// FinishRun records the final status of a run. Only a running run can be
// finished; a run that already has a final status returns ECONFLICT.
func (s *RunService) FinishRun(ctx context.Context, id string, status prodcrawl.RunStatus) error {
	switch status {
	case prodcrawl.RunCompleted, prodcrawl.RunStopped, prodcrawl.RunFailed:
	default:
		return prodcrawl.Errorf(prodcrawl.EINVALID, "invalid final run status %q", status)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := requireRun(ctx, tx, id); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE runs SET status = ?, finished_at = ? WHERE id = ? AND status = ?
	`, string(status), formatTime(s.Now()), id, string(prodcrawl.RunRunning)); err != nil {
		return err
	}

	return tx.Commit()
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter prodcrawl.RunFilter) ([]*prodcrawl.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`
		SELECT r.id, r.seed_url, r.max_depth, r.status, r.started_at, r.finished_at,
			(SELECT COUNT(*) FROM products p WHERE p.run_id = r.id)
		FROM runs r WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND r.id = ?")
		args = append(args, *filter.ID)
	}

	query.WriteString(" ORDER BY r.started_at DESC, r.rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*prodcrawl.Run
	for rows.Next() {
		var run prodcrawl.Run
		var status, startedAt, finishedAt string

		if err := rows.Scan(&run.ID, &run.SeedURL, &run.MaxDepth, &status, &startedAt, &finishedAt, &run.Products); err != nil {
			return nil, err
		}
		run.Status = prodcrawl.RunStatus(status)

		if run.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
			return nil, err
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// CreateProduct appends a product to a run. Products keep the order in
// which they were created.
func (s *RunService) CreateProduct(ctx context.Context, runID string, product *prodcrawl.Product) error {
	if product == nil || product.URL == "" {
		return prodcrawl.Errorf(prodcrawl.EINVALID, "product URL required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := requireRun(ctx, tx, runID); err != nil {
		return err
	}

	var position int
	if err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position) + 1, 0) FROM products WHERE run_id = ?
	`, runID).Scan(&position); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO products (id, run_id, position, url, product_name, price, category, sku, stock, record_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), runID, position, product.URL, product.Name, product.Price,
		product.Category, product.SKU, product.Stock, RecordHash(product), formatTime(s.Now())); err != nil {
		return err
	}

	return tx.Commit()
}

// FindProducts retrieves the products of a run in emit order.
func (s *RunService) FindProducts(ctx context.Context, runID string) ([]*prodcrawl.Product, error) {
	if err := s.runExists(ctx, runID); err != nil {
		return nil, err
	}

	return s.queryProducts(ctx, `
		SELECT url, product_name, price, category, sku, stock
		FROM products
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
}

// FindChangedProducts retrieves the products of runID, in emit order, that
// have no identical record in sinceRunID. A record matches when its URL and
// record hash are equal, so new pages and pages whose fields changed are
// returned.
func (s *RunService) FindChangedProducts(ctx context.Context, runID, sinceRunID string) ([]*prodcrawl.Product, error) {
	if err := s.runExists(ctx, runID); err != nil {
		return nil, err
	}
	if err := s.runExists(ctx, sinceRunID); err != nil {
		return nil, err
	}

	return s.queryProducts(ctx, `
		SELECT p.url, p.product_name, p.price, p.category, p.sku, p.stock
		FROM products p
		WHERE p.run_id = ?
			AND NOT EXISTS (
				SELECT 1 FROM products q
				WHERE q.run_id = ? AND q.url = p.url AND q.record_hash = p.record_hash
			)
		ORDER BY p.position ASC
	`, runID, sinceRunID)
}

func (s *RunService) runExists(ctx context.Context, runID string) error {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, runID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return prodcrawl.Errorf(prodcrawl.ENOTFOUND, "run not found: %s", runID)
	}
	return err
}

func (s *RunService) queryProducts(ctx context.Context, query string, args ...any) ([]*prodcrawl.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*prodcrawl.Product{}
	for rows.Next() {
		var p prodcrawl.Product
		if err := rows.Scan(&p.URL, &p.Name, &p.Price, &p.Category, &p.SKU, &p.Stock); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}

	return products, rows.Err()
}

// requireRun returns ENOTFOUND if the run does not exist and ECONFLICT if it
// is no longer running.
func requireRun(ctx context.Context, tx *sql.Tx, runID string) error {
	var status string
	err := tx.QueryRowContext(ctx, `SELECT status FROM runs WHERE id = ?`, runID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return prodcrawl.Errorf(prodcrawl.ENOTFOUND, "run not found: %s", runID)
	} else if err != nil {
		return err
	}
	if prodcrawl.RunStatus(status) != prodcrawl.RunRunning {
		return prodcrawl.Errorf(prodcrawl.ECONFLICT, "run %s is %s", runID, status)
	}
	return nil
}
