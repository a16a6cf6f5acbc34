package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/catalog"
	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/skc"
)

// Store implements the queries the mock upstream serves.
type Store struct {
	db *DB
}

// NewStore creates a new Store.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// statusOrderExpr ranks rows by status priority the way the production API
// orders SKC listings. Statuses are compile-time constants, never user input.
func statusOrderExpr() string {
	var b strings.Builder
	b.WriteString("CASE status")
	for _, s := range skc.AllStatuses() {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", s, s.Priority())
	}
	b.WriteString(" ELSE 999 END")
	return b.String()
}

// ListProjects returns all projects, most recently updated first.
func (s *Store) ListProjects(ctx context.Context) ([]catalog.Project, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), updated_at
		FROM projects
		ORDER BY updated_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []catalog.Project
	for rows.Next() {
		var p catalog.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}

// CreateProject inserts a project; ErrDuplicate on a name collision.
func (s *Store) CreateProject(ctx context.Context, name, description string) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE name = ?`, name).Scan(&count); err != nil {
		return fmt.Errorf("failed to check project name: %w", err)
	}
	if count > 0 {
		return ErrDuplicate
	}

	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (name, description, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		name, description, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// ListProducts returns a project's products with SKC counts, most recently
// updated first. ErrNotFound if the project doesn't exist.
func (s *Store) ListProducts(ctx context.Context, projectID int64) ([]catalog.Product, error) {
	if err := s.projectExists(ctx, projectID); err != nil {
		return nil, err
	}

	query := `
		SELECT
			p.id,
			p.name,
			COUNT(k.id) AS skc_count,
			p.updated_at
		FROM products p
		LEFT JOIN skcs k ON k.product_id = p.id
		WHERE p.project_id = ?
		GROUP BY p.id, p.name, p.updated_at
		ORDER BY p.updated_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.SKCCount, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}
	return products, nil
}

// CreateProduct inserts a product under a project. ErrNotFound if the project
// doesn't exist, ErrDuplicate on a name collision within the project.
func (s *Store) CreateProduct(ctx context.Context, projectID int64, name string) error {
	if err := s.projectExists(ctx, projectID); err != nil {
		return err
	}

	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE project_id = ? AND name = ?`, projectID, name,
	).Scan(&count); err != nil {
		return fmt.Errorf("failed to check product name: %w", err)
	}
	if count > 0 {
		return ErrDuplicate
	}

	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (project_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		projectID, name, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE projects SET updated_at = ? WHERE id = ?`, now, projectID,
	); err != nil {
		return fmt.Errorf("failed to touch project: %w", err)
	}
	return nil
}

// ListSKCs returns a product's SKCs ordered by status priority then code. A
// non-empty status narrows the listing. ErrNotFound if the product doesn't
// exist.
func (s *Store) ListSKCs(ctx context.Context, productID int64, status skc.Status) ([]skc.SKC, error) {
	if err := s.productExists(ctx, productID); err != nil {
		return nil, err
	}

	query := `SELECT code, status, updated_at FROM skcs WHERE product_id = ?`
	args := []any{productID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY ` + statusOrderExpr() + `, code`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list skcs: %w", err)
	}
	defer rows.Close()

	var skcs []skc.SKC
	for rows.Next() {
		var item skc.SKC
		if err := rows.Scan(&item.Code, &item.Status, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan skc: %w", err)
		}
		skcs = append(skcs, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating skc rows: %w", err)
	}
	return skcs, nil
}

// AddSKCs attaches codes to a product, skipping codes that already exist
// anywhere (codes are globally unique). Returns added and skipped counts.
func (s *Store) AddSKCs(ctx context.Context, productID int64, codes []string, status skc.Status) (added, duplicates int, err error) {
	if err := s.productExists(ctx, productID); err != nil {
		return 0, 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM skcs WHERE code = ?`, code).Scan(&count); err != nil {
			return 0, 0, fmt.Errorf("failed to check skc code: %w", err)
		}
		if count > 0 {
			duplicates++
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO skcs (product_id, code, status, updated_at) VALUES (?, ?, ?, ?)`,
			productID, code, string(status), now,
		); err != nil {
			return 0, 0, fmt.Errorf("failed to insert skc: %w", err)
		}
		added++
	}

	if _, err := tx.ExecContext(ctx, `UPDATE products SET updated_at = ? WHERE id = ?`, now, productID); err != nil {
		return 0, 0, fmt.Errorf("failed to touch product: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE projects SET updated_at = ? WHERE id = (SELECT project_id FROM products WHERE id = ?)`,
		now, productID,
	); err != nil {
		return 0, 0, fmt.Errorf("failed to touch project: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return added, duplicates, nil
}

// BatchUpdateStatus sets status on every known code in one transaction;
// unknown codes are skipped without error.
func (s *Store) BatchUpdateStatus(ctx context.Context, codes []string, status skc.Status) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	updated := 0
	now := time.Now()
	for _, code := range codes {
		res, err := tx.ExecContext(ctx,
			`UPDATE skcs SET status = ?, updated_at = ? WHERE code = ?`,
			string(status), now, code,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to update skc: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		updated += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return updated, nil
}

// BatchDelete removes every known code in one transaction; unknown codes are
// skipped without error.
func (s *Store) BatchDelete(ctx context.Context, codes []string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	deleted := 0
	for _, code := range codes {
		res, err := tx.ExecContext(ctx, `DELETE FROM skcs WHERE code = ?`, code)
		if err != nil {
			return 0, fmt.Errorf("failed to delete skc: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		deleted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return deleted, nil
}

// ListImages returns a product's images, primary first then newest first.
// ErrNotFound if the product doesn't exist.
func (s *Store) ListImages(ctx context.Context, productID int64) ([]catalog.Image, error) {
	if err := s.productExists(ctx, productID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, filename, original_filename, file_size, is_primary, uploaded_at
		FROM images
		WHERE product_id = ?
		ORDER BY is_primary DESC, uploaded_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	var images []catalog.Image
	for rows.Next() {
		var img catalog.Image
		if err := rows.Scan(&img.ID, &img.Filename, &img.OriginalFilename, &img.FileSize, &img.IsPrimary, &img.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating image rows: %w", err)
	}
	return images, nil
}

// AddImage records an uploaded image. ErrNotFound if the product doesn't
// exist.
func (s *Store) AddImage(ctx context.Context, productID int64, filename, originalFilename string, size int64) (catalog.Image, error) {
	if err := s.productExists(ctx, productID); err != nil {
		return catalog.Image{}, err
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO images (product_id, filename, original_filename, file_size, is_primary, uploaded_at)
		 VALUES (?, ?, ?, ?, 0, ?)`,
		productID, filename, originalFilename, size, now,
	)
	if err != nil {
		return catalog.Image{}, fmt.Errorf("failed to insert image: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return catalog.Image{}, fmt.Errorf("failed to get image id: %w", err)
	}
	return catalog.Image{
		ID:               id,
		Filename:         filename,
		OriginalFilename: originalFilename,
		FileSize:         size,
		UploadedAt:       now,
	}, nil
}

// SetPrimaryImage makes imageID its product's only primary image.
func (s *Store) SetPrimaryImage(ctx context.Context, imageID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var productID int64
	err = tx.QueryRowContext(ctx, `SELECT product_id FROM images WHERE id = ?`, imageID).Scan(&productID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE images SET is_primary = 0 WHERE product_id = ?`, productID); err != nil {
		return fmt.Errorf("failed to clear primary flags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE images SET is_primary = 1 WHERE id = ?`, imageID); err != nil {
		return fmt.Errorf("failed to set primary flag: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteImage removes an image. ErrNotFound if it doesn't exist.
func (s *Store) DeleteImage(ctx context.Context, imageID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE id = ?`, imageID)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats returns entity counts across the whole store.
func (s *Store) Stats(ctx context.Context) (catalog.Stats, error) {
	var stats catalog.Stats
	query := `
		SELECT
			(SELECT COUNT(*) FROM projects),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM skcs),
			(SELECT COUNT(*) FROM images)
	`
	if err := s.db.QueryRowContext(ctx, query).Scan(
		&stats.ProjectCount, &stats.ProductCount, &stats.SKCCount, &stats.ImageCount,
	); err != nil {
		return catalog.Stats{}, fmt.Errorf("failed to load stats: %w", err)
	}
	return stats, nil
}

func (s *Store) projectExists(ctx context.Context, projectID int64) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE id = ?`, projectID).Scan(&count); err != nil {
		return fmt.Errorf("failed to check project: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) productExists(ctx context.Context, productID int64) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE id = ?`, productID).Scan(&count); err != nil {
		return fmt.Errorf("failed to check product: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
