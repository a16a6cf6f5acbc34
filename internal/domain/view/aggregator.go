// Package view is the data aggregation and filtering engine behind the
// dashboard table: it fans out per-product fetches, merges the children into
// one denormalized row set, and applies the client-side filters.
package view

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/catalog"
	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/skc"
)

// Service aggregates a project's children into a row set.
type Service struct {
	gateway Gateway
	logger  *slog.Logger
}

// NewService creates a new aggregation service.
func NewService(gateway Gateway, logger *slog.Logger) *Service {
	return &Service{gateway: gateway, logger: logger}
}

// Aggregate builds the row set for one project and view mode. The mode must
// be a member of the closed Mode set. The product list is fetched first; a
// failure there aborts the pass with a FetchFailure carrying the project id. In all/skcs mode each product's SKCs are fetched
// concurrently and joined; in images mode the same fan-out runs over image
// lists; in products mode no fan-out occurs. Per-product failures do not
// abort the others: their products are reported in Result.Failed.
func (s *Service) Aggregate(ctx context.Context, projectID int64, mode Mode, filters Filters) (*Result, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	products, err := s.gateway.ListProducts(ctx, projectID)
	if err != nil {
		return nil, &FetchFailure{ProjectID: projectID, Err: err}
	}

	res := &Result{ProjectID: projectID, Mode: mode}
	switch mode {
	case ModeProducts:
		rows := make([]Row, 0, len(products))
		for _, p := range products {
			rows = append(rows, Row{
				ProductName: p.Name,
				Code:        "-",
				Status:      fmt.Sprintf("%d 个SKC", p.SKCCount),
				UpdatedAt:   p.UpdatedAt,
				Kind:        KindProduct,
			})
		}
		// Status equality never matches a summary cell, so only the text
		// predicate applies here.
		res.Rows = Filter(rows, filters.Search, "")
	case ModeImages:
		res.Images, res.Failed = s.collectImages(ctx, products)
	case ModeAll, ModeSKCs:
		res.Rows, res.Failed = s.collectSKCs(ctx, products, filters)
	}
	return res, nil
}

// collectSKCs runs the parallel-dispatch, join-all fan-out. Results land in
// index-addressed slots so output order follows the product list, not
// completion order.
func (s *Service) collectSKCs(ctx context.Context, products []catalog.Product, filters Filters) ([]Row, []ProductFailure) {
	type slot struct {
		skcs []skc.SKC
		err  error
	}
	slots := make([]slot, len(products))

	var wg sync.WaitGroup
	for i, p := range products {
		wg.Add(1)
		go func() {
			defer wg.Done()
			items, err := s.gateway.ListSKCs(ctx, p.ID, filters.Status)
			slots[i] = slot{skcs: items, err: err}
		}()
	}
	wg.Wait()

	var rows []Row
	var failed []ProductFailure
	for i, p := range products {
		if slots[i].err != nil {
			failed = append(failed, ProductFailure{ProductID: p.ID, ProductName: p.Name, Err: slots[i].err})
			if s.logger != nil {
				s.logger.Warn("skc fetch failed", "product", p.Name, "error", slots[i].err)
			}
			continue
		}
		for _, item := range slots[i].skcs {
			rows = append(rows, Row{
				ProductName: p.Name,
				Code:        item.Code,
				Status:      string(item.Status),
				UpdatedAt:   item.UpdatedAt,
				Kind:        KindSKC,
			})
		}
	}

	// The status parameter above is only a payload optimization; the filter
	// is re-applied here so correctness never depends on the server honoring
	// it.
	return Filter(rows, filters.Search, filters.Status), failed
}

func (s *Service) collectImages(ctx context.Context, products []catalog.Product) ([]ProductImage, []ProductFailure) {
	type slot struct {
		images []catalog.Image
		err    error
	}
	slots := make([]slot, len(products))

	var wg sync.WaitGroup
	for i, p := range products {
		wg.Add(1)
		go func() {
			defer wg.Done()
			images, err := s.gateway.ListImages(ctx, p.ID)
			slots[i] = slot{images: images, err: err}
		}()
	}
	wg.Wait()

	var all []ProductImage
	var failed []ProductFailure
	for i, p := range products {
		if slots[i].err != nil {
			failed = append(failed, ProductFailure{ProductID: p.ID, ProductName: p.Name, Err: slots[i].err})
			if s.logger != nil {
				s.logger.Warn("image fetch failed", "product", p.Name, "error", slots[i].err)
			}
			continue
		}
		for _, img := range slots[i].images {
			all = append(all, ProductImage{Image: img, ProductID: p.ID, ProductName: p.Name})
		}
	}
	return all, failed
}

// Refresh aggregates the session's current selection. If the selection
// changed while requests were in flight the result is discarded and
// ErrStaleResult returned.
func (s *Service) Refresh(ctx context.Context, sess *Session) (*Result, error) {
	projectID, mode, filters, token, ok := sess.Snapshot()
	if !ok {
		return nil, ErrNoProject
	}
	res, err := s.Aggregate(ctx, projectID, mode, filters)
	if err != nil {
		return nil, err
	}
	if !sess.Accept(token) {
		return nil, ErrStaleResult
	}
	return res, nil
}
