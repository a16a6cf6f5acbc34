// Package mutate executes the dashboard's write operations against the
// upstream API and drives the post-mutation refresh cycle.
package mutate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/catalog"
	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/skc"
)

// Coordinator runs create/update/delete/batch operations. Every successful
// mutation triggers a best-effort view re-aggregation and statistics refresh
// through the Refresher.
type Coordinator struct {
	gw        Gateway
	refresher Refresher
	logger    *slog.Logger
}

// NewCoordinator creates a new mutation coordinator. refresher may be nil.
func NewCoordinator(gw Gateway, refresher Refresher, logger *slog.Logger) *Coordinator {
	return &Coordinator{gw: gw, refresher: refresher, logger: logger}
}

// CreateProject creates a project. Success refreshes the project list only;
// the new project is not auto-selected.
func (c *Coordinator) CreateProject(ctx context.Context, name, description string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidInput
	}
	if err := c.gw.CreateProject(ctx, strings.TrimSpace(name), strings.TrimSpace(description)); err != nil {
		return err
	}
	if c.refresher != nil {
		c.refresher.RefreshProjects(ctx)
	}
	return nil
}

// AddProductRequest describes an "add product + SKCs" submission. RawCodes is
// whitespace-delimited user input.
type AddProductRequest struct {
	ProjectID   int64
	ProductName string
	RawCodes    string
	Status      skc.Status
}

// AddProductResult reports the resolved product and how many SKCs were added.
type AddProductResult struct {
	Product catalog.Product
	Added   int
}

// AddProductWithSKCs looks up or creates the product by name, re-resolves its
// id from a fresh product listing (the create response carries no id in the
// already-exists case), and attaches the codes with the given status.
func (c *Coordinator) AddProductWithSKCs(ctx context.Context, req AddProductRequest) (*AddProductResult, error) {
	name := strings.TrimSpace(req.ProductName)
	codes := SplitCodes(req.RawCodes)
	if name == "" || len(codes) == 0 {
		return nil, ErrInvalidInput
	}

	if _, err := c.gw.CreateProduct(ctx, req.ProjectID, name); err != nil {
		return nil, err
	}

	products, err := c.gw.ListProducts(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("resolving product id: %w", err)
	}
	var product *catalog.Product
	for i := range products {
		if products[i].Name == name {
			product = &products[i]
			break
		}
	}
	if product == nil {
		// Deleted between the create and the listing; fatal to this call.
		return nil, ErrProductNotFound
	}

	added, err := c.gw.AddSKCs(ctx, product.ID, codes, req.Status)
	if err != nil {
		return nil, err
	}

	c.notify(ctx)
	return &AddProductResult{Product: *product, Added: added}, nil
}

// BatchUpdateStatus applies status to every code in one request. Unknown
// codes are silently ignored upstream and do not affect the others.
func (c *Coordinator) BatchUpdateStatus(ctx context.Context, codes []string, status skc.Status) (int, error) {
	if len(codes) == 0 || !status.Valid() {
		return 0, ErrInvalidInput
	}
	updated, err := c.gw.BatchUpdateStatus(ctx, codes, status)
	if err != nil {
		return 0, err
	}
	c.notify(ctx)
	return updated, nil
}

// BatchDelete removes every code in one request; unknown codes are silently
// ignored upstream.
func (c *Coordinator) BatchDelete(ctx context.Context, codes []string) (int, error) {
	if len(codes) == 0 {
		return 0, ErrInvalidInput
	}
	deleted, err := c.gw.BatchDelete(ctx, codes)
	if err != nil {
		return 0, err
	}
	c.notify(ctx)
	return deleted, nil
}

// SetPrimaryImage makes imageID its product's exclusive primary and returns
// the re-fetched image list reflecting the toggle.
func (c *Coordinator) SetPrimaryImage(ctx context.Context, imageID, productID int64) ([]catalog.Image, error) {
	if err := c.gw.SetPrimaryImage(ctx, imageID); err != nil {
		return nil, err
	}
	images, err := c.gw.ListImages(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("reloading images: %w", err)
	}
	c.notify(ctx)
	return images, nil
}

// DeleteImage removes an image permanently and returns the re-fetched list.
func (c *Coordinator) DeleteImage(ctx context.Context, imageID, productID int64) ([]catalog.Image, error) {
	if err := c.gw.DeleteImage(ctx, imageID); err != nil {
		return nil, err
	}
	images, err := c.gw.ListImages(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("reloading images: %w", err)
	}
	c.notify(ctx)
	return images, nil
}

// notify kicks off the independent post-mutation refreshes. Both are
// best-effort; the Refresher owns failure handling.
func (c *Coordinator) notify(ctx context.Context) {
	if c.refresher == nil {
		return
	}
	c.refresher.RefreshView(ctx)
	c.refresher.RefreshStats(ctx)
}
