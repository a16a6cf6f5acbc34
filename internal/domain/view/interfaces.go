package view

import (
	"context"

	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/catalog"
	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/skc"
)

// Gateway is the read surface of the API client the aggregator fans out over.
type Gateway interface {
	ListProducts(ctx context.Context, projectID int64) ([]catalog.Product, error)
	ListSKCs(ctx context.Context, productID int64, status skc.Status) ([]skc.SKC, error)
	ListImages(ctx context.Context, productID int64) ([]catalog.Image, error)
}
