package mutate

import (
	"context"

	"github.com/cxy1818/temu-jit-skc-webui/internal/api"
	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/catalog"
	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/skc"
)

// Gateway is the write surface of the API client the coordinator drives.
type Gateway interface {
	CreateProject(ctx context.Context, name, description string) error
	ListProducts(ctx context.Context, projectID int64) ([]catalog.Product, error)
	CreateProduct(ctx context.Context, projectID int64, name string) (api.CreateOutcome, error)
	AddSKCs(ctx context.Context, productID int64, codes []string, status skc.Status) (int, error)
	BatchUpdateStatus(ctx context.Context, codes []string, status skc.Status) (int, error)
	BatchDelete(ctx context.Context, codes []string) (int, error)
	ListImages(ctx context.Context, productID int64) ([]catalog.Image, error)
	SetPrimaryImage(ctx context.Context, imageID int64) error
	DeleteImage(ctx context.Context, imageID int64) error
}

// Refresher receives best-effort refresh notifications after successful
// writes. Implementations must swallow their own failures; a refresh error
// never blocks or rolls back the mutation it follows.
type Refresher interface {
	RefreshProjects(ctx context.Context)
	RefreshView(ctx context.Context)
	RefreshStats(ctx context.Context)
}
