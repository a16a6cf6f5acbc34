package integration_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cxy1818/temu-jit-skc-webui/internal/api"
	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/mutate"
	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/skc"
	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/view"
	"github.com/cxy1818/temu-jit-skc-webui/internal/testserver"
	"github.com/stretchr/testify/require"
)

func TestCreateProjectAddProductAggregate(t *testing.T) {
	ts := testserver.New(t)
	ctx := context.Background()

	coordinator := mutate.NewCoordinator(ts.Client, nil, nil)
	viewer := view.NewService(ts.Client, nil)

	require.NoError(t, coordinator.CreateProject(ctx, "P1", "integration"))

	projects, err := ts.Client.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	projectID := projects[0].ID

	res, err := coordinator.AddProductWithSKCs(ctx, mutate.AddProductRequest{
		ProjectID:   projectID,
		ProductName: "PR1",
		RawCodes:    "A1 A2 A3",
		Status:      skc.StatusPriceApproved,
	})
	require.NoError(t, err)
	require.Equal(t, 3, res.Added)
	require.Equal(t, "PR1", res.Product.Name)

	agg, err := viewer.Aggregate(ctx, projectID, view.ModeAll, view.Filters{})
	require.NoError(t, err)
	require.Empty(t, agg.Failed)
	require.Len(t, agg.Rows, 3)
	for _, row := range agg.Rows {
		require.Equal(t, "PR1", row.ProductName)
		require.Equal(t, string(skc.StatusPriceApproved), row.Status)
		require.Equal(t, view.KindSKC, row.Kind)
	}
}

func TestAddToExistingProductMergesSKCs(t *testing.T) {
	ts := testserver.New(t)
	ctx := context.Background()

	coordinator := mutate.NewCoordinator(ts.Client, nil, nil)

	require.NoError(t, coordinator.CreateProject(ctx, "P1", ""))
	projects, err := ts.Client.ListProjects(ctx)
	require.NoError(t, err)
	projectID := projects[0].ID

	_, err = coordinator.AddProductWithSKCs(ctx, mutate.AddProductRequest{
		ProjectID: projectID, ProductName: "PR1", RawCodes: "A1", Status: skc.StatusPriceApproved,
	})
	require.NoError(t, err)

	// Same product name resolves to the existing product instead of failing.
	res, err := coordinator.AddProductWithSKCs(ctx, mutate.AddProductRequest{
		ProjectID: projectID, ProductName: "PR1", RawCodes: "A2 A1", Status: skc.StatusPricePending,
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Added)

	products, err := ts.Client.ListProducts(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, 2, products[0].SKCCount)
}

func TestBatchUpdateAndRankedListing(t *testing.T) {
	ts := testserver.New(t)
	ctx := context.Background()

	coordinator := mutate.NewCoordinator(ts.Client, nil, nil)

	require.NoError(t, coordinator.CreateProject(ctx, "P1", ""))
	projects, err := ts.Client.ListProjects(ctx)
	require.NoError(t, err)
	projectID := projects[0].ID

	res, err := coordinator.AddProductWithSKCs(ctx, mutate.AddProductRequest{
		ProjectID: projectID, ProductName: "PR1", RawCodes: "S1 S2 S3", Status: skc.StatusPriceApproved,
	})
	require.NoError(t, err)

	// S9 is unknown; it is skipped without failing the others.
	updated, err := coordinator.BatchUpdateStatus(ctx, []string{"S1", "S2", "S9"}, skc.StatusDelisted)
	require.NoError(t, err)
	require.Equal(t, 2, updated)

	skcs, err := ts.Client.ListSKCs(ctx, res.Product.ID, "")
	require.NoError(t, err)
	require.Len(t, skcs, 3)
	// 核价通过 ranks before 已下架 in the server ordering.
	require.Equal(t, "S3", skcs[0].Code)
	require.Equal(t, skc.StatusPriceApproved, skcs[0].Status)

	ranked := skc.Rank(skcs)
	require.Equal(t, skcs, ranked)
}

func TestBatchDeleteThenAggregate(t *testing.T) {
	ts := testserver.New(t)
	ctx := context.Background()

	coordinator := mutate.NewCoordinator(ts.Client, nil, nil)
	viewer := view.NewService(ts.Client, nil)

	require.NoError(t, coordinator.CreateProject(ctx, "P1", ""))
	projects, err := ts.Client.ListProjects(ctx)
	require.NoError(t, err)
	projectID := projects[0].ID

	_, err = coordinator.AddProductWithSKCs(ctx, mutate.AddProductRequest{
		ProjectID: projectID, ProductName: "PR1", RawCodes: "S1 S2", Status: skc.StatusPriceApproved,
	})
	require.NoError(t, err)

	deleted, err := coordinator.BatchDelete(ctx, []string{"S1", "S9"})
	require.NoError(t, err)
	require.Equal(t, 1, deleted)

	agg, err := viewer.Aggregate(ctx, projectID, view.ModeAll, view.Filters{})
	require.NoError(t, err)
	require.Len(t, agg.Rows, 1)
	require.Equal(t, "S2", agg.Rows[0].Code)
}

func TestSessionDrivenRefreshWithFilters(t *testing.T) {
	ts := testserver.New(t)
	ctx := context.Background()

	coordinator := mutate.NewCoordinator(ts.Client, nil, nil)
	viewer := view.NewService(ts.Client, nil)

	require.NoError(t, coordinator.CreateProject(ctx, "P1", ""))
	projects, err := ts.Client.ListProjects(ctx)
	require.NoError(t, err)
	projectID := projects[0].ID

	_, err = coordinator.AddProductWithSKCs(ctx, mutate.AddProductRequest{
		ProjectID: projectID, ProductName: "Widget", RawCodes: "W1 W2", Status: skc.StatusPriceApproved,
	})
	require.NoError(t, err)
	_, err = coordinator.AddProductWithSKCs(ctx, mutate.AddProductRequest{
		ProjectID: projectID, ProductName: "Gadget", RawCodes: "G1", Status: skc.StatusDelisted,
	})
	require.NoError(t, err)

	sess := view.NewSession(10 * time.Millisecond)
	sess.Select(projectID)

	res, err := viewer.Refresh(ctx, sess)
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)

	sess.SetStatusFilter(skc.StatusDelisted, nil)
	res, err = viewer.Refresh(ctx, sess)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, "G1", res.Rows[0].Code)

	sess.SetStatusFilter("", nil)
	done := make(chan struct{})
	sess.SetSearchTerm("widget", func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced search never applied")
	}
	res, err = viewer.Refresh(ctx, sess)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	for _, row := range res.Rows {
		require.Equal(t, "Widget", row.ProductName)
	}
}

func TestImageLifecycle(t *testing.T) {
	ts := testserver.New(t)
	ctx := context.Background()

	coordinator := mutate.NewCoordinator(ts.Client, nil, nil)
	viewer := view.NewService(ts.Client, nil)

	require.NoError(t, coordinator.CreateProject(ctx, "P1", ""))
	projects, err := ts.Client.ListProjects(ctx)
	require.NoError(t, err)
	projectID := projects[0].ID

	res, err := coordinator.AddProductWithSKCs(ctx, mutate.AddProductRequest{
		ProjectID: projectID, ProductName: "PR1", RawCodes: "A1", Status: skc.StatusPriceApproved,
	})
	require.NoError(t, err)
	productID := res.Product.ID

	require.NoError(t, ts.Client.UploadImage(ctx, productID, "a.jpg", fakeImage()))
	require.NoError(t, ts.Client.UploadImage(ctx, productID, "b.jpg", fakeImage()))

	images, err := ts.Client.ListImages(ctx, productID)
	require.NoError(t, err)
	require.Len(t, images, 2)

	images, err = coordinator.SetPrimaryImage(ctx, images[1].ID, productID)
	require.NoError(t, err)
	require.True(t, images[0].IsPrimary)
	require.False(t, images[1].IsPrimary)

	agg, err := viewer.Aggregate(ctx, projectID, view.ModeImages, view.Filters{})
	require.NoError(t, err)
	require.Len(t, agg.Images, 2)
	require.Equal(t, "PR1", agg.Images[0].ProductName)

	images, err = coordinator.DeleteImage(ctx, images[0].ID, productID)
	require.NoError(t, err)
	require.Len(t, images, 1)
}

func TestUserStats(t *testing.T) {
	ts := testserver.New(t)
	ctx := context.Background()

	coordinator := mutate.NewCoordinator(ts.Client, nil, nil)

	require.NoError(t, coordinator.CreateProject(ctx, "P1", ""))
	projects, err := ts.Client.ListProjects(ctx)
	require.NoError(t, err)

	_, err = coordinator.AddProductWithSKCs(ctx, mutate.AddProductRequest{
		ProjectID: projects[0].ID, ProductName: "PR1", RawCodes: "A1 A2", Status: skc.StatusPriceApproved,
	})
	require.NoError(t, err)

	stats, err := ts.Client.UserStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.ProjectCount)
	require.Equal(t, 1, stats.ProductCount)
	require.Equal(t, 2, stats.SKCCount)
}

func TestExportProject(t *testing.T) {
	ts := testserver.New(t)
	ctx := context.Background()

	require.NoError(t, ts.Client.CreateProject(ctx, "P1", ""))
	projects, err := ts.Client.ListProjects(ctx)
	require.NoError(t, err)

	id, err := ts.Client.ExportProject(ctx, projects[0].ID)
	require.NoError(t, err)
	require.NotZero(t, id)

	_, err = ts.Client.ExportProject(ctx, 999)
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
}

func fakeImage() io.Reader { return strings.NewReader("jpeg-bytes") }
