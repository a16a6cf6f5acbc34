package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/cxy1818/temu-jit-skc-webui/internal/api"
	"github.com/cxy1818/temu-jit-skc-webui/internal/config"
	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/mutate"
	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/skc"
	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/view"
)

const usage = `usage: dashboard <command> [flags]

commands:
  projects                          list projects
  create-project -name N [-desc D]  create a project
  aggregate -project ID [-mode M] [-search S] [-status ST]
                                    build the table view for a project
  add -project ID -product N -codes "C1 C2" [-status ST]
                                    add a product with SKCs
  update -codes "C1 C2" -status ST  batch update SKC status
  delete -codes "C1 C2"             batch delete SKCs
  rank -product ID                  show SKCs in status-priority order
  images -project ID                list images across a project
  set-primary -image ID -product ID mark an image as primary
  delete-image -image ID -product ID
                                    delete an image
  stats                             show entity counts
  export -project ID                trigger a server-side export
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.Log.Level),
	}))

	client := api.NewClient(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second, logger)
	session := view.NewSession(time.Duration(cfg.Search.DebounceMillis) * time.Millisecond)
	viewer := view.NewService(client, logger)
	coordinator := mutate.NewCoordinator(client, &refresher{
		client:  client,
		viewer:  viewer,
		session: session,
		logger:  logger,
	}, logger)

	app := &app{
		client:      client,
		session:     session,
		viewer:      viewer,
		coordinator: coordinator,
		logger:      logger,
	}

	ctx := context.Background()
	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	client      *api.Client
	session     *view.Session
	viewer      *view.Service
	coordinator *mutate.Coordinator
	logger      *slog.Logger
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "projects":
		return a.listProjects(ctx)
	case "create-project":
		return a.createProject(ctx, args)
	case "aggregate":
		return a.aggregate(ctx, args)
	case "add":
		return a.addProduct(ctx, args)
	case "update":
		return a.batchUpdate(ctx, args)
	case "delete":
		return a.batchDelete(ctx, args)
	case "rank":
		return a.rank(ctx, args)
	case "images":
		return a.images(ctx, args)
	case "set-primary":
		return a.setPrimary(ctx, args)
	case "delete-image":
		return a.deleteImage(ctx, args)
	case "stats":
		return a.stats(ctx)
	case "export":
		return a.export(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) listProjects(ctx context.Context) error {
	projects, err := a.client.ListProjects(ctx)
	if err != nil {
		return err
	}
	w := newTabWriter()
	fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
	for _, p := range projects {
		fmt.Fprintf(w, "%d\t%s\t%s\n", p.ID, p.Name, p.Description)
	}
	return w.Flush()
}

func (a *app) createProject(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-project", flag.ExitOnError)
	name := fs.String("name", "", "project name")
	desc := fs.String("desc", "", "project description")
	fs.Parse(args)

	if err := a.coordinator.CreateProject(ctx, *name, *desc); err != nil {
		return err
	}
	fmt.Printf("project %q created\n", *name)
	return nil
}

func (a *app) aggregate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("aggregate", flag.ExitOnError)
	projectID := fs.Int64("project", 0, "project id")
	modeStr := fs.String("mode", "all", "view mode: all, products, skcs, images")
	search := fs.String("search", "", "free-text filter")
	status := fs.String("status", "", "status filter")
	fs.Parse(args)

	if *projectID == 0 {
		return view.ErrNoProject
	}
	mode, err := view.ParseMode(*modeStr)
	if err != nil {
		return err
	}

	a.session.Select(*projectID)
	a.session.SetMode(mode)
	a.session.SetStatusFilter(skc.Status(*status), nil)
	a.session.SetSearchTerm(*search, nil)

	res, err := a.viewer.Refresh(ctx, a.session)
	if err != nil {
		return err
	}
	return printResult(res)
}

func (a *app) addProduct(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	projectID := fs.Int64("project", 0, "project id")
	product := fs.String("product", "", "product name")
	codes := fs.String("codes", "", "whitespace-delimited SKC codes")
	status := fs.String("status", string(skc.StatusPriceApproved), "SKC status")
	fs.Parse(args)

	a.session.Select(*projectID)
	res, err := a.coordinator.AddProductWithSKCs(ctx, mutate.AddProductRequest{
		ProjectID:   *projectID,
		ProductName: *product,
		RawCodes:    *codes,
		Status:      skc.Status(*status),
	})
	if err != nil {
		return err
	}
	fmt.Printf("added %d SKCs to product %q (id %d)\n", res.Added, res.Product.Name, res.Product.ID)
	return nil
}

func (a *app) batchUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	codes := fs.String("codes", "", "whitespace-delimited SKC codes")
	status := fs.String("status", "", "new status")
	fs.Parse(args)

	updated, err := a.coordinator.BatchUpdateStatus(ctx, mutate.SplitCodes(*codes), skc.Status(*status))
	if err != nil {
		return err
	}
	fmt.Printf("updated %d SKCs to %s\n", updated, *status)
	return nil
}

func (a *app) batchDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	codes := fs.String("codes", "", "whitespace-delimited SKC codes")
	fs.Parse(args)

	deleted, err := a.coordinator.BatchDelete(ctx, mutate.SplitCodes(*codes))
	if err != nil {
		return err
	}
	fmt.Printf("deleted %d SKCs\n", deleted)
	return nil
}

func (a *app) rank(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	productID := fs.Int64("product", 0, "product id")
	fs.Parse(args)

	skcs, err := a.client.ListSKCs(ctx, *productID, "")
	if err != nil {
		return err
	}
	w := newTabWriter()
	fmt.Fprintln(w, "CODE\tSTATUS\tUPDATED")
	for _, item := range skc.Rank(skcs) {
		fmt.Fprintf(w, "%s\t%s\t%s\n", item.Code, item.Status, item.UpdatedAt.Format(time.DateTime))
	}
	return w.Flush()
}

func (a *app) images(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("images", flag.ExitOnError)
	projectID := fs.Int64("project", 0, "project id")
	fs.Parse(args)

	if *projectID == 0 {
		return view.ErrNoProject
	}
	a.session.Select(*projectID)
	a.session.SetMode(view.ModeImages)
	res, err := a.viewer.Refresh(ctx, a.session)
	if err != nil {
		return err
	}

	w := newTabWriter()
	fmt.Fprintln(w, "ID\tPRODUCT\tFILE\tSIZE\tPRIMARY\tUPLOADED")
	for _, img := range res.Images {
		primary := ""
		if img.IsPrimary {
			primary = "*"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
			img.ID, img.ProductName, img.OriginalFilename, img.FileSize, primary,
			img.UploadedAt.Format(time.DateTime))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	reportFailures(res)
	return nil
}

func (a *app) setPrimary(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("set-primary", flag.ExitOnError)
	imageID := fs.Int64("image", 0, "image id")
	productID := fs.Int64("product", 0, "product id")
	fs.Parse(args)

	images, err := a.coordinator.SetPrimaryImage(ctx, *imageID, *productID)
	if err != nil {
		return err
	}
	fmt.Printf("image %d is now primary (%d images on product)\n", *imageID, len(images))
	return nil
}

func (a *app) deleteImage(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete-image", flag.ExitOnError)
	imageID := fs.Int64("image", 0, "image id")
	productID := fs.Int64("product", 0, "product id")
	fs.Parse(args)

	images, err := a.coordinator.DeleteImage(ctx, *imageID, *productID)
	if err != nil {
		return err
	}
	fmt.Printf("image %d deleted (%d images remain)\n", *imageID, len(images))
	return nil
}

func (a *app) stats(ctx context.Context) error {
	stats, err := a.client.UserStats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("projects: %d\nproducts: %d\nskcs: %d\nimages: %d\n",
		stats.ProjectCount, stats.ProductCount, stats.SKCCount, stats.ImageCount)
	return nil
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	projectID := fs.Int64("project", 0, "project id")
	fs.Parse(args)

	exportID, err := a.client.ExportProject(ctx, *projectID)
	if err != nil {
		return err
	}
	fmt.Printf("export %d created: %s\n", exportID, a.client.ExportDownloadURL(exportID))
	return nil
}

func printResult(res *view.Result) error {
	w := newTabWriter()
	fmt.Fprintln(w, "PRODUCT\tSKC\tSTATUS\tUPDATED")
	for _, row := range res.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			row.ProductName, row.Code, row.Status, row.UpdatedAt.Format(time.DateTime))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	reportFailures(res)
	return nil
}

func reportFailures(res *view.Result) {
	for _, f := range res.Failed {
		fmt.Fprintf(os.Stderr, "warning: product %q incomplete: %v\n", f.ProductName, f.Err)
	}
}

func newTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

// refresher implements the best-effort post-mutation refresh cycle for the
// CLI: re-aggregate the current selection and re-fetch stats, logging
// failures instead of propagating them.
type refresher struct {
	client  *api.Client
	viewer  *view.Service
	session *view.Session
	logger  *slog.Logger
}

func (r *refresher) RefreshProjects(ctx context.Context) {
	if _, err := r.client.ListProjects(ctx); err != nil {
		r.logger.Warn("project list refresh failed", "error", err)
	}
}

func (r *refresher) RefreshView(ctx context.Context) {
	res, err := r.viewer.Refresh(ctx, r.session)
	if errors.Is(err, view.ErrNoProject) {
		return
	}
	if err != nil {
		r.logger.Warn("view refresh failed", "error", err)
		return
	}
	r.logger.Info("view refreshed", "rows", len(res.Rows), "incomplete", len(res.Failed))
}

func (r *refresher) RefreshStats(ctx context.Context) {
	stats, err := r.client.UserStats(ctx)
	if err != nil {
		r.logger.Warn("stats refresh failed", "error", err)
		return
	}
	r.logger.Info("stats refreshed",
		"projects", stats.ProjectCount,
		"products", stats.ProductCount,
		"skcs", stats.SKCCount,
		"images", stats.ImageCount)
}
