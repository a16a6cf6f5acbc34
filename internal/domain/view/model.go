package view

import (
	"fmt"
	"time"

	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/catalog"
	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/skc"
)

// Mode selects which entity the aggregated row set represents.
type Mode string

const (
	ModeAll      Mode = "all"
	ModeProducts Mode = "products"
	ModeSKCs     Mode = "skcs"
	ModeImages   Mode = "images"
)

// ParseMode validates a user-supplied mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAll, ModeProducts, ModeSKCs, ModeImages:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

// RowKind tells product summary rows apart from SKC rows.
type RowKind string

const (
	KindProduct RowKind = "product"
	KindSKC     RowKind = "skc"
)

// Row is the denormalized projection the dashboard table renders. Rows are
// rebuilt on every aggregation pass and never cached across filter changes.
type Row struct {
	ProductName string
	Code        string // "-" placeholder on product rows
	Status      string // SKC status, or an "N 个SKC" summary on product rows
	UpdatedAt   time.Time
	Kind        RowKind
}

// Filters are the client-side predicates applied to aggregated rows.
type Filters struct {
	Search string
	Status skc.Status
}

// ProductImage tags an image with its owning product identity.
type ProductImage struct {
	catalog.Image
	ProductID   int64
	ProductName string
}

// ProductFailure records one per-product fetch that failed during fan-out.
type ProductFailure struct {
	ProductID   int64
	ProductName string
	Err         error
}

// Result is one aggregation pass. Rows carry the table view; Images is filled
// only in images mode. Failed lists products whose child fetch failed while
// the rest of the fan-out succeeded, so callers can surface incompleteness
// instead of silently dropping data.
type Result struct {
	ProjectID int64
	Mode      Mode
	Rows      []Row
	Images    []ProductImage
	Failed    []ProductFailure
}
