// Package mocks provides testify mocks for the gateway surfaces consumed by
// the view and mutate packages.
package mocks

import (
	"context"

	"github.com/cxy1818/temu-jit-skc-webui/internal/api"
	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/catalog"
	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/skc"
	"github.com/stretchr/testify/mock"
)

// Gateway is a mock for view.Gateway and mutate.Gateway.
type Gateway struct {
	mock.Mock
}

func (m *Gateway) ListProjects(ctx context.Context) ([]catalog.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]catalog.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Gateway) CreateProject(ctx context.Context, name, description string) error {
	args := m.Called(ctx, name, description)
	return args.Error(0)
}

func (m *Gateway) ListProducts(ctx context.Context, projectID int64) ([]catalog.Product, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]catalog.Product); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Gateway) CreateProduct(ctx context.Context, projectID int64, name string) (api.CreateOutcome, error) {
	args := m.Called(ctx, projectID, name)
	return args.Get(0).(api.CreateOutcome), args.Error(1)
}

func (m *Gateway) ListSKCs(ctx context.Context, productID int64, status skc.Status) ([]skc.SKC, error) {
	args := m.Called(ctx, productID, status)
	if list, ok := args.Get(0).([]skc.SKC); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Gateway) AddSKCs(ctx context.Context, productID int64, codes []string, status skc.Status) (int, error) {
	args := m.Called(ctx, productID, codes, status)
	return args.Int(0), args.Error(1)
}

func (m *Gateway) BatchUpdateStatus(ctx context.Context, codes []string, status skc.Status) (int, error) {
	args := m.Called(ctx, codes, status)
	return args.Int(0), args.Error(1)
}

func (m *Gateway) BatchDelete(ctx context.Context, codes []string) (int, error) {
	args := m.Called(ctx, codes)
	return args.Int(0), args.Error(1)
}

func (m *Gateway) ListImages(ctx context.Context, productID int64) ([]catalog.Image, error) {
	args := m.Called(ctx, productID)
	if list, ok := args.Get(0).([]catalog.Image); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Gateway) SetPrimaryImage(ctx context.Context, imageID int64) error {
	args := m.Called(ctx, imageID)
	return args.Error(0)
}

func (m *Gateway) DeleteImage(ctx context.Context, imageID int64) error {
	args := m.Called(ctx, imageID)
	return args.Error(0)
}

func (m *Gateway) UserStats(ctx context.Context) (catalog.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(catalog.Stats), args.Error(1)
}

// Refresher is a mock for mutate.Refresher.
type Refresher struct {
	mock.Mock
}

func (m *Refresher) RefreshProjects(ctx context.Context) {
	m.Called(ctx)
}

func (m *Refresher) RefreshView(ctx context.Context) {
	m.Called(ctx)
}

func (m *Refresher) RefreshStats(ctx context.Context) {
	m.Called(ctx)
}
