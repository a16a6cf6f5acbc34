package mutate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cxy1818/temu-jit-skc-webui/internal/api"
	"github.com/cxy1818/temu-jit-skc-webui/internal/api/mocks"
	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/catalog"
	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/mutate"
	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/skc"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateProject_Validation(t *testing.T) {
	gw := &mocks.Gateway{}
	c := mutate.NewCoordinator(gw, nil, nil)

	err := c.CreateProject(context.Background(), "   ", "desc")
	require.ErrorIs(t, err, mutate.ErrInvalidInput)
	gw.AssertNotCalled(t, "CreateProject", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateProject_RefreshesProjectListOnly(t *testing.T) {
	gw := &mocks.Gateway{}
	gw.On("CreateProject", mock.Anything, "P1", "first").Return(nil)
	ref := &mocks.Refresher{}
	ref.On("RefreshProjects", mock.Anything).Return()

	c := mutate.NewCoordinator(gw, ref, nil)
	require.NoError(t, c.CreateProject(context.Background(), " P1 ", " first "))

	ref.AssertExpectations(t)
	ref.AssertNotCalled(t, "RefreshView", mock.Anything)
	ref.AssertNotCalled(t, "RefreshStats", mock.Anything)
}

func TestAddProductWithSKCs_HappyPath(t *testing.T) {
	gw := &mocks.Gateway{}
	gw.On("CreateProduct", mock.Anything, int64(7), "PR1").Return(api.OutcomeCreated, nil)
	gw.On("ListProducts", mock.Anything, int64(7)).Return([]catalog.Product{
		{ID: 3, Name: "PR1"},
	}, nil)
	gw.On("AddSKCs", mock.Anything, int64(3), []string{"A1", "A2", "A3"}, skc.StatusPriceApproved).
		Return(3, nil)
	ref := &mocks.Refresher{}
	ref.On("RefreshView", mock.Anything).Return()
	ref.On("RefreshStats", mock.Anything).Return()

	c := mutate.NewCoordinator(gw, ref, nil)
	res, err := c.AddProductWithSKCs(context.Background(), mutate.AddProductRequest{
		ProjectID:   7,
		ProductName: "PR1",
		RawCodes:    "A1 A2\nA3",
		Status:      skc.StatusPriceApproved,
	})

	require.NoError(t, err)
	require.Equal(t, int64(3), res.Product.ID)
	require.Equal(t, 3, res.Added)
	gw.AssertExpectations(t)
	ref.AssertExpectations(t)
}

func TestAddProductWithSKCs_ExistingProductIsReused(t *testing.T) {
	gw := &mocks.Gateway{}
	gw.On("CreateProduct", mock.Anything, int64(7), "PR1").Return(api.OutcomeAlreadyExists, nil)
	gw.On("ListProducts", mock.Anything, int64(7)).Return([]catalog.Product{
		{ID: 3, Name: "PR1"},
	}, nil)
	gw.On("AddSKCs", mock.Anything, int64(3), []string{"B1"}, skc.StatusPricePending).Return(1, nil)

	c := mutate.NewCoordinator(gw, nil, nil)
	res, err := c.AddProductWithSKCs(context.Background(), mutate.AddProductRequest{
		ProjectID:   7,
		ProductName: "PR1",
		RawCodes:    "B1",
		Status:      skc.StatusPricePending,
	})

	require.NoError(t, err)
	require.Equal(t, 1, res.Added)
}

func TestAddProductWithSKCs_ProductVanishes(t *testing.T) {
	gw := &mocks.Gateway{}
	gw.On("CreateProduct", mock.Anything, int64(7), "PR1").Return(api.OutcomeCreated, nil)
	gw.On("ListProducts", mock.Anything, int64(7)).Return([]catalog.Product{}, nil)

	c := mutate.NewCoordinator(gw, nil, nil)
	_, err := c.AddProductWithSKCs(context.Background(), mutate.AddProductRequest{
		ProjectID:   7,
		ProductName: "PR1",
		RawCodes:    "A1",
		Status:      skc.StatusPriceApproved,
	})

	require.ErrorIs(t, err, mutate.ErrProductNotFound)
	gw.AssertNotCalled(t, "AddSKCs", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddProductWithSKCs_Validation(t *testing.T) {
	gw := &mocks.Gateway{}
	c := mutate.NewCoordinator(gw, nil, nil)

	_, err := c.AddProductWithSKCs(context.Background(), mutate.AddProductRequest{
		ProjectID: 7, ProductName: "", RawCodes: "A1",
	})
	require.ErrorIs(t, err, mutate.ErrInvalidInput)

	_, err = c.AddProductWithSKCs(context.Background(), mutate.AddProductRequest{
		ProjectID: 7, ProductName: "PR1", RawCodes: "  \n  ",
	})
	require.ErrorIs(t, err, mutate.ErrInvalidInput)
	gw.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything, mock.Anything)
}

func TestBatchUpdateStatus(t *testing.T) {
	gw := &mocks.Gateway{}
	gw.On("BatchUpdateStatus", mock.Anything, []string{"S1", "S2", "S9"}, skc.StatusDelisted).
		Return(2, nil)
	ref := &mocks.Refresher{}
	ref.On("RefreshView", mock.Anything).Return()
	ref.On("RefreshStats", mock.Anything).Return()

	c := mutate.NewCoordinator(gw, ref, nil)
	updated, err := c.BatchUpdateStatus(context.Background(), []string{"S1", "S2", "S9"}, skc.StatusDelisted)

	require.NoError(t, err)
	require.Equal(t, 2, updated)
	ref.AssertExpectations(t)
}

func TestBatchUpdateStatus_Validation(t *testing.T) {
	c := mutate.NewCoordinator(&mocks.Gateway{}, nil, nil)

	_, err := c.BatchUpdateStatus(context.Background(), nil, skc.StatusDelisted)
	require.ErrorIs(t, err, mutate.ErrInvalidInput)

	_, err = c.BatchUpdateStatus(context.Background(), []string{"S1"}, "乱写的")
	require.ErrorIs(t, err, mutate.ErrInvalidInput)
}

func TestBatchDelete(t *testing.T) {
	gw := &mocks.Gateway{}
	gw.On("BatchDelete", mock.Anything, []string{"S1"}).Return(1, nil)
	ref := &mocks.Refresher{}
	ref.On("RefreshView", mock.Anything).Return()
	ref.On("RefreshStats", mock.Anything).Return()

	c := mutate.NewCoordinator(gw, ref, nil)
	deleted, err := c.BatchDelete(context.Background(), []string{"S1"})

	require.NoError(t, err)
	require.Equal(t, 1, deleted)
}

func TestBatchDelete_FailureSkipsRefresh(t *testing.T) {
	gw := &mocks.Gateway{}
	gw.On("BatchDelete", mock.Anything, []string{"S1"}).Return(0, errors.New("upstream down"))
	ref := &mocks.Refresher{}

	c := mutate.NewCoordinator(gw, ref, nil)
	_, err := c.BatchDelete(context.Background(), []string{"S1"})

	require.Error(t, err)
	ref.AssertNotCalled(t, "RefreshView", mock.Anything)
	ref.AssertNotCalled(t, "RefreshStats", mock.Anything)
}

func TestSetPrimaryImage_ReturnsReloadedList(t *testing.T) {
	gw := &mocks.Gateway{}
	gw.On("SetPrimaryImage", mock.Anything, int64(10)).Return(nil)
	gw.On("ListImages", mock.Anything, int64(3)).Return([]catalog.Image{
		{ID: 10, IsPrimary: true},
		{ID: 11, IsPrimary: false},
	}, nil)

	c := mutate.NewCoordinator(gw, nil, nil)
	images, err := c.SetPrimaryImage(context.Background(), 10, 3)

	require.NoError(t, err)
	require.Len(t, images, 2)
	require.True(t, images[0].IsPrimary)
	require.False(t, images[1].IsPrimary)
}

func TestDeleteImage_ReturnsReloadedList(t *testing.T) {
	gw := &mocks.Gateway{}
	gw.On("DeleteImage", mock.Anything, int64(10)).Return(nil)
	gw.On("ListImages", mock.Anything, int64(3)).Return([]catalog.Image{}, nil)

	c := mutate.NewCoordinator(gw, nil, nil)
	images, err := c.DeleteImage(context.Background(), 10, 3)

	require.NoError(t, err)
	require.Empty(t, images)
}
