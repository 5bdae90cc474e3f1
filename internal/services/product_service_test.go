package services_test

import (
	"context"
	"fmt"
	"testing"

	"product-api/internal/models"
	"product-api/internal/money"
	"product-api/internal/repositories"
	"product-api/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductStore is a mock implementation of repositories.ProductStore
type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) NewContext() repositories.ProductContext {
	args := m.Called()
	return args.Get(0).(repositories.ProductContext)
}

// MockProductContext is a mock implementation of repositories.ProductContext
type MockProductContext struct {
	mock.Mock
}

func (m *MockProductContext) List(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductContext) FindByID(ctx context.Context, id int) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductContext) Add(product *models.Product) {
	m.Called(product)
}

func (m *MockProductContext) Remove(product *models.Product) {
	m.Called(product)
}

func (m *MockProductContext) SaveChanges(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishJSON(routingKey string, payload interface{}) error {
	args := m.Called(routingKey, payload)
	return args.Error(0)
}

func newService(uow *MockProductContext, publisher services.EventPublisher) (*services.ProductService, *MockProductStore) {
	store := new(MockProductStore)
	store.On("NewContext").Return(uow)
	return services.NewProductService(store, publisher, nil), store
}

func existingProduct() *models.Product {
	return &models.Product{
		ID:             1,
		Name:           "Product A",
		Description:    "Original description",
		Category:       "Tools",
		Price:          money.RequireFromString("10.00"),
		Stock:          100,
		SupplierName:   "ACME",
		SupplierNumber: 5551234,
		SupplierEmail:  "sales@acme.test",
	}
}

func TestProductService_GetAllProducts(t *testing.T) {
	ctx := context.Background()
	uow := new(MockProductContext)
	service, _ := newService(uow, nil)

	expectedProducts := []models.Product{
		{ID: 1, Name: "Product A", Price: money.RequireFromString("10"), Stock: 100},
		{ID: 2, Name: "Product B", Price: money.RequireFromString("20"), Stock: 50},
	}
	uow.On("List", ctx).Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts(ctx)

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, expectedProducts, products)
	uow.AssertExpectations(t)
}

func TestProductService_GetAllProductsPropagatesStorageError(t *testing.T) {
	ctx := context.Background()
	uow := new(MockProductContext)
	service, _ := newService(uow, nil)

	uow.On("List", ctx).Return(nil, fmt.Errorf("connection refused")).Once()

	products, err := service.GetAllProducts(ctx)
	assert.Nil(t, products)
	assert.EqualError(t, err, "connection refused")
}

func TestProductService_GetProductByID(t *testing.T) {
	ctx := context.Background()
	uow := new(MockProductContext)
	service, _ := newService(uow, nil)

	expectedProduct := existingProduct()

	// Test successful retrieval
	uow.On("FindByID", ctx, 1).Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)

	// Test product not found
	uow.On("FindByID", ctx, 99).Return(nil, nil).Once()
	product, err = service.GetProductByID(ctx, 99)
	assert.NoError(t, err)
	assert.Nil(t, product)

	uow.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()
	uow := new(MockProductContext)
	publisher := new(MockPublisher)
	service, _ := newService(uow, publisher)

	newProduct := &models.Product{Name: "New Product", Price: money.RequireFromString("50"), Stock: 20}

	uow.On("Add", newProduct).Once()
	uow.On("SaveChanges", ctx).Run(func(mock.Arguments) { newProduct.ID = 5 }).Return(nil).Once()
	publisher.On("PublishJSON", models.ProductCreated, mock.MatchedBy(func(e models.ProductEvent) bool {
		return e.ProductID == 5 && e.Product != nil && e.Product.Name == "New Product"
	})).Return(nil).Once()

	created, err := service.CreateProduct(ctx, newProduct)
	assert.NoError(t, err)
	assert.Equal(t, 5, created.ID)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestProductService_CreateProductStorageFailure(t *testing.T) {
	ctx := context.Background()
	uow := new(MockProductContext)
	publisher := new(MockPublisher)
	service, _ := newService(uow, publisher)

	newProduct := &models.Product{Name: "New Product"}
	uow.On("Add", newProduct).Once()
	uow.On("SaveChanges", ctx).Return(fmt.Errorf("database error")).Once()

	created, err := service.CreateProduct(ctx, newProduct)
	assert.Nil(t, created)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	publisher.AssertNotCalled(t, "PublishJSON", mock.Anything, mock.Anything)
}

func TestProductService_CreateProductIgnoresPublishFailure(t *testing.T) {
	ctx := context.Background()
	uow := new(MockProductContext)
	publisher := new(MockPublisher)
	service, _ := newService(uow, publisher)

	newProduct := &models.Product{Name: "New Product"}
	uow.On("Add", newProduct).Once()
	uow.On("SaveChanges", ctx).Return(nil).Once()
	publisher.On("PublishJSON", models.ProductCreated, mock.Anything).Return(fmt.Errorf("broker down")).Once()

	created, err := service.CreateProduct(ctx, newProduct)
	assert.NoError(t, err)
	assert.Same(t, newProduct, created)
}

func TestProductService_UpdateProductCopiesOnlyEditableFields(t *testing.T) {
	ctx := context.Background()
	uow := new(MockProductContext)
	service, _ := newService(uow, nil)

	existing := existingProduct()
	uow.On("FindByID", ctx, 1).Return(existing, nil).Once()
	uow.On("SaveChanges", ctx).Return(nil).Once()

	input := &models.Product{
		ID:             1,
		Name:           "Product A Updated",
		Description:    "New description",
		Category:       "Hardware",
		Price:          money.RequireFromString("12.00"),
		Stock:          95,
		SupplierName:   "Other",
		SupplierNumber: 1,
		SupplierEmail:  "other@supplier.test",
	}

	updated, err := service.UpdateProduct(ctx, 1, input)
	require.NoError(t, err)
	assert.Same(t, existing, updated)
	assert.Equal(t, "Product A Updated", updated.Name)
	assert.Equal(t, "New description", updated.Description)
	assert.Equal(t, "Hardware", updated.Category)
	assert.True(t, money.RequireFromString("12").Equal(updated.Price))

	// Stock and supplier details are not part of an update.
	assert.Equal(t, 100, updated.Stock)
	assert.Equal(t, "ACME", updated.SupplierName)
	assert.Equal(t, 5551234, updated.SupplierNumber)
	assert.Equal(t, "sales@acme.test", updated.SupplierEmail)
	uow.AssertExpectations(t)
}

func TestProductService_UpdateProductNotFound(t *testing.T) {
	ctx := context.Background()
	uow := new(MockProductContext)
	service, _ := newService(uow, nil)

	uow.On("FindByID", ctx, 99).Return(nil, nil).Once()

	updated, err := service.UpdateProduct(ctx, 99, &models.Product{ID: 99, Name: "NonExistent"})
	assert.NoError(t, err)
	assert.Nil(t, updated)
	uow.AssertNotCalled(t, "SaveChanges", mock.Anything)
}

func TestProductService_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	uow := new(MockProductContext)
	publisher := new(MockPublisher)
	service, _ := newService(uow, publisher)

	existing := existingProduct()
	uow.On("FindByID", ctx, 1).Return(existing, nil).Once()
	uow.On("Remove", existing).Once()
	uow.On("SaveChanges", ctx).Return(nil).Once()
	publisher.On("PublishJSON", models.ProductDeleted, mock.MatchedBy(func(e models.ProductEvent) bool {
		return e.ProductID == 1 && e.Product == nil
	})).Return(nil).Once()

	deleted, err := service.DeleteProduct(ctx, 1)
	assert.NoError(t, err)
	assert.True(t, deleted)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestProductService_DeleteProductNotFound(t *testing.T) {
	ctx := context.Background()
	uow := new(MockProductContext)
	service, _ := newService(uow, nil)

	uow.On("FindByID", ctx, 99).Return(nil, nil).Once()

	deleted, err := service.DeleteProduct(ctx, 99)
	assert.NoError(t, err)
	assert.False(t, deleted)
	uow.AssertNotCalled(t, "Remove", mock.Anything)
	uow.AssertNotCalled(t, "SaveChanges", mock.Anything)
}

func TestProductService_DeleteProductStorageFailure(t *testing.T) {
	ctx := context.Background()
	uow := new(MockProductContext)
	service, _ := newService(uow, nil)

	existing := existingProduct()
	uow.On("FindByID", ctx, 1).Return(existing, nil).Once()
	uow.On("Remove", existing).Once()
	uow.On("SaveChanges", ctx).Return(fmt.Errorf("deadlock detected")).Once()

	deleted, err := service.DeleteProduct(ctx, 1)
	assert.False(t, deleted)
	assert.ErrorContains(t, err, "deadlock detected")
}

func TestProductService_WithMemoryStore(t *testing.T) {
	ctx := context.Background()
	service := services.NewProductService(repositories.NewMemoryProductStore(), nil, nil)

	created, err := service.CreateProduct(ctx, &models.Product{
		Name: "Widget", Description: "A widget", Category: "Tools",
		Price: money.RequireFromString("9.99"), Stock: 10,
	})
	require.NoError(t, err)

	updated, err := service.UpdateProduct(ctx, created.ID, &models.Product{
		Name: "Widget 2", Description: "A better widget", Category: "Tools",
		Price: money.RequireFromString("19.99"), Stock: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)

	fetched, err := service.GetProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget 2", fetched.Name)
	assert.Equal(t, 10, fetched.Stock)

	deleted, err := service.DeleteProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = service.DeleteProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	products, err := service.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}
