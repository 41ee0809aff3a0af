package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/catalog"
	"github.com/promoshop/backend/internal/domain/shared"
	"github.com/promoshop/backend/internal/domain/shared/valueobject"
)

// ProductService handles product catalog operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds a product to the catalog. Product names are unique.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this name already exists")
	}

	product, err := catalog.NewProduct(req.Name, valueobject.NewMoneyCHF(req.UnitPrice), req.Category, req.ImageURL)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Get returns one product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List returns products matching the filter with pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.Search != "" {
		domainFilter.Search = filter.Search
	}

	var (
		products []catalog.Product
		err      error
	)
	if filter.Category != "" {
		products, err = s.productRepo.FindByCategory(ctx, filter.Category, domainFilter)
		domainFilter.Filters["category"] = filter.Category
	} else {
		products, err = s.productRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}

	return responses, total, nil
}

// Delete removes a product from the catalog. Orders keep their snapshots,
// so deleting a product never rewrites order history.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		event := catalog.NewProductDeletedEvent(product)
		_ = s.eventPublisher.Publish(ctx, event)
	}

	return nil
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	product.ClearDomainEvents()
}
