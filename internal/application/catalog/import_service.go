package catalog

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/promoshop/backend/internal/domain/catalog"
	"github.com/promoshop/backend/internal/domain/shared"
	"github.com/promoshop/backend/internal/domain/shared/valueobject"
	csvimport "github.com/promoshop/backend/internal/infrastructure/import"
	"github.com/promoshop/backend/internal/infrastructure/telemetry"
)

const importMaxErrors = 100

// ImportRowError describes why one CSV row was rejected
type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ProductImportResult summarizes a catalog import run
type ProductImportResult struct {
	TotalRows int              `json:"total_rows"`
	Created   int              `json:"created"`
	Failed    int              `json:"failed"`
	Errors    []ImportRowError `json:"errors,omitempty"`
}

// ProductImportService loads products into the catalog from CSV files.
// Expected columns: name, unit_price, category and an optional image_url.
type ProductImportService struct {
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductImportService creates a new ProductImportService
func NewProductImportService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductImportService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductImportService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func productImportRules() []csvimport.FieldRule {
	return []csvimport.FieldRule{
		csvimport.Field("name").Required().String().Length(1, 200).Unique().Build(),
		csvimport.Field("unit_price").Required().Decimal().MinValue(decimal.Zero).Build(),
		csvimport.Field("category").Required().String().MaxLength(100).Build(),
		csvimport.Field("image_url").String().MaxLength(500).Build(),
	}
}

// Import reads a CSV stream and creates one product per valid row.
// Rows that fail validation or collide with an existing product name are
// reported in the result and skipped; valid rows are still created. The
// whole file is rejected only when it cannot be parsed at all.
func (s *ProductImportService) Import(ctx context.Context, r io.Reader) (*ProductImportResult, error) {
	parser, err := csvimport.NewCSVParser(r)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_FILE", err.Error())
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, shared.NewDomainError("INVALID_FILE", err.Error())
	}
	if missing := parser.ValidateHeaders([]string{"name", "unit_price", "category"}); len(missing) > 0 {
		return nil, shared.NewDomainError("INVALID_FILE", "Missing required columns: "+strings.Join(missing, ", "))
	}

	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_FILE", err.Error())
	}

	validator := csvimport.NewFieldValidator(productImportRules(), importMaxErrors)

	result := &ProductImportResult{TotalRows: len(rows)}
	labels := telemetry.OperationLabels(telemetry.OperationImportCatalog, nil)
	telemetry.WithProfilingLabels(ctx, labels, func(c context.Context) {
		for _, row := range rows {
			if !validator.ValidateRow(row) {
				result.Failed++
				continue
			}

			if err := s.importRow(c, row); err != nil {
				result.Failed++
				result.Errors = append(result.Errors, ImportRowError{
					Row:     row.LineNumber,
					Column:  "name",
					Code:    errorCode(err),
					Message: err.Error(),
				})
				continue
			}
			result.Created++
		}
	})

	for _, rowErr := range validator.Errors().Errors() {
		result.Errors = append(result.Errors, ImportRowError{
			Row:     rowErr.Row,
			Column:  rowErr.Column,
			Code:    rowErr.Code,
			Message: rowErr.Message,
		})
	}

	s.logger.Info("Product import finished",
		zap.Int("total_rows", result.TotalRows),
		zap.Int("created", result.Created),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}

func (s *ProductImportService) importRow(ctx context.Context, row *csvimport.Row) error {
	name := row.Get("name")

	exists, err := s.productRepo.ExistsByName(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Product with this name already exists")
	}

	price, err := valueobject.NewMoneyCHFFromString(row.Get("unit_price"))
	if err != nil {
		return shared.NewDomainError("INVALID_PRICE", err.Error())
	}

	product, err := catalog.NewProduct(name, price, row.Get("category"), row.Get("image_url"))
	if err != nil {
		return err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		events := product.GetDomainEvents()
		if len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
			product.ClearDomainEvents()
		}
	}

	return nil
}

func errorCode(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return "IMPORT_FAILED"
}
