package printing

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/printing"
	"github.com/promoshop/backend/internal/domain/shared"
	"github.com/promoshop/backend/internal/domain/trade"
	"github.com/promoshop/backend/internal/domain/shared/valueobject"
	infra "github.com/promoshop/backend/internal/infrastructure/printing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDocumentRepository is a mock implementation of printing.DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*printing.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]printing.Document, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]printing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByOrderAndType(ctx context.Context, orderID uuid.UUID, docType printing.DocType) ([]printing.Document, error) {
	args := m.Called(ctx, orderID, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]printing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]printing.Document, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]printing.Document), args.Error(1)
}

func (m *MockDocumentRepository) Save(ctx context.Context, doc *printing.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

var _ printing.DocumentRepository = (*MockDocumentRepository)(nil)

// MockOrderRepository is a mock implementation of trade.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByClientID(ctx context.Context, clientID string) ([]trade.Order, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindPending(ctx context.Context) ([]trade.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindTreated(ctx context.Context) ([]trade.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

var _ trade.OrderRepository = (*MockOrderRepository)(nil)

// fakeDataLoader returns minimal well-formed document data or an error
type fakeDataLoader struct {
	err error
}

func (f *fakeDataLoader) LoadData(ctx context.Context, docType printing.DocType, orderID uuid.UUID) (*infra.DocumentData, error) {
	if f.err != nil {
		return nil, f.err
	}

	data := &infra.DocumentData{
		Meta: infra.DocumentMeta{
			DocType:     string(docType),
			Title:       docType.DisplayName(),
			OrderNumber: "1735689600000",
		},
		Seller: infra.SellerInfo{Name: "PromoShop AG"},
		Client: infra.ClientInfo{ClientID: "alice"},
	}
	switch docType {
	case printing.DocTypeInvoice:
		data.Document = &infra.InvoiceData{}
	case printing.DocTypeDeliveryNote:
		data.Document = &infra.DeliveryNoteData{}
	}
	return data, nil
}

// fakePDFRenderer returns canned PDF bytes or an error
type fakePDFRenderer struct {
	err      error
	lastHTML string
}

func (f *fakePDFRenderer) Render(ctx context.Context, req *infra.RenderRequest) (*infra.RenderResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastHTML = req.HTML
	return &infra.RenderResult{PDFData: []byte("%PDF-1.4 fake"), PageCount: 1}, nil
}

func (f *fakePDFRenderer) Close() error { return nil }

// fakePDFStorage records stored PDFs or fails
type fakePDFStorage struct {
	err    error
	stored map[string][]byte
}

func newFakePDFStorage() *fakePDFStorage {
	return &fakePDFStorage{stored: make(map[string][]byte)}
}

func (f *fakePDFStorage) Store(ctx context.Context, req *infra.StoreRequest) (*infra.StoreResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	path := "2026/01/" + req.DocTypeSlug + "-" + req.OrderNumber + "-" + req.DocumentID.String() + ".pdf"
	f.stored[path] = req.PDFData
	return &infra.StoreResult{
		Path: path,
		URL:  "/api/v1/documents/files/" + path,
		Size: int64(len(req.PDFData)),
	}, nil
}

func (f *fakePDFStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	data, ok := f.stored[path]
	if !ok {
		return nil, errors.New("not stored: " + path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakePDFStorage) Delete(ctx context.Context, path string) error {
	delete(f.stored, path)
	return nil
}

func (f *fakePDFStorage) GetURL(path string) string {
	return "/api/v1/documents/files/" + path
}

type documentFixture struct {
	documentRepo *MockDocumentRepository
	orderRepo    *MockOrderRepository
	loader       *fakeDataLoader
	renderer     *fakePDFRenderer
	storage      *fakePDFStorage
	service      *DocumentService
	order        *trade.Order
}

func newDocumentFixture(t *testing.T) *documentFixture {
	t.Helper()

	order, err := trade.NewOrder("1735689600000", "alice")
	require.NoError(t, err)
	mugID := uuid.New()
	require.NoError(t, order.AddItem(mugID, "Mug", valueobject.NewMoneyCHFFromFloat(10.00), 5, "Drinkware"))
	_, err = order.Process([]trade.DeclaredDelivery{{ProductID: mugID, Quantity: 5}})
	require.NoError(t, err)
	order.ClearDomainEvents()

	f := &documentFixture{
		documentRepo: new(MockDocumentRepository),
		orderRepo:    new(MockOrderRepository),
		loader:   &fakeDataLoader{},
		renderer: &fakePDFRenderer{},
		storage:  newFakePDFStorage(),
		order:    order,
	}

	f.service = NewDocumentService(
		f.documentRepo,
		f.orderRepo,
		f.loader,
		infra.NewTemplateStore(nil),
		infra.NewTemplateEngine(),
		f.renderer,
		f.storage,
		nil,
	)
	return f
}

func TestDocumentService_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("generates and completes an invoice document", func(t *testing.T) {
		f := newDocumentFixture(t)
		f.orderRepo.On("FindByOrderNumber", ctx, "1735689600000").Return(f.order, nil)
		f.documentRepo.On("Save", ctx, mock.AnythingOfType("*printing.Document")).Return(nil)

		resp, err := f.service.Generate(ctx, GenerateDocumentRequest{
			DocumentType: "INVOICE",
			OrderNumber:  "1735689600000",
		})
		require.NoError(t, err)

		assert.Equal(t, "INVOICE", resp.DocumentType)
		assert.Equal(t, "1735689600000", resp.OrderNumber)
		assert.Equal(t, "alice", resp.ClientID)
		assert.Equal(t, "COMPLETED", resp.Status)
		assert.NotEmpty(t, resp.PdfURL)
		assert.NotNil(t, resp.GeneratedAt)
		assert.Len(t, f.storage.stored, 1)
		// pending, rendering, completed
		f.documentRepo.AssertNumberOfCalls(t, "Save", 3)
	})

	t.Run("lowercase document type is accepted", func(t *testing.T) {
		f := newDocumentFixture(t)
		f.orderRepo.On("FindByOrderNumber", ctx, "1735689600000").Return(f.order, nil)
		f.documentRepo.On("Save", ctx, mock.AnythingOfType("*printing.Document")).Return(nil)

		resp, err := f.service.Generate(ctx, GenerateDocumentRequest{
			DocumentType: "delivery_note",
			OrderNumber:  "1735689600000",
		})
		require.NoError(t, err)
		assert.Equal(t, "DELIVERY_NOTE", resp.DocumentType)
	})

	t.Run("rejects unknown document type", func(t *testing.T) {
		f := newDocumentFixture(t)

		_, err := f.service.Generate(ctx, GenerateDocumentRequest{
			DocumentType: "RECEIPT",
			OrderNumber:  "1735689600000",
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
		f.orderRepo.AssertNotCalled(t, "FindByOrderNumber", mock.Anything, mock.Anything)
	})

	t.Run("unknown order propagates not found", func(t *testing.T) {
		f := newDocumentFixture(t)
		f.orderRepo.On("FindByOrderNumber", ctx, "9999").Return(nil, shared.ErrNotFound)

		_, err := f.service.Generate(ctx, GenerateDocumentRequest{
			DocumentType: "INVOICE",
			OrderNumber:  "9999",
		})
		require.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("client mismatch is reported as not found", func(t *testing.T) {
		f := newDocumentFixture(t)
		f.orderRepo.On("FindByOrderNumber", ctx, "1735689600000").Return(f.order, nil)

		_, err := f.service.Generate(ctx, GenerateDocumentRequest{
			DocumentType: "INVOICE",
			OrderNumber:  "1735689600000",
			ClientID:     "mallory",
		})
		require.ErrorIs(t, err, shared.ErrNotFound)
		f.documentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("owner can generate own document", func(t *testing.T) {
		f := newDocumentFixture(t)
		f.orderRepo.On("FindByOrderNumber", ctx, "1735689600000").Return(f.order, nil)
		f.documentRepo.On("Save", ctx, mock.AnythingOfType("*printing.Document")).Return(nil)

		resp, err := f.service.Generate(ctx, GenerateDocumentRequest{
			DocumentType: "INVOICE",
			OrderNumber:  "1735689600000",
			ClientID:     "alice",
		})
		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", resp.Status)
	})

	t.Run("data loading failure marks the document failed", func(t *testing.T) {
		f := newDocumentFixture(t)
		f.loader.err = shared.NewDomainError("INVALID_STATE",
			"Cannot generate an invoice for an order that has not been processed")
		f.orderRepo.On("FindByOrderNumber", ctx, "1735689600000").Return(f.order, nil)

		var lastSaved *printing.Document
		f.documentRepo.On("Save", ctx, mock.AnythingOfType("*printing.Document")).
			Run(func(args mock.Arguments) {
				lastSaved = args.Get(1).(*printing.Document)
			}).Return(nil)

		_, err := f.service.Generate(ctx, GenerateDocumentRequest{
			DocumentType: "INVOICE",
			OrderNumber:  "1735689600000",
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)

		require.NotNil(t, lastSaved)
		assert.True(t, lastSaved.IsFailed())
		assert.Contains(t, lastSaved.ErrorMessage, "has not been processed")
	})

	t.Run("renderer failure marks the document failed", func(t *testing.T) {
		f := newDocumentFixture(t)
		f.renderer.err = infra.NewRenderError(infra.ErrCodeRenderFailed, "chrome crashed", nil)
		f.orderRepo.On("FindByOrderNumber", ctx, "1735689600000").Return(f.order, nil)

		var lastSaved *printing.Document
		f.documentRepo.On("Save", ctx, mock.AnythingOfType("*printing.Document")).
			Run(func(args mock.Arguments) {
				lastSaved = args.Get(1).(*printing.Document)
			}).Return(nil)

		_, err := f.service.Generate(ctx, GenerateDocumentRequest{
			DocumentType: "INVOICE",
			OrderNumber:  "1735689600000",
		})
		require.Error(t, err)
		require.NotNil(t, lastSaved)
		assert.True(t, lastSaved.IsFailed())
		assert.Empty(t, f.storage.stored)
	})

	t.Run("storage failure marks the document failed", func(t *testing.T) {
		f := newDocumentFixture(t)
		f.storage.err = errors.New("disk full")
		f.orderRepo.On("FindByOrderNumber", ctx, "1735689600000").Return(f.order, nil)

		var lastSaved *printing.Document
		f.documentRepo.On("Save", ctx, mock.AnythingOfType("*printing.Document")).
			Run(func(args mock.Arguments) {
				lastSaved = args.Get(1).(*printing.Document)
			}).Return(nil)

		_, err := f.service.Generate(ctx, GenerateDocumentRequest{
			DocumentType: "INVOICE",
			OrderNumber:  "1735689600000",
		})
		require.Error(t, err)
		require.NotNil(t, lastSaved)
		assert.True(t, lastSaved.IsFailed())
	})

	t.Run("initial save failure aborts generation", func(t *testing.T) {
		f := newDocumentFixture(t)
		f.orderRepo.On("FindByOrderNumber", ctx, "1735689600000").Return(f.order, nil)
		f.documentRepo.On("Save", ctx, mock.AnythingOfType("*printing.Document")).
			Return(errors.New("db down"))

		_, err := f.service.Generate(ctx, GenerateDocumentRequest{
			DocumentType: "INVOICE",
			OrderNumber:  "1735689600000",
		})
		require.Error(t, err)
		assert.Empty(t, f.storage.stored)
	})
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns document by id", func(t *testing.T) {
		f := newDocumentFixture(t)
		doc, err := printing.NewDocument(printing.DocTypeInvoice, f.order.ID, f.order.OrderNumber, "alice")
		require.NoError(t, err)
		f.documentRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)

		resp, err := f.service.Get(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, doc.ID, resp.ID)
		assert.Equal(t, "PENDING", resp.Status)
	})

	t.Run("propagates not found", func(t *testing.T) {
		f := newDocumentFixture(t)
		missing := uuid.New()
		f.documentRepo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

		_, err := f.service.Get(ctx, missing)
		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestDocumentService_GetForOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("lists all documents of an order", func(t *testing.T) {
		f := newDocumentFixture(t)
		invoice, err := printing.NewDocument(printing.DocTypeInvoice, f.order.ID, f.order.OrderNumber, "alice")
		require.NoError(t, err)
		note, err := printing.NewDocument(printing.DocTypeDeliveryNote, f.order.ID, f.order.OrderNumber, "alice")
		require.NoError(t, err)

		f.orderRepo.On("FindByOrderNumber", ctx, "1735689600000").Return(f.order, nil)
		f.documentRepo.On("FindByOrder", ctx, f.order.ID).Return([]printing.Document{*note, *invoice}, nil)

		resp, err := f.service.GetForOrder(ctx, "1735689600000", "")
		require.NoError(t, err)
		require.Len(t, resp, 2)
	})

	t.Run("narrows by document type", func(t *testing.T) {
		f := newDocumentFixture(t)
		invoice, err := printing.NewDocument(printing.DocTypeInvoice, f.order.ID, f.order.OrderNumber, "alice")
		require.NoError(t, err)

		f.orderRepo.On("FindByOrderNumber", ctx, "1735689600000").Return(f.order, nil)
		f.documentRepo.On("FindByOrderAndType", ctx, f.order.ID, printing.DocTypeInvoice).
			Return([]printing.Document{*invoice}, nil)

		resp, err := f.service.GetForOrder(ctx, "1735689600000", "invoice")
		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, "INVOICE", resp[0].DocumentType)
	})

	t.Run("rejects unknown document type", func(t *testing.T) {
		f := newDocumentFixture(t)
		f.orderRepo.On("FindByOrderNumber", ctx, "1735689600000").Return(f.order, nil)

		_, err := f.service.GetForOrder(ctx, "1735689600000", "RECEIPT")
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("applies default pagination", func(t *testing.T) {
		f := newDocumentFixture(t)
		f.documentRepo.On("FindAll", ctx, mock.MatchedBy(func(filter shared.Filter) bool {
			return filter.Page == 1 && filter.PageSize == 20 &&
				filter.OrderBy == "created_at" && filter.OrderDir == "desc"
		})).Return([]printing.Document{}, nil)
		f.documentRepo.On("Count", ctx, mock.Anything).Return(int64(0), nil)

		resp, total, err := f.service.List(ctx, DocumentListFilter{})
		require.NoError(t, err)
		assert.Empty(t, resp)
		assert.Equal(t, int64(0), total)
	})

	t.Run("forwards type and status filters uppercased", func(t *testing.T) {
		f := newDocumentFixture(t)
		f.documentRepo.On("FindAll", ctx, mock.MatchedBy(func(filter shared.Filter) bool {
			return filter.Filters["document_type"] == "INVOICE" &&
				filter.Filters["status"] == "COMPLETED"
		})).Return([]printing.Document{}, nil)
		f.documentRepo.On("Count", ctx, mock.Anything).Return(int64(0), nil)

		_, _, err := f.service.List(ctx, DocumentListFilter{
			DocumentType: "invoice",
			Status:       "completed",
		})
		require.NoError(t, err)
	})
}

func TestDocumentService_GetFile(t *testing.T) {
	ctx := context.Background()

	t.Run("streams a completed document", func(t *testing.T) {
		f := newDocumentFixture(t)
		f.orderRepo.On("FindByOrderNumber", ctx, "1735689600000").Return(f.order, nil)
		f.documentRepo.On("Save", ctx, mock.AnythingOfType("*printing.Document")).Return(nil)

		resp, err := f.service.Generate(ctx, GenerateDocumentRequest{
			DocumentType: "INVOICE",
			OrderNumber:  "1735689600000",
		})
		require.NoError(t, err)

		doc, err := printing.NewDocument(printing.DocTypeInvoice, f.order.ID, f.order.OrderNumber, "alice")
		require.NoError(t, err)
		require.NoError(t, doc.StartRendering())
		var storedPath string
		for path := range f.storage.stored {
			storedPath = path
		}
		require.NoError(t, doc.Complete(storedPath, resp.PdfURL))
		f.documentRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)

		reader, fileName, err := f.service.GetFile(ctx, doc.ID)
		require.NoError(t, err)
		defer reader.Close()

		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4 fake"), data)
		assert.Equal(t, "invoice-1735689600000.pdf", fileName)
	})

	t.Run("rejects documents without a PDF", func(t *testing.T) {
		f := newDocumentFixture(t)
		doc, err := printing.NewDocument(printing.DocTypeInvoice, f.order.ID, f.order.OrderNumber, "alice")
		require.NoError(t, err)
		f.documentRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)

		_, _, err = f.service.GetFile(ctx, doc.ID)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestDocumentService_GetDocumentTypes(t *testing.T) {
	f := newDocumentFixture(t)

	types := f.service.GetDocumentTypes()
	require.Len(t, types, 2)
	assert.Equal(t, "INVOICE", types[0].Value)
	assert.Equal(t, "Invoice", types[0].DisplayName)
	assert.Equal(t, "DELIVERY_NOTE", types[1].Value)
	assert.Equal(t, "Delivery Note", types[1].DisplayName)
}
