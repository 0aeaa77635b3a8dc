package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vyaparbooks/voucher_engine_app/internal/apperrors"
	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	portsrepo "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/repositories"
	portssvc "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/services"
	"github.com/vyaparbooks/voucher_engine_app/internal/core/services"
	"github.com/vyaparbooks/voucher_engine_app/internal/dto"
)

// --- Mock VoucherRepository ---
type MockVoucherRepository struct {
	mock.Mock
}

var _ portsrepo.VoucherRepositoryFacade = (*MockVoucherRepository)(nil)

func (m *MockVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) ListVouchers(ctx context.Context, companyID string, filter portsrepo.ListVouchersFilter, limit int, nextToken *string) ([]domain.Voucher, *string, error) {
	args := m.Called(ctx, companyID, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Voucher), returnedNextToken, args.Error(2)
}

func (m *MockVoucherRepository) ListEntriesByLedgerID(ctx context.Context, companyID, ledgerID string, limit int, nextToken *string) ([]domain.VoucherEntry, *string, error) {
	args := m.Called(ctx, companyID, ledgerID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.VoucherEntry), returnedNextToken, args.Error(2)
}

func (m *MockVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher, entries []domain.VoucherEntry, lines []domain.InventoryLine, balanceChanges map[string]decimal.Decimal, stockChanges map[domain.StockKey]decimal.Decimal, allocate portsrepo.AllocateFunc) (string, error) {
	args := m.Called(ctx, voucher, entries, lines, balanceChanges, stockChanges, allocate)
	return args.String(0), args.Error(1)
}

func (m *MockVoucherRepository) SaveReversal(ctx context.Context, originalVoucherID string, voucher domain.Voucher, entries []domain.VoucherEntry, lines []domain.InventoryLine, balanceChanges map[string]decimal.Decimal, stockChanges map[domain.StockKey]decimal.Decimal, allocate portsrepo.AllocateFunc) (string, error) {
	args := m.Called(ctx, originalVoucherID, voucher, entries, lines, balanceChanges, stockChanges, allocate)
	return args.String(0), args.Error(1)
}

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

func (m *MockLedgerRepository) FindLedgersByIDs(ctx context.Context, ledgerIDs []string) (map[string]domain.Ledger, error) {
	args := m.Called(ctx, ledgerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Ledger), args.Error(1)
}

func (m *MockLedgerRepository) ListLedgers(ctx context.Context, companyID string, limit int, offset int) ([]domain.Ledger, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ledger), args.Error(1)
}

func (m *MockLedgerRepository) SaveLedger(ctx context.Context, ledger domain.Ledger) error {
	args := m.Called(ctx, ledger)
	return args.Error(0)
}

func (m *MockLedgerRepository) DeactivateLedger(ctx context.Context, ledgerID string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, ledgerID, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindLedgersByIDsForUpdate(ctx context.Context, tx pgx.Tx, ledgerIDs []string) (map[string]domain.Ledger, error) {
	args := m.Called(ctx, tx, ledgerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Ledger), args.Error(1)
}

func (m *MockLedgerRepository) UpdateLedgerBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock InventoryRepository ---
type MockInventoryRepository struct {
	mock.Mock
}

var _ portsrepo.InventoryRepositoryFacade = (*MockInventoryRepository)(nil)

func (m *MockInventoryRepository) FindItemByID(ctx context.Context, itemID string) (*domain.Item, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockInventoryRepository) FindItemsByIDs(ctx context.Context, itemIDs []string) (map[string]domain.Item, error) {
	args := m.Called(ctx, itemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Item), args.Error(1)
}

func (m *MockInventoryRepository) SaveItem(ctx context.Context, item domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) FindWarehouseByID(ctx context.Context, warehouseID string) (*domain.Warehouse, error) {
	args := m.Called(ctx, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Warehouse), args.Error(1)
}

func (m *MockInventoryRepository) FindWarehousesByIDs(ctx context.Context, warehouseIDs []string) (map[string]domain.Warehouse, error) {
	args := m.Called(ctx, warehouseIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Warehouse), args.Error(1)
}

func (m *MockInventoryRepository) SaveWarehouse(ctx context.Context, warehouse domain.Warehouse) error {
	args := m.Called(ctx, warehouse)
	return args.Error(0)
}

func (m *MockInventoryRepository) GetStock(ctx context.Context, itemID, warehouseID string) (decimal.Decimal, error) {
	args := m.Called(ctx, itemID, warehouseID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockInventoryRepository) UpsertStockDeltasInTx(ctx context.Context, tx pgx.Tx, stockChanges map[domain.StockKey]decimal.Decimal, updatedAt time.Time) error {
	args := m.Called(ctx, tx, stockChanges, updatedAt)
	return args.Error(0)
}

// --- Mock NumberingService (as used by VoucherService) ---
type MockNumberingService struct {
	mock.Mock
}

var _ portssvc.NumberingSvcFacade = (*MockNumberingService)(nil)

func (m *MockNumberingService) CreateVoucherType(ctx context.Context, companyID string, req dto.CreateVoucherTypeRequest, userID string) (*domain.VoucherType, error) {
	args := m.Called(ctx, companyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VoucherType), args.Error(1)
}

func (m *MockNumberingService) GetVoucherTypeByID(ctx context.Context, companyID, voucherTypeID string) (*domain.VoucherType, error) {
	args := m.Called(ctx, companyID, voucherTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VoucherType), args.Error(1)
}

func (m *MockNumberingService) ListVoucherTypes(ctx context.Context, companyID string) ([]dto.VoucherTypeResponse, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.VoucherTypeResponse), args.Error(1)
}

func (m *MockNumberingService) CreateSeries(ctx context.Context, companyID, voucherTypeID string, req dto.CreateSeriesRequest, userID string) (*domain.NumberingSeries, error) {
	args := m.Called(ctx, companyID, voucherTypeID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NumberingSeries), args.Error(1)
}

func (m *MockNumberingService) SetDefaultSeries(ctx context.Context, companyID, voucherTypeID, seriesID string) error {
	args := m.Called(ctx, companyID, voucherTypeID, seriesID)
	return args.Error(0)
}

func (m *MockNumberingService) CancelAllocation(ctx context.Context, companyID, seriesID, reason, userID string) (string, error) {
	args := m.Called(ctx, companyID, seriesID, reason, userID)
	return args.String(0), args.Error(1)
}

func (m *MockNumberingService) ResolveSeries(ctx context.Context, voucherTypeID, seriesID string) (*domain.NumberingSeries, error) {
	args := m.Called(ctx, voucherTypeID, seriesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NumberingSeries), args.Error(1)
}

func (m *MockNumberingService) AllocatorFor(series domain.NumberingSeries, manualNumber *string) portsrepo.AllocateFunc {
	args := m.Called(series, manualNumber)
	return args.Get(0).(portsrepo.AllocateFunc)
}

// --- Mock FiscalService ---
type MockFiscalService struct {
	mock.Mock
}

var _ portssvc.FiscalSvcFacade = (*MockFiscalService)(nil)

func (m *MockFiscalService) GetFiscalConfig(ctx context.Context, companyID string) (*domain.FiscalConfig, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalConfig), args.Error(1)
}

func (m *MockFiscalService) SaveFiscalConfig(ctx context.Context, companyID string, req dto.SaveFiscalConfigRequest, userID string) (*domain.FiscalConfig, error) {
	args := m.Called(ctx, companyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalConfig), args.Error(1)
}

func (m *MockFiscalService) IsPostable(ctx context.Context, companyID string, date time.Time) error {
	args := m.Called(ctx, companyID, date)
	return args.Error(0)
}

// --- Test Suite Setup ---
type VoucherServiceTestSuite struct {
	suite.Suite
	mockVoucherRepo   *MockVoucherRepository
	mockLedgerRepo    *MockLedgerRepository
	mockInventoryRepo *MockInventoryRepository
	mockNumberingSvc  *MockNumberingService
	mockFiscalSvc     *MockFiscalService
	service           portssvc.VoucherSvcFacade

	companyID      string
	userID         string
	salesType      domain.VoucherType
	paymentType    domain.VoucherType
	series         domain.NumberingSeries
	cfg            domain.FiscalConfig
	customerLedger domain.Ledger
	salesLedger    domain.Ledger
	cgstLedger     domain.Ledger
	sgstLedger     domain.Ledger
	item           domain.Item
	warehouse      domain.Warehouse
}

func (suite *VoucherServiceTestSuite) SetupTest() {
	suite.mockVoucherRepo = new(MockVoucherRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockInventoryRepo = new(MockInventoryRepository)
	suite.mockNumberingSvc = new(MockNumberingService)
	suite.mockFiscalSvc = new(MockFiscalService)
	suite.service = services.NewVoucherService(
		suite.mockVoucherRepo,
		suite.mockLedgerRepo,
		suite.mockInventoryRepo,
		suite.mockNumberingSvc,
		suite.mockFiscalSvc,
		services.NewTaxService(),
	)

	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.salesType = domain.VoucherType{
		VoucherTypeID: uuid.NewString(),
		CompanyID:     suite.companyID,
		Name:          "Sales Invoice",
		Category:      domain.CategorySales,
		IsActive:      true,
	}
	suite.paymentType = domain.VoucherType{
		VoucherTypeID: uuid.NewString(),
		CompanyID:     suite.companyID,
		Name:          "Payment",
		Category:      domain.CategoryPayment,
		IsActive:      true,
	}
	suite.series = domain.NumberingSeries{
		SeriesID:       uuid.NewString(),
		VoucherTypeID:  suite.salesType.VoucherTypeID,
		Prefix:         "INV-",
		Method:         domain.MethodMultiUserAuto,
		CurrentCounter: 5,
		IsDefault:      true,
	}

	suite.customerLedger = suite.ledger("Acme Traders", domain.SubtypeCustomer, domain.DebitNatural)
	suite.salesLedger = suite.ledger("Sales", domain.SubtypeSales, domain.CreditNatural)
	suite.cgstLedger = suite.ledger("Output CGST", domain.SubtypeTax, domain.CreditNatural)
	suite.sgstLedger = suite.ledger("Output SGST", domain.SubtypeTax, domain.CreditNatural)

	suite.cfg = domain.FiscalConfig{
		CompanyID:          suite.companyID,
		FinancialYearStart: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		BooksStart:         time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		HomeState:          "KA",
		CurrencyPrecision:  2,
		TaxLedgers: domain.TaxLedgers{
			OutputCGST: suite.cgstLedger.LedgerID,
			OutputSGST: suite.sgstLedger.LedgerID,
			OutputIGST: uuid.NewString(),
			InputCGST:  uuid.NewString(),
			InputSGST:  uuid.NewString(),
			InputIGST:  uuid.NewString(),
		},
	}

	suite.item = domain.Item{
		ItemID:         uuid.NewString(),
		CompanyID:      suite.companyID,
		Name:           "Widget",
		Unit:           "PCS",
		GSTRatePercent: decimal.NewFromInt(18),
		IsActive:       true,
	}
	suite.warehouse = domain.Warehouse{
		WarehouseID: uuid.NewString(),
		CompanyID:   suite.companyID,
		Name:        "Main",
		IsActive:    true,
	}
}

func (suite *VoucherServiceTestSuite) ledger(name string, subtype domain.LedgerSubtype, side domain.BalanceSide) domain.Ledger {
	return domain.Ledger{
		LedgerID:    uuid.NewString(),
		CompanyID:   suite.companyID,
		Name:        name,
		Subtype:     subtype,
		BalanceSide: side,
		Balance:     decimal.Zero,
		IsActive:    true,
	}
}

func (suite *VoucherServiceTestSuite) ledgerMap(ledgers ...domain.Ledger) map[string]domain.Ledger {
	m := make(map[string]domain.Ledger, len(ledgers))
	for _, l := range ledgers {
		m[l.LedgerID] = l
	}
	return m
}

// salesRequest is a balanced sales voucher: customer debit 1180 against
// sales credit 1000, with one inventory line of 10 x 100 at 18% GST whose
// implicit tax entries credit 90 CGST and 90 SGST.
func (suite *VoucherServiceTestSuite) salesRequest() dto.CreateVoucherRequest {
	return dto.CreateVoucherRequest{
		VoucherTypeID: suite.salesType.VoucherTypeID,
		Date:          time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Narration:     "Invoice for widgets",
		PartyLedgerID: suite.customerLedger.LedgerID,
		PlaceOfSupply: "KA",
		Entries: []dto.VoucherEntryRequest{
			{LedgerID: suite.customerLedger.LedgerID, EntryType: "DEBIT", Amount: decimal.NewFromInt(1180)},
			{LedgerID: suite.salesLedger.LedgerID, EntryType: "CREDIT", Amount: decimal.NewFromInt(1000)},
		},
		InventoryLines: []dto.InventoryLineRequest{
			{ItemID: suite.item.ItemID, WarehouseID: suite.warehouse.WarehouseID, Quantity: decimal.NewFromInt(10), Rate: decimal.NewFromInt(100)},
		},
	}
}

func (suite *VoucherServiceTestSuite) expectSalesAssembly(ctx context.Context) {
	suite.mockNumberingSvc.On("GetVoucherTypeByID", ctx, suite.companyID, suite.salesType.VoucherTypeID).Return(&suite.salesType, nil).Once()
	suite.mockFiscalSvc.On("GetFiscalConfig", ctx, suite.companyID).Return(&suite.cfg, nil).Once()
	suite.mockInventoryRepo.On("FindItemsByIDs", ctx, []string{suite.item.ItemID}).Return(map[string]domain.Item{suite.item.ItemID: suite.item}, nil).Once()
	suite.mockInventoryRepo.On("FindWarehousesByIDs", ctx, []string{suite.warehouse.WarehouseID}).Return(map[string]domain.Warehouse{suite.warehouse.WarehouseID: suite.warehouse}, nil).Once()
	suite.mockLedgerRepo.On("FindLedgersByIDs", ctx, mock.Anything).Return(suite.ledgerMap(suite.customerLedger, suite.salesLedger, suite.cgstLedger, suite.sgstLedger), nil).Once()
}

func conflictErr() error {
	return fmt.Errorf("%w: counter moved", apperrors.ErrConflict)
}

// --- Posting ---

func (suite *VoucherServiceTestSuite) TestPostVoucher_Success() {
	ctx := context.Background()
	req := suite.salesRequest()

	suite.expectSalesAssembly(ctx)
	suite.mockNumberingSvc.On("ResolveSeries", ctx, suite.salesType.VoucherTypeID, "").Return(&suite.series, nil).Once()
	suite.mockNumberingSvc.On("AllocatorFor", suite.series, (*string)(nil)).Return(portsrepo.AllocateFunc(func(ctx context.Context, tx pgx.Tx) (string, error) {
		return "INV-6", nil
	})).Once()

	var savedBalances map[string]decimal.Decimal
	var savedStock map[domain.StockKey]decimal.Decimal
	var savedEntries []domain.VoucherEntry
	suite.mockVoucherRepo.On("SaveVoucher", ctx, mock.AnythingOfType("domain.Voucher"), mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedEntries = args.Get(2).([]domain.VoucherEntry)
			savedBalances = args.Get(4).(map[string]decimal.Decimal)
			savedStock = args.Get(5).(map[domain.StockKey]decimal.Decimal)
		}).
		Return("INV-6", nil).Once()

	posted, err := suite.service.PostVoucher(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("INV-6", posted.VoucherNumber)
	suite.Equal(domain.StatusPosted, posted.Status)
	suite.Equal(suite.series.SeriesID, posted.SeriesID)
	suite.True(posted.TotalAmount.Equal(decimal.NewFromInt(1180)))

	// Two user entries plus the implicit CGST and SGST credits.
	suite.Require().Len(savedEntries, 4)

	suite.True(savedBalances[suite.customerLedger.LedgerID].Equal(decimal.NewFromInt(1180)))
	suite.True(savedBalances[suite.salesLedger.LedgerID].Equal(decimal.NewFromInt(1000)))
	suite.True(savedBalances[suite.cgstLedger.LedgerID].Equal(decimal.NewFromInt(90)))
	suite.True(savedBalances[suite.sgstLedger.LedgerID].Equal(decimal.NewFromInt(90)))

	// A sale moves stock out.
	key := domain.StockKey{ItemID: suite.item.ItemID, WarehouseID: suite.warehouse.WarehouseID}
	suite.True(savedStock[key].Equal(decimal.NewFromInt(-10)))

	suite.mockVoucherRepo.AssertExpectations(suite.T())
	suite.mockNumberingSvc.AssertExpectations(suite.T())
}

// A debit note is a purchase return: goods leave the warehouse and the
// input-tax credit claimed on the original purchase is given back, so the
// implicit tax entries land on the credit side of the input tax ledgers.
func (suite *VoucherServiceTestSuite) TestPostVoucher_DebitNote_ReversesStockAndInputTax() {
	ctx := context.Background()

	debitNoteType := domain.VoucherType{
		VoucherTypeID: uuid.NewString(),
		CompanyID:     suite.companyID,
		Name:          "Debit Note",
		Category:      domain.CategoryDebitNote,
		IsActive:      true,
	}
	dnSeries := domain.NumberingSeries{
		SeriesID:       uuid.NewString(),
		VoucherTypeID:  debitNoteType.VoucherTypeID,
		Prefix:         "DN-",
		Method:         domain.MethodMultiUserAuto,
		CurrentCounter: 2,
		IsDefault:      true,
	}
	supplierLedger := suite.ledger("Bharat Supplies", domain.SubtypeSupplier, domain.CreditNatural)
	purchaseReturnsLedger := suite.ledger("Purchase Returns", domain.SubtypePurchase, domain.CreditNatural)
	inputCGSTLedger := suite.ledger("Input CGST", domain.SubtypeTax, domain.DebitNatural)
	inputSGSTLedger := suite.ledger("Input SGST", domain.SubtypeTax, domain.DebitNatural)

	cfg := suite.cfg
	cfg.TaxLedgers.InputCGST = inputCGSTLedger.LedgerID
	cfg.TaxLedgers.InputSGST = inputSGSTLedger.LedgerID

	req := dto.CreateVoucherRequest{
		VoucherTypeID: debitNoteType.VoucherTypeID,
		Date:          time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		Narration:     "Return of damaged widgets",
		PartyLedgerID: supplierLedger.LedgerID,
		PlaceOfSupply: "KA",
		Entries: []dto.VoucherEntryRequest{
			{LedgerID: supplierLedger.LedgerID, EntryType: "DEBIT", Amount: decimal.NewFromInt(1180)},
			{LedgerID: purchaseReturnsLedger.LedgerID, EntryType: "CREDIT", Amount: decimal.NewFromInt(1000)},
		},
		InventoryLines: []dto.InventoryLineRequest{
			{ItemID: suite.item.ItemID, WarehouseID: suite.warehouse.WarehouseID, Quantity: decimal.NewFromInt(10), Rate: decimal.NewFromInt(100)},
		},
	}

	suite.mockNumberingSvc.On("GetVoucherTypeByID", ctx, suite.companyID, debitNoteType.VoucherTypeID).Return(&debitNoteType, nil).Once()
	suite.mockFiscalSvc.On("GetFiscalConfig", ctx, suite.companyID).Return(&cfg, nil).Once()
	suite.mockInventoryRepo.On("FindItemsByIDs", ctx, []string{suite.item.ItemID}).Return(map[string]domain.Item{suite.item.ItemID: suite.item}, nil).Once()
	suite.mockInventoryRepo.On("FindWarehousesByIDs", ctx, []string{suite.warehouse.WarehouseID}).Return(map[string]domain.Warehouse{suite.warehouse.WarehouseID: suite.warehouse}, nil).Once()
	suite.mockLedgerRepo.On("FindLedgersByIDs", ctx, mock.Anything).Return(suite.ledgerMap(supplierLedger, purchaseReturnsLedger, inputCGSTLedger, inputSGSTLedger), nil).Once()
	suite.mockNumberingSvc.On("ResolveSeries", ctx, debitNoteType.VoucherTypeID, "").Return(&dnSeries, nil).Once()
	suite.mockNumberingSvc.On("AllocatorFor", dnSeries, (*string)(nil)).Return(portsrepo.AllocateFunc(func(ctx context.Context, tx pgx.Tx) (string, error) {
		return "DN-3", nil
	})).Once()

	var savedEntries []domain.VoucherEntry
	var savedBalances map[string]decimal.Decimal
	var savedStock map[domain.StockKey]decimal.Decimal
	suite.mockVoucherRepo.On("SaveVoucher", ctx, mock.AnythingOfType("domain.Voucher"), mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedEntries = args.Get(2).([]domain.VoucherEntry)
			savedBalances = args.Get(4).(map[string]decimal.Decimal)
			savedStock = args.Get(5).(map[domain.StockKey]decimal.Decimal)
		}).
		Return("DN-3", nil).Once()

	posted, err := suite.service.PostVoucher(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("DN-3", posted.VoucherNumber)
	suite.Equal(domain.StatusPosted, posted.Status)

	// The implicit entries credit the input tax ledgers, handing the
	// claimed credit back.
	suite.Require().Len(savedEntries, 4)
	sides := map[string]domain.EntryType{}
	for _, e := range savedEntries {
		sides[e.LedgerID] = e.EntryType
	}
	suite.Equal(domain.Credit, sides[inputCGSTLedger.LedgerID])
	suite.Equal(domain.Credit, sides[inputSGSTLedger.LedgerID])

	// Supplier payable shrinks, the input tax credit asset shrinks.
	suite.True(savedBalances[supplierLedger.LedgerID].Equal(decimal.NewFromInt(-1180)))
	suite.True(savedBalances[purchaseReturnsLedger.LedgerID].Equal(decimal.NewFromInt(1000)))
	suite.True(savedBalances[inputCGSTLedger.LedgerID].Equal(decimal.NewFromInt(-90)))
	suite.True(savedBalances[inputSGSTLedger.LedgerID].Equal(decimal.NewFromInt(-90)))

	// Returned goods leave the warehouse.
	key := domain.StockKey{ItemID: suite.item.ItemID, WarehouseID: suite.warehouse.WarehouseID}
	suite.True(savedStock[key].Equal(decimal.NewFromInt(-10)))

	suite.mockVoucherRepo.AssertExpectations(suite.T())
	suite.mockNumberingSvc.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestPostVoucher_Unbalanced() {
	ctx := context.Background()
	req := suite.salesRequest()
	req.Entries[1].Amount = decimal.NewFromInt(999) // Debits 1180 vs credits 999+180

	suite.mockNumberingSvc.On("GetVoucherTypeByID", ctx, suite.companyID, suite.salesType.VoucherTypeID).Return(&suite.salesType, nil).Once()
	suite.mockFiscalSvc.On("GetFiscalConfig", ctx, suite.companyID).Return(&suite.cfg, nil).Once()
	suite.mockInventoryRepo.On("FindItemsByIDs", ctx, mock.Anything).Return(map[string]domain.Item{suite.item.ItemID: suite.item}, nil).Once()
	suite.mockInventoryRepo.On("FindWarehousesByIDs", ctx, mock.Anything).Return(map[string]domain.Warehouse{suite.warehouse.WarehouseID: suite.warehouse}, nil).Once()

	_, err := suite.service.PostVoucher(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	ve, ok := apperrors.AsVoucherError(err)
	suite.Require().True(ok)
	suite.Equal(apperrors.KindUnbalanced, ve.Kind)
	suite.Equal("1180", ve.Details["debitTotal"])
	suite.Equal("1179", ve.Details["creditTotal"])
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "SaveVoucher", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Entry amounts carrying more digits than the currency precision are rounded
// before the balance check, so the invariant holds over the exact amounts
// that end up stored rather than over sub-paisa dust the storage would drop.
func (suite *VoucherServiceTestSuite) TestPostVoucher_RoundsAmountsToCurrencyPrecision() {
	ctx := context.Background()
	req := suite.salesRequest()
	req.Entries[0].Amount = decimal.RequireFromString("1180.004")
	req.Entries[1].Amount = decimal.RequireFromString("1000.001")

	suite.expectSalesAssembly(ctx)
	suite.mockNumberingSvc.On("ResolveSeries", ctx, suite.salesType.VoucherTypeID, "").Return(&suite.series, nil).Once()
	suite.mockNumberingSvc.On("AllocatorFor", suite.series, (*string)(nil)).Return(portsrepo.AllocateFunc(func(ctx context.Context, tx pgx.Tx) (string, error) {
		return "INV-6", nil
	})).Once()

	var savedEntries []domain.VoucherEntry
	var savedBalances map[string]decimal.Decimal
	suite.mockVoucherRepo.On("SaveVoucher", ctx, mock.AnythingOfType("domain.Voucher"), mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedEntries = args.Get(2).([]domain.VoucherEntry)
			savedBalances = args.Get(4).(map[string]decimal.Decimal)
		}).
		Return("INV-6", nil).Once()

	posted, err := suite.service.PostVoucher(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(posted.TotalAmount.Equal(decimal.NewFromInt(1180)))

	amounts := map[string]decimal.Decimal{}
	for _, e := range savedEntries {
		amounts[e.LedgerID] = e.Amount
	}
	suite.True(amounts[suite.customerLedger.LedgerID].Equal(decimal.NewFromInt(1180)))
	suite.True(amounts[suite.salesLedger.LedgerID].Equal(decimal.NewFromInt(1000)))
	suite.True(savedBalances[suite.customerLedger.LedgerID].Equal(decimal.NewFromInt(1180)))
	suite.True(savedBalances[suite.salesLedger.LedgerID].Equal(decimal.NewFromInt(1000)))
}

func (suite *VoucherServiceTestSuite) TestPostVoucher_DateBeforeFinancialYear() {
	ctx := context.Background()
	req := suite.salesRequest()
	req.Date = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	suite.mockNumberingSvc.On("GetVoucherTypeByID", ctx, suite.companyID, suite.salesType.VoucherTypeID).Return(&suite.salesType, nil).Once()
	suite.mockFiscalSvc.On("GetFiscalConfig", ctx, suite.companyID).Return(&suite.cfg, nil).Once()

	_, err := suite.service.PostVoucher(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	ve, ok := apperrors.AsVoucherError(err)
	suite.Require().True(ok)
	suite.Equal(apperrors.KindInvalidDate, ve.Kind)
	suite.ErrorIs(err, apperrors.ErrPolicy)
}

func (suite *VoucherServiceTestSuite) TestPostVoucher_InactiveLedger() {
	ctx := context.Background()
	req := suite.salesRequest()

	inactiveSales := suite.salesLedger
	inactiveSales.IsActive = false

	suite.mockNumberingSvc.On("GetVoucherTypeByID", ctx, suite.companyID, suite.salesType.VoucherTypeID).Return(&suite.salesType, nil).Once()
	suite.mockFiscalSvc.On("GetFiscalConfig", ctx, suite.companyID).Return(&suite.cfg, nil).Once()
	suite.mockInventoryRepo.On("FindItemsByIDs", ctx, mock.Anything).Return(map[string]domain.Item{suite.item.ItemID: suite.item}, nil).Once()
	suite.mockInventoryRepo.On("FindWarehousesByIDs", ctx, mock.Anything).Return(map[string]domain.Warehouse{suite.warehouse.WarehouseID: suite.warehouse}, nil).Once()
	suite.mockLedgerRepo.On("FindLedgersByIDs", ctx, mock.Anything).Return(suite.ledgerMap(suite.customerLedger, inactiveSales, suite.cgstLedger, suite.sgstLedger), nil).Once()

	_, err := suite.service.PostVoucher(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	ve, ok := apperrors.AsVoucherError(err)
	suite.Require().True(ok)
	suite.Equal(apperrors.KindIntegrity, ve.Kind)
	suite.ErrorIs(err, apperrors.ErrIntegrity)
}

func (suite *VoucherServiceTestSuite) TestPostVoucher_BillReferenceExceedsEntry() {
	ctx := context.Background()
	req := dto.CreateVoucherRequest{
		VoucherTypeID: suite.paymentType.VoucherTypeID,
		Date:          time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Entries: []dto.VoucherEntryRequest{
			{
				LedgerID: suite.customerLedger.LedgerID, EntryType: "CREDIT", Amount: decimal.NewFromInt(100),
				BillReferences: []dto.BillReferenceRequest{
					{Reference: "INV-1", Amount: decimal.NewFromInt(80), ReferenceType: "AGAINST"},
					{Reference: "INV-2", Amount: decimal.NewFromInt(30), ReferenceType: "AGAINST"},
				},
			},
			{LedgerID: suite.salesLedger.LedgerID, EntryType: "DEBIT", Amount: decimal.NewFromInt(100)},
		},
	}

	suite.mockNumberingSvc.On("GetVoucherTypeByID", ctx, suite.companyID, suite.paymentType.VoucherTypeID).Return(&suite.paymentType, nil).Once()
	suite.mockFiscalSvc.On("GetFiscalConfig", ctx, suite.companyID).Return(&suite.cfg, nil).Once()

	_, err := suite.service.PostVoucher(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	ve, ok := apperrors.AsVoucherError(err)
	suite.Require().True(ok)
	suite.Equal(apperrors.KindInvalidBillReference, ve.Kind)
}

func (suite *VoucherServiceTestSuite) TestPostVoucher_InventoryOnNonInventoryCategory() {
	ctx := context.Background()
	req := suite.salesRequest()
	req.VoucherTypeID = suite.paymentType.VoucherTypeID

	suite.mockNumberingSvc.On("GetVoucherTypeByID", ctx, suite.companyID, suite.paymentType.VoucherTypeID).Return(&suite.paymentType, nil).Once()
	suite.mockFiscalSvc.On("GetFiscalConfig", ctx, suite.companyID).Return(&suite.cfg, nil).Once()

	_, err := suite.service.PostVoucher(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *VoucherServiceTestSuite) TestPostVoucher_InactiveItem() {
	ctx := context.Background()
	req := suite.salesRequest()

	inactiveItem := suite.item
	inactiveItem.IsActive = false

	suite.mockNumberingSvc.On("GetVoucherTypeByID", ctx, suite.companyID, suite.salesType.VoucherTypeID).Return(&suite.salesType, nil).Once()
	suite.mockFiscalSvc.On("GetFiscalConfig", ctx, suite.companyID).Return(&suite.cfg, nil).Once()
	suite.mockInventoryRepo.On("FindItemsByIDs", ctx, mock.Anything).Return(map[string]domain.Item{suite.item.ItemID: inactiveItem}, nil).Once()
	suite.mockInventoryRepo.On("FindWarehousesByIDs", ctx, mock.Anything).Return(map[string]domain.Warehouse{suite.warehouse.WarehouseID: suite.warehouse}, nil).Once()

	_, err := suite.service.PostVoucher(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	ve, ok := apperrors.AsVoucherError(err)
	suite.Require().True(ok)
	suite.Equal(apperrors.KindInvalidInventoryLine, ve.Kind)
}

func (suite *VoucherServiceTestSuite) TestPostVoucher_InactiveVoucherType() {
	ctx := context.Background()
	req := suite.salesRequest()

	inactive := suite.salesType
	inactive.IsActive = false
	suite.mockNumberingSvc.On("GetVoucherTypeByID", ctx, suite.companyID, suite.salesType.VoucherTypeID).Return(&inactive, nil).Once()

	_, err := suite.service.PostVoucher(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrIntegrity)
}

func (suite *VoucherServiceTestSuite) TestPostVoucher_RetriesLostRaceThenSucceeds() {
	ctx := context.Background()
	req := suite.salesRequest()

	suite.expectSalesAssembly(ctx)
	suite.mockNumberingSvc.On("ResolveSeries", ctx, suite.salesType.VoucherTypeID, "").Return(&suite.series, nil).Once()
	suite.mockNumberingSvc.On("AllocatorFor", suite.series, (*string)(nil)).Return(portsrepo.AllocateFunc(func(ctx context.Context, tx pgx.Tx) (string, error) {
		return "INV-7", nil
	})).Once()

	suite.mockVoucherRepo.On("SaveVoucher", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", conflictErr()).Twice()
	suite.mockVoucherRepo.On("SaveVoucher", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("INV-7", nil).Once()

	posted, err := suite.service.PostVoucher(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("INV-7", posted.VoucherNumber)
	suite.mockVoucherRepo.AssertNumberOfCalls(suite.T(), "SaveVoucher", 3)
}

func (suite *VoucherServiceTestSuite) TestPostVoucher_AllocationConflictAfterRetries() {
	ctx := context.Background()
	req := suite.salesRequest()

	suite.expectSalesAssembly(ctx)
	suite.mockNumberingSvc.On("ResolveSeries", ctx, suite.salesType.VoucherTypeID, "").Return(&suite.series, nil).Once()
	suite.mockNumberingSvc.On("AllocatorFor", suite.series, (*string)(nil)).Return(portsrepo.AllocateFunc(func(ctx context.Context, tx pgx.Tx) (string, error) {
		return "", conflictErr()
	})).Once()

	suite.mockVoucherRepo.On("SaveVoucher", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", conflictErr()).Times(3)

	_, err := suite.service.PostVoucher(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	ve, ok := apperrors.AsVoucherError(err)
	suite.Require().True(ok)
	suite.Equal(apperrors.KindAllocationConflict, ve.Kind)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockVoucherRepo.AssertNumberOfCalls(suite.T(), "SaveVoucher", 3)
}

func (suite *VoucherServiceTestSuite) TestPostVoucher_StorageErrorNotRetried() {
	ctx := context.Background()
	req := suite.salesRequest()

	suite.expectSalesAssembly(ctx)
	suite.mockNumberingSvc.On("ResolveSeries", ctx, suite.salesType.VoucherTypeID, "").Return(&suite.series, nil).Once()
	suite.mockNumberingSvc.On("AllocatorFor", suite.series, (*string)(nil)).Return(portsrepo.AllocateFunc(func(ctx context.Context, tx pgx.Tx) (string, error) {
		return "INV-6", nil
	})).Once()

	suite.mockVoucherRepo.On("SaveVoucher", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", fmt.Errorf("connection reset")).Once()

	_, err := suite.service.PostVoucher(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	ve, ok := apperrors.AsVoucherError(err)
	suite.Require().True(ok)
	suite.Equal(apperrors.KindStorage, ve.Kind)
	suite.mockVoucherRepo.AssertNumberOfCalls(suite.T(), "SaveVoucher", 1)
}

// --- Drafts ---

func (suite *VoucherServiceTestSuite) TestCreateDraft_DoesNotCommit() {
	ctx := context.Background()
	req := suite.salesRequest()

	suite.expectSalesAssembly(ctx)

	draft, err := suite.service.CreateDraft(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusDraft, draft.Status)
	suite.Empty(draft.VoucherNumber)
	suite.Require().Len(draft.Entries, 4)
	suite.Require().Len(draft.InventoryLines, 1)
	suite.True(draft.InventoryLines[0].TaxAmount.Equal(decimal.NewFromInt(180)))
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "SaveVoucher", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockNumberingSvc.AssertNotCalled(suite.T(), "AllocatorFor", mock.Anything, mock.Anything)
}

// --- Cancellation ---

func (suite *VoucherServiceTestSuite) postedSalesVoucher() *domain.Voucher {
	voucherID := uuid.NewString()
	return &domain.Voucher{
		VoucherID:     voucherID,
		CompanyID:     suite.companyID,
		VoucherTypeID: suite.salesType.VoucherTypeID,
		Category:      domain.CategorySales,
		SeriesID:      suite.series.SeriesID,
		VoucherNumber: "INV-6",
		VoucherDate:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Status:        domain.StatusPosted,
		TotalAmount:   decimal.NewFromInt(1180),
		Entries: []domain.VoucherEntry{
			{EntryID: uuid.NewString(), VoucherID: voucherID, LedgerID: suite.customerLedger.LedgerID, EntryType: domain.Debit, Amount: decimal.NewFromInt(1180)},
			{EntryID: uuid.NewString(), VoucherID: voucherID, LedgerID: suite.salesLedger.LedgerID, EntryType: domain.Credit, Amount: decimal.NewFromInt(1000)},
			{EntryID: uuid.NewString(), VoucherID: voucherID, LedgerID: suite.cgstLedger.LedgerID, EntryType: domain.Credit, Amount: decimal.NewFromInt(90)},
			{EntryID: uuid.NewString(), VoucherID: voucherID, LedgerID: suite.sgstLedger.LedgerID, EntryType: domain.Credit, Amount: decimal.NewFromInt(90)},
		},
		InventoryLines: []domain.InventoryLine{
			{LineID: uuid.NewString(), VoucherID: voucherID, ItemID: suite.item.ItemID, WarehouseID: suite.warehouse.WarehouseID, Quantity: decimal.NewFromInt(10), Rate: decimal.NewFromInt(100)},
		},
	}
}

func (suite *VoucherServiceTestSuite) TestCancelVoucher_Success() {
	ctx := context.Background()
	original := suite.postedSalesVoucher()

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, original.VoucherID).Return(original, nil).Once()
	suite.mockFiscalSvc.On("IsPostable", ctx, suite.companyID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockLedgerRepo.On("FindLedgersByIDs", ctx, mock.Anything).Return(suite.ledgerMap(suite.customerLedger, suite.salesLedger, suite.cgstLedger, suite.sgstLedger), nil).Once()
	suite.mockNumberingSvc.On("ResolveSeries", ctx, suite.salesType.VoucherTypeID, suite.series.SeriesID).Return(&suite.series, nil).Once()
	suite.mockNumberingSvc.On("AllocatorFor", suite.series, (*string)(nil)).Return(portsrepo.AllocateFunc(func(ctx context.Context, tx pgx.Tx) (string, error) {
		return "INV-7", nil
	})).Once()

	var savedVoucher domain.Voucher
	var savedEntries []domain.VoucherEntry
	var savedBalances map[string]decimal.Decimal
	var savedStock map[domain.StockKey]decimal.Decimal
	suite.mockVoucherRepo.On("SaveReversal", ctx, original.VoucherID, mock.AnythingOfType("domain.Voucher"), mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedVoucher = args.Get(2).(domain.Voucher)
			savedEntries = args.Get(3).([]domain.VoucherEntry)
			savedBalances = args.Get(5).(map[string]decimal.Decimal)
			savedStock = args.Get(6).(map[domain.StockKey]decimal.Decimal)
		}).
		Return("INV-7", nil).Once()

	reversal, err := suite.service.CancelVoucher(ctx, suite.companyID, original.VoucherID, dto.CancelVoucherRequest{}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("INV-7", reversal.VoucherNumber)
	suite.Require().NotNil(savedVoucher.OriginalVoucherID)
	suite.Equal(original.VoucherID, *savedVoucher.OriginalVoucherID)

	// Every entry side flipped: customer credit, sales and taxes debit.
	suite.Require().Len(savedEntries, 4)
	sides := map[string]domain.EntryType{}
	for _, e := range savedEntries {
		sides[e.LedgerID] = e.EntryType
	}
	suite.Equal(domain.Credit, sides[suite.customerLedger.LedgerID])
	suite.Equal(domain.Debit, sides[suite.salesLedger.LedgerID])
	suite.Equal(domain.Debit, sides[suite.cgstLedger.LedgerID])
	suite.Equal(domain.Debit, sides[suite.sgstLedger.LedgerID])

	// Balance deltas are the exact negation of the original post.
	suite.True(savedBalances[suite.customerLedger.LedgerID].Equal(decimal.NewFromInt(-1180)))
	suite.True(savedBalances[suite.salesLedger.LedgerID].Equal(decimal.NewFromInt(-1000)))
	suite.True(savedBalances[suite.cgstLedger.LedgerID].Equal(decimal.NewFromInt(-90)))
	suite.True(savedBalances[suite.sgstLedger.LedgerID].Equal(decimal.NewFromInt(-90)))

	// Stock returns to the warehouse.
	key := domain.StockKey{ItemID: suite.item.ItemID, WarehouseID: suite.warehouse.WarehouseID}
	suite.True(savedStock[key].Equal(decimal.NewFromInt(10)))

	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestCancelVoucher_ManualSeriesDerivesReversalNumber() {
	ctx := context.Background()
	original := suite.postedSalesVoucher()
	manualSeries := suite.series
	manualSeries.Method = domain.MethodManual

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, original.VoucherID).Return(original, nil).Once()
	suite.mockFiscalSvc.On("IsPostable", ctx, suite.companyID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockLedgerRepo.On("FindLedgersByIDs", ctx, mock.Anything).Return(suite.ledgerMap(suite.customerLedger, suite.salesLedger, suite.cgstLedger, suite.sgstLedger), nil).Once()
	suite.mockNumberingSvc.On("ResolveSeries", ctx, suite.salesType.VoucherTypeID, suite.series.SeriesID).Return(&manualSeries, nil).Once()
	suite.mockNumberingSvc.On("AllocatorFor", manualSeries, mock.MatchedBy(func(n *string) bool {
		return n != nil && *n == "INV-6-REV"
	})).Return(portsrepo.AllocateFunc(func(ctx context.Context, tx pgx.Tx) (string, error) {
		return "INV-6-REV", nil
	})).Once()
	suite.mockVoucherRepo.On("SaveReversal", ctx, original.VoucherID, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("INV-6-REV", nil).Once()

	reversal, err := suite.service.CancelVoucher(ctx, suite.companyID, original.VoucherID, dto.CancelVoucherRequest{}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("INV-6-REV", reversal.VoucherNumber)
	suite.mockNumberingSvc.AssertExpectations(suite.T())
}

// Two cancels can both read the original as POSTED before either commits.
// The loser's guarded flip matches zero rows, so its whole transaction rolls
// back and the caller gets a policy error instead of a second reversal.
func (suite *VoucherServiceTestSuite) TestCancelVoucher_ConcurrentCancelLosesGuardedFlip() {
	ctx := context.Background()
	original := suite.postedSalesVoucher()

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, original.VoucherID).Return(original, nil).Once()
	suite.mockFiscalSvc.On("IsPostable", ctx, suite.companyID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockLedgerRepo.On("FindLedgersByIDs", ctx, mock.Anything).Return(suite.ledgerMap(suite.customerLedger, suite.salesLedger, suite.cgstLedger, suite.sgstLedger), nil).Once()
	suite.mockNumberingSvc.On("ResolveSeries", ctx, suite.salesType.VoucherTypeID, suite.series.SeriesID).Return(&suite.series, nil).Once()
	suite.mockNumberingSvc.On("AllocatorFor", suite.series, (*string)(nil)).Return(portsrepo.AllocateFunc(func(ctx context.Context, tx pgx.Tx) (string, error) {
		return "INV-8", nil
	})).Once()

	suite.mockVoucherRepo.On("SaveReversal", ctx, original.VoucherID, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", fmt.Errorf("%w: voucher %s is no longer POSTED or was already reversed", apperrors.ErrPolicy, original.VoucherID)).Once()

	_, err := suite.service.CancelVoucher(ctx, suite.companyID, original.VoucherID, dto.CancelVoucherRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPolicy)
	suite.mockVoucherRepo.AssertNumberOfCalls(suite.T(), "SaveReversal", 1)
}

func (suite *VoucherServiceTestSuite) TestCancelVoucher_AlreadyReversed() {
	ctx := context.Background()
	original := suite.postedSalesVoucher()
	reversingID := uuid.NewString()
	original.ReversingVoucherID = &reversingID

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, original.VoucherID).Return(original, nil).Once()

	_, err := suite.service.CancelVoucher(ctx, suite.companyID, original.VoucherID, dto.CancelVoucherRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPolicy)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestCancelVoucher_NotPosted() {
	ctx := context.Background()
	original := suite.postedSalesVoucher()
	original.Status = domain.StatusCancelled

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, original.VoucherID).Return(original, nil).Once()

	_, err := suite.service.CancelVoucher(ctx, suite.companyID, original.VoucherID, dto.CancelVoucherRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPolicy)
}

func (suite *VoucherServiceTestSuite) TestCancelVoucher_DateOutsideWindow() {
	ctx := context.Background()
	original := suite.postedSalesVoucher()
	badDate := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, original.VoucherID).Return(original, nil).Once()
	suite.mockFiscalSvc.On("IsPostable", ctx, suite.companyID, badDate).Return(apperrors.ErrBeforeFinancialYear).Once()

	_, err := suite.service.CancelVoucher(ctx, suite.companyID, original.VoucherID, dto.CancelVoucherRequest{Date: &badDate}, suite.userID)

	suite.Require().Error(err)
	ve, ok := apperrors.AsVoucherError(err)
	suite.Require().True(ok)
	suite.Equal(apperrors.KindInvalidDate, ve.Kind)
}

// --- Reads ---

func (suite *VoucherServiceTestSuite) TestGetVoucherByID_WrongCompany() {
	ctx := context.Background()
	original := suite.postedSalesVoucher()

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, original.VoucherID).Return(original, nil).Once()

	_, err := suite.service.GetVoucherByID(ctx, uuid.NewString(), original.VoucherID)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *VoucherServiceTestSuite) TestListVouchers_ClampsLimit() {
	ctx := context.Background()

	suite.mockVoucherRepo.On("ListVouchers", ctx, suite.companyID, mock.Anything, 100, (*string)(nil)).Return([]domain.Voucher{}, nil, nil).Once()

	_, err := suite.service.ListVouchers(ctx, suite.companyID, dto.ListVouchersParams{Limit: 5000})

	suite.Require().NoError(err)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestListVouchers_DefaultLimit() {
	ctx := context.Background()

	suite.mockVoucherRepo.On("ListVouchers", ctx, suite.companyID, mock.Anything, 20, (*string)(nil)).Return([]domain.Voucher{}, nil, nil).Once()

	_, err := suite.service.ListVouchers(ctx, suite.companyID, dto.ListVouchersParams{})

	suite.Require().NoError(err)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestListEntriesByLedger_ScopesLedger() {
	ctx := context.Background()
	otherCompanyLedger := suite.customerLedger
	otherCompanyLedger.CompanyID = uuid.NewString()

	suite.mockLedgerRepo.On("FindLedgerByID", ctx, suite.customerLedger.LedgerID).Return(&otherCompanyLedger, nil).Once()

	_, err := suite.service.ListEntriesByLedger(ctx, suite.companyID, suite.customerLedger.LedgerID, dto.ListEntriesParams{})

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "ListEntriesByLedgerID", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestVoucherService(t *testing.T) {
	suite.Run(t, new(VoucherServiceTestSuite))
}
