package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/vyaparbooks/voucher_engine_app/internal/apperrors"
	"github.com/vyaparbooks/voucher_engine_app/internal/core/domain"
	portsrepo "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/repositories"
	portssvc "github.com/vyaparbooks/voucher_engine_app/internal/core/ports/services"
	"github.com/vyaparbooks/voucher_engine_app/internal/core/services"
	"github.com/vyaparbooks/voucher_engine_app/internal/dto"
)

// --- Mock FiscalRepository ---
type MockFiscalRepository struct {
	mock.Mock
}

var _ portsrepo.FiscalRepositoryFacade = (*MockFiscalRepository)(nil)

func (m *MockFiscalRepository) GetFiscalConfig(ctx context.Context, companyID string) (*domain.FiscalConfig, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalConfig), args.Error(1)
}

func (m *MockFiscalRepository) SaveFiscalConfig(ctx context.Context, cfg domain.FiscalConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

// --- Test Suite Setup ---
type FiscalServiceTestSuite struct {
	suite.Suite
	mockFiscalRepo *MockFiscalRepository
	mockLedgerRepo *MockLedgerRepository
	service        portssvc.FiscalSvcFacade

	companyID  string
	userID     string
	taxLedgers dto.TaxLedgersRequest
	ledgers    map[string]domain.Ledger
}

func (suite *FiscalServiceTestSuite) SetupTest() {
	suite.mockFiscalRepo = new(MockFiscalRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.service = services.NewFiscalService(suite.mockFiscalRepo, suite.mockLedgerRepo)

	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.taxLedgers = dto.TaxLedgersRequest{
		OutputCGST: uuid.NewString(),
		OutputSGST: uuid.NewString(),
		OutputIGST: uuid.NewString(),
		InputCGST:  uuid.NewString(),
		InputSGST:  uuid.NewString(),
		InputIGST:  uuid.NewString(),
	}
	suite.ledgers = make(map[string]domain.Ledger)
	for _, id := range []string{
		suite.taxLedgers.OutputCGST, suite.taxLedgers.OutputSGST, suite.taxLedgers.OutputIGST,
		suite.taxLedgers.InputCGST, suite.taxLedgers.InputSGST, suite.taxLedgers.InputIGST,
	} {
		suite.ledgers[id] = domain.Ledger{
			LedgerID:    id,
			CompanyID:   suite.companyID,
			Subtype:     domain.SubtypeTax,
			BalanceSide: domain.CreditNatural,
			IsActive:    true,
		}
	}
}

func (suite *FiscalServiceTestSuite) validRequest() dto.SaveFiscalConfigRequest {
	return dto.SaveFiscalConfigRequest{
		FinancialYearStart: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		BooksStart:         time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		HomeState:          "KA",
		CurrencyPrecision:  2,
		TaxLedgers:         suite.taxLedgers,
	}
}

func (suite *FiscalServiceTestSuite) TestSaveFiscalConfig_Success() {
	ctx := context.Background()
	req := suite.validRequest()

	suite.mockLedgerRepo.On("FindLedgersByIDs", ctx, mock.Anything).Return(suite.ledgers, nil).Once()
	suite.mockFiscalRepo.On("SaveFiscalConfig", ctx, mock.AnythingOfType("domain.FiscalConfig")).Return(nil).Once()

	cfg, err := suite.service.SaveFiscalConfig(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(suite.companyID, cfg.CompanyID)
	suite.Equal("KA", cfg.HomeState)
	suite.Equal(suite.taxLedgers.OutputCGST, cfg.TaxLedgers.OutputCGST)
	suite.mockFiscalRepo.AssertExpectations(suite.T())
}

func (suite *FiscalServiceTestSuite) TestSaveFiscalConfig_DefaultsPrecision() {
	ctx := context.Background()
	req := suite.validRequest()
	req.CurrencyPrecision = 0

	suite.mockLedgerRepo.On("FindLedgersByIDs", ctx, mock.Anything).Return(suite.ledgers, nil).Once()
	suite.mockFiscalRepo.On("SaveFiscalConfig", ctx, mock.Anything).Return(nil).Once()

	cfg, err := suite.service.SaveFiscalConfig(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(int32(2), cfg.CurrencyPrecision)
}

func (suite *FiscalServiceTestSuite) TestSaveFiscalConfig_BooksBeforeFYStart() {
	ctx := context.Background()
	req := suite.validRequest()
	req.BooksStart = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := suite.service.SaveFiscalConfig(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrBooksBeforeFYStart)
	suite.mockFiscalRepo.AssertNotCalled(suite.T(), "SaveFiscalConfig", mock.Anything, mock.Anything)
}

func (suite *FiscalServiceTestSuite) TestSaveFiscalConfig_BackdatedFromRequired() {
	ctx := context.Background()
	req := suite.validRequest()
	req.AllowBackdated = true

	_, err := suite.service.SaveFiscalConfig(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrBackdatedFromNeeded)
}

func (suite *FiscalServiceTestSuite) TestSaveFiscalConfig_BackdatedFromOutOfRange() {
	ctx := context.Background()
	req := suite.validRequest()
	req.AllowBackdated = true
	before := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	req.BackdatedFrom = &before

	_, err := suite.service.SaveFiscalConfig(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrBackdatedFromRange)
}

func (suite *FiscalServiceTestSuite) TestSaveFiscalConfig_MissingTaxLedger() {
	ctx := context.Background()
	req := suite.validRequest()

	partial := make(map[string]domain.Ledger, len(suite.ledgers))
	for id, l := range suite.ledgers {
		partial[id] = l
	}
	delete(partial, suite.taxLedgers.InputIGST)

	suite.mockLedgerRepo.On("FindLedgersByIDs", ctx, mock.Anything).Return(partial, nil).Once()

	_, err := suite.service.SaveFiscalConfig(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockFiscalRepo.AssertNotCalled(suite.T(), "SaveFiscalConfig", mock.Anything, mock.Anything)
}

func (suite *FiscalServiceTestSuite) TestSaveFiscalConfig_ForeignTaxLedger() {
	ctx := context.Background()
	req := suite.validRequest()

	foreign := make(map[string]domain.Ledger, len(suite.ledgers))
	for id, l := range suite.ledgers {
		foreign[id] = l
	}
	l := foreign[suite.taxLedgers.OutputIGST]
	l.CompanyID = uuid.NewString()
	foreign[suite.taxLedgers.OutputIGST] = l

	suite.mockLedgerRepo.On("FindLedgersByIDs", ctx, mock.Anything).Return(foreign, nil).Once()

	_, err := suite.service.SaveFiscalConfig(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FiscalServiceTestSuite) TestSaveFiscalConfig_InactiveTaxLedger() {
	ctx := context.Background()
	req := suite.validRequest()

	inactive := make(map[string]domain.Ledger, len(suite.ledgers))
	for id, l := range suite.ledgers {
		inactive[id] = l
	}
	l := inactive[suite.taxLedgers.InputCGST]
	l.IsActive = false
	inactive[suite.taxLedgers.InputCGST] = l

	suite.mockLedgerRepo.On("FindLedgersByIDs", ctx, mock.Anything).Return(inactive, nil).Once()

	_, err := suite.service.SaveFiscalConfig(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FiscalServiceTestSuite) TestIsPostable_DelegatesToConfig() {
	ctx := context.Background()
	cfg := &domain.FiscalConfig{
		CompanyID:          suite.companyID,
		FinancialYearStart: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		BooksStart:         time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	}

	suite.mockFiscalRepo.On("GetFiscalConfig", ctx, suite.companyID).Return(cfg, nil).Twice()

	err := suite.service.IsPostable(ctx, suite.companyID, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))
	suite.NoError(err)

	err = suite.service.IsPostable(ctx, suite.companyID, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	suite.ErrorIs(err, apperrors.ErrBeforeFinancialYear)
}

// --- Run Test Suite ---
func TestFiscalService(t *testing.T) {
	suite.Run(t, new(FiscalServiceTestSuite))
}
