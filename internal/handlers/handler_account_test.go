package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/agency_books/internal/apperrors"
	"github.com/SscSPs/agency_books/internal/core/domain"
	portssvc "github.com/SscSPs/agency_books/internal/core/ports/services"
	"github.com/SscSPs/agency_books/internal/dto"
	"github.com/SscSPs/agency_books/internal/handlers"
	"github.com/SscSPs/agency_books/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) GetControlAccounts(ctx context.Context) (*domain.ControlAccounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ControlAccounts), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actor string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID string, actor string) error {
	return m.Called(ctx, accountID, actor).Error(0)
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID string) error {
	return m.Called(ctx, accountID).Error(0)
}
func (m *MockAccountService) SetControlAccounts(ctx context.Context, req dto.ControlAccountsRequest, actor string) (*domain.ControlAccounts, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ControlAccounts), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockAccountService *MockAccountService
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockAccountService = new(MockAccountService)

	v1 := suite.router.Group("/api/v1", middleware.ActorMiddleware())
	handlers.RegisterAccountRoutes(v1, suite.mockAccountService)
}

func (suite *AccountHandlerTestSuite) do(method, url string, body any, actor string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set(middleware.ActorHeader, actor)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Title: "Cash in Hand", AccountType: domain.Cash}
	created := &domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "AC-0001",
		Title:       req.Title,
		AccountType: domain.Cash,
		IsActive:    true,
		AuditFields: domain.NewAuditFields("asma", time.Now()),
	}
	suite.mockAccountService.On("CreateAccount", mock.Anything, req, "asma").Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", req, "asma")

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal("AC-0001", res.Code)
	suite.Equal("asma", res.CreatedBy)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_RejectsUnknownType() {
	w := suite.do(http.MethodPost, "/api/v1/accounts", gin.H{"title": "Stock", "accountType": "INVENTORY"}, "")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_DefaultActor() {
	suite.mockAccountService.On("CreateAccount", mock.Anything, mock.Anything, middleware.DefaultActor).
		Return(nil, fmt.Errorf("%w: account title %q already exists", apperrors.ErrDuplicate, "Cash")).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{Title: "Cash", AccountType: domain.Cash}, "")

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), "already exists")
}

func (suite *AccountHandlerTestSuite) TestErrorStatusMapping() {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: account x", apperrors.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: account is used by 3 entries", apperrors.ErrReferentialIntegrity), http.StatusConflict},
		{fmt.Errorf("%w: control account", apperrors.ErrConflict), http.StatusConflict},
		{fmt.Errorf("%w: bad", apperrors.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		id := uuid.NewString()
		suite.mockAccountService.On("DeleteAccount", mock.Anything, id).Return(tc.err).Once()

		w := suite.do(http.MethodDelete, "/api/v1/accounts/"+id, nil, "")
		suite.Equal(tc.status, w.Code, tc.err.Error())
	}

	// Internal errors do not leak their message.
	suite.mockAccountService.On("GetControlAccounts", mock.Anything).Return(nil, fmt.Errorf("disk on fire")).Once()
	w := suite.do(http.MethodGet, "/api/v1/settings/controls", nil, "")
	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "disk")
}

func (suite *AccountHandlerTestSuite) TestListAccounts_PassesFilters() {
	accounts := []domain.Account{
		{AccountID: "a1", Code: "AC-0001", Title: "Cash", AccountType: domain.Cash, IsActive: true},
		{AccountID: "a2", Code: "AC-0002", Title: "Old Till", AccountType: domain.Cash},
	}
	suite.mockAccountService.On("ListAccounts", mock.Anything, dto.ListAccountsParams{AccountType: domain.Cash, IncludeInactive: true}).
		Return(accounts, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts?accountType=CASH&includeInactive=true", nil, "")

	suite.Equal(http.StatusOK, w.Code)
	var res []dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Len(res, 2)
	suite.False(res[1].IsActive)
}

func (suite *AccountHandlerTestSuite) TestSetControlAccounts() {
	req := dto.ControlAccountsRequest{ReceivableAccountID: "r", PayableAccountID: "p", IncomeAccountID: "i"}
	suite.mockAccountService.On("SetControlAccounts", mock.Anything, req, "asma").
		Return(&domain.ControlAccounts{ReceivableAccountID: "r", PayableAccountID: "p", IncomeAccountID: "i"}, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/settings/controls", req, "asma")
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPut, "/api/v1/settings/controls", gin.H{"receivableAccountID": "r"}, "asma")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
