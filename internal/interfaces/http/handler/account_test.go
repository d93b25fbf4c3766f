package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	ledgerapp "github.com/medledger/backend/internal/application/ledger"
	"github.com/medledger/backend/internal/domain/ledger"
	"github.com/medledger/backend/internal/interfaces/http/middleware"
)

func setupAccountHandler() (*gin.Engine, *MockAccountRepository) {
	accountRepo := new(MockAccountRepository)
	h := NewAccountHandler(ledgerapp.NewAccountService(accountRepo))

	router := gin.New()
	router.Use(middleware.RequireUser())
	router.POST("/accounts", h.Create)
	router.GET("/accounts", h.List)
	router.GET("/accounts/eligibility", h.CheckEligibility)
	router.POST("/accounts/:id/close", h.Close)

	return router, accountRepo
}

func TestAccountHandler_Create(t *testing.T) {
	t.Run("registers an account window", func(t *testing.T) {
		router, accountRepo := setupAccountHandler()
		userID := uuid.New()

		accountRepo.On("Save", mock.Anything, mock.AnythingOfType("*ledger.HSAAccount")).Return(nil)

		body, _ := json.Marshal(ledgerapp.CreateAccountRequest{
			AccountName: "Fidelity HSA",
			OpenedDate:  time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		})

		req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.UserIDHeader, userID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		accountRepo.AssertExpectations(t)
	})

	t.Run("rejects a window closing before it opens", func(t *testing.T) {
		router, accountRepo := setupAccountHandler()

		closed := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
		body, _ := json.Marshal(ledgerapp.CreateAccountRequest{
			AccountName: "Fidelity HSA",
			OpenedDate:  time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			ClosedDate:  &closed,
		})

		req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.UserIDHeader, uuid.New().String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_ACCOUNT_WINDOW")
		accountRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestAccountHandler_CheckEligibility(t *testing.T) {
	t.Run("answers for a date inside the window", func(t *testing.T) {
		router, accountRepo := setupAccountHandler()
		userID := uuid.New()

		account, err := ledger.NewHSAAccount(userID, "Fidelity HSA",
			time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), nil)
		require.NoError(t, err)
		accountRepo.On("FindAllForUser", mock.Anything, userID).
			Return([]ledger.HSAAccount{*account}, nil)

		req := httptest.NewRequest(http.MethodGet, "/accounts/eligibility?date=2024-06-01", nil)
		req.Header.Set(middleware.UserIDHeader, userID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp["data"].(map[string]interface{})
		assert.True(t, data["eligible"].(bool))
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		router, _ := setupAccountHandler()

		req := httptest.NewRequest(http.MethodGet, "/accounts/eligibility?date=06/01/2024", nil)
		req.Header.Set(middleware.UserIDHeader, uuid.New().String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("requires the date parameter", func(t *testing.T) {
		router, _ := setupAccountHandler()

		req := httptest.NewRequest(http.MethodGet, "/accounts/eligibility", nil)
		req.Header.Set(middleware.UserIDHeader, uuid.New().String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAccountHandler_Close(t *testing.T) {
	router, accountRepo := setupAccountHandler()
	userID := uuid.New()

	account, err := ledger.NewHSAAccount(userID, "Fidelity HSA",
		time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)

	accountRepo.On("FindByIDForUser", mock.Anything, userID, account.ID).Return(account, nil)
	accountRepo.On("Save", mock.Anything, account).Return(nil)

	body, _ := json.Marshal(CloseAccountRequest{
		ClosedDate: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts/"+account.ID.String()+"/close", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.UserIDHeader, userID.String())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.False(t, data["isActive"].(bool))
}
