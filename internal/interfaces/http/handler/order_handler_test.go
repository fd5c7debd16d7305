package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

func seedOrder(t *testing.T, repo *fakeOrderRepo, sessionID string, userID *uuid.UUID) *order.Order {
	t.Helper()
	lines := []order.LineSnapshot{{
		ProductID: uuid.New(),
		VariantID: uuid.New(),
		SKU:       "TEE-M",
		Name:      "Tee",
		Quantity:  2,
		UnitPrice: 1999,
	}}
	session, err := order.NewCheckoutSession(sessionID, userID, "shopper@example.com", lines, valueobject.USD)
	require.NoError(t, err)
	o := order.NewOrderFromSession(session, 0)
	repo.add(o)
	return o
}

func setupOrderRouter(repo *fakeOrderRepo, userID *uuid.UUID, role string) *gin.Engine {
	svc := orderapp.NewQueryService(repo, zap.NewNop())
	h := NewOrderHandler(svc)

	router := gin.New()
	if userID != nil {
		router.Use(func(c *gin.Context) {
			c.Set(middleware.JWTUserIDKey, userID.String())
			if role != "" {
				c.Set(middleware.JWTClaimsKey, claimsWithRole(userID.String(), role))
			}
		})
	}
	router.GET("/orders", h.ListOrders)
	router.GET("/orders/:id", h.GetOrder)
	return router
}

func TestOrderHandlerGetOrder(t *testing.T) {
	userID := uuid.New()

	t.Run("shopper reads their own order", func(t *testing.T) {
		repo := newFakeOrderRepo()
		seedOrder(t, repo, "cs_mine", &userID)
		router := setupOrderRouter(repo, &userID, "")

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/orders/cs_mine", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "cs_mine", data["id"])
		assert.Equal(t, float64(3998), data["total"])
	})

	t.Run("another shopper's order is forbidden", func(t *testing.T) {
		repo := newFakeOrderRepo()
		otherID := uuid.New()
		seedOrder(t, repo, "cs_theirs", &otherID)
		router := setupOrderRouter(repo, &userID, "")

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/orders/cs_theirs", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin reads any order", func(t *testing.T) {
		repo := newFakeOrderRepo()
		otherID := uuid.New()
		seedOrder(t, repo, "cs_any", &otherID)
		router := setupOrderRouter(repo, &userID, "admin")

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/orders/cs_any", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown order returns 404", func(t *testing.T) {
		repo := newFakeOrderRepo()
		router := setupOrderRouter(repo, &userID, "")

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/orders/cs_missing", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOrderHandlerListOrders(t *testing.T) {
	userID := uuid.New()
	otherID := uuid.New()

	repo := newFakeOrderRepo()
	seedOrder(t, repo, "cs_1", &userID)
	seedOrder(t, repo, "cs_2", &userID)
	seedOrder(t, repo, "cs_3", &otherID)
	router := setupOrderRouter(repo, &userID, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/orders", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	orders := resp.Data.([]interface{})
	assert.Len(t, orders, 2)
}

func TestOrderHandlerListOrdersUnauthenticated(t *testing.T) {
	router := setupOrderRouter(newFakeOrderRepo(), nil, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/orders", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
