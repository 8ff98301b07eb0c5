package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"brewmenu/config"
	"brewmenu/models"
	"brewmenu/router"
	"brewmenu/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, config.AutoMigrate(db))

	require.NoError(t, db.Create(&models.Table{ID: 5, TableNumber: "5", SeatCount: 4, Status: models.TableAvailable}).Error)
	return db
}

func setupRouter(t *testing.T) *gin.Engine {
	return router.SetupRouter(setupTestDB(t))
}

func staffToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateToken(1, "staff")
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func submitBody() map[string]interface{} {
	return map[string]interface{}{
		"table_id": 5,
		"items": []map[string]interface{}{
			{
				"product": map[string]interface{}{
					"id":      1,
					"name_th": "Americano",
					"price":   75,
				},
				"quantity": 2,
			},
		},
		"total_amount":         150,
		"special_instructions": "no sugar",
	}
}

func createOrder(t *testing.T, r *gin.Engine) map[string]interface{} {
	t.Helper()
	w, resp := doJSON(t, r, http.MethodPost, "/orders", "", submitBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, true, resp["success"])
	return resp["order"].(map[string]interface{})
}

func TestCreateAndGetOrder(t *testing.T) {
	r := setupRouter(t)

	order := createOrder(t, r)
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "unpaid", order["payment_status"])
	assert.Equal(t, 150.0, order["total_amount"])
	assert.Equal(t, 150.0, order["final_amount"])
	assert.Regexp(t, `^ORD-\d{8}-\d{3,}$`, order["order_code"])
	require.Len(t, order["items"].([]interface{}), 1)

	id := int(order["id"].(float64))
	w, resp := doJSON(t, r, http.MethodGet, fmt.Sprintf("/orders/%d", id), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := resp["order"].(map[string]interface{})
	assert.Equal(t, order["order_code"], fetched["order_code"])
	require.Len(t, fetched["items"].([]interface{}), 1)
	item := fetched["items"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Americano", item["product_name"])
	assert.Equal(t, 75.0, item["price_at_time"])
	assert.Equal(t, 2.0, item["quantity"])
	require.NotNil(t, fetched["table"], "table must be nested")

	// submission flips the table to occupied
	w, resp = doJSON(t, r, http.MethodGet, "/tables/5", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	table := resp["table"].(map[string]interface{})
	assert.Equal(t, "occupied", table["status"])
}

func TestCreateOrderWithoutItemsIsRejected(t *testing.T) {
	r := setupRouter(t)

	body := submitBody()
	body["items"] = []map[string]interface{}{}
	w, resp := doJSON(t, r, http.MethodPost, "/orders", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, resp["success"])
	assert.NotEmpty(t, resp["error"])
}

func TestGetOrderNotFound(t *testing.T) {
	r := setupRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/orders/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "not found", resp["error"])
}

func TestUpdateOrderStatusAndPayment(t *testing.T) {
	r := setupRouter(t)
	token := staffToken(t)
	order := createOrder(t, r)
	path := fmt.Sprintf("/orders/%d", int(order["id"].(float64)))

	w, resp := doJSON(t, r, http.MethodPatch, path, token, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := resp["order"].(map[string]interface{})
	assert.Equal(t, "confirmed", updated["status"])
	assert.NotNil(t, updated["confirmed_at"])

	// skipping ahead is rejected
	w, resp = doJSON(t, r, http.MethodPatch, path, token, map[string]string{"status": "served"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, resp["success"])

	w, resp = doJSON(t, r, http.MethodPatch, path, token, map[string]string{"payment_status": "paid"})
	require.Equal(t, http.StatusOK, w.Code)
	updated = resp["order"].(map[string]interface{})
	assert.Equal(t, "paid", updated["payment_status"])
	assert.NotNil(t, updated["paid_at"])
}

func TestDeleteOrderSoftCancels(t *testing.T) {
	r := setupRouter(t)
	token := staffToken(t)
	order := createOrder(t, r)
	id := int(order["id"].(float64))

	w, resp := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/orders/%d", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", resp["order"].(map[string]interface{})["status"])

	// the row is still there, just cancelled
	w, resp = doJSON(t, r, http.MethodGet, fmt.Sprintf("/orders/%d", id), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", resp["order"].(map[string]interface{})["status"])

	// and its table is released
	w, resp = doJSON(t, r, http.MethodGet, "/tables/5", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "available", resp["table"].(map[string]interface{})["status"])
}

func TestListOrdersNewestFirst(t *testing.T) {
	r := setupRouter(t)
	token := staffToken(t)

	first := createOrder(t, r)
	second := createOrder(t, r)
	assert.NotEqual(t, first["order_code"], second["order_code"])

	w, resp := doJSON(t, r, http.MethodGet, "/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := resp["orders"].([]interface{})
	require.Len(t, orders, 2)
	assert.Equal(t, second["id"], orders[0].(map[string]interface{})["id"])
}

func TestItemStatusAdvancesOrder(t *testing.T) {
	r := setupRouter(t)
	token := staffToken(t)
	order := createOrder(t, r)
	id := int(order["id"].(float64))
	itemID := int(order["items"].([]interface{})[0].(map[string]interface{})["id"].(float64))

	_, _ = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/orders/%d", id), token, map[string]string{"status": "confirmed"})

	w, resp := doJSON(t, r, http.MethodPatch,
		fmt.Sprintf("/orders/%d/items/%d", id, itemID), token, map[string]string{"status": "cooking"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "preparing", resp["order"].(map[string]interface{})["status"])

	w, resp = doJSON(t, r, http.MethodPatch,
		fmt.Sprintf("/orders/%d/items/%d", id, itemID), token, map[string]string{"status": "ready"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", resp["order"].(map[string]interface{})["status"])
}

func TestStaffRoutesRequireToken(t *testing.T) {
	r := setupRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, resp["success"])

	w, _ = doJSON(t, r, http.MethodDelete, "/orders/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
