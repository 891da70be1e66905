package orders

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wrapntrack/wrapntrack-backend/pkg/config"
	"github.com/wrapntrack/wrapntrack-backend/pkg/db"
	"github.com/wrapntrack/wrapntrack-backend/pkg/db/models"
	"github.com/wrapntrack/wrapntrack-backend/pkg/enums"
	pkgerrors "github.com/wrapntrack/wrapntrack-backend/pkg/errors"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	accounts := `
CREATE TABLE IF NOT EXISTS accounts (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  username TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT,
  address TEXT,
  role TEXT NOT NULL DEFAULT 'customer',
  is_verified INTEGER NOT NULL DEFAULT 0,
  verification_code TEXT,
  verification_expiry DATETIME,
  reset_code TEXT,
  reset_expiry DATETIME,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	suppliers := `
CREATE TABLE IF NOT EXISTS suppliers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  contact_person TEXT,
  email TEXT,
  phone TEXT,
  address_line TEXT,
  city TEXT,
  province TEXT,
  postal_code TEXT,
  lead_time_days INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	inventoryItems := `
CREATE TABLE IF NOT EXISTS inventory_items (
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0,
  unit_price NUMERIC NOT NULL DEFAULT 0,
  reorder_level INTEGER,
  expiration_date DATETIME,
  image_url TEXT,
  supplier_id TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	ordersTable := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  account_id TEXT,
  customer_name TEXT NOT NULL,
  customer_email TEXT,
  contact_number TEXT,
  order_date DATETIME NOT NULL,
  expected_delivery_date DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  package_type TEXT NOT NULL DEFAULT 'standard',
  payment_method TEXT NOT NULL DEFAULT 'cash',
  shipping_address TEXT,
  total_cost NUMERIC NOT NULL DEFAULT 0,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderLines := `
CREATE TABLE IF NOT EXISTS order_lines (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  sku TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL DEFAULT 0,
  profit_margin NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	weddingDetails := `
CREATE TABLE IF NOT EXISTS wedding_details (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL UNIQUE,
  account_id TEXT NOT NULL,
  bride_name TEXT,
  groom_name TEXT,
  wedding_date DATETIME,
  venue TEXT,
  created_at DATETIME
);`
	for _, stmt := range []string{accounts, suppliers, inventoryItems, ordersTable, orderLines, weddingDetails} {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newOrdersService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		DB: db.FromGorm(conn),
		Config: config.OrdersConfig{
			IDPrefix:             "WNT",
			RequireLinesOnUpdate: true,
		},
	})
	require.NoError(t, err)
	return svc
}

func seedItem(t *testing.T, conn *gorm.DB, sku, name, price string) *models.InventoryItem {
	t.Helper()

	unitPrice, err := decimal.NewFromString(price)
	require.NoError(t, err)
	item := &models.InventoryItem{
		ID:        uuid.New(),
		SKU:       sku,
		Name:      name,
		Category:  "wrapping",
		Quantity:  100,
		UnitPrice: unitPrice,
		IsActive:  true,
	}
	require.NoError(t, conn.Create(item).Error)
	return item
}

func seedAccount(t *testing.T, conn *gorm.DB, email string) *models.Account {
	t.Helper()

	account := &models.Account{
		ID:           uuid.New(),
		Email:        strings.ToLower(email),
		Username:     fmt.Sprintf("user_%s", uuid.NewString()[:8]),
		PasswordHash: "hash",
		FirstName:    "Order",
		LastName:     "Tester",
		IsVerified:   true,
	}
	require.NoError(t, conn.Create(account).Error)
	return account
}

func uniqueSKU(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}

func baseCreateRequest(lines []LineInput) CreateOrderRequest {
	orderDate := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	delivery := orderDate.AddDate(0, 0, 7)
	return CreateOrderRequest{
		CustomerName:         "Maria Santos",
		OrderDate:            &orderDate,
		ExpectedDeliveryDate: &delivery,
		Status:               "pending",
		PackageType:          "standard",
		Lines:                lines,
	}
}

func qty(v int) *int {
	return &v
}

func countLines(t *testing.T, conn *gorm.DB, orderID string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, conn.Model(&models.OrderLine{}).Where("order_id = ?", orderID).Count(&count).Error)
	return count
}

func TestCreateOrderPersistsEveryLine(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)

	skuA := uniqueSKU("RIB")
	skuB := uniqueSKU("BOX")
	seedItem(t, conn, skuA, "Satin Ribbon", "100.00")
	seedItem(t, conn, skuB, "Gift Box", "55.50")

	req := baseCreateRequest([]LineInput{
		{SKU: skuA, Quantity: qty(2)},
		{SKU: skuB, Quantity: qty(1)},
		{SKU: skuA, Quantity: qty(3)},
	})

	order, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, order.Lines, 3)
	assert.Equal(t, int64(3), countLines(t, conn, order.ID))

	total, err := decimal.NewFromString("555.50")
	require.NoError(t, err)
	assert.True(t, order.TotalCost.Equal(total), "total %s", order.TotalCost)

	skus := []string{order.Lines[0].SKU, order.Lines[1].SKU, order.Lines[2].SKU}
	assert.ElementsMatch(t, []string{skuA, skuB, skuA}, skus)
}

func TestCreateOrderResolvesItemNames(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)

	sku := uniqueSKU("TAG")
	seedItem(t, conn, sku, "Kraft Gift Tag", "12.25")

	req := baseCreateRequest([]LineInput{
		{ItemName: "Kraft Gift Tag", Quantity: qty(4)},
	})

	order, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, sku, order.Lines[0].SKU)

	total, err := decimal.NewFromString("49.00")
	require.NoError(t, err)
	assert.True(t, order.TotalCost.Equal(total))
}

func TestCreateOrderGeneratesPrefixedID(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)

	sku := uniqueSKU("GEN")
	seedItem(t, conn, sku, "Generated Item", "10.00")

	order, err := svc.CreateOrder(context.Background(), baseCreateRequest([]LineInput{{SKU: sku, Quantity: qty(1)}}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.ID, "WNT-"), "id %s", order.ID)
}

func TestCreateOrderDuplicateIDLeavesExistingUntouched(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)

	skuA := uniqueSKU("DUPA")
	skuB := uniqueSKU("DUPB")
	seedItem(t, conn, skuA, "First Item", "20.00")
	seedItem(t, conn, skuB, "Second Item", "30.00")

	orderID := fmt.Sprintf("ORD-%s", uuid.NewString()[:8])

	first := baseCreateRequest([]LineInput{{SKU: skuA, Quantity: qty(1)}})
	first.OrderID = &orderID
	created, err := svc.CreateOrder(context.Background(), first)
	require.NoError(t, err)
	require.Equal(t, orderID, created.ID)

	second := baseCreateRequest([]LineInput{{SKU: skuB, Quantity: qty(5)}})
	second.OrderID = &orderID
	second.CustomerName = "Somebody Else"
	_, err = svc.CreateOrder(context.Background(), second)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDuplicateOrderID))

	existing, err := svc.GetOrder(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Santos", existing.CustomerName)
	require.Len(t, existing.Lines, 1)
	assert.Equal(t, skuA, existing.Lines[0].SKU)
}

func TestCreateOrderUnknownProductRollsBack(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)

	sku := uniqueSKU("KNOWN")
	seedItem(t, conn, sku, "Known Item", "15.00")

	orderID := fmt.Sprintf("ORD-%s", uuid.NewString()[:8])
	req := baseCreateRequest([]LineInput{
		{SKU: sku, Quantity: qty(1)},
		{SKU: "NO-SUCH-SKU", Quantity: qty(2)},
	})
	req.OrderID = &orderID

	_, err := svc.CreateOrder(context.Background(), req)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeProductNotFound))

	var headerCount int64
	require.NoError(t, conn.Model(&models.Order{}).Where("id = ?", orderID).Count(&headerCount).Error)
	assert.Zero(t, headerCount)
	assert.Zero(t, countLines(t, conn, orderID))
}

func TestCreateOrderSkipsArchivedItems(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)

	sku := uniqueSKU("ARCH")
	item := seedItem(t, conn, sku, "Archived Item", "25.00")
	require.NoError(t, conn.Model(&models.InventoryItem{}).Where("id = ?", item.ID).Update("is_active", false).Error)

	_, err := svc.CreateOrder(context.Background(), baseCreateRequest([]LineInput{{SKU: sku, Quantity: qty(1)}}))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeProductNotFound))
}

func TestCreateWeddingOrderResolvesAccount(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)

	sku := uniqueSKU("WED")
	seedItem(t, conn, sku, "Wedding Wrap", "500.00")

	email := fmt.Sprintf("couple_%s@example.com", uuid.NewString()[:8])
	orderID := fmt.Sprintf("ORD-%s", uuid.NewString()[:8])

	req := baseCreateRequest([]LineInput{{SKU: sku, Quantity: qty(1)}})
	req.OrderID = &orderID
	req.PackageType = "wedding"
	req.CustomerEmail = &email
	bride := "Ana"
	req.Wedding = &WeddingInput{BrideName: &bride}

	_, err := svc.CreateOrder(context.Background(), req)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeCustomerNotFound))
	assert.Zero(t, countLines(t, conn, orderID))

	account := seedAccount(t, conn, email)
	order, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)

	var detail models.WeddingDetail
	require.NoError(t, conn.First(&detail, "order_id = ?", order.ID).Error)
	assert.Equal(t, account.ID, detail.AccountID)
	require.NotNil(t, detail.BrideName)
	assert.Equal(t, "Ana", *detail.BrideName)
}

func TestUpdateOrderReplacesLineSet(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)

	skuA := uniqueSKU("OLD1")
	skuB := uniqueSKU("OLD2")
	skuC := uniqueSKU("OLD3")
	skuD := uniqueSKU("NEW1")
	seedItem(t, conn, skuA, "Old One", "10.00")
	seedItem(t, conn, skuB, "Old Two", "10.00")
	seedItem(t, conn, skuC, "Old Three", "10.00")
	seedItem(t, conn, skuD, "New One", "40.00")

	created, err := svc.CreateOrder(context.Background(), baseCreateRequest([]LineInput{
		{SKU: skuA, Quantity: qty(1)},
		{SKU: skuB, Quantity: qty(1)},
		{SKU: skuC, Quantity: qty(1)},
	}))
	require.NoError(t, err)
	require.Len(t, created.Lines, 3)

	notes := "rush order"
	updated, err := svc.UpdateOrder(context.Background(), created.ID, UpdateOrderRequest{
		Notes: &notes,
		Lines: []LineInput{{SKU: skuD, Quantity: qty(2)}},
	})
	require.NoError(t, err)
	require.Len(t, updated.Lines, 1)
	assert.Equal(t, skuD, updated.Lines[0].SKU)
	assert.Equal(t, int64(1), countLines(t, conn, created.ID))

	total, err := decimal.NewFromString("80.00")
	require.NoError(t, err)
	assert.True(t, updated.TotalCost.Equal(total))

	require.NotNil(t, updated.Notes)
	assert.Equal(t, "rush order", *updated.Notes)
	assert.Equal(t, created.CustomerName, updated.CustomerName)
	assert.Equal(t, created.Status, updated.Status)
}

func TestUpdateOrderIsIdempotent(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)

	sku := uniqueSKU("IDEM")
	seedItem(t, conn, sku, "Idempotent Item", "33.00")

	created, err := svc.CreateOrder(context.Background(), baseCreateRequest([]LineInput{{SKU: sku, Quantity: qty(1)}}))
	require.NoError(t, err)

	status := "processing"
	req := UpdateOrderRequest{
		Status: &status,
		Lines:  []LineInput{{SKU: sku, Quantity: qty(3)}},
	}

	first, err := svc.UpdateOrder(context.Background(), created.ID, req)
	require.NoError(t, err)
	second, err := svc.UpdateOrder(context.Background(), created.ID, req)
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.True(t, first.TotalCost.Equal(second.TotalCost))
	require.Len(t, second.Lines, 1)
	assert.Equal(t, sku, second.Lines[0].SKU)
	assert.Equal(t, 3, second.Lines[0].Quantity)
	assert.Equal(t, int64(1), countLines(t, conn, created.ID))
}

func TestUpdateOrderRequiresLines(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)

	sku := uniqueSKU("REQ")
	seedItem(t, conn, sku, "Required Item", "5.00")

	created, err := svc.CreateOrder(context.Background(), baseCreateRequest([]LineInput{{SKU: sku, Quantity: qty(1)}}))
	require.NoError(t, err)

	_, err = svc.UpdateOrder(context.Background(), created.ID, UpdateOrderRequest{})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Equal(t, int64(1), countLines(t, conn, created.ID))
}

func TestUpdateOrderMissingOrder(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)

	sku := uniqueSKU("MISS")
	seedItem(t, conn, sku, "Missing Order Item", "5.00")

	_, err := svc.UpdateOrder(context.Background(), "ORD-nope", UpdateOrderRequest{
		Lines: []LineInput{{SKU: sku, Quantity: qty(1)}},
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeOrderNotFound))
}

func TestGetOrderWithZeroLines(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)

	created, err := svc.CreateOrder(context.Background(), baseCreateRequest(nil))
	require.NoError(t, err)

	fetched, err := svc.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.Lines)
	assert.Empty(t, fetched.Lines)
	assert.True(t, fetched.TotalCost.IsZero())
}

func TestGetOrderMissing(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)

	_, err := svc.GetOrder(context.Background(), "ORD-does-not-exist")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeOrderNotFound))
}

func TestListOrdersIncludesLines(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)

	sku := uniqueSKU("LIST")
	seedItem(t, conn, sku, "Listed Item", "9.99")

	created, err := svc.CreateOrder(context.Background(), baseCreateRequest([]LineInput{{SKU: sku, Quantity: qty(2)}}))
	require.NoError(t, err)

	orders, err := svc.ListOrders(context.Background())
	require.NoError(t, err)

	var found *OrderDTO
	for i := range orders {
		if orders[i].ID == created.ID {
			found = &orders[i]
			break
		}
	}
	require.NotNil(t, found)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, sku, found.Lines[0].SKU)
}

func TestCreateOrderRejectsNegativeQuantity(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)

	sku := uniqueSKU("NEG")
	seedItem(t, conn, sku, "Negative Item", "5.00")

	_, err := svc.CreateOrder(context.Background(), baseCreateRequest([]LineInput{{SKU: sku, Quantity: qty(-1)}}))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCreateOrderRejectsUnknownEnums(t *testing.T) {
	conn := setupOrdersTestDB(t)
	svc := newOrdersService(t, conn)

	req := baseCreateRequest(nil)
	req.Status = "teleported"
	_, err := svc.CreateOrder(context.Background(), req)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	req = baseCreateRequest(nil)
	req.PackageType = "mystery"
	_, err = svc.CreateOrder(context.Background(), req)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	req = baseCreateRequest(nil)
	payment := "barter"
	req.PaymentMethod = &payment
	_, err = svc.CreateOrder(context.Background(), req)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestLineDetailsFallBackToSKUForName(t *testing.T) {
	conn := setupOrdersTestDB(t)
	repo := NewRepository(conn)

	orderID := fmt.Sprintf("ORD-%s", uuid.NewString()[:8])
	now := time.Now().UTC()
	order := &models.Order{
		ID:                   orderID,
		CustomerName:         "Detail Tester",
		OrderDate:            now,
		ExpectedDeliveryDate: now.AddDate(0, 0, 3),
		Status:               enums.OrderStatusPending,
		PackageType:          enums.PackageTypeStandard,
		PaymentMethod:        enums.PaymentMethodCash,
	}
	_, err := repo.CreateHeader(context.Background(), order)
	require.NoError(t, err)

	ghostSKU := uniqueSKU("GHOST")
	price := decimal.NewFromInt(7)
	require.NoError(t, repo.CreateLines(context.Background(), []models.OrderLine{{
		ID:        uuid.New(),
		OrderID:   orderID,
		SKU:       ghostSKU,
		Quantity:  2,
		UnitPrice: price,
	}}))

	details, err := repo.FindLineDetails(context.Background(), orderID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, ghostSKU, details[0].Name)
	assert.True(t, details[0].LineTotal.Equal(decimal.NewFromInt(14)))
}
