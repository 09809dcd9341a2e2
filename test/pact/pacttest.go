//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "orders-api"
	ConsumerName = "storefront-portal"

	StateCatalogBaseline = "catalog baseline"
	StateOrderReady      = "customer and product exist"
	StateOutOfStock      = "product exists with no stock"
	StateOrderMissing    = "no order with the requested id"
)

// Fixed identifiers shared between the consumer contract and the provider
// state handlers.
const (
	ExistingCustomerID = "6f1f64d2-4f6a-4f24-9cf5-27b04dbbf61a"
	ExistingProductID  = "9b2e8f10-7c31-44a9-8c1a-f5ba3a6f1d42"
	DepletedProductID  = "0c6a2a55-2f3e-4f04-b7f0-3d2f9a64c8ee"
	MissingOrderID     = "ffffffff-ffff-4fff-8fff-ffffffffffff"
)

const (
	ExampleCustomerName  = "Pact Shopper"
	ExampleCustomerEmail = "shopper@example.pact"
	ExampleProductName   = "Pact Keyboard"
	ExampleProductPrice  = 129.90
	ExampleProductStock  = 10
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleOrderPayload provides stable request data for order interactions.
func ExampleOrderPayload() map[string]any {
	return map[string]any{
		"customer_id": ExistingCustomerID,
		"products": []map[string]any{
			{"product_id": ExistingProductID, "quantity": 2},
		},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
