package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/Apurer/go-order-api-server/internal/domains/orders/domain"
)

type normalizedOrderRequest struct {
	CustomerID string           `json:"customerId"`
	Lines      []normalizedLine `json:"lines"`
}

type normalizedLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// FingerprintOrderRequest builds a deterministic hash of the placement
// payload, excluding the idempotency key itself. Lines keep the caller's
// sequence so a reordered request counts as a different payload.
func FingerprintOrderRequest(req domain.OrderRequest) (string, error) {
	normalized := normalizedOrderRequest{
		CustomerID: req.CustomerID.String(),
		Lines:      make([]normalizedLine, 0, len(req.Lines)),
	}
	for _, line := range req.Lines {
		normalized.Lines = append(normalized.Lines, normalizedLine{
			ProductID: line.ProductID.String(),
			Quantity:  line.Quantity,
		})
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
