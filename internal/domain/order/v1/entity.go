package orderv1

import (
	"encoding/json"
	"strings"

	"github.com/muhammadchandra19/relayer/pkg/errors"
)

// Side is the book side of an order.
type Side string

const (
	// SideBid is a buy order.
	SideBid Side = "bid"
	// SideAsk is a sell order.
	SideAsk Side = "ask"
)

// Method is the kind of mutation applied to a live order.
type Method string

const (
	// MethodAdd creates a live order.
	MethodAdd Method = "add"
	// MethodUpdate changes balance, matching or fill of a live order.
	MethodUpdate Method = "update"
	// MethodTerminate removes a live order.
	MethodTerminate Method = "terminate"
)

// Valid reports whether m is one of the known methods.
func (m Method) Valid() bool {
	switch m {
	case MethodAdd, MethodUpdate, MethodTerminate:
		return true
	}
	return false
}

// Status is the lifecycle state recorded on a UserOrder.
type Status string

const (
	StatusConfirmed   Status = "confirmed"
	StatusMatching    Status = "matching"
	StatusPartialFill Status = "partialFill"
	StatusFill        Status = "fill"
	StatusTerminate   Status = "terminate"
)

// LiveOrder is the authoritative record of a resting order.
type LiveOrder struct {
	Pair            string  `json:"pair"`
	OrderHash       string  `json:"orderHash"`
	Account         string  `json:"account"`
	Side            Side    `json:"side"`
	Price           float64 `json:"price"`
	Amount          float64 `json:"amount"`
	Balance         float64 `json:"balance"`
	Matching        float64 `json:"matching"`
	Fill            float64 `json:"fill"`
	Fee             float64 `json:"fee"`
	FeeAsset        string  `json:"feeAsset"`
	Expiry          int64   `json:"expiry"`
	CreatedAt       int64   `json:"createdAt"`
	UpdatedAt       int64   `json:"updatedAt"`
	InitialSequence int64   `json:"initialSequence"`
	CurrentSequence int64   `json:"currentSequence"`
}

// IsBid reports whether the order rests on the bid side.
func (o *LiveOrder) IsBid() bool {
	return o.Side == SideBid
}

// IsExpired reports whether the order expired at or before nowMs. A zero
// expiry never expires.
func (o *LiveOrder) IsExpired(nowMs int64) bool {
	return o.Expiry > 0 && o.Expiry <= nowMs
}

// Validate checks the invariants every stored LiveOrder must hold.
func (o *LiveOrder) Validate() error {
	switch {
	case o.Pair == "" || o.OrderHash == "":
		return errors.New(errors.ValidationError, "pair and orderHash are required", "orderHash")
	case o.Side != SideBid && o.Side != SideAsk:
		return errors.New(errors.ValidationError, "invalid side", "side")
	case o.Price <= 0:
		return errors.New(errors.ValidationError, "price must be positive", "price")
	case o.Balance < 0 || o.Balance > o.Amount:
		return errors.New(errors.ValidationError, "balance out of range", "balance")
	case o.Matching < 0:
		return errors.New(errors.ValidationError, "matching must not be negative", "matching")
	case o.CurrentSequence < o.InitialSequence:
		return errors.New(errors.ValidationError, "currentSequence below initialSequence", "currentSequence")
	}
	return nil
}

// RawOrder keeps the signed payload of an order. TerminatedSequence is set
// once the order is terminated and blocks it from being re-added.
type RawOrder struct {
	OrderHash          string          `json:"orderHash"`
	Pair               string          `json:"pair"`
	SignedOrder        json.RawMessage `json:"signedOrder"`
	TerminatedSequence int64           `json:"terminatedSequence"`
	CreatedAt          int64           `json:"createdAt"`
	UpdatedAt          int64           `json:"updatedAt"`
}

// UserOrder is the append-only audit projection of a LiveOrder at the
// moment of a mutation.
type UserOrder struct {
	LiveOrder
	Type      Method `json:"type"`
	Status    Status `json:"status"`
	UpdatedBy string `json:"updatedBy"`
}

// NewUserOrder projects o after method was applied to it.
func NewUserOrder(o LiveOrder, method Method, updatedBy string) UserOrder {
	return UserOrder{
		LiveOrder: o,
		Type:      method,
		Status:    statusOf(o, method),
		UpdatedBy: updatedBy,
	}
}

func statusOf(o LiveOrder, method Method) Status {
	switch method {
	case MethodAdd:
		return StatusConfirmed
	case MethodTerminate:
		return StatusTerminate
	}
	switch {
	case o.Matching > 0:
		return StatusMatching
	case o.Balance == 0:
		return StatusFill
	case o.Fill > 0:
		return StatusPartialFill
	default:
		return StatusConfirmed
	}
}

// QueueItem is the unit staged in the durable order queue.
type QueueItem struct {
	Method      Method          `json:"method"`
	LiveOrder   LiveOrder       `json:"liveOrder"`
	SignedOrder json.RawMessage `json:"signedOrder,omitempty"`
}

// CacheKey returns the cache field and queue entry of the item.
func (q *QueueItem) CacheKey() string {
	return CacheKey(q.Method, q.LiveOrder.OrderHash)
}

// CacheKey joins method and orderHash as method|orderHash.
func CacheKey(method Method, orderHash string) string {
	return string(method) + "|" + orderHash
}

// ParseCacheKey splits a method|orderHash key.
func ParseCacheKey(key string) (Method, string, error) {
	method, hash, ok := strings.Cut(key, "|")
	if !ok || !Method(method).Valid() || hash == "" {
		return "", "", errors.New(errors.ValidationError, "malformed cache key "+key, "key")
	}
	return Method(method), hash, nil
}

// PersistRequest asks the durable queue to apply one mutation. For add,
// Order carries the static fields of the new order. For update, Balance,
// Matching and Fill are the new absolute values.
type PersistRequest struct {
	Method      Method          `json:"method"`
	Pair        string          `json:"pair"`
	OrderHash   string          `json:"orderHash"`
	Order       *LiveOrder      `json:"order,omitempty"`
	SignedOrder json.RawMessage `json:"signedOrder,omitempty"`
	Balance     float64         `json:"balance"`
	Matching    float64         `json:"matching"`
	Fill        float64         `json:"fill"`
	Requestor   string          `json:"requestor"`
}

// OrderUpdate is published on the pair's update channel once a mutation has
// been staged.
type OrderUpdate struct {
	Method    Method    `json:"method"`
	LiveOrder LiveOrder `json:"liveOrder"`
	Requestor string    `json:"requestor"`
}

// MatchSide is one leg of a match with the balance it contributes.
type MatchSide struct {
	OrderHash string  `json:"orderHash"`
	Balance   float64 `json:"balance"`
}

// MatchRequest instructs settlement to fill Left (bid) against Right (ask).
type MatchRequest struct {
	ID        string    `json:"id"`
	Pair      string    `json:"pair"`
	Left      MatchSide `json:"left"`
	Right     MatchSide `json:"right"`
	Price     float64   `json:"price"`
	CreatedAt int64     `json:"createdAt"`
}
