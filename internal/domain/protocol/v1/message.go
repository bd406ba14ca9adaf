package protocolv1

import (
	"encoding/json"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	orderbookv1 "github.com/muhammadchandra19/relayer/internal/domain/orderbook/v1"
)

// Channels.
const (
	ChannelSequence   = "sequence"
	ChannelOrderBooks = "orderBooks"
	ChannelOrders     = "orders"
)

// Methods that are not order mutations.
const (
	MethodSub      = "sub"
	MethodUnsub    = "unsub"
	MethodSnapshot = "snapshot"
	MethodUpdate   = "update"
)

// StatusOK marks a successful response. Any other status is an error text.
const StatusOK = "ok"

// SequenceRequest asks the sequencer for the next sequence of Method (a pair).
type SequenceRequest struct {
	Channel string `json:"channel"`
	Method  string `json:"method"`
}

// SequenceResponse answers a SequenceRequest.
type SequenceResponse struct {
	Channel  string `json:"channel"`
	Status   string `json:"status"`
	Method   string `json:"method"`
	Sequence int64  `json:"sequence"`
}

// ClientMessage is a message sent to the relay. It is one of
// *SubscribeRequest, *AddOrderRequest or *TerminateOrderRequest.
type ClientMessage interface {
	clientMessage()
}

// SubscribeRequest subscribes (Method sub) or unsubscribes (Method unsub) a
// pair's order book.
type SubscribeRequest struct {
	Method  string `json:"method"`
	Channel string `json:"channel"`
	Pair    string `json:"pair"`
}

// OrderPayload is the signed order carried by an add request.
type OrderPayload struct {
	Account   string       `json:"account"`
	Side      orderv1.Side `json:"side"`
	Price     float64      `json:"price"`
	Amount    float64      `json:"amount"`
	Fee       float64      `json:"fee"`
	FeeAsset  string       `json:"feeAsset"`
	Expiry    int64        `json:"expiry"`
	Signature string       `json:"signature"`
}

// AddOrderRequest submits a new signed order.
type AddOrderRequest struct {
	Method    string          `json:"method"`
	Channel   string          `json:"channel"`
	Pair      string          `json:"pair"`
	OrderHash string          `json:"orderHash"`
	Order     json.RawMessage `json:"order"`
}

// TerminateOrderRequest cancels one or more orders.
type TerminateOrderRequest struct {
	Method      string   `json:"method"`
	Channel     string   `json:"channel"`
	Pair        string   `json:"pair"`
	OrderHashes []string `json:"orderHashes"`
	Signature   string   `json:"signature"`
}

func (*SubscribeRequest) clientMessage()      {}
func (*AddOrderRequest) clientMessage()       {}
func (*TerminateOrderRequest) clientMessage() {}

// ServerMessage is a message pushed by the relay. It is one of
// *SnapshotMessage, *UpdateMessage, *OrderResponse or *ErrorMessage.
type ServerMessage interface {
	serverMessage()
}

// SnapshotMessage carries a full order book snapshot.
type SnapshotMessage struct {
	Channel           string                `json:"channel"`
	Status            string                `json:"status"`
	Method            string                `json:"method"`
	Pair              string                `json:"pair"`
	OrderBookSnapshot *orderbookv1.Snapshot `json:"orderBookSnapshot"`
}

// UpdateMessage carries one order book delta.
type UpdateMessage struct {
	Channel         string                      `json:"channel"`
	Status          string                      `json:"status"`
	Method          string                      `json:"method"`
	Pair            string                      `json:"pair"`
	OrderBookUpdate *orderbookv1.SnapshotUpdate `json:"orderBookUpdate"`
}

// OrderResponse answers an add or terminate request for one orderHash.
type OrderResponse struct {
	Channel   string             `json:"channel"`
	Status    string             `json:"status"`
	Method    string             `json:"method"`
	Pair      string             `json:"pair"`
	OrderHash string             `json:"orderHash"`
	UserOrder *orderv1.UserOrder `json:"userOrder,omitempty"`
}

// ErrorMessage is any response whose status is not ok, keyed by
// (Method, Pair).
type ErrorMessage struct {
	Channel string `json:"channel"`
	Status  string `json:"status"`
	Method  string `json:"method"`
	Pair    string `json:"pair"`
}

func (*SnapshotMessage) serverMessage() {}
func (*UpdateMessage) serverMessage()   {}
func (*OrderResponse) serverMessage()   {}
func (*ErrorMessage) serverMessage()    {}

// NewSnapshotMessage wraps a snapshot for the wire.
func NewSnapshotMessage(s *orderbookv1.Snapshot) *SnapshotMessage {
	return &SnapshotMessage{
		Channel:           ChannelOrderBooks,
		Status:            StatusOK,
		Method:            MethodSnapshot,
		Pair:              s.Pair,
		OrderBookSnapshot: s,
	}
}

// NewUpdateMessage wraps a delta for the wire.
func NewUpdateMessage(u *orderbookv1.SnapshotUpdate) *UpdateMessage {
	return &UpdateMessage{
		Channel:         ChannelOrderBooks,
		Status:          StatusOK,
		Method:          MethodUpdate,
		Pair:            u.Pair,
		OrderBookUpdate: u,
	}
}

// NewOrderResponse answers a mutation of orderHash with its audit row.
func NewOrderResponse(method orderv1.Method, pair, orderHash string, userOrder *orderv1.UserOrder) *OrderResponse {
	return &OrderResponse{
		Channel:   ChannelOrders,
		Status:    StatusOK,
		Method:    string(method),
		Pair:      pair,
		OrderHash: orderHash,
		UserOrder: userOrder,
	}
}

// NewErrorMessage reports err for (method, pair) on channel.
func NewErrorMessage(channel, method, pair string, err error) *ErrorMessage {
	return &ErrorMessage{
		Channel: channel,
		Status:  err.Error(),
		Method:  method,
		Pair:    pair,
	}
}
