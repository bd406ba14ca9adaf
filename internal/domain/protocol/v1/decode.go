package protocolv1

import (
	"encoding/json"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	"github.com/muhammadchandra19/relayer/pkg/errors"
)

type envelope struct {
	Channel string `json:"channel"`
	Method  string `json:"method"`
	Status  string `json:"status"`
}

func invalid(msg string) error {
	return errors.New(errors.ValidationError, msg, "message")
}

// DecodeSequenceRequest parses a request read by the sequencer.
func DecodeSequenceRequest(data []byte) (*SequenceRequest, error) {
	var req SequenceRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, invalid("malformed sequence request")
	}
	if req.Channel != ChannelSequence || req.Method == "" {
		return nil, invalid("invalid sequence request")
	}
	return &req, nil
}

// DecodeSequenceResponse parses a response read by a sequencer client.
func DecodeSequenceResponse(data []byte) (*SequenceResponse, error) {
	var res SequenceResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, invalid("malformed sequence response")
	}
	if res.Channel != ChannelSequence || res.Method == "" {
		return nil, invalid("invalid sequence response")
	}
	return &res, nil
}

// DecodeClientMessage parses a message read by the relay.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, invalid("malformed message")
	}

	switch {
	case env.Channel == ChannelOrderBooks && (env.Method == MethodSub || env.Method == MethodUnsub):
		var msg SubscribeRequest
		if err := json.Unmarshal(data, &msg); err != nil || msg.Pair == "" {
			return nil, invalid("invalid subscription request")
		}
		return &msg, nil
	case env.Channel == ChannelOrders && env.Method == string(orderv1.MethodAdd):
		var msg AddOrderRequest
		if err := json.Unmarshal(data, &msg); err != nil || msg.Pair == "" || msg.OrderHash == "" || len(msg.Order) == 0 {
			return nil, invalid("invalid add request")
		}
		return &msg, nil
	case env.Channel == ChannelOrders && env.Method == string(orderv1.MethodTerminate):
		var msg TerminateOrderRequest
		if err := json.Unmarshal(data, &msg); err != nil || msg.Pair == "" || len(msg.OrderHashes) == 0 {
			return nil, invalid("invalid terminate request")
		}
		return &msg, nil
	}
	return nil, invalid("unknown channel or method")
}

// DecodeServerMessage parses a message read by an order book client.
func DecodeServerMessage(data []byte) (ServerMessage, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, invalid("malformed message")
	}

	if env.Status != StatusOK {
		var msg ErrorMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, invalid("malformed error message")
		}
		return &msg, nil
	}

	switch {
	case env.Channel == ChannelOrderBooks && env.Method == MethodSnapshot:
		var msg SnapshotMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.OrderBookSnapshot == nil {
			return nil, invalid("invalid snapshot message")
		}
		return &msg, nil
	case env.Channel == ChannelOrderBooks && env.Method == MethodUpdate:
		var msg UpdateMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.OrderBookUpdate == nil {
			return nil, invalid("invalid update message")
		}
		return &msg, nil
	case env.Channel == ChannelOrders:
		var msg OrderResponse
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, invalid("invalid order response")
		}
		return &msg, nil
	}
	return nil, invalid("unknown channel or method")
}

// DecodeOrderPayload parses the signed order of an add request.
func DecodeOrderPayload(data json.RawMessage) (*OrderPayload, error) {
	var p OrderPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, invalid("malformed order payload")
	}
	if p.Account == "" || (p.Side != orderv1.SideBid && p.Side != orderv1.SideAsk) || p.Price <= 0 || p.Amount <= 0 {
		return nil, invalid("invalid order payload")
	}
	return &p, nil
}
