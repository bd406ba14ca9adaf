package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	protocolv1 "github.com/muhammadchandra19/relayer/internal/domain/protocol/v1"
	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
)

type session struct {
	conn      *websocket.Conn
	writeWait time.Duration

	mu     sync.Mutex
	closed bool
}

func (s *session) write(v protocolv1.ServerMessage) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.writeRaw(data)
}

func (s *session) writeRaw(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return websocket.ErrCloseSent
	}
	if s.writeWait > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeWait))
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		_ = s.conn.Close()
	}
}

func (r *Relay) serveWS(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.WarnContext(req.Context(), "websocket upgrade failed", logger.NewField("error", err.Error()))
		return
	}

	s := &session{conn: conn, writeWait: r.options.WriteWait}
	defer func() {
		r.leaveAll(s)
		s.close()
	}()

	ctx := req.Context()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		for _, res := range r.handle(ctx, s, data) {
			if err := s.write(res); err != nil {
				return
			}
		}
	}
}

// handle answers one client message. Subscriptions are answered with the
// pair's snapshot, unsubscriptions with nothing and mutations with one
// message per orderHash.
func (r *Relay) handle(ctx context.Context, s *session, data []byte) []protocolv1.ServerMessage {
	msg, err := protocolv1.DecodeClientMessage(data)
	if err != nil {
		return []protocolv1.ServerMessage{protocolv1.NewErrorMessage("", "", "", err)}
	}

	switch m := msg.(type) {
	case *protocolv1.SubscribeRequest:
		return r.subscribe(ctx, s, m)
	case *protocolv1.AddOrderRequest:
		return []protocolv1.ServerMessage{r.addOrder(ctx, m)}
	case *protocolv1.TerminateOrderRequest:
		return r.terminateOrders(ctx, m)
	}
	return []protocolv1.ServerMessage{protocolv1.NewErrorMessage("", "", "", errors.New(errors.ValidationError, "unsupported message", "message"))}
}

func unknownPair(pair string) error {
	return errors.New(errors.UnknownPair, "unknown pair "+pair, "pair")
}

func (r *Relay) subscribe(ctx context.Context, s *session, m *protocolv1.SubscribeRequest) []protocolv1.ServerMessage {
	fail := func(err error) []protocolv1.ServerMessage {
		return []protocolv1.ServerMessage{protocolv1.NewErrorMessage(protocolv1.ChannelOrderBooks, m.Method, m.Pair, err)}
	}
	if !r.serves(m.Pair) {
		return fail(unknownPair(m.Pair))
	}

	if m.Method == protocolv1.MethodUnsub {
		r.leave(m.Pair, s)
		return nil
	}

	// join first so no update published after the snapshot is missed
	r.join(m.Pair, s)
	snapshot, err := r.snapshot(ctx, m.Pair)
	if err != nil {
		r.logger.ErrorContext(ctx, err, logger.Pair(m.Pair), logger.Action("subscribe"))
		return fail(err)
	}
	if snapshot == nil {
		return fail(errors.New(errors.ServiceUnavailable, "no snapshot published yet", "pair"))
	}
	return []protocolv1.ServerMessage{protocolv1.NewSnapshotMessage(snapshot)}
}

func (r *Relay) addOrder(ctx context.Context, m *protocolv1.AddOrderRequest) protocolv1.ServerMessage {
	method := string(orderv1.MethodAdd)
	if !r.serves(m.Pair) {
		return protocolv1.NewErrorMessage(protocolv1.ChannelOrders, method, m.Pair, unknownPair(m.Pair))
	}
	payload, err := protocolv1.DecodeOrderPayload(m.Order)
	if err != nil {
		return protocolv1.NewErrorMessage(protocolv1.ChannelOrders, method, m.Pair, err)
	}

	userOrder, err := r.persistence.PersistOrder(ctx, orderv1.PersistRequest{
		Method:    orderv1.MethodAdd,
		Pair:      m.Pair,
		OrderHash: m.OrderHash,
		Order: &orderv1.LiveOrder{
			Pair:      m.Pair,
			OrderHash: m.OrderHash,
			Account:   payload.Account,
			Side:      payload.Side,
			Price:     payload.Price,
			Amount:    payload.Amount,
			Fee:       payload.Fee,
			FeeAsset:  payload.FeeAsset,
			Expiry:    payload.Expiry,
		},
		SignedOrder: m.Order,
		Requestor:   r.options.Requestor,
	})
	if err != nil {
		r.logRejection(ctx, err, m.Pair, m.OrderHash)
		return protocolv1.NewErrorMessage(protocolv1.ChannelOrders, method, m.Pair, err)
	}
	return protocolv1.NewOrderResponse(orderv1.MethodAdd, m.Pair, m.OrderHash, userOrder)
}

// terminateOrders answers with one message per orderHash, in request order.
func (r *Relay) terminateOrders(ctx context.Context, m *protocolv1.TerminateOrderRequest) []protocolv1.ServerMessage {
	method := string(orderv1.MethodTerminate)
	if !r.serves(m.Pair) {
		return []protocolv1.ServerMessage{protocolv1.NewErrorMessage(protocolv1.ChannelOrders, method, m.Pair, unknownPair(m.Pair))}
	}

	responses := make([]protocolv1.ServerMessage, 0, len(m.OrderHashes))
	for _, hash := range m.OrderHashes {
		userOrder, err := r.persistence.PersistOrder(ctx, orderv1.PersistRequest{
			Method:    orderv1.MethodTerminate,
			Pair:      m.Pair,
			OrderHash: hash,
			Requestor: r.options.Requestor,
		})
		if err != nil {
			r.logRejection(ctx, err, m.Pair, hash)
			responses = append(responses, protocolv1.NewErrorMessage(protocolv1.ChannelOrders, method, m.Pair, err))
			continue
		}
		responses = append(responses, protocolv1.NewOrderResponse(orderv1.MethodTerminate, m.Pair, hash, userOrder))
	}
	return responses
}

func (r *Relay) logRejection(ctx context.Context, err error, pair, orderHash string) {
	if errors.IsCode(err, errors.ValidationError) {
		r.logger.DebugContext(ctx, "mutation rejected", logger.Pair(pair), logger.OrderHash(orderHash), logger.NewField("reason", err.Error()))
		return
	}
	r.logger.ErrorContext(ctx, err, logger.Pair(pair), logger.OrderHash(orderHash))
}
