// Package sequencer serves the sequencer protocol over WebSocket.
package sequencer

import (
	"net/http"

	"github.com/gorilla/websocket"

	orderv1 "github.com/muhammadchandra19/relayer/internal/domain/order/v1"
	protocolv1 "github.com/muhammadchandra19/relayer/internal/domain/protocol/v1"
	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/httplib"
	"github.com/muhammadchandra19/relayer/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/relayer/pkg/logger"
)

// Server answers sequence requests. Requests on one connection are answered
// in the order they were read.
type Server struct {
	sequencer orderv1.Sequencer
	logger    logger.Interface
	upgrader  websocket.Upgrader
}

// NewServer creates a Server handing out sequences from sequencer.
func NewServer(sequencer orderv1.Sequencer, log logger.Interface) *Server {
	return &Server{
		sequencer: sequencer,
		logger:    log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP routes of the sequencer.
func (s *Server) Handler(hc healthcheck.HealthCheck) http.Handler {
	r := httplib.NewRouter(hc)
	r.Get("/sequence", s.serveWS)
	return r
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WarnContext(r.Context(), "websocket upgrade failed", logger.NewField("error", err.Error()))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	s.logger.DebugContext(ctx, "sequencer client connected", logger.NewField("remote", r.RemoteAddr))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		req, err := protocolv1.DecodeSequenceRequest(data)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping malformed sequence request", logger.NewField("error", err.Error()))
			continue
		}

		res := protocolv1.SequenceResponse{
			Channel: protocolv1.ChannelSequence,
			Status:  protocolv1.StatusOK,
			Method:  req.Method,
		}
		seq, err := s.sequencer.NextSequence(ctx, req.Method)
		if err != nil {
			res.Status = string(errors.CodeOf(err))
			if !errors.IsCode(err, errors.UnknownPair) {
				s.logger.ErrorContext(ctx, err, logger.Pair(req.Method), logger.Action("next_sequence"))
			}
		} else {
			res.Sequence = seq
		}

		if err := conn.WriteJSON(res); err != nil {
			return
		}
	}
}
