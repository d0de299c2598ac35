package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"cultivar.farm/internal/gen"
	"cultivar.farm/internal/protocol"
	"cultivar.farm/internal/sim/world"
)

// Server bridges websocket clients onto the single-threaded farm
// world. All world access goes through s.mu.
type Server struct {
	world *world.World
	gen   gen.Generator
	log   *log.Logger

	mu       sync.Mutex
	upgrader websocket.Upgrader

	// OnAdvance, when set, runs after each completed ADVANCE while the
	// world lock is still held. Used by the host for save persistence.
	OnAdvance func(w *world.World)
}

func NewServer(w *world.World, g gen.Generator, logger *log.Logger) *Server {
	return &Server{
		world: w,
		gen:   g,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sessionID := s.handshake(conn)
		if sessionID == "" {
			return
		}

		out := make(chan []byte, 16)
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		s.enqueue(ctx, out, s.stateMsg())

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeAct {
				continue
			}
			var act protocol.ActMsg
			if err := json.Unmarshal(msg, &act); err != nil {
				s.enqueue(ctx, out, resultMsg("", false, protocol.ErrProtoBadRequest, "malformed ACT"))
				continue
			}
			if act.ProtocolVersion != protocol.Version {
				s.enqueue(ctx, out, resultMsg(act.ID, false, protocol.ErrProtoBadRequest, "bad protocol_version"))
				continue
			}

			res, state := s.dispatch(ctx, act)
			s.enqueue(ctx, out, res)
			s.enqueue(ctx, out, state)
		}
	}
}

func (s *Server) handshake(conn *websocket.Conn) string {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return ""
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return ""
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return ""
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return ""
	}

	s.mu.Lock()
	cfg := s.world.Config()
	cats := s.world.Catalogs()
	s.mu.Unlock()

	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       uuid.NewString(),
		FarmParams: protocol.FarmParams{
			Seed:             cfg.Seed,
			SeasonLengthDays: cfg.SeasonLengthDays,
			LocationName:     cfg.LocationName,
			Lat:              cfg.LocationLat,
			Lon:              cfg.LocationLon,
		},
		Catalogs: protocol.CatalogDigests{
			Plants: protocol.DigestRef{Digest: cats.Plants.Digest, Count: len(cats.Plants.IDs)},
			Items:  protocol.DigestRef{Digest: cats.Items.Digest, Count: len(cats.Items.IDs)},
		},
	}
	if err := writeJSON(conn, welcome); err != nil {
		return ""
	}
	return welcome.SessionID
}

// dispatch runs one player action against the world and returns the
// RESULT plus the post-action STATE.
func (s *Server) dispatch(ctx context.Context, act protocol.ActMsg) (protocol.ResultMsg, protocol.StateMsg) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.apply(ctx, act)

	res := protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		AckFor:          act.ID,
		OK:              err == nil,
	}
	if err != nil {
		var ae *world.ActionError
		if errors.As(err, &ae) {
			res.Code = ae.Code
			res.Message = ae.Msg
		} else {
			res.Code = protocol.ErrInternal
			res.Message = err.Error()
		}
	}
	return res, s.world.StateView()
}

func (s *Server) apply(ctx context.Context, act protocol.ActMsg) error {
	switch act.Action {
	case "PURCHASE_FIELD":
		f, ok := s.world.Field(act.FieldID)
		if !ok {
			return &world.ActionError{Code: protocol.ErrUnknownField, Msg: "unknown field " + act.FieldID}
		}
		return s.world.PurchaseField(act.FieldID, f.PurchasePrice)
	case "PLANT":
		return s.world.PlantCrop(act.FieldID, act.CropID)
	case "HARVEST":
		_, err := s.world.HarvestField(act.FieldID)
		return err
	case "CLEAR":
		return s.world.ClearField(act.FieldID)
	case "PURCHASE_ITEM":
		return s.world.PurchaseItem(act.ItemID, act.Quantity)
	case "APPLY_ITEM":
		return s.world.ApplyItem(act.FieldID, act.ItemID)
	case "DISMISS_ALERT":
		s.world.DismissAlert(act.AlertID)
		return nil
	case "ADVANCE":
		days := act.Days
		if days < 1 {
			days = 1
		}
		if days > 30 {
			days = 30
		}
		s.world.Advance(ctx, s.gen, days)
		if s.OnAdvance != nil {
			s.OnAdvance(s.world)
		}
		return nil
	default:
		return &world.ActionError{Code: protocol.ErrProtoBadRequest, Msg: "unknown action " + act.Action}
	}
}

func (s *Server) stateMsg() protocol.StateMsg {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.StateView()
}

func resultMsg(ackFor string, ok bool, code, message string) protocol.ResultMsg {
	return protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		AckFor:          ackFor,
		OK:              ok,
		Code:            code,
		Message:         message,
	}
}

func (s *Server) enqueue(ctx context.Context, out chan []byte, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Printf("ws: marshal: %v", err)
		return
	}
	select {
	case out <- b:
	case <-ctx.Done():
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
