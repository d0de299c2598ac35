package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"cultivar.farm/internal/protocol"
)

// A minimal client that plays the farm on its own: plants every empty
// owned field, harvests whatever is mature, and advances one day at a
// time. Useful for exercising a running server end to end.
func main() {
	var (
		url   = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name  = flag.String("name", "bot", "client name")
		crop  = flag.String("crop", "wheat", "crop to plant")
		days  = flag.Int("days", 10, "number of days to play")
		pause = flag.Duration("pause", 500*time.Millisecond, "delay between actions")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      *name,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	var seq int
	daysPlayed := 0

	for {
		select {
		case <-stop:
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME session=%s seed=%d location=%s", w.SessionID, w.FarmParams.Seed, w.FarmParams.LocationName)

		case protocol.TypeState:
			var st protocol.StateMsg
			if err := json.Unmarshal(msg, &st); err != nil {
				continue
			}
			if daysPlayed >= *days {
				logger.Printf("done: day=%d money=%d level=%d", st.Day, st.Money, st.Progress.Level)
				return
			}
			time.Sleep(*pause)
			act, advanced := nextAction(&st, *crop, &seq)
			if advanced {
				daysPlayed++
			}
			_ = conn.WriteJSON(act)

		case protocol.TypeResult:
			var res protocol.ResultMsg
			if err := json.Unmarshal(msg, &res); err != nil {
				continue
			}
			if !res.OK {
				logger.Printf("RESULT %s: %s %s", res.AckFor, res.Code, res.Message)
			}
		}
	}
}

// nextAction picks one thing to do: harvest first, then plant, then
// advance the day. Returns advanced=true for ADVANCE.
func nextAction(st *protocol.StateMsg, crop string, seq *int) (protocol.ActMsg, bool) {
	*seq++
	act := protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		ID:              fmt.Sprintf("bot_%d", *seq),
	}

	for _, f := range st.Fields {
		if f.Owned && f.Crop != nil && f.Crop.Mature {
			act.Action = "HARVEST"
			act.FieldID = f.ID
			return act, false
		}
	}
	for _, f := range st.Fields {
		if f.Owned && f.Crop == nil && st.Money >= 100 {
			act.Action = "PLANT"
			act.FieldID = f.ID
			act.CropID = crop
			return act, false
		}
	}
	act.Action = "ADVANCE"
	act.Days = 1
	return act, true
}
