package server

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"fishbone/internal/fishbone"
)

const (
	watchWSWriteWait = 10 * time.Second
	watchWSPongWait  = 60 * time.Second
	watchWSPingEvery = (watchWSPongWait * 9) / 10
)

var watchWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type watchInbound struct {
	Effect     string   `json:"effect"`
	Categories []string `json:"categories,omitempty"`
}

type watchOutbound struct {
	Type    string           `json:"type"` // stage_start | stage_done | result | error
	Stage   string           `json:"stage,omitempty"`
	Causes  int              `json:"causes,omitempty"`
	Result  *fishbone.Result `json:"result,omitempty"`
	Code    string           `json:"code,omitempty"`
	Message string           `json:"message,omitempty"`
}

// handleWatch runs one analysis per connection and streams stage events as
// they happen, then the final result.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := watchWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(watchWSPongWait)); err != nil {
		log.Printf("watch ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(watchWSPongWait))
	})

	var in watchInbound
	if err := conn.ReadJSON(&in); err != nil {
		return
	}

	writeCh := make(chan watchOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(watchWSPingEvery)
		defer ticker.Stop()
		for {
			select {
			case out, ok := <-writeCh:
				if !ok {
					return
				}
				if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	ctx := fishbone.WithHook(r.Context(), &watchHook{ch: writeCh})
	res, err := s.analyzer.Analyze(ctx, in.Effect, in.Categories)
	if err != nil {
		code := "internal"
		if errors.Is(err, fishbone.ErrEmptyEffect) {
			code = "invalid_argument"
		}
		writeCh <- watchOutbound{Type: "error", Code: code, Message: err.Error()}
	} else {
		writeCh <- watchOutbound{Type: "result", Result: &res}
	}
	close(writeCh)
	<-writerDone
}

// watchHook forwards stage transitions to the websocket writer.
type watchHook struct {
	ch chan<- watchOutbound
}

func (h *watchHook) StageStart(stage string) {
	h.ch <- watchOutbound{Type: "stage_start", Stage: stage}
}

func (h *watchHook) StageDone(stage string, st *fishbone.State) {
	total := 0
	for _, list := range st.Causes {
		total += len(list)
	}
	h.ch <- watchOutbound{Type: "stage_done", Stage: stage, Causes: total}
}
