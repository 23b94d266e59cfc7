package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"fuelpin/calculator"
	"fuelpin/model"
)

// 每次 start 新建一个计算
type Factory func() (calculator.Calculator, error)

// Hub 对应一个 websocket 连接，转发请求并串行写回响应
type Hub struct {
	conn    *websocket.Conn
	env     calculator.Config
	newCalc Factory
	// request
	msg chan model.Msg
	// response，只有 handleResponse 写连接
	out chan model.Msg

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
}

func NewHub(conn *websocket.Conn, env calculator.Config, f Factory) *Hub {
	return &Hub{
		conn:    conn,
		env:     env,
		newCalc: f,
		msg:     make(chan model.Msg, 10),
		out:     make(chan model.Msg, 10),
	}
}

func (h *Hub) handleResponse(ctx context.Context) {
	for {
		select {
		case reply := <-h.out:
			if err := h.conn.WriteJSON(&reply); err != nil {
				log.WithField("type", reply.Type).Warn("write: ", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) handleRequest(ctx context.Context) {
	for {
		select {
		case msg := <-h.msg:
			switch msg.Type {
			case "env":
				data, err := json.Marshal(h.env)
				if err != nil {
					h.send(ctx, model.Msg{Type: "error", Content: err.Error()})
					continue
				}
				h.send(ctx, model.Msg{Type: "envSet", Content: string(data)})
			case "start":
				h.start(ctx)
			case "stop":
				h.stop()
				h.send(ctx, model.Msg{Type: "stopped", Content: "stopped"})
			default:
				log.WithField("type", msg.Type).Warn("no such type")
				h.send(ctx, model.Msg{Type: "error", Content: "no such type: " + msg.Type})
			}
		case <-ctx.Done():
			h.stop()
			return
		}
	}
}

func (h *Hub) start(ctx context.Context) {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		h.send(ctx, model.Msg{Type: "error", Content: "calculation already running"})
		return
	}
	c, err := h.newCalc()
	if err != nil {
		h.mu.Unlock()
		h.send(ctx, model.Msg{Type: "error", Content: err.Error()})
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.running = true
	h.mu.Unlock()

	h.send(ctx, model.Msg{Type: "started"})
	go h.run(runCtx, c)
}

func (h *Hub) stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
	}
}

// 转发每个燃耗步结果，结束后报告 finished 或 error，被 stop 取消时不再回复
func (h *Hub) run(ctx context.Context, c calculator.Calculator) {
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	for r := range c.GetCalcHub().Reports {
		data, err := json.Marshal(r)
		if err != nil {
			log.Error("marshal report: ", err)
			continue
		}
		h.send(ctx, model.Msg{Type: "report", Content: string(data)})
	}
	err := <-done

	h.mu.Lock()
	h.running = false
	h.cancel = nil
	h.mu.Unlock()

	switch {
	case err == nil:
		h.send(ctx, model.Msg{Type: "finished"})
	case errors.Is(err, context.Canceled):
		log.Info("calculation stopped")
	default:
		log.Error("calculation: ", err)
		h.send(ctx, model.Msg{Type: "error", Content: err.Error()})
	}
}

func (h *Hub) send(ctx context.Context, m model.Msg) {
	select {
	case h.out <- m:
	case <-ctx.Done():
	}
}
