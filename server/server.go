package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"fuelpin/calculator"
	"fuelpin/model"
)

type Server struct {
	addr     string
	upgrader websocket.Upgrader
	env      calculator.Config
	newCalc  Factory
	gatherer prometheus.Gatherer
}

// gatherer 为 nil 时不提供 /metrics
func NewServer(env calculator.Config, upgrader websocket.Upgrader, f Factory, g prometheus.Gatherer) *Server {
	return &Server{
		addr:     env.Addr,
		upgrader: upgrader,
		env:      env,
		newCalc:  f,
		gatherer: g,
	}
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("upgrade: ", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(conn, s.env, s.newCalc)
	go hub.handleRequest(ctx)
	go hub.handleResponse(ctx)
	for {
		var msg model.Msg
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("read: ", err)
			}
			return
		}
		select {
		case hub.msg <- msg:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	if s.gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

// 阻塞直到 ctx 取消或监听失败
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Warn("shutdown: ", err)
		}
	}()
	log.WithField("addr", s.addr).Info("serving")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
