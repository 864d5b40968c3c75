package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/zishang520/socket.io/v2/socket"

	"github.com/vk/dagcanvas/internal/graph"
	"github.com/vk/dagcanvas/internal/layout"
	"github.com/vk/dagcanvas/internal/renderer"
)

// Event names on the shared channel. The engine speaks canvas_data and
// change; the rest are host/front-end interaction events.
const (
	EventCanvasData = "canvas_data"
	EventChange     = "change"
	EventScene      = "scene"

	EventRunToNode    = "run_to_node"
	EventSetInput     = "set_input"
	EventPrevResult   = "prev_result"
	EventNextResult   = "next_result"
	EventToggleMap    = "toggle_map"
	EventRerunMapItem = "rerun_map_item"
	EventPointer      = "pointer"
	EventWheel        = "wheel"
	EventZoom         = "zoom"
	EventViewportSize = "viewport_size"
	EventFit          = "fit"
	EventClearStatus  = "clear_status"
)

// Server exposes one canvas renderer over a socket.io namespace: the
// engine pushes CanvasData snapshots in, run commands flow back out as
// change events, and interaction events from the front end mutate
// viewport and tracker state.
type Server struct {
	logger    *slog.Logger
	renderer  *renderer.Renderer
	namespace string

	io   *socket.Server
	http *http.Server
}

// New wires a channel server around the given renderer.
func New(logger *slog.Logger, rend *renderer.Renderer, namespace string) *Server {
	return &Server{
		logger:    logger,
		renderer:  rend,
		namespace: namespace,
	}
}

// Listen binds the socket.io endpoint and serves until the context is
// cancelled. Outbound renderer changes broadcast to every client on the
// namespace.
func (s *Server) Listen(ctx context.Context, addr string) error {
	s.io = socket.NewServer(nil, nil)

	ns := s.io.Of(s.namespace, nil)
	ns.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		s.logger.Info("Engine connected.", "sid", client.Id(), "namespace", s.namespace)
		s.bindClient(client)
	})

	s.renderer.OnChange(func(data graph.CanvasData) {
		if err := ns.Emit(EventChange, data); err != nil {
			s.logger.Error("Failed to emit change event", "error", err)
		}
	})

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", s.io.ServeHandler(nil))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	s.http = &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		s.close()
	}()

	s.logger.Info("Canvas channel listening.", "address", addr, "namespace", s.namespace)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("channel server failed: %w", err)
	}
	return nil
}

func (s *Server) close() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("Shutting down canvas channel...")
	s.io.Close(nil)
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Channel shutdown failed", "error", err)
	}
}

// bindClient attaches the inbound event handlers for one connection.
// Every handler decodes its payload and delegates to the renderer; a
// state-changing event is followed by a scene broadcast so viewers
// repaint.
func (s *Server) bindClient(client *socket.Socket) {
	client.On(EventCanvasData, func(datas ...any) {
		var snapshot graph.CanvasData
		if !s.decode(datas, &snapshot) {
			return
		}
		s.renderer.ApplySnapshot(snapshot)
		s.emitScene(client)
	})

	client.On(EventRunToNode, func(datas ...any) {
		var req struct {
			Node string `json:"node"`
		}
		if !s.decode(datas, &req) {
			return
		}
		s.renderer.RunToNode(req.Node)
		s.emitScene(client)
	})

	client.On(EventSetInput, func(datas ...any) {
		var req struct {
			Node  string `json:"node"`
			Port  string `json:"port"`
			Value any    `json:"value"`
		}
		if !s.decode(datas, &req) {
			return
		}
		s.renderer.SetInput(req.Node, req.Port, req.Value)
	})

	client.On(EventPrevResult, func(datas ...any) {
		if node, ok := s.decodeNode(datas); ok {
			s.renderer.PrevResult(node)
			s.emitScene(client)
		}
	})

	client.On(EventNextResult, func(datas ...any) {
		if node, ok := s.decodeNode(datas); ok {
			s.renderer.NextResult(node)
			s.emitScene(client)
		}
	})

	client.On(EventToggleMap, func(datas ...any) {
		if node, ok := s.decodeNode(datas); ok {
			s.renderer.ToggleMapItems(node)
			s.emitScene(client)
		}
	})

	client.On(EventRerunMapItem, func(datas ...any) {
		var req graph.MapItemRef
		if !s.decode(datas, &req) {
			return
		}
		s.renderer.RerunMapItem(req.Node, req.Index)
	})

	client.On(EventPointer, func(datas ...any) {
		var req struct {
			Phase        string  `json:"phase"` // down | move | up
			OnBackground bool    `json:"on_background"`
			DX           float64 `json:"dx"`
			DY           float64 `json:"dy"`
		}
		if !s.decode(datas, &req) {
			return
		}
		switch req.Phase {
		case "down":
			s.renderer.PointerDown(req.OnBackground)
		case "move":
			s.renderer.PointerMove(req.DX, req.DY)
		case "up":
			s.renderer.PointerUp()
		}
		s.emitScene(client)
	})

	client.On(EventWheel, func(datas ...any) {
		var req struct {
			X      float64 `json:"x"`
			Y      float64 `json:"y"`
			ZoomIn bool    `json:"zoom_in"`
		}
		if !s.decode(datas, &req) {
			return
		}
		s.renderer.Wheel(layout.Point{X: req.X, Y: req.Y}, req.ZoomIn)
		s.emitScene(client)
	})

	client.On(EventZoom, func(datas ...any) {
		var req struct {
			ZoomIn bool `json:"zoom_in"`
		}
		if !s.decode(datas, &req) {
			return
		}
		s.renderer.ZoomButton(req.ZoomIn)
		s.emitScene(client)
	})

	client.On(EventViewportSize, func(datas ...any) {
		var req struct {
			W float64 `json:"w"`
			H float64 `json:"h"`
		}
		if !s.decode(datas, &req) {
			return
		}
		s.renderer.SetViewportSize(req.W, req.H)
		s.emitScene(client)
	})

	client.On(EventFit, func(datas ...any) {
		s.renderer.Fit()
		s.emitScene(client)
	})

	client.On(EventClearStatus, func(datas ...any) {
		s.renderer.ClearStatus()
	})

	client.On("disconnect", func(...any) {
		s.logger.Info("Client disconnected.", "sid", client.Id())
	})
}

func (s *Server) emitScene(client *socket.Socket) {
	if err := client.Emit(EventScene, s.renderer.Scene()); err != nil {
		s.logger.Error("Failed to emit scene", "error", err)
	}
}

// decode re-marshals the socket.io payload through JSON into the target
// struct. Malformed payloads are logged and dropped; the channel never
// surfaces them as errors.
func (s *Server) decode(datas []any, target any) bool {
	if len(datas) == 0 {
		return false
	}
	raw, err := json.Marshal(datas[0])
	if err != nil {
		s.logger.Warn("Undecodable event payload, dropping.", "error", err)
		return false
	}
	if err := json.Unmarshal(raw, target); err != nil {
		s.logger.Warn("Malformed event payload, dropping.", "error", err)
		return false
	}
	return true
}

func (s *Server) decodeNode(datas []any) (string, bool) {
	var req struct {
		Node string `json:"node"`
	}
	if !s.decode(datas, &req) {
		return "", false
	}
	return req.Node, true
}
