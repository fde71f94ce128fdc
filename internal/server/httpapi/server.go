// Package httpapi exposes the chat service over HTTP: a JSON API, multipart
// audio and image uploads, an SSE event stream fed by the in-process broker,
// and the /public static file tree for the fs storage backend.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/logging"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/config"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/pubsub"
	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/services"
)

type Server struct {
	users    *services.UserService
	groups   *services.GroupService
	messages *services.MessageService
	ingest   *services.IngestService
	profiles *services.ProfileService
	broker   *pubsub.Broker
	logger   logging.Logger

	secretKey []byte
	publicDir string

	httpServer *http.Server
}

func NewServer(cfg *config.Config, logger logging.Logger, broker *pubsub.Broker,
	users *services.UserService, groups *services.GroupService, messages *services.MessageService,
	ingest *services.IngestService, profiles *services.ProfileService) *Server {

	s := &Server{
		users:     users,
		groups:    groups,
		messages:  messages,
		ingest:    ingest,
		profiles:  profiles,
		broker:    broker,
		logger:    logger,
		secretKey: []byte(cfg.SecretKey),
		publicDir: cfg.PublicDir,
	}

	s.httpServer = &http.Server{
		Addr:              cfg.EndpointAddrHTTP,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Router builds the route table. Exposed separately so tests can drive the
// handlers through httptest without binding a port.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.authMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/signup", s.handleSignup).Methods(http.MethodPost)
	api.HandleFunc("/signin", s.handleSignin).Methods(http.MethodPost)
	api.HandleFunc("/user/{id}", s.handleGetUser).Methods(http.MethodGet)

	api.HandleFunc("/group", s.handleCreateGroup).Methods(http.MethodPost)
	api.HandleFunc("/group/{id}", s.handleGetGroup).Methods(http.MethodGet)
	api.HandleFunc("/group/{id}/join", s.handleJoinGroup).Methods(http.MethodPost)
	api.HandleFunc("/group/{id}/leave", s.handleLeaveGroup).Methods(http.MethodPost)
	api.HandleFunc("/group/{id}/members", s.handleListMembers).Methods(http.MethodGet)
	api.HandleFunc("/group/{id}/messages", s.handleListMessages).Methods(http.MethodGet)

	api.HandleFunc("/message", s.handleSendMessage).Methods(http.MethodPost)
	api.HandleFunc("/message/audio", s.handleSendAudio).Methods(http.MethodPost)

	api.HandleFunc("/profile", s.handleEditProfile).Methods(http.MethodPut)
	api.HandleFunc("/profile/{id}", s.handleGetProfile).Methods(http.MethodGet)

	api.HandleFunc("/subscribe/{topic}", s.handleSubscribe).Methods(http.MethodGet)

	r.PathPrefix("/public/").Handler(
		http.StripPrefix("/public/", http.FileServer(http.Dir(s.publicDir))))

	return r
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info(context.Background(), "http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
