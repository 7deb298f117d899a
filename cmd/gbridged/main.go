// Command gbridged runs the GBridge game server: it serves a websocket
// endpoint for gameplay traffic and an HTTP diagnostics endpoint for
// health/stats, following the flag/env wiring style of the teacher's
// cmd/pokersrv/main.go (flag overrides over env-loaded defaults, a single
// logging backend shared by every component).
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vctt94/bisonbotkit/logging"

	"github.com/gbridge/server/internal/audit"
	"github.com/gbridge/server/internal/config"
	"github.com/gbridge/server/pkg/diag"
	"github.com/gbridge/server/pkg/gameregistry"
	"github.com/gbridge/server/pkg/lobby"
	"github.com/gbridge/server/pkg/router"
	"github.com/gbridge/server/pkg/session"
	"github.com/gbridge/server/pkg/transport/ws"
	"github.com/gbridge/server/pkg/utils"
)

func main() {
	cfg := config.Load()

	var debugLevel string
	flag.StringVar(&cfg.Host, "host", cfg.Host, "Host to listen on")
	flag.IntVar(&cfg.Port, "port", cfg.Port, "Port to listen on")
	flag.IntVar(&cfg.MaxConnections, "maxconnections", cfg.MaxConnections, "Connection cap reported at startup (not enforced by the listener)")
	flag.IntVar(&cfg.TurnTimeoutSecs, "turntimeout", cfg.TurnTimeoutSecs, "Per-turn deadline in seconds (0 disables auto-play)")
	flag.IntVar(&cfg.ReconnectGraceSecs, "reconnectgrace", cfg.ReconnectGraceSecs, "Reconnect grace window in seconds")
	flag.StringVar(&cfg.AuditDBPath, "auditdb", cfg.AuditDBPath, "Path to SQLite audit database (blank disables auditing)")
	flag.StringVar(&cfg.DataDir, "datadir", cfg.DataDir, "Directory for server data and logs")
	flag.StringVar(&debugLevel, "debuglevel", cfg.LogLevel, "Logging level: trace, debug, info, warn, error")
	flag.Parse()

	if err := utils.EnsureDataDirExists(cfg.DataDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to prepare data directory: %v\n", err)
		os.Exit(1)
	}

	logBackend, err := logging.NewLogBackend(logging.LogConfig{DebugLevel: debugLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logging: %v\n", err)
		os.Exit(1)
	}
	log := logBackend.Logger("SERVER")

	auditStore, err := audit.Open(cfg.AuditDBPath, logBackend.Logger("AUDIT"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open audit store: %v\n", err)
		os.Exit(1)
	}
	defer auditStore.Close()

	sessions := session.NewRegistry(time.Duration(cfg.ReconnectGraceSecs) * time.Second)
	lobbies := lobby.NewRegistry()

	turnTimeout := time.Duration(cfg.TurnTimeoutSecs) * time.Second
	games := gameregistry.NewRegistry(turnTimeout, logBackend.Logger("GAME"))
	games.SetAuditor(auditStore)
	rt := router.New(lobbies, games, sessions, uuid.NewString, logBackend.Logger("ROUTER"))
	games.SetNotifier(rt)

	wsServer := ws.NewServer(sessions, rt, logBackend.Logger("TRANSPORT"))
	diagHandler := diag.NewHandler(sessions, games)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsServer.ServeHTTP)
	mux.HandleFunc("/health", diagHandler.Health)
	mux.HandleFunc("/stats", diagHandler.StatsHandler)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	log.Infof("gbridged listening on %s (max connections %d)", addr, cfg.MaxConnections)

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Errorf("server exited: %v", err)
		os.Exit(1)
	}
}
