package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/talgya/metropolis/internal/api"
	"github.com/talgya/metropolis/internal/persistence"
)

// ServeCmd runs the city generation HTTP API, backed by an optional SQLite
// city store.
type ServeCmd struct {
	Port int    `help:"Port to listen on" default:"8080"`
	DB   string `help:"SQLite store for saved cities" default:"data/cities.db"`
}

func (s *ServeCmd) Run() error {
	port := s.Port
	if env := os.Getenv("METRO_PORT"); env != "" {
		if p, err := strconv.Atoi(env); err == nil {
			port = p
		}
	}

	var db *persistence.DB
	if s.DB != "" {
		if dir := filepath.Dir(s.DB); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
		d, err := persistence.Open(s.DB)
		if err != nil {
			return err
		}
		db = d
		defer db.Close()
		slog.Info("city store opened", "path", s.DB)
	}

	srv := &api.Server{DB: db, Port: port}
	return srv.Start()
}
