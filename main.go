package main

import (
	"io"
	"log"
	"net/http"
	"os"

	"github.com/parisxmas/formforge/internal/config"
	"github.com/parisxmas/formforge/internal/gelf"
	"github.com/parisxmas/formforge/internal/handler"
	"github.com/parisxmas/formforge/internal/router"
	"github.com/parisxmas/formforge/internal/service"
	"github.com/parisxmas/formforge/internal/store"
)

func main() {
	cfg := config.Load()

	// GELF UDP logging
	if cfg.GelfAddr != "" {
		gelfWriter, err := gelf.New(cfg.GelfAddr)
		if err != nil {
			log.Printf("Warning: GELF init failed: %v", err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stderr, gelfWriter))
			log.Printf("GELF logging: enabled (%s)", cfg.GelfAddr)
		}
	}

	// Open the local store
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()
	log.Printf("Store ready at %s", cfg.DBPath)

	// Services
	authSvc := service.NewAuthService(st, cfg.JWTSecret)
	formSvc := service.NewFormService(st)
	subSvc := service.NewSubmissionService(st, formSvc)
	searchSvc := service.NewSearchService(st)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	formH := handler.NewFormHandler(formSvc)
	subH := handler.NewSubmissionHandler(subSvc)
	searchH := handler.NewSearchHandler(searchSvc)
	dashH := handler.NewDashboardHandler(formSvc, subSvc)

	// Router
	r := router.New(cfg.JWTSecret, authH, formH, subH, searchH, dashH)

	// Seed the admin account in the background so a slow bcrypt round
	// never delays the listener.
	go func() {
		if err := authSvc.SeedAdmin(cfg.AdminEmail, cfg.AdminPass); err != nil {
			log.Printf("Warning: failed to seed admin: %v", err)
		}
	}()

	log.Printf("formforge server starting on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
