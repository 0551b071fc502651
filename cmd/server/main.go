package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docbooth/internal"
	"docbooth/internal/api"
	"docbooth/internal/blobstore"
	"docbooth/internal/certs"
	"docbooth/internal/dashboard"
	"docbooth/internal/launcher"
	"docbooth/internal/ledger"
	"docbooth/internal/session"
	"docbooth/internal/utils"
)

func main() {
	cfg := internal.LoadConfig()

	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0755); err != nil {
		log.Fatal(err)
	}
	logger, err := utils.NewLogger(cfg.LogPath)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Close()
	go logger.RotateLog()

	db, err := blobstore.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("open database: ", err)
	}
	defer db.Close()

	var masterKey []byte
	if cfg.BlobEncryption {
		masterKey, err = blobstore.ReadMasterKey()
		if err != nil {
			log.Fatal("blob encryption enabled: ", err)
		}
	}
	store, err := blobstore.NewSQLiteStore(db, masterKey)
	if err != nil {
		log.Fatal(err)
	}
	lg, err := ledger.NewSQLiteLedger(db)
	if err != nil {
		log.Fatal(err)
	}

	l := &launcher.Launcher{
		Store:  store,
		Ledger: lg,
		Opener: &launcher.BrowserOpener{FallbackW: cfg.ScreenWidth, FallbackH: cfg.ScreenHeight},
		Origin: originFor(cfg.ListenAddr, cfg.TLS),
	}
	dash := dashboard.NewController(l)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessions := session.NewRegistry(time.Duration(cfg.SessionTTLMin) * time.Minute)
	sessions.StartGC(ctx, time.Minute)

	if cfg.WatchDrop {
		w := &dashboard.DropWatcher{Dir: cfg.DropDir, Ctl: dash, Logger: logger}
		go func() {
			if err := w.Watch(ctx); err != nil && ctx.Err() == nil {
				logger.Error("drop watcher stopped: " + err.Error())
			}
		}()
		logger.Info("watching drop folder " + cfg.DropDir)
	}

	r := api.NewRouter(&api.Server{
		Dash:     dash,
		Store:    store,
		Ledger:   lg,
		Sessions: sessions,
		Log:      logger,
	})

	logger.Info("Server running on " + cfg.ListenAddr)
	if cfg.TLS {
		certPath, keyPath, err := certs.NewCertManager(cfg.CertDir).Ensure()
		if err != nil {
			log.Fatal(err)
		}
		log.Fatal(http.ListenAndServeTLS(cfg.ListenAddr, certPath, keyPath, r))
	}
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, r))
}

// originFor turns a listen address into the URL viewer windows are pointed
// at. A bare port binds everywhere, so localhost is the reachable name.
func originFor(addr string, tls bool) string {
	scheme := "http://"
	if tls {
		scheme = "https://"
	}
	if strings.HasPrefix(addr, ":") {
		return scheme + "localhost" + addr
	}
	return scheme + addr
}
