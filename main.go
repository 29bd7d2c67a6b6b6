package main

import (
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/viper"

	"github.com/Automattic/newspack-ads-sub000/config"
	"github.com/Automattic/newspack-ads-sub000/gam"
	"github.com/Automattic/newspack-ads-sub000/orderstore"
	"github.com/Automattic/newspack-ads-sub000/provision"
	"github.com/Automattic/newspack-ads-sub000/router"
)

const configFileName = "newspack-ads"

func main() {
	flag.Parse() // required for glog flags

	cfg, err := loadConfig()
	if err != nil {
		glog.Exitf("Configuration could not be loaded or did not pass validation: %v", err)
	}

	if err := serve(cfg); err != nil {
		glog.Exitf("newspack-ads provisioning server failed: %v", err)
	}
}

func loadConfig() (*config.Configuration, error) {
	v := viper.New()
	config.SetupViper(v, configFileName)
	return config.New(v)
}

func newStore(cfg *config.Configuration) (orderstore.Store, error) {
	if !cfg.Database.Enabled {
		glog.Info("Database disabled, order configs are kept in memory")
		return orderstore.NewMemoryStore(), nil
	}

	db, err := sql.Open("postgres", cfg.Database.ConnString())
	if err != nil {
		return nil, fmt.Errorf("opening order config database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging order config database: %w", err)
	}
	return orderstore.NewPostgresStore(db), nil
}

func serve(cfg *config.Configuration) error {
	store, err := newStore(cfg)
	if err != nil {
		return err
	}

	client := gam.NewHTTPClient(
		&http.Client{Timeout: 60 * time.Second},
		cfg.GAM.Endpoint,
		cfg.GAM.NetworkCode,
		cfg.GAM.APIKey,
	)
	engine := provision.NewEngine(client, store, cfg.Provisioning, cfg.GAM.AdvertiserID)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	glog.Infof("Provisioning server starting on: %s", addr)
	server := &http.Server{
		Addr:    addr,
		Handler: router.Handler(router.New(engine)),
	}
	return server.ListenAndServe()
}
