// Command scoring-demo serves the scoring API with the deterministic demo
// model, for local development against the gateway and demandctl.
package main

import (
	"flag"
	"log"
	"os"

	"DemandCast/internal/handler/scoring"
	"DemandCast/pkg/config"
	xhttp "DemandCast/pkg/http"
	applogger "DemandCast/pkg/logger"
	"DemandCast/pkg/server"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	port := flag.Int("port", 0, "listen port (overrides demo.port)")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *port > 0 {
		cfg.Demo.Port = *port
	}

	l, err := applogger.New(&cfg.Logging)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	l = l.With(applogger.String("service", "scoring-demo"))

	srv := xhttp.NewServer(scoring.NewDemoEchoHandler(l, scoring.DemoModel{}),
		xhttp.WithHost(cfg.Demo.Host),
		xhttp.WithPort(cfg.Demo.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(l),
	)

	if err := server.New(cfg, l, srv).Run(); err != nil {
		log.Printf("scoring-demo error: %v", err)
		os.Exit(1)
	}
}
