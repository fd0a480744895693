package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"zliu.org/goutil/rest"
)

func main() {
	var (
		listenAddr = flag.String("listen", ":8080", "Server listen address")
		configFile = flag.String("config", "config/gateway.yaml", "Path to YAML configuration file")
		envFile    = flag.String("env-file", ".env", "Path to .env file (optional)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := loadEnvFile(*envFile); err != nil {
		log.Fatalf("Error loading environment file: %v", err)
	}

	rest.Log().Info().Msgf("Loading configuration from %s", *configFile)
	config, err := LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	serverCfg := &ServerConfig{
		ListenAddr: *listenAddr,
		Verbose:    *verbose,
	}

	rest.Log().Info().Msg("Initializing gateway server...")
	server, err := NewGatewayServer(context.Background(), config, serverCfg)
	if err != nil {
		log.Fatalf("Failed to create gateway server: %v", err)
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-stop:
		rest.Log().Info().Msgf("Received signal: %v", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server shutdown error: %v", err)
		}

		rest.Log().Info().Msg("Server stopped gracefully")
	}
}

// loadEnvFile loads environment variables from a .env file
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if os.IsNotExist(err) {
			rest.Log().Info().Msgf(".env file not found at %s, using system environment variables", path)
			return nil
		}
		return err
	}

	rest.Log().Info().Msgf("Loaded environment variables from %s", path)
	return nil
}
