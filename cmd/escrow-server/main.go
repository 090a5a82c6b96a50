package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/assetmarket/escrow-server/pkg/escrow"
	escrow_web "github.com/assetmarket/escrow-server/pkg/escrow/web"
	"github.com/assetmarket/escrow-server/pkg/solana"
	"github.com/assetmarket/escrow-server/pkg/solana/mplcore"
)

const (
	envPrefix = "escrow"

	rpcEndpointConfigKey   = "rpc_endpoint"
	listenAddressConfigKey = "listen_address"
	shutdownGraceConfigKey = "shutdown_grace"

	defaultListenAddress = ":8080"
	defaultShutdownGrace = 10 * time.Second
)

var osSigCh = make(chan os.Signal, 1)

func init() {
	signal.Notify(osSigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
}

func main() {
	log := logrus.StandardLogger().WithField("type", "escrow/main")
	logrus.SetFormatter(&logrus.JSONFormatter{})

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	viper.SetDefault(listenAddressConfigKey, defaultListenAddress)
	viper.SetDefault(shutdownGraceConfigKey, defaultShutdownGrace)

	rpcEndpoint := viper.GetString(rpcEndpointConfigKey)
	if len(rpcEndpoint) == 0 {
		log.Error("rpc endpoint must be configured")
		os.Exit(1)
	}

	client := solana.New(rpcEndpoint)
	engine := escrow.NewEngine(client, mplcore.NewRPCSource(client))

	mux := http.NewServeMux()
	for path, handler := range escrow_web.NewEscrowServer(engine).GetHandlers() {
		mux.HandleFunc(path, handler)
	}

	httpServer := &http.Server{
		Addr:    viper.GetString(listenAddressConfigKey),
		Handler: mux,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		log.WithField("address", httpServer.Addr).Info("serving http")
		serveErrCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErrCh:
		log.WithError(err).Error("http server failed")
		os.Exit(1)
	case sig := <-osSigCh:
		log.WithField("signal", sig.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), viper.GetDuration(shutdownGraceConfigKey))
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to shut down cleanly")
		os.Exit(1)
	}
}
