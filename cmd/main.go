package main

import (
	"log"
	"time"

	"chainvote/internal/app"
	"chainvote/internal/config"
	"chainvote/internal/hashing"
	"chainvote/internal/ledger"
	"chainvote/internal/ports/http"
	"chainvote/internal/voting"
	"chainvote/internal/wallet"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	logger, err := getLogger()
	if err != nil {
		log.Fatalln("setting up the logger failed: ", err)
		return
	}
	defer logger.Sync()

	logger.Info("application started",
		zap.String("network", config.GetNetwork()),
		zap.String("rpcUrl", config.GetRPCUrl()))

	hashing.Initialize(logger)

	client := ledger.NewClient(logger, config.GetRPCUrl())

	votingWallet, err := wallet.New(logger, client, config.GetWalletKey())
	if err != nil {
		logger.Error("failed to set up the wallet: " + err.Error())
		return
	}
	logger.Info("wallet ready", zap.String("address", votingWallet.Address()))

	submitter := voting.NewSubmitter(logger, client, votingWallet, config.GetPackageID())
	a := app.NewApp(logger, client, submitter,
		votingWallet.Address(), config.GetPackageID(), config.GetDashboardID(),
		prometheus.DefaultRegisterer)

	ser := http.NewServer(logger, a, config.GetPort())
	if err := ser.Run(); err != nil {
		logger.Error("failed to run the server: " + err.Error())
	}

	logger.Info("application finished")
}

func getLogger() (*zap.Logger, error) {
	options := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zap.FatalLevel),
	}

	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	zapConfig.Development = true
	zapConfig.Level.SetLevel(zap.DebugLevel)

	logger, err := zapConfig.Build()
	return logger.WithOptions(options...), err
}
