package main

import (
	"log"
	"os"

	"github.com/trezcool/mahudhurio/core"
	logsvc "github.com/trezcool/mahudhurio/services/logger"
)

// stubsrv serves the REST surface the attendance client consumes, backed by
// in-memory state. For local development only.
func main() {
	std := log.New(os.Stdout, "STUBSRV : ", log.LstdFlags|log.Lmicroseconds)
	conf := core.NewConfig()
	logger := logsvc.NewStdLogger(std)

	store := newMemoryStore(
		account{Email: "teacher@example.com", Password: "password"},
	)

	app := NewServer(conf, &Options{
		Address: conf.Server.Address,
		Store:   store,
		Logger:  logger,
	})
	logger.Info("stub backend listening on " + conf.Server.Address)
	app.Start()
}
