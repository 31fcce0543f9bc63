package main

import (
	"log"
	"os"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/class"
	"github.com/trezcool/mahudhurio/core/report"
	"github.com/trezcool/mahudhurio/core/session"
	emailsvc "github.com/trezcool/mahudhurio/services/email"
	identitysvc "github.com/trezcool/mahudhurio/services/identity"
	logsvc "github.com/trezcool/mahudhurio/services/logger"
	"github.com/trezcool/mahudhurio/storage/backendapi"
	tokenstore "github.com/trezcool/mahudhurio/storage/token"
)

func main() {
	defer os.Exit(0)

	std := log.New(os.Stdout, "ATTENDCTL : ", log.LstdFlags|log.Lmicroseconds)
	conf := core.NewConfig()

	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	// set up services
	tokens := tokenstore.NewFileStore(conf.TokenPath)
	api := backendapi.NewClient(conf, tokens)
	provider := identitysvc.NewHTTPProvider(conf)
	mgr := session.NewManager(provider, api, tokens, logger)

	cli := commandLine{
		mgr:       mgr,
		classSvc:  class.NewService(api),
		attRepo:   api,
		reportSvc: report.NewService(api),
		mailSvc:   mailSvc,
		out:       os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		os.Exit(1)
	}
}
