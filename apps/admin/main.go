package main

import (
	"log"
	"os"

	"golang.org/x/term"

	"github.com/trezcool/observa/core"
	"github.com/trezcool/observa/core/compliance"
	appfs "github.com/trezcool/observa/fs"
	emailsvc "github.com/trezcool/observa/services/email"
	logsvc "github.com/trezcool/observa/services/logger"
	metricsvc "github.com/trezcool/observa/services/metrics"
	"github.com/trezcool/observa/storage/database"
	sqlxrepos "github.com/trezcool/observa/storage/database/sqlx"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()

	stdLogger := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	rlogger := logsvc.NewRollbarLogger(stdLogger, conf)
	rlogger.Enable(!conf.Debug)
	logger = rlogger

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)

	// set up services
	errAndDie(core.LoadEmailTemplates(appfs.FS, appfs.TemplatesDir, conf))
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	profileRepo := sqlxrepos.NewProfileRepository(db)

	// start CLI
	cli := commandLine{
		out:         os.Stdout,
		jsonOutput:  !term.IsTerminal(int(os.Stdout.Fd())),
		db:          db,
		profileRepo: profileRepo,
		complianceSvc: compliance.NewService(
			conf,
			profileRepo,
			sqlxrepos.NewTeacherRepository(db),
			sqlxrepos.NewObservationRepository(db),
			mailSvc,
			metricsvc.NewRecorder(),
			logger,
		),
	}
	err = cli.run(os.Args)
	mailSvc.Wait()
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error("admin command failed", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
