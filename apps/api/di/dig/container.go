package dig_container

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/observa/apps/api/echo"
	"github.com/trezcool/observa/core"
	"github.com/trezcool/observa/core/compliance"
	"github.com/trezcool/observa/core/observation"
	"github.com/trezcool/observa/core/profile"
	"github.com/trezcool/observa/core/teacher"
	appfs "github.com/trezcool/observa/fs"
	emailsvc "github.com/trezcool/observa/services/email"
	logsvc "github.com/trezcool/observa/services/logger"
	metricsvc "github.com/trezcool/observa/services/metrics"
	"github.com/trezcool/observa/storage/database"
	inmemdb "github.com/trezcool/observa/storage/database/inmem"
	sqlxrepos "github.com/trezcool/observa/storage/database/sqlx"
)

const (
	engineMemory = "memory"

	// DevAdminID identifies the admin profile seeded into the memory engine.
	DevAdminID = "dev-admin"
)

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// Repositories are backed by postgres, or by process memory when the
	// database engine is "memory".
	Repositories struct {
		dig.Out
		Profiles     profile.Repository
		Teachers     teacher.Repository
		Observations observation.Repository
		Closer       io.Closer `name:"db"`
	}

	ServerParams struct {
		dig.In
		Conf           *core.Config
		Logger         core.Logger
		ProfileRepo    profile.Repository
		TeacherSvc     *teacher.Service
		ObservationSvc *observation.Service
		ComplianceSvc  *compliance.Service
		Recorder       *metricsvc.Recorder
	}
)

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newRepositories(conf *core.Config, loggerParam DBLoggerParam) Repositories {
	if conf.Database.Engine == engineMemory {
		db, err := inmemdb.Open()
		if err != nil {
			loggerParam.Logger.Fatal(fmt.Sprintf("opening memory database: %v", err), err)
		}
		db.AddProfiles(profile.Profile{
			ID:       DevAdminID,
			FullName: conf.AppName + " Admin",
			Email:    conf.DefaultFromEmail().Address,
			Role:     profile.RoleAdmin,
		})
		return Repositories{
			Profiles:     inmemdb.NewProfileRepository(db),
			Teachers:     inmemdb.NewTeacherRepository(db),
			Observations: inmemdb.NewObservationRepository(db),
			Closer:       nopCloser{},
		}
	}

	if err := database.CreateIfNotExist(conf); err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	if err = database.Migrate(context.Background(), db); err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
	}
	return Repositories{
		Profiles:     sqlxrepos.NewProfileRepository(db),
		Teachers:     sqlxrepos.NewTeacherRepository(db),
		Observations: sqlxrepos.NewObservationRepository(db),
		Closer:       db,
	}
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if err := core.LoadEmailTemplates(appfs.FS, appfs.TemplatesDir, conf); err != nil {
		logger.Fatal(fmt.Sprintf("loading email templates: %v", err), err)
	}
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newServer(p ServerParams) echoapi.Server {
	var metrics http.Handler = p.Recorder.Handler()
	return echoapi.NewServer(&echoapi.Options{
		Conf:           p.Conf,
		Logger:         p.Logger,
		ProfileRepo:    p.ProfileRepo,
		TeacherSvc:     p.TeacherSvc,
		ObservationSvc: p.ObservationSvc,
		ComplianceSvc:  p.ComplianceSvc,
		Metrics:        metrics,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newRepositories))
	must(c.Provide(newEmailService))
	must(c.Provide(metricsvc.NewRecorder))
	must(c.Provide(func(r *metricsvc.Recorder) compliance.Recorder { return r }))
	must(c.Provide(teacher.NewService))
	must(c.Provide(observation.NewService))
	must(c.Provide(compliance.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
