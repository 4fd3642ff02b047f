package logsvc

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/observa/core"
	"github.com/trezcool/observa/core/profile"
)

// RollbarLogger reports to rollbar and mirrors every entry, on one line, to a std logger.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetCustom(map[string]interface{}{"timezone": conf.Timezone})
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// entry is one log call, sorted out of its variadic args.
// rollbar only keeps one error and one extras map per item,
// so extra errors and every map are folded into custom.
type entry struct {
	msg    string
	err    error
	viewer *profile.Profile
	req    *http.Request
	ctx    context.Context
	custom map[string]interface{}
}

// expected args: error, map[string]interface{}, profile.Profile, *http.Request, context.Context.
// Anything else lands in custom under "args".
func newEntry(msg string, args []interface{}) entry {
	e := entry{msg: msg, custom: make(map[string]interface{})}
	var others []string
	var moreErrs []string
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
		case profile.Profile:
			if e.viewer == nil { // only one viewer
				viewer := v
				e.viewer = &viewer
				e.custom["viewer_role"] = v.Role
				if v.SchoolID != "" {
					e.custom["school_id"] = v.SchoolID
				}
			}
		case error:
			if e.err == nil {
				e.err = v
			} else {
				moreErrs = append(moreErrs, v.Error())
			}
		case map[string]interface{}:
			for k, val := range v {
				e.custom[k] = val
			}
		case *http.Request:
			e.req = v
			e.custom["route"] = v.Method + " " + v.URL.Path
		case context.Context:
			e.ctx = v
		default:
			others = append(others, fmt.Sprintf("%+v", v))
		}
	}
	if len(moreErrs) > 0 {
		e.custom["errors"] = moreErrs
	}
	if len(others) > 0 {
		e.custom["args"] = others
	}
	return e
}

func (e entry) rollbarArgs() []interface{} {
	args := []interface{}{e.msg}
	if e.err != nil {
		args = append(args, e.err)
	}
	if len(e.custom) > 0 {
		args = append(args, e.custom)
	}
	if e.req != nil {
		args = append(args, e.req)
	}
	if e.ctx != nil {
		args = append(args, e.ctx)
	}
	return args
}

// String renders the entry as `msg: err key=value ...`, keys sorted.
func (e entry) String() string {
	var b strings.Builder
	b.WriteString(e.msg)
	if e.err != nil {
		b.WriteString(": ")
		b.WriteString(e.err.Error())
	}
	if e.viewer != nil {
		fmt.Fprintf(&b, " viewer=%s", e.viewer.ID)
	}
	keys := make([]string, 0, len(e.custom))
	for k := range e.custom {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.custom[k])
	}
	return b.String()
}

func (l RollbarLogger) log(level, msg string, args []interface{}) entry {
	e := newEntry(msg, args)
	if e.viewer != nil {
		rollbar.SetPerson(e.viewer.ID, e.viewer.FullName, e.viewer.Email)
	} else {
		rollbar.ClearPerson()
	}
	rollbar.Log(level, e.rollbarArgs()...)
	l.std.Printf("[%s] %s", strings.ToUpper(level), e)
	return e
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	l.log(rollbar.DEBUG, msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	l.log(rollbar.INFO, msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	l.log(rollbar.WARN, msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	l.log(rollbar.ERR, msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(rollbar.CRIT, msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}
