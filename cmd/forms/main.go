// Command forms is the terminal client of the forms service.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vnkhanh/forms-app/client"
	"github.com/vnkhanh/forms-app/services"
	"github.com/vnkhanh/forms-app/session"
	"github.com/vnkhanh/forms-app/views"
)

// app carries what every command needs once the root pre-run has built it.
type app struct {
	in  io.Reader
	out io.Writer

	verbose     bool
	apiURL      string
	sessionFile string
	timeout     time.Duration
	locale      string

	cfg    clientConfig
	log    *zap.Logger
	store  session.Storage
	sess   *session.Session
	client *client.Client
	svc    *services.Services
	msg    *views.Messages
	nav    *views.History
	prompt *prompter

	// newLogger builds the logger; tests swap in a no-op one.
	newLogger func(verbose bool) (*zap.Logger, error)
}

func productionLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stderr"}
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return config.Build()
}

func newApp(in io.Reader, out io.Writer) *app {
	return &app{in: in, out: out, newLogger: productionLogger}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "forms",
		Short: "Build forms, collect responses and manage your account",
		Long: `forms talks to a forms backend over its REST API.

Sign in with "forms login", then create forms, add questions and share the
form id. Anyone can answer a form with "forms respond <form-id>".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&a.apiURL, "api-url", "", "Backend base URL (or set FORMS_API_URL)")
	flags.StringVar(&a.sessionFile, "session-file", "", "Session file (or set FORMS_SESSION_FILE)")
	flags.DurationVar(&a.timeout, "timeout", 0, "Request timeout (or set FORMS_TIMEOUT)")
	flags.StringVar(&a.locale, "locale", "", "Message language: en or et (or set FORMS_LOCALE)")

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.registerCmd(),
		a.profileCmd(),
		a.formsCmd(),
		a.questionsCmd(),
		a.respondCmd(),
		a.responsesCmd(),
	)
	return root
}

// setup resolves configuration and builds the session, client and services.
func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.log, err = a.newLogger(a.verbose); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if a.cfg, err = loadClientConfig(); err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		a.cfg.APIURL = a.apiURL
	}
	if flags.Changed("session-file") {
		a.cfg.SessionFile = a.sessionFile
	}
	if flags.Changed("timeout") {
		a.cfg.Timeout = a.timeout
	}
	if flags.Changed("locale") {
		a.cfg.Locale = a.locale
	}

	fs, err := session.OpenFileStorage(a.cfg.SessionFile)
	if err != nil {
		return err
	}
	a.store = fs
	a.sess = session.New(fs, a.log)
	a.nav = &views.History{}
	a.msg = views.NewMessages(a.cfg.Locale)
	a.prompt = newPrompter(a.in, a.out)
	a.client = client.New(client.Config{
		BaseURL: a.cfg.APIURL,
		Timeout: a.cfg.Timeout,
		Session: a.sess,
		Logger:  a.log,
		OnUnauthorized: func() {
			a.nav.Navigate(views.RouteLogin)
		},
	})
	a.svc = services.New(a.client, a.log)

	a.log.Debug("client ready",
		zap.String("api", a.cfg.APIURL),
		zap.String("session", a.cfg.SessionFile),
		zap.String("locale", a.msg.Locale()),
	)
	return nil
}

// requireLogin fails early for commands that need a token.
func (a *app) requireLogin() error {
	if !a.sess.LoggedIn() {
		return fmt.Errorf("not signed in, run \"forms login\" first")
	}
	return nil
}

func (a *app) println(s string) { fmt.Fprintln(a.out, s) }

func (a *app) success(s string) {
	if s != "" {
		a.println(successStyle.Render(s))
	}
}

// failure prints the view's field errors and returns the banner as the
// command error.
func (a *app) failure(banner string, fields map[string]string) error {
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		a.println(fieldErr.Render("  " + k + ": " + fields[k]))
	}
	if banner == "" {
		banner = "invalid input"
	}
	return errors.New(banner)
}

// hint tells the user where the last navigation would have taken them.
func (a *app) hint() {
	route := a.nav.Current()
	var next string
	switch {
	case route == views.RouteLogin:
		next = "forms login"
	case route == views.RouteForms:
		next = "forms forms list"
	case route == views.RouteProfile:
		next = "forms profile show"
	case strings.HasSuffix(route, "/edit"):
		next = "forms questions list " + routeID(route)
	case strings.HasSuffix(route, "/responses"):
		next = "forms responses list " + routeID(route)
	case strings.HasPrefix(route, views.RouteForms+"/"):
		next = "forms forms show " + routeID(route)
	default:
		return
	}
	a.println(mutedStyle.Render("Next: " + next))
}

func routeID(route string) string {
	parts := strings.Split(strings.TrimPrefix(route, views.RouteForms+"/"), "/")
	return parts[0]
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(newApp(os.Stdin, os.Stdout)).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}
