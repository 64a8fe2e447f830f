// Package cli implements the freelance command line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/sumire/freelance/internal/client"
	"github.com/sumire/freelance/internal/domain"
	"github.com/sumire/freelance/internal/notify"
	"github.com/sumire/freelance/internal/repository"
	"github.com/sumire/freelance/internal/service"
	"github.com/sumire/freelance/internal/session"
	"github.com/sumire/freelance/internal/workspace"
)

const (
	RootCmdLiteral = "freelance"
	RootCmdExample = `# Use a local database
freelance --db ./freelance.db --user me@example.com dashboard

# Use a running server
freelance --api http://localhost:8080 --token $TOKEN projects list`
)

// options are the global flags.
type options struct {
	api   string
	token string
	db    string
	user  string
	debug bool
}

// app is the state shared by every command once the source is open.
type app struct {
	opts   options
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	ws *workspace.Workspace
	db *sqlx.DB

	// afterFunc schedules the dashboard reveal timer; nil uses time.AfterFunc.
	afterFunc workspace.AfterFunc
}

// Run executes the command line args. Output goes to out, notifications
// and logs to errOut.
func Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	cmd, a := newRootCommand(in, out, errOut)
	defer a.close()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCommand(in io.Reader, out, errOut io.Writer) (*cobra.Command, *app) {
	a := &app{in: in, out: out, errOut: errOut}

	cmd := &cobra.Command{
		Use:           RootCmdLiteral,
		Short:         "Track client projects, requirements, meetings and payments",
		Long:          "freelance manages a freelancer's projects and everything attached to them, either in a local SQLite file or through a freelance server.",
		Example:       RootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.HasSubCommands() {
				return nil
			}
			return a.open(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.opts.api, "api", os.Getenv("FREELANCE_API"), "server base URL (env FREELANCE_API)")
	flags.StringVar(&a.opts.token, "token", os.Getenv("FREELANCE_TOKEN"), "server access token (env FREELANCE_TOKEN)")
	flags.StringVar(&a.opts.db, "db", os.Getenv("FREELANCE_DB"), "local SQLite database file (env FREELANCE_DB)")
	flags.StringVar(&a.opts.user, "user", os.Getenv("FREELANCE_USER"), "email to sign in as (env FREELANCE_USER)")
	flags.BoolVar(&a.opts.debug, "debug", false, "log debug output to stderr")

	cmd.AddCommand(
		newDashboardCommand(a),
		newProjectsCommand(a),
		newRequirementsCommand(a),
		newPaymentsCommand(a),
		newMeetingsCommand(a),
	)
	return cmd, a
}

// Execute runs the CLI against the process's standard streams.
func Execute() int {
	if err := Run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) open(ctx context.Context) error {
	level := slog.LevelError
	if a.opts.debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level})))

	var (
		sources  workspace.Sources
		identity domain.Identity
		err      error
	)
	switch {
	case a.opts.api != "" && a.opts.db != "":
		return errors.New("use either --api or --db, not both")
	case a.opts.api != "":
		sources, identity, err = a.openRemote(ctx)
	case a.opts.db != "":
		sources, identity, err = a.openLocal(ctx)
	default:
		return errors.New("no data source: pass --db for a local file or --api for a server")
	}
	if err != nil {
		return err
	}

	sess := session.New()
	a.ws = workspace.New(sources, sess, notify.NewWriter(a.errOut))
	a.ws.Watch(ctx)
	sess.SignIn(identity)
	return nil
}

func (a *app) openRemote(ctx context.Context) (workspace.Sources, domain.Identity, error) {
	remote := client.New(a.opts.api, client.WithToken(a.opts.token))

	if a.opts.token == "" {
		if a.opts.user == "" {
			return workspace.Sources{}, domain.Identity{}, errors.New("--token or --user is required with --api")
		}
		user, _, err := remote.SignInLocal(ctx, a.opts.user, "")
		if err != nil {
			return workspace.Sources{}, domain.Identity{}, fmt.Errorf("sign in: %w", err)
		}
		return remoteSources(remote), user.Identity(), nil
	}

	user, err := remote.Me(ctx)
	if client.IsAuthError(err) {
		return workspace.Sources{}, domain.Identity{}, errors.New("token rejected, sign in again with --user or pass a new --token")
	}
	if err != nil {
		return workspace.Sources{}, domain.Identity{}, fmt.Errorf("identify token: %w", err)
	}
	return remoteSources(remote), user.Identity(), nil
}

func remoteSources(remote *client.Client) workspace.Sources {
	return workspace.Sources{
		Projects:     remote.Projects(),
		Requirements: remote.Requirements(),
		Payments:     remote.Payments(),
		Meetings:     remote.Meetings(),
	}
}

func (a *app) openLocal(ctx context.Context) (workspace.Sources, domain.Identity, error) {
	if a.opts.user == "" {
		return workspace.Sources{}, domain.Identity{}, errors.New("--user is required with --db")
	}

	db, err := repository.Open(ctx, repository.DriverSQLite, repository.SQLiteDSN(a.opts.db))
	if err != nil {
		return workspace.Sources{}, domain.Identity{}, err
	}
	a.db = db

	auth := service.NewAuthService(repository.NewUserRepository(db), service.AuthConfig{
		JWTSecret:   "local",
		LocalSignIn: true,
	})
	user, _, err := auth.SignInLocal(ctx, a.opts.user, "")
	if err != nil {
		return workspace.Sources{}, domain.Identity{}, fmt.Errorf("sign in: %w", err)
	}

	services := service.NewServices(service.Tables{
		Projects:     repository.NewProjectTable(db),
		Requirements: repository.NewRequirementTable(db),
		Payments:     repository.NewPaymentTable(db),
		Meetings:     repository.NewMeetingTable(db),
	}, service.NewValidator())

	return workspace.Sources{
		Projects:     services.Projects,
		Requirements: services.Requirements,
		Payments:     services.Payments,
		Meetings:     services.Meetings,
	}, user.Identity(), nil
}

func (a *app) close() {
	if a.ws != nil {
		a.ws.Close()
		a.ws = nil
	}
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}

// projectName returns the name of a loaded project, or its id when unknown.
func (a *app) projectName(id string) string {
	if p, ok := a.ws.Projects.Find(id); ok {
		return p.Name
	}
	return id
}
