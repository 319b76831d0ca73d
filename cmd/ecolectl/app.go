package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecolenet/school-portal/internal/core/domain"
	"github.com/ecolenet/school-portal/internal/core/service"
	"github.com/ecolenet/school-portal/internal/infrastructure/backend"
	"github.com/ecolenet/school-portal/internal/infrastructure/db/filestore"
)

var (
	errUsage       = errors.New("usage")
	errNotLoggedIn = errors.New("not logged in, run: ecolectl login -username NAME")
)

type app struct {
	out          io.Writer
	backendURL   string
	storePath    string
	downloadDir  string
	readPassword func() (string, error)
	log          zerolog.Logger
}

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":              {"login -username NAME", cmdLogin},
	"logout":             {"logout", cmdLogout},
	"whoami":             {"whoami", cmdWhoami},
	"classes":            {"classes", cmdClasses},
	"subjects":           {"subjects", cmdSubjects},
	"report":             {"report -student ID", cmdReport},
	"attendance-history": {"attendance-history [-classe ID] [-student ID] [-status S] [-date YYYY-MM-DD]", cmdAttendanceHistory},
	"bulletin":           {"bulletin -id ID -student ID [-dir DIR]", cmdBulletin},
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(a.out, "unknown command %q\n", args[0])
		a.usage()
		return errUsage
	}
	return cmd.run(ctx, a, args[1:])
}

func (a *app) usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(a.out, "usage: ecolectl <command> [flags]")
	for _, name := range names {
		fmt.Fprintf(a.out, "  %s\n", commands[name].usage)
	}
}

// printNavigator reports the route the portal would open.
type printNavigator struct{ out io.Writer }

func (n printNavigator) Navigate(_ context.Context, route string) {
	fmt.Fprintf(n.out, "→ %s\n", route)
}

// open hydrates the local session and returns a backend client that signs
// requests with its token. The session may still be initializing when the
// file could not be read; see readable.
func (a *app) open(ctx context.Context) (*service.SessionContext, *backend.Client, error) {
	store := filestore.New(a.storePath).WithLogger(a.log)
	sessions := service.NewSessionContext(ctx, store, printNavigator{a.out}, a.log)
	base, err := backend.New(a.backendURL, &http.Client{Timeout: 30 * time.Second}, a.log)
	if err != nil {
		return nil, nil, err
	}
	return sessions, base.WithTokens(sessions), nil
}

func (a *app) readable(sessions *service.SessionContext) error {
	if state, _ := sessions.Snapshot(); state == domain.StateInitializing {
		return fmt.Errorf("cannot read session file %s, run: ecolectl logout", a.storePath)
	}
	return nil
}

// authed is open for commands that need a signed-in user.
func (a *app) authed(ctx context.Context) (*domain.Session, *backend.Client, error) {
	sessions, cl, err := a.open(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := a.readable(sessions); err != nil {
		return nil, nil, err
	}
	state, sess := sessions.Snapshot()
	if state != domain.StateAuthenticated {
		return nil, nil, errNotLoggedIn
	}
	return sess, cl, nil
}

func (a *app) parse(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(a.out)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("username", "", "account name")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if *username == "" {
		fs.Usage()
		return errUsage
	}
	password, err := a.readPassword()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	sessions, cl, err := a.open(ctx)
	if err != nil {
		return err
	}
	if err := a.readable(sessions); err != nil {
		return err
	}
	sess, err := service.NewAuthService(cl.Auth(), a.log).Login(ctx, sessions, *username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "signed in as %s (%s)\n", sess.Username, sess.UIRole)
	return nil
}

// cmdLogout clears the session file whatever state it is in.
func cmdLogout(ctx context.Context, a *app, _ []string) error {
	sessions, cl, err := a.open(ctx)
	if err != nil {
		return err
	}
	service.NewAuthService(cl.Auth(), a.log).Logout(ctx, sessions)
	fmt.Fprintln(a.out, "signed out")
	return nil
}

func cmdWhoami(ctx context.Context, a *app, _ []string) error {
	sess, _, err := a.authed(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s\t%s\t%s\tid=%d\n", sess.Username, sess.UIRole, sess.BackendRole, sess.UserID)
	if claims, err := backend.TokenClaims(sess.Token); err == nil && !claims.ExpiresAt.IsZero() {
		state := "valid"
		if claims.Expired(time.Now()) {
			state = "expired"
		}
		fmt.Fprintf(a.out, "token %s until %s\n", state, claims.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

func cmdClasses(ctx context.Context, a *app, _ []string) error {
	sess, cl, err := a.authed(ctx)
	if err != nil {
		return err
	}
	var classes []domain.Classe
	if sess.BackendRole == domain.RoleProfessor {
		classes, err = cl.Classes().Mine(ctx)
	} else {
		classes, err = cl.Classes().List(ctx)
	}
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTUDENTS")
	for _, c := range classes {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", c.ID, c.Name, c.StudentCount)
	}
	return tw.Flush()
}

func cmdSubjects(ctx context.Context, a *app, _ []string) error {
	sess, cl, err := a.authed(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCLASS\tPROFESSOR")
	if sess.BackendRole == domain.RoleProfessor {
		subjects, err := cl.Subjects().Mine(ctx)
		if err != nil {
			return err
		}
		for _, s := range subjects {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", s.ID, s.Name, s.Classe, sess.Username)
		}
		return tw.Flush()
	}
	catalog, err := service.NewDashboardService(service.Backends{
		Users:    cl.Users(),
		Classes:  cl.Classes(),
		Subjects: cl.Subjects(),
	}).SubjectCatalog(ctx)
	if err != nil {
		return err
	}
	for _, s := range catalog {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.ID, s.Name, s.ClasseName, s.ProfessorName)
	}
	return tw.Flush()
}

func cmdReport(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	student := fs.Int64("student", 0, "student id, defaults to the signed-in student")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	sess, cl, err := a.authed(ctx)
	if err != nil {
		return err
	}
	id := *student
	if id == 0 && sess.BackendRole == domain.RoleStudent {
		id = sess.UserID
	}
	if id <= 0 {
		fs.Usage()
		return errUsage
	}
	report, err := cl.Grades().StudentReport(ctx, id)
	if err != nil {
		return err
	}
	return a.printJSON(report)
}

func cmdAttendanceHistory(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("attendance-history", flag.ContinueOnError)
	var f domain.AttendanceFilter
	var status string
	fs.Int64Var(&f.Classe, "classe", 0, "class id")
	fs.Int64Var(&f.Student, "student", 0, "student id")
	fs.StringVar(&status, "status", "", "present, absent or late")
	fs.StringVar(&f.Date, "date", "", "day as YYYY-MM-DD")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if status != "" {
		f.Status = domain.AttendanceStatus(status)
		if !f.Status.Valid() {
			return fmt.Errorf("invalid status %q", status)
		}
	}
	_, cl, err := a.authed(ctx)
	if err != nil {
		return err
	}
	records, err := cl.Attendance().History(ctx, f)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tCLASS\tSTUDENT\tSTATUS")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", r.Date, r.Classe, r.Student, r.Status)
	}
	return tw.Flush()
}

func cmdBulletin(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("bulletin", flag.ContinueOnError)
	id := fs.Int64("id", 0, "bulletin id")
	student := fs.Int64("student", 0, "student id, defaults to the signed-in student")
	dir := fs.String("dir", a.downloadDir, "directory the PDF is written to")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	sess, cl, err := a.authed(ctx)
	if err != nil {
		return err
	}
	sid := *student
	if sid == 0 && sess.BackendRole == domain.RoleStudent {
		sid = sess.UserID
	}
	if *id <= 0 || sid <= 0 {
		fs.Usage()
		return errUsage
	}
	d, err := cl.Bulletins().DownloadStudent(ctx, *id, sid)
	if err != nil {
		return err
	}
	path, err := backend.SaveBulletin(d, *dir)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, path)
	return nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
