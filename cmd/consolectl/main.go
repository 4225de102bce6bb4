// Command consolectl drives the clinic console from a terminal. The session
// is kept in a file so it survives between invocations.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nirmalhealthcare/clinic-console/config"
	"github.com/nirmalhealthcare/clinic-console/internal/bulk"
	"github.com/nirmalhealthcare/clinic-console/internal/console"
	"github.com/nirmalhealthcare/clinic-console/internal/listview"
	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/nirmalhealthcare/clinic-console/internal/services"
	"github.com/nirmalhealthcare/clinic-console/internal/session"
	"github.com/nirmalhealthcare/clinic-console/pkg/clinicapi"
	"github.com/nirmalhealthcare/clinic-console/pkg/httpclient"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
)

const appName = "clinic-console"

var (
	version   = "dev"
	buildDate = "unknown"
)

var errUsage = errors.New("usage")

func usage(w io.Writer) {
	fmt.Fprintf(w, `consolectl
Usage:
  consolectl [-api URL] [-timeout 30s] [-v] <cmd> [args]

Commands:
  version
  login          -email <email> [-password <pw>]   (or CONSOLE_PASSWORD)
  logout
  whoami
  forgot-password -email <email>
  reset-password  -token <token> -password <pw>
  dashboard
  appointments   [-page N] [-status S] [-search Q] [-date PRESET] [-from D] [-to D]
  appointment-status -id <id> -status <status>
  appointments-delete -ids <id,id,...>
  contacts       [-page N] [-status S] [-search Q]
  contacts-read  -ids <id,id,...>
  testimonials   [-page N] [-status S]
  testimonial-add -first <name> -last <name> -feedback <text> [-photo file]
  notifications
  notifications-seen (-id <id> | -all)
`)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			usage(os.Stderr)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run parses global flags and dispatches one subcommand.
func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("consolectl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	apiURL := fs.String("api", envOr("API_BASE_URL", config.DefaultBackendURL), "clinic backend base URL")
	timeout := fs.Duration("timeout", 30*time.Second, "per-command timeout")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() < 1 {
		return errUsage
	}
	cmd, rest := fs.Arg(0), fs.Args()[1:]

	if cmd == "version" {
		fmt.Fprintf(out, "consolectl %s (%s)\n", version, buildDate)
		return nil
	}

	level := "error"
	if *verbose {
		level = "debug"
	}
	if err := logger.Initialize(logger.Config{Level: level, Environment: "development"}); err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	ws := console.Factory{
		Store:                session.NewFileStore(session.DefaultFilePath(appName)),
		KeyPrefix:            "cli",
		BaseURL:              strings.TrimRight(*apiURL, "/"),
		HTTPClient:           httpclient.NewStandardClient(*timeout),
		PageSize:             listview.DefaultPageSize,
		NotificationLimit:    services.DefaultNotificationLimit,
		NotificationInterval: 24 * time.Hour,
	}.New(ctx, "default")
	defer ws.Close()

	c := &cli{ws: ws, out: out}
	switch cmd {
	case "login":
		return c.login(ctx, rest)
	case "logout":
		ws.Auth.Logout(ctx)
		fmt.Fprintln(out, "logged out")
		return nil
	case "forgot-password":
		return c.forgotPassword(ctx, rest)
	case "reset-password":
		return c.resetPassword(ctx, rest)
	}

	// Everything below needs a verified session.
	ok, err := ws.Auth.Restore(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("not logged in (run: consolectl login)")
	}

	switch cmd {
	case "whoami":
		profile, err := ws.Auth.Profile(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, profile)
	case "dashboard":
		summary, err := ws.Dashboard.Summary(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, summary)
	case "appointments":
		return showList(ctx, ws.Appointments.List(), rest, out)
	case "appointment-status":
		return c.appointmentStatus(ctx, rest)
	case "appointments-delete":
		return bulkByIDs(ctx, ws.Appointments.List(), rest, ws.Appointments.BulkDelete, out)
	case "contacts":
		return showList(ctx, ws.Contacts.List(), rest, out)
	case "contacts-read":
		return bulkByIDs(ctx, ws.Contacts.List(), rest, ws.Contacts.BulkMarkAsRead, out)
	case "testimonials":
		return showList(ctx, ws.Testimonials.List(), rest, out)
	case "testimonial-add":
		return c.addTestimonial(ctx, rest)
	case "notifications":
		snap, err := ws.Notifications.Refresh(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, snap)
	case "notifications-seen":
		return c.notificationsSeen(ctx, rest)
	default:
		return errUsage
	}
}

type cli struct {
	ws  *console.Workspace
	out io.Writer
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "admin email")
	password := fs.String("password", os.Getenv("CONSOLE_PASSWORD"), "admin password")
	if err := fs.Parse(args); err != nil || *email == "" || *password == "" {
		return errUsage
	}

	profile, err := c.ws.Auth.Login(ctx, models.LoginRequest{Email: *email, Password: *password})
	if err != nil {
		return errors.New(services.UserMessage(err, services.LoginFailedMessage))
	}
	fmt.Fprintf(c.out, "logged in as %s <%s>\n", profile.Name, profile.Email)
	return nil
}

func (c *cli) forgotPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("forgot-password", flag.ContinueOnError)
	email := fs.String("email", "", "admin email")
	if err := fs.Parse(args); err != nil || *email == "" {
		return errUsage
	}

	msg, err := c.ws.Auth.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: *email})
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, msg)
	return nil
}

func (c *cli) resetPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	token := fs.String("token", "", "reset token from the email")
	password := fs.String("password", "", "new password")
	if err := fs.Parse(args); err != nil || *token == "" || *password == "" {
		return errUsage
	}

	msg, err := c.ws.Auth.ResetPassword(ctx, models.ResetPasswordRequest{Token: *token, NewPassword: *password})
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, msg)
	return nil
}

func (c *cli) appointmentStatus(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("appointment-status", flag.ContinueOnError)
	id := fs.String("id", "", "appointment id")
	status := fs.String("status", "", "new status")
	if err := fs.Parse(args); err != nil || *id == "" || *status == "" {
		return errUsage
	}

	req := models.UpdateAppointmentRequest{Status: models.AppointmentStatus(*status)}
	if !req.Status.IsValid() {
		return fmt.Errorf("invalid status %q", *status)
	}
	if err := c.ws.Appointments.UpdateStatus(ctx, *id, req); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "appointment updated")
	return nil
}

func (c *cli) addTestimonial(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("testimonial-add", flag.ContinueOnError)
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	feedback := fs.String("feedback", "", "feedback text")
	photoPath := fs.String("photo", "", "photo file")
	if err := fs.Parse(args); err != nil || *first == "" || *last == "" || *feedback == "" {
		return errUsage
	}

	var photo *clinicapi.Photo
	if *photoPath != "" {
		f, err := os.Open(*photoPath)
		if err != nil {
			return err
		}
		defer f.Close()
		photo = &clinicapi.Photo{FileName: filepath.Base(*photoPath), Content: f}
	}

	t, err := c.ws.Testimonials.Create(ctx, models.CreateTestimonialRequest{FirstName: *first, LastName: *last, Feedback: *feedback}, photo)
	if err != nil {
		return err
	}
	return printJSON(c.out, t.ToRow())
}

func (c *cli) notificationsSeen(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("notifications-seen", flag.ContinueOnError)
	id := fs.String("id", "", "notification id")
	all := fs.Bool("all", false, "mark every notification seen")
	if err := fs.Parse(args); err != nil || (*id == "") == !*all {
		return errUsage
	}

	var err error
	if *all {
		err = c.ws.Notifications.MarkAllSeen(ctx)
	} else {
		err = c.ws.Notifications.MarkSeen(ctx, *id)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, "done")
	return nil
}

// bulkByIDs selects ids on the first page and runs action over them.
func bulkByIDs[T models.Row](ctx context.Context, list *listview.Controller[T], args []string, action func(context.Context) (bulk.Summary, error), out io.Writer) error {
	fs := flag.NewFlagSet("bulk", flag.ContinueOnError)
	idList := fs.String("ids", "", "comma-separated ids")
	if err := fs.Parse(args); err != nil || strings.TrimSpace(*idList) == "" {
		return errUsage
	}

	list.Refresh()
	if err := list.Wait(ctx); err != nil {
		return err
	}
	for _, id := range strings.Split(*idList, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if !list.ToggleRow(id) {
			return fmt.Errorf("id %s is not on the first page", id)
		}
	}

	summary, err := action(ctx)
	if err != nil {
		return err
	}
	if err := printJSON(out, summary); err != nil {
		return err
	}
	if !summary.OK() {
		return errors.New(summary.Message)
	}
	return nil
}

func showList[T models.Row](ctx context.Context, list *listview.Controller[T], args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	page := fs.Int("page", 1, "page number")
	status := fs.String("status", "", "status filter")
	search := fs.String("search", "", "search text")
	preset := fs.String("date", "", "date preset")
	from := fs.String("from", "", "custom date or range start (YYYY-MM-DD)")
	to := fs.String("to", "", "range end (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if err := applyFilters(list, *status, *search, *preset, *from, *to, *page); err != nil {
		return err
	}
	if err := list.Wait(ctx); err != nil {
		return err
	}
	return printJSON(out, list.View())
}

// applyFilters updates the query. Each change fetches and only the last
// response is applied; an unchanged query is fetched once.
func applyFilters[T models.Row](list *listview.Controller[T], status, search, preset, from, to string, page int) error {
	before := list.Query()
	if preset != "" {
		if err := list.SetDateFilter(models.DateFilter{Preset: models.DatePreset(preset), From: from, To: to}); err != nil {
			return err
		}
	}
	if status != "" {
		list.SetStatus(status)
	}
	if search != "" {
		list.SetSearch(search)
		list.CommitSearch()
	}
	list.SetPage(page)
	if list.Query() == before {
		list.Refresh()
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
