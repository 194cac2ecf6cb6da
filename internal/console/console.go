// Package console wires the core packages into the interactive console:
// it owns routing between the unauthenticated prompt and the protected
// dashboard commands, the unauthorized callback that tears the session
// down, and the post-login return to the command that was interrupted.
// It is presentation glue; resource and session logic live in pkg/.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ignacio/twitter-console/internal/config"
	"github.com/ignacio/twitter-console/pkg/api"
	"github.com/ignacio/twitter-console/pkg/session"
)

// Version is the twitter-console release version.
const Version = "0.1.0"

// Console is the interactive command loop.
type Console struct {
	client   *api.Client
	sessions *session.Manager
	logger   *slog.Logger
	in       *bufio.Scanner
	out      io.Writer

	// pending is the protected command to re-run after a successful
	// login, mirroring a post-login redirect to the originally requested
	// destination.
	pending []string
}

// New builds a console from configuration.
func New(cfg *config.Config, logger *slog.Logger, in io.Reader, out io.Writer) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	client := api.NewClient(cfg.API.BaseURL,
		api.WithLogger(logger),
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
	)
	store := session.NewFileStore(cfg.Session.Path)
	return &Console{
		client:   client,
		sessions: session.NewManager(store, client, logger),
		logger:   logger,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run reads commands until EOF, quit, or context cancellation.
func (c *Console) Run(ctx context.Context) error {
	if c.sessions.Authenticated() {
		current := c.sessions.Current()
		c.printf("Welcome back, %s.\n", current.Username)
	} else {
		c.printf("Not logged in. Use: login <username> <password>\n")
	}

	for {
		c.printf("> ")
		if !c.in.Scan() {
			return c.in.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		args := strings.Fields(c.in.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			return nil
		}
		c.dispatch(ctx, args)
	}
}

func (c *Console) dispatch(ctx context.Context, args []string) {
	switch args[0] {
	case "help":
		c.printHelp()
	case "login":
		c.login(ctx, args[1:])
	case "logout":
		c.sessions.Logout()
		c.printf("Logged out.\n")
	case "signup":
		c.signup(ctx, args[1:])
	case "whoami":
		c.whoami()
	case "users":
		c.protected(ctx, args, c.usersCommand)
	case "tweets":
		c.protected(ctx, args, c.tweetsCommand)
	default:
		c.printf("Unknown command %q. Try help.\n", args[0])
	}
}

// protected gates a command on an active session. When anonymous, the
// command is remembered and re-run after the next successful login.
func (c *Console) protected(ctx context.Context, args []string, run func(context.Context, []string)) {
	if !c.sessions.Authenticated() {
		c.pending = args
		c.printf("Login required. Use: login <username> <password>\n")
		return
	}
	run(ctx, args[1:])
}

func (c *Console) login(ctx context.Context, args []string) {
	if len(args) != 2 {
		c.printf("Usage: login <username> <password>\n")
		return
	}
	if err := c.sessions.Login(ctx, args[0], args[1]); err != nil {
		c.printf("Login failed: %s\n", api.MessageFor(err))
		return
	}
	c.printf("Logged in as %s.\n", args[0])

	if pending := c.pending; pending != nil {
		c.pending = nil
		c.dispatch(ctx, pending)
	}
}

func (c *Console) signup(ctx context.Context, args []string) {
	if len(args) < 4 {
		c.printf("Usage: signup <email> <handle> <username> <password> [first] [last]\n")
		return
	}
	payload := api.UserRequest{Email: args[0], Handle: args[1], Username: args[2], Password: args[3]}
	if len(args) > 4 {
		payload.FirstName = args[4]
	}
	if len(args) > 5 {
		payload.LastName = args[5]
	}
	user, err := c.client.CreateUser(ctx, payload)
	if err != nil {
		c.printf("Signup failed: %s\n", api.MessageFor(err))
		return
	}
	c.printf("Created user %d (%s). You can now log in.\n", user.ID, user.Handle)
}

func (c *Console) whoami() {
	current := c.sessions.Current()
	if current == nil {
		c.printf("Not logged in.\n")
		return
	}
	c.printf("Username: %s\n", current.Username)
	c.printf("Actions:  %s\n", strings.Join(current.Actions, ", "))
	if claims, err := session.InspectToken(current.Token); err == nil {
		if !claims.ExpiresAt.IsZero() {
			c.printf("Token expires: %s\n", claims.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
		}
		if claims.UserID != 0 {
			c.printf("User id: %d\n", claims.UserID)
		}
	}
}

// unauthorized is the callback handed to every section: clear the session
// and route back to the login prompt.
func (c *Console) unauthorized() {
	c.sessions.Logout()
	c.printf("Session expired or not permitted. Please log in again.\n")
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) printHelp() {
	c.printf(`Commands:
  login <username> <password>
  logout
  signup <email> <handle> <username> <password> [first] [last]
  whoami
  users
  users create <email> <handle> <username> <password> [first] [last]
  users update <id> <email> <handle> <username> <password> [first] [last]
  users delete <id>
  tweets
  tweets post <authorId> <content...>
  tweets update <id> <authorId> <content...>
  tweets delete <id>
  quit
`)
}
