// taiga-bridge: MCP server exposing Taiga project management as tools.
//
// It bridges MCP hosts (Claude Code, Cursor, VS Code Copilot, ...) to a
// Taiga instance: authentication, projects, user stories, tasks,
// issues, epics, sprints, and wiki pages.
//
// Usage:
//
//	taiga-bridge serve             # Start MCP server (stdio transport)
//	taiga-bridge serve --transport sse --port 8000
//	taiga-bridge login --host https://tree.taiga.io --github
//	taiga-bridge cache list
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/taigabridge/taiga-mcp/internal/config"
	"github.com/taigabridge/taiga-mcp/internal/githubauth"
	bridgeserver "github.com/taigabridge/taiga-mcp/internal/server"
	"github.com/taigabridge/taiga-mcp/internal/taiga"
	"github.com/taigabridge/taiga-mcp/internal/tokencache"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:])
	case "login":
		err = runLogin(os.Args[2:])
	case "cache":
		err = runCache(os.Args[2:])
	case "--help", "-h", "help":
		printUsage()
	case "--version", "-v", "version":
		fmt.Printf("taiga-bridge v%s\n", bridgeserver.Version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig decodes the environment and validates the result.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// serveFlags holds the serve command's flag values, bound at
// definition so each override reads back in its declared type.
type serveFlags struct {
	fs        *flag.FlagSet
	transport *string
	host      *string
	port      *int
	rateLimit *int
	logLevel  *string
}

func newServeFlags() *serveFlags {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	return &serveFlags{
		fs:        fs,
		transport: fs.String("transport", config.TransportStdio, "transport: stdio or sse"),
		host:      fs.String("host", "127.0.0.1", "bind host for the sse transport"),
		port:      fs.Int("port", 8000, "bind port for the sse transport"),
		rateLimit: fs.Int("rate-limit", 100, "per-session requests per minute"),
		logLevel:  fs.String("log-level", "info", "log level: debug, info, warn, error"),
	}
}

// apply copies the flags the user actually set into cfg. Flags win
// over environment variables; unset flags leave cfg untouched.
func (f *serveFlags) apply(cfg *config.Config) {
	if f.fs.Changed("transport") {
		cfg.Transport = *f.transport
	}
	if f.fs.Changed("host") {
		cfg.Host = *f.host
	}
	if f.fs.Changed("port") {
		cfg.Port = *f.port
	}
	if f.fs.Changed("rate-limit") {
		cfg.RequestsPerMinute = *f.rateLimit
	}
	if f.fs.Changed("log-level") {
		cfg.LogLevel = *f.logLevel
	}
}

// setupLogging configures slog on stderr. Stdout belongs to the MCP
// stdio transport and must stay clean.
func setupLogging(cfg config.Config) error {
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func runServe(args []string) error {
	f := newServeFlags()
	if err := f.fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	f.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	s, err := bridgeserver.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Graceful shutdown on interrupt.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Transport == config.TransportSSE {
		sse := server.NewSSEServer(s)
		slog.Info("starting sse transport", "addr", cfg.SSEAddr())
		errCh := make(chan error, 1)
		go func() { errCh <- sse.Start(cfg.SSEAddr()) }()
		select {
		case <-ctx.Done():
			slog.Info("shutting down")
			return sse.Shutdown(context.Background())
		case err := <-errCh:
			return err
		}
	}

	slog.Info("starting stdio transport", "rate_limit", cfg.RequestsPerMinute)
	return server.ServeStdio(s)
}

// runLogin authenticates against a Taiga instance from the terminal and
// stores the resulting token in the cache, so MCP sessions can use the
// login_from_cache tool without ever seeing a password.
func runLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	host := fs.String("host", "", "URL of the Taiga instance (required)")
	username := fs.String("username", "", "Taiga username or email")
	github := fs.Bool("github", false, "authenticate via GitHub OAuth instead of a password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *host == "" {
		return fmt.Errorf("--host is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	c, err := taiga.NewClient(*host)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *github {
		if cfg.GitHubClientID == "" || cfg.GitHubClientSecret == "" {
			return fmt.Errorf("GitHub login needs TAIGA_GITHUB_CLIENT_ID and TAIGA_GITHUB_CLIENT_SECRET")
		}
		flow := &githubauth.Flow{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
		}
		tok, err := flow.Authorize(ctx, func(url string) {
			fmt.Fprintf(os.Stderr, "Open this URL in your browser to authorize:\n\n  %s\n\n", url)
		})
		if err != nil {
			return fmt.Errorf("github authorization: %w", err)
		}
		if err := c.LoginWithGitHub(ctx, tok.AccessToken); err != nil {
			return fmt.Errorf("taiga github login: %w", err)
		}
	} else {
		user, pass, err := promptCredentials(*username)
		if err != nil {
			return err
		}
		if err := c.Login(ctx, user, pass); err != nil {
			return fmt.Errorf("taiga login: %w", err)
		}
	}

	cache, err := tokencache.NewStore(cfg.CacheDir)
	if err != nil {
		return err
	}
	entry := tokencache.Entry{
		Host:      c.Host(),
		AuthToken: c.AuthToken(),
		TokenType: c.TokenType(),
		UserID:    c.UserID(),
	}
	if err := cache.Save(entry); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Logged in as %s (user %d).\nToken cached at %s\n",
		c.Username(), c.UserID(), cache.Path(c.Host()))
	return nil
}

// promptCredentials reads the username (unless given by flag) and the
// password, without echo when stdin is a terminal.
func promptCredentials(username string) (string, string, error) {
	reader := bufio.NewReader(os.Stdin)
	if username == "" {
		fmt.Fprint(os.Stderr, "Username: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("reading username: %w", err)
		}
		username = strings.TrimSpace(line)
	}

	fmt.Fprint(os.Stderr, "Password: ")
	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", "", fmt.Errorf("reading password: %w", err)
		}
		return username, string(raw), nil
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("reading password: %w", err)
	}
	return username, strings.TrimSpace(line), nil
}

// runCache manages the token cache from the command line.
func runCache(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: taiga-bridge cache <list|delete --host URL>")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cache, err := tokencache.NewStore(cfg.CacheDir)
	if err != nil {
		return err
	}

	switch args[0] {
	case "list":
		infos, err := cache.List()
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("No cached tokens.")
			return nil
		}
		for _, info := range infos {
			fmt.Printf("%s\t%s\tuser %d\tsaved %s\n",
				info.Host, info.TokenType, info.UserID, info.SavedAt.Format("2006-01-02 15:04"))
		}
		return nil
	case "delete":
		fs := flag.NewFlagSet("cache delete", flag.ExitOnError)
		host := fs.String("host", "", "URL of the Taiga instance (required)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *host == "" {
			return fmt.Errorf("--host is required")
		}
		removed, err := cache.Delete(*host)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Printf("No cached token for %s\n", *host)
			return nil
		}
		fmt.Printf("Deleted cached token for %s\n", *host)
		return nil
	default:
		return fmt.Errorf("unknown cache command: %s", args[0])
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `taiga-bridge v%s — Taiga MCP server

Usage:
  taiga-bridge serve [flags]      Start the MCP server
  taiga-bridge login [flags]      Authenticate and cache a token
  taiga-bridge cache list         List cached tokens
  taiga-bridge cache delete       Delete a cached token

Serve flags:
  --transport stdio|sse   Transport (default stdio)
  --host, --port          Bind address for sse (default 127.0.0.1:8000)
  --rate-limit N          Per-session requests per minute (default 100)
  --log-level LEVEL       debug, info, warn, error (default info)

Login flags:
  --host URL              Taiga instance URL (required)
  --username NAME         Username (prompted if omitted)
  --github                Use GitHub OAuth instead of a password

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "taiga": {
        "command": "taiga-bridge",
        "args": ["serve"]
      }
    }
  }

Environment variables (flags win): TAIGA_MCP_HOST, TAIGA_MCP_PORT,
TAIGA_MCP_TRANSPORT, TAIGA_RATE_LIMIT, TAIGA_LOG_LEVEL, TAIGA_CACHE_DIR,
TAIGA_GITHUB_CLIENT_ID, TAIGA_GITHUB_CLIENT_SECRET
`, bridgeserver.Version)
}
