package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akyairhashvil/cadlookup/internal/config"
	"github.com/akyairhashvil/cadlookup/internal/database"
	"github.com/akyairhashvil/cadlookup/internal/transport"
	"github.com/akyairhashvil/cadlookup/internal/tui"
	"github.com/akyairhashvil/cadlookup/internal/util"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

type options struct {
	configPath string
	dbPath     string
	apiURL     string
	theme      string
	offline    bool
	touch      bool
	version    bool
}

// promptFunc reads a secret from the terminal.
type promptFunc func(prompt string) (string, error)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Alas, there's been an error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := parseFlags(args, os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if opts.version {
		fmt.Printf("%s %s (%s %s)\n", config.AppName, tui.AppVersion, tui.GitCommit, tui.BuildTime)
		return nil
	}

	cfg, err := ensureConfig(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	dataDir := util.DataDir(config.AppName)
	if err := util.EnsureDir(dataDir); err != nil {
		return err
	}
	logFile, err := tea.LogToFile(filepath.Join(dataDir, config.LogFileName), config.AppName)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPath := opts.dbPath
	if dbPath == "" {
		if cfg.Cache.Enabled {
			dbPath = filepath.Join(dataDir, config.DBFileName)
		} else {
			tmp, err := os.MkdirTemp("", config.AppName+"-")
			if err != nil {
				return err
			}
			defer os.RemoveAll(tmp)
			dbPath = filepath.Join(tmp, config.DBFileName)
		}
	}
	db, err := openCache(ctx, dbPath, os.Getenv(cfg.Cache.KeyEnv), promptForKey)
	if err != nil {
		return err
	}
	defer db.Close()

	if n, err := db.PurgeRecords(ctx, time.Now().Add(-config.CacheRetention)); err != nil {
		util.LogError("purge cache", err)
	} else if n > 0 {
		util.LogInfo("purge cache", "removed %d stale records", n)
	}

	deps := tui.Deps{DB: db, Config: cfg, Offline: cfg.Cache.Offline}
	var client *transport.Client
	if cfg.Cache.Offline {
		offline, err := database.NewOfflineTransport(db, cfg.Lookups)
		if err != nil {
			return err
		}
		deps.Transport = offline
	} else {
		token := strings.TrimSpace(os.Getenv(cfg.API.TokenEnv))
		if token == "" && term.IsTerminal(int(os.Stdin.Fd())) {
			if token, err = promptForKey("API token (leave empty to skip): "); err != nil {
				return err
			}
		}
		client, err = transport.NewClient(transport.ClientConfig{
			BaseURL: cfg.API.BaseURL,
			Token:   token,
			Timeout: cfg.API.Timeout,
		})
		if err != nil {
			return err
		}
		deps.Transport, deps.Poster = client, client
	}

	model := tui.NewMainModel(ctx, deps)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if client != nil {
		client.SetNotify(func(err error) { go p.Send(tui.NotifyMsg{Err: err}) })
	}

	_, err = p.Run()
	return err
}

func parseFlags(args []string, out io.Writer) (options, error) {
	var opts options
	flagSet := pflag.NewFlagSet(config.AppName, pflag.ContinueOnError)
	flagSet.SetOutput(out)
	flagSet.StringVarP(&opts.configPath, "config", "c", "", "path to config.yaml (default: user config dir)")
	flagSet.StringVar(&opts.dbPath, "db", "", "path to the record cache (default: user data dir)")
	flagSet.StringVar(&opts.apiURL, "api", "", "backend base URL, overrides api.base_url")
	flagSet.StringVar(&opts.theme, "theme", "", "console theme ("+strings.Join(tui.ThemeNames(), ", ")+")")
	flagSet.BoolVar(&opts.offline, "offline", false, "search the local cache instead of the backend")
	flagSet.BoolVar(&opts.touch, "touch", false, "keep suggestion lists open when focus leaves them")
	flagSet.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return opts, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	if opts.configPath == "" {
		opts.configPath = filepath.Join(util.ConfigDir(config.AppName), config.ConfigFileName)
	}
	return opts, nil
}

// ensureConfig loads the config file, writing the defaults on first run.
func ensureConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := config.Save(config.Default(), path); err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

// applyFlags lets command-line flags override the config file.
func applyFlags(cfg *config.Config, opts options) {
	if opts.apiURL != "" {
		cfg.API.BaseURL = opts.apiURL
	}
	if opts.theme != "" {
		cfg.UI.Theme = opts.theme
	}
	if opts.offline {
		cfg.Cache.Offline = true
	}
	if opts.touch {
		cfg.UI.Touch = true
	}
}

// openCache opens the record cache. A sealed cache without a key in the
// environment asks for the passphrase, up to three times.
func openCache(ctx context.Context, path, key string, prompt promptFunc) (*database.Database, error) {
	key = strings.TrimSpace(key)
	if key != "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			if err := util.ValidatePassphrase(key); err != nil {
				return nil, fmt.Errorf("cache passphrase too weak: %w", err)
			}
		}
	}

	db, err := database.Open(ctx, path, key)
	if key == "" && errors.Is(err, database.ErrDatabaseEncrypted) {
		for tries := 0; tries < 3; tries++ {
			pass, perr := prompt("Enter cache passphrase: ")
			if perr != nil {
				return nil, perr
			}
			if pass == "" {
				return nil, errors.New("empty passphrase")
			}
			db, err = database.Open(ctx, path, pass)
			if !errors.Is(err, database.ErrWrongPassphrase) {
				break
			}
		}
	}
	if errors.Is(err, database.ErrLocked) {
		return nil, fmt.Errorf("%w: is another %s running?", err, config.AppName)
	}
	return db, err
}

func promptForKey(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	return strings.TrimSpace(string(pass)), err
}
