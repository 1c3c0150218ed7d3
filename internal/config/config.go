// Package config loads the deployment settings of the pass service.
//
// Settings come from flags, falling back to PASSBOOK_* environment variables
// and then to defaults. A loaded Config is never modified.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/erazemk/passbook/internal/passjson"
)

// Config captures the settings shared by all subcommands.
type Config struct {
	// Domain is the public host passes are served from. It forms the
	// webServiceURL of every pass.
	Domain    string
	Addr      string
	DBPath    string
	ImageDir  string
	LogPath   string
	AdminUser string
	OutDir    string
	Workers   int

	Serialization passjson.Options
}

// Site returns the deployment site used to serialize passes.
func (c Config) Site() passjson.Site {
	return passjson.Site{Domain: c.Domain}
}

type envLookup func(string) (string, bool)

// Load parses args for the named subcommand, using environment variables for
// unset flags.
func Load(name string, args []string, usage io.Writer) (Config, error) {
	return load(name, args, usage, os.LookupEnv)
}

func load(name string, args []string, usage io.Writer, env envLookup) (Config, error) {
	str := func(key, def string) string {
		if v, ok := env(key); ok && v != "" {
			return v
		}
		return def
	}
	boolean := func(key string, def bool) bool {
		if v, ok := env(key); ok {
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		}
		return def
	}
	integer := func(key string, def int) int {
		if v, ok := env(key); ok {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}

	var cfg Config
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	domain := str("PASSBOOK_DOMAIN", "localhost:8080")
	fs.StringVar(&cfg.Domain, "domain", domain, "")
	fs.StringVar(&cfg.Domain, "D", domain, "")

	dbPath := str("PASSBOOK_DB", "passbook.sqlite3")
	fs.StringVar(&cfg.DBPath, "db", dbPath, "")
	fs.StringVar(&cfg.DBPath, "d", dbPath, "")

	addr := str("PASSBOOK_ADDR", ":8080")
	fs.StringVar(&cfg.Addr, "addr", addr, "")
	fs.StringVar(&cfg.Addr, "a", addr, "")

	imageDir := str("PASSBOOK_IMAGE_DIR", "images")
	fs.StringVar(&cfg.ImageDir, "images", imageDir, "")
	fs.StringVar(&cfg.ImageDir, "i", imageDir, "")

	adminUser := str("PASSBOOK_ADMIN_USER", "admin")
	fs.StringVar(&cfg.AdminUser, "user", adminUser, "")
	fs.StringVar(&cfg.AdminUser, "u", adminUser, "")

	logPath := str("PASSBOOK_LOG", "")
	fs.StringVar(&cfg.LogPath, "log", logPath, "")
	fs.StringVar(&cfg.LogPath, "l", logPath, "")

	outDir := str("PASSBOOK_OUT", "passes")
	fs.StringVar(&cfg.OutDir, "out", outDir, "")
	fs.StringVar(&cfg.OutDir, "o", outDir, "")

	workers := integer("PASSBOOK_WORKERS", 4)
	fs.IntVar(&cfg.Workers, "workers", workers, "")
	fs.IntVar(&cfg.Workers, "w", workers, "")

	fs.BoolVar(&cfg.Serialization.AuxiliaryFields, "auxiliary-fields",
		boolean("PASSBOOK_AUXILIARY_FIELDS", false), "")
	fs.BoolVar(&cfg.Serialization.PresentationKeys, "presentation-keys",
		boolean("PASSBOOK_PRESENTATION_KEYS", false), "")

	fs.Usage = func() {
		fmt.Fprintf(usage, `Usage: passbook %s [flags]

Flags:
  -D, -domain <host>      public domain for webServiceURL (default: localhost:8080)
  -d, -db <path>          SQLite database path (default: passbook.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -i, -images <dir>       image asset directory (default: images)
  -u, -user <name>        admin username on first run (default: admin)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -o, -out <dir>          export output directory (default: passes)
  -w, -workers <n>        concurrent exports (default: 4)
  -auxiliary-fields       emit auxiliaryFields in pass.json
  -presentation-keys      emit description, colors and other display keys
  -h, -help               show this help and exit
`, name)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.Usage()
		}
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Domain == "" || strings.ContainsAny(c.Domain, "/ ") {
		return fmt.Errorf("invalid domain %q", c.Domain)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}
