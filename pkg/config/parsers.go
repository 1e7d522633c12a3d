package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
)

// Flags holds parsed command-line flag values and which were set.
type Flags struct {
	Addr   string
	DB     string
	Config string
	Set    map[string]bool
}

// EffectiveConfigResult is the merged view of flags, env and config file
// the rest of the app runs on.
type EffectiveConfigResult struct {
	Config *Config
	Addr   string
	DBPath string
	Source string // "flags", "env", or "config"
}

// ParseConfigFlags parses command-line flags and returns them as a Flags
// struct.
func ParseConfigFlags() Flags {
	addrPtr := flag.String("addr", ":8080", "HTTP listen address")
	dbPtr := flag.String("db", "./.database", "Pebble DB path")
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	flag.Parse()
	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	return Flags{Addr: *addrPtr, DB: *dbPtr, Config: *cfgPtr, Set: setFlags}
}

// applyEnv overlays ANSWERDB_* env vars onto cfg and reports whether any
// were present.
func applyEnv(cfg *Config) bool {
	used := false
	setStr := func(env string, dst *string) {
		if v := os.Getenv(env); v != "" {
			*dst = v
			used = true
		}
	}
	setList := func(env string, dst *[]string) {
		v := os.Getenv(env)
		if v == "" {
			return
		}
		var parts []string
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			*dst = parts
			used = true
		}
	}

	setStr("ANSWERDB_ADDR", &cfg.Server.Address)
	setStr("ANSWERDB_DB_PATH", &cfg.Server.DBPath)
	setStr("ANSWERDB_PROVIDER_ENDPOINT", &cfg.Provider.Endpoint)
	setStr("ANSWERDB_PROVIDER_MODEL", &cfg.Provider.Model)
	setStr("ANSWERDB_PROVIDER_API_KEY_ENV", &cfg.Provider.APIKeyEnv)
	setStr("ANSWERDB_LOG_LEVEL", &cfg.Logging.Level)
	setList("ANSWERDB_BACKEND_KEYS", &cfg.Security.APIKeys.Backend)
	setList("ANSWERDB_FRONTEND_KEYS", &cfg.Security.APIKeys.Frontend)
	setList("ANSWERDB_ADMIN_KEYS", &cfg.Security.APIKeys.Admin)
	setList("ANSWERDB_ALLOWED_ORIGINS", &cfg.Security.CORS.AllowedOrigins)
	if v := os.Getenv("ANSWERDB_PROMOTE_THRESHOLD"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Cache.PromoteThreshold = n
			used = true
		}
	}
	if v := os.Getenv("ANSWERDB_ALLOW_UNAUTH"); v != "" {
		cfg.Security.APIKeys.AllowUnauth = v == "1" || strings.EqualFold(v, "true")
		used = true
	}
	return used
}

// LoadEffective merges config file, env vars and flags (flags win over
// env, env wins over file) into the effective config the app runs on.
func LoadEffective(flags Flags) (EffectiveConfigResult, error) {
	cfg := &Config{}
	source := "flags"

	cfgPath := ResolveConfigPath(flags.Config, flags.Set["config"])
	if loaded, err := Load(cfgPath); err == nil {
		cfg = loaded
		source = "config"
	} else if !os.IsNotExist(err) {
		return EffectiveConfigResult{}, err
	}

	if applyEnv(cfg) && source != "config" {
		source = "env"
	}

	addr := cfg.Addr()
	if addr == "" || flags.Set["addr"] {
		addr = flags.Addr
	}
	dbPath := cfg.Server.DBPath
	if dbPath == "" || flags.Set["db"] {
		dbPath = flags.DB
	}

	return EffectiveConfigResult{Config: cfg, Addr: addr, DBPath: dbPath, Source: source}, nil
}
