package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Seednode/wanderworlds/game"
)

type Config struct {
	bind         string
	chatHistory  int
	chatMaxLen   int
	chatReplay   int
	port         int
	prefix       string
	profile      bool
	respawnDelay time.Duration
	tlsCert      string
	tlsKey       string
	verbose      bool
	version      bool
	worldFile    string

	tuning game.Tuning
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	return nil
}

// resolveTuning layers the optional world file over the defaults, then the
// chat/respawn flags over that.
func (c *Config) resolveTuning() error {
	t := game.DefaultTuning()
	if c.worldFile != "" {
		loaded, err := game.LoadTuning(c.worldFile)
		if err != nil {
			return err
		}
		t = loaded
	}

	t.RespawnMs = int(c.respawnDelay.Milliseconds())
	t.ChatHistory = c.chatHistory
	t.ChatReplay = c.chatReplay
	t.ChatMaxLength = c.chatMaxLen

	if err := t.Validate(); err != nil {
		return err
	}
	c.tuning = t

	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("WANDERWORLDS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "wanderworlds",
		Short:         "Authoritative game server for the WanderWorlds shared 2D world.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			if err := cfg.resolveTuning(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: WANDERWORLDS_BIND)")
	fs.IntVar(&cfg.chatHistory, "chat-history", 100, "maximum number of chat messages retained (env: WANDERWORLDS_CHAT_HISTORY)")
	fs.IntVar(&cfg.chatMaxLen, "chat-max-length", 100, "maximum chat message length before truncation (env: WANDERWORLDS_CHAT_MAX_LENGTH)")
	fs.IntVar(&cfg.chatReplay, "chat-replay", 20, "number of chat messages replayed to joining players (env: WANDERWORLDS_CHAT_REPLAY)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: WANDERWORLDS_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: WANDERWORLDS_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: WANDERWORLDS_PROFILE)")
	fs.DurationVar(&cfg.respawnDelay, "respawn-delay", 30*time.Second, "time before collected objects respawn (env: WANDERWORLDS_RESPAWN_DELAY)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: WANDERWORLDS_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: WANDERWORLDS_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: WANDERWORLDS_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: WANDERWORLDS_VERSION)")
	fs.StringVar(&cfg.worldFile, "world-file", "", "path to a yaml world tuning file (env: WANDERWORLDS_WORLD_FILE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("wanderworlds v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
