package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MikeSquared-Agency/Retrofit/internal/analyzer"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// app carries per-invocation state so commands can be built and run in
// tests without touching package globals.
type app struct {
	v          *viper.Viper
	out        io.Writer
	configFile string
}

// NewRootCmd builds the retrofitctl command tree writing to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out}

	root := &cobra.Command{
		Use:   "retrofitctl",
		Short: "Score homes and preview retrofit upgrades",
		Long: `retrofitctl scores a home's energy efficiency from a record file using the
built-in heuristic, or sends a survey to a remote analyzer, and prints the
current score, rating band and ranked improvement scenarios.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default .retrofitctl.yaml in the working or home directory)")
	root.PersistentFlags().String("format", FormatConsole, "output format (console|json)")
	root.PersistentFlags().Int("top", 3, "number of top recommendations to show")
	_ = a.v.BindPFlag("format", root.PersistentFlags().Lookup("format"))
	_ = a.v.BindPFlag("top", root.PersistentFlags().Lookup("top"))

	root.AddCommand(
		a.newScoreCmd(),
		a.newExplainCmd(),
		a.newAnalyzeCmd(),
		a.newOptionsCmd(),
	)
	return root
}

// Execute runs retrofitctl against os.Args and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) initConfig() error {
	a.v.SetEnvPrefix("RETROFIT")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	a.v.SetDefault("analyzer.url", "http://localhost:8000/analyze")
	a.v.SetDefault("analyzer.timeout", analyzer.DefaultTimeout)

	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
	} else {
		a.v.SetConfigName(".retrofitctl")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if a.topN() < 0 {
		return fmt.Errorf("--top must not be negative, got %d", a.topN())
	}

	switch a.format() {
	case FormatConsole, FormatJSON:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want console or json)", a.format())
	}
}

func (a *app) format() string { return a.v.GetString("format") }

func (a *app) topN() int { return a.v.GetInt("top") }

func (a *app) analyzerTimeout() time.Duration { return a.v.GetDuration("analyzer.timeout") }
