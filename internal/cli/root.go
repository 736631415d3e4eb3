package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/yutokawamata/TextStimulationApp/internal/config"
	"github.com/yutokawamata/TextStimulationApp/internal/github"
	"github.com/yutokawamata/TextStimulationApp/internal/logging"
)

var (
	verbose    bool
	configPath string
	baseURL    string

	cfg    *config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "yomu",
	Short: "Reading practice player for segmented Japanese texts",
	Long: `Yomu plays children's reading-practice texts phrase by phrase, with
synchronized audio and furigana annotations.

Stories live in a remote catalog as plain text files; matching audio is
resolved automatically. The upload, remove and reorder commands manage the
catalog through the GitHub contents API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", config.DefaultPath(), "Config file path")
	rootCmd.PersistentFlags().
		StringVar(&baseURL, "base-url", "", "Catalog base URL (overrides config)")
}

func newGitHubClient() (*github.Client, error) {
	if cfg.GitHub.Owner == "" || cfg.GitHub.Repo == "" {
		return nil, errors.New("github owner and repo must be configured for catalog management")
	}
	token := cfg.Token()
	if token == "" {
		logger.Warnw("no github token set, writes will likely be rejected",
			"env", cfg.GitHub.TokenEnv)
	}
	return github.NewClient(cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.Branch, token, logger), nil
}
