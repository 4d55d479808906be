package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/storage"
	"github.com/spigell/talentscout/internal/submission"
)

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "Print stored candidate submissions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		return listSubmissions(cmd.OutOrStdout(), format)
	},
}

func init() {
	rootCmd.AddCommand(submissionsCmd)

	submissionsCmd.Flags().StringP("format", "f", "json", "output format: json or yaml")
}

func listSubmissions(w io.Writer, format string) error {
	logger, err := logger.New(logger.Options{
		JSON:   viper.GetBool("json"),
		Debug:  viper.GetBool("debug"),
		Output: viper.GetString("log-output"),
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}

	store := storage.NewFileStore(config.StorageFile, logger)
	records, err := store.Records()
	if err != nil {
		return fmt.Errorf("reading submissions: %w", err)
	}

	logger.Debug("loaded submissions", zap.String("path", store.Path()), zap.Int("count", len(records)))

	return writeRecords(w, records, format)
}

func writeRecords(w io.Writer, records []*submission.Record, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
