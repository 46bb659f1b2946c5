package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/newsdigest/internal/interfaces/cli/run"
	"github.com/orris-inc/newsdigest/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "newsdigest",
		Short:   "Newsdigest - translated daily news digest",
		Long:    `Newsdigest fetches top stories per section, translates them into one target language and mails an HTML digest.`,
		Version: version.String(),
	}

	rootCmd.AddCommand(
		run.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
