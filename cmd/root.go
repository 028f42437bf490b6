package cmd

import (
	"github.com/prairiegroup/storefront/internal/app"
	"github.com/prairiegroup/storefront/internal/server"
	log "github.com/prairiegroup/storefront/pkg/logger/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Serve the storefront pages and the collections API",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		app.Invoke(
			server.StartServer,
		).Run()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
