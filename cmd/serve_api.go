package cmd

import (
	"github.com/saieshwardev-lab/UrbanEye/pkg/cmd/server"
	"github.com/spf13/cobra"
)

// serveAPICmd represents the serve api command
var serveAPICmd = &cobra.Command{
	Use:   "api",
	Short: "Serve the incident API, job relay and realtime channel",
	Run:   server.RunServeAPI(c),
}

func init() {
	serveCmd.AddCommand(serveAPICmd)
}
