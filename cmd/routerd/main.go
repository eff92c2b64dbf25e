// Command routerd runs the IPv4 forwarding CORE against real network
// interfaces, configured from a YAML file.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.NewEntry(logrus.StandardLogger())

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "routerd",
		Short: "routerd forwards IPv4 traffic between configured interfaces",
	}

	var configPath string
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "routerd.yaml", "path to the YAML configuration file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newRoutesCmd(&configPath))

	return root
}
