package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/therealutkarshpriyadarshi/routerd/config"
)

func newRoutesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "print the configured routing table without starting the router",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			for _, rc := range cfg.Routes {
				nextHop := rc.NextHop
				if nextHop == "" {
					nextHop = "(direct)"
				}
				fmt.Printf("%s/%d via %s dev %s\n", rc.Prefix, rc.PrefixLength, nextHop, rc.Interface)
			}
			return nil
		},
	}
}
