package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/ryanm101/gamecompare/internal/client"
	"github.com/ryanm101/gamecompare/internal/upstream"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gamecompare",
		Short: "Look up games and compare two of them side by side",
		Long: `gamecompare searches the IGDB catalog, ranks and pages the results, and
compares two games using Steam statistics from SteamSpy.

Run "gamecompare serve" to start the proxy that holds the provider
credentials; the other commands talk to that proxy.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVar(&outputCfg.JSON, "json", false, "Output in JSON format")
	root.PersistentFlags().BoolVarP(&outputCfg.Quiet, "quiet", "q", false, "Suppress non-error output")
	root.PersistentFlags().StringVar(&proxyURL, "proxy", "", "Proxy base URL (default from config)")

	root.AddCommand(
		newServeCmd(),
		newSearchCmd(),
		newInfoCmd(),
		newCompareCmd(),
		newConfigCmd(),
	)
	return root
}

var proxyURL string

func httpClient() *http.Client {
	return upstream.NewHTTPClient(cfg.GetHTTPTimeout())
}

func proxyClient() *client.Client {
	base := proxyURL
	if base == "" {
		base = cfg.GetProxyURL()
	}
	return client.New(base, httpClient())
}
