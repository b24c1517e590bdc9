// phonebookctl is the terminal client of the phonebook service: scripting
// commands over the REST API plus an interactive browser.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phoneboox/phoneboox/internal/client/api"
	"github.com/phoneboox/phoneboox/internal/platform/config"
)

var version = "dev"

// apiBaseURL is the --api persistent flag, defaulted from configuration.
var apiBaseURL string

func newAPIClient() *api.Client {
	return api.NewClient(apiBaseURL, nil)
}

func main() {
	defaultURL := "http://localhost:8000"
	pageLimit := 20
	if cfg, err := config.Load("phonebookctl"); err == nil {
		defaultURL = cfg.APIBaseURL
		pageLimit = cfg.PageLimit
	}

	root := &cobra.Command{
		Use:     "phonebookctl",
		Short:   "Manage contacts in a phoneboox service",
		Version: version,
	}
	root.PersistentFlags().StringVar(&apiBaseURL, "api", defaultURL, "base URL of the phonebook service")

	root.AddCommand(newListCmd())
	root.AddCommand(newGetCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newUpdateCmd())
	root.AddCommand(newRemoveCmd())
	root.AddCommand(newBlockCmd())
	root.AddCommand(newFavouriteCmd())
	root.AddCommand(newBrowseCmd(pageLimit))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
