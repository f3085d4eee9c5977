// Command fichas serves and exports technical recipe sheets.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/zeptools/fichas/conf"
)

type app struct {
	root       string
	configPath string
	verbose    bool

	core   *conf.Core
	cancel context.CancelFunc
}

// newRootCmd builds the command tree. The caller closes a after Execute.
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fichas",
		Short:         "Technical recipe sheets: storage, HTTP API and PDF export",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&a.root, "root", "", "app root for relative paths (default: current directory)")
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file, JSON or YAML (default: <root>/config/.core.json when present)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		newServeCmd(a),
		newExportCmd(a),
		newRecipesCmd(a),
		newClientsCmd(a),
		newEncodeCmd(),
	)
	return rootCmd
}

// load reads the config and opens storage plus the sheets service
func (a *app) load(ctx context.Context) (*conf.Core, error) {
	root := a.root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = wd
	}
	c := conf.Defaults()
	confPath := a.configPath
	if confPath == "" {
		if p := filepath.Join(root, "config", ".core.json"); fileExists(p) {
			confPath = p
		}
	}
	if confPath != "" {
		if err := c.LoadFile(confPath); err != nil {
			return nil, err
		}
	}
	if a.verbose {
		c.Log.Level = "debug"
	}
	ctx, cancel := context.WithCancel(ctx)
	if err := c.InitFromFile(root, "", ctx, cancel); err != nil {
		cancel()
		return nil, err
	}
	a.core, a.cancel = c, cancel
	if err := c.PrepareStorage(); err != nil {
		return nil, err
	}
	if err := c.PrepareSheets(); err != nil {
		return nil, err
	}
	return c, nil
}

func (a *app) close() {
	if a.core != nil {
		a.core.ResourceCleanUp()
		a.core = nil
	}
	if a.cancel != nil {
		a.cancel()
	}
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func main() {
	a := &app{}
	err := newRootCmd(a).Execute()
	a.close()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
