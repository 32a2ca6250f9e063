/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/sp2tax/internal/ioconvert"
	"github.com/gnames/sp2tax/internal/iofs"
	"github.com/gnames/sp2tax/internal/iologger"
	app "github.com/gnames/sp2tax/pkg"
	"github.com/gnames/sp2tax/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the base command that converts species names to
// NCBI taxonomy lineages.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "sp2tax",
		Short:   "Converts species names to NCBI taxonomy lineages",
		Long: `Reads a list of species names (one per line), finds their NCBI
taxonomy identifiers and writes a table with the names of the requested
ranks from each lineage.

By default NCBI taxonomy dump is downloaded and the local backend is
reloaded before the conversion. Use --skip-update to work with the
data loaded before.

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (SP2TAX_*)
  3. Config file (~/.config/sp2tax/config.yaml)
  4. Built-in defaults

Examples:
  sp2tax -i species.txt -o taxonomy.tsv
  sp2tax -i species.txt -o taxonomy.tsv -r kingdom,family,species -s
  sp2tax -i species.txt -o taxonomy.csv -F csv -f -n
  sp2tax update -b postgres`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "sp2tax version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.SetFlagErrorFunc(flagError)

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for sp2tax")

	rootCmd.Flags().StringP("input", "i", "",
		"file with species names, one name per line")
	rootCmd.Flags().StringP("output", "o", "",
		"file for the taxonomy table")
	rootCmd.Flags().StringP("ranks", "r", "",
		"comma-separated ranks for output columns\n(default \""+
			strings.Join(config.New().Ranks, ",")+"\")")
	rootCmd.Flags().BoolP("skip-update", "s", false,
		"use already loaded taxonomy, do not download NCBI dump")
	rootCmd.Flags().BoolP("skip-failed", "f", false,
		"save unresolved names to the fail file instead of aborting")
	rootCmd.Flags().BoolP("normalize", "n", false,
		"convert names to canonical form before lookup")
	rootCmd.Flags().StringP("format", "F", "",
		"output format: tsv, csv, compact, pretty (default \"tsv\")")
	rootCmd.PersistentFlags().StringP("backend", "b", "",
		"taxonomy store: sqlite, postgres, dump (default \"sqlite\")")

	rootCmd.AddCommand(getUpdateCmd())

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Flags have the highest precedence
	cfg.Update(flagOptions(cmd))

	// Reconfigure logging with user's settings, keeping bootstrap records
	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", config.ConfigFilePath(homeDir))

	return nil
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log, true)
}

// flagError handles malformed flags. Usage is always printed. With
// 'warn' treatment the root command runs with the flags parsed so far.
func flagError(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
	flagErr := FlagParseError(err)

	if err := bootstrap(cmd, nil); err != nil {
		return err
	}

	if cfg.FlagErrors != "warn" || cmd.HasParent() {
		gn.PrintErrorMessage(flagErr)
		return flagErr
	}

	gn.Warn("Ignoring flag problem: <em>%s</em>", err)
	slog.Warn("Flag parsing problem ignored", "error", err)
	return runRoot(cmd, nil)
}

func runRoot(cmd *cobra.Command, args []string) error {
	if err := checkFlags(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	ctx := context.Background()
	res, err := newResolver(ctx, cfg)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer res.Close()

	if cfg.SkipUpdate {
		// leftovers of a previous run are not valid for this one
		if err = iofs.RemoveIfExists(cfg.FailFile); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		err = ensureData(ctx, res)
	} else {
		err = refresh(ctx, res)
	}
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	conv := ioconvert.New(cfg, res)
	summary, err := conv.Convert(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info(
		"Converted <em>%d</em> names to <em>%d</em> rows, failed: <em>%d</em>",
		summary.NamesNum, summary.RowsNum, summary.FailedNum,
	)
	gn.Info("Taxonomy table is saved to <em>%s</em>", cfg.OutputFile)
	slog.Info("Conversion finished",
		"names", summary.NamesNum,
		"rows", summary.RowsNum,
		"failed", summary.FailedNum,
	)
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	err := getRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("SP2TAX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// General configuration
	v.BindEnv("backend", "SP2TAX_BACKEND")
	v.BindEnv("taxdump_url", "SP2TAX_TAXDUMP_URL")
	v.BindEnv("archive_file", "SP2TAX_ARCHIVE_FILE")
	v.BindEnv("fail_file", "SP2TAX_FAIL_FILE")
	v.BindEnv("flag_errors", "SP2TAX_FLAG_ERRORS")
	v.BindEnv("format", "SP2TAX_FORMAT")
	v.BindEnv("nom_code", "SP2TAX_NOM_CODE")
	v.BindEnv("jobs_number", "SP2TAX_JOBS_NUMBER")

	// Database configuration
	v.BindEnv("database.host", "SP2TAX_DATABASE_HOST")
	v.BindEnv("database.port", "SP2TAX_DATABASE_PORT")
	v.BindEnv("database.user", "SP2TAX_DATABASE_USER")
	v.BindEnv("database.password", "SP2TAX_DATABASE_PASSWORD")
	v.BindEnv("database.database", "SP2TAX_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "SP2TAX_DATABASE_SSL_MODE")
	v.BindEnv("database.batch_size", "SP2TAX_DATABASE_BATCH_SIZE")

	// Log configuration
	v.BindEnv("log.level", "SP2TAX_LOG_LEVEL")
	v.BindEnv("log.format", "SP2TAX_LOG_FORMAT")
	v.BindEnv("log.destination", "SP2TAX_LOG_DESTINATION")

	v.AutomaticEnv()
}
