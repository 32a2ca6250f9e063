package cmd

import (
	"github.com/gnames/sp2tax/pkg/config"
	"github.com/gnames/sp2tax/pkg/taxonomy"
	"github.com/spf13/cobra"
)

// funcFlag converts a command line flag to a config option. It returns
// nil if the flag was not set or does not belong to the command.
type funcFlag func(cmd *cobra.Command) config.Option

var flagFuncs = []funcFlag{
	inputFlag,
	outputFlag,
	ranksFlag,
	skipUpdateFlag,
	skipFailedFlag,
	normalizeFlag,
	formatFlag,
	backendFlag,
}

func flagOptions(cmd *cobra.Command) []config.Option {
	var res []config.Option
	for _, fn := range flagFuncs {
		if opt := fn(cmd); opt != nil {
			res = append(res, opt)
		}
	}
	return res
}

func inputFlag(cmd *cobra.Command) config.Option {
	s, ok := stringFlag(cmd, "input")
	if !ok {
		return nil
	}
	return config.OptInputFile(s)
}

func outputFlag(cmd *cobra.Command) config.Option {
	s, ok := stringFlag(cmd, "output")
	if !ok {
		return nil
	}
	return config.OptOutputFile(s)
}

func ranksFlag(cmd *cobra.Command) config.Option {
	s, ok := stringFlag(cmd, "ranks")
	if !ok {
		return nil
	}
	return config.OptRanks(taxonomy.ParseRanks(s))
}

func skipUpdateFlag(cmd *cobra.Command) config.Option {
	b, ok := boolFlag(cmd, "skip-update")
	if !ok {
		return nil
	}
	return config.OptSkipUpdate(b)
}

func skipFailedFlag(cmd *cobra.Command) config.Option {
	b, ok := boolFlag(cmd, "skip-failed")
	if !ok {
		return nil
	}
	return config.OptSkipFailed(b)
}

func normalizeFlag(cmd *cobra.Command) config.Option {
	b, ok := boolFlag(cmd, "normalize")
	if !ok {
		return nil
	}
	return config.OptWithNormalize(b)
}

func formatFlag(cmd *cobra.Command) config.Option {
	s, ok := stringFlag(cmd, "format")
	if !ok {
		return nil
	}
	return config.OptFormat(s)
}

func backendFlag(cmd *cobra.Command) config.Option {
	s, ok := stringFlag(cmd, "backend")
	if !ok {
		return nil
	}
	return config.OptBackend(s)
}

func stringFlag(cmd *cobra.Command, name string) (string, bool) {
	if !cmd.Flags().Changed(name) {
		return "", false
	}
	s, err := cmd.Flags().GetString(name)
	return s, err == nil
}

func boolFlag(cmd *cobra.Command, name string) (bool, bool) {
	if !cmd.Flags().Changed(name) {
		return false, false
	}
	b, err := cmd.Flags().GetBool(name)
	return b, err == nil
}
