// Package cli implements mt799ctl, an offline tool that runs the MT799
// parsing pipeline against local files.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bibbank/mt799-service/internal/application/usecase"
	"github.com/bibbank/mt799-service/internal/domain/service"
	"github.com/bibbank/mt799-service/pkg/swiftmt"
)

// Setting keys, shared by flags and MT799_* environment variables.
const (
	keyValidation   = "validation-policy"
	keySegmentation = "segmentation-policy"
	keyConfig       = "config"
)

// NewRootCommand builds the mt799ctl command tree. Settings resolve from
// flags, then MT799_* environment variables, then the optional config file.
func NewRootCommand() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "mt799ctl",
		Short: "Inspect and validate SWIFT MT799 messages",
		Long: `mt799ctl runs the MT799 parsing pipeline on local files without
storing anything. Use "-" as the file name to read from stdin.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(v)
		},
	}

	root.PersistentFlags().String(keyValidation, swiftmt.PolicyOrdering, `Validation policy: "ordering" or "pattern"`)
	root.PersistentFlags().String(keySegmentation, swiftmt.PolicyLookahead, `Segmentation policy: "lookahead" or "linescan"`)
	root.PersistentFlags().String(keyConfig, "", "Optional JSON or YAML config file")
	cobra.CheckErr(v.BindPFlags(root.PersistentFlags()))

	v.SetEnvPrefix("MT799")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(
		newParseCommand(v),
		newValidateCommand(v),
		newSegmentCommand(v),
		newVersionCommand(),
	)
	return root
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(v *viper.Viper) error {
	path := v.GetString(keyConfig)
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	return nil
}

func newParser(v *viper.Viper) (*swiftmt.Parser, error) {
	return swiftmt.NewParserForPolicies(v.GetString(keyValidation), v.GetString(keySegmentation))
}

func newValidator(v *viper.Viper) (*usecase.ValidateMessage, error) {
	parser, err := newParser(v)
	if err != nil {
		return nil, err
	}
	return usecase.NewValidateMessage(parser, service.NewAssembler()), nil
}

// readInput reads the named file, or stdin for "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}
