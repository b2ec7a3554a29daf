package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-stepform/pkg/renderers/tui"
	"github.com/goliatone/go-stepform/pkg/session"
)

func newRunCommand(deps dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fill in the form from the terminal and print the submitted values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, viper.New())
			if err != nil {
				return err
			}
			return runForm(cmd, cfg, deps)
		},
	}
	cmd.Flags().StringP("output", "o", "json", "summary format (json, pretty, form)")
	return cmd
}

func runForm(cmd *cobra.Command, cfg Config, deps dependencies) error {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	opts := []session.Option{session.WithLogger(logger)}
	if r, ok := cfg.PostcodeRange(); ok {
		opts = append(opts, session.WithPostcodeRange(r))
	}
	s, err := session.New(cat, opts...)
	if err != nil {
		return err
	}

	renderer, err := tui.New(
		tui.WithPromptDriver(deps.driver),
		tui.WithOutputFormat(outputFormat(cfg)),
		tui.WithInfoWriter(cmd.ErrOrStderr()),
		tui.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	out, err := renderer.Run(cmd.Context(), s)
	if errors.Is(err, tui.ErrAborted) {
		logger.Info("form aborted", zap.Int("step", s.Step()))
		return err
	}
	if err != nil {
		return fmt.Errorf("run form: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
