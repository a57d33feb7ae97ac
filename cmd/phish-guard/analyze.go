package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/core"
	"github.com/mikey/phish-guard/internal/di"
	"github.com/mikey/phish-guard/internal/factory"
)

type analyzeOptions struct {
	sender    string
	subject   string
	body      string
	bodyFile  string
	explain   bool
	noExplain bool
	json      bool
}

func newAnalyzeCmd(flags *di.CLIFlags) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score a single email and explain high-risk verdicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			candidate, err := opts.candidate(cmd.InOrStdin())
			if err != nil {
				return err
			}
			return buildCLI(flags, func(logger *zap.Logger, filters *factory.FilterFactory) error {
				defer logger.Sync()

				cli, err := filters.CreateCLIFilter(flags.Verbose, opts.json)
				if err != nil {
					return err
				}
				_, err = cli.ProcessEmail(cmd.Context(), candidate, core.AnalyzeOptions{
					ForceExplain: opts.explain,
					SkipExplain:  opts.noExplain,
				})
				return err
			})
		},
	}

	cmd.Flags().StringVar(&opts.sender, "sender", "", "Sender address, e.g. security@paypa1.com")
	cmd.Flags().StringVar(&opts.subject, "subject", "", "Email subject")
	cmd.Flags().StringVar(&opts.body, "body", "", "Email body")
	cmd.Flags().StringVar(&opts.bodyFile, "body-file", "", "Read the body from a file ('-' for stdin)")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "Request an explanation even for low-risk verdicts")
	cmd.Flags().BoolVar(&opts.noExplain, "no-explain", false, "Never call the explainer")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the report as JSON")
	cmd.Flags().StringSliceVar(&flags.Backends, "backend", nil, "Explainer backends in priority order (provider:model)")
	cmd.Flags().StringVar(&flags.Mode, "mode", "", "Explainer response mode (structured, text)")
	cmd.Flags().BoolVar(&flags.NoCache, "no-cache", false, "Disable the explanation cache")
	cmd.MarkFlagsMutuallyExclusive("body", "body-file")
	cmd.MarkFlagsMutuallyExclusive("explain", "no-explain")

	return cmd
}

func (o *analyzeOptions) candidate(stdin io.Reader) (core.EmailCandidate, error) {
	body := o.body
	if o.bodyFile != "" {
		var (
			data []byte
			err  error
		)
		if o.bodyFile == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(o.bodyFile)
		}
		if err != nil {
			return core.EmailCandidate{}, fmt.Errorf("failed to read body: %w", err)
		}
		body = string(data)
	}

	return core.EmailCandidate{
		Sender:  o.sender,
		Subject: o.subject,
		Body:    body,
	}, nil
}
