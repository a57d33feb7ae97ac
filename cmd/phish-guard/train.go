package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/classifier"
	"github.com/mikey/phish-guard/internal/config"
	"github.com/mikey/phish-guard/internal/di"
	"github.com/mikey/phish-guard/internal/factory"
)

func newTrainCmd(flags *di.CLIFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the classifier and save the artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildCLI(flags, func(cfg *config.Config, logger *zap.Logger, classifiers *factory.ClassifierFactory) error {
				defer logger.Sync()

				settings := cfg.GetClassifier()

				var (
					corpus *classifier.Corpus
					err    error
				)
				if settings.CorpusPath != "" {
					corpus, err = classifier.LoadCorpus(settings.CorpusPath)
				} else {
					corpus, err = classifier.DefaultCorpus()
				}
				if err != nil {
					return err
				}

				model, report, err := classifiers.CreateTrainer().Train(corpus)
				if err != nil {
					return err
				}
				if err := model.Save(settings.ModelPath); err != nil {
					return err
				}

				phishing, legitimate := corpus.Counts()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Corpus: %d phishing, %d legitimate\n", phishing, legitimate)
				fmt.Fprintln(out, report.String())
				fmt.Fprintf(out, "Model saved to %s\n", settings.ModelPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&flags.ModelPath, "output", "", "Where to save the artifact (defaults to classifier.model_path)")
	cmd.Flags().StringVar(&flags.CorpusPath, "corpus", "", "YAML corpus to train on (embedded corpus when empty)")
	return cmd
}
