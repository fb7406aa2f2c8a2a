package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/learnpulse/internal/dataset"
	"github.com/abhisek/learnpulse/internal/insight"
	"github.com/abhisek/learnpulse/internal/narrative"
	"github.com/abhisek/learnpulse/internal/pipeline"
	"github.com/abhisek/learnpulse/internal/store"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Assign clusters and insight messages from a JSON payload",
	Long: "Reads a JSON payload holding the raw relations (users, trackings,\n" +
		"submissions, ...), loads the stored model artifacts, and prints one\n" +
		"result per learner. Use --input - to read from stdin.",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")

		var (
			payload []byte
			err     error
		)
		if input == "-" {
			payload, err = io.ReadAll(cmd.InOrStdin())
		} else {
			payload, err = os.ReadFile(input)
		}
		if err != nil {
			return fmt.Errorf("read payload: %w", err)
		}

		ds, err := dataset.Decode(payload)
		if err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return err
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		artifacts, err := st.ArtifactRepo().Latest(cmd.Context())
		if err != nil {
			if errors.Is(err, store.ErrNoArtifacts) {
				return errors.New("no model artifacts stored; run `learnpulse train` first")
			}
			return err
		}

		resolver := buildResolver(cmd, st)
		p, err := pipeline.New(artifacts, resolver)
		if err != nil {
			return err
		}

		results, err := p.Predict(cmd.Context(), ds)
		if err != nil {
			if errors.Is(err, pipeline.ErrInsufficientData) {
				return errors.New("payload contains no learners")
			}
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func init() {
	predictCmd.Flags().String("input", "-", "Payload file, or - for stdin")
}

// buildResolver wires the LLM narrator when an API key is discoverable in
// the environment; otherwise insight messages come from the deterministic
// fallback table.
func buildResolver(cmd *cobra.Command, st *store.Store) *insight.Resolver {
	cfg, ok := narrative.DiscoverConfig()
	if !ok {
		return insight.NewResolver(nil)
	}
	provider, err := narrative.NewProvider(cmd.Context(), cfg, st.NarrativeLog())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "narrative provider unavailable, using fallback messages: %v\n", err)
		return insight.NewResolver(nil)
	}
	return insight.NewResolver(narrative.NewNarrator(provider),
		insight.WithTimeout(cfg.Timeout))
}
