package cmd

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/learnpulse/internal/dataset"
	"github.com/abhisek/learnpulse/internal/pipeline"
	"github.com/abhisek/learnpulse/internal/store"
)

var (
	trainHeading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8B5CF6"))
	trainLabel   = lipgloss.NewStyle().Foreground(lipgloss.Color("#14B8A6"))
	trainWarn    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F43F5E"))
	trainOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fit the clustering model from a dataset directory",
	Long: "Loads the raw relation files (users.json, trackings.json, ...) from a\n" +
		"directory, computes the feature matrix, fits the scaler and centroids,\n" +
		"and stores the resulting model artifacts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("data")
		k, _ := cmd.Flags().GetInt("k")
		seed, _ := cmd.Flags().GetInt64("seed")

		ds, err := dataset.LoadDir(dir)
		if err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}

		artifacts, report, err := pipeline.Train(cmd.Context(), ds, pipeline.TrainConfig{
			K:    k,
			Seed: seed,
		})
		if err != nil {
			return err
		}

		printTrainReport(artifacts.Labels, report)

		// A violated mapping must never reach the store: serve would load
		// it and hand learners the wrong labels.
		if report.LabelError != nil {
			return fmt.Errorf("label mapping check failed: %w", report.LabelError)
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

		if err := st.ArtifactRepo().Save(cmd.Context(), artifacts); err != nil {
			return fmt.Errorf("save artifacts: %w", err)
		}

		fmt.Println(trainOK.Render(fmt.Sprintf("model saved to %s", dbPath)))
		return nil
	},
}

func init() {
	trainCmd.Flags().String("data", "data", "Directory containing the relation JSON files")
	trainCmd.Flags().Int("k", 3, "Number of clusters")
	trainCmd.Flags().Int64("seed", 42, "Random seed for centroid initialization")
}

func printTrainReport(labels map[int]string, r *pipeline.TrainReport) {
	fmt.Println(trainHeading.Render(fmt.Sprintf("trained on %d learners", r.Learners)))

	for c := 0; c < len(r.ClusterSizes); c++ {
		label := labels[c]
		if label == "" {
			label = fmt.Sprintf("cluster %d", c)
		}
		fmt.Println(trainLabel.Render(fmt.Sprintf("%s (%d learners)", label, r.ClusterSizes[c])))

		var b strings.Builder
		for j, name := range r.FeatureNames {
			fmt.Fprintf(&b, "  %-36s %.4f\n", name, r.ClusterMeans[c][j])
		}
		fmt.Print(b.String())
	}

	if r.LabelError != nil {
		fmt.Println(trainWarn.Render("label mapping check failed: " + r.LabelError.Error()))
		fmt.Println(trainWarn.Render("artifacts were not saved; re-verify the cluster-id to label mapping and retrain"))
	} else {
		fmt.Println(trainOK.Render("label mapping check passed"))
	}
}
