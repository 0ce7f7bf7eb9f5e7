package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/cart"
	"github.com/pbanos/cart/metric"
	"github.com/pbanos/cart/tree"
	"github.com/spf13/cobra"
)

type testCmdConfig struct {
	dataConfig
	treeSource
	metricName string
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{dataConfig: dataConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the performance of a tree against a test data set`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.run(config.Context()); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
	config.treeSource.flags(cmd)
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv), NumPy (.npy) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to test the tree against (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVar(&(config.targetsInput), "targets", "", "path to a NumPy (.npy) file with the labels of the rows of a NumPy input")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with a description of the input data")
	cmd.PersistentFlags().StringVarP(&(config.label), "label", "c", "", "name of the label the tree predicts (defaults to the one stored with the tree)")
	cmd.PersistentFlags().StringVar(&(config.metricName), "metric", string(metric.Accuracy), fmt.Sprintf("metric to compute, one of %v", metric.Metrics()))
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if err := tcc.treeSource.Validate(); err != nil {
		return err
	}
	return tcc.dataConfig.Validate()
}

func (tcc *testCmdConfig) run(ctx context.Context) error {
	if err := tcc.Validate(); err != nil {
		return err
	}
	m, err := metric.Parse(tcc.metricName)
	if err != nil {
		return err
	}
	c, t, err := loadClassifier(ctx, &tcc.dataConfig, &tcc.treeSource)
	if err != nil {
		return err
	}
	d, err := tcc.Dataset(ctx, treeColumns(t), true)
	if err != nil {
		return err
	}
	tcc.Logf("Testing tree against testset with %d samples...", d.Len())
	score, err := c.Score(ctx, d.Rows, d.Targets, m)
	if err != nil {
		return fmt.Errorf("testing tree: %w", err)
	}
	tcc.Logf("Done")
	fmt.Printf("%f %s\n", score, m)
	return nil
}

// loadClassifier loads the tree and returns a classifier predicting
// with it, using the concurrency from the metadata. The label stored
// with the tree is taken when no other is given.
func loadClassifier(ctx context.Context, dc *dataConfig, ts *treeSource) (*cart.Classifier, *tree.Tree, error) {
	md, err := dc.Metadata()
	if err != nil {
		return nil, nil, err
	}
	t, err := ts.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err = logDepth(ctx, dc.rootCmdConfig, t); err != nil {
		return nil, nil, err
	}
	if md.Data.Label == "" {
		md.Data.Label = t.Label
	}
	c, err := cart.New(md.Tree, cart.WithLogger(dc.Logger()))
	if err != nil {
		return nil, nil, err
	}
	c.SetTree(t)
	return c, t, nil
}

// treeColumns returns the columns a tree was grown on, or nil to read
// the ones in the metadata if it does not know them.
func treeColumns(t *tree.Tree) []string {
	if len(t.Columns) == 0 {
		return nil
	}
	return t.Columns
}
