package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/cart"
	"github.com/pbanos/cart/metric"
	"github.com/pbanos/cart/tree"
	"github.com/pbanos/cart/tree/graphviz"
	treejson "github.com/pbanos/cart/tree/json"
	"github.com/spf13/cobra"
)

type growCmdConfig struct {
	dataConfig
	output      string
	graphOutput string
	redisAddr   string
	redisPrefix string
	maxDepth    int
	minSamples  int
	concurrency int
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{dataConfig: dataConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long:  `Grow a binary classification tree from a set of data to predict a certain label.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.run(config.Context()); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv), NumPy (.npy) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data to use to grow the tree (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVar(&(config.targetsInput), "targets", "", "path to a NumPy (.npy) file with the labels of the rows of a NumPy input")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with the tree hyperparameters and a description of the input data")
	cmd.PersistentFlags().StringVarP(&(config.label), "label", "c", "", "name of the label the generated tree should predict (required unless set in the metadata)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the generated tree will be written in JSON format (defaults to STDOUT)")
	cmd.PersistentFlags().StringVarP(&(config.graphOutput), "graph", "g", "", "path to a .dot, .svg, .png or .jpg file onto which the generated tree will be rendered")
	cmd.PersistentFlags().StringVar(&(config.redisAddr), "redis", "", "address of a redis server on which the generated tree will be published")
	cmd.PersistentFlags().StringVar(&(config.redisPrefix), "redis-prefix", defaultRedisPrefix, "prefix of the redis keys on which the generated tree will be published")
	cmd.PersistentFlags().IntVar(&(config.maxDepth), "max-depth", -1, "maximum depth of the tree, 0 for unbounded (overrides the metadata)")
	cmd.PersistentFlags().IntVar(&(config.minSamples), "min-samples", -1, "minimum number of rows on a node to split it (overrides the metadata)")
	cmd.PersistentFlags().IntVar(&(config.concurrency), "concurrency", -1, "number of goroutines scoring splits and predicting rows (overrides the metadata)")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.graphOutput != "" {
		if _, err := graphviz.FormatFor(gcc.graphOutput); err != nil {
			return err
		}
	}
	return gcc.dataConfig.Validate()
}

// Config returns the hyperparameters in the metadata with the
// overrides given as flags.
func (gcc *growCmdConfig) Config() (cart.Config, error) {
	md, err := gcc.Metadata()
	if err != nil {
		return cart.Config{}, err
	}
	cfg := md.Tree
	if gcc.maxDepth >= 0 {
		cfg.MaxDepth = gcc.maxDepth
	}
	if gcc.minSamples >= 0 {
		cfg.MinSamplesPerNode = gcc.minSamples
	}
	if gcc.concurrency >= 0 {
		cfg.Concurrency = gcc.concurrency
	}
	return cfg, nil
}

func (gcc *growCmdConfig) run(ctx context.Context) error {
	if err := gcc.Validate(); err != nil {
		return err
	}
	cfg, err := gcc.Config()
	if err != nil {
		return err
	}
	c, err := cart.New(cfg, cart.WithLogger(gcc.Logger()))
	if err != nil {
		return err
	}
	d, err := gcc.Dataset(ctx, nil, true)
	if err != nil {
		return err
	}
	gcc.Logf("Growing tree from a set with %d samples and %d features to predict %s ...", d.Len(), len(d.Columns), d.Label)
	err = c.Fit(ctx, d.Rows, d.Targets)
	if err != nil {
		return fmt.Errorf("growing the tree: %w", err)
	}
	t := c.Tree()
	t.Label = d.Label
	t.Columns = d.Columns
	gcc.Logf("Done")
	if score, err := c.Score(ctx, d.Rows, d.Targets, metric.Accuracy); err == nil {
		gcc.Logf("Training %s: %f", metric.Accuracy, score)
	}
	err = createAnd(gcc.output, func(f *os.File) error {
		return treejson.WriteJSONTree(ctx, t, treejson.NewNodeEncodeDecoder(), f)
	})
	if err != nil {
		return err
	}
	if gcc.redisAddr != "" {
		gcc.Logf("Publishing tree on redis at %s under %s...", gcc.redisAddr, gcc.redisPrefix)
		n, err := publishTree(ctx, gcc.redisAddr, gcc.redisPrefix, t)
		if err != nil {
			return fmt.Errorf("publishing tree on redis: %v", err)
		}
		gcc.Logf("Published %d nodes", n)
	}
	if gcc.graphOutput != "" {
		gcc.Logf("Rendering tree onto %s...", gcc.graphOutput)
		if err = graphviz.RenderFile(ctx, t, gcc.graphOutput); err != nil {
			return err
		}
	}
	return logDepth(ctx, gcc.rootCmdConfig, t)
}

func logDepth(ctx context.Context, rcc *rootCmdConfig, t *tree.Tree) error {
	depth, err := t.Depth(ctx)
	if err != nil {
		return err
	}
	n, err := t.Len(ctx)
	if err != nil {
		return err
	}
	rcc.Logf("Tree has %d nodes and depth %d", n, depth)
	return nil
}
