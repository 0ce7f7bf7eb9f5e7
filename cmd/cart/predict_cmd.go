package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	dataConfig
	treeSource
	output string
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{dataConfig: dataConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the labels of a set of data",
		Long:  `Use a tree to predict the label of every row in a set of data`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.run(config.Context()); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
	config.treeSource.flags(cmd)
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv), NumPy (.npy) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the rows to predict (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with a description of the input data")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a CSV (.csv) or NumPy (.npy) file to which the predictions will be written (defaults to STDOUT in CSV)")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if err := pcc.treeSource.Validate(); err != nil {
		return err
	}
	return pcc.dataConfig.Validate()
}

func (pcc *predictCmdConfig) run(ctx context.Context) error {
	if err := pcc.Validate(); err != nil {
		return err
	}
	c, t, err := loadClassifier(ctx, &pcc.dataConfig, &pcc.treeSource)
	if err != nil {
		return err
	}
	d, err := pcc.Dataset(ctx, treeColumns(t), false)
	if err != nil {
		return err
	}
	pcc.Logf("Predicting %d rows...", d.Len())
	predictions, err := c.Predict(ctx, d.Rows)
	if err != nil {
		return err
	}
	pcc.Logf("Done")
	return writePredictions(pcc.output, t.Label, predictions)
}
