package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type setCmdConfig struct {
	dataConfig
	setOutput     string
	targetsOutput string
}

func setCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &setCmdConfig{dataConfig: dataConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Manage sets of data",
		Long:  `Copy sets of data between CSV, NumPy, SQLite3, PostgreSQL and MongoDB`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.run(config.Context()); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
	config.inputFlags(cmd)
	cmd.Flags().StringVarP(&(config.setOutput), "output", "o", "", "path to a CSV (.csv), NumPy (.npy) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL to dump the output set (defaults to STDOUT in CSV)")
	cmd.Flags().StringVar(&(config.targetsOutput), "targets-output", "", "path to a NumPy (.npy) file to which the labels of a NumPy output are written")
	cmd.AddCommand(splitCmd(config))
	return cmd
}

func (scc *setCmdConfig) inputFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&(scc.dataInput), "input", "i", "", "path to an input CSV (.csv), NumPy (.npy) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the input set (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVar(&(scc.targetsInput), "targets", "", "path to a NumPy (.npy) file with the labels of the rows of a NumPy input")
	cmd.PersistentFlags().StringVarP(&(scc.metadataInput), "metadata", "m", "", "path to a YML file with a description of the input data")
	cmd.PersistentFlags().StringVarP(&(scc.label), "label", "c", "", "name of the label column, if the set is labeled")
}

func (scc *setCmdConfig) Validate() error {
	if scc.targetsOutput != "" && locationOf(scc.setOutput) != npyLocation {
		return fmt.Errorf("targets-output flag is only valid with a NumPy (.npy) output")
	}
	return scc.dataConfig.Validate()
}

// InputSet reads the input set, labeled when a label is known.
func (scc *setCmdConfig) InputSet(ctx context.Context) (*datasetWithTable, error) {
	md, err := scc.Metadata()
	if err != nil {
		return nil, err
	}
	d, err := scc.Dataset(ctx, nil, md.Data.Label != "")
	if err != nil {
		return nil, err
	}
	return &datasetWithTable{d, md.Data.Table}, nil
}

func (scc *setCmdConfig) run(ctx context.Context) error {
	if err := scc.Validate(); err != nil {
		return err
	}
	in, err := scc.InputSet(ctx)
	if err != nil {
		return err
	}
	n, err := writeDataset(ctx, scc.setOutput, scc.targetsOutput, in.table, in.Dataset)
	if err != nil {
		return err
	}
	scc.Logf("Wrote %d rows", n)
	return nil
}
