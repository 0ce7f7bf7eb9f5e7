package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pbanos/cart/dataset"
	"github.com/spf13/cobra"
)

type datasetWithTable struct {
	*dataset.Dataset
	table string
}

type splitCmdConfig struct {
	*setCmdConfig
	setOutput   string
	splitOutput string
	splitRatio  float64
	seed        int64
}

func splitCmd(setConfig *setCmdConfig) *cobra.Command {
	config := &splitCmdConfig{setCmdConfig: setConfig}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a set into two sets",
		Long:  `Split a set into an output set and a split set, such as a training and a testing set`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.run(config.Context()); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
	cmd.Flags().StringVarP(&(config.setOutput), "output", "o", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL to dump the output set (defaults to STDOUT in CSV)")
	cmd.Flags().StringVarP(&(config.splitOutput), "split-output", "s", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL to dump the split set (required)")
	cmd.Flags().Float64VarP(&(config.splitRatio), "split-ratio", "r", 0.2, "ratio of the rows of the input set that go to the split set")
	cmd.Flags().Int64Var(&(config.seed), "seed", 0, "seed to shuffle rows with (defaults to the current time)")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	if scc.splitOutput == "" {
		return fmt.Errorf("required split-output flag was not set")
	}
	if scc.splitRatio < 0 || scc.splitRatio > 1 {
		return fmt.Errorf("split-ratio must be between 0 and 1, got %v", scc.splitRatio)
	}
	for _, o := range []string{scc.setOutput, scc.splitOutput} {
		if locationOf(o) == npyLocation {
			return fmt.Errorf("cannot split onto NumPy output %s", o)
		}
	}
	return scc.dataConfig.Validate()
}

func (scc *splitCmdConfig) run(ctx context.Context) error {
	if err := scc.Validate(); err != nil {
		return err
	}
	in, err := scc.InputSet(ctx)
	if err != nil {
		return err
	}
	seed := scc.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	split, output, err := in.Split(scc.splitRatio, seed)
	if err != nil {
		return err
	}
	scc.Logf("Writing %d rows to the output set and %d to the split set...", output.Len(), split.Len())
	if _, err = writeDataset(ctx, scc.setOutput, "", in.table, output); err != nil {
		return err
	}
	if _, err = writeDataset(ctx, scc.splitOutput, "", in.table, split); err != nil {
		return err
	}
	scc.Logf("Done")
	return nil
}
