package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/cart/tree"
	"github.com/pbanos/cart/tree/graphviz"
	treejson "github.com/pbanos/cart/tree/json"
	"github.com/pbanos/cart/tree/redisstore"
	"github.com/spf13/cobra"
	redis "gopkg.in/redis.v5"
)

const defaultRedisPrefix = "cart"

/*
treeSource holds the flags that locate a tree: a JSON file or the
address of a redis server and the key prefix the tree was published
under.
*/
type treeSource struct {
	treeInput   string
	redisAddr   string
	redisPrefix string
}

func (ts *treeSource) flags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&(ts.treeInput), "tree", "t", "", "path to a file from which the tree will be read and parsed as JSON")
	cmd.PersistentFlags().StringVar(&(ts.redisAddr), "redis", "", "address of a redis server from which the tree will be read if no tree file is given")
	cmd.PersistentFlags().StringVar(&(ts.redisPrefix), "redis-prefix", defaultRedisPrefix, "prefix of the redis keys holding the tree")
}

func (ts *treeSource) Validate() error {
	if ts.treeInput == "" && ts.redisAddr == "" {
		return fmt.Errorf("either the tree or the redis flag must be set")
	}
	return nil
}

// Load reads the tree onto a memory node store.
func (ts *treeSource) Load(ctx context.Context) (*tree.Tree, error) {
	t := tree.New(tree.NewMemoryNodeStore())
	if ts.treeInput != "" {
		f, err := os.Open(ts.treeInput)
		if err != nil {
			return nil, fmt.Errorf("reading tree in JSON from %s: %v", ts.treeInput, err)
		}
		defer f.Close()
		err = treejson.ReadJSONTree(ctx, t, treejson.NewNodeEncodeDecoder(), f)
		if err != nil {
			return nil, fmt.Errorf("parsing tree in JSON from %s: %v", ts.treeInput, err)
		}
		return t, nil
	}
	rc := redis.NewClient(&redis.Options{Addr: ts.redisAddr})
	defer rc.Close()
	src := redisstore.New(rc, ts.redisPrefix, treejson.NewNodeEncodeDecoder())
	n, err := tree.Copy(ctx, t.NodeStore, src)
	if err != nil {
		return nil, fmt.Errorf("reading tree from redis at %s: %v", ts.redisAddr, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("no tree under prefix %s in redis at %s", ts.redisPrefix, ts.redisAddr)
	}
	return t, nil
}

// publishTree replaces whatever tree was under the prefix on the
// redis server with the given one.
func publishTree(ctx context.Context, addr, prefix string, t *tree.Tree) (int, error) {
	rc := redis.NewClient(&redis.Options{Addr: addr})
	defer rc.Close()
	dst := redisstore.New(rc, prefix, treejson.NewNodeEncodeDecoder())
	if err := dst.Reset(ctx); err != nil {
		return 0, err
	}
	return tree.Copy(ctx, dst, t.NodeStore)
}

type treeCmdConfig struct {
	*rootCmdConfig
	treeSource
	graphOutput string
}

func treeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &treeCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show a classification tree",
		Long:  `Show a classification tree as text or render it as a graph`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.run(config.Context()); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
	config.treeSource.flags(cmd)
	cmd.Flags().StringVarP(&(config.graphOutput), "graph", "g", "", "path to a .dot, .svg, .png or .jpg file onto which the tree will be rendered instead of printing it")
	return cmd
}

func (tcc *treeCmdConfig) Validate() error {
	return tcc.treeSource.Validate()
}

func (tcc *treeCmdConfig) run(ctx context.Context) error {
	if err := tcc.Validate(); err != nil {
		return err
	}
	t, err := tcc.Load(ctx)
	if err != nil {
		return err
	}
	if tcc.graphOutput != "" {
		tcc.Logf("Rendering tree onto %s...", tcc.graphOutput)
		return graphviz.RenderFile(ctx, t, tcc.graphOutput)
	}
	fmt.Print(t)
	return nil
}
