package main

import (
	"fmt"

	"github.com/joeycumines/go-shadowtree/internal/fixture"
	"github.com/joeycumines/go-shadowtree/mounting"
	"github.com/joeycumines/go-shadowtree/shadow"
	"github.com/spf13/cobra"
)

func newTreeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   `tree FILE`,
		Short: `Print the views mounted for a tree`,
		Long: `Print the views mounted for the tree in FILE, one per line, indented by
depth. Flattened and hidden nodes are not mounted.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runTree,
	}
}

func (x *app) runTree(cmd *cobra.Command, args []string) error {
	registry, err := shadow.NewRegistry()
	if err != nil {
		return err
	}
	root, err := fixture.NewLoader(registry).LoadFile(args[0])
	if err != nil {
		return err
	}

	tree, err := mounting.BuildStubViewTreeUsingDifferentiator(x.differentiator(), root)
	if err != nil {
		return err
	}

	x.logger.Info().
		Int(`views`, tree.Size()).
		Log(`built view tree`)

	_, err = fmt.Fprint(cmd.OutOrStdout(), tree.Snapshot())
	return err
}
