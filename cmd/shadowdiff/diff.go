package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/go-cmp/cmp"
	"github.com/joeycumines/go-shadowtree/internal/fixture"
	"github.com/joeycumines/go-shadowtree/mounting"
	"github.com/joeycumines/go-shadowtree/shadow"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// errVerify indicates the mutations did not transform the old views into the
// new views.
var errVerify = errors.New(`verify failed`)

// mutationRecord is the YAML output format of a mutation.
type mutationRecord struct {
	Type      string               `yaml:"type"`
	Component shadow.ComponentName `yaml:"component"`
	Tag       shadow.Tag           `yaml:"tag"`
	Parent    *shadow.Tag          `yaml:"parent,omitempty"`
	Index     *int                 `yaml:"index,omitempty"`
	Props     shadow.RawProps      `yaml:"props,omitempty"`
}

func newDiffCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   `diff OLD NEW`,
		Short: `Print the mutations from one tree to another`,
		Long: `Print the mutations that transform the views mounted for the OLD tree into
the views mounted for the NEW tree. Nodes in both files are matched by surface
and tag.

Examples:
  shadowdiff diff old.yaml new.yaml
  shadowdiff diff old.yaml new.yaml --mode classic --output yaml --verify`,
		Args: cobra.ExactArgs(2),
		RunE: a.runDiff,
	}

	defaults := defaultConfig()
	flags := cmd.Flags()
	flags.StringVarP(&a.flags.Output, `output`, `o`, defaults.Output, `output format (text or yaml)`)
	flags.BoolVar(&a.flags.Verify, `verify`, defaults.Verify, `apply the mutations to a stub view tree, and check the result`)

	return cmd
}

func (x *app) runDiff(cmd *cobra.Command, args []string) error {
	registry, err := shadow.NewRegistry()
	if err != nil {
		return err
	}
	loader := fixture.NewLoader(registry)

	oldRoot, err := loader.LoadFile(args[0])
	if err != nil {
		return err
	}
	newRoot, err := loader.LoadFile(args[1])
	if err != nil {
		return err
	}

	mutations := x.differentiator().Calculate(oldRoot, newRoot)

	x.logger.Info().
		Str(`mode`, x.mode.String()).
		Int(`mutations`, len(mutations)).
		Log(`calculated mutations`)

	if err := writeMutations(cmd.OutOrStdout(), x.cfg.Output, mutations); err != nil {
		return err
	}

	if x.cfg.Verify {
		if err := verifyMutations(oldRoot, newRoot, mutations); err != nil {
			return err
		}
		x.logger.Info().Log(`verified mutations`)
	}

	return nil
}

func writeMutations(w io.Writer, output string, mutations mounting.MutationList) error {
	if output == outputYAML {
		records := make([]mutationRecord, 0, len(mutations))
		for _, m := range mutations {
			records = append(records, newMutationRecord(m))
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	}
	for _, m := range mutations {
		if _, err := fmt.Fprintln(w, m); err != nil {
			return err
		}
	}
	return nil
}

func newMutationRecord(m mounting.Mutation) mutationRecord {
	view := m.NewChildView
	if m.Type == mounting.Delete || m.Type == mounting.Remove {
		view = m.OldChildView
	}
	r := mutationRecord{
		Type:      m.Type.String(),
		Component: view.ComponentName,
		Tag:       view.Tag,
	}
	if !m.ParentView.IsZero() {
		parent := m.ParentView.Tag
		r.Parent = &parent
	}
	if m.Index >= 0 {
		index := m.Index
		r.Index = &index
	}
	if m.Type == mounting.Create || m.Type == mounting.Update {
		if props, ok := view.Props.(shadow.RawProps); ok {
			r.Props = props
		}
	}
	return r
}

func verifyMutations(oldRoot, newRoot *shadow.Node, mutations mounting.MutationList) error {
	tree, err := mounting.BuildStubViewTree(oldRoot)
	if err != nil {
		return err
	}
	if err := tree.Mutate(mutations); err != nil {
		return fmt.Errorf(`%w: %w`, errVerify, err)
	}
	expected, err := mounting.BuildStubViewTree(newRoot)
	if err != nil {
		return err
	}
	if got, want := tree.Snapshot(), expected.Snapshot(); !got.Equal(want) {
		return fmt.Errorf("%w: views differ (-want +got):\n%s", errVerify, cmp.Diff(want.String(), got.String()))
	}
	if got, want := tree.Size(), expected.Size(); got != want {
		return fmt.Errorf(`%w: %d views, expected %d`, errVerify, got, want)
	}
	return nil
}
