package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/patchwire/patchwire/pkg/document"
	"github.com/patchwire/patchwire/pkg/flow"
)

// docCommand creates the document management command group.
func (c *CLI) docCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Create, merge, and migrate patch documents",
	}

	cmd.AddCommand(c.docCreateCommand())
	cmd.AddCommand(c.docMergeCommand())
	cmd.AddCommand(c.docMigrateCommand())
	cmd.AddCommand(c.docIDsCommand())

	return cmd
}

// docCreateCommand creates the "doc create" subcommand, which wraps a raw
// graph file in a document envelope with a fresh GUID.
func (c *CLI) docCreateCommand() *cobra.Command {
	var (
		output string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "create [graph.json]",
		Short: "Wrap a patch graph in a new document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			g, err := flow.ReadGraphFile(input)
			if err != nil {
				return fmt.Errorf("load graph %s: %w", input, err)
			}

			if name == "" {
				name = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
			}
			d := document.FromGraph(name, g)

			outputPath := output
			if outputPath == "" {
				outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".doc.json"
			}
			if err := writeDocument(d, outputPath); err != nil {
				return err
			}

			printSuccess("Created document %q", d.Name)
			printFile(outputPath)
			printDetail("ID: %s", d.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.doc.json)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "document name (default: input file name)")

	return cmd
}

// docMergeCommand creates the "doc merge" subcommand.
func (c *CLI) docMergeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "merge [base.doc.json] [other.doc.json]",
		Short: "Merge two documents into a new one",
		Long: `Merge two documents into a new one.

The merged document contains every node and wire from both inputs. Node IDs
that collide are re-keyed with a numeric suffix, and the second document's
positioned nodes are shifted below the first so the patches don't overlap.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := readDocument(args[0])
			if err != nil {
				return err
			}
			other, err := readDocument(args[1])
			if err != nil {
				return err
			}

			merged := document.Merge(base, other)

			outputPath := output
			if outputPath == "" {
				outputPath = strings.TrimSuffix(args[0], ".doc.json") + ".merged.doc.json"
			}
			if err := writeDocument(merged, outputPath); err != nil {
				return err
			}

			printSuccess("Merged into %q", merged.Name)
			printFile(outputPath)
			printStats(merged.Graph.NodeCount(), merged.Graph.EdgeCount(), false)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <base>.merged.doc.json)")

	return cmd
}

// docMigrateCommand creates the "doc migrate" subcommand, which rewrites a
// document at the current schema version.
func (c *CLI) docMigrateCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "migrate [doc.json]",
		Short: "Upgrade a document to the current schema version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			d, err := readDocument(input)
			if err != nil {
				return err
			}

			outputPath := output
			if outputPath == "" {
				outputPath = input
			}
			// Unmarshal already migrated; Marshal writes the current version.
			if err := writeDocument(d, outputPath); err != nil {
				return err
			}

			printSuccess("Migrated to version %d", document.CurrentVersion)
			printFile(outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: rewrite in place)")

	return cmd
}

// docIDsCommand creates the "doc ids" subcommand, which repairs and
// reassigns identifiers: a fresh document GUID, GUIDs for nodes that have
// none, and (with --nodes) fresh GUIDs for every node. Useful when forking
// a patch into a new document.
func (c *CLI) docIDsCommand() *cobra.Command {
	var (
		output   string
		allNodes bool
	)

	cmd := &cobra.Command{
		Use:   "ids [doc.json]",
		Short: "Assign fresh identifiers to a document",
		Long: `Assign fresh identifiers to a document.

The document always gets a new GUID, and nodes with a blank ID get one too.
With --nodes, every node is re-keyed with a fresh GUID and wires are
rewritten to follow the renamed endpoints.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("read document %s: %w", input, err)
			}
			// Decode leniently: a document is loadable here even when some
			// node IDs are still blank, since this command exists to fix
			// exactly that.
			d, err := document.Decode(data)
			if err != nil {
				return fmt.Errorf("parse document %s: %w", input, err)
			}

			filled := document.EnsureIDs(&d.Graph)
			rekeyed := 0
			if allNodes {
				rekeyed = len(document.RegenerateIDs(&d.Graph))
			}

			old := d.ID
			d.RegenerateID()
			d.Touch()
			if err := d.Validate(); err != nil {
				return fmt.Errorf("document %s: %w", input, err)
			}

			outputPath := output
			if outputPath == "" {
				outputPath = input
			}
			if err := writeDocument(d, outputPath); err != nil {
				return err
			}

			printSuccess("Assigned new IDs")
			printFile(outputPath)
			printDetail("%s %s %s", old, iconArrow, d.ID)
			if filled > 0 {
				printDetail("%d blank node IDs filled in", filled)
			}
			if allNodes {
				printDetail("%d nodes re-keyed", rekeyed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: rewrite in place)")
	cmd.Flags().BoolVar(&allNodes, "nodes", false, "re-key every node with a fresh GUID")

	return cmd
}

// readDocument loads and migrates a document file.
func readDocument(path string) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", path, err)
	}
	d, err := document.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parse document %s: %w", path, err)
	}
	return d, nil
}

// writeDocument serializes a document to a file.
func writeDocument(d *document.Document, path string) error {
	data, err := document.Marshal(d)
	if err != nil {
		return fmt.Errorf("serialize document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write document %s: %w", path, err)
	}
	return nil
}
