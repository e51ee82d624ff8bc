package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meteo-transit/meteo/pkg/dataset"
	"github.com/meteo-transit/meteo/pkg/store"
)

// importCommand creates the import command that stores a dataset file.
func (c *CLI) importCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Store a dataset file under a name",
		Long: `Store a dataset file under a name.

The file is validated before it is stored. Importing under an existing name
replaces the stored dataset. Use --store to pick the backend (sqlite or
mongo); stored datasets are selected with --dataset NAME.`,
		Example: `  meteo import delhi.json --name delhi
  meteo route KSHG MDHS --dataset delhi`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				base := filepath.Base(args[0])
				name = strings.TrimSuffix(base, filepath.Ext(base))
			}
			return c.runImport(cmd.Context(), args[0], name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "dataset name (default file name without extension)")
	return cmd
}

func (c *CLI) runImport(ctx context.Context, path, name string) error {
	ds, err := dataset.Import(path)
	if err != nil {
		return err
	}

	st, err := c.Config.OpenStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	info, err := st.Save(ctx, name, ds)
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}

	printSuccess("Stored %s", StyleHighlight.Render(info.Name))
	printDetail("%d lines · %d stations · %s", info.Lines, info.Stations, c.Config.Store.Backend)
	printNextStep("Plan on it", fmt.Sprintf("meteo route FROM TO --dataset %s", info.Name))
	return nil
}

// exportCommand creates the export command that writes the current dataset.
func (c *CLI) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write the configured dataset to a file",
		Long: `Write the configured dataset to a file.

The format follows the file extension (.json, .yaml or .yml), so this also
converts between formats.`,
		Example: `  meteo export delhi.yaml --dataset delhi
  meteo export metro.yaml --data metro.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx, false)
			if err != nil {
				return err
			}
			defer s.Close()

			ds, err := s.source.Load(ctx)
			if err != nil {
				return err
			}
			if err := dataset.Export(ds, args[0]); err != nil {
				return err
			}
			printSuccess("Exported %s", s.source)
			printFile(args[0])
			return nil
		},
	}
}

// datasetsCommand creates the datasets command for managing stored datasets.
func (c *CLI) datasetsCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "List stored datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				infos, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				return printDatasets(cmd.OutOrStdout(), infos, jsonOut)
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print as JSON")

	cmd.AddCommand(&cobra.Command{
		Use:     "rm NAME",
		Aliases: []string{"delete"},
		Short:   "Delete a stored dataset",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				if err := st.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess("Deleted %s", args[0])
				return nil
			})
		},
	})

	return cmd
}

func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := c.Config.OpenStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	return fn(st)
}

func printDatasets(out io.Writer, infos []store.Info, jsonOut bool) error {
	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}
	if len(infos) == 0 {
		printInfo("No stored datasets")
		printNextStep("Add one", "meteo import FILE --name NAME")
		return nil
	}
	_, err := fmt.Fprintln(out, formatDatasets(infos))
	return err
}
