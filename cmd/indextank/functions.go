package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/indextank/indextank-go/client"
)

func (a *app) newAddFunctionCmd() *cobra.Command {
	var name, definition string
	var id int
	cmd := &cobra.Command{
		Use:   "add-function",
		Short: "Define or replace a scoring function",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, "add-function", func(ctx context.Context, c *client.Client) error {
				if err := c.Index(name).AddFunction(ctx, id, definition); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Function %d set\n", id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "index", "", "Index name (required)")
	cmd.Flags().IntVar(&id, "id", 0, "Function id (required)")
	cmd.Flags().StringVar(&definition, "definition", "", "Function definition, e.g. \"-age\" (required)")
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("definition")
	return cmd
}

func (a *app) newDeleteFunctionCmd() *cobra.Command {
	var name string
	var id int
	cmd := &cobra.Command{
		Use:   "delete-function",
		Short: "Remove a scoring function",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, "delete-function", func(ctx context.Context, c *client.Client) error {
				if err := c.Index(name).DeleteFunction(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Function %d deleted\n", id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "index", "", "Index name (required)")
	cmd.Flags().IntVar(&id, "id", 0, "Function id (required)")
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func (a *app) newListFunctionsCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "list-functions",
		Short: "List the scoring functions of an index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, "list-functions", func(ctx context.Context, c *client.Client) error {
				fns, err := c.Index(name).ListFunctions(ctx)
				if err != nil {
					return err
				}
				ids := make([]int, 0, len(fns))
				for id := range fns {
					ids = append(ids, id)
				}
				slices.Sort(ids)
				for _, id := range ids {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", id, fns[id])
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "index", "", "Index name (required)")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}
