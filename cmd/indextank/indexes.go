package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/indextank/indextank-go/client"
)

type indexSummary struct {
	Name         string `json:"name"`
	Code         string `json:"code"`
	Started      bool   `json:"started"`
	Size         int64  `json:"size"`
	PublicSearch bool   `json:"public_search"`
	CreationTime string `json:"creation_time,omitempty"`
}

func summarize(name string, md client.IndexMetadata) indexSummary {
	s := indexSummary{
		Name:         name,
		Code:         md.Code(),
		Started:      md.Started(),
		Size:         md.Size(),
		PublicSearch: md.PublicSearch(),
	}
	if t := md.CreationTime(); t != nil {
		s.CreationTime = t.UTC().Format("2006-01-02T15:04:05Z")
	}
	return s
}

func (a *app) newListIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-indexes",
		Short: "List the indexes of the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, "list-indexes", func(ctx context.Context, c *client.Client) error {
				indexes, err := c.ListIndexes(ctx)
				if err != nil {
					return err
				}
				out := make([]indexSummary, 0, len(indexes))
				for _, idx := range indexes {
					md, err := idx.Metadata(ctx)
					if err != nil {
						return err
					}
					out = append(out, summarize(idx.Name(), md))
				}
				log.Debug().Int("count", len(out)).Msg("indexes listed")
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
}

func (a *app) newCreateIndexCmd() *cobra.Command {
	var name string
	var wait bool

	cmd := &cobra.Command{
		Use:   "create-index",
		Short: "Create an index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, "create-index", func(ctx context.Context, c *client.Client) error {
				idx, err := c.CreateIndex(ctx, name)
				if err != nil {
					return err
				}
				if wait {
					if err := idx.WaitUntilStarted(ctx); err != nil {
						return err
					}
				}
				code, err := idx.Code(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Index created: %s (code %s)\n", name, code)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "index", "", "Index name (required)")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait until the index has started")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}

func (a *app) newDeleteIndexCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "delete-index",
		Short: "Delete an index and all its documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, "delete-index", func(ctx context.Context, c *client.Client) error {
				if err := c.DeleteIndex(ctx, name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Index deleted: %s\n", name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "index", "", "Index name (required)")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}

func (a *app) newIndexInfoCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "index-info",
		Short: "Show the metadata of an index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, "index-info", func(ctx context.Context, c *client.Client) error {
				md, err := c.Index(name).Metadata(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), summarize(name, md))
			})
		},
	}
	cmd.Flags().StringVar(&name, "index", "", "Index name (required)")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}
