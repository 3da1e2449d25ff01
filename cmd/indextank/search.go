package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/indextank/indextank-go/client"
)

func (a *app) newSearchCmd() *cobra.Command {
	var (
		name, query     string
		start, length   int
		fn              int
		fetch, snippet  []string
		categories      []string
		variables       []string
		docvarFilters   []string
		functionFilters []string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search an index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := client.NewQuery(query)
			if cmd.Flags().Changed("start") {
				q = q.WithStart(start)
			}
			if cmd.Flags().Changed("len") {
				q = q.WithLength(length)
			}
			if cmd.Flags().Changed("function") {
				q = q.WithScoringFunction(fn)
			}
			if len(fetch) > 0 {
				q = q.WithFetchFields(fetch...)
			}
			if len(snippet) > 0 {
				q = q.WithSnippetFields(snippet...)
			}
			cats, err := parseCategoryFilters(categories)
			if err != nil {
				return err
			}
			q = q.WithCategoryFilters(cats)
			vars, err := parseVariables("var", variables)
			if err != nil {
				return err
			}
			q = q.WithQueryVariables(vars)
			for _, s := range docvarFilters {
				r, err := parseRangeFilter("docvar-filter", s)
				if err != nil {
					return err
				}
				q = q.WithDocumentVariableFilter(r.id, r.floor, r.ceil)
			}
			for _, s := range functionFilters {
				r, err := parseRangeFilter("function-filter", s)
				if err != nil {
					return err
				}
				q = q.WithFunctionFilter(r.id, r.floor, r.ceil)
			}

			return a.run(cmd, "search", func(ctx context.Context, c *client.Client) error {
				res, err := c.Index(name).Search(ctx, q)
				if err != nil {
					return err
				}
				log.Debug().Str("index", name).Int64("matches", res.Matches).Float64("search_time", res.SearchTime).Msg("search completed")
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&name, "index", "", "Index name (required)")
	f.StringVarP(&query, "query", "q", "", "Query string (required)")
	f.IntVar(&start, "start", 0, "Offset of the first result")
	f.IntVar(&length, "len", 10, "Number of results")
	f.IntVar(&fn, "function", 0, "Scoring function id")
	f.StringSliceVar(&fetch, "fetch", nil, "Fields to fetch (comma separated, * for all)")
	f.StringSliceVar(&snippet, "snippet", nil, "Fields to snippet")
	f.StringArrayVar(&categories, "category", nil, "Category filter category=value (repeatable)")
	f.StringArrayVar(&variables, "var", nil, "Query variable index=value (repeatable)")
	f.StringArrayVar(&docvarFilters, "docvar-filter", nil, "Document variable range id:floor:ceil, * for open (repeatable)")
	f.StringArrayVar(&functionFilters, "function-filter", nil, "Function output range id:floor:ceil, * for open (repeatable)")
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}
