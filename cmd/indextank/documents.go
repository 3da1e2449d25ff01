package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/indextank/indextank-go/client"
)

func (a *app) newAddDocumentCmd() *cobra.Command {
	var name, docID string
	var fields, variables, categories []string

	cmd := &cobra.Command{
		Use:   "add-document",
		Short: "Index one document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fieldMap, err := parsePairs("field", fields)
			if err != nil {
				return err
			}
			vars, err := parseVariables("variable", variables)
			if err != nil {
				return err
			}
			cats, err := parsePairs("category", categories)
			if err != nil {
				return err
			}
			doc, err := client.NewDocument(docID, fieldMap, client.WithVariables(vars), client.WithCategories(cats))
			if err != nil {
				return err
			}
			return a.run(cmd, "add-document", func(ctx context.Context, c *client.Client) error {
				if err := c.Index(name).AddDocument(ctx, doc); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Document added: %s\n", docID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "index", "", "Index name (required)")
	cmd.Flags().StringVar(&docID, "docid", "", "Document id (required)")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "Field name=value (repeatable, required)")
	cmd.Flags().StringArrayVar(&variables, "variable", nil, "Scoring variable index=value (repeatable)")
	cmd.Flags().StringArrayVar(&categories, "category", nil, "Category name=value (repeatable)")
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("docid")
	_ = cmd.MarkFlagRequired("field")
	return cmd
}

type batchReport struct {
	Submitted int            `json:"submitted"`
	Added     int            `json:"added"`
	Failed    []failedReport `json:"failed"`
	Retried   int            `json:"retried,omitempty"`
}

type failedReport struct {
	Position int    `json:"position"`
	DocID    string `json:"docid"`
	Error    string `json:"error"`
}

func readDocuments(path string) ([]client.Document, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	var docs []client.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

func report(br *client.BatchResults) batchReport {
	rep := batchReport{Submitted: br.Len(), Failed: []failedReport{}}
	for i := 0; i < br.Len(); i++ {
		ok, _ := br.Result(i)
		if ok {
			rep.Added++
			continue
		}
		doc, _ := br.Document(i)
		msg, _ := br.ErrorMessage(i)
		rep.Failed = append(rep.Failed, failedReport{Position: i, DocID: doc.ID(), Error: msg})
	}
	return rep
}

func (a *app) newAddDocumentsCmd() *cobra.Command {
	var name, file string
	var retryFailed, async bool

	cmd := &cobra.Command{
		Use:   "add-documents",
		Short: "Index a batch of documents from a JSON array file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			docs, err := readDocuments(file)
			if err != nil {
				return err
			}
			if async {
				return a.run(cmd, "add-documents", func(ctx context.Context, c *client.Client) error {
					return enqueueBatch(ctx, cmd, c, name, docs)
				})
			}
			return a.run(cmd, "add-documents", func(ctx context.Context, c *client.Client) error {
				idx := c.Index(name)
				br, err := idx.AddDocuments(ctx, docs)
				if err != nil {
					return err
				}
				rep := report(br)
				if retryFailed && br.HasErrors() {
					failed := br.FailedDocuments().Collect()
					log.Info().Int("count", len(failed)).Str("index", name).Msg("resubmitting failed documents")
					again, err := idx.AddDocuments(ctx, failed)
					if err != nil {
						return err
					}
					rep.Retried = len(failed)
					rep.Added += again.Len() - again.FailedCount()
					retried := report(again)
					rep.Failed = retried.Failed
				}
				return printJSON(cmd.OutOrStdout(), rep)
			})
		},
	}
	cmd.Flags().StringVar(&name, "index", "", "Index name (required)")
	cmd.Flags().StringVar(&file, "file", "", "JSON array of documents (required)")
	cmd.Flags().BoolVar(&retryFailed, "retry-failed", false, "Resubmit rejected documents once")
	cmd.Flags().BoolVar(&async, "async", false, "Send through the background queue and wait for it to flush")
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func enqueueBatch(ctx context.Context, cmd *cobra.Command, c *client.Client, name string, docs []client.Document) error {
	var rep batchReport
	var batchErr error
	ack, err := c.Index(name).EnqueueDocuments(ctx, docs, func(br *client.BatchResults, err error) {
		if err != nil {
			batchErr = err
			return
		}
		rep = report(br)
	})
	if err != nil {
		return err
	}
	log.Debug().Str("index", ack.Index).Int("documents", ack.Documents).Str("status", ack.Status).Msg("batch enqueued")
	if err := c.AwaitConsistency(ctx, name); err != nil {
		return err
	}
	if batchErr != nil {
		return batchErr
	}
	return printJSON(cmd.OutOrStdout(), rep)
}

func (a *app) newDeleteDocumentCmd() *cobra.Command {
	var name, docID string
	cmd := &cobra.Command{
		Use:   "delete-document",
		Short: "Remove a document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, "delete-document", func(ctx context.Context, c *client.Client) error {
				if err := c.Index(name).DeleteDocument(ctx, docID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Document deleted: %s\n", docID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "index", "", "Index name (required)")
	cmd.Flags().StringVar(&docID, "docid", "", "Document id (required)")
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("docid")
	return cmd
}

func (a *app) newUpdateVariablesCmd() *cobra.Command {
	var name, docID string
	var variables []string
	cmd := &cobra.Command{
		Use:   "update-variables",
		Short: "Replace the scoring variables of a document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vars, err := parseVariables("variable", variables)
			if err != nil {
				return err
			}
			return a.run(cmd, "update-variables", func(ctx context.Context, c *client.Client) error {
				if err := c.Index(name).UpdateVariables(ctx, docID, vars); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Variables updated: %s\n", docID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "index", "", "Index name (required)")
	cmd.Flags().StringVar(&docID, "docid", "", "Document id (required)")
	cmd.Flags().StringArrayVar(&variables, "variable", nil, "Scoring variable index=value (repeatable, required)")
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("docid")
	_ = cmd.MarkFlagRequired("variable")
	return cmd
}

func (a *app) newUpdateCategoriesCmd() *cobra.Command {
	var name, docID string
	var categories []string
	cmd := &cobra.Command{
		Use:   "update-categories",
		Short: "Replace the categories of a document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats, err := parsePairs("category", categories)
			if err != nil {
				return err
			}
			return a.run(cmd, "update-categories", func(ctx context.Context, c *client.Client) error {
				if err := c.Index(name).UpdateCategories(ctx, docID, cats); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Categories updated: %s\n", docID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "index", "", "Index name (required)")
	cmd.Flags().StringVar(&docID, "docid", "", "Document id (required)")
	cmd.Flags().StringArrayVar(&categories, "category", nil, "Category name=value (repeatable, required)")
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("docid")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func (a *app) newPromoteCmd() *cobra.Command {
	var name, docID, query string
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Make a document the top result for a query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, "promote", func(ctx context.Context, c *client.Client) error {
				if err := c.Index(name).Promote(ctx, docID, query); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Promoted %s for %q\n", docID, query)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "index", "", "Index name (required)")
	cmd.Flags().StringVar(&docID, "docid", "", "Document id (required)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Query string (required)")
	_ = cmd.MarkFlagRequired("index")
	_ = cmd.MarkFlagRequired("docid")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}
