package cmd

import (
	"encoding/json"
	"fmt"

	"docsync/app"
	"docsync/model"

	"github.com/spf13/cobra"
)

type searchOutput struct {
	Total    int64             `json:"total"`
	Relation string            `json:"relation,omitempty"`
	Data     []json.RawMessage `json:"data"`
}

func newSearchCmd(rt *runtime) *cobra.Command {
	var (
		query    string
		sortJSON string
		fields   []string
		page     int
		limit    int
		minScore float64
	)

	cmd := &cobra.Command{
		Use:   "search <resource>",
		Short: "Search the index of a resource and print the documents as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := rt.resource(args[0])
			if err != nil {
				return err
			}

			req := app.SearchRequest{
				Page:         page,
				Limit:        limit,
				SourceFields: fields,
				MinScore:     minScore,
			}
			if query != "" {
				if err := json.Unmarshal([]byte(query), &req.Query); err != nil {
					return fmt.Errorf("--query: %w", err)
				}
			}
			if sortJSON != "" {
				if err := json.Unmarshal([]byte(sortJSON), &req.Sort); err != nil {
					return fmt.Errorf("--sort: %w", err)
				}
			}

			res, err := rt.app.Search(cmd.Context(), model.NewRecord(rc, nil), req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(searchOutput{Total: res.Total, Relation: res.Relation, Data: res.Data})
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", `query DSL as JSON, e.g. '{"match":{"name":"ann"}}'`)
	cmd.Flags().StringVar(&sortJSON, "sort", "", `sort clauses as a JSON array, e.g. '[{"id":"desc"}]'`)
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "_source fields to return")
	cmd.Flags().IntVar(&page, "page", app.DefaultPage, "page number, starting at 1")
	cmd.Flags().IntVar(&limit, "limit", app.DefaultLimit, "documents per page")
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "minimum score of returned documents")
	return cmd
}
