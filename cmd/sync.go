package cmd

import (
	"encoding/json"
	"fmt"

	"docsync/app"
	"docsync/es"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func toKeys(ss []string) []any {
	keys := make([]any, 0, len(ss))
	for _, s := range ss {
		keys = append(keys, s)
	}
	return keys
}

func newReindexCmd(rt *runtime) *cobra.Command {
	var keys []string

	cmd := &cobra.Command{
		Use:   "reindex <resource>",
		Short: "Reindex the rows of a resource from the database",
		Long: `Reindex loads the rows of a resource from Postgres and replaces their
documents in batches. With --keys only the given primary keys are reindexed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := rt.resource(args[0])
			if err != nil {
				return err
			}

			src, closeSrc, err := openSource(cmd.Context(), rt.cfg.Postgres.DSN)
			if err != nil {
				return err
			}
			defer closeSrc()

			var sum app.ReindexSummary
			if len(keys) > 0 {
				sum, err = rt.app.SyncKeys(cmd.Context(), src, rc, toKeys(keys))
			} else {
				sum, err = rt.app.ReindexFrom(cmd.Context(), src, rc)
			}
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(sum)
		},
	}
	cmd.Flags().StringSliceVar(&keys, "keys", nil, "primary keys to reindex (default all rows)")
	return cmd
}

func newRemoveCmd(rt *runtime) *cobra.Command {
	var keys []string

	cmd := &cobra.Command{
		Use:   "remove <resource>",
		Short: "Delete the documents of the given primary keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(keys) == 0 {
				return fmt.Errorf("--keys is required")
			}
			rc, err := rt.resource(args[0])
			if err != nil {
				return err
			}

			res, err := rt.app.RemoveKeys(cmd.Context(), rc, toKeys(keys))
			if err != nil {
				return err
			}
			if failed := res.Failed(); len(failed) > 0 {
				rt.log.Warn("some documents were not removed", zap.String("resource", rc.Resource), zap.Int("failed", len(failed)))
			}
			if missing := res.Count(es.ResultNotFound); missing > 0 {
				rt.log.Info("some documents did not exist", zap.String("resource", rc.Resource), zap.Int("missing", missing))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d document(s) from %s\n", res.Count(es.ResultDeleted), rc.GetIndexName())
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&keys, "keys", nil, "primary keys to remove")
	return cmd
}
