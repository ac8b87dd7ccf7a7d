package cmd

import (
	"fmt"

	"docsync/model"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newIndexCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Manage the index of a resource",
	}

	var shards, replicas int
	create := &cobra.Command{
		Use:   "create <resource>",
		Short: "Create the index with its settings and mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := rt.resource(args[0])
			if err != nil {
				return err
			}
			x := model.NewRecord(rc, nil)
			if _, err := rt.app.CreateIndex(cmd.Context(), x, shards, replicas); err != nil {
				return err
			}
			rt.log.Info("index created", zap.String("index", x.EsIndexName()))
			return nil
		},
	}
	create.Flags().IntVar(&shards, "shards", 0, "number of primary shards, overrides the configured settings")
	create.Flags().IntVar(&replicas, "replicas", 0, "number of replicas, overrides the configured settings")

	del := &cobra.Command{
		Use:   "delete <resource>",
		Short: "Delete the index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := rt.resource(args[0])
			if err != nil {
				return err
			}
			x := model.NewRecord(rc, nil)
			if _, err := rt.app.DeleteIndex(cmd.Context(), x); err != nil {
				return err
			}
			rt.log.Info("index deleted", zap.String("index", x.EsIndexName()))
			return nil
		},
	}

	reset := &cobra.Command{
		Use:   "reset <resource>",
		Short: "Drop and recreate the index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := rt.resource(args[0])
			if err != nil {
				return err
			}
			x := model.NewRecord(rc, nil)
			if err := rt.app.ResetIndex(cmd.Context(), x); err != nil {
				return err
			}
			rt.log.Info("index reset", zap.String("index", x.EsIndexName()))
			return nil
		},
	}

	mapping := &cobra.Command{
		Use:   "mapping <resource>",
		Short: "Put the configured mapping on the existing index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := rt.resource(args[0])
			if err != nil {
				return err
			}
			ok, err := rt.app.PutMapping(cmd.Context(), model.NewRecord(rc, nil))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "resource %q defines no mapping\n", rc.Resource)
				return nil
			}
			rt.log.Info("mapping updated", zap.String("index", rc.GetIndexName()))
			return nil
		},
	}

	cmd.AddCommand(create, del, reset, mapping)
	return cmd
}
