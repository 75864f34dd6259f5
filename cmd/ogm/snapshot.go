package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"ogm/catalog"
	"ogm/data/db"
	"ogm/data/db/basic"
)

func newSnapshotCmd(e *env) *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and inspect association snapshots in SQLite",
	}
	cmd.PersistentFlags().StringVar(&dsn, "db", "ogm.db", "SQLite database file")

	withStore := func(ctx context.Context, fn func(*catalog.SQLStore) error) error {
		database, err := basic.New(ctx, db.DBConfig{DSN: dsn, MaxOpenConns: 1})
		if err != nil {
			return err
		}
		defer database.Close()

		store := catalog.NewSQLStore(database, "")
		if err := store.CreateTable(ctx); err != nil {
			return err
		}
		return fn(store)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "save",
		Short: "Describe all classes and store the result as a new snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := e.catalog.DescribeAll()
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(s *catalog.SQLStore) error {
				id, err := s.SaveSnapshot(cmd.Context(), entries)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), id)
				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), func(s *catalog.SQLStore) error {
				infos, err := s.ListSnapshots(cmd.Context())
				if err != nil {
					return err
				}
				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"ID", "Created", "Entries"})
				for _, info := range infos {
					t.AppendRow(table.Row{info.ID, info.CreatedAt.Format("2006-01-02 15:04:05"), info.Entries})
				}
				t.Render()
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show ID",
		Short: "Print the entries of a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid snapshot id %q: %w", args[0], err)
			}
			return withStore(cmd.Context(), func(s *catalog.SQLStore) error {
				entries, err := s.LoadSnapshot(cmd.Context(), id)
				if err != nil {
					return err
				}
				renderEntries(cmd.OutOrStdout(), entries)
				return nil
			})
		},
	})

	return cmd
}
