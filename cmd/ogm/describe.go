package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"ogm/catalog"
)

func newDescribeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "describe [CLASS...]",
		Short: "List the associations declared on node classes",
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []catalog.Entry
			if len(args) == 0 {
				all, err := e.catalog.DescribeAll()
				if err != nil {
					return err
				}
				entries = all
			}
			for _, class := range args {
				found, err := e.catalog.Describe(class)
				if err != nil {
					return err
				}
				entries = append(entries, found...)
			}
			renderEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func newTypesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "types FROM TO",
		Short: "List relationship types connecting two classes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := e.catalog.TypesBetween(args[0], args[1])
			if err != nil {
				return err
			}
			for _, t := range types {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), t); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func renderEntries(w io.Writer, entries []catalog.Entry) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, "(no associations)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Owner", "Association", "Kind", "Direction", "Type", "Targets", "Unique", "Pattern"})
	for _, e := range entries {
		targets := "any"
		if e.Targets != nil {
			targets = strings.Join(e.Targets, ", ")
		}
		t.AppendRow(table.Row{e.Owner, e.Name, e.Kind, e.Direction, e.Type, targets, e.Unique, e.Pattern})
	}
	t.Render()
}
