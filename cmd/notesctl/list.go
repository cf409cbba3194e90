package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"notes-api/internal/domain"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	listTag       string
	listInputType string
	listOutput    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes in the collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, release, err := openStore(cmd.Context())
		if err != nil {
			return fmt.Errorf("error connecting: %w", err)
		}
		defer release()

		notes, err := svc.Search(cmd.Context(), domain.SearchNotesQuery{Tag: listTag, InputType: listInputType})
		if err != nil {
			return fmt.Errorf("error listing notes: %w", err)
		}

		return renderNotes(cmd.OutOrStdout(), notes, listOutput)
	},
}

func init() {
	listCmd.Flags().StringVar(&listTag, "tag", "", "Only notes carrying this tag")
	listCmd.Flags().StringVar(&listInputType, "input-type", "", "Only notes with this input type")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "Output format: table, json or yaml")
	rootCmd.AddCommand(listCmd)
}

func renderNotes(w io.Writer, notes []*domain.NoteResponse, format string) error {
	switch strings.ToLower(format) {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(notes)

	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(notes); err != nil {
			return err
		}
		return encoder.Close()

	case "table":
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"ID", "Title", "Tags", "Input", "Priority", "Flags", "Updated"})

		for _, n := range notes {
			t.AppendRow(table.Row{
				n.ID,
				text.Trim(deref(n.Title), 40),
				strings.Join(n.Tags, ", "),
				deref(n.InputType),
				deref(n.Priority),
				flags(n),
				n.UpdatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		t.AppendFooter(table.Row{"", "", "", "", "", "Total", len(notes)})
		t.Render()
		return nil

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func flags(n *domain.NoteResponse) string {
	var f []string
	if n.Pinned {
		f = append(f, "pinned")
	}
	if n.Favorite {
		f = append(f, "favorite")
	}
	if n.Archived {
		f = append(f, "archived")
	}
	return strings.Join(f, ",")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
