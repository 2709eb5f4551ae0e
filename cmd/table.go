package main

import (
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/MimeLyc/sonarr-nudger/internal/nudger"
	"github.com/MimeLyc/sonarr-nudger/internal/rule"
	"github.com/MimeLyc/sonarr-nudger/internal/sonarr"
)

// renderQueue lays out queue records with the rule that would grab each.
func renderQueue(records []sonarr.QueueRecord, rules rule.Rules) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Status", "Title", "Languages", "Rule"})

	for _, rec := range records {
		match := "-"
		if nudger.Eligible(rec) {
			if r, ok := rules.FirstMatch(rec); ok {
				match = r.String()
			}
		}
		tw.AppendRow(table.Row{
			strconv.Itoa(rec.ID),
			rec.Status,
			rec.Title,
			strings.Join(rec.LanguageNames(), ", "),
			match,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
