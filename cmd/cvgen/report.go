package main

import (
	"fmt"
	"io"
	"strconv"

	"cvgen/internal/config"
	"cvgen/internal/generation"
	"cvgen/internal/matching"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func reportHandler(cmd *cobra.Command, cfg config.Config) error {
	generator, err := cfg.Generator()
	if err != nil {
		return err
	}

	output, err := generator.GenerateAll()
	if err != nil {
		return err
	}

	writeReport(cmd.OutOrStdout(), generator.Jobs, output)
	for _, diagnostic := range output.Diagnostics {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", diagnostic)
	}

	return nil
}

func writeReport(w io.Writer, jobs []generation.Job, output *generation.Output) {
	results := make(map[string]*matching.Result, len(output.Results))
	for _, result := range output.Results {
		results[result.Collection] = result
	}

	var data [][]string
	for _, job := range jobs {
		result := results[job.Collection.Name]
		for index, method := range job.Collection.Methods {
			var matches []matching.Match
			if result != nil {
				matches = result.Matched(index)
			}

			if len(matches) == 0 {
				data = append(data, []string{job.Collection.Name, method.Name, "", "", "unmatched"})
				continue
			}

			for _, match := range matches {
				status := "prefix"
				if match.Exact {
					status = "exact"
				}
				declaration := fmt.Sprintf("%s:%d", result.Source, match.Function.Line)
				data = append(data, []string{job.Collection.Name, method.Name, strconv.Itoa(match.Overload + 1), declaration, status})
			}
		}

		if result != nil {
			for _, conflict := range result.Conflicts {
				status := "replaced"
				if conflict.Ambiguous {
					status = "ambiguous"
				}
				declaration := fmt.Sprintf("%s:%d", result.Source, conflict.Dropped.Line)
				data = append(data, []string{job.Collection.Name, conflict.Method, strconv.Itoa(conflict.Slot.Overload + 1), declaration, status})
			}
		}
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"COLLECTION", "ENTRY", "OVERLOAD", "DECLARATION", "STATUS"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}
