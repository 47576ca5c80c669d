package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/example/anime-catalog/services/catalog/internal/domain"
)

var infoHeaders = []string{"Title", "Score", "Status"}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeInfos renders a table on a terminal and tab-separated lines otherwise.
func writeInfos(cmd *cobra.Command, infos []domain.Info) error {
	out := cmd.OutOrStdout()
	rows := infoRows(infos)
	if isTerminal(out) {
		_, err := fmt.Fprintln(out, renderTable(infoHeaders, rows, []columnAlignment{alignLeft, alignRight, alignLeft}))
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(out, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func infoRows(infos []domain.Info) [][]string {
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			strings.ReplaceAll(info.Title, "\t", " "),
			strconv.Itoa(info.Score),
			info.Status.String(),
		})
	}
	return rows
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
