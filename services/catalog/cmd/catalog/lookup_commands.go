package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/anime-catalog/services/catalog/internal/domain"
)

var errNotFound = errors.New("not found")

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <title>",
		Short: "Search the catalog by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return errors.New("title must not be empty")
			}
			rt, err := ctx.ensureRuntime(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer ctx.close()

			hits, err := rt.catalog.SearchByTitleAsync(cmd.Context(), title).Await(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, hits)
			}
			if len(hits) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "No titles match %q\n", title)
				return nil
			}
			return writeInfos(cmd, hits)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newGetCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Look a title up by its catalog id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q: must be a positive integer", args[0])
			}
			rt, err := ctx.ensureRuntime(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer ctx.close()

			info, err := rt.catalog.GetByIDAsync(cmd.Context(), id).Await(cmd.Context())
			if err != nil {
				return err
			}
			if info == nil {
				return fmt.Errorf("anime %d: %w", id, errNotFound)
			}
			if asJSON {
				return writeJSON(cmd, info)
			}
			return writeInfos(cmd, []domain.Info{*info})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
