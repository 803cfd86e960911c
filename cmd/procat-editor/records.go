package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/light-bringer/procat-editor/internal/app/product/domain"
	"github.com/light-bringer/procat-editor/internal/app/product/usecases/edit_title"
	"github.com/light-bringer/procat-editor/internal/pkg/notify"
	"github.com/light-bringer/procat-editor/internal/services"
)

// listCmd prints the products of the record store.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the products of the record store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := setup(false)
		if err != nil {
			return err
		}
		defer teardown(opts)

		ctx, cancel := signalContext()
		defer cancel()

		if _, err := opts.LoadProducts.Execute(ctx); err != nil {
			return fmt.Errorf("%s: %w", notify.KindFetchFailed.Message(), err)
		}

		rows := opts.GetSession.Execute().State.Rows
		records := make([]domain.ProductRecord, len(rows))
		for i, row := range rows {
			records[i] = row.Record
		}
		printRecords(cmd.OutOrStdout(), records)
		return nil
	},
}

// renameCmd edits titles by position and submits them once.
var renameCmd = &cobra.Command{
	Use:   "rename <index>=<title>...",
	Short: "Change product titles and submit the modified records",
	Long: `Loads the products, applies each <index>=<title> edit (indexes as shown by
"list") and submits the records whose titles changed.

Example:
  procat-editor rename 0="Blue Shirt" 3="Plain Mug"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		edits, err := parseRenames(args)
		if err != nil {
			return err
		}

		opts, err := setup(false)
		if err != nil {
			return err
		}
		defer teardown(opts)

		ctx, cancel := signalContext()
		defer cancel()

		return rename(ctx, cmd.OutOrStdout(), opts, edits)
	},
}

// parseRenames parses <index>=<title> arguments. The title may contain '='.
func parseRenames(args []string) ([]edit_title.Request, error) {
	edits := make([]edit_title.Request, 0, len(args))
	for _, arg := range args {
		raw, title, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid rename %q: want <index>=<title>", arg)
		}
		index, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || index < 0 {
			return nil, fmt.Errorf("invalid rename %q: index must be a non-negative integer", arg)
		}
		edits = append(edits, edit_title.Request{Index: index, Title: title})
	}
	return edits, nil
}

// rename loads the products, applies the edits and submits once. The outcome
// message is printed; rejected or failed submissions are returned as errors.
func rename(ctx context.Context, out io.Writer, opts *services.ServiceOptions, edits []edit_title.Request) error {
	if _, err := opts.LoadProducts.Execute(ctx); err != nil {
		return fmt.Errorf("%s: %w", notify.KindFetchFailed.Message(), err)
	}

	for _, e := range edits {
		if _, err := opts.EditTitle.Execute(&e); err != nil {
			return fmt.Errorf("rename %d: %w", e.Index, err)
		}
	}

	resp, err := opts.SubmitTitles.Execute(ctx)
	if resp != nil {
		fmt.Fprintln(out, resp.Notification.Message)
	}
	return err
}

func printRecords(out io.Writer, records []domain.ProductRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No products available.")
		return
	}

	rows := make([][]string, 0, len(records))
	for i, r := range records {
		variants := make([]string, len(r.Variants))
		for n, v := range r.Variants {
			variants[n] = fmt.Sprintf("SKU: %s | Price: $%s", v.DisplaySKU(), v.DisplayPrice())
		}
		rows = append(rows, []string{strconv.Itoa(i), r.ID.String(), r.Title, strings.Join(variants, "\n")})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "ID", "TITLE", "VARIANTS").
		Rows(rows...)
	fmt.Fprintln(out, t.Render())
}
