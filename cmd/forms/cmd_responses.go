package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vnkhanh/forms-app/views"
)

func (a *app) responsesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "responses",
		Short: "Review, delete and export the responses of a form you own",
	}
	cmd.AddCommand(a.responsesListCmd(), a.responsesShowCmd(), a.responsesDeleteCmd(), a.responsesExportCmd())
	return cmd
}

func (a *app) loadResponses(ctx context.Context, formID string) (*views.Responses, error) {
	if err := a.requireLogin(); err != nil {
		return nil, err
	}
	v := views.NewResponses(a.svc.Forms, a.svc.Questions, a.svc.Responses, a.nav, a.msg)
	if err := v.Load(ctx, formID); err != nil {
		return nil, a.failure(v.Error, nil)
	}
	return v, nil
}

func (a *app) responsesListCmd() *cobra.Command {
	var page, rows int

	cmd := &cobra.Command{
		Use:   "list <form-id>",
		Short: "List responses a page at a time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.loadResponses(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := v.SetRowsPerPage(rows); err != nil {
				return fmt.Errorf("%w: %d, use one of %v", err, rows, views.RowsPerPageOptions)
			}
			v.SetPage(page - 1)

			a.println(titleStyle.Render(v.Form.Title))
			if len(v.Responses) == 0 {
				a.println(mutedStyle.Render("No responses yet"))
				return nil
			}
			out := make([][]string, 0, v.RowsPerPage)
			for _, r := range v.PageRows() {
				out = append(out, []string{r.ID, v.Respondent(r), orDash(r.RespondentEmail), formatTime(r.CreatedAt)})
			}
			a.println(renderTable([]string{"ID", "Respondent", "Email", "Submitted"}, out))
			a.println(mutedStyle.Render(fmt.Sprintf("Page %d of %d, %d responses", v.Page+1, v.PageCount(), len(v.Responses))))
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Page to show, starting at 1")
	cmd.Flags().IntVar(&rows, "rows", views.RowsPerPageOptions[0], "Rows per page")
	return cmd
}

func (a *app) responsesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <form-id> <response-id>",
		Short: "Show every answer of one response",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.loadResponses(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !v.Select(args[1]) {
				return fmt.Errorf("response %s is not part of form %s", args[1], args[0])
			}
			r, _ := v.Selected()
			pairs := [][2]string{
				{"Respondent", v.Respondent(r)},
				{"Email", orDash(r.RespondentEmail)},
				{"Submitted", formatTime(r.CreatedAt)},
			}
			a.println(cardStyle.Render(renderFields(pairs...)))
			for i, ans := range r.Answers {
				a.println(labelStyle.Render(strconv.Itoa(i+1)+". "+v.QuestionText(ans.QuestionID)))
				a.println("   " + orDash(ans.Answer))
			}
			return nil
		},
	}
}

func (a *app) responsesDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <form-id> <response-id>",
		Short: "Delete one response",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.loadResponses(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !yes {
				ok, err := a.prompt.confirm("Delete response " + args[1] + "?")
				if err != nil || !ok {
					return errAborted
				}
			}
			if !v.Delete(cmd.Context(), args[1]) {
				return a.failure(v.Error, nil)
			}
			a.success(v.Success)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (a *app) responsesExportCmd() *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export <form-id>",
		Short: "Export all responses as CSV or XLSX",
		Long:  "Writes one row per response and one column per question. CSV goes to stdout unless --out is given; XLSX needs --out.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "xlsx" {
				return fmt.Errorf("unknown format %q, use csv or xlsx", format)
			}
			if format == "xlsx" && out == "" {
				return fmt.Errorf("xlsx export needs --out")
			}
			v, err := a.loadResponses(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var w io.Writer = a.out
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if format == "xlsx" {
				err = v.ExportXLSX(w)
			} else {
				err = v.ExportCSV(w)
			}
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if out != "" {
				a.success(fmt.Sprintf("Exported %d responses to %s", len(v.Responses), out))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file")
	return cmd
}
