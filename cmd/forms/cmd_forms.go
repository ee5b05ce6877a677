package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vnkhanh/forms-app/models"
	"github.com/vnkhanh/forms-app/views"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func (a *app) formsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forms",
		Short: "List, create, edit and delete forms",
	}
	cmd.AddCommand(a.formsListCmd(), a.formsCreateCmd(), a.formsShowCmd(), a.formsEditCmd(), a.formsDeleteCmd())
	return cmd
}

func (a *app) formsListCmd() *cobra.Command {
	var mine bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List forms, yours first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := views.NewFormsList(a.svc.Forms, a.sess, a.nav, a.msg)
			if err := v.Load(cmd.Context()); err != nil {
				return a.failure(v.Error, nil)
			}
			if a.sess.LoggedIn() {
				a.println(titleStyle.Render("My forms"))
				a.println(formsTable(v.MyForms()))
			}
			if !mine {
				a.println(titleStyle.Render("Other forms"))
				a.println(formsTable(v.OtherForms()))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&mine, "mine", false, "Only show forms you own")
	return cmd
}

func formsTable(forms []models.Form) string {
	if len(forms) == 0 {
		return mutedStyle.Render("  none")
	}
	rows := make([][]string, 0, len(forms))
	for _, f := range forms {
		rows = append(rows, []string{f.ID, truncate(f.Title, 40), truncate(f.Description, 40), formatTime(f.CreatedAt)})
	}
	return renderTable([]string{"ID", "Title", "Description", "Created"}, rows)
}

func (a *app) formsCreateCmd() *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a form you own",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			if title == "" {
				var err error
				if title, err = a.prompt.line("Title:"); err != nil {
					return err
				}
			}
			v := views.NewFormsList(a.svc.Forms, a.sess, a.nav, a.msg)
			v.NewTitle, v.NewDescription = title, description
			f, ok := v.Create(cmd.Context())
			if !ok {
				return a.failure(v.Error, nil)
			}
			a.success(v.Success)
			a.println(renderFields([2]string{"ID", f.ID}, [2]string{"Title", f.Title}))
			a.println(mutedStyle.Render("Next: forms questions add " + f.ID + " --text ... --type shorttext"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Form title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Form description")
	return cmd
}

func (a *app) formsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <form-id>",
		Short: "Show a form and its questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := a.newResponder()
			if err := v.Load(cmd.Context(), args[0]); err != nil {
				return a.failure(v.Error, nil)
			}
			a.println(a.renderForm(v.Form, v.Questions))
			if v.IsOwner() {
				a.println(mutedStyle.Render("You own this form: forms forms edit " + v.Form.ID + ", forms responses list " + v.Form.ID))
			}
			return nil
		},
	}
}

func (a *app) renderForm(f models.Form, qs []models.Question) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(f.Title))
	if f.Description != "" {
		b.WriteString("\n" + f.Description)
	}
	b.WriteString("\n" + mutedStyle.Render(f.ID))
	for i, q := range qs {
		b.WriteString(fmt.Sprintf("\n\n%s %s", labelStyle.Render(fmt.Sprintf("%d.", i+1)), q.Text))
		if q.Required {
			b.WriteString(errorStyle.Render(" *"))
		}
		b.WriteString(mutedStyle.Render("  " + q.Type.Label(a.msg.Locale())))
		for _, o := range q.Options {
			b.WriteString("\n   - " + o)
		}
	}
	if len(qs) == 0 {
		b.WriteString("\n\n" + mutedStyle.Render("No questions yet"))
	}
	return cardStyle.Render(b.String())
}

func (a *app) newEditor() *views.FormEditor {
	return views.NewFormEditor(a.svc.Forms, a.svc.Questions, a.sess, a.nav, a.msg)
}

func (a *app) newResponder() *views.FormResponder {
	return views.NewFormResponder(a.svc.Forms, a.svc.Questions, a.svc.Responses, a.sess, a.nav, a.msg)
}

func (a *app) formsEditCmd() *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "edit <form-id>",
		Short: "Change a form's title or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("description") {
				return fmt.Errorf("nothing to update, pass --title or --description")
			}
			e := a.newEditor()
			if err := e.Load(cmd.Context(), args[0]); err != nil {
				return a.failure(e.Error, nil)
			}
			if cmd.Flags().Changed("title") {
				e.Title = title
			}
			if cmd.Flags().Changed("description") {
				e.Description = description
			}
			if !e.SaveForm(cmd.Context()) {
				return a.failure(e.Error, nil)
			}
			a.success(e.Success)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	return cmd
}

func (a *app) formsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <form-id>",
		Short: "Delete a form with its questions and responses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			if !yes {
				ok, err := a.prompt.confirm("Delete form " + args[0] + " and all its responses?")
				if err != nil || !ok {
					return errAborted
				}
			}
			v := views.NewFormsList(a.svc.Forms, a.sess, a.nav, a.msg)
			if !v.Delete(cmd.Context(), args[0]) {
				return a.failure(v.Error, nil)
			}
			a.success(v.Success)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
