package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vnkhanh/forms-app/models"
	"github.com/vnkhanh/forms-app/views"
)

func (a *app) questionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "questions",
		Aliases: []string{"q"},
		Short:   "Manage the questions of a form you own",
	}
	cmd.AddCommand(a.questionsListCmd(), a.questionsAddCmd(), a.questionsEditCmd(), a.questionsRemoveCmd())
	return cmd
}

func typeNames() string {
	names := make([]string, 0, len(models.QuestionTypes))
	for _, t := range models.QuestionTypes {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

func (a *app) questionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <form-id>",
		Short: "List a form's questions in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := a.newResponder()
			if err := v.Load(cmd.Context(), args[0]); err != nil {
				return a.failure(v.Error, nil)
			}
			if len(v.Questions) == 0 {
				a.println(mutedStyle.Render("No questions yet"))
				return nil
			}
			rows := make([][]string, 0, len(v.Questions))
			for i, q := range v.Questions {
				req := ""
				if q.Required {
					req = "yes"
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1), q.ID, truncate(q.Text, 40),
					q.Type.Label(a.msg.Locale()), req, truncate(strings.Join(q.Options, " | "), 40),
				})
			}
			a.println(renderTable([]string{"#", "ID", "Text", "Type", "Required", "Options"}, rows))
			return nil
		},
	}
}

func (a *app) questionsAddCmd() *cobra.Command {
	var text, typ string
	var required bool
	var options []string

	cmd := &cobra.Command{
		Use:   "add <form-id>",
		Short: "Append a question to a form",
		Long: `Appends a question. Types: ` + typeNames() + `.

Selection types (multiplechoice, checkbox, dropdown) need at least one
--option; without any the question starts with "` + models.DefaultOption + `".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			t, err := models.ParseQuestionType(typ)
			if err != nil {
				return fmt.Errorf("%w %q, use one of: %s", err, typ, typeNames())
			}
			e := a.newEditor()
			if err := e.Load(cmd.Context(), args[0]); err != nil {
				return a.failure(e.Error, nil)
			}
			e.OpenNewQuestion()
			e.Dialog.Text = text
			e.Dialog.Required = required
			for _, o := range options {
				e.Dialog.NewOption = o
				if !e.AddOption() {
					return a.failure("", e.Dialog.Errors)
				}
			}
			e.SetDraftType(t)
			if !e.SaveQuestion(cmd.Context()) {
				return a.failure(e.Error, draftErrors(e))
			}
			a.success(e.Success)
			q := e.Questions[len(e.Questions)-1]
			a.println(renderFields([2]string{"ID", q.ID}, [2]string{"Position", strconv.Itoa(len(e.Questions))}))
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "Question text")
	cmd.Flags().StringVar(&typ, "type", string(models.QuestionShortText), "Question type")
	cmd.Flags().BoolVar(&required, "required", false, "Answer is mandatory")
	cmd.Flags().StringArrayVarP(&options, "option", "o", nil, "Option of a selection question (repeatable)")
	return cmd
}

func draftErrors(e *views.FormEditor) map[string]string {
	if e.Dialog == nil {
		return nil
	}
	return e.Dialog.Errors
}

func (a *app) questionsEditCmd() *cobra.Command {
	var text, typ string
	var required bool
	var options, addOptions, setOptions []string
	var removeOptions []int

	cmd := &cobra.Command{
		Use:   "edit <form-id> <question-id>",
		Short: "Change a question",
		Long: `Changes a question. Options are edited in this order: --option replaces the
whole list, --set-option N=text rewrites option N, --remove-option N drops it
and --add-option appends. Option numbers start at 1.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			e := a.newEditor()
			if err := e.Load(cmd.Context(), args[0]); err != nil {
				return a.failure(e.Error, nil)
			}
			if !e.OpenEditQuestion(args[1]) {
				return fmt.Errorf("question %s is not part of form %s", args[1], args[0])
			}
			flags := cmd.Flags()
			if flags.Changed("text") {
				e.Dialog.Text = text
			}
			if flags.Changed("required") {
				e.Dialog.Required = required
			}
			if flags.Changed("option") {
				e.Dialog.Options = nil
				for _, o := range options {
					e.Dialog.NewOption = o
					if !e.AddOption() {
						return a.failure("", e.Dialog.Errors)
					}
				}
			}
			if flags.Changed("type") {
				t, err := models.ParseQuestionType(typ)
				if err != nil {
					return fmt.Errorf("%w %q, use one of: %s", err, typ, typeNames())
				}
				e.SetDraftType(t)
			}
			for _, s := range setOptions {
				n, value, ok := strings.Cut(s, "=")
				i, err := strconv.Atoi(strings.TrimSpace(n))
				if !ok || err != nil || !e.UpdateOption(i-1, value) {
					return fmt.Errorf("invalid --set-option %q", s)
				}
			}
			slices.Sort(removeOptions)
			for _, i := range slices.Backward(removeOptions) {
				if !e.RemoveOption(i - 1) {
					if msg := e.Dialog.Errors["options"]; msg != "" {
						return a.failure(msg, nil)
					}
					return fmt.Errorf("no option %d", i)
				}
			}
			for _, o := range addOptions {
				e.Dialog.NewOption = o
				if !e.AddOption() {
					return a.failure("", e.Dialog.Errors)
				}
			}
			if !e.SaveQuestion(cmd.Context()) {
				return a.failure(e.Error, draftErrors(e))
			}
			a.success(e.Success)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&text, "text", "", "New question text")
	flags.StringVar(&typ, "type", "", "New question type")
	flags.BoolVar(&required, "required", false, "Answer is mandatory")
	flags.StringArrayVarP(&options, "option", "o", nil, "Replace the options (repeatable)")
	flags.StringArrayVar(&addOptions, "add-option", nil, "Append an option (repeatable)")
	flags.StringArrayVar(&setOptions, "set-option", nil, "Rewrite option N as N=text (repeatable)")
	flags.IntSliceVar(&removeOptions, "remove-option", nil, "Remove option N (repeatable)")
	return cmd
}

func (a *app) questionsRemoveCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <form-id> <question-id>",
		Short: "Delete a question",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			e := a.newEditor()
			if err := e.Load(cmd.Context(), args[0]); err != nil {
				return a.failure(e.Error, nil)
			}
			e.RequestDeleteQuestion(args[1])
			if !yes {
				ok, err := a.prompt.confirm("Delete question " + args[1] + "?")
				if err != nil || !ok {
					e.CancelDelete()
					return errAborted
				}
			}
			if !e.ConfirmDeleteQuestion(cmd.Context()) {
				return a.failure(e.Error, nil)
			}
			a.success(e.Success)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
