package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vnkhanh/forms-app/models"
	"github.com/vnkhanh/forms-app/views"
)

func (a *app) respondCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "respond <form-id>",
		Short: "Answer a form",
		Long: `Asks every question of the form in order and submits the answers.
Signing in first is optional; a signed in respondent is named on the response.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := a.newResponder()
			if err := v.Load(cmd.Context(), args[0]); err != nil {
				return a.failure(v.Error, nil)
			}
			a.println(titleStyle.Render(v.Form.Title))
			if v.Form.Description != "" {
				a.println(v.Form.Description)
			}

			pending := v.Questions
			for {
				for _, q := range pending {
					if err := a.ask(v, q); err != nil {
						return err
					}
				}
				if v.Submit(cmd.Context()) {
					a.success(v.Success)
					return nil
				}
				if len(v.Errors) == 0 {
					return a.failure(v.Error, nil)
				}
				a.println(errorStyle.Render(v.Error))
				pending = nil
				for _, q := range v.Questions {
					if msg, ok := v.Errors[q.ID]; ok {
						a.println(fieldErr.Render("  " + q.Text + ": " + msg))
						pending = append(pending, q)
					}
				}
			}
		},
	}
}

// ask prompts for one answer in the shape the question type allows.
func (a *app) ask(v *views.FormResponder, q models.Question) error {
	label := q.Text
	if q.Required {
		label += " *"
	}
	a.println("")
	a.println(labelStyle.Render(label) + mutedStyle.Render("  "+q.Type.Label(a.msg.Locale())))

	switch q.Type {
	case models.QuestionShortText:
		s, err := a.prompt.line(">")
		if err != nil {
			return err
		}
		v.SetAnswer(q.ID, s)

	case models.QuestionParagraph:
		a.println(mutedStyle.Render("End with an empty line"))
		var lines []string
		for {
			s, err := a.prompt.line(">")
			if errors.Is(err, errAborted) && len(lines) > 0 {
				break
			}
			if err != nil {
				return err
			}
			if s == "" {
				break
			}
			lines = append(lines, s)
		}
		v.SetAnswer(q.ID, strings.Join(lines, "\n"))

	case models.QuestionMultipleChoice, models.QuestionDropdown:
		a.printOptions(q.Options)
		s, err := a.prompt.choice("Choose one:", q.Options, false)
		if err != nil {
			return err
		}
		v.SetAnswer(q.ID, s)

	case models.QuestionCheckbox:
		a.printOptions(q.Options)
		for {
			s, err := a.prompt.line("Choose any (e.g. 1,3):")
			if err != nil {
				return err
			}
			picked, err := parseSelection(s, len(q.Options))
			if err != nil {
				a.println(fieldErr.Render(err.Error()))
				continue
			}
			v.Answers[q.ID] = models.SelectionAnswer()
			for _, i := range picked {
				v.ToggleOption(q.ID, q.Options[i])
			}
			break
		}
	}
	return nil
}

func (a *app) printOptions(options []string) {
	for i, o := range options {
		a.println(fmt.Sprintf("  %s %s", mutedStyle.Render(fmt.Sprintf("%d)", i+1)), o))
	}
}
