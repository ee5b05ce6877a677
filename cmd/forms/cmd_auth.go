package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vnkhanh/forms-app/views"
)

func (a *app) loginCmd() *cobra.Command {
	var password string
	var status bool

	cmd := &cobra.Command{
		Use:   "login [email]",
		Short: "Sign in and store the session token",
		Long: `Signs in with email and password. Missing values are prompted for.

A failed attempt is remembered: the next "forms login" shows what went wrong,
and "forms login --status" prints it without trying again.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := views.NewLogin(a.svc.Auth, a.store, a.nav, a.msg)
			if status {
				a.printLoginStatus(v)
				return nil
			}
			if v.Attempted && v.Error != "" {
				a.println(mutedStyle.Render("Last attempt: " + v.Error))
			}

			email := ""
			if len(args) == 1 {
				email = args[0]
			} else {
				var err error
				if email, err = a.prompt.line("Email:"); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("password") {
				var err error
				if password, err = a.prompt.secret("Password:"); err != nil {
					return err
				}
			}
			v.SetEmail(email)
			v.SetPassword(password)

			if !v.Submit(cmd.Context()) {
				return a.failure(v.Error, nonEmpty(map[string]string{
					"email":    v.EmailError,
					"password": v.PasswordError,
				}))
			}
			who := v.Email
			if u, ok := a.sess.User(); ok {
				who = u.Name + " <" + u.Email + ">"
			}
			a.success("Signed in as " + who)
			a.hint()
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	cmd.Flags().BoolVar(&status, "status", false, "Show the session and the last failed attempt")
	return cmd
}

func (a *app) printLoginStatus(v *views.Login) {
	state := "signed out"
	if a.sess.LoggedIn() {
		state = "signed in"
		if u, ok := a.sess.User(); ok {
			state += " as " + u.Email
		}
	}
	pairs := [][2]string{{"Session", state}}
	if v.Attempted {
		pairs = append(pairs, [2]string{"Last attempt", orDash(v.Error)})
		if v.EmailError != "" {
			pairs = append(pairs, [2]string{"Email", v.EmailError})
		}
		if v.PasswordError != "" {
			pairs = append(pairs, [2]string{"Password", v.PasswordError})
		}
		pairs = append(pairs, [2]string{"Wrong credentials", fmt.Sprint(v.HasAuthError)})
	}
	a.println(renderFields(pairs...))
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.svc.Auth.Logout(cmd.Context())
			a.success("Signed out")
			return nil
		},
	}
}

func (a *app) registerCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if name == "" {
				if name, err = a.prompt.line("Name:"); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = a.prompt.line("Email:"); err != nil {
					return err
				}
			}
			confirm := password
			if password == "" {
				if password, err = a.prompt.secret("Password:"); err != nil {
					return err
				}
				if confirm, err = a.prompt.secret("Confirm password:"); err != nil {
					return err
				}
			}

			v := views.NewRegister(a.svc.Auth, a.nav, a.msg)
			v.Name, v.Email, v.Password, v.ConfirmPassword = name, email, password, confirm
			if !v.Submit(cmd.Context()) {
				return a.failure(v.Error, v.Errors)
			}
			a.success(v.Success)
			a.hint()
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted twice when omitted)")
	return cmd
}

// nonEmpty drops blank entries.
func nonEmpty(m map[string]string) map[string]string {
	out := map[string]string{}
	for k, v := range m {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
