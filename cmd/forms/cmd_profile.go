package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vnkhanh/forms-app/views"
)

func (a *app) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show and edit your account",
	}
	cmd.AddCommand(a.profileShowCmd(), a.profileUpdateCmd(), a.profilePasswdCmd(), a.profileDeleteCmd())
	return cmd
}

// loadProfile builds the profile view and fetches the signed in user.
func (a *app) loadProfile(ctx context.Context) (*views.Profile, error) {
	if err := a.requireLogin(); err != nil {
		return nil, err
	}
	v := views.NewProfile(a.svc.Users, a.nav, a.msg)
	if err := v.Load(ctx); err != nil {
		return nil, a.failure(v.Error, nil)
	}
	return v, nil
}

func (a *app) profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.loadProfile(cmd.Context())
			if err != nil {
				return err
			}
			if v.Stale {
				a.println(warningStyle.Render("The server could not be reached, showing the cached profile"))
			}
			a.println(cardStyle.Render(renderFields(
				[2]string{"ID", v.User.ID},
				[2]string{"Name", v.User.Name},
				[2]string{"Email", v.User.Email},
				[2]string{"Member since", formatTime(v.User.CreatedAt)},
			)))
			return nil
		},
	}
}

func (a *app) profileUpdateCmd() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change your name or email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("email") {
				return fmt.Errorf("nothing to update, pass --name or --email")
			}
			v, err := a.loadProfile(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				v.Name = name
			}
			if cmd.Flags().Changed("email") {
				v.Email = email
			}
			if !v.SaveProfile(cmd.Context()) {
				return a.failure(v.Error, v.Errors)
			}
			a.success(v.Success)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&email, "email", "", "New email address")
	return cmd
}

func (a *app) profilePasswdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change your password",
		Long:  "Changes your password. You are signed out afterwards and sign in with the new one.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			v := views.NewProfile(a.svc.Users, a.nav, a.msg)
			var err error
			if v.CurrentPassword, err = a.prompt.secret("Current password:"); err != nil {
				return err
			}
			if v.NewPassword, err = a.prompt.secret("New password:"); err != nil {
				return err
			}
			if v.ConfirmPassword, err = a.prompt.secret("Confirm new password:"); err != nil {
				return err
			}
			if !v.ChangePassword(cmd.Context()) {
				return a.failure(v.Error, v.Errors)
			}
			a.success(v.Success)
			a.hint()
			return nil
		},
	}
}

func (a *app) profileDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete your account and every form you own",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			if !yes {
				ok, err := a.prompt.confirm("Delete your account and all your forms?")
				if err != nil || !ok {
					return errAborted
				}
			}
			v := views.NewProfile(a.svc.Users, a.nav, a.msg)
			if !v.DeleteAccount(cmd.Context()) {
				return a.failure(v.Error, nil)
			}
			a.success(v.Success)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
