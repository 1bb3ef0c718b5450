package cli

import (
	"github.com/spf13/cobra"
)

func newRegisterCommand(a *app) *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			session, err := c.Register(cmd.Context(), username, email, password)
			if err != nil {
				return err
			}
			if err := a.tokens.Save(session.Token); err != nil {
				return err
			}
			a.printf("registered %s (%s)\n", session.User.Username, session.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "account username")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCommand(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			session, err := c.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := a.tokens.Save(session.Token); err != nil {
				return err
			}
			a.printf("logged in as %s\n", session.User.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.tokens.Clear(); err != nil {
				return err
			}
			a.printf("logged out\n")
			return nil
		},
	}
}

func newMeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			me, err := c.Me(cmd.Context())
			if err != nil {
				return err
			}
			plan := "Free"
			if me.IsPro {
				plan = "Pro"
			}
			a.printf("%s <%s> plan=%s id=%s\n", me.Username, me.Email, plan, me.ID)
			return nil
		},
	}
}

func newUpgradeCommand(a *app) *cobra.Command {
	var subscriptionID string

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade the account to Pro",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.authedClient()
			if err != nil {
				return err
			}
			user, err := c.Upgrade(cmd.Context(), subscriptionID)
			if err != nil {
				return err
			}
			a.printf("%s is now on the Pro plan\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&subscriptionID, "subscription-id", "", "payment provider subscription id")
	return cmd
}
