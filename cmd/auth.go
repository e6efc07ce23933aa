package cmd

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/doc-matcher/internal/forms"
	"github.com/spigell/doc-matcher/internal/secrets"
	"github.com/spigell/doc-matcher/internal/session"
)

const passwordEnv = "DOC_MATCHER_PASSWORD"

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the access token",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a recruiter or account manager account",
	Args:  cobra.NoArgs,
	RunE:  runSignup,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := newCLI(cmd)
		if err != nil {
			return err
		}

		if err := c.store.Clear(); err != nil {
			return err
		}

		c.logger.Info("logged out", zap.String("session_file", c.store.Path()))
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := newCLI(cmd)
		if err != nil {
			return err
		}
		if err := c.requireSession(); err != nil {
			return err
		}

		s := c.session
		return c.print(s, func() string {
			return fmt.Sprintf("%s (%s), logged in at %s", s.Email, s.Role, s.SavedAt.Format("2006-01-02 15:04"))
		})
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)

	for _, cmd := range []*cobra.Command{loginCmd, signupCmd} {
		cmd.Flags().String("email", "", "account email")
		cmd.Flags().String("password-file", "", "read the password from a file instead of prompting (or set "+passwordEnv+")")
	}

	signupCmd.Flags().String("name", "", "full name")
	signupCmd.Flags().String("role", "", "role: recruiter (1) or account-manager (2)")
}

func runLogin(cmd *cobra.Command, _ []string) error {
	c, err := newCLI(cmd)
	if err != nil {
		return err
	}

	email, _ := cmd.Flags().GetString("email")
	if email, err = promptIfEmpty(email, "Email"); err != nil {
		return err
	}

	password, err := readPassword(cmd, "Password")
	if err != nil {
		return err
	}

	form := &forms.LoginForm{Email: email, Password: password}
	token, err := form.Submit(cmd.Context(), c.client)
	if err != nil {
		return c.submitted(err, "", "")
	}

	role, err := session.RoleFromToken(token.AccessToken)
	if err != nil {
		c.logger.Warn("could not read role from access token", zap.Error(err))
	}

	if err := c.store.Save(&session.Session{Token: token.AccessToken, Email: form.Email, Role: role}); err != nil {
		return err
	}

	return c.submitted(nil, "Logged in", fmt.Sprintf("%s as %s", form.Email, role))
}

func runSignup(cmd *cobra.Command, _ []string) error {
	c, err := newCLI(cmd)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	roleFlag, _ := cmd.Flags().GetString("role")

	if name, err = promptIfEmpty(name, "Name"); err != nil {
		return err
	}
	if email, err = promptIfEmpty(email, "Email"); err != nil {
		return err
	}

	form := &forms.SignupForm{Name: name, Email: email}

	if strings.TrimSpace(roleFlag) == "" {
		roleFlag, err = selectRole()
		if err != nil {
			return err
		}
	}
	if role, err := session.ParseRole(roleFlag); err == nil {
		form.Role = fmt.Sprint(int(role))
	}

	if form.Password, err = readPassword(cmd, "Password"); err != nil {
		return err
	}
	form.ConfirmPassword = form.Password
	if !passwordFromSource(cmd) {
		if form.ConfirmPassword, err = promptSecret("Confirm password"); err != nil {
			return err
		}
	}

	err = form.Submit(cmd.Context(), c.client)
	return c.submitted(err, "Account created", "You can now log in")
}

func passwordFromSource(cmd *cobra.Command) bool {
	file, _ := cmd.Flags().GetString("password-file")
	_, err := secrets.Load(secrets.Source{File: file, Env: passwordEnv})
	return err == nil
}

// readPassword takes the password from --password-file or the environment,
// and prompts for it otherwise.
func readPassword(cmd *cobra.Command, label string) (string, error) {
	file, _ := cmd.Flags().GetString("password-file")
	if password, err := secrets.Load(secrets.Source{Name: "password", File: file, Env: passwordEnv}); err == nil {
		return password, nil
	} else if strings.TrimSpace(file) != "" {
		return "", err
	}

	return promptSecret(label)
}

func promptSecret(label string) (string, error) {
	prompt := promptui.Prompt{Label: label, Mask: '*'}
	return prompt.Run()
}

func promptIfEmpty(value, label string) (string, error) {
	if strings.TrimSpace(value) != "" {
		return value, nil
	}

	prompt := promptui.Prompt{Label: label}
	return prompt.Run()
}

func selectRole() (string, error) {
	prompt := promptui.Select{
		Label: "Select a role",
		Items: []string{session.RoleRecruiter.String(), session.RoleAccountManager.String()},
	}

	_, selected, err := prompt.Run()
	return selected, err
}
