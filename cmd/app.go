package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/doc-matcher/internal/confirm"
	"github.com/spigell/doc-matcher/internal/forms"
	"github.com/spigell/doc-matcher/internal/logger"
	"github.com/spigell/doc-matcher/internal/matcher"
	"github.com/spigell/doc-matcher/internal/notify"
	"github.com/spigell/doc-matcher/internal/render"
	"github.com/spigell/doc-matcher/internal/session"
)

const errorTitle = "Error"

var errInvalidForm = errors.New("form has invalid fields")

// cli holds what every command needs.
type cli struct {
	config   *Config
	logger   *zap.Logger
	store    *session.Store
	session  *session.Session
	client   *matcher.Client
	notifier notify.Notifier
	out      io.Writer

	// prompter answers confirmations; nil means an interactive prompt.
	prompter confirm.Confirmer
}

func newCLI(cmd *cobra.Command) (*cli, error) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	if !render.ValidFormat(config.Output) {
		return nil, fmt.Errorf("unsupported output format %q, use one of %s", config.Output, strings.Join(render.Formats, ", "))
	}
	config.Output = strings.ToLower(config.Output)

	log.Debug("starting", zap.String("version", version), zap.String("command", cmd.CommandPath()), zap.String("api_url", config.APIURL))

	sessionPath := strings.TrimSpace(config.SessionFile)
	if sessionPath == "" {
		if sessionPath, err = session.DefaultPath(); err != nil {
			return nil, err
		}
	}
	store := session.NewStore(sessionPath)

	current, err := store.Load()
	switch {
	case errors.Is(err, session.ErrNoSession):
		current = nil
	case err != nil:
		return nil, err
	}

	token := ""
	if current != nil {
		token = current.Token
	}

	client := matcher.New(log, token)
	if config.APIURL != "" {
		client.APIURL = config.APIURL
	}
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}
	if config.Timeout > 0 {
		client.HTTPClient.Timeout = config.Timeout
	}
	if config.MaxLogLength > 0 {
		client.MaxLogLength = config.MaxLogLength
	}

	return &cli{
		config:   config,
		logger:   log,
		store:    store,
		session:  current,
		client:   client,
		notifier: notify.NewLogNotifier(log),
		out:      cmd.OutOrStdout(),
	}, nil
}

// requireSession stops commands that need a logged in user.
func (r *cli) requireSession() error {
	if r.session == nil {
		return fmt.Errorf("%w: run `%s login` first", session.ErrNoSession, app)
	}
	if session.Expired(r.session.Token, time.Now()) {
		return fmt.Errorf("session expired: run `%s login` again", app)
	}
	return nil
}

// print writes v as json/yaml, or the cards when the output is cards.
func (r *cli) print(v any, cards func() string) error {
	if r.config.Output == render.FormatCards {
		_, err := fmt.Fprintln(r.out, cards())
		return err
	}
	return render.Encode(r.out, r.config.Output, v)
}

// interactive reports whether a full screen view can be shown.
func (r *cli) interactive() bool {
	return r.config.Output == render.FormatCards && isatty.IsTerminal(os.Stdout.Fd())
}

func (r *cli) confirmer(cmd *cobra.Command) confirm.Confirmer {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return confirm.Always{}
	}
	if r.prompter != nil {
		return r.prompter
	}
	return confirm.Prompt{}
}

// submitted reports the outcome of a form submission. Field errors are
// logged next to their field, other failures become an error notification.
func (r *cli) submitted(err error, success, description string) error {
	if err == nil {
		notify.Success(r.notifier, success, description)
		return nil
	}

	var fieldErrs forms.FieldErrors
	if errors.As(err, &fieldErrs) {
		for _, field := range fieldErrs.Fields() {
			r.logger.Error("invalid field", zap.String("field", field), zap.String("message", fieldErrs[field]))
		}
		return errInvalidForm
	}

	var submitErr *forms.SubmitError
	if errors.As(err, &submitErr) {
		notify.Error(r.notifier, errorTitle, submitErr.Message)
		r.logger.Debug("submit failed", zap.Error(submitErr.Err))
		return errors.New(submitErr.Message)
	}

	return err
}

// deleted runs a confirmed delete and reports it.
func (r *cli) deleted(cmd *cobra.Command, kind string, del func() error) error {
	err := confirm.Do(r.confirmer(cmd), confirm.DeleteLabel(kind), del)
	switch {
	case errors.Is(err, confirm.ErrDeclined):
		r.logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return nil
	case err != nil:
		notify.Error(r.notifier, errorTitle, matcher.DetailOr(err, fmt.Sprintf("Could not delete %s.", kind)))
		return err
	}

	notify.Success(r.notifier, fmt.Sprintf("Deleted %s", kind), "")
	return nil
}

// rejectUpload reports files that failed the local checks. Only a bad
// extension gets the file type message.
func (r *cli) rejectUpload(err error) error {
	if errors.Is(err, forms.ErrInvalidFileType) {
		notify.Error(r.notifier, "Invalid file type", forms.InvalidUploadMessage)
	} else {
		notify.Error(r.notifier, "Cannot upload", err.Error())
	}
	return err
}

func parseID(arg, what string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return id, nil
}
