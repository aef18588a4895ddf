package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"studentbook/internal/app"
	"studentbook/internal/config"
)

type rootOptions struct {
	configPath string
	usersFile  string
	dataFile   string
	backend    string
	errorLog   string
}

func NewRootCmd(version, buildDate string) *cobra.Command {
	o := &rootOptions{}
	root := &cobra.Command{
		Use:           "studentbook",
		Short:         "Keep per-user lists of student records",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          o.run,
	}
	f := root.PersistentFlags()
	f.StringVar(&o.configPath, "config", "", "YAML config file")
	f.StringVar(&o.usersFile, "users-file", "", "credentials file (default users.txt)")
	f.StringVar(&o.dataFile, "data-file", "", "student records file (default students.dat, or students.db for sqlite and bolt)")
	f.StringVar(&o.backend, "backend", "", "record backend: file, sqlite or bolt")
	f.StringVar(&o.errorLog, "error-log", "", "error log file (default errors.log)")

	root.AddCommand(newVersionCmd(version, buildDate))
	return root
}

func (o *rootOptions) config(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	f := cmd.Flags()
	if f.Changed("users-file") {
		cfg.UsersFile = o.usersFile
	}
	if f.Changed("data-file") {
		cfg.DataFile = o.dataFile
	}
	if f.Changed("backend") {
		cfg.RecordBackend = o.backend
	}
	if f.Changed("error-log") {
		cfg.Log.ErrorFile = o.errorLog
	}
	return cfg, nil
}

// run starts the interactive session. Runtime failures are logged and
// reported on screen; the command itself always succeeds.
func (o *rootOptions) run(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	cfg, err := o.config(cmd)
	if err != nil {
		log := app.NewLogger(config.Default())
		defer func() { _ = log.Sync() }()
		fmt.Fprintf(out, "Startup failed: %s\n", logFailure(log, "load config", err))
		return nil
	}
	log := app.NewLogger(cfg)
	application, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		defer func() { _ = log.Sync() }()
		fmt.Fprintf(out, "Startup failed: %s\n", logFailure(log, "open stores", err))
		return nil
	}
	defer func() { _ = application.Close() }()

	newShell(application.Services, log, cmd.InOrStdin(), out).run(cmd.Context())
	fmt.Fprintln(out, "Goodbye.")
	return nil
}
