package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrlokans/consultorio/internal/config"
	"github.com/mrlokans/consultorio/internal/database"
	"github.com/mrlokans/consultorio/internal/diagnostics"
)

// DiagnoseCommand checks that the backend answers and every business table
// exists. The schema is inspected as-is, never migrated.
type DiagnoseCommand struct {
	Database config.Database
	JSON     bool
	Timeout  time.Duration

	out io.Writer
}

func NewDiagnoseCommand(cfg config.Database) *DiagnoseCommand {
	return &DiagnoseCommand{Database: cfg, out: os.Stdout}
}

func (cmd *DiagnoseCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("diagnose", flag.ExitOnError)

	fs.StringVar(&cmd.Database.Driver, "driver", cmd.Database.Driver, "Database driver: sqlite or postgres")
	fs.StringVar(&cmd.Database.DSN, "dsn", cmd.Database.DSN, "Database DSN (file path for sqlite)")
	fs.BoolVar(&cmd.JSON, "json", false, "Print the report as JSON")
	fs.DurationVar(&cmd.Timeout, "timeout", 10*time.Second, "Give up after this long")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s diagnose [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Check the database connection and list missing tables.\n")
		fmt.Fprintf(os.Stderr, "Exits with status 1 when the backend is unhealthy.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *DiagnoseCommand) Run() error {
	db, err := database.Connect(cmd.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	report := diagnostics.NewProbe(db, database.ResourceTables).Run(ctx)

	if cmd.JSON {
		enc := json.NewEncoder(cmd.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(cmd.out, "Backend Diagnostics")
		fmt.Fprintln(cmd.out, "===================")
		report.Print(cmd.out)
	}

	if !report.Healthy() {
		if !report.Connected {
			return fmt.Errorf("backend unreachable: %s", report.Error)
		}
		return fmt.Errorf("missing tables: %v", report.Missing())
	}
	return nil
}
