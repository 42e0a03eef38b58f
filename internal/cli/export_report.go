package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrlokans/consultorio/internal/config"
	"github.com/mrlokans/consultorio/internal/database"
	"github.com/mrlokans/consultorio/internal/database/resource"
	"github.com/mrlokans/consultorio/internal/database/settings"
	"github.com/mrlokans/consultorio/internal/entities"
	"github.com/mrlokans/consultorio/internal/reports"
	"github.com/mrlokans/consultorio/internal/settingsstore"
)

// ExportReportCommand writes the financial report for a period to a file.
type ExportReportCommand struct {
	Database  config.Database
	Period    string
	Format    string
	OutputDir string

	// Path is set by Run to the file written.
	Path string
}

func NewExportReportCommand(cfg config.Database) *ExportReportCommand {
	return &ExportReportCommand{Database: cfg}
}

func (cmd *ExportReportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export-report", flag.ExitOnError)

	fs.StringVar(&cmd.Database.Driver, "driver", cmd.Database.Driver, "Database driver: sqlite or postgres")
	fs.StringVar(&cmd.Database.DSN, "dsn", cmd.Database.DSN, "Database DSN (file path for sqlite)")
	fs.StringVar(&cmd.Period, "period", string(reports.PeriodCurrentMonth), "Report period: current_month, last_month, last_3_months, current_year")
	fs.StringVar(&cmd.Format, "format", "csv", "Output format: csv or pdf")
	fs.StringVar(&cmd.OutputDir, "out", ".", "Directory to write the report to")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export-report [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export the financial report as CSV or PDF.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s export-report -period=last_month -format=pdf -out=./exports\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	return cmd.validate()
}

func (cmd *ExportReportCommand) validate() error {
	if _, err := reports.ParsePeriod(cmd.Period); err != nil {
		return err
	}
	switch cmd.Format {
	case "csv", "pdf":
	default:
		return fmt.Errorf("unknown format %q: use csv or pdf", cmd.Format)
	}
	return nil
}

func (cmd *ExportReportCommand) Run() error {
	if err := cmd.validate(); err != nil {
		return err
	}
	period, _ := reports.ParsePeriod(cmd.Period)

	db, err := database.Connect(cmd.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	builder := reports.NewBuilder(
		resource.NewRepository[entities.Consultation](db.DB),
		resource.NewRepository[entities.Order](db.DB),
		resource.NewRepository[entities.Member](db.DB),
	)
	report, err := builder.Build(ctx, period)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	if err := os.MkdirAll(cmd.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	cmd.Path = filepath.Join(cmd.OutputDir, reports.Filename(report.Period, report.GeneratedAt, cmd.Format))

	f, err := os.Create(cmd.Path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	switch cmd.Format {
	case "pdf":
		site := settingsstore.New(settings.NewRepository(db.DB)).LoadPublic(ctx)
		err = reports.WritePDF(f, report, site.SiteName)
	default:
		err = reports.WriteCSV(f, report)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Printf("Report for %s written to %s\n", report.PeriodLabel, cmd.Path)
	return nil
}
