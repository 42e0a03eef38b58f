package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/consultorio/internal/auth"
	"github.com/mrlokans/consultorio/internal/config"
	"github.com/mrlokans/consultorio/internal/database"
	"github.com/mrlokans/consultorio/internal/database/users"
	"github.com/mrlokans/consultorio/internal/entities"
)

// CreateAdminCommand bootstraps a back office account without going
// through the /setup page.
type CreateAdminCommand struct {
	Database config.Database
	Auth     config.Auth
	Username string
	Email    string
	Password string
	Role     string
}

func NewCreateAdminCommand(cfg *config.Config) *CreateAdminCommand {
	return &CreateAdminCommand{Database: cfg.Database, Auth: cfg.Auth}
}

func (cmd *CreateAdminCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)

	fs.StringVar(&cmd.Database.Driver, "driver", cmd.Database.Driver, "Database driver: sqlite or postgres")
	fs.StringVar(&cmd.Database.DSN, "dsn", cmd.Database.DSN, "Database DSN (file path for sqlite)")
	fs.StringVar(&cmd.Username, "username", "", "Login name (required)")
	fs.StringVar(&cmd.Email, "email", "", "E-mail address (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password (required)")
	fs.StringVar(&cmd.Role, "role", string(entities.UserRoleAdmin), "Role: admin, editor or viewer")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-admin -username <name> -email <email> -password <password> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a back office account.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" || cmd.Email == "" || cmd.Password == "" {
		return fmt.Errorf("required flags -username, -email and -password not provided")
	}
	return nil
}

func (cmd *CreateAdminCommand) Run() error {
	db, err := database.Open(cmd.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	service := auth.NewService(users.NewRepository(db.DB), cmd.Auth)
	user, err := service.CreateUser(context.Background(), cmd.Username, cmd.Email, cmd.Password, entities.UserRole(cmd.Role))
	if err != nil {
		return err
	}

	fmt.Printf("Created %s account %q (id %d)\n", user.Role, user.Username, user.ID)
	return nil
}
