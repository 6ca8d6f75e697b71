// Command manage is the operational CLI: schema migrations and user
// administration. There is no public registration endpoint; users are
// created here.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"chatrooms/internal/auth"
	"chatrooms/internal/config"
	"chatrooms/internal/database"
	"chatrooms/internal/domain"
)

const usage = `usage:
  manage migrate up|down|version
  manage users create -username NAME -email EMAIL -password PASSWORD [-inactive]
  manage users list
  manage users delete -id ID
`

func main() {
	log.SetFlags(0)
	_ = godotenv.Load()

	if len(os.Args) < 3 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	store, err := database.Connect(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer store.Close()

	switch os.Args[1] {
	case "migrate":
		runMigrate(ctx, store, os.Args[2])
	case "users":
		runUsers(ctx, store, os.Args[2], os.Args[3:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func runMigrate(ctx context.Context, store *database.Store, action string) {
	switch action {
	case "up":
		if err := store.MigrateUp(ctx); err != nil {
			log.Fatal(err)
		}
	case "down":
		if err := store.MigrateDown(ctx); err != nil {
			log.Fatal(err)
		}
	case "version":
		version, err := store.Version(ctx)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("schema version %d (binary expects %d)\n", version, database.SchemaVersion)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func runUsers(ctx context.Context, store *database.Store, action string, args []string) {
	switch action {
	case "create":
		createUser(ctx, store, args)
	case "list":
		listUsers(ctx, store)
	case "delete":
		deleteUser(ctx, store, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func createUser(ctx context.Context, store *database.Store, args []string) {
	fs := flag.NewFlagSet("users create", flag.ExitOnError)
	username := fs.String("username", "", "login name, unique")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "initial password")
	inactive := fs.Bool("inactive", false, "create the account deactivated")
	fs.Parse(args)

	if *username == "" || *email == "" || *password == "" {
		log.Fatal("users create: -username, -email and -password are required")
	}

	digest, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatal(err)
	}
	user, err := store.CreateUser(ctx, domain.UserIn{
		Username: *username,
		Email:    *email,
	}, digest, time.Now().UTC(), !*inactive)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("created user %d (%s)\n", user.ID, user.Username)
}

func listUsers(ctx context.Context, store *database.Store) {
	users, err := store.GetUsers(ctx, database.Page{Limit: 1000, SortBy: "id"})
	if err != nil {
		log.Fatal(err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tACTIVE\tCREATED")
	for _, user := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%s\n",
			user.ID, user.Username, user.Email, user.IsActive,
			user.CreatedAt.Format(time.RFC3339))
	}
	w.Flush()
}

func deleteUser(ctx context.Context, store *database.Store, args []string) {
	fs := flag.NewFlagSet("users delete", flag.ExitOnError)
	id := fs.Int("id", 0, "user id")
	fs.Parse(args)

	if *id == 0 {
		log.Fatal("users delete: -id is required")
	}
	deleted, err := store.DeleteUser(ctx, *id)
	if err != nil {
		log.Fatal(err)
	}
	if !deleted {
		fmt.Printf("no user with id %d\n", *id)
		return
	}
	fmt.Printf("deleted user %d\n", *id)
}
