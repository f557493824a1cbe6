// chatctl is the operator's tool: it works on the chat data directory
// directly, without going through the HTTP surface. The server should
// not be running against the same files while it is used.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/globalchat/globalchat/internal/chat"
	"github.com/globalchat/globalchat/internal/directory"
	"github.com/globalchat/globalchat/internal/models"
	"github.com/globalchat/globalchat/internal/settings"
	"github.com/globalchat/globalchat/internal/storage/boltdb"
	"github.com/globalchat/globalchat/internal/storage/sqlite"
)

const usage = `Usage: chatctl [-data DIR] COMMAND [args]

Commands:
  create-user USERNAME NAME EMAIL   create an account (password prompted)
  ban USERNAME                      set account status to banned
  unban USERNAME                    set account status to active
  delete-user USERNAME              remove an account
  list-users                        list all accounts
  clear-chat                        delete every message
  set-interval SECONDS              set the auto-refresh interval (1-10)
  show-settings                     print the current settings
`

func main() {
	dataDir := flag.String("data", "database", "data directory")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*dataDir, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "chatctl: %v\n", err)
		os.Exit(1)
	}
}

func run(dataDir, command string, args []string) error {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	userStore, err := sqlite.New(ctx, dataDir+"/users.db")
	if err != nil {
		return fmt.Errorf("failed to open user storage: %w", err)
	}
	defer userStore.Close()

	chatStore, err := boltdb.New(ctx, dataDir+"/chat.db")
	if err != nil {
		return fmt.Errorf("failed to open chat storage: %w", err)
	}
	defer chatStore.Close()

	dirSvc := directory.NewService(userStore, logger, 0)
	chatSvc := chat.NewService(chatStore, dirSvc, logger)
	settingsSvc := settings.NewService(chatStore, logger)

	switch command {
	case "create-user":
		if len(args) != 3 {
			return fmt.Errorf("create-user requires USERNAME NAME EMAIL")
		}
		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err := readPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}
		view, err := dirSvc.Register(ctx, args[0], args[1], args[2], password)
		if err != nil {
			return err
		}
		fmt.Printf("created user %s\n", view.Username)
		return nil

	case "ban":
		if len(args) != 1 {
			return fmt.Errorf("ban requires USERNAME")
		}
		return dirSvc.SetStatus(ctx, args[0], models.StatusBanned)

	case "unban":
		if len(args) != 1 {
			return fmt.Errorf("unban requires USERNAME")
		}
		return dirSvc.SetStatus(ctx, args[0], models.StatusActive)

	case "delete-user":
		if len(args) != 1 {
			return fmt.Errorf("delete-user requires USERNAME")
		}
		return dirSvc.Delete(ctx, args[0])

	case "list-users":
		views, err := dirSvc.List(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "USERNAME\tNAME\tEMAIL\tSTATUS\tCREATED")
		for _, v := range views {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				v.Username, v.Name, v.Email, v.Status, v.CreatedAt.Format("2006-01-02 15:04"))
		}
		return tw.Flush()

	case "clear-chat":
		return chatSvc.Clear(ctx)

	case "set-interval":
		if len(args) != 1 {
			return fmt.Errorf("set-interval requires SECONDS")
		}
		var seconds int
		if _, err := fmt.Sscanf(args[0], "%d", &seconds); err != nil {
			return fmt.Errorf("invalid seconds %q", args[0])
		}
		return settingsSvc.Set(ctx, seconds)

	case "show-settings":
		cfg := settingsSvc.Get(ctx)
		fmt.Printf("auto_refresh_interval: %d\n", cfg.AutoRefreshInterval)
		return nil

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// readPassword reads a password from the terminal without echo.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	pwBytes, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pwBytes), nil
}
