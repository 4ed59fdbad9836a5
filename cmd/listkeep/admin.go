// ABOUTME: Admin subcommands for inspecting accounts and lists
// ABOUTME: Reads the store directly, formats output with tabwriter and color

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/listkeep/listkeep/internal/config"
	"github.com/listkeep/listkeep/internal/identity"
	"github.com/listkeep/listkeep/internal/store"
)

func runAdmin(ctx context.Context) error {
	if len(os.Args) < 3 {
		fmt.Println("Usage: listkeep admin <accounts|lists>")
		os.Exit(1)
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	switch os.Args[2] {
	case "accounts":
		return adminAccounts(ctx, st)
	case "lists":
		return adminLists(ctx, st)
	default:
		return fmt.Errorf("unknown admin command: %s", os.Args[2])
	}
}

func adminAccounts(ctx context.Context, st *store.SQLiteStore) error {
	accounts, err := st.AllAccounts(ctx)
	if err != nil {
		return fmt.Errorf("listing accounts: %w", err)
	}

	cyan := color.New(color.FgCyan)
	cyan.Printf("%d account(s)\n\n", len(accounts))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCREATED")
	for _, a := range accounts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.ID, a.DisplayName, a.Email, a.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func adminLists(ctx context.Context, st *store.SQLiteStore) error {
	lists, err := st.AllLists(ctx)
	if err != nil {
		return fmt.Errorf("listing lists: %w", err)
	}

	cyan := color.New(color.FgCyan)
	cyan.Printf("%d list(s)\n\n", len(lists))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tOWNER\tTASKS\tCREATED")
	for _, l := range lists {
		tasks, err := st.TasksByList(ctx, l.ID)
		if err != nil {
			return fmt.Errorf("counting tasks for list %d: %w", l.ID, err)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", l.ID, l.Name, describeOwner(l.Owner), len(tasks), l.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

// describeOwner renders an owner reference for terminal output.
func describeOwner(owner identity.OwnerRef) string {
	switch owner.Kind() {
	case identity.OwnerAnonymous:
		return "anonymous:" + owner.Token()
	case identity.OwnerAccount:
		return "account:" + strconv.FormatInt(owner.AccountID(), 10)
	default:
		return "unknown"
	}
}
