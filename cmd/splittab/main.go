// Command splittab is a terminal client for a shared-expense ledger
// service: log expenses with arbitrary splits, inspect who-owes-whom, and
// settle up from the server's suggestions.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/splittab/splittab/internal/api"
	"github.com/splittab/splittab/internal/calculator"
	"github.com/splittab/splittab/internal/config"
	"github.com/splittab/splittab/internal/models"
	"github.com/splittab/splittab/internal/money"
	"github.com/splittab/splittab/internal/service"
	"github.com/splittab/splittab/internal/session"
	"github.com/splittab/splittab/pkg/logging"
)

type app struct {
	cfg         *config.Config
	client      *api.Client
	sessions    *session.Manager
	groups      *service.GroupService
	expenses    *service.ExpenseService
	settlements *service.SettlementService
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	callbackToken := flag.String("callback-token", "", "OAuth callback token (takes priority over the stored session)")
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	store, err := session.NewStore(cfg.SessionDBPath)
	if err != nil {
		slog.Error("Failed to open session store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			slog.Info("Metrics listener starting", "address", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				slog.Error("Metrics listener failed", "error", err)
			}
		}()
	}

	client := api.New(cfg.APIBaseURL, cfg.HTTPTimeout)
	groups := service.NewGroupService(client)
	a := &app{
		cfg:         cfg,
		client:      client,
		sessions:    session.NewManager(client, store),
		groups:      groups,
		expenses:    service.NewExpenseService(client, groups),
		settlements: service.NewSettlementService(client, groups),
	}

	ctx := context.Background()
	sess := a.sessions.Bootstrap(ctx, *callbackToken)

	if err := a.run(ctx, sess, args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, sess *models.Session, args []string) error {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "login":
		return a.cmdLogin(ctx, rest)
	case "register":
		return a.cmdRegister(ctx, rest)
	case "logout":
		a.sessions.Logout(ctx)
		fmt.Println("logged out")
		return nil
	case "whoami":
		if !sess.Authenticated() {
			fmt.Println("anonymous")
			return nil
		}
		fmt.Printf("%s <%s> (id %d)\n", sess.User.FullName, sess.User.Email, sess.User.ID)
		return nil
	}

	if !sess.Authenticated() {
		return fmt.Errorf("not logged in; run: splittab login")
	}

	switch cmd {
	case "groups":
		return a.cmdGroups(ctx)
	case "create-group":
		return a.cmdCreateGroup(ctx, rest)
	case "delete-group":
		return a.cmdDeleteGroup(ctx, rest)
	case "add-member":
		return a.cmdAddMember(ctx, rest)
	case "profile":
		return a.cmdProfile(ctx, sess, rest)
	case "view":
		return a.cmdView(ctx, rest)
	case "add-expense":
		return a.cmdAddExpense(ctx, sess, rest)
	case "delete-expense":
		return a.cmdDeleteExpense(ctx, sess, rest)
	case "settle":
		return a.cmdSettle(ctx, rest)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	sess, err := a.sessions.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s\n", sess.User.FullName)
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	username := fs.String("username", "", "unique username")
	fullName := fs.String("name", "", "display name")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	sess, err := a.sessions.Register(ctx, api.RegisterRequest{
		Email:    *email,
		Username: *username,
		FullName: *fullName,
		Password: *password,
	})
	if err != nil {
		return err
	}
	fmt.Printf("registered and logged in as %s\n", sess.User.FullName)
	return nil
}

func (a *app) cmdProfile(ctx context.Context, sess *models.Session, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	fullName := fs.String("name", "", "new display name")
	picture := fs.String("picture", "", "path to a new profile picture")
	currentPassword := fs.String("current-password", "", "current password, required with -new-password")
	newPassword := fs.String("new-password", "", "new password")
	fs.Parse(args)

	if *fullName != "" {
		user, err := a.client.UpdateProfile(ctx, *fullName)
		if err != nil {
			return err
		}
		a.sessions.UpdateUser(ctx, user)
		fmt.Printf("name updated to %s\n", user.FullName)
	}

	if *picture != "" {
		data, err := os.ReadFile(*picture)
		if err != nil {
			return fmt.Errorf("picture: %w", err)
		}
		upload := api.Upload{Filename: *picture, Data: data}
		if err := upload.Validate(); err != nil {
			return err
		}
		url, err := a.client.UploadProfilePicture(ctx, upload)
		if err != nil {
			return err
		}
		user := *sess.User
		user.ProfilePictureURL = url
		a.sessions.UpdateUser(ctx, &user)
		fmt.Println("profile picture updated")
	}

	if *newPassword != "" {
		if err := a.client.ChangePassword(ctx, *currentPassword, *newPassword); err != nil {
			return err
		}
		fmt.Println("password changed")
	}
	return nil
}

func (a *app) cmdGroups(ctx context.Context) error {
	groups, err := a.client.GetGroups(ctx)
	if err != nil {
		return err
	}
	for _, g := range groups {
		fmt.Printf("%4d  %s (%d members)\n", g.ID, g.Name, len(g.Members))
	}
	return nil
}

func (a *app) cmdCreateGroup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-group", flag.ExitOnError)
	name := fs.String("name", "", "group name")
	description := fs.String("desc", "", "group description")
	fs.Parse(args)

	group, err := a.client.CreateGroup(ctx, *name, *description)
	if err != nil {
		return err
	}
	fmt.Printf("group %d created: %s\n", group.ID, group.Name)
	return nil
}

func (a *app) cmdDeleteGroup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete-group", flag.ExitOnError)
	groupID := fs.Int64("group", 0, "group id")
	fs.Parse(args)

	if err := a.client.DeleteGroup(ctx, *groupID); err != nil {
		return err
	}
	fmt.Printf("group %d deleted\n", *groupID)
	return nil
}

func (a *app) cmdAddMember(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-member", flag.ExitOnError)
	groupID := fs.Int64("group", 0, "group id")
	userID := fs.Int64("user", 0, "user id to add")
	fs.Parse(args)

	view, err := a.groups.AddMember(ctx, *groupID, *userID)
	if err != nil {
		return err
	}
	printView(view)
	return nil
}

func (a *app) cmdView(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	groupID := fs.Int64("group", 0, "group id")
	fs.Parse(args)

	view, err := a.groups.LoadView(ctx, *groupID)
	if err != nil {
		return err
	}
	printView(view)
	return nil
}

func (a *app) cmdAddExpense(ctx context.Context, sess *models.Session, args []string) error {
	fs := flag.NewFlagSet("add-expense", flag.ExitOnError)
	groupID := fs.Int64("group", 0, "group id")
	amountStr := fs.String("amount", "", "total amount, e.g. 10.00")
	description := fs.String("desc", "", "expense description")
	mode := fs.String("split", "equal", "split mode: equal, percentage or custom")
	custom := fs.String("amounts", "", "comma-separated per-member amounts for custom mode, in roster order")
	receipt := fs.String("receipt", "", "path to a receipt image")
	fs.Parse(args)

	amount, err := money.Parse(*amountStr)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}

	group, err := a.client.GetGroup(ctx, *groupID)
	if err != nil {
		return err
	}

	splits, err := calculator.ComputeSplits(amount, calculator.SplitMode(*mode), group.Members)
	if err != nil {
		return err
	}
	if *mode == string(calculator.SplitCustom) && *custom != "" {
		parts := strings.Split(*custom, ",")
		for i := range splits {
			if i < len(parts) {
				splits[i].Amount = strings.TrimSpace(parts[i])
			}
		}
	}

	draft := &service.ExpenseDraft{
		GroupID:     *groupID,
		Amount:      amount,
		Description: *description,
		PaidByID:    sess.User.ID,
		Splits:      splits,
	}
	if *receipt != "" {
		data, err := os.ReadFile(*receipt)
		if err != nil {
			return fmt.Errorf("receipt: %w", err)
		}
		draft.Receipt = &api.Upload{Filename: *receipt, Data: data}
	}

	result, err := a.expenses.Create(ctx, draft)
	if err != nil && result == nil {
		return err
	}
	fmt.Printf("expense %d created (%s)\n", result.Expense.ID, amount)
	if result.ReceiptWarning != nil {
		fmt.Println("warning:", result.ReceiptWarning)
	}
	if err != nil {
		// Mutation landed but the refresh did not; say so instead of
		// rendering a stale view.
		return err
	}
	printView(result.View)
	return nil
}

func (a *app) cmdDeleteExpense(ctx context.Context, sess *models.Session, args []string) error {
	fs := flag.NewFlagSet("delete-expense", flag.ExitOnError)
	groupID := fs.Int64("group", 0, "group id")
	expenseID := fs.Int64("expense", 0, "expense id")
	fs.Parse(args)

	expense, err := a.client.GetExpense(ctx, *groupID, *expenseID)
	if err != nil {
		return err
	}

	view, err := a.expenses.Delete(ctx, *expense, sess.User.ID)
	if err != nil {
		return err
	}
	fmt.Printf("expense %d deleted\n", *expenseID)
	printView(view)
	return nil
}

func (a *app) cmdSettle(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("settle", flag.ExitOnError)
	groupID := fs.Int64("group", 0, "group id")
	index := fs.Int("index", 0, "suggested settlement index from the view")
	fs.Parse(args)

	balances, err := a.client.GetGroupBalances(ctx, *groupID)
	if err != nil {
		return err
	}
	if *index < 0 || *index >= len(balances.SuggestedSettlements) {
		return fmt.Errorf("no suggested settlement at index %d", *index)
	}
	suggestion := balances.SuggestedSettlements[*index]

	pending := a.settlements.Begin(*groupID, suggestion)
	fmt.Printf("settle: %s pays %s %s. confirm? [y/N] ",
		suggestion.PaidByName, suggestion.PaidToName, suggestion.Amount)

	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
		pending.Cancel()
		fmt.Println("cancelled")
		return nil
	}

	view, err := pending.Confirm(ctx)
	if err != nil {
		return err
	}
	fmt.Println("settlement recorded")
	printView(view)
	return nil
}

func printView(view *service.GroupView) {
	fmt.Printf("\n%s\n", view.Group.Name)
	fmt.Println("balances:")
	for _, row := range view.BalanceRow {
		fmt.Printf("  %-20s %8s %s\n", row.Member.FullName, row.Magnitude, row.Direction)
	}
	if len(view.Balances.SuggestedSettlements) > 0 {
		fmt.Println("suggested settlements:")
		for i, s := range view.Balances.SuggestedSettlements {
			fmt.Printf("  [%d] %s -> %s  %s\n", i, s.PaidByName, s.PaidToName, s.Amount)
		}
	}
	fmt.Printf("expenses: %d\n", len(view.Expenses))
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: splittab [-callback-token TOKEN] <command>

commands:
  login -email E -password P   authenticate against the ledger service
  register -email E -username U -name N -password P
  logout                       clear the stored session
  whoami                       show the current identity
  profile [-name N] [-picture FILE] [-current-password C -new-password P]
  groups                       list your groups
  create-group -name N [-desc D]
  delete-group -group ID
  add-member -group ID -user ID
  view -group ID               show balances and suggested settlements
  add-expense -group ID -amount A -desc D [-split MODE] [-amounts LIST] [-receipt FILE]
  delete-expense -group ID -expense ID
  settle -group ID -index N    confirm and record a suggested settlement`)
}
