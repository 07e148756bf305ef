// Command hostelctl runs administrative tasks against the HostelHub database
// without going through the HTTP API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	bulkapp "github.com/hostelhub/backend/internal/application/bulk"
	financeapp "github.com/hostelhub/backend/internal/application/finance"
	housingapp "github.com/hostelhub/backend/internal/application/housing"
	identityapp "github.com/hostelhub/backend/internal/application/identity"
	notificationapp "github.com/hostelhub/backend/internal/application/notification"
	welfareapp "github.com/hostelhub/backend/internal/application/welfare"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/infrastructure/auth"
	"github.com/hostelhub/backend/internal/infrastructure/config"
	"github.com/hostelhub/backend/internal/infrastructure/event"
	"github.com/hostelhub/backend/internal/infrastructure/logger"
	"github.com/hostelhub/backend/internal/infrastructure/persistence"
	"github.com/hostelhub/backend/internal/infrastructure/printing"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds the services a command needs. It is built lazily so --help works
// without a database.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *persistence.Database
	bus      *event.InMemoryEventBus
	renderer *printing.ChromedpRenderer

	users *identityapp.UserService
	bulk  *bulkapp.Service
}

func main() {
	var (
		logLevel string
		actorArg string
		a        *app
	)

	root := &cobra.Command{
		Use:           "hostelctl",
		Short:         "HostelHub administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(logLevel)
			return err
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&actorArg, "as", "", "email of the admin recorded as performing bulk actions (default: bootstrap admin)")

	var (
		email    string
		password string
		name     string
	)
	createAdmin := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.users.Create(cmd.Context(), identityapp.CreateUserInput{
				Email:    email,
				Password: password,
				Name:     name,
				Role:     shared.RoleAdmin,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, user)
		},
	}
	createAdmin.Flags().StringVar(&email, "email", "", "admin email")
	createAdmin.Flags().StringVar(&password, "password", "", "admin password, at least 8 characters")
	createAdmin.Flags().StringVar(&name, "name", "Administrator", "display name")
	_ = createAdmin.MarkFlagRequired("email")
	_ = createAdmin.MarkFlagRequired("password")

	importStudents := &cobra.Command{
		Use:   "import-students FILE",
		Short: "Create student accounts from a CSV file",
		Long:  "The CSV header is: email,name,phone,student_number,gender,password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			actor, err := a.actor(cmd.Context(), actorArg)
			if err != nil {
				return err
			}
			result, err := a.bulk.ImportStudents(cmd.Context(), actor, bulkapp.ImportInput{
				FileName: filepath.Base(args[0]),
				Data:     data,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	generateRent := &cobra.Command{
		Use:   "generate-rent MONTH",
		Short: "Charge rent for every active booking, MONTH as YYYY-MM",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actor(cmd.Context(), actorArg)
			if err != nil {
				return err
			}
			result, err := a.bulk.GenerateRent(cmd.Context(), actor, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	root.AddCommand(createAdmin, importStudents, generateRent)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := root.ExecuteContext(ctx)
	if a != nil {
		a.close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newApp(logLevel string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel)))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	userRepo := persistence.NewGormUserRepository(db.DB)
	roomRepo := persistence.NewGormRoomRepository(db.DB)
	bookingRepo := persistence.NewGormBookingRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	leaveRepo := persistence.NewGormLeaveRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Nothing subscribes here; the bus only keeps publishers satisfied
	bus := event.NewInMemoryEventBus(log)
	if err := bus.Start(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	renderer := printing.NewChromedpRenderer(printing.ChromedpConfigFrom(cfg.Report, log))

	users := identityapp.NewUserService(userRepo, bookingRepo, auth.NewInMemoryTokenBlacklist(), bus, log)
	rooms := housingapp.NewRoomService(roomRepo, bookingRepo, bus, log)
	bookings := housingapp.NewBookingService(bookingRepo, roomRepo, userRepo, txScope, bus,
		housingapp.BookingServiceConfig{PendingTTL: cfg.Scheduler.PendingBookingTTL}, log)
	payments := financeapp.NewPaymentService(paymentRepo, userRepo, bookingRepo, roomRepo, bus,
		printing.NewTemplateEngine(), renderer, financeapp.PaymentServiceConfig{
			HostelName: cfg.App.Name,
			RentDueDay: cfg.Scheduler.RentDueDay,
		}, log)
	leaves := welfareapp.NewLeaveService(leaveRepo, txScope, bus, log)
	notifications := notificationapp.NewService(notificationRepo, userRepo, log)

	bulk := bulkapp.NewService(persistence.NewGormBulkOperationRepository(db.DB), bulkapp.Services{
		Users:    users,
		Rooms:    rooms,
		Bookings: bookings,
		Payments: payments,
		Leaves:   leaves,
		Notifier: notifications,
	}, bulkapp.Config{}, log)

	return &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		bus:      bus,
		renderer: renderer,
		users:    users,
		bulk:     bulk,
	}, nil
}

// actor resolves the admin recorded in the bulk history
func (a *app) actor(ctx context.Context, email string) (shared.Actor, error) {
	if email == "" {
		email = a.cfg.Bootstrap.AdminEmail
	}
	if email == "" {
		return shared.Actor{}, fmt.Errorf("no admin given, pass --as EMAIL")
	}
	user, err := persistence.NewGormUserRepository(a.db.DB).FindByEmail(ctx, email)
	if err != nil {
		return shared.Actor{}, fmt.Errorf("admin %s: %w", email, err)
	}
	if !user.IsAdmin() {
		return shared.Actor{}, fmt.Errorf("%s is not an admin", email)
	}
	return shared.NewActor(user.ID, user.Role), nil
}

func (a *app) close() {
	_ = a.bus.Stop(context.Background())
	if err := a.renderer.Close(); err != nil {
		a.log.Warn("Failed to close PDF renderer", zap.Error(err))
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn("Failed to close database", zap.Error(err))
	}
	_ = logger.Sync(a.log)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
