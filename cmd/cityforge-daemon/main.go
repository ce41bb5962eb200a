package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/cityforge-go/internal/adapters/persistence"
	"github.com/andrescamacho/cityforge-go/internal/adapters/questboard"
	"github.com/andrescamacho/cityforge-go/internal/application/common"
	constructionapp "github.com/andrescamacho/cityforge-go/internal/application/construction"
	"github.com/andrescamacho/cityforge-go/internal/application/construction/commands"
	"github.com/andrescamacho/cityforge-go/internal/application/construction/queries"
	storageapp "github.com/andrescamacho/cityforge-go/internal/application/storage"
	domain "github.com/andrescamacho/cityforge-go/internal/domain/construction"
	"github.com/andrescamacho/cityforge-go/internal/domain/shared"
	"github.com/andrescamacho/cityforge-go/internal/infrastructure/config"
	"github.com/andrescamacho/cityforge-go/internal/infrastructure/database"
	"github.com/andrescamacho/cityforge-go/internal/infrastructure/logging"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "cityforge-daemon",
		Short: "CityForge daemon - construction project lifecycle service",
		Long: `CityForge daemon hosts the construction project registry, the
skip-quest economy and the storage collaborator for a running game session.

The UI layer binds presenters against the registry; save/load code talks to
the stored item repository. The daemon itself exposes no network surface.`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")

	rootCmd.AddCommand(newRunCommand(&configPath))
	return rootCmd
}

func newRunCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the daemon until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(*configPath)
		},
	}
}

func run(configPath string) error {
	cfg := config.MustLoadConfig(configPath)
	logger := logging.New(&cfg.Logging)
	clock := shared.NewRealClock()

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Core wiring: board -> bus -> registry -> storage
	board := questboard.NewBoard()
	bus := constructionapp.NewProjectEventBus()

	seed := cfg.Game.QuestSeed
	if seed == 0 {
		seed = clock.Now().UnixNano()
	}
	generator := domain.NewCatalogGenerator(seed)

	registry := constructionapp.NewProjectRegistry(board, generator, bus, clock, logger)

	items := persistence.NewGormStoredItemRepository(db)
	storageSvc := storageapp.NewService(registry, items, clock, logger)

	mediator := common.NewMediator()
	if err := registerHandlers(mediator, registry, storageSvc, clock); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := constructionapp.NewBoardListener(board, registry, logger)
	listener.Start(ctx)
	defer listener.Stop()

	logger.Info().
		Str("database", cfg.Database.Type).
		Dur("poll_interval", cfg.Game.PollInterval).
		Msg("cityforge daemon started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info().Msg("shutting down")
	return nil
}

func registerHandlers(
	mediator common.Mediator,
	registry *constructionapp.ProjectRegistry,
	storageSvc *storageapp.Service,
	clock shared.Clock,
) error {
	if err := common.RegisterHandler[*commands.BeginConstructionCommand](
		mediator, commands.NewBeginConstructionHandler(registry, clock)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*commands.StoreBuildingCommand](
		mediator, commands.NewStoreBuildingHandler(storageSvc)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*commands.PlaceBuildingCommand](
		mediator, commands.NewPlaceBuildingHandler(storageSvc)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*commands.SellBuildingCommand](
		mediator, commands.NewSellBuildingHandler(storageSvc)); err != nil {
		return err
	}
	if err := common.RegisterHandler[*queries.GetConstructionStatusQuery](
		mediator, queries.NewGetConstructionStatusHandler(registry, clock)); err != nil {
		return err
	}
	return nil
}
