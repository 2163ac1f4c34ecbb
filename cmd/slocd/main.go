package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/slocgo/loader/internal/autoload"
	"github.com/slocgo/loader/internal/config"
	"github.com/slocgo/loader/internal/core/ecs"
	"github.com/slocgo/loader/internal/core/event"
	coresys "github.com/slocgo/loader/internal/core/system"
	"github.com/slocgo/loader/internal/create"
	"github.com/slocgo/loader/internal/data"
	"github.com/slocgo/loader/internal/persist"
	"github.com/slocgo/loader/internal/scene"
	"github.com/slocgo/loader/internal/scripting"
	"github.com/slocgo/loader/internal/sloc/source"
	"github.com/slocgo/loader/internal/system"
	"github.com/slocgo/loader/internal/trigger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const usage = `usage:
  slocd               run the scene host
  slocd import <dir>  store every *.sloc file of dir in the database`

func main() {
	var err error
	switch {
	case len(os.Args) == 1:
		err = run()
	case len(os.Args) == 3 && os.Args[1] == "import":
		err = runImport(os.Args[2])
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            slocd  v0.1.0                  \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      sloc object graph scene host         \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s\n\n", serverName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Scene host ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 3. Asset storage: PostgreSQL when enabled, otherwise the asset directory
	printSection("storage")
	var assets source.Loader
	if cfg.Database.Enabled {
		db, err := openDB(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()
		assets = persist.NewAssetRepo(db)
		printOK("database migrations applied")
	} else {
		store := persist.NewDirStore(cfg.Assets.Dir)
		names, err := store.Names()
		if err != nil {
			return fmt.Errorf("list assets: %w", err)
		}
		assets = store
		printStat("asset files", len(names))
	}

	// 4. Data tables
	printSection("data")
	rooms, err := loadRooms(cfg.Assets.RoomsTable)
	if err != nil {
		return fmt.Errorf("load rooms: %w", err)
	}
	printStat("rooms", rooms.Count())

	var spawnList *data.AutoSpawnList
	if cfg.Assets.AutoLoad {
		spawnList, err = data.LoadAutoSpawnList(cfg.Assets.AutoSpawnList)
		if err != nil {
			return fmt.Errorf("load auto spawn list: %w", err)
		}
		printStat("auto spawn entries", spawnList.Count())
	}

	// 5. Trigger handlers: builtins first, Lua bindings override
	printSection("triggers")
	reg := trigger.Default()
	reg.SetLogger(log)
	trigger.RegisterBuiltins(reg, rooms)

	if len(cfg.Scripting.Handlers) > 0 {
		engine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("init scripting: %w", err)
		}
		defer engine.Close()
		if err := engine.BindHandlers(reg, cfg.Scripting.Handlers); err != nil {
			return fmt.Errorf("bind script handlers: %w", err)
		}
	}
	printStat("action handlers", reg.Len())

	// 6. Scene and creation pipeline
	ecsWorld := ecs.NewWorld()
	bus := event.NewBus()
	scn := scene.New(ecsWorld, bus, log)
	pipeline := create.New(scn, reg, scn.Listeners(), log)

	if spawnList != nil {
		loader := autoload.New(pipeline, assets, rooms, bus, log)
		loader.SetConcurrency(cfg.Assets.PrefetchConcurrency)
		scn.OnPrefabsLoaded(func() {
			roots, err := loader.Run(ctx, spawnList)
			if err != nil {
				log.Warn("auto load incomplete", zap.Int("roots", len(roots)), zap.Error(err))
				return
			}
			log.Info("auto load complete", zap.Int("roots", len(roots)))
		})
	}

	// 7. Systems
	dispatcher := trigger.NewDispatcher(scn.Listeners(), scn, log)
	runner := coresys.NewRunner()
	runner.Register(system.NewEventSystem(bus, dispatcher))
	system.LogSceneEvents(bus, log)
	runner.Register(system.NewOverlapSystem(scn))
	runner.Register(system.NewCleanupSystem(ecsWorld, log))

	if cfg.Assets.LoadPrefabsOnStart {
		scn.LoadPrefabs()
	}

	// 8. Start tick loop
	ticker := time.NewTicker(cfg.Server.TickRate)
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("tick loop started (tick: %s)", cfg.Server.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Server.TickRate)
		case <-ctx.Done():
			log.Info("shutdown signal received")
			scn.UnsetPrefabs()
			log.Info("server stopped")
			return nil
		}
	}
}

// runImport copies an asset directory into the database.
func runImport(dir string) error {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := openDB(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := persist.ImportDir(ctx, persist.NewAssetRepo(db), dir)
	if err != nil {
		return fmt.Errorf("import %s: %w", dir, err)
	}
	log.Info("assets imported", zap.String("dir", dir), zap.Int("count", n))
	return nil
}

func openDB(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*persist.DB, error) {
	connCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(connCtx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := persist.RunMigrations(connCtx, db.Pool, log); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}

// loadRooms returns an empty table when no rooms file is configured.
func loadRooms(path string) (*data.RoomTable, error) {
	if path == "" {
		return data.NewRoomTable(nil)
	}
	return data.LoadRoomTable(path)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
