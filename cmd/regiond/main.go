package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/l1jgo/regioncore/internal/config"
	"github.com/l1jgo/regioncore/internal/core/event"
	"github.com/l1jgo/regioncore/internal/data"
	"github.com/l1jgo/regioncore/internal/journal"
	"github.com/l1jgo/regioncore/internal/notice"
	"github.com/l1jgo/regioncore/internal/persist"
	"github.com/l1jgo/regioncore/internal/scripting"
	"github.com/l1jgo/regioncore/internal/system"
	"github.com/l1jgo/regioncore/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, serverID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             regiond  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        區域模擬 · 戰鬥與移動核心          \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1m伺服器:\033[0m %s \033[90m(編號: %d)\033[0m\n\n", serverName, serverID)
}

// displayWidth counts CJK runes as two columns.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		if r > 0x7F {
			w += 2
		} else {
			w++
		}
	}
	return w
}

func printSection(title string) {
	lineLen := max(46-displayWidth(title)-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := max(42-displayWidth(label)-len(numStr), 3)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

type tables struct {
	weapons *data.WeaponTable
	spells  *data.SpellTable
	npcs    *data.NpcTable
	spawns  []data.SpawnEntry
}

func loadTables(cfg config.DataConfig) (*tables, error) {
	var t tables
	var err error
	if t.weapons, err = data.LoadWeaponTable(cfg.Weapons); err != nil {
		return nil, err
	}
	if t.spells, err = data.LoadSpellTable(cfg.Spells); err != nil {
		return nil, err
	}
	if t.npcs, err = data.LoadNpcTable(cfg.Npcs); err != nil {
		return nil, err
	}
	if t.spawns, err = data.LoadSpawnList(cfg.Spawns); err != nil {
		return nil, err
	}
	return &t, nil
}

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("REGIOND_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Static tables
	printSection("遊戲資料")
	tbl, err := loadTables(cfg.Data)
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	printStat("武器", tbl.weapons.Count())
	printStat("魔法", tbl.spells.Count())
	printStat("NPC 模板", tbl.npcs.Count())
	printStat("生成點", len(tbl.spawns))
	fmt.Println()

	// 4. Combat journal (optional)
	var writer *journal.Writer
	if cfg.Journal.Enabled {
		printSection("資料庫")
		dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		db, err := persist.NewDB(dbCtx, cfg.Journal, log)
		if err != nil {
			cancel()
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL 連線成功")
		err = persist.RunMigrations(dbCtx, db.Pool, log)
		cancel()
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("資料庫遷移完成")
		writer = journal.NewWriter(persist.NewJournalRepo(db), cfg.Journal.QueueSize, log)
		fmt.Println()
	}

	// 5. Regions
	printSection("區域")
	seed := cfg.Server.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	notices := notice.New(cfg.Server.Language)
	sink := event.NewLogSink(log)
	rules := world.RulesFromConfig(cfg)
	w := world.NewWorld()

	var loops []*system.RegionLoop
	for _, entry := range cfg.Region.List {
		roller := world.NewRoller(seed + uint64(entry.ID))
		deps := world.Deps{
			Roller:  roller,
			Sink:    sink,
			Book:    tbl.spells,
			Notices: notices,
		}

		tmpl := system.Templates{Npcs: tbl.npcs, Weapons: tbl.weapons}
		if cfg.Scripting.Enabled {
			// 每個區域一個 Lua VM，只在該區域 goroutine 內使用。
			engine, err := scripting.NewEngine(cfg.Scripting.Dir, roller, log)
			if err != nil {
				return fmt.Errorf("scripting region %d: %w", entry.ID, err)
			}
			defer engine.Close()
			deps.Math = engine
			tmpl.Engine = engine
		}

		var flusher system.Flusher
		if writer != nil {
			buf := writer.NewBuffer()
			deps.Journal = buf
			flusher = buf
		}

		region := world.NewRegion(entry.ID, entry.Name, rules, deps, log)
		if err := w.Add(region); err != nil {
			return err
		}
		n := system.SpawnNpcs(region, tmpl, tbl.spawns, seed, log)
		printStat(fmt.Sprintf("%s (#%d) NPC", entry.Name, entry.ID), n)

		loops = append(loops, system.NewRegionLoop(region, flusher, system.LoopConfig{
			TickRate:           cfg.Region.TickRate,
			MaxCommandsPerTick: cfg.Region.MaxCommandsPerTick,
			VisibilityEvery:    10,
			FlushEvery:         20,
		}, log))
	}
	fmt.Println()

	// 6. Run
	// 日誌寫入器比區域晚停止，才能收到最後一次 flush。
	writerCtx, stopWriter := context.WithCancel(context.Background())
	writerDone := make(chan error, 1)
	if writer != nil {
		go func() { writerDone <- writer.Run(writerCtx) }()
	} else {
		writerDone <- nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, l := range loops {
		g.Go(func() error { return l.Run(gctx) })
	}
	printReady(fmt.Sprintf("%d 個區域運行中 (tick %s)", len(loops), cfg.Region.TickRate))
	log.Info("伺服器啟動", zap.Uint64("seed", seed))

	err = g.Wait()
	log.Info("收到關閉信號")
	stopWriter()
	if werr := <-writerDone; werr != nil {
		log.Error("journal writer", zap.Error(werr))
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("伺服器已停止")
	return nil
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
