// Command governcored wires the config, logging, metrics, and persistence
// bootstrap for the governance core together. It owns no protocol logic:
// the orchestrator, registry, consensus rounds, and staking ledger it
// constructs here are driven entirely by adapters (wire listeners, the
// ledger substrate poller, the semantic assessor client) that sit outside
// this module's scope per spec §1.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"governcore/config"
	"governcore/consensus/registry"
	"governcore/core/events"
	"governcore/core/types"
	"governcore/jury"
	"governcore/observability/logging"
	"governcore/observability/metrics"
	"governcore/orchestrator"
	"governcore/router"
	"governcore/staking"
	"governcore/storage"
	"governcore/voting"
)

func main() {
	configPath := flag.String("config", "governcore.toml", "path to the TOML configuration file")
	memDB := flag.Bool("memdb", false, "use an in-memory store instead of LevelDB (for local testing)")
	flag.Parse()

	logger := logging.Setup("governcored", os.Getenv("GOVERNCORE_ENV"))

	if err := run(*configPath, *memDB, logger); err != nil {
		logger.Error("governcored exited with error", "error", err)
		os.Exit(1)
	}
}

// core bundles the constructed subsystems an adapter layer drives.
type core struct {
	db           storage.Database
	oracles      *registry.Registry
	slashing     *staking.Ledger
	orchestrator *orchestrator.Orchestrator
}

// bootstrap loads configuration and constructs every core subsystem,
// without starting any long-running loop. Callers own db's lifetime.
func bootstrap(configPath string, useMemDB bool, logger *slog.Logger) (*core, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(*cfg); err != nil {
		return nil, err
	}

	db, err := openStorage(cfg.DataDir, useMemDB)
	if err != nil {
		return nil, err
	}

	emitter := events.MultiEmitter{
		slogEmitter{logger: logger},
		metrics.EventEmitter{},
	}

	minBond, ok := new(big.Int).SetString(cfg.Params.OracleBondDrops, 10)
	if !ok {
		db.Close()
		return nil, fmt.Errorf("config: invalid OracleBondDrops %q", cfg.Params.OracleBondDrops)
	}

	oracles := registry.New(db, emitter).
		WithLimits(minBond, cfg.Params.ActiveOracleSetSize, cfg.Params.OracleEpochLedgers)
	slashing, err := staking.NewLedger(oracles, db, emitter)
	if err != nil {
		db.Close()
		return nil, err
	}
	slashing = slashing.WithRates(staking.Rates{
		NonRevealBps:        cfg.Policy.SlashNonRevealBps,
		InactivityBps:       cfg.Policy.SlashInactivityBps,
		FraudBps:            cfg.Policy.SlashFraudBps,
		EjectionFractionBps: staking.EjectionSlashFractionBps,
	})
	votes := voting.New(emitter)
	juries := jury.NewPanel(emitter)
	orch := orchestrator.New(emitter, votes, juries).WithPolicy(router.Policy{
		BaseQuorum:          cfg.Params.BaseQuorum,
		BaseTimelockS:       int64(cfg.Params.BaseTimelockSecs),
		L1MinQuorum:         cfg.Policy.L1MinQuorum,
		L1MinTimelockS:      int64(cfg.Policy.L1MinTimelockSecs),
		L3MinQuorum:         cfg.Policy.L3MinQuorum,
		L3MinTimelockS:      int64(cfg.Policy.L3MinTimelockSecs),
		ClassIVMinQuorum:    cfg.Policy.ClassIVMinQuorum,
		ClassIVMinTimelockS: int64(cfg.Policy.ClassIVMinTimelockSecs),
	})

	logger.Info("governcore bootstrap complete",
		"data_dir", cfg.DataDir,
		"active_oracle_set_size", cfg.Params.ActiveOracleSetSize,
		"jury_size", cfg.Params.JurySize,
	)

	return &core{db: db, oracles: oracles, slashing: slashing, orchestrator: orch}, nil
}

// run bootstraps every subsystem and blocks until SIGINT/SIGTERM. The
// orchestrator and registry it constructs are driven by adapters (wire
// listeners, the ledger substrate poller, the semantic assessor client)
// outside this module's scope per spec §1.
func run(configPath string, useMemDB bool, logger *slog.Logger) error {
	c, err := bootstrap(configPath, useMemDB, logger)
	if err != nil {
		return err
	}
	defer c.db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Info("governcored shutting down")
	return nil
}

func openStorage(dataDir string, useMemDB bool) (storage.Database, error) {
	if useMemDB {
		return storage.NewMemDB(), nil
	}
	if dataDir == "" {
		dataDir = "./governcore-data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return storage.NewLevelDB(dataDir)
}

// slogEmitter is the default events.Emitter: it logs every emitted event at
// info level with its type and attributes, masking any attribute outside
// the redaction allowlist so bond amounts, vote power, nonces, and
// commitment hashes never reach the log in plaintext. Production
// deployments swap this for an adapter that also forwards to an indexer or
// RPC stream.
type slogEmitter struct {
	logger *slog.Logger
}

func (e slogEmitter) Emit(ev *types.Event) {
	if ev == nil || e.logger == nil {
		return
	}
	args := make([]any, 0, len(ev.Attributes))
	for k, v := range ev.Attributes {
		args = append(args, logging.MaskField(k, v))
	}
	e.logger.Info(ev.Type, args...)
}
