package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashfall-games/worldcore/internal/agent"
	"github.com/ashfall-games/worldcore/internal/cache"
	"github.com/ashfall-games/worldcore/internal/config"
	"github.com/ashfall-games/worldcore/internal/logging"
	"github.com/ashfall-games/worldcore/internal/observability"
	"github.com/ashfall-games/worldcore/internal/persistence"
	"github.com/ashfall-games/worldcore/internal/sim"
	"github.com/ashfall-games/worldcore/internal/vec"
	"github.com/ashfall-games/worldcore/internal/world"
	"github.com/ashfall-games/worldcore/internal/world/civ"
	"github.com/ashfall-games/worldcore/internal/world/mapgen"
	"github.com/ashfall-games/worldcore/internal/worldsrv"
)

func main() {
	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("failed to init logging: %v", err)
	}
	defer logging.CloseDefaultLogger()

	logging.Info("starting ashfall world server...")

	shutdownTel, err := observability.InitTelemetry(context.Background(), "ashfall-worldcore")
	if err != nil {
		logging.Warn("failed to init OpenTelemetry: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		logging.Warn("failed to load config: %v", err)
	}
	var worldCfg config.WorldConfig
	var simCfg config.SimConfig
	var serverCfg config.ServerConfig
	var persistCfg config.PersistenceConfig
	var cacheCfg config.CacheConfig
	if cfg != nil {
		worldCfg = cfg.World
		simCfg = cfg.Sim
		serverCfg = cfg.Server
		persistCfg = cfg.Persistence
		cacheCfg = cfg.Cache
	}
	if worldCfg.Seed == 0 {
		worldCfg.Seed = time.Now().UnixNano()
	}
	if worldCfg.Width == 0 {
		worldCfg.Width = 512
	}
	if worldCfg.Height == 0 {
		worldCfg.Height = 512
	}

	mapCfg := mapgen.DefaultConfig()
	if worldCfg.ErosionPasses > 0 {
		mapCfg.ErosionPasses = worldCfg.ErosionPasses
	}

	logging.Info("generating world map: seed=%d size=%dx%d", worldCfg.Seed, worldCfg.Width, worldCfg.Height)
	worldMap := mapgen.Generate(worldCfg.Seed, worldCfg.Width, worldCfg.Height, mapCfg)

	civCfg := civ.DefaultConfig()
	if worldCfg.CivCount > 0 {
		civCfg.CivCount = worldCfg.CivCount
	}
	if worldCfg.SimYears > 0 {
		civCfg.SimYears = worldCfg.SimYears
	}
	logging.Info("generating civilizations: count=%d sim_years=%d", civCfg.CivCount, civCfg.SimYears)
	civs := civ.Generate(worldMap, worldCfg.Seed, civCfg)
	logging.Info("world generated: %d sites, %d places, %d tracks", len(civs.Sites), len(civs.Places), len(civs.Tracks))

	dataPath := persistCfg.GetDataPath()
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		log.Fatalf("failed to create data directory %s: %v", dataPath, err)
	}

	characters, err := persistence.NewBadgerCharacterRepository(dataPath)
	if err != nil {
		log.Fatalf("failed to open character repository: %v", err)
	}
	defer characters.Close()

	chunkCache, coldStorage, invalidator := buildChunkCache(cacheCfg, dataPath)
	if coldStorage != nil {
		defer coldStorage.Close()
	}
	if invalidator != nil {
		defer invalidator.Close()
	}

	chunks := worldsrv.NewChunkProvider(worldMap, civs, worldCfg.Seed, chunkCache)

	gameWorld := sim.NewWorld(chunks.Solid, worldCfg.Seed)
	srv := worldsrv.NewServer(gameWorld, chunks, characters)
	populateStartingAgents(srv, worldMap, civs)

	loop := sim.NewLoop(gameWorld, simCfg.TickRate(), srv.OnTick)

	listenAddr := fmt.Sprintf(":%d", serverCfg.GetListenPort())
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		log.Fatalf("failed to listen on %s: %v", listenAddr, err)
	}
	logging.Info("listening for players on %s", listenAddr)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go loop.Run(ctx)
	go srv.Listen(ln, done)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logging.Info("received signal %v, shutting down...", sig)

	close(done)
	cancel()
	ln.Close()

	if shutdownTel != nil {
		_ = shutdownTel(context.Background())
	}

	logging.Info("server stopped")
}

// buildChunkCache wires the optional distributed hot cache (Redis) backed
// by a badger cold store and NATS invalidation, returning nils across the
// board when the cache is disabled so ChunkProvider falls back to pure
// synth-on-miss.
func buildChunkCache(cfg config.CacheConfig, dataPath string) (cache.CacheRepo, *cache.BadgerColdStorage, cache.CacheInvalidator) {
	if !cfg.Enabled {
		return nil, nil, nil
	}

	cold, err := cache.NewBadgerColdStorage(dataPath)
	if err != nil {
		logging.Warn("failed to open chunk cold storage: %v", err)
		return nil, nil, nil
	}

	nodeID := cfg.NodeID
	if nodeID == "" {
		nodeID = "node-1"
	}

	var invalidator cache.CacheInvalidator
	if cfg.NATS.URL != "" {
		inv, err := cache.NewNATSInvalidator(&cache.InvalidatorConfig{
			NATSURL: cfg.NATS.URL,
			Subject: cfg.NATS.Subject,
		}, nodeID)
		if err != nil {
			logging.Warn("failed to start cache invalidator, continuing without pub/sub invalidation: %v", err)
		} else {
			invalidator = inv
		}
	}

	redisCache, err := cache.NewRedisCache(&cache.CacheConfig{
		RedisURL:   cfg.Redis.URL,
		DefaultTTL: time.Duration(cfg.Redis.TTL) * time.Second,
	}, cold, invalidator)
	if err != nil {
		logging.Warn("failed to start redis chunk cache, falling back to synth-on-miss: %v", err)
		return nil, cold, invalidator
	}

	logging.Info("distributed chunk cache enabled: redis=%s node=%s", cfg.Redis.URL, nodeID)
	return redisCache, cold, invalidator
}

// populateStartingAgents seeds each generated settlement with a few
// villager/trader/guard agents so the world isn't empty the moment the
// first player connects.
func populateStartingAgents(srv *worldsrv.Server, m *world.Map, civs *civ.Civs) {
	kinds := [...]agent.Kind{agent.KindVillager, agent.KindTrader, agent.KindGuard}
	spawned := 0
	for _, site := range civs.Sites {
		alt := m.At(site.Center).Alt
		home := vec.Vec3{X: int32(site.Center.X), Y: int32(site.Center.Y), Z: int32(alt) + 1}.ToVec3f()
		for _, kind := range kinds {
			srv.SpawnAgent(kind, home)
			spawned++
		}
	}
	logging.Info("seeded %d starting agents across %d sites", spawned, len(civs.Sites))
}
