package worldsrv

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ashfall-games/worldcore/internal/agent"
	"github.com/ashfall-games/worldcore/internal/architect"
	"github.com/ashfall-games/worldcore/internal/ecs"
	"github.com/ashfall-games/worldcore/internal/logging"
	"github.com/ashfall-games/worldcore/internal/mount"
	"github.com/ashfall-games/worldcore/internal/persistence"
	"github.com/ashfall-games/worldcore/internal/physics"
	"github.com/ashfall-games/worldcore/internal/region"
	"github.com/ashfall-games/worldcore/internal/sim"
	"github.com/ashfall-games/worldcore/internal/social"
	"github.com/ashfall-games/worldcore/internal/streaming"
	gsync "github.com/ashfall-games/worldcore/internal/sync"
	"github.com/ashfall-games/worldcore/internal/trade"
	"github.com/ashfall-games/worldcore/internal/vec"
	"github.com/ashfall-games/worldcore/internal/wire"
)

// handshakeMagic and protocolVersion identify this build's wire protocol,
// matching the constants the wire package's own tests exercise.
const handshakeMagic = "ashfall"

var protocolVersion = [3]uint32{1, 0, 0}

const (
	defaultStream      = uint64(0)
	streamSharePerConn = 16
	msgSharePerConn    = 1 << 16
	defaultViewChunks  = 8
)

// playerCollider is every connected player's physics footprint.
var playerCollider = physics.Collider{Radius: 0.4, Height: 1.8}

// Server owns the live simulation, the generated world, and every
// connected client, and is what cmd/server/main.go constructs and runs.
type Server struct {
	World     *sim.World
	Chunks    *ChunkProvider
	Streaming *streaming.Manager
	Tracker   *gsync.Tracker
	Characters persistence.CharacterRepository
	Mounts    *mount.Manager
	Trades    *trade.Manager
	Groups    *social.Manager

	participant *wire.Participant

	mu         sync.Mutex
	clients    map[uint64]*clientConn
	handles    map[ecs.EntityID]uint64
	entities   map[uint64]ecs.EntityID
	nextHandle uint64
	tick       uint64
}

type clientConn struct {
	handle  uint64
	entity  ecs.EntityID
	charID  persistence.CharacterID
	channel *wire.Channel
	conn    net.Conn
}

// NewServer wires together the simulation, chunk provider and social
// subsystems into a Server ready to accept connections.
func NewServer(world *sim.World, chunks *ChunkProvider, characters persistence.CharacterRepository) *Server {
	s := &Server{
		World:      world,
		Chunks:     chunks,
		Streaming:  streaming.NewManager(),
		Tracker:    gsync.NewTracker(),
		Characters: characters,
		Groups:     social.NewManager(),
		Trades:     trade.NewManager(),
		clients:    make(map[uint64]*clientConn),
		handles:    make(map[ecs.EntityID]uint64),
		entities:   make(map[uint64]ecs.EntityID),
	}
	s.Mounts = mount.NewManager(world.Entities.IsAlive)
	world.Respawn = s.respawn
	return s
}

func (s *Server) newHandle(id ecs.EntityID) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextHandle++
	h := s.nextHandle
	s.handles[id] = h
	s.entities[h] = id
	return h
}

func (s *Server) entityForHandle(h uint64) (ecs.EntityID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.entities[h]
	return id, ok
}

func (s *Server) forgetHandle(h uint64, id ecs.EntityID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entities, h)
	delete(s.handles, id)
}

// respawn is the architect.Spawner installed on World.Respawn: it places a
// fresh agent of the same kind back at the death site.
func (s *Server) respawn(d architect.Death) bool {
	kind := agent.KindVillager
	switch d.Body {
	case "trader":
		kind = agent.KindTrader
	case "guard":
		kind = agent.KindGuard
	}
	id := s.World.Entities.Create()
	s.World.Positions.Insert(id, d.Position)
	s.World.Velocities.Insert(id, vec.Vec3f{})
	s.World.Colliders.Insert(id, playerCollider)
	s.World.OnGround.Insert(id, false)
	s.World.Health.Insert(id, &sim.Health{Current: 100, Max: 100})
	s.World.Agents.Insert(id, agent.New(kind, d.Position))
	return true
}

// SpawnAgent places one AI-controlled entity of kind at home, used to
// populate the world from civ-generated settlements before any client
// connects.
func (s *Server) SpawnAgent(kind agent.Kind, home vec.Vec3f) ecs.EntityID {
	id := s.World.Entities.Create()
	s.World.Positions.Insert(id, home)
	s.World.Velocities.Insert(id, vec.Vec3f{})
	s.World.Colliders.Insert(id, playerCollider)
	s.World.OnGround.Insert(id, false)
	s.World.Health.Insert(id, &sim.Health{Current: 100, Max: 100})
	s.World.Agents.Insert(id, agent.New(kind, home))
	return id
}

// Listen runs the accept loop on ln until done is closed, handing each
// connection off to a per-connection goroutine.
func (s *Server) Listen(ln net.Listener, done <-chan struct{}) {
	s.participant = wire.NewParticipant(1, 1<<32, 1<<48)

	var wg sync.WaitGroup
	acceptDone := make(chan struct{})
	go func() {
		<-done
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-done:
				close(acceptDone)
				wg.Wait()
				return
			default:
				logging.Warn("accept error: %v", err)
				continue
			}
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleConn(conn)
		}()
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	ch := wire.NewChannel(conn)
	if err := ch.Handshake(handshakeMagic, protocolVersion, s.participant, streamSharePerConn, msgSharePerConn); err != nil {
		logging.Warn("handshake failed from %s: %v", conn.RemoteAddr(), err)
		return
	}
	if err := ch.OpenStream(defaultStream, 0, 0); err != nil {
		logging.Warn("open stream failed from %s: %v", conn.RemoteAddr(), err)
		return
	}

	cc := s.joinPlayer(conn, ch)
	defer s.leavePlayer(cc)

	for {
		f, err := wire.ReadFrame(conn)
		if err != nil {
			if err != io.EOF {
				logging.Debug("connection %s closed: %v", conn.RemoteAddr(), err)
			}
			return
		}
		_, _, payload, ok := ch.Dispatch(f)
		if !ok {
			continue
		}
		s.handleEnvelope(cc, payload)
	}
}

// joinPlayer loads (or creates) a character record, spawns its entity into
// the simulation, and subscribes it to streaming.
func (s *Server) joinPlayer(conn net.Conn, ch *wire.Channel) *clientConn {
	charID := persistence.CharacterID(atomic.AddUint64(&characterSeq, 1))
	rec, err := s.Characters.Load(charID)
	if err != nil {
		rec = persistence.CharacterRecord{
			ID:       charID,
			Name:     fmt.Sprintf("wanderer-%d", charID),
			Position: vec.Vec3f{0: 0, 1: 0, 2: 64},
		}
		if err := s.Characters.Save(rec); err != nil {
			logging.Warn("failed to persist new character %d: %v", charID, err)
		}
	}

	id := s.World.Entities.Create()
	s.World.Positions.Insert(id, rec.Position)
	s.World.Velocities.Insert(id, vec.Vec3f{})
	s.World.Colliders.Insert(id, playerCollider)
	s.World.OnGround.Insert(id, false)
	s.World.Health.Insert(id, &sim.Health{Current: 100, Max: 100})

	handle := s.newHandle(id)
	s.Streaming.Subscribe(id, defaultViewChunks)

	cc := &clientConn{handle: handle, entity: id, charID: charID, channel: ch, conn: conn}
	s.mu.Lock()
	s.clients[handle] = cc
	s.mu.Unlock()

	logging.Info("character %d joined as handle %d", charID, handle)
	return cc
}

var characterSeq uint64

func (s *Server) leavePlayer(cc *clientConn) {
	pos, _ := s.World.Positions.Get(cc.entity)
	if rec, err := s.Characters.Load(cc.charID); err == nil {
		rec.Position = pos
		_ = s.Characters.Save(rec)
	}

	s.mu.Lock()
	delete(s.clients, cc.handle)
	s.mu.Unlock()
	s.forgetHandle(cc.handle, cc.entity)
	s.Streaming.Unsubscribe(cc.entity)
	s.Tracker.ForgetClient(cc.entity)

	s.World.Positions.Remove(cc.entity)
	s.World.Velocities.Remove(cc.entity)
	s.World.Colliders.Remove(cc.entity)
	s.World.OnGround.Remove(cc.entity)
	s.World.Health.Remove(cc.entity)
	s.World.Entities.Delete(cc.entity)

	logging.Info("character %d left (handle %d)", cc.charID, cc.handle)
}

// envelope is the JSON command shape clients send over the default stream.
type envelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

func (s *Server) handleEnvelope(cc *clientConn, payload []byte) {
	var e envelope
	if err := json.Unmarshal(payload, &e); err != nil {
		logging.Debug("malformed envelope from handle %d: %v", cc.handle, err)
		return
	}

	switch e.Kind {
	case "move":
		var d struct{ VX, VY, VZ float32 }
		if json.Unmarshal(e.Data, &d) == nil {
			s.World.Velocities.Insert(cc.entity, vec.Vec3f{0: d.VX, 1: d.VY, 2: d.VZ})
		}
	case "mount":
		var d struct{ Target uint64 }
		if json.Unmarshal(e.Data, &d) == nil {
			if target, ok := s.entityForHandle(d.Target); ok {
				if err := s.Mounts.Mount(target, cc.entity); err != nil {
					logging.Debug("mount failed for handle %d: %v", cc.handle, err)
				}
			}
		}
	case "dismount":
		s.Mounts.Dismount(cc.entity)
	case "group_invite":
		var d struct{ Target uint64 }
		if json.Unmarshal(e.Data, &d) == nil {
			if target, ok := s.entityForHandle(d.Target); ok {
				s.Groups.Invite(cc.entity, target)
			}
		}
	case "group_accept":
		s.Groups.Accept(cc.entity)
	case "group_reject":
		s.Groups.Reject(cc.entity)
	case "group_leave":
		s.Groups.Leave(cc.entity)
	case "trade_begin":
		var d struct{ Target uint64 }
		if json.Unmarshal(e.Data, &d) == nil {
			if target, ok := s.entityForHandle(d.Target); ok {
				s.Trades.Begin(cc.entity, target)
			}
		}
	case "trade_decline":
		if id, ok := s.Trades.InTradeWith(cc.entity); ok {
			s.Trades.Decline(id, cc.entity)
		}
	default:
		logging.Debug("unknown envelope kind %q from handle %d", e.Kind, cc.handle)
	}
}

// OnTick runs after every sim.World.RunTick: it diffs per-client visibility
// with Streaming, diffs per-entity component state with Tracker, and pushes
// the resulting wire messages out to each connected client. It's installed
// as the onTick callback passed to sim.NewLoop.
func (s *Server) OnTick(w *sim.World) {
	s.tick++
	tick := s.tick

	centers := make(map[ecs.EntityID]region.RegionKey)
	s.World.Positions.Each(func(id ecs.EntityID, pos vec.Vec3f) {
		centers[id] = vec.FloorVec3f(pos).ToRegionKey()
	})

	snapshot := func(id ecs.EntityID) (streaming.Snapshot, bool) {
		pos, ok := s.World.Positions.Get(id)
		if !ok {
			return streaming.Snapshot{}, false
		}
		vel, _ := s.World.Velocities.Get(id)
		return streaming.Snapshot{Pos: pos, Vel: vel}, true
	}

	updates := s.Streaming.Sync(s.World.Regions, centers, snapshot)

	s.mu.Lock()
	clientsByEntity := make(map[ecs.EntityID]*clientConn, len(s.clients))
	for _, cc := range s.clients {
		clientsByEntity[cc.entity] = cc
	}
	s.mu.Unlock()

	for _, u := range updates {
		cc, ok := clientsByEntity[u.Client]
		if !ok {
			continue
		}
		s.sendJSON(cc, "update", u)
	}

	s.World.Positions.Each(func(entity ecs.EntityID, pos vec.Vec3f) {
		vel, _ := s.World.Velocities.Get(entity)
		components := gsync.Components{Pos: pos, Vel: vel}
		for clientEntity, cc := range clientsByEntity {
			clientPos, _ := s.World.Positions.Get(clientEntity)
			distance := planarDistance(pos, clientPos)
			up, changed := s.Tracker.Evaluate(clientEntity, entity, tick, distance, false, entity == clientEntity, components)
			if changed {
				s.sendJSON(cc, "entity_update", up)
			}
		}
	})
}

// planarDistance is the horizontal distance entity sync throttling keys
// off, ignoring vertical separation.
func planarDistance(a, b vec.Vec3f) float64 {
	dx := float64(a.X() - b.X())
	dy := float64(a.Y() - b.Y())
	return math.Sqrt(dx*dx + dy*dy)
}

func (s *Server) sendJSON(cc *clientConn, kind string, data interface{}) {
	payload, err := json.Marshal(envelope{Kind: kind, Data: mustRaw(data)})
	if err != nil {
		return
	}
	mid := uint64(time.Now().UnixNano())
	if err := cc.channel.SendMessage(defaultStream, mid, payload); err != nil {
		logging.Debug("send to handle %d failed: %v", cc.handle, err)
	}
}

func mustRaw(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}
