// Simulation ties the swarm, the communication schedule and the coverage grid
// together and advances them one round at a time.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/eneri4/exploration-drones/internal/agents"
	"github.com/eneri4/exploration-drones/internal/design"
	"github.com/eneri4/exploration-drones/internal/schedule"
	"github.com/eneri4/exploration-drones/internal/world"
)

// State is the lifecycle stage of a simulation.
type State uint8

const (
	StateIdle State = iota
	StateRunning
	StateTerminated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	default:
		return "idle"
	}
}

// Reason explains why a run terminated.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonCoverage  Reason = "full-coverage"
	ReasonBudget    Reason = "round-budget"
	ReasonCancelled Reason = "cancelled"
	ReasonError     Reason = "error"
)

// Config describes one run. Nothing here is read after NewSimulation returns.
type Config struct {
	Width     int
	Height    int
	Positions []world.Point // One start cell per drone; len(Positions) is v
	Mode      schedule.Mode
	Design    design.Design // Required for BIBD modes, validated against v
	Policy    agents.MovementPolicy
	Rounds    int // Round budget T; 0 terminates at start
	Seed      int64
}

// Simulation holds the complete run state.
type Simulation struct {
	Agents    []*agents.Agent
	Coverage  *world.Coverage
	Scheduler schedule.Scheduler
	Policy    agents.MovementPolicy

	rng       *rand.Rand
	budget    int
	round     int
	state     State
	reason    Reason
	exchanges int
	observers []Observer
	lastPair  *schedule.Pair
}

// NewSimulation creates an idle simulation from cfg.
func NewSimulation(cfg Config) (*Simulation, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("grid must be positive, got %dx%d", cfg.Width, cfg.Height)
	}
	if len(cfg.Positions) == 0 {
		return nil, fmt.Errorf("simulation needs at least one drone")
	}
	if cfg.Rounds < 0 {
		return nil, fmt.Errorf("round budget must be >= 0, got %d", cfg.Rounds)
	}

	swarm, err := agents.NewSpawner(cfg.Width, cfg.Height).Spawn(cfg.Positions)
	if err != nil {
		return nil, err
	}

	sched, err := schedule.New(cfg.Mode, len(swarm), cfg.Design)
	if err != nil {
		return nil, err
	}

	policy := cfg.Policy
	if policy == nil {
		policy = &agents.RandomSearch{Trials: agents.DefaultTrials}
	}

	cov := world.NewCoverage(cfg.Width, cfg.Height)
	for _, a := range swarm {
		cov.Mark(a.Position)
	}

	return &Simulation{
		Agents:    swarm,
		Coverage:  cov,
		Scheduler: sched,
		Policy:    policy,
		rng:       rand.New(rand.NewSource(cfg.Seed + 300)),
		budget:    cfg.Rounds,
	}, nil
}

// AddObserver registers a per-round callback.
func (s *Simulation) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// State returns the lifecycle stage.
func (s *Simulation) State() State { return s.state }

// Round returns the number of completed rounds.
func (s *Simulation) Round() int { return s.round }

// Reason returns why the run terminated, empty while running.
func (s *Simulation) Reason() Reason { return s.reason }

// Exchanges returns the total number of directed map exchanges so far.
func (s *Simulation) Exchanges() int { return s.exchanges }

// Start moves an idle simulation to running and emits the initial frame.
// A zero budget or an already covered grid terminates immediately.
func (s *Simulation) Start() {
	if s.state != StateIdle {
		return
	}
	s.state = StateRunning
	slog.Info("simulation started",
		"drones", len(s.Agents),
		"grid", fmt.Sprintf("%dx%d", s.Coverage.Width(), s.Coverage.Height()),
		"mode", s.Scheduler.Mode().String(),
		"policy", s.Policy.Name(),
		"budget", s.budget,
	)
	s.checkTermination()
	s.notify(nil)
}

// Step runs one round: communicate, finalize, mark visited, move, check
// termination. Returns false once the simulation has terminated.
func (s *Simulation) Step() (bool, error) {
	if s.state == StateIdle {
		s.Start()
	}
	if s.state == StateTerminated {
		return false, nil
	}

	t := s.round
	active := s.Scheduler.Active(t)
	pairs := s.Scheduler.Pairs(t)

	if err := s.communicate(active, pairs); err != nil {
		s.terminate(ReasonError)
		return false, fmt.Errorf("round %d: %w", t, err)
	}

	// Finalize is a barrier: every exchange of the round has landed.
	for _, id := range active {
		s.Agents[id].Finalize()
	}
	for _, id := range active {
		s.Coverage.Mark(s.Agents[id].Position)
	}
	for _, id := range active {
		s.Policy.Move(s.Agents[id], s.rng)
	}

	s.round++
	s.exchanges += len(pairs)
	if len(pairs) > 0 {
		last := pairs[len(pairs)-1]
		s.lastPair = &last
	} else {
		s.lastPair = nil
	}

	slog.Debug("round complete",
		"round", s.round,
		"exchanges", len(pairs),
		"covered", s.Coverage.Count(),
		"total", s.Coverage.Total(),
	)

	s.checkTermination()
	s.notify(s.Scheduler.Block(t))
	return s.state != StateTerminated, nil
}

// communicate stages every touched drone, then folds each sender's Local map
// into its receiver's staging map. Local maps are not written until Finalize,
// so senders transmit them in place.
func (s *Simulation) communicate(active []int, pairs []schedule.Pair) error {
	for _, id := range active {
		s.Agents[id].Stage()
	}
	for _, p := range pairs {
		if err := agents.Exchange(s.Agents[p.Sender], s.Agents[p.Receiver], s.Agents[p.Sender].Local); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulation) checkTermination() {
	switch {
	case s.Coverage.Full():
		s.terminate(ReasonCoverage)
	case s.round >= s.budget:
		s.terminate(ReasonBudget)
	}
}

func (s *Simulation) terminate(r Reason) {
	if s.state == StateTerminated {
		return
	}
	s.state = StateTerminated
	s.reason = r
	slog.Info("simulation terminated",
		"reason", string(r),
		"rounds", s.round,
		"covered", s.Coverage.Count(),
		"total", s.Coverage.Total(),
		"exchanges", s.exchanges,
	)
}

// Stop terminates a running simulation early.
func (s *Simulation) Stop() {
	s.terminate(ReasonCancelled)
}

// Run steps until the simulation terminates or ctx is cancelled.
func (s *Simulation) Run(ctx context.Context) (Result, error) {
	s.Start()
	for {
		if err := ctx.Err(); err != nil {
			s.Stop()
			return s.Result(), nil
		}
		more, err := s.Step()
		if err != nil {
			return s.Result(), err
		}
		if !more {
			return s.Result(), nil
		}
	}
}

// Synchronized reports whether every drone's Local map is identical.
func (s *Simulation) Synchronized() bool {
	for _, a := range s.Agents[1:] {
		if !a.Local.Equal(s.Agents[0].Local) {
			return false
		}
	}
	return true
}

// Positions returns a copy of every drone's position, indexed by ID.
func (s *Simulation) Positions() []world.Point {
	out := make([]world.Point, len(s.Agents))
	for i, a := range s.Agents {
		out[i] = a.Position
	}
	return out
}
