package engine

// Counter is one drone's exchange tally, consumed by the energy model.
type Counter struct {
	ID        int    `json:"id"`
	Transmits uint64 `json:"transmits"`
	Receives  uint64 `json:"receives"`
}

// Result summarizes a run.
type Result struct {
	Mode         string    `json:"mode"`
	Policy       string    `json:"policy"`
	Drones       int       `json:"drones"`
	Rounds       int       `json:"rounds"`
	Reason       Reason    `json:"reason"`
	Covered      int       `json:"covered"`
	Total        int       `json:"total"`
	Exchanges    int       `json:"exchanges"`
	Synchronized bool      `json:"synchronized"`
	Counters     []Counter `json:"counters"`
}

// Coverage returns the covered fraction in [0, 1].
func (r Result) Coverage() float64 {
	if r.Total == 0 {
		return 1
	}
	return float64(r.Covered) / float64(r.Total)
}

// TotalTransmits sums transmit counters across the swarm.
func (r Result) TotalTransmits() uint64 {
	var n uint64
	for _, c := range r.Counters {
		n += c.Transmits
	}
	return n
}

// TotalReceives sums receive counters across the swarm.
func (r Result) TotalReceives() uint64 {
	var n uint64
	for _, c := range r.Counters {
		n += c.Receives
	}
	return n
}

// Counters returns every drone's current exchange tally.
func (s *Simulation) Counters() []Counter {
	out := make([]Counter, len(s.Agents))
	for i, a := range s.Agents {
		out[i] = Counter{ID: a.ID, Transmits: a.Transmits, Receives: a.Receives}
	}
	return out
}

// Result summarizes the run so far.
func (s *Simulation) Result() Result {
	return Result{
		Mode:         s.Scheduler.Mode().String(),
		Policy:       s.Policy.Name(),
		Drones:       len(s.Agents),
		Rounds:       s.round,
		Reason:       s.reason,
		Covered:      s.Coverage.Count(),
		Total:        s.Coverage.Total(),
		Exchanges:    s.exchanges,
		Synchronized: s.Synchronized(),
		Counters:     s.Counters(),
	}
}
