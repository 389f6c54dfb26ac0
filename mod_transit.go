package portals

import (
	"fmt"

	"github.com/gekko3d/portals/core"
)

type OverlapKind int

const (
	OverlapEnter OverlapKind = iota
	OverlapExit
)

func (k OverlapKind) String() string {
	if k == OverlapEnter {
		return "enter"
	}
	return "exit"
}

// OverlapEvent is a trigger volume notification. Body is whatever node the physics step
// reported; only Teleportable nodes are acted on.
type OverlapEvent struct {
	Kind   OverlapKind
	Portal PortalColor
	Body   any
}

// OverlapQueue buffers trigger events raised during a physics step in delivery order.
type OverlapQueue struct {
	events []OverlapEvent
}

func (q *OverlapQueue) Push(e OverlapEvent) {
	q.events = append(q.events, e)
}

func (q *OverlapQueue) Enter(color PortalColor, body any) {
	q.Push(OverlapEvent{Kind: OverlapEnter, Portal: color, Body: body})
}

func (q *OverlapQueue) Exit(color PortalColor, body any) {
	q.Push(OverlapEvent{Kind: OverlapExit, Portal: color, Body: body})
}

func (q *OverlapQueue) Len() int {
	return len(q.events)
}

// Drain returns the queued events and empties the queue.
func (q *OverlapQueue) Drain() []OverlapEvent {
	events := q.events
	q.events = nil
	return events
}

type TransitState int

const (
	Outside TransitState = iota
	Inside
	Teleported
)

func (s TransitState) String() string {
	switch s {
	case Outside:
		return "outside"
	case Inside:
		return "inside"
	case Teleported:
		return "teleported"
	}
	return fmt.Sprintf("TransitState(%d)", int(s))
}

type transitKey struct {
	body   BodyId
	portal PortalColor
}

// TransitMachine moves bodies between portals. Each crossing applies the portal transform once
// and marks the body to ignore the destination until it leaves the destination volume.
type TransitMachine struct {
	cfg    Config
	reg    *PortalRegistry
	ghosts *Ghosts
	logger Logger

	states    map[transitKey]TransitState
	Teleports uint64
}

func NewTransitMachine(cfg Config, reg *PortalRegistry, ghosts *Ghosts, logger Logger) *TransitMachine {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &TransitMachine{
		cfg:    cfg,
		reg:    reg,
		ghosts: ghosts,
		logger: logger,
		states: make(map[transitKey]TransitState),
	}
}

func (m *TransitMachine) State(id BodyId, color PortalColor) TransitState {
	return m.states[transitKey{id, color}]
}

// Process handles the events in the order given.
func (m *TransitMachine) Process(events []OverlapEvent) {
	for _, e := range events {
		p := m.reg.GetPortal(e.Portal)
		if p == nil {
			m.logger.Debugf("%s event for missing %s portal", e.Kind, e.Portal)
			continue
		}
		switch e.Kind {
		case OverlapEnter:
			m.HandleEnter(p, e.Body)
		case OverlapExit:
			m.HandleExit(p, e.Body)
		}
	}
}

func (m *TransitMachine) HandleEnter(p *Portal, node any) {
	body, ok := node.(Teleportable)
	if !ok {
		m.logger.Debugf("%s portal: ignoring %T", p.Color, node)
		return
	}
	if f, ok := node.(Freezable); ok && f.Frozen() {
		return
	}
	if body.IgnorePortal() == p {
		return
	}

	key := transitKey{body.Id(), p.Color}
	if m.ghosts != nil && m.ghosts.IsSource(body.Id()) {
		m.states[key] = Inside
		return
	}

	partner := m.reg.Partner(p)
	if partner == nil {
		m.logger.Debugf("%s portal: no partner, %s stays put", p.Color, body.Id())
		m.states[key] = Inside
		return
	}

	m.teleport(body, p, partner)
	delete(m.states, key)
	m.states[transitKey{body.Id(), partner.Color}] = Teleported
}

func (m *TransitMachine) teleport(body Teleportable, src, dst *Portal) {
	pose := core.Transit(m.cfg.TransitMode, src.Pose, dst.Pose, body.Pose())
	velocity := core.TransitVelocity(m.cfg.TransitMode, src.Pose, dst.Pose, body.Velocity())

	body.SetPose(pose)
	body.SetVelocity(velocity)
	body.SetIgnorePortal(dst)
	if rb, ok := body.(*RigidBody); ok {
		rb.Wake()
	}
	m.Teleports++

	m.logger.Debugf("teleported %s %s -> %s, now at %v", body.Id(), src.Color, dst.Color, pose.Position)
}

// HandleExit clears the crossing for tracked pairs. The exit from the source volume that
// follows a teleport is not tracked. If the body landed outside the destination volume no
// exit from the destination will ever arrive, so that exit releases the ignore flag instead.
func (m *TransitMachine) HandleExit(p *Portal, node any) {
	body, ok := node.(Teleportable)
	if !ok {
		return
	}
	if m.ghosts != nil {
		m.ghosts.Release(p.Color, body.Id())
	}

	key := transitKey{body.Id(), p.Color}
	if _, tracked := m.states[key]; tracked {
		delete(m.states, key)
		body.SetIgnorePortal(nil)
		return
	}

	ignore := body.IgnorePortal()
	if ignore == nil || ignore == p || ignore.Contains(body.Pose().Position) {
		return
	}
	m.logger.Debugf("%s landed outside the %s volume, clearing ignore", body.Id(), ignore.Color)
	delete(m.states, transitKey{body.Id(), ignore.Color})
	body.SetIgnorePortal(nil)
}

// Forget drops all tracking for a body that left the world.
func (m *TransitMachine) Forget(id BodyId) {
	for _, c := range portalColors {
		delete(m.states, transitKey{id, c})
	}
}

// OverlapDetector turns body positions into enter/exit events for hosts that do not report
// trigger overlaps themselves.
type OverlapDetector struct {
	inside map[transitKey]bool
}

func NewOverlapDetector() *OverlapDetector {
	return &OverlapDetector{inside: make(map[transitKey]bool)}
}

// Forget drops the overlap history of a body that left the world.
func (d *OverlapDetector) Forget(id BodyId) {
	for _, c := range portalColors {
		delete(d.inside, transitKey{id, c})
	}
}

func (d *OverlapDetector) Detect(reg *PortalRegistry, bodies []Teleportable, q *OverlapQueue) {
	for _, b := range bodies {
		position := b.Pose().Position
		for _, c := range portalColors {
			key := transitKey{b.Id(), c}
			p := reg.GetPortal(c)
			now := p != nil && p.Contains(position)
			was := d.inside[key]
			switch {
			case was && !now:
				delete(d.inside, key)
				q.Exit(c, b)
			case now && !was:
				d.inside[key] = true
				q.Enter(c, b)
			}
		}
	}
}

func OverlapDetectionSystem(reg *PortalRegistry, world *PhysicsWorld, det *OverlapDetector, q *OverlapQueue) {
	det.Detect(reg, world.Bodies, q)
}

func TransitSystem(q *OverlapQueue, m *TransitMachine) {
	m.Process(q.Drain())
}
