package ecs

import (
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Group is one of the fixed execution phases. Groups run in ascending order
// within a Scheduler.Update: producers always run before their consumers.
type Group uint8

const (
	// GroupInput reads raw input and writes logical input components. It runs
	// once per Update with the variable frame delta.
	GroupInput Group = iota
	// GroupSimulation mutates world state. It runs once per fixed step.
	GroupSimulation
	// GroupSync builds outbound replication state from the post-simulation
	// world. It runs once per fixed step, after GroupSimulation.
	GroupSync
	// GroupRender only reads. It runs once per Update with the variable delta.
	GroupRender

	groupCount
)

var groupNames = [groupCount]string{"input", "simulation", "sync", "render"}

// ErrUnknownGroup is returned by ParseGroup.
var ErrUnknownGroup = eris.New("unknown system group")

func (g Group) String() string {
	if g < groupCount {
		return groupNames[g]
	}
	return "group(" + strconv.Itoa(int(g)) + ")"
}

// ParseGroup maps a group name (case-insensitive) back to its Group.
func ParseGroup(s string) (Group, error) {
	for g, name := range groupNames {
		if strings.EqualFold(s, name) {
			return Group(g), nil
		}
	}
	return 0, eris.Wrapf(ErrUnknownGroup, "%q", s)
}

// Groups returns every group in execution order.
func Groups() []Group {
	return []Group{GroupInput, GroupSimulation, GroupSync, GroupRender}
}

// System is a named unit of per-tick logic. Its only effects are registry
// mutations and whatever it hands to external collaborators.
type System interface {
	Name() string
	OnUpdate(r *Registry, dt time.Duration)
}

// NewSystemFunc adapts a function into a System.
func NewSystemFunc(name string, fn func(r *Registry, dt time.Duration)) System {
	return funcSystem{name: name, fn: fn}
}

type funcSystem struct {
	name string
	fn   func(r *Registry, dt time.Duration)
}

func (s funcSystem) Name() string                           { return s.name }
func (s funcSystem) OnUpdate(r *Registry, dt time.Duration) { s.fn(r, dt) }
