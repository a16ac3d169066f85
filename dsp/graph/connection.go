package graph

import "fmt"

// Connection is a directed edge from one output channel of Source to one
// input channel of Dest.
type Connection struct {
	Source        NodeID
	SourceChannel int
	Dest          NodeID
	DestChannel   int
}

func (c Connection) String() string {
	return fmt.Sprintf("%d:%d->%d:%d", c.Source, c.SourceChannel, c.Dest, c.DestChannel)
}

// touches reports whether c references id at either end.
func (c Connection) touches(id NodeID) bool {
	return c.Source == id || c.Dest == id
}

// validateConnection checks c against the staged graph. Callers hold g.mu.
func (g *Graph) validateConnection(c Connection) error {
	if _, ok := g.nodes[c.Source]; !ok {
		return rejectConnection(c, fmt.Errorf("%w: source %d", ErrUnknownNode, c.Source))
	}
	if _, ok := g.nodes[c.Dest]; !ok {
		return rejectConnection(c, fmt.Errorf("%w: dest %d", ErrUnknownNode, c.Dest))
	}

	channels := g.cfg.NumChannels
	if c.SourceChannel < 0 || c.SourceChannel >= channels {
		return rejectConnection(c, fmt.Errorf("%w: source channel %d not in [0,%d)", ErrChannelRange, c.SourceChannel, channels))
	}
	if c.DestChannel < 0 || c.DestChannel >= channels {
		return rejectConnection(c, fmt.Errorf("%w: dest channel %d not in [0,%d)", ErrChannelRange, c.DestChannel, channels))
	}

	for _, existing := range g.conns {
		if existing == c {
			return rejectConnection(c, ErrDuplicateConnection)
		}
		if existing.Dest == c.Dest && existing.DestChannel == c.DestChannel {
			return rejectConnection(c, fmt.Errorf("%w: fed by %s", ErrInputOccupied, existing))
		}
	}

	if c.Source == c.Dest || g.reachable(c.Dest, c.Source) {
		return rejectConnection(c, ErrCycle)
	}

	return nil
}

// reachable reports whether to can be reached from from along staged
// connections. Callers hold g.mu.
func (g *Graph) reachable(from, to NodeID) bool {
	seen := map[NodeID]bool{from: true}
	stack := []NodeID{from}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if id == to {
			return true
		}

		for _, c := range g.conns {
			if c.Source == id && !seen[c.Dest] {
				seen[c.Dest] = true
				stack = append(stack, c.Dest)
			}
		}
	}

	return false
}
