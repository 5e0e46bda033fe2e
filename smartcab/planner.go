package smartcab

import "github.com/zeu5/smartcab-rl/types"

// Planner routes the primary vehicle of an Environment
type Planner struct {
	env         *Environment
	destination types.Location
}

var _ types.RoutePlanner = &Planner{}

func NewPlanner(env *Environment) *Planner {
	return &Planner{env: env}
}

func (p *Planner) RouteTo(destination types.Location) {
	p.destination = destination
}

func (p *Planner) NextWaypoint() types.Action {
	return NextWaypoint(p.env.Location(), p.env.Heading(), p.destination)
}

// NextWaypoint closes the east/west gap first and then the north/south one.
// U-turns are approximated by turning right
func NextWaypoint(location types.Location, heading Heading, destination types.Location) types.Action {
	dx := destination.X - location.X
	dy := destination.Y - location.Y

	switch {
	case dx == 0 && dy == 0:
		return types.ActionNone
	case dx != 0:
		switch {
		case dx*heading.X > 0:
			return types.ActionForward
		case dx*heading.X < 0:
			return types.ActionRight
		case dx*heading.Y > 0:
			return types.ActionLeft
		}
		return types.ActionRight
	}
	switch {
	case dy*heading.Y > 0:
		return types.ActionForward
	case dy*heading.Y < 0:
		return types.ActionRight
	case dy*heading.X > 0:
		return types.ActionRight
	}
	return types.ActionLeft
}
