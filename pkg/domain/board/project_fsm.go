package board

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// State constants for statekit integration. They must stay untyped strings
// for statekit.StateID and mirror the ProjectStatus values.
const (
	StateInProgress = "Em andamento"
	StateDelayed    = "Atrasado"
	StateCompleted  = "Concluído"
)

// Events understood by the project status machine.
const (
	EventComplete = "complete"
	EventOverdue  = "overdue"
	EventReopen   = "reopen"
)

func init() {
	stateMap := map[string]ProjectStatus{
		StateInProgress: ProjectInProgress,
		StateDelayed:    ProjectDelayed,
		StateCompleted:  ProjectCompleted,
	}

	for fsmState, status := range stateMap {
		if fsmState != string(status) {
			panic(fmt.Sprintf("FSM state %q does not match ProjectStatus %q - constants are out of sync", fsmState, status))
		}
	}
}

// ProjectContext carries the aggregate figures the guards look at.
type ProjectContext struct {
	ProjectID string
	Progress  int
	Overdue   bool
}

// ProjectStateMachine derives a project's status from its progress and
// overdue tasks. Every project starts in progress.
type ProjectStateMachine struct {
	interpreter *statekit.Interpreter[ProjectContext]
}

func NewProjectStateMachine(ctx ProjectContext) (*ProjectStateMachine, error) {
	builder := statekit.NewMachine[ProjectContext]("project-machine").
		WithInitial(statekit.StateID(StateInProgress)).
		WithContext(ctx).
		WithGuard("fullyDone", func(c ProjectContext, e statekit.Event) bool {
			return c.Progress == 100
		}).
		WithGuard("hasOverdue", func(c ProjectContext, e statekit.Event) bool {
			return c.Progress < 100 && c.Overdue
		})

	builder.State(StateInProgress).
		On(EventComplete).Target(StateCompleted).Guard("fullyDone").
		On(EventOverdue).Target(StateDelayed).Guard("hasOverdue").
		Done()

	builder.State(StateDelayed).
		On(EventComplete).Target(StateCompleted).Guard("fullyDone").
		On(EventReopen).Target(StateInProgress).
		Done()

	builder.State(StateCompleted).
		On(EventReopen).Target(StateInProgress).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build project state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &ProjectStateMachine{interpreter: interpreter}, nil
}

// Send fires an event. Events whose guard rejects them leave the state as is.
func (sm *ProjectStateMachine) Send(event string) {
	sm.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
}

func (sm *ProjectStateMachine) Current() ProjectStatus {
	return ProjectStatus(sm.interpreter.State().Value)
}

// DeriveProjectStatus runs the machine once: a fully done project is
// completed, otherwise any overdue task makes it delayed.
func DeriveProjectStatus(ctx ProjectContext) (ProjectStatus, error) {
	sm, err := NewProjectStateMachine(ctx)
	if err != nil {
		return "", err
	}
	sm.Send(EventComplete)
	sm.Send(EventOverdue)
	return sm.Current(), nil
}
