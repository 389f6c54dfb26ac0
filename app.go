package portals

import (
	"fmt"
	"reflect"
	"runtime"
	"time"
)

type systemFn any

type App struct {
	stateful           bool
	stateTransitioning bool
	initialState       State
	finalState         State
	nextState          State
	state              State
	stages             []Stage
	systems            map[string]map[State]map[statePhase][]systemFn
	systemsStateless   map[string][]systemFn
	resources          map[reflect.Type]any
	started            bool
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

func (app *App) State() State {
	return app.state
}

func (app *App) start() {
	if app.started {
		return
	}
	app.started = true
	if app.stateful {
		app.state = app.initialState
		app.callSystems(app.state, enter)
	}
}

// Tick runs one frame. Fixed update stages run once per elapsed fixed step, dynamic stages
// run exactly once.
func (app *App) Tick(dt time.Duration) {
	app.start()

	fixedSteps := 1
	if clock := GetResource[Time](app); clock != nil {
		fixedSteps = clock.advance(dt)
	}

	for _, stage := range app.stages {
		runs := 1
		if stage.UpdateType == FixedUpdate {
			runs = fixedSteps
		}
		for i := 0; i < runs; i++ {
			app.callStage(stage, app.state, execute)
		}
	}

	if app.stateful && app.stateTransitioning {
		app.stateTransitioning = false
		app.executeChangeState(app.nextState)
	}
}

// Run ticks the app frames times with a constant frame time.
func (app *App) Run(frames int, dt time.Duration) {
	for i := 0; i < frames; i++ {
		app.Tick(dt)
	}
}

func (app *App) callSystems(state State, phase statePhase) {
	for _, stage := range app.stages {
		app.callStage(stage, state, phase)
	}
}

func (app *App) callStage(stage Stage, state State, phase statePhase) {
	// On execute, call stateless/always run systems first
	if execute == phase {
		for _, system := range app.systemsStateless[stage.Name] {
			app.callSystem(system)
		}
	}

	if app.stateful {
		if systemsInStage, ok := app.systems[stage.Name]; ok {
			if systemsInState, ok := systemsInStage[state]; ok {
				for _, system := range systemsInState[phase] {
					app.callSystem(system)
				}
			}
		}
	}
}

func (app *App) changeState(newState State) {
	app.nextState = newState
	app.stateTransitioning = true
}

func (app *App) executeChangeState(newState State) {
	if newState == app.state {
		return
	}
	app.callSystems(app.state, exit)
	app.state = newState
	app.callSystems(app.state, enter)
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("resource %s must be a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// GetResource returns the resource of type *T, or nil when none was added.
func GetResource[T any](app *App) *T {
	if app == nil {
		return nil
	}
	if r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]; ok {
		return r.(*T)
	}
	return nil
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Pointer {
			app.unresolved(systemValue, systemType, argType)
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			args[i] = reflect.ValueOf(resource)
		} else {
			app.unresolved(systemValue, systemType, argType)
		}
	}
	systemValue.Call(args)
}

func (app *App) unresolved(systemValue reflect.Value, systemType, argType reflect.Type) {
	msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
		runtime.FuncForPC(systemValue.Pointer()).Name(),
		fmt.Sprint(systemType),
		fmt.Sprint(argType),
	)
	app.Logger().Errorf("%s", msg)
	panic(msg)
}
