package portals

type Commands struct {
	app *App
}

func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

// Stateful reports whether the app was built with states.
func (cmd *Commands) Stateful() bool {
	return cmd.app.stateful
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
