package domain

// Command is one subprocess invocation: an argv and the directory to run it
// in. The environment is supplied separately by the caller so every
// invocation receives an explicit merged environment rather than inheriting
// ambient process state.
type Command struct {
	Argv []string
	Dir  string
}
