package errors

/*
ErrMissingAgent is returned when a task manager is built without an agent
capability to invoke.
*/
type ErrMissingAgent struct{}

func (ErrMissingAgent) Error() string {
	return "missing agent"
}

type ErrMissingTaskStore struct{}

func (ErrMissingTaskStore) Error() string {
	return "missing task store"
}
