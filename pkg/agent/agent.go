package agent

import (
	"context"

	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
)

/*
Agent is the capability a task manager drives. Invoke blocks until the agent
is done; it is never given a deadline by the task manager.
*/
type Agent interface {
	Name() string
	Card(url string) a2a.AgentCard
	Invoke(ctx context.Context, query string, sessionID string) (Result, error)
}

/*
Result is what an agent hands back for one turn. When RequiresInput is set
the message is a question for the user and no artifact is produced.
*/
type Result struct {
	RequiresInput bool
	Message       a2a.Message
}

func AgentMessage(text string) Result {
	return Result{Message: *a2a.NewTextMessage("agent", text)}
}

func InputRequired(text string) Result {
	return Result{RequiresInput: true, Message: *a2a.NewTextMessage("agent", text)}
}

/*
newCard fills in the parts every agent card here shares: text in and out,
push notifications on, and a single skill named after the agent.
*/
func newCard(name string, description string, url string, tags []string, examples []string) a2a.AgentCard {
	modes := []string{"text"}

	return a2a.AgentCard{
		Name:        name,
		Description: &description,
		URL:         url,
		Version:     "0.0.1",
		Capabilities: a2a.AgentCapabilities{
			PushNotifications: true,
		},
		DefaultInputModes:  modes,
		DefaultOutputModes: modes,
		Skills: []a2a.AgentSkill{{
			ID:          name + "_skill",
			Name:        name,
			Description: &description,
			Tags:        tags,
			Examples:    examples,
			InputModes:  modes,
			OutputModes: modes,
		}},
	}
}
