package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
	"github.com/theapemachine/a2a-subscribe/pkg/provider"
)

/*
Searcher finds recent web results for a topic.
*/
type Searcher interface {
	Enabled() bool
	Search(ctx context.Context, query string) ([]provider.SearchResult, error)
}

/*
Riddler turns the latest news about a topic into riddles. It runs two
stages: a curator collects five headlines, using web search when a Searcher
is configured, and a riddle writer turns them into riddles with answers and
hints.
*/
type Riddler struct {
	llm    provider.Interface
	search Searcher
}

type RiddlerOption func(*Riddler)

func NewRiddler(llm provider.Interface, options ...RiddlerOption) *Riddler {
	riddler := &Riddler{llm: llm}

	for _, option := range options {
		option(riddler)
	}

	return riddler
}

func WithSearcher(search Searcher) RiddlerOption {
	return func(riddler *Riddler) {
		riddler.search = search
	}
}

func (riddler *Riddler) Name() string {
	return "riddler"
}

func (riddler *Riddler) Card(url string) a2a.AgentCard {
	return newCard(
		riddler.Name(),
		"An agent that creates riddles based on the latest news about a topic.",
		url,
		[]string{"ai riddles", "ai puzzles"},
		[]string{"AI riddle of the day", "AI puzzle of the day"},
	)
}

func (riddler *Riddler) Invoke(ctx context.Context, query string, sessionID string) (Result, error) {
	topic := strings.TrimSpace(query)

	if topic == "" {
		return InputRequired("Which topic should the riddles be about?"), nil
	}

	log.Info("riddler working", "topic", topic, "session", sessionID)

	headlines, err := riddler.headlines(ctx, topic)

	if err != nil {
		return Result{}, err
	}

	riddles, err := riddler.riddles(ctx, headlines)

	if err != nil {
		return Result{}, err
	}

	buf, err := json.Marshal(riddles)

	if err != nil {
		return Result{}, err
	}

	return AgentMessage(string(buf)), nil
}

func (riddler *Riddler) headlines(ctx context.Context, topic string) (Headlines, error) {
	var (
		headlines Headlines
		sources   string
	)

	if riddler.search != nil && riddler.search.Enabled() {
		results, err := riddler.search.Search(ctx, topic+" news")

		if err != nil {
			log.Warn("search failed, continuing without sources", "topic", topic, "error", err)
		}

		sources = formatResults(results)
	}

	prompt := fmt.Sprintf(
		"Generate a list of the 5 most relevant news updates that have occurred in the past 24 hours about %s.",
		topic,
	)

	if sources != "" {
		prompt += " Base the list only on these search results:\n\n" + sources
	}

	raw, err := riddler.llm.Complete(ctx, []provider.Message{
		provider.System("You are a news curator who finds the most interesting and fun news updates."),
		provider.User(prompt),
	}, &provider.Schema{
		Name:        "headlines",
		Description: "News headlines with their descriptions and dates",
		Definition:  headlinesSchema,
	})

	if err != nil {
		return headlines, fmt.Errorf("failed to collect headlines: %w", err)
	}

	if err = json.Unmarshal([]byte(raw), &headlines); err != nil {
		return headlines, fmt.Errorf("failed to decode headlines: %w", err)
	}

	if len(headlines.Headlines) == 0 {
		return headlines, fmt.Errorf("no headlines found for %s", topic)
	}

	return headlines, nil
}

func (riddler *Riddler) riddles(ctx context.Context, headlines Headlines) (Riddles, error) {
	var news strings.Builder

	for i, headline := range headlines.Headlines {
		fmt.Fprintf(&news, "%d. %s", i+1, headline)

		if description := at(headlines.Descriptions, i); description != "" {
			fmt.Fprintf(&news, ": %s", description)
		}

		if date := at(headlines.Dates, i); date != "" {
			fmt.Fprintf(&news, " (%s)", date)
		}

		news.WriteString("\n")
	}

	raw, err := riddler.llm.Complete(ctx, []provider.Message{
		provider.System("You are an expert at creating fun riddles."),
		provider.User(
			"Create a riddle for each of these news headlines. The answer to each riddle " +
				"must follow from its headline and description, clearly showing it is based on the news. " +
				"Give one answer and one hint per riddle.\n\n" + news.String(),
		),
	}, &provider.Schema{
		Name:        "riddles",
		Description: "Riddles with index-aligned answers and hints",
		Definition:  riddlesSchema,
	})

	if err != nil {
		return Riddles{}, fmt.Errorf("failed to write riddles: %w", err)
	}

	return ParseRiddles(raw)
}

func formatResults(results []provider.SearchResult) string {
	var sb strings.Builder

	for _, result := range results {
		fmt.Fprintf(&sb, "- %s", result.Title)

		if result.Date != "" {
			fmt.Fprintf(&sb, " [%s]", result.Date)
		}

		if result.Snippet != "" {
			fmt.Fprintf(&sb, ": %s", result.Snippet)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}
