package ui

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
	"github.com/theapemachine/a2a-subscribe/pkg/provider"
)

type scriptedLLM struct {
	prompts []string
	answer  string
	err     error
}

func (llm *scriptedLLM) Complete(ctx context.Context, messages []provider.Message, schema *provider.Schema) (string, error) {
	llm.prompts = append(llm.prompts, messages[len(messages)-1].Content)
	return llm.answer, llm.err
}

type fakeRiddleServer struct {
	topic string
	task  *a2a.Task
	err   error
}

func (srv *fakeRiddleServer) SendTask(ctx context.Context, params a2a.TaskSendParams) (*a2a.Task, error) {
	if srv.err != nil {
		return nil, srv.err
	}

	srv.topic = params.Message.Query()
	srv.task.ID = params.ID
	srv.task.SessionID = params.SessionID

	return &a2a.Task{ID: params.ID, SessionID: params.SessionID}, nil
}

func (srv *fakeRiddleServer) WaitForTask(ctx context.Context, id string, interval time.Duration) (*a2a.Task, error) {
	return srv.task, nil
}

func TestIsRiddleRequest(t *testing.T) {
	Convey("Riddle requests are recognized by keyword", t, func() {
		So(IsRiddleRequest("Give me a riddle about space"), ShouldBeTrue)
		So(IsRiddleRequest("any PUZZLE on AI?"), ShouldBeTrue)
		So(IsRiddleRequest("What is the weather like?"), ShouldBeFalse)
	})
}

func TestChatReply(t *testing.T) {
	Convey("Given a chat with an LLM and a riddle server", t, func() {
		ctx := context.Background()
		llm := &scriptedLLM{answer: " AI chips "}
		riddles := &fakeRiddleServer{task: &a2a.Task{
			Status: a2a.NewTaskStatus(a2a.TaskStateCompleted, nil),
			Artifacts: []a2a.Artifact{a2a.NewArtifact(a2a.NewTextPart(
				`{"riddles":["I think in silicon"],"answers":["A chip"],"hints":["Moore"]}`,
			))},
		}}
		chat := NewChat(llm, riddles, WithSessionID("s1"))

		Convey("A riddle request sends the extracted topic to the riddle server", func() {
			reply, err := chat.Reply(ctx, "Tell me a riddle about AI chips")

			So(err, ShouldBeNil)
			So(riddles.topic, ShouldEqual, "AI chips")
			So(llm.prompts[0], ShouldStartWith, "Extract the topic from the message.")
			So(reply, ShouldStartWith, "Task ID: ")
			So(reply, ShouldContainSubstring, "Session ID: s1")
			So(reply, ShouldContainSubstring, "Riddle: I think in silicon\nAnswer: A chip\nHint: Moore")
		})

		Convey("An input-required answer shows the question", func() {
			question := a2a.NewTextMessage("agent", "Which topic should the riddles be about?")
			riddles.task = &a2a.Task{Status: a2a.NewTaskStatus(a2a.TaskStateInputReq, question)}

			reply, err := chat.Reply(ctx, "a puzzle please")
			So(err, ShouldBeNil)
			So(reply, ShouldEndWith, "Which topic should the riddles be about?")
		})

		Convey("An unreachable riddle server is reported as an error", func() {
			riddles.err = stderrors.New("connection refused")

			_, err := chat.Reply(ctx, "riddle me this")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEqual, "Could not reach riddle server: connection refused")
			So(stderrors.Is(err, riddles.err), ShouldBeTrue)
		})

		Convey("A finished task without an answer is reported as an error", func() {
			riddles.task = &a2a.Task{Status: a2a.NewTaskStatus(a2a.TaskStateCompleted, nil)}

			_, err := chat.Reply(ctx, "a riddle please")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEndWith, "Riddle server error: No artifacts")
		})

		Convey("Other messages are answered by the LLM", func() {
			llm.answer = "Hello there."

			reply, err := chat.Reply(ctx, "hi")
			So(err, ShouldBeNil)
			So(reply, ShouldEqual, "Hello there.")
			So(riddles.topic, ShouldBeEmpty)
		})

		Convey("An answer that starts with a bracket is not a failure", func() {
			llm.answer = "[1, 2, 3] are the first three numbers."

			reply, err := chat.Reply(ctx, "count to three")
			So(err, ShouldBeNil)
			So(reply, ShouldStartWith, "[1, 2, 3]")
		})

		Convey("LLM failures are reported as errors", func() {
			llm.err = stderrors.New("rate limited")

			_, err := chat.Reply(ctx, "hi")
			So(err, ShouldNotBeNil)
			So(strings.HasPrefix(err.Error(), "OpenAI API error:"), ShouldBeTrue)
		})
	})
}

func TestRenderReply(t *testing.T) {
	Convey("Errors and answers are labelled differently", t, func() {
		So(renderReply("Could not reach riddle server: x", true), ShouldContainSubstring, "Error: ")
		So(renderReply("Hello", false), ShouldContainSubstring, "Agent: ")
		So(renderReply("[1, 2, 3]", false), ShouldContainSubstring, "Agent: ")
		So(renderReply("[1, 2, 3]", false), ShouldNotContainSubstring, "Error: ")
	})
}
