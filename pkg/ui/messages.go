package ui

type replyMsg struct {
	text   string
	failed bool
}
