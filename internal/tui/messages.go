package tui

import (
	"github.com/rickgao/newsdesk/internal/model"
)

// Rendered by the router through ProgramSink.

type factMsg struct {
	text string
}

type newsMsg struct {
	articles []model.Article
}

type errorMsg struct {
	text string
}

type verdictMsg struct {
	verdict model.Verdict
}

type statusMsg struct {
	text string
}

type clearErrorMsg struct{}

type sentMsg struct {
	err error
}

// Local store results.

type savedLoadedMsg struct {
	articles []model.Article
}

type reactionsLoadedMsg struct {
	reactions map[string]model.Reaction
}

type reactionMsg struct {
	articleID string
	reaction  model.Reaction
}

type themeMsg struct {
	theme model.Theme
}

type storeErrMsg struct {
	err error
}

// savedChangedMsg follows a save or remove. toast is shown to the user.
type savedChangedMsg struct {
	toast string
}

type toastExpiredMsg struct {
	id int
}
