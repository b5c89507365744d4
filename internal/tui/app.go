package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rickgao/newsdesk/internal/browser"
	"github.com/rickgao/newsdesk/internal/connection"
	"github.com/rickgao/newsdesk/internal/debounce"
	"github.com/rickgao/newsdesk/internal/localstore"
	"github.com/rickgao/newsdesk/internal/model"
)

// User-visible notices for the saved list.
const (
	MsgArticleSaved   = "Article saved!"
	MsgAlreadySaved   = "Article already saved"
	MsgArticleRemoved = "Article removed"
)

const toastDuration = 2 * time.Second

// Dispatcher sends user actions to the server. router.Router satisfies it.
type Dispatcher interface {
	Submit(text string) error
	RequestNews(category string) error
	RequestFact() error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Dispatcher   Dispatcher
	Store        *localstore.Store
	Reconnect    func()                  // manual refresh after the retry budget is spent
	State        func() connection.State // polled for the status bar
	Server       string
	NewsDebounce time.Duration
	Logger       *slog.Logger
}

type App struct {
	dispatcher Dispatcher
	store      *localstore.Store
	reconnect  func()
	state      func() connection.State
	server     string
	logger     *slog.Logger

	news *debounce.Debouncer[string]

	// Sub-components
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	theme  model.Theme
	styles styles

	entries      []entry
	articles     []model.Article // last list shown; commands index into it
	listingSaved bool
	reactions    map[string]model.Reaction

	// State
	waiting  bool
	errText  string
	status   string
	toast    string
	toastID  int
	showHelp bool

	width  int
	height int
	ready  bool
}

func NewApp(opts RunOpts) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ti := textinput.New()
	ti.Placeholder = "Type a message, or /help"
	ti.CharLimit = 500
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	a := &App{
		dispatcher: opts.Dispatcher,
		store:      opts.Store,
		reconnect:  opts.Reconnect,
		state:      opts.State,
		server:     opts.Server,
		logger:     logger,
		input:      ti,
		spinner:    sp,
		reactions:  make(map[string]model.Reaction),
	}
	a.applyTheme(model.ThemeDark)

	d := opts.Dispatcher
	a.news = debounce.New(opts.NewsDebounce, func(category string) {
		if err := d.RequestNews(category); err != nil {
			logger.Debug("news request not sent", "category", category, "error", err)
		}
	})

	return a
}

// Close drops any pending debounced request.
func (a *App) Close() {
	a.news.Stop()
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.loadThemeCmd(), a.loadReactionsCmd())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case factMsg:
		a.waiting = false
		a.push(entry{kind: entryFact, text: msg.text})
		return a, nil

	case newsMsg:
		a.waiting = false
		a.articles = msg.articles
		a.listingSaved = false
		a.push(entry{kind: entryNews, articles: msg.articles})
		return a, nil

	case errorMsg:
		a.waiting = false
		a.errText = msg.text
		return a, nil

	case verdictMsg:
		a.waiting = false
		a.push(entry{kind: entryVerdict, verdict: msg.verdict})
		return a, nil

	case sentMsg:
		// Failures were already reported through the sink.
		if msg.err != nil {
			a.waiting = false
		}
		return a, nil

	case statusMsg:
		a.status = msg.text
		return a, nil

	case clearErrorMsg:
		a.errText = ""
		a.status = ""
		return a, nil

	case savedLoadedMsg:
		a.articles = msg.articles
		a.listingSaved = true
		if len(msg.articles) == 0 {
			a.push(entry{kind: entryInfo, text: "No saved articles"})
			return a, nil
		}
		a.push(entry{kind: entryNews, articles: msg.articles, saved: true})
		return a, nil

	case savedChangedMsg:
		cmd := a.showToast(msg.toast)
		if a.listingSaved {
			return a, tea.Batch(cmd, a.loadSavedCmd())
		}
		return a, cmd

	case reactionsLoadedMsg:
		a.reactions = msg.reactions
		a.refresh()
		return a, nil

	case reactionMsg:
		if msg.reaction == model.ReactionNone {
			delete(a.reactions, msg.articleID)
		} else {
			a.reactions[msg.articleID] = msg.reaction
		}
		a.refresh()
		return a, nil

	case themeMsg:
		a.applyTheme(msg.theme)
		a.refresh()
		return a, nil

	case storeErrMsg:
		a.logger.Error("local storage", "error", msg.err)
		a.errText = msg.err.Error()
		return a, nil

	case toastExpiredMsg:
		if msg.id == a.toastID {
			a.toast = ""
		}
		return a, nil

	case spinner.TickMsg:
		if a.waiting {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	}

	if a.showHelp {
		switch msg.String() {
		case "esc", "enter", "q", "?":
			a.showHelp = false
		}
		return a, nil
	}

	switch msg.String() {
	case "enter":
		line := a.input.Value()
		a.input.SetValue("")
		a.errText = ""
		return a, a.execute(line)
	case "pgup", "pgdown", "up", "down", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// execute runs one input line.
func (a *App) execute(line string) tea.Cmd {
	cmd, err := parseCommand(line)
	if err != nil {
		a.errText = err.Error()
		return nil
	}

	switch cmd.kind {
	case cmdSubmit:
		if cmd.text == "" {
			return nil
		}
		a.push(entry{kind: entryUser, text: cmd.text})
		d := a.dispatcher
		text := cmd.text
		return a.wait(func() tea.Msg {
			return sentMsg{err: d.Submit(text)}
		})

	case cmdNews:
		a.push(entry{kind: entryInfo, text: fmt.Sprintf("Fetching %s news...", cmd.text)})
		a.news.Call(cmd.text)
		return a.wait(nil)

	case cmdFact:
		d := a.dispatcher
		return a.wait(func() tea.Msg {
			return sentMsg{err: d.RequestFact()}
		})

	case cmdSaved:
		return a.loadSavedCmd()

	case cmdSave, cmdRemove, cmdOpen, cmdLike, cmdDislike, cmdShare:
		art, ok := a.article(cmd.index)
		if !ok {
			return nil
		}
		return a.articleCmd(cmd, art)

	case cmdTheme:
		return a.toggleThemeCmd()

	case cmdReconnect:
		a.errText = ""
		a.status = "Reconnecting..."
		if a.reconnect != nil {
			a.reconnect()
		}
		return nil

	case cmdHelp:
		a.showHelp = true
		return nil

	case cmdQuit:
		return tea.Quit
	}

	return nil
}

func (a *App) articleCmd(cmd command, art model.Article) tea.Cmd {
	switch cmd.kind {
	case cmdSave:
		return a.saveCmd(art)
	case cmdRemove:
		return a.removeCmd(art.URL)
	case cmdOpen:
		return openBrowserCmd(art.URL)
	case cmdLike:
		return a.reactCmd(art.ID(), model.ReactionLike)
	case cmdDislike:
		return a.reactCmd(art.ID(), model.ReactionDislike)
	case cmdShare:
		link, err := model.ShareURL(cmd.platform, art)
		if err != nil {
			a.errText = err.Error()
			return nil
		}
		a.push(entry{kind: entryInfo, text: "Share: " + link})
		return openBrowserCmd(link)
	}
	return nil
}

// article returns the n-th (1-based) article of the last list shown.
func (a *App) article(n int) (model.Article, bool) {
	if n < 1 || n > len(a.articles) {
		if len(a.articles) == 0 {
			a.errText = "No articles listed. Use /news <category> or /saved first."
		} else {
			a.errText = fmt.Sprintf("No article %d (1-%d)", n, len(a.articles))
		}
		return model.Article{}, false
	}
	return a.articles[n-1], true
}

// wait marks a request as in flight and starts the spinner.
func (a *App) wait(cmd tea.Cmd) tea.Cmd {
	a.waiting = true
	return tea.Batch(cmd, a.spinner.Tick)
}

func (a *App) showToast(text string) tea.Cmd {
	a.toastID++
	a.toast = text
	id := a.toastID
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (a *App) applyTheme(t model.Theme) {
	a.theme = t
	a.styles = newStyles(t)
	a.input.Prompt = a.styles.prompt.Render("> ")
	a.spinner.Style = a.styles.spinner
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	// header, notice line, input, status bar
	vpHeight := max(height-4, 1)
	if !a.ready {
		a.viewport = viewport.New(width, vpHeight)
		a.ready = true
	} else {
		a.viewport.Width = width
		a.viewport.Height = vpHeight
	}
	a.input.Width = max(width-4, 10)
	a.refresh()
}

func (a *App) push(e entry) {
	a.entries = append(a.entries, e)
	a.refresh()
	a.viewport.GotoBottom()
}

// refresh re-renders the transcript into the viewport.
func (a *App) refresh() {
	if !a.ready {
		return
	}
	a.viewport.SetContent(a.renderEntries())
}

// -----------------------------------------------------------------------------
// Commands
// -----------------------------------------------------------------------------

func (a *App) loadThemeCmd() tea.Cmd {
	store := a.store
	return func() tea.Msg {
		t, err := store.Theme()
		if err != nil {
			return storeErrMsg{err: err}
		}
		return themeMsg{theme: t}
	}
}

func (a *App) toggleThemeCmd() tea.Cmd {
	store := a.store
	return func() tea.Msg {
		t, err := store.ToggleTheme()
		if err != nil {
			return storeErrMsg{err: err}
		}
		return themeMsg{theme: t}
	}
}

func (a *App) loadReactionsCmd() tea.Cmd {
	store := a.store
	return func() tea.Msg {
		r, err := store.Reactions()
		if err != nil {
			return storeErrMsg{err: err}
		}
		return reactionsLoadedMsg{reactions: r}
	}
}

func (a *App) reactCmd(articleID string, r model.Reaction) tea.Cmd {
	store := a.store
	return func() tea.Msg {
		next, err := store.ToggleReaction(articleID, r)
		if err != nil {
			return storeErrMsg{err: err}
		}
		return reactionMsg{articleID: articleID, reaction: next}
	}
}

func (a *App) loadSavedCmd() tea.Cmd {
	store := a.store
	return func() tea.Msg {
		saved, err := store.SavedArticles()
		if err != nil {
			return storeErrMsg{err: err}
		}
		return savedLoadedMsg{articles: saved}
	}
}

func (a *App) saveCmd(art model.Article) tea.Cmd {
	store := a.store
	return func() tea.Msg {
		added, err := store.SaveArticle(art)
		if err != nil {
			return storeErrMsg{err: err}
		}
		if !added {
			return savedChangedMsg{toast: MsgAlreadySaved}
		}
		return savedChangedMsg{toast: MsgArticleSaved}
	}
}

// removeCmd reports success whether or not url was saved.
func (a *App) removeCmd(url string) tea.Cmd {
	store, logger := a.store, a.logger
	return func() tea.Msg {
		removed, err := store.RemoveArticle(url)
		if err != nil {
			return storeErrMsg{err: err}
		}
		if !removed {
			logger.Debug("remove: article not saved", "url", url)
		}
		return savedChangedMsg{toast: MsgArticleRemoved}
	}
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.Open(url); err != nil {
			return storeErrMsg{err: err}
		}
		return nil
	}
}

// -----------------------------------------------------------------------------
// View
// -----------------------------------------------------------------------------

func (a *App) View() string {
	if !a.ready {
		return a.styles.header.Render("newsdesk")
	}
	if a.showHelp {
		card := a.styles.help.Render(a.styles.title.Render("newsdesk") + "\n\n" + helpText())
		return placeCenter(a.width, a.height, card)
	}

	header := a.styles.header.Render("newsdesk") + " " + a.styles.headerDim.Render(a.server)

	var notice string
	switch {
	case a.errText != "":
		notice = a.styles.err.Render(a.errText)
	case a.toast != "":
		notice = a.styles.toast.Render(a.toast)
	case a.waiting:
		notice = a.spinner.View() + " " + a.styles.dim.Render("Waiting for server...")
	}

	return strings.Join([]string{
		header,
		a.viewport.View(),
		notice,
		a.input.View(),
		a.renderStatusBar(),
	}, "\n")
}

// NewProgram wraps app in a full-screen program.
func NewProgram(app *App) *tea.Program {
	return tea.NewProgram(app, tea.WithAltScreen())
}
