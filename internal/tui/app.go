package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/nikbrunner/rl/internal/browser"
	"github.com/nikbrunner/rl/internal/capture"
	"github.com/nikbrunner/rl/internal/inbox"
	"github.com/nikbrunner/rl/internal/library"
	"github.com/nikbrunner/rl/internal/model"
	"github.com/nikbrunner/rl/internal/search"
	"github.com/nikbrunner/rl/internal/tui/layout"
)

// App is the main bubbletea model for the read-it-later manager.
type App struct {
	ctx      context.Context
	lib      *library.Library
	session  *capture.Session
	prefetch chan prefetchMsg
	copyURL  func(string) error
	openURL  func(string) error
	now      func() time.Time
	log      logrus.FieldLogger

	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig

	mode   Mode
	tabs   []TabState
	active int
	status inbox.Status

	filter FilterState
	add    AddState

	// Delete confirmation
	confirmDelete bool
	pendingDelete model.Item

	// For gg command
	lastKeyWasG bool

	messageText string
	messageType MessageType

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Context context.Context // optional, defaults to context.Background
	Library *library.Library
	// Session prefetches titles while a URL is typed; nil disables prefetching.
	Session      *capture.Session
	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil
	CopyURL      func(string) error   // optional, defaults to the system clipboard
	OpenURL      func(string) error   // optional, defaults to the system browser
	Now          func() time.Time     // optional, for relative dates
	Logger       logrus.FieldLogger   // optional
}

// prefetchMsg carries a debounced metadata fetch result.
type prefetchMsg struct {
	url   string
	title string
	err   error
}

// capturedMsg reports the end of an add-form submission.
type capturedMsg struct {
	item model.Item
	err  error
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutCfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutCfg = *params.LayoutConfig
	}

	ctx := params.Context
	if ctx == nil {
		ctx = context.Background()
	}

	app := App{
		ctx:           ctx,
		lib:           params.Library,
		session:       params.Session,
		prefetch:      make(chan prefetchMsg, 1),
		copyURL:       params.CopyURL,
		openURL:       params.OpenURL,
		now:           params.Now,
		log:           params.Logger,
		keys:          keys,
		styles:        styles,
		layoutConfig:  layoutCfg,
		filter:        NewFilterState(layoutCfg),
		add:           NewAddState(layoutCfg),
		confirmDelete: true,
		width:         80,
		height:        24,
	}
	if app.copyURL == nil {
		app.copyURL = clipboard.WriteAll
	}
	if app.openURL == nil {
		app.openURL = browser.Open
	}
	if app.now == nil {
		app.now = time.Now
	}
	if app.log == nil {
		app.log = logrus.StandardLogger()
	}

	for _, st := range model.States {
		app.tabs = append(app.tabs, TabState{State: st})
	}

	app.refresh()
	return app
}

// WithDimensions returns a copy of the app sized to width x height.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// ActiveState returns the state shown by the current tab.
func (a App) ActiveState() model.State {
	return a.tab().State
}

// Cursor returns the cursor position in the current tab.
func (a App) Cursor() int {
	return a.tab().Cursor
}

// Items returns the (filtered) items of the current tab.
func (a App) Items() []model.Item {
	return a.tab().Items
}

// Mode returns the current interaction mode.
func (a App) Mode() Mode {
	return a.mode
}

// Message returns the transient status message, if any.
func (a App) Message() string {
	return a.messageText
}

// ConfirmDelete reports whether deletes ask for confirmation.
func (a App) ConfirmDelete() bool {
	return a.confirmDelete
}

// FilterQuery returns the active filter query.
func (a App) FilterQuery() string {
	return a.filter.Query
}

func (a App) tab() TabState {
	return a.tabs[a.active]
}

func (a *App) currentTab() *TabState {
	return &a.tabs[a.active]
}

// refresh reloads every tab and the Inbox status from the library.
func (a *App) refresh() {
	for i := range a.tabs {
		t := &a.tabs[i]
		items, err := a.lib.ListItems(a.ctx, t.State)
		if err != nil {
			a.setError(err)
			continue
		}
		t.Total = len(items)
		if i == a.active && a.filter.Query != "" {
			items = search.Filter(items, a.filter.Query)
		}
		t.Items = items
		t.clamp()
	}

	status, err := a.lib.InboxStatus(a.ctx)
	if err != nil {
		a.setError(err)
		return
	}
	a.status = status
}

func (a *App) setMessage(t MessageType, text string) {
	a.messageType = t
	a.messageText = text
}

func (a *App) setError(err error) {
	switch {
	case errors.Is(err, model.ErrInboxFull):
		a.setMessage(MessageWarning, fmt.Sprintf("Inbox is full (%d/%d): triage before adding more", a.status.Count, a.status.Max))
	default:
		a.setMessage(MessageError, err.Error())
	}
}

func (a *App) clearMessage() {
	a.messageText = ""
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.session == nil {
		return nil
	}
	return a.waitForPrefetch()
}

func (a App) waitForPrefetch() tea.Cmd {
	ch := a.prefetch
	ctx := a.ctx
	return func() tea.Msg {
		select {
		case msg := <-ch:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}

// schedulePrefetch asks the session for the title of the URL being typed.
// Results arrive as prefetchMsg through the channel Init waits on.
func (a *App) schedulePrefetch() {
	if a.session == nil {
		return
	}

	u, err := model.ValidateURL(a.add.URLInput.Value())
	if err != nil {
		a.session.Cancel()
		a.add.Fetching = false
		return
	}
	if u.String() == a.add.FetchedURL {
		return
	}

	a.add.Fetching = true
	ch, ctx := a.prefetch, a.ctx
	a.session.Schedule(ctx, u.String(), func(url string, meta model.Metadata, err error) {
		select {
		case ch <- prefetchMsg{url: url, title: meta.Title, err: err}:
		case <-ctx.Done():
		}
	})
}

func (a App) captureCmd(rawURL, title string) tea.Cmd {
	lib, ctx := a.lib, a.ctx
	return func() tea.Msg {
		var (
			item model.Item
			err  error
		)
		if title != "" {
			item, err = lib.AddWithoutFetch(ctx, rawURL, title)
		} else {
			item, err = lib.AddToInbox(ctx, rawURL, "")
		}
		return capturedMsg{item: item, err: err}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Tabs are mutated in place below; keep earlier App values intact.
	a.tabs = append([]TabState(nil), a.tabs...)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case prefetchMsg:
		a.handlePrefetch(msg)
		return a, a.waitForPrefetch()

	case capturedMsg:
		a.handleCaptured(msg)
		return a, nil

	case tea.KeyMsg:
		switch a.mode {
		case ModeFilter:
			return a.updateFilter(msg)
		case ModeAdd:
			return a.updateAdd(msg)
		case ModeConfirmDelete:
			return a.updateConfirmDelete(msg)
		case ModeHelp:
			return a.updateHelp(msg)
		default:
			return a.updateNormal(msg)
		}
	}

	return a, nil
}

func (a *App) handlePrefetch(msg prefetchMsg) {
	if a.mode != ModeAdd {
		return
	}
	current, err := model.ValidateURL(a.add.URLInput.Value())
	if err != nil || current.String() != msg.url {
		return
	}

	a.add.Fetching = false
	if msg.err != nil {
		a.log.WithError(msg.err).WithField("url", msg.url).Debug("title prefetch failed")
		return
	}
	a.add.FetchedURL = msg.url
	a.add.FetchedTitle = msg.title
	if msg.title != "" {
		a.add.TitleInput.Placeholder = msg.title
	}
}

func (a *App) handleCaptured(msg capturedMsg) {
	a.add.Submitting = false
	if msg.err != nil {
		// Keep the form open so the URL can be fixed, except when
		// there is nowhere to put it.
		if capture.KindOf(msg.err) == capture.KindInboxFull {
			a.mode = ModeNormal
			a.add.Reset()
			a.refresh()
		}
		a.setError(msg.err)
		return
	}

	a.mode = ModeNormal
	a.add.Reset()
	a.switchTab(0)
	a.refresh()
	for i, item := range a.tab().Items {
		if item.ID == msg.item.ID {
			a.currentTab().Cursor = i
			break
		}
	}
	a.setMessage(MessageSuccess, "Added to Inbox: "+msg.item.Title)
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.currentTab().Cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false
	a.clearMessage()

	t := a.currentTab()

	switch {
	case key.Matches(msg, a.keys.Quit):
		if a.session != nil {
			a.session.Cancel()
		}
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if len(t.Items) > 0 && t.Cursor < len(t.Items)-1 {
			t.Cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if t.Cursor > 0 {
			t.Cursor--
		}

	case key.Matches(msg, a.keys.Bottom):
		if len(t.Items) > 0 {
			t.Cursor = len(t.Items) - 1
		}

	case key.Matches(msg, a.keys.NextTab):
		a.switchTab((a.active + 1) % len(a.tabs))

	case key.Matches(msg, a.keys.PrevTab):
		a.switchTab((a.active + len(a.tabs) - 1) % len(a.tabs))

	case key.Matches(msg, a.keys.InboxTab):
		a.switchTab(0)

	case key.Matches(msg, a.keys.BookmarksTab):
		a.switchTab(1)

	case key.Matches(msg, a.keys.ArchiveTab):
		a.switchTab(2)

	case key.Matches(msg, a.keys.Bookmark):
		a.moveCurrent(model.StateBookmark)

	case key.Matches(msg, a.keys.Archive):
		a.moveCurrent(model.StateArchive)

	case key.Matches(msg, a.keys.ReturnToInbox):
		a.moveCurrent(model.StateInbox)

	case key.Matches(msg, a.keys.Delete):
		item, ok := t.Current()
		if !ok {
			break
		}
		if a.confirmDelete {
			a.pendingDelete = item
			a.mode = ModeConfirmDelete
			break
		}
		a.deleteItem(item)

	case key.Matches(msg, a.keys.ToggleConfirm):
		a.confirmDelete = !a.confirmDelete
		if a.confirmDelete {
			a.setMessage(MessageInfo, "Delete confirmation on")
		} else {
			a.setMessage(MessageInfo, "Delete confirmation off")
		}

	case key.Matches(msg, a.keys.Filter):
		a.mode = ModeFilter
		a.filter.Input.SetValue(a.filter.Query)
		a.filter.Input.CursorEnd()
		return a, a.filter.Input.Focus()

	case key.Matches(msg, a.keys.Add):
		if a.status.Full {
			a.setError(model.ErrInboxFull)
			break
		}
		a.mode = ModeAdd
		a.add.Reset()
		a.add.TitleInput.Blur()
		return a, a.add.URLInput.Focus()

	case key.Matches(msg, a.keys.YankURL):
		item, ok := t.Current()
		if !ok {
			break
		}
		if err := a.copyURL(item.URL); err != nil {
			a.setMessage(MessageError, "Copy failed: "+err.Error())
			break
		}
		a.setMessage(MessageSuccess, "Copied: "+item.URL)

	case key.Matches(msg, a.keys.Open):
		item, ok := t.Current()
		if !ok {
			break
		}
		if err := a.openURL(item.URL); err != nil {
			a.setMessage(MessageError, "Open failed: "+err.Error())
			break
		}
		a.setMessage(MessageInfo, "Opened: "+item.URL)

	case key.Matches(msg, a.keys.Reload):
		a.refresh()

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
	}

	return a, nil
}

// switchTab activates tab i. The filter belongs to a tab and is dropped.
func (a *App) switchTab(i int) {
	if i == a.active {
		return
	}
	a.active = i
	if a.filter.Query != "" {
		a.filter.Reset()
		a.refresh()
	}
}

func (a *App) moveCurrent(to model.State) {
	item, ok := a.tab().Current()
	if !ok {
		return
	}
	if item.State == to {
		a.setMessage(MessageInfo, "Already in "+to.Label())
		return
	}

	if _, err := a.lib.MoveItem(a.ctx, item.ID, item.State, to); err != nil {
		a.refresh()
		a.setError(err)
		return
	}
	a.refresh()
	a.setMessage(MessageSuccess, fmt.Sprintf("%s → %s: %s", item.State.Label(), to.Label(), item.Title))
}

func (a *App) deleteItem(item model.Item) {
	if err := a.lib.DeleteItem(a.ctx, item.ID); err != nil {
		a.setError(err)
		return
	}
	a.refresh()
	a.setMessage(MessageSuccess, "Deleted: "+item.Title)
}

func (a App) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.mode = ModeNormal
		a.filter.Input.Blur()
		a.filter.Reset()
		a.refresh()
		return a, nil

	case tea.KeyEnter:
		a.mode = ModeNormal
		a.filter.Input.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.filter.Input, cmd = a.filter.Input.Update(msg)
	a.filter.Query = strings.TrimSpace(a.filter.Input.Value())
	a.currentTab().Cursor = 0
	a.refresh()
	return a, cmd
}

func (a App) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.add.Submitting {
		return a, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		if a.session != nil {
			a.session.Cancel()
		}
		a.mode = ModeNormal
		a.add.Reset()
		return a, nil

	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		if a.add.Focus == fieldURL {
			a.add.Focus = fieldTitle
			a.add.URLInput.Blur()
			return a, a.add.TitleInput.Focus()
		}
		a.add.Focus = fieldURL
		a.add.TitleInput.Blur()
		return a, a.add.URLInput.Focus()

	case tea.KeyEnter:
		rawURL := strings.TrimSpace(a.add.URLInput.Value())
		title := ""
		if u, err := model.ValidateURL(rawURL); err == nil {
			title = a.add.Title(u.String())
		}
		if a.session != nil {
			a.session.Cancel()
		}
		a.add.Fetching = false
		a.add.Submitting = true
		return a, a.captureCmd(rawURL, title)
	}

	var cmd tea.Cmd
	if a.add.Focus == fieldURL {
		before := a.add.URLInput.Value()
		a.add.URLInput, cmd = a.add.URLInput.Update(msg)
		if a.add.URLInput.Value() != before {
			a.schedulePrefetch()
		}
		return a, cmd
	}
	a.add.TitleInput, cmd = a.add.TitleInput.Update(msg)
	return a, cmd
}

func (a App) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		a.mode = ModeNormal
		a.deleteItem(a.pendingDelete)
		a.pendingDelete = model.Item{}
	case "n", "N", "esc", "q":
		a.mode = ModeNormal
		a.pendingDelete = model.Item{}
	}
	return a, nil
}

func (a App) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.Help, a.keys.Quit) || msg.Type == tea.KeyEsc {
		a.mode = ModeNormal
	}
	return a, nil
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
