// Package tui is the interactive presentation layer: a terminal browser over
// the contact store. Remote calls run as bubbletea commands; the store is
// only mutated on the confirming message, so every failed call leaves the
// visible list exactly as it was.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/phoneboox/phoneboox/internal/client/api"
	"github.com/phoneboox/phoneboox/internal/client/store"
	"github.com/phoneboox/phoneboox/internal/phonebook/domain"
)

const requestTimeout = 30 * time.Second

type mode int

const (
	modeLoading mode = iota
	modeList
	modeSearch
	modeForm
	modeConfirmDelete
)

// Messages produced by remote-call commands. Mutation messages carry the
// already-confirmed change to apply to the store.
type contactsLoadedMsg struct{ contacts []domain.Contact }

type contactAddedMsg struct{ data store.ContactData }

type contactUpdatedMsg struct {
	id      uuid.UUID
	partial store.Partial
}

type contactDeletedMsg struct{ id uuid.UUID }

type blockToggledMsg struct{ id uuid.UUID }

type favToggledMsg struct{ id uuid.UUID }

type errMsg struct{ err error }

type clearToastMsg struct{}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	favStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	blockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Strikethrough(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

var sortCycle = []store.SortOption{store.SortByName, store.SortByDateAdded, store.SortByLastContacted}

var filterCycle = []store.FilterOption{store.FilterAll, store.FilterFavorites, store.FilterBlocked, store.FilterRecent}

// Model is the bubbletea model for the contact browser.
type Model struct {
	store  *store.Store
	client *api.Client

	keys        keyMap
	help        help.Model
	searchInput textinput.Model
	form        contactForm

	mode     mode
	cursor   int
	busy     bool
	toast    string
	toastErr bool
	pageSize int
	width    int
	height   int
}

// NewModel builds the browser over an API client and a contact store.
// The store should be freshly constructed; it is seeded from the initial
// fetch.
func NewModel(client *api.Client, st *store.Store, pageSize int) Model {
	search := textinput.New()
	search.Placeholder = "search name, number, or email"
	search.CharLimit = 100
	return Model{
		store:       st,
		client:      client,
		keys:        defaultKeyMap,
		help:        help.New(),
		searchInput: search,
		mode:        modeLoading,
		pageSize:    pageSize,
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadContacts()
}

func (m Model) loadContacts() tea.Cmd {
	client, size := m.client, m.pageSize
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		contacts, err := client.ListAllContacts(ctx, size)
		if err != nil {
			return errMsg{err}
		}
		return contactsLoadedMsg{contacts: contacts}
	}
}

func (m Model) submitForm() tea.Cmd {
	client := m.client
	f := m.form
	if f.editID == uuid.Nil {
		req := f.addRequest()
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			ct, err := client.AddContact(ctx, req)
			if err != nil {
				return errMsg{err}
			}
			return contactAddedMsg{data: store.ContactData{
				Name:      ct.Name,
				Number:    ct.Number,
				Email:     ct.Email,
				Notes:     ct.Notes,
				Tags:      ct.Tags,
				Favourite: ct.Favourite,
				Blocked:   ct.Blocked,
			}}
		}
	}
	id, req := f.editID, f.updateRequest()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		ct, err := client.UpdateContact(ctx, id, req)
		if err != nil {
			return errMsg{err}
		}
		tags := ct.Tags
		return contactUpdatedMsg{id: id, partial: store.Partial{
			Name:   &ct.Name,
			Number: &ct.Number,
			Email:  &ct.Email,
			Notes:  &ct.Notes,
			Tags:   &tags,
		}}
	}
}

func (m Model) deleteContact(id uuid.UUID) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := client.DeleteContact(ctx, id); err != nil {
			return errMsg{err}
		}
		return contactDeletedMsg{id: id}
	}
}

func (m Model) toggleBlocked(c domain.Contact) tea.Cmd {
	client := m.client
	next := !c.Blocked
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := client.UpdateContact(ctx, c.ID, api.UpdateContactRequest{Blocked: &next}); err != nil {
			return errMsg{err}
		}
		return blockToggledMsg{id: c.ID}
	}
}

func (m Model) toggleFavourite(c domain.Contact) tea.Cmd {
	client := m.client
	next := !c.Favourite
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := client.UpdateContact(ctx, c.ID, api.UpdateContactRequest{Favourite: &next}); err != nil {
			return errMsg{err}
		}
		return favToggledMsg{id: c.ID}
	}
}

func showToast(text string, isErr bool) (string, bool, tea.Cmd) {
	return text, isErr, tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearToastMsg{} })
}

func (m Model) selected() (domain.Contact, bool) {
	view := m.store.DerivedView()
	if m.cursor < 0 || m.cursor >= len(view) {
		return domain.Contact{}, false
	}
	return view[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.store.DerivedView())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case contactsLoadedMsg:
		m.store.Initialize(msg.contacts)
		m.mode = modeList
		return m, nil

	case contactAddedMsg:
		m.store.Add(msg.data)
		m.busy = false
		m.mode = modeList
		var cmd tea.Cmd
		m.toast, m.toastErr, cmd = showToast("Contact added successfully", false)
		return m, cmd

	case contactUpdatedMsg:
		m.store.Update(msg.id, msg.partial)
		m.busy = false
		m.mode = modeList
		var cmd tea.Cmd
		m.toast, m.toastErr, cmd = showToast("Contact updated successfully", false)
		return m, cmd

	case contactDeletedMsg:
		m.store.Remove(msg.id)
		m.busy = false
		m.mode = modeList
		m.clampCursor()
		var cmd tea.Cmd
		m.toast, m.toastErr, cmd = showToast("Contact deleted successfully", false)
		return m, cmd

	case blockToggledMsg:
		m.store.ToggleBlocked(msg.id)
		m.busy = false
		return m, nil

	case favToggledMsg:
		m.store.ToggleFavorite(msg.id)
		m.busy = false
		return m, nil

	case errMsg:
		m.busy = false
		if m.mode == modeLoading {
			m.mode = modeList
		}
		var cmd tea.Cmd
		m.toast, m.toastErr, cmd = showToast(msg.err.Error(), true)
		return m, cmd

	case clearToastMsg:
		m.toast = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		switch {
		case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Confirm):
			m.mode = modeList
			m.searchInput.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.searchInput, cmd = m.searchInput.Update(msg)
			m.store.SetSearchTerm(m.searchInput.Value())
			m.clampCursor()
			return m, cmd
		}

	case modeForm:
		return m.handleFormKey(msg)

	case modeConfirmDelete:
		switch {
		case key.Matches(msg, m.keys.Confirm):
			if c, ok := m.selected(); ok && !m.busy {
				m.busy = true
				return m, m.deleteContact(c.ID)
			}
			m.mode = modeList
			return m, nil
		case key.Matches(msg, m.keys.Cancel):
			m.mode = modeList
			return m, nil
		}
		return m, nil
	}

	// modeLoading and modeList.
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.store.DerivedView())-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.searchInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Sort):
		m.store.SetSortOption(nextOption(sortCycle, m.store.SortOption()))
		m.cursor = 0
		return m, nil
	case key.Matches(msg, m.keys.Filter):
		m.store.SetFilterOption(nextOption(filterCycle, m.store.FilterOption()))
		m.cursor = 0
		return m, nil
	case key.Matches(msg, m.keys.Add):
		m.form = newContactForm()
		m.mode = modeForm
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Edit):
		if c, ok := m.selected(); ok {
			m.form = newEditForm(c)
			m.mode = modeForm
			return m, textinput.Blink
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
		}
		return m, nil
	case key.Matches(msg, m.keys.Block):
		if c, ok := m.selected(); ok && !m.busy {
			m.busy = true
			return m, m.toggleBlocked(c)
		}
		return m, nil
	case key.Matches(msg, m.keys.Favourite):
		if c, ok := m.selected(); ok && !m.busy {
			m.busy = true
			return m, m.toggleFavourite(c)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		return m, nil
	case "tab", "down":
		m.form.next()
		return m, nil
	case "shift+tab", "up":
		m.form.prev()
		return m, nil
	case "left":
		if m.form.focus == fieldNumber {
			m.form.cycleCountry(-1)
			return m, nil
		}
	case "right":
		if m.form.focus == fieldNumber {
			m.form.cycleCountry(1)
			return m, nil
		}
	case "enter":
		if !m.busy {
			m.busy = true
			return m, m.submitForm()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

func nextOption[T comparable](cycle []T, current T) T {
	for i, v := range cycle {
		if v == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

func (m Model) View() string {
	var sb strings.Builder

	switch m.mode {
	case modeLoading:
		sb.WriteString(titleStyle.Render("Phoneboox"))
		sb.WriteString("\n")
		sb.WriteString(statusStyle.Render("Loading contacts..."))
	case modeForm:
		sb.WriteString(m.viewForm())
	case modeConfirmDelete:
		c, _ := m.selected()
		sb.WriteString(titleStyle.Render("Delete contact"))
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Delete %q (%s)? enter to confirm, esc to cancel", c.Name, c.Number))
	default:
		sb.WriteString(m.viewList())
	}

	if m.toast != "" {
		sb.WriteString("\n\n")
		if m.toastErr {
			sb.WriteString(errorStyle.Render(m.toast))
		} else {
			sb.WriteString(okStyle.Render(m.toast))
		}
	}
	if m.busy {
		sb.WriteString("\n")
		sb.WriteString(statusStyle.Render("working..."))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m Model) viewList() string {
	var sb strings.Builder
	view := m.store.DerivedView()

	sb.WriteString(titleStyle.Render(fmt.Sprintf("Phoneboox: %d of %d contact(s)", len(view), m.store.Len())))
	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render(fmt.Sprintf("sort:%s  filter:%s", m.store.SortOption(), m.store.FilterOption())))
	sb.WriteString("\n")

	if m.mode == modeSearch || m.store.SearchTerm() != "" {
		sb.WriteString(m.searchInput.View())
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if len(view) == 0 {
		sb.WriteString(statusStyle.Render("No contacts match."))
		return sb.String()
	}

	for i, c := range view {
		prefix := "  "
		if i == m.cursor && m.mode != modeSearch {
			prefix = cursorStyle.Render("> ")
		}
		line := contactLine(c)
		if c.Blocked {
			line = blockedStyle.Render(line)
		}
		sb.WriteString(prefix + line + "\n")
	}
	return sb.String()
}

func contactLine(c domain.Contact) string {
	marker := "  "
	if c.Favourite {
		marker = favStyle.Render("* ")
	}
	line := fmt.Sprintf("%s%-24s %-16s %s", marker, c.Name, c.Number, c.Email)
	if len(c.Tags) > 0 {
		line += "  [" + strings.Join(c.Tags, ", ") + "]"
	}
	return line
}

func (m Model) viewForm() string {
	var sb strings.Builder
	title := "Add contact"
	if m.form.editID != uuid.Nil {
		title = "Edit contact"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	for i := range m.form.inputs {
		if i == fieldNumber {
			cc := countryCodes[m.form.country]
			sb.WriteString(statusStyle.Render(fmt.Sprintf("Country %s (%s)  <left/right to change>", cc.Code, cc.Name)))
			sb.WriteString("\n")
		}
		sb.WriteString(m.form.inputs[i].View())
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render("tab next field, enter save, esc cancel"))
	return sb.String()
}
