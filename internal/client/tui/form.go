package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/google/uuid"

	"github.com/phoneboox/phoneboox/internal/client/api"
	"github.com/phoneboox/phoneboox/internal/phonebook/domain"
)

// countryCode is an entry of the static dialing-prefix list offered by the
// contact form.
type countryCode struct {
	Code string
	Name string
}

var countryCodes = []countryCode{
	{"+1", "USA"},
	{"+44", "UK"},
	{"+49", "Germany"},
	{"+91", "India"},
}

const (
	fieldName = iota
	fieldNumber
	fieldEmail
	fieldTags
	fieldNotes
	fieldCount
)

// contactForm is the add/edit form state. When editing, editID holds the
// contact being edited; for a new contact it is uuid.Nil.
type contactForm struct {
	inputs  [fieldCount]textinput.Model
	focus   int
	country int
	editID  uuid.UUID
}

func newContactForm() contactForm {
	var f contactForm
	labels := [fieldCount]string{"Name", "Number", "Email", "Tags (comma separated)", "Notes"}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = labels[i]
		in.CharLimit = 255
		f.inputs[i] = in
	}
	f.inputs[fieldName].Focus()
	return f
}

// newEditForm pre-fills the form from an existing contact. The country
// prefix is split off the stored number when it matches the static list.
func newEditForm(c domain.Contact) contactForm {
	f := newContactForm()
	f.editID = c.ID
	national := c.Number
	for i, cc := range countryCodes {
		if strings.HasPrefix(c.Number, cc.Code) {
			f.country = i
			national = strings.TrimPrefix(c.Number, cc.Code)
			break
		}
	}
	f.inputs[fieldName].SetValue(c.Name)
	f.inputs[fieldNumber].SetValue(national)
	f.inputs[fieldEmail].SetValue(c.Email)
	f.inputs[fieldTags].SetValue(strings.Join(c.Tags, ", "))
	f.inputs[fieldNotes].SetValue(c.Notes)
	return f
}

func (f *contactForm) next() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + 1) % fieldCount
	f.inputs[f.focus].Focus()
}

func (f *contactForm) prev() {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + fieldCount - 1) % fieldCount
	f.inputs[f.focus].Focus()
}

func (f *contactForm) cycleCountry(delta int) {
	f.country = (f.country + delta + len(countryCodes)) % len(countryCodes)
}

// number returns the full wire number: prefix plus the national digits.
func (f *contactForm) number() string {
	return countryCodes[f.country].Code + strings.TrimSpace(f.inputs[fieldNumber].Value())
}

func (f *contactForm) tags() []string {
	raw := strings.Split(f.inputs[fieldTags].Value(), ",")
	var tags []string
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// addRequest builds the create payload from the form.
func (f *contactForm) addRequest() api.AddContactRequest {
	return api.AddContactRequest{
		Name:  strings.TrimSpace(f.inputs[fieldName].Value()),
		Phone: f.number(),
		Email: strings.TrimSpace(f.inputs[fieldEmail].Value()),
		Tags:  f.tags(),
		Notes: strings.TrimSpace(f.inputs[fieldNotes].Value()),
	}
}

// updateRequest builds the partial update payload from the form.
func (f *contactForm) updateRequest() api.UpdateContactRequest {
	name := strings.TrimSpace(f.inputs[fieldName].Value())
	number := f.number()
	email := strings.TrimSpace(f.inputs[fieldEmail].Value())
	notes := strings.TrimSpace(f.inputs[fieldNotes].Value())
	tags := f.tags()
	return api.UpdateContactRequest{
		Name:   &name,
		Number: &number,
		Email:  &email,
		Notes:  &notes,
		Tags:   &tags,
	}
}
