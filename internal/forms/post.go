package forms

import (
	"strconv"
	"strings"

	"yatube/internal/models"
)

// PostForm validates the text and group of a new or edited post. The
// author never comes from the form.
type PostForm struct {
	Text  string `form:"text"`
	Group string `form:"group"`

	groups  []models.Group
	groupID *int
	errors  errorList
}

// NewPostForm returns an empty form offering groups as choices.
func NewPostForm(groups []models.Group) *PostForm {
	return &PostForm{groups: groups, errors: errorList{}}
}

// PostFormFromPost returns a form prefilled from an existing post.
func PostFormFromPost(post *models.Post, groups []models.Group) *PostForm {
	form := NewPostForm(groups)
	form.Text = post.Text
	if post.GroupID != nil {
		form.Group = strconv.Itoa(*post.GroupID)
	}
	return form
}

// Validate checks the bound values and reports whether the form is valid.
func (f *PostForm) Validate() bool {
	f.errors = errorList{}
	f.groupID = nil

	f.Text = strings.TrimSpace(f.Text)
	if f.Text == "" {
		f.errors.add("text", msgRequired)
	}

	f.Group = strings.TrimSpace(f.Group)
	if f.Group != "" {
		id, err := strconv.Atoi(f.Group)
		if err != nil || !f.hasGroup(id) {
			f.errors.add("group", msgInvalidChoice)
		} else {
			f.groupID = &id
		}
	}

	return len(f.errors) == 0
}

func (f *PostForm) hasGroup(id int) bool {
	for _, group := range f.groups {
		if group.ID == id {
			return true
		}
	}
	return false
}

// GroupID is the validated group, nil when none was chosen.
func (f *PostForm) GroupID() *int {
	return f.groupID
}

// Apply copies the validated values onto post.
func (f *PostForm) Apply(post *models.Post) {
	post.Text = f.Text
	post.GroupID = f.groupID
	post.Group = nil
}

func (f *PostForm) Errors() map[string][]string {
	return f.errors
}

func (f *PostForm) Fields() []Field {
	choices := make([]Choice, 0, len(f.groups)+1)
	choices = append(choices, Choice{Value: "", Label: "---------", Selected: f.Group == ""})
	for _, group := range f.groups {
		value := strconv.Itoa(group.ID)
		choices = append(choices, Choice{Value: value, Label: group.Title, Selected: value == f.Group})
	}

	return []Field{
		{
			Name:     "text",
			Label:    "Post text",
			HelpText: "Text of the new post",
			Kind:     TextField,
			Required: true,
			Value:    f.Text,
			Errors:   f.errors["text"],
		},
		{
			Name:     "group",
			Label:    "Group",
			HelpText: "Group the post will belong to",
			Kind:     ChoiceField,
			Value:    f.Group,
			Choices:  choices,
			Errors:   f.errors["group"],
		},
	}
}

// Field returns a single field by name.
func (f *PostForm) Field(name string) (Field, bool) {
	return findField(f.Fields(), name)
}
