package forms

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxUsernameLength = 150
	minPasswordLength = 8
	// bcrypt rejects longer passwords.
	maxPasswordBytes = 72
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// SignupForm collects the fields of the registration page.
type SignupForm struct {
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Username  string `form:"username"`
	Email     string `form:"email"`
	Password1 string `form:"password1"`
	Password2 string `form:"password2"`

	errors errorList
}

func NewSignupForm() *SignupForm {
	return &SignupForm{errors: errorList{}}
}

func (f *SignupForm) Validate() bool {
	f.errors = errorList{}
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)

	switch {
	case f.Username == "":
		f.errors.add("username", msgRequired)
	case utf8.RuneCountInString(f.Username) > maxUsernameLength:
		f.errors.add("username", "Ensure this value has at most 150 characters.")
	case !usernamePattern.MatchString(f.Username):
		f.errors.add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}

	if f.Email != "" && !strings.Contains(f.Email, "@") {
		f.errors.add("email", "Enter a valid email address.")
	}

	switch {
	case f.Password1 == "":
		f.errors.add("password1", msgRequired)
	case utf8.RuneCountInString(f.Password1) < minPasswordLength:
		f.errors.add("password1", "This password is too short. It must contain at least 8 characters.")
	case len(f.Password1) > maxPasswordBytes:
		f.errors.add("password1", "This password is too long. It must take at most 72 bytes.")
	}

	if f.Password2 == "" {
		f.errors.add("password2", msgRequired)
	} else if f.Password1 != f.Password2 {
		f.errors.add("password2", "The two password fields didn't match.")
	}

	return len(f.errors) == 0
}

// AddUsernameTaken records a username collision found while saving.
func (f *SignupForm) AddUsernameTaken() {
	f.errors.add("username", "A user with that username already exists.")
}

func (f *SignupForm) Errors() map[string][]string {
	return f.errors
}

// Fields never echoes passwords back.
func (f *SignupForm) Fields() []Field {
	return []Field{
		{Name: "first_name", Label: "First name", Kind: CharField, Value: f.FirstName, Errors: f.errors["first_name"]},
		{Name: "last_name", Label: "Last name", Kind: CharField, Value: f.LastName, Errors: f.errors["last_name"]},
		{Name: "username", Label: "Username", Kind: CharField, Required: true, Value: f.Username, Errors: f.errors["username"]},
		{Name: "email", Label: "Email address", Kind: EmailField, Value: f.Email, Errors: f.errors["email"]},
		{Name: "password1", Label: "Password", Kind: PasswordField, Required: true, Errors: f.errors["password1"]},
		{Name: "password2", Label: "Password confirmation", Kind: PasswordField, Required: true, Errors: f.errors["password2"]},
	}
}

// LoginForm collects the credentials of the login page.
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`

	errors errorList
}

func NewLoginForm() *LoginForm {
	return &LoginForm{errors: errorList{}}
}

func (f *LoginForm) Validate() bool {
	f.errors = errorList{}
	f.Username = strings.TrimSpace(f.Username)
	if f.Username == "" {
		f.errors.add("username", msgRequired)
	}
	if f.Password == "" {
		f.errors.add("password", msgRequired)
	}
	return len(f.errors) == 0
}

// AddInvalidCredentials records a failed login as a form-wide error.
func (f *LoginForm) AddInvalidCredentials() {
	f.errors.add("", "Please enter a correct username and password. Note that both fields may be case-sensitive.")
}

func (f *LoginForm) Errors() map[string][]string {
	return f.errors
}

// NonFieldErrors returns the form-wide errors.
func (f *LoginForm) NonFieldErrors() []string {
	return f.errors[""]
}

func (f *LoginForm) Fields() []Field {
	return []Field{
		{Name: "username", Label: "Username", Kind: CharField, Required: true, Value: f.Username, Errors: f.errors["username"]},
		{Name: "password", Label: "Password", Kind: PasswordField, Required: true, Errors: f.errors["password"]},
	}
}
