// Package validation provides input validation utilities
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"codego/internal/models"
)

// ErrInvalidURL marks a learning material whose URL was rejected.
var ErrInvalidURL = errors.New("invalid url")

const (
	msgFillAllFields  = "Please fill in all fields."
	msgPasswordsMatch = "Passwords do not match."
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

func blank(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return true
		}
	}
	return false
}

// ValidateLogin checks that both credentials are present.
func ValidateLogin(email, password string) error {
	if blank(email, password) {
		return models.NewValidationError("Please enter both email and password.")
	}
	return nil
}

// ValidateRegistration checks the registration form, including the password confirmation.
// An empty confirm skips the match check.
func ValidateRegistration(username, email, password, confirm string) error {
	if blank(username, email, password) {
		return models.NewValidationError(msgFillAllFields)
	}
	if confirm != "" && password != confirm {
		return models.NewValidationError(msgPasswordsMatch)
	}
	return nil
}

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}
	if len(username) > 30 {
		return fmt.Errorf("username must not exceed 30 characters")
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, underscores, and hyphens")
	}
	if username[0] == '_' || username[0] == '-' || username[len(username)-1] == '_' || username[len(username)-1] == '-' {
		return fmt.Errorf("username cannot start or end with underscore or hyphen")
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePost requires a title and a description.
func ValidatePost(in models.NewPost) error {
	if blank(in.Title, in.Description) {
		return models.NewValidationError("Please add a title and a description.")
	}
	return nil
}

// PollOptions trims the option texts and drops the empty ones. It fails unless
// the question is present and between MinPollOptions and MaxPollOptions remain.
func PollOptions(question string, options []string) ([]string, error) {
	if blank(question) {
		return nil, models.NewValidationError("Please enter a question.")
	}
	out := make([]string, 0, len(options))
	for _, o := range options {
		if t := strings.TrimSpace(o); t != "" {
			out = append(out, t)
		}
	}
	if len(out) < models.MinPollOptions || len(out) > models.MaxPollOptions {
		return nil, models.NewValidationError(fmt.Sprintf(
			"A poll needs between %d and %d options.", models.MinPollOptions, models.MaxPollOptions))
	}
	return out, nil
}

// ValidateMaterial checks the material fields and its URL.
func ValidateMaterial(in models.NewLearningMaterial) error {
	if blank(in.Title, in.Description, in.FileURL) {
		return models.NewValidationError(msgFillAllFields)
	}
	if !in.FileType.Valid() {
		return models.NewValidationError("File type must be pdf or link.")
	}
	return ValidateMaterialURL(in.FileURL, in.FileType)
}

// ValidateMaterialURL requires an absolute http(s) URL. PDF links must end in
// .pdf or contain /pdf.
func ValidateMaterialURL(raw string, fileType models.FileType) error {
	invalid := func() error {
		msg := "Please enter a valid URL."
		if fileType == models.FileTypePDF {
			msg = "Please enter a valid PDF URL."
		}
		return &models.AppError{Code: models.CodeValidation, Message: msg, Err: ErrInvalidURL}
	}

	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return invalid()
	}
	if fileType == models.FileTypePDF {
		lower := strings.ToLower(raw)
		if !strings.HasSuffix(lower, ".pdf") && !strings.Contains(lower, "/pdf") {
			return invalid()
		}
	}
	return nil
}

// PollEdit checks an edit against the poll it applies to. Only texts can
// change: the question and every edited option must stay non-blank, and each
// option id must already belong to current.
func PollEdit(current models.Poll, in models.PollUpdate) error {
	if in.Question != nil && blank(*in.Question) {
		return models.NewValidationError("Question cannot be empty")
	}
	for _, o := range in.Options {
		if blank(o.Text) {
			return models.NewValidationError("Option text cannot be empty")
		}
		if _, ok := current.Option(o.ID); !ok {
			return models.NewValidationError("Options cannot be added or removed after creation")
		}
	}
	return nil
}
