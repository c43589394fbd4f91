// Package console implements the list/mutate controller behind the admin
// user console: a filtered, sorted, paginated listing with dialog-driven
// create, edit and delete.
package console

import (
	"regexp"
	"strings"

	"github.com/stagecontrol/admin-user-services/models"
)

// DialogMode identifies what the dialog, if open, is editing.
type DialogMode int

const (
	DialogClosed DialogMode = iota
	DialogCreate
	DialogEdit
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// PageSizes are the page sizes the console offers.
var PageSizes = []int{5, 10, 25}

// State is the complete controller state. It is a value; Transition returns
// a new State and never mutates its input.
type State struct {
	SearchField   string
	SearchText    string
	SortKey       string
	SortDirection string
	Page          int
	PageSize      int

	Users []models.User
	Total int

	Dialog       DialogMode
	Working      models.User
	ErrorMessage string
	ListError    string
	Loading      bool
}

// NewState returns the initial state: no filter, sorted by fullName
// ascending, on the first page.
func NewState(pageSize int) State {
	if pageSize <= 0 {
		pageSize = 10
	}
	return State{
		SearchField:   "fullName",
		SortKey:       "fullName",
		SortDirection: SortAsc,
		PageSize:      pageSize,
	}
}

// Query translates the current filters, sort and page into a store query.
// The console searches at most one field at a time.
func (s State) Query() models.UserQuery {
	var filter models.UserFilter
	switch s.SearchField {
	case "email":
		filter.Email = s.SearchText
	case "role":
		filter.Role = s.SearchText
	default:
		filter.FullName = s.SearchText
	}

	return models.UserQuery{
		Filter:        filter,
		SortKey:       s.SortKey,
		SortDirection: s.SortDirection,
		Skip:          s.Page * s.PageSize,
		Limit:         s.PageSize,
	}
}

// Event is a state machine input.
type Event interface {
	isEvent()
}

// SearchChanged replaces the search field and text. Resets to the first page.
type SearchChanged struct {
	Field string
	Text  string
}

// PageChanged moves to a different page of the current listing.
type PageChanged struct {
	Page int
}

// PageSizeChanged replaces the page size. Resets to the first page so the
// view never lands past the end of the result set.
type PageSizeChanged struct {
	Size int
}

// SortToggled selects a sort column: a repeated key flips the direction, a
// new key sorts ascending.
type SortToggled struct {
	Key string
}

// DialogOpened opens the dialog. A nil user seeds an empty create form; a
// non-nil user seeds an edit form with a copy of the record.
type DialogOpened struct {
	User *models.User
}

// WorkingChanged replaces the dialog's working record with edited field
// values. The record's identity never changes while the dialog is open.
type WorkingChanged struct {
	User models.User
}

// DialogDismissed closes the dialog and discards the working record.
type DialogDismissed struct{}

// ListLoaded lands a listing response.
type ListLoaded struct {
	Users []models.User
	Total int
}

// ListFailed records a failed listing refresh. The previously displayed page
// stays on screen.
type ListFailed struct {
	Message string
}

// SaveRejected records a validation failure; the dialog stays open and no
// network call is made.
type SaveRejected struct {
	Message string
}

// SaveSucceeded closes the dialog after a successful create or update; a
// fresh listing request follows.
type SaveSucceeded struct{}

// SaveFailed records a failed create or update; the dialog stays open so the
// user can correct and resubmit.
type SaveFailed struct {
	Message string
}

func (SearchChanged) isEvent()   {}
func (PageChanged) isEvent()     {}
func (PageSizeChanged) isEvent() {}
func (SortToggled) isEvent()     {}
func (DialogOpened) isEvent()    {}
func (WorkingChanged) isEvent()  {}
func (DialogDismissed) isEvent() {}
func (ListLoaded) isEvent()      {}
func (ListFailed) isEvent()      {}
func (SaveRejected) isEvent()    {}
func (SaveSucceeded) isEvent()   {}
func (SaveFailed) isEvent()      {}

// Transition applies an event to a state and returns the next state.
func Transition(s State, e Event) State {
	switch ev := e.(type) {
	case SearchChanged:
		s.SearchField = ev.Field
		s.SearchText = ev.Text
		s.Page = 0
		s.Loading = true

	case PageChanged:
		if ev.Page >= 0 {
			s.Page = ev.Page
		}
		s.Loading = true

	case PageSizeChanged:
		if ev.Size > 0 {
			s.PageSize = ev.Size
			s.Page = 0
		}
		s.Loading = true

	case SortToggled:
		if s.SortKey == ev.Key {
			if s.SortDirection == SortAsc {
				s.SortDirection = SortDesc
			} else {
				s.SortDirection = SortAsc
			}
		} else {
			s.SortKey = ev.Key
			s.SortDirection = SortAsc
		}
		s.Loading = true

	case DialogOpened:
		s.ErrorMessage = ""
		if ev.User == nil {
			s.Dialog = DialogCreate
			s.Working = models.User{}
		} else {
			s.Dialog = DialogEdit
			s.Working = *ev.User
		}

	case WorkingChanged:
		if s.Dialog != DialogClosed {
			id := s.Working.ID
			s.Working = ev.User
			s.Working.ID = id
		}

	case DialogDismissed:
		s.Dialog = DialogClosed
		s.Working = models.User{}
		s.ErrorMessage = ""

	case ListLoaded:
		s.Users = ev.Users
		s.Total = ev.Total
		s.ListError = ""
		s.Loading = false

	case ListFailed:
		s.ListError = ev.Message
		s.Loading = false

	case SaveRejected:
		s.ErrorMessage = ev.Message

	case SaveSucceeded:
		s.Dialog = DialogClosed
		s.Working = models.User{}
		s.ErrorMessage = ""
		s.Loading = true

	case SaveFailed:
		s.ErrorMessage = ev.Message
	}

	return s
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateUser checks the working record before save. All three fields are
// required; email must look like local@domain.tld.
func ValidateUser(u models.User) string {
	if strings.TrimSpace(u.FullName) == "" {
		return "Full Name is required"
	}
	email := strings.TrimSpace(u.Email)
	if email == "" {
		return "Email is required"
	}
	if !emailRegex.MatchString(email) {
		return "Invalid email format"
	}
	if strings.TrimSpace(u.Role) == "" {
		return "Role is required"
	}
	return ""
}
