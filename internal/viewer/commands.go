package viewer

import (
	"fmt"

	"practicelog/internal/models"
	"practicelog/internal/sessions"
)

// Command is one user action. The set is closed.
type Command interface {
	apply(env env, s State) (State, error)
}

type env struct {
	records []models.SessionRecord
	options []int
}

type SelectDate struct{ Date string }
type ShowAll struct{}
type GoToPage struct{ Page int }
type ChangePageSize struct{ PageSize int }
type OpenRecord struct{ Index int }
type Back struct{}

// Dispatch applies cmd to s. options is the allowed page-size set.
func Dispatch(records []models.SessionRecord, options []int, s State, cmd Command) (State, error) {
	if cmd == nil {
		return s, fmt.Errorf("nil command: %w", sessions.ErrInvalidArgument)
	}
	return cmd.apply(env{records: records, options: options}, s)
}

func (c SelectDate) apply(_ env, s State) (State, error) {
	return State{Mode: ModeList, Date: c.Date, Page: 1, PageSize: s.PageSize}, nil
}

func (ShowAll) apply(_ env, s State) (State, error) {
	return State{Mode: ModeList, Page: 1, PageSize: s.PageSize}, nil
}

func (c GoToPage) apply(e env, s State) (State, error) {
	page, err := sessions.Paginate(Listing(e.records, s), s.PageSize, c.Page)
	if err != nil {
		return s, err
	}
	s.Mode = ModeList
	s.Page = page.CurrentPage
	return s, nil
}

func (c ChangePageSize) apply(e env, s State) (State, error) {
	if err := sessions.ValidatePageSize(c.PageSize, e.options); err != nil {
		return s, err
	}

	total := len(Listing(e.records, s))
	page := 1
	if s.PageSize > 0 {
		p, err := sessions.ResizePage(s.Page, s.PageSize, c.PageSize, total)
		if err != nil {
			return s, err
		}
		page = p
	}

	s.Mode = ModeList
	s.Page = page
	s.PageSize = c.PageSize
	return s, nil
}

func (c OpenRecord) apply(e env, s State) (State, error) {
	n := len(Listing(e.records, s))
	if c.Index < 0 || c.Index >= n {
		return s, fmt.Errorf("record %d of %d: %w", c.Index, n, ErrRecordNotFound)
	}
	s.Mode = ModeDetail
	s.Record = c.Index
	return s, nil
}

func (Back) apply(_ env, s State) (State, error) {
	s.Mode = ModeList
	s.Record = 0
	return s, nil
}

// CommandRequest is the wire form of a command.
type CommandRequest struct {
	Type     string `json:"type"`
	Date     string `json:"date,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
	Index    int    `json:"index,omitempty"`
}

// Decode maps a wire command onto its Command value.
func (r CommandRequest) Decode() (Command, error) {
	switch r.Type {
	case "select_date":
		return SelectDate{Date: r.Date}, nil
	case "show_all":
		return ShowAll{}, nil
	case "go_to_page":
		return GoToPage{Page: r.Page}, nil
	case "change_page_size":
		return ChangePageSize{PageSize: r.PageSize}, nil
	case "open_record":
		return OpenRecord{Index: r.Index}, nil
	case "back":
		return Back{}, nil
	}
	return nil, fmt.Errorf("unknown command %q: %w", r.Type, sessions.ErrInvalidArgument)
}
