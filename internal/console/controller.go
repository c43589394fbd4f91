package console

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stagecontrol/admin-user-services/internal/debounce"
	"github.com/stagecontrol/admin-user-services/models"
)

// API is the user service surface the controller drives.
type API interface {
	ListUsers(ctx context.Context, q models.UserQuery) (*models.UserPage, error)
	CreateUser(ctx context.Context, req models.NewUser) (*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, upd models.UserUpdate) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// ValidationError blocks a save before any network call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Controller owns the console state and orchestrates debounced listing
// refreshes and write-then-refresh mutations. One controller serves one view
// instance.
type Controller struct {
	mu    sync.Mutex
	state State

	api API
	deb *debounce.Debouncer
	log zerolog.Logger

	issued  uint64 // listing requests issued
	applied uint64 // highest listing response applied
}

type config struct {
	quiet    time.Duration
	sched    debounce.Scheduler
	pageSize int
	logger   zerolog.Logger
}

// Option configures a Controller.
type Option func(*config)

// WithQuietPeriod sets the search debounce quiet period.
func WithQuietPeriod(d time.Duration) Option {
	return func(c *config) { c.quiet = d }
}

// WithScheduler sets the debounce scheduler; tests use a simulated clock.
func WithScheduler(s debounce.Scheduler) Option {
	return func(c *config) { c.sched = s }
}

// WithPageSize sets the initial page size.
func WithPageSize(n int) Option {
	return func(c *config) { c.pageSize = n }
}

// WithLogger sets the controller logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// NewController creates a controller over the given API.
func NewController(api API, opts ...Option) *Controller {
	cfg := config{
		quiet:    300 * time.Millisecond,
		sched:    debounce.SystemScheduler(),
		pageSize: 10,
		logger:   log.Logger,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Controller{
		state: NewState(cfg.pageSize),
		api:   api,
		deb:   debounce.NewWithScheduler(cfg.quiet, cfg.sched),
		log:   cfg.logger,
	}
}

// State returns a snapshot of the current controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) apply(e Event) {
	c.mu.Lock()
	c.state = Transition(c.state, e)
	c.mu.Unlock()
}

// SetSearch replaces the search field and text. The listing refresh is
// debounced so keystroke bursts dispatch a single request with the most
// recent arguments.
func (c *Controller) SetSearch(field, text string) {
	c.apply(SearchChanged{Field: field, Text: text})
	c.deb.Do(func() {
		c.Refresh(context.Background())
	})
}

// SetPage moves to another page and refreshes immediately.
func (c *Controller) SetPage(ctx context.Context, page int) {
	c.apply(PageChanged{Page: page})
	c.Refresh(ctx)
}

// SetPageSize replaces the page size, resets to the first page and refreshes.
func (c *Controller) SetPageSize(ctx context.Context, size int) {
	c.apply(PageSizeChanged{Size: size})
	c.Refresh(ctx)
}

// ToggleSort selects a sort column and refreshes.
func (c *Controller) ToggleSort(ctx context.Context, key string) {
	c.apply(SortToggled{Key: key})
	c.Refresh(ctx)
}

// OpenCreate opens the dialog seeded with an empty record.
func (c *Controller) OpenCreate() {
	c.apply(DialogOpened{})
}

// OpenEdit opens the dialog seeded with a copy of the given record. Edits to
// the working copy never touch the cached list entry.
func (c *Controller) OpenEdit(u models.User) {
	c.apply(DialogOpened{User: &u})
}

// SetWorking replaces the working record's editable fields.
func (c *Controller) SetWorking(u models.User) {
	c.apply(WorkingChanged{User: u})
}

// CloseDialog dismisses the dialog and discards the working record.
func (c *Controller) CloseDialog() {
	c.apply(DialogDismissed{})
}

// Save validates the working record, creates or updates it, and on success
// closes the dialog and re-derives the listing from the store. Validation
// and store failures keep the dialog open with the error shown.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	working := c.state.Working
	editing := c.state.Dialog == DialogEdit
	c.mu.Unlock()

	if msg := ValidateUser(working); msg != "" {
		c.apply(SaveRejected{Message: msg})
		return &ValidationError{Message: msg}
	}

	var err error
	if editing && working.ID != uuid.Nil {
		upd := models.UserUpdate{
			FullName: &working.FullName,
			Email:    &working.Email,
			Role:     &working.Role,
		}
		err = c.api.UpdateUser(ctx, working.ID, upd)
	} else {
		_, err = c.api.CreateUser(ctx, models.NewUser{
			FullName: working.FullName,
			Email:    working.Email,
			Role:     working.Role,
		})
	}

	if err != nil {
		c.log.Error().Err(err).Msg("failed to save user")
		c.apply(SaveFailed{Message: err.Error()})
		return err
	}

	c.apply(SaveSucceeded{})
	c.Refresh(ctx)
	return nil
}

// Delete removes a user by ID and re-derives the listing from the store.
// There is no undo.
func (c *Controller) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.api.DeleteUser(ctx, id); err != nil {
		c.log.Error().Err(err).Str("user_id", id.String()).Msg("failed to delete user")
		return err
	}

	c.Refresh(ctx)
	return nil
}

// Refresh issues a listing request for the current filters, sort and page.
// Each request carries a sequence number; a response is dropped when a newer
// response has already landed, so a slow early request can never overwrite
// fresher data.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.state.Loading = true
	query := c.state.Query()
	c.mu.Unlock()

	page, err := c.api.ListUsers(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq < c.applied {
		return
	}
	c.applied = seq

	if err != nil {
		c.log.Error().Err(err).Msg("failed to refresh user listing")
		c.state = Transition(c.state, ListFailed{Message: err.Error()})
		return
	}

	c.state = Transition(c.state, ListLoaded{Users: page.Users, Total: page.Total})
}

// Close cancels any pending debounced refresh. Call on view teardown.
func (c *Controller) Close() {
	c.deb.Cancel()
}
