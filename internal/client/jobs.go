package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Essateric/chaiiwala-sub001/internal/modules/auth"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/calendar"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/joblog"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/store"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/user"
)

// ListParams filters GET /jobs. Zero values are omitted.
type ListParams struct {
	StoreID int64
	Flag    joblog.Flag
}

// Values encodes p as a query string.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.StoreID > 0 {
		v.Set("storeId", strconv.FormatInt(p.StoreID, 10))
	}
	if p.Flag != "" {
		v.Set("flag", string(p.Flag))
	}
	return v
}

// CalendarParams mirrors the GET /calendar query.
type CalendarParams struct {
	View    calendar.Granularity
	Mode    calendar.Mode
	Date    string
	StoreID int64
}

// Login exchanges credentials for a token and stores it on c.
func (c *Client) Login(ctx context.Context, email, password string) (*auth.LoginResponse, error) {
	var resp auth.LoginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.call(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	c.Token = resp.Token
	return &resp, nil
}

func (c *Client) ListJobs(ctx context.Context, p ListParams) ([]*joblog.Job, error) {
	path := "/jobs"
	if q := p.Values().Encode(); q != "" {
		path += "?" + q
	}
	var jobs []*joblog.Job
	err := c.call(ctx, http.MethodGet, path, nil, &jobs)
	return jobs, err
}

func (c *Client) ListUnscheduled(ctx context.Context) ([]*joblog.Job, error) {
	var jobs []*joblog.Job
	err := c.call(ctx, http.MethodGet, "/jobs/unscheduled", nil, &jobs)
	return jobs, err
}

func (c *Client) GetJob(ctx context.Context, id int64) (*joblog.Job, error) {
	var job joblog.Job
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/jobs/%d", id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) CreateJob(ctx context.Context, req joblog.CreateJobRequest) (*joblog.Job, error) {
	var job joblog.Job
	if err := c.call(ctx, http.MethodPost, "/jobs", req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// PatchJob sends a partial date/time update. Unset patch fields are left
// out of the body.
func (c *Client) PatchJob(ctx context.Context, id int64, patch joblog.PatchRequest) (*joblog.Job, error) {
	var job joblog.Job
	if err := c.call(ctx, http.MethodPatch, fmt.Sprintf("/jobs/%d", id), patch, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// PersistSlot writes both date and time of job id, clearing whichever is nil.
func (c *Client) PersistSlot(ctx context.Context, id int64, slot joblog.Slot) (*joblog.Job, error) {
	return c.PatchJob(ctx, id, joblog.PatchFromSlot(slot))
}

func (c *Client) MoveToTomorrow(ctx context.Context, id int64) (*joblog.Job, error) {
	var job joblog.Job
	if err := c.call(ctx, http.MethodPost, fmt.Sprintf("/jobs/%d/move-tomorrow", id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) UpdateFlag(ctx context.Context, id int64, flag joblog.Flag) (*joblog.Job, error) {
	var job joblog.Job
	body := joblog.FlagRequest{Flag: string(flag)}
	if err := c.call(ctx, http.MethodPatch, fmt.Sprintf("/jobs/%d/flag", id), body, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) ListComments(ctx context.Context, jobID int64) ([]*joblog.Comment, error) {
	var comments []*joblog.Comment
	err := c.call(ctx, http.MethodGet, fmt.Sprintf("/jobs/%d/comments", jobID), nil, &comments)
	return comments, err
}

func (c *Client) PostComment(ctx context.Context, jobID int64, req joblog.CommentRequest) (*joblog.Comment, error) {
	var comment joblog.Comment
	if err := c.call(ctx, http.MethodPost, fmt.Sprintf("/jobs/%d/comments", jobID), req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) ListStores(ctx context.Context) ([]*store.Store, error) {
	var stores []*store.Store
	err := c.call(ctx, http.MethodGet, "/stores", nil, &stores)
	return stores, err
}

func (c *Client) GetStore(ctx context.Context, id int64) (*store.Store, error) {
	st := new(store.Store)
	err := c.call(ctx, http.MethodGet, "/stores/"+strconv.FormatInt(id, 10), nil, st)
	return st, err
}

// CreateStore adds a store. Only admins may call it.
func (c *Client) CreateStore(ctx context.Context, req store.CreateStoreRequest) (*store.Store, error) {
	st := new(store.Store)
	err := c.call(ctx, http.MethodPost, "/stores", req, st)
	return st, err
}

func (c *Client) Mentions(ctx context.Context, q string) ([]user.Mention, error) {
	var found []user.Mention
	err := c.call(ctx, http.MethodGet, "/users/mentions?"+url.Values{"q": {q}}.Encode(), nil, &found)
	return found, err
}

func (c *Client) Calendar(ctx context.Context, p CalendarParams) (*calendar.View, error) {
	v := url.Values{}
	if p.View != "" {
		v.Set("view", string(p.View))
	}
	if p.Mode != "" {
		v.Set("mode", string(p.Mode))
	}
	if p.Date != "" {
		v.Set("date", p.Date)
	}
	if p.StoreID > 0 {
		v.Set("storeId", strconv.FormatInt(p.StoreID, 10))
	}
	path := "/calendar"
	if q := v.Encode(); q != "" {
		path += "?" + q
	}
	var view calendar.View
	if err := c.call(ctx, http.MethodGet, path, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}
