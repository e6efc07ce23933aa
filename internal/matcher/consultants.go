package matcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	consultantsPath       = "/consultant-profile/"
	consultantSearchPath  = "/consultant-profile/search"
	consultantUploadsPath = "/consultant-profile/upload-pdfs/"

	uploadField = "files"
)

type Availability string

const (
	Available   Availability = "available"
	Busy        Availability = "busy"
	Unavailable Availability = "unavailable"
)

// Availabilities lists every availability the backend accepts.
var Availabilities = []Availability{Available, Busy, Unavailable}

func ParseAvailability(s string) (Availability, error) {
	a := Availability(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Availabilities {
		if a == known {
			return a, nil
		}
	}

	return "", fmt.Errorf("unknown availability %q", s)
}

type ConsultantProfile struct {
	ID           int          `json:"id,omitempty" yaml:"id,omitempty"`
	Name         string       `json:"name" yaml:"name"`
	Email        string       `json:"email" yaml:"email"`
	Phone        string       `json:"phone,omitempty" yaml:"phone,omitempty"`
	Skills       []string     `json:"skills" yaml:"skills"`
	Experience   int          `json:"experience,omitempty" yaml:"experience,omitempty"`
	Location     string       `json:"location,omitempty" yaml:"location,omitempty"`
	Project      string       `json:"project,omitempty" yaml:"project,omitempty"`
	Availability Availability `json:"availability" yaml:"availability"`
	CreatedAt    string       `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// ConsultantInput is the payload for creating or updating a consultant.
// Optional fields are omitted when empty.
type ConsultantInput struct {
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Skills       []string     `json:"skills"`
	Availability Availability `json:"availability"`
	Phone        string       `json:"phone,omitempty"`
	Experience   *int         `json:"experience,omitempty"`
	Location     string       `json:"location,omitempty"`
	Project      string       `json:"project,omitempty"`
}

func (c *Client) ListConsultants(ctx context.Context) ([]*ConsultantProfile, error) {
	var consultants []*ConsultantProfile
	if err := c.getJSON(ctx, c.endpoint(consultantsPath), nil, &consultants); err != nil {
		return nil, fmt.Errorf("list consultants: %w", err)
	}

	return consultants, nil
}

func (c *Client) GetConsultant(ctx context.Context, id int) (*ConsultantProfile, error) {
	var consultant ConsultantProfile
	if err := c.getJSON(ctx, c.consultantURL(id), nil, &consultant); err != nil {
		return nil, fmt.Errorf("get consultant %d: %w", id, err)
	}

	return &consultant, nil
}

func (c *Client) CreateConsultant(ctx context.Context, in *ConsultantInput) (*ConsultantProfile, error) {
	var consultant ConsultantProfile
	if err := c.sendJSON(ctx, http.MethodPost, c.endpoint(consultantsPath), in, &consultant); err != nil {
		return nil, fmt.Errorf("create consultant: %w", consultantWriteError(err))
	}

	return &consultant, nil
}

func (c *Client) UpdateConsultant(ctx context.Context, id int, in *ConsultantInput) error {
	if err := c.sendJSON(ctx, http.MethodPut, c.consultantURL(id), in, nil); err != nil {
		return fmt.Errorf("update consultant %d: %w", id, consultantWriteError(err))
	}

	return nil
}

func (c *Client) DeleteConsultant(ctx context.Context, id int) error {
	if err := c.sendJSON(ctx, http.MethodDelete, c.consultantURL(id), nil, nil); err != nil {
		return fmt.Errorf("delete consultant %d: %w", id, err)
	}

	return nil
}

func (c *Client) UpdateAvailability(ctx context.Context, id int, availability Availability) (*ConsultantProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.consultantURL(id)+"/availability", nil)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("availability", string(availability))
	req.URL.RawQuery = q.Encode()

	var consultant ConsultantProfile
	if err := c.do(req, &consultant); err != nil {
		return nil, fmt.Errorf("update availability for consultant %d: %w", id, err)
	}

	return &consultant, nil
}

// SearchBySkill runs the backend-side skill search.
func (c *Client) SearchBySkill(ctx context.Context, skill string) ([]*ConsultantProfile, error) {
	q := url.Values{}
	q.Set("skill", skill)

	var consultants []*ConsultantProfile
	if err := c.getJSON(ctx, c.endpoint(consultantSearchPath), q, &consultants); err != nil {
		return nil, fmt.Errorf("search consultants with skill %q: %w", skill, err)
	}

	return consultants, nil
}

// UploadConsultants sends resumes to the backend, which extracts the profiles.
func (c *Client) UploadConsultants(ctx context.Context, paths []string) ([]*ConsultantProfile, error) {
	var consultants []*ConsultantProfile
	if err := c.postFiles(ctx, c.endpoint(consultantUploadsPath), uploadField, paths, &consultants); err != nil {
		return nil, fmt.Errorf("upload consultant resumes: %w", err)
	}

	return consultants, nil
}

func (c *Client) consultantURL(id int) string {
	return c.endpoint(fmt.Sprintf("%s%d", consultantsPath, id))
}
