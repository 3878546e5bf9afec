// Package client is the Go client for the village board API. It carries the
// HTTP client plus the Session type that caches the authenticated member
// across restarts and gates owner-only operations.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"time"
)

// Member mirrors the server's member representation. The password hash is
// never present in any response.
type Member struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Announcement mirrors the server's announcement representation.
type Announcement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AnnouncementWithOwner is a listed announcement annotated with its owner's
// display name.
type AnnouncementWithOwner struct {
	Announcement
	OwnerName string `json:"owner_name"`
}

// SessionGrant is what a successful login returns: the minimal identity plus
// the member record the server already had at hand.
type SessionGrant struct {
	MemberID     string  `json:"member_id"`
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token,omitempty"`
	Member       *Member `json:"member,omitempty"`
}

// APIError is a non-2xx response decoded into the server's error shape.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the village board API. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken sets the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// RegisterInput carries a registration request. Image is optional.
type RegisterInput struct {
	Name          string
	Email         string
	Password      string
	ImageFilename string
	Image         io.Reader
}

// Register creates a new member via multipart form.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*Member, error) {
	fields := map[string]string{
		"name":     in.Name,
		"email":    in.Email,
		"password": in.Password,
	}
	var member Member
	if err := c.doMultipart(ctx, http.MethodPost, "/members", fields, in.ImageFilename, in.Image, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// Login opens a session and returns the grant for Session.Establish.
func (c *Client) Login(ctx context.Context, email, password string) (*SessionGrant, error) {
	body := map[string]string{"email": email, "password": password}
	var grant SessionGrant
	if err := c.doJSON(ctx, http.MethodPost, "/sessions", body, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

// Refresh exchanges a refresh token for a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var grant SessionGrant
	if err := c.doJSON(ctx, http.MethodPost, "/sessions/refresh", body, &grant); err != nil {
		return "", err
	}
	return grant.AccessToken, nil
}

// Logout invalidates the refresh token server-side.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refresh_token": refreshToken}
	return c.doJSON(ctx, http.MethodDelete, "/sessions", body, nil)
}

// ListMembers returns the member directory.
func (c *Client) ListMembers(ctx context.Context) ([]Member, error) {
	var members []Member
	if err := c.doJSON(ctx, http.MethodGet, "/members", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// GetMember fetches a single member by id.
func (c *Client) GetMember(ctx context.Context, id string) (*Member, error) {
	var member Member
	if err := c.doJSON(ctx, http.MethodGet, "/members/"+id, nil, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// ProfileUpdateInput carries a partial profile update. Empty fields are not sent.
type ProfileUpdateInput struct {
	Name          string
	Email         string
	ImageFilename string
	Image         io.Reader
}

// UpdateProfile updates the caller's own profile via multipart form.
func (c *Client) UpdateProfile(ctx context.Context, id string, in ProfileUpdateInput) (*Member, error) {
	fields := map[string]string{}
	if in.Name != "" {
		fields["name"] = in.Name
	}
	if in.Email != "" {
		fields["email"] = in.Email
	}
	var member Member
	if err := c.doMultipart(ctx, http.MethodPut, "/members/"+id, fields, in.ImageFilename, in.Image, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// CreateAnnouncementInput carries a new announcement. Status may be empty to
// accept the server default (pending).
type CreateAnnouncementInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
	OwnerID     string `json:"owner_id"`
}

// CreateAnnouncement submits a new announcement.
func (c *Client) CreateAnnouncement(ctx context.Context, in CreateAnnouncementInput) (*Announcement, error) {
	var announcement Announcement
	if err := c.doJSON(ctx, http.MethodPost, "/announcements", in, &announcement); err != nil {
		return nil, err
	}
	return &announcement, nil
}

// ListAnnouncements returns all announcements with owner display names.
func (c *Client) ListAnnouncements(ctx context.Context) ([]AnnouncementWithOwner, error) {
	var announcements []AnnouncementWithOwner
	if err := c.doJSON(ctx, http.MethodGet, "/announcements", nil, &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}

// ListAnnouncementsByOwner returns the announcements owned by one member.
func (c *Client) ListAnnouncementsByOwner(ctx context.Context, ownerID string) ([]Announcement, error) {
	var announcements []Announcement
	if err := c.doJSON(ctx, http.MethodGet, "/announcements/owner/"+ownerID, nil, &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}

// AnnouncementUpdateInput carries a partial announcement edit.
type AnnouncementUpdateInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateAnnouncement edits an owned announcement.
func (c *Client) UpdateAnnouncement(ctx context.Context, id string, in AnnouncementUpdateInput) (*Announcement, error) {
	var announcement Announcement
	if err := c.doJSON(ctx, http.MethodPut, "/announcements/"+id, in, &announcement); err != nil {
		return nil, err
	}
	return &announcement, nil
}

// DeleteAnnouncement removes an owned announcement.
func (c *Client) DeleteAnnouncement(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/announcements/"+id, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, imageFilename string, image io.Reader, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("write form field: %w", err)
		}
	}
	if image != nil {
		part, err := writer.CreateFormFile("profileImage", imageFilename)
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, image); err != nil {
			return fmt.Errorf("write form file: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError handles both error shapes the server emits: the structured
// {"error": ..., "code": ...} body for domain errors, and echo's
// {"message": ...} envelope for binding and middleware failures.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}

	var structured struct {
		Error   string `json:"error"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &structured); err != nil {
		return apiErr
	}

	if structured.Error != "" {
		apiErr.Message = structured.Error
		apiErr.Code = structured.Code
	} else if structured.Message != "" {
		apiErr.Message = structured.Message
	}
	return apiErr
}
