package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"themesync/internal/services"
)

const (
	defaultBaseURL = "https://www.googleapis.com/drive/v3"
	userAgent      = "themesync/0.1.0"
	folderMimeType = "application/vnd.google-apps.folder"
	listPageSize   = 1000
)

// Client talks to the Drive v3 REST API with an API key.
type Client struct {
	baseURL   string
	apiKey    string
	rootID    string
	themeFile string
	client    *http.Client
}

// New constructs a Drive client for the given root folder.
func New(rootID, apiKey, themeFile string) *Client {
	return &Client{
		baseURL:   defaultBaseURL,
		apiKey:    apiKey,
		rootID:    rootID,
		themeFile: themeFile,
		client:    &http.Client{Timeout: 2 * time.Minute},
	}
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = strings.TrimRight(base, "/")
}

type listResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Files         []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"files"`
}

// ListFolders returns every movie folder under the root, sorted by name so
// downstream tie-breaks are deterministic across runs.
func (c *Client) ListFolders(ctx context.Context) ([]*Folder, error) {
	query := fmt.Sprintf("'%s' in parents and mimeType='%s'", c.rootID, folderMimeType)

	var folders []*Folder
	pageToken := ""
	for {
		page, err := c.listPage(ctx, query, pageToken)
		if err != nil {
			return nil, err
		}
		for _, file := range page.Files {
			title, year := ParseFolderName(file.Name)
			folders = append(folders, &Folder{
				ID:    file.ID,
				Name:  file.Name,
				Title: title,
				Year:  year,
			})
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	sort.SliceStable(folders, func(i, j int) bool {
		return folders[i].Name < folders[j].Name
	})
	return folders, nil
}

// FindThemeFile locates the theme audio file inside a movie folder and returns
// its file identifier. services.ErrNotFound when the folder has none.
func (c *Client) FindThemeFile(ctx context.Context, folderID string) (string, error) {
	name := strings.ReplaceAll(c.themeFile, `'`, `\'`)
	query := fmt.Sprintf("'%s' in parents and name='%s'", folderID, name)

	page, err := c.listPage(ctx, query, "")
	if err != nil {
		return "", err
	}
	if len(page.Files) == 0 {
		return "", services.Wrap(services.ErrNotFound, "drive", "find theme", fmt.Sprintf("no %s in folder %s", c.themeFile, folderID), nil)
	}
	return page.Files[0].ID, nil
}

// Download streams a file to destPath. Partial or empty downloads are removed;
// an empty file is reported as a transient failure, never kept.
func (c *Client) Download(ctx context.Context, fileID, destPath string) error {
	endpoint := fmt.Sprintf("%s/files/%s?alt=media&key=%s", c.baseURL, url.PathEscape(fileID), url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "drive", "download", "", err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp, "download"); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create target directory: %w", err)
	}

	dest, err := os.OpenFile(destPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	written, copyErr := io.Copy(dest, resp.Body)
	if copyErr == nil {
		copyErr = dest.Sync()
	}
	if closeErr := dest.Close(); copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(destPath)
		return services.Wrap(services.ErrTransient, "drive", "download", "write file", copyErr)
	}
	if written == 0 {
		_ = os.Remove(destPath)
		return services.Wrap(services.ErrTransient, "drive", "download", "empty file", nil)
	}
	return nil
}

func (c *Client) listPage(ctx context.Context, query, pageToken string) (*listResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("fields", "nextPageToken, files(id, name)")
	params.Set("pageSize", fmt.Sprint(listPageSize))
	params.Set("key", c.apiKey)
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	endpoint := fmt.Sprintf("%s/files?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "drive", "list", "", err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp, "list"); err != nil {
		return nil, err
	}

	var page listResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, services.Wrap(services.ErrTransient, "drive", "list", "decode response", err)
	}
	return &page, nil
}

func classifyStatus(resp *http.Response, operation string) error {
	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		return services.Wrap(services.ErrRateLimited, "drive", operation, fmt.Sprintf("status %d", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "drive", operation, "status 404", nil)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return services.Wrap(services.ErrTransient, "drive", operation,
			fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
}
