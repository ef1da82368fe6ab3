package plex

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"themesync/internal/library"
	"themesync/internal/services"
)

const userAgent = "themesync/0.1.0"

// Client talks to a Plex server with a fixed token and movie library section.
// It implements library.Source.
type Client struct {
	baseURL     string
	token       string
	libraryName string
	client      *http.Client

	mu         sync.Mutex
	sectionKey string
}

// New constructs a Plex client. baseURL must not have a trailing slash.
func New(baseURL, token, libraryName string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:       strings.TrimSpace(token),
		libraryName: strings.TrimSpace(libraryName),
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

type sectionsContainer struct {
	Directories []struct {
		Key   string `xml:"key,attr"`
		Title string `xml:"title,attr"`
	} `xml:"Directory"`
}

type moviesContainer struct {
	Videos []struct {
		RatingKey string `xml:"ratingKey,attr"`
		Title     string `xml:"title,attr"`
		Year      int    `xml:"year,attr"`
		Theme     string `xml:"theme,attr"`
		Media     []struct {
			Parts []struct {
				File string `xml:"file,attr"`
			} `xml:"Part"`
		} `xml:"Media"`
	} `xml:"Video"`
}

// Movies returns the configured library section's movies. The server being
// unreachable is fatal for the run and reported as services.ErrUnavailable.
func (c *Client) Movies(ctx context.Context) ([]library.Movie, error) {
	key, err := c.ensureSectionKey(ctx)
	if err != nil {
		return nil, err
	}

	var container moviesContainer
	endpoint := fmt.Sprintf("%s/library/sections/%s/all", c.baseURL, key)
	if err := c.getXML(ctx, endpoint, &container); err != nil {
		return nil, err
	}

	movies := make([]library.Movie, 0, len(container.Videos))
	for _, video := range container.Videos {
		if video.RatingKey == "" {
			continue
		}
		movie := library.Movie{
			RatingKey: video.RatingKey,
			Title:     video.Title,
			Year:      video.Year,
			HasTheme:  strings.TrimSpace(video.Theme) != "",
		}
		if len(video.Media) > 0 && len(video.Media[0].Parts) > 0 {
			movie.Path = video.Media[0].Parts[0].File
		}
		movies = append(movies, movie)
	}
	return movies, nil
}

// RefreshItem asks Plex to rescan metadata for one item so a freshly placed
// theme file is picked up.
func (c *Client) RefreshItem(ctx context.Context, ratingKey string) error {
	endpoint := fmt.Sprintf("%s/library/metadata/%s/refresh", c.baseURL, ratingKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build refresh request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "plex", "refresh", ratingKey, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return services.Wrap(services.ErrTransient, "plex", "refresh",
			fmt.Sprintf("item %s: status %d: %s", ratingKey, resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) ensureSectionKey(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sectionKey != "" {
		return c.sectionKey, nil
	}

	var container sectionsContainer
	if err := c.getXML(ctx, c.baseURL+"/library/sections", &container); err != nil {
		return "", err
	}

	for _, dir := range container.Directories {
		if strings.EqualFold(dir.Title, c.libraryName) && dir.Key != "" {
			c.sectionKey = dir.Key
			return c.sectionKey, nil
		}
	}
	return "", services.Wrap(services.ErrConfiguration, "plex", "sections",
		fmt.Sprintf("library %q not found", c.libraryName), nil)
}

func (c *Client) getXML(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build plex request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrUnavailable, "plex", "get", endpoint, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return services.Wrap(services.ErrUnavailable, "plex", "get",
			fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrTransient, "plex", "decode", endpoint, err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/xml")
	req.Header.Set("User-Agent", userAgent)
}
