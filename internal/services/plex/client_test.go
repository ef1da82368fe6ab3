package plex

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"themesync/internal/services"
)

const sectionsXML = `<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer size="2">
  <Directory key="3" title="TV Shows" type="show"/>
  <Directory key="1" title="Movies" type="movie"/>
</MediaContainer>`

const moviesXML = `<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer size="2">
  <Video ratingKey="101" title="Halloween" year="1978" theme="/library/metadata/101/theme">
    <Media>
      <Part file="/media/movies/Halloween (1978)/halloween.mkv"/>
    </Media>
  </Video>
  <Video ratingKey="102" title="Alien" year="1979">
    <Media>
      <Part file="/media/movies/Alien (1979)/alien.mkv"/>
    </Media>
  </Video>
</MediaContainer>`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, "token123", "Movies")
}

func TestMovies(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Plex-Token") != "token123" {
			t.Errorf("missing token header on %s", r.URL.Path)
		}
		switch r.URL.Path {
		case "/library/sections":
			fmt.Fprint(w, sectionsXML)
		case "/library/sections/1/all":
			fmt.Fprint(w, moviesXML)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
		}
	}))

	movies, err := client.Movies(context.Background())
	if err != nil {
		t.Fatalf("Movies: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("got %d movies, want 2", len(movies))
	}
	first := movies[0]
	if first.RatingKey != "101" || first.Title != "Halloween" || first.Year != 1978 {
		t.Errorf("first movie = %+v", first)
	}
	if !first.HasTheme {
		t.Error("movie with theme attribute should report HasTheme")
	}
	if first.Path != "/media/movies/Halloween (1978)/halloween.mkv" {
		t.Errorf("path = %q", first.Path)
	}
	if movies[1].HasTheme {
		t.Error("movie without theme attribute should not report HasTheme")
	}
}

func TestMoviesSectionKeyCached(t *testing.T) {
	sectionCalls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/library/sections":
			sectionCalls++
			fmt.Fprint(w, sectionsXML)
		case "/library/sections/1/all":
			fmt.Fprint(w, moviesXML)
		}
	}))

	for i := 0; i < 2; i++ {
		if _, err := client.Movies(context.Background()); err != nil {
			t.Fatalf("Movies: %v", err)
		}
	}
	if sectionCalls != 1 {
		t.Errorf("section listing called %d times, want 1", sectionCalls)
	}
}

func TestMoviesLibraryNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sectionsXML)
	}))
	t.Cleanup(server.Close)

	client := New(server.URL, "token123", "Anime")
	_, err := client.Movies(context.Background())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Errorf("error = %v, want ErrConfiguration", err)
	}
}

func TestMoviesServerUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := New(server.URL, "token123", "Movies")
	_, err := client.Movies(context.Background())
	if !errors.Is(err, services.ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestRefreshItem(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
	}))

	if err := client.RefreshItem(context.Background(), "101"); err != nil {
		t.Fatalf("RefreshItem: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/library/metadata/101/refresh" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
}

func TestRefreshItemFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))

	err := client.RefreshItem(context.Background(), "101")
	if !errors.Is(err, services.ErrTransient) {
		t.Errorf("error = %v, want ErrTransient", err)
	}
}
