// Command themesync synchronizes movie theme audio from a shared Drive folder
// into a Plex movie library.
package main
