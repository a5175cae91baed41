package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/RogueOneEcho/gazelle-api/internal/format"
	"github.com/RogueOneEcho/gazelle-api/pkg/gazelle"
)

// parseID parses a positive integer ID argument.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q: %w (want a positive integer)", arg, ErrInvalidID)
	}
	return id, nil
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeFileExclusive writes data to path.
// It fails if the file already exists (O_EXCL), preventing accidental overwrites.
// On write failure, the partial file is removed.
func writeFileExclusive(path string, data []byte) error {
	// #nosec G302 G304 -- user-specified output file with standard permissions
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrOutputExists)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	writeErr := func() error {
		defer func() { _ = f.Close() }()
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}()

	if writeErr != nil {
		_ = os.Remove(path)
		return writeErr
	}

	return nil
}

// maskSecret hides all but the last four characters of s.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

// artistNames joins the main artists of a group.
func artistNames(g gazelle.Group) string {
	if g.MusicInfo == nil || len(g.MusicInfo.Artists) == 0 {
		return ""
	}
	names := make([]string, 0, len(g.MusicInfo.Artists))
	for _, a := range g.MusicInfo.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// groupTitle renders "Artist - Name (Year)".
func groupTitle(g gazelle.Group) string {
	title := g.Name
	if artists := artistNames(g); artists != "" {
		title = artists + " - " + title
	}
	if g.Year > 0 {
		title += fmt.Sprintf(" (%d)", g.Year)
	}
	return title
}

// editionLabel renders the remaster details of a torrent, e.g.
// "2011 Deluxe / Label / CAT-001".
func editionLabel(t gazelle.Torrent) string {
	if !t.Remastered {
		return "Original"
	}
	var parts []string
	head := strings.TrimSpace(strings.Join([]string{yearString(t.RemasterYear), t.RemasterTitle}, " "))
	for _, p := range []string{head, t.RemasterRecordLabel, t.RemasterCatalogueNumber} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "Remaster"
	}
	return strings.Join(parts, " / ")
}

func yearString(y int) string {
	if y <= 0 {
		return ""
	}
	return strconv.Itoa(y)
}

// encodingLabel renders "FLAC 24bit Lossless".
func encodingLabel(t gazelle.Torrent) string {
	return strings.TrimSpace(t.Format + " " + t.Encoding)
}

// newTable returns a table writer in the shared style.
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

// renderTorrent prints a torrent and its group as a two-column table.
func renderTorrent(w io.Writer, resp *gazelle.TorrentResponse) {
	t := newTable(w)
	tor := resp.Torrent
	t.AppendRows([]table.Row{
		{"Release", groupTitle(resp.Group)},
		{"Group ID", resp.Group.ID},
		{"Torrent ID", tor.ID},
		{"Encoding", encodingLabel(tor)},
		{"Media", tor.Media},
		{"Edition", editionLabel(tor)},
		{"Size", format.Size(tor.Size)},
		{"Files", fmt.Sprintf("%d (%d FLAC)", tor.FileCount, len(tor.FLACs()))},
		{"Peers", fmt.Sprintf("%d seeding, %d leeching, %d snatched", tor.Seeders, tor.Leechers, tor.Snatched)},
	})
	if tor.HasLog {
		t.AppendRow(table.Row{"Log", fmt.Sprintf("%d%%", tor.LogScore)})
	}
	if tor.Username != "" {
		t.AppendRow(table.Row{"Uploader", tor.Username})
	}
	t.AppendRow(table.Row{"Uploaded", tor.Time})
	t.Render()
}

// renderGroup prints a group title and a table of its torrents.
func renderGroup(w io.Writer, resp *gazelle.GroupResponse) {
	fmt.Fprintln(w, groupTitle(resp.Group))
	if len(resp.Group.Tags) > 0 {
		fmt.Fprintln(w, strings.Join(resp.Group.Tags, ", "))
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Media", "Encoding", "Edition", "Size", "Seeders", "Snatched"})
	var total int64
	for _, tor := range resp.Torrents {
		total += tor.Size
		t.AppendRow(table.Row{
			tor.ID,
			tor.Media,
			encodingLabel(tor),
			editionLabel(tor),
			format.Size(tor.Size),
			tor.Seeders,
			tor.Snatched,
		})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d torrents", len(resp.Torrents)), "", format.Size(total), "", ""})
	t.Render()
}

// renderUser prints a user profile summary.
func renderUser(w io.Writer, u *gazelle.User) {
	t := newTable(w)
	t.AppendRows([]table.Row{
		{"Username", u.Username},
		{"Class", u.Personal.Class},
		{"Joined", u.Stats.JoinedDate},
		{"Last seen", u.Stats.LastAccess},
		{"Uploaded", format.Size(u.Stats.Uploaded)},
		{"Downloaded", format.Size(u.Stats.Downloaded)},
		{"Ratio", format.Ratio(u.Stats.Uploaded, u.Stats.Downloaded)},
		{"Required ratio", fmt.Sprintf("%.2f", u.Stats.RequiredRatio)},
		{"Uploads", u.Community.Uploaded},
		{"Seeding", u.Community.Seeding},
		{"Snatched", u.Community.Snatched},
	})
	t.Render()
}
