package gazelle_test

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/RogueOneEcho/gazelle-api/pkg/gazelle"
)

// ---------------------------------------------------------------------------
// TestFLACs - file list parsing
// ---------------------------------------------------------------------------

func TestFLACs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fileList string
		want     []string
	}{
		{"empty", "", []string{}},
		{"single", "track.flac{{{123}}}", []string{"track.flac"}},
		{
			"mixed with nested paths",
			"CD1/01 - A.flac{{{1}}}|||CD1/cover.jpg{{{2}}}|||CD2/01 - B.flac{{{3}}}|||album.log{{{4}}}",
			[]string{"CD1/01 - A.flac", "CD2/01 - B.flac"},
		},
		{"no flacs", "01.mp3{{{1}}}|||02.mp3{{{2}}}", []string{}},
		{"uppercase extension is ignored", "01.FLAC{{{1}}}", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := gazelle.Torrent{FileList: tt.fileList}.FLACs()
			if !slices.Equal(got, tt.want) {
				t.Errorf("FLACs() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestUploadResponseIDs - RED and OPS spellings
// ---------------------------------------------------------------------------

func TestUploadResponseIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantTorrent int
		wantGroup   int
	}{
		{"lower case", `{"private":true,"source":true,"torrentid":1,"groupid":2}`, 1, 2},
		{"camel case", `{"private":true,"source":true,"torrentId":3,"groupId":4}`, 3, 4},
		{"absent", `{"private":false,"source":false}`, 0, 0},
		{"lower case preferred", `{"torrentid":5,"torrentId":6,"groupid":7,"groupId":8}`, 5, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var resp gazelle.UploadResponse
			if err := json.Unmarshal([]byte(tt.body), &resp); err != nil {
				t.Fatalf("Unmarshal() unexpected error: %v", err)
			}
			if got := resp.TorrentID(); got != tt.wantTorrent {
				t.Errorf("TorrentID() = %d, want %d", got, tt.wantTorrent)
			}
			if got := resp.GroupID(); got != tt.wantGroup {
				t.Errorf("GroupID() = %d, want %d", got, tt.wantGroup)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestNewSourceTextFields - conditional form fields
// ---------------------------------------------------------------------------

func fieldMap(fields []gazelle.FormField) map[string][]string {
	m := map[string][]string{}
	for _, f := range fields {
		m[f.Name] = append(m[f.Name], f.Value)
	}
	return m
}

func TestNewSourceTextFields(t *testing.T) {
	t.Parallel()

	base := gazelle.NewSourceUploadForm{
		Title:       "Example Album",
		Year:        2024,
		ReleaseType: 21,
		Media:       "WEB",
		Tags:        []string{"electronic"},
		Edition: gazelle.NewSourceEdition{
			Year:            2024,
			Title:           "Digital",
			RecordLabel:     "Label",
			CatalogueNumber: "CAT-001",
			Format:          "FLAC",
			Bitrate:         "Lossless",
		},
		Artists: []gazelle.NewSourceArtist{{Name: "Artist", Role: 1}},
	}
	editionKeys := []string{"remaster_year", "remaster_title", "remaster_record_label", "remaster_catalogue_number"}

	t.Run("known release includes edition", func(t *testing.T) {
		t.Parallel()
		fields := fieldMap(base.TextFields())
		if got := fields["unknown"]; !slices.Equal(got, []string{"0"}) {
			t.Errorf("unknown = %q, want [0]", got)
		}
		for _, k := range editionKeys {
			if _, ok := fields[k]; !ok {
				t.Errorf("missing field %s", k)
			}
		}
		if got := fields["releasetype"]; !slices.Equal(got, []string{"21"}) {
			t.Errorf("releasetype = %q, want [21]", got)
		}
	})

	t.Run("unknown release omits edition", func(t *testing.T) {
		t.Parallel()
		form := base
		form.Edition.UnknownRelease = true
		fields := fieldMap(form.TextFields())
		if got := fields["unknown"]; !slices.Equal(got, []string{"1"}) {
			t.Errorf("unknown = %q, want [1]", got)
		}
		for _, k := range editionKeys {
			if _, ok := fields[k]; ok {
				t.Errorf("field %s present for unknown release", k)
			}
		}
	})

	t.Run("optional fields omitted when unset", func(t *testing.T) {
		t.Parallel()
		fields := fieldMap(base.TextFields())
		for _, k := range []string{"requestid", "image", "remaster"} {
			if _, ok := fields[k]; ok {
				t.Errorf("field %s present, want omitted", k)
			}
		}
	})

	t.Run("optional fields included when set", func(t *testing.T) {
		t.Parallel()
		off := false
		form := base
		form.RequestID = 123456
		form.Image = "https://example.com/cover.jpg"
		form.Edition.Remaster = &off
		fields := fieldMap(form.TextFields())
		if got := fields["requestid"]; !slices.Equal(got, []string{"123456"}) {
			t.Errorf("requestid = %q", got)
		}
		if got := fields["image"]; !slices.Equal(got, []string{"https://example.com/cover.jpg"}) {
			t.Errorf("image = %q", got)
		}
		if got := fields["remaster"]; !slices.Equal(got, []string{"0"}) {
			t.Errorf("remaster = %q, want [0]", got)
		}
	})
}

func TestUploadFormTextFields(t *testing.T) {
	t.Parallel()

	fields := fieldMap(gazelle.UploadForm{GroupID: 42, Format: "MP3", Bitrate: "V0 (VBR)"}.TextFields())
	if got := fields["remaster"]; !slices.Equal(got, []string{"1"}) {
		t.Errorf("remaster = %q, want [1]", got)
	}
	if got := fields["groupid"]; !slices.Equal(got, []string{"42"}) {
		t.Errorf("groupid = %q, want [42]", got)
	}
	if got := fields["bitrate"]; !slices.Equal(got, []string{"V0 (VBR)"}) {
		t.Errorf("bitrate = %q", got)
	}
}
