package gazelletest

import "github.com/RogueOneEcho/gazelle-api/pkg/gazelle"

// Group returns a music release fixture with ID 123.
func Group() gazelle.Group {
	return gazelle.Group{
		ID:              123,
		Name:            "Test Album",
		Year:            2020,
		RecordLabel:     "Test Label",
		CatalogueNumber: "TEST-001",
		ReleaseType:     1,
		CategoryID:      1,
		CategoryName:    "Music",
		Time:            "2020-01-01 00:00:00",
		Tags:            []string{"rock"},
		WikiBody:        "Test wiki body",
		WikiImage:       "https://example.com/image.jpg",
		MusicInfo: &gazelle.Credits{
			Artists: []gazelle.Credit{{ID: 1, Name: "Test Artist"}},
		},
	}
}

// Torrent returns a FLAC torrent fixture with ID 456 in group 123.
func Torrent() gazelle.Torrent {
	return gazelle.Torrent{
		ID:        456,
		Media:     "CD",
		Format:    "FLAC",
		Encoding:  "Lossless",
		HasLog:    true,
		HasCue:    true,
		LogScore:  100,
		FileCount: 2,
		Size:      52428800,
		Seeders:   10,
		Snatched:  25,
		Time:      "2020-01-02 00:00:00",
		FileList:  "01 First.flac{{{26214400}}}|||02 Second.flac{{{26214400}}}",
		FilePath:  "Test Artist - Test Album (2020) [FLAC]",
		UserID:    1,
		Username:  "uploader",
	}
}

func TorrentResponse() *gazelle.TorrentResponse {
	return &gazelle.TorrentResponse{Group: Group(), Torrent: Torrent()}
}

func GroupResponse() *gazelle.GroupResponse {
	mp3 := Torrent()
	mp3.ID = 457
	mp3.Format = "MP3"
	mp3.Encoding = "V0 (VBR)"
	mp3.HasLog, mp3.HasCue, mp3.LogScore = false, false, 0
	return &gazelle.GroupResponse{Group: Group(), Torrents: []gazelle.Torrent{Torrent(), mp3}}
}

func User() *gazelle.User {
	return &gazelle.User{
		Username: "testuser",
		Stats: gazelle.Stats{
			JoinedDate:    "2019-06-01 12:00:00",
			LastAccess:    "2020-01-03 08:30:00",
			Uploaded:      10737418240,
			Downloaded:    5368709120,
			Ratio:         2.0,
			RequiredRatio: 0.6,
		},
		Personal: gazelle.Personal{Class: "Power User", Enabled: true},
		Community: gazelle.Community{
			Uploaded: 12,
			Seeding:  40,
			Snatched: 100,
		},
	}
}

func UploadResponse() *gazelle.UploadResponse {
	torrentID, groupID := 456, 123
	return &gazelle.UploadResponse{
		Private:        true,
		Source:         true,
		TorrentIDLower: &torrentID,
		GroupIDLower:   &groupID,
	}
}
