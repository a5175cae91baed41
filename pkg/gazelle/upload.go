package gazelle

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// FormField is a multipart text field. Names may repeat.
type FormField struct {
	Name  string
	Value string
}

// UploadForm adds a new format to an existing group.
type UploadForm struct {
	// Path of the .torrent file to upload.
	Path string

	// CategoryID uses the upload form numbering, which differs from
	// Group.CategoryID.
	CategoryID              int
	RemasterYear            int
	RemasterTitle           string
	RemasterRecordLabel     string
	RemasterCatalogueNumber string
	Format                  string
	Bitrate                 string
	Media                   string
	ReleaseDesc             string
	GroupID                 int
}

// TextFields returns the multipart text fields of the form, in send order.
func (f UploadForm) TextFields() []FormField {
	return []FormField{
		{"type", strconv.Itoa(f.CategoryID)},
		{"remaster", "1"}, // required by OPS, ignored by RED
		{"remaster_title", f.RemasterTitle},
		{"remaster_record_label", f.RemasterRecordLabel},
		{"remaster_catalogue_number", f.RemasterCatalogueNumber},
		{"remaster_year", strconv.Itoa(f.RemasterYear)},
		{"format", f.Format},
		{"bitrate", f.Bitrate},
		{"media", f.Media},
		{"release_desc", f.ReleaseDesc},
		{"groupid", strconv.Itoa(f.GroupID)},
	}
}

// NewSourceArtist credits an artist on a new group.
type NewSourceArtist struct {
	Name string
	// Role is the importance index of the upload form, e.g. 1 Main, 2 Guest.
	Role int
}

// NewSourceEdition describes the edition of a new source upload.
type NewSourceEdition struct {
	// UnknownRelease omits the edition fields below Remaster.
	UnknownRelease  bool
	Remaster        *bool
	Year            int
	Title           string
	RecordLabel     string
	CatalogueNumber string
	Format          string
	Bitrate         string
}

// NewSourceUploadForm uploads a torrent that creates a new group.
type NewSourceUploadForm struct {
	Path        string
	CategoryID  int
	Title       string
	Year        int
	ReleaseType int
	Media       string
	Tags        []string
	AlbumDesc   string
	ReleaseDesc string
	RequestID   int    // 0 when not filling a request
	Image       string // cover URL, optional
	Edition     NewSourceEdition
	Artists     []NewSourceArtist
}

// TextFields returns the multipart text fields of the form, in send order.
func (f NewSourceUploadForm) TextFields() []FormField {
	fields := []FormField{
		{"type", strconv.Itoa(f.CategoryID)},
		{"title", f.Title},
		{"year", strconv.Itoa(f.Year)},
		{"releasetype", strconv.Itoa(f.ReleaseType)},
		{"format", f.Edition.Format},
		{"bitrate", f.Edition.Bitrate},
		{"media", f.Media},
		{"tags", strings.Join(f.Tags, ",")},
		{"album_desc", f.AlbumDesc},
		{"release_desc", f.ReleaseDesc},
		{"unknown", boolField(f.Edition.UnknownRelease)},
	}
	if f.RequestID != 0 {
		fields = append(fields, FormField{"requestid", strconv.Itoa(f.RequestID)})
	}
	if f.Image != "" {
		fields = append(fields, FormField{"image", f.Image})
	}
	if f.Edition.Remaster != nil {
		fields = append(fields, FormField{"remaster", boolField(*f.Edition.Remaster)})
	}
	if !f.Edition.UnknownRelease {
		fields = append(fields,
			FormField{"remaster_year", strconv.Itoa(f.Edition.Year)},
			FormField{"remaster_title", f.Edition.Title},
			FormField{"remaster_record_label", f.Edition.RecordLabel},
			FormField{"remaster_catalogue_number", f.Edition.CatalogueNumber},
		)
	}
	for _, a := range f.Artists {
		fields = append(fields,
			FormField{"artists[]", a.Name},
			FormField{"importance[]", strconv.Itoa(a.Role)},
		)
	}
	return fields
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// UploadResponse is the payload of action=upload. RED and OPS spell the ID
// members differently; use TorrentID and GroupID.
type UploadResponse struct {
	Private   bool `json:"private"`
	Source    bool `json:"source"`
	RequestID *int `json:"requestid,omitempty"`

	TorrentIDLower *int `json:"torrentid,omitempty"`
	GroupIDLower   *int `json:"groupid,omitempty"`
	TorrentIDCamel *int `json:"torrentId,omitempty"`
	GroupIDCamel   *int `json:"groupId,omitempty"`
}

// TorrentID returns the ID of the uploaded torrent, or 0 if absent.
func (r UploadResponse) TorrentID() int {
	return firstSet(r.TorrentIDLower, r.TorrentIDCamel)
}

// GroupID returns the ID of the group the torrent was added to, or 0 if absent.
func (r UploadResponse) GroupID() int {
	return firstSet(r.GroupIDLower, r.GroupIDCamel)
}

func firstSet(vals ...*int) int {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

// UploadTorrent adds a format to an existing group.
func (c *Client) UploadTorrent(ctx context.Context, form UploadForm) (*UploadResponse, error) {
	return c.upload(ctx, "upload torrent", form.Path, form.TextFields())
}

// UploadNewSource uploads a torrent creating a new group.
func (c *Client) UploadNewSource(ctx context.Context, form NewSourceUploadForm) (*UploadResponse, error) {
	return c.upload(ctx, "upload new source", form.Path, form.TextFields())
}

// upload reads the torrent file before waiting for the limiter so that an
// unreadable file never consumes a request slot.
func (c *Client) upload(ctx context.Context, op, path string, fields []FormField) (result *UploadResponse, err error) {
	log := c.requestLogger(op)
	start := time.Now()
	defer func() { c.finish(log, op, start, err) }()

	body, contentType, err := multipartBody(path, fields)
	if err != nil {
		return nil, newCauseError(op, KindUpload, 0, err)
	}

	resp, err := c.send(ctx, log, request{
		op:          op,
		method:      http.MethodPost,
		query:       actionQuery("upload", 0),
		body:        body,
		contentType: contentType,
	})
	if err != nil {
		return nil, err
	}
	return decodeAndClassify[UploadResponse](op, resp)
}

func multipartBody(path string, fields []FormField) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file_input", filepath.Base(path))
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("write file part: %w", err)
	}
	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
